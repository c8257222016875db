package handlers

import (
	"net/http"
	"strconv"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

// parsePage читает параметры page и size из query
// Некорректные значения сводятся к дефолтам: страницы с нуля,
// размер ограничен сверху maxPageSize
func parsePage(r *http.Request) (page, size int) {
	page = 0
	size = defaultPageSize

	if v := r.URL.Query().Get("page"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			page = n
		}
	}

	if v := r.URL.Query().Get("size"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			size = n
		}
	}

	if size > maxPageSize {
		size = maxPageSize
	}

	return page, size
}
