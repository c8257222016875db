package api

// Page представляет страницу выборки
// Форма полей повторяет постраничный ответ исходного API,
// который потребляет существующий фронтенд
type Page[T any] struct {
	Content       []T   `json:"content"`       // элементы текущей страницы
	TotalElements int64 `json:"totalElements"` // всего элементов в выборке
	TotalPages    int   `json:"totalPages"`    // всего страниц
	Size          int   `json:"size"`          // запрошенный размер страницы
	Number        int   `json:"number"`        // номер текущей страницы (с нуля)
}

// NewPage собирает страницу из элементов выборки и общего счетчика
func NewPage[T any](content []T, total int64, page, size int) Page[T] {
	totalPages := int(total) / size
	if int(total)%size != 0 {
		totalPages++
	}
	if content == nil {
		content = []T{}
	}
	return Page[T]{
		Content:       content,
		TotalElements: total,
		TotalPages:    totalPages,
		Size:          size,
		Number:        page,
	}
}

// ProductRequest представляет запрос на создание или обновление товара
type ProductRequest struct {
	SKU          string  `json:"sku"`
	Name         string  `json:"name"`
	Description  string  `json:"description"`
	UnitPrice    float64 `json:"unitPrice"`
	ImageURL     string  `json:"imageUrl"`
	Active       bool    `json:"active"`
	UnitsInStock int     `json:"unitsInStock"`
	CategoryID   int64   `json:"categoryId"`
}

// CategoryRequest представляет запрос на создание или обновление категории
type CategoryRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}
