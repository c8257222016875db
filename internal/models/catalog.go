package models

import "time"

// Category представляет категорию каталога
type Category struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Product представляет товар каталога
type Product struct {
	ID           int64     `json:"id"`
	SKU          string    `json:"sku"`  // уникальный артикул товара
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	UnitPrice    float64   `json:"unitPrice"`
	ImageURL     string    `json:"imageUrl"`
	Active       bool      `json:"active"`       // неактивные товары скрыты из выборки по категории
	UnitsInStock int       `json:"unitsInStock"` // остаток на складе
	CategoryID   int64     `json:"categoryId"`
	Category     *Category `json:"category,omitempty"` // заполняется при чтении
	DateCreated  time.Time `json:"dateCreated"`
	LastUpdated  time.Time `json:"lastUpdated"`
}
