package handlers

import (
	"context"
	"io"
	"log/slog"
	"sort"
	"strings"

	"github.com/antonk9218/gomarket/internal/models"
	"github.com/antonk9218/gomarket/internal/server/storage"
)

func setupTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// mockUserStorage - хранилище пользователей в памяти
type mockUserStorage struct {
	users map[string]*models.User // email -> user
}

func newMockUserStorage() *mockUserStorage {
	return &mockUserStorage{users: make(map[string]*models.User)}
}

func (m *mockUserStorage) CreateUser(_ context.Context, user *models.User) error {
	if _, ok := m.users[user.Email]; ok {
		return storage.ErrUserAlreadyExists
	}
	u := *user
	m.users[user.Email] = &u
	return nil
}

func (m *mockUserStorage) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	user, ok := m.users[email]
	if !ok {
		return nil, storage.ErrUserNotFound
	}
	u := *user
	return &u, nil
}

func (m *mockUserStorage) GetUserByID(_ context.Context, id string) (*models.User, error) {
	for _, user := range m.users {
		if user.ID == id {
			u := *user
			return &u, nil
		}
	}
	return nil, storage.ErrUserNotFound
}

func (m *mockUserStorage) ExistsByEmail(_ context.Context, email string) (bool, error) {
	_, ok := m.users[email]
	return ok, nil
}

func (m *mockUserStorage) UpdateUser(_ context.Context, user *models.User) error {
	var current *models.User
	for _, u := range m.users {
		if u.ID == user.ID {
			current = u
			break
		}
	}
	if current == nil {
		return storage.ErrUserNotFound
	}

	// UNIQUE constraint на email
	if existing, ok := m.users[user.Email]; ok && existing.ID != user.ID {
		return storage.ErrUserAlreadyExists
	}

	delete(m.users, current.Email)
	u := *user
	m.users[user.Email] = &u
	return nil
}

func (m *mockUserStorage) DeleteUser(_ context.Context, id string) error {
	for email, user := range m.users {
		if user.ID == id {
			delete(m.users, email)
			return nil
		}
	}
	return storage.ErrUserNotFound
}

// mockCategoryStorage - хранилище категорий в памяти
type mockCategoryStorage struct {
	categories map[int64]*models.Category
	nextID     int64
}

func newMockCategoryStorage() *mockCategoryStorage {
	return &mockCategoryStorage{categories: make(map[int64]*models.Category), nextID: 1}
}

func (m *mockCategoryStorage) CreateCategory(_ context.Context, category *models.Category) error {
	category.ID = m.nextID
	m.nextID++
	c := *category
	m.categories[category.ID] = &c
	return nil
}

func (m *mockCategoryStorage) GetCategoryByID(_ context.Context, id int64) (*models.Category, error) {
	category, ok := m.categories[id]
	if !ok {
		return nil, storage.ErrCategoryNotFound
	}
	c := *category
	return &c, nil
}

func (m *mockCategoryStorage) ListCategories(_ context.Context) ([]models.Category, error) {
	out := make([]models.Category, 0, len(m.categories))
	for _, c := range m.categories {
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *mockCategoryStorage) UpdateCategory(_ context.Context, category *models.Category) error {
	if _, ok := m.categories[category.ID]; !ok {
		return storage.ErrCategoryNotFound
	}
	c := *category
	m.categories[category.ID] = &c
	return nil
}

func (m *mockCategoryStorage) DeleteCategory(_ context.Context, id int64) error {
	if _, ok := m.categories[id]; !ok {
		return storage.ErrCategoryNotFound
	}
	delete(m.categories, id)
	return nil
}

// mockProductStorage - хранилище товаров в памяти
type mockProductStorage struct {
	products map[int64]*models.Product
	nextID   int64
}

func newMockProductStorage() *mockProductStorage {
	return &mockProductStorage{products: make(map[int64]*models.Product), nextID: 1}
}

func (m *mockProductStorage) CreateProduct(_ context.Context, product *models.Product) error {
	for _, p := range m.products {
		if p.SKU == product.SKU {
			return storage.ErrSKUAlreadyExists
		}
	}
	product.ID = m.nextID
	m.nextID++
	p := *product
	m.products[product.ID] = &p
	return nil
}

func (m *mockProductStorage) GetProductByID(_ context.Context, id int64) (*models.Product, error) {
	product, ok := m.products[id]
	if !ok {
		return nil, storage.ErrProductNotFound
	}
	p := *product
	return &p, nil
}

// sorted возвращает товары в порядке возрастания ID
func (m *mockProductStorage) sorted() []models.Product {
	out := make([]models.Product, 0, len(m.products))
	for _, p := range m.products {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func paginate(products []models.Product, page, size int) []models.Product {
	start := page * size
	if start >= len(products) {
		return nil
	}
	end := start + size
	if end > len(products) {
		end = len(products)
	}
	return products[start:end]
}

func (m *mockProductStorage) ListProducts(_ context.Context, page, size int, sortBy storage.ProductSort) ([]models.Product, int64, error) {
	all := m.sorted()
	return paginate(all, page, size), int64(len(all)), nil
}

func (m *mockProductStorage) ListProductsByCategory(_ context.Context, categoryID int64, page, size int) ([]models.Product, int64, error) {
	var filtered []models.Product
	for _, p := range m.sorted() {
		if p.CategoryID == categoryID && p.Active {
			filtered = append(filtered, p)
		}
	}
	return paginate(filtered, page, size), int64(len(filtered)), nil
}

func (m *mockProductStorage) SearchProducts(_ context.Context, keyword string, page, size int) ([]models.Product, int64, error) {
	var filtered []models.Product
	for _, p := range m.sorted() {
		if strings.Contains(strings.ToLower(p.Name), strings.ToLower(keyword)) {
			filtered = append(filtered, p)
		}
	}
	return paginate(filtered, page, size), int64(len(filtered)), nil
}

func (m *mockProductStorage) UpdateProduct(_ context.Context, product *models.Product) error {
	if _, ok := m.products[product.ID]; !ok {
		return storage.ErrProductNotFound
	}
	p := *product
	m.products[product.ID] = &p
	return nil
}

func (m *mockProductStorage) DeleteProduct(_ context.Context, id int64) error {
	if _, ok := m.products[id]; !ok {
		return storage.ErrProductNotFound
	}
	delete(m.products, id)
	return nil
}

func (m *mockProductStorage) AdjustStock(_ context.Context, id int64, delta int) error {
	product, ok := m.products[id]
	if !ok {
		return storage.ErrProductNotFound
	}
	if product.UnitsInStock+delta < 0 {
		return storage.ErrInsufficientStock
	}
	product.UnitsInStock += delta
	return nil
}

// mockOrderStorage - хранилище заказов в памяти
type mockOrderStorage struct {
	orders   map[int64]*models.Order
	products *mockProductStorage
	nextID   int64
}

func newMockOrderStorage(products *mockProductStorage) *mockOrderStorage {
	return &mockOrderStorage{
		orders:   make(map[int64]*models.Order),
		products: products,
		nextID:   1,
	}
}

func (m *mockOrderStorage) CreateOrder(ctx context.Context, order *models.Order) error {
	totalPrice := 0.0
	totalQuantity := 0

	for i := range order.Items {
		item := &order.Items[i]
		product, ok := m.products.products[item.ProductID]
		if !ok {
			return storage.ErrProductNotFound
		}
		if product.UnitsInStock < item.Quantity {
			return storage.ErrInsufficientStock
		}
	}

	// Все позиции проверены, списываем
	for i := range order.Items {
		item := &order.Items[i]
		product := m.products.products[item.ProductID]
		product.UnitsInStock -= item.Quantity
		item.Name = product.Name
		item.UnitPrice = product.UnitPrice
		totalPrice += product.UnitPrice * float64(item.Quantity)
		totalQuantity += item.Quantity
	}

	order.ID = m.nextID
	m.nextID++
	order.TotalPrice = totalPrice
	order.TotalQuantity = totalQuantity

	o := *order
	m.orders[order.ID] = &o
	return nil
}

func (m *mockOrderStorage) GetOrderByID(_ context.Context, id int64) (*models.Order, error) {
	order, ok := m.orders[id]
	if !ok {
		return nil, storage.ErrOrderNotFound
	}
	o := *order
	return &o, nil
}

func (m *mockOrderStorage) GetOrderByTrackingNumber(_ context.Context, trackingNumber string) (*models.Order, error) {
	for _, order := range m.orders {
		if order.OrderTrackingNumber == trackingNumber {
			o := *order
			return &o, nil
		}
	}
	return nil, storage.ErrOrderNotFound
}

func (m *mockOrderStorage) ListOrdersByUser(_ context.Context, userID string) ([]models.Order, error) {
	var out []models.Order
	for _, order := range m.orders {
		if order.UserID == userID {
			out = append(out, *order)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (m *mockOrderStorage) UpdateOrderStatus(_ context.Context, id int64, status models.OrderStatus) error {
	order, ok := m.orders[id]
	if !ok {
		return storage.ErrOrderNotFound
	}
	order.Status = status
	return nil
}
