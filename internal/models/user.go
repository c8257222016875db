package models

import "time"

// Role представляет роль пользователя в системе
type Role string

const (
	// RoleOrdinaryUser обычный покупатель, роль по умолчанию при регистрации
	RoleOrdinaryUser Role = "ORDINARY_USER"
	// RoleAdministrator администратор, может изменять каталог и статусы заказов
	RoleAdministrator Role = "ADMINISTRATOR"
)

// Valid проверяет, что роль является одной из известных
func (r Role) Valid() bool {
	return r == RoleOrdinaryUser || r == RoleAdministrator
}

// User представляет пользователя в системе
// PasswordHash никогда не сериализуется в ответы API
type User struct {
	ID           string    `json:"id"`          // UUID пользователя
	Email        string    `json:"email"`       // уникальный email (точное совпадение, case-sensitive)
	PasswordHash string    `json:"-"`           // bcrypt хеш пароля
	FirstName    string    `json:"firstName"`   // имя
	LastName     string    `json:"lastName"`    // фамилия
	Role         Role      `json:"role"`        // роль пользователя
	CreatedAt    time.Time `json:"dateCreated"` // время создания
	UpdatedAt    time.Time `json:"lastUpdated"` // время последнего обновления
}
