package api

// ProfileResponse представляет публичный профиль пользователя
// Хеш пароля никогда не попадает в ответ
type ProfileResponse struct {
	Email       string `json:"email"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Role        string `json:"role"`
	DateCreated string `json:"dateCreated"`
	Message     string `json:"message,omitempty"` // заполняется при обновлении профиля
}

// UpdateProfileRequest представляет запрос на обновление профиля
// Все поля опциональны; смена пароля требует текущий пароль
type UpdateProfileRequest struct {
	FirstName       *string `json:"firstName,omitempty"`
	LastName        *string `json:"lastName,omitempty"`
	Email           *string `json:"email,omitempty"`
	CurrentPassword *string `json:"currentPassword,omitempty"`
	NewPassword     *string `json:"newPassword,omitempty"`
}

// DeleteAccountRequest представляет запрос на удаление аккаунта
// Пароль перепроверяется непосредственно перед удалением,
// даже при наличии валидного токена
type DeleteAccountRequest struct {
	Password string `json:"password"`
}
