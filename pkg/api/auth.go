package api

// RegisterRequest представляет запрос на регистрацию нового пользователя
type RegisterRequest struct {
	Email     string `json:"email"`     // email пользователя
	Password  string `json:"password"`  // пароль в открытом виде (хешируется на сервере)
	FirstName string `json:"firstName"` // имя
	LastName  string `json:"lastName"`  // фамилия
}

// LoginRequest представляет запрос на аутентификацию
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse представляет ответ на успешный вход
// Форма повторяет JwtResponse исходного API: токен плюс публичный профиль
type LoginResponse struct {
	Token     string `json:"token"`     // JWT access token
	Type      string `json:"type"`      // всегда "Bearer"
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Role      string `json:"role"`
}

// MessageResponse представляет ответ с информационным сообщением
type MessageResponse struct {
	Message string `json:"message"`
}

// ErrorResponse представляет ответ с ошибкой
type ErrorResponse struct {
	Error   string `json:"error"`             // описание ошибки
	Message string `json:"message,omitempty"` // дополнительное сообщение
}
