package auth

import "errors"

// Ошибки аутентификации и авторизации
// Все они разрешаются на границе HTTP в 4xx ответ с нейтральным текстом
var (
	// ErrInvalidCredentials - неверный email или пароль
	// Намеренно не различает "нет такого пользователя" и "неверный пароль",
	// чтобы не раскрывать существование email
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrEmailTaken - email уже занят другим пользователем
	ErrEmailTaken = errors.New("email already taken")

	// ErrMissingToken - заголовок Authorization отсутствует или без префикса Bearer
	ErrMissingToken = errors.New("missing token")

	// ErrInvalidToken - токен не прошел проверку
	// Снаружи один вариант для битого формата, неверной подписи и истекшего
	// срока; конкретная причина остается внутри обернутой ошибки для логов
	ErrInvalidToken = errors.New("invalid token")

	// ErrUserNotFound - субъект токена больше не существует
	// Единственное место, где ловятся токены удаленных пользователей:
	// отзыва токенов нет, истечение — единственный механизм завершения
	ErrUserNotFound = errors.New("user not found")

	// ErrForbidden - роль пользователя не входит в разрешенный набор
	ErrForbidden = errors.New("forbidden")

	// ErrPasswordMismatch - текущий пароль не подтвержден
	// Возвращается при смене пароля и удалении аккаунта
	ErrPasswordMismatch = errors.New("password mismatch")
)
