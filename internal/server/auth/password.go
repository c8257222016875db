package auth

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// HashPassword хеширует пароль через bcrypt со случайной солью
// Два вызова для одного пароля дают разные хеши
func HashPassword(plaintext string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcrypt.DefaultCost)
	if err != nil {
		// bcrypt ограничивает длину пароля 72 байтами
		return "", fmt.Errorf("failed to hash password: %w", err)
	}

	return string(hash), nil
}

// CheckPassword проверяет пароль против bcrypt хеша
// Возвращает false и на несовпадении, и на битом хеше:
// формат хеша не должен протекать наружу как отдельная ошибка
func CheckPassword(plaintext, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)) == nil
}
