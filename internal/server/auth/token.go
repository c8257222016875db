package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// tokenIssuer - значение claim iss выпускаемых токенов
const tokenIssuer = "gomarket"

// Claims представляет JWT claims токена
// Subject - email пользователя
type Claims struct {
	jwt.RegisteredClaims
}

// Codec выпускает и проверяет подписанные токены идентичности
// Ключ подписи загружается один раз при старте и не меняется
type Codec struct {
	secret []byte
	ttl    time.Duration
}

// NewCodec создает новый Codec
// secret должен быть криптографически стойкой случайной строкой
func NewCodec(secret string, ttl time.Duration) *Codec {
	return &Codec{
		secret: []byte(secret),
		ttl:    ttl,
	}
}

// TTL возвращает настроенное время жизни токена
func (c *Codec) TTL() time.Duration {
	return c.ttl
}

// Issue выпускает HS256 токен с subject и сроком действия now+ttl
func (c *Codec) Issue(subject string, now time.Time) (string, error) {
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    tokenIssuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return tokenString, nil
}

// Verify проверяет токен и возвращает его subject
// Любая причина отказа (битый формат, неверный алгоритм или подпись,
// истекший срок) сворачивается в ErrInvalidToken; конкретная причина
// остается внутри обернутой ошибки и предназначена только для логов
// Сравнение подписи внутри jwt/v5 выполняется за константное время
func (c *Codec) Verify(tokenString string, now time.Time) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{},
		func(token *jwt.Token) (interface{}, error) {
			// Принимаем только HMAC: токен с alg=none или RS256 не пройдет
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return c.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(func() time.Time { return now }),
	)

	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.Subject == "" {
		return "", fmt.Errorf("%w: empty or malformed claims", ErrInvalidToken)
	}

	return claims.Subject, nil
}
