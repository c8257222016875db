package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCodec_IssueVerifyRoundtrip(t *testing.T) {
	codec := NewCodec("test-secret", 24*time.Hour)
	now := time.Now()

	token, err := codec.Issue("a@x.com", now)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	subject, err := codec.Verify(token, now)
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", subject)
}

func TestCodec_Expired(t *testing.T) {
	codec := NewCodec("test-secret", 24*time.Hour)
	now := time.Now()

	token, err := codec.Issue("a@x.com", now)
	require.NoError(t, err)

	// За секунду до истечения токен еще валиден
	_, err = codec.Verify(token, now.Add(24*time.Hour-time.Second))
	assert.NoError(t, err)

	// После истечения — ErrInvalidToken
	_, err = codec.Verify(token, now.Add(24*time.Hour+time.Second))
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestCodec_TamperedToken(t *testing.T) {
	codec := NewCodec("test-secret", 24*time.Hour)
	now := time.Now()

	token, err := codec.Issue("a@x.com", now)
	require.NoError(t, err)

	// Переворачиваем один бит в середине payload
	raw := []byte(token)
	idx := len(raw) / 2
	if raw[idx] == '.' {
		idx++
	}
	raw[idx] ^= 0x01

	_, err = codec.Verify(string(raw), now)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestCodec_WrongKey(t *testing.T) {
	now := time.Now()

	token, err := NewCodec("secret-one", 24*time.Hour).Issue("a@x.com", now)
	require.NoError(t, err)

	_, err = NewCodec("secret-two", 24*time.Hour).Verify(token, now)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestCodec_Malformed(t *testing.T) {
	codec := NewCodec("test-secret", 24*time.Hour)
	now := time.Now()

	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"not a jwt", "garbage"},
		{"two parts", "aaaa.bbbb"},
		{"four parts", "a.b.c.d"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := codec.Verify(tt.token, now)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func TestCodec_ErrorsCollapseExternally(t *testing.T) {
	// Разные причины отказа снаружи выглядят одинаково,
	// при этом внутренняя причина сохраняется в тексте для логов
	codec := NewCodec("test-secret", time.Hour)
	now := time.Now()

	token, err := codec.Issue("a@x.com", now)
	require.NoError(t, err)

	_, errExpired := codec.Verify(token, now.Add(2*time.Hour))
	_, errMalformed := codec.Verify("garbage", now)

	assert.ErrorIs(t, errExpired, ErrInvalidToken)
	assert.ErrorIs(t, errMalformed, ErrInvalidToken)
	assert.NotEqual(t, errExpired.Error(), errMalformed.Error())
	assert.True(t, strings.HasPrefix(errExpired.Error(), ErrInvalidToken.Error()))
}
