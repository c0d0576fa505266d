package password

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetHash(t *testing.T) {
	hash, err := GetHash("secret1")
	require.NoError(t, err)

	// Хэш никогда не совпадает с исходным паролем
	assert.NotEqual(t, "secret1", hash)
	assert.NotEmpty(t, hash)
}

func TestCompareHash(t *testing.T) {
	hash, err := GetHash("secret1")
	require.NoError(t, err)

	tests := []struct {
		name     string
		password string
		wantErr  bool
	}{
		{
			name:     "корректный пароль",
			password: "secret1",
			wantErr:  false,
		},
		{
			name:     "неверный пароль",
			password: "wrong",
			wantErr:  true,
		},
		{
			name:     "пустой пароль",
			password: "",
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CompareHash(hash, tt.password)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
