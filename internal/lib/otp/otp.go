// Package otp реализует генерацию одноразовых числовых кодов подтверждения.
//
// GenerateCode возвращает 6-значный код, равномерно распределённый в
// диапазоне 100000–999999, пригодный для отправки по почте.
package otp

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

const (
	codeMin = 100000
	codeMax = 999999
)

// GenerateCode возвращает случайный 6-значный числовой код.
//
// Используется crypto/rand, распределение равномерное по всему диапазону.
func GenerateCode() (string, error) {
	const op = "otp.GenerateCode"
	n, err := rand.Int(rand.Reader, big.NewInt(codeMax-codeMin+1))
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return fmt.Sprintf("%06d", codeMin+n.Int64()), nil
}
