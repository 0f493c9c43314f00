package service

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/scrypt"
)

// Параметры scrypt и формат хранения хэша: "hex(хэш).hex(соль)".
const (
	scryptN       = 16384
	scryptR       = 8
	scryptP       = 1
	scryptKeyLen  = 64
	scryptSaltLen = 16
)

// ErrInvalidHashFormat возвращается при повреждённом формате сохранённого хэша.
var ErrInvalidHashFormat = errors.New("некорректный формат хэша пароля")

// HashPassword хэширует пароль scrypt со случайной солью.
func HashPassword(password string) (string, error) {
	salt := make([]byte, scryptSaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("password: не удалось сгенерировать соль: %w", err)
	}

	hash, err := scrypt.Key([]byte(password), salt, scryptN, scryptR, scryptP, scryptKeyLen)
	if err != nil {
		return "", fmt.Errorf("password: не удалось вычислить хэш: %w", err)
	}

	return hex.EncodeToString(hash) + "." + hex.EncodeToString(salt), nil
}

// ComparePasswords сверяет пароль с сохранённым хэшем за постоянное время.
func ComparePasswords(stored, supplied string) (bool, error) {
	parts := strings.Split(stored, ".")
	if len(parts) != 2 {
		return false, ErrInvalidHashFormat
	}

	hash, err := hex.DecodeString(parts[0])
	if err != nil {
		return false, ErrInvalidHashFormat
	}
	salt, err := hex.DecodeString(parts[1])
	if err != nil {
		return false, ErrInvalidHashFormat
	}

	suppliedHash, err := scrypt.Key([]byte(supplied), salt, scryptN, scryptR, scryptP, scryptKeyLen)
	if err != nil {
		return false, fmt.Errorf("password: не удалось вычислить хэш: %w", err)
	}

	if len(hash) != len(suppliedHash) {
		return false, nil
	}
	return subtle.ConstantTimeCompare(hash, suppliedHash) == 1, nil
}
