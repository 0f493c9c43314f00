package service

import (
	"strings"
	"testing"
)

func TestHashPassword_Format(t *testing.T) {
	hash, err := HashPassword("secret123")
	if err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}

	parts := strings.Split(hash, ".")
	if len(parts) != 2 {
		t.Fatalf("ожидался формат hash.salt, получено: %q", hash)
	}
	if len(parts[0]) != scryptKeyLen*2 {
		t.Errorf("длина хэша %d, ожидалось %d", len(parts[0]), scryptKeyLen*2)
	}
	if len(parts[1]) != scryptSaltLen*2 {
		t.Errorf("длина соли %d, ожидалось %d", len(parts[1]), scryptSaltLen*2)
	}
}

func TestHashPassword_UniqueSalt(t *testing.T) {
	first, err := HashPassword("secret123")
	if err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}
	second, err := HashPassword("secret123")
	if err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}
	if first == second {
		t.Error("хэши одного пароля должны отличаться из-за случайной соли")
	}
}

func TestComparePasswords(t *testing.T) {
	hash, err := HashPassword("secret123")
	if err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}

	ok, err := ComparePasswords(hash, "secret123")
	if err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}
	if !ok {
		t.Error("верный пароль не прошёл проверку")
	}

	ok, err = ComparePasswords(hash, "wrong-password")
	if err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}
	if ok {
		t.Error("неверный пароль прошёл проверку")
	}
}

func TestComparePasswords_BrokenFormat(t *testing.T) {
	for _, stored := range []string{"", "nodot", "zz.zz", "abc.def.ghi"} {
		if _, err := ComparePasswords(stored, "secret123"); err == nil {
			t.Errorf("ожидалась ошибка для повреждённого хэша %q", stored)
		}
	}
}
