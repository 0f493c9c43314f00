package repository

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

// Секции удаляются каскадом на уровне базы: репозиторию достаточно одного
// DELETE по шаблону, отдельной зачистки секций нет.
func TestTemplateRepository_Delete_SingleStatement(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTemplateRepository(db)

	mock.ExpectExec(`DELETE FROM templates WHERE id = \$1`).
		WithArgs(int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.Delete(context.Background(), 5); err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("ожидания к базе не выполнены: %v", err)
	}
}

func TestTemplateRepository_Delete_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTemplateRepository(db)

	mock.ExpectExec(`DELETE FROM templates WHERE id = \$1`).
		WithArgs(int64(99)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(context.Background(), 99)
	if !errors.Is(err, ErrTemplateNotFound) {
		t.Fatalf("ошибка = %v, ожидалась ErrTemplateNotFound", err)
	}
}

// Схема обязана объявлять каскад от шаблона к секциям, иначе одиночный
// DELETE из репозитория оставит осиротевшие секции.
func TestSchema_TemplateSectionsCascade(t *testing.T) {
	raw, err := os.ReadFile(filepath.Join("..", "..", "migrations", "0001_init.sql"))
	if err != nil {
		t.Fatalf("не удалось прочитать миграцию: %v", err)
	}

	re := regexp.MustCompile(`(?is)CREATE TABLE IF NOT EXISTS template_sections.*?\);`)
	table := re.FindString(string(raw))
	if table == "" {
		t.Fatal("таблица template_sections не найдена в миграции")
	}
	if !strings.Contains(table, "REFERENCES templates(id) ON DELETE CASCADE") {
		t.Error("внешний ключ секций должен объявлять ON DELETE CASCADE")
	}
}
