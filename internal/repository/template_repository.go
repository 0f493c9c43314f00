package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/ignatzorin/proposalpro-backend/internal/models"
)

// ErrTemplateNotFound возвращается, когда шаблон не найден.
var ErrTemplateNotFound = errors.New("шаблон не найден")

// ErrSectionNotFound возвращается, когда секция шаблона не найдена.
var ErrSectionNotFound = errors.New("секция шаблона не найдена")

// TemplateRepository управляет шаблонами и их секциями в PostgreSQL.
type TemplateRepository struct {
	db *sqlx.DB
}

func NewTemplateRepository(db *sqlx.DB) *TemplateRepository {
	return &TemplateRepository{db: db}
}

// Create сохраняет новый шаблон.
func (r *TemplateRepository) Create(ctx context.Context, template *models.Template) (*models.Template, error) {
	query := `
		INSERT INTO templates (name, description, category, image_url, is_popular)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRowxContext(ctx, query,
		template.Name, template.Description, template.Category, template.ImageURL, template.IsPopular,
	).Scan(&template.ID, &template.CreatedAt, &template.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("template repository: не удалось создать шаблон: %w", err)
	}
	return template, nil
}

// GetByID возвращает шаблон вместе с секциями, упорядоченными по позиции.
func (r *TemplateRepository) GetByID(ctx context.Context, id int64) (*models.Template, error) {
	var template models.Template
	err := r.db.GetContext(ctx, &template, `SELECT * FROM templates WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTemplateNotFound
		}
		return nil, fmt.Errorf("template repository: не удалось получить шаблон: %w", err)
	}

	sections, err := r.ListSections(ctx, id)
	if err != nil {
		return nil, err
	}
	template.Sections = sections
	return &template, nil
}

// List возвращает все шаблоны. При непустой категории список фильтруется.
func (r *TemplateRepository) List(ctx context.Context, category string) ([]models.Template, error) {
	templates := []models.Template{}
	if category != "" {
		query := `SELECT * FROM templates WHERE category = $1 ORDER BY created_at DESC`
		if err := r.db.SelectContext(ctx, &templates, query, category); err != nil {
			return nil, fmt.Errorf("template repository: не удалось получить шаблоны по категории: %w", err)
		}
		return templates, nil
	}
	if err := r.db.SelectContext(ctx, &templates, `SELECT * FROM templates ORDER BY created_at DESC`); err != nil {
		return nil, fmt.Errorf("template repository: не удалось получить список шаблонов: %w", err)
	}
	return templates, nil
}

// ListPopular возвращает шаблоны, отмеченные как популярные.
func (r *TemplateRepository) ListPopular(ctx context.Context) ([]models.Template, error) {
	templates := []models.Template{}
	query := `SELECT * FROM templates WHERE is_popular = TRUE ORDER BY created_at DESC`
	if err := r.db.SelectContext(ctx, &templates, query); err != nil {
		return nil, fmt.Errorf("template repository: не удалось получить популярные шаблоны: %w", err)
	}
	return templates, nil
}

// Update частично обновляет шаблон.
func (r *TemplateRepository) Update(ctx context.Context, id int64, input models.TemplateUpdateInput) (*models.Template, error) {
	setParts := []string{}
	args := []interface{}{}
	argNum := 1

	addSet := func(column string, value interface{}) {
		setParts = append(setParts, fmt.Sprintf("%s = $%d", column, argNum))
		args = append(args, value)
		argNum++
	}

	if input.Name != nil {
		addSet("name", *input.Name)
	}
	if input.Description != nil {
		addSet("description", *input.Description)
	}
	if input.Category != nil {
		addSet("category", *input.Category)
	}
	if input.ImageURL != nil {
		addSet("image_url", *input.ImageURL)
	}
	if input.IsPopular != nil {
		addSet("is_popular", *input.IsPopular)
	}

	if len(setParts) == 0 {
		return r.GetByID(ctx, id)
	}

	setParts = append(setParts, "updated_at = NOW()")
	args = append(args, id)
	query := fmt.Sprintf(`UPDATE templates SET %s WHERE id = $%d RETURNING *`, strings.Join(setParts, ", "), argNum)

	var template models.Template
	if err := r.db.GetContext(ctx, &template, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTemplateNotFound
		}
		return nil, fmt.Errorf("template repository: не удалось обновить шаблон: %w", err)
	}
	return &template, nil
}

// Delete удаляет шаблон. Секции удаляются каскадно на уровне базы.
func (r *TemplateRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM templates WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("template repository: не удалось удалить шаблон: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("template repository: не удалось получить количество удалённых строк: %w", err)
	}
	if rows == 0 {
		return ErrTemplateNotFound
	}
	return nil
}

// ListSections возвращает секции шаблона, упорядоченные по позиции.
func (r *TemplateRepository) ListSections(ctx context.Context, templateID int64) ([]models.TemplateSection, error) {
	sections := []models.TemplateSection{}
	query := `SELECT * FROM template_sections WHERE template_id = $1 ORDER BY position ASC, id ASC`
	if err := r.db.SelectContext(ctx, &sections, query, templateID); err != nil {
		return nil, fmt.Errorf("template repository: не удалось получить секции шаблона: %w", err)
	}
	return sections, nil
}

// CreateSection добавляет секцию к шаблону.
func (r *TemplateRepository) CreateSection(ctx context.Context, section *models.TemplateSection) (*models.TemplateSection, error) {
	// Родительский шаблон должен существовать, иначе отдаём «не найдено».
	var exists bool
	if err := r.db.GetContext(ctx, &exists, `SELECT EXISTS(SELECT 1 FROM templates WHERE id = $1)`, section.TemplateID); err != nil {
		return nil, fmt.Errorf("template repository: не удалось проверить существование шаблона: %w", err)
	}
	if !exists {
		return nil, ErrTemplateNotFound
	}

	query := `
		INSERT INTO template_sections (template_id, title, content, position)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`
	err := r.db.QueryRowxContext(ctx, query,
		section.TemplateID, section.Title, section.Content, section.Position,
	).Scan(&section.ID, &section.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("template repository: не удалось создать секцию: %w", err)
	}
	return section, nil
}

// UpdateSection частично обновляет секцию шаблона.
func (r *TemplateRepository) UpdateSection(ctx context.Context, id int64, input models.SectionUpdateInput) (*models.TemplateSection, error) {
	setParts := []string{}
	args := []interface{}{}
	argNum := 1

	addSet := func(column string, value interface{}) {
		setParts = append(setParts, fmt.Sprintf("%s = $%d", column, argNum))
		args = append(args, value)
		argNum++
	}

	if input.Title != nil {
		addSet("title", *input.Title)
	}
	if input.Content != nil {
		addSet("content", *input.Content)
	}
	if input.Position != nil {
		addSet("position", *input.Position)
	}

	if len(setParts) == 0 {
		var section models.TemplateSection
		if err := r.db.GetContext(ctx, &section, `SELECT * FROM template_sections WHERE id = $1`, id); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, ErrSectionNotFound
			}
			return nil, fmt.Errorf("template repository: не удалось получить секцию: %w", err)
		}
		return &section, nil
	}

	args = append(args, id)
	query := fmt.Sprintf(`UPDATE template_sections SET %s WHERE id = $%d RETURNING *`, strings.Join(setParts, ", "), argNum)

	var section models.TemplateSection
	if err := r.db.GetContext(ctx, &section, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSectionNotFound
		}
		return nil, fmt.Errorf("template repository: не удалось обновить секцию: %w", err)
	}
	return &section, nil
}

// DeleteSection удаляет секцию шаблона.
func (r *TemplateRepository) DeleteSection(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM template_sections WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("template repository: не удалось удалить секцию: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("template repository: не удалось получить количество удалённых строк: %w", err)
	}
	if rows == 0 {
		return ErrSectionNotFound
	}
	return nil
}
