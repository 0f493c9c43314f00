package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/ignatzorin/proposalpro-backend/internal/models"
)

// ErrUserNotFound возвращается, когда пользователь не найден.
var ErrUserNotFound = errors.New("пользователь не найден")

// ErrSessionNotFound возвращается, когда refresh сессия не найдена.
var ErrSessionNotFound = errors.New("сессия не найдена")

// UserRepository управляет пользователями и их сессиями в PostgreSQL.
type UserRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create сохраняет нового пользователя и возвращает его с присвоенным id.
func (r *UserRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	query := `
		INSERT INTO users (username, email, password_hash, full_name, role)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`
	err := r.db.QueryRowxContext(ctx, query,
		user.Username, user.Email, user.PasswordHash, user.FullName, user.Role,
	).Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("user repository: не удалось создать пользователя: %w", err)
	}
	return user, nil
}

// GetByID возвращает пользователя по идентификатору.
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	var user models.User
	err := r.db.GetContext(ctx, &user, `SELECT * FROM users WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("user repository: не удалось получить пользователя: %w", err)
	}
	return &user, nil
}

// GetByUsername возвращает пользователя по имени.
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	err := r.db.GetContext(ctx, &user, `SELECT * FROM users WHERE username = $1`, username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("user repository: не удалось получить пользователя по имени: %w", err)
	}
	return &user, nil
}

// GetByEmail возвращает пользователя по адресу электронной почты.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.db.GetContext(ctx, &user, `SELECT * FROM users WHERE email = $1`, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("user repository: не удалось получить пользователя по email: %w", err)
	}
	return &user, nil
}

// CreateSession сохраняет refresh сессию пользователя.
func (r *UserRepository) CreateSession(ctx context.Context, session *models.Session) error {
	query := `
		INSERT INTO sessions (user_id, token_id, expires_at)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`
	err := r.db.QueryRowxContext(ctx, query,
		session.UserID, session.TokenID, session.ExpiresAt,
	).Scan(&session.ID, &session.CreatedAt)
	if err != nil {
		return fmt.Errorf("user repository: не удалось создать сессию: %w", err)
	}
	return nil
}

// GetSessionByTokenID возвращает сессию по идентификатору refresh токена.
func (r *UserRepository) GetSessionByTokenID(ctx context.Context, tokenID string) (*models.Session, error) {
	var session models.Session
	err := r.db.GetContext(ctx, &session, `SELECT * FROM sessions WHERE token_id = $1`, tokenID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("user repository: не удалось получить сессию: %w", err)
	}
	return &session, nil
}

// DeleteSession удаляет сессию по идентификатору refresh токена.
func (r *UserRepository) DeleteSession(ctx context.Context, tokenID string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE token_id = $1`, tokenID)
	if err != nil {
		return fmt.Errorf("user repository: не удалось удалить сессию: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("user repository: не удалось получить количество удалённых строк: %w", err)
	}
	if rows == 0 {
		return ErrSessionNotFound
	}
	return nil
}

// DeleteExpiredSessions удаляет все просроченные сессии.
func (r *UserRepository) DeleteExpiredSessions(ctx context.Context) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE expires_at < $1`, time.Now())
	if err != nil {
		return 0, fmt.Errorf("user repository: не удалось удалить просроченные сессии: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("user repository: не удалось получить количество удалённых строк: %w", err)
	}
	return rows, nil
}
