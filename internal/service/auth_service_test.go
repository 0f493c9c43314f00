package service

import (
	"context"
	"testing"
	"time"

	"github.com/ignatzorin/proposalpro-backend/internal/models"
	"github.com/ignatzorin/proposalpro-backend/internal/pkg/apperror"
	"github.com/ignatzorin/proposalpro-backend/internal/repository"
)

// mockAuthRepository — хранилище в памяти для тестов AuthService.
type mockAuthRepository struct {
	users    map[int64]*models.User
	sessions map[string]*models.Session
	nextID   int64
}

func newMockAuthRepository() *mockAuthRepository {
	return &mockAuthRepository{
		users:    make(map[int64]*models.User),
		sessions: make(map[string]*models.Session),
		nextID:   1,
	}
}

func (m *mockAuthRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	user.ID = m.nextID
	user.CreatedAt = time.Now()
	m.nextID++
	m.users[user.ID] = user
	return user, nil
}

func (m *mockAuthRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	if user, ok := m.users[id]; ok {
		return user, nil
	}
	return nil, repository.ErrUserNotFound
}

func (m *mockAuthRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	for _, user := range m.users {
		if user.Username == username {
			return user, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (m *mockAuthRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, user := range m.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (m *mockAuthRepository) CreateSession(ctx context.Context, session *models.Session) error {
	m.sessions[session.TokenID] = session
	return nil
}

func (m *mockAuthRepository) GetSessionByTokenID(ctx context.Context, tokenID string) (*models.Session, error) {
	if session, ok := m.sessions[tokenID]; ok {
		return session, nil
	}
	return nil, repository.ErrSessionNotFound
}

func (m *mockAuthRepository) DeleteSession(ctx context.Context, tokenID string) error {
	if _, ok := m.sessions[tokenID]; !ok {
		return repository.ErrSessionNotFound
	}
	delete(m.sessions, tokenID)
	return nil
}

func (m *mockAuthRepository) DeleteExpiredSessions(ctx context.Context) (int64, error) {
	var deleted int64
	now := time.Now()
	for tokenID, session := range m.sessions {
		if session.ExpiresAt.Before(now) {
			delete(m.sessions, tokenID)
			deleted++
		}
	}
	return deleted, nil
}

func newTestAuthService(repo AuthRepository) *AuthService {
	tm := NewTokenManager("test-access-secret", "test-refresh-secret", 15*time.Minute, 7*24*time.Hour)
	return NewAuthService(repo, tm)
}

func TestAuthService_Register(t *testing.T) {
	repo := newMockAuthRepository()
	svc := newTestAuthService(repo)

	result, err := svc.Register(context.Background(), models.UserCreateInput{
		Username: "ivan",
		Email:    "Ivan@Example.com",
		Password: "secret123",
		FullName: "Иван Петров",
	})
	if err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}

	if result.User.ID == 0 {
		t.Error("пользователю не присвоен id")
	}
	if result.User.Email != "ivan@example.com" {
		t.Errorf("email не приведён к нижнему регистру: %q", result.User.Email)
	}
	if result.User.Role != models.RoleUser {
		t.Errorf("роль = %q, ожидалась %q", result.User.Role, models.RoleUser)
	}
	if result.User.PasswordHash == "secret123" {
		t.Error("пароль сохранён в открытом виде")
	}
	if result.TokenPair.AccessToken == "" || result.TokenPair.RefreshToken == "" {
		t.Error("токены не выпущены")
	}
	if len(repo.sessions) != 1 {
		t.Errorf("ожидалась 1 сессия, создано %d", len(repo.sessions))
	}
}

func TestAuthService_Register_DuplicateUsername(t *testing.T) {
	repo := newMockAuthRepository()
	svc := newTestAuthService(repo)

	input := models.UserCreateInput{
		Username: "ivan",
		Email:    "ivan@example.com",
		Password: "secret123",
	}
	if _, err := svc.Register(context.Background(), input); err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}

	input.Email = "other@example.com"
	_, err := svc.Register(context.Background(), input)
	if err == nil {
		t.Fatal("ожидалась ошибка повторной регистрации")
	}
}

func TestAuthService_Register_DuplicateEmail(t *testing.T) {
	repo := newMockAuthRepository()
	svc := newTestAuthService(repo)

	input := models.UserCreateInput{
		Username: "ivan",
		Email:    "ivan@example.com",
		Password: "secret123",
	}
	if _, err := svc.Register(context.Background(), input); err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}

	input.Username = "petr"
	input.Email = "IVAN@example.com" // регистр не должен обходить уникальность
	_, err := svc.Register(context.Background(), input)
	if err == nil {
		t.Fatal("ожидалась ошибка повторной регистрации по email")
	}
}

func TestAuthService_Register_InvalidInput(t *testing.T) {
	svc := newTestAuthService(newMockAuthRepository())

	_, err := svc.Register(context.Background(), models.UserCreateInput{
		Username: "x",
		Email:    "bad",
		Password: "short",
	})
	if !apperror.IsValidation(err) {
		t.Fatalf("ожидалась ошибка валидации, получено: %v", err)
	}
}

func TestAuthService_Login(t *testing.T) {
	repo := newMockAuthRepository()
	svc := newTestAuthService(repo)

	if _, err := svc.Register(context.Background(), models.UserCreateInput{
		Username: "ivan",
		Email:    "ivan@example.com",
		Password: "secret123",
	}); err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}

	result, err := svc.Login(context.Background(), LoginInput{Username: "ivan", Password: "secret123"})
	if err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}
	if result.TokenPair.AccessToken == "" {
		t.Error("access токен не выпущен")
	}
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	repo := newMockAuthRepository()
	svc := newTestAuthService(repo)

	if _, err := svc.Register(context.Background(), models.UserCreateInput{
		Username: "ivan",
		Email:    "ivan@example.com",
		Password: "secret123",
	}); err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}

	sessionsBefore := len(repo.sessions)
	_, err := svc.Login(context.Background(), LoginInput{Username: "ivan", Password: "wrong-pass1"})
	if err == nil {
		t.Fatal("ожидалась ошибка неверного пароля")
	}
	if len(repo.sessions) != sessionsBefore {
		t.Error("при неудачном входе не должна создаваться сессия")
	}
}

func TestAuthService_Login_UnknownUsername(t *testing.T) {
	repo := newMockAuthRepository()
	svc := newTestAuthService(repo)

	_, err := svc.Login(context.Background(), LoginInput{Username: "ghost", Password: "secret123"})
	if err == nil {
		t.Fatal("ожидалась ошибка неизвестного пользователя")
	}
	if len(repo.sessions) != 0 {
		t.Error("при неудачном входе не должна создаваться сессия")
	}
}

func TestAuthService_Refresh_RotatesSession(t *testing.T) {
	repo := newMockAuthRepository()
	svc := newTestAuthService(repo)

	result, err := svc.Register(context.Background(), models.UserCreateInput{
		Username: "ivan",
		Email:    "ivan@example.com",
		Password: "secret123",
	})
	if err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}

	oldToken := result.TokenPair.RefreshToken
	newPair, err := svc.Refresh(context.Background(), oldToken)
	if err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}
	if newPair.RefreshToken == oldToken {
		t.Error("refresh токен не ротирован")
	}

	// Повторное использование старого токена должно быть отклонено.
	if _, err := svc.Refresh(context.Background(), oldToken); err == nil {
		t.Error("ожидалась ошибка повторного использования refresh токена")
	}
}

func TestAuthService_Logout(t *testing.T) {
	repo := newMockAuthRepository()
	svc := newTestAuthService(repo)

	result, err := svc.Register(context.Background(), models.UserCreateInput{
		Username: "ivan",
		Email:    "ivan@example.com",
		Password: "secret123",
	})
	if err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}

	if err := svc.Logout(context.Background(), result.TokenPair.RefreshToken); err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}
	if len(repo.sessions) != 0 {
		t.Errorf("сессия не удалена, осталось %d", len(repo.sessions))
	}

	// Повторный выход с тем же токеном не является ошибкой.
	if err := svc.Logout(context.Background(), result.TokenPair.RefreshToken); err != nil {
		t.Errorf("повторный выход вернул ошибку: %v", err)
	}
}

func TestAuthService_SweepExpiredSessions(t *testing.T) {
	repo := newMockAuthRepository()
	svc := newTestAuthService(repo)

	repo.sessions["expired"] = &models.Session{
		UserID:    1,
		TokenID:   "expired",
		ExpiresAt: time.Now().Add(-time.Hour),
	}
	repo.sessions["active"] = &models.Session{
		UserID:    1,
		TokenID:   "active",
		ExpiresAt: time.Now().Add(time.Hour),
	}

	svc.sweepExpiredSessions(context.Background())

	if _, ok := repo.sessions["expired"]; ok {
		t.Error("просроченная сессия не удалена")
	}
	if _, ok := repo.sessions["active"]; !ok {
		t.Error("действующая сессия удалена по ошибке")
	}
}
