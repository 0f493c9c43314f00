package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/ignatzorin/proposalpro-backend/internal/goroutine"
	"github.com/ignatzorin/proposalpro-backend/internal/logger"
	"github.com/ignatzorin/proposalpro-backend/internal/models"
	"github.com/ignatzorin/proposalpro-backend/internal/pkg/apperror"
	"github.com/ignatzorin/proposalpro-backend/internal/repository"
	"github.com/ignatzorin/proposalpro-backend/internal/validation"
)

// AuthRepository описывает зависимости AuthService от слоя хранилища.
type AuthRepository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	CreateSession(ctx context.Context, session *models.Session) error
	GetSessionByTokenID(ctx context.Context, tokenID string) (*models.Session, error)
	DeleteSession(ctx context.Context, tokenID string) error
	DeleteExpiredSessions(ctx context.Context) (int64, error)
}

// AuthService инкапсулирует бизнес-логику регистрации и аутентификации.
type AuthService struct {
	repo         AuthRepository
	tokenManager *TokenManager
}

// LoginInput содержит данные для входа.
type LoginInput struct {
	Username string
	Password string
}

// AuthResult возвращает итог регистрации или авторизации.
type AuthResult struct {
	User      *models.User
	TokenPair *TokenPair
}

// NewAuthService создаёт сервис аутентификации.
func NewAuthService(repo AuthRepository, tokenManager *TokenManager) *AuthService {
	return &AuthService{
		repo:         repo,
		tokenManager: tokenManager,
	}
}

// Register создаёт нового пользователя.
func (s *AuthService) Register(ctx context.Context, in models.UserCreateInput) (*AuthResult, error) {
	if errs := validation.ValidateUserCreate(in); errs.HasErrors() {
		return nil, apperror.Wrap(apperror.CodeValidation, "некорректные данные регистрации", errs)
	}

	username := strings.TrimSpace(in.Username)
	email := strings.ToLower(strings.TrimSpace(in.Email))

	if _, err := s.repo.GetByUsername(ctx, username); err == nil {
		return nil, apperror.New(apperror.CodeAlreadyExists, "имя пользователя уже занято")
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		return nil, err
	}

	if _, err := s.repo.GetByEmail(ctx, email); err == nil {
		return nil, apperror.New(apperror.CodeAlreadyExists, "email уже зарегистрирован")
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		return nil, err
	}

	passHash, err := HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("auth service: не удалось захешировать пароль: %w", err)
	}

	user := &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: passHash,
		FullName:     strings.TrimSpace(in.FullName),
		Role:         models.RoleUser,
	}

	if _, err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	tokenPair, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, err
	}

	return &AuthResult{User: user, TokenPair: tokenPair}, nil
}

// Login проверяет учётные данные и возвращает токены. При неизвестном имени
// и при неверном пароле ответ одинаковый, чтобы не раскрывать существование
// учётной записи.
func (s *AuthService) Login(ctx context.Context, in LoginInput) (*AuthResult, error) {
	user, err := s.repo.GetByUsername(ctx, strings.TrimSpace(in.Username))
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, apperror.ErrInvalidCredentials
		}
		return nil, err
	}

	ok, err := ComparePasswords(user.PasswordHash, in.Password)
	if err != nil {
		return nil, fmt.Errorf("auth service: не удалось проверить пароль: %w", err)
	}
	if !ok {
		return nil, apperror.ErrInvalidCredentials
	}

	tokenPair, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, err
	}

	return &AuthResult{User: user, TokenPair: tokenPair}, nil
}

// Refresh выпускает новую пару токенов по действительному refresh токену.
// Старая сессия удаляется, повторное использование токена невозможно.
func (s *AuthService) Refresh(ctx context.Context, oldToken string) (*TokenPair, error) {
	claims, err := s.tokenManager.ParseRefresh(oldToken)
	if err != nil {
		return nil, apperror.Wrap(apperror.CodeUnauthorized, "refresh токен невалиден", err)
	}

	session, err := s.repo.GetSessionByTokenID(ctx, claims.ID)
	if err != nil {
		if errors.Is(err, repository.ErrSessionNotFound) {
			return nil, apperror.New(apperror.CodeUnauthorized, "сессия не найдена или отозвана")
		}
		return nil, err
	}

	if time.Now().After(session.ExpiresAt) {
		_ = s.repo.DeleteSession(ctx, claims.ID)
		return nil, apperror.New(apperror.CodeUnauthorized, "срок действия сессии истёк")
	}

	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return nil, apperror.Wrap(apperror.CodeUnauthorized, "некорректный subject токена", err)
	}

	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := s.repo.DeleteSession(ctx, claims.ID); err != nil {
		return nil, err
	}

	return s.issueTokens(ctx, user)
}

// Logout отзывает refresh сессию пользователя.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	claims, err := s.tokenManager.ParseRefresh(refreshToken)
	if err != nil {
		return apperror.Wrap(apperror.CodeUnauthorized, "refresh токен невалиден", err)
	}

	if err := s.repo.DeleteSession(ctx, claims.ID); err != nil {
		if errors.Is(err, repository.ErrSessionNotFound) {
			// Сессия уже отозвана, выход считается успешным.
			return nil
		}
		return err
	}
	return nil
}

// CurrentUser возвращает пользователя по идентификатору из access токена.
func (s *AuthService) CurrentUser(ctx context.Context, userID int64) (*models.User, error) {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, apperror.New(apperror.CodeNotFound, "пользователь не найден")
		}
		return nil, err
	}
	return user, nil
}

// issueTokens выпускает пару токенов и сохраняет refresh сессию.
func (s *AuthService) issueTokens(ctx context.Context, user *models.User) (*TokenPair, error) {
	tokenPair, _, refreshExp, err := s.tokenManager.GeneratePair(user)
	if err != nil {
		return nil, fmt.Errorf("auth service: не удалось выпустить токены: %w", err)
	}

	claims, err := s.tokenManager.ParseRefresh(tokenPair.RefreshToken)
	if err != nil {
		return nil, fmt.Errorf("auth service: не удалось разобрать выпущенный refresh токен: %w", err)
	}

	session := &models.Session{
		UserID:    user.ID,
		TokenID:   claims.ID,
		ExpiresAt: refreshExp,
	}
	if err := s.repo.CreateSession(ctx, session); err != nil {
		return nil, err
	}

	return tokenPair, nil
}

// StartSessionSweeper запускает фоновую зачистку просроченных refresh сессий.
// Первая зачистка выполняется сразу, далее по интервалу до отмены контекста.
func (s *AuthService) StartSessionSweeper(ctx context.Context, interval time.Duration) {
	goroutine.SafeGoWithContext(ctx, func(ctx context.Context) {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			s.sweepExpiredSessions(ctx)
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
		}
	})
}

// sweepExpiredSessions удаляет просроченные сессии, ошибки только логируются.
func (s *AuthService) sweepExpiredSessions(ctx context.Context) {
	deleted, err := s.repo.DeleteExpiredSessions(ctx)
	if err != nil {
		logger.WithComponent("auth").WithError(err).Warn("не удалось удалить просроченные сессии")
		return
	}
	if deleted > 0 {
		logger.WithComponent("auth").WithField("deleted", deleted).Debug("просроченные сессии удалены")
	}
}
