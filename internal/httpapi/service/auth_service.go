package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"reviewhub/internal/config"
	"reviewhub/internal/httpapi/codestore"
	"reviewhub/internal/httpapi/models"
	"reviewhub/internal/httpapi/repository"
	"reviewhub/internal/httpapi/validation"
	"reviewhub/internal/mailer"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrUsernameTaken = errors.New("username busy")
	ErrEmailTaken    = errors.New("email busy")
	ErrUserNotFound  = errors.New("user not found")
	ErrInvalidCode   = codestore.ErrCodeInvalid
	ErrInvalidToken  = errors.New("invalid token")
)

// Claims are the access-token contents.
type Claims struct {
	UserID   string      `json:"user_id"`
	Username string      `json:"username"`
	Role     models.Role `json:"role"`
	jwt.RegisteredClaims
}

type AuthService interface {
	// Signup resolves or creates the user for the (username,email) pair and
	// sends a single-use confirmation code out-of-band.
	Signup(ctx context.Context, username, email string) (*models.User, error)
	// IssueToken exchanges a valid confirmation code for a signed access token.
	IssueToken(ctx context.Context, username, code string) (string, error)
	ValidateToken(tokenString string) (*Claims, error)
}

type authService struct {
	userRepo       repository.UserRepository
	codes          codestore.Store
	mail           mailer.Mailer
	logger         *slog.Logger
	jwtSecret      string
	accessTokenTTL time.Duration
}

func NewAuthService(
	userRepo repository.UserRepository,
	codes codestore.Store,
	mail mailer.Mailer,
	logger *slog.Logger,
	cfg *config.Config,
) AuthService {
	return &authService{
		userRepo:       userRepo,
		codes:          codes,
		mail:           mail,
		logger:         logger,
		jwtSecret:      cfg.JWTSecret,
		accessTokenTTL: cfg.AccessTokenTTL,
	}
}

// Signup is idempotent for an exact (username,email) match: the second call
// reuses the row and just issues a fresh code.
func (s *authService) Signup(ctx context.Context, username, email string) (*models.User, error) {
	if err := validation.ValidateUsername(username); err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetOrCreate(ctx, username, email)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			// one of the two fields belongs to a different row; report which
			_, lookupErr := s.userRepo.FindByEmail(ctx, email)
			switch {
			case lookupErr == nil:
				return nil, ErrEmailTaken
			case errors.Is(lookupErr, gorm.ErrRecordNotFound):
				return nil, ErrUsernameTaken
			default:
				return nil, lookupErr
			}
		}
		return nil, err
	}

	code := uuid.New().String()
	if err := s.codes.Save(ctx, user.ID, code); err != nil {
		return nil, err
	}

	// fire-and-forget delivery; no confirmation tracked
	go func() {
		if err := s.mail.SendConfirmationCode(user.Email, user.Username, code); err != nil {
			s.logger.Error("confirmation mail failed", "username", user.Username, "error", err)
		}
	}()

	return user, nil
}

func (s *authService) IssueToken(ctx context.Context, username, code string) (string, error) {
	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrUserNotFound
		}
		return "", err
	}

	if err := s.codes.Consume(ctx, user.ID, code); err != nil {
		return "", err
	}

	return s.generateAccessToken(user)
}

func (s *authService) generateAccessToken(user *models.User) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID:   user.ID,
		Username: user.Username,
		Role:     user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.accessTokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecret))
}

func (s *authService) ValidateToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
