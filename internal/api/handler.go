package api

import (
	"errors"
	"log/slog"
	"time"

	"github.com/terraincognita07/kepler/internal/db"
	"github.com/terraincognita07/kepler/internal/services"
	"gorm.io/gorm"
)

const (
	defaultTokenTTL          = 30 * 24 * time.Hour
	defaultLoginAttempts     = 8
	defaultLoginAttemptsSpan = 15 * time.Minute
)

type HandlerOptions struct {
	Secret            string
	TokenTTL          time.Duration
	AuthRequired      bool
	LoginAttempts     int
	LoginAttemptsSpan time.Duration
	Logger            *slog.Logger
}

type Handler struct {
	accounts          *services.AccountService
	logs              *services.LogBlobService
	secretKey         []byte
	tokenTTL          time.Duration
	authRequired      bool
	loginLimiter      *attemptLimiter
	loginAttempts     int
	loginAttemptsSpan time.Duration
	logger            *slog.Logger
	now               func() time.Time
}

func NewHandler(database *gorm.DB, options HandlerOptions) (*Handler, error) {
	if database == nil {
		return nil, errors.New("database is required")
	}
	if len(options.Secret) == 0 {
		return nil, errors.New("token secret is required")
	}

	repositories := db.NewRepositories(database)
	handler := &Handler{
		accounts:          services.NewAccountService(repositories.Accounts),
		logs:              services.NewLogBlobService(repositories.LogBlobs),
		secretKey:         []byte(options.Secret),
		tokenTTL:          options.TokenTTL,
		authRequired:      options.AuthRequired,
		loginLimiter:      newAttemptLimiter(),
		loginAttempts:     options.LoginAttempts,
		loginAttemptsSpan: options.LoginAttemptsSpan,
		logger:            options.Logger,
		now:               time.Now,
	}
	if handler.tokenTTL <= 0 {
		handler.tokenTTL = defaultTokenTTL
	}
	if handler.loginAttempts <= 0 {
		handler.loginAttempts = defaultLoginAttempts
	}
	if handler.loginAttemptsSpan <= 0 {
		handler.loginAttemptsSpan = defaultLoginAttemptsSpan
	}
	if handler.logger == nil {
		handler.logger = slog.Default()
	}
	return handler, nil
}
