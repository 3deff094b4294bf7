package services

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/terraincognita07/kepler/internal/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrInvalidEmail           = errors.New("invalid email")
	ErrWeakPassword           = errors.New("weak password")
	ErrInvalidDisplayName     = errors.New("invalid display name")
	ErrEmailTaken             = errors.New("email already exists")
	ErrInvalidCredentials     = errors.New("invalid credentials")
	ErrPasswordChangeRequired = errors.New("password change required")
	ErrAccountNotFound        = errors.New("account not found")
	ErrPasswordUnchanged      = errors.New("new password must differ from the current one")
)

const maxDisplayNameRunes = 64

type AccountRepository interface {
	ExistsByNormalizedEmail(email string) (bool, error)
	FindByNormalizedEmail(email string) (models.Account, error)
	FindByID(accountID uint) (models.Account, error)
	Create(account *models.Account) error
	UpdatePassword(accountID uint, passwordHash string, mustChangePassword bool) error
}

type AccountService struct {
	accounts   AccountRepository
	bcryptCost int
}

func NewAccountService(accounts AccountRepository) *AccountService {
	return &AccountService{accounts: accounts, bcryptCost: bcrypt.DefaultCost}
}

// WithBcryptCost lowers the hashing cost in tests.
func (service *AccountService) WithBcryptCost(cost int) *AccountService {
	service.bcryptCost = cost
	return service
}

type SignupInput struct {
	Email       string
	Password    string
	DisplayName string
}

// CreateAccount registers a new account. Failures are one of ErrInvalidEmail,
// ErrWeakPassword, ErrInvalidDisplayName, ErrEmailTaken or a storage error.
func (service *AccountService) CreateAccount(input SignupInput) (models.Account, error) {
	email := NormalizeEmail(input.Email)
	if email == "" {
		return models.Account{}, ErrInvalidEmail
	}
	if err := ValidatePasswordStrength(input.Password); err != nil {
		return models.Account{}, err
	}
	displayName, err := NormalizeDisplayName(input.DisplayName)
	if err != nil {
		return models.Account{}, err
	}

	exists, err := service.accounts.ExistsByNormalizedEmail(email)
	if err != nil {
		return models.Account{}, fmt.Errorf("check email: %w", err)
	}
	if exists {
		return models.Account{}, ErrEmailTaken
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(input.Password), service.bcryptCost)
	if err != nil {
		return models.Account{}, fmt.Errorf("hash password: %w", err)
	}

	account := models.Account{
		Email:        email,
		DisplayName:  displayName,
		PasswordHash: string(passwordHash),
	}
	if err := service.accounts.Create(&account); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return models.Account{}, ErrEmailTaken
		}
		return models.Account{}, fmt.Errorf("create account: %w", err)
	}
	return account, nil
}

// Authenticate checks credentials. Accounts with a temporary password are
// returned together with ErrPasswordChangeRequired.
func (service *AccountService) Authenticate(emailRaw string, password string) (models.Account, error) {
	email := NormalizeEmail(emailRaw)
	if email == "" || password == "" {
		return models.Account{}, ErrInvalidCredentials
	}

	account, err := service.accounts.FindByNormalizedEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Account{}, ErrInvalidCredentials
		}
		return models.Account{}, fmt.Errorf("load account: %w", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)) != nil {
		return models.Account{}, ErrInvalidCredentials
	}
	if account.MustChangePassword {
		return account, ErrPasswordChangeRequired
	}
	return account, nil
}

func (service *AccountService) FindByID(accountID uint) (models.Account, error) {
	account, err := service.accounts.FindByID(accountID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Account{}, ErrAccountNotFound
	}
	return account, err
}

// ResetPassword stores a temporary password and flags the account so the
// next login is refused until the password is changed.
func (service *AccountService) ResetPassword(emailRaw string, temporaryPassword string) (models.Account, error) {
	email := NormalizeEmail(emailRaw)
	if email == "" {
		return models.Account{}, ErrInvalidEmail
	}
	account, err := service.accounts.FindByNormalizedEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Account{}, ErrAccountNotFound
		}
		return models.Account{}, fmt.Errorf("load account: %w", err)
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(temporaryPassword), service.bcryptCost)
	if err != nil {
		return models.Account{}, fmt.Errorf("hash temporary password: %w", err)
	}
	if err := service.accounts.UpdatePassword(account.ID, string(passwordHash), true); err != nil {
		return models.Account{}, fmt.Errorf("update account password: %w", err)
	}
	account.PasswordHash = string(passwordHash)
	account.MustChangePassword = true
	return account, nil
}

// ChangePassword replaces the password after checking the current one and
// clears the forced-change flag. It is the only way out of a reset.
func (service *AccountService) ChangePassword(emailRaw string, currentPassword string, newPassword string) error {
	account, err := service.Authenticate(emailRaw, currentPassword)
	if err != nil && !errors.Is(err, ErrPasswordChangeRequired) {
		return err
	}
	if err := ValidatePasswordStrength(newPassword); err != nil {
		return err
	}
	if newPassword == currentPassword {
		return ErrPasswordUnchanged
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(newPassword), service.bcryptCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := service.accounts.UpdatePassword(account.ID, string(passwordHash), false); err != nil {
		return fmt.Errorf("update account password: %w", err)
	}
	return nil
}

func NormalizeDisplayName(raw string) (string, error) {
	name := strings.TrimSpace(raw)
	if name == "" || utf8.RuneCountInString(name) > maxDisplayNameRunes {
		return "", ErrInvalidDisplayName
	}
	for _, char := range name {
		if char < 0x20 || char == 0x7f {
			return "", ErrInvalidDisplayName
		}
	}
	return name, nil
}
