package services

import (
	"errors"
	"testing"
	"time"

	"github.com/terraincognita07/kepler/internal/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type stubAccountRepository struct {
	accounts  map[string]models.Account
	nextID    uint
	createErr error
}

func newStubAccountRepository() *stubAccountRepository {
	return &stubAccountRepository{accounts: make(map[string]models.Account)}
}

func (repo *stubAccountRepository) ExistsByNormalizedEmail(email string) (bool, error) {
	_, ok := repo.accounts[email]
	return ok, nil
}

func (repo *stubAccountRepository) FindByNormalizedEmail(email string) (models.Account, error) {
	account, ok := repo.accounts[email]
	if !ok {
		return models.Account{}, gorm.ErrRecordNotFound
	}
	return account, nil
}

func (repo *stubAccountRepository) FindByID(accountID uint) (models.Account, error) {
	for _, account := range repo.accounts {
		if account.ID == accountID {
			return account, nil
		}
	}
	return models.Account{}, gorm.ErrRecordNotFound
}

func (repo *stubAccountRepository) Create(account *models.Account) error {
	if repo.createErr != nil {
		return repo.createErr
	}
	repo.nextID++
	account.ID = repo.nextID
	account.CreatedAt = time.Date(2026, 3, 14, 8, 0, 0, 0, time.UTC)
	repo.accounts[account.Email] = *account
	return nil
}

func (repo *stubAccountRepository) UpdatePassword(accountID uint, passwordHash string, mustChangePassword bool) error {
	for email, account := range repo.accounts {
		if account.ID == accountID {
			account.PasswordHash = passwordHash
			account.MustChangePassword = mustChangePassword
			repo.accounts[email] = account
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func newTestAccountService(repo AccountRepository) *AccountService {
	return NewAccountService(repo).WithBcryptCost(bcrypt.MinCost)
}

func TestCreateAccountNormalizesAndHashes(t *testing.T) {
	repo := newStubAccountRepository()
	service := newTestAccountService(repo)

	account, err := service.CreateAccount(SignupInput{
		Email:       "  Owner@Example.com ",
		Password:    "Biscuit2024",
		DisplayName: "  Sam ",
	})
	if err != nil {
		t.Fatalf("create account: %v", err)
	}

	if account.ID == 0 || account.Email != "owner@example.com" || account.DisplayName != "Sam" {
		t.Fatalf("unexpected account %#v", account)
	}
	if bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte("Biscuit2024")) != nil {
		t.Fatal("expected stored password hash to match")
	}
}

func TestCreateAccountFailureReasons(t *testing.T) {
	repo := newStubAccountRepository()
	service := newTestAccountService(repo)
	if _, err := service.CreateAccount(SignupInput{Email: "taken@example.com", Password: "Biscuit2024", DisplayName: "Taken"}); err != nil {
		t.Fatalf("seed account: %v", err)
	}

	tests := []struct {
		name  string
		input SignupInput
		want  error
	}{
		{
			name:  "invalid email",
			input: SignupInput{Email: "nope", Password: "Biscuit2024", DisplayName: "Sam"},
			want:  ErrInvalidEmail,
		},
		{
			name:  "weak password",
			input: SignupInput{Email: "sam@example.com", Password: "short", DisplayName: "Sam"},
			want:  ErrWeakPassword,
		},
		{
			name:  "blank display name",
			input: SignupInput{Email: "sam@example.com", Password: "Biscuit2024", DisplayName: "   "},
			want:  ErrInvalidDisplayName,
		},
		{
			name:  "duplicate email",
			input: SignupInput{Email: "TAKEN@example.com", Password: "Biscuit2024", DisplayName: "Sam"},
			want:  ErrEmailTaken,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := service.CreateAccount(tt.input); !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestCreateAccountMapsDuplicateKeyRace(t *testing.T) {
	repo := newStubAccountRepository()
	repo.createErr = gorm.ErrDuplicatedKey
	service := newTestAccountService(repo)

	_, err := service.CreateAccount(SignupInput{Email: "sam@example.com", Password: "Biscuit2024", DisplayName: "Sam"})
	if !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestAuthenticate(t *testing.T) {
	repo := newStubAccountRepository()
	service := newTestAccountService(repo)
	created, err := service.CreateAccount(SignupInput{Email: "sam@example.com", Password: "Biscuit2024", DisplayName: "Sam"})
	if err != nil {
		t.Fatalf("create account: %v", err)
	}

	account, err := service.Authenticate("SAM@example.com", "Biscuit2024")
	if err != nil || account.ID != created.ID {
		t.Fatalf("expected successful login, got %#v, %v", account, err)
	}

	for _, password := range []string{"Biscuit2025", ""} {
		if _, err := service.Authenticate("sam@example.com", password); !errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("expected ErrInvalidCredentials for %q, got %v", password, err)
		}
	}
	if _, err := service.Authenticate("ghost@example.com", "Biscuit2024"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown account, got %v", err)
	}
}

func TestResetPasswordForcesChange(t *testing.T) {
	repo := newStubAccountRepository()
	service := newTestAccountService(repo)
	if _, err := service.CreateAccount(SignupInput{Email: "sam@example.com", Password: "Biscuit2024", DisplayName: "Sam"}); err != nil {
		t.Fatalf("create account: %v", err)
	}

	if _, err := service.ResetPassword("sam@example.com", "TempPass99"); err != nil {
		t.Fatalf("reset password: %v", err)
	}

	_, err := service.Authenticate("sam@example.com", "TempPass99")
	if !errors.Is(err, ErrPasswordChangeRequired) {
		t.Fatalf("expected ErrPasswordChangeRequired, got %v", err)
	}
	if _, err := service.Authenticate("sam@example.com", "Biscuit2024"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected old password to stop working, got %v", err)
	}

	if _, err := service.ResetPassword("ghost@example.com", "TempPass99"); !errors.Is(err, ErrAccountNotFound) {
		t.Fatalf("expected ErrAccountNotFound, got %v", err)
	}
}

func TestChangePasswordClearsForcedChange(t *testing.T) {
	repo := newStubAccountRepository()
	service := newTestAccountService(repo)
	if _, err := service.CreateAccount(SignupInput{Email: "sam@example.com", Password: "Biscuit2024", DisplayName: "Sam"}); err != nil {
		t.Fatalf("create account: %v", err)
	}
	if _, err := service.ResetPassword("sam@example.com", "TempPass99"); err != nil {
		t.Fatalf("reset password: %v", err)
	}

	tests := []struct {
		name    string
		current string
		next    string
		wantErr error
	}{
		{name: "wrong current", current: "Biscuit2024", next: "Walkies2026", wantErr: ErrInvalidCredentials},
		{name: "weak new", current: "TempPass99", next: "short", wantErr: ErrWeakPassword},
		{name: "unchanged", current: "TempPass99", next: "TempPass99", wantErr: ErrPasswordUnchanged},
	}
	for _, tc := range tests {
		if err := service.ChangePassword("sam@example.com", tc.current, tc.next); !errors.Is(err, tc.wantErr) {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.wantErr, err)
		}
	}

	if err := service.ChangePassword(" SAM@example.com ", "TempPass99", "Walkies2026"); err != nil {
		t.Fatalf("change password: %v", err)
	}
	account, err := service.Authenticate("sam@example.com", "Walkies2026")
	if err != nil {
		t.Fatalf("authenticate with new password: %v", err)
	}
	if account.MustChangePassword {
		t.Fatal("expected forced-change flag to be cleared")
	}
}

func TestNormalizeDisplayName(t *testing.T) {
	tests := []struct {
		raw     string
		want    string
		wantErr bool
	}{
		{raw: " Sam ", want: "Sam"},
		{raw: "Мария", want: "Мария"},
		{raw: "", wantErr: true},
		{raw: "tab\tname", wantErr: true},
		{raw: "abcdefghijabcdefghijabcdefghijabcdefghijabcdefghijabcdefghijabcde", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := NormalizeDisplayName(tt.raw)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidDisplayName) {
					t.Fatalf("expected ErrInvalidDisplayName, got %v", err)
				}
				return
			}
			if err != nil || got != tt.want {
				t.Fatalf("NormalizeDisplayName(%q) = %q, %v", tt.raw, got, err)
			}
		})
	}
}
