package db

import (
	"errors"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/terraincognita07/kepler/internal/models"
	"gorm.io/gorm"
)

func openTestDatabase(t *testing.T) *gorm.DB {
	t.Helper()

	database, err := OpenSQLite(filepath.Join(t.TempDir(), "nested", "kepler-test.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() {
		_ = Close(database)
	})
	return database
}

func TestOpenSQLiteAppliesMigrationsOnce(t *testing.T) {
	databasePath := filepath.Join(t.TempDir(), "kepler-reopen.db")

	first, err := OpenSQLite(databasePath)
	if err != nil {
		t.Fatalf("first open: %v", err)
	}
	if err := Close(first); err != nil {
		t.Fatalf("close: %v", err)
	}

	second, err := OpenSQLite(databasePath)
	if err != nil {
		t.Fatalf("second open: %v", err)
	}
	t.Cleanup(func() {
		_ = Close(second)
	})

	var applied int64
	if err := second.Raw(`SELECT count(*) FROM schema_migrations`).Scan(&applied).Error; err != nil {
		t.Fatalf("count migrations: %v", err)
	}
	if applied != 1 {
		t.Fatalf("expected 1 applied migration, got %d", applied)
	}
	for _, table := range []string{"accounts", "log_blobs"} {
		if !second.Migrator().HasTable(table) {
			t.Fatalf("expected table %s to exist", table)
		}
	}
}

func TestReadMigrationsRejectsDuplicateVersions(t *testing.T) {
	source := fstest.MapFS{
		"001_init.sql":  {Data: []byte("SELECT 1;")},
		"001_other.sql": {Data: []byte("SELECT 2;")},
	}

	if _, err := readMigrations(source); err == nil {
		t.Fatal("expected duplicate version error")
	}
}

func TestReadMigrationsOrdersByVersion(t *testing.T) {
	source := fstest.MapFS{
		"010_late.sql":  {Data: []byte("SELECT 10;")},
		"002_early.sql": {Data: []byte("SELECT 2;")},
		"README.md":     {Data: []byte("ignored")},
	}

	migrations, err := readMigrations(source)
	if err != nil {
		t.Fatalf("read migrations: %v", err)
	}
	if len(migrations) != 2 || migrations[0].Version != 2 || migrations[1].Version != 10 {
		t.Fatalf("unexpected migration order %#v", migrations)
	}
}

func TestAccountEmailIndexIsCaseInsensitive(t *testing.T) {
	database := openTestDatabase(t)
	repo := NewAccountRepository(database)

	first := models.Account{Email: "Owner@Example.com", PasswordHash: "hash-1"}
	if err := repo.Create(&first); err != nil {
		t.Fatalf("create first account: %v", err)
	}
	second := models.Account{Email: "owner@example.com", PasswordHash: "hash-2"}
	if err := repo.Create(&second); err == nil {
		t.Fatal("expected duplicate normalized email insert to fail")
	}

	exists, err := repo.ExistsByNormalizedEmail("owner@example.com")
	if err != nil || !exists {
		t.Fatalf("expected normalized lookup to match, got %v, %v", exists, err)
	}
	found, err := repo.FindByNormalizedEmail("owner@example.com")
	if err != nil || found.ID != first.ID {
		t.Fatalf("expected first account, got %#v, %v", found, err)
	}
}

func TestAccountRepositoryUpdatePassword(t *testing.T) {
	database := openTestDatabase(t)
	repo := NewAccountRepository(database)

	account := models.Account{Email: "sam@example.com", PasswordHash: "old"}
	if err := repo.Create(&account); err != nil {
		t.Fatalf("create account: %v", err)
	}
	if err := repo.UpdatePassword(account.ID, "new", true); err != nil {
		t.Fatalf("update password: %v", err)
	}

	updated, err := repo.FindByID(account.ID)
	if err != nil {
		t.Fatalf("find account: %v", err)
	}
	if updated.PasswordHash != "new" || !updated.MustChangePassword {
		t.Fatalf("unexpected account after update %#v", updated)
	}

	if _, err := repo.FindByID(account.ID + 100); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound, got %v", err)
	}
}

func TestLogBlobRepositoryUpsertReplacesPayload(t *testing.T) {
	database := openTestDatabase(t)
	repo := NewLogBlobRepository(database)

	if _, err := repo.FindByKey(models.DefaultLogBlobKey); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound before first write, got %v", err)
	}

	for _, payload := range []string{`[{"id":"a"}]`, `[]`} {
		if err := repo.Upsert(&models.LogBlob{Key: models.DefaultLogBlobKey, Payload: payload}); err != nil {
			t.Fatalf("upsert %s: %v", payload, err)
		}
	}
	if err := repo.Upsert(&models.LogBlob{Key: "kepler_logs:7", Payload: `[{"id":"b"}]`}); err != nil {
		t.Fatalf("upsert second key: %v", err)
	}

	blob, err := repo.FindByKey(models.DefaultLogBlobKey)
	if err != nil {
		t.Fatalf("find blob: %v", err)
	}
	if blob.Payload != `[]` {
		t.Fatalf("expected latest payload, got %q", blob.Payload)
	}

	var rows int64
	if err := database.Model(&models.LogBlob{}).Count(&rows).Error; err != nil {
		t.Fatalf("count blobs: %v", err)
	}
	if rows != 2 {
		t.Fatalf("expected one row per key, got %d", rows)
	}
}
