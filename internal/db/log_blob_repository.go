package db

import (
	"time"

	"github.com/terraincognita07/kepler/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type LogBlobRepository struct {
	database *gorm.DB
	now      func() time.Time
}

func NewLogBlobRepository(database *gorm.DB) *LogBlobRepository {
	return &LogBlobRepository{database: database, now: time.Now}
}

func (repo *LogBlobRepository) FindByKey(key string) (models.LogBlob, error) {
	var blob models.LogBlob
	if err := repo.database.Where(clause.Eq{Column: clause.Column{Name: "key"}, Value: key}).First(&blob).Error; err != nil {
		return models.LogBlob{}, err
	}
	return blob, nil
}

// Upsert replaces the payload under blob.Key in a single statement.
func (repo *LogBlobRepository) Upsert(blob *models.LogBlob) error {
	blob.UpdatedAt = repo.now().UTC()
	return repo.database.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"payload", "updated_at"}),
	}).Create(blob).Error
}
