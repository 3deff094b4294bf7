package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/terraincognita07/kepler/internal/models"
	"gorm.io/gorm"
)

var ErrInvalidLogPayload = errors.New("invalid log payload")

const emptyLogPayload = "[]"

type LogBlobRepository interface {
	FindByKey(key string) (models.LogBlob, error)
	Upsert(blob *models.LogBlob) error
}

// LogBlobService stores the journal as an opaque document. The payload is
// checked for JSON syntax only; its content is never interpreted.
type LogBlobService struct {
	blobs LogBlobRepository
}

func NewLogBlobService(blobs LogBlobRepository) *LogBlobService {
	return &LogBlobService{blobs: blobs}
}

// BlobKeyFor names the blob of an account. Account zero is the shared
// single-user log.
func BlobKeyFor(accountID uint) string {
	if accountID == 0 {
		return models.DefaultLogBlobKey
	}
	return models.DefaultLogBlobKey + ":" + strconv.FormatUint(uint64(accountID), 10)
}

// Get returns the stored payload verbatim, or "[]" when nothing was saved.
func (service *LogBlobService) Get(key string) ([]byte, error) {
	blob, err := service.blobs.FindByKey(key)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return []byte(emptyLogPayload), nil
		}
		return nil, fmt.Errorf("load log blob: %w", err)
	}
	return []byte(blob.Payload), nil
}

// Put replaces the payload under key.
func (service *LogBlobService) Put(key string, payload []byte) error {
	if len(strings.TrimSpace(string(payload))) == 0 || !json.Valid(payload) {
		return ErrInvalidLogPayload
	}
	blob := models.LogBlob{Key: key, Payload: string(payload)}
	if err := service.blobs.Upsert(&blob); err != nil {
		return fmt.Errorf("save log blob: %w", err)
	}
	return nil
}
