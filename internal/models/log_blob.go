package models

import "time"

const DefaultLogBlobKey = "kepler_logs"

// LogBlob is the stored journal exactly as the client last wrote it.
type LogBlob struct {
	Key       string    `gorm:"primaryKey"`
	Payload   string    `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}
