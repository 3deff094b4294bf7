package db

import "gorm.io/gorm"

type Repositories struct {
	Accounts *AccountRepository
	LogBlobs *LogBlobRepository
}

func NewRepositories(database *gorm.DB) *Repositories {
	return &Repositories{
		Accounts: NewAccountRepository(database),
		LogBlobs: NewLogBlobRepository(database),
	}
}
