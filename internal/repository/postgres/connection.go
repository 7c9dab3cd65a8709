package postgres

import (
	"github.com/docbuddy/docbuddy/internal/domain"
	"github.com/docbuddy/docbuddy/internal/repository"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func NewConnection(databaseURL string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(databaseURL), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Warn),
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	// Auto-migrate tables. The unique index on doctors.email is the
	// correctness mechanism for duplicate registration, not the
	// application-level pre-check.
	err = db.AutoMigrate(
		&domain.Doctor{},
		&domain.Patient{},
	)
	if err != nil {
		return nil, err
	}

	return db, nil
}

func NewRepositories(db *gorm.DB) *repository.Repositories {
	return &repository.Repositories{
		Doctor:  NewDoctorRepository(db),
		Patient: NewPatientRepository(db),
	}
}
