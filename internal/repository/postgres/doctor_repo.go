package postgres

import (
	"context"

	"github.com/docbuddy/docbuddy/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type doctorRepository struct {
	db *gorm.DB
}

func NewDoctorRepository(db *gorm.DB) *doctorRepository {
	return &doctorRepository{db: db}
}

func (r *doctorRepository) Create(ctx context.Context, doctor *domain.Doctor) error {
	return r.db.WithContext(ctx).Create(doctor).Error
}

func (r *doctorRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Doctor, error) {
	var doctor domain.Doctor
	err := r.db.WithContext(ctx).First(&doctor, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &doctor, nil
}

func (r *doctorRepository) GetByEmail(ctx context.Context, email string) (*domain.Doctor, error) {
	var doctor domain.Doctor
	err := r.db.WithContext(ctx).First(&doctor, "email = ?", email).Error
	if err != nil {
		return nil, err
	}
	return &doctor, nil
}

func (r *doctorRepository) Update(ctx context.Context, doctor *domain.Doctor) error {
	return r.db.WithContext(ctx).Save(doctor).Error
}
