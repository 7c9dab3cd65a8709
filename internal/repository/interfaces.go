package repository

import (
	"context"

	"github.com/docbuddy/docbuddy/internal/domain"
	"github.com/google/uuid"
)

type DoctorRepository interface {
	Create(ctx context.Context, doctor *domain.Doctor) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Doctor, error)
	GetByEmail(ctx context.Context, email string) (*domain.Doctor, error)
	Update(ctx context.Context, doctor *domain.Doctor) error
}

// PatientRepository methods take the owning doctor's id as the first
// argument; it is mandatory and sourced from the authenticated session.
type PatientRepository interface {
	Create(ctx context.Context, patient *domain.Patient) error
	GetByID(ctx context.Context, docID, patientID uuid.UUID) (*domain.Patient, error)
	List(ctx context.Context, docID uuid.UUID, limit int) ([]*domain.Patient, error)
	Search(ctx context.Context, docID uuid.UUID, name, phone string, limit int) ([]*domain.Patient, error)
	Update(ctx context.Context, docID uuid.UUID, patient *domain.Patient) (int64, error)
	Delete(ctx context.Context, docID, patientID uuid.UUID) (int64, error)
}

type Repositories struct {
	Doctor  DoctorRepository
	Patient PatientRepository
}
