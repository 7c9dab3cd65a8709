package postgres

import (
	"context"

	"github.com/docbuddy/docbuddy/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type patientRepository struct {
	db *gorm.DB
}

func NewPatientRepository(db *gorm.DB) *patientRepository {
	return &patientRepository{db: db}
}

func (r *patientRepository) Create(ctx context.Context, patient *domain.Patient) error {
	return r.db.WithContext(ctx).Create(patient).Error
}

func (r *patientRepository) GetByID(ctx context.Context, docID, patientID uuid.UUID) (*domain.Patient, error) {
	var patient domain.Patient
	err := r.db.WithContext(ctx).
		First(&patient, "doctor_id = ? AND id = ?", docID, patientID).Error
	if err != nil {
		return nil, err
	}
	return &patient, nil
}

func (r *patientRepository) List(ctx context.Context, docID uuid.UUID, limit int) ([]*domain.Patient, error) {
	var patients []*domain.Patient
	err := r.db.WithContext(ctx).
		Where("doctor_id = ?", docID).
		Order("updated_at DESC").
		Limit(limit).
		Find(&patients).Error
	if err != nil {
		return nil, err
	}
	return patients, nil
}

// Search matches name and phone as substrings. The filters travel as bound
// LIKE parameters, never spliced into the query text.
func (r *patientRepository) Search(ctx context.Context, docID uuid.UUID, name, phone string, limit int) ([]*domain.Patient, error) {
	var patients []*domain.Patient
	err := r.db.WithContext(ctx).
		Where("doctor_id = ?", docID).
		Where("name LIKE ?", "%"+name+"%").
		Where("whats_app_number LIKE ?", "%"+phone+"%").
		Order("updated_at DESC").
		Limit(limit).
		Find(&patients).Error
	if err != nil {
		return nil, err
	}
	return patients, nil
}

// Update writes only rows matching both the owner and the patient id.
// Returns the number of rows affected; zero means the record does not
// exist for this owner.
func (r *patientRepository) Update(ctx context.Context, docID uuid.UUID, patient *domain.Patient) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&domain.Patient{}).
		Where("doctor_id = ? AND id = ?", docID, patient.ID).
		Updates(map[string]interface{}{
			"name":             patient.Name,
			"age":              patient.Age,
			"gender":           patient.Gender,
			"blood_group":      patient.BloodGroup,
			"whats_app_number": patient.WhatsAppNumber,
			"email":            patient.Email,
			"address":          patient.Address,
			"updated_at":       patient.UpdatedAt,
		})
	return result.RowsAffected, result.Error
}

func (r *patientRepository) Delete(ctx context.Context, docID, patientID uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("doctor_id = ? AND id = ?", docID, patientID).
		Delete(&domain.Patient{})
	return result.RowsAffected, result.Error
}
