package service

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/docbuddy/docbuddy/internal/config"
	"github.com/docbuddy/docbuddy/internal/domain"
	"github.com/docbuddy/docbuddy/internal/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrPatientNotFound covers both genuinely absent records and records owned
// by another doctor. The two cases are indistinguishable to callers so record
// existence never leaks across accounts.
var ErrPatientNotFound = errors.New("patient not found")

type PatientService struct {
	patientRepo repository.PatientRepository
	cfg         *config.Config
}

func NewPatientService(patientRepo repository.PatientRepository, cfg *config.Config) *PatientService {
	return &PatientService{
		patientRepo: patientRepo,
		cfg:         cfg,
	}
}

type PatientInput struct {
	Name           string
	Age            int
	Gender         string
	BloodGroup     string
	WhatsAppNumber string
	Email          string
	Address        string
}

func (s *PatientService) Create(ctx context.Context, docID uuid.UUID, input PatientInput) (*domain.Patient, error) {
	if err := validatePatientInput(&input); err != nil {
		return nil, err
	}

	now := time.Now()
	patient := &domain.Patient{
		ID:             uuid.New(),
		DoctorID:       docID,
		Name:           input.Name,
		Age:            input.Age,
		Gender:         input.Gender,
		BloodGroup:     input.BloodGroup,
		WhatsAppNumber: input.WhatsAppNumber,
		Email:          input.Email,
		Address:        input.Address,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.patientRepo.Create(ctx, patient); err != nil {
		return nil, err
	}
	return patient, nil
}

func (s *PatientService) Get(ctx context.Context, docID, patientID uuid.UUID) (*domain.Patient, error) {
	patient, err := s.patientRepo.GetByID(ctx, docID, patientID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPatientNotFound
		}
		return nil, err
	}
	return patient, nil
}

func (s *PatientService) List(ctx context.Context, docID uuid.UUID, limit int) ([]*domain.Patient, error) {
	if limit <= 0 {
		limit = s.cfg.DefaultPageSize
	}
	return s.patientRepo.List(ctx, docID, limit)
}

func (s *PatientService) Search(ctx context.Context, docID uuid.UUID, name, phone string, limit int) ([]*domain.Patient, error) {
	if limit <= 0 {
		limit = s.cfg.DefaultPageSize
	}
	return s.patientRepo.Search(ctx, docID, name, phone, limit)
}

func (s *PatientService) Update(ctx context.Context, docID, patientID uuid.UUID, input PatientInput) (*domain.Patient, error) {
	if err := validatePatientInput(&input); err != nil {
		return nil, err
	}

	patient := &domain.Patient{
		ID:             patientID,
		Name:           input.Name,
		Age:            input.Age,
		Gender:         input.Gender,
		BloodGroup:     input.BloodGroup,
		WhatsAppNumber: input.WhatsAppNumber,
		Email:          input.Email,
		Address:        input.Address,
		UpdatedAt:      time.Now(),
	}

	affected, err := s.patientRepo.Update(ctx, docID, patient)
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		log.Printf("ERROR [service.PatientService.Update] no row for doctor %s patient %s", docID, patientID)
		return nil, ErrPatientNotFound
	}

	return s.Get(ctx, docID, patientID)
}

func (s *PatientService) Delete(ctx context.Context, docID, patientID uuid.UUID) error {
	affected, err := s.patientRepo.Delete(ctx, docID, patientID)
	if err != nil {
		return err
	}
	if affected == 0 {
		log.Printf("ERROR [service.PatientService.Delete] no row for doctor %s patient %s", docID, patientID)
		return ErrPatientNotFound
	}
	return nil
}

type PrescriptionInput struct {
	Medication   string
	Dosage       string
	Instructions string
	Notes        string
}

type Prescription struct {
	Patient      *domain.Patient
	Medication   string
	Dosage       string
	Instructions string
	Notes        string
	IssuedAt     time.Time
}

// Prescribe assembles a printable prescription document from the owner-scoped
// patient record and the submitted fields. Nothing is persisted; rendering is
// the caller's concern.
func (s *PatientService) Prescribe(ctx context.Context, docID, patientID uuid.UUID, input PrescriptionInput) (*Prescription, error) {
	patient, err := s.Get(ctx, docID, patientID)
	if err != nil {
		return nil, err
	}

	return &Prescription{
		Patient:      patient,
		Medication:   input.Medication,
		Dosage:       input.Dosage,
		Instructions: input.Instructions,
		Notes:        input.Notes,
		IssuedAt:     time.Now(),
	}, nil
}

func validatePatientInput(input *PatientInput) error {
	input.Name = strings.TrimSpace(input.Name)
	if input.Name == "" {
		return domain.ErrNameRequired
	}
	if input.Age < 0 || input.Age > 150 {
		return domain.ErrInvalidAge
	}
	return nil
}
