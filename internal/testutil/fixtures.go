package testutil

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/docbuddy/docbuddy/internal/domain"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// DoctorBuilder creates test doctors with a builder pattern
type DoctorBuilder struct {
	email    string
	password string
	name     string
}

// NewDoctorBuilder creates a new DoctorBuilder with default values
func NewDoctorBuilder() *DoctorBuilder {
	return &DoctorBuilder{
		email:    fmt.Sprintf("doc_%s@example.com", uuid.New().String()[:8]),
		password: "testpassword123",
		name:     "Dr. Test",
	}
}

// WithEmail sets the email
func (b *DoctorBuilder) WithEmail(email string) *DoctorBuilder {
	b.email = email
	return b
}

// WithPassword sets the password
func (b *DoctorBuilder) WithPassword(password string) *DoctorBuilder {
	b.password = password
	return b
}

// WithName sets the display name
func (b *DoctorBuilder) WithName(name string) *DoctorBuilder {
	b.name = name
	return b
}

// Build creates the doctor in the database and returns it with the raw password
func (b *DoctorBuilder) Build(t *testing.T, db *gorm.DB) (*domain.Doctor, string) {
	t.Helper()

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(b.password), bcrypt.DefaultCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	doctor := &domain.Doctor{
		ID:           uuid.New(),
		Email:        b.email,
		PasswordHash: string(hashedPassword),
		Name:         b.name,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}

	if err := db.Create(doctor).Error; err != nil {
		t.Fatalf("failed to create doctor: %v", err)
	}

	return doctor, b.password
}

// AuthResponse matches the API auth response
type AuthResponse struct {
	Doctor struct {
		ID    string `json:"id"`
		Email string `json:"email"`
		Name  string `json:"name"`
	} `json:"doctor"`
	Token string `json:"token"`
}

// BuildAndAuthenticate registers a doctor via the API and returns the doctor
// and session token
func (b *DoctorBuilder) BuildAndAuthenticate(t *testing.T, ts *TestServer) (*domain.Doctor, string) {
	t.Helper()

	reqBody := map[string]string{
		"email":    b.email,
		"password": b.password,
		"name":     b.name,
	}
	body, _ := json.Marshal(reqBody)

	resp, err := http.Post(ts.APIURL("/auth/register"), "application/json", bytes.NewBuffer(body))
	if err != nil {
		t.Fatalf("failed to register doctor: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("unexpected status code: %d", resp.StatusCode)
	}

	var authResp AuthResponse
	if err := json.NewDecoder(resp.Body).Decode(&authResp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	doctorID, _ := uuid.Parse(authResp.Doctor.ID)
	doctor := &domain.Doctor{
		ID:    doctorID,
		Email: authResp.Doctor.Email,
		Name:  authResp.Doctor.Name,
	}

	return doctor, authResp.Token
}

// PatientBuilder creates test patients with a builder pattern
type PatientBuilder struct {
	doctorID       uuid.UUID
	name           string
	age            int
	whatsappNumber string
	updatedAt      time.Time
}

// NewPatientBuilder creates a new PatientBuilder for the given owner
func NewPatientBuilder(doctorID uuid.UUID) *PatientBuilder {
	return &PatientBuilder{
		doctorID:       doctorID,
		name:           fmt.Sprintf("Patient %s", uuid.New().String()[:8]),
		age:            30,
		whatsappNumber: "+10000000000",
		updatedAt:      time.Now(),
	}
}

// WithName sets the patient name
func (b *PatientBuilder) WithName(name string) *PatientBuilder {
	b.name = name
	return b
}

// WithAge sets the patient age
func (b *PatientBuilder) WithAge(age int) *PatientBuilder {
	b.age = age
	return b
}

// WithWhatsAppNumber sets the contact number
func (b *PatientBuilder) WithWhatsAppNumber(number string) *PatientBuilder {
	b.whatsappNumber = number
	return b
}

// WithUpdatedAt sets the update timestamp, useful for ordering tests
func (b *PatientBuilder) WithUpdatedAt(ts time.Time) *PatientBuilder {
	b.updatedAt = ts
	return b
}

// Build creates the patient in the database
func (b *PatientBuilder) Build(t *testing.T, db *gorm.DB) *domain.Patient {
	t.Helper()

	patient := &domain.Patient{
		ID:             uuid.New(),
		DoctorID:       b.doctorID,
		Name:           b.name,
		Age:            b.age,
		Gender:         "other",
		BloodGroup:     "O+",
		WhatsAppNumber: b.whatsappNumber,
		Email:          fmt.Sprintf("patient_%s@example.com", uuid.New().String()[:8]),
		Address:        "1 Test Street",
		CreatedAt:      b.updatedAt,
		UpdatedAt:      b.updatedAt,
	}

	if err := db.Create(patient).Error; err != nil {
		t.Fatalf("failed to create patient: %v", err)
	}

	return patient
}
