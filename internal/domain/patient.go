package domain

import (
	"time"

	"github.com/google/uuid"
)

// Patient rows are owner-scoped: DoctorID is set from the authenticated
// session, never from client input, and every query must filter on it.
type Patient struct {
	ID             uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	DoctorID       uuid.UUID `json:"doctorId" gorm:"type:uuid;not null;index"`
	Name           string    `json:"name" gorm:"not null"`
	Age            int       `json:"age"`
	Gender         string    `json:"gender"`
	BloodGroup     string    `json:"bloodGroup"`
	WhatsAppNumber string    `json:"whatsappNumber"`
	Email          string    `json:"email"`
	Address        string    `json:"address"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}
