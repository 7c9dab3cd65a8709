package service

import (
	"github.com/docbuddy/docbuddy/internal/config"
	"github.com/docbuddy/docbuddy/internal/repository"
)

type Services struct {
	Auth    *AuthService
	Patient *PatientService
}

func NewServices(repos *repository.Repositories, cfg *config.Config) *Services {
	return &Services{
		Auth:    NewAuthService(repos.Doctor, cfg),
		Patient: NewPatientService(repos.Patient, cfg),
	}
}
