package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/docbuddy/docbuddy/internal/api/middleware"
	"github.com/docbuddy/docbuddy/internal/domain"
	"github.com/docbuddy/docbuddy/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type PatientHandler struct {
	patientService *service.PatientService
}

func NewPatientHandler(patientService *service.PatientService) *PatientHandler {
	return &PatientHandler{patientService: patientService}
}

type PatientRequest struct {
	Name           string `json:"name"`
	Age            int    `json:"age"`
	Gender         string `json:"gender"`
	BloodGroup     string `json:"bloodGroup"`
	WhatsAppNumber string `json:"whatsappNumber"`
	Email          string `json:"email"`
	Address        string `json:"address"`
}

type PatientResponse struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Age            int       `json:"age"`
	Gender         string    `json:"gender"`
	BloodGroup     string    `json:"bloodGroup"`
	WhatsAppNumber string    `json:"whatsappNumber"`
	Email          string    `json:"email"`
	Address        string    `json:"address"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

type PrescriptionRequest struct {
	Medication   string `json:"medication"`
	Dosage       string `json:"dosage"`
	Instructions string `json:"instructions"`
	Notes        string `json:"notes"`
}

type PrescriptionResponse struct {
	Patient      PatientResponse `json:"patient"`
	Medication   string          `json:"medication"`
	Dosage       string          `json:"dosage"`
	Instructions string          `json:"instructions"`
	Notes        string          `json:"notes"`
	IssuedAt     time.Time       `json:"issuedAt"`
}

func (h *PatientHandler) List(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetDoctor(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	patients, err := h.patientService.List(r.Context(), claims.DoctorID, queryLimit(r))
	if err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	writePatients(w, patients)
}

func (h *PatientHandler) Search(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetDoctor(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	name := r.URL.Query().Get("name")
	phone := r.URL.Query().Get("phone")

	patients, err := h.patientService.Search(r.Context(), claims.DoctorID, name, phone, queryLimit(r))
	if err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	writePatients(w, patients)
}

func (h *PatientHandler) Get(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetDoctor(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	patientID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Patient not found", http.StatusNotFound)
		return
	}

	patient, err := h.patientService.Get(r.Context(), claims.DoctorID, patientID)
	if err != nil {
		if errors.Is(err, service.ErrPatientNotFound) {
			http.Error(w, "Patient not found", http.StatusNotFound)
			return
		}
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	writePatient(w, patient)
}

func (h *PatientHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetDoctor(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req PatientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	patient, err := h.patientService.Create(r.Context(), claims.DoctorID, patientInput(req))
	if err != nil {
		if isValidationError(err) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(toPatientResponse(patient))
}

func (h *PatientHandler) Update(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetDoctor(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	patientID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Patient not found", http.StatusNotFound)
		return
	}

	var req PatientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	patient, err := h.patientService.Update(r.Context(), claims.DoctorID, patientID, patientInput(req))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPatientNotFound):
			http.Error(w, "Patient not found", http.StatusNotFound)
		case isValidationError(err):
			http.Error(w, err.Error(), http.StatusBadRequest)
		default:
			http.Error(w, "Internal server error", http.StatusInternalServerError)
		}
		return
	}

	writePatient(w, patient)
}

func (h *PatientHandler) Delete(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetDoctor(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	patientID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Patient not found", http.StatusNotFound)
		return
	}

	if err := h.patientService.Delete(r.Context(), claims.DoctorID, patientID); err != nil {
		if errors.Is(err, service.ErrPatientNotFound) {
			http.Error(w, "Patient not found", http.StatusNotFound)
			return
		}
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]bool{"success": true})
}

func (h *PatientHandler) Prescribe(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetDoctor(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	patientID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Patient not found", http.StatusNotFound)
		return
	}

	var req PrescriptionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	prescription, err := h.patientService.Prescribe(r.Context(), claims.DoctorID, patientID, service.PrescriptionInput{
		Medication:   req.Medication,
		Dosage:       req.Dosage,
		Instructions: req.Instructions,
		Notes:        req.Notes,
	})
	if err != nil {
		if errors.Is(err, service.ErrPatientNotFound) {
			http.Error(w, "Patient not found", http.StatusNotFound)
			return
		}
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	resp := PrescriptionResponse{
		Patient:      toPatientResponse(prescription.Patient),
		Medication:   prescription.Medication,
		Dosage:       prescription.Dosage,
		Instructions: prescription.Instructions,
		Notes:        prescription.Notes,
		IssuedAt:     prescription.IssuedAt,
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

func patientInput(req PatientRequest) service.PatientInput {
	return service.PatientInput{
		Name:           req.Name,
		Age:            req.Age,
		Gender:         req.Gender,
		BloodGroup:     req.BloodGroup,
		WhatsAppNumber: req.WhatsAppNumber,
		Email:          req.Email,
		Address:        req.Address,
	}
}

func toPatientResponse(p *domain.Patient) PatientResponse {
	return PatientResponse{
		ID:             p.ID.String(),
		Name:           p.Name,
		Age:            p.Age,
		Gender:         p.Gender,
		BloodGroup:     p.BloodGroup,
		WhatsAppNumber: p.WhatsAppNumber,
		Email:          p.Email,
		Address:        p.Address,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}

func writePatient(w http.ResponseWriter, p *domain.Patient) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(toPatientResponse(p))
}

func writePatients(w http.ResponseWriter, patients []*domain.Patient) {
	resp := make([]PatientResponse, 0, len(patients))
	for _, p := range patients {
		resp = append(resp, toPatientResponse(p))
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

func queryLimit(r *http.Request) int {
	if v := r.URL.Query().Get("limit"); v != "" {
		if limit, err := strconv.Atoi(v); err == nil {
			return limit
		}
	}
	return 0
}

func isValidationError(err error) bool {
	return errors.Is(err, domain.ErrNameRequired) || errors.Is(err, domain.ErrInvalidAge)
}
