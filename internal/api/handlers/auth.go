package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/docbuddy/docbuddy/internal/api/middleware"
	"github.com/docbuddy/docbuddy/internal/config"
	"github.com/docbuddy/docbuddy/internal/domain"
	"github.com/docbuddy/docbuddy/internal/service"
)

type AuthHandler struct {
	authService *service.AuthService
	cfg         *config.Config
}

func NewAuthHandler(authService *service.AuthService, cfg *config.Config) *AuthHandler {
	return &AuthHandler{authService: authService, cfg: cfg}
}

type RegisterRequest struct {
	Email      string `json:"email"`
	Password   string `json:"password"`
	Name       string `json:"name"`
	Speciality string `json:"speciality"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthResponse struct {
	Doctor DoctorResponse `json:"doctor"`
	Token  string         `json:"token"`
}

type DoctorResponse struct {
	ID         string `json:"id"`
	Email      string `json:"email"`
	Name       string `json:"name"`
	Speciality string `json:"speciality,omitempty"`
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if req.Email == "" || req.Password == "" || req.Name == "" {
		http.Error(w, "Email, password and name are required", http.StatusBadRequest)
		return
	}

	result, err := h.authService.Register(r.Context(), service.RegisterInput{
		Email:      req.Email,
		Password:   req.Password,
		Name:       req.Name,
		Speciality: req.Speciality,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmailExists):
			http.Error(w, "Email already registered", http.StatusConflict)
		case errors.Is(err, domain.ErrInvalidEmail),
			errors.Is(err, domain.ErrEmailRequired),
			errors.Is(err, domain.ErrNameRequired),
			errors.Is(err, domain.ErrPasswordTooShort):
			http.Error(w, err.Error(), http.StatusBadRequest)
		default:
			http.Error(w, "Internal server error", http.StatusInternalServerError)
		}
		return
	}

	h.setSessionCookie(w, result.Token)
	writeAuthResponse(w, result)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if req.Email == "" || req.Password == "" {
		http.Error(w, "Email and password are required", http.StatusBadRequest)
		return
	}

	result, err := h.authService.Login(r.Context(), service.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		// Unknown account and wrong password share one response shape.
		if errors.Is(err, service.ErrAccountNotFound) || errors.Is(err, service.ErrBadPassword) {
			http.Error(w, "Invalid credentials", http.StatusUnauthorized)
			return
		}
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	h.setSessionCookie(w, result.Token)
	writeAuthResponse(w, result)
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetDoctor(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	doctor, err := h.authService.GetDoctorByID(r.Context(), claims.DoctorID)
	if err != nil {
		http.Error(w, "Account not found", http.StatusNotFound)
		return
	}

	resp := DoctorResponse{
		ID:         doctor.ID.String(),
		Email:      doctor.Email,
		Name:       doctor.Name,
		Speciality: doctor.Speciality,
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// Logout clears the client-held cookie. There is no server-side revocation
// list; the token stays valid until its expiry.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
	})

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]bool{"success": true})
}

func (h *AuthHandler) setSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(h.cfg.JWTTTL),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   h.cfg.Environment == "production",
	})
}

func writeAuthResponse(w http.ResponseWriter, result *service.AuthResult) {
	resp := AuthResponse{
		Doctor: DoctorResponse{
			ID:         result.Doctor.ID.String(),
			Email:      result.Doctor.Email,
			Name:       result.Doctor.Name,
			Speciality: result.Doctor.Speciality,
		},
		Token: result.Token,
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}
