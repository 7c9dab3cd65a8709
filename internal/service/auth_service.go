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
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrEmailExists        = errors.New("email already registered")
	ErrAccountNotFound    = errors.New("account not found")
	ErrBadPassword        = errors.New("incorrect password")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

type AuthService struct {
	doctorRepo repository.DoctorRepository
	cfg        *config.Config
}

func NewAuthService(doctorRepo repository.DoctorRepository, cfg *config.Config) *AuthService {
	return &AuthService{
		doctorRepo: doctorRepo,
		cfg:        cfg,
	}
}

type RegisterInput struct {
	Email      string
	Password   string
	Name       string
	Speciality string
}

type LoginInput struct {
	Email    string
	Password string
}

type AuthResult struct {
	Doctor *domain.Doctor
	Token  string
}

// DoctorClaims is the principal snapshot embedded in every session token.
type DoctorClaims struct {
	DoctorID uuid.UUID
	Email    string
	Name     string
}

func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*AuthResult, error) {
	if err := validateRegisterInput(&input); err != nil {
		return nil, err
	}

	// Fast-path duplicate check; the unique index on doctors.email is the
	// actual guard against the check-then-insert race.
	existing, err := s.doctorRepo.GetByEmail(ctx, input.Email)
	if err == nil && existing != nil {
		return nil, ErrEmailExists
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	doctor := &domain.Doctor{
		ID:           uuid.New(),
		Email:        input.Email,
		PasswordHash: string(hashedPassword),
		Name:         input.Name,
		Speciality:   input.Speciality,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}

	if err := s.doctorRepo.Create(ctx, doctor); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailExists
		}
		return nil, err
	}

	token, err := s.generateToken(doctor)
	if err != nil {
		return nil, err
	}

	return &AuthResult{Doctor: doctor, Token: token}, nil
}

func (s *AuthService) Login(ctx context.Context, input LoginInput) (*AuthResult, error) {
	doctor, err := s.doctorRepo.GetByEmail(ctx, normalizeEmail(input.Email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(doctor.PasswordHash), []byte(input.Password)); err != nil {
		return nil, ErrBadPassword
	}

	token, err := s.generateToken(doctor)
	if err != nil {
		return nil, err
	}

	return &AuthResult{Doctor: doctor, Token: token}, nil
}

func (s *AuthService) generateToken(doctor *domain.Doctor) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   doctor.ID.String(),
		"email": doctor.Email,
		"name":  doctor.Name,
		"iat":   now.Unix(),
		"exp":   now.Add(s.cfg.JWTTTL).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}

// ValidateToken verifies the signature before touching the payload, then
// expiry. All failure modes collapse to ErrInvalidCredentials for callers;
// the parse error is logged internally.
func (s *AuthService) ValidateToken(tokenString string) (*DoctorClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil {
		log.Printf("ERROR [service.ValidateToken] token rejected: %v", err)
		return nil, ErrInvalidCredentials
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidCredentials
	}

	sub, _ := claims["sub"].(string)
	doctorID, err := uuid.Parse(sub)
	if err != nil {
		log.Printf("ERROR [service.ValidateToken] bad subject claim: %v", err)
		return nil, ErrInvalidCredentials
	}

	email, _ := claims["email"].(string)
	name, _ := claims["name"].(string)

	return &DoctorClaims{
		DoctorID: doctorID,
		Email:    email,
		Name:     name,
	}, nil
}

func (s *AuthService) GetDoctorByID(ctx context.Context, id uuid.UUID) (*domain.Doctor, error) {
	doctor, err := s.doctorRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}
	return doctor, nil
}

func validateRegisterInput(input *RegisterInput) error {
	input.Email = normalizeEmail(input.Email)
	input.Name = strings.TrimSpace(input.Name)

	if input.Email == "" {
		return domain.ErrEmailRequired
	}
	at := strings.Index(input.Email, "@")
	if at < 1 || at == len(input.Email)-1 {
		return domain.ErrInvalidEmail
	}
	if input.Name == "" {
		return domain.ErrNameRequired
	}
	if len(input.Password) < 8 {
		return domain.ErrPasswordTooShort
	}
	return nil
}

// The unique index treats emails case-insensitively by storing them
// lowercased.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
