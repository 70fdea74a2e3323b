package staff

import (
	"context"
	"fmt"
	"time"

	"github.com/hospitalhub-api/internal/domain"
	"github.com/hospitalhub-api/internal/pkg/hash"
	"github.com/hospitalhub-api/internal/pkg/id"
)

// DynamoDB attribute names used in partial update maps.
const (
	fieldFullName    = "full_name"
	fieldTitle       = "title"
	fieldRole        = "role"
	fieldGender      = "gender"
	fieldContactInfo = "contact_info"
)

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginResult struct {
	Bearer string
	Doctor *domain.Doctor
}

type Service interface {
	Register(ctx context.Context, req domain.RegisterDoctorRequest) (*domain.Doctor, error)
	Login(ctx context.Context, req LoginRequest) (*LoginResult, error)
	Get(ctx context.Context, doctorID string) (*domain.Doctor, error)
	Update(ctx context.Context, doctorID string, req domain.UpdateDoctorRequest) (*domain.Doctor, error)
}

type doctorStore interface {
	Put(ctx context.Context, d *domain.Doctor) error
	Get(ctx context.Context, doctorID string) (*domain.Doctor, error)
	GetByEmail(ctx context.Context, email string) (*domain.Doctor, error)
	Update(ctx context.Context, doctorID string, updates map[string]interface{}) error
}

type jwtSigner interface {
	Sign(doctorID, role, title string) (string, error)
}

type service struct {
	repo        doctorStore
	hasher      hash.Hasher
	jwtProvider jwtSigner
}

type ServiceDeps struct {
	DoctorRepo  doctorStore
	Hasher      hash.Hasher
	JWTProvider jwtSigner
}

func NewService(deps ServiceDeps) Service {
	return &service{repo: deps.DoctorRepo, hasher: deps.Hasher, jwtProvider: deps.JWTProvider}
}

func (s *service) Register(ctx context.Context, req domain.RegisterDoctorRequest) (*domain.Doctor, error) {
	if _, err := s.repo.GetByEmail(ctx, req.Email); err == nil {
		return nil, fmt.Errorf("doctor already exists: %w", domain.ErrConflict)
	}
	passwordHash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	d := &domain.Doctor{
		DoctorID:     id.New(),
		FullName:     req.FullName,
		Email:        req.Email,
		CardNumber:   req.CardNumber,
		Title:        req.Title,
		Role:         req.Role,
		Gender:       req.Gender,
		ContactInfo:  req.ContactInfo,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.Put(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

func (s *service) Login(ctx context.Context, req LoginRequest) (*LoginResult, error) {
	d, err := s.repo.GetByEmail(ctx, req.Email)
	if err != nil {
		// Same answer as a wrong password: no account probing via login.
		return nil, fmt.Errorf("invalid credentials: %w", domain.ErrUnauthorized)
	}
	if !s.hasher.Verify(req.Password, d.PasswordHash) {
		return nil, fmt.Errorf("invalid credentials: %w", domain.ErrUnauthorized)
	}
	bearer, err := s.jwtProvider.Sign(d.DoctorID, d.Role, d.Title)
	if err != nil {
		return nil, err
	}
	return &LoginResult{Bearer: bearer, Doctor: d}, nil
}

func (s *service) Get(ctx context.Context, doctorID string) (*domain.Doctor, error) {
	return s.repo.Get(ctx, doctorID)
}

func (s *service) Update(ctx context.Context, doctorID string, req domain.UpdateDoctorRequest) (*domain.Doctor, error) {
	updates := map[string]interface{}{}
	if req.FullName != nil {
		updates[fieldFullName] = *req.FullName
	}
	if req.Title != nil {
		updates[fieldTitle] = *req.Title
	}
	if req.Role != nil {
		updates[fieldRole] = *req.Role
	}
	if req.Gender != nil {
		updates[fieldGender] = *req.Gender
	}
	if req.ContactInfo != nil {
		updates[fieldContactInfo] = *req.ContactInfo
	}
	if len(updates) == 0 {
		return nil, fmt.Errorf("no fields to update: %w", domain.ErrBadRequest)
	}
	if err := s.repo.Update(ctx, doctorID, updates); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, doctorID)
}
