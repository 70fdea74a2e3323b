package patient

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/hospitalhub-api/internal/domain"
	"github.com/hospitalhub-api/internal/infrastructure/sns"
	"github.com/hospitalhub-api/internal/pkg/id"
)

const (
	fieldName      = "name"
	fieldPhone     = "phone"
	fieldEmail     = "email"
	fieldAddress   = "address"
	fieldDiagnosis = "diagnosis"
	fieldStatus    = "status"
)

type ReferRequest struct {
	PatientID string `json:"patient_id" validate:"required"`
	ReferTo   string `json:"referto" validate:"required"` // target doctor's card number
}

type Service interface {
	Add(ctx context.Context, doctorID string, req domain.AddPatientRequest) (*domain.Patient, error)
	Get(ctx context.Context, patientID string) (*domain.Patient, error)
	ListByDoctor(ctx context.Context, doctorID string) ([]domain.Patient, error)
	Update(ctx context.Context, patientID string, req domain.UpdatePatientRequest) (*domain.Patient, error)
	Delete(ctx context.Context, patientID string) error
	Refer(ctx context.Context, fromDoctorID string, req ReferRequest) error
}

type patientStore interface {
	Put(ctx context.Context, p *domain.Patient) error
	Get(ctx context.Context, patientID string) (*domain.Patient, error)
	BatchGet(ctx context.Context, patientIDs []string) ([]domain.Patient, error)
	Update(ctx context.Context, patientID string, updates map[string]interface{}) error
	Delete(ctx context.Context, patientID string) error
}

type doctorStore interface {
	Get(ctx context.Context, doctorID string) (*domain.Doctor, error)
	GetByCardNumber(ctx context.Context, cardNumber string) (*domain.Doctor, error)
	AppendPatient(ctx context.Context, doctorID, patientID string) error
}

type service struct {
	patientRepo patientStore
	doctorRepo  doctorStore
	smsSender   sns.SMSSender
}

type ServiceDeps struct {
	PatientRepo patientStore
	DoctorRepo  doctorStore
	SMSSender   sns.SMSSender // optional
}

func NewService(deps ServiceDeps) Service {
	return &service{
		patientRepo: deps.PatientRepo,
		doctorRepo:  deps.DoctorRepo,
		smsSender:   deps.SMSSender,
	}
}

func (s *service) Add(ctx context.Context, doctorID string, req domain.AddPatientRequest) (*domain.Patient, error) {
	if _, err := s.doctorRepo.Get(ctx, doctorID); err != nil {
		return nil, fmt.Errorf("doctor not found: %w", domain.ErrNotFound)
	}
	dob, err := time.Parse("2006-01-02", req.DateOfBirth)
	if err != nil {
		return nil, fmt.Errorf("date_of_birth must be in YYYY-MM-DD format: %w", domain.ErrBadRequest)
	}
	expenses, err := parseExpenses(req.Expenses)
	if err != nil {
		return nil, err
	}
	status := req.Status
	if status == "" {
		status = domain.StatusAdmitted
	}
	now := time.Now().UTC()
	p := &domain.Patient{
		PatientID:   id.New(),
		Name:        req.Name,
		DateOfBirth: dob,
		Phone:       req.Phone,
		Email:       req.Email,
		Address:     req.Address,
		Diagnosis:   req.Diagnosis,
		Expenses:    expenses,
		Status:      status,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.patientRepo.Put(ctx, p); err != nil {
		return nil, err
	}
	if err := s.doctorRepo.AppendPatient(ctx, doctorID, p.PatientID); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *service) Get(ctx context.Context, patientID string) (*domain.Patient, error) {
	return s.patientRepo.Get(ctx, patientID)
}

func (s *service) ListByDoctor(ctx context.Context, doctorID string) ([]domain.Patient, error) {
	d, err := s.doctorRepo.Get(ctx, doctorID)
	if err != nil {
		return nil, fmt.Errorf("doctor not found: %w", domain.ErrNotFound)
	}
	if len(d.PatientIDs) == 0 {
		return []domain.Patient{}, nil
	}
	return s.patientRepo.BatchGet(ctx, d.PatientIDs)
}

func (s *service) Update(ctx context.Context, patientID string, req domain.UpdatePatientRequest) (*domain.Patient, error) {
	updates := map[string]interface{}{}
	if req.Name != nil {
		updates[fieldName] = *req.Name
	}
	if req.Phone != nil {
		updates[fieldPhone] = *req.Phone
	}
	if req.Email != nil {
		updates[fieldEmail] = *req.Email
	}
	if req.Address != nil {
		updates[fieldAddress] = *req.Address
	}
	if req.Diagnosis != nil {
		updates[fieldDiagnosis] = *req.Diagnosis
	}
	if req.Status != nil {
		updates[fieldStatus] = *req.Status
	}
	if len(updates) == 0 {
		return nil, fmt.Errorf("no fields to update: %w", domain.ErrBadRequest)
	}
	if err := s.patientRepo.Update(ctx, patientID, updates); err != nil {
		return nil, err
	}
	return s.patientRepo.Get(ctx, patientID)
}

func (s *service) Delete(ctx context.Context, patientID string) error {
	if _, err := s.patientRepo.Get(ctx, patientID); err != nil {
		return err
	}
	return s.patientRepo.Delete(ctx, patientID)
}

// Refer hands a patient over to a colleague identified by card number.
// The patient record itself is untouched; only the receiving doctor's
// roster grows. Notification is best effort.
func (s *service) Refer(ctx context.Context, fromDoctorID string, req ReferRequest) error {
	if _, err := s.doctorRepo.Get(ctx, fromDoctorID); err != nil {
		return fmt.Errorf("referring doctor not found: %w", domain.ErrNotFound)
	}
	p, err := s.patientRepo.Get(ctx, req.PatientID)
	if err != nil {
		return fmt.Errorf("patient not found: %w", domain.ErrNotFound)
	}
	target, err := s.doctorRepo.GetByCardNumber(ctx, req.ReferTo)
	if err != nil {
		return fmt.Errorf("receiving doctor not found: %w", domain.ErrNotFound)
	}
	if err := s.doctorRepo.AppendPatient(ctx, target.DoctorID, p.PatientID); err != nil {
		return err
	}
	if s.smsSender != nil && target.ContactInfo != "" {
		msg := fmt.Sprintf("HospitalHub: patient %s has been referred to you.", p.Name)
		if err := s.smsSender.SendSMS(ctx, target.ContactInfo, msg); err != nil {
			slog.Warn("referral SMS not delivered", "doctor_id", target.DoctorID, "err", err)
		}
	}
	return nil
}

func parseExpenses(inputs []domain.ExpenseInput) ([]domain.Expense, error) {
	expenses := make([]domain.Expense, 0, len(inputs))
	for _, in := range inputs {
		date, err := time.Parse("2006-01-02", in.Date)
		if err != nil {
			return nil, fmt.Errorf("expense date must be in YYYY-MM-DD format: %w", domain.ErrBadRequest)
		}
		expenses = append(expenses, domain.Expense{
			Date:        date,
			Description: in.Description,
			Amount:      in.Amount,
		})
	}
	return expenses, nil
}
