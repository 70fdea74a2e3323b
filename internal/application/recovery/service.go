package recovery

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/hospitalhub-api/internal/domain"
	"github.com/hospitalhub-api/internal/infrastructure/smtp"
	"github.com/hospitalhub-api/internal/pkg/code"
	"github.com/hospitalhub-api/internal/pkg/hash"
)

const emailSubject = "Password Verification Code"

// Service is the credential recovery flow: prove control of an email with a
// one-time code, then set a new password.
//
// The three operations are independent requests: no in-memory state ties a
// VerifyCode success to the ResetPassword that follows it, so each call
// re-derives correctness from the stored record. The HTTP layer sequences
// them; ResetPassword itself never consults reset records.
type Service interface {
	// RequestCode issues a fresh code for the account behind email,
	// replacing any outstanding one, and delivers it by mail.
	RequestCode(ctx context.Context, email string) error
	// VerifyCode checks a presented code. Success consumes the code: it can
	// never verify twice.
	VerifyCode(ctx context.Context, email, presented string) error
	// ResetPassword overwrites the account's stored password hash.
	ResetPassword(ctx context.Context, email, newPassword string) error
}

type doctorStore interface {
	GetByEmail(ctx context.Context, email string) (*domain.Doctor, error)
	UpdatePasswordHash(ctx context.Context, doctorID, passwordHash string) error
}

type resetStore interface {
	Put(ctx context.Context, pr *domain.PasswordReset) error
	Get(ctx context.Context, doctorID string) (*domain.PasswordReset, error)
	Delete(ctx context.Context, doctorID string) error
	DeleteIssuedAt(ctx context.Context, doctorID string, createdAt int64) error
}

type service struct {
	doctorRepo doctorStore
	resetRepo  resetStore
	hasher     hash.Hasher
	mailer     smtp.Mailer
	codeTTL    time.Duration
}

type ServiceDeps struct {
	DoctorRepo doctorStore
	ResetRepo  resetStore
	Hasher     hash.Hasher
	Mailer     smtp.Mailer
	CodeTTL    time.Duration
}

func NewService(deps ServiceDeps) Service {
	ttl := deps.CodeTTL
	if ttl == 0 {
		ttl = time.Hour
	}
	return &service{
		doctorRepo: deps.DoctorRepo,
		resetRepo:  deps.ResetRepo,
		hasher:     deps.Hasher,
		mailer:     deps.Mailer,
		codeTTL:    ttl,
	}
}

// RequestCode runs the issue sequence strictly in order: clear the old
// record, generate, hash, persist, send. If persisting fails nothing was
// sent and nothing is outstanding, so a retry re-runs the whole sequence.
// If only the send fails the record stays behind unreachable by the user;
// the next request replaces it.
func (s *service) RequestCode(ctx context.Context, email string) error {
	doc, err := s.doctorRepo.GetByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("account not found: %w", domain.ErrNotFound)
	}

	if err := s.resetRepo.Delete(ctx, doc.DoctorID); err != nil {
		return fmt.Errorf("clear previous reset code: %w", domain.ErrPersistence)
	}

	plaintext, err := code.New()
	if err != nil {
		return err
	}
	codeHash, err := s.hasher.Hash(plaintext)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	pr := &domain.PasswordReset{
		DoctorID:  doc.DoctorID,
		CodeHash:  codeHash,
		CreatedAt: now.Unix(),
		ExpiresAt: now.Add(s.codeTTL).Unix(),
	}
	if err := s.resetRepo.Put(ctx, pr); err != nil {
		return fmt.Errorf("store reset code: %w", domain.ErrPersistence)
	}

	if err := s.mailer.SendEmail(doc.Email, emailSubject, codeEmailBody(plaintext)); err != nil {
		slog.Warn("reset code email not delivered", "doctor_id", doc.DoctorID, "err", err)
		return fmt.Errorf("send reset code email: %w", domain.ErrDeliveryFailed)
	}
	return nil
}

// VerifyCode reports the same failure for a missing, expired, and wrong
// code, so the endpoint leaks nothing about whether a code was ever issued.
func (s *service) VerifyCode(ctx context.Context, email, presented string) error {
	doc, err := s.doctorRepo.GetByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("account not found: %w", domain.ErrNotFound)
	}

	pr, err := s.resetRepo.Get(ctx, doc.DoctorID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrInvalidCode
		}
		return fmt.Errorf("load reset code: %w", domain.ErrPersistence)
	}

	if pr.ExpiresAt < time.Now().Unix() {
		// Lazy cleanup; DynamoDB TTL would get there eventually.
		if err := s.resetRepo.Delete(ctx, doc.DoctorID); err != nil {
			slog.Warn("failed to delete expired reset code", "doctor_id", doc.DoctorID, "err", err)
		}
		return domain.ErrInvalidCode
	}

	if !s.hasher.Verify(presented, pr.CodeHash) {
		// Wrong guess: the record stays so the user can retry within the TTL.
		return domain.ErrInvalidCode
	}

	// Single use. The conditional delete keyed on the issuance timestamp
	// makes sure that of two concurrent matches only one reports success.
	if err := s.resetRepo.DeleteIssuedAt(ctx, doc.DoctorID, pr.CreatedAt); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrInvalidCode
		}
		return fmt.Errorf("consume reset code: %w", domain.ErrPersistence)
	}
	return nil
}

func (s *service) ResetPassword(ctx context.Context, email, newPassword string) error {
	doc, err := s.doctorRepo.GetByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("account not found: %w", domain.ErrNotFound)
	}
	passwordHash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return err
	}
	if err := s.doctorRepo.UpdatePasswordHash(ctx, doc.DoctorID, passwordHash); err != nil {
		return fmt.Errorf("update password hash: %w", domain.ErrPersistence)
	}
	return nil
}

func codeEmailBody(plaintext string) string {
	return fmt.Sprintf(`<div style="background-color:#f0f0f0;padding:20px;">
<h2 style="color:#333;">Password Verification Code</h2>
<p>Enter the verification code below to verify your email and initiate a password reset.</p>
<p><b>Verification Code:</b> <span style="background-color:#e0e0e0;padding:5px 10px;border-radius:5px;">%s</span></p>
<p>This code expires in 1 hour.</p>
</div>`, plaintext)
}
