package staff

import (
	"context"
	"fmt"
	"testing"

	"github.com/hospitalhub-api/internal/domain"
	"github.com/hospitalhub-api/internal/pkg/hash"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type fakeDoctorStore struct {
	doctors map[string]*domain.Doctor // keyed by doctor ID
	putErr  error
}

func newFakeDoctorStore() *fakeDoctorStore {
	return &fakeDoctorStore{doctors: map[string]*domain.Doctor{}}
}

func (s *fakeDoctorStore) Put(_ context.Context, d *domain.Doctor) error {
	if s.putErr != nil {
		return s.putErr
	}
	cp := *d
	s.doctors[d.DoctorID] = &cp
	return nil
}

func (s *fakeDoctorStore) Get(_ context.Context, doctorID string) (*domain.Doctor, error) {
	d, ok := s.doctors[doctorID]
	if !ok {
		return nil, fmt.Errorf("doctor %s: %w", doctorID, domain.ErrNotFound)
	}
	cp := *d
	return &cp, nil
}

func (s *fakeDoctorStore) GetByEmail(_ context.Context, email string) (*domain.Doctor, error) {
	for _, d := range s.doctors {
		if d.Email == email {
			cp := *d
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("doctor by email: %w", domain.ErrNotFound)
}

func (s *fakeDoctorStore) Update(_ context.Context, doctorID string, updates map[string]interface{}) error {
	d, ok := s.doctors[doctorID]
	if !ok {
		return fmt.Errorf("doctor %s: %w", doctorID, domain.ErrNotFound)
	}
	if v, ok := updates[fieldFullName]; ok {
		d.FullName = v.(string)
	}
	if v, ok := updates[fieldTitle]; ok {
		d.Title = v.(string)
	}
	if v, ok := updates[fieldRole]; ok {
		d.Role = v.(string)
	}
	if v, ok := updates[fieldGender]; ok {
		d.Gender = v.(string)
	}
	if v, ok := updates[fieldContactInfo]; ok {
		d.ContactInfo = v.(string)
	}
	return nil
}

type staticSigner struct{ err error }

func (s staticSigner) Sign(doctorID, role, title string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return "token-for-" + doctorID, nil
}

func newTestService(store *fakeDoctorStore) Service {
	return NewService(ServiceDeps{
		DoctorRepo:  store,
		Hasher:      hash.NewBcrypt(bcrypt.MinCost),
		JWTProvider: staticSigner{},
	})
}

func registerReq() domain.RegisterDoctorRequest {
	return domain.RegisterDoctorRequest{
		FullName:   "Grace Osei",
		Email:      "grace@hospital.test",
		Password:   "s3cret-pass",
		CardNumber: "CARD-001",
		Title:      domain.TitleDoctor,
	}
}

func TestRegister_HappyPath(t *testing.T) {
	store := newFakeDoctorStore()
	svc := newTestService(store)

	d, err := svc.Register(context.Background(), registerReq())
	require.NoError(t, err)

	assert.NotEmpty(t, d.DoctorID)
	assert.Equal(t, "grace@hospital.test", d.Email)
	assert.NotEqual(t, "s3cret-pass", d.PasswordHash)
	require.Len(t, store.doctors, 1)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	store := newFakeDoctorStore()
	svc := newTestService(store)

	_, err := svc.Register(context.Background(), registerReq())
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), registerReq())
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.Len(t, store.doctors, 1)
}

func TestLogin_HappyPath(t *testing.T) {
	store := newFakeDoctorStore()
	svc := newTestService(store)

	d, err := svc.Register(context.Background(), registerReq())
	require.NoError(t, err)

	res, err := svc.Login(context.Background(), LoginRequest{Email: d.Email, Password: "s3cret-pass"})
	require.NoError(t, err)
	assert.Equal(t, "token-for-"+d.DoctorID, res.Bearer)
	assert.Equal(t, d.DoctorID, res.Doctor.DoctorID)
}

func TestLogin_WrongPassword(t *testing.T) {
	store := newFakeDoctorStore()
	svc := newTestService(store)

	d, err := svc.Register(context.Background(), registerReq())
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), LoginRequest{Email: d.Email, Password: "wrong"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestLogin_UnknownEmailSameAnswerAsWrongPassword(t *testing.T) {
	svc := newTestService(newFakeDoctorStore())

	_, err := svc.Login(context.Background(), LoginRequest{Email: "nobody@hospital.test", Password: "whatever"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	assert.NotErrorIs(t, err, domain.ErrNotFound)
}

func TestUpdate_PartialFields(t *testing.T) {
	store := newFakeDoctorStore()
	svc := newTestService(store)

	d, err := svc.Register(context.Background(), registerReq())
	require.NoError(t, err)

	newName := "Grace Osei-Mensah"
	newTitle := domain.TitleNurse
	updated, err := svc.Update(context.Background(), d.DoctorID, domain.UpdateDoctorRequest{
		FullName: &newName,
		Title:    &newTitle,
	})
	require.NoError(t, err)
	assert.Equal(t, newName, updated.FullName)
	assert.Equal(t, domain.TitleNurse, updated.Title)
	assert.Equal(t, d.Email, updated.Email, "untouched fields survive")
}

func TestUpdate_NoFields(t *testing.T) {
	store := newFakeDoctorStore()
	svc := newTestService(store)

	d, err := svc.Register(context.Background(), registerReq())
	require.NoError(t, err)

	_, err = svc.Update(context.Background(), d.DoctorID, domain.UpdateDoctorRequest{})
	assert.ErrorIs(t, err, domain.ErrBadRequest)
}
