package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/hospitalhub-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recoveryStub struct {
	requestErr error
	verifyErr  error
	resetErr   error

	lastEmail    string
	lastCode     string
	lastPassword string
}

func (s *recoveryStub) RequestCode(_ context.Context, email string) error {
	s.lastEmail = email
	return s.requestErr
}

func (s *recoveryStub) VerifyCode(_ context.Context, email, code string) error {
	s.lastEmail, s.lastCode = email, code
	return s.verifyErr
}

func (s *recoveryStub) ResetPassword(_ context.Context, email, newPassword string) error {
	s.lastEmail, s.lastPassword = email, newPassword
	return s.resetErr
}

func recoveryRouter(svc *recoveryStub) http.Handler {
	r := chi.NewRouter()
	r.Post("/api/user/{action}", NewRecoveryHandler(svc).Action)
	return r
}

func postJSON(t *testing.T, h http.Handler, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) MessageEnvelope {
	t.Helper()
	var env MessageEnvelope
	require.NoError(t, json.NewDecoder(w.Body).Decode(&env))
	return env
}

func TestForgotPassword_OK(t *testing.T) {
	svc := &recoveryStub{}
	w := postJSON(t, recoveryRouter(svc), "/api/user/forgot-password",
		`{"email":"grace@hospital.test"}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "verification code sent", decodeEnvelope(t, w).Message)
	assert.Equal(t, "grace@hospital.test", svc.lastEmail)
}

func TestForgotPassword_UnknownAccount(t *testing.T) {
	svc := &recoveryStub{requestErr: fmt.Errorf("doctor: %w", domain.ErrNotFound)}
	w := postJSON(t, recoveryRouter(svc), "/api/user/forgot-password",
		`{"email":"nobody@hospital.test"}`)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.NotEmpty(t, decodeEnvelope(t, w).Error)
}

func TestForgotPassword_DeliveryFailure(t *testing.T) {
	svc := &recoveryStub{requestErr: fmt.Errorf("send email: %w", domain.ErrDeliveryFailed)}
	w := postJSON(t, recoveryRouter(svc), "/api/user/forgot-password",
		`{"email":"grace@hospital.test"}`)

	assert.Equal(t, http.StatusBadGateway, w.Code)
}

func TestForgotPassword_PersistenceFailure(t *testing.T) {
	svc := &recoveryStub{requestErr: fmt.Errorf("store code: %w", domain.ErrPersistence)}
	w := postJSON(t, recoveryRouter(svc), "/api/user/forgot-password",
		`{"email":"grace@hospital.test"}`)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestForgotPassword_BadEmail(t *testing.T) {
	svc := &recoveryStub{}
	w := postJSON(t, recoveryRouter(svc), "/api/user/forgot-password",
		`{"email":"not-an-email"}`)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Empty(t, svc.lastEmail, "service never called on validation failure")
}

func TestVerifyOTP_OK(t *testing.T) {
	svc := &recoveryStub{}
	w := postJSON(t, recoveryRouter(svc), "/api/user/verify-otp",
		`{"email":"grace@hospital.test","verification_code":"123456"}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "email verification complete", decodeEnvelope(t, w).Message)
	assert.Equal(t, "123456", svc.lastCode)
}

func TestVerifyOTP_InvalidCode(t *testing.T) {
	svc := &recoveryStub{verifyErr: fmt.Errorf("verify: %w", domain.ErrInvalidCode)}
	w := postJSON(t, recoveryRouter(svc), "/api/user/verify-otp",
		`{"email":"grace@hospital.test","verification_code":"999999"}`)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	// Expired and wrong codes share one message; no oracle for attackers.
	assert.Equal(t, domain.ErrInvalidCode.Error(), decodeEnvelope(t, w).Error)
}

func TestVerifyOTP_CodeFormatEnforced(t *testing.T) {
	svc := &recoveryStub{}
	for _, code := range []string{"", "12345", "1234567", "abcdef"} {
		body := fmt.Sprintf(`{"email":"grace@hospital.test","verification_code":%q}`, code)
		w := postJSON(t, recoveryRouter(svc), "/api/user/verify-otp", body)
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code, "code %q", code)
	}
	assert.Empty(t, svc.lastCode)
}

func TestResetPassword_OK(t *testing.T) {
	svc := &recoveryStub{}
	w := postJSON(t, recoveryRouter(svc), "/api/user/reset-password",
		`{"email":"grace@hospital.test","new_password":"brand-new-pass"}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "password updated successfully", decodeEnvelope(t, w).Message)
	assert.Equal(t, "brand-new-pass", svc.lastPassword)
}

func TestResetPassword_TooShort(t *testing.T) {
	svc := &recoveryStub{}
	w := postJSON(t, recoveryRouter(svc), "/api/user/reset-password",
		`{"email":"grace@hospital.test","new_password":"short"}`)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Empty(t, svc.lastPassword)
}

func TestAction_Unknown(t *testing.T) {
	w := postJSON(t, recoveryRouter(&recoveryStub{}), "/api/user/launch-missiles", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAction_MalformedJSON(t *testing.T) {
	w := postJSON(t, recoveryRouter(&recoveryStub{}), "/api/user/forgot-password", `{"email":`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
