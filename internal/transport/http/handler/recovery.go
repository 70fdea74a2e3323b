package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/hospitalhub-api/internal/application/recovery"
	"github.com/hospitalhub-api/internal/pkg/validate"
)

// RecoveryHandler handles the password recovery flow: request a code,
// verify it, then reset the password. Three independent requests: the
// client drives the sequencing, the server re-checks durable state on each.
type RecoveryHandler struct {
	svc recovery.Service
}

func NewRecoveryHandler(svc recovery.Service) *RecoveryHandler {
	return &RecoveryHandler{svc: svc}
}

type requestCodeBody struct {
	Email string `json:"email" validate:"required,email"`
}

type verifyCodeBody struct {
	Email            string `json:"email" validate:"required,email"`
	VerificationCode string `json:"verification_code" validate:"required,len=6,numeric"`
}

type resetPasswordBody struct {
	Email       string `json:"email" validate:"required,email"`
	NewPassword string `json:"new_password" validate:"required,min=8,max=72"`
}

func (h *RecoveryHandler) Action(w http.ResponseWriter, r *http.Request) {
	switch chi.URLParam(r, "action") {
	case "forgot-password":
		h.requestCode(w, r)
	case "verify-otp":
		h.verifyCode(w, r)
	case "reset-password":
		h.resetPassword(w, r)
	default:
		writeError(w, http.StatusBadRequest, "unknown action")
	}
}

func (h *RecoveryHandler) requestCode(w http.ResponseWriter, r *http.Request) {
	var body requestCodeBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(&body); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	if err := h.svc.RequestCode(r.Context(), body.Email); err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "verification code sent"})
}

func (h *RecoveryHandler) verifyCode(w http.ResponseWriter, r *http.Request) {
	var body verifyCodeBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(&body); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	if err := h.svc.VerifyCode(r.Context(), body.Email, body.VerificationCode); err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "email verification complete"})
}

func (h *RecoveryHandler) resetPassword(w http.ResponseWriter, r *http.Request) {
	var body resetPasswordBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(&body); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	if err := h.svc.ResetPassword(r.Context(), body.Email, body.NewPassword); err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "password updated successfully"})
}
