package http

import (
	"github.com/hospitalhub-api/internal/infrastructure/dynamo"
	jwtinfra "github.com/hospitalhub-api/internal/infrastructure/jwt"
	s3infra "github.com/hospitalhub-api/internal/infrastructure/s3"
	"github.com/hospitalhub-api/internal/infrastructure/smtp"
	"github.com/hospitalhub-api/internal/infrastructure/sns"
	"github.com/hospitalhub-api/internal/pkg/hash"
)

// Deps holds all infrastructure dependencies for the router.
type Deps struct {
	DoctorRepo  *dynamo.DoctorRepo
	PatientRepo *dynamo.PatientRepo
	ResetRepo   *dynamo.ResetRepo
	ReportStore *s3infra.Store
	Mailer      smtp.Mailer
	SMSSender   sns.SMSSender
	Hasher      hash.Hasher
	JWTProvider *jwtinfra.Provider
}
