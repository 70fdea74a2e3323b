package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/hospitalhub-api/internal/application/patient"
	"github.com/hospitalhub-api/internal/application/recovery"
	"github.com/hospitalhub-api/internal/application/report"
	"github.com/hospitalhub-api/internal/application/staff"
	"github.com/hospitalhub-api/internal/config"
	"github.com/hospitalhub-api/internal/transport/http/handler"
	appmiddleware "github.com/hospitalhub-api/internal/transport/http/middleware"
	"golang.org/x/time/rate"
)

// NewRouter builds and returns the application router.
func NewRouter(cfg *config.Config, deps *Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	var authMw func(http.Handler) http.Handler
	if deps.JWTProvider != nil {
		authMw = appmiddleware.Auth(deps.JWTProvider)
	} else {
		authMw = func(next http.Handler) http.Handler { return next }
	}

	// 5 requests/second, burst of 10, applied to the public credential
	// endpoints. This is the only guess-throttling the recovery flow gets.
	sensitiveRL := appmiddleware.NewRateLimiter(rate.Limit(5), 10)

	staffSvc := staff.NewService(staff.ServiceDeps{
		DoctorRepo:  deps.DoctorRepo,
		Hasher:      deps.Hasher,
		JWTProvider: deps.JWTProvider,
	})
	recoverySvc := recovery.NewService(recovery.ServiceDeps{
		DoctorRepo: deps.DoctorRepo,
		ResetRepo:  deps.ResetRepo,
		Hasher:     deps.Hasher,
		Mailer:     deps.Mailer,
		CodeTTL:    cfg.ResetCodeTTL,
	})
	patientSvc := patient.NewService(patient.ServiceDeps{
		PatientRepo: deps.PatientRepo,
		DoctorRepo:  deps.DoctorRepo,
		SMSSender:   deps.SMSSender,
	})
	reportSvc := report.NewService(report.ServiceDeps{
		PatientRepo: deps.PatientRepo,
		ObjectStore: deps.ReportStore,
	})

	healthH := handler.NewHealthHandler()
	doctorH := handler.NewDoctorHandler(staffSvc)
	recoveryH := handler.NewRecoveryHandler(recoverySvc)
	patientH := handler.NewPatientHandler(patientSvc)
	reportH := handler.NewReportHandler(reportSvc)

	r.Route("/api/user", func(r chi.Router) {
		// ── Public routes (no auth) ──────────────────────────────────────────
		r.Get("/health-check", healthH.Ping)
		r.With(sensitiveRL.Limit).Post("/register", doctorH.Register)
		r.With(sensitiveRL.Limit).Post("/login", doctorH.Login)
		// forgot-password | verify-otp | reset-password
		r.With(sensitiveRL.Limit).Post("/{action}", recoveryH.Action)

		// ── Authenticated routes ─────────────────────────────────────────────
		r.Group(func(r chi.Router) {
			r.Use(authMw)

			r.Get("/doctors/{id}", doctorH.Get)
			r.Put("/doctors/{id}", doctorH.Update)

			r.Post("/patients", patientH.Add)
			r.Get("/patients", patientH.ListMine)
			r.Get("/patients/{id}", patientH.Get)
			r.Put("/patients/{id}", patientH.Update)
			r.Delete("/patients/{id}", patientH.Delete)
			r.Post("/refer", patientH.Refer)

			r.Get("/reports/analysis", reportH.Generate)
			r.Post("/reports/analysis/export", reportH.Export)
		})
	})

	return r
}
