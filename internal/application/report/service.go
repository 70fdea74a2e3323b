package report

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/hospitalhub-api/internal/domain"
	"github.com/hospitalhub-api/internal/pkg/id"
)

const presignTTL = 15 * time.Minute

// Group is one diagnosis × age-decade bucket.
type Group struct {
	Diagnosis       string  `json:"diagnosis"`
	AgeRange        string  `json:"age_range"`
	Count           int     `json:"count"`
	TotalExpenses   float64 `json:"total_expenses"`
	AverageExpenses float64 `json:"average_expenses"`
	AdmittedCount   int     `json:"admitted_count"`
	DischargedCount int     `json:"discharged_count"`
}

type DiagnosisCount struct {
	Diagnosis string `json:"diagnosis"`
	Count     int    `json:"count"`
}

type Overall struct {
	TotalExpenses   float64 `json:"total_expenses"`
	AverageExpenses float64 `json:"average_expenses"`
	AdmittedCount   int     `json:"admitted_count"`
	DischargedCount int     `json:"discharged_count"`
}

// Report is the aggregated view over all patient records. It is a read-only
// consumer of patient data; nothing here touches accounts or recovery state.
type Report struct {
	GeneratedAt   time.Time        `json:"generated_at"`
	TotalPatients int              `json:"total_patients"`
	GroupedData   []Group          `json:"grouped_data"`
	TopDiagnoses  []DiagnosisCount `json:"top_diagnoses"`
	Overall       Overall          `json:"overall_statistics"`
}

type ExportResult struct {
	Key string `json:"key"`
	URL string `json:"url"` // presigned, time-limited
}

type Service interface {
	Generate(ctx context.Context) (*Report, error)
	// Export generates the report, stores it as JSON in S3 and returns a
	// presigned download URL.
	Export(ctx context.Context) (*Report, *ExportResult, error)
}

type patientStore interface {
	Scan(ctx context.Context) ([]domain.Patient, error)
}

type objectStore interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) (string, error)
	PresignedURL(ctx context.Context, key string, ttl time.Duration) (string, error)
}

type service struct {
	patientRepo patientStore
	store       objectStore
}

type ServiceDeps struct {
	PatientRepo patientStore
	ObjectStore objectStore // optional; Export fails without it
}

func NewService(deps ServiceDeps) Service {
	return &service{patientRepo: deps.PatientRepo, store: deps.ObjectStore}
}

func (s *service) Generate(ctx context.Context) (*Report, error) {
	patients, err := s.patientRepo.Scan(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	groups := map[string]*Group{}
	overall := Overall{}

	for i := range patients {
		p := &patients[i]
		expenses := sumExpenses(p.Expenses)
		decade := ageAt(p.DateOfBirth, now) / 10 * 10
		key := fmt.Sprintf("%s_%d", p.Diagnosis, decade)

		g, ok := groups[key]
		if !ok {
			g = &Group{
				Diagnosis: p.Diagnosis,
				AgeRange:  fmt.Sprintf("%d-%d", decade, decade+9),
			}
			groups[key] = g
		}
		g.Count++
		g.TotalExpenses += expenses
		overall.TotalExpenses += expenses
		if p.Status == domain.StatusAdmitted {
			g.AdmittedCount++
			overall.AdmittedCount++
		} else {
			g.DischargedCount++
			overall.DischargedCount++
		}
	}

	grouped := make([]Group, 0, len(groups))
	for _, g := range groups {
		g.AverageExpenses = g.TotalExpenses / float64(g.Count)
		grouped = append(grouped, *g)
	}
	// Stable output order for consumers and tests.
	sort.Slice(grouped, func(i, j int) bool {
		if grouped[i].Diagnosis != grouped[j].Diagnosis {
			return grouped[i].Diagnosis < grouped[j].Diagnosis
		}
		return grouped[i].AgeRange < grouped[j].AgeRange
	})

	top := make([]DiagnosisCount, len(grouped))
	for i, g := range grouped {
		top[i] = DiagnosisCount{Diagnosis: g.Diagnosis, Count: g.Count}
	}
	sort.SliceStable(top, func(i, j int) bool { return top[i].Count > top[j].Count })
	if len(top) > 5 {
		top = top[:5]
	}

	if len(patients) > 0 {
		overall.AverageExpenses = overall.TotalExpenses / float64(len(patients))
	}

	return &Report{
		GeneratedAt:   now,
		TotalPatients: len(patients),
		GroupedData:   grouped,
		TopDiagnoses:  top,
		Overall:       overall,
	}, nil
}

func (s *service) Export(ctx context.Context) (*Report, *ExportResult, error) {
	if s.store == nil {
		return nil, nil, fmt.Errorf("report export not configured: %w", domain.ErrBadRequest)
	}
	rep, err := s.Generate(ctx)
	if err != nil {
		return nil, nil, err
	}
	data, err := json.Marshal(rep)
	if err != nil {
		return nil, nil, err
	}
	key := fmt.Sprintf("reports/%s.json", id.New())
	if _, err := s.store.Upload(ctx, key, data, "application/json"); err != nil {
		return nil, nil, fmt.Errorf("upload report: %w", domain.ErrPersistence)
	}
	url, err := s.store.PresignedURL(ctx, key, presignTTL)
	if err != nil {
		return nil, nil, err
	}
	return rep, &ExportResult{Key: key, URL: url}, nil
}

func sumExpenses(expenses []domain.Expense) float64 {
	var total float64
	for _, e := range expenses {
		total += e.Amount
	}
	return total
}

func ageAt(birth, now time.Time) int {
	age := now.Year() - birth.Year()
	if now.Month() < birth.Month() || (now.Month() == birth.Month() && now.Day() < birth.Day()) {
		age--
	}
	if age < 0 {
		age = 0
	}
	return age
}
