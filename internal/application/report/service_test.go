package report

import (
	"context"
	"testing"
	"time"

	"github.com/hospitalhub-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubPatientStore struct {
	patients []domain.Patient
	err      error
}

func (s *stubPatientStore) Scan(context.Context) ([]domain.Patient, error) {
	return s.patients, s.err
}

type stubObjectStore struct {
	key  string
	data []byte
}

func (s *stubObjectStore) Upload(_ context.Context, key string, data []byte, _ string) (string, error) {
	s.key, s.data = key, data
	return "s3://bucket/" + key, nil
}

func (s *stubObjectStore) PresignedURL(_ context.Context, key string, _ time.Duration) (string, error) {
	return "https://example.com/" + key, nil
}

func birthYearsAgo(years int) time.Time {
	return time.Now().UTC().AddDate(-years, 0, -1)
}

func patientWith(diagnosis string, age int, status string, amounts ...float64) domain.Patient {
	expenses := make([]domain.Expense, len(amounts))
	for i, a := range amounts {
		expenses[i] = domain.Expense{Date: time.Now(), Description: "item", Amount: a}
	}
	return domain.Patient{
		Diagnosis:   diagnosis,
		DateOfBirth: birthYearsAgo(age),
		Status:      status,
		Expenses:    expenses,
	}
}

func TestGenerate_Empty(t *testing.T) {
	svc := NewService(ServiceDeps{PatientRepo: &stubPatientStore{}})
	rep, err := svc.Generate(context.Background())
	require.NoError(t, err)
	assert.Zero(t, rep.TotalPatients)
	assert.Empty(t, rep.GroupedData)
	assert.Zero(t, rep.Overall.AverageExpenses)
}

func TestGenerate_GroupsByDiagnosisAndDecade(t *testing.T) {
	store := &stubPatientStore{patients: []domain.Patient{
		patientWith("Flu", 34, domain.StatusAdmitted, 100),
		patientWith("Flu", 37, domain.StatusDischarged, 300),
		patientWith("Flu", 52, domain.StatusAdmitted, 50),
		patientWith("Asthma", 34, domain.StatusAdmitted, 80),
	}}
	svc := NewService(ServiceDeps{PatientRepo: store})

	rep, err := svc.Generate(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 4, rep.TotalPatients)
	require.Len(t, rep.GroupedData, 3)

	// Sorted by diagnosis, then age range.
	assert.Equal(t, "Asthma", rep.GroupedData[0].Diagnosis)
	assert.Equal(t, "30-39", rep.GroupedData[0].AgeRange)

	flu30s := rep.GroupedData[1]
	assert.Equal(t, "Flu", flu30s.Diagnosis)
	assert.Equal(t, "30-39", flu30s.AgeRange)
	assert.Equal(t, 2, flu30s.Count)
	assert.Equal(t, 400.0, flu30s.TotalExpenses)
	assert.Equal(t, 200.0, flu30s.AverageExpenses)
	assert.Equal(t, 1, flu30s.AdmittedCount)
	assert.Equal(t, 1, flu30s.DischargedCount)

	assert.Equal(t, "Flu", rep.TopDiagnoses[0].Diagnosis)
	assert.Equal(t, 2, rep.TopDiagnoses[0].Count)

	assert.Equal(t, 530.0, rep.Overall.TotalExpenses)
	assert.Equal(t, 132.5, rep.Overall.AverageExpenses)
	assert.Equal(t, 3, rep.Overall.AdmittedCount)
	assert.Equal(t, 1, rep.Overall.DischargedCount)
}

func TestGenerate_TopDiagnosesCappedAtFive(t *testing.T) {
	var patients []domain.Patient
	for _, d := range []string{"A", "B", "C", "D", "E", "F", "G"} {
		patients = append(patients, patientWith(d, 40, domain.StatusAdmitted, 10))
	}
	svc := NewService(ServiceDeps{PatientRepo: &stubPatientStore{patients: patients}})

	rep, err := svc.Generate(context.Background())
	require.NoError(t, err)
	assert.Len(t, rep.TopDiagnoses, 5)
}

func TestExport_UploadsJSONAndPresigns(t *testing.T) {
	obj := &stubObjectStore{}
	svc := NewService(ServiceDeps{
		PatientRepo: &stubPatientStore{patients: []domain.Patient{patientWith("Flu", 30, domain.StatusAdmitted, 10)}},
		ObjectStore: obj,
	})

	rep, res, err := svc.Export(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, rep.TotalPatients)
	assert.Contains(t, res.Key, "reports/")
	assert.Contains(t, res.URL, res.Key)
	assert.NotEmpty(t, obj.data)
	assert.Contains(t, string(obj.data), `"total_patients":1`)
}

func TestExport_NotConfigured(t *testing.T) {
	svc := NewService(ServiceDeps{PatientRepo: &stubPatientStore{}})
	_, _, err := svc.Export(context.Background())
	assert.ErrorIs(t, err, domain.ErrBadRequest)
}
