package domain

import "time"

// Patient admission statuses.
const (
	StatusAdmitted   = "Admitted"
	StatusDischarged = "Discharged"
)

// Expense is a single billed item on a patient record.
type Expense struct {
	Date        time.Time `json:"date" dynamodbav:"date"`
	Description string    `json:"description" dynamodbav:"description"`
	Amount      float64   `json:"amount" dynamodbav:"amount"`
}

type Patient struct {
	PatientID   string    `json:"id" dynamodbav:"patient_id"`
	Name        string    `json:"name" dynamodbav:"name"`
	DateOfBirth time.Time `json:"date_of_birth" dynamodbav:"date_of_birth"`
	Phone       string    `json:"phone" dynamodbav:"phone"`
	Email       string    `json:"email" dynamodbav:"email"`
	Address     string    `json:"address" dynamodbav:"address"`
	Diagnosis   string    `json:"diagnosis" dynamodbav:"diagnosis"`
	Expenses    []Expense `json:"expenses" dynamodbav:"expenses"`
	Status      string    `json:"status" dynamodbav:"status"` // "Admitted" | "Discharged"
	CreatedAt   time.Time `json:"created" dynamodbav:"created_at"`
	UpdatedAt   time.Time `json:"updated" dynamodbav:"updated_at"`
}

type ExpenseInput struct {
	Date        string  `json:"date" validate:"required"` // YYYY-MM-DD
	Description string  `json:"description" validate:"required"`
	Amount      float64 `json:"amount" validate:"required"`
}

type AddPatientRequest struct {
	Name        string         `json:"name" validate:"required"`
	DateOfBirth string         `json:"date_of_birth" validate:"required"` // YYYY-MM-DD
	Phone       string         `json:"phone" validate:"required"`
	Email       string         `json:"email" validate:"required,email"`
	Address     string         `json:"address" validate:"required"`
	Diagnosis   string         `json:"diagnosis" validate:"required"`
	Expenses    []ExpenseInput `json:"expenses"`
	Status      string         `json:"status" validate:"omitempty,oneof=Admitted Discharged"`
}

type UpdatePatientRequest struct {
	Name      *string `json:"name"`
	Phone     *string `json:"phone"`
	Email     *string `json:"email" validate:"omitempty,email"`
	Address   *string `json:"address"`
	Diagnosis *string `json:"diagnosis"`
	Status    *string `json:"status" validate:"omitempty,oneof=Admitted Discharged"`
}
