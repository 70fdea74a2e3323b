package domain

import "time"

// Staff titles. The original clinic roster only distinguishes these two.
const (
	TitleDoctor = "Doctor"
	TitleNurse  = "Nurse"
)

const RoleAdmin = "admin"

// Doctor is a registered staff member (doctor or nurse).
type Doctor struct {
	DoctorID     string    `json:"id" dynamodbav:"doctor_id"`
	FullName     string    `json:"full_name" dynamodbav:"full_name"`
	Email        string    `json:"email" dynamodbav:"email"`
	CardNumber   string    `json:"cardnumber" dynamodbav:"cardnumber"`
	Title        string    `json:"title" dynamodbav:"title"` // "Doctor" | "Nurse"
	Role         string    `json:"role" dynamodbav:"role"`
	Gender       string    `json:"gender" dynamodbav:"gender"`
	ContactInfo  string    `json:"contact_info" dynamodbav:"contact_info"`
	PasswordHash string    `json:"-" dynamodbav:"password_hash"`
	PatientIDs   []string  `json:"patient_ids,omitempty" dynamodbav:"patient_ids"`
	CreatedAt    time.Time `json:"created" dynamodbav:"created_at"`
	UpdatedAt    time.Time `json:"updated" dynamodbav:"updated_at"`
}

type RegisterDoctorRequest struct {
	FullName    string `json:"full_name" validate:"required"`
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=8,max=72"`
	CardNumber  string `json:"cardnumber" validate:"required"`
	Title       string `json:"title" validate:"required,oneof=Doctor Nurse"`
	Role        string `json:"role"`
	Gender      string `json:"gender"`
	ContactInfo string `json:"contact_info"`
}

type UpdateDoctorRequest struct {
	FullName    *string `json:"full_name"`
	Title       *string `json:"title" validate:"omitempty,oneof=Doctor Nurse"`
	Role        *string `json:"role"`
	Gender      *string `json:"gender"`
	ContactInfo *string `json:"contact_info"`
}
