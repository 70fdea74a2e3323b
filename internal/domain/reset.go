package domain

// PasswordReset is the single outstanding recovery code for a doctor.
// PK: doctor_id, one live record per account. A new request replaces the
// old one wholesale. CodeHash is a bcrypt hash; the plaintext code exists
// only in the email that delivered it.
// ExpiresAt doubles as the DynamoDB TTL attribute (Unix seconds), but
// verification always re-checks it at read time rather than trusting the
// background sweep.
type PasswordReset struct {
	DoctorID  string `json:"doctor_id" dynamodbav:"doctor_id"`
	CodeHash  string `json:"-" dynamodbav:"code_hash"`
	CreatedAt int64  `json:"created_at" dynamodbav:"created_at"`
	ExpiresAt int64  `json:"expires_at" dynamodbav:"expires_at"`
}
