package model

import "time"

// CertificateType is a kind of certificate or license the platform tracks,
// e.g. "Forklift Operator" or "VCA Basic Safety".
type CertificateType struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	Description   string `json:"description,omitempty"`
	Issuer        string `json:"issuer,omitempty"`
	ValidityMonths int   `json:"validity_months,omitempty"`
}

// EmployeeCertificate links an employee to a certificate they hold.
type EmployeeCertificate struct {
	ID                int64      `json:"id"`
	EmployeeID        int64      `json:"employee_id"`
	CertificateTypeID int64      `json:"certificate_type_id"`
	CertificateNumber string     `json:"certificate_number"`
	IssueDate         *time.Time `json:"issue_date,omitempty"`
	ExpiryDate        *time.Time `json:"expiry_date,omitempty"`
	Issuer            string     `json:"issuer,omitempty"`
	DocumentID        string     `json:"document_id,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
}

// ExpiringCertificate is a read-model row for the expiry overview: a held
// certificate joined with its holder and type names.
type ExpiringCertificate struct {
	CertificateID     int64     `json:"certificate_id"`
	EmployeeID        int64     `json:"employee_id"`
	EmployeeName      string    `json:"employee_name"`
	CertificateType   string    `json:"certificate_type"`
	CertificateNumber string    `json:"certificate_number"`
	ExpiryDate        time.Time `json:"expiry_date"`
	DaysRemaining     int       `json:"days_remaining"`
}
