package models

import (
	"time"

	"github.com/google/uuid"
)

// Lease agreement lifecycle.
const (
	LeaseStatusDraft            = "draft"
	LeaseStatusSentForSignature = "sent_for_signature"
	LeaseStatusPartiallySigned  = "partially_signed"
	LeaseStatusFullyExecuted    = "fully_executed"
	LeaseStatusActive           = "active"
	LeaseStatusExpired          = "expired"
	LeaseStatusTerminated       = "terminated"
	LeaseStatusCancelled        = "cancelled"
)

// Signature status values for landlord, tenant and witness.
const (
	SignaturePending  = "pending"
	SignatureSigned   = "signed"
	SignatureDeclined = "declined"
)

// Commission lifecycle.
const (
	CommissionPending  = "pending"
	CommissionInvoiced = "invoiced"
	CommissionPaid     = "paid"
	CommissionDisputed = "disputed"
)

var ValidLeaseStatuses = map[string]bool{
	LeaseStatusDraft:            true,
	LeaseStatusSentForSignature: true,
	LeaseStatusPartiallySigned:  true,
	LeaseStatusFullyExecuted:    true,
	LeaseStatusActive:           true,
	LeaseStatusExpired:          true,
	LeaseStatusTerminated:       true,
	LeaseStatusCancelled:        true,
}

var ValidSignatureStatuses = map[string]bool{
	SignaturePending:  true,
	SignatureSigned:   true,
	SignatureDeclined: true,
}

var ValidCommissionStatuses = map[string]bool{
	CommissionPending:  true,
	CommissionInvoiced: true,
	CommissionPaid:     true,
	CommissionDisputed: true,
}

var ValidPaymentSchedules = map[string]bool{
	"annual":      true,
	"semi_annual": true,
	"quarterly":   true,
	"monthly":     true,
}

var ValidPaymentMethods = map[string]bool{
	"bank_transfer": true,
	"cheque":        true,
	"cash":          true,
	"card":          true,
}

type LeaseAgreement struct {
	ID         uuid.UUID `json:"id"`
	PropertyID uuid.UUID `json:"property_id"`

	// Parties.
	LandlordName       string  `json:"landlord_name"`
	LandlordEmail      *string `json:"landlord_email,omitempty"`
	LandlordPhone      *string `json:"landlord_phone,omitempty"`
	LandlordEmiratesID *string `json:"landlord_emirates_id,omitempty"`

	TenantName       string  `json:"tenant_name"`
	TenantEmail      string  `json:"tenant_email"`
	TenantPhone      string  `json:"tenant_phone"`
	TenantEmiratesID *string `json:"tenant_emirates_id,omitempty"`

	// Lease term.
	LeaseStartDate      time.Time `json:"lease_start_date"`
	LeaseEndDate        time.Time `json:"lease_end_date"`
	LeaseDurationMonths int       `json:"lease_duration_months"`

	// Financial terms.
	AnnualRent           float64 `json:"annual_rent"`
	MonthlyRent          float64 `json:"monthly_rent"`
	SecurityDeposit      float64 `json:"security_deposit"`
	BrokerCommission     float64 `json:"broker_commission"`
	CommissionPercentage float64 `json:"commission_percentage"`

	// Payment terms.
	PaymentSchedule           string  `json:"payment_schedule"`
	PaymentMethod             string  `json:"payment_method"`
	PaymentDueDay             int     `json:"payment_due_day"`
	LatePaymentPenaltyPercent float64 `json:"late_payment_penalty_percentage"`

	// Included services.
	DEWAIncluded        bool `json:"dewa_included"`
	InternetIncluded    bool `json:"internet_included"`
	MaintenanceIncluded bool `json:"maintenance_included"`
	ParkingIncluded     bool `json:"parking_included"`

	// Renewal terms.
	AutoRenewal             bool `json:"auto_renewal"`
	RenewalNoticePeriodDays int  `json:"renewal_notice_period_days"`

	// Signatures.
	LandlordSignatureStatus string `json:"landlord_signature_status"`
	TenantSignatureStatus   string `json:"tenant_signature_status"`
	WitnessRequired         bool   `json:"witness_required"`
	WitnessSignatureStatus  string `json:"witness_signature_status"`

	Status           string `json:"status"`
	CommissionStatus string `json:"commission_status"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// FullySigned reports whether every required party has signed.
func (l *LeaseAgreement) FullySigned() bool {
	if l.LandlordSignatureStatus != SignatureSigned || l.TenantSignatureStatus != SignatureSigned {
		return false
	}
	if l.WitnessRequired && l.WitnessSignatureStatus != SignatureSigned {
		return false
	}
	return true
}

// PartiallySigned reports whether at least one but not all parties signed.
func (l *LeaseAgreement) PartiallySigned() bool {
	signed := l.LandlordSignatureStatus == SignatureSigned ||
		l.TenantSignatureStatus == SignatureSigned ||
		(l.WitnessRequired && l.WitnessSignatureStatus == SignatureSigned)
	return signed && !l.FullySigned()
}

// LeaseFilter holds optional list filters.
type LeaseFilter struct {
	Status     string `query:"status"`
	PropertyID string `query:"property_id"`
}
