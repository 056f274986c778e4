package services

import (
	"context"
	"fmt"
	"math"
	"time"

	"leaseboard/internal/models"
	"leaseboard/internal/repositories"

	"github.com/google/uuid"
)

type LeaseCreateRequest struct {
	PropertyID uuid.UUID `json:"property_id"`

	LandlordName       string  `json:"landlord_name"`
	LandlordEmail      *string `json:"landlord_email"`
	LandlordPhone      *string `json:"landlord_phone"`
	LandlordEmiratesID *string `json:"landlord_emirates_id"`

	TenantName       string  `json:"tenant_name"`
	TenantEmail      string  `json:"tenant_email"`
	TenantPhone      string  `json:"tenant_phone"`
	TenantEmiratesID *string `json:"tenant_emirates_id"`

	LeaseStartDate time.Time `json:"lease_start_date"`
	LeaseEndDate   time.Time `json:"lease_end_date"`

	AnnualRent       float64 `json:"annual_rent"`
	SecurityDeposit  float64 `json:"security_deposit"`
	BrokerCommission float64 `json:"broker_commission"`

	PaymentSchedule           string  `json:"payment_schedule"`
	PaymentMethod             string  `json:"payment_method"`
	PaymentDueDay             int     `json:"payment_due_day"`
	LatePaymentPenaltyPercent float64 `json:"late_payment_penalty_percentage"`

	DEWAIncluded        bool `json:"dewa_included"`
	InternetIncluded    bool `json:"internet_included"`
	MaintenanceIncluded bool `json:"maintenance_included"`
	ParkingIncluded     bool `json:"parking_included"`

	AutoRenewal             bool `json:"auto_renewal"`
	RenewalNoticePeriodDays int  `json:"renewal_notice_period_days"`

	WitnessRequired bool `json:"witness_required"`
}

type LeaseUpdateRequest struct {
	Status                  *string `json:"status"`
	LandlordSignatureStatus *string `json:"landlord_signature_status"`
	TenantSignatureStatus   *string `json:"tenant_signature_status"`
	WitnessSignatureStatus  *string `json:"witness_signature_status"`
	CommissionStatus        *string `json:"commission_status"`

	SecurityDeposit           *float64 `json:"security_deposit"`
	BrokerCommission          *float64 `json:"broker_commission"`
	PaymentSchedule           *string  `json:"payment_schedule"`
	PaymentMethod             *string  `json:"payment_method"`
	PaymentDueDay             *int     `json:"payment_due_day"`
	LatePaymentPenaltyPercent *float64 `json:"late_payment_penalty_percentage"`
	AutoRenewal               *bool    `json:"auto_renewal"`
	RenewalNoticePeriodDays   *int     `json:"renewal_notice_period_days"`
}

type LeaseService interface {
	Create(ctx context.Context, userID uuid.UUID, req *LeaseCreateRequest) (*models.LeaseAgreement, error)
	GetByID(ctx context.Context, userID, leaseID uuid.UUID) (*models.LeaseAgreement, error)
	Update(ctx context.Context, userID, leaseID uuid.UUID, req *LeaseUpdateRequest) (*models.LeaseAgreement, error)
	Delete(ctx context.Context, userID, leaseID uuid.UUID) error
	List(ctx context.Context, userID uuid.UUID, filter models.LeaseFilter) ([]*models.LeaseAgreement, error)
}

type leaseService struct {
	leases     repositories.LeaseRepository
	properties repositories.PropertyRepository
}

func NewLeaseService(leases repositories.LeaseRepository, properties repositories.PropertyRepository) LeaseService {
	return &leaseService{leases: leases, properties: properties}
}

func (s *leaseService) Create(ctx context.Context, userID uuid.UUID, req *LeaseCreateRequest) (*models.LeaseAgreement, error) {
	property, err := s.properties.GetByID(ctx, req.PropertyID)
	if err != nil {
		return nil, err
	}
	if property.UserID != userID {
		return nil, ErrNotOwner
	}

	if req.LandlordName == "" {
		return nil, fmt.Errorf("landlord name is required")
	}
	if req.TenantName == "" || req.TenantEmail == "" || req.TenantPhone == "" {
		return nil, fmt.Errorf("tenant name, email and phone are required")
	}
	if !req.LeaseEndDate.After(req.LeaseStartDate) {
		return nil, fmt.Errorf("lease end date must be after start date")
	}
	if req.LeaseStartDate.Before(time.Now().UTC().Truncate(24 * time.Hour)) {
		return nil, fmt.Errorf("lease start date cannot be in the past")
	}
	if req.AnnualRent < models.MinAnnualRent {
		return nil, fmt.Errorf("annual rent must be at least %.0f AED", models.MinAnnualRent)
	}

	schedule := req.PaymentSchedule
	if schedule == "" {
		schedule = "annual"
	}
	if !models.ValidPaymentSchedules[schedule] {
		return nil, fmt.Errorf("unknown payment schedule %q", schedule)
	}
	method := req.PaymentMethod
	if method == "" {
		method = "bank_transfer"
	}
	if !models.ValidPaymentMethods[method] {
		return nil, fmt.Errorf("unknown payment method %q", method)
	}

	durationMonths := monthsBetween(req.LeaseStartDate, req.LeaseEndDate)
	monthlyRent := math.Round(req.AnnualRent/12*100) / 100
	commissionPct := 0.0
	if req.AnnualRent > 0 {
		commissionPct = math.Round(req.BrokerCommission/req.AnnualRent*100*100) / 100
	}

	now := time.Now().UTC()
	lease := &models.LeaseAgreement{
		ID:         uuid.New(),
		PropertyID: req.PropertyID,

		LandlordName:       req.LandlordName,
		LandlordEmail:      req.LandlordEmail,
		LandlordPhone:      req.LandlordPhone,
		LandlordEmiratesID: req.LandlordEmiratesID,

		TenantName:       req.TenantName,
		TenantEmail:      req.TenantEmail,
		TenantPhone:      req.TenantPhone,
		TenantEmiratesID: req.TenantEmiratesID,

		LeaseStartDate:      req.LeaseStartDate,
		LeaseEndDate:        req.LeaseEndDate,
		LeaseDurationMonths: durationMonths,

		AnnualRent:           req.AnnualRent,
		MonthlyRent:          monthlyRent,
		SecurityDeposit:      req.SecurityDeposit,
		BrokerCommission:     req.BrokerCommission,
		CommissionPercentage: commissionPct,

		PaymentSchedule:           schedule,
		PaymentMethod:             method,
		PaymentDueDay:             req.PaymentDueDay,
		LatePaymentPenaltyPercent: req.LatePaymentPenaltyPercent,

		DEWAIncluded:        req.DEWAIncluded,
		InternetIncluded:    req.InternetIncluded,
		MaintenanceIncluded: req.MaintenanceIncluded,
		ParkingIncluded:     req.ParkingIncluded,

		AutoRenewal:             req.AutoRenewal,
		RenewalNoticePeriodDays: req.RenewalNoticePeriodDays,

		LandlordSignatureStatus: models.SignaturePending,
		TenantSignatureStatus:   models.SignaturePending,
		WitnessRequired:         req.WitnessRequired,
		WitnessSignatureStatus:  models.SignaturePending,

		Status:           models.LeaseStatusDraft,
		CommissionStatus: models.CommissionPending,

		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.leases.Create(ctx, lease); err != nil {
		return nil, err
	}

	// The unit is spoken for once a lease draft exists.
	property.Status = models.PropertyStatusLeased
	property.CurrentTenantName = &lease.TenantName
	expiry := lease.LeaseEndDate
	property.LeaseExpiryDate = &expiry
	property.UpdatedAt = now
	if err := s.properties.Update(ctx, property); err != nil {
		return nil, err
	}

	return lease, nil
}

func (s *leaseService) GetByID(ctx context.Context, userID, leaseID uuid.UUID) (*models.LeaseAgreement, error) {
	lease, err := s.leases.GetByID(ctx, leaseID)
	if err != nil {
		return nil, err
	}
	if _, err := s.ownedProperty(ctx, userID, lease.PropertyID); err != nil {
		return nil, err
	}
	return lease, nil
}

func (s *leaseService) Update(ctx context.Context, userID, leaseID uuid.UUID, req *LeaseUpdateRequest) (*models.LeaseAgreement, error) {
	lease, err := s.GetByID(ctx, userID, leaseID)
	if err != nil {
		return nil, err
	}

	if req.Status != nil {
		if !models.ValidLeaseStatuses[*req.Status] {
			return nil, fmt.Errorf("unknown lease status %q", *req.Status)
		}
		lease.Status = *req.Status
	}
	signatureTouched := false
	if req.LandlordSignatureStatus != nil {
		if !models.ValidSignatureStatuses[*req.LandlordSignatureStatus] {
			return nil, fmt.Errorf("unknown signature status %q", *req.LandlordSignatureStatus)
		}
		lease.LandlordSignatureStatus = *req.LandlordSignatureStatus
		signatureTouched = true
	}
	if req.TenantSignatureStatus != nil {
		if !models.ValidSignatureStatuses[*req.TenantSignatureStatus] {
			return nil, fmt.Errorf("unknown signature status %q", *req.TenantSignatureStatus)
		}
		lease.TenantSignatureStatus = *req.TenantSignatureStatus
		signatureTouched = true
	}
	if req.WitnessSignatureStatus != nil {
		if !models.ValidSignatureStatuses[*req.WitnessSignatureStatus] {
			return nil, fmt.Errorf("unknown signature status %q", *req.WitnessSignatureStatus)
		}
		lease.WitnessSignatureStatus = *req.WitnessSignatureStatus
		signatureTouched = true
	}
	if req.CommissionStatus != nil {
		if !models.ValidCommissionStatuses[*req.CommissionStatus] {
			return nil, fmt.Errorf("unknown commission status %q", *req.CommissionStatus)
		}
		lease.CommissionStatus = *req.CommissionStatus
	}

	if req.SecurityDeposit != nil {
		lease.SecurityDeposit = *req.SecurityDeposit
	}
	if req.BrokerCommission != nil {
		lease.BrokerCommission = *req.BrokerCommission
		if lease.AnnualRent > 0 {
			lease.CommissionPercentage = math.Round(lease.BrokerCommission/lease.AnnualRent*100*100) / 100
		}
	}
	if req.PaymentSchedule != nil {
		if !models.ValidPaymentSchedules[*req.PaymentSchedule] {
			return nil, fmt.Errorf("unknown payment schedule %q", *req.PaymentSchedule)
		}
		lease.PaymentSchedule = *req.PaymentSchedule
	}
	if req.PaymentMethod != nil {
		if !models.ValidPaymentMethods[*req.PaymentMethod] {
			return nil, fmt.Errorf("unknown payment method %q", *req.PaymentMethod)
		}
		lease.PaymentMethod = *req.PaymentMethod
	}
	if req.PaymentDueDay != nil {
		lease.PaymentDueDay = *req.PaymentDueDay
	}
	if req.LatePaymentPenaltyPercent != nil {
		lease.LatePaymentPenaltyPercent = *req.LatePaymentPenaltyPercent
	}
	if req.AutoRenewal != nil {
		lease.AutoRenewal = *req.AutoRenewal
	}
	if req.RenewalNoticePeriodDays != nil {
		lease.RenewalNoticePeriodDays = *req.RenewalNoticePeriodDays
	}

	// Signature changes drive the overall lifecycle unless the caller set
	// status explicitly in the same request.
	if signatureTouched && req.Status == nil {
		switch {
		case lease.FullySigned():
			lease.Status = models.LeaseStatusFullyExecuted
		case lease.PartiallySigned():
			lease.Status = models.LeaseStatusPartiallySigned
		}
	}

	lease.UpdatedAt = time.Now().UTC()
	if err := s.leases.Update(ctx, lease); err != nil {
		return nil, err
	}
	return lease, nil
}

// Delete only removes drafts and hands the unit back to the market.
func (s *leaseService) Delete(ctx context.Context, userID, leaseID uuid.UUID) error {
	lease, err := s.GetByID(ctx, userID, leaseID)
	if err != nil {
		return err
	}
	if lease.Status != models.LeaseStatusDraft {
		return fmt.Errorf("only draft leases can be deleted")
	}
	if err := s.leases.Delete(ctx, leaseID); err != nil {
		return err
	}

	property, err := s.properties.GetByID(ctx, lease.PropertyID)
	if err != nil {
		return nil // lease is gone; a missing property is not an error here
	}
	property.Status = models.PropertyStatusActive
	property.CurrentTenantName = nil
	property.LeaseExpiryDate = nil
	property.UpdatedAt = time.Now().UTC()
	return s.properties.Update(ctx, property)
}

func (s *leaseService) List(ctx context.Context, userID uuid.UUID, filter models.LeaseFilter) ([]*models.LeaseAgreement, error) {
	properties, err := s.properties.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	propertyIDs := make([]uuid.UUID, 0, len(properties))
	for _, p := range properties {
		propertyIDs = append(propertyIDs, p.ID)
	}

	leases, err := s.leases.ListByProperties(ctx, propertyIDs)
	if err != nil {
		return nil, err
	}
	out := make([]*models.LeaseAgreement, 0, len(leases))
	for _, l := range leases {
		if filter.Status != "" && l.Status != filter.Status {
			continue
		}
		if filter.PropertyID != "" && l.PropertyID.String() != filter.PropertyID {
			continue
		}
		out = append(out, l)
	}
	return out, nil
}

func (s *leaseService) ownedProperty(ctx context.Context, userID, propertyID uuid.UUID) (*models.Property, error) {
	property, err := s.properties.GetByID(ctx, propertyID)
	if err != nil {
		return nil, err
	}
	if property.UserID != userID {
		return nil, ErrNotOwner
	}
	return property, nil
}

// monthsBetween counts whole months, rounding partial months up.
func monthsBetween(start, end time.Time) int {
	months := (end.Year()-start.Year())*12 + int(end.Month()) - int(start.Month())
	if end.Day() > start.Day() {
		months++
	}
	if months < 1 {
		months = 1
	}
	return months
}
