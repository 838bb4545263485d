// internal/services/verification_service.go
package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/keygate/keygate-backend/internal/models"
)

// VerifyOutcome enumerates the distinct results a verification attempt can
// produce. External clients rely on being able to tell them apart.
type VerifyOutcome string

const (
	OutcomeVerified        VerifyOutcome = "verified"
	OutcomeLicenseNotFound VerifyOutcome = "license_not_found"
	OutcomeProductMismatch VerifyOutcome = "product_mismatch"
	OutcomeLicenseExpired  VerifyOutcome = "license_expired"
	OutcomeBlacklistedHWID VerifyOutcome = "blacklisted_hwid"
	OutcomeBlacklistedIP   VerifyOutcome = "blacklisted_ip"
	OutcomeHWIDMismatch    VerifyOutcome = "hwid_mismatch"
	OutcomeIPMismatch      VerifyOutcome = "ip_mismatch"
)

type VerifyRequest struct {
	Key       string
	HWID      string
	IP        string
	ProductID uuid.UUID
}

type VerifyResult struct {
	Outcome VerifyOutcome
	Message string
	License *models.License
}

func (r *VerifyResult) Verified() bool {
	return r.Outcome == OutcomeVerified
}

type VerificationService struct {
	db       *gorm.DB
	notifier Notifier
}

func NewVerificationService(db *gorm.DB, notifier Notifier) *VerificationService {
	return &VerificationService{
		db:       db,
		notifier: notifier,
	}
}

// Verify runs the license check-and-bind state machine. Checks run in strict
// order and short-circuit on the first failure; every failure emits an audit
// event before returning. Binding is first-write-wins: hwid and ip are
// assigned on the first verification that supplies them and are immutable
// afterwards. A non-nil error means the store itself failed (HTTP 500);
// domain failures come back as outcomes, not errors.
func (s *VerificationService) Verify(req VerifyRequest) (*VerifyResult, error) {
	var license models.License
	err := s.db.Preload("Product").Where("key = ?", req.Key).First(&license).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return s.fail(OutcomeLicenseNotFound, "License not found.", "License not found", req, nil), nil
	}
	if err != nil {
		return nil, s.internalFailure(fmt.Errorf("failed to load license: %w", err), req)
	}

	if license.ProductID != req.ProductID {
		return s.fail(OutcomeProductMismatch, "License not valid for this product.", "Invalid product", req, nil), nil
	}

	if license.Expired(time.Now()) {
		return s.fail(OutcomeLicenseExpired, "License expired.", "License expired", req, &license), nil
	}

	// The blacklist matches against the license's already-bound fingerprint,
	// not the raw input: a blacklisted user with an unbound license passes
	// this check and is caught once the binding exists.
	var entries []models.BlacklistEntry
	if err := s.db.Where("user_id = ?", license.UserID).Find(&entries).Error; err != nil {
		return nil, s.internalFailure(fmt.Errorf("failed to load blacklist entries: %w", err), req)
	}
	for _, entry := range entries {
		switch entry.Type {
		case models.BlacklistTypeHWID:
			if license.HWID != nil && req.HWID == *license.HWID {
				return s.fail(OutcomeBlacklistedHWID, "User is blacklisted for HWID.", "Blacklisted HWID", req, &license), nil
			}
		case models.BlacklistTypeIP:
			if license.IP != nil && req.IP == *license.IP {
				return s.fail(OutcomeBlacklistedIP, "User is blacklisted for IP.", "Blacklisted IP", req, &license), nil
			}
		}
	}

	if license.HWID != nil && *license.HWID != req.HWID {
		return s.fail(OutcomeHWIDMismatch, "Mismatch HWID.", "Mismatch HWID", req, &license), nil
	}
	if license.IP != nil && *license.IP != req.IP {
		return s.fail(OutcomeIPMismatch, "Mismatch IP.", "Mismatch IP", req, &license), nil
	}

	// Bind and count in one conditional UPDATE so two racing verifications
	// cannot bind conflicting fingerprints or lose an increment. NULLIF keeps
	// an absent input from binding the empty string.
	res := s.db.Model(&models.License{}).
		Where("id = ? AND (hwid IS NULL OR hwid = ?) AND (ip IS NULL OR ip = ?)",
			license.ID, req.HWID, req.IP).
		Updates(map[string]interface{}{
			"hwid":           gorm.Expr("COALESCE(hwid, NULLIF(?, ''))", req.HWID),
			"ip":             gorm.Expr("COALESCE(ip, NULLIF(?, ''))", req.IP),
			"total_requests": gorm.Expr("total_requests + 1"),
		})
	if res.Error != nil {
		return nil, s.internalFailure(fmt.Errorf("failed to update license: %w", res.Error), req)
	}

	if res.RowsAffected == 0 {
		// A concurrent verification bound a different fingerprint between
		// our read and the update. Reload and reclassify.
		return s.reclassify(req, license.ID)
	}

	if err := s.db.Preload("Product").First(&license, "id = ?", license.ID).Error; err != nil {
		return nil, s.internalFailure(fmt.Errorf("failed to reload license: %w", err), req)
	}

	s.notifier.NotifySuccess(AuditEvent{
		LicenseKey:     req.Key,
		ProductName:    license.Product.Name,
		ProductVersion: license.Product.Version,
		TotalRequests:  license.TotalRequests,
		IP:             req.IP,
		HWID:           req.HWID,
		UserID:         license.UserID,
	})

	return &VerifyResult{
		Outcome: OutcomeVerified,
		Message: "License validated.",
		License: &license,
	}, nil
}

func (s *VerificationService) reclassify(req VerifyRequest, licenseID uuid.UUID) (*VerifyResult, error) {
	var license models.License
	err := s.db.Preload("Product").First(&license, "id = ?", licenseID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		// The license was deleted out from under us.
		return s.fail(OutcomeLicenseNotFound, "License not found.", "License not found", req, nil), nil
	}
	if err != nil {
		return nil, s.internalFailure(fmt.Errorf("failed to reload license: %w", err), req)
	}

	if license.HWID != nil && *license.HWID != req.HWID {
		return s.fail(OutcomeHWIDMismatch, "Mismatch HWID.", "Mismatch HWID", req, &license), nil
	}
	return s.fail(OutcomeIPMismatch, "Mismatch IP.", "Mismatch IP", req, &license), nil
}

// fail emits the audit-failure event and packages the outcome. The license is
// nil when the failure happened before it could be trusted; the event then
// carries placeholder values, matching what the audit sinks expect.
func (s *VerificationService) fail(outcome VerifyOutcome, message, reason string, req VerifyRequest, license *models.License) *VerifyResult {
	event := AuditEvent{
		LicenseKey:     req.Key,
		ProductName:    UnknownProduct,
		ProductVersion: UnknownVersion,
		IP:             req.IP,
		HWID:           req.HWID,
		UserID:         UnknownUser,
		Reason:         reason,
	}

	if license != nil {
		event.ProductName = license.Product.Name
		event.ProductVersion = license.Product.Version
		event.TotalRequests = license.TotalRequests
		event.UserID = license.UserID
	}

	s.notifier.NotifyFailure(event)

	return &VerifyResult{
		Outcome: outcome,
		Message: message,
		License: license,
	}
}

func (s *VerificationService) internalFailure(err error, req VerifyRequest) error {
	s.notifier.NotifyFailure(AuditEvent{
		LicenseKey:     req.Key,
		ProductName:    UnknownProduct,
		ProductVersion: UnknownVersion,
		IP:             req.IP,
		HWID:           req.HWID,
		UserID:         UnknownUser,
		Reason:         err.Error(),
	})
	return err
}
