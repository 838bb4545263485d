// internal/services/verification_service_test.go
package services

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"github.com/keygate/keygate-backend/internal/models"
)

type VerificationTestSuite struct {
	suite.Suite
	db       *gorm.DB
	notifier *recordingNotifier
	service  *VerificationService
	product  *models.Product
}

func (suite *VerificationTestSuite) SetupTest() {
	suite.db = newTestDB(suite.T())
	suite.notifier = &recordingNotifier{}
	suite.service = NewVerificationService(suite.db, suite.notifier)

	suite.product = &models.Product{
		Name:        "moonlight",
		Version:     "1.4.2",
		MaxLicenses: 3,
		Role:        "customer",
		CreatorID:   "admin-1",
	}
	suite.Require().NoError(suite.db.Create(suite.product).Error)
}

func (suite *VerificationTestSuite) newLicense(userID string) *models.License {
	license := &models.License{
		ProductID: suite.product.ID,
		UserID:    userID,
		CreatorID: "admin-1",
		Key:       "AAAAA-BBBBB-" + userID[:5],
	}
	suite.Require().NoError(suite.db.Create(license).Error)
	return license
}

func (suite *VerificationTestSuite) reload(id uuid.UUID) *models.License {
	var license models.License
	suite.Require().NoError(suite.db.First(&license, "id = ?", id).Error)
	return &license
}

func (suite *VerificationTestSuite) TestFirstVerificationBindsFingerprint() {
	license := suite.newLicense("user-alpha")

	result, err := suite.service.Verify(VerifyRequest{
		Key:       license.Key,
		HWID:      "HW-1",
		IP:        "10.0.0.1",
		ProductID: suite.product.ID,
	})

	suite.Require().NoError(err)
	suite.True(result.Verified())
	suite.Equal("License validated.", result.Message)

	stored := suite.reload(license.ID)
	suite.Require().True(stored.Bound())
	suite.Equal("HW-1", *stored.HWID)
	suite.Equal("10.0.0.1", *stored.IP)
	suite.Equal(int64(1), stored.TotalRequests)

	suite.Len(suite.notifier.successes, 1)
	suite.Empty(suite.notifier.failures)
	suite.Equal("moonlight", suite.notifier.successes[0].ProductName)
	suite.Equal(int64(1), suite.notifier.successes[0].TotalRequests)
}

func (suite *VerificationTestSuite) TestBindingIsFirstWriteWins() {
	license := suite.newLicense("user-alpha")

	_, err := suite.service.Verify(VerifyRequest{
		Key: license.Key, HWID: "HW-1", IP: "10.0.0.1", ProductID: suite.product.ID,
	})
	suite.Require().NoError(err)

	result, err := suite.service.Verify(VerifyRequest{
		Key: license.Key, HWID: "HW-2", IP: "10.0.0.1", ProductID: suite.product.ID,
	})
	suite.Require().NoError(err)
	suite.Equal(OutcomeHWIDMismatch, result.Outcome)
	suite.Equal("Mismatch HWID.", result.Message)

	stored := suite.reload(license.ID)
	suite.Equal("HW-1", *stored.HWID)
	suite.Equal(int64(1), stored.TotalRequests, "a rejected attempt must not count")

	suite.Len(suite.notifier.failures, 1)
	suite.Equal("Mismatch HWID", suite.notifier.failures[0].Reason)
	suite.Equal("user-alpha", suite.notifier.failures[0].UserID)
}

func (suite *VerificationTestSuite) TestIPMismatchAfterBinding() {
	license := suite.newLicense("user-alpha")

	_, err := suite.service.Verify(VerifyRequest{
		Key: license.Key, HWID: "HW-1", IP: "10.0.0.1", ProductID: suite.product.ID,
	})
	suite.Require().NoError(err)

	result, err := suite.service.Verify(VerifyRequest{
		Key: license.Key, HWID: "HW-1", IP: "10.0.0.9", ProductID: suite.product.ID,
	})
	suite.Require().NoError(err)
	suite.Equal(OutcomeIPMismatch, result.Outcome)
}

func (suite *VerificationTestSuite) TestRepeatedVerificationIncrementsCounter() {
	license := suite.newLicense("user-alpha")

	for i := 0; i < 5; i++ {
		result, err := suite.service.Verify(VerifyRequest{
			Key: license.Key, HWID: "HW-1", IP: "10.0.0.1", ProductID: suite.product.ID,
		})
		suite.Require().NoError(err)
		suite.Require().True(result.Verified())
	}

	stored := suite.reload(license.ID)
	suite.Equal(int64(5), stored.TotalRequests)
	suite.Len(suite.notifier.successes, 5)
}

func (suite *VerificationTestSuite) TestEmptyInputDoesNotBind() {
	license := suite.newLicense("user-alpha")

	result, err := suite.service.Verify(VerifyRequest{
		Key: license.Key, HWID: "", IP: "", ProductID: suite.product.ID,
	})
	suite.Require().NoError(err)
	suite.True(result.Verified())

	stored := suite.reload(license.ID)
	suite.False(stored.Bound())
	suite.Nil(stored.HWID)
	suite.Nil(stored.IP)
	suite.Equal(int64(1), stored.TotalRequests)
}

func (suite *VerificationTestSuite) TestUnknownKey() {
	result, err := suite.service.Verify(VerifyRequest{
		Key: "XXXXX-XXXXX-XXXXX", HWID: "HW-1", IP: "10.0.0.1", ProductID: suite.product.ID,
	})
	suite.Require().NoError(err)
	suite.Equal(OutcomeLicenseNotFound, result.Outcome)
	suite.Nil(result.License)

	suite.Require().Len(suite.notifier.failures, 1)
	event := suite.notifier.failures[0]
	suite.Equal("License not found", event.Reason)
	suite.Equal(UnknownProduct, event.ProductName)
	suite.Equal(UnknownVersion, event.ProductVersion)
	suite.Equal(UnknownUser, event.UserID)
	suite.Equal("XXXXX-XXXXX-XXXXX", event.LicenseKey)
}

func (suite *VerificationTestSuite) TestProductMismatch() {
	license := suite.newLicense("user-alpha")

	result, err := suite.service.Verify(VerifyRequest{
		Key: license.Key, HWID: "HW-1", IP: "10.0.0.1", ProductID: uuid.New(),
	})
	suite.Require().NoError(err)
	suite.Equal(OutcomeProductMismatch, result.Outcome)

	// The license is never exposed for the wrong product; the audit event
	// carries placeholders.
	suite.Nil(result.License)
	suite.Require().Len(suite.notifier.failures, 1)
	suite.Equal("Invalid product", suite.notifier.failures[0].Reason)
	suite.Equal(UnknownProduct, suite.notifier.failures[0].ProductName)

	stored := suite.reload(license.ID)
	suite.Equal(int64(0), stored.TotalRequests)
}

func (suite *VerificationTestSuite) TestExpiredLicense() {
	license := suite.newLicense("user-alpha")
	past := time.Now().Add(-time.Hour)
	suite.Require().NoError(suite.db.Model(license).Update("expires_at", past).Error)

	result, err := suite.service.Verify(VerifyRequest{
		Key: license.Key, HWID: "HW-1", IP: "10.0.0.1", ProductID: suite.product.ID,
	})
	suite.Require().NoError(err)
	suite.Equal(OutcomeLicenseExpired, result.Outcome)

	suite.Require().Len(suite.notifier.failures, 1)
	suite.Equal("License expired", suite.notifier.failures[0].Reason)
	suite.Equal("moonlight", suite.notifier.failures[0].ProductName)

	stored := suite.reload(license.ID)
	suite.Equal(int64(0), stored.TotalRequests)
	suite.Nil(stored.HWID)
}

func (suite *VerificationTestSuite) TestFutureExpiryStillVerifies() {
	license := suite.newLicense("user-alpha")
	future := time.Now().Add(24 * time.Hour)
	suite.Require().NoError(suite.db.Model(license).Update("expires_at", future).Error)

	result, err := suite.service.Verify(VerifyRequest{
		Key: license.Key, HWID: "HW-1", IP: "10.0.0.1", ProductID: suite.product.ID,
	})
	suite.Require().NoError(err)
	suite.True(result.Verified())
}

func (suite *VerificationTestSuite) blacklist(userID string, kind models.BlacklistType) {
	suite.Require().NoError(suite.db.Create(&models.BlacklistEntry{
		UserID:    userID,
		CreatorID: "admin-1",
		Type:      kind,
	}).Error)
}

func (suite *VerificationTestSuite) TestBlacklistedHWIDMatchesBoundValue() {
	license := suite.newLicense("user-alpha")
	_, err := suite.service.Verify(VerifyRequest{
		Key: license.Key, HWID: "HW-1", IP: "10.0.0.1", ProductID: suite.product.ID,
	})
	suite.Require().NoError(err)

	suite.blacklist("user-alpha", models.BlacklistTypeHWID)

	result, err := suite.service.Verify(VerifyRequest{
		Key: license.Key, HWID: "HW-1", IP: "10.0.0.1", ProductID: suite.product.ID,
	})
	suite.Require().NoError(err)
	suite.Equal(OutcomeBlacklistedHWID, result.Outcome)
	suite.Equal("Blacklisted HWID", suite.notifier.lastFailure().Reason)

	stored := suite.reload(license.ID)
	suite.Equal(int64(1), stored.TotalRequests)
}

func (suite *VerificationTestSuite) TestBlacklistedIPMatchesBoundValue() {
	license := suite.newLicense("user-alpha")
	_, err := suite.service.Verify(VerifyRequest{
		Key: license.Key, HWID: "HW-1", IP: "10.0.0.1", ProductID: suite.product.ID,
	})
	suite.Require().NoError(err)

	suite.blacklist("user-alpha", models.BlacklistTypeIP)

	result, err := suite.service.Verify(VerifyRequest{
		Key: license.Key, HWID: "HW-1", IP: "10.0.0.1", ProductID: suite.product.ID,
	})
	suite.Require().NoError(err)
	suite.Equal(OutcomeBlacklistedIP, result.Outcome)
}

func (suite *VerificationTestSuite) TestBlacklistedUserWithUnboundLicensePasses() {
	license := suite.newLicense("user-alpha")
	suite.blacklist("user-alpha", models.BlacklistTypeHWID)
	suite.blacklist("user-alpha", models.BlacklistTypeIP)

	// Nothing is bound yet, so the ban has no fingerprint to match against.
	result, err := suite.service.Verify(VerifyRequest{
		Key: license.Key, HWID: "HW-1", IP: "10.0.0.1", ProductID: suite.product.ID,
	})
	suite.Require().NoError(err)
	suite.True(result.Verified())

	// Once bound, subsequent attempts from the same fingerprint are caught.
	result, err = suite.service.Verify(VerifyRequest{
		Key: license.Key, HWID: "HW-1", IP: "10.0.0.1", ProductID: suite.product.ID,
	})
	suite.Require().NoError(err)
	suite.Equal(OutcomeBlacklistedHWID, result.Outcome)
}

func (suite *VerificationTestSuite) TestReclassifyHWIDBoundByConcurrentVerification() {
	license := suite.newLicense("user-alpha")

	// Another verification bound a different fingerprint after this request
	// read the license but before its conditional update could apply, so the
	// update matched no rows.
	suite.Require().NoError(suite.db.Model(license).Updates(map[string]interface{}{
		"hwid": "HW-OTHER",
		"ip":   "10.0.0.1",
	}).Error)

	result, err := suite.service.reclassify(VerifyRequest{
		Key: license.Key, HWID: "HW-1", IP: "10.0.0.1", ProductID: suite.product.ID,
	}, license.ID)
	suite.Require().NoError(err)
	suite.Equal(OutcomeHWIDMismatch, result.Outcome)
	suite.Equal("Mismatch HWID", suite.notifier.lastFailure().Reason)

	stored := suite.reload(license.ID)
	suite.Equal("HW-OTHER", *stored.HWID)
	suite.Equal(int64(0), stored.TotalRequests, "a lost race must not count")
}

func (suite *VerificationTestSuite) TestReclassifyIPBoundByConcurrentVerification() {
	license := suite.newLicense("user-alpha")

	suite.Require().NoError(suite.db.Model(license).Updates(map[string]interface{}{
		"hwid": "HW-1",
		"ip":   "10.0.0.9",
	}).Error)

	result, err := suite.service.reclassify(VerifyRequest{
		Key: license.Key, HWID: "HW-1", IP: "10.0.0.1", ProductID: suite.product.ID,
	}, license.ID)
	suite.Require().NoError(err)
	suite.Equal(OutcomeIPMismatch, result.Outcome)

	stored := suite.reload(license.ID)
	suite.Equal(int64(0), stored.TotalRequests)
}

func (suite *VerificationTestSuite) TestReclassifyLicenseDeletedUnderneath() {
	license := suite.newLicense("user-alpha")
	suite.Require().NoError(suite.db.Delete(license).Error)

	result, err := suite.service.reclassify(VerifyRequest{
		Key: license.Key, HWID: "HW-1", IP: "10.0.0.1", ProductID: suite.product.ID,
	}, license.ID)
	suite.Require().NoError(err)
	suite.Equal(OutcomeLicenseNotFound, result.Outcome)
	suite.Nil(result.License)
	suite.Equal(UnknownUser, suite.notifier.lastFailure().UserID)
}

func (suite *VerificationTestSuite) TestBlacklistOnOtherFingerprintIgnored() {
	license := suite.newLicense("user-alpha")
	_, err := suite.service.Verify(VerifyRequest{
		Key: license.Key, HWID: "HW-1", IP: "10.0.0.1", ProductID: suite.product.ID,
	})
	suite.Require().NoError(err)

	suite.blacklist("user-other", models.BlacklistTypeHWID)

	result, err := suite.service.Verify(VerifyRequest{
		Key: license.Key, HWID: "HW-1", IP: "10.0.0.1", ProductID: suite.product.ID,
	})
	suite.Require().NoError(err)
	suite.True(result.Verified())
}

func TestVerificationSuite(t *testing.T) {
	suite.Run(t, new(VerificationTestSuite))
}
