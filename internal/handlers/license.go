// internal/handlers/license.go
package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/keygate/keygate-backend/internal/services"
	"github.com/keygate/keygate-backend/internal/utils"
)

type LicenseHandler struct {
	licenseService      *services.LicenseService
	verificationService *services.VerificationService
}

func NewLicenseHandler(licenseService *services.LicenseService, verificationService *services.VerificationService) *LicenseHandler {
	return &LicenseHandler{
		licenseService:      licenseService,
		verificationService: verificationService,
	}
}

// licenseId carries the license key, not the store identifier. The field
// name is kept for compatibility with deployed client software.
type verifyLicenseRequest struct {
	LicenseID string    `json:"licenseId" validate:"required"`
	HWID      string    `json:"hwid"`
	IP        string    `json:"ip"`
	ProductID uuid.UUID `json:"productId" validate:"required"`
}

// POST /api/license/verify
func (h *LicenseHandler) VerifyLicense(c *gin.Context) {
	var req verifyLicenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "License ID and Product ID are required.")
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.BadRequestResponse(c, "License ID and Product ID are required.")
		return
	}

	result, err := h.verificationService.Verify(services.VerifyRequest{
		Key:       req.LicenseID,
		HWID:      req.HWID,
		IP:        req.IP,
		ProductID: req.ProductID,
	})
	if err != nil {
		utils.InternalErrorResponse(c, "Error verifying license.")
		return
	}

	switch result.Outcome {
	case services.OutcomeVerified:
		utils.OKResponse(c, gin.H{"message": result.Message})
	case services.OutcomeLicenseNotFound:
		utils.NotFoundResponse(c, result.Message)
	default:
		utils.ForbiddenResponse(c, result.Message)
	}
}

// POST /api/license/create
func (h *LicenseHandler) CreateLicense(c *gin.Context) {
	var req services.CreateLicenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "All fields are required.")
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	license, err := h.licenseService.Create(&req)
	if err != nil {
		if errors.Is(err, services.ErrProductNotFound) {
			utils.NotFoundResponse(c, "Product not found.")
			return
		}
		if errors.Is(err, services.ErrLicenseLimitReached) {
			utils.ConflictResponse(c, "Maximum number of licenses reached.")
			return
		}
		utils.InternalErrorResponse(c, "Error creating license.")
		return
	}

	utils.CreatedResponse(c, license)
}

// GET /api/license/:id
func (h *LicenseHandler) GetLicense(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid ID.")
		return
	}

	license, err := h.licenseService.Get(id)
	if err != nil {
		if errors.Is(err, services.ErrLicenseNotFound) {
			utils.NotFoundResponse(c, "License not found.")
			return
		}
		utils.InternalErrorResponse(c, "Error retrieving license.")
		return
	}

	utils.OKResponse(c, license)
}

// GET /api/license/user/:userId
func (h *LicenseHandler) ListLicensesByUser(c *gin.Context) {
	licenses, err := h.licenseService.ListByUser(c.Param("userId"))
	if err != nil {
		utils.InternalErrorResponse(c, "Error retrieving licenses for user.")
		return
	}

	utils.OKResponse(c, licenses)
}

// GET /api/license/product/:productId
func (h *LicenseHandler) ListLicensesByProduct(c *gin.Context) {
	productID, err := uuid.Parse(c.Param("productId"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid ID.")
		return
	}

	licenses, err := h.licenseService.ListByProduct(productID)
	if err != nil {
		utils.InternalErrorResponse(c, "Error retrieving licenses for the product.")
		return
	}

	utils.OKResponse(c, licenses)
}

// PUT /api/license/update/:id
func (h *LicenseHandler) UpdateLicense(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid ID.")
		return
	}

	var req services.UpdateLicenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body.")
		return
	}

	license, err := h.licenseService.Update(id, &req)
	if err != nil {
		if errors.Is(err, services.ErrLicenseNotFound) {
			utils.NotFoundResponse(c, "License not found.")
			return
		}
		utils.InternalErrorResponse(c, "Error updating license.")
		return
	}

	utils.OKResponse(c, license)
}

// DELETE /api/license/delete/:id
func (h *LicenseHandler) DeleteLicense(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid ID.")
		return
	}

	license, err := h.licenseService.Delete(id)
	if err != nil {
		if errors.Is(err, services.ErrLicenseNotFound) {
			utils.NotFoundResponse(c, "License not found.")
			return
		}
		utils.InternalErrorResponse(c, "Error deleting license.")
		return
	}

	utils.OKResponse(c, gin.H{
		"message": "License removed.",
		"license": license,
	})
}
