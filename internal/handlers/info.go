// internal/handlers/info.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/keygate/keygate-backend/internal/services"
	"github.com/keygate/keygate-backend/internal/utils"
)

type InfoHandler struct {
	licenseService   *services.LicenseService
	blacklistService *services.BlacklistService
}

func NewInfoHandler(licenseService *services.LicenseService, blacklistService *services.BlacklistService) *InfoHandler {
	return &InfoHandler{
		licenseService:   licenseService,
		blacklistService: blacklistService,
	}
}

// GET /api/info/:userId
func (h *InfoHandler) GetUserInfo(c *gin.Context) {
	userID := c.Param("userId")
	if userID == "" {
		utils.BadRequestResponse(c, "User ID required.")
		return
	}

	licenses, err := h.licenseService.ListByUser(userID)
	if err != nil {
		utils.InternalErrorResponse(c, "Error retrieving user information.")
		return
	}

	blacklists, err := h.blacklistService.ListByUser(userID)
	if err != nil {
		utils.InternalErrorResponse(c, "Error retrieving user information.")
		return
	}

	utils.OKResponse(c, gin.H{
		"userId":     userID,
		"licenses":   licenses,
		"blacklists": blacklists,
	})
}
