// internal/handlers/blacklist.go
package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/keygate/keygate-backend/internal/services"
	"github.com/keygate/keygate-backend/internal/utils"
)

type BlacklistHandler struct {
	blacklistService *services.BlacklistService
}

func NewBlacklistHandler(blacklistService *services.BlacklistService) *BlacklistHandler {
	return &BlacklistHandler{blacklistService: blacklistService}
}

// POST /api/blacklist/add
func (h *BlacklistHandler) AddBlacklist(c *gin.Context) {
	var req services.AddBlacklistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "All fields are required.")
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	entry, err := h.blacklistService.Add(&req)
	if err != nil {
		if errors.Is(err, services.ErrAlreadyBlacklisted) {
			utils.ConflictResponse(c, "User already blacklisted.")
			return
		}
		utils.InternalErrorResponse(c, "Error adding to blacklist.")
		return
	}

	utils.CreatedResponse(c, entry)
}

// GET /api/blacklist/:id
func (h *BlacklistHandler) GetBlacklist(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid ID.")
		return
	}

	entry, err := h.blacklistService.Get(id)
	if err != nil {
		if errors.Is(err, services.ErrBlacklistNotFound) {
			utils.NotFoundResponse(c, "Blacklist not found.")
			return
		}
		utils.InternalErrorResponse(c, "Error retrieving blacklist.")
		return
	}

	utils.OKResponse(c, entry)
}

// GET /api/blacklist/user/:userId
func (h *BlacklistHandler) ListBlacklistsByUser(c *gin.Context) {
	entries, err := h.blacklistService.ListByUser(c.Param("userId"))
	if err != nil {
		utils.InternalErrorResponse(c, "Error retrieving blacklists for user.")
		return
	}

	utils.OKResponse(c, entries)
}

// DELETE /api/blacklist/delete/:id
func (h *BlacklistHandler) DeleteBlacklist(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid ID.")
		return
	}

	entry, err := h.blacklistService.Delete(id)
	if err != nil {
		if errors.Is(err, services.ErrBlacklistNotFound) {
			utils.NotFoundResponse(c, "Blacklist not found.")
			return
		}
		utils.InternalErrorResponse(c, "Error while deleting blacklist.")
		return
	}

	utils.OKResponse(c, gin.H{
		"message":   "Blacklist removed.",
		"blacklist": entry,
	})
}
