// internal/handlers/royalty.go
package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/flavorsnap/ip-backend/internal/services"
	"github.com/flavorsnap/ip-backend/internal/utils"
)

type RoyaltyHandler struct {
	royaltyService *services.RoyaltyService
}

func NewRoyaltyHandler(royaltyService *services.RoyaltyService) *RoyaltyHandler {
	return &RoyaltyHandler{
		royaltyService: royaltyService,
	}
}

type payRoyaltyBody struct {
	Licensee uuid.UUID `json:"licensee"`
	Amount   int64     `json:"amount"`
}

// POST /assets/:id/royalties
func (h *RoyaltyHandler) PayRoyalty(c *gin.Context) {
	assetID, ok := parseAssetID(c)
	if !ok {
		return
	}

	var body payRoyaltyBody
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", err.Error())
		return
	}

	if callerID, ok := utils.GetPrincipalIDFromContext(c); ok && body.Licensee == uuid.Nil {
		body.Licensee = callerID
	}

	req := services.PayRoyaltyRequest{
		Licensee: body.Licensee,
		AssetID:  assetID,
		Amount:   body.Amount,
	}

	if err := h.royaltyService.PayUsageRoyalty(c.Request.Context(), &req); err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": "Royalty paid",
	})
}
