// internal/handlers/license.go
package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/flavorsnap/ip-backend/internal/models"
	"github.com/flavorsnap/ip-backend/internal/services"
	"github.com/flavorsnap/ip-backend/internal/utils"
)

type LicenseHandler struct {
	licenseService *services.LicenseService
}

func NewLicenseHandler(licenseService *services.LicenseService) *LicenseHandler {
	return &LicenseHandler{
		licenseService: licenseService,
	}
}

type purchaseLicenseBody struct {
	Licensee    uuid.UUID          `json:"licensee"`
	LicenseType models.LicenseType `json:"license_type"`
}

// POST /assets/:id/licenses
func (h *LicenseHandler) PurchaseLicense(c *gin.Context) {
	assetID, ok := parseAssetID(c)
	if !ok {
		return
	}

	var body purchaseLicenseBody
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", err.Error())
		return
	}

	// Licensee defaults to the authenticated caller when omitted.
	if callerID, ok := utils.GetPrincipalIDFromContext(c); ok && body.Licensee == uuid.Nil {
		body.Licensee = callerID
	}

	req := services.PurchaseLicenseRequest{
		Licensee:    body.Licensee,
		AssetID:     assetID,
		LicenseType: body.LicenseType,
	}

	license, err := h.licenseService.PurchaseLicense(c.Request.Context(), &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"license": license,
	})
}

// POST /assets/:id/licenses/:licensee/revoke
func (h *LicenseHandler) RevokeLicense(c *gin.Context) {
	assetID, ok := parseAssetID(c)
	if !ok {
		return
	}

	licensee, err := uuid.Parse(c.Param("licensee"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid licensee ID", nil)
		return
	}

	callerID, exists := utils.GetPrincipalIDFromContext(c)
	if !exists {
		utils.UnauthorizedResponse(c, "")
		return
	}

	req := services.RevokeLicenseRequest{
		Owner:    callerID,
		Licensee: licensee,
		AssetID:  assetID,
	}

	if err := h.licenseService.RevokeLicense(c.Request.Context(), &req); err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": "License revoked",
	})
}

// GET /assets/:id/licenses/:licensee
func (h *LicenseHandler) GetLicense(c *gin.Context) {
	assetID, ok := parseAssetID(c)
	if !ok {
		return
	}

	licensee, err := uuid.Parse(c.Param("licensee"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid licensee ID", nil)
		return
	}

	license, err := h.licenseService.GetLicense(c.Request.Context(), assetID, licensee)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"license": license,
	})
}

// GET /assets/:id/licenses
func (h *LicenseHandler) GetLicenses(c *gin.Context) {
	assetID, ok := parseAssetID(c)
	if !ok {
		return
	}

	licenses, err := h.licenseService.ListLicenses(c.Request.Context(), assetID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"licenses": licenses,
	})
}
