// internal/handlers/asset.go
package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/flavorsnap/ip-backend/internal/services"
	"github.com/flavorsnap/ip-backend/internal/utils"
)

type AssetHandler struct {
	registryService *services.RegistryService
	metadataService *services.MetadataService
}

func NewAssetHandler(registryService *services.RegistryService, metadataService *services.MetadataService) *AssetHandler {
	return &AssetHandler{
		registryService: registryService,
		metadataService: metadataService,
	}
}

// POST /assets
func (h *AssetHandler) RegisterAsset(c *gin.Context) {
	var req services.RegisterAssetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", err.Error())
		return
	}

	// Owner defaults to the authenticated caller when omitted.
	if callerID, ok := utils.GetPrincipalIDFromContext(c); ok && req.Owner == uuid.Nil {
		req.Owner = callerID
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	asset, err := h.registryService.RegisterAsset(c.Request.Context(), &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"asset": asset,
	})
}

// GET /assets/:id
func (h *AssetHandler) GetAsset(c *gin.Context) {
	assetID, ok := parseAssetID(c)
	if !ok {
		return
	}

	asset, err := h.registryService.GetAsset(c.Request.Context(), assetID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"asset": asset,
	})
}

// GET /assets
func (h *AssetHandler) GetAssets(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	assets, total, err := h.registryService.ListAssets(c.Request.Context(), params)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	result := utils.CreatePaginationResult(assets, total, params)
	utils.PaginatedResponse(c, result)
}

// POST /assets/metadata
func (h *AssetHandler) UploadMetadata(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		utils.BadRequestResponse(c, "Missing metadata file", err.Error())
		return
	}
	defer file.Close()

	result, err := h.metadataService.UploadMetadata(file, header)
	if err != nil {
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"upload": result,
	})
}

func parseAssetID(c *gin.Context) (uint64, bool) {
	assetID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		utils.BadRequestResponse(c, "Invalid asset ID", nil)
		return 0, false
	}
	return assetID, true
}
