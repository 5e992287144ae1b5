// internal/handlers/payment.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/flavorsnap/ip-backend/internal/services"
	"github.com/flavorsnap/ip-backend/internal/utils"
)

type PaymentHandler struct {
	paymentService *services.PaymentService
}

func NewPaymentHandler(paymentService *services.PaymentService) *PaymentHandler {
	return &PaymentHandler{
		paymentService: paymentService,
	}
}

// POST /payments/deposits
func (h *PaymentHandler) CreateDepositIntent(c *gin.Context) {
	principalID, exists := utils.GetPrincipalIDFromContext(c)
	if !exists {
		utils.UnauthorizedResponse(c, "")
		return
	}

	var req services.CreateDepositRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", err.Error())
		return
	}

	resp, err := h.paymentService.CreateDepositIntent(c.Request.Context(), principalID, &req)
	if err != nil {
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	utils.CreatedResponse(c, resp)
}

// POST /payments/deposits/confirm
func (h *PaymentHandler) ConfirmDeposit(c *gin.Context) {
	principalID, exists := utils.GetPrincipalIDFromContext(c)
	if !exists {
		utils.UnauthorizedResponse(c, "")
		return
	}

	var req services.ConfirmDepositRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", err.Error())
		return
	}

	if err := h.paymentService.ConfirmDeposit(c.Request.Context(), principalID, &req); err != nil {
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": "Deposit confirmed",
	})
}

// GET /payments/balances
func (h *PaymentHandler) GetBalances(c *gin.Context) {
	principalID, exists := utils.GetPrincipalIDFromContext(c)
	if !exists {
		utils.UnauthorizedResponse(c, "")
		return
	}

	balances, err := h.paymentService.GetBalances(c.Request.Context(), principalID)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{
		"balances": balances,
	})
}

// GET /payments/history
func (h *PaymentHandler) GetPaymentHistory(c *gin.Context) {
	principalID, exists := utils.GetPrincipalIDFromContext(c)
	if !exists {
		utils.UnauthorizedResponse(c, "")
		return
	}

	params := utils.GetPaginationParams(c)

	transactions, total, err := h.paymentService.GetPaymentHistory(c.Request.Context(), principalID, params)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	result := utils.CreatePaginationResult(transactions, total, params)
	utils.PaginatedResponse(c, result)
}
