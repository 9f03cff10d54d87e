package handlers

import (
	"net/http"
	"strings"

	"stationbook/services/booking"
	"stationbook/services/payment"
	"stationbook/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// PaymentHandler exposes the gateway integration surface: initiate,
// status poll, webhook and the browser return redirect.
type PaymentHandler struct {
	Svc        payment.Service
	SuccessURL string
	FailureURL string
	Logger     *zap.Logger
}

// NewPaymentHandler constructs a PaymentHandler.
func NewPaymentHandler(svc payment.Service, successURL, failureURL string, logger *zap.Logger) *PaymentHandler {
	return &PaymentHandler{
		Svc:        svc,
		SuccessURL: successURL,
		FailureURL: failureURL,
		Logger:     logger,
	}
}

type initiateInput struct {
	HoldID                string  `json:"holdId"`
	Amount                float64 `json:"amount"`
	CustomerPhone         string  `json:"customerPhone"`
	MerchantTransactionID string  `json:"merchantTransactionId"`
}

// Initiate opens a payment against a hold and returns the redirect URL.
func (h *PaymentHandler) Initiate(c *gin.Context) {
	var input initiateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, booking.CodeBadRequest, "invalid input: "+err.Error())
		return
	}
	if input.HoldID == "" || input.Amount <= 0 || input.CustomerPhone == "" || input.MerchantTransactionID == "" {
		utils.JSONError(c, http.StatusBadRequest, booking.CodeBadRequest,
			"holdId, amount, customerPhone and merchantTransactionId are required")
		return
	}

	resp, err := h.Svc.Initiate(c.Request.Context(), payment.InitiateRequest{
		HoldID:        input.HoldID,
		TransactionID: input.MerchantTransactionID,
		Amount:        input.Amount,
		CustomerPhone: input.CustomerPhone,
	})
	if err != nil {
		renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true, "url": resp.RedirectURL, "transactionId": resp.TransactionID})
}

// Status returns the local transaction state, polling the gateway for
// stale PENDING transactions.
func (h *PaymentHandler) Status(c *gin.Context) {
	txnID := c.Query("txn")
	if txnID == "" {
		utils.JSONError(c, http.StatusBadRequest, booking.CodeBadRequest, "txn query param is required")
		return
	}

	status, err := h.Svc.CheckStatus(c.Request.Context(), txnID)
	if err != nil {
		renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"ok":         true,
		"state":      status.State,
		"amount":     status.Amount,
		"created_at": status.CreatedAt,
	})
}

// Webhook consumes the gateway's push notification. The body is read
// raw; the payload contract and the auth check depend on the exact
// bytes, so nothing may parse it first.
func (h *PaymentHandler) Webhook(c *gin.Context) {
	raw, err := c.GetRawData()
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, booking.CodeBadRequest, "unable to read webhook body")
		return
	}

	if err := h.Svc.HandleWebhook(c.Request.Context(), raw, c.GetHeader("Authorization")); err != nil {
		switch booking.CodeOf(err) {
		case booking.CodeUnauthorized, booking.CodeBadRequest, booking.CodeNotFound:
			renderError(c, err)
		default:
			h.Logger.Error("webhook processing failed", zap.Error(err))
			utils.JSONError(c, http.StatusInternalServerError, booking.CodeInternal, "webhook processing failed")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "received": true})
}

// Return is the browser's landing hop after the gateway redirect. No
// state changes here (reconciliation owns those), just a bounce to the
// right page.
func (h *PaymentHandler) Return(c *gin.Context) {
	txnID := c.Query("txn")
	status := strings.ToLower(c.Query("status"))

	if txnID == "" || status == "failed" || status == "failure" {
		c.Redirect(http.StatusFound, h.FailureURL)
		return
	}
	c.Redirect(http.StatusFound, h.SuccessURL)
}
