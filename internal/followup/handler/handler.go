package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	qrcode "github.com/skip2/go-qrcode"

	"crm_followup_backend/internal/followup/service"
	"crm_followup_backend/internal/followup/transport"
	"crm_followup_backend/platform/httpkit"
	"crm_followup_backend/platform/validator"
)

// Handler handles HTTP requests for the follow-up engine.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
	msgInvalidTaskID    = "invalid task ID"
	msgInvalidLeadID    = "invalid lead ID"
	msgInvalidDate      = "invalid date, expected YYYY-MM-DD"
)

// New creates a new follow-up handler.
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// StartSequence begins the standard follow-up sequence for a lead.
// POST /api/v1/leads/:id/sequence
func (h *Handler) StartSequence(c *gin.Context) {
	leadID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidLeadID, nil)
		return
	}

	result, err := h.svc.StartSequence(c.Request.Context(), leadID)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.Created(c, result)
}

// Triage returns open tasks bucketed by urgency.
// GET /api/v1/followups?date=2024-06-10
func (h *Handler) Triage(c *gin.Context) {
	reference := time.Now()
	if raw := c.Query("date"); raw != "" {
		parsed, err := time.ParseInLocation("2006-01-02", raw, time.Local)
		if err != nil {
			httpkit.Error(c, http.StatusBadRequest, msgInvalidDate, nil)
			return
		}
		reference = parsed
	}

	result, err := h.svc.TriageOpenTasks(c.Request.Context(), reference)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// Message returns the composed text and WhatsApp link for a task.
// GET /api/v1/followups/:id/message
func (h *Handler) Message(c *gin.Context) {
	taskID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidTaskID, nil)
		return
	}

	result, err := h.svc.ComposeMessage(c.Request.Context(), taskID)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// WhatsAppQR renders the task's WhatsApp deep link as a QR code so the
// message can be picked up on a phone.
// GET /api/v1/followups/:id/whatsapp-qr
func (h *Handler) WhatsAppQR(c *gin.Context) {
	taskID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidTaskID, nil)
		return
	}

	result, err := h.svc.ComposeMessage(c.Request.Context(), taskID)
	if httpkit.HandleError(c, err) {
		return
	}
	if result.WhatsAppLink == nil {
		httpkit.Error(c, http.StatusUnprocessableEntity, "lead has no usable phone number", nil)
		return
	}

	png, err := qrcode.Encode(*result.WhatsAppLink, qrcode.Medium, 256)
	if err != nil {
		httpkit.Error(c, http.StatusInternalServerError, "failed to render QR code", nil)
		return
	}
	c.Data(http.StatusOK, "image/png", png)
}

// MarkDone completes a follow-up task.
// POST /api/v1/followups/:id/done
func (h *Handler) MarkDone(c *gin.Context) {
	taskID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidTaskID, nil)
		return
	}

	result, err := h.svc.MarkDone(c.Request.Context(), taskID)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// MarkSkipped pushes a follow-up task to tomorrow.
// POST /api/v1/followups/:id/skip
func (h *Handler) MarkSkipped(c *gin.Context) {
	taskID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidTaskID, nil)
		return
	}

	result, err := h.svc.MarkSkipped(c.Request.Context(), taskID)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// Steps lists the catalog sequence.
// GET /api/v1/sequence/steps
func (h *Handler) Steps(c *gin.Context) {
	httpkit.OK(c, h.svc.Steps())
}

// ListOverrides lists active template overrides.
// GET /api/v1/admin/template-overrides
func (h *Handler) ListOverrides(c *gin.Context) {
	result, err := h.svc.ListOverrides(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// SetOverride installs a template override for a step.
// PUT /api/v1/admin/template-overrides/:stepKey
func (h *Handler) SetOverride(c *gin.Context) {
	var req transport.SetOverrideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	result, err := h.svc.SetOverride(c.Request.Context(), c.Param("stepKey"), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// ClearOverride archives the override for a (step, vertical) pair.
// DELETE /api/v1/admin/template-overrides/:stepKey?vertical=finance
func (h *Handler) ClearOverride(c *gin.Context) {
	err := h.svc.ClearOverride(c.Request.Context(), c.Param("stepKey"), c.Query("vertical"))
	if httpkit.HandleError(c, err) {
		return
	}
	c.Status(http.StatusNoContent)
}
