// Package lsa serves the association-wide admin console: spa and therapist
// oversight, status transitions, notifications, payment plans and exports.
package lsa

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/lankaspa/portal/internal/listview"
	"github.com/lankaspa/portal/internal/model"
	"github.com/lankaspa/portal/internal/service/directory"
	"github.com/lankaspa/portal/internal/service/export"
	"github.com/lankaspa/portal/internal/service/notification"
	"github.com/lankaspa/portal/internal/service/payment"
	apperrors "github.com/lankaspa/portal/pkg/errors"
	"github.com/lankaspa/portal/pkg/httputil"
)

type Handler struct {
	directory     *directory.Service
	notifications *notification.Service
	payments      *payment.Service
	exports       *export.Service
	logger        zerolog.Logger
}

func NewHandler(
	dir *directory.Service,
	notifications *notification.Service,
	payments *payment.Service,
	exports *export.Service,
	logger zerolog.Logger,
) *Handler {
	return &Handler{
		directory:     dir,
		notifications: notifications,
		payments:      payments,
		exports:       exports,
		logger:        logger.With().Str("component", "lsa_handler").Logger(),
	}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	lsa := r.Group("/lsa")
	{
		lsa.GET("/spas", h.ListSpas)
		lsa.POST("/spas/refresh", h.RefreshSpas)
		lsa.POST("/spas/:id/status", h.TransitionSpa)
		lsa.GET("/spas/export", h.ExportSpas)

		lsa.GET("/therapists", h.ListTherapists)
		lsa.POST("/therapists/refresh", h.RefreshTherapists)
		lsa.POST("/therapists/:id/status", h.TransitionTherapist)
		lsa.GET("/therapists/export", h.ExportTherapists)

		lsa.GET("/notifications", h.Notifications)
		lsa.POST("/notifications/refresh", h.RefreshNotifications)
		lsa.POST("/notifications/:id/read", h.MarkNotificationRead)

		lsa.GET("/payment-plans", h.PaymentPlans)
		lsa.POST("/payment-plans/refresh", h.RefreshPaymentPlans)
		lsa.GET("/spas/:id/payments", h.SpaPayments)
	}
}

type listPayload struct {
	Items interface{}    `json:"items"`
	State listview.State `json:"state"`
	Retry bool           `json:"retry,omitempty"`
}

func respondList(c *gin.Context, items interface{}, state listview.State) {
	httputil.RespondWithSuccess(c, listPayload{
		Items: items,
		State: state,
		Retry: state == listview.StateFailed,
	})
}

func bindFilter(c *gin.Context) (model.ListFilter, bool) {
	var filter model.ListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid filter", err))
		return filter, false
	}
	return filter, true
}

// ListSpas serves the registered-spas table with search, status and category
// filters applied in combination.
func (h *Handler) ListSpas(c *gin.Context) {
	filter, ok := bindFilter(c)
	if !ok {
		return
	}
	items, state, _ := h.directory.Spas(filter)
	respondList(c, items, state)
}

// RefreshSpas is the view's retry affordance: one fetch, then the caller
// re-reads the list.
func (h *Handler) RefreshSpas(c *gin.Context) {
	if err := h.directory.RetrySpas(c.Request.Context()); err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithMessage(c, "spa list refreshed", nil)
}

type spaTransitionRequest struct {
	Status string `json:"status" binding:"required,oneof=pending approved rejected blacklisted"`
	Reason string `json:"reason"`
}

// TransitionSpa moves a spa through its lifecycle. The change happens
// upstream; the console only ever shows refetched truth.
func (h *Handler) TransitionSpa(c *gin.Context) {
	var req spaTransitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid status", err))
		return
	}

	err := h.directory.TransitionSpa(c.Request.Context(), c.Param("id"), model.SpaStatus(req.Status), req.Reason)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithMessage(c, "spa status updated", nil)
}

func (h *Handler) ListTherapists(c *gin.Context) {
	filter, ok := bindFilter(c)
	if !ok {
		return
	}
	items, state, _ := h.directory.Therapists(filter, "")
	respondList(c, items, state)
}

func (h *Handler) RefreshTherapists(c *gin.Context) {
	if err := h.directory.RetryTherapists(c.Request.Context()); err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithMessage(c, "therapist list refreshed", nil)
}

type therapistTransitionRequest struct {
	Status string `json:"status" binding:"required,oneof=pending approved rejected resigned terminated suspended"`
	Reason string `json:"reason"`
}

func (h *Handler) TransitionTherapist(c *gin.Context) {
	var req therapistTransitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid status", err))
		return
	}

	err := h.directory.TransitionTherapist(c.Request.Context(), c.Param("id"), model.TherapistStatus(req.Status), req.Reason)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithMessage(c, "therapist status updated", nil)
}

// ExportSpas downloads the current filtered spa list as a workbook.
func (h *Handler) ExportSpas(c *gin.Context) {
	filter, ok := bindFilter(c)
	if !ok {
		return
	}
	items, _, _ := h.directory.Spas(filter)

	data, err := h.exports.Spas(items)
	if err != nil {
		httputil.RespondWithError(c, apperrors.Internal(err))
		return
	}
	serveWorkbook(c, "spas", data)
}

func (h *Handler) ExportTherapists(c *gin.Context) {
	filter, ok := bindFilter(c)
	if !ok {
		return
	}
	items, _, _ := h.directory.Therapists(filter, "")

	data, err := h.exports.Therapists(items)
	if err != nil {
		httputil.RespondWithError(c, apperrors.Internal(err))
		return
	}
	serveWorkbook(c, "therapists", data)
}

func serveWorkbook(c *gin.Context, name string, data []byte) {
	filename := fmt.Sprintf("%s-%s.xlsx", name, time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}

func (h *Handler) Notifications(c *gin.Context) {
	filter, ok := bindFilter(c)
	if !ok {
		return
	}
	items, state, _ := h.notifications.Feed(c.Request.Context(), notification.AudienceLSA, filter)
	respondList(c, items, state)
}

func (h *Handler) RefreshNotifications(c *gin.Context) {
	if err := h.notifications.Retry(c.Request.Context(), notification.AudienceLSA); err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithMessage(c, "notifications refreshed", nil)
}

func (h *Handler) MarkNotificationRead(c *gin.Context) {
	if err := h.notifications.MarkRead(c.Request.Context(), notification.AudienceLSA, c.Param("id")); err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithMessage(c, "notification marked read", nil)
}

func (h *Handler) PaymentPlans(c *gin.Context) {
	filter, ok := bindFilter(c)
	if !ok {
		return
	}
	items, state, _ := h.payments.Plans(c.Request.Context(), filter)
	respondList(c, items, state)
}

func (h *Handler) RefreshPaymentPlans(c *gin.Context) {
	if err := h.payments.RetryPlans(c.Request.Context()); err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithMessage(c, "payment plans refreshed", nil)
}

// SpaPayments shows one spa's payment history, fetched on demand.
func (h *Handler) SpaPayments(c *gin.Context) {
	items, err := h.payments.Payments(c.Request.Context(), c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, items)
}
