// Package spaadmin serves the per-spa console. Every route is scoped to the
// spa ID carried by the caller's token; one spa can never read another's
// records.
package spaadmin

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/lankaspa/portal/internal/listview"
	"github.com/lankaspa/portal/internal/middleware"
	"github.com/lankaspa/portal/internal/model"
	"github.com/lankaspa/portal/internal/service/directory"
	"github.com/lankaspa/portal/internal/service/notification"
	"github.com/lankaspa/portal/internal/service/payment"
	apperrors "github.com/lankaspa/portal/pkg/errors"
	"github.com/lankaspa/portal/pkg/httputil"
)

type Handler struct {
	directory     *directory.Service
	notifications *notification.Service
	payments      *payment.Service
	logger        zerolog.Logger
}

func NewHandler(
	dir *directory.Service,
	notifications *notification.Service,
	payments *payment.Service,
	logger zerolog.Logger,
) *Handler {
	return &Handler{
		directory:     dir,
		notifications: notifications,
		payments:      payments,
		logger:        logger.With().Str("component", "spa_admin_handler").Logger(),
	}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	spa := r.Group("/spa")
	{
		spa.GET("/therapists", h.ListTherapists)
		spa.POST("/therapists/refresh", h.RefreshTherapists)
		spa.POST("/therapists/:id/status", h.TransitionTherapist)

		spa.GET("/notifications", h.Notifications)
		spa.POST("/notifications/refresh", h.RefreshNotifications)
		spa.POST("/notifications/:id/read", h.MarkNotificationRead)

		spa.GET("/payments", h.Payments)
		spa.GET("/payment-plans", h.PaymentPlans)
		spa.POST("/payment-plans/refresh", h.RefreshPaymentPlans)
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

func spaID(c *gin.Context) (string, bool) {
	id := c.GetString(middleware.ContextSpaID)
	if id == "" {
		httputil.RespondWithError(c, apperrors.Forbidden("token is not scoped to a spa"))
		return "", false
	}
	return id, true
}

// ListTherapists shows only the staff of the caller's spa.
func (h *Handler) ListTherapists(c *gin.Context) {
	id, ok := spaID(c)
	if !ok {
		return
	}

	var filter model.ListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid filter", err))
		return
	}

	items, state, _ := h.directory.Therapists(filter, id)
	respondList(c, items, state)
}

func (h *Handler) RefreshTherapists(c *gin.Context) {
	if _, ok := spaID(c); !ok {
		return
	}
	if err := h.directory.RetryTherapists(c.Request.Context()); err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithMessage(c, "therapist list refreshed", nil)
}

type therapistTransitionRequest struct {
	// A spa can manage employment outcomes but not association approval.
	Status string `json:"status" binding:"required,oneof=resigned terminated suspended"`
	Reason string `json:"reason"`
}

// TransitionTherapist lets a spa record an employment change for its own
// staff. The therapist must belong to the caller's spa.
func (h *Handler) TransitionTherapist(c *gin.Context) {
	id, ok := spaID(c)
	if !ok {
		return
	}

	var req therapistTransitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid status", err))
		return
	}

	therapistID := c.Param("id")
	if err := h.ownsTherapist(id, therapistID); err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	err := h.directory.TransitionTherapist(c.Request.Context(), therapistID, model.TherapistStatus(req.Status), req.Reason)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithMessage(c, "therapist status updated", nil)
}

// ownsTherapist checks the therapist against the caller's slice of the view.
// A failed view is not proof of anything, so it surfaces as an upstream
// error rather than a denial.
func (h *Handler) ownsTherapist(spaID, therapistID string) error {
	items, state, err := h.directory.Therapists(model.ListFilter{}, spaID)
	if state == listview.StateFailed {
		return apperrors.UpstreamUnreachable(err)
	}
	for _, t := range items {
		if t.ID == therapistID {
			return nil
		}
	}
	return apperrors.Forbidden("therapist does not belong to this spa")
}

func (h *Handler) Notifications(c *gin.Context) {
	id, ok := spaID(c)
	if !ok {
		return
	}

	var filter model.ListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid filter", err))
		return
	}

	items, state, _ := h.notifications.Feed(c.Request.Context(), id, filter)
	respondList(c, items, state)
}

func (h *Handler) RefreshNotifications(c *gin.Context) {
	id, ok := spaID(c)
	if !ok {
		return
	}
	if err := h.notifications.Retry(c.Request.Context(), id); err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithMessage(c, "notifications refreshed", nil)
}

func (h *Handler) MarkNotificationRead(c *gin.Context) {
	id, ok := spaID(c)
	if !ok {
		return
	}
	if err := h.notifications.MarkRead(c.Request.Context(), id, c.Param("id")); err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithMessage(c, "notification marked read", nil)
}

// Payments shows the caller's own payment history.
func (h *Handler) Payments(c *gin.Context) {
	id, ok := spaID(c)
	if !ok {
		return
	}
	items, err := h.payments.Payments(c.Request.Context(), id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, items)
}

func (h *Handler) PaymentPlans(c *gin.Context) {
	var filter model.ListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid filter", err))
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
