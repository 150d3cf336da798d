// Package registration exposes the therapist onboarding wizard over HTTP.
// Sessions live server-side; every endpoint addresses one by ID.
package registration

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/lankaspa/portal/internal/attachment"
	"github.com/lankaspa/portal/internal/model"
	"github.com/lankaspa/portal/internal/service/directory"
	registrationService "github.com/lankaspa/portal/internal/service/registration"
	"github.com/lankaspa/portal/internal/validate"
	"github.com/lankaspa/portal/internal/wizard"
	apperrors "github.com/lankaspa/portal/pkg/errors"
	"github.com/lankaspa/portal/pkg/httputil"
)

// DeviceFactory opens a capture device for kiosk installations. A nil
// factory means no camera is attached; the file-picker path is always
// available regardless.
type DeviceFactory func() attachment.Device

type Handler struct {
	service       registrationService.Servicer
	directory     *directory.Service
	cameraFactory DeviceFactory
	frameTimeout  time.Duration
	logger        zerolog.Logger
}

func NewHandler(service registrationService.Servicer, dir *directory.Service, cameraFactory DeviceFactory, frameTimeout time.Duration, logger zerolog.Logger) *Handler {
	return &Handler{
		service:       service,
		directory:     dir,
		cameraFactory: cameraFactory,
		frameTimeout:  frameTimeout,
		logger:        logger.With().Str("component", "registration_handler").Logger(),
	}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	reg := r.Group("/register")
	{
		reg.GET("/spas", h.ListApprovedSpas)
		reg.POST("/wizard", h.StartWizard)
		reg.GET("/wizard/:id", h.GetWizard)
		reg.PUT("/wizard/:id/fields", h.SetFields)
		reg.POST("/wizard/:id/next", h.Next)
		reg.POST("/wizard/:id/previous", h.Previous)
		reg.POST("/wizard/:id/attachments/:kind", h.Attach)
		reg.DELETE("/wizard/:id/attachments/:kind", h.RemoveAttachment)
		reg.POST("/wizard/:id/camera", h.CameraCapture)
		reg.POST("/wizard/:id/submit", h.Submit)
		reg.DELETE("/wizard/:id", h.Cancel)
	}
}

// sessionView is the wizard state the client renders. Attachment binary data
// never travels back; previews and metadata do.
type sessionView struct {
	ID          string              `json:"id"`
	CurrentStep int                 `json:"current_step"`
	TotalSteps  int                 `json:"total_steps"`
	Fields      interface{}         `json:"fields"`
	Attachments map[string]attMeta  `json:"attachments"`
	Errors      map[string]string   `json:"errors"`
}

type attMeta struct {
	Filename  string `json:"filename"`
	MimeType  string `json:"mime_type"`
	SizeBytes int64  `json:"size_bytes"`
	Preview   string `json:"preview,omitempty"`
}

func newSessionView(s *model.WizardSession, totalSteps int) sessionView {
	atts := map[string]attMeta{}
	for _, kind := range []model.AttachmentKind{
		model.KindIdentityDocument, model.KindMedicalCertificate, model.KindProfileImage,
	} {
		if att := s.Attachments.Get(kind); att != nil {
			atts[string(kind)] = attMeta{
				Filename:  att.Filename,
				MimeType:  att.MimeType,
				SizeBytes: att.SizeBytes,
				Preview:   att.Preview,
			}
		}
	}
	return sessionView{
		ID:          s.ID,
		CurrentStep: s.CurrentStep,
		TotalSteps:  totalSteps,
		Fields:      s.Fields,
		Attachments: atts,
		Errors:      s.Errors,
	}
}

// ListApprovedSpas feeds the wizard's workplace dropdown.
func (h *Handler) ListApprovedSpas(c *gin.Context) {
	spas, _, _ := h.directory.Spas(model.ListFilter{Status: string(model.SpaStatusApproved)})
	httputil.RespondWithSuccess(c, spas)
}

func (h *Handler) StartWizard(c *gin.Context) {
	s := h.service.Start()
	c.JSON(http.StatusCreated, httputil.Response{
		Success: true,
		Data:    newSessionView(s, totalSteps()),
	})
}

func (h *Handler) GetWizard(c *gin.Context) {
	s, err := h.service.Get(c.Param("id"))
	if err != nil {
		h.respondSessionError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, newSessionView(s, totalSteps()))
}

// SetFields applies a batch of edits. Editing a field clears its displayed
// error without re-validating.
func (h *Handler) SetFields(c *gin.Context) {
	var values map[string]string
	if err := c.ShouldBindJSON(&values); err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid field payload", err))
		return
	}

	s, err := h.service.SetFields(c.Param("id"), values)
	if err != nil {
		h.respondSessionError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, newSessionView(s, totalSteps()))
}

func (h *Handler) Next(c *gin.Context) {
	s, err := h.service.Next(c.Param("id"))
	if err != nil {
		h.respondSessionError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, newSessionView(s, totalSteps()))
}

func (h *Handler) Previous(c *gin.Context) {
	s, err := h.service.Previous(c.Param("id"))
	if err != nil {
		h.respondSessionError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, newSessionView(s, totalSteps()))
}

// Attach accepts one multipart file for a named slot. Rejections leave any
// previously accepted file in place.
func (h *Handler) Attach(c *gin.Context) {
	kind := model.AttachmentKind(c.Param("kind"))

	file, err := c.FormFile("file")
	if err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("file part is required", err))
		return
	}

	f, err := file.Open()
	if err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("unreadable file", err))
		return
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("unreadable file", err))
		return
	}

	s, err := h.service.Attach(c.Param("id"), kind, file.Filename, data)
	if err != nil {
		h.respondSessionError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, newSessionView(s, totalSteps()))
}

func (h *Handler) RemoveAttachment(c *gin.Context) {
	s, err := h.service.RemoveAttachment(c.Param("id"), model.AttachmentKind(c.Param("kind")))
	if err != nil {
		h.respondSessionError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, newSessionView(s, totalSteps()))
}

// CameraCapture runs one kiosk camera session: acquire, grab a frame,
// release. Device failures are recoverable; the picker path stays open.
func (h *Handler) CameraCapture(c *gin.Context) {
	if h.cameraFactory == nil {
		httputil.RespondWithError(c, apperrors.DeviceUnavailable(errors.New("no capture device configured")))
		return
	}

	capture := attachment.NewCapture(h.cameraFactory(), h.frameTimeout)
	defer capture.Close()

	ctx := c.Request.Context()
	if err := capture.Start(ctx); err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	att, err := capture.Snap(ctx)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	s, err := h.service.AttachCaptured(c.Param("id"), att)
	if err != nil {
		h.respondSessionError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, newSessionView(s, totalSteps()))
}

func (h *Handler) Submit(c *gin.Context) {
	result, err := h.service.Submit(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, registrationService.ErrSubmissionInFlight) {
			c.JSON(http.StatusConflict, httputil.Response{
				Success: false,
				Message: "submission already in progress",
			})
			return
		}
		h.respondSessionError(c, err)
		return
	}

	if result.Outcome == registrationService.OutcomeIncomplete {
		httputil.RespondWithFieldErrors(c, result.FieldErrors)
		return
	}
	httputil.RespondWithSuccess(c, result)
}

func (h *Handler) Cancel(c *gin.Context) {
	h.service.Cancel(c.Param("id"))
	httputil.RespondWithSuccess(c, nil)
}

func (h *Handler) respondSessionError(c *gin.Context, err error) {
	if errors.Is(err, wizard.ErrSessionNotFound) {
		httputil.RespondWithError(c, apperrors.NotFound("wizard session", err))
		return
	}
	httputil.RespondWithError(c, err)
}

func totalSteps() int {
	return validate.TotalSteps
}
