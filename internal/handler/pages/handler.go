// Package pages serves the public marketing surface: home, gallery, blog and
// the contact form. Content views degrade to empty lists with a retry
// affordance when the association API is down.
package pages

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/lankaspa/portal/internal/email"
	"github.com/lankaspa/portal/internal/listview"
	"github.com/lankaspa/portal/internal/model"
	"github.com/lankaspa/portal/internal/service/directory"
	apperrors "github.com/lankaspa/portal/pkg/errors"
	"github.com/lankaspa/portal/pkg/httputil"
)

// ContentAPI is the slice of the upstream client the public pages need.
type ContentAPI interface {
	ListBlogPosts(ctx context.Context) ([]model.BlogPost, error)
	ListGalleryImages(ctx context.Context) ([]model.GalleryImage, error)
}

type Handler struct {
	directory *directory.Service
	gallery   *listview.View[model.GalleryImage]
	blog      *listview.View[model.BlogPost]
	mailer    email.Service
	logger    zerolog.Logger
}

func NewHandler(dir *directory.Service, content ContentAPI, mailer email.Service, logger zerolog.Logger) *Handler {
	return &Handler{
		directory: dir,
		gallery: listview.NewView(
			func(ctx context.Context) ([]model.GalleryImage, error) {
				return content.ListGalleryImages(ctx)
			},
			listview.Accessors[model.GalleryImage]{
				SearchFields: func(g model.GalleryImage) []string { return []string{g.Title} },
				Category:     func(g model.GalleryImage) string { return g.Category },
			},
		),
		blog: listview.NewView(
			func(ctx context.Context) ([]model.BlogPost, error) {
				return content.ListBlogPosts(ctx)
			},
			listview.Accessors[model.BlogPost]{
				SearchFields: func(p model.BlogPost) []string { return []string{p.Title, p.Excerpt} },
			},
		),
		mailer: mailer,
		logger: logger.With().Str("component", "pages").Logger(),
	}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	pages := r.Group("/pages")
	{
		pages.GET("/home", h.Home)
		pages.GET("/gallery", h.Gallery)
		pages.GET("/blog", h.Blog)
		pages.POST("/contact", h.Contact)
	}
}

type listPayload struct {
	Items interface{}    `json:"items"`
	State listview.State `json:"state"`
	Retry bool           `json:"retry,omitempty"`
}

// Home returns the landing page data: approved member spas for the featured
// strip.
func (h *Handler) Home(c *gin.Context) {
	spas, state, _ := h.directory.Spas(model.ListFilter{Status: string(model.SpaStatusApproved)})
	httputil.RespondWithSuccess(c, listPayload{
		Items: spas,
		State: state,
		Retry: state == listview.StateFailed,
	})
}

// Gallery fetches the gallery on each visit and filters by category.
func (h *Handler) Gallery(c *gin.Context) {
	var filter model.ListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid filter", err))
		return
	}

	if err := h.gallery.Refresh(c.Request.Context()); err != nil {
		h.logger.Warn().Err(err).Msg("gallery fetch failed")
	}
	items, state, _ := h.gallery.Snapshot(filter)
	httputil.RespondWithSuccess(c, listPayload{
		Items: items,
		State: state,
		Retry: state == listview.StateFailed,
	})
}

// Blog lists published posts, searchable by title.
func (h *Handler) Blog(c *gin.Context) {
	var filter model.ListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid filter", err))
		return
	}

	if err := h.blog.Refresh(c.Request.Context()); err != nil {
		h.logger.Warn().Err(err).Msg("blog fetch failed")
	}
	items, state, _ := h.blog.Snapshot(filter)
	httputil.RespondWithSuccess(c, listPayload{
		Items: items,
		State: state,
		Retry: state == listview.StateFailed,
	})
}

type contactRequest struct {
	Name    string `json:"name" binding:"required"`
	Email   string `json:"email" binding:"required,email"`
	Subject string `json:"subject" binding:"required"`
	Message string `json:"message" binding:"required"`
}

// Contact forwards an enquiry to the association office mailbox.
func (h *Handler) Contact(c *gin.Context) {
	var req contactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("all contact fields are required", err))
		return
	}

	if err := h.mailer.SendContactEnquiry(c.Request.Context(), req.Name, req.Email, req.Subject, req.Message); err != nil {
		h.logger.Error().Err(err).Msg("contact enquiry failed")
		httputil.RespondWithError(c, apperrors.Internal(err))
		return
	}

	c.JSON(http.StatusOK, httputil.Response{
		Success: true,
		Message: "Thank you, we will be in touch shortly",
	})
}
