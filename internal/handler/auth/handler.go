package auth

import (
	"github.com/gin-gonic/gin"

	"github.com/lankaspa/portal/internal/config"
	"github.com/lankaspa/portal/pkg/auth"
	apperrors "github.com/lankaspa/portal/pkg/errors"
	"github.com/lankaspa/portal/pkg/httputil"
	"github.com/lankaspa/portal/pkg/security"
)

type Handler struct {
	jwt    auth.JWTService
	hasher security.PasswordHasher
	users  []config.ConsoleUser
}

func NewHandler(jwt auth.JWTService, hasher security.PasswordHasher, users []config.ConsoleUser) *Handler {
	return &Handler{jwt: jwt, hasher: hasher, users: users}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/auth/login", h.Login)
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type loginResponse struct {
	Token string    `json:"token"`
	Role  auth.Role `json:"role"`
	SpaID string    `json:"spa_id,omitempty"`
}

// Login checks console credentials and issues a role-scoped token.
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("username and password are required", err))
		return
	}

	for _, u := range h.users {
		if u.Username != req.Username {
			continue
		}
		if err := h.hasher.Compare(u.PasswordHash, req.Password); err != nil {
			break
		}

		token, err := h.jwt.GenerateToken(u.Username, auth.Role(u.Role), u.SpaID)
		if err != nil {
			httputil.RespondWithError(c, apperrors.Internal(err))
			return
		}

		httputil.RespondWithSuccess(c, loginResponse{
			Token: token,
			Role:  auth.Role(u.Role),
			SpaID: u.SpaID,
		})
		return
	}

	httputil.RespondWithError(c, apperrors.Unauthorized(nil))
}
