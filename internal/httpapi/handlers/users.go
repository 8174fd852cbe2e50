package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/bytebuddy/companion/internal/account"
	"github.com/bytebuddy/companion/internal/auth"
	"github.com/bytebuddy/companion/internal/common"
	"github.com/bytebuddy/companion/internal/models"
	"github.com/gin-gonic/gin"
)

const sessionTTL = 24 * time.Hour

type registerReq struct {
	Name     string `json:"name" binding:"required"`
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func userPayload(u *models.User, token string) gin.H {
	return gin.H{
		"id":           u.ID,
		"username":     u.Username,
		"display_name": u.DisplayName,
		"token":        token,
	}
}

// Register creates the account and establishes the session in one step.
func (h *Handler) Register(c *gin.Context) {
	var req registerReq
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Fail(c, http.StatusBadRequest, 10001, "name, username and password required")
		return
	}

	user, err := h.Accounts.Register(c.Request.Context(), req.Name, req.Username, req.Password)
	if err != nil {
		if errors.Is(err, account.ErrDuplicateUsername) {
			common.Fail(c, http.StatusConflict, 10010, "an account with this username already exists")
			return
		}
		common.Fail(c, http.StatusInternalServerError, 20001, "failed to create account")
		return
	}

	token, err := auth.SignJWT(user.ID, h.Cfg.JWTSecret, sessionTTL)
	if err != nil {
		common.Fail(c, http.StatusInternalServerError, 20002, "failed to sign token")
		return
	}

	common.OK(c, userPayload(user, token))
}

type loginReq struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *Handler) Login(c *gin.Context) {
	var req loginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Fail(c, http.StatusBadRequest, 10001, "username and password required")
		return
	}

	user, err := h.Accounts.Authenticate(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, account.ErrUserNotFound):
			common.Fail(c, http.StatusNotFound, 10011, "no account found with this username")
		case errors.Is(err, account.ErrInvalidCredential):
			common.Fail(c, http.StatusUnauthorized, 10012, "incorrect password")
		default:
			common.Fail(c, http.StatusInternalServerError, 20001, "failed to sign in")
		}
		return
	}

	token, err := auth.SignJWT(user.ID, h.Cfg.JWTSecret, sessionTTL)
	if err != nil {
		common.Fail(c, http.StatusInternalServerError, 20002, "failed to sign token")
		return
	}

	common.OK(c, userPayload(user, token))
}

// Logout ends the session. Tokens are stateless, so the server side has
// nothing to tear down; the client discards the token. Never fails.
func (h *Handler) Logout(c *gin.Context) {
	common.OK(c, nil)
}

func (h *Handler) Me(c *gin.Context) {
	uid, ok := userIDFromContext(c)
	if !ok {
		common.Fail(c, http.StatusUnauthorized, 40101, "unauthorized")
		return
	}

	user, err := h.Accounts.GetByID(c.Request.Context(), uid)
	if err != nil {
		if errors.Is(err, account.ErrUserNotFound) {
			common.Fail(c, http.StatusNotFound, 40401, "user not found")
			return
		}
		common.Fail(c, http.StatusInternalServerError, 20001, "db error")
		return
	}

	common.OK(c, gin.H{
		"id":           user.ID,
		"username":     user.Username,
		"display_name": user.DisplayName,
		"created_at":   user.CreatedAt,
	})
}
