package handlers

import (
	"net/http"

	"github.com/bytebuddy/companion/internal/common"
	"github.com/bytebuddy/companion/internal/profile"
	"github.com/gin-gonic/gin"
)

func (h *Handler) GetProfile(c *gin.Context) {
	uid, ok := userIDFromContext(c)
	if !ok {
		common.Fail(c, http.StatusUnauthorized, 40101, "unauthorized")
		return
	}

	prof, err := h.Profiles.Get(c.Request.Context(), uid)
	if err != nil {
		common.Fail(c, http.StatusInternalServerError, 20001, "failed to load profile")
		return
	}
	// absent profile is not an error; the client sees null
	common.OK(c, prof)
}

func (h *Handler) SaveProfile(c *gin.Context) {
	uid, ok := userIDFromContext(c)
	if !ok {
		common.Fail(c, http.StatusUnauthorized, 40101, "unauthorized")
		return
	}

	var prof profile.Profile
	if err := c.ShouldBindJSON(&prof); err != nil {
		common.Fail(c, http.StatusBadRequest, 10001, "invalid json")
		return
	}
	if prof.Units == "" {
		prof.Units = profile.UnitsMetric
	}

	if err := h.Profiles.Save(c.Request.Context(), uid, prof); err != nil {
		common.Fail(c, http.StatusInternalServerError, 20001, "failed to save profile")
		return
	}
	common.OK(c, nil)
}
