package handlers

import (
	"errors"
	"net/http"

	"github.com/bytebuddy/companion/internal/advisor"
	"github.com/bytebuddy/companion/internal/common"
	"github.com/gin-gonic/gin"
)

func (h *Handler) GeneratePlan(c *gin.Context) {
	uid, ok := userIDFromContext(c)
	if !ok {
		common.Fail(c, http.StatusUnauthorized, 40101, "unauthorized")
		return
	}

	plan, err := h.AdvisorSvc.GeneratePlan(c.Request.Context(), uid)
	if err != nil {
		switch {
		case errors.Is(err, advisor.ErrProfileRequired):
			common.Fail(c, http.StatusBadRequest, 10040, "save your health profile before generating a plan")
		case errors.Is(err, advisor.ErrMalformedPlan):
			common.Fail(c, http.StatusBadGateway, 50021, "the generated plan was malformed, please try again")
		default:
			common.Fail(c, http.StatusBadGateway, 50020, "failed to generate plan, please try again")
		}
		return
	}
	common.OK(c, gin.H{"plan": plan})
}

type analyzeMealReq struct {
	Description string `json:"description"`
}

func (h *Handler) AnalyzeMeal(c *gin.Context) {
	if _, ok := userIDFromContext(c); !ok {
		common.Fail(c, http.StatusUnauthorized, 40101, "unauthorized")
		return
	}

	var req analyzeMealReq
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Fail(c, http.StatusBadRequest, 10001, "invalid json")
		return
	}

	analysis, err := h.AdvisorSvc.AnalyzeMeal(c.Request.Context(), req.Description)
	if err != nil {
		if errors.Is(err, advisor.ErrEmptyMeal) {
			common.Fail(c, http.StatusBadRequest, 10041, "meal description required")
			return
		}
		common.Fail(c, http.StatusBadGateway, 50022, "failed to analyze meal, please try again")
		return
	}
	common.OK(c, gin.H{"analysis": analysis})
}
