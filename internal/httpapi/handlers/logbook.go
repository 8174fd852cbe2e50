package handlers

import (
	"errors"
	"net/http"

	"github.com/bytebuddy/companion/internal/common"
	"github.com/bytebuddy/companion/internal/logbook"
	"github.com/gin-gonic/gin"
)

type logWaterReq struct {
	Amount int `json:"amount"`
}

func (h *Handler) LogWater(c *gin.Context) {
	uid, ok := userIDFromContext(c)
	if !ok {
		common.Fail(c, http.StatusUnauthorized, 40101, "unauthorized")
		return
	}

	var req logWaterReq
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Fail(c, http.StatusBadRequest, 10001, "invalid json")
		return
	}

	w, err := h.LogSvc.LogWater(c.Request.Context(), uid, req.Amount)
	if err != nil {
		if errors.Is(err, logbook.ErrInvalidAmount) {
			common.Fail(c, http.StatusBadRequest, 10030, "amount must be a positive number of millilitres")
			return
		}
		common.Fail(c, http.StatusInternalServerError, 50010, "failed to log water")
		return
	}
	common.OK(c, w)
}

func (h *Handler) DeleteWater(c *gin.Context) {
	uid, ok := userIDFromContext(c)
	if !ok {
		common.Fail(c, http.StatusUnauthorized, 40101, "unauthorized")
		return
	}

	if err := h.LogSvc.DeleteWater(c.Request.Context(), uid, c.Param("id")); err != nil {
		common.Fail(c, http.StatusInternalServerError, 50011, "failed to delete water log")
		return
	}
	common.OK(c, nil)
}

type logMealReq struct {
	Description string `json:"description"`
	Quantity    string `json:"quantity"`
	MealType    string `json:"meal_type"`
}

func (h *Handler) LogMeal(c *gin.Context) {
	uid, ok := userIDFromContext(c)
	if !ok {
		common.Fail(c, http.StatusUnauthorized, 40101, "unauthorized")
		return
	}

	var req logMealReq
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Fail(c, http.StatusBadRequest, 10001, "invalid json")
		return
	}

	m, err := h.LogSvc.LogMeal(c.Request.Context(), uid, req.Description, req.Quantity, req.MealType)
	if err != nil {
		if errors.Is(err, logbook.ErrInvalidInput) {
			common.Fail(c, http.StatusBadRequest, 10031, "description, quantity and a valid meal type are required")
			return
		}
		common.Fail(c, http.StatusInternalServerError, 50012, "failed to log meal")
		return
	}
	common.OK(c, m)
}

// TodaySummary bundles today's logs and totals in one read.
func (h *Handler) TodaySummary(c *gin.Context) {
	uid, ok := userIDFromContext(c)
	if !ok {
		common.Fail(c, http.StatusUnauthorized, 40101, "unauthorized")
		return
	}

	ctx := c.Request.Context()
	waterLogs, err := h.LogSvc.TodaysWaterLogs(ctx, uid)
	if err != nil {
		common.Fail(c, http.StatusInternalServerError, 50013, "failed to load water logs")
		return
	}
	mealLogs, err := h.LogSvc.TodaysMealLogs(ctx, uid)
	if err != nil {
		common.Fail(c, http.StatusInternalServerError, 50014, "failed to load meal logs")
		return
	}

	totalWater := 0
	for _, w := range waterLogs {
		totalWater += w.Amount
	}
	totalCalories := 0
	for _, m := range mealLogs {
		totalCalories += m.Calories
	}

	common.OK(c, gin.H{
		"water_logs":     waterLogs,
		"meal_logs":      mealLogs,
		"total_water":    totalWater,
		"total_calories": totalCalories,
	})
}

func (h *Handler) WeeklyCalories(c *gin.Context) {
	uid, ok := userIDFromContext(c)
	if !ok {
		common.Fail(c, http.StatusUnauthorized, 40101, "unauthorized")
		return
	}

	week, err := h.LogSvc.WeeklyCalories(c.Request.Context(), uid)
	if err != nil {
		common.Fail(c, http.StatusInternalServerError, 50015, "failed to build weekly series")
		return
	}
	common.OK(c, gin.H{"days": week})
}
