package httpapi

import (
	"net/http"

	"github.com/bytebuddy/companion/internal/chat"
	"github.com/bytebuddy/companion/internal/common"
	"github.com/bytebuddy/companion/internal/config"
	"github.com/bytebuddy/companion/internal/httpapi/handlers"
	"github.com/bytebuddy/companion/internal/httpapi/middleware"
	"github.com/bytebuddy/companion/internal/store/redisstore"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func NewRouter(db *gorm.DB, cfg config.Config, memory *redisstore.Store, publisher chat.TitleJobPublisher) *gin.Engine {
	r := gin.New()
	r.HandleMethodNotAllowed = true
	r.Use(gin.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())

	r.NoRoute(func(c *gin.Context) {
		common.Fail(c, http.StatusNotFound, 40400, "route not found")
	})
	r.NoMethod(func(c *gin.Context) {
		common.Fail(c, http.StatusMethodNotAllowed, 40500, "method not allowed")
	})

	h := handlers.NewHandler(db, cfg, memory, publisher)

	r.GET("/ping", h.Ping)

	// accounts
	r.POST("/users", h.Register)
	r.POST("/login", h.Login)

	// legacy remote-memory chat path (POST only; other verbs get 405)
	r.POST("/api/chat", h.LegacyChat)

	authGroup := r.Group("/")
	authGroup.Use(middleware.AuthRequired(cfg.JWTSecret))
	authGroup.GET("/me", h.Me)
	authGroup.POST("/logout", h.Logout)

	// profile
	authGroup.GET("/profile", h.GetProfile)
	authGroup.PUT("/profile", h.SaveProfile)

	// chat
	authGroup.POST("/chat/conversations", h.CreateConversation)
	authGroup.GET("/chat/conversations", h.ListConversations)
	authGroup.PATCH("/chat/conversations/:id", h.RenameConversation)
	authGroup.DELETE("/chat/conversations/:id", h.DeleteConversation)
	authGroup.GET("/chat/conversations/:id/messages", h.ListConversationMessages)
	authGroup.POST("/chat/messages", h.SendMessage)

	// daily logger
	authGroup.POST("/logs/water", h.LogWater)
	authGroup.DELETE("/logs/water/:id", h.DeleteWater)
	authGroup.POST("/logs/meals", h.LogMeal)
	authGroup.GET("/logs/today", h.TodaySummary)
	authGroup.GET("/logs/weekly", h.WeeklyCalories)

	// dietary plan + food analysis
	authGroup.POST("/plan", h.GeneratePlan)
	authGroup.POST("/analyze", h.AnalyzeMeal)

	return r
}
