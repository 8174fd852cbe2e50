package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/bytebuddy/companion/internal/account"
	"github.com/bytebuddy/companion/internal/advisor"
	"github.com/bytebuddy/companion/internal/chat"
	"github.com/bytebuddy/companion/internal/config"
	"github.com/bytebuddy/companion/internal/genai"
	"github.com/bytebuddy/companion/internal/httpapi/middleware"
	"github.com/bytebuddy/companion/internal/logbook"
	"github.com/bytebuddy/companion/internal/profile"
	"github.com/bytebuddy/companion/internal/store/redisstore"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type Handler struct {
	DB         *gorm.DB
	Cfg        config.Config
	Accounts   *account.Service
	Profiles   *profile.Store
	ChatSvc    *chat.Service
	LogSvc     *logbook.Service
	AdvisorSvc *advisor.Service
	Provider   genai.Provider
	Memory     *redisstore.Store
}

func NewHandler(db *gorm.DB, cfg config.Config, memory *redisstore.Store, publisher chat.TitleJobPublisher) *Handler {
	reg := genai.NewRegistry()
	reg.Register("gemini", func(ctx context.Context) (genai.Provider, error) {
		_ = ctx
		return genai.NewGeminiProvider(cfg.GeminiBaseURL, cfg.GeminiAPIKey, cfg.GeminiModel), nil
	})

	provider, err := reg.Get(context.Background(), strings.ToLower(cfg.AIProvider))
	if err != nil {
		panic(fmt.Sprintf("unsupported AI_PROVIDER=%q", cfg.AIProvider))
	}

	profiles := profile.NewStore(db)
	chatSvc := chat.NewService(chat.NewRepo(db), provider, profiles, publisher, cfg.ChatContextWindowSize)

	return &Handler{
		DB:         db,
		Cfg:        cfg,
		Accounts:   account.NewService(db),
		Profiles:   profiles,
		ChatSvc:    chatSvc,
		LogSvc:     logbook.NewService(logbook.NewRepo(db), provider),
		AdvisorSvc: advisor.NewService(profiles, provider),
		Provider:   provider,
		Memory:     memory,
	}
}

func (h *Handler) Ping(c *gin.Context) {
	c.JSON(200, gin.H{"message": "pong"})
}

func userIDFromContext(c *gin.Context) (uint64, bool) {
	v, ok := c.Get(middleware.UserIDKey)
	if !ok {
		return 0, false
	}
	id, ok := v.(uint64)
	return id, ok
}
