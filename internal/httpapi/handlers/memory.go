package handlers

import (
	"log"
	"net/http"

	"github.com/bytebuddy/companion/internal/genai"
	"github.com/bytebuddy/companion/internal/store/redisstore"
	"github.com/gin-gonic/gin"
)

// legacyChatReq matches the pre-existing remote-memory chat contract. This
// endpoint keeps its own response shape ({reply} / {error}) instead of the
// standard envelope.
type legacyChatReq struct {
	UserID         string `json:"userId"`
	ConversationID string `json:"conversationId"`
	Message        string `json:"message"`
}

const legacyContextWindow = 10

// LegacyChat persists the exchange to the Redis memory store, forwards the
// last few turns to the generation endpoint, and returns the reply.
func (h *Handler) LegacyChat(c *gin.Context) {
	if h.Memory == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "memory store not configured"})
		return
	}

	var req legacyChatReq
	if err := c.ShouldBindJSON(&req); err != nil || req.UserID == "" || req.ConversationID == "" || req.Message == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required fields"})
		return
	}

	ctx := c.Request.Context()

	if err := h.Memory.AppendMemory(ctx, req.UserID, req.ConversationID, redisstore.MemoryEntry{
		Role:    "user",
		Content: req.Message,
	}); err != nil {
		log.Printf("legacy chat: append user memory: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	past, err := h.Memory.RecentMemories(ctx, req.UserID, req.ConversationID, legacyContextWindow)
	if err != nil {
		log.Printf("legacy chat: load memories: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	history := make([]genai.Message, 0, len(past))
	for _, e := range past {
		history = append(history, genai.Message{Role: e.Role, Content: e.Content})
	}

	reply, err := h.Provider.ChatReply(ctx, history, nil)
	if err != nil {
		log.Printf("legacy chat: generation: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if err := h.Memory.AppendMemory(ctx, req.UserID, req.ConversationID, redisstore.MemoryEntry{
		Role:    "assistant",
		Content: reply.Text,
	}); err != nil {
		log.Printf("legacy chat: append assistant memory: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"reply": reply.Text})
}
