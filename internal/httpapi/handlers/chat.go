package handlers

import (
	"errors"
	"net/http"

	"github.com/bytebuddy/companion/internal/chat"
	"github.com/bytebuddy/companion/internal/common"
	"github.com/gin-gonic/gin"
)

func (h *Handler) CreateConversation(c *gin.Context) {
	uid, ok := userIDFromContext(c)
	if !ok {
		common.Fail(c, http.StatusUnauthorized, 40101, "unauthorized")
		return
	}

	conv, err := h.ChatSvc.CreateConversation(c.Request.Context(), uid)
	if err != nil {
		common.Fail(c, http.StatusInternalServerError, 50001, "failed to create conversation")
		return
	}
	common.OK(c, conv)
}

func (h *Handler) ListConversations(c *gin.Context) {
	uid, ok := userIDFromContext(c)
	if !ok {
		common.Fail(c, http.StatusUnauthorized, 40101, "unauthorized")
		return
	}

	convs, err := h.ChatSvc.ListConversations(c.Request.Context(), uid)
	if err != nil {
		common.Fail(c, http.StatusInternalServerError, 50002, "failed to list conversations")
		return
	}
	common.OK(c, gin.H{"conversations": convs})
}

type renameReq struct {
	Title string `json:"title" binding:"required"`
}

func (h *Handler) RenameConversation(c *gin.Context) {
	uid, ok := userIDFromContext(c)
	if !ok {
		common.Fail(c, http.StatusUnauthorized, 40101, "unauthorized")
		return
	}

	var req renameReq
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Fail(c, http.StatusBadRequest, 10001, "title required")
		return
	}

	// unknown ids rename nothing and still succeed
	if err := h.ChatSvc.Rename(c.Request.Context(), uid, c.Param("id"), req.Title); err != nil {
		common.Fail(c, http.StatusInternalServerError, 50003, "failed to rename conversation")
		return
	}
	common.OK(c, nil)
}

func (h *Handler) DeleteConversation(c *gin.Context) {
	uid, ok := userIDFromContext(c)
	if !ok {
		common.Fail(c, http.StatusUnauthorized, 40101, "unauthorized")
		return
	}

	if err := h.ChatSvc.Remove(c.Request.Context(), uid, c.Param("id")); err != nil {
		if errors.Is(err, chat.ErrUnknownConversation) {
			common.Fail(c, http.StatusNotFound, 40004, "conversation not found")
			return
		}
		common.Fail(c, http.StatusInternalServerError, 50004, "failed to delete conversation")
		return
	}
	common.OK(c, nil)
}

func (h *Handler) ListConversationMessages(c *gin.Context) {
	uid, ok := userIDFromContext(c)
	if !ok {
		common.Fail(c, http.StatusUnauthorized, 40101, "unauthorized")
		return
	}

	msgs, err := h.ChatSvc.ListMessages(c.Request.Context(), uid, c.Param("id"))
	if err != nil {
		if errors.Is(err, chat.ErrUnknownConversation) {
			common.Fail(c, http.StatusNotFound, 40004, "conversation not found")
			return
		}
		common.Fail(c, http.StatusInternalServerError, 50005, "failed to list messages")
		return
	}
	common.OK(c, gin.H{"messages": msgs})
}

type sendMessageReq struct {
	ConversationID string `json:"conversation_id"` // empty starts a new conversation
	Message        string `json:"message" binding:"required"`
}

func (h *Handler) SendMessage(c *gin.Context) {
	uid, ok := userIDFromContext(c)
	if !ok {
		common.Fail(c, http.StatusUnauthorized, 40101, "unauthorized")
		return
	}

	var req sendMessageReq
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Fail(c, http.StatusBadRequest, 10001, "invalid json")
		return
	}

	res, err := h.ChatSvc.SendMessage(c.Request.Context(), uid, req.ConversationID, req.Message)
	if err != nil {
		switch {
		case errors.Is(err, chat.ErrUnknownConversation):
			common.Fail(c, http.StatusNotFound, 40004, "conversation not found")
		case errors.Is(err, chat.ErrEmptyMessage):
			common.Fail(c, http.StatusBadRequest, 10002, "message must not be empty")
		case errors.Is(err, chat.ErrSendInFlight):
			common.Fail(c, http.StatusConflict, 40901, "a message is already being processed for this conversation")
		default:
			common.Fail(c, http.StatusInternalServerError, 50006, "failed to send message")
		}
		return
	}

	common.OK(c, res)
}
