package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vishalbagda/MidWiseAi/internal/service"
)

type chatMessageReq struct {
	SessionID string `json:"sessionId"`
	Message   string `json:"message"`
}

var (
	opChatStart   = op{"Session creation failed", "Failed to start chat session"}
	opChatSend    = op{"Message failed", "Failed to process message"}
	opChatHistory = op{"History retrieval failed", "Failed to retrieve chat history"}
	opChatEnd     = op{"Session termination failed", "Failed to end chat session"}
)

// StartChat godoc
// @Summary Start a chat session
// @Tags chatbot
// @Produce json
// @Success 200 {object} envelope{data=service.ChatStart}
// @Router /api/chatbot/start [post]
func (h *Handler) StartChat(c *gin.Context) {
	res, err := h.Chat.Start(c.Request.Context())
	if err != nil {
		h.respondError(c, err, opChatStart)
		return
	}
	ok(c, http.StatusOK, res)
}

// SendChatMessage godoc
// @Summary Send a message to the assistant
// @Tags chatbot
// @Accept json
// @Produce json
// @Param payload body chatMessageReq true "message"
// @Success 200 {object} envelope{data=service.ChatReply}
// @Failure 400 {object} errorBody
// @Failure 404 {object} errorBody
// @Router /api/chatbot/message [post]
func (h *Handler) SendChatMessage(c *gin.Context) {
	var in chatMessageReq
	if err := c.ShouldBindJSON(&in); err != nil {
		badJSON(c)
		return
	}
	res, err := h.Chat.Send(c.Request.Context(), in.SessionID, in.Message)
	if errors.Is(err, service.ErrSessionNotFound) {
		fail(c, http.StatusNotFound, "Session not found", "Chat session does not exist or has expired")
		return
	}
	if err != nil {
		h.respondError(c, err, opChatSend)
		return
	}
	ok(c, http.StatusOK, res)
}

// ChatHistory godoc
// @Summary Chat transcript
// @Tags chatbot
// @Produce json
// @Param sessionId path string true "session id"
// @Success 200 {object} envelope{data=service.ChatHistory}
// @Failure 404 {object} errorBody
// @Router /api/chatbot/history/{sessionId} [get]
func (h *Handler) ChatHistory(c *gin.Context) {
	res, err := h.Chat.History(c.Request.Context(), c.Param("sessionId"))
	if err != nil {
		h.respondError(c, err, opChatHistory)
		return
	}
	ok(c, http.StatusOK, res)
}

// EndChat godoc
// @Summary End a chat session
// @Tags chatbot
// @Produce json
// @Param sessionId path string true "session id"
// @Success 200 {object} envelope{data=service.ChatEnd}
// @Failure 404 {object} errorBody
// @Router /api/chatbot/session/{sessionId} [delete]
func (h *Handler) EndChat(c *gin.Context) {
	res, err := h.Chat.End(c.Request.Context(), c.Param("sessionId"))
	if err != nil {
		h.respondError(c, err, opChatEnd)
		return
	}
	ok(c, http.StatusOK, res)
}

// QuickReplies godoc
// @Summary Canned conversation starters
// @Tags chatbot
// @Produce json
// @Success 200 {object} envelope{data=service.QuickReplies}
// @Router /api/chatbot/quick-replies [get]
func (h *Handler) QuickReplies(c *gin.Context) {
	ok(c, http.StatusOK, h.Chat.QuickReplies())
}
