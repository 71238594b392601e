package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "finassist/internal/errors"
	"finassist/internal/services"
)

const emptyMessageReply = "Please type a message to the assistant."

// Responder answers one chat message for a user.
type Responder interface {
	Respond(ctx context.Context, userID, message string) string
}

// ChatHandler exposes the assistant and its history.
type ChatHandler struct {
	assistant    Responder
	history      services.ChatHistoryServicer
	historyLimit int
	loc          *time.Location
}

// NewChatHandler creates a new ChatHandler. History timestamps are shown in loc.
func NewChatHandler(assistant Responder, history services.ChatHistoryServicer, historyLimit int, loc *time.Location) *ChatHandler {
	if historyLimit <= 0 {
		historyLimit = 50
	}
	if loc == nil {
		loc = time.UTC
	}
	return &ChatHandler{assistant: assistant, history: history, historyLimit: historyLimit, loc: loc}
}

// ChatRequest is the body of POST /chat.
type ChatRequest struct {
	Message *string `json:"message" binding:"required"`
}

// ChatResponse is the assistant's reply.
type ChatResponse struct {
	Response string `json:"response"`
}

// ChatHistoryEntry is one past exchange.
type ChatHistoryEntry struct {
	Message   string `json:"message"`
	Response  string `json:"response"`
	Timestamp string `json:"timestamp"`
}

// ChatHistoryResponse lists past exchanges oldest first.
type ChatHistoryResponse struct {
	History []ChatHistoryEntry `json:"history"`
}

// Chat sends a message to the assistant
// @Summary     Chat with the assistant
// @Description Runs one assistant turn. The assistant may record transactions or build reports through its tools.
// @Tags        chat
// @Accept      json
// @Produce     json
// @Param       request body ChatRequest true "User message"
// @Success     200 {object} ChatResponse
// @Failure     400 {object} ErrorResponse "No message provided"
// @Router      /chat [post]
func (h *ChatHandler) Chat(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "No message provided"))
		return
	}

	message := strings.TrimSpace(*req.Message)
	if message == "" {
		c.JSON(http.StatusOK, ChatResponse{Response: emptyMessageReply})
		return
	}

	c.JSON(http.StatusOK, ChatResponse{Response: h.assistant.Respond(c.Request.Context(), userID, message)})
}

// History returns recent exchanges
// @Summary     Chat history
// @Description Most recent exchanges in chronological order
// @Tags        chat
// @Produce     json
// @Success     200 {object} ChatHistoryResponse
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /chat-history [get]
func (h *ChatHandler) History(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	entries, err := h.history.RecentChatEntries(userID, h.historyLimit)
	if err != nil {
		respondWithError(c, err)
		return
	}

	out := make([]ChatHistoryEntry, 0, len(entries))
	for i := len(entries) - 1; i >= 0; i-- {
		out = append(out, ChatHistoryEntry{
			Message:   entries[i].Message,
			Response:  entries[i].Response,
			Timestamp: entries[i].Timestamp.In(h.loc).Format("2006-01-02 15:04:05"),
		})
	}
	c.JSON(http.StatusOK, ChatHistoryResponse{History: out})
}
