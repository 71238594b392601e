package services

import (
	"time"

	"gorm.io/gorm"

	apperrors "finassist/internal/errors"
	"finassist/internal/logger"
	"finassist/internal/models"
)

// chatHistoryService persists assistant exchanges.
type chatHistoryService struct {
	db  *gorm.DB
	now func() time.Time
}

// NewChatHistoryService creates a new ChatHistoryServicer.
func NewChatHistoryService(db *gorm.DB) ChatHistoryServicer {
	return &chatHistoryService{db: db, now: time.Now}
}

// AppendChatEntry records one exchange. Failures are logged and dropped so a
// computed reply always reaches the caller.
func (s *chatHistoryService) AppendChatEntry(userID, message, response string) {
	entry := &models.ChatHistory{
		UserID:    userID,
		Message:   message,
		Response:  response,
		Timestamp: s.now(),
	}
	if err := s.db.Create(entry).Error; err != nil {
		logger.Get().Errorw("failed to save chat history",
			"user_id", userID,
			"error", err,
		)
	}
}

// RecentChatEntries returns up to limit entries, newest first.
func (s *chatHistoryService) RecentChatEntries(userID string, limit int) ([]models.ChatHistory, error) {
	if limit <= 0 {
		return []models.ChatHistory{}, nil
	}
	var entries []models.ChatHistory
	if err := s.db.Where("user_id = ?", userID).
		Order("timestamp DESC, id DESC").
		Limit(limit).
		Find(&entries).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return entries, nil
}
