package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"finassist/internal/models"

	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestUser creates a user with a unique username and email.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	n := nextID()
	user := &models.User{
		Username: fmt.Sprintf("user_%d", n),
		Email:    fmt.Sprintf("user%d@test.com", n),
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestTransaction inserts a transaction directly, bypassing validation.
func CreateTestTransaction(t *testing.T, db *gorm.DB, userID string, kind models.TransactionKind, amount float64, currency string, occurredAt time.Time) *models.Transaction {
	t.Helper()
	return CreateTestTransactionInCategory(t, db, userID, kind, amount, currency, "", occurredAt)
}

// CreateTestTransactionInCategory is CreateTestTransaction with a category.
func CreateTestTransactionInCategory(t *testing.T, db *gorm.DB, userID string, kind models.TransactionKind, amount float64, currency, category string, occurredAt time.Time) *models.Transaction {
	t.Helper()

	tx := &models.Transaction{
		UserID:      userID,
		Amount:      amount,
		Currency:    currency,
		Category:    category,
		Kind:        kind,
		Description: fmt.Sprintf("Test transaction %d", nextID()),
		OccurredAt:  occurredAt,
	}
	if err := db.Create(tx).Error; err != nil {
		t.Fatalf("failed to create test transaction: %v", err)
	}
	return tx
}

// CreateTestChatEntry appends a chat history row at the given time.
func CreateTestChatEntry(t *testing.T, db *gorm.DB, userID, message, response string, at time.Time) *models.ChatHistory {
	t.Helper()

	entry := &models.ChatHistory{UserID: userID, Message: message, Response: response, Timestamp: at}
	if err := db.Create(entry).Error; err != nil {
		t.Fatalf("failed to create test chat entry: %v", err)
	}
	return entry
}
