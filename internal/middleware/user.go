package middleware

import "github.com/gin-gonic/gin"

// UserIDKey is the context key handlers read the acting user's id from.
const UserIDKey = "userID"

// SingleUser attributes every request to the one configured ledger owner.
func SingleUser(userID string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(UserIDKey, userID)
		c.Next()
	}
}
