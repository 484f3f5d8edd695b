package main

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"
)

// dummyHash is a pre-computed bcrypt hash used when a login username isn't found.
// Running bcrypt against it (instead of returning early) keeps response time
// constant, preventing timing-based username enumeration.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("dummy"), bcrypt.DefaultCost)

// login verifies a trainer's username/password and returns their auth token.
// POST /api/login (public).
func (h *Handler) login(c *gin.Context) {
	var body struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "username and password are required")
		return
	}

	t, lookupErr := queryOne[trainer](h, c,
		"SELECT * FROM trainers WHERE username = @username",
		pgx.NamedArgs{"username": body.Username})

	// Always run bcrypt so response time does not reveal whether the
	// username exists.
	hashToCheck := string(dummyHash)
	if lookupErr == nil {
		hashToCheck = t.Password
	}
	compareErr := bcrypt.CompareHashAndPassword([]byte(hashToCheck), []byte(body.Password))

	if lookupErr != nil || compareErr != nil {
		h.logger("login").WithField("username", body.Username).Info("rejected credentials")
		apiError(c, http.StatusUnauthorized, "invalid credentials")
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": t.AuthToken, "trainer_id": t.ID})
}

// authMiddleware validates the Bearer token and sets trainer_id on the context.
func (h *Handler) authMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			apiError(c, http.StatusUnauthorized, "missing or invalid authorization header")
			c.Abort()
			return
		}
		token := strings.TrimPrefix(header, "Bearer ")

		var trainerID int
		err := h.db.QueryRow(c, "SELECT id FROM trainers WHERE auth_token = $1", token).Scan(&trainerID)
		if err != nil {
			apiError(c, http.StatusUnauthorized, "invalid token")
			c.Abort()
			return
		}

		c.Set("trainer_id", trainerID)
		c.Next()
	}
}
