package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/carelink/internal/audit"
	"github.com/BruksfildServices01/carelink/internal/httperr"
	"github.com/BruksfildServices01/carelink/internal/models"
)

type AuthHandler struct {
	db     *gorm.DB
	secret string
	ttl    time.Duration
	audit  *audit.Dispatcher
}

func NewAuthHandler(db *gorm.DB, secret string, ttl time.Duration, audit *audit.Dispatcher) *AuthHandler {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &AuthHandler{db: db, secret: secret, ttl: ttl, audit: audit}
}

// --------- Requests ---------

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// --------- Handlers ---------

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	var user models.AdminUser
	if err := h.db.WithContext(c.Request.Context()).
		Where("email = ?", email).
		First(&user).Error; err != nil {

		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.Unauthorized(c, "invalid_credentials", "Invalid email or password.")
			return
		}
		httperr.Internal(c, "internal_error", "Could not sign in.")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		httperr.Unauthorized(c, "invalid_credentials", "Invalid email or password.")
		return
	}

	token, expires, err := h.generateToken(&user)
	if err != nil {
		httperr.Internal(c, "failed_to_generate_token", "Could not sign in.")
		return
	}

	h.audit.Dispatch(audit.Event{
		ActorID:  audit.Ptr(user.ID),
		Action:   "admin_login",
		Entity:   "admin_user",
		EntityID: audit.Ptr(user.ID),
	})

	c.JSON(http.StatusOK, gin.H{
		"user": gin.H{
			"id":    user.ID,
			"name":  user.Name,
			"email": user.Email,
			"role":  user.Role,
		},
		"token":      token,
		"expires_at": expires,
	})
}

// --------- JWT ---------

func (h *AuthHandler) generateToken(user *models.AdminUser) (string, time.Time, error) {
	now := time.Now()
	expires := now.Add(h.ttl)

	claims := jwt.MapClaims{
		"sub":  user.ID,
		"role": user.Role,
		"exp":  expires.Unix(),
		"iat":  now.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(h.secret))
	return signed, expires, err
}

// HashPassword is shared with the create-admin command.
func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}
