package auth

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/openshelf/lendhub/internal/config"
)

// AuthAuditor records authentication events. Satisfied by the audit service.
type AuthAuditor interface {
	LogAuth(userID uint, action, ipAddr string, success bool)
}

// Controller handles the authentication JSON endpoints.
type Controller struct {
	service        *Service
	sessionManager *SessionManager
	rateLimiter    *RateLimiter
	auditor        AuthAuditor
}

// NewController creates a new authentication controller.
func NewController(service *Service, sessionManager *SessionManager, cfg config.Auth) *Controller {
	rateLimiter := NewRateLimiter(RateLimitConfig{
		MaxAttempts:     cfg.MaxLoginAttempts,
		WindowDuration:  cfg.RateLimitWindow,
		LockoutDuration: cfg.LockoutDuration,
	})

	return &Controller{
		service:        service,
		sessionManager: sessionManager,
		rateLimiter:    rateLimiter,
	}
}

// RegisterRoutes registers authentication routes on the router.
func (ac *Controller) RegisterRoutes(router gin.IRouter) {
	router.POST("/api/auth/signup", ac.Signup)
	router.POST("/api/auth/login", ac.Login)
	router.POST("/api/auth/logout", ac.Logout)
	router.GET("/api/auth/me", ac.Me)
}

// SetAuditor enables audit logging of authentication events.
func (ac *Controller) SetAuditor(auditor AuthAuditor) {
	ac.auditor = auditor
}

// logAuth records an auth event when an auditor is configured.
func (ac *Controller) logAuth(userID uint, action, ip string, success bool) {
	if ac.auditor != nil {
		ac.auditor.LogAuth(userID, action, ip, success)
	}
}

// Stop cleans up resources (rate limiter background goroutine).
func (ac *Controller) Stop() {
	if ac.rateLimiter != nil {
		ac.rateLimiter.Stop()
	}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Signup handles account registration.
// POST /api/auth/signup
func (ac *Controller) Signup(c *gin.Context) {
	var in RegisterInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	user, err := ac.service.Register(in)
	if err != nil {
		ac.logAuth(0, "signup", c.ClientIP(), false)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ac.logAuth(user.ID, "signup", c.ClientIP(), true)
	c.JSON(http.StatusCreated, gin.H{"message": "User registered successfully"})
}

// Login authenticates credentials and opens a session.
// POST /api/auth/login
func (ac *Controller) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	clientIP := c.ClientIP()

	if ac.rateLimiter != nil {
		allowed, retryAfter := ac.rateLimiter.Allow(clientIP, req.Username)
		if !allowed {
			c.Header("Retry-After", retryAfter.String())
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error": "too many login attempts, please try again later",
			})
			return
		}
	}

	user, err := ac.service.Authenticate(req.Username, req.Password)
	if err != nil {
		if ac.rateLimiter != nil {
			ac.rateLimiter.RecordFailure(clientIP, req.Username)
		}

		ac.logAuth(0, "login", clientIP, false)
		if errors.Is(err, ErrAccountLocked) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "account is locked, please try again later"})
			return
		}
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	if ac.rateLimiter != nil {
		ac.rateLimiter.RecordSuccess(clientIP, req.Username)
	}
	ac.logAuth(user.ID, "login", clientIP, true)

	if err := ac.sessionManager.CreateSession(c.Request, user); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create session"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":  "Login successful",
		"is_staff": user.IsStaff,
	})
}

// Logout destroys the current session. Idempotent: logging out without an
// active session still succeeds.
// POST /api/auth/logout
func (ac *Controller) Logout(c *gin.Context) {
	userID := ac.sessionManager.GetUserID(c.Request)
	if err := ac.sessionManager.DestroySession(c.Request); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to destroy session"})
		return
	}

	if userID != 0 {
		ac.logAuth(userID, "logout", c.ClientIP(), true)
	}
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

// Me reports the caller's staff flag.
// GET /api/auth/me
func (ac *Controller) Me(c *gin.Context) {
	if !ac.sessionManager.IsAuthenticated(c.Request) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"is_staff": ac.sessionManager.GetIsStaff(c.Request),
	})
}
