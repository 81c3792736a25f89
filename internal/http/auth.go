package http

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/openshelf/openshelf/internal/auth"
)

// AuthController handles registration, login, logout and the
// current-user endpoint. Login and registration hand back an API token;
// browser clients additionally get a session cookie when sessions are
// configured.
type AuthController struct {
	service  *auth.Service
	sessions *auth.SessionManager
	limiter  *auth.RateLimiter
}

func NewAuthController(service *auth.Service, sessions *auth.SessionManager, limiter *auth.RateLimiter) *AuthController {
	return &AuthController{service: service, sessions: sessions, limiter: limiter}
}

type registerRequest struct {
	Name     string `json:"name" binding:"required,max=255"`
	Email    string `json:"email" binding:"required,email,max=255"`
	Password string `json:"password" binding:"required,min=8"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type authResponse struct {
	User  any    `json:"user"`
	Token string `json:"token"`
}

// Register creates a user account and returns it with a fresh API token
// POST /register
func (ac *AuthController) Register(c *gin.Context) {
	var req registerRequest
	if !bindJSON(c, &req) {
		return
	}

	taken, err := ac.service.EmailTaken(req.Email)
	if err != nil {
		respondInternalError(c, err, "check user email")
		return
	}
	if taken {
		respondValidationErrors(c, map[string][]string{
			"email": {"The email has already been taken."},
		})
		return
	}

	user, err := ac.service.CreateUser(req.Name, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrUserExists) {
			respondValidationErrors(c, map[string][]string{
				"email": {"The email has already been taken."},
			})
			return
		}
		respondInternalError(c, err, "create user")
		return
	}

	token, err := ac.service.GenerateToken(user.ID)
	if err != nil {
		respondInternalError(c, err, "generate token")
		return
	}

	if ac.sessions != nil {
		if err := ac.sessions.CreateSession(c.Request, user); err != nil {
			respondInternalError(c, err, "create session")
			return
		}
	}

	c.JSON(http.StatusCreated, authResponse{User: user, Token: token})
}

// Login verifies credentials and returns the user with a fresh API token.
// Attempts are rate limited per client IP and email.
// POST /login
func (ac *AuthController) Login(c *gin.Context) {
	var req loginRequest
	if !bindJSON(c, &req) {
		return
	}

	ip := c.ClientIP()

	if ac.limiter != nil {
		if allowed, retryAfter := ac.limiter.Allow(ip, req.Email); !allowed {
			c.Header("Retry-After", fmt.Sprintf("%d", int(retryAfter.Seconds())))
			c.JSON(http.StatusTooManyRequests, MessageResponse{
				Message: "Too many login attempts. Please try again later.",
			})
			return
		}
	}

	user, err := ac.service.Authenticate(req.Email, req.Password)
	if err != nil {
		if ac.limiter != nil {
			ac.limiter.RecordFailure(ip, req.Email)
		}
		c.JSON(http.StatusUnprocessableEntity, ValidationErrorResponse{
			Errors: map[string][]string{
				"email": {"These credentials do not match our records."},
			},
		})
		return
	}

	if ac.limiter != nil {
		ac.limiter.RecordSuccess(ip, req.Email)
	}

	token, err := ac.service.GenerateToken(user.ID)
	if err != nil {
		respondInternalError(c, err, "generate token")
		return
	}

	if ac.sessions != nil {
		if err := ac.sessions.CreateSession(c.Request, user); err != nil {
			respondInternalError(c, err, "create session")
			return
		}
	}

	c.JSON(http.StatusOK, authResponse{User: user, Token: token})
}

// Logout revokes the caller's API token and destroys any session
// POST /logout
func (ac *AuthController) Logout(c *gin.Context) {
	userID := GetUserID(c)

	if err := ac.service.RevokeToken(userID); err != nil {
		respondInternalError(c, err, "revoke token")
		return
	}

	if ac.sessions != nil {
		if err := ac.sessions.DestroySession(c.Request); err != nil {
			respondInternalError(c, err, "destroy session")
			return
		}
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "Logged out"})
}

// GetCurrentUser returns the authenticated principal
// GET /user
func (ac *AuthController) GetCurrentUser(c *gin.Context) {
	user, err := ac.service.GetUserByID(GetUserID(c))
	if err != nil {
		if errors.Is(err, auth.ErrUserNotFound) {
			respondNotFound(c, "User")
			return
		}
		respondInternalError(c, err, "get current user")
		return
	}

	c.JSON(http.StatusOK, user)
}
