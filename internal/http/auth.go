package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/famhub/famhub/internal/auth"
	"github.com/famhub/famhub/internal/database"
	"github.com/famhub/famhub/internal/entities"
)

// AuthController serves signup, login and credential lifecycle endpoints.
type AuthController struct {
	service  *auth.Service
	sessions *auth.SessionManager
}

func NewAuthController(service *auth.Service, sessions *auth.SessionManager) *AuthController {
	return &AuthController{service: service, sessions: sessions}
}

type registerRequest struct {
	Email     string `json:"email" binding:"required"`
	Username  string `json:"username" binding:"required"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Password  string `json:"password" binding:"required"`
	Role      string `json:"role"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Register creates a new account and opens a session for it.
// POST /api/auth/register (also mounted at /api/auth/signup)
func (ac *AuthController) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	user, err := ac.service.Register(auth.RegisterData{
		Email:     req.Email,
		Username:  req.Username,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Password:  req.Password,
		Role:      entities.UserRole(req.Role),
	})
	if err != nil {
		respondStoreError(c, err, "register")
		return
	}

	if ac.sessions != nil {
		if err := ac.sessions.CreateSession(c.Request, user); err != nil {
			respondInternalError(c, err, "create session")
			return
		}
	}

	respondCreated(c, gin.H{"user": user})
}

// Login authenticates with email and password and opens a session.
// POST /api/auth/login
func (ac *AuthController) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	user, err := ac.service.Authenticate(req.Email, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			respondError(c, http.StatusUnauthorized, "invalid email or password")
			return
		}
		if errors.Is(err, auth.ErrAccountDisabled) {
			respondError(c, http.StatusForbidden, "account is disabled")
			return
		}
		respondStoreError(c, err, "login")
		return
	}

	if ac.sessions != nil {
		if err := ac.sessions.CreateSession(c.Request, user); err != nil {
			respondInternalError(c, err, "create session")
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"user": user})
}

// Logout destroys the current session.
// POST /api/auth/logout
func (ac *AuthController) Logout(c *gin.Context) {
	if ac.sessions != nil {
		if err := ac.sessions.DestroySession(c.Request); err != nil {
			respondInternalError(c, err, "destroy session")
			return
		}
	}
	respondSuccess(c, "logged out")
}

// Session returns the claims of the current request.
// GET /api/auth/session
func (ac *AuthController) Session(c *gin.Context) {
	userID := auth.GetUserID(c)
	if userID == 0 {
		respondError(c, http.StatusUnauthorized, "authentication required")
		return
	}

	response := gin.H{
		"user_id": userID,
		"role":    auth.GetUserRole(c),
	}
	if familyID, ok := auth.GetFamilyID(c); ok {
		response["family_id"] = familyID
	}

	c.JSON(http.StatusOK, response)
}

// IssueToken signs an API bearer token for the authenticated user.
// POST /api/auth/token
func (ac *AuthController) IssueToken(c *gin.Context) {
	user, err := ac.service.GetUserByID(auth.GetUserID(c))
	if err != nil {
		respondStoreError(c, err, "issue token")
		return
	}

	token, err := ac.service.IssueBearerToken(user)
	if err != nil {
		respondInternalError(c, err, "issue token")
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token})
}

type passwordResetRequest struct {
	Email string `json:"email" binding:"required"`
}

type passwordResetConfirm struct {
	Token    string `json:"token" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// RequestPasswordReset issues a reset token. The response is the same for
// known and unknown emails so the endpoint cannot be used to probe
// accounts.
// POST /api/auth/password-reset
func (ac *AuthController) RequestPasswordReset(c *gin.Context) {
	var req passwordResetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	if _, err := ac.service.RequestPasswordReset(req.Email); err != nil && !database.IsNotFound(err) {
		respondInternalError(c, err, "password reset")
		return
	}

	respondSuccess(c, "if the account exists, a reset link has been sent")
}

// ConfirmPasswordReset sets a new password via a reset token.
// PUT /api/auth/password-reset
func (ac *AuthController) ConfirmPasswordReset(c *gin.Context) {
	var req passwordResetConfirm
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	if err := ac.service.ResetPassword(req.Token, req.Password); err != nil {
		if errors.Is(err, auth.ErrInvalidToken) {
			respondError(c, http.StatusBadRequest, "invalid or expired token")
			return
		}
		respondStoreError(c, err, "reset password")
		return
	}

	respondSuccess(c, "password updated")
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required"`
}

// ChangePassword updates the password of the authenticated user.
// POST /api/auth/password
func (ac *AuthController) ChangePassword(c *gin.Context) {
	var req changePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	err := ac.service.ChangePassword(auth.GetUserID(c), req.CurrentPassword, req.NewPassword)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			respondError(c, http.StatusUnauthorized, "current password is incorrect")
			return
		}
		respondStoreError(c, err, "change password")
		return
	}

	respondSuccess(c, "password updated")
}

type verifyEmailRequest struct {
	Token string `json:"token" binding:"required"`
}

// VerifyEmail confirms an account via its verification token.
// POST /api/auth/verify-email
func (ac *AuthController) VerifyEmail(c *gin.Context) {
	var req verifyEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	user, err := ac.service.VerifyEmail(req.Token)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidToken) {
			respondError(c, http.StatusBadRequest, "invalid or expired token")
			return
		}
		respondStoreError(c, err, "verify email")
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user})
}
