package auth

import (
	"errors"
	"regexp"
	"time"

	"github.com/famhub/famhub/internal/config"
	"github.com/famhub/famhub/internal/database"
	"github.com/famhub/famhub/internal/database/users"
	"github.com/famhub/famhub/internal/entities"
)

// Validation patterns
var (
	usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_-]{3,64}$`)
	emailPattern    = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
)

// ErrInvalidCredentials covers both an unknown email and a wrong password
// so a login response never reveals which one it was.
var ErrInvalidCredentials = errors.New("invalid email or password")

var ErrAccountDisabled = errors.New("account is disabled")

// Service handles registration, authentication and credential lifecycle.
type Service struct {
	users  *users.Repository
	config config.Auth
}

// NewService creates a new authentication service.
func NewService(usersRepo *users.Repository, cfg config.Auth) *Service {
	return &Service{
		users:  usersRepo,
		config: cfg,
	}
}

// RegisterData carries a signup request.
type RegisterData struct {
	Email     string
	Username  string
	FirstName string
	LastName  string
	Password  string
	Role      entities.UserRole
}

// Register validates and creates a new account. The account starts
// unverified with a fresh email verification token set.
func (s *Service) Register(data RegisterData) (*entities.User, error) {
	if data.Email == "" {
		return nil, &database.ValidationError{Field: "email", Message: "email is required"}
	}
	if len(data.Email) > 254 || !emailPattern.MatchString(data.Email) {
		return nil, &database.ValidationError{Field: "email", Message: "invalid email format"}
	}
	if !usernamePattern.MatchString(data.Username) {
		return nil, &database.ValidationError{
			Field:   "username",
			Message: "username must be 3-64 characters, alphanumeric and underscore/hyphen only",
		}
	}
	if data.Role != "" && !entities.ValidRole(data.Role) {
		return nil, &database.ValidationError{Field: "role", Message: "unknown role"}
	}
	if err := ValidatePasswordStrength(data.Password); err != nil {
		return nil, err
	}

	hash, err := HashPassword(data.Password, s.config.BcryptCost)
	if err != nil {
		return nil, err
	}

	user, err := s.users.Create(users.CreateData{
		Email:        data.Email,
		Username:     data.Username,
		FirstName:    data.FirstName,
		LastName:     data.LastName,
		PasswordHash: hash,
		Role:         data.Role,
	})
	if err != nil {
		return nil, database.Translate(err)
	}

	if _, err := s.IssueEmailVerification(user.ID); err != nil {
		return nil, err
	}

	return user, nil
}

// Authenticate checks email and password and stamps the login time.
// Unknown email and wrong password both return ErrInvalidCredentials.
func (s *Service) Authenticate(email, password string) (*entities.User, error) {
	user, err := s.users.GetByEmail(email)
	if err != nil {
		if database.IsNotFound(err) {
			return nil, ErrInvalidCredentials
		}
		return nil, database.Translate(err)
	}

	if err := CheckPassword(password, user.PasswordHash); err != nil {
		return nil, ErrInvalidCredentials
	}

	if !user.IsActive {
		return nil, ErrAccountDisabled
	}

	if err := s.users.UpdateLastLogin(user.ID); err != nil {
		return nil, database.Translate(err)
	}

	return user, nil
}

// IssueBearerToken signs an API token for the user.
func (s *Service) IssueBearerToken(user *entities.User) (string, error) {
	return IssueToken(user, s.config.SessionSecret, s.config.TokenExpiry)
}

// ValidateBearerToken parses an API token and loads its user.
func (s *Service) ValidateBearerToken(token string) (*entities.User, error) {
	claims, err := ParseToken(token, s.config.SessionSecret)
	if err != nil {
		return nil, err
	}

	user, err := s.users.GetByID(claims.UserID)
	if err != nil {
		return nil, ErrInvalidToken
	}
	if !user.IsActive {
		return nil, ErrAccountDisabled
	}
	return user, nil
}

// RequestPasswordReset issues a reset token for the account. The token is
// returned to the caller for delivery; an unknown email returns a
// not-found error the handler is expected to mask.
func (s *Service) RequestPasswordReset(email string) (string, error) {
	user, err := s.users.GetByEmail(email)
	if err != nil {
		return "", database.Translate(err)
	}

	token, err := GenerateSecureToken()
	if err != nil {
		return "", err
	}

	expires := time.Now().Add(s.config.ResetTokenTTL)
	if err := s.users.SetPasswordResetToken(user.ID, token, expires); err != nil {
		return "", database.Translate(err)
	}
	return token, nil
}

// ResetPassword sets a new password via a valid, unexpired reset token.
func (s *Service) ResetPassword(token, newPassword string) error {
	if err := ValidatePasswordStrength(newPassword); err != nil {
		return err
	}

	user, err := s.users.GetByPasswordResetToken(token)
	if err != nil {
		if database.IsNotFound(err) {
			return ErrInvalidToken
		}
		return database.Translate(err)
	}

	hash, err := HashPassword(newPassword, s.config.BcryptCost)
	if err != nil {
		return err
	}

	if err := s.users.UpdatePassword(user.ID, hash); err != nil {
		return database.Translate(err)
	}
	return nil
}

// ChangePassword sets a new password after verifying the current one.
func (s *Service) ChangePassword(userID uint, current, newPassword string) error {
	user, err := s.users.GetByID(userID)
	if err != nil {
		return database.Translate(err)
	}

	if err := CheckPassword(current, user.PasswordHash); err != nil {
		return ErrInvalidCredentials
	}
	if err := ValidatePasswordStrength(newPassword); err != nil {
		return err
	}

	hash, err := HashPassword(newPassword, s.config.BcryptCost)
	if err != nil {
		return err
	}

	if err := s.users.UpdatePassword(userID, hash); err != nil {
		return database.Translate(err)
	}
	return nil
}

// IssueEmailVerification creates a fresh verification token for the user
// and returns it for delivery.
func (s *Service) IssueEmailVerification(userID uint) (string, error) {
	token, err := GenerateSecureToken()
	if err != nil {
		return "", err
	}

	expires := time.Now().Add(s.config.VerificationTokenTTL)
	if err := s.users.SetEmailVerificationToken(userID, token, expires); err != nil {
		return "", database.Translate(err)
	}
	return token, nil
}

// VerifyEmail confirms an account via a valid, unexpired verification
// token.
func (s *Service) VerifyEmail(token string) (*entities.User, error) {
	user, err := s.users.GetByEmailVerificationToken(token)
	if err != nil {
		if database.IsNotFound(err) {
			return nil, ErrInvalidToken
		}
		return nil, database.Translate(err)
	}

	if err := s.users.VerifyEmail(user.ID); err != nil {
		return nil, database.Translate(err)
	}

	return s.users.GetByID(user.ID)
}

// GetUserByID loads a user for the middleware.
func (s *Service) GetUserByID(id uint) (*entities.User, error) {
	return s.users.GetByID(id)
}
