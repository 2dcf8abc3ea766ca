package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/emsteam/ems-api/internal/models"
	"github.com/emsteam/ems-api/internal/repository"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrSignupFieldsRequired   = newError(ErrValidation, "email and password are required")
	ErrLoginFieldsRequired    = newError(ErrValidation, "email and password are required")
	ErrFederatedAccount       = newError(ErrValidation, "use Google login for this account")
	ErrFederatedTokenRequired = newError(ErrValidation, "google token missing")
	ErrEmailTaken             = newError(ErrConflict, "user already exists")
	ErrInvalidCredentials     = newError(ErrUnauthenticated, "invalid email or password")
	ErrFederatedLoginFailed   = newError(ErrUnauthenticated, "google login failed")
	ErrFederatedLoginDisabled = newError(ErrUnavailable, "google login is not configured")
	ErrUserNotFound           = newError(ErrNotFound, "user not found")
)

// AuthService handles authentication related business logic.
type AuthService struct {
	userRepo repository.UserRepository
	tokens   *TokenService
	identity IdentityVerifier
}

// NewAuthService creates a new AuthService. identity may be nil, which
// disables federated login.
func NewAuthService(userRepo repository.UserRepository, tokens *TokenService, identity IdentityVerifier) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		tokens:   tokens,
		identity: identity,
	}
}

// SignupInput represents the required information to create a new user.
type SignupInput struct {
	Username string
	Email    string
	Password string
}

// Signup creates a new employee account. The role is never taken from input
// and the username defaults to the local part of the email.
func (s *AuthService) Signup(input SignupInput) (*models.User, error) {
	email := models.NormalizeEmail(input.Email)
	if email == "" || input.Password == "" {
		return nil, ErrSignupFieldsRequired
	}
	username := strings.TrimSpace(input.Username)
	if username == "" {
		username = emailLocalPart(email)
	}

	if _, err := s.userRepo.FindByEmail(email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	hash := string(hashedPassword)

	user := &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: &hash,
		Role:         models.RoleEmployee,
	}

	if err := s.userRepo.Create(user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// LoginInput holds the credentials for authentication.
type LoginInput struct {
	Email    string
	Password string
}

// LoginResult is an authenticated user with a freshly issued token.
type LoginResult struct {
	User  *models.User
	Token string
}

// Login verifies credentials and issues a bearer token.
func (s *AuthService) Login(input LoginInput) (*LoginResult, error) {
	email := models.NormalizeEmail(input.Email)
	if email == "" || input.Password == "" {
		return nil, ErrLoginFieldsRequired
	}

	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if !user.HasPassword() {
		return nil, ErrFederatedAccount
	}

	if err := bcrypt.CompareHashAndPassword([]byte(*user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return s.issue(user)
}

// FederatedLogin verifies an external ID token and finds or creates the
// matching employee account.
func (s *AuthService) FederatedLogin(ctx context.Context, idToken string) (*LoginResult, error) {
	if s.identity == nil {
		return nil, ErrFederatedLoginDisabled
	}
	if strings.TrimSpace(idToken) == "" {
		return nil, ErrFederatedTokenRequired
	}

	identity, err := s.identity.Verify(ctx, idToken)
	if err != nil {
		return nil, errors.Join(ErrFederatedLoginFailed, err)
	}

	email := models.NormalizeEmail(identity.Email)
	user, err := s.userRepo.FindByEmail(email)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		user = &models.User{
			Username: emailLocalPart(email),
			Email:    email,
			Role:     models.RoleEmployee,
		}
		err = s.userRepo.Create(user)
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// Lost a race with a concurrent first login.
			user, err = s.userRepo.FindByEmail(email)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to resolve federated user: %w", err)
	}

	return s.issue(user)
}

// GetUser retrieves a user by ID.
func (s *AuthService) GetUser(id uint64) (*models.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	return user, nil
}

func emailLocalPart(email string) string {
	return strings.SplitN(email, "@", 2)[0]
}

func (s *AuthService) issue(user *models.User) (*LoginResult, error) {
	token, err := s.tokens.Issue(user)
	if err != nil {
		return nil, err
	}
	return &LoginResult{User: user, Token: token}, nil
}
