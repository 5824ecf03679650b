package services

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/mangrove-registry/dto"
	"github.com/mangrove-registry/models"
	"github.com/mangrove-registry/repositories"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	// ErrInvalidCredentials is returned for any failed login
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrInvalidToken is returned when a token fails verification
	ErrInvalidToken = errors.New("invalid token")
)

// AuthService issues and verifies identity tokens. It stands in for an
// external identity provider: the rest of the system only consumes the
// user id and role carried by the token.
type AuthService struct {
	users    *repositories.UserRepository
	secret   []byte
	tokenTTL time.Duration
}

// NewAuthService creates a new auth service instance
func NewAuthService(db *gorm.DB, secret string, tokenTTL time.Duration) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &AuthService{
		users:    repositories.NewUserRepository(db),
		secret:   []byte(secret),
		tokenTTL: tokenTTL,
	}
}

// Register creates a new project owner account
func (s *AuthService) Register(ctx context.Context, req dto.RegisterRequest) (*models.User, error) {
	return s.CreateUser(ctx, req, models.RoleOwner)
}

// CreateUser creates an account with the given role
func (s *AuthService) CreateUser(ctx context.Context, req dto.RegisterRequest, role models.Role) (*models.User, error) {
	if !role.Valid() {
		return nil, &ValidationError{Field: "role", Message: "must be one of owner, verifier, admin"}
	}

	exists, err := s.users.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, &StorageError{Op: "register", Err: err}
	}
	if exists {
		return nil, &ValidationError{Field: "email", Message: "is already registered"}
	}

	if req.Username != nil && *req.Username != "" {
		taken, err := s.users.ExistsByUsername(ctx, *req.Username)
		if err != nil {
			return nil, &StorageError{Op: "register", Err: err}
		}
		if taken {
			return nil, &ValidationError{Field: "username", Message: "is already taken"}
		}
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := models.User{
		Email:    req.Email,
		Password: string(hashedPassword),
		Username: req.Username,
		Name:     req.Name,
		Role:     role,
	}
	if err := s.users.Create(ctx, &user); err != nil {
		return nil, &StorageError{Op: "register", Err: err}
	}

	return &user, nil
}

// EnsureAdmin creates the bootstrap administrator if the email is unused
func (s *AuthService) EnsureAdmin(ctx context.Context, email, password string) (bool, error) {
	if email == "" || password == "" {
		return false, nil
	}
	exists, err := s.users.ExistsByEmail(ctx, email)
	if err != nil {
		return false, &StorageError{Op: "ensure admin", Err: err}
	}
	if exists {
		return false, nil
	}
	_, err = s.CreateUser(ctx, dto.RegisterRequest{Email: email, Password: password}, models.RoleAdmin)
	return err == nil, err
}

// GetUser retrieves a user by ID
func (s *AuthService) GetUser(ctx context.Context, id string) (*models.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, translate("get user", "user", id, err)
	}
	return &user, nil
}

// DeleteUser removes a user; their projects and audit entries remain with
// an unknown actor.
func (s *AuthService) DeleteUser(ctx context.Context, id string) error {
	deleted, err := s.users.Delete(ctx, id)
	if err != nil {
		return &StorageError{Op: "delete user", Err: err}
	}
	if deleted == 0 {
		return &NotFoundError{Entity: "user", ID: id}
	}
	return nil
}

// Login authenticates a user and returns a token
func (s *AuthService) Login(ctx context.Context, req dto.LoginRequest) (*dto.AuthResponse, error) {
	user, err := s.users.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, &StorageError{Op: "login", Err: err}
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, expiresAt, err := s.GenerateToken(user.ID, user.Email, user.Role)
	if err != nil {
		return nil, err
	}

	user.Password = ""
	return &dto.AuthResponse{
		Token:     token,
		User:      user,
		ExpiresAt: expiresAt,
	}, nil
}

// GenerateToken generates a new JWT token for a user
func (s *AuthService) GenerateToken(userID, email string, role models.Role) (string, time.Time, error) {
	if len(s.secret) == 0 {
		return "", time.Time{}, errors.New("JWT secret is not configured")
	}

	now := time.Now()
	expiresAt := now.Add(s.tokenTTL)

	claims := dto.TokenClaims{
		UserID: userID,
		Email:  email,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, err
	}

	return tokenString, expiresAt, nil
}

// ValidateToken validates a JWT token and returns claims if valid
func (s *AuthService) ValidateToken(tokenString string) (*dto.TokenClaims, error) {
	if len(s.secret) == 0 {
		return nil, errors.New("JWT secret is not configured")
	}

	token, err := jwt.ParseWithClaims(tokenString, &dto.TokenClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, errors.Join(ErrInvalidToken, err)
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*dto.TokenClaims)
	if !ok || claims.UserID == "" {
		return nil, ErrInvalidToken
	}
	if !claims.Role.Valid() {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

// Authenticate validates a token and checks that its user still exists.
// The returned claims carry the user's current email and role.
func (s *AuthService) Authenticate(ctx context.Context, tokenString string) (*dto.TokenClaims, error) {
	claims, err := s.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}

	user, err := s.users.FindByID(ctx, claims.UserID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInvalidToken
	}
	if err != nil {
		return nil, &StorageError{Op: "authenticate", Err: err}
	}

	claims.Email = user.Email
	claims.Role = user.Role
	return claims, nil
}
