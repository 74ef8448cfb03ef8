package services

import (
	"errors"

	"github.com/ggorockee/nameorigin/internal/config"
	"github.com/ggorockee/nameorigin/internal/database"
	"github.com/ggorockee/nameorigin/internal/models"
	"github.com/ggorockee/nameorigin/pkg/auth"
	"gorm.io/gorm"
)

var (
	// ErrUsernameTaken is returned on signup with an existing username
	ErrUsernameTaken = errors.New("username already registered")
	// ErrInvalidCredentials covers unknown users and wrong passwords alike
	ErrInvalidCredentials = errors.New("incorrect username or password")
	// ErrUserDisabled is returned for disabled accounts
	ErrUserDisabled = errors.New("inactive user")
)

type AuthService struct {
	db  *database.DB
	cfg *config.Config
}

func NewAuthService(db *database.DB, cfg *config.Config) *AuthService {
	return &AuthService{db: db, cfg: cfg}
}

// Request/Response types
type SignupRequest struct {
	Username string  `json:"username"`
	Email    *string `json:"email,omitempty"`
	FullName *string `json:"full_name,omitempty"`
	Password string  `json:"password"`
}

type TokenRequest struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
}

type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// Signup creates a new user with a bcrypt-hashed password
func (s *AuthService) Signup(req *SignupRequest) (*models.User, error) {
	var existing models.User
	err := s.db.Where("username = ?", req.Username).First(&existing).Error
	if err == nil {
		return nil, ErrUsernameTaken
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hashed, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := models.User{
		Username:       req.Username,
		Email:          req.Email,
		FullName:       req.FullName,
		HashedPassword: hashed,
		Disabled:       false,
	}
	if err := s.db.Create(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// Token exchanges credentials for a bearer access token
func (s *AuthService) Token(req *TokenRequest) (*TokenResponse, error) {
	var user models.User
	err := s.db.Where("username = ?", req.Username).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !auth.CheckPassword(req.Password, user.HashedPassword) {
		return nil, ErrInvalidCredentials
	}
	if user.Disabled {
		return nil, ErrUserDisabled
	}

	token, err := auth.GenerateAccessToken(user.Username, s.cfg.JWTSecretKey, s.cfg.JWTAccessTokenExpireMin)
	if err != nil {
		return nil, err
	}
	return &TokenResponse{AccessToken: token, TokenType: "bearer"}, nil
}
