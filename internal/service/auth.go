package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"regexp"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/caloriemate/backend/internal/models"
)

var (
	ErrUserExists         = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountNotActive   = errors.New("account is not active")
	ErrInvalidActivation  = errors.New("invalid activation code")
	ErrWeakPassword       = errors.New("password must be at least 6 characters and contain an uppercase letter and a number")
	ErrInvalidToken       = errors.New("invalid token")
)

var (
	hasUppercase = regexp.MustCompile(`[A-Z]`)
	hasDigit     = regexp.MustCompile(`\d`)
)

// TokenClaims is the identity carried by an access token.
type TokenClaims struct {
	UserID uuid.UUID
	Role   string
}

// RegisterInput carries the payload for creating an account.
type RegisterInput struct {
	Fullname  string
	Username  string
	Email     string
	Gender    string
	BirthDate time.Time
	Password  string
}

// UpdateProfileInput carries a partial profile update.
type UpdateProfileInput struct {
	Fullname       *string
	ProfilePicture *string
}

// AuthService handles accounts, activation and token issuance.
type AuthService struct {
	db        *gorm.DB
	jwtSecret string
}

// Ensure AuthService implements IAuthService
var _ IAuthService = (*AuthService)(nil)

// NewAuthService creates a new AuthService instance.
func NewAuthService(db *gorm.DB, jwtSecret string) *AuthService {
	return &AuthService{
		db:        db,
		jwtSecret: jwtSecret,
	}
}

func validatePassword(password string) error {
	if len(password) < 6 || !hasUppercase.MatchString(password) || !hasDigit.MatchString(password) {
		return ErrWeakPassword
	}
	return nil
}

// Register creates an inactive account. The activation code is stored on
// the user and redeemed via Activate; mail delivery is out of scope, so
// the caller is responsible for handing the code to the user.
func (s *AuthService) Register(ctx context.Context, req *RegisterInput) (*models.User, error) {
	if err := validatePassword(req.Password); err != nil {
		return nil, err
	}

	var existing models.User
	err := s.db.WithContext(ctx).
		Where("email = ? OR username = ?", req.Email, req.Username).
		First(&existing).Error
	if err == nil {
		return nil, ErrUserExists
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	code := make([]byte, 16)
	if _, err := rand.Read(code); err != nil {
		return nil, err
	}

	user := models.User{
		Fullname:       req.Fullname,
		Username:       req.Username,
		Email:          req.Email,
		Gender:         req.Gender,
		BirthDate:      req.BirthDate,
		PasswordHash:   string(hashedPassword),
		Role:           models.RoleMember,
		ActivationCode: hex.EncodeToString(code),
	}

	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrUserExists
		}
		return nil, err
	}
	return &user, nil
}

// Activate redeems an activation code and marks the account active.
func (s *AuthService) Activate(ctx context.Context, code string) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where("activation_code = ?", code).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidActivation
		}
		return nil, err
	}

	if err := s.db.WithContext(ctx).Model(&user).Update("is_active", true).Error; err != nil {
		return nil, err
	}
	user.IsActive = true
	return &user, nil
}

// Login authenticates by email or username and returns a signed token.
func (s *AuthService) Login(ctx context.Context, identifier, password string) (string, error) {
	var user models.User
	err := s.db.WithContext(ctx).
		Where("email = ? OR username = ?", identifier, identifier).
		First(&user).Error
	if err != nil {
		return "", ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}
	if !user.IsActive {
		return "", ErrAccountNotActive
	}

	return s.generateToken(&user)
}

// GetUserByID retrieves a user by id.
func (s *AuthService) GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// UpdateProfile updates the mutable profile fields.
func (s *AuthService) UpdateProfile(ctx context.Context, userID uuid.UUID, req *UpdateProfileInput) (*models.User, error) {
	user, err := s.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.Fullname != nil {
		user.Fullname = *req.Fullname
	}
	if req.ProfilePicture != nil {
		user.ProfilePicture = *req.ProfilePicture
	}

	if err := s.db.WithContext(ctx).Save(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// UpdatePassword replaces the password after verifying the old one.
func (s *AuthService) UpdatePassword(ctx context.Context, userID uuid.UUID, oldPassword, newPassword string) error {
	user, err := s.GetUserByID(ctx, userID)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(oldPassword)); err != nil {
		return ErrInvalidCredentials
	}
	if err := validatePassword(newPassword); err != nil {
		return err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	return s.db.WithContext(ctx).Model(user).Update("password_hash", string(hashedPassword)).Error
}

func (s *AuthService) generateToken(user *models.User) (string, error) {
	claims := jwt.MapClaims{
		"user_id": user.ID.String(),
		"role":    user.Role,
		"exp":     time.Now().Add(24 * time.Hour).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecret))
}

// ValidateToken parses and verifies an access token.
func (s *AuthService) ValidateToken(tokenString string) (*TokenClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	userIDStr, ok := claims["user_id"].(string)
	if !ok {
		return nil, ErrInvalidToken
	}
	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return nil, err
	}

	role, _ := claims["role"].(string)
	return &TokenClaims{
		UserID: userID,
		Role:   role,
	}, nil
}
