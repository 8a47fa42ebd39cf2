package services

import (
	"time"

	"github.com/gerailabs/gerai-core/internal/app/errors"
	"github.com/gerailabs/gerai-core/internal/app/models"
	"github.com/gerailabs/gerai-core/internal/infrastructures"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	accessTokenTTL  = 15 * time.Minute
	refreshTokenTTL = 7 * 24 * time.Hour
)

type TokenClaims struct {
	UserID uuid.UUID       `json:"user_id"`
	Role   models.UserRole `json:"role"`
	jwt.RegisteredClaims
}

type AuthService struct {
	db        *gorm.DB
	validator *infrastructures.Validator
	jwtSecret string
}

func NewAuthService(db *gorm.DB, validator *infrastructures.Validator) *AuthService {
	return &AuthService{
		db:        db,
		validator: validator,
		jwtSecret: infrastructures.Config.JWT_SECRET,
	}
}

func (s *AuthService) Register(req *models.UserRegisterRequest) (*models.User, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	// Check if email or username already taken
	var existing models.User
	err := s.db.Where("email = ? OR username = ?", req.Email, req.Username).First(&existing).Error
	if err == nil {
		return nil, errors.NewBadRequestError("Email or username already registered")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, errors.NewInternalServerError(err, "Failed to hash password")
	}

	// Every account starts as basic; upgrades go through coupon redemption
	// or the admin tools, never registration.
	user := &models.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: string(hash),
		FullName:     req.FullName,
		Phone:        req.Phone,
		Address:      req.Address,
		Role:         models.UserRoleBasic,
	}

	if err := s.db.Create(user).Error; err != nil {
		return nil, errors.NewInternalServerError(err, "Failed to create user")
	}

	return user, nil
}

func (s *AuthService) Login(req *models.UserLoginRequest) (*models.TokenPair, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	var user models.User
	err := s.db.Where("email = ?", req.Email).First(&user).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.NewUnauthorizedError("Invalid email or password")
		}
		return nil, errors.NewInternalServerError(err, "Failed to get user")
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		return nil, errors.NewUnauthorizedError("Invalid email or password")
	}

	return s.GenerateTokenPair(&user)
}

func (s *AuthService) GenerateTokenPair(user *models.User) (*models.TokenPair, error) {
	access, err := s.signToken(user, accessTokenTTL)
	if err != nil {
		return nil, errors.NewInternalServerError(err, "Failed to sign access token")
	}

	refresh, err := s.signToken(user, refreshTokenTTL)
	if err != nil {
		return nil, errors.NewInternalServerError(err, "Failed to sign refresh token")
	}

	return &models.TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    int64(accessTokenTTL.Seconds()),
		TokenType:    "Bearer",
	}, nil
}

func (s *AuthService) signToken(user *models.User, ttl time.Duration) (string, error) {
	claims := &TokenClaims{
		UserID: user.ID,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
			Issuer:    "gerai-core",
			Subject:   user.ID.String(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecret))
}

func (s *AuthService) VerifyToken(tokenString string) (*TokenClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &TokenClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil {
		return nil, errors.NewUnauthorizedError("Invalid or expired token")
	}

	claims, ok := token.Claims.(*TokenClaims)
	if !ok || !token.Valid {
		return nil, errors.NewUnauthorizedError("Invalid or expired token")
	}

	return claims, nil
}
