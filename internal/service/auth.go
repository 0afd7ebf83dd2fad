package service

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/recipebox/recipebox/internal/model"
	"github.com/recipebox/recipebox/internal/repository"
	"github.com/recipebox/recipebox/internal/validation"
	"golang.org/x/crypto/bcrypt"
)

// SessionCookieName is the cookie carrying the signed session token.
const SessionCookieName = "auth_token"

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUsernameTaken      = errors.New("username is already taken")
	ErrInvalidSession     = errors.New("invalid session token")
)

// Compared against when the username does not exist so that both failure
// paths take roughly the same time.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("recipebox-dummy-password"), bcrypt.DefaultCost)

type AuthService struct {
	userRepository   repository.UserRepository
	roleRepository   repository.RoleRepository
	jwtSecret        string
	isProduction     bool
	sessionExpiry    time.Duration
	rememberMeExpiry time.Duration
}

func NewAuthService(
	userRepository repository.UserRepository,
	roleRepository repository.RoleRepository,
	jwtSecret string,
	isProduction bool,
	sessionExpiry time.Duration,
	rememberMeExpiry time.Duration,
) *AuthService {
	return &AuthService{
		userRepository:   userRepository,
		roleRepository:   roleRepository,
		jwtSecret:        jwtSecret,
		isProduction:     isProduction,
		sessionExpiry:    sessionExpiry,
		rememberMeExpiry: rememberMeExpiry,
	}
}

// Login checks a username/password pair. Unknown usernames and wrong
// passwords produce the same error.
func (s *AuthService) Login(username, password string) (*model.User, error) {
	username = strings.TrimSpace(username)

	user, err := s.userRepository.ByUsername(username)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	err = s.ComparePassword(password, user.PasswordHash)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

// RegisterInput is a registration form submission.
type RegisterInput struct {
	Username   string
	Password   string
	LastName   string
	FirstName  string
	MiddleName string
	RoleID     int64
}

// Register creates an account. Field problems come back as validation.Errors.
func (s *AuthService) Register(in RegisterInput) (*model.User, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.LastName = strings.TrimSpace(in.LastName)
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.MiddleName = strings.TrimSpace(in.MiddleName)

	errs := validation.Errors{}
	if err := validation.ValidateUsername(in.Username); err != nil {
		errs.Add("username", err.Error())
	}
	if err := validation.ValidatePassword(in.Password); err != nil {
		errs.Add("password", err.Error())
	}
	if err := validation.ValidateName(in.LastName); err != nil {
		errs.Add("last_name", "Last name is required")
	}
	if err := validation.ValidateName(in.FirstName); err != nil {
		errs.Add("first_name", "First name is required")
	}
	if len(in.MiddleName) > 100 {
		errs.Add("middle_name", "Middle name is too long (max 100 characters)")
	}

	role, err := s.roleRepository.ByID(in.RoleID)
	if err != nil {
		if !errors.Is(err, repository.ErrRoleNotFound) {
			return nil, fmt.Errorf("failed to get role: %w", err)
		}
		errs.Add("role_id", "Choose a role")
	}

	if err := errs.Err(); err != nil {
		return nil, err
	}

	_, err = s.userRepository.ByUsername(in.Username)
	if err == nil {
		return nil, ErrUsernameTaken
	}
	if !errors.Is(err, repository.ErrUserNotFound) {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}

	hash, err := s.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		Username:     in.Username,
		PasswordHash: hash,
		LastName:     in.LastName,
		FirstName:    in.FirstName,
		RoleID:       role.ID,
		CreatedAt:    time.Now().UTC(),
	}
	if in.MiddleName != "" {
		user.MiddleName = &in.MiddleName
	}

	err = s.userRepository.Create(user)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateUsername) {
			return nil, ErrUsernameTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	slog.Info("user registered", "user_id", user.ID, "role", role.Name)
	return user, nil
}

func (s *AuthService) HashPassword(password string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashedBytes), nil
}

func (s *AuthService) ComparePassword(password, hash string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}

func (s *AuthService) GenerateJWT(user *model.User, expiry time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"user_id":  user.ID,
		"username": user.Username,
		"exp":      now.Add(expiry).Unix(),
		"iat":      now.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

func (s *AuthService) VerifyJWT(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.jwtSecret), nil
	})

	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if ok && token.Valid {
		return claims, nil
	}

	return nil, ErrInvalidSession
}

// UserIDFromToken verifies a session token and returns its account id.
func (s *AuthService) UserIDFromToken(tokenString string) (int64, error) {
	claims, err := s.VerifyJWT(tokenString)
	if err != nil {
		return 0, err
	}

	// JSON numbers decode as float64
	id, ok := claims["user_id"].(float64)
	if !ok || id <= 0 {
		return 0, ErrInvalidSession
	}
	return int64(id), nil
}

// StartSession issues a session cookie. With remember set the cookie
// outlives the browser session.
func (s *AuthService) StartSession(w http.ResponseWriter, user *model.User, remember bool) error {
	expiry := s.sessionExpiry
	if remember {
		expiry = s.rememberMeExpiry
	}

	token, err := s.GenerateJWT(user, expiry)
	if err != nil {
		return fmt.Errorf("failed to sign session: %w", err)
	}

	cookie := &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.isProduction,
		SameSite: http.SameSiteLaxMode,
	}
	if remember {
		cookie.Expires = time.Now().Add(expiry)
	}
	http.SetCookie(w, cookie)
	return nil
}

func (s *AuthService) ClearSession(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.isProduction,
		SameSite: http.SameSiteLaxMode,
	})
}
