package service

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"go.uber.org/zap"
	"golang.org/x/crypto/argon2"

	"neuraslide/internal/apperr"
	"neuraslide/internal/billing"
	"neuraslide/internal/models"
	"neuraslide/internal/notifier"
	"neuraslide/internal/repository"
	"neuraslide/internal/validation"
)

type AuthService interface {
	Signup(req validation.SignupRequest) (*models.User, error)
	Login(email, password string) (string, time.Time, *models.User, error)
	Logout(userID int64) error
	Me(userID int64) (*models.User, error)
	ForgotPassword(email string) error
	ResetPassword(token, newPassword string) error
	ChangePassword(userID int64, currentPassword, newPassword string) error
	VerifyEmail(token string) error
}

type authService struct {
	users    repository.UserRepository
	teams    repository.TeamRepository
	billing  *billing.Client
	notifier *notifier.Notifier
	secret   []byte
	tokenTTL time.Duration
	logger   *zap.Logger
}

func NewAuthService(
	users repository.UserRepository,
	teams repository.TeamRepository,
	billingClient *billing.Client,
	n *notifier.Notifier,
	jwtSecret string,
	tokenTTL time.Duration,
	logger *zap.Logger,
) AuthService {
	return &authService{
		users:    users,
		teams:    teams,
		billing:  billingClient,
		notifier: n,
		secret:   []byte(jwtSecret),
		tokenTTL: tokenTTL,
		logger:   logger,
	}
}

func (s *authService) Signup(req validation.SignupRequest) (*models.User, error) {
	existing, err := s.users.GetUserByEmail(req.Email)
	if err != nil {
		s.logger.Error("Failed to look up email", zap.Error(err))
		return nil, apperr.Internal(err)
	}
	if existing != nil {
		return nil, apperr.Conflict("Email already registered")
	}

	passwordHash, err := hashPassword(req.Password)
	if err != nil {
		s.logger.Error("Failed to hash password", zap.Error(err))
		return nil, apperr.Internal(err)
	}

	role := models.RoleMember
	if req.TeamName != nil {
		role = models.RoleOwner
	}

	user := &models.User{
		Email:        req.Email,
		PasswordHash: passwordHash,
		Name:         req.Name,
		Role:         role,
		IsActive:     true,
	}
	if err := s.users.CreateUser(user); err != nil {
		// Two concurrent signups can both pass the lookup above; the
		// unique index on email decides the loser.
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return nil, apperr.Conflict("Email already registered")
		}
		s.logger.Error("Failed to create user", zap.Error(err))
		return nil, apperr.Internal(err)
	}

	if req.TeamName != nil {
		team := &models.Team{Name: *req.TeamName, OwnerID: user.ID, Plan: "free"}
		if err := s.teams.CreateTeam(team); err != nil {
			s.logger.Error("Failed to create team", zap.Error(err))
			return nil, apperr.Internal(err)
		}
		if err := s.teams.AssignUser(user.ID, team.ID); err != nil {
			s.logger.Error("Failed to assign user to team", zap.Error(err))
			return nil, apperr.Internal(err)
		}
		user.TeamID = &team.ID

		customerID, err := s.billing.EnsureCustomer(team.Name, user.Email)
		if err != nil {
			// Billing sync is best effort at signup; the team still exists.
			s.logger.Error("Failed to create Stripe customer", zap.Error(err))
		} else if customerID != "" {
			if err := s.teams.SetStripeCustomerID(team.ID, customerID); err != nil {
				s.logger.Error("Failed to store Stripe customer id", zap.Error(err))
			}
		}
	}

	verifyToken := &models.UserToken{
		UserID:    user.ID,
		Token:     uuid.NewString(),
		Kind:      models.TokenKindEmailVerify,
		ExpiresAt: time.Now().Add(48 * time.Hour),
	}
	if err := s.users.CreateToken(verifyToken); err != nil {
		s.logger.Error("Failed to create verification token", zap.Error(err))
	}

	s.notifier.NotifySignup(user.Email)
	s.logger.Info("User signed up", zap.Int64("user_id", user.ID))
	return user, nil
}

func (s *authService) Login(email, password string) (string, time.Time, *models.User, error) {
	user, err := s.users.GetUserByEmail(email)
	if err != nil {
		s.logger.Error("Failed to get user by email", zap.Error(err))
		return "", time.Time{}, nil, apperr.Internal(err)
	}
	if user == nil || !user.IsActive || !verifyPassword(user.PasswordHash, password) {
		return "", time.Time{}, nil, apperr.Unauthorized()
	}

	expirationTime := time.Now().Add(s.tokenTTL)
	claims := &models.Claims{
		Email:  user.Email,
		Role:   user.Role,
		TeamID: user.TeamID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(user.ID, 10),
			ExpiresAt: jwt.NewNumericDate(expirationTime),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.secret)
	if err != nil {
		s.logger.Error("Failed to sign token", zap.Error(err))
		return "", time.Time{}, nil, apperr.Internal(err)
	}

	if err := s.users.UpdateLastLogin(user.ID); err != nil {
		s.logger.Warn("Failed to update last login", zap.Error(err))
	}

	s.logger.Info("User logged in", zap.Int64("user_id", user.ID))
	return tokenString, expirationTime, user, nil
}

func (s *authService) Logout(userID int64) error {
	// Tokens are stateless; logout is an audit event only.
	s.logger.Info("User logged out", zap.Int64("user_id", userID))
	return nil
}

func (s *authService) Me(userID int64) (*models.User, error) {
	user, err := s.users.GetUserByID(userID)
	if err != nil {
		s.logger.Error("Failed to get user", zap.Error(err))
		return nil, apperr.Internal(err)
	}
	if user == nil {
		return nil, apperr.NotFound("User")
	}
	return user, nil
}

func (s *authService) ForgotPassword(email string) error {
	user, err := s.users.GetUserByEmail(email)
	if err != nil {
		s.logger.Error("Failed to get user by email", zap.Error(err))
		return apperr.Internal(err)
	}
	if user == nil {
		// Responding identically whether or not the email exists.
		return nil
	}

	token := &models.UserToken{
		UserID:    user.ID,
		Token:     uuid.NewString(),
		Kind:      models.TokenKindPasswordReset,
		ExpiresAt: time.Now().Add(1 * time.Hour),
	}
	if err := s.users.CreateToken(token); err != nil {
		s.logger.Error("Failed to create reset token", zap.Error(err))
		return apperr.Internal(err)
	}

	// Mail delivery is an external collaborator; the token is logged so a
	// deployment without a mailer can still operate through support.
	s.logger.Info("Password reset token issued", zap.Int64("user_id", user.ID))
	return nil
}

func (s *authService) ResetPassword(token, newPassword string) error {
	t, err := s.users.GetValidToken(token, models.TokenKindPasswordReset)
	if err != nil {
		s.logger.Error("Failed to look up reset token", zap.Error(err))
		return apperr.Internal(err)
	}
	if t == nil {
		return apperr.BadRequest("Invalid or expired token")
	}

	hash, err := hashPassword(newPassword)
	if err != nil {
		return apperr.Internal(err)
	}
	if err := s.users.UpdatePassword(t.UserID, hash); err != nil {
		s.logger.Error("Failed to update password", zap.Error(err))
		return apperr.Internal(err)
	}
	if err := s.users.MarkTokenUsed(t.ID); err != nil {
		s.logger.Error("Failed to mark token used", zap.Error(err))
	}
	s.logger.Info("Password reset", zap.Int64("user_id", t.UserID))
	return nil
}

func (s *authService) ChangePassword(userID int64, currentPassword, newPassword string) error {
	user, err := s.users.GetUserByID(userID)
	if err != nil {
		return apperr.Internal(err)
	}
	if user == nil {
		return apperr.NotFound("User")
	}
	if !verifyPassword(user.PasswordHash, currentPassword) {
		return apperr.Unauthorized()
	}

	hash, err := hashPassword(newPassword)
	if err != nil {
		return apperr.Internal(err)
	}
	if err := s.users.UpdatePassword(userID, hash); err != nil {
		s.logger.Error("Failed to update password", zap.Error(err))
		return apperr.Internal(err)
	}
	s.logger.Info("Password changed", zap.Int64("user_id", userID))
	return nil
}

func (s *authService) VerifyEmail(token string) error {
	t, err := s.users.GetValidToken(token, models.TokenKindEmailVerify)
	if err != nil {
		s.logger.Error("Failed to look up verification token", zap.Error(err))
		return apperr.Internal(err)
	}
	if t == nil {
		return apperr.BadRequest("Invalid or expired token")
	}
	if err := s.users.SetEmailVerified(t.UserID); err != nil {
		s.logger.Error("Failed to set email verified", zap.Error(err))
		return apperr.Internal(err)
	}
	if err := s.users.MarkTokenUsed(t.ID); err != nil {
		s.logger.Error("Failed to mark token used", zap.Error(err))
	}
	return nil
}

const (
	argonTime    = 1
	argonMemory  = 64 * 1024
	argonThreads = 4
	argonKeyLen  = 32
)

// hashPassword uses Argon2id and encodes salt and hash together:
// $argon2id$v=19$m=65536,t=1,p=4$BASE64_SALT$BASE64_HASH
func hashPassword(password string) (string, error) {
	salt := make([]byte, 16)
	if _, err := rand.Read(salt); err != nil {
		return "", err
	}

	hash := argon2.IDKey([]byte(password), salt, argonTime, argonMemory, argonThreads, argonKeyLen)

	encodedSalt := base64.RawStdEncoding.EncodeToString(salt)
	encodedHash := base64.RawStdEncoding.EncodeToString(hash)

	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, argonMemory, argonTime, argonThreads, encodedSalt, encodedHash), nil
}

// verifyPassword compares a plaintext password with an encoded hash.
func verifyPassword(encoded, password string) bool {
	sections := strings.Split(strings.TrimPrefix(encoded, "$"), "$")
	// Expected: ["argon2id", "v=19", "m=65536,t=1,p=4", salt, hash]
	if len(sections) != 5 || sections[0] != "argon2id" {
		return false
	}

	var m, t, p uint32
	if _, err := fmt.Sscanf(sections[2], "m=%d,t=%d,p=%d", &m, &t, &p); err != nil {
		return false
	}

	salt, err := base64.RawStdEncoding.DecodeString(sections[3])
	if err != nil {
		return false
	}
	hash, err := base64.RawStdEncoding.DecodeString(sections[4])
	if err != nil {
		return false
	}

	comparison := argon2.IDKey([]byte(password), salt, t, m, uint8(p), uint32(len(hash)))
	return subtle.ConstantTimeCompare(comparison, hash) == 1
}
