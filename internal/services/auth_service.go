package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/culturemap/culturemap-backend/internal/config"
	"github.com/culturemap/culturemap-backend/internal/dto"
	"github.com/culturemap/culturemap-backend/internal/models"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrUsernameRequired        = errors.New("username must not be blank")
	ErrUsernameTaken           = errors.New("username already taken")
	ErrEmailTaken              = errors.New("email already registered")
	ErrInvalidCredentials      = errors.New("invalid username/email or password")
	ErrUserNotFound            = errors.New("user not found")
	ErrNothingToUpdate         = errors.New("nothing to update")
	ErrCurrentPasswordRequired = errors.New("current password is required to set a new password")
	ErrWrongCurrentPassword    = errors.New("current password is incorrect")
	ErrLocationIncomplete      = errors.New("current_lat and current_lon must be provided together")
	ErrCannotDeleteSelf        = errors.New("you cannot delete your own account")
)

const bcryptCost = 10

type AuthService struct {
	db  *gorm.DB
	cfg *config.Config
}

func NewAuthService(db *gorm.DB, cfg *config.Config) *AuthService {
	return &AuthService{db: db, cfg: cfg}
}

func (s *AuthService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error) {
	username := strings.TrimSpace(req.Username)
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if username == "" {
		return nil, ErrUsernameRequired
	}

	if err := s.ensureAvailable(ctx, uuid.Nil, username, email); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.User{
		ID:       uuid.New(),
		Username: username,
		Email:    email,
		Password: string(hash),
		Role:     models.RoleUser,
	}
	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, s.conflict(ctx, username, email)
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	slog.Info("user registered", "user_id", user.ID.String())
	return s.authResponse("Registration successful", &user)
}

// Login accepts either the email or the username. Soft-deleted accounts are
// invisible to the default scope and therefore cannot log in.
func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	ident := strings.TrimSpace(req.EmailOrUsername)

	var user models.User
	err := s.db.WithContext(ctx).
		Where("email = ? OR username = ?", strings.ToLower(ident), ident).
		First(&user).Error
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return s.authResponse("Login successful", &user)
}

// FindActiveUser satisfies middleware.UserFinder.
func (s *AuthService) FindActiveUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).First(&user, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *AuthService) Me(ctx context.Context, id uuid.UUID) (*dto.UserResponse, error) {
	user, err := s.FindActiveUser(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToUserResponse(user)
	return &resp, nil
}

func (s *AuthService) UpdateMe(ctx context.Context, id uuid.UUID, req *dto.UpdateMeRequest) (*dto.UserResponse, error) {
	user, err := s.FindActiveUser(ctx, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}

	if (req.CurrentLat == nil) != (req.CurrentLon == nil) {
		return nil, ErrLocationIncomplete
	}
	if req.CurrentLat != nil {
		updates["current_lat"] = *req.CurrentLat
		updates["current_lon"] = *req.CurrentLon
	}

	username := strings.TrimSpace(req.Username)
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if username == user.Username {
		username = ""
	}
	if email == user.Email {
		email = ""
	}
	if username != "" || email != "" {
		if err := s.ensureAvailable(ctx, user.ID, username, email); err != nil {
			return nil, err
		}
		if username != "" {
			updates["username"] = username
		}
		if email != "" {
			updates["email"] = email
		}
	}

	if req.NewPassword != "" {
		if req.CurrentPassword == "" {
			return nil, ErrCurrentPasswordRequired
		}
		if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.CurrentPassword)); err != nil {
			return nil, ErrWrongCurrentPassword
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcryptCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		updates["password"] = string(hash)
	}

	if len(updates) == 0 {
		return nil, ErrNothingToUpdate
	}

	if err := s.db.WithContext(ctx).Model(user).Updates(updates).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrUsernameTaken
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	return s.Me(ctx, id)
}

// ListUsers returns every account, soft-deleted ones flagged, newest first.
func (s *AuthService) ListUsers(ctx context.Context) ([]dto.UserResponse, error) {
	var users []models.User
	if err := s.db.WithContext(ctx).Unscoped().Order("created_at DESC").Find(&users).Error; err != nil {
		return nil, err
	}
	return toUserResponses(users), nil
}

func (s *AuthService) ListDeletedUsers(ctx context.Context) ([]dto.UserResponse, error) {
	var users []models.User
	err := s.db.WithContext(ctx).Unscoped().
		Where("deleted_at IS NOT NULL").
		Order("created_at DESC").
		Find(&users).Error
	if err != nil {
		return nil, err
	}
	return toUserResponses(users), nil
}

// SoftDeleteUser hides an account. Its comments stay in the database but
// drop out of public listings.
func (s *AuthService) SoftDeleteUser(ctx context.Context, actorID, targetID uuid.UUID) error {
	if actorID == targetID {
		return ErrCannotDeleteSelf
	}
	result := s.db.WithContext(ctx).Delete(&models.User{}, "id = ?", targetID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	slog.Info("user soft-deleted", "user_id", targetID.String(), "by", actorID.String())
	return nil
}

// SeedAdmin creates the configured administrator unless an admin already
// exists. Missing ADMIN_* settings make it a no-op.
func (s *AuthService) SeedAdmin(ctx context.Context) error {
	if !s.cfg.HasAdminSeed() {
		slog.Info("admin seed skipped: ADMIN_USER, ADMIN_EMAIL and ADMIN_PASSWORD not all set")
		return nil
	}

	var admins int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).Where("role = ?", models.RoleAdmin).Count(&admins).Error; err != nil {
		return err
	}
	if admins > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(s.cfg.AdminPassword), bcryptCost)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}
	admin := models.User{
		ID:       uuid.New(),
		Username: s.cfg.AdminUser,
		Email:    strings.ToLower(s.cfg.AdminEmail),
		Password: string(hash),
		Role:     models.RoleAdmin,
	}
	if err := s.db.WithContext(ctx).Create(&admin).Error; err != nil {
		return fmt.Errorf("failed to create admin: %w", err)
	}
	slog.Info("admin account created", "username", admin.Username)
	return nil
}

// conflict tells a lost registration race apart: a concurrent insert took
// either the username or the email between the availability check and ours.
func (s *AuthService) conflict(ctx context.Context, username, email string) error {
	err := s.ensureAvailable(ctx, uuid.Nil, username, email)
	if errors.Is(err, ErrUsernameTaken) || errors.Is(err, ErrEmailTaken) {
		return err
	}
	return ErrUsernameTaken
}

// ensureAvailable checks username and email against every account,
// including soft-deleted ones, which still hold their unique keys.
// Empty values are not checked.
func (s *AuthService) ensureAvailable(ctx context.Context, self uuid.UUID, username, email string) error {
	check := func(column, value string, taken error) error {
		if value == "" {
			return nil
		}
		var n int64
		err := s.db.WithContext(ctx).Unscoped().Model(&models.User{}).
			Where(column+" = ? AND id <> ?", value, self).
			Count(&n).Error
		if err != nil {
			return err
		}
		if n > 0 {
			return taken
		}
		return nil
	}
	if err := check("username", username, ErrUsernameTaken); err != nil {
		return err
	}
	return check("email", email, ErrEmailTaken)
}

func (s *AuthService) authResponse(message string, user *models.User) (*dto.AuthResponse, error) {
	token, err := NewAccessToken(s.cfg, user)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}
	return &dto.AuthResponse{
		Message: message,
		Token:   token,
		User:    ToUserResponse(user),
	}, nil
}

func ToUserResponse(u *models.User) dto.UserResponse {
	return dto.UserResponse{
		ID:         u.ID,
		Username:   u.Username,
		Email:      u.Email,
		Role:       u.Role,
		CurrentLat: u.CurrentLat,
		CurrentLon: u.CurrentLon,
		Deleted:    u.DeletedAt.Valid,
		CreatedAt:  u.CreatedAt,
	}
}

func toUserResponses(users []models.User) []dto.UserResponse {
	out := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		out = append(out, ToUserResponse(&users[i]))
	}
	return out
}
