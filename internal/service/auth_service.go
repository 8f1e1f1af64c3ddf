package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"storefront-api/internal/model"
	"storefront-api/internal/password"
	"storefront-api/internal/token"
	"storefront-api/internal/validate"
	"storefront-api/pkg/apierror"
)

// UserStore is the credential store the auth core consumes. The pgx
// repository implements it in production; tests substitute fakes.
type UserStore interface {
	FindByID(ctx context.Context, id int64) (model.User, error)
	FindByUsernameOrEmail(ctx context.Context, login string) (model.User, error)
	Create(ctx context.Context, u model.User) (model.User, error)
	Update(ctx context.Context, u model.User) (model.User, error)
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
	UpdateLastLogin(ctx context.Context, id int64, ts time.Time) error
	SoftDelete(ctx context.Context, id int64) error
}

type RoleStore interface {
	FindByID(ctx context.Context, id int64) (model.Role, error)
}

type AuthService struct {
	users  UserStore
	roles  RoleStore
	hasher *password.Hasher
	tokens *token.Issuer
}

func NewAuthService(users UserStore, roles RoleStore, hasher *password.Hasher, tokens *token.Issuer) *AuthService {
	return &AuthService{users: users, roles: roles, hasher: hasher, tokens: tokens}
}

func (s *AuthService) Signup(ctx context.Context, req model.SignupRequest) (model.PublicUser, error) {
	if errs := validate.Signup(req); len(errs) > 0 {
		return model.PublicUser{}, apierror.Validation(errs)
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return model.PublicUser{}, err
	}

	created, err := s.users.Create(ctx, model.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hash,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		IsActive:     true,
		RoleID:       model.RoleUser,
	})
	if err != nil {
		return model.PublicUser{}, err
	}

	return created.Public(), nil
}

// Signin verifies credentials and issues a token bound to the observed
// client IP. A lookup miss and a password mismatch are deliberately
// indistinguishable to the caller.
func (s *AuthService) Signin(ctx context.Context, login string, plaintext string, observedIP string) (model.SigninResult, error) {
	user, err := s.users.FindByUsernameOrEmail(ctx, login)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			return model.SigninResult{}, invalidCredentials()
		}
		return model.SigninResult{}, err
	}

	if !user.IsActive {
		return model.SigninResult{}, apierror.New("FORBIDDEN", "User account is not active", "", http.StatusForbidden)
	}

	if err := s.hasher.Verify(plaintext, user.PasswordHash); err != nil {
		if errors.Is(err, password.ErrMismatch) {
			return model.SigninResult{}, invalidCredentials()
		}
		return model.SigninResult{}, fmt.Errorf("verify password: %w", err)
	}

	signed, err := s.tokens.Issue(user, observedIP)
	if err != nil {
		return model.SigninResult{}, fmt.Errorf("issue token: %w", err)
	}

	// Best effort: a failed last-login write must not fail the signin.
	if err := s.users.UpdateLastLogin(ctx, user.ID, time.Now().UTC()); err != nil {
		slog.Warn("failed to update last login", "user_id", user.ID, "error", err)
	}

	return model.SigninResult{Token: signed, User: user.Public()}, nil
}

func (s *AuthService) GetProfile(ctx context.Context, userID int64) (model.PublicUser, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return model.PublicUser{}, err
	}
	return user.Public(), nil
}

// UpdateProfile applies a self-service update. isActive and roleId carry a
// privilege check of their own: route-level authorization already gates the
// admin endpoints, but the profile route must not become a side door.
func (s *AuthService) UpdateProfile(ctx context.Context, userID int64, req model.UpdateUserRequest, requesterRoleID int64) (model.PublicUser, error) {
	if errs := validate.UserUpdate(req); len(errs) > 0 {
		return model.PublicUser{}, apierror.Validation(errs)
	}

	privileged := requesterRoleID == model.RoleAdmin || requesterRoleID == model.RoleModerator
	if req.IsActive != nil && !privileged {
		return model.PublicUser{}, apierror.New("FORBIDDEN", "Only admins or moderators may change account status", "isActive", http.StatusForbidden)
	}
	if req.RoleID != nil {
		return model.PublicUser{}, apierror.New("FORBIDDEN", "Role changes are admin-only", "roleId", http.StatusForbidden)
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return model.PublicUser{}, err
	}

	applyUserFields(&user, req)

	updated, err := s.users.Update(ctx, user)
	if err != nil {
		return model.PublicUser{}, err
	}
	return updated.Public(), nil
}

func (s *AuthService) UpdatePassword(ctx context.Context, userID int64, req model.UpdatePasswordRequest) error {
	if errs := validate.PasswordChange(req); len(errs) > 0 {
		return apierror.Validation(errs)
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return err
	}

	if err := s.hasher.Verify(req.CurrentPassword, user.PasswordHash); err != nil {
		if errors.Is(err, password.ErrMismatch) {
			return apierror.New("UNAUTHORIZED", "Current password is incorrect", "", http.StatusUnauthorized)
		}
		return fmt.Errorf("verify current password: %w", err)
	}

	hash, err := s.hasher.Hash(req.NewPassword)
	if err != nil {
		return err
	}

	return s.users.UpdatePassword(ctx, userID, hash)
}

// AdminUpdateUser may touch any mutable field, including isActive and the
// role. The target role must exist.
func (s *AuthService) AdminUpdateUser(ctx context.Context, userID int64, req model.UpdateUserRequest) (model.PublicUser, error) {
	if errs := validate.UserUpdate(req); len(errs) > 0 {
		return model.PublicUser{}, apierror.Validation(errs)
	}

	if req.RoleID != nil {
		if _, err := s.roles.FindByID(ctx, *req.RoleID); err != nil {
			if errors.Is(err, model.ErrRoleNotFound) {
				return model.PublicUser{}, apierror.Validation([]string{"Role does not exist"})
			}
			return model.PublicUser{}, err
		}
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return model.PublicUser{}, err
	}

	applyUserFields(&user, req)
	if req.RoleID != nil {
		user.RoleID = *req.RoleID
	}

	updated, err := s.users.Update(ctx, user)
	if err != nil {
		return model.PublicUser{}, err
	}
	return updated.Public(), nil
}

// DeleteUser tombstones the account; subsequent lookups, including signin,
// behave as if it never existed.
func (s *AuthService) DeleteUser(ctx context.Context, userID int64) error {
	return s.users.SoftDelete(ctx, userID)
}

func applyUserFields(user *model.User, req model.UpdateUserRequest) {
	if req.Username != nil {
		user.Username = *req.Username
	}
	if req.Email != nil {
		user.Email = *req.Email
	}
	if req.FirstName != nil {
		user.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		user.LastName = *req.LastName
	}
	if req.IsActive != nil {
		user.IsActive = *req.IsActive
	}
}

func invalidCredentials() *apierror.APIError {
	return apierror.New("UNAUTHORIZED", "Invalid credentials", "", http.StatusUnauthorized)
}
