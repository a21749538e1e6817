package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/kanban-api/internal/domain"
	"github.com/phrazzld/kanban-api/internal/service/auth"
	"github.com/phrazzld/kanban-api/internal/store"
)

// ProfilePatch describes a partial update of a user profile. Nil fields are
// left unchanged.
type ProfilePatch struct {
	Email       *string
	DisplayName *string
	AvatarURL   *string
	Password    *string
}

// UserService provides user-related operations: registration, credential
// checks, and profile updates.
type UserService interface {
	// Register creates a new user with the given email, password, and
	// display name. The password is bcrypt-hashed before storage.
	// Returns store.ErrEmailExists if the email is already taken.
	Register(ctx context.Context, email, password, displayName string) (*domain.User, error)

	// Authenticate verifies the email/password pair and returns the user.
	// Returns ErrInvalidCredentials on unknown email or wrong password.
	Authenticate(ctx context.Context, email, password string) (*domain.User, error)

	// GetUser retrieves a user by their ID
	GetUser(ctx context.Context, userID uuid.UUID) (*domain.User, error)

	// GetUserByEmail retrieves a user by their email address
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)

	// UpdateProfile applies a partial update to the user's profile.
	// Email edits are normalized to lowercase; a new password is hashed
	// before storage. Returns store.ErrEmailExists on a duplicate email.
	UpdateProfile(ctx context.Context, userID uuid.UUID, patch ProfilePatch) (*domain.User, error)
}

// UserServiceImpl implements the UserService interface
type UserServiceImpl struct {
	userStore store.UserStore
	hasher    auth.PasswordHasher
	verifier  auth.PasswordVerifier
	db        *sql.DB
	logger    *slog.Logger

	// runTx wraps mutations in a database transaction. Overridable in tests.
	runTx func(ctx context.Context, db *sql.DB, fn store.TxFn) error
}

// NewUserService creates a new UserService
func NewUserService(
	userStore store.UserStore,
	hasher auth.PasswordHasher,
	verifier auth.PasswordVerifier,
	db *sql.DB,
	logger *slog.Logger,
) UserService {
	return &UserServiceImpl{
		userStore: userStore,
		hasher:    hasher,
		verifier:  verifier,
		db:        db,
		logger:    logger.With("component", "user_service"),
		runTx:     store.RunInTransaction,
	}
}

// Register creates a new user with the specified email, password, and
// display name. Uses a transaction to ensure atomicity of the operation.
func (s *UserServiceImpl) Register(
	ctx context.Context,
	email, password, displayName string,
) (*domain.User, error) {
	user, err := domain.NewUser(email, password, displayName)
	if err != nil {
		s.logger.Debug("failed to create user object",
			"error", err,
			"email", email)
		return nil, fmt.Errorf("failed to register user: %w", err)
	}

	hashed, err := s.hasher.Hash(user.Password)
	if err != nil {
		s.logger.Error("failed to hash password",
			"error", err,
			"email", email)
		return nil, fmt.Errorf("failed to register user: %w", err)
	}
	user.HashedPassword = hashed
	user.Password = ""

	err = s.runTx(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		txStore := s.userStore.WithTx(tx)
		return txStore.Create(ctx, user)
	})

	if err != nil {
		if errors.Is(err, store.ErrEmailExists) {
			s.logger.Debug("attempted to register with existing email",
				"email", email)
		} else {
			s.logger.Error("failed to save user to database",
				"error", err,
				"email", email)
		}
		return nil, fmt.Errorf("failed to register user: %w", err)
	}

	s.logger.Info("user registered successfully",
		"user_id", user.ID,
		"email", user.Email)

	return user, nil
}

// Authenticate verifies the email/password pair and returns the user.
// Unknown email and wrong password are deliberately indistinguishable to the
// caller: both return ErrInvalidCredentials.
func (s *UserServiceImpl) Authenticate(
	ctx context.Context,
	email, password string,
) (*domain.User, error) {
	user, err := s.userStore.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			s.logger.Debug("login attempt for unknown email",
				"email", email)
			return nil, ErrInvalidCredentials
		}
		s.logger.Error("failed to retrieve user for login",
			"error", err,
			"email", email)
		return nil, fmt.Errorf("failed to authenticate user: %w", err)
	}

	if err := s.verifier.Compare(user.HashedPassword, password); err != nil {
		s.logger.Debug("login attempt with wrong password",
			"user_id", user.ID)
		return nil, ErrInvalidCredentials
	}

	s.logger.Debug("user authenticated successfully",
		"user_id", user.ID)

	return user, nil
}

// GetUser retrieves a user by their ID
func (s *UserServiceImpl) GetUser(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	user, err := s.userStore.GetByID(ctx, userID)
	if err != nil {
		s.logger.Error("failed to retrieve user",
			"error", err,
			"user_id", userID)
		return nil, fmt.Errorf("failed to retrieve user: %w", err)
	}

	return user, nil
}

// GetUserByEmail retrieves a user by their email address
func (s *UserServiceImpl) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	user, err := s.userStore.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			s.logger.Debug("user not found by email",
				"email", email)
		} else {
			s.logger.Error("failed to retrieve user by email",
				"error", err,
				"email", email)
		}
		return nil, fmt.Errorf("failed to retrieve user by email: %w", err)
	}

	return user, nil
}

// UpdateProfile applies a partial update to the user's profile.
// Following the pattern of getting the complete user first, applying the
// changed fields, then saving the complete object back.
// Uses a transaction to ensure atomicity of the operation.
func (s *UserServiceImpl) UpdateProfile(
	ctx context.Context,
	userID uuid.UUID,
	patch ProfilePatch,
) (*domain.User, error) {
	var updated *domain.User

	err := s.runTx(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		txStore := s.userStore.WithTx(tx)

		user, err := txStore.GetByID(ctx, userID)
		if err != nil {
			s.logger.Error("failed to retrieve user for profile update",
				"error", err,
				"user_id", userID)
			return fmt.Errorf("failed to retrieve user for update: %w", err)
		}

		if patch.Email != nil {
			user.Email = domain.NormalizeEmail(*patch.Email)
		}
		if patch.DisplayName != nil {
			user.DisplayName = *patch.DisplayName
		}
		if patch.AvatarURL != nil {
			user.AvatarURL = *patch.AvatarURL
		}
		if patch.Password != nil {
			user.Password = *patch.Password
			if err := user.Validate(); err != nil {
				return err
			}
			hashed, err := s.hasher.Hash(*patch.Password)
			if err != nil {
				s.logger.Error("failed to hash new password",
					"error", err,
					"user_id", userID)
				return fmt.Errorf("failed to update password: %w", err)
			}
			user.HashedPassword = hashed
			user.Password = ""
		}

		if err := txStore.Update(ctx, user); err != nil {
			if errors.Is(err, store.ErrEmailExists) {
				s.logger.Debug("attempted to update to an existing email",
					"user_id", userID)
			} else {
				s.logger.Error("failed to update user profile",
					"error", err,
					"user_id", userID)
			}
			return fmt.Errorf("failed to update user profile: %w", err)
		}

		updated = user
		return nil
	})

	if err != nil {
		return nil, err
	}

	s.logger.Info("user profile updated successfully",
		"user_id", userID)

	return updated, nil
}
