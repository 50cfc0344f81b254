package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"eventhub/internal/common"
	"eventhub/internal/server/auth"
	"eventhub/internal/server/models"
	"eventhub/internal/server/repositories/repomanager"
)

// ProfileUpdate carries the user fields allowed to change via the profile
// endpoint. Nil fields are left untouched.
type ProfileUpdate struct {
	FirstName *string
	LastName  *string
}

type UserService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	hasher      *auth.PasswordHasher
	codec       *auth.TokenCodec
}

func NewUserService(db *sql.DB, m repomanager.RepositoryManager, hasher *auth.PasswordHasher, codec *auth.TokenCodec) *UserService {
	return &UserService{
		db:          db,
		repomanager: m,
		hasher:      hasher,
		codec:       codec,
	}
}

// Register creates a user with a hashed password and returns the user
// together with a fresh access token. A duplicate email surfaces as
// common.ErrorAlreadyExists.
func (s *UserService) Register(ctx context.Context, email, firstName, lastName, password string) (*models.User, string, error) {

	hashed, err := s.hasher.Hash(password)
	if err != nil {
		return nil, "", common.ErrorInternal
	}

	user := &models.User{
		Email:          email,
		FirstName:      firstName,
		LastName:       lastName,
		HashedPassword: hashed,
	}

	repo := s.repomanager.Users(s.db)

	user, err = repo.Create(ctx, user)
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, "", fmt.Errorf("%w: user with this email already exists", common.ErrorAlreadyExists)
		}
		return nil, "", fmt.Errorf("error creating user: %w", err)
	}

	token, err := s.codec.Encode(user.Email, time.Now())
	if err != nil {
		return nil, "", common.ErrorInternal
	}

	return user, token, nil
}

// Login verifies the credentials and issues an access token. Unknown email
// and wrong password are indistinguishable to the caller.
func (s *UserService) Login(ctx context.Context, email, password string) (*models.User, string, error) {

	repo := s.repomanager.Users(s.db)

	user, err := repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, "", fmt.Errorf("%w: incorrect email or password", common.ErrorUnauthorized)
		}
		return nil, "", common.ErrorInternal
	}

	if !s.hasher.Verify(password, user.HashedPassword) {
		return nil, "", fmt.Errorf("%w: incorrect email or password", common.ErrorUnauthorized)
	}

	token, err := s.codec.Encode(user.Email, time.Now())
	if err != nil {
		return nil, "", common.ErrorInternal
	}

	return user, token, nil
}

// UpdateProfile applies the non-nil fields of upd to the user's profile.
func (s *UserService) UpdateProfile(ctx context.Context, user *models.User, upd ProfileUpdate) (*models.User, error) {

	firstName := user.FirstName
	lastName := user.LastName
	if upd.FirstName != nil {
		firstName = *upd.FirstName
	}
	if upd.LastName != nil {
		lastName = *upd.LastName
	}

	repo := s.repomanager.Users(s.db)

	updated, err := repo.UpdateProfile(ctx, user.ID, firstName, lastName)
	if err != nil {
		return nil, fmt.Errorf("error updating profile: %w", err)
	}

	return updated, nil
}

// ChangePassword replaces the user's password after checking the old one.
// A wrong old password and a new password equal to the old one both fail
// validation.
func (s *UserService) ChangePassword(ctx context.Context, user *models.User, oldPassword, newPassword string) error {

	if !s.hasher.Verify(oldPassword, user.HashedPassword) {
		return fmt.Errorf("%w: old password is incorrect", common.ErrorValidation)
	}

	if newPassword == oldPassword {
		return fmt.Errorf("%w: new password must differ from the old one", common.ErrorValidation)
	}

	hashed, err := s.hasher.Hash(newPassword)
	if err != nil {
		return common.ErrorInternal
	}

	repo := s.repomanager.Users(s.db)

	if err := repo.UpdatePassword(ctx, user.ID, hashed); err != nil {
		return fmt.Errorf("error updating password: %w", err)
	}

	return nil
}
