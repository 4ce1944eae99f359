package services

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"credit-organization-api/internal/adapters/persistence/models"
	"credit-organization-api/internal/adapters/persistence/repositories"
	"credit-organization-api/internal/core/domain"
	"credit-organization-api/internal/pkg/password"
	"credit-organization-api/internal/pkg/validation"
)

// UserService handles account business logic
type UserService struct {
	uow       repositories.UnitOfWork
	validator *validation.Validator
	log       zerolog.Logger
}

// NewUserService creates a new user service
func NewUserService(uow repositories.UnitOfWork, validator *validation.Validator, log zerolog.Logger) *UserService {
	return &UserService{
		uow:       uow,
		validator: validator,
		log:       log.With().Str("component", "users").Logger(),
	}
}

// Register creates a user holding role, together with an empty refresh
// token row.
func (s *UserService) Register(ctx context.Context, input *RegisterInput, role domain.Role) (*models.UserResponse, error) {
	if err := s.validator.Struct(input); err != nil {
		return nil, err
	}

	// 1. Email must be unused, ignoring case
	unique, err := s.uow.Users().IsEmailUnique(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if !unique {
		return nil, domain.AlreadyExists("User with email %s already exists", input.Email)
	}

	// 2. Hash password
	hash, err := password.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	// 3. Create user, role and token row together
	id := uuid.New()
	user := &models.User{
		ID:              id,
		FirstName:       strings.TrimSpace(input.FirstName),
		LastName:        strings.TrimSpace(input.LastName),
		Email:           strings.TrimSpace(input.Email),
		NormalizedEmail: models.NormalizeEmail(input.Email),
		PhoneNumber:     input.PhoneNumber,
		BirthDate:       input.BirthDate,
		PasswordHash:    hash,
		Roles:           []models.UserRole{{UserID: id, Role: role}},
		RefreshToken:    &models.RefreshToken{UserID: id},
	}
	err = s.uow.WithinTx(ctx, func(tx repositories.UnitOfWork) error {
		return tx.Users().Add(ctx, user)
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, domain.AlreadyExists("User with email %s already exists", input.Email)
		}
		return nil, err
	}

	s.log.Info().Str("user_id", id.String()).Str("role", string(role)).Msg("user registered")
	return user.ToResponse(), nil
}

// GetByID returns a user's profile with roles and address
func (s *UserService) GetByID(ctx context.Context, id uuid.UUID) (*models.UserResponse, error) {
	user, err := s.uow.Users().GetWithDetails(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "User with id %s not found", id)
	}
	return user.ToResponse(), nil
}

// UpdateAddress creates or replaces the user's address
func (s *UserService) UpdateAddress(ctx context.Context, userID uuid.UUID, input *AddressInput) error {
	if err := s.validator.Struct(input); err != nil {
		return err
	}
	if _, err := s.uow.Users().GetByID(ctx, userID); err != nil {
		return notFoundOr(err, "User with id %s not found", userID)
	}

	address := &models.Address{
		CustomerID: userID,
		Line:       input.Line,
		City:       input.City,
		State:      input.State,
		Country:    input.Country,
		PostalCode: input.PostalCode,
	}

	exists, err := s.uow.Addresses().Exists(ctx, userID)
	if err != nil {
		return err
	}
	if exists {
		return s.uow.Addresses().Update(ctx, address)
	}
	return s.uow.Addresses().Add(ctx, address)
}

// ChangePassword replaces the password after checking the current one
func (s *UserService) ChangePassword(ctx context.Context, userID uuid.UUID, input *ChangePasswordInput) error {
	if err := s.validator.Struct(input); err != nil {
		return err
	}

	user, err := s.uow.Users().GetByID(ctx, userID)
	if err != nil {
		return notFoundOr(err, "User with id %s not found", userID)
	}
	if !password.Verify(input.CurrentPassword, user.PasswordHash) {
		return domain.InvalidArgument("Current password is incorrect")
	}

	hash, err := password.Hash(input.NewPassword)
	if err != nil {
		return err
	}
	user.PasswordHash = hash
	if err := s.uow.Users().Update(ctx, user); err != nil {
		return err
	}

	s.log.Info().Str("user_id", userID.String()).Msg("password changed")
	return nil
}

// Delete removes a user and everything they own
func (s *UserService) Delete(ctx context.Context, id uuid.UUID) error {
	user, err := s.uow.Users().GetByID(ctx, id)
	if err != nil {
		return notFoundOr(err, "User with id %s not found", id)
	}
	if err := s.uow.Users().Remove(ctx, user); err != nil {
		return err
	}

	s.log.Info().Str("user_id", id.String()).Msg("user deleted")
	return nil
}
