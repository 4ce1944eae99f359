package config

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"credit-organization-api/internal/adapters/persistence/repositories"
	"credit-organization-api/internal/core/domain"
	"credit-organization-api/internal/core/services"
)

// Seeder handles database seeding
type Seeder struct {
	uow       repositories.UnitOfWork
	users     *services.UserService
	loanTypes *services.LoanTypeService
	cfg       SeedConfig
	log       zerolog.Logger
}

// defaultLoanTypes is the catalog created on an empty database
var defaultLoanTypes = []services.LoanTypeInput{
	{Name: "Personal", Description: strPtr("Unsecured loan for personal expenses"), InterestRate: decimal.NewFromFloat(12.5)},
	{Name: "Mortgage", Description: strPtr("Loan secured by real estate"), InterestRate: decimal.NewFromFloat(6.75)},
	{Name: "Auto", Description: strPtr("Loan for purchasing a vehicle"), InterestRate: decimal.NewFromFloat(8.9)},
	{Name: "Education", Description: strPtr("Loan for tuition and study costs"), InterestRate: decimal.NewFromFloat(5.5)},
	{Name: "Business", Description: strPtr("Loan for small business needs"), InterestRate: decimal.NewFromFloat(10)},
}

// NewSeeder creates a new seeder instance
func NewSeeder(uow repositories.UnitOfWork, users *services.UserService, loanTypes *services.LoanTypeService, cfg SeedConfig, log zerolog.Logger) *Seeder {
	return &Seeder{
		uow:       uow,
		users:     users,
		loanTypes: loanTypes,
		cfg:       cfg,
		log:       log.With().Str("component", "seeder").Logger(),
	}
}

// Run executes all seeders. Existing rows are left untouched.
func (s *Seeder) Run(ctx context.Context) error {
	if !s.cfg.Enabled {
		return nil
	}

	accounts := []struct {
		input *services.RegisterInput
		role  domain.Role
	}{
		{
			input: &services.RegisterInput{
				FirstName:   "Admin",
				LastName:    "Admin",
				Email:       s.cfg.AdminEmail,
				PhoneNumber: "+10000000000",
				Password:    s.cfg.AdminPassword,
			},
			role: domain.RoleAdmin,
		},
		{
			input: &services.RegisterInput{
				FirstName:   "Alice",
				LastName:    "Smith",
				Email:       s.cfg.EmployeeEmail,
				PhoneNumber: "+10000000001",
				Password:    s.cfg.EmployeePassword,
			},
			role: domain.RoleEmployee,
		},
	}
	for _, a := range accounts {
		if err := s.seedUser(ctx, a.input, a.role); err != nil {
			return err
		}
	}

	for i := range defaultLoanTypes {
		if err := s.seedLoanType(ctx, &defaultLoanTypes[i]); err != nil {
			return err
		}
	}

	s.log.Info().Msg("database seeding completed")
	return nil
}

func (s *Seeder) seedUser(ctx context.Context, input *services.RegisterInput, role domain.Role) error {
	unique, err := s.uow.Users().IsEmailUnique(ctx, input.Email)
	if err != nil {
		return err
	}
	if !unique {
		return nil
	}

	user, err := s.users.Register(ctx, input, role)
	if err != nil {
		return fmt.Errorf("seed %s %s: %w", role, input.Email, err)
	}
	s.log.Info().Str("email", user.Email).Str("role", string(role)).Msg("account seeded")
	return nil
}

func (s *Seeder) seedLoanType(ctx context.Context, input *services.LoanTypeInput) error {
	exists, err := s.uow.LoanTypes().ExistsByName(ctx, input.Name, uuid.Nil)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	if _, err := s.loanTypes.Create(ctx, input); err != nil {
		return fmt.Errorf("seed loan type %s: %w", input.Name, err)
	}
	return nil
}

func strPtr(s string) *string {
	return &s
}
