package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"credit-organization-api/internal/core/domain"
)

// ============================================================
// Accounts
// ============================================================

// User represents users table
type User struct {
	ID              uuid.UUID     `gorm:"type:char(36);primaryKey" json:"id"`
	FirstName       string        `gorm:"size:100;not null" json:"firstName"`
	LastName        string        `gorm:"size:100;not null" json:"lastName"`
	Email           string        `gorm:"size:256;not null" json:"email"`
	NormalizedEmail string        `gorm:"size:256;uniqueIndex;not null" json:"-"`
	PhoneNumber     string        `gorm:"size:21" json:"phoneNumber"`
	BirthDate       *time.Time    `gorm:"type:date" json:"birthDate"`
	PasswordHash    string        `gorm:"size:255;not null" json:"-"`
	CreatedAt       time.Time     `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt       time.Time     `gorm:"autoUpdateTime" json:"updatedAt"`
	Roles           []UserRole    `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Address         *Address      `gorm:"foreignKey:CustomerID;constraint:OnDelete:CASCADE" json:"-"`
	RefreshToken    *RefreshToken `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

func (User) TableName() string {
	return "users"
}

// NormalizeEmail is the form stored in NormalizedEmail and used for lookups.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// RoleNames returns the user's roles as strings.
func (u *User) RoleNames() []string {
	names := make([]string, len(u.Roles))
	for i, r := range u.Roles {
		names[i] = string(r.Role)
	}
	return names
}

// UserResponse DTO
type UserResponse struct {
	ID          uuid.UUID        `json:"id"`
	FirstName   string           `json:"firstName"`
	LastName    string           `json:"lastName"`
	Email       string           `json:"email"`
	PhoneNumber string           `json:"phoneNumber"`
	BirthDate   *time.Time       `json:"birthDate,omitempty"`
	Roles       []string         `json:"roles"`
	Address     *AddressResponse `json:"address,omitempty"`
}

func (u *User) ToResponse() *UserResponse {
	if u == nil {
		return nil
	}
	return &UserResponse{
		ID:          u.ID,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		Email:       u.Email,
		PhoneNumber: u.PhoneNumber,
		BirthDate:   u.BirthDate,
		Roles:       u.RoleNames(),
		Address:     u.Address.ToResponse(),
	}
}

// UserRole represents user_roles table
type UserRole struct {
	UserID uuid.UUID   `gorm:"type:char(36);primaryKey"`
	Role   domain.Role `gorm:"size:20;primaryKey"`
}

func (UserRole) TableName() string {
	return "user_roles"
}

// Address represents addresses table. One row per customer.
type Address struct {
	CustomerID uuid.UUID `gorm:"type:char(36);primaryKey" json:"customerId"`
	Line       string    `gorm:"size:200;not null" json:"line"`
	City       string    `gorm:"size:100;not null" json:"city"`
	State      string    `gorm:"size:100;not null" json:"state"`
	Country    string    `gorm:"size:100;not null" json:"country"`
	PostalCode string    `gorm:"size:20;not null" json:"postalCode"`
}

func (Address) TableName() string {
	return "addresses"
}

// AddressResponse DTO
type AddressResponse struct {
	Line       string `json:"line"`
	City       string `json:"city"`
	State      string `json:"state"`
	Country    string `json:"country"`
	PostalCode string `json:"postalCode"`
}

func (a *Address) ToResponse() *AddressResponse {
	if a == nil {
		return nil
	}
	return &AddressResponse{
		Line:       a.Line,
		City:       a.City,
		State:      a.State,
		Country:    a.Country,
		PostalCode: a.PostalCode,
	}
}

// RefreshToken represents refresh_tokens table. Exactly one row per user;
// a nil hash means the user is signed out.
type RefreshToken struct {
	UserID    uuid.UUID  `gorm:"type:char(36);primaryKey"`
	TokenHash *string    `gorm:"size:64;index"`
	ExpiresAt *time.Time `gorm:"index"`
}

func (RefreshToken) TableName() string {
	return "refresh_tokens"
}

// IsExpired reports whether the stored token is missing an expiry or past it.
func (rt *RefreshToken) IsExpired(now time.Time) bool {
	return rt.ExpiresAt == nil || !rt.ExpiresAt.After(now)
}

// ============================================================
// Loans
// ============================================================

// LoanType represents loan_types table
type LoanType struct {
	ID           uuid.UUID       `gorm:"type:char(36);primaryKey"`
	Name         string          `gorm:"type:varchar(50) COLLATE utf8mb4_bin;uniqueIndex;not null"`
	Description  *string         `gorm:"size:500"`
	InterestRate decimal.Decimal `gorm:"type:decimal(5,2);not null"`
	CreatedAt    time.Time       `gorm:"autoCreateTime"`
	UpdatedAt    time.Time       `gorm:"autoUpdateTime"`
}

func (LoanType) TableName() string {
	return "loan_types"
}

// LoanTypeResponse DTO
type LoanTypeResponse struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Description  *string   `json:"description"`
	InterestRate float64   `json:"interestRate"`
}

func (lt *LoanType) ToResponse() *LoanTypeResponse {
	if lt == nil {
		return nil
	}
	return &LoanTypeResponse{
		ID:           lt.ID,
		Name:         lt.Name,
		Description:  lt.Description,
		InterestRate: lt.InterestRate.InexactFloat64(),
	}
}

// Loan represents loans table
type Loan struct {
	ID           uuid.UUID         `gorm:"type:char(36);primaryKey"`
	CustomerID   uuid.UUID         `gorm:"type:char(36);index;not null"`
	LoanTypeID   uuid.UUID         `gorm:"type:char(36);index;not null"`
	Status       domain.LoanStatus `gorm:"size:20;index;not null"`
	Amount       decimal.Decimal   `gorm:"type:decimal(18,2);not null"`
	InterestRate decimal.Decimal   `gorm:"type:decimal(5,2);not null"`
	StartDate    time.Time         `gorm:"type:date;not null"`
	EndDate      time.Time         `gorm:"type:date;not null"`
	CreatedAt    time.Time         `gorm:"autoCreateTime"`
	Customer     *User             `gorm:"foreignKey:CustomerID;constraint:OnDelete:CASCADE"`
	LoanType     *LoanType         `gorm:"foreignKey:LoanTypeID;constraint:OnDelete:RESTRICT"`
	Application  *LoanApplication  `gorm:"foreignKey:ID;-:migration"`
}

func (Loan) TableName() string {
	return "loans"
}

// LoanResponse DTO
type LoanResponse struct {
	ID           uuid.UUID         `json:"id"`
	Customer     *UserResponse     `json:"customer,omitempty"`
	LoanType     *LoanTypeResponse `json:"loanType,omitempty"`
	Status       domain.LoanStatus `json:"status"`
	Amount       float64           `json:"amount"`
	InterestRate float64           `json:"interestRate"`
	StartDate    time.Time         `json:"startDate"`
	EndDate      time.Time         `json:"endDate"`
}

func (l *Loan) ToResponse() *LoanResponse {
	if l == nil {
		return nil
	}
	return &LoanResponse{
		ID:           l.ID,
		Customer:     l.Customer.ToResponse(),
		LoanType:     l.LoanType.ToResponse(),
		Status:       l.Status,
		Amount:       l.Amount.InexactFloat64(),
		InterestRate: l.InterestRate.InexactFloat64(),
		StartDate:    l.StartDate,
		EndDate:      l.EndDate,
	}
}

// LoanApplication represents loan_applications table. It shares its
// primary key with the loan it reviews.
type LoanApplication struct {
	ID           uuid.UUID                `gorm:"type:char(36);primaryKey"`
	Date         time.Time                `gorm:"not null"`
	Status       domain.ApplicationStatus `gorm:"size:20;index;not null"`
	ApprovalDate *time.Time               `gorm:"type:date"`
	EmployeeID   *uuid.UUID               `gorm:"type:char(36);index"`
	Loan         *Loan                    `gorm:"foreignKey:ID;constraint:OnDelete:CASCADE"`
	Employee     *User                    `gorm:"foreignKey:EmployeeID;constraint:OnDelete:SET NULL"`
}

func (LoanApplication) TableName() string {
	return "loan_applications"
}

// LoanApplicationResponse DTO
type LoanApplicationResponse struct {
	ID           uuid.UUID                `json:"id"`
	Date         time.Time                `json:"date"`
	Status       domain.ApplicationStatus `json:"status"`
	ApprovalDate *time.Time               `json:"approvalDate"`
	EmployeeID   *uuid.UUID               `json:"employeeId"`
	Employee     *UserResponse            `json:"employee,omitempty"`
	Loan         *LoanResponse            `json:"loan,omitempty"`
}

func (a *LoanApplication) ToResponse() *LoanApplicationResponse {
	if a == nil {
		return nil
	}
	return &LoanApplicationResponse{
		ID:           a.ID,
		Date:         a.Date,
		Status:       a.Status,
		ApprovalDate: a.ApprovalDate,
		EmployeeID:   a.EmployeeID,
		Employee:     a.Employee.ToResponse(),
		Loan:         a.Loan.ToResponse(),
	}
}

// Payment represents payments table
type Payment struct {
	ID            uuid.UUID            `gorm:"type:char(36);primaryKey"`
	LoanID        uuid.UUID            `gorm:"type:char(36);index;not null"`
	Date          time.Time            `gorm:"index;not null"`
	Amount        decimal.Decimal      `gorm:"type:decimal(18,2);not null"`
	Status        domain.PaymentStatus `gorm:"size:20;not null"`
	PaymentMethod domain.PaymentMethod `gorm:"size:20;not null"`
	Loan          *Loan                `gorm:"foreignKey:LoanID;constraint:OnDelete:CASCADE"`
}

func (Payment) TableName() string {
	return "payments"
}

// PaymentResponse DTO
type PaymentResponse struct {
	ID            uuid.UUID            `json:"id"`
	LoanID        uuid.UUID            `json:"loanId"`
	Loan          *LoanResponse        `json:"loan,omitempty"`
	Date          time.Time            `json:"date"`
	Amount        float64              `json:"amount"`
	Status        domain.PaymentStatus `json:"status"`
	PaymentMethod domain.PaymentMethod `json:"paymentMethod"`
}

func (p *Payment) ToResponse() *PaymentResponse {
	if p == nil {
		return nil
	}
	return &PaymentResponse{
		ID:            p.ID,
		LoanID:        p.LoanID,
		Loan:          p.Loan.ToResponse(),
		Date:          p.Date,
		Amount:        p.Amount.InexactFloat64(),
		Status:        p.Status,
		PaymentMethod: p.PaymentMethod,
	}
}

// AutoMigrate creates or updates every table.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&UserRole{},
		&Address{},
		&RefreshToken{},
		&LoanType{},
		&Loan{},
		&LoanApplication{},
		&Payment{},
	)
}
