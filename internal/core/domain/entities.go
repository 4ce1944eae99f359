package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Role represents user role in the system
type Role string

const (
	RoleCustomer Role = "Customer"
	RoleEmployee Role = "Employee"
	RoleAdmin    Role = "Admin"
)

// Roles lists every known role.
var Roles = []Role{RoleCustomer, RoleEmployee, RoleAdmin}

// ParseRole matches a role name case-insensitively.
func ParseRole(s string) (Role, bool) {
	for _, r := range Roles {
		if strings.EqualFold(string(r), strings.TrimSpace(s)) {
			return r, true
		}
	}
	return "", false
}

// LoanStatus is the lifecycle state of a loan.
type LoanStatus string

const (
	LoanStatusPending  LoanStatus = "Pending"
	LoanStatusRejected LoanStatus = "Rejected"
	LoanStatusActive   LoanStatus = "Active"
	LoanStatusOverdue  LoanStatus = "Overdue"
	LoanStatusPaid     LoanStatus = "Paid"
)

// ApplicationStatus is the review state of a loan application.
type ApplicationStatus string

const (
	ApplicationStatusPending  ApplicationStatus = "Pending"
	ApplicationStatusApproved ApplicationStatus = "Approved"
	ApplicationStatusRejected ApplicationStatus = "Rejected"
)

var applicationStatuses = []ApplicationStatus{
	ApplicationStatusPending,
	ApplicationStatusApproved,
	ApplicationStatusRejected,
}

// ParseApplicationStatus matches an application status case-insensitively.
func ParseApplicationStatus(s string) (ApplicationStatus, bool) {
	for _, st := range applicationStatuses {
		if strings.EqualFold(string(st), strings.TrimSpace(s)) {
			return st, true
		}
	}
	return "", false
}

// LoanStatus returns the loan state implied by an application decision.
func (s ApplicationStatus) LoanStatus() (LoanStatus, error) {
	switch s {
	case ApplicationStatusApproved:
		return LoanStatusActive, nil
	case ApplicationStatusRejected:
		return LoanStatusRejected, nil
	case ApplicationStatusPending:
		return LoanStatusPending, nil
	default:
		return "", InvalidOperation("Unsupported application status: %s", s)
	}
}

// PaymentStatus is the settlement state of a payment.
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "Pending"
	PaymentStatusCompleted PaymentStatus = "Completed"
	PaymentStatusFailed    PaymentStatus = "Failed"
)

// PaymentMethod is how a payment was made.
type PaymentMethod string

const (
	PaymentMethodCreditCard   PaymentMethod = "CreditCard"
	PaymentMethodDebitCard    PaymentMethod = "DebitCard"
	PaymentMethodPayPal       PaymentMethod = "PayPal"
	PaymentMethodBankTransfer PaymentMethod = "BankTransfer"
	PaymentMethodCash         PaymentMethod = "Cash"
)

// TokenPair represents access and refresh tokens
type TokenPair struct {
	AccessToken           string
	RefreshToken          string
	RefreshTokenExpiresAt time.Time
}

// Principal is the authenticated caller of a request.
type Principal struct {
	UserID uuid.UUID
	Email  string
	Roles  []Role
}

// HasRole reports whether the principal holds any of roles.
func (p Principal) HasRole(roles ...Role) bool {
	for _, have := range p.Roles {
		for _, want := range roles {
			if have == want {
				return true
			}
		}
	}
	return false
}
