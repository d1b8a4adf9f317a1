package models

import (
	"strings"
	"time"

	"github.com/asaskevich/govalidator"

	dErrors "visadesk/pkg/domain-errors"
)

type Status string

const (
	StatusActive    Status = "Active"
	StatusPending   Status = "Pending"
	StatusCompleted Status = "Completed"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusActive, StatusPending, StatusCompleted:
		return true
	}
	return false
}

// Client is a person the practice represents.
//
// Invariants:
//   - FirstName and LastName are non-empty, at most 100 characters
//   - Email, when set, is a valid address of at most 255 characters
//   - Status is Active, Pending or Completed
//   - ID is assigned by the store and never changes
type Client struct {
	ID             int       `json:"Id"`
	FirstName      string    `json:"firstName"`
	LastName       string    `json:"lastName"`
	Email          string    `json:"email"`
	Phone          string    `json:"phone"`
	Nationality    string    `json:"nationality"`
	DateOfBirth    string    `json:"dateOfBirth,omitempty"`
	PassportNumber string    `json:"passportNumber,omitempty"`
	Status         Status    `json:"status"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

func (c Client) Key() int { return c.ID }

func (c Client) WithKey(id int) Client {
	c.ID = id
	return c
}

func (c Client) Clone() Client { return c }

// FullName is "First Last".
func (c Client) FullName() string {
	return strings.TrimSpace(c.FirstName + " " + c.LastName)
}

// NewClient builds a client from caller input. An empty status defaults to
// Pending.
func NewClient(in Client, now time.Time) (Client, error) {
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	in.Email = strings.TrimSpace(in.Email)
	if in.Status == "" {
		in.Status = StatusPending
	}
	in.ID = 0
	in.CreatedAt = now
	in.UpdatedAt = now
	if err := in.check(); err != nil {
		return Client{}, err
	}
	return in, nil
}

func (c Client) check() error {
	if c.FirstName == "" || c.LastName == "" {
		return dErrors.New(dErrors.CodeInvariantViolation, "first and last name are required")
	}
	if !govalidator.StringLength(c.FirstName, "1", "100") || !govalidator.StringLength(c.LastName, "1", "100") {
		return dErrors.New(dErrors.CodeInvariantViolation, "names must be at most 100 characters")
	}
	if c.Email != "" && (!govalidator.StringLength(c.Email, "3", "255") || !govalidator.IsEmail(c.Email)) {
		return dErrors.New(dErrors.CodeInvariantViolation, "invalid email")
	}
	if !govalidator.StringLength(c.Phone, "0", "32") || !govalidator.StringLength(c.PassportNumber, "0", "20") {
		return dErrors.New(dErrors.CodeInvariantViolation, "phone or passport number too long")
	}
	if !c.Status.IsValid() {
		return dErrors.New(dErrors.CodeInvariantViolation, "unknown client status")
	}
	return nil
}

// Patch holds a partial update. Nil fields are left untouched.
type Patch struct {
	FirstName      *string `json:"firstName"`
	LastName       *string `json:"lastName"`
	Email          *string `json:"email"`
	Phone          *string `json:"phone"`
	Nationality    *string `json:"nationality"`
	DateOfBirth    *string `json:"dateOfBirth"`
	PassportNumber *string `json:"passportNumber"`
	Status         *Status `json:"status"`
}

// Apply merges p into c and stamps UpdatedAt.
func (c Client) Apply(p Patch, now time.Time) (Client, error) {
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = strings.TrimSpace(*src)
		}
	}
	set(&c.FirstName, p.FirstName)
	set(&c.LastName, p.LastName)
	set(&c.Email, p.Email)
	set(&c.Phone, p.Phone)
	set(&c.Nationality, p.Nationality)
	set(&c.DateOfBirth, p.DateOfBirth)
	set(&c.PassportNumber, p.PassportNumber)
	if p.Status != nil {
		c.Status = *p.Status
	}
	c.UpdatedAt = now
	if err := c.check(); err != nil {
		return Client{}, err
	}
	return c, nil
}
