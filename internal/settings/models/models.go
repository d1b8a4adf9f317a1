// Package models holds the practice settings edited by the agent: their own
// profile, the firm's contact details, notification preferences and session
// security options.
package models

import (
	"strings"
	"time"

	"github.com/asaskevich/govalidator"

	"visadesk/internal/notify"
	dErrors "visadesk/pkg/domain-errors"
)

// SessionTimeouts are the accepted idle timeouts, in minutes.
var SessionTimeouts = []int{15, 30, 60, 120}

type Settings struct {
	Profile       Profile       `json:"profile"`
	Firm          Firm          `json:"firm"`
	Notifications Notifications `json:"notifications"`
	Security      Security      `json:"security"`
	UpdatedAt     time.Time     `json:"updatedAt"`
}

// Profile is the registered migration agent running the desk.
type Profile struct {
	FirstName  string `json:"firstName"`
	LastName   string `json:"lastName"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	MARANumber string `json:"maraNumber"`
}

type Firm struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
}

type Notifications struct {
	Email             bool `json:"emailNotifications"`
	SMS               bool `json:"smsNotifications"`
	DeadlineReminders bool `json:"deadlineReminders"`
	ClientUpdates     bool `json:"clientUpdates"`
}

type Security struct {
	TwoFactorAuth  bool `json:"twoFactorAuth"`
	SessionTimeout int  `json:"sessionTimeout"`
}

// Default is the configuration a fresh desk starts with.
func Default() Settings {
	return Settings{
		Profile: Profile{
			FirstName:  "Sarah",
			LastName:   "Mitchell",
			Email:      "sarah.mitchell@visaflow.com.au",
			Phone:      "+61 2 9876 5432",
			MARANumber: "1234567",
		},
		Firm: Firm{
			Name:    "VisaFlow Immigration Services",
			Address: "Level 15, 123 Collins Street, Melbourne VIC 3000",
			Phone:   "+61 2 9876 5400",
			Email:   "info@visaflow.com.au",
		},
		Notifications: Notifications{
			Email:             true,
			DeadlineReminders: true,
			ClientUpdates:     true,
		},
		Security: Security{SessionTimeout: 30},
	}
}

// Allows applies the preferences to an outgoing event. Deadline reminders
// and client activity can be muted; errors always get through.
func (n Notifications) Allows(e notify.Event) bool {
	if e.Level == notify.LevelError {
		return true
	}
	switch notify.SubjectKind(e.Subject) {
	case notify.SubjectDeadline:
		return n.DeadlineReminders
	case notify.SubjectClient, notify.SubjectDocument:
		return n.ClientUpdates
	}
	return true
}

// Prepare trims the text fields and checks the result.
func Prepare(in Settings) (Settings, error) {
	for _, p := range []*string{
		&in.Profile.FirstName, &in.Profile.LastName, &in.Profile.Email, &in.Profile.Phone, &in.Profile.MARANumber,
		&in.Firm.Name, &in.Firm.Address, &in.Firm.Phone, &in.Firm.Email,
	} {
		*p = strings.TrimSpace(*p)
	}
	if err := in.check(); err != nil {
		return Settings{}, err
	}
	return in, nil
}

func (s Settings) check() error {
	p, f := s.Profile, s.Firm
	switch {
	case !govalidator.StringLength(p.FirstName, "1", "100"), !govalidator.StringLength(p.LastName, "1", "100"):
		return invalid("profile name is required")
	case !govalidator.IsEmail(p.Email):
		return invalid("profile email is invalid")
	case !govalidator.StringLength(p.Phone, "1", "32"):
		return invalid("profile phone is required")
	case !govalidator.IsNumeric(p.MARANumber) || !govalidator.StringLength(p.MARANumber, "7", "7"):
		return invalid("MARA number must be 7 digits")
	case !govalidator.StringLength(f.Name, "1", "200"):
		return invalid("firm name is required")
	case !govalidator.StringLength(f.Address, "1", "300"):
		return invalid("firm address is required")
	case !govalidator.StringLength(f.Phone, "1", "32"):
		return invalid("firm phone is required")
	case !govalidator.IsEmail(f.Email):
		return invalid("firm email is invalid")
	}
	for _, minutes := range SessionTimeouts {
		if s.Security.SessionTimeout == minutes {
			return nil
		}
	}
	return invalid("session timeout must be 15, 30, 60 or 120 minutes")
}

func invalid(msg string) error {
	return dErrors.New(dErrors.CodeInvariantViolation, msg)
}
