// Package compliance derives the practice's regulatory standing from the
// catalog profile: expiry warnings, CPD progress and the summary cards shown
// on the compliance page.
package compliance

import (
	"math"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"visadesk/internal/catalog"
)

// ExpiryWindow is how far ahead a registration or policy counts as expiring.
const ExpiryWindow = 90 * 24 * time.Hour

type CardColor string

const (
	ColorSuccess CardColor = "success"
	ColorWarning CardColor = "warning"
	ColorPrimary CardColor = "primary"
	ColorInfo    CardColor = "info"
	ColorDanger  CardColor = "danger"
)

// StatusCard is one headline figure.
type StatusCard struct {
	Title string    `json:"title"`
	Value string    `json:"value"`
	Icon  string    `json:"icon"`
	Color CardColor `json:"color"`
}

type Expiry struct {
	ExpiryDate   time.Time `json:"expiryDate"`
	DaysLeft     int       `json:"daysLeft"`
	ExpiringSoon bool      `json:"expiringSoon"`
}

type CPDProgress struct {
	catalog.CPD
	Percent  int  `json:"percent"`
	Complete bool `json:"complete"`
}

// Report is the computed compliance view at a point in time.
type Report struct {
	Profile      catalog.ComplianceProfile `json:"profile"`
	Registration Expiry                    `json:"registration"`
	Indemnity    Expiry                    `json:"indemnity"`
	CPD          CPDProgress               `json:"cpd"`
	TrustBalance string                    `json:"trustBalance"`
	Cards        []StatusCard              `json:"cards"`
	GeneratedAt  time.Time                 `json:"generatedAt"`
}

var audPrinter = message.NewPrinter(language.MustParse("en-AU"))

// FormatAUD renders whole dollars the way the practice's statements do.
func FormatAUD(amount int64) string {
	return audPrinter.Sprintf("$%.2f", float64(amount))
}

// DaysUntil rounds up partial days, so anything later today counts as one.
func DaysUntil(expiry, now time.Time) int {
	return int(math.Ceil(expiry.Sub(now).Hours() / 24))
}

func expiry(at, now time.Time) Expiry {
	days := DaysUntil(at, now)
	return Expiry{
		ExpiryDate:   at,
		DaysLeft:     days,
		ExpiringSoon: days <= int(ExpiryWindow/(24*time.Hour)),
	}
}

// expiryCard reports current while the date is outside the expiry window,
// then counts down, then shows Expired.
func expiryCard(title, icon, current string, color CardColor, e Expiry) StatusCard {
	card := StatusCard{Title: title, Value: current, Icon: icon, Color: color}
	switch {
	case e.DaysLeft < 0:
		card.Value, card.Color = "Expired", ColorDanger
	case e.DaysLeft == 0:
		card.Value, card.Color = "Expires today", ColorWarning
	case e.ExpiringSoon:
		card.Value, card.Color = audPrinter.Sprintf("Expires in %d days", e.DaysLeft), ColorWarning
	}
	return card
}

func cpdProgress(c catalog.CPD) CPDProgress {
	p := CPDProgress{CPD: c, Complete: c.CompletedHours >= c.RequiredHours}
	if c.RequiredHours > 0 {
		p.Percent = min(100, c.CompletedHours*100/c.RequiredHours)
	} else {
		p.Percent = 100
	}
	return p
}

// Build computes the report for profile as of now.
func Build(profile catalog.ComplianceProfile, now time.Time) Report {
	cpd := cpdProgress(profile.CPD)
	cpdColor := ColorWarning
	if cpd.Complete {
		cpdColor = ColorSuccess
	}
	balance := FormatAUD(profile.ClientFunds.TrustAccountBalance)
	registration := expiry(profile.Registration.ExpiryDate, now)
	indemnity := expiry(profile.Indemnity.ExpiryDate, now)

	return Report{
		Profile:      profile,
		Registration: registration,
		Indemnity:    indemnity,
		CPD:          cpd,
		TrustBalance: balance,
		GeneratedAt:  now,
		Cards: []StatusCard{
			expiryCard("MARA Status", "Shield", profile.Registration.Status, ColorSuccess, registration),
			{Title: "CPD Progress", Value: audPrinter.Sprintf("%d/%dh", cpd.CompletedHours, cpd.RequiredHours), Icon: "BookOpen", Color: cpdColor},
			{Title: "Trust Account", Value: balance, Icon: "DollarSign", Color: ColorPrimary},
			expiryCard("Insurance Status", "Heart", "Active", ColorInfo, indemnity),
		},
	}
}

// Service serves reports for a fixed catalog profile.
type Service struct {
	profile catalog.ComplianceProfile
}

func NewService(c *catalog.Catalog) *Service {
	return &Service{profile: c.Compliance()}
}

func (s *Service) Report(now time.Time) Report {
	return Build(s.profile, now)
}

// Deadline is a dated obligation the dashboard lists as an upcoming task.
type Deadline struct {
	Title string
	Due   time.Time
}

// Deadlines lists the profile's dated obligations that fall on or after now.
func (s *Service) Deadlines(now time.Time) []Deadline {
	all := []Deadline{
		{Title: "MARA registration renewal", Due: s.profile.Registration.ExpiryDate},
		{Title: "Professional indemnity renewal", Due: s.profile.Indemnity.ExpiryDate},
		{Title: "CPD hours deadline", Due: s.profile.CPD.Deadline},
		{Title: "Trust account audit", Due: s.profile.ClientFunds.NextAudit},
	}
	out := all[:0]
	for _, d := range all {
		if !d.Due.IsZero() && !d.Due.Before(now) {
			out = append(out, d)
		}
	}
	return out
}
