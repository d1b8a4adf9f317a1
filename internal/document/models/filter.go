package models

import (
	"strings"
	"time"

	dErrors "visadesk/pkg/domain-errors"
	pstrings "visadesk/pkg/platform/strings"
)

// StatusFilter selects documents by verification and expiry state.
type StatusFilter string

const (
	FilterAll      StatusFilter = ""
	FilterVerified StatusFilter = "verified"
	FilterPending  StatusFilter = "pending"
	FilterExpired  StatusFilter = "expired"
	FilterMissing  StatusFilter = "missing"
)

// Filter narrows the document list. Search is a case-insensitive substring
// over file name, type and client name. Expiry is judged against Now.
type Filter struct {
	Search        string
	Status        StatusFilter
	ApplicationID int
	Now           time.Time
}

func ParseFilter(search, status string, now time.Time) (Filter, error) {
	f := Filter{Search: strings.TrimSpace(search), Now: now}
	switch s := StatusFilter(strings.ToLower(strings.TrimSpace(status))); s {
	case "all":
		f.Status = FilterAll
	case FilterAll, FilterVerified, FilterPending, FilterExpired, FilterMissing:
		f.Status = s
	default:
		return Filter{}, dErrors.New(dErrors.CodeBadRequest, "unknown status filter: "+status)
	}
	return f, nil
}

func (f Filter) Matches(d Document) bool {
	if f.ApplicationID != 0 && d.ApplicationID != f.ApplicationID {
		return false
	}
	switch f.Status {
	case FilterVerified:
		if !d.Verified {
			return false
		}
	case FilterPending:
		if d.Verified || d.IsExpired(f.Now) {
			return false
		}
	case FilterExpired:
		if !d.IsExpired(f.Now) {
			return false
		}
	case FilterMissing:
		if d.Status != StatusMissing {
			return false
		}
	}
	return pstrings.ContainsFold(f.Search, d.FileName, string(d.Type), d.ClientName)
}
