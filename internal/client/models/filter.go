package models

import (
	"strings"

	dErrors "visadesk/pkg/domain-errors"
	pstrings "visadesk/pkg/platform/strings"
)

// Filter narrows the client list. Search is a case-insensitive substring
// over full name, email and nationality.
type Filter struct {
	Search string
	Status Status
}

var statusFilters = map[string]Status{
	"":          "",
	"all":       "",
	"active":    StatusActive,
	"pending":   StatusPending,
	"completed": StatusCompleted,
}

// ParseFilter reads the list query parameters.
func ParseFilter(search, status string) (Filter, error) {
	s, ok := statusFilters[strings.ToLower(strings.TrimSpace(status))]
	if !ok {
		return Filter{}, dErrors.New(dErrors.CodeBadRequest, "unknown status filter: "+status)
	}
	return Filter{Search: strings.TrimSpace(search), Status: s}, nil
}

// Matches reports whether c passes the filter.
func (f Filter) Matches(c Client) bool {
	if f.Status != "" && c.Status != f.Status {
		return false
	}
	return pstrings.ContainsFold(f.Search, c.FirstName+" "+c.LastName, c.Email, c.Nationality)
}
