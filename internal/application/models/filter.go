package models

import (
	"strings"

	dErrors "visadesk/pkg/domain-errors"
	pstrings "visadesk/pkg/platform/strings"
)

// Filter narrows the application list. Search is a case-insensitive
// substring over visa type, reference number and client name.
type Filter struct {
	Search   string
	Status   Status
	ClientID int
}

var statusFilters = map[string]Status{
	"":           "",
	"all":        "",
	"progress":   StatusInProgress,
	"review":     StatusDocumentReview,
	"processing": StatusProcessing,
	"approved":   StatusApproved,
}

// ParseFilter reads the list query parameters.
func ParseFilter(search, status string) (Filter, error) {
	s, ok := statusFilters[strings.ToLower(strings.TrimSpace(status))]
	if !ok {
		return Filter{}, dErrors.New(dErrors.CodeBadRequest, "unknown status filter: "+status)
	}
	return Filter{Search: strings.TrimSpace(search), Status: s}, nil
}

func (f Filter) Matches(a Application) bool {
	if f.ClientID != 0 && a.ClientID != f.ClientID {
		return false
	}
	if f.Status != "" && a.Status != f.Status {
		return false
	}
	return pstrings.ContainsFold(f.Search, a.VisaType, a.ReferenceNumber, a.ClientName)
}
