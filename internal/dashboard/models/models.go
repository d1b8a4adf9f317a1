package models

import (
	"time"

	appmodels "visadesk/internal/application/models"
	clientmodels "visadesk/internal/client/models"
)

// RecentLimit caps the recent clients and applications lists.
const RecentLimit = 5

type TaskType string

const (
	TaskHealth     TaskType = "health"
	TaskDocument   TaskType = "document"
	TaskCompliance TaskType = "compliance"
	TaskMeeting    TaskType = "meeting"
)

type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// PriorityFor grades a task by how many whole days remain until it is due.
func PriorityFor(daysLeft int) Priority {
	switch {
	case daysLeft <= 30:
		return PriorityHigh
	case daysLeft <= 60:
		return PriorityMedium
	default:
		return PriorityLow
	}
}

// Task is an upcoming deadline on the practice's calendar.
type Task struct {
	ID       int       `json:"id"`
	Title    string    `json:"title"`
	Type     TaskType  `json:"type"`
	DueDate  time.Time `json:"dueDate"`
	Priority Priority  `json:"priority"`
}

// Stats are the headline counts.
type Stats struct {
	TotalClients       int `json:"totalClients"`
	ActiveApplications int `json:"activeApplications"`
	PendingDocuments   int `json:"pendingDocuments"`
	ApprovalsThisMonth int `json:"approvalsThisMonth"`
}

type Summary struct {
	Stats              Stats                   `json:"stats"`
	RecentClients      []clientmodels.Client   `json:"recentClients"`
	RecentApplications []appmodels.Application `json:"recentApplications"`
	UpcomingTasks      []Task                  `json:"upcomingTasks"`
	GeneratedAt        time.Time               `json:"generatedAt"`
}

// StartOfMonth is the first instant of now's month in now's location.
func StartOfMonth(now time.Time) time.Time {
	return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
}

// ComputeStats derives the headline counts. Pending documents are the
// unverified checklist entries across all applications.
func ComputeStats(clients []clientmodels.Client, apps []appmodels.Application, now time.Time) Stats {
	monthStart := StartOfMonth(now)
	st := Stats{TotalClients: len(clients)}
	for _, a := range apps {
		if a.Status.IsActive() {
			st.ActiveApplications++
		}
		st.PendingDocuments += a.UnverifiedDocuments()
		if a.Status == appmodels.StatusApproved && !a.UpdatedAt.Before(monthStart) {
			st.ApprovalsThisMonth++
		}
	}
	return st
}
