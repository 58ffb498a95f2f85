package models

import "time"

type IssueType string

const (
	IssueTypeCloudSecurity     IssueType = "CLOUD_SECURITY"
	IssueTypeRedTeamAssessment IssueType = "RETEAM_ASSESSMENT"
	IssueTypeVAPT              IssueType = "VAPT"
)

func (t IssueType) Valid() bool {
	switch t {
	case IssueTypeCloudSecurity, IssueTypeRedTeamAssessment, IssueTypeVAPT:
		return true
	}
	return false
}

type IssuePriority string

const (
	PriorityLow      IssuePriority = "LOW"
	PriorityMedium   IssuePriority = "MEDIUM"
	PriorityHigh     IssuePriority = "HIGH"
	PriorityCritical IssuePriority = "CRITICAL"
)

func (p IssuePriority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical:
		return true
	}
	return false
}

type IssueStatus string

const (
	StatusOpen       IssueStatus = "OPEN"
	StatusInProgress IssueStatus = "IN_PROGRESS"
	StatusResolved   IssueStatus = "RESOLVED"
	StatusClosed     IssueStatus = "CLOSED"
)

func (s IssueStatus) Valid() bool {
	switch s {
	case StatusOpen, StatusInProgress, StatusResolved, StatusClosed:
		return true
	}
	return false
}

// Issue is a security finding owned by exactly one user. UserID never
// changes after creation. EvidenceKey is the object-storage key of an
// attached evidence file, if any.
type Issue struct {
	ID          string
	Type        IssueType
	Title       string
	Description string
	Priority    IssuePriority
	Status      IssueStatus
	UserID      string
	EvidenceKey *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IssueUpdate carries the fields to change; nil means unchanged.
type IssueUpdate struct {
	Type        *IssueType
	Title       *string
	Description *string
	Priority    *IssuePriority
	Status      *IssueStatus
}

// Apply merges u into issue in place.
func (u IssueUpdate) Apply(issue *Issue) {
	if u.Type != nil {
		issue.Type = *u.Type
	}
	if u.Title != nil {
		issue.Title = *u.Title
	}
	if u.Description != nil {
		issue.Description = *u.Description
	}
	if u.Priority != nil {
		issue.Priority = *u.Priority
	}
	if u.Status != nil {
		issue.Status = *u.Status
	}
}
