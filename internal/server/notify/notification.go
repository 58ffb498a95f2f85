// Package notify renders account and issue notifications and delivers them
// by email without blocking the request that triggered them.
package notify

import "context"

type Kind string

const (
	KindWelcome         Kind = "welcome"
	KindLogin           Kind = "login"
	KindFailedLogin     Kind = "failed-login"
	KindLogout          Kind = "logout"
	KindPasswordReset   Kind = "password-reset"
	KindPasswordChanged Kind = "password-changed"
	KindProfileUpdated  Kind = "profile-updated"
	KindIssueCreated    Kind = "issue-created"
	KindIssueUpdated    Kind = "issue-updated"
	KindIssueDeleted    Kind = "issue-deleted"
)

// Notification is one message to one recipient. Only the fields relevant to
// Kind are read when rendering.
type Notification struct {
	Kind Kind
	To   string
	Name string

	ResetLink string

	IssueType        string
	IssueTitle       string
	IssueDescription string
	IssueStatus      string
}

// Notifier accepts notifications for best-effort delivery. Implementations
// must not block on delivery and never report delivery failures.
type Notifier interface {
	Notify(ctx context.Context, n Notification)
}
