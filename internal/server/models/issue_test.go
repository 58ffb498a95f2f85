package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEnumsValid(t *testing.T) {
	assert.True(t, IssueTypeVAPT.Valid())
	assert.True(t, IssueTypeRedTeamAssessment.Valid())
	assert.False(t, IssueType("PHISHING").Valid())

	assert.True(t, PriorityCritical.Valid())
	assert.False(t, IssuePriority("URGENT").Valid())

	assert.True(t, StatusInProgress.Valid())
	assert.False(t, IssueStatus("open").Valid())
}

func TestIssueUpdate_Apply(t *testing.T) {
	issue := &Issue{Type: IssueTypeVAPT, Title: "SQLi", Description: "d", Priority: PriorityMedium, Status: StatusOpen, UserID: "u1"}
	status := StatusResolved
	title := "SQLi on /login"

	IssueUpdate{Title: &title, Status: &status}.Apply(issue)

	assert.Equal(t, "SQLi on /login", issue.Title)
	assert.Equal(t, StatusResolved, issue.Status)
	assert.Equal(t, PriorityMedium, issue.Priority)
	assert.Equal(t, "u1", issue.UserID)
}

func TestUser_DisplayName(t *testing.T) {
	name := "Asha"
	empty := ""
	assert.Equal(t, "Asha", (&User{Email: "a@x.io", Name: &name}).DisplayName())
	assert.Equal(t, "a@x.io", (&User{Email: "a@x.io", Name: &empty}).DisplayName())
	assert.Equal(t, "a@x.io", (&User{Email: "a@x.io"}).DisplayName())
}
