package api

import (
	"time"

	"github.com/akash0382/ApniSec/internal/server/models"
	"github.com/akash0382/ApniSec/internal/server/services"
)

type userView struct {
	ID    string  `json:"id"`
	Email string  `json:"email"`
	Name  *string `json:"name"`
}

type sessionView struct {
	User         userView `json:"user"`
	AccessToken  string   `json:"accessToken"`
	RefreshToken string   `json:"refreshToken"`
}

type profileView struct {
	ID        string     `json:"id"`
	Email     string     `json:"email"`
	Name      *string    `json:"name"`
	CreatedAt *time.Time `json:"createdAt,omitempty"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

type issueView struct {
	ID          string               `json:"id"`
	Type        models.IssueType     `json:"type"`
	Title       string               `json:"title"`
	Description string               `json:"description"`
	Priority    models.IssuePriority `json:"priority"`
	Status      models.IssueStatus   `json:"status"`
	UserID      string               `json:"userId"`
	EvidenceKey *string              `json:"evidenceKey,omitempty"`
	CreatedAt   time.Time            `json:"createdAt"`
	UpdatedAt   time.Time            `json:"updatedAt"`
}

type evidenceView struct {
	Key string `json:"key,omitempty"`
	URL string `json:"url"`
}

func newUserView(u *models.User) userView {
	return userView{ID: u.ID, Email: u.Email, Name: u.Name}
}

func newSessionView(s *services.Session) sessionView {
	return sessionView{User: newUserView(s.User), AccessToken: s.AccessToken, RefreshToken: s.RefreshToken}
}

func newProfileView(u *models.User, withCreated bool) profileView {
	v := profileView{ID: u.ID, Email: u.Email, Name: u.Name, UpdatedAt: u.UpdatedAt}
	if withCreated {
		created := u.CreatedAt
		v.CreatedAt = &created
	}
	return v
}

func newIssueView(i *models.Issue) issueView {
	return issueView{
		ID:          i.ID,
		Type:        i.Type,
		Title:       i.Title,
		Description: i.Description,
		Priority:    i.Priority,
		Status:      i.Status,
		UserID:      i.UserID,
		EvidenceKey: i.EvidenceKey,
		CreatedAt:   i.CreatedAt,
		UpdatedAt:   i.UpdatedAt,
	}
}

func newIssueViews(list []*models.Issue) []issueView {
	out := make([]issueView, 0, len(list))
	for _, i := range list {
		out = append(out, newIssueView(i))
	}
	return out
}
