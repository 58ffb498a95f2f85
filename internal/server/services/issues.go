package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/akash0382/ApniSec/internal/common"
	"github.com/akash0382/ApniSec/internal/logging"
	"github.com/akash0382/ApniSec/internal/server/models"
	"github.com/akash0382/ApniSec/internal/server/notify"
	"github.com/akash0382/ApniSec/internal/server/repositories/repomanager"
	"github.com/akash0382/ApniSec/internal/validation"
)

const (
	MsgIssueNotFound    = "Issue not found"
	MsgIssueForbidden   = "Unauthorized access to issue"
	MsgIssueNoEvidence  = "Issue has no evidence"
	MsgStorageDisabled  = "Evidence storage is not configured"
	issueTypeConstraint = "oneof=CLOUD_SECURITY RETEAM_ASSESSMENT VAPT"
)

type CreateIssueInput struct {
	Type        models.IssueType      `json:"type" validate:"required,oneof=CLOUD_SECURITY RETEAM_ASSESSMENT VAPT"`
	Title       string                `json:"title" validate:"required,min=1,max=200"`
	Description string                `json:"description" validate:"required,min=1,max=5000"`
	Priority    *models.IssuePriority `json:"priority" validate:"omitnil,oneof=LOW MEDIUM HIGH CRITICAL"`
	Status      *models.IssueStatus   `json:"status" validate:"omitnil,oneof=OPEN IN_PROGRESS RESOLVED CLOSED"`
}

type UpdateIssueInput struct {
	Type        *models.IssueType     `json:"type" validate:"omitnil,oneof=CLOUD_SECURITY RETEAM_ASSESSMENT VAPT"`
	Title       *string               `json:"title" validate:"omitnil,min=1,max=200"`
	Description *string               `json:"description" validate:"omitnil,min=1,max=5000"`
	Priority    *models.IssuePriority `json:"priority" validate:"omitnil,oneof=LOW MEDIUM HIGH CRITICAL"`
	Status      *models.IssueStatus   `json:"status" validate:"omitnil,oneof=OPEN IN_PROGRESS RESOLVED CLOSED"`
}

// EvidenceStore hands out presigned object-storage URLs. A nil store
// disables evidence attachments.
type EvidenceStore interface {
	PresignPut(ctx context.Context) (key string, url string, err error)
	PresignGet(ctx context.Context, key string) (string, error)
}

// EvidenceUpload tells the client where to PUT an evidence file.
type EvidenceUpload struct {
	Key string
	URL string
}

// IssueService manages issues on behalf of their owner. Reads check
// existence before ownership; writes check ownership only.
type IssueService struct {
	repos     repomanager.RepositoryManager
	notifier  notify.Notifier
	store     EvidenceStore
	validator *validation.Validator
	logger    logging.Logger
}

func NewIssueService(repos repomanager.RepositoryManager, notifier notify.Notifier, store EvidenceStore,
	v *validation.Validator, logger logging.Logger) *IssueService {
	return &IssueService{repos: repos, notifier: notifier, store: store, validator: v, logger: logger}
}

// List returns the user's issues, newest first. An empty issueType means
// all types.
func (s *IssueService) List(ctx context.Context, userID string, issueType string) ([]*models.Issue, error) {
	var filter *models.IssueType
	if issueType != "" {
		if err := s.validator.Var("type", issueType, issueTypeConstraint); err != nil {
			return nil, err
		}
		t := models.IssueType(issueType)
		filter = &t
	}

	list, err := s.repos.Issues().ListByUser(ctx, userID, filter)
	if err != nil {
		return nil, fmt.Errorf("error listing issues: %w", err)
	}
	return list, nil
}

func (s *IssueService) Get(ctx context.Context, id, userID string) (*models.Issue, error) {
	issue, err := s.repos.Issues().FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.NewNotFoundError(MsgIssueNotFound)
		}
		return nil, fmt.Errorf("error searching issue: %w", err)
	}
	if issue.UserID != userID {
		return nil, common.NewForbiddenError(MsgIssueForbidden)
	}
	return issue, nil
}

func (s *IssueService) Create(ctx context.Context, userID string, in CreateIssueInput) (*models.Issue, error) {
	if err := s.validator.Struct(in); err != nil {
		return nil, err
	}

	issue := &models.Issue{
		Type:        in.Type,
		Title:       in.Title,
		Description: in.Description,
		Priority:    models.PriorityMedium,
		Status:      models.StatusOpen,
		UserID:      userID,
	}
	if in.Priority != nil {
		issue.Priority = *in.Priority
	}
	if in.Status != nil {
		issue.Status = *in.Status
	}

	created, err := s.repos.Issues().Create(ctx, issue)
	if err != nil {
		return nil, fmt.Errorf("error creating issue: %w", err)
	}

	s.notifyOwner(ctx, userID, notify.Notification{
		Kind:             notify.KindIssueCreated,
		IssueType:        string(created.Type),
		IssueTitle:       created.Title,
		IssueDescription: created.Description,
	})
	return created, nil
}

// Update merges in into the issue. An issue deleted between the ownership
// check and the write surfaces as not found.
func (s *IssueService) Update(ctx context.Context, id, userID string, in UpdateIssueInput) (*models.Issue, error) {
	if err := s.validator.Struct(in); err != nil {
		return nil, err
	}
	if err := s.checkOwner(ctx, id, userID); err != nil {
		return nil, err
	}

	updated, err := s.repos.Issues().Update(ctx, id, models.IssueUpdate{
		Type:        in.Type,
		Title:       in.Title,
		Description: in.Description,
		Priority:    in.Priority,
		Status:      in.Status,
	})
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.NewNotFoundError(MsgIssueNotFound)
		}
		return nil, fmt.Errorf("error updating issue: %w", err)
	}

	s.notifyOwner(ctx, userID, notify.Notification{
		Kind:        notify.KindIssueUpdated,
		IssueType:   string(updated.Type),
		IssueTitle:  updated.Title,
		IssueStatus: string(updated.Status),
	})
	return updated, nil
}

func (s *IssueService) Delete(ctx context.Context, id, userID string) error {
	if err := s.checkOwner(ctx, id, userID); err != nil {
		return err
	}

	repo := s.repos.Issues()
	issue, err := repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.NewNotFoundError(MsgIssueNotFound)
		}
		return fmt.Errorf("error searching issue: %w", err)
	}

	if err := repo.Delete(ctx, id); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.NewNotFoundError(MsgIssueNotFound)
		}
		return fmt.Errorf("error deleting issue: %w", err)
	}

	s.notifyOwner(ctx, userID, notify.Notification{Kind: notify.KindIssueDeleted, IssueTitle: issue.Title})
	return nil
}

// CreateEvidenceUpload allocates a storage key for the issue's evidence
// file, replacing any previous one, and returns a presigned upload URL.
func (s *IssueService) CreateEvidenceUpload(ctx context.Context, id, userID string) (*EvidenceUpload, error) {
	if _, err := s.Get(ctx, id, userID); err != nil {
		return nil, err
	}
	if s.store == nil {
		return nil, common.NewUnavailableError(MsgStorageDisabled)
	}

	key, url, err := s.store.PresignPut(ctx)
	if err != nil {
		return nil, fmt.Errorf("presign upload: %w", err)
	}

	if err := s.repos.Issues().SetEvidenceKey(ctx, id, key); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.NewNotFoundError(MsgIssueNotFound)
		}
		return nil, fmt.Errorf("error saving evidence key: %w", err)
	}
	return &EvidenceUpload{Key: key, URL: url}, nil
}

func (s *IssueService) EvidenceDownloadURL(ctx context.Context, id, userID string) (string, error) {
	issue, err := s.Get(ctx, id, userID)
	if err != nil {
		return "", err
	}
	if issue.EvidenceKey == nil {
		return "", common.NewNotFoundError(MsgIssueNoEvidence)
	}
	if s.store == nil {
		return "", common.NewUnavailableError(MsgStorageDisabled)
	}

	url, err := s.store.PresignGet(ctx, *issue.EvidenceKey)
	if err != nil {
		return "", fmt.Errorf("presign download: %w", err)
	}
	return url, nil
}

func (s *IssueService) checkOwner(ctx context.Context, id, userID string) error {
	owner, err := s.repos.Issues().IsOwner(ctx, id, userID)
	if err != nil {
		return fmt.Errorf("error checking issue owner: %w", err)
	}
	if !owner {
		return common.NewForbiddenError(MsgIssueForbidden)
	}
	return nil
}

// notifyOwner fills in the owner's address and hands n to the notifier. A
// failed lookup only skips the notification.
func (s *IssueService) notifyOwner(ctx context.Context, userID string, n notify.Notification) {
	user, err := s.repos.Users().GetByID(ctx, userID)
	if err != nil {
		s.logger.Warn(ctx, "notification skipped, owner lookup failed", "kind", n.Kind, "user_id", userID, "error", err)
		return
	}
	n.To = user.Email
	n.Name = user.DisplayName()
	s.notifier.Notify(ctx, n)
}
