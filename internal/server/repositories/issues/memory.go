package issues

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/akash0382/ApniSec/internal/common"
	"github.com/akash0382/ApniSec/internal/server/models"
	"github.com/google/uuid"
)

type memoryIssue struct {
	issue models.Issue
	seq   uint64
}

type MemoryRepository struct {
	mu     sync.RWMutex
	issues map[string]*memoryIssue
	seq    uint64
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{issues: make(map[string]*memoryIssue)}
}

func (r *MemoryRepository) Create(ctx context.Context, issue *models.Issue) (*models.Issue, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	issue.ID = uuid.NewString()
	issue.CreatedAt = now
	issue.UpdatedAt = now

	r.seq++
	r.issues[issue.ID] = &memoryIssue{issue: *cloneIssue(issue), seq: r.seq}
	return issue, nil
}

func (r *MemoryRepository) FindByID(ctx context.Context, id string) (*models.Issue, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	m, ok := r.issues[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return cloneIssue(&m.issue), nil
}

func (r *MemoryRepository) ListByUser(ctx context.Context, userID string, issueType *models.IssueType) ([]*models.Issue, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matched := make([]*memoryIssue, 0)
	for _, m := range r.issues {
		if m.issue.UserID != userID {
			continue
		}
		if issueType != nil && m.issue.Type != *issueType {
			continue
		}
		matched = append(matched, m)
	}

	sort.Slice(matched, func(i, j int) bool {
		a, b := matched[i], matched[j]
		if !a.issue.CreatedAt.Equal(b.issue.CreatedAt) {
			return a.issue.CreatedAt.After(b.issue.CreatedAt)
		}
		return a.seq > b.seq
	})

	result := make([]*models.Issue, 0, len(matched))
	for _, m := range matched {
		result = append(result, cloneIssue(&m.issue))
	}
	return result, nil
}

func (r *MemoryRepository) Update(ctx context.Context, id string, upd models.IssueUpdate) (*models.Issue, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	m, ok := r.issues[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	upd.Apply(&m.issue)
	m.issue.UpdatedAt = time.Now().UTC()
	return cloneIssue(&m.issue), nil
}

func (r *MemoryRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.issues[id]; !ok {
		return common.ErrorNotFound
	}
	delete(r.issues, id)
	return nil
}

func (r *MemoryRepository) IsOwner(ctx context.Context, id string, userID string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	m, ok := r.issues[id]
	return ok && m.issue.UserID == userID, nil
}

func (r *MemoryRepository) SetEvidenceKey(ctx context.Context, id string, key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	m, ok := r.issues[id]
	if !ok {
		return common.ErrorNotFound
	}
	m.issue.EvidenceKey = &key
	m.issue.UpdatedAt = time.Now().UTC()
	return nil
}

func cloneIssue(i *models.Issue) *models.Issue {
	c := *i
	if i.EvidenceKey != nil {
		k := *i.EvidenceKey
		c.EvidenceKey = &k
	}
	return &c
}
