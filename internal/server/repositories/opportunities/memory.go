package opportunities

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/dmitrijs2005/connectlink/internal/common"
	"github.com/dmitrijs2005/connectlink/internal/server/models"
	"github.com/google/uuid"
)

// MemoryRepository keeps opportunities in process memory. seq orders
// records created within the same clock tick.
type MemoryRepository struct {
	mu    sync.RWMutex
	items map[string]*models.Opportunity
	seq   map[string]int
	next  int
	now   func() time.Time
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		items: make(map[string]*models.Opportunity),
		seq:   make(map[string]int),
		now:   time.Now,
	}
}

func (r *MemoryRepository) Create(ctx context.Context, o *models.Opportunity) (*models.Opportunity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now().UTC()
	o.ID = uuid.NewString()
	o.CreatedAt = now
	o.UpdatedAt = now
	o.Applicants = 0
	o.Views = 0
	if o.SkillsRequired == nil {
		o.SkillsRequired = []string{}
	}

	r.items[o.ID] = clone(o)
	r.next++
	r.seq[o.ID] = r.next
	return o, nil
}

func (r *MemoryRepository) List(ctx context.Context, status models.OpportunityStatus, limit int) ([]models.Opportunity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]models.Opportunity, 0)
	for _, o := range r.items {
		if o.Status == status {
			result = append(result, *clone(o))
		}
	}

	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.After(result[j].CreatedAt)
		}
		return r.seq[result[i].ID] > r.seq[result[j].ID]
	})

	if limit >= 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (r *MemoryRepository) Get(ctx context.Context, id string) (*models.Opportunity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	o, ok := r.items[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return clone(o), nil
}

func (r *MemoryRepository) View(ctx context.Context, id string) (*models.Opportunity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	o, ok := r.items[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	o.Views++
	return clone(o), nil
}

func (r *MemoryRepository) IncrementApplicants(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	o, ok := r.items[id]
	if !ok {
		return common.ErrorNotFound
	}
	o.Applicants++
	o.UpdatedAt = r.now().UTC()
	return nil
}

func (r *MemoryRepository) CountByStatus(ctx context.Context, status models.OpportunityStatus) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n := 0
	for _, o := range r.items {
		if o.Status == status {
			n++
		}
	}
	return n, nil
}

func clone(o *models.Opportunity) *models.Opportunity {
	c := *o
	c.SkillsRequired = append([]string{}, o.SkillsRequired...)
	return &c
}
