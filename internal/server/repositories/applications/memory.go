package applications

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/connectlink/internal/common"
	"github.com/dmitrijs2005/connectlink/internal/server/models"
	"github.com/google/uuid"
)

type pair struct {
	opportunityID string
	userID        string
}

type MemoryRepository struct {
	mu     sync.RWMutex
	byPair map[pair]*models.Application
	now    func() time.Time
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{byPair: make(map[pair]*models.Application), now: time.Now}
}

func (r *MemoryRepository) Create(ctx context.Context, a *models.Application) (*models.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	k := pair{a.OpportunityID, a.UserID}
	if _, ok := r.byPair[k]; ok {
		return nil, common.ErrAlreadyApplied
	}

	a.ID = uuid.NewString()
	a.CreatedAt = r.now().UTC()

	c := *a
	r.byPair[k] = &c
	return a, nil
}

// Delete removes an application; the memory store uses it to undo a
// failed transaction.
func (r *MemoryRepository) Delete(opportunityID, userID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.byPair, pair{opportunityID, userID})
}

func (r *MemoryRepository) CountByUser(ctx context.Context, userID string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n := 0
	for k := range r.byPair {
		if k.userID == userID {
			n++
		}
	}
	return n, nil
}
