package repomanager

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/connectlink/internal/server/models"
	"github.com/dmitrijs2005/connectlink/internal/server/repositories/applications"
	"github.com/dmitrijs2005/connectlink/internal/server/repositories/opportunities"
	"github.com/dmitrijs2005/connectlink/internal/server/repositories/users"
)

// MemoryRepositoryManager keeps everything in process memory. It backs the
// "memory" storage mode and the end-to-end tests. Transactions are
// serialized; applications created inside a failed transaction are removed
// again.
type MemoryRepositoryManager struct {
	users         *users.MemoryRepository
	opportunities *opportunities.MemoryRepository
	applications  *applications.MemoryRepository
	txMu          sync.Mutex
}

func NewMemoryRepositoryManager() *MemoryRepositoryManager {
	return &MemoryRepositoryManager{
		users:         users.NewMemoryRepository(),
		opportunities: opportunities.NewMemoryRepository(),
		applications:  applications.NewMemoryRepository(),
	}
}

func (m *MemoryRepositoryManager) Users() users.Repository {
	return m.users
}

func (m *MemoryRepositoryManager) Opportunities() opportunities.Repository {
	return m.opportunities
}

func (m *MemoryRepositoryManager) Applications() applications.Repository {
	return m.applications
}

func (m *MemoryRepositoryManager) WithinTx(ctx context.Context, fn func(ctx context.Context, r Repositories) error) (err error) {
	m.txMu.Lock()
	defer m.txMu.Unlock()

	tx := &memoryTx{m: m, apps: &journaledApplications{MemoryRepository: m.applications}}
	defer func() {
		if p := recover(); p != nil {
			tx.apps.undo()
			panic(p)
		}
		if err != nil {
			tx.apps.undo()
		}
	}()

	return fn(ctx, tx)
}

func (m *MemoryRepositoryManager) RunMigrations(ctx context.Context) error { return nil }

func (m *MemoryRepositoryManager) Ping(ctx context.Context) error { return nil }

func (m *MemoryRepositoryManager) Close() error { return nil }

type memoryTx struct {
	m    *MemoryRepositoryManager
	apps *journaledApplications
}

func (t *memoryTx) Users() users.Repository                 { return t.m.users }
func (t *memoryTx) Opportunities() opportunities.Repository { return t.m.opportunities }
func (t *memoryTx) Applications() applications.Repository   { return t.apps }

// journaledApplications remembers what it created so a failed transaction
// can take it back.
type journaledApplications struct {
	*applications.MemoryRepository
	created []models.Application
}

func (j *journaledApplications) Create(ctx context.Context, a *models.Application) (*models.Application, error) {
	got, err := j.MemoryRepository.Create(ctx, a)
	if err != nil {
		return nil, err
	}
	j.created = append(j.created, *got)
	return got, nil
}

func (j *journaledApplications) undo() {
	for _, a := range j.created {
		j.MemoryRepository.Delete(a.OpportunityID, a.UserID)
	}
}
