// Package repomanager owns the persistence handle. The entry point opens one
// RepositoryManager, passes it to the services and closes it on shutdown;
// nothing else opens or closes storage.
package repomanager

import (
	"context"

	"github.com/dmitrijs2005/connectlink/internal/server/repositories/applications"
	"github.com/dmitrijs2005/connectlink/internal/server/repositories/opportunities"
	"github.com/dmitrijs2005/connectlink/internal/server/repositories/users"
)

// Repositories vends the repositories bound to one handle: the pool, or a
// running transaction inside WithinTx.
type Repositories interface {
	Users() users.Repository
	Opportunities() opportunities.Repository
	Applications() applications.Repository
}

type RepositoryManager interface {
	Repositories
	// WithinTx runs fn with repositories bound to a single transaction.
	// The transaction commits when fn returns nil and rolls back otherwise.
	WithinTx(ctx context.Context, fn func(ctx context.Context, r Repositories) error) error
	RunMigrations(ctx context.Context) error
	Ping(ctx context.Context) error
	Close() error
}
