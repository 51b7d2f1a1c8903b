package repository

import (
	"context"
)

// UnitOfWork defines the contract for transactional work and type-safe
// repository access. Every repository obtained inside Do is bound to the
// same DB transaction, so a payroll run and its feed entries commit or
// roll back together.
//
// Example usage:
//
//	repoAny, err := uow.GetRepository((*creatorrepo.Repository)(nil))
//	repo := repoAny.(creatorrepo.Repository)
type UnitOfWork interface {
	// Do executes the given function within a transaction boundary.
	// If the function returns an error, the transaction is rolled back.
	Do(ctx context.Context, fn func(uow UnitOfWork) error) error

	// GetRepository returns a repository of the requested interface type,
	// bound to the current transaction/session. Pass a typed nil pointer
	// to the interface, e.g. (*creatorrepo.Repository)(nil).
	GetRepository(repoType any) (any, error)
}
