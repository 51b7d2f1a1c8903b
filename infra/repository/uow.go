package repository

import (
	"context"
	"fmt"
	"reflect"

	"gorm.io/gorm"

	activityinfra "github.com/natepay/natepay/infra/repository/activity"
	creatorinfra "github.com/natepay/natepay/infra/repository/creator"
	paymentinfra "github.com/natepay/natepay/infra/repository/payment"
	payrollinfra "github.com/natepay/natepay/infra/repository/payroll"
	planinfra "github.com/natepay/natepay/infra/repository/plan"
	subscriberinfra "github.com/natepay/natepay/infra/repository/subscriber"
	"github.com/natepay/natepay/pkg/repository"
	activityrepo "github.com/natepay/natepay/pkg/repository/activity"
	creatorrepo "github.com/natepay/natepay/pkg/repository/creator"
	paymentrepo "github.com/natepay/natepay/pkg/repository/payment"
	payrollrepo "github.com/natepay/natepay/pkg/repository/payroll"
	planrepo "github.com/natepay/natepay/pkg/repository/plan"
	subscriberrepo "github.com/natepay/natepay/pkg/repository/subscriber"
)

// UoW provides transaction boundary and repository access in one
// abstraction. All repositories obtained through GetRepository share the
// transaction session, so a webhook that records a payment, bumps a
// subscriber and appends a feed entry commits atomically.
type UoW struct {
	db           *gorm.DB
	tx           *gorm.DB
	repoRegistry map[reflect.Type]func(*gorm.DB) any
}

// NewUoW creates a new UoW for the given *gorm.DB.
func NewUoW(db *gorm.DB) *UoW {
	return &UoW{
		db: db,
		repoRegistry: map[reflect.Type]func(*gorm.DB) any{
			reflect.TypeOf((*creatorrepo.Repository)(nil)).Elem():    func(db *gorm.DB) any { return creatorinfra.New(db) },
			reflect.TypeOf((*planrepo.Repository)(nil)).Elem():       func(db *gorm.DB) any { return planinfra.New(db) },
			reflect.TypeOf((*subscriberrepo.Repository)(nil)).Elem(): func(db *gorm.DB) any { return subscriberinfra.New(db) },
			reflect.TypeOf((*paymentrepo.Repository)(nil)).Elem():    func(db *gorm.DB) any { return paymentinfra.New(db) },
			reflect.TypeOf((*activityrepo.Repository)(nil)).Elem():   func(db *gorm.DB) any { return activityinfra.New(db) },
			reflect.TypeOf((*payrollrepo.Repository)(nil)).Elem():    func(db *gorm.DB) any { return payrollinfra.New(db) },
		},
	}
}

// Do runs the given function in a transaction boundary, providing a UoW
// bound to that transaction.
func (u *UoW) Do(ctx context.Context, fn func(uow repository.UnitOfWork) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txnUow := &UoW{db: u.db, tx: tx, repoRegistry: u.repoRegistry}
		return fn(txnUow)
	})
}

// GetRepository resolves a repository implementation for the requested
// interface type, bound to the current transaction session. Callers pass
// a typed nil pointer, e.g. (*creatorrepo.Repository)(nil).
func (u *UoW) GetRepository(repoType any) (any, error) {
	t := reflect.TypeOf(repoType)
	if t == nil || t.Kind() != reflect.Ptr {
		return nil, fmt.Errorf("repository type must be a typed nil pointer, got %T", repoType)
	}
	constructor, ok := u.repoRegistry[t.Elem()]
	if !ok {
		return nil, fmt.Errorf("unsupported repository type: %v", t.Elem())
	}
	session := u.tx
	if session == nil {
		session = u.db
	}
	return constructor(session), nil
}

var _ repository.UnitOfWork = (*UoW)(nil)
