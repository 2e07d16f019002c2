package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	pkgerrors "github.com/angelmondragon/mystore/pkg/errors"
)

// Base is embedded by the storefront repositories.
type Base struct {
	db *gorm.DB
}

func NewBase(db *gorm.DB) Base {
	return Base{db: db}
}

// DB scopes the connection to ctx so cancelled requests abort their queries.
func (b Base) DB(ctx context.Context) *gorm.DB {
	if ctx == nil {
		return b.db
	}
	return b.db.WithContext(ctx)
}

// Rebind returns a Base running on tx, typically a transaction handle. A nil tx keeps
// the current connection.
func (b Base) Rebind(tx *gorm.DB) Base {
	if tx == nil {
		return b
	}
	return Base{db: tx}
}

// LookupError maps a failed single-row lookup of the named entity to CodeNotFound or,
// for anything other than a missing row, CodeDependency.
func LookupError(err error, entity string, id int64) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.Newf(pkgerrors.CodeNotFound, "%s %d not found", entity, id)
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load "+entity)
}
