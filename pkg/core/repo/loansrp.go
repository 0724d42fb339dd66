package repo

import (
	"context"
	"time"

	"github.com/analluvias/library-api/pkg/core/model"
	"github.com/google/uuid"
)

type LoansConnQueryer interface {
	LoansQueryer
}

type LoansTxQueryer interface {
	LoansQueryer
}

// LoansQueryer specifies the loan store operations. Save assigns a
// fresh id when the given loan has a zero id and persists it; for a
// book which already has an outstanding loan, it fails with
// model.ErrBookAlreadyLoaned (enforced atomically by the store, so a
// concurrent check-then-insert cannot create two outstanding loans).
// FindOutstandingOlderThan returns all loans whose loan date is less
// than or equal to the cutoff date and whose returned flag is unset or
// false, ordered by loan date.
type LoansQueryer interface {
	Save(ctx context.Context, l *model.Loan) (*model.Loan, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Loan, error)
	ExistsOutstandingForBook(ctx context.Context, bookID uuid.UUID) (bool, error)
	SetReturned(ctx context.Context, id uuid.UUID, returned bool) (*model.Loan, error)
	FindOutstandingOlderThan(ctx context.Context, cutoff time.Time) ([]model.Loan, error)
	Find(ctx context.Context, isbn, customer string, limit, offset int) (*model.Page[model.Loan], error)
	FindByBook(ctx context.Context, bookID uuid.UUID, limit, offset int) (*model.Page[model.Loan], error)
}

type Loans interface {
	Conn(Conn) LoansConnQueryer
	Tx(Tx) LoansTxQueryer
}
