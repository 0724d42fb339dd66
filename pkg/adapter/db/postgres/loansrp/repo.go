// Package loansrp realizes the loans repository, adapting the loan
// store expectations of the core layer to a PostgreSQL database using
// the GORM framework.
package loansrp

import (
	"context"
	"time"

	"github.com/analluvias/library-api/pkg/adapter/db/postgres"
	"github.com/analluvias/library-api/pkg/core/model"
	"github.com/analluvias/library-api/pkg/core/repo"
	"github.com/google/uuid"
)

type Repo struct {
}

func New() *Repo {
	return &Repo{}
}

type connQueryer struct {
	*postgres.Conn
}

func (loans *Repo) Conn(c repo.Conn) repo.LoansConnQueryer {
	cc := c.(*postgres.Conn)
	return connQueryer{Conn: cc}
}

func (cq connQueryer) Save(ctx context.Context, l *model.Loan) (*model.Loan, error) {
	return Save(ctx, cq.Conn, l)
}

func (cq connQueryer) FindByID(ctx context.Context, id uuid.UUID) (*model.Loan, error) {
	return FindByID(ctx, cq.Conn, id)
}

func (cq connQueryer) ExistsOutstandingForBook(ctx context.Context, bookID uuid.UUID) (bool, error) {
	return ExistsOutstandingForBook(ctx, cq.Conn, bookID)
}

func (cq connQueryer) SetReturned(ctx context.Context, id uuid.UUID, returned bool) (*model.Loan, error) {
	return SetReturned(ctx, cq.Conn, id, returned)
}

func (cq connQueryer) FindOutstandingOlderThan(ctx context.Context, cutoff time.Time) ([]model.Loan, error) {
	return FindOutstandingOlderThan(ctx, cq.Conn, cutoff)
}

func (cq connQueryer) Find(ctx context.Context, isbn, customer string, limit, offset int) (*model.Page[model.Loan], error) {
	return Find(ctx, cq.Conn, isbn, customer, limit, offset)
}

func (cq connQueryer) FindByBook(ctx context.Context, bookID uuid.UUID, limit, offset int) (*model.Page[model.Loan], error) {
	return FindByBook(ctx, cq.Conn, bookID, limit, offset)
}

type txQueryer struct {
	*postgres.Tx
}

func (loans *Repo) Tx(tx repo.Tx) repo.LoansTxQueryer {
	tt := tx.(*postgres.Tx)
	return txQueryer{Tx: tt}
}

func (tq txQueryer) Save(ctx context.Context, l *model.Loan) (*model.Loan, error) {
	return Save(ctx, tq.Tx, l)
}

func (tq txQueryer) FindByID(ctx context.Context, id uuid.UUID) (*model.Loan, error) {
	return FindByID(ctx, tq.Tx, id)
}

func (tq txQueryer) ExistsOutstandingForBook(ctx context.Context, bookID uuid.UUID) (bool, error) {
	return ExistsOutstandingForBook(ctx, tq.Tx, bookID)
}

func (tq txQueryer) SetReturned(ctx context.Context, id uuid.UUID, returned bool) (*model.Loan, error) {
	return SetReturned(ctx, tq.Tx, id, returned)
}

func (tq txQueryer) FindOutstandingOlderThan(ctx context.Context, cutoff time.Time) ([]model.Loan, error) {
	return FindOutstandingOlderThan(ctx, tq.Tx, cutoff)
}

func (tq txQueryer) Find(ctx context.Context, isbn, customer string, limit, offset int) (*model.Page[model.Loan], error) {
	return Find(ctx, tq.Tx, isbn, customer, limit, offset)
}

func (tq txQueryer) FindByBook(ctx context.Context, bookID uuid.UUID, limit, offset int) (*model.Page[model.Loan], error) {
	return FindByBook(ctx, tq.Tx, bookID, limit, offset)
}
