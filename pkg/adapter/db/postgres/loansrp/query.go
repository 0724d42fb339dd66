package loansrp

import (
	"context"
	"fmt"
	"time"

	"github.com/analluvias/library-api/pkg/adapter/db/postgres"
	"github.com/analluvias/library-api/pkg/core/cerr"
	"github.com/analluvias/library-api/pkg/core/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// gLoan is stored in the loans table. The loans_outstanding_key
// partial unique index over (book_id) where returned is not true
// serializes loan creation per book: out of two concurrent inserts
// for one book, the second violates the index and is translated to
// model.ErrBookAlreadyLoaned.
type gLoan struct {
	ID            uuid.UUID `gorm:"primaryKey;type:uuid"`
	BookID        uuid.UUID `gorm:"type:uuid"`
	Customer      string
	CustomerEmail string
	LoanDate      time.Time
	Returned      *bool
}

func (gl *gLoan) TableName() string {
	return "loans"
}

func (gl *gLoan) Model() *model.Loan {
	return &model.Loan{
		ID:            gl.ID,
		BookID:        gl.BookID,
		Customer:      gl.Customer,
		CustomerEmail: gl.CustomerEmail,
		LoanDate:      gl.LoanDate,
		Returned:      gl.Returned,
	}
}

func Save[Q postgres.Queryer](ctx context.Context, q Q, l *model.Loan) (*model.Loan, error) {
	gdb := q.GORM(ctx)
	gl := gLoan{
		ID:            l.ID,
		BookID:        l.BookID,
		Customer:      l.Customer,
		CustomerEmail: l.CustomerEmail,
		LoanDate:      l.LoanDate,
		Returned:      l.Returned,
	}
	if gl.ID == uuid.Nil {
		gl.ID = uuid.New()
	}
	if err := gdb.Create(&gl).Error; err != nil {
		switch {
		case postgres.IsUniqueViolation(err, "loans_outstanding_key"):
			return nil, cerr.Conflict(model.ErrBookAlreadyLoaned)
		case postgres.IsForeignKeyViolation(err):
			return nil, cerr.NotFound(model.ErrBookNotFound)
		}
		return nil, fmt.Errorf("query: %w", err)
	}
	return gl.Model(), nil
}

func FindByID[Q postgres.Queryer](ctx context.Context, q Q, id uuid.UUID) (*model.Loan, error) {
	gdb := q.GORM(ctx)
	var gl []gLoan
	gdb.Where("id=?", id).Limit(1).Find(&gl)
	if err := gdb.Error; err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	if len(gl) == 0 {
		return nil, cerr.NotFound(model.ErrLoanNotFound)
	}
	return gl[0].Model(), nil
}

func ExistsOutstandingForBook[Q postgres.Queryer](ctx context.Context, q Q, bookID uuid.UUID) (bool, error) {
	gdb := q.GORM(ctx)
	var count int64
	gdb.Model(&gLoan{}).Where(
		"book_id=? AND returned IS NOT TRUE", bookID,
	).Count(&count)
	if err := gdb.Error; err != nil {
		return false, fmt.Errorf("query: %w", err)
	}
	return count > 0, nil
}

func SetReturned[Q postgres.Queryer](ctx context.Context, q Q, id uuid.UUID, returned bool) (*model.Loan, error) {
	gdb := q.GORM(ctx)
	var gl []gLoan
	gdb.Model(&gl).Clauses(clause.Returning{}).Where(
		"id=?", id,
	).Update("returned", returned)
	if err := gdb.Error; err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	if len(gl) == 0 {
		return nil, cerr.NotFound(model.ErrLoanNotFound)
	}
	return gl[0].Model(), nil
}

func FindOutstandingOlderThan[Q postgres.Queryer](ctx context.Context, q Q, cutoff time.Time) ([]model.Loan, error) {
	gdb := q.GORM(ctx)
	var gls []gLoan
	err := gdb.Where(
		"loan_date <= ? AND returned IS NOT TRUE", cutoff,
	).Order("loan_date").Find(&gls).Error
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	loans := make([]model.Loan, 0, len(gls))
	for i := range gls {
		loans = append(loans, *gls[i].Model())
	}
	return loans, nil
}

func Find[Q postgres.Queryer](ctx context.Context, q Q, isbn, customer string, limit, offset int) (*model.Page[model.Loan], error) {
	gdb := q.GORM(ctx).Model(&gLoan{}).Select("loans.*").Joins(
		"JOIN books ON books.id = loans.book_id",
	).Where(
		"books.isbn = ? OR loans.customer = ?", isbn, customer,
	)
	return findPage(gdb, limit, offset)
}

func FindByBook[Q postgres.Queryer](ctx context.Context, q Q, bookID uuid.UUID, limit, offset int) (*model.Page[model.Loan], error) {
	gdb := q.GORM(ctx).Model(&gLoan{}).Where("book_id=?", bookID)
	return findPage(gdb, limit, offset)
}

func findPage(gdb *gorm.DB, limit, offset int) (*model.Page[model.Loan], error) {
	var total int64
	if err := gdb.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("count query: %w", err)
	}
	var gls []gLoan
	err := gdb.Order("loan_date").Limit(limit).Offset(offset).Find(&gls).Error
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	page := &model.Page[model.Loan]{
		Content: make([]model.Loan, 0, len(gls)),
		Total:   total,
	}
	for i := range gls {
		page.Content = append(page.Content, *gls[i].Model())
	}
	return page, nil
}
