package booksrp

import (
	"context"
	"fmt"

	"github.com/analluvias/library-api/pkg/adapter/db/postgres"
	"github.com/analluvias/library-api/pkg/core/cerr"
	"github.com/analluvias/library-api/pkg/core/model"
	"github.com/google/uuid"
	"gorm.io/gorm/clause"
)

type gBook struct {
	ID     uuid.UUID `gorm:"primaryKey;type:uuid"`
	Title  string
	Author string
	Isbn   string `gorm:"uniqueIndex:books_isbn_key"`
}

func (gb *gBook) TableName() string {
	return "books"
}

func (gb *gBook) Model() *model.Book {
	return &model.Book{
		ID:     gb.ID,
		Title:  gb.Title,
		Author: gb.Author,
		Isbn:   gb.Isbn,
	}
}

func Save[Q postgres.Queryer](ctx context.Context, q Q, b *model.Book) (*model.Book, error) {
	gdb := q.GORM(ctx)
	gb := gBook{
		ID:     b.ID,
		Title:  b.Title,
		Author: b.Author,
		Isbn:   b.Isbn,
	}
	if gb.ID == uuid.Nil {
		gb.ID = uuid.New()
	}
	if err := gdb.Create(&gb).Error; err != nil {
		if postgres.IsUniqueViolation(err, "books_isbn_key") {
			return nil, cerr.Conflict(model.ErrDuplicateIsbn)
		}
		return nil, fmt.Errorf("query: %w", err)
	}
	return gb.Model(), nil
}

func FindByID[Q postgres.Queryer](ctx context.Context, q Q, id uuid.UUID) (*model.Book, error) {
	return findOne[Q](ctx, q, "id=?", id)
}

func FindByIsbn[Q postgres.Queryer](ctx context.Context, q Q, isbn string) (*model.Book, error) {
	return findOne[Q](ctx, q, "isbn=?", isbn)
}

func findOne[Q postgres.Queryer](ctx context.Context, q Q, cond string, arg any) (*model.Book, error) {
	gdb := q.GORM(ctx)
	var gb []gBook
	gdb.Where(cond, arg).Limit(1).Find(&gb)
	if err := gdb.Error; err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	if len(gb) == 0 {
		return nil, cerr.NotFound(model.ErrBookNotFound)
	}
	return gb[0].Model(), nil
}

func ExistsByIsbn[Q postgres.Queryer](ctx context.Context, q Q, isbn string) (bool, error) {
	gdb := q.GORM(ctx)
	var count int64
	gdb.Model(&gBook{}).Where("isbn=?", isbn).Count(&count)
	if err := gdb.Error; err != nil {
		return false, fmt.Errorf("query: %w", err)
	}
	return count > 0, nil
}

func UpdateTitleAuthor[Q postgres.Queryer](ctx context.Context, q Q, id uuid.UUID, title, author string) (*model.Book, error) {
	gdb := q.GORM(ctx)
	var gb []gBook
	gdb.Model(&gb).Clauses(clause.Returning{}).Select(
		"title", "author",
	).Where(
		"id=?", id,
	).Updates(gBook{
		Title:  title,
		Author: author,
	})
	if err := gdb.Error; err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	if len(gb) == 0 {
		return nil, cerr.NotFound(model.ErrBookNotFound)
	}
	return gb[0].Model(), nil
}

func Delete[Q postgres.Queryer](ctx context.Context, q Q, id uuid.UUID) error {
	gdb := q.GORM(ctx).Where("id=?", id).Delete(&gBook{})
	if err := gdb.Error; err != nil {
		if postgres.IsForeignKeyViolation(err) {
			return cerr.Conflict(model.ErrBookReferenced)
		}
		return fmt.Errorf("query: %w", err)
	}
	if gdb.RowsAffected == 0 {
		return cerr.NotFound(model.ErrBookNotFound)
	}
	return nil
}

func Find[Q postgres.Queryer](ctx context.Context, q Q, title, author string, limit, offset int) (*model.Page[model.Book], error) {
	gdb := q.GORM(ctx).Model(&gBook{})
	if title != "" {
		gdb = gdb.Where("title ILIKE ?", "%"+title+"%")
	}
	if author != "" {
		gdb = gdb.Where("author ILIKE ?", "%"+author+"%")
	}
	var total int64
	if err := gdb.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("count query: %w", err)
	}
	var gbs []gBook
	err := gdb.Order("isbn").Limit(limit).Offset(offset).Find(&gbs).Error
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	page := &model.Page[model.Book]{
		Content: make([]model.Book, 0, len(gbs)),
		Total:   total,
	}
	for i := range gbs {
		page.Content = append(page.Content, *gbs[i].Model())
	}
	return page, nil
}
