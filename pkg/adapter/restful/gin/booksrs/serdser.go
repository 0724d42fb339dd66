package booksrs

import (
	"net/http"

	"github.com/analluvias/library-api/pkg/adapter/restful/gin/serdser"
	"github.com/analluvias/library-api/pkg/core/model"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/google/uuid"
)

type bookReq struct {
	Title  string `json:"title" binding:"required"`
	Author string `json:"author" binding:"required"`
	Isbn   string `json:"isbn" binding:"required"`
}

// bookUpdateReq deliberately has no isbn field: the isbn is immutable
// after registration, so update requests may only replace the title
// and author values.
type bookUpdateReq struct {
	Title  string `json:"title" binding:"required"`
	Author string `json:"author" binding:"required"`
}

type bookRep struct {
	ID     uuid.UUID `json:"id"`
	Title  string    `json:"title"`
	Author string    `json:"author"`
	Isbn   string    `json:"isbn"`
}

func serBook(b *model.Book) bookRep {
	return bookRep{
		ID:     b.ID,
		Title:  b.Title,
		Author: b.Author,
		Isbn:   b.Isbn,
	}
}

func serBooksPage(page *model.Page[model.Book]) gin.H {
	books := make([]bookRep, 0, len(page.Content))
	for i := range page.Content {
		books = append(books, serBook(&page.Content[i]))
	}
	return gin.H{"content": books, "total": page.Total}
}

func (rs *resource) DserBookReq(c *gin.Context) *bookReq {
	req := &bookReq{}
	if ok := serdser.Bind(c, req, binding.JSON); !ok {
		return nil
	}
	return req
}

func (rs *resource) DserBookUpdateReq(c *gin.Context) *bookUpdateReq {
	req := &bookUpdateReq{}
	if ok := serdser.Bind(c, req, binding.JSON); !ok {
		return nil
	}
	return req
}

func dserBookID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("bid"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"detail": "Path param bid is not UUID.",
		})
		return uuid.Nil, false
	}
	return id, true
}
