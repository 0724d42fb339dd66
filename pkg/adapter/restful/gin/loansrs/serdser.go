package loansrs

import (
	"net/http"
	"time"

	"github.com/analluvias/library-api/pkg/adapter/restful/gin/serdser"
	"github.com/analluvias/library-api/pkg/core/model"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/google/uuid"
)

type loanCreateReq struct {
	Isbn          string `json:"isbn" binding:"required"`
	Customer      string `json:"customer" binding:"required"`
	CustomerEmail string `json:"customer_email" binding:"required,email"`
}

// loanReturnReq takes a non-pointer bool deliberately: a missing
// returned field binds as false, which records an explicit
// not-returned decision, matching the tri-state returned flag.
type loanReturnReq struct {
	Returned bool `json:"returned"`
}

type loanRep struct {
	ID            uuid.UUID `json:"id"`
	BookID        uuid.UUID `json:"book_id"`
	Customer      string    `json:"customer"`
	CustomerEmail string    `json:"customer_email"`
	LoanDate      string    `json:"loan_date"`
	Returned      *bool     `json:"returned"`
}

func serLoan(l *model.Loan) loanRep {
	return loanRep{
		ID:            l.ID,
		BookID:        l.BookID,
		Customer:      l.Customer,
		CustomerEmail: l.CustomerEmail,
		LoanDate:      l.LoanDate.Format(time.DateOnly),
		Returned:      l.Returned,
	}
}

// SerLoansPage serializes one page of loans. It is exported because
// the books resource reuses it for the loans-by-book sub-resource.
func SerLoansPage(page *model.Page[model.Loan]) gin.H {
	loans := make([]loanRep, 0, len(page.Content))
	for i := range page.Content {
		loans = append(loans, serLoan(&page.Content[i]))
	}
	return gin.H{"content": loans, "total": page.Total}
}

func (rs *resource) DserLoanCreateReq(c *gin.Context) *loanCreateReq {
	req := &loanCreateReq{}
	if ok := serdser.Bind(c, req, binding.JSON); !ok {
		return nil
	}
	return req
}

func (rs *resource) DserLoanReturnReq(c *gin.Context) *loanReturnReq {
	req := &loanReturnReq{}
	if ok := serdser.Bind(c, req, binding.JSON); !ok {
		return nil
	}
	return req
}

func dserLoanID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("lid"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"detail": "Path param lid is not UUID.",
		})
		return uuid.Nil, false
	}
	return id, true
}
