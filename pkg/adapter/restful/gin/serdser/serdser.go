package serdser

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/analluvias/library-api/pkg/core/cerr"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

func Bind(c *gin.Context, req any, b binding.Binding) bool {
	switch err := c.ShouldBindWith(req, b).(type) {
	case *validator.InvalidValidationError:
		c.JSON(http.StatusInternalServerError, gin.H{
			"detail": err.Error(),
		})
	case validator.ValidationErrors:
		var nameToErrs map[string][]string
		for _, ferr := range err {
			AddErr(&nameToErrs, ferr.Field(), ferr.Error())
		}
		c.JSON(http.StatusBadRequest, nameToErrs)
	default:
		if err == nil {
			return true
		}
		c.JSON(http.StatusBadRequest, gin.H{
			"detail": err.Error(),
		})
	}
	return false
}

func AddErr(errs *map[string][]string, name string, msgs ...string) {
	if (*errs) == nil {
		*errs = make(map[string][]string)
	}
	if elist, ok := (*errs)[name]; !ok {
		(*errs)[name] = msgs
	} else {
		(*errs)[name] = append(elist, msgs...)
	}
}

// DserPage deserializes the page and size query params, falling back
// to the first page with the default size. It returns the SQL limit
// and offset values. Invalid numbers are reported to the client and
// indicated by ok=false.
func DserPage(c *gin.Context) (limit, offset int, ok bool) {
	const defaultSize = 20
	page, ok := uintQuery(c, "page", 0)
	if !ok {
		return 0, 0, false
	}
	size, ok := uintQuery(c, "size", defaultSize)
	if !ok {
		return 0, 0, false
	}
	if size == 0 {
		size = defaultSize
	}
	return size, page * size, true
}

func uintQuery(c *gin.Context, name string, dflt int) (int, bool) {
	s, found := c.GetQuery(name)
	if !found {
		return dflt, true
	}
	v, err := strconv.ParseUint(s, 10, 16)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"detail": "Query param " + name + " must be a small non-negative integer.",
		})
		return 0, false
	}
	return int(v), true
}

func SerErr(c *gin.Context, err error) {
	var ce *cerr.Error
	if errors.As(err, &ce) {
		c.JSON(ce.HTTPStatusCode, gin.H{
			"detail": ce.Err.Error(),
		})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{
		"detail": err.Error(),
	})
}
