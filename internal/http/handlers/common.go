package handlers

import (
	"strconv"
	"strings"

	"rentago/internal/domain"

	"github.com/gin-gonic/gin"
)

// bindPayload accepts JSON or form bodies (gin picks the binder from
// Content-Type) and answers 400 with field errors when binding fails.
func bindPayload[T any](c *gin.Context, dst *T) bool {
	if c.Request.Body == nil || c.Request.ContentLength == 0 {
		RespondDomainError(c, domain.ValidationError{Msg: "body kosong"})
		return false
	}
	if err := c.ShouldBind(dst); err != nil {
		RespondDomainError(c, bindingError(err))
		return false
	}
	return true
}

// pagination reads ?page=&limit= (pageSize is accepted as an alias). Each
// service applies its own default and maximum page size.
func pagination(c *gin.Context) domain.Pagination {
	p := domain.Pagination{
		Page:     queryInt(c, "page"),
		PageSize: queryInt(c, "limit"),
	}
	if p.PageSize == 0 {
		p.PageSize = queryInt(c, "pageSize")
	}
	return p
}

func queryInt(c *gin.Context, key string) int {
	n, err := strconv.Atoi(strings.TrimSpace(c.Query(key)))
	if err != nil {
		return 0
	}
	return n
}

func queryBool(c *gin.Context, key string) bool {
	b, _ := strconv.ParseBool(strings.TrimSpace(c.Query(key)))
	return b
}

// listResponse is the envelope for paginated listings.
func listResponse(data any, page domain.Pagination) gin.H {
	return gin.H{"data": data, "pagination": page}
}
