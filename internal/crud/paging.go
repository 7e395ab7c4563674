package crud

import (
	"errors"
	"math"
	"strconv"

	"github.com/gin-gonic/gin"
)

// MaxPage bounds the page query parameter so page*MaxLimit cannot overflow.
const MaxPage = math.MaxInt32

// PageParams extracts 1-based `page` and `limit` (or `pageSize`) query
// parameters. Missing or invalid values fall back to page 1 and def; pages
// above MaxPage are clamped.
func PageParams(c *gin.Context, def int) (page, size int) {
	page = atoiMin(c.Query("page"), 1, 1)
	if page > MaxPage {
		page = MaxPage
	}
	raw := c.Query("limit")
	if raw == "" {
		raw = c.Query("pageSize")
	}
	size = atoiMin(raw, def, 1)
	if size > MaxLimit {
		size = MaxLimit
	}
	return page, size
}

// Offset converts a 1-based page number into a skip count. It saturates at
// math.MaxInt instead of overflowing.
func Offset(page, size int) int {
	if page < 1 {
		page = 1
	}
	if size < 1 {
		return 0
	}
	if page-1 > math.MaxInt/size {
		return math.MaxInt
	}
	return (page - 1) * size
}

// HasNext reports whether total items extend past the given page.
func HasNext(total, page, size int) bool {
	if total <= 0 || size < 1 {
		return false
	}
	if page < 1 {
		page = 1
	}
	return page < (total-1)/size+1
}

func atoiMin(s string, def, min int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) && s[0] != '-' {
			return math.MaxInt
		}
		return def
	}
	if n < min {
		return def
	}
	return n
}
