// Package pagination reads page/size query parameters.
package pagination

import (
	"math"
	"strconv"

	"github.com/gin-gonic/gin"

	"spaceship-fleet/maintenance-portal/internal/apierr"
)

const (
	DefaultSize = 20
	MaxSize     = 1000
)

// Page is a zero-based page request.
type Page struct {
	Number int
	Size   int
}

// Offset is the number of rows preceding the page.
func (p Page) Offset() int {
	return p.Number * p.Size
}

// FromQuery reads ?page and ?size. Missing values default to page 0 and
// DefaultSize; non-numeric values and pages whose offset would overflow are
// rejected.
func FromQuery(c *gin.Context) (Page, error) {
	page := Page{Number: 0, Size: DefaultSize}

	if raw := c.Query("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return Page{}, apierr.InvalidParameterType("page", "integer")
		}
		if n > 0 {
			page.Number = n
		}
	}

	if raw := c.Query("size"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return Page{}, apierr.InvalidParameterType("size", "integer")
		}
		if n > 0 {
			page.Size = min(n, MaxSize)
		}
	}

	if page.Number > math.MaxInt/page.Size {
		return Page{}, apierr.Validation("Page number is out of range")
	}
	return page, nil
}
