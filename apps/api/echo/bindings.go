package echoapi

import (
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/pivotpoint/platform/core"
)

var orderingParam = "ordering"

type Ordering struct {
	Orderings []core.DBOrdering
}

func (ord *Ordering) Bind(ctx echo.Context) {
	data := ctx.QueryParams()
	if len(data) == 0 {
		return
	}
	val, ok := data[orderingParam]
	if !ok || len(val) == 0 || val[0] == "" {
		return
	}

	for _, field := range strings.Split(val[0], ",") {
		field = strings.TrimSpace(field)
		descending := strings.HasPrefix(field, "-")
		if descending {
			field = field[1:] // drop "-"
		}
		ord.Orderings = append(ord.Orderings, core.DBOrdering{Field: field, Ascending: !descending})
	}
}

const (
	defaultPageSize = 100
	maxPageSize     = 500
)

// Pagination binds 1-based "page" and "limit" query params.
type Pagination struct {
	Page  int
	Limit int
}

func (p *Pagination) Bind(ctx echo.Context) {
	p.Page = 1
	p.Limit = defaultPageSize

	if raw := ctx.QueryParam("page"); raw != "" {
		if page, err := strconv.Atoi(raw); err == nil && page > 0 {
			p.Page = page
		}
	}
	if raw := ctx.QueryParam("limit"); raw != "" {
		if limit, err := strconv.Atoi(raw); err == nil && limit > 0 {
			if limit > maxPageSize {
				limit = maxPageSize
			}
			p.Limit = limit
		}
	}
}

func (p *Pagination) Offset() int {
	return (p.Page - 1) * p.Limit
}
