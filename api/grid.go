package api

import (
	"strconv"
	"strings"

	"github.com/gobuffalo/buffalo"
)

// BlockedFilter narrows a grid query to active, blocked, or all records
type BlockedFilter string

const (
	BlockedFilterAll    = BlockedFilter("all")
	BlockedFilterActive = BlockedFilter("active")
	BlockedFilterOnly   = BlockedFilter("blocked")
)

// GridParams contains the paging protocol used by the UI grid widgets. A grid
// sends draw/start/length plus an optional search column and text, and
// expects the same draw number echoed back with the total and filtered row
// counts.
type GridParams struct {
	// draw is an opaque sequence number echoed back to the grid widget
	draw int

	// start is the zero-based offset of the first row of the page
	start int

	// length sets the number of records returned in a single page. Minimum is 1, maximum is 100
	length int

	// searchField names the column to match searchValue against. Empty means
	// the model's default free-text columns.
	searchField string

	// searchValue is matched accent- and case-insensitively
	searchValue string

	// blocked selects active records, blocked records, or both
	blocked BlockedFilter

	// export lifts the page-size cap so a spreadsheet gets every matched row
	export bool
}

// exportRowCap bounds spreadsheet exports so a runaway filter cannot pull the
// whole table into memory
const exportRowCap = 65000

func (g GridParams) Draw() int {
	return g.draw
}

func (g GridParams) Start() int {
	s := g.start
	if s < 0 {
		s = 0
	}
	return s
}

func (g GridParams) Length() int {
	if g.export {
		return exportRowCap
	}
	l := g.length
	if l < 1 {
		l = 1
	}
	if l > 100 {
		l = 100
	}
	return l
}

// ForExport rewinds paging and lifts the page-size cap
func (g *GridParams) ForExport() {
	g.start = 0
	g.export = true
}

func (g GridParams) SearchField() string {
	return g.searchField
}

func (g GridParams) SearchValue() string {
	return g.searchValue
}

func (g GridParams) Blocked() BlockedFilter {
	return g.blocked
}

func (g GridParams) HasSearch() bool {
	return g.searchValue != ""
}

// NewGridParams parses query string parameter values into valid grid criteria.
//
// Example:
//
//	"draw=3&start=20&length=10&searchField=name&searchValue=ACME&blocked=active"
func NewGridParams(values buffalo.ParamValues) GridParams {
	g := GridParams{length: 10, blocked: BlockedFilterAll}

	g.searchField = strings.TrimSpace(values.Get("searchField"))
	g.searchValue = strings.TrimSpace(values.Get("searchValue"))

	if draw := values.Get("draw"); draw != "" {
		if i, err := strconv.Atoi(strings.TrimSpace(draw)); err == nil {
			g.draw = i
		}
	}

	if start := values.Get("start"); start != "" {
		if i, err := strconv.Atoi(strings.TrimSpace(start)); err == nil {
			g.start = i
		}
	}

	if length := values.Get("length"); length != "" {
		if i, err := strconv.Atoi(strings.TrimSpace(length)); err == nil {
			g.length = i
		}
	}

	switch BlockedFilter(values.Get("blocked")) {
	case BlockedFilterActive:
		g.blocked = BlockedFilterActive
	case BlockedFilterOnly:
		g.blocked = BlockedFilterOnly
	}

	return g
}

// GridResponse is the page envelope consumed by the UI grid widgets
type GridResponse struct {
	Draw            int `json:"draw"`
	RecordsTotal    int `json:"recordsTotal"`
	RecordsFiltered int `json:"recordsFiltered"`

	Data any `json:"data"`
}

// NewGridResponse assembles a grid page envelope echoing the request's draw number
func NewGridResponse(params GridParams, total, filtered int, data any) GridResponse {
	return GridResponse{
		Draw:            params.Draw(),
		RecordsTotal:    total,
		RecordsFiltered: filtered,
		Data:            data,
	}
}
