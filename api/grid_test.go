package api

import (
	"net/url"
	"testing"

	"github.com/gobuffalo/buffalo"
)

func (ts *TestSuite) TestNewGridParams() {
	tests := []struct {
		name            string
		qs              string
		wantDraw        int
		wantStart       int
		wantLength      int
		wantSearchField string
		wantSearchValue string
		wantBlocked     BlockedFilter
	}{
		{
			name:        "default",
			qs:          "",
			wantLength:  10,
			wantBlocked: BlockedFilterAll,
		},
		{
			name:        "paging",
			qs:          "draw=3&start=20&length=25",
			wantDraw:    3,
			wantStart:   20,
			wantLength:  25,
			wantBlocked: BlockedFilterAll,
		},
		{
			name:            "search",
			qs:              "searchField=name&searchValue=ACME",
			wantLength:      10,
			wantSearchField: "name",
			wantSearchValue: "ACME",
			wantBlocked:     BlockedFilterAll,
		},
		{
			name:        "blocked filter",
			qs:          "blocked=active",
			wantLength:  10,
			wantBlocked: BlockedFilterActive,
		},
		{
			name:        "unknown blocked filter falls back to all",
			qs:          "blocked=nonsense",
			wantLength:  10,
			wantBlocked: BlockedFilterAll,
		},
		{
			name:        "negative start is clamped",
			qs:          "start=-5",
			wantLength:  10,
			wantBlocked: BlockedFilterAll,
		},
		{
			name:        "length is capped",
			qs:          "length=5000",
			wantLength:  100,
			wantBlocked: BlockedFilterAll,
		},
		{
			name:            "spaces",
			qs:              "length= 2 &searchValue= ACME ",
			wantLength:      2,
			wantSearchValue: "ACME",
			wantBlocked:     BlockedFilterAll,
		},
	}
	for _, tt := range tests {
		ts.T().Run(tt.name, func(t *testing.T) {
			values, _ := url.ParseQuery(tt.qs)

			got := NewGridParams(buffalo.ParamValues(values))
			ts.Equal(tt.wantDraw, got.Draw(), "draw is incorrect")
			ts.Equal(tt.wantStart, got.Start(), "start is incorrect")
			ts.Equal(tt.wantLength, got.Length(), "length is incorrect")
			ts.Equal(tt.wantSearchField, got.SearchField(), "searchField is incorrect")
			ts.Equal(tt.wantSearchValue, got.SearchValue(), "searchValue is incorrect")
			ts.Equal(tt.wantBlocked, got.Blocked(), "blocked filter is incorrect")
		})
	}
}

func (ts *TestSuite) TestNewGridResponse() {
	values, _ := url.ParseQuery("draw=7&start=0&length=10")
	params := NewGridParams(buffalo.ParamValues(values))

	rows := EntityRows{{Name: "ACME"}}
	got := NewGridResponse(params, 42, 1, rows)

	ts.Equal(7, got.Draw)
	ts.Equal(42, got.RecordsTotal)
	ts.Equal(1, got.RecordsFiltered)
	ts.Equal(rows, got.Data)
}
