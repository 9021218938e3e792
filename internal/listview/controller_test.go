package listview_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tabilog/tabilog/backend/internal/listview"
)

func TestController_FilterChangeResetsPage(t *testing.T) {
	items := []listview.Item{
		{ID: 1, SearchText: "ABC Park"},
		{ID: 2, SearchText: "Harbor"},
		{ID: 3, SearchText: "ABC Tower"},
		{ID: 4, SearchText: "Garden"},
		{ID: 5, SearchText: "Museum"},
	}
	c := listview.NewController(items, 2, listview.SortAscending)

	c.SetPage(3)
	view := c.SetSearchTerm("ABC")

	assert.Equal(t, 1, view.Pagination.Page)
	assert.Equal(t, 2, view.Pagination.TotalItems)
	require.Len(t, view.PageItems, 2)
	assert.Equal(t, int64(1), view.PageItems[0].ID)
	assert.Equal(t, int64(3), view.PageItems[1].ID)
}

func TestController_EveryFilterSetterResetsPage(t *testing.T) {
	items := makeItems(30)
	min := 2

	cases := []struct {
		name  string
		apply func(c *listview.Controller) listview.View
	}{
		{"SetFilters", func(c *listview.Controller) listview.View {
			return c.SetFilters(listview.Filters{SearchTerm: "spot"})
		}},
		{"SetSearchTerm", func(c *listview.Controller) listview.View {
			return c.SetSearchTerm("spot")
		}},
		{"SetMinRating", func(c *listview.Controller) listview.View {
			return c.SetMinRating(&min)
		}},
		{"SetSortOrder", func(c *listview.Controller) listview.View {
			return c.SetSortOrder(listview.SortDescending)
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := listview.NewController(items, 10, listview.SortAscending)
			c.SetPage(3)
			view := tc.apply(c)
			assert.Equal(t, 1, view.Pagination.Page)
		})
	}
}

func TestController_SetPageLeavesFiltersAlone(t *testing.T) {
	c := listview.NewController(makeItems(30), 10, listview.SortAscending)
	c.SetSearchTerm("spot-0")

	view := c.SetPage(1)
	total := view.Pagination.TotalItems

	view = c.SetPage(2)
	assert.Equal(t, total, view.Pagination.TotalItems, "paging must not alter filters")
	assert.Equal(t, 2, view.Pagination.Page)
}

func TestController_ReloadClampsPageIntoNewRange(t *testing.T) {
	c := listview.NewController(makeItems(25), 10, listview.SortAscending)
	view := c.SetPage(3)
	require.Len(t, view.PageItems, 5)

	view = c.Reload(makeItems(12))

	assert.Equal(t, 2, view.Pagination.Page)
	assert.Len(t, view.PageItems, 2)
}

func TestController_ReloadToEmptyCollectionLandsOnPageOne(t *testing.T) {
	c := listview.NewController(makeItems(25), 10, listview.SortAscending)
	c.SetPage(3)

	view := c.Reload(nil)

	assert.Equal(t, 1, view.Pagination.Page)
	assert.Empty(t, view.PageItems)
	assert.Equal(t, 0, view.Pagination.TotalPages)
}
