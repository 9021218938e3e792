package listview_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tabilog/tabilog/backend/internal/listview"
)

func makeItems(n int) []listview.Item {
	items := make([]listview.Item, 0, n)
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 1; i <= n; i++ {
		items = append(items, listview.Item{
			ID:         int64(i),
			SearchText: fmt.Sprintf("spot-%02d", i),
			Date:       base.AddDate(0, 0, i),
			Rating:     (i % 5) + 1,
			HasRating:  true,
		})
	}
	return items
}

func TestDeriveView_TwelveItemsAcrossTwoPages(t *testing.T) {
	items := makeItems(12)

	page1 := listview.DeriveView(items, listview.Filters{}, 1, 10, listview.SortAscending)
	assert.Len(t, page1.PageItems, 10)
	assert.Equal(t, 12, page1.Pagination.TotalItems)
	assert.Equal(t, 2, page1.Pagination.TotalPages)

	page2 := listview.DeriveView(items, listview.Filters{}, 2, 10, listview.SortAscending)
	assert.Len(t, page2.PageItems, 2)
	assert.Equal(t, int64(11), page2.PageItems[0].ID)
	assert.Equal(t, int64(12), page2.PageItems[1].ID)
}

func TestDeriveView_OutOfRangePageIsEmptyNotClamped(t *testing.T) {
	items := makeItems(12)

	view := listview.DeriveView(items, listview.Filters{}, 5, 10, listview.SortAscending)

	assert.Empty(t, view.PageItems)
	assert.Equal(t, 5, view.Pagination.Page)
	assert.Equal(t, 2, view.Pagination.TotalPages)
}

func TestDeriveView_EmptyCollectionHasZeroPages(t *testing.T) {
	view := listview.DeriveView(nil, listview.Filters{}, 1, 10, listview.SortAscending)

	assert.Empty(t, view.PageItems)
	assert.Equal(t, 0, view.Pagination.TotalItems)
	assert.Equal(t, 0, view.Pagination.TotalPages)
}

func TestDeriveView_SearchIsCaseInsensitiveSubstring(t *testing.T) {
	items := []listview.Item{
		{ID: 1, SearchText: "Tokyo Tower"},
		{ID: 2, SearchText: "Kyoto Station"},
		{ID: 3, SearchText: "Osaka Castle"},
	}

	view := listview.DeriveView(items, listview.Filters{SearchTerm: "kyo"}, 1, 10, listview.SortAscending)

	require.Len(t, view.PageItems, 2)
	assert.Equal(t, int64(1), view.PageItems[0].ID)
	assert.Equal(t, int64(2), view.PageItems[1].ID)
}

func TestDeriveView_DateRangeIsInclusive(t *testing.T) {
	day := func(d int) time.Time { return time.Date(2026, 3, d, 0, 0, 0, 0, time.UTC) }
	items := []listview.Item{
		{ID: 1, Date: day(1)},
		{ID: 2, Date: day(10)},
		{ID: 3, Date: day(20)},
	}
	from, to := day(1), day(10)

	view := listview.DeriveView(items, listview.Filters{DateFrom: &from, DateTo: &to}, 1, 10, listview.SortAscending)

	require.Len(t, view.PageItems, 2)
	assert.Equal(t, int64(1), view.PageItems[0].ID)
	assert.Equal(t, int64(2), view.PageItems[1].ID)
}

func TestDeriveView_MinRatingNormalizesLegacyScale(t *testing.T) {
	items := []listview.Item{
		{ID: 1, Rating: 3, HasRating: true},
		{ID: 2, Rating: 7, HasRating: true}, // legacy ten-point, normalizes to 4
		{ID: 3, Rating: 2, HasRating: true},
		{ID: 4, HasRating: false},
	}
	min := 4

	view := listview.DeriveView(items, listview.Filters{MinRating: &min}, 1, 10, listview.SortAscending)

	require.Len(t, view.PageItems, 1)
	assert.Equal(t, int64(2), view.PageItems[0].ID)
}

func TestDeriveView_SortDescendingByID(t *testing.T) {
	items := makeItems(3)

	view := listview.DeriveView(items, listview.Filters{}, 1, 10, listview.SortDescending)

	require.Len(t, view.PageItems, 3)
	assert.Equal(t, int64(3), view.PageItems[0].ID)
	assert.Equal(t, int64(1), view.PageItems[2].ID)
}

func TestDeriveView_TighteningFiltersNeverGrowsTotal(t *testing.T) {
	items := makeItems(30)

	loose := listview.DeriveView(items, listview.Filters{SearchTerm: "spot"}, 1, 10, listview.SortAscending)
	tight := listview.DeriveView(items, listview.Filters{SearchTerm: "spot-0"}, 1, 10, listview.SortAscending)
	tighter := listview.DeriveView(items, listview.Filters{SearchTerm: "spot-03"}, 1, 10, listview.SortAscending)

	assert.GreaterOrEqual(t, loose.Pagination.TotalItems, tight.Pagination.TotalItems)
	assert.GreaterOrEqual(t, tight.Pagination.TotalItems, tighter.Pagination.TotalItems)

	min3, min5 := 3, 5
	byMin3 := listview.DeriveView(items, listview.Filters{MinRating: &min3}, 1, 10, listview.SortAscending)
	byMin5 := listview.DeriveView(items, listview.Filters{MinRating: &min5}, 1, 10, listview.SortAscending)
	assert.GreaterOrEqual(t, byMin3.Pagination.TotalItems, byMin5.Pagination.TotalItems)
}

func TestDeriveView_PagesReconstructFilteredSet(t *testing.T) {
	items := makeItems(23)
	perPage := 10

	first := listview.DeriveView(items, listview.Filters{}, 1, perPage, listview.SortAscending)
	require.Equal(t, 3, first.Pagination.TotalPages)

	var reunion []listview.Item
	for page := 1; page <= first.Pagination.TotalPages; page++ {
		view := listview.DeriveView(items, listview.Filters{}, page, perPage, listview.SortAscending)
		reunion = append(reunion, view.PageItems...)
	}

	require.Len(t, reunion, 23)
	seen := map[int64]bool{}
	for i, item := range reunion {
		assert.False(t, seen[item.ID], "item %d appears twice", item.ID)
		seen[item.ID] = true
		assert.Equal(t, int64(i+1), item.ID, "pages must preserve sorted order")
	}
}

func TestDeriveView_FilterPreservesRelativeOrder(t *testing.T) {
	items := makeItems(20)

	view := listview.DeriveView(items, listview.Filters{SearchTerm: "spot-1"}, 1, 20, listview.SortDescending)

	for i := 1; i < len(view.PageItems); i++ {
		assert.Greater(t, view.PageItems[i-1].ID, view.PageItems[i].ID)
	}
}
