package listview

import "sync"

// Controller holds the mutable filter/sort/page state for one list and
// re-derives the view whenever the state or the records change.
type Controller struct {
	mu      sync.Mutex
	records []Item
	filters Filters
	page    int
	perPage int
	order   SortOrder
}

// NewController creates a controller starting on page 1 with no filters.
func NewController(records []Item, perPage int, order SortOrder) *Controller {
	return &Controller{
		records: records,
		page:    1,
		perPage: perPage,
		order:   order,
	}
}

// View derives the current page.
func (c *Controller) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()
	return DeriveView(c.records, c.filters, c.page, c.perPage, c.order)
}

// SetFilters replaces every filter at once and resets to page 1.
func (c *Controller) SetFilters(filters Filters) View {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.filters = filters
	c.page = 1
	return DeriveView(c.records, c.filters, c.page, c.perPage, c.order)
}

// SetSearchTerm changes the search term and resets to page 1.
func (c *Controller) SetSearchTerm(term string) View {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.filters.SearchTerm = term
	c.page = 1
	return DeriveView(c.records, c.filters, c.page, c.perPage, c.order)
}

// SetMinRating changes the minimum rating filter and resets to page 1.
func (c *Controller) SetMinRating(minRating *int) View {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.filters.MinRating = minRating
	c.page = 1
	return DeriveView(c.records, c.filters, c.page, c.perPage, c.order)
}

// SetSortOrder changes the sort order and resets to page 1.
func (c *Controller) SetSortOrder(order SortOrder) View {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.order = order
	c.page = 1
	return DeriveView(c.records, c.filters, c.page, c.perPage, c.order)
}

// SetPage moves to another page without touching the filters.
func (c *Controller) SetPage(page int) View {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.page = page
	return DeriveView(c.records, c.filters, c.page, c.perPage, c.order)
}

// Reload replaces the record collection, keeping filters but clamping the
// current page into the new range so a shrunken collection never leaves
// the list stuck on an empty page.
func (c *Controller) Reload(records []Item) View {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.records = records

	view := DeriveView(c.records, c.filters, c.page, c.perPage, c.order)
	if c.page > view.Pagination.TotalPages {
		c.page = view.Pagination.TotalPages
		if c.page < 1 {
			c.page = 1
		}
		view = DeriveView(c.records, c.filters, c.page, c.perPage, c.order)
	}
	return view
}
