package listing

// View is a consistent snapshot of a controller for rendering.
type View[T any] struct {
	State      State
	Items      []T // loaded page after search
	Loaded     int // items on the loaded page before search
	Page       int
	Limit      int
	Total      int
	TotalPages int
	Filters    Filters
	Search     string
	Error      string // message of the last failed fetch while errored
}

func (v View[T]) Loading() bool {
	return v.State == StateLoading
}

// Empty is true for a successful load with nothing to show.
func (v View[T]) Empty() bool {
	return v.State == StateLoaded && len(v.Items) == 0
}

func (v View[T]) HasPrevious() bool {
	return v.Page > 1
}

func (v View[T]) HasNext() bool {
	return v.Page < v.TotalPages
}

func (v View[T]) PreviousPage() int {
	return max(1, v.Page-1)
}

func (v View[T]) NextPage() int {
	return min(v.TotalPages, v.Page+1)
}

func (c *Controller[T]) View() View[T] {
	c.mu.Lock()
	defer c.mu.Unlock()

	items := make([]T, 0, len(c.items))
	for _, item := range c.items {
		if c.search == "" || c.match(item, c.search) {
			items = append(items, item)
		}
	}
	v := View[T]{
		State:      c.state,
		Items:      items,
		Loaded:     len(c.items),
		Page:       c.query.Page,
		Limit:      c.query.Limit,
		Total:      c.total,
		TotalPages: max(c.totalPages, 1),
		Filters:    c.query.Filters.Clone(),
		Search:     c.search,
	}
	if c.state == StateErrored {
		v.Error = c.errMsg
	}
	return v
}
