package dashboard

import "spaceship-fleet/maintenance-portal/internal/pagination"

// Keyed is an entity that live updates can be matched against.
type Keyed interface {
	Key() int64
}

// Table is the current page of one entity kind.
type Table[T Keyed] struct {
	page pagination.Page
	rows []T
}

func NewTable[T Keyed](size int) *Table[T] {
	if size <= 0 {
		size = pagination.DefaultSize
	}
	return &Table[T]{page: pagination.Page{Number: 0, Size: size}}
}

func (t *Table[T]) Page() pagination.Page {
	return t.page
}

// Load replaces the rows with the result of fetching page.
func (t *Table[T]) Load(page pagination.Page, rows []T) {
	t.page = page
	t.rows = append(t.rows[:0:0], rows...)
}

func (t *Table[T]) Rows() []T {
	return append([]T(nil), t.rows...)
}

// Update replaces the row showing v's key in place. Rows of other pages are
// not tracked, so an entity that is not on this page is ignored.
func (t *Table[T]) Update(v T) (int, bool) {
	for i := range t.rows {
		if t.rows[i].Key() == v.Key() {
			t.rows[i] = v
			return i, true
		}
	}
	return -1, false
}

// NextDisabled reports whether the last page returned fewer rows than the
// page size.
func (t *Table[T]) NextDisabled() bool {
	return len(t.rows) < t.page.Size
}

func (t *Table[T]) PrevDisabled() bool {
	return t.page.Number == 0
}

// NextPage returns the page after the current one, or false at the end.
func (t *Table[T]) NextPage() (pagination.Page, bool) {
	if t.NextDisabled() {
		return t.page, false
	}
	return pagination.Page{Number: t.page.Number + 1, Size: t.page.Size}, true
}

func (t *Table[T]) PrevPage() (pagination.Page, bool) {
	if t.PrevDisabled() {
		return t.page, false
	}
	return pagination.Page{Number: t.page.Number - 1, Size: t.page.Size}, true
}
