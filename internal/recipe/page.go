package recipe

// DefaultPerPage is the page size used when the request does not specify one.
const DefaultPerPage = 21

// Page is a 1-indexed slice of a result set. Out-of-range pages carry an
// empty Data slice, never an error.
type Page[T any] struct {
	Data     []T `json:"data"`
	Page     int `json:"page"`
	PerPage  int `json:"per_page"`
	Total    int `json:"total"`
	LastPage int `json:"last_page"`
}

// Paginate slices items into the requested page. Page numbers below 1 and
// sizes below 1 are normalized to 1 and DefaultPerPage.
func Paginate[T any](items []T, page, perPage int) Page[T] {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = DefaultPerPage
	}

	last := (len(items) + perPage - 1) / perPage
	if last < 1 {
		last = 1
	}

	start := (page - 1) * perPage
	end := start + perPage
	if start > len(items) {
		start, end = len(items), len(items)
	} else if end > len(items) {
		end = len(items)
	}

	return Page[T]{
		Data:     append([]T{}, items[start:end]...),
		Page:     page,
		PerPage:  perPage,
		Total:    len(items),
		LastPage: last,
	}
}
