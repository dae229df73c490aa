package blog

// Pagination is page arithmetic over a known total. The current page is
// clamped to [1, Pages] (or 1 when there are no records).
type Pagination struct {
	Total   int64 `json:"total"`
	PerPage int   `json:"per_page"`
	Page    int   `json:"page"`
	Pages   int   `json:"pages"`
}

// PageInfo is the 1-based range of records shown on the current page.
// Start and End are 0 when there are no records.
type PageInfo struct {
	Start int64 `json:"start"`
	End   int64 `json:"end"`
	Total int64 `json:"total"`
}

// NewPagination computes the page layout. perPage below 1 is treated as 10.
func NewPagination(total int64, perPage, page int) Pagination {
	if perPage < 1 {
		perPage = 10
	}
	total = max(total, 0)
	pages := int((total + int64(perPage) - 1) / int64(perPage))

	page = max(page, 1)
	if pages > 0 && page > pages {
		page = pages
	}

	return Pagination{Total: total, PerPage: perPage, Page: page, Pages: pages}
}

func (p Pagination) Offset() int { return (p.Page - 1) * p.PerPage }
func (p Pagination) Limit() int  { return p.PerPage }

func (p Pagination) HasNext() bool     { return p.Page < p.Pages }
func (p Pagination) HasPrevious() bool { return p.Page > 1 }

// Next returns the following page, or the current one on the last page.
func (p Pagination) Next() int {
	if p.HasNext() {
		return p.Page + 1
	}
	return p.Page
}

// Previous returns the preceding page, or the current one on the first page.
func (p Pagination) Previous() int {
	if p.HasPrevious() {
		return p.Page - 1
	}
	return p.Page
}

func (p Pagination) Info() PageInfo {
	if p.Total == 0 {
		return PageInfo{}
	}
	start := int64(p.Offset()) + 1
	end := min(start+int64(p.PerPage)-1, p.Total)
	return PageInfo{Start: start, End: end, Total: p.Total}
}
