package domain

// PaginationParams pages an indexed query. A zero PageSize means unpaged.
type PaginationParams struct {
	Page     int
	PageSize int
}

// Paged reports whether results should be limited to one page.
func (p PaginationParams) Paged() bool {
	return p.PageSize > 0
}

// Offset is the number of rows before the current page; pages start at 1.
func (p PaginationParams) Offset() int {
	if p.Page <= 1 || p.PageSize <= 0 {
		return 0
	}
	return (p.Page - 1) * p.PageSize
}
