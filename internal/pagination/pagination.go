// Package pagination slices newest-first post listings into fixed-size pages.
package pagination

import "yatube/internal/models"

// PostsPerPage is the fixed page size for all listing endpoints.
const PostsPerPage = 10

// Window is a resolved page request: the clamped 1-indexed page number
// and the limit/offset to fetch it with.
type Window struct {
	Number int
	Limit  int
	Offset int
}

// Page is a bounded slice of an ordered post listing plus the metadata
// needed to render has-next/has-previous controls.
type Page struct {
	Posts       []*models.Post `json:"posts"`
	Number      int            `json:"number"`
	PageSize    int            `json:"page_size"`
	TotalItems  int64          `json:"total_items"`
	TotalPages  int            `json:"total_pages"`
	HasNext     bool           `json:"has_next"`
	HasPrevious bool           `json:"has_previous"`
}

// Paginate resolves a requested page number against the total item
// count. Out-of-range numbers clamp to the nearest valid page instead
// of erroring: zero and negatives become page 1, anything past the end
// becomes the last page. An empty listing resolves to page 1.
func Paginate(total int64, requested int) Window {
	last := totalPages(total)
	number := requested
	if number < 1 {
		number = 1
	}
	if number > last {
		number = last
	}
	return Window{
		Number: number,
		Limit:  PostsPerPage,
		Offset: (number - 1) * PostsPerPage,
	}
}

// NewPage assembles a Page from the fetched slice and the window it was
// fetched with.
func NewPage(posts []*models.Post, w Window, total int64) *Page {
	last := totalPages(total)
	if posts == nil {
		posts = []*models.Post{}
	}
	return &Page{
		Posts:       posts,
		Number:      w.Number,
		PageSize:    PostsPerPage,
		TotalItems:  total,
		TotalPages:  last,
		HasNext:     w.Number < last,
		HasPrevious: w.Number > 1,
	}
}

func totalPages(total int64) int {
	if total <= 0 {
		return 1
	}
	pages := int((total + PostsPerPage - 1) / PostsPerPage)
	if pages < 1 {
		pages = 1
	}
	return pages
}
