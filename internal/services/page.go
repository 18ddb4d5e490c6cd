package services

const (
	defaultPage  = 1
	defaultLimit = 10
)

// PageInfo describes one page of a listing.
type PageInfo struct {
	CurrentPage int   `json:"currentPage"`
	TotalPages  int   `json:"totalPages"`
	Total       int64 `json:"-"`
}

// normalizePage applies the defaulting contract: non-positive or missing
// values become page=1, limit=10. Out-of-range pages are legal and simply
// yield empty result sets.
func normalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = defaultPage
	}
	if limit < 1 {
		limit = defaultLimit
	}
	return page, limit
}

func pageInfo(page, limit int, total int64) PageInfo {
	totalPages := int((total + int64(limit) - 1) / int64(limit))
	return PageInfo{CurrentPage: page, TotalPages: totalPages, Total: total}
}
