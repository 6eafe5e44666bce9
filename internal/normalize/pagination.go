package normalize

import (
	"net/url"
	"strconv"
	"strings"

	"paygate-console/internal/model"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// PageRequest is the browser's 1-based page selection.
type PageRequest struct {
	Page    int
	PerPage int
}

// ParsePageRequest reads page and per_page, clamping invalid values.
func ParsePageRequest(q url.Values) PageRequest {
	page := parsePositive(q.Get("page"), 1)
	perPage := parsePositive(q.Get("per_page"), 0)
	if perPage == 0 {
		perPage = parsePositive(q.Get("size"), DefaultPageSize)
	}
	if perPage > MaxPageSize {
		perPage = MaxPageSize
	}
	return PageRequest{Page: page, PerPage: perPage}
}

// ToUpstream converts a 1-based page to the upstream 0-based index.
func ToUpstream(page int) int {
	if page <= 1 {
		return 0
	}
	return page - 1
}

// UpstreamPage returns the page index for an upstream with the given base.
func (p PageRequest) UpstreamPage(base int) int {
	return ToUpstream(p.Page) + base
}

// Query renders the page selection as upstream page/size parameters.
func (p PageRequest) Query(base int) url.Values {
	return url.Values{
		"page": {strconv.Itoa(p.UpstreamPage(base))},
		"size": {strconv.Itoa(p.PerPage)},
	}
}

// Paginate builds the browser envelope from items and the upstream page
// metadata. base is the upstream page base (0 or 1). Without metadata the
// requested page and item count are used.
func Paginate[T any](items []T, meta *PageMeta, req PageRequest, base int) model.PaginatedResponse[T] {
	if items == nil {
		items = []T{}
	}

	if meta == nil {
		size := req.PerPage
		if size <= 0 {
			size = len(items)
		}
		return model.PaginatedResponse[T]{
			Data:          items,
			PageNumber:    max(req.Page, 1),
			PageSize:      size,
			TotalElements: int64(len(items)),
			TotalPages:    1,
			First:         req.Page <= 1,
			Last:          true,
		}
	}

	index := meta.PageNumber - base
	if index < 0 {
		index = 0
	}

	size := meta.PageSize
	if size <= 0 {
		size = req.PerPage
	}

	totalPages := meta.TotalPages
	if totalPages <= 0 && size > 0 {
		totalPages = int((meta.TotalElements + int64(size) - 1) / int64(size))
	}

	last := index+1 >= totalPages
	if meta.Last != nil {
		last = *meta.Last
	}

	return model.PaginatedResponse[T]{
		Data:          items,
		PageNumber:    index + 1,
		PageSize:      size,
		TotalElements: meta.TotalElements,
		TotalPages:    totalPages,
		First:         index == 0,
		Last:          last,
	}
}

func parsePositive(raw string, fallback int) int {
	value, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || value <= 0 {
		return fallback
	}
	return value
}
