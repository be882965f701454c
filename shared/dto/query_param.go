package dto

import (
	"cmp"
	"net/http"
	"net/url"
	"slices"
	"strconv"
	"strings"

	"rento/shared/constant"
)

const (
	SortDirAsc  = "ASC"
	SortDirDesc = "DESC"
)

// QueryParams is the paging and ordering input shared by every list endpoint.
type QueryParams struct {
	Page    int    `json:"page"     validate:"omitempty"`
	Limit   int    `json:"limit"    validate:"omitempty,max=100"`
	SortBy  string `json:"sort_by"  validate:"omitempty"`
	SortDir string `json:"sort_dir" validate:"omitempty,oneof=ASC DESC"`
}

func positiveInt(values url.Values, key string) int {
	n, err := strconv.Atoi(values.Get(key))
	if err != nil || n <= 0 {
		return 0
	}

	return n
}

// FromRequest reads paging from the query string. Malformed values are ignored and the limit is capped
// at MaxValueLimit. With withDefaults set, missing values take the package defaults.
func (q *QueryParams) FromRequest(r *http.Request, withDefaults bool) {
	values := r.URL.Query()

	if page := positiveInt(values, constant.RequestParamPage); page > 0 {
		q.Page = page
	}

	if limit := positiveInt(values, constant.RequestParamLimit); limit > 0 {
		q.Limit = min(limit, constant.MaxValueLimit)
	}

	if sortBy := values.Get(constant.RequestParamSortBy); sortBy != "" {
		q.SortBy = sortBy
	}

	if dir := strings.ToUpper(values.Get(constant.RequestParamSortDir)); dir == SortDirAsc || dir == SortDirDesc {
		q.SortDir = dir
	}

	if !withDefaults {
		return
	}

	q.Page = cmp.Or(q.Page, constant.DefaultValuePage)
	q.Limit = cmp.Or(q.Limit, constant.DefaultValueLimit)
	q.SortBy = cmp.Or(q.SortBy, constant.DefaultValueSortBy)
	q.SortDir = cmp.Or(q.SortDir, constant.DefaultValueSortDir)
}

// Offset is the number of rows skipped before the current page.
func (q QueryParams) Offset() int {
	if q.Page <= 1 || q.Limit <= 0 {
		return 0
	}

	return (q.Page - 1) * q.Limit
}

// RestrictSort drops a sort column that is not in allowed. The column ends up verbatim in ORDER BY, so
// only known columns may pass.
func (q *QueryParams) RestrictSort(allowed ...string) {
	if q.SortBy == "" || slices.Contains(allowed, q.SortBy) {
		return
	}

	q.SortBy = constant.DefaultValueSortBy
}
