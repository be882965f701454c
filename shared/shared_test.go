package shared_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"rento/shared"
	cacheMocks "rento/shared/cache/mocks"
	"rento/shared/constant"
	"rento/shared/dto"
)

func TestConvertStringToBool(t *testing.T) {
	for _, input := range []string{"true", "1", "t", "TRUE"} {
		got := shared.ConvertStringToBool(input)
		require.NotNil(t, got, input)
		assert.True(t, *got, input)
	}

	for _, input := range []string{"false", "0", "F"} {
		got := shared.ConvertStringToBool(input)
		require.NotNil(t, got, input)
		assert.False(t, *got, input)
	}

	assert.Nil(t, shared.ConvertStringToBool(""))
	assert.Nil(t, shared.ConvertStringToBool("yes please"))
}

func TestCalculateTotalPage(t *testing.T) {
	tests := []struct {
		name  string
		total int
		limit int
		pages int
	}{
		{name: "no listings", total: 0, limit: 10, pages: 1},
		{name: "limit not set", total: 40, limit: 0, pages: 1},
		{name: "negative limit", total: 40, limit: -5, pages: 1},
		{name: "exact pages", total: 40, limit: 10, pages: 4},
		{name: "partial last page", total: 41, limit: 10, pages: 5},
		{name: "fits one page", total: 3, limit: 10, pages: 1},
		{name: "large catalogue", total: 1000000, limit: 7, pages: 142858},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.pages, shared.CalculateTotalPage(tt.total, tt.limit))
		})
	}
}

type itemPatch struct {
	Title       string   `db:"title"`
	Description *string  `db:"description"`
	Price       float64  `db:"price"`
	Available   *bool    `db:"is_available"`
	Images      []string `db:"-"`
	Note        string
}

func TestTransformFields(t *testing.T) {
	unavailable := false
	empty := ""

	fields := shared.TransformFields(itemPatch{
		Title:       "Tent for four",
		Description: &empty,
		Available:   &unavailable,
		Images:      []string{"a.jpg"},
		Note:        "not a column",
	}, "owner-1")

	assert.Equal(t, "Tent for four", fields["title"])
	assert.Equal(t, &empty, fields["description"], "a pointer to a zero value is still an update")
	assert.Equal(t, &unavailable, fields["is_available"])
	assert.NotContains(t, fields, "price")
	assert.NotContains(t, fields, "-")
	assert.Len(t, fields, 5)

	assert.Equal(t, "owner-1", fields[constant.FieldModifiedBy])
	assert.IsType(t, time.Time{}, fields[constant.FieldModifiedAt])
}

func TestTransformFields_EmptyPatch(t *testing.T) {
	fields := shared.TransformFields(itemPatch{}, "owner-1")

	assert.Len(t, fields, 2)
	assert.Contains(t, fields, constant.FieldModifiedAt)
	assert.Contains(t, fields, constant.FieldModifiedBy)
}

func TestFilterByID(t *testing.T) {
	group := shared.FilterByID("b-1", "id", "bookings")

	require.Len(t, group.Filters, 1)
	assert.Equal(t, dto.Filter{Field: "id", Value: "b-1", Operator: dto.FilterOperatorEq, Table: "bookings"}, group.Filters[0])

	where, args := group.GetWhereClause()
	assert.Equal(t, "(bookings.id = :id)", where)
	assert.Equal(t, map[string]any{"id": "b-1"}, args)

	plain := shared.FilterByID("u-1", "id", "")
	where, _ = plain.GetWhereClause()
	assert.Equal(t, "(id = :id)", where)
}

func TestBuildCacheKey(t *testing.T) {
	assert.Equal(t, "item:get:42", shared.BuildCacheKey("item:get", "42"))
	assert.Equal(t, "limiter:10.0.0.1:curl", shared.BuildCacheKey("limiter", "10.0.0.1", "curl"))
	assert.Equal(t, "item:gets", shared.BuildCacheKey("item:gets"))
}

func TestBuildCacheKeyWithQuery(t *testing.T) {
	params := dto.QueryParams{Page: 1, Limit: 10, SortBy: "price", SortDir: "ASC"}
	filter := shared.FilterByID("owner-1", "owner_id", "items")

	first := shared.BuildCacheKeyWithQuery("item:gets", params, filter)
	second := shared.BuildCacheKeyWithQuery("item:gets", params, filter)

	assert.Equal(t, first, second, "same query must map to the same key")
	assert.True(t, strings.HasPrefix(first, "item:gets:"))

	otherPage := params
	otherPage.Page = 2
	assert.NotEqual(t, first, shared.BuildCacheKeyWithQuery("item:gets", otherPage, filter))

	otherFilter := shared.FilterByID("owner-2", "owner_id", "items")
	assert.NotEqual(t, first, shared.BuildCacheKeyWithQuery("item:gets", params, otherFilter))
}

func TestInvalidateCaches(t *testing.T) {
	mockCache := cacheMocks.NewMockRedisCache(gomock.NewController(t))

	mockCache.EXPECT().Clear(gomock.Any(), "item:gets:*").Return(nil)
	shared.InvalidateCaches(context.Background(), mockCache, "item:gets")

	mockCache.EXPECT().Clear(gomock.Any(), "item:count:*").Return(errors.New("redis down"))
	shared.InvalidateCaches(context.Background(), mockCache, "item:count")
}
