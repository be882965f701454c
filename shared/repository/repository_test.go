package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	otelMocks "rento/infras/otel/mocks"
	"rento/internal/testutil"
	"rento/shared"
	"rento/shared/dto"
	"rento/shared/model"
	"rento/shared/repository"
)

type account struct {
	ID    string `db:"id"`
	Email string `db:"email"`
	// password and level have defaults in the schema, they are still inserted.
	Password string `db:"password"`
	Level    string `db:"level"`
	model.Metadata
}

func newRepo(t *testing.T) repository.Repository[account] {
	t.Helper()

	return repository.NewRepository[account]("account", "users", "id", testutil.NewSQLite(t), otelMocks.NewOtel())
}

func seed(t *testing.T, repo repository.Repository[account], ids ...string) {
	t.Helper()

	stamp := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	for i, id := range ids {
		err := repo.Insert(context.Background(), account{
			ID:       id,
			Email:    id + "@rento.test",
			Password: "x",
			Level:    "user",
			Metadata: model.NewMetadata("seed", stamp.Add(time.Duration(i)*time.Hour)),
		})
		require.NoError(t, err)
	}
}

func TestNewRepository_InsertColumns(t *testing.T) {
	repo := newRepo(t)

	assert.Equal(t,
		[]string{"id", "email", "password", "level", "created_at", "modified_at", "created_by", "modified_by"},
		repo.InsertColumns)
}

func TestRepository_GetAndExist(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t)
	seed(t, repo, "ana", "budi")

	got, err := repo.Get(ctx, shared.FilterByID("budi", "id", "users"))
	require.NoError(t, err)
	assert.Equal(t, "budi@rento.test", got.Email)

	missing, err := repo.Get(ctx, shared.FilterByID("nobody", "id", "users"))
	require.NoError(t, err)
	assert.Empty(t, missing.ID)

	exists, err := repo.Exist(ctx, shared.FilterByID("ana", "id", "users"))
	require.NoError(t, err)
	assert.True(t, exists)

	_, err = repo.Exist(ctx, dto.FilterGroup{})
	assert.Error(t, err)
}

func TestRepository_GetAllPagesAndCounts(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t)
	seed(t, repo, "a", "b", "c", "d", "e")

	page, err := repo.GetAll(ctx, dto.QueryParams{Page: 2, Limit: 2, SortBy: "created_at", SortDir: dto.SortDirAsc}, dto.FilterGroup{})
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, "c", page[0].ID)
	assert.Equal(t, "d", page[1].ID)

	count, err := repo.Count(ctx, dto.FilterGroup{
		Operator: dto.FilterGroupOperatorOr,
		Filters: []any{
			dto.Filter{Field: "id", ArgName: "first", Value: "a", Operator: dto.FilterOperatorEq},
			dto.Filter{Field: "id", ArgName: "second", Value: "e", Operator: dto.FilterOperatorEq},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestRepository_UpdateAndDelete(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t)
	seed(t, repo, "ana", "budi")

	affected, err := repo.UpdateAffected(ctx, map[string]any{"level": "admin"}, shared.FilterByID("ana", "id", "users"))
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)

	affected, err = repo.UpdateAffected(ctx, map[string]any{"level": "admin"}, shared.FilterByID("nobody", "id", "users"))
	require.NoError(t, err)
	assert.Zero(t, affected)

	err = repo.Update(ctx, map[string]any{"id": "other"}, shared.FilterByID("ana", "id", "users"))
	assert.ErrorContains(t, err, "collides with a filter argument")

	err = repo.Update(ctx, map[string]any{"level": "admin"}, dto.FilterGroup{})
	assert.Error(t, err)

	require.NoError(t, repo.Delete(ctx, shared.FilterByID("budi", "id", "users")))

	count, err := repo.Count(ctx, dto.FilterGroup{})
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	ana, err := repo.Get(ctx, shared.FilterByID("ana", "id", "users"))
	require.NoError(t, err)
	assert.Equal(t, "admin", ana.Level)
}
