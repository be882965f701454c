package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"maps"
	"reflect"
	"slices"
	"strings"

	"rento/infras/otel"
	"rento/infras/postgres"
	"rento/shared/constant"
	"rento/shared/dto"
	"rento/shared/logger"
)

var (
	errRequiredFilter = errors.New("required filter")
	errArgumentClash  = errors.New("update column collides with a filter argument")
)

// column is a selectable field. Columns of joined tables carry their table and may be aliased to
// the struct's db tag.
type column struct {
	name  string
	table string
	alias string
}

func (c column) expr() string {
	switch {
	case c.table == "":
		return c.name
	case c.alias != "":
		return fmt.Sprintf("%s.%s AS %s", c.table, c.name, c.alias)
	default:
		return c.table + "." + c.name
	}
}

type execer interface {
	NamedExecContext(ctx context.Context, query string, arg any) (sql.Result, error)
}

// Repository is generic CRUD over one table, driven by the db/table/column tags of T. A model may
// declare GetJoinQuery() string to select columns from joined tables.
type Repository[T any] struct {
	db            *postgres.Connection
	otel          otel.Otel
	table         string
	entitas       string
	primaryColumn string
	columns       []column
	join          string
	insertQuery   string
	InsertColumns []string
}

type joiner interface {
	GetJoinQuery() string
}

func NewRepository[T any](entitasName, tableName, primaryColumn string, dbConnection *postgres.Connection, otl otel.Otel) Repository[T] {
	var zero T

	columns, insertColumns := getColumns(tableName, reflect.TypeOf(zero))

	join := ""
	if j, ok := any(zero).(joiner); ok {
		join = j.GetJoinQuery()
	}

	placeholders := make([]string, len(insertColumns))
	for i, col := range insertColumns {
		placeholders[i] = ":" + col
	}

	return Repository[T]{
		db:            dbConnection,
		otel:          otl,
		table:         tableName,
		entitas:       entitasName,
		primaryColumn: primaryColumn,
		columns:       columns,
		join:          join,
		InsertColumns: insertColumns,
		insertQuery: fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
			tableName, strings.Join(insertColumns, ", "), strings.Join(placeholders, ", ")),
	}
}

func (repo *Repository[T]) scope(ctx context.Context, op, query string) (context.Context, otel.Scope) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName,
		fmt.Sprintf("%s.%s.%s", constant.OtelRepositoryScopeName, repo.entitas, op))

	if query != "" {
		scope.SetAttribute(constant.OtelQueryAttributeKey, query)
	}

	return ctx, scope
}

func (repo *Repository[T]) failed(scope otel.Scope, action string, err error) error {
	logger.ErrorWithStack(err)
	scope.TraceError(err)

	return fmt.Errorf("failed to %s (%s): %w", action, repo.entitas, err)
}

// readOne runs a named query on the read pool and scans a single row into dest.
func (repo *Repository[T]) readOne(ctx context.Context, dest any, query string, args map[string]any) error {
	stmt, err := repo.db.Read.PrepareNamedContext(ctx, query)
	if err != nil {
		return fmt.Errorf("prepare: %w", err)
	}
	defer stmt.Close()

	return stmt.GetContext(ctx, dest, args) //nolint:wrapcheck
}

func (repo *Repository[T]) Insert(ctx context.Context, model T) error {
	return repo.insert(ctx, repo.db.Write, model)
}

func (repo *Repository[T]) insert(ctx context.Context, exec execer, model T) error {
	ctx, scope := repo.scope(ctx, "Insert", repo.insertQuery)
	defer scope.End()

	if _, err := exec.NamedExecContext(ctx, repo.insertQuery, model); err != nil {
		return repo.failed(scope, "insert data", err)
	}

	return nil
}

func (repo *Repository[T]) Exist(ctx context.Context, filter dto.FilterGroup) (bool, error) {
	where, args := whereClause(filter)
	if where == "" {
		return false, errRequiredFilter
	}

	query := fmt.Sprintf("SELECT EXISTS(SELECT 1 FROM %s %s)", repo.table, where)

	ctx, scope := repo.scope(ctx, "Exist", query)
	defer scope.End()

	var exist bool
	if err := repo.readOne(ctx, &exist, query, args); err != nil {
		return false, repo.failed(scope, "check exist data", err)
	}

	return exist, nil
}

// Get returns the first matching row, or the zero T when nothing matches.
func (repo *Repository[T]) Get(ctx context.Context, filter dto.FilterGroup, columns ...string) (T, error) {
	where, args := whereClause(filter)
	query := fmt.Sprintf("SELECT %s FROM %s %s %s", repo.selectList(columns), repo.table, repo.join, where)

	ctx, scope := repo.scope(ctx, "Get", query)
	defer scope.End()

	var model T

	err := repo.readOne(ctx, &model, query, args)
	if errors.Is(err, sql.ErrNoRows) {
		return model, nil
	}

	if err != nil {
		return model, repo.failed(scope, "get data", err)
	}

	return model, nil
}

func (repo *Repository[T]) GetAll(ctx context.Context, params dto.QueryParams, filter dto.FilterGroup, columns ...string) ([]T, error) {
	where, args := whereClause(filter)

	var ordering, pagination string

	if params.Limit > 0 {
		args["limit"] = params.Limit
		args["offset"] = params.Offset()

		pagination = "LIMIT :limit OFFSET :offset"
	}

	if params.SortBy != "" && params.SortDir != "" {
		ordering = fmt.Sprintf("ORDER BY %s %s", params.SortBy, params.SortDir)
	}

	query := fmt.Sprintf("SELECT %s FROM %s %s %s %s %s", repo.selectList(columns), repo.table, repo.join, where, ordering, pagination)

	ctx, scope := repo.scope(ctx, "GetAll", query)
	defer scope.End()

	var models []T

	stmt, err := repo.db.Read.PrepareNamedContext(ctx, query)
	if err != nil {
		return models, repo.failed(scope, "prepare statement", err)
	}
	defer stmt.Close()

	if err = stmt.SelectContext(ctx, &models, args); err != nil {
		return models, repo.failed(scope, "get all data", err)
	}

	return models, nil
}

func (repo *Repository[T]) Count(ctx context.Context, filter dto.FilterGroup) (int, error) {
	where, args := whereClause(filter)
	query := fmt.Sprintf("SELECT COUNT(%s.%s) FROM %s %s %s", repo.table, repo.primaryColumn, repo.table, repo.join, where)

	ctx, scope := repo.scope(ctx, "Count", query)
	defer scope.End()

	var count int
	if err := repo.readOne(ctx, &count, query, args); err != nil {
		return 0, repo.failed(scope, "count data", err)
	}

	return count, nil
}

// Delete refuses to run without a filter.
func (repo *Repository[T]) Delete(ctx context.Context, filter dto.FilterGroup) error {
	where, args := whereClause(filter)
	if where == "" {
		return errRequiredFilter
	}

	query := fmt.Sprintf("DELETE FROM %s %s", repo.table, where)

	ctx, scope := repo.scope(ctx, "Delete", query)
	defer scope.End()

	if _, err := repo.db.Write.NamedExecContext(ctx, query, args); err != nil {
		return repo.failed(scope, "delete data", err)
	}

	return nil
}

func (repo *Repository[T]) Update(ctx context.Context, mod map[string]any, filter dto.FilterGroup) error {
	_, err := repo.update(ctx, repo.db.Write, mod, filter)

	return err
}

// UpdateAffected behaves like Update and reports how many rows matched the filter. Guarded
// writes (compare-and-swap on a status column) use the count to detect a lost race.
func (repo *Repository[T]) UpdateAffected(ctx context.Context, mod map[string]any, filter dto.FilterGroup) (int64, error) {
	return repo.update(ctx, repo.db.Write, mod, filter)
}

// update binds SET values under their column names, so a column may not also be a filter argument.
func (repo *Repository[T]) update(ctx context.Context, exec execer, mod map[string]any, filter dto.FilterGroup) (int64, error) {
	where, args := whereClause(filter)
	if where == "" {
		return 0, errRequiredFilter
	}

	assignments := make([]string, 0, len(mod))

	for _, col := range slices.Sorted(maps.Keys(mod)) {
		if _, clash := args[col]; clash {
			return 0, fmt.Errorf("%w: %s", errArgumentClash, col)
		}

		assignments = append(assignments, fmt.Sprintf("%s = :%s", col, col))
	}

	query := fmt.Sprintf("UPDATE %s SET %s %s", repo.table, strings.Join(assignments, ", "), where)

	ctx, scope := repo.scope(ctx, "Update", query)
	defer scope.End()

	maps.Copy(args, mod)

	result, err := exec.NamedExecContext(ctx, query, args)
	if err != nil {
		return 0, repo.failed(scope, "update data", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, repo.failed(scope, "read affected rows", err)
	}

	return affected, nil
}

// selectList renders the projection, narrowed to only when given.
func (repo *Repository[T]) selectList(only []string) string {
	exprs := make([]string, 0, len(repo.columns))

	for _, col := range repo.columns {
		if len(only) > 0 && !slices.Contains(only, col.name) {
			continue
		}

		exprs = append(exprs, col.expr())
	}

	return strings.Join(exprs, ", ")
}

func whereClause(filter dto.FilterGroup) (string, map[string]any) {
	where, args := filter.GetWhereClause()
	if where == "" {
		return "", map[string]any{}
	}

	return fmt.Sprintf(" WHERE %s ", where), args
}

// getColumns walks T's fields, descending into embedded structs. Only fields of the repository's own
// table are inserted.
func getColumns(table string, reflectType reflect.Type) (columns []column, insertColumns []string) {
	for i := range reflectType.NumField() {
		field := reflectType.Field(i)

		if field.Anonymous && field.Type.Kind() == reflect.Struct {
			nested, nestedInsert := getColumns(table, field.Type)
			columns = append(columns, nested...)
			insertColumns = append(insertColumns, nestedInsert...)
		}

		dbTag := field.Tag.Get("db")
		if dbTag == "" {
			continue
		}

		owner := field.Tag.Get("table")
		if owner == "" {
			owner = table
		}

		if owner == table {
			insertColumns = append(insertColumns, dbTag)
		}

		if name := field.Tag.Get("column"); name != "" {
			columns = append(columns, column{name: name, table: owner, alias: dbTag})
		} else {
			columns = append(columns, column{name: dbTag, table: owner})
		}
	}

	return columns, insertColumns
}
