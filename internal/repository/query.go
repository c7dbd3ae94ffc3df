// Package repository implements persistence on gorm.
package repository

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DefaultPageSize is the fixed page size of every list endpoint.
const DefaultPageSize = 20

var (
	ErrDuplicate        = errors.New("a record with the same unique value already exists")
	ErrForeignKey       = errors.New("referenced record does not exist")
	ErrInvalidOrdering  = errors.New("unknown ordering field")
	errMissingTableName = errors.New("query spec has no table")
)

// QuerySpec declares what a list endpoint may filter, search and order by.
type QuerySpec struct {
	Table string
	// Filters maps a query parameter to the column it compares for equality.
	Filters map[string]string
	// Search lists the columns matched by free-text search.
	Search []string
	// Ordering maps an ordering parameter to its column.
	Ordering map[string]string
	// DefaultOrdering is used when no valid ordering is requested, e.g. "-created_at".
	DefaultOrdering string
}

// ListQuery is a parsed list request.
type ListQuery struct {
	Filters  map[string]string
	Search   string
	Ordering string
	Page     int
	PageSize int
}

// Page is one slice of a list result.
type Page[T any] struct {
	Results     []T   `json:"results"`
	Count       int64 `json:"count"`
	NumPages    int   `json:"num_pages"`
	CurrentPage int   `json:"current_page"`
}

// ParsePage reads a 1-indexed page number. Anything unparsable or below 1 is page 1.
func ParsePage(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 1 {
		return 1
	}
	return n
}

// Alive restricts a query to rows of table that are not soft-deleted.
func Alive(table string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where(table+".is_deleted = ?", false)
	}
}

// Paginate applies the not-deleted scope, filters, search and ordering of
// spec to db and loads the requested page. A page past the end yields the
// last page; an empty result still has one page. loaders (preloads, joins)
// apply to the page fetch only, not to the count.
func Paginate[T any](db *gorm.DB, spec *QuerySpec, q *ListQuery, loaders ...func(*gorm.DB) *gorm.DB) (*Page[T], error) {
	if spec.Table == "" {
		return nil, errMissingTableName
	}
	if q == nil {
		q = &ListQuery{}
	}

	query := db.Scopes(Alive(spec.Table))
	query = applyFilters(query, spec, q.Filters)
	query = applySearch(query, spec, q.Search)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	size := q.PageSize
	if size <= 0 {
		size = DefaultPageSize
	}
	numPages := int((total + int64(size) - 1) / int64(size))
	if numPages < 1 {
		numPages = 1
	}
	page := q.Page
	if page < 1 {
		page = 1
	}
	if page > numPages {
		page = numPages
	}

	results := make([]T, 0, size)
	err := applyOrdering(query, spec, q.Ordering).
		Scopes(loaders...).
		Offset((page - 1) * size).
		Limit(size).
		Find(&results).Error
	if err != nil {
		return nil, err
	}

	return &Page[T]{
		Results:     results,
		Count:       total,
		NumPages:    numPages,
		CurrentPage: page,
	}, nil
}

// FindAll applies the same scope, filters, search and ordering as Paginate
// but returns every matching row.
func FindAll[T any](db *gorm.DB, spec *QuerySpec, q *ListQuery, loaders ...func(*gorm.DB) *gorm.DB) ([]T, error) {
	if spec.Table == "" {
		return nil, errMissingTableName
	}
	if q == nil {
		q = &ListQuery{}
	}
	query := db.Scopes(Alive(spec.Table))
	query = applyFilters(query, spec, q.Filters)
	query = applySearch(query, spec, q.Search)

	results := make([]T, 0)
	err := applyOrdering(query, spec, q.Ordering).Scopes(loaders...).Find(&results).Error
	return results, err
}

func applyFilters(db *gorm.DB, spec *QuerySpec, filters map[string]string) *gorm.DB {
	if len(filters) == 0 || len(spec.Filters) == 0 {
		return db
	}
	keys := make([]string, 0, len(filters))
	for k := range filters {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		column, ok := spec.Filters[k]
		if !ok {
			continue
		}
		value := filters[k]
		if value == "" {
			continue
		}
		switch strings.ToLower(value) {
		case "true":
			db = db.Where(column+" = ?", true)
		case "false":
			db = db.Where(column+" = ?", false)
		default:
			db = db.Where(column+" = ?", value)
		}
	}
	return db
}

func applySearch(db *gorm.DB, spec *QuerySpec, search string) *gorm.DB {
	search = strings.TrimSpace(search)
	if search == "" || len(spec.Search) == 0 {
		return db
	}
	pattern := "%" + escapeLike(strings.ToLower(search)) + "%"
	conds := make([]string, len(spec.Search))
	args := make([]interface{}, len(spec.Search))
	for i, column := range spec.Search {
		conds[i] = "LOWER(" + column + ") LIKE ? ESCAPE '!'"
		args[i] = pattern
	}
	return db.Where("("+strings.Join(conds, " OR ")+")", args...)
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`!`, `!!`, `%`, `!%`, `_`, `!_`)
	return r.Replace(s)
}

func applyOrdering(db *gorm.DB, spec *QuerySpec, ordering string) *gorm.DB {
	column, desc, ok := resolveOrdering(spec, ordering)
	if !ok {
		column, desc, ok = resolveOrdering(spec, spec.DefaultOrdering)
	}
	if ok {
		direction := " ASC"
		if desc {
			direction = " DESC"
		}
		db = db.Order(column + direction)
	}
	return db.Order(spec.Table + ".id ASC")
}

func resolveOrdering(spec *QuerySpec, ordering string) (string, bool, bool) {
	ordering = strings.TrimSpace(ordering)
	if ordering == "" {
		return "", false, false
	}
	desc := strings.HasPrefix(ordering, "-")
	field := strings.TrimPrefix(ordering, "-")
	column, ok := spec.Ordering[field]
	return column, desc, ok
}

// translateError maps driver integrity errors onto ErrDuplicate and ErrForeignKey.
func translateError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicate
	}
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return ErrForeignKey
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			return ErrDuplicate
		case "23503":
			return ErrForeignKey
		}
	}
	return err
}

// IsIntegrityError reports whether err came from a uniqueness or foreign key violation.
func IsIntegrityError(err error) bool {
	return errors.Is(err, ErrDuplicate) || errors.Is(err, ErrForeignKey)
}

// softDelete flags the row with id as deleted. Deleting an already deleted
// row leaves it untouched; a missing row yields notFound.
func softDelete(ctx context.Context, db *gorm.DB, m interface{}, id string, notFound error) error {
	now := time.Now().UTC()
	result := db.WithContext(ctx).Model(m).
		Where("id = ? AND is_deleted = ?", id, false).
		Updates(map[string]interface{}{"is_deleted": true, "deleted_at": now})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected > 0 {
		return nil
	}
	return existsOr(ctx, db, m, id, notFound)
}

// updateAll writes every column of m (a pointer with its id set) except the
// id, creation time, soft-delete state and the columns in omit, which have
// their own write paths. Deleted or missing rows yield notFound.
func updateAll(ctx context.Context, db *gorm.DB, m interface{}, notFound error, omit ...string) error {
	columns := append([]string{"id", "created_at", "is_deleted", "deleted_at", clause.Associations}, omit...)
	result := db.WithContext(ctx).Model(m).
		Where("is_deleted = ?", false).
		Select("*").
		Omit(columns...).
		Updates(m)
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return notFound
	}
	return nil
}

// restore clears the deletion flag of the row with id, deleted or not.
func restore(ctx context.Context, db *gorm.DB, m interface{}, id string, notFound error) error {
	result := db.WithContext(ctx).Model(m).
		Where("id = ?", id).
		Updates(map[string]interface{}{"is_deleted": false, "deleted_at": nil})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected > 0 {
		return nil
	}
	return existsOr(ctx, db, m, id, notFound)
}

func existsOr(ctx context.Context, db *gorm.DB, m interface{}, id string, notFound error) error {
	var n int64
	if err := db.WithContext(ctx).Model(m).Where("id = ?", id).Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		return notFound
	}
	return nil
}

// columnExists reports whether any row, deleted or not, has column = value.
func columnExists(ctx context.Context, db *gorm.DB, m interface{}, column, value string) (bool, error) {
	var n int64
	err := db.WithContext(ctx).Model(m).Where(column+" = ?", value).Count(&n).Error
	if err != nil {
		return false, fmt.Errorf("check %s: %w", column, err)
	}
	return n > 0, nil
}
