package repository

import (
	"context"
	"errors"

	"github.com/pestozap/pestozap-backend/internal/model"
	"gorm.io/gorm"
)

var (
	ErrCategoryNotFound = errors.New("category not found")
	ErrCategoryExists   = errors.New("category name or slug already exists")
)

// CategoryListSpec drives category lists.
var CategoryListSpec = &QuerySpec{
	Table:   "blog_categories",
	Filters: map[string]string{"is_active": "blog_categories.is_active"},
	Search:  []string{"blog_categories.name", "blog_categories.description"},
	Ordering: map[string]string{
		"name":       "blog_categories.name",
		"created_at": "blog_categories.created_at",
	},
	DefaultOrdering: "name",
}

type CategoryRepository interface {
	Create(ctx context.Context, category *model.Category) error
	GetByID(ctx context.Context, id string) (*model.Category, error)
	Update(ctx context.Context, category *model.Category) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, q *ListQuery) (*Page[*model.Category], error)
	SlugExists(ctx context.Context, slug string) (bool, error)
	CountPublishedPosts(ctx context.Context, categoryIDs []string) (map[string]int64, error)
}

type categoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) Create(ctx context.Context, category *model.Category) error {
	err := translateError(r.db.WithContext(ctx).Create(category).Error)
	if errors.Is(err, ErrDuplicate) {
		return ErrCategoryExists
	}
	return err
}

func (r *categoryRepository) GetByID(ctx context.Context, id string) (*model.Category, error) {
	var category model.Category
	err := r.db.WithContext(ctx).Scopes(Alive("blog_categories")).Where("id = ?", id).First(&category).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}
	return &category, nil
}

func (r *categoryRepository) Update(ctx context.Context, category *model.Category) error {
	err := updateAll(ctx, r.db, category, ErrCategoryNotFound)
	if errors.Is(err, ErrDuplicate) {
		return ErrCategoryExists
	}
	return err
}

// Delete soft-deletes the category and detaches its posts.
func (r *categoryRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := softDelete(ctx, tx, &model.Category{}, id, ErrCategoryNotFound); err != nil {
			return err
		}
		return tx.Model(&model.BlogPost{}).Where("category_id = ?", id).UpdateColumn("category_id", nil).Error
	})
}

func (r *categoryRepository) List(ctx context.Context, q *ListQuery) (*Page[*model.Category], error) {
	return Paginate[*model.Category](r.db.WithContext(ctx).Model(&model.Category{}), CategoryListSpec, q)
}

func (r *categoryRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	return columnExists(ctx, r.db, &model.Category{}, "slug", slug)
}

// CountPublishedPosts counts live published posts per category.
func (r *categoryRepository) CountPublishedPosts(ctx context.Context, categoryIDs []string) (map[string]int64, error) {
	counts := make(map[string]int64, len(categoryIDs))
	if len(categoryIDs) == 0 {
		return counts, nil
	}
	var rows []struct {
		CategoryID string
		Total      int64
	}
	err := r.db.WithContext(ctx).Model(&model.BlogPost{}).
		Select("category_id, COUNT(*) AS total").
		Scopes(Alive("blog_posts")).
		Where("status = ? AND category_id IN ?", model.PostStatusPublished, categoryIDs).
		Group("category_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		counts[row.CategoryID] = row.Total
	}
	return counts, nil
}
