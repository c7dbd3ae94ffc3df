package repository

import (
	"context"
	"errors"

	"github.com/pestozap/pestozap-backend/internal/model"
	"gorm.io/gorm"
)

var (
	ErrTagNotFound = errors.New("tag not found")
	ErrTagExists   = errors.New("tag name or slug already exists")
)

// TagListSpec drives tag lists.
var TagListSpec = &QuerySpec{
	Table:           "blog_tags",
	Search:          []string{"blog_tags.name"},
	Ordering:        map[string]string{"name": "blog_tags.name", "created_at": "blog_tags.created_at"},
	DefaultOrdering: "name",
}

type TagRepository interface {
	Create(ctx context.Context, tag *model.Tag) error
	GetByID(ctx context.Context, id string) (*model.Tag, error)
	FindByIDs(ctx context.Context, ids []string) ([]model.Tag, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, q *ListQuery) (*Page[*model.Tag], error)
	SlugExists(ctx context.Context, slug string) (bool, error)
}

type tagRepository struct {
	db *gorm.DB
}

func NewTagRepository(db *gorm.DB) TagRepository {
	return &tagRepository{db: db}
}

func (r *tagRepository) Create(ctx context.Context, tag *model.Tag) error {
	err := translateError(r.db.WithContext(ctx).Create(tag).Error)
	if errors.Is(err, ErrDuplicate) {
		return ErrTagExists
	}
	return err
}

func (r *tagRepository) GetByID(ctx context.Context, id string) (*model.Tag, error) {
	var tag model.Tag
	err := r.db.WithContext(ctx).Scopes(Alive("blog_tags")).Where("id = ?", id).First(&tag).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTagNotFound
		}
		return nil, err
	}
	return &tag, nil
}

// FindByIDs loads the live tags among ids. Every id must resolve.
func (r *tagRepository) FindByIDs(ctx context.Context, ids []string) ([]model.Tag, error) {
	tags := make([]model.Tag, 0, len(ids))
	if len(ids) == 0 {
		return tags, nil
	}
	err := r.db.WithContext(ctx).Scopes(Alive("blog_tags")).Where("id IN ?", ids).Find(&tags).Error
	if err != nil {
		return nil, err
	}
	if len(tags) != len(uniqueStrings(ids)) {
		return nil, ErrTagNotFound
	}
	return tags, nil
}

func (r *tagRepository) Delete(ctx context.Context, id string) error {
	return softDelete(ctx, r.db, &model.Tag{}, id, ErrTagNotFound)
}

func (r *tagRepository) List(ctx context.Context, q *ListQuery) (*Page[*model.Tag], error) {
	return Paginate[*model.Tag](r.db.WithContext(ctx).Model(&model.Tag{}), TagListSpec, q)
}

func (r *tagRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	return columnExists(ctx, r.db, &model.Tag{}, "slug", slug)
}

func uniqueStrings(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
