package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/pestozap/pestozap-backend/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrPostNotFound = errors.New("blog post not found")
	ErrPostExists   = errors.New("blog post slug already exists")
)

// PostListSpec drives the public post list.
var PostListSpec = &QuerySpec{
	Table: "blog_posts",
	Filters: map[string]string{
		"category":    "blog_posts.category_id",
		"is_featured": "blog_posts.is_featured",
	},
	Search: []string{"blog_posts.title", "blog_posts.excerpt", "blog_posts.content"},
	Ordering: map[string]string{
		"created_at":   "blog_posts.created_at",
		"published_at": "blog_posts.published_at",
		"views_count":  "blog_posts.views_count",
		"likes_count":  "blog_posts.likes_count",
	},
	DefaultOrdering: "-published_at",
}

// AdminPostListSpec drives the admin post list, which sees every status.
var AdminPostListSpec = &QuerySpec{
	Table: "blog_posts",
	Filters: map[string]string{
		"status":      "blog_posts.status",
		"category":    "blog_posts.category_id",
		"is_featured": "blog_posts.is_featured",
	},
	Search: []string{"blog_posts.title", "blog_posts.excerpt"},
	Ordering: map[string]string{
		"created_at":   "blog_posts.created_at",
		"published_at": "blog_posts.published_at",
		"views_count":  "blog_posts.views_count",
		"likes_count":  "blog_posts.likes_count",
		"title":        "blog_posts.title",
	},
	DefaultOrdering: "-created_at",
}

// PostFilter narrows post lists beyond plain column equality.
type PostFilter struct {
	PublishedOnly bool
	TagIDs        []string
	DateFrom      *time.Time
	DateTo        *time.Time
	Author        string
}

// BlogStats are the public blog counters.
type BlogStats struct {
	TotalPosts      int64 `json:"total_posts"`
	TotalCategories int64 `json:"total_categories"`
	TotalTags       int64 `json:"total_tags"`
	TotalComments   int64 `json:"total_comments"`
	FeaturedPosts   int64 `json:"featured_posts"`
}

type PostRepository interface {
	Create(ctx context.Context, post *model.BlogPost) error
	GetByID(ctx context.Context, id string) (*model.BlogPost, error)
	GetBySlug(ctx context.Context, slug string, publishedOnly bool) (*model.BlogPost, error)
	Update(ctx context.Context, post *model.BlogPost, tags []model.Tag) error
	Delete(ctx context.Context, id string) error
	Restore(ctx context.Context, id string) error
	List(ctx context.Context, spec *QuerySpec, filter *PostFilter, q *ListQuery) (*Page[*model.BlogPost], error)
	Featured(ctx context.Context, limit int) ([]*model.BlogPost, error)
	Related(ctx context.Context, post *model.BlogPost, limit int) ([]*model.BlogPost, error)
	SlugExists(ctx context.Context, slug string) (bool, error)
	IncrementViews(ctx context.Context, id string) error
	ToggleLike(ctx context.Context, postID, userID string) (bool, error)
	AddLike(ctx context.Context, postID, userID string) (bool, error)
	RemoveLike(ctx context.Context, postID, userID string) (bool, error)
	LikedPostIDs(ctx context.Context, userID string, postIDs []string) (map[string]bool, error)
	Stats(ctx context.Context) (*BlogStats, error)
}

type postRepository struct {
	db *gorm.DB
}

func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func withPostRelations(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Author").
		Preload("Category", "is_deleted = ?", false).
		Preload("Tags", "blog_tags.is_deleted = ?", false)
}

func (r *postRepository) Create(ctx context.Context, post *model.BlogPost) error {
	err := translateError(r.db.WithContext(ctx).Omit("Author", "Category").Create(post).Error)
	if errors.Is(err, ErrDuplicate) {
		return ErrPostExists
	}
	return err
}

func (r *postRepository) GetByID(ctx context.Context, id string) (*model.BlogPost, error) {
	return r.first(ctx, r.db.WithContext(ctx).Where("blog_posts.id = ?", id))
}

func (r *postRepository) GetBySlug(ctx context.Context, slug string, publishedOnly bool) (*model.BlogPost, error) {
	query := r.db.WithContext(ctx).Where("blog_posts.slug = ?", slug)
	if publishedOnly {
		query = query.Where("blog_posts.status = ?", model.PostStatusPublished)
	}
	return r.first(ctx, query)
}

func (r *postRepository) first(ctx context.Context, query *gorm.DB) (*model.BlogPost, error) {
	var post model.BlogPost
	err := query.Scopes(Alive("blog_posts"), withPostRelations).First(&post).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	return &post, nil
}

// Update writes the post's columns. The counters are excluded so concurrent
// views and likes are never overwritten. tags, when non-nil, replaces the
// post's tag set.
func (r *postRepository) Update(ctx context.Context, post *model.BlogPost, tags []model.Tag) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(post).
			Where("is_deleted = ?", false).
			Select("*").
			Omit("id", "created_at", "is_deleted", "deleted_at", "views_count", "likes_count", clause.Associations).
			Updates(post)
		if result.Error != nil {
			if err := translateError(result.Error); errors.Is(err, ErrDuplicate) {
				return ErrPostExists
			}
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrPostNotFound
		}
		if tags == nil {
			return nil
		}
		if err := tx.Model(post).Association("Tags").Replace(tags); err != nil {
			return err
		}
		post.Tags = tags
		return nil
	})
}

func (r *postRepository) Delete(ctx context.Context, id string) error {
	return softDelete(ctx, r.db, &model.BlogPost{}, id, ErrPostNotFound)
}

func (r *postRepository) Restore(ctx context.Context, id string) error {
	return restore(ctx, r.db, &model.BlogPost{}, id, ErrPostNotFound)
}

func (r *postRepository) List(ctx context.Context, spec *QuerySpec, filter *PostFilter, q *ListQuery) (*Page[*model.BlogPost], error) {
	query := r.db.WithContext(ctx).Model(&model.BlogPost{})
	if filter != nil {
		if filter.PublishedOnly {
			query = query.Where("blog_posts.status = ?", model.PostStatusPublished)
		}
		if len(filter.TagIDs) > 0 {
			query = query.Where("blog_posts.id IN (?)",
				r.db.Table("blog_post_tags").Select("blog_post_id").Where("tag_id IN ?", filter.TagIDs))
		}
		if filter.DateFrom != nil {
			query = query.Where("blog_posts.published_at >= ?", *filter.DateFrom)
		}
		if filter.DateTo != nil {
			query = query.Where("blog_posts.published_at < ?", filter.DateTo.AddDate(0, 0, 1))
		}
		if author := strings.TrimSpace(filter.Author); author != "" {
			query = query.Where("blog_posts.author_id IN (?)",
				r.db.Model(&model.User{}).Select("id").Where("LOWER(username) LIKE ? ESCAPE '!'", "%"+escapeLike(strings.ToLower(author))+"%"))
		}
	}
	return Paginate[*model.BlogPost](query, spec, q, withPostRelations)
}

func (r *postRepository) Featured(ctx context.Context, limit int) ([]*model.BlogPost, error) {
	var posts []*model.BlogPost
	err := r.db.WithContext(ctx).
		Scopes(Alive("blog_posts"), withPostRelations).
		Where("blog_posts.status = ? AND blog_posts.is_featured = ?", model.PostStatusPublished, true).
		Order("blog_posts.published_at DESC").
		Order("blog_posts.id ASC").
		Limit(limit).
		Find(&posts).Error
	return posts, err
}

// Related returns published posts sharing the post's category or any of its
// live tags.
func (r *postRepository) Related(ctx context.Context, post *model.BlogPost, limit int) ([]*model.BlogPost, error) {
	liveTags := r.db.Table("blog_post_tags").
		Select("blog_post_tags.tag_id").
		Joins("JOIN blog_tags ON blog_tags.id = blog_post_tags.tag_id").
		Where("blog_post_tags.blog_post_id = ? AND blog_tags.is_deleted = ?", post.ID, false)
	sharedTag := r.db.Table("blog_post_tags").Select("blog_post_id").Where("tag_id IN (?)", liveTags)

	query := r.db.WithContext(ctx).
		Scopes(Alive("blog_posts"), withPostRelations).
		Where("blog_posts.status = ? AND blog_posts.id <> ?", model.PostStatusPublished, post.ID)
	if post.CategoryID != nil {
		query = query.Where("(blog_posts.category_id = ? OR blog_posts.id IN (?))", *post.CategoryID, sharedTag)
	} else {
		query = query.Where("blog_posts.id IN (?)", sharedTag)
	}

	var posts []*model.BlogPost
	err := query.
		Order("blog_posts.published_at DESC").
		Order("blog_posts.id ASC").
		Limit(limit).
		Find(&posts).Error
	return posts, err
}

func (r *postRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	return columnExists(ctx, r.db, &model.BlogPost{}, "slug", slug)
}

// IncrementViews adds one view in storage.
func (r *postRepository) IncrementViews(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Model(&model.BlogPost{}).
		Where("id = ?", id).
		UpdateColumn("views_count", gorm.Expr("views_count + ?", 1)).Error
}

// ToggleLike removes the user's like if present, otherwise adds it, in one
// transaction. It reports whether the post is liked afterwards.
func (r *postRepository) ToggleLike(ctx context.Context, postID, userID string) (bool, error) {
	var liked bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		removed, err := removeLike(tx, postID, userID)
		if err != nil {
			return err
		}
		if removed {
			liked = false
			return nil
		}
		if _, err := addLike(tx, postID, userID); err != nil {
			return err
		}
		liked = true
		return nil
	})
	return liked, err
}

// AddLike likes the post. It reports whether a new like row was created.
func (r *postRepository) AddLike(ctx context.Context, postID, userID string) (bool, error) {
	var created bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		created, err = addLike(tx, postID, userID)
		return err
	})
	return created, err
}

// RemoveLike unlikes the post. It reports whether a like row was removed.
func (r *postRepository) RemoveLike(ctx context.Context, postID, userID string) (bool, error) {
	var removed bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		removed, err = removeLike(tx, postID, userID)
		return err
	})
	return removed, err
}

func addLike(tx *gorm.DB, postID, userID string) (bool, error) {
	like := &model.BlogLike{PostID: postID, UserID: userID}
	result := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(like)
	if result.Error != nil {
		return false, translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return false, nil
	}
	err := tx.Model(&model.BlogPost{}).
		Where("id = ?", postID).
		UpdateColumn("likes_count", gorm.Expr("likes_count + ?", 1)).Error
	return err == nil, err
}

func removeLike(tx *gorm.DB, postID, userID string) (bool, error) {
	result := tx.Where("post_id = ? AND user_id = ?", postID, userID).Delete(&model.BlogLike{})
	if result.Error != nil {
		return false, result.Error
	}
	if result.RowsAffected == 0 {
		return false, nil
	}
	err := tx.Model(&model.BlogPost{}).
		Where("id = ? AND likes_count > 0", postID).
		UpdateColumn("likes_count", gorm.Expr("likes_count - ?", 1)).Error
	return err == nil, err
}

// LikedPostIDs reports which of postIDs the user has liked.
func (r *postRepository) LikedPostIDs(ctx context.Context, userID string, postIDs []string) (map[string]bool, error) {
	liked := make(map[string]bool, len(postIDs))
	if userID == "" || len(postIDs) == 0 {
		return liked, nil
	}
	var ids []string
	err := r.db.WithContext(ctx).Model(&model.BlogLike{}).
		Where("user_id = ? AND post_id IN ?", userID, postIDs).
		Pluck("post_id", &ids).Error
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		liked[id] = true
	}
	return liked, nil
}

func (r *postRepository) Stats(ctx context.Context) (*BlogStats, error) {
	db := r.db.WithContext(ctx)
	stats := &BlogStats{}

	counts := []struct {
		dst   *int64
		query *gorm.DB
	}{
		{&stats.TotalPosts, db.Model(&model.BlogPost{}).Scopes(Alive("blog_posts")).
			Where("status = ?", model.PostStatusPublished)},
		{&stats.TotalCategories, db.Model(&model.Category{}).Scopes(Alive("blog_categories")).
			Where("is_active = ?", true)},
		{&stats.TotalTags, db.Model(&model.Tag{}).Scopes(Alive("blog_tags"))},
		{&stats.TotalComments, db.Model(&model.Comment{}).Scopes(Alive("blog_comments")).
			Where("is_approved = ?", true)},
		{&stats.FeaturedPosts, db.Model(&model.BlogPost{}).Scopes(Alive("blog_posts")).
			Where("status = ? AND is_featured = ?", model.PostStatusPublished, true)},
	}
	for _, c := range counts {
		if err := c.query.Count(c.dst).Error; err != nil {
			return nil, err
		}
	}
	return stats, nil
}
