package repository

import (
	"context"
	"errors"

	"github.com/pestozap/pestozap-backend/internal/model"
	"gorm.io/gorm"
)

var ErrCommentNotFound = errors.New("comment not found")

// CommentListSpec drives the admin comment list.
var CommentListSpec = &QuerySpec{
	Table: "blog_comments",
	Filters: map[string]string{
		"post":        "blog_comments.post_id",
		"is_approved": "blog_comments.is_approved",
	},
	Search:          []string{"blog_comments.content"},
	Ordering:        map[string]string{"created_at": "blog_comments.created_at"},
	DefaultOrdering: "-created_at",
}

// threadSpec pages the top-level comments of one post.
var threadSpec = &QuerySpec{
	Table:           "blog_comments",
	Ordering:        map[string]string{"created_at": "blog_comments.created_at"},
	DefaultOrdering: "-created_at",
}

type CommentRepository interface {
	Create(ctx context.Context, comment *model.Comment) error
	GetByID(ctx context.Context, id string) (*model.Comment, error)
	Update(ctx context.Context, comment *model.Comment) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, q *ListQuery) (*Page[*model.Comment], error)
	// Thread pages the approved top-level comments of a post and attaches
	// every approved reply beneath its parent.
	Thread(ctx context.Context, postID string, page int) (*Page[*model.Comment], error)
	CountApproved(ctx context.Context, postIDs []string) (map[string]int64, error)
}

type commentRepository struct {
	db *gorm.DB
}

func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) Create(ctx context.Context, comment *model.Comment) error {
	return translateError(r.db.WithContext(ctx).Omit("Post", "Author", "Replies").Create(comment).Error)
}

func (r *commentRepository) GetByID(ctx context.Context, id string) (*model.Comment, error) {
	var comment model.Comment
	err := r.db.WithContext(ctx).Scopes(Alive("blog_comments")).Preload("Author").Where("id = ?", id).First(&comment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCommentNotFound
		}
		return nil, err
	}
	return &comment, nil
}

func (r *commentRepository) Update(ctx context.Context, comment *model.Comment) error {
	return updateAll(ctx, r.db, comment, ErrCommentNotFound)
}

func (r *commentRepository) Delete(ctx context.Context, id string) error {
	return softDelete(ctx, r.db, &model.Comment{}, id, ErrCommentNotFound)
}

func (r *commentRepository) List(ctx context.Context, q *ListQuery) (*Page[*model.Comment], error) {
	return Paginate[*model.Comment](r.db.WithContext(ctx).Model(&model.Comment{}), CommentListSpec, q, preloadAuthor)
}

func (r *commentRepository) Thread(ctx context.Context, postID string, page int) (*Page[*model.Comment], error) {
	query := r.db.WithContext(ctx).Model(&model.Comment{}).
		Where("blog_comments.post_id = ? AND blog_comments.parent_id IS NULL AND blog_comments.is_approved = ?", postID, true)
	result, err := Paginate[*model.Comment](query, threadSpec, &ListQuery{Page: page}, preloadAuthor)
	if err != nil {
		return nil, err
	}
	if len(result.Results) == 0 {
		return result, nil
	}

	var replies []*model.Comment
	err = r.db.WithContext(ctx).
		Scopes(Alive("blog_comments"), preloadAuthor).
		Where("post_id = ? AND parent_id IS NOT NULL AND is_approved = ?", postID, true).
		Order("created_at ASC").
		Order("id ASC").
		Find(&replies).Error
	if err != nil {
		return nil, err
	}

	byID := make(map[string]*model.Comment, len(result.Results)+len(replies))
	for _, c := range result.Results {
		c.Replies = []*model.Comment{}
		byID[c.ID] = c
	}
	for _, c := range replies {
		c.Replies = []*model.Comment{}
		byID[c.ID] = c
	}
	for _, c := range replies {
		if parent, ok := byID[*c.ParentID]; ok {
			parent.Replies = append(parent.Replies, c)
		}
	}
	return result, nil
}

// CountApproved counts the live approved comments per post.
func (r *commentRepository) CountApproved(ctx context.Context, postIDs []string) (map[string]int64, error) {
	counts := make(map[string]int64, len(postIDs))
	if len(postIDs) == 0 {
		return counts, nil
	}
	var rows []struct {
		PostID string
		Total  int64
	}
	err := r.db.WithContext(ctx).Model(&model.Comment{}).
		Select("post_id, COUNT(*) AS total").
		Scopes(Alive("blog_comments")).
		Where("is_approved = ? AND post_id IN ?", true, postIDs).
		Group("post_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		counts[row.PostID] = row.Total
	}
	return counts, nil
}

func preloadAuthor(db *gorm.DB) *gorm.DB {
	return db.Preload("Author")
}
