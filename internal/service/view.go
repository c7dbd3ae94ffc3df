package service

import (
	"time"

	"github.com/pestozap/pestozap-backend/internal/model"
)

// AuthorView is the public face of a user on blog content.
type AuthorView struct {
	ID             string `json:"id"`
	Username       string `json:"username"`
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	FullName       string `json:"full_name"`
	ProfilePicture string `json:"profile_picture"`
}

func newAuthorView(u *model.User) *AuthorView {
	if u == nil {
		return nil
	}
	return &AuthorView{
		ID:             u.ID,
		Username:       u.Username,
		FirstName:      u.FirstName,
		LastName:       u.LastName,
		FullName:       u.FullName(),
		ProfilePicture: u.ProfilePicture,
	}
}

type CategoryView struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
	Color       string `json:"color"`
	Icon        string `json:"icon"`
	IsActive    bool   `json:"is_active"`
	PostsCount  int64  `json:"posts_count"`
}

type TagView struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

func newTagViews(tags []model.Tag) []TagView {
	out := make([]TagView, 0, len(tags))
	for _, t := range tags {
		out = append(out, TagView{ID: t.ID, Name: t.Name, Slug: t.Slug})
	}
	return out
}

// PostSummary is a post as it appears in lists.
type PostSummary struct {
	ID            string        `json:"id"`
	Title         string        `json:"title"`
	Slug          string        `json:"slug"`
	Excerpt       string        `json:"excerpt"`
	FeaturedImage string        `json:"featured_image"`
	Author        *AuthorView   `json:"author"`
	Category      *CategoryView `json:"category"`
	Tags          []TagView     `json:"tags"`
	Status        string        `json:"status"`
	IsFeatured    bool          `json:"is_featured"`
	ReadTime      int           `json:"read_time"`
	ViewsCount    int64         `json:"views_count"`
	LikesCount    int64         `json:"likes_count"`
	CommentsCount int64         `json:"comments_count"`
	PublishedAt   *time.Time    `json:"published_at"`
	CreatedAt     time.Time     `json:"created_at"`
}

// PostDetail is a single post with its body.
type PostDetail struct {
	PostSummary
	Content         string    `json:"content"`
	MetaTitle       string    `json:"meta_title"`
	MetaDescription string    `json:"meta_description"`
	UpdatedAt       time.Time `json:"updated_at"`
	IsLiked         bool      `json:"is_liked"`
}

type CommentView struct {
	ID         string         `json:"id"`
	Content    string         `json:"content"`
	Author     *AuthorView    `json:"author"`
	Parent     *string        `json:"parent"`
	IsApproved bool           `json:"is_approved"`
	CreatedAt  time.Time      `json:"created_at"`
	Replies    []*CommentView `json:"replies"`
}

func newCommentView(c *model.Comment) *CommentView {
	v := &CommentView{
		ID:         c.ID,
		Content:    c.Content,
		Author:     newAuthorView(c.Author),
		Parent:     c.ParentID,
		IsApproved: c.IsApproved,
		CreatedAt:  c.CreatedAt,
		Replies:    make([]*CommentView, 0, len(c.Replies)),
	}
	for _, r := range c.Replies {
		v.Replies = append(v.Replies, newCommentView(r))
	}
	return v
}

// LikeResult is the state after a like operation.
type LikeResult struct {
	IsLiked    bool  `json:"is_liked"`
	LikesCount int64 `json:"likes_count"`
}
