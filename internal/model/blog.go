package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Blog post statuses.
const (
	PostStatusDraft     = "draft"
	PostStatusPublished = "published"
	PostStatusArchived  = "archived"
)

// DefaultCategoryColor is used when neither the row nor the category table
// provides a color.
const DefaultCategoryColor = "#cc1f4a"

// ValidPostStatus reports whether s is a known post status.
func ValidPostStatus(s string) bool {
	switch s {
	case PostStatusDraft, PostStatusPublished, PostStatusArchived:
		return true
	}
	return false
}

// Category groups blog posts.
type Category struct {
	BaseModel
	Name        string `gorm:"type:varchar(100);uniqueIndex;not null" json:"name"`
	Slug        string `gorm:"type:varchar(100);uniqueIndex;not null" json:"slug"`
	Description string `gorm:"type:text" json:"description"`
	Color       string `gorm:"type:varchar(7)" json:"color"`
	Icon        string `gorm:"type:varchar(50)" json:"icon"`
	IsActive    bool   `gorm:"not null" json:"is_active"`
}

// TableName pins the table name.
func (Category) TableName() string {
	return "blog_categories"
}

// Tag labels blog posts.
type Tag struct {
	BaseModel
	Name string `gorm:"type:varchar(50);uniqueIndex;not null" json:"name"`
	Slug string `gorm:"type:varchar(50);uniqueIndex;not null" json:"slug"`
}

// TableName pins the table name.
func (Tag) TableName() string {
	return "blog_tags"
}

// BlogPost is an article. ViewsCount and LikesCount only change through
// storage-side deltas.
type BlogPost struct {
	BaseModel
	Title           string     `gorm:"type:varchar(200);not null" json:"title"`
	Slug            string     `gorm:"type:varchar(200);uniqueIndex;not null" json:"slug"`
	Excerpt         string     `gorm:"type:varchar(300)" json:"excerpt"`
	Content         string     `gorm:"type:text" json:"content"`
	FeaturedImage   string     `gorm:"type:varchar(500)" json:"featured_image"`
	AuthorID        string     `gorm:"type:char(36);index;not null" json:"author_id"`
	CategoryID      *string    `gorm:"type:char(36);index" json:"category_id"`
	Status          string     `gorm:"type:varchar(20);index:idx_blog_posts_status_published;not null" json:"status"`
	IsFeatured      bool       `gorm:"not null;index" json:"is_featured"`
	ReadTime        int        `gorm:"not null" json:"read_time"`
	ViewsCount      int64      `gorm:"not null;default:0" json:"views_count"`
	LikesCount      int64      `gorm:"not null;default:0" json:"likes_count"`
	MetaTitle       string     `gorm:"type:varchar(60)" json:"meta_title"`
	MetaDescription string     `gorm:"type:varchar(160)" json:"meta_description"`
	PublishedAt     *time.Time `gorm:"index:idx_blog_posts_status_published" json:"published_at"`

	Author   *User     `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"author,omitempty"`
	Category *Category `gorm:"foreignKey:CategoryID;constraint:OnDelete:SET NULL" json:"category,omitempty"`
	Tags     []Tag     `gorm:"many2many:blog_post_tags" json:"tags,omitempty"`
}

// TableName pins the table name.
func (BlogPost) TableName() string {
	return "blog_posts"
}

// SetStatus moves the post to status. Entering published stamps PublishedAt
// the first time only; later transitions never change it.
func (p *BlogPost) SetStatus(status string, now time.Time) {
	p.Status = status
	if status == PostStatusPublished && p.PublishedAt == nil {
		t := now
		p.PublishedAt = &t
	}
}

// IsPublished reports a published post with a publish time.
func (p *BlogPost) IsPublished() bool {
	return p.Status == PostStatusPublished && p.PublishedAt != nil
}

// Comment is a reader comment. Replies point at their parent.
type Comment struct {
	BaseModel
	PostID     string  `gorm:"type:char(36);index;not null" json:"post_id"`
	AuthorID   string  `gorm:"type:char(36);index;not null" json:"author_id"`
	Content    string  `gorm:"type:varchar(1000);not null" json:"content"`
	ParentID   *string `gorm:"type:char(36);index" json:"parent_id"`
	IsApproved bool    `gorm:"not null" json:"is_approved"`

	Post    *BlogPost  `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE" json:"-"`
	Author  *User      `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"author,omitempty"`
	Replies []*Comment `gorm:"foreignKey:ParentID" json:"replies,omitempty"`
}

// TableName pins the table name.
func (Comment) TableName() string {
	return "blog_comments"
}

// BlogLike is one user's like on one post. Rows are hard-deleted on unlike.
type BlogLike struct {
	ID        string    `gorm:"type:char(36);primaryKey" json:"id"`
	PostID    string    `gorm:"type:char(36);not null;uniqueIndex:idx_blog_likes_post_user" json:"post_id"`
	UserID    string    `gorm:"type:char(36);not null;uniqueIndex:idx_blog_likes_post_user;index" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName pins the table name.
func (BlogLike) TableName() string {
	return "blog_likes"
}

// BeforeCreate assigns a UUID when the id is empty.
func (l *BlogLike) BeforeCreate(tx *gorm.DB) error {
	if l.ID == "" {
		l.ID = uuid.New().String()
	}
	return nil
}
