package service

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/pestozap/pestozap-backend/internal/config"
	"github.com/pestozap/pestozap-backend/internal/logger"
	"github.com/pestozap/pestozap-backend/internal/model"
	"github.com/pestozap/pestozap-backend/internal/repository"
	"go.uber.org/zap"
)

var (
	ErrPostNotFound     = errors.New("blog post not found")
	ErrCategoryNotFound = errors.New("category not found")
	ErrTagNotFound      = errors.New("tag not found")
	ErrCommentNotFound  = errors.New("comment not found")
)

var hexColor = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// CategoryInput creates or changes a category. Nil fields are kept on update.
type CategoryInput struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Color       *string `json:"color"`
	Icon        *string `json:"icon"`
	IsActive    *bool   `json:"is_active"`
}

func (r CategoryInput) validate(creating bool) error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.When(creating, validation.Required), validation.NilOrNotEmpty, validation.Length(1, 100)),
		validation.Field(&r.Color, validation.Match(hexColor).Error("must be a hex color such as #cc1f4a")),
		validation.Field(&r.Icon, validation.Length(0, 50)),
	)
}

// TagInput creates a tag.
type TagInput struct {
	Name string `json:"name"`
}

func (r TagInput) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(1, 50)),
	)
}

// PostInput creates or changes a post. Nil fields are kept on update; a nil
// Tags keeps the tag set and an empty one clears it. An empty Category
// detaches the post from its category.
type PostInput struct {
	Title           *string  `json:"title"`
	Excerpt         *string  `json:"excerpt"`
	Content         *string  `json:"content"`
	FeaturedImage   *string  `json:"featured_image"`
	Category        *string  `json:"category"`
	Tags            []string `json:"tags"`
	Status          *string  `json:"status"`
	IsFeatured      *bool    `json:"is_featured"`
	ReadTime        *int     `json:"read_time"`
	MetaTitle       *string  `json:"meta_title"`
	MetaDescription *string  `json:"meta_description"`
}

func (r PostInput) validate(creating bool) error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.When(creating, validation.Required), validation.NilOrNotEmpty, validation.Length(1, 200)),
		validation.Field(&r.Excerpt, validation.Length(0, 300)),
		validation.Field(&r.Content, validation.When(creating, validation.Required), validation.NilOrNotEmpty),
		validation.Field(&r.FeaturedImage, validation.Length(0, 500)),
		validation.Field(&r.Status, validation.In(model.PostStatusDraft, model.PostStatusPublished, model.PostStatusArchived)),
		validation.Field(&r.ReadTime, validation.Min(1), validation.Max(600)),
		validation.Field(&r.MetaTitle, validation.Length(0, metaTitleLen)),
		validation.Field(&r.MetaDescription, validation.Length(0, metaDescriptionLen)),
	)
}

// CommentInput posts a comment or a reply.
type CommentInput struct {
	Content string  `json:"content"`
	Parent  *string `json:"parent"`
}

func (r CommentInput) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Content, validation.Required, validation.Length(1, 1000)),
	)
}

// PostQuery carries the public list filters that are not plain columns.
type PostQuery struct {
	Tags     []string
	DateFrom *time.Time
	DateTo   *time.Time
	Author   string
}

type BlogOptions struct {
	Categories    []config.CategoryPreset
	FeaturedLimit int
	RelatedLimit  int
}

type BlogService interface {
	ListCategories(ctx context.Context, q *repository.ListQuery, activeOnly bool) (*repository.Page[*CategoryView], error)
	CreateCategory(ctx context.Context, in CategoryInput) (*CategoryView, error)
	UpdateCategory(ctx context.Context, id string, in CategoryInput) (*CategoryView, error)
	DeleteCategory(ctx context.Context, id string) error

	ListTags(ctx context.Context, q *repository.ListQuery) (*repository.Page[*model.Tag], error)
	CreateTag(ctx context.Context, in TagInput) (*model.Tag, error)
	DeleteTag(ctx context.Context, id string) error

	// ListPosts pages published posts.
	ListPosts(ctx context.Context, filter *PostQuery, q *repository.ListQuery) (*repository.Page[*PostSummary], error)
	// AdminListPosts pages posts of every status.
	AdminListPosts(ctx context.Context, q *repository.ListQuery) (*repository.Page[*PostSummary], error)
	Featured(ctx context.Context) ([]*PostSummary, error)
	Related(ctx context.Context, slug string) ([]*PostSummary, error)
	// PostBySlug returns a published post and counts one view.
	PostBySlug(ctx context.Context, slug, viewerID string) (*PostDetail, error)
	AdminPost(ctx context.Context, id string) (*PostDetail, error)
	CreatePost(ctx context.Context, authorID string, in PostInput) (*PostDetail, error)
	UpdatePost(ctx context.Context, id string, in PostInput) (*PostDetail, error)
	DeletePost(ctx context.Context, id string) error
	RestorePost(ctx context.Context, id string) (*PostDetail, error)

	Comments(ctx context.Context, slug string, page int) (*repository.Page[*CommentView], error)
	AddComment(ctx context.Context, slug, authorID string, in CommentInput) (*CommentView, error)
	AdminListComments(ctx context.Context, q *repository.ListQuery) (*repository.Page[*CommentView], error)
	SetCommentApproval(ctx context.Context, id string, approved bool) (*CommentView, error)
	DeleteComment(ctx context.Context, id string) error

	ToggleLike(ctx context.Context, slug, userID string) (*LikeResult, error)
	Like(ctx context.Context, slug, userID string) (*LikeResult, error)
	Unlike(ctx context.Context, slug, userID string) (*LikeResult, error)

	Stats(ctx context.Context) (*repository.BlogStats, error)
}

type blogService struct {
	categories repository.CategoryRepository
	tags       repository.TagRepository
	posts      repository.PostRepository
	comments   repository.CommentRepository
	presets    map[string]config.CategoryPreset
	opts       BlogOptions
	now        func() time.Time
}

func NewBlogService(
	categories repository.CategoryRepository,
	tags repository.TagRepository,
	posts repository.PostRepository,
	comments repository.CommentRepository,
	opts BlogOptions,
) BlogService {
	if opts.FeaturedLimit <= 0 {
		opts.FeaturedLimit = 6
	}
	if opts.RelatedLimit <= 0 {
		opts.RelatedLimit = 4
	}
	presets := make(map[string]config.CategoryPreset, len(opts.Categories))
	for _, p := range opts.Categories {
		presets[strings.ToLower(p.Name)] = p
	}
	return &blogService{
		categories: categories,
		tags:       tags,
		posts:      posts,
		comments:   comments,
		presets:    presets,
		opts:       opts,
		now:        utcNow,
	}
}

// Categories

func (s *blogService) ListCategories(ctx context.Context, q *repository.ListQuery, activeOnly bool) (*repository.Page[*CategoryView], error) {
	if activeOnly {
		q = withFilter(q, "is_active", "true")
	}
	page, err := s.categories.List(ctx, q)
	if err != nil {
		return nil, err
	}
	views, err := s.categoryViews(ctx, page.Results)
	if err != nil {
		return nil, err
	}
	return mapPage(page, views), nil
}

func (s *blogService) CreateCategory(ctx context.Context, in CategoryInput) (*CategoryView, error) {
	if err := in.validate(true); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(*in.Name)
	slug, err := UniqueSlug(ctx, Slugify(name), 100, s.categories.SlugExists)
	if err != nil {
		return nil, err
	}

	preset := s.presets[strings.ToLower(name)]
	category := &model.Category{
		Name:        name,
		Slug:        slug,
		Description: preset.Description,
		Color:       preset.Color,
		Icon:        preset.Icon,
		IsActive:    true,
	}
	if category.Color == "" {
		category.Color = model.DefaultCategoryColor
	}
	setString(&category.Description, in.Description)
	setString(&category.Color, in.Color)
	setString(&category.Icon, in.Icon)
	setBool(&category.IsActive, in.IsActive)

	if err := s.categories.Create(ctx, category); err != nil {
		if errors.Is(err, repository.ErrCategoryExists) {
			return nil, validation.Errors{"name": errors.New("a category with this name already exists")}
		}
		return nil, err
	}
	return s.categoryView(category, 0), nil
}

func (s *blogService) UpdateCategory(ctx context.Context, id string, in CategoryInput) (*CategoryView, error) {
	if err := in.validate(false); err != nil {
		return nil, err
	}
	category, err := s.categories.GetByID(ctx, id)
	if err != nil {
		return nil, mapBlogError(err)
	}
	setString(&category.Name, in.Name)
	setString(&category.Description, in.Description)
	setString(&category.Color, in.Color)
	setString(&category.Icon, in.Icon)
	setBool(&category.IsActive, in.IsActive)

	if err := s.categories.Update(ctx, category); err != nil {
		if errors.Is(err, repository.ErrCategoryExists) {
			return nil, validation.Errors{"name": errors.New("a category with this name already exists")}
		}
		return nil, mapBlogError(err)
	}
	views, err := s.categoryViews(ctx, []*model.Category{category})
	if err != nil {
		return nil, err
	}
	return views[0], nil
}

func (s *blogService) DeleteCategory(ctx context.Context, id string) error {
	return mapBlogError(s.categories.Delete(ctx, id))
}

func (s *blogService) categoryViews(ctx context.Context, categories []*model.Category) ([]*CategoryView, error) {
	ids := make([]string, 0, len(categories))
	for _, c := range categories {
		ids = append(ids, c.ID)
	}
	counts, err := s.categories.CountPublishedPosts(ctx, ids)
	if err != nil {
		return nil, err
	}
	views := make([]*CategoryView, 0, len(categories))
	for _, c := range categories {
		views = append(views, s.categoryView(c, counts[c.ID]))
	}
	return views, nil
}

// categoryView fills an empty color or icon from the configured table.
func (s *blogService) categoryView(c *model.Category, posts int64) *CategoryView {
	if c == nil {
		return nil
	}
	v := &CategoryView{
		ID:          c.ID,
		Name:        c.Name,
		Slug:        c.Slug,
		Description: c.Description,
		Color:       c.Color,
		Icon:        c.Icon,
		IsActive:    c.IsActive,
		PostsCount:  posts,
	}
	preset := s.presets[strings.ToLower(c.Name)]
	if v.Color == "" {
		v.Color = preset.Color
	}
	if v.Color == "" {
		v.Color = model.DefaultCategoryColor
	}
	if v.Icon == "" {
		v.Icon = preset.Icon
	}
	return v
}

// Tags

func (s *blogService) ListTags(ctx context.Context, q *repository.ListQuery) (*repository.Page[*model.Tag], error) {
	return s.tags.List(ctx, q)
}

func (s *blogService) CreateTag(ctx context.Context, in TagInput) (*model.Tag, error) {
	in.Name = strings.TrimSpace(in.Name)
	if err := in.Validate(); err != nil {
		return nil, err
	}
	slug, err := UniqueSlug(ctx, Slugify(in.Name), 50, s.tags.SlugExists)
	if err != nil {
		return nil, err
	}
	tag := &model.Tag{Name: in.Name, Slug: slug}
	if err := s.tags.Create(ctx, tag); err != nil {
		if errors.Is(err, repository.ErrTagExists) {
			return nil, validation.Errors{"name": errors.New("a tag with this name already exists")}
		}
		return nil, err
	}
	return tag, nil
}

func (s *blogService) DeleteTag(ctx context.Context, id string) error {
	return mapBlogError(s.tags.Delete(ctx, id))
}

// Posts

func (s *blogService) ListPosts(ctx context.Context, filter *PostQuery, q *repository.ListQuery) (*repository.Page[*PostSummary], error) {
	pf := &repository.PostFilter{PublishedOnly: true}
	if filter != nil {
		pf.TagIDs = filter.Tags
		pf.DateFrom = filter.DateFrom
		pf.DateTo = filter.DateTo
		pf.Author = filter.Author
	}
	page, err := s.posts.List(ctx, repository.PostListSpec, pf, q)
	if err != nil {
		return nil, err
	}
	views, err := s.summaries(ctx, page.Results)
	if err != nil {
		return nil, err
	}
	return mapPage(page, views), nil
}

func (s *blogService) AdminListPosts(ctx context.Context, q *repository.ListQuery) (*repository.Page[*PostSummary], error) {
	page, err := s.posts.List(ctx, repository.AdminPostListSpec, nil, q)
	if err != nil {
		return nil, err
	}
	views, err := s.summaries(ctx, page.Results)
	if err != nil {
		return nil, err
	}
	return mapPage(page, views), nil
}

func (s *blogService) Featured(ctx context.Context) ([]*PostSummary, error) {
	posts, err := s.posts.Featured(ctx, s.opts.FeaturedLimit)
	if err != nil {
		return nil, err
	}
	return s.summaries(ctx, posts)
}

func (s *blogService) Related(ctx context.Context, slug string) ([]*PostSummary, error) {
	post, err := s.posts.GetBySlug(ctx, slug, true)
	if err != nil {
		return nil, mapBlogError(err)
	}
	posts, err := s.posts.Related(ctx, post, s.opts.RelatedLimit)
	if err != nil {
		return nil, err
	}
	return s.summaries(ctx, posts)
}

func (s *blogService) PostBySlug(ctx context.Context, slug, viewerID string) (*PostDetail, error) {
	post, err := s.posts.GetBySlug(ctx, slug, true)
	if err != nil {
		return nil, mapBlogError(err)
	}
	if err := s.posts.IncrementViews(ctx, post.ID); err != nil {
		logger.L().Warn("increment post views", zap.String("post_id", post.ID), zap.Error(err))
	} else {
		post.ViewsCount++
	}
	return s.detail(ctx, post, viewerID)
}

func (s *blogService) AdminPost(ctx context.Context, id string) (*PostDetail, error) {
	post, err := s.posts.GetByID(ctx, id)
	if err != nil {
		return nil, mapBlogError(err)
	}
	return s.detail(ctx, post, "")
}

// CreatePost derives slug, meta fields and read time once, from the
// submitted values.
func (s *blogService) CreatePost(ctx context.Context, authorID string, in PostInput) (*PostDetail, error) {
	if err := in.validate(true); err != nil {
		return nil, err
	}
	title := strings.TrimSpace(*in.Title)
	post := &model.BlogPost{
		Title:    title,
		AuthorID: authorID,
		Content:  *in.Content,
	}
	setString(&post.Excerpt, in.Excerpt)
	setString(&post.FeaturedImage, in.FeaturedImage)
	setBool(&post.IsFeatured, in.IsFeatured)

	if err := s.applyCategory(ctx, post, in.Category); err != nil {
		return nil, err
	}
	tags, err := s.resolveTags(ctx, in.Tags)
	if err != nil {
		return nil, err
	}
	post.Tags = tags

	slug, err := UniqueSlug(ctx, Slugify(title), 200, s.posts.SlugExists)
	if err != nil {
		return nil, err
	}
	post.Slug = slug

	post.MetaTitle = TruncateRunes(title, metaTitleLen)
	setString(&post.MetaTitle, in.MetaTitle)
	post.MetaDescription = TruncateRunes(post.Excerpt, metaDescriptionLen)
	setString(&post.MetaDescription, in.MetaDescription)
	post.ReadTime = ReadTime(post.Content)
	if in.ReadTime != nil {
		post.ReadTime = *in.ReadTime
	}

	status := model.PostStatusDraft
	if in.Status != nil {
		status = *in.Status
	}
	post.SetStatus(status, s.now())

	err = s.posts.Create(ctx, post)
	if errors.Is(err, repository.ErrPostExists) {
		// another post claimed the slug after UniqueSlug checked it
		logger.L().Info("post slug taken, retrying", zap.String("slug", post.Slug))
		if post.Slug, err = UniqueSlug(ctx, Slugify(title), 200, s.posts.SlugExists); err != nil {
			return nil, err
		}
		err = s.posts.Create(ctx, post)
	}
	if err != nil {
		return nil, mapPostWriteError(err)
	}
	logger.L().Info("blog post created", zap.String("post_id", post.ID), zap.String("slug", post.Slug))
	return s.AdminPost(ctx, post.ID)
}

func (s *blogService) UpdatePost(ctx context.Context, id string, in PostInput) (*PostDetail, error) {
	if err := in.validate(false); err != nil {
		return nil, err
	}
	post, err := s.posts.GetByID(ctx, id)
	if err != nil {
		return nil, mapBlogError(err)
	}

	setString(&post.Title, in.Title)
	setString(&post.Excerpt, in.Excerpt)
	if in.Content != nil {
		post.Content = *in.Content
	}
	setString(&post.FeaturedImage, in.FeaturedImage)
	setBool(&post.IsFeatured, in.IsFeatured)
	setString(&post.MetaTitle, in.MetaTitle)
	setString(&post.MetaDescription, in.MetaDescription)
	if in.ReadTime != nil {
		post.ReadTime = *in.ReadTime
	}
	if err := s.applyCategory(ctx, post, in.Category); err != nil {
		return nil, err
	}
	var tags []model.Tag
	if in.Tags != nil {
		if tags, err = s.resolveTags(ctx, in.Tags); err != nil {
			return nil, err
		}
	}
	if in.Status != nil {
		post.SetStatus(*in.Status, s.now())
	}

	if err := s.posts.Update(ctx, post, tags); err != nil {
		return nil, mapPostWriteError(err)
	}
	return s.AdminPost(ctx, post.ID)
}

func (s *blogService) DeletePost(ctx context.Context, id string) error {
	return mapBlogError(s.posts.Delete(ctx, id))
}

func (s *blogService) RestorePost(ctx context.Context, id string) (*PostDetail, error) {
	if err := s.posts.Restore(ctx, id); err != nil {
		return nil, mapBlogError(err)
	}
	return s.AdminPost(ctx, id)
}

func (s *blogService) applyCategory(ctx context.Context, post *model.BlogPost, id *string) error {
	if id == nil {
		return nil
	}
	v := strings.TrimSpace(*id)
	if v == "" {
		post.CategoryID = nil
		post.Category = nil
		return nil
	}
	category, err := s.categories.GetByID(ctx, v)
	if err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			return validation.Errors{"category": errors.New("unknown category")}
		}
		return err
	}
	post.CategoryID = &category.ID
	post.Category = category
	return nil
}

func (s *blogService) resolveTags(ctx context.Context, ids []string) ([]model.Tag, error) {
	tags, err := s.tags.FindByIDs(ctx, ids)
	if err != nil {
		if errors.Is(err, repository.ErrTagNotFound) {
			return nil, validation.Errors{"tags": errors.New("unknown tag")}
		}
		return nil, err
	}
	return tags, nil
}

func (s *blogService) summaries(ctx context.Context, posts []*model.BlogPost) ([]*PostSummary, error) {
	postIDs := make([]string, 0, len(posts))
	categoryIDs := make([]string, 0, len(posts))
	for _, p := range posts {
		postIDs = append(postIDs, p.ID)
		if p.Category != nil {
			categoryIDs = append(categoryIDs, p.Category.ID)
		}
	}
	comments, err := s.comments.CountApproved(ctx, postIDs)
	if err != nil {
		return nil, err
	}
	categoryPosts, err := s.categories.CountPublishedPosts(ctx, uniqueStrings(categoryIDs))
	if err != nil {
		return nil, err
	}

	out := make([]*PostSummary, 0, len(posts))
	for _, p := range posts {
		var category *CategoryView
		if p.Category != nil {
			category = s.categoryView(p.Category, categoryPosts[p.Category.ID])
		}
		out = append(out, &PostSummary{
			ID:            p.ID,
			Title:         p.Title,
			Slug:          p.Slug,
			Excerpt:       p.Excerpt,
			FeaturedImage: p.FeaturedImage,
			Author:        newAuthorView(p.Author),
			Category:      category,
			Tags:          newTagViews(p.Tags),
			Status:        p.Status,
			IsFeatured:    p.IsFeatured,
			ReadTime:      p.ReadTime,
			ViewsCount:    p.ViewsCount,
			LikesCount:    p.LikesCount,
			CommentsCount: comments[p.ID],
			PublishedAt:   p.PublishedAt,
			CreatedAt:     p.CreatedAt,
		})
	}
	return out, nil
}

func (s *blogService) detail(ctx context.Context, post *model.BlogPost, viewerID string) (*PostDetail, error) {
	summaries, err := s.summaries(ctx, []*model.BlogPost{post})
	if err != nil {
		return nil, err
	}
	d := &PostDetail{
		PostSummary:     *summaries[0],
		Content:         post.Content,
		MetaTitle:       post.MetaTitle,
		MetaDescription: post.MetaDescription,
		UpdatedAt:       post.UpdatedAt,
	}
	if viewerID != "" {
		liked, err := s.posts.LikedPostIDs(ctx, viewerID, []string{post.ID})
		if err != nil {
			return nil, err
		}
		d.IsLiked = liked[post.ID]
	}
	return d, nil
}

// Comments

func (s *blogService) Comments(ctx context.Context, slug string, page int) (*repository.Page[*CommentView], error) {
	post, err := s.posts.GetBySlug(ctx, slug, true)
	if err != nil {
		return nil, mapBlogError(err)
	}
	thread, err := s.comments.Thread(ctx, post.ID, page)
	if err != nil {
		return nil, err
	}
	return mapPage(thread, commentViews(thread.Results)), nil
}

// AddComment posts on a published post. A reply's parent must be a live
// comment on the same post.
func (s *blogService) AddComment(ctx context.Context, slug, authorID string, in CommentInput) (*CommentView, error) {
	in.Content = strings.TrimSpace(in.Content)
	if err := in.Validate(); err != nil {
		return nil, err
	}
	post, err := s.posts.GetBySlug(ctx, slug, true)
	if err != nil {
		return nil, mapBlogError(err)
	}

	comment := &model.Comment{
		PostID:     post.ID,
		AuthorID:   authorID,
		Content:    in.Content,
		IsApproved: true,
	}
	if in.Parent != nil && *in.Parent != "" {
		parent, err := s.comments.GetByID(ctx, *in.Parent)
		if err != nil && !errors.Is(err, repository.ErrCommentNotFound) {
			return nil, err
		}
		if parent == nil || parent.PostID != post.ID {
			return nil, validation.Errors{"parent": errors.New("unknown parent comment")}
		}
		comment.ParentID = &parent.ID
	}

	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, err
	}
	created, err := s.comments.GetByID(ctx, comment.ID)
	if err != nil {
		return nil, err
	}
	return newCommentView(created), nil
}

func (s *blogService) AdminListComments(ctx context.Context, q *repository.ListQuery) (*repository.Page[*CommentView], error) {
	page, err := s.comments.List(ctx, q)
	if err != nil {
		return nil, err
	}
	return mapPage(page, commentViews(page.Results)), nil
}

func (s *blogService) SetCommentApproval(ctx context.Context, id string, approved bool) (*CommentView, error) {
	comment, err := s.comments.GetByID(ctx, id)
	if err != nil {
		return nil, mapBlogError(err)
	}
	comment.IsApproved = approved
	if err := s.comments.Update(ctx, comment); err != nil {
		return nil, mapBlogError(err)
	}
	return newCommentView(comment), nil
}

func (s *blogService) DeleteComment(ctx context.Context, id string) error {
	return mapBlogError(s.comments.Delete(ctx, id))
}

func commentViews(comments []*model.Comment) []*CommentView {
	out := make([]*CommentView, 0, len(comments))
	for _, c := range comments {
		out = append(out, newCommentView(c))
	}
	return out
}

// Likes

func (s *blogService) ToggleLike(ctx context.Context, slug, userID string) (*LikeResult, error) {
	return s.like(ctx, slug, func(postID string) (bool, error) {
		return s.posts.ToggleLike(ctx, postID, userID)
	})
}

func (s *blogService) Like(ctx context.Context, slug, userID string) (*LikeResult, error) {
	return s.like(ctx, slug, func(postID string) (bool, error) {
		_, err := s.posts.AddLike(ctx, postID, userID)
		return true, err
	})
}

func (s *blogService) Unlike(ctx context.Context, slug, userID string) (*LikeResult, error) {
	return s.like(ctx, slug, func(postID string) (bool, error) {
		_, err := s.posts.RemoveLike(ctx, postID, userID)
		return false, err
	})
}

func (s *blogService) like(ctx context.Context, slug string, apply func(postID string) (bool, error)) (*LikeResult, error) {
	post, err := s.posts.GetBySlug(ctx, slug, true)
	if err != nil {
		return nil, mapBlogError(err)
	}
	liked, err := apply(post.ID)
	if err != nil {
		return nil, err
	}
	post, err = s.posts.GetByID(ctx, post.ID)
	if err != nil {
		return nil, mapBlogError(err)
	}
	return &LikeResult{IsLiked: liked, LikesCount: post.LikesCount}, nil
}

func (s *blogService) Stats(ctx context.Context) (*repository.BlogStats, error) {
	return s.posts.Stats(ctx)
}

func mapBlogError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrPostNotFound):
		return ErrPostNotFound
	case errors.Is(err, repository.ErrCategoryNotFound):
		return ErrCategoryNotFound
	case errors.Is(err, repository.ErrTagNotFound):
		return ErrTagNotFound
	case errors.Is(err, repository.ErrCommentNotFound):
		return ErrCommentNotFound
	}
	return err
}

func mapPostWriteError(err error) error {
	if errors.Is(err, repository.ErrPostExists) {
		return validation.Errors{"slug": errors.New("a post with this slug already exists")}
	}
	if errors.Is(err, repository.ErrForeignKey) {
		return validation.Errors{"author": errors.New("unknown author")}
	}
	return mapBlogError(err)
}
