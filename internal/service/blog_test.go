package service

import (
	"context"
	"errors"
	"testing"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/pestozap/pestozap-backend/internal/config"
	"github.com/pestozap/pestozap-backend/internal/model"
	"github.com/pestozap/pestozap-backend/internal/repository"
	"github.com/pestozap/pestozap-backend/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type blogFixture struct {
	svc    BlogService
	author *model.User
	reader *model.User
}

func newBlogFixture(t *testing.T) *blogFixture {
	t.Helper()
	db := testutil.NewDB(t)
	svc := NewBlogService(
		repository.NewCategoryRepository(db),
		repository.NewTagRepository(db),
		repository.NewPostRepository(db),
		repository.NewCommentRepository(db),
		BlogOptions{Categories: config.DefaultCategories()},
	)
	return &blogFixture{
		svc:    svc,
		author: testutil.CreateUser(t, db, "writer@example.com", true),
		reader: testutil.CreateUser(t, db, "reader@example.com", false),
	}
}

func (f *blogFixture) publish(t *testing.T, title string, opts ...func(*PostInput)) *PostDetail {
	t.Helper()
	in := PostInput{
		Title:   strPtr(title),
		Content: strPtr("Keep food sealed and wipe counters daily."),
		Status:  strPtr(model.PostStatusPublished),
	}
	for _, opt := range opts {
		opt(&in)
	}
	post, err := f.svc.CreatePost(context.Background(), f.author.ID, in)
	require.NoError(t, err)
	return post
}

func TestBlogService_CreatePost(t *testing.T) {
	f := newBlogFixture(t)
	ctx := context.Background()

	post, err := f.svc.CreatePost(ctx, f.author.ID, PostInput{
		Title:   strPtr("Ant Control 101"),
		Excerpt: strPtr("Everything about ants"),
		Content: strPtr("Ants follow scent trails."),
	})
	require.NoError(t, err)
	assert.Equal(t, "ant-control-101", post.Slug)
	assert.Equal(t, model.PostStatusDraft, post.Status)
	assert.Nil(t, post.PublishedAt)
	assert.Equal(t, "Ant Control 101", post.MetaTitle)
	assert.Equal(t, "Everything about ants", post.MetaDescription)
	assert.Equal(t, 1, post.ReadTime)
	require.NotNil(t, post.Author)
	assert.Equal(t, f.author.ID, post.Author.ID)

	// same title, new slug
	again, err := f.svc.CreatePost(ctx, f.author.ID, PostInput{Title: strPtr("Ant Control 101"), Content: strPtr("x")})
	require.NoError(t, err)
	assert.Equal(t, "ant-control-101-2", again.Slug)

	// drafts are not public
	_, err = f.svc.PostBySlug(ctx, post.Slug, "")
	assert.ErrorIs(t, err, ErrPostNotFound)
}

// racingPosts reports the first slug lookup as free, as if a concurrent
// request inserted the same slug between the check and the insert.
type racingPosts struct {
	repository.PostRepository
	raced bool
}

func (r *racingPosts) SlugExists(ctx context.Context, slug string) (bool, error) {
	if !r.raced {
		r.raced = true
		return false, nil
	}
	return r.PostRepository.SlugExists(ctx, slug)
}

func TestBlogService_CreatePost_RetriesTakenSlug(t *testing.T) {
	db := testutil.NewDB(t)
	author := testutil.CreateUser(t, db, "writer@example.com", true)
	posts := repository.NewPostRepository(db)
	ctx := context.Background()

	require.NoError(t, posts.Create(ctx, &model.BlogPost{
		Title: "Wasp Nests", Slug: "wasp-nests", Content: "x", AuthorID: author.ID, Status: model.PostStatusDraft,
	}))

	svc := NewBlogService(
		repository.NewCategoryRepository(db),
		repository.NewTagRepository(db),
		&racingPosts{PostRepository: posts},
		repository.NewCommentRepository(db),
		BlogOptions{Categories: config.DefaultCategories()},
	)
	post, err := svc.CreatePost(ctx, author.ID, PostInput{Title: strPtr("Wasp Nests"), Content: strPtr("y")})
	require.NoError(t, err)
	assert.Equal(t, "wasp-nests-2", post.Slug)
}

func TestBlogService_CreatePost_Validation(t *testing.T) {
	f := newBlogFixture(t)
	ctx := context.Background()

	_, err := f.svc.CreatePost(ctx, f.author.ID, PostInput{Content: strPtr("x")})
	var verrs validation.Errors
	require.True(t, errors.As(err, &verrs))
	assert.Contains(t, verrs, "title")

	_, err = f.svc.CreatePost(ctx, f.author.ID, PostInput{Title: strPtr("t"), Content: strPtr("x"), Status: strPtr("hidden")})
	require.True(t, errors.As(err, &verrs))
	assert.Contains(t, verrs, "status")

	_, err = f.svc.CreatePost(ctx, f.author.ID, PostInput{Title: strPtr("t"), Content: strPtr("x"), Category: strPtr("missing")})
	require.True(t, errors.As(err, &verrs))
	assert.Contains(t, verrs, "category")

	_, err = f.svc.CreatePost(ctx, f.author.ID, PostInput{Title: strPtr("t"), Content: strPtr("x"), Tags: []string{"missing"}})
	require.True(t, errors.As(err, &verrs))
	assert.Contains(t, verrs, "tags")
}

func TestBlogService_PublishedAtIsStable(t *testing.T) {
	f := newBlogFixture(t)
	ctx := context.Background()
	post := f.publish(t, "Termite Season")
	require.NotNil(t, post.PublishedAt)
	first := *post.PublishedAt

	archived, err := f.svc.UpdatePost(ctx, post.ID, PostInput{Status: strPtr(model.PostStatusArchived)})
	require.NoError(t, err)
	assert.Equal(t, model.PostStatusArchived, archived.Status)

	republished, err := f.svc.UpdatePost(ctx, post.ID, PostInput{Status: strPtr(model.PostStatusPublished)})
	require.NoError(t, err)
	require.NotNil(t, republished.PublishedAt)
	assert.True(t, first.Equal(*republished.PublishedAt))
}

func TestBlogService_UpdatePost_TagsAndCategory(t *testing.T) {
	f := newBlogFixture(t)
	ctx := context.Background()

	category, err := f.svc.CreateCategory(ctx, CategoryInput{Name: strPtr("Termites")})
	require.NoError(t, err)
	tag, err := f.svc.CreateTag(ctx, TagInput{Name: "Bed Bugs"})
	require.NoError(t, err)
	assert.Equal(t, "bed-bugs", tag.Slug)

	post := f.publish(t, "Spotting Termites", func(in *PostInput) {
		in.Category = strPtr(category.ID)
		in.Tags = []string{tag.ID}
	})
	require.NotNil(t, post.Category)
	assert.Equal(t, "#EF4444", post.Category.Color)
	assert.Equal(t, int64(1), post.Category.PostsCount)
	require.Len(t, post.Tags, 1)

	// nil tags keep the set
	updated, err := f.svc.UpdatePost(ctx, post.ID, PostInput{Title: strPtr("Spotting Termites Early")})
	require.NoError(t, err)
	assert.Len(t, updated.Tags, 1)
	assert.Equal(t, post.Slug, updated.Slug)

	// empty tags clear it, empty category detaches
	updated, err = f.svc.UpdatePost(ctx, post.ID, PostInput{Tags: []string{}, Category: strPtr("")})
	require.NoError(t, err)
	assert.Empty(t, updated.Tags)
	assert.Nil(t, updated.Category)
}

func TestBlogService_Categories(t *testing.T) {
	f := newBlogFixture(t)
	ctx := context.Background()

	preset, err := f.svc.CreateCategory(ctx, CategoryInput{Name: strPtr("Eco-Friendly")})
	require.NoError(t, err)
	assert.Equal(t, "eco-friendly", preset.Slug)
	assert.Equal(t, "#059669", preset.Color)
	assert.Equal(t, "eco", preset.Icon)

	custom, err := f.svc.CreateCategory(ctx, CategoryInput{Name: strPtr("Wasps"), IsActive: boolPtr(false)})
	require.NoError(t, err)
	assert.Equal(t, model.DefaultCategoryColor, custom.Color)

	_, err = f.svc.CreateCategory(ctx, CategoryInput{Name: strPtr("Wasps")})
	var verrs validation.Errors
	require.True(t, errors.As(err, &verrs))

	_, err = f.svc.CreateCategory(ctx, CategoryInput{Name: strPtr("Flies"), Color: strPtr("red")})
	require.True(t, errors.As(err, &verrs))
	assert.Contains(t, verrs, "color")

	active, err := f.svc.ListCategories(ctx, nil, true)
	require.NoError(t, err)
	assert.Equal(t, int64(1), active.Count)

	all, err := f.svc.ListCategories(ctx, nil, false)
	require.NoError(t, err)
	assert.Equal(t, int64(2), all.Count)

	require.NoError(t, f.svc.DeleteCategory(ctx, custom.ID))
	assert.ErrorIs(t, f.svc.DeleteCategory(ctx, custom.ID), ErrCategoryNotFound)
}

func TestBlogService_PostBySlug_CountsViews(t *testing.T) {
	f := newBlogFixture(t)
	ctx := context.Background()
	post := f.publish(t, "Mosquito Myths")

	first, err := f.svc.PostBySlug(ctx, post.Slug, "")
	require.NoError(t, err)
	assert.Equal(t, int64(1), first.ViewsCount)
	assert.False(t, first.IsLiked)

	second, err := f.svc.PostBySlug(ctx, post.Slug, f.reader.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), second.ViewsCount)
}

func TestBlogService_Likes(t *testing.T) {
	f := newBlogFixture(t)
	ctx := context.Background()
	post := f.publish(t, "Rodent Proofing")

	res, err := f.svc.ToggleLike(ctx, post.Slug, f.reader.ID)
	require.NoError(t, err)
	assert.Equal(t, &LikeResult{IsLiked: true, LikesCount: 1}, res)

	detail, err := f.svc.PostBySlug(ctx, post.Slug, f.reader.ID)
	require.NoError(t, err)
	assert.True(t, detail.IsLiked)

	res, err = f.svc.ToggleLike(ctx, post.Slug, f.reader.ID)
	require.NoError(t, err)
	assert.Equal(t, &LikeResult{IsLiked: false, LikesCount: 0}, res)

	// like and unlike are idempotent
	for i := 0; i < 2; i++ {
		res, err = f.svc.Like(ctx, post.Slug, f.author.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(1), res.LikesCount)
	}
	for i := 0; i < 2; i++ {
		res, err = f.svc.Unlike(ctx, post.Slug, f.author.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(0), res.LikesCount)
		assert.False(t, res.IsLiked)
	}

	_, err = f.svc.ToggleLike(ctx, "missing", f.reader.ID)
	assert.ErrorIs(t, err, ErrPostNotFound)
}

func TestBlogService_Comments(t *testing.T) {
	f := newBlogFixture(t)
	ctx := context.Background()
	post := f.publish(t, "Cockroach Control")
	other := f.publish(t, "Flea Control")

	top, err := f.svc.AddComment(ctx, post.Slug, f.reader.ID, CommentInput{Content: "  Great tips  "})
	require.NoError(t, err)
	assert.Equal(t, "Great tips", top.Content)
	assert.True(t, top.IsApproved)
	require.NotNil(t, top.Author)

	reply, err := f.svc.AddComment(ctx, post.Slug, f.author.ID, CommentInput{Content: "Thanks", Parent: strPtr(top.ID)})
	require.NoError(t, err)
	assert.Equal(t, top.ID, *reply.Parent)

	_, err = f.svc.AddComment(ctx, other.Slug, f.author.ID, CommentInput{Content: "x", Parent: strPtr(top.ID)})
	var verrs validation.Errors
	require.True(t, errors.As(err, &verrs))
	assert.Contains(t, verrs, "parent")

	_, err = f.svc.AddComment(ctx, post.Slug, f.reader.ID, CommentInput{Content: "   "})
	require.True(t, errors.As(err, &verrs))

	thread, err := f.svc.Comments(ctx, post.Slug, 1)
	require.NoError(t, err)
	require.Len(t, thread.Results, 1)
	require.Len(t, thread.Results[0].Replies, 1)
	assert.Equal(t, "Thanks", thread.Results[0].Replies[0].Content)

	summary, err := f.svc.AdminPost(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), summary.CommentsCount)

	hidden, err := f.svc.SetCommentApproval(ctx, top.ID, false)
	require.NoError(t, err)
	assert.False(t, hidden.IsApproved)
	thread, err = f.svc.Comments(ctx, post.Slug, 1)
	require.NoError(t, err)
	assert.Empty(t, thread.Results)

	require.NoError(t, f.svc.DeleteComment(ctx, reply.ID))
	assert.ErrorIs(t, f.svc.DeleteComment(ctx, reply.ID), ErrCommentNotFound)
}

func TestBlogService_DeleteAndRestorePost(t *testing.T) {
	f := newBlogFixture(t)
	ctx := context.Background()
	post := f.publish(t, "Wasp Nests")

	require.NoError(t, f.svc.DeletePost(ctx, post.ID))
	_, err := f.svc.PostBySlug(ctx, post.Slug, "")
	assert.ErrorIs(t, err, ErrPostNotFound)

	restored, err := f.svc.RestorePost(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, post.Slug, restored.Slug)
}

func TestBlogService_ListPostsAndStats(t *testing.T) {
	f := newBlogFixture(t)
	ctx := context.Background()
	f.publish(t, "Spider Season", func(in *PostInput) { in.IsFeatured = boolPtr(true) })
	f.publish(t, "Silverfish Guide")
	_, err := f.svc.CreatePost(ctx, f.author.ID, PostInput{Title: strPtr("Draft"), Content: strPtr("x")})
	require.NoError(t, err)

	public, err := f.svc.ListPosts(ctx, nil, &repository.ListQuery{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), public.Count)

	admin, err := f.svc.AdminListPosts(ctx, &repository.ListQuery{})
	require.NoError(t, err)
	assert.Equal(t, int64(3), admin.Count)

	featured, err := f.svc.Featured(ctx)
	require.NoError(t, err)
	require.Len(t, featured, 1)
	assert.Equal(t, "spider-season", featured[0].Slug)

	future := time.Now().UTC().Add(24 * time.Hour)
	none, err := f.svc.ListPosts(ctx, &PostQuery{DateFrom: &future}, &repository.ListQuery{})
	require.NoError(t, err)
	assert.Zero(t, none.Count)

	stats, err := f.svc.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.TotalPosts)
	assert.Equal(t, int64(1), stats.FeaturedPosts)
}
