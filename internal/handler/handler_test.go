package handler

import (
	"bytes"
	"context"
	"crypto/rand"
	"crypto/rsa"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/pestozap/pestozap-backend/internal/config"
	"github.com/pestozap/pestozap-backend/internal/middleware"
	pzredis "github.com/pestozap/pestozap-backend/internal/redis"
	"github.com/pestozap/pestozap-backend/internal/repository"
	"github.com/pestozap/pestozap-backend/internal/service"
	"github.com/pestozap/pestozap-backend/internal/storage"
	"github.com/pestozap/pestozap-backend/internal/testutil"
	"github.com/pestozap/pestozap-backend/pkg/response"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var testKey, _ = rsa.GenerateKey(rand.Reader, 2048)

type testAPI struct {
	router *gin.Engine
	db     *gorm.DB
	mr     *miniredis.Miniredis
}

type envelope struct {
	Code int             `json:"code"`
	Msg  string          `json:"msg"`
	Data json.RawMessage `json:"data"`
}

func setupTestAPI(t *testing.T) *testAPI {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testutil.NewDB(t)
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	store, err := storage.NewLocal(t.TempDir(), "http://media.test/media")
	require.NoError(t, err)

	userRepo := repository.NewUserRepository(db)
	uploads := service.NewUploadService(store, &service.UploadConfig{
		MaxSize:      1 << 20,
		AllowedTypes: []string{"general", "blog", "profiles"},
	})

	services := &Services{
		Auth:  service.NewAuthService(userRepo),
		Users: service.NewUserService(userRepo, repository.NewUserProfileRepository(db), uploads),
		Tokens: service.NewTokenService(&service.TokenServiceConfig{
			PrivateKey:   testKey,
			Issuer:       "handler-test",
			AccessExpiry: 5 * time.Minute,
			Revocations:  pzredis.NewTokenDenyList(client),
		}),
		Blog: service.NewBlogService(
			repository.NewCategoryRepository(db),
			repository.NewTagRepository(db),
			repository.NewPostRepository(db),
			repository.NewCommentRepository(db),
			service.BlogOptions{Categories: config.DefaultCategories()},
		),
		Careers:   service.NewCareersService(repository.NewJobRepository(db), repository.NewApplicationRepository(db)),
		Enquiries: service.NewEnquiryService(repository.NewEnquiryRepository(db)),
		Offers:    service.NewOfferService(repository.NewOfferRepository(db)),
		Reviews:   service.NewReviewService(repository.NewReviewRepository(db)),
		Dashboard: service.NewDashboardService(
			repository.NewDashboardRepository(db),
			pzredis.NewJSONCache(client, "dashboard:"),
			service.DashboardOptions{CacheTTL: time.Minute},
		),
		Uploads: uploads,
	}

	router := gin.New()
	router.Use(middleware.Recovery())
	RegisterRoutes(router.Group("/api/v1"), services)
	return &testAPI{router: router, db: db, mr: mr}
}

func (a *testAPI) do(t *testing.T, method, path string, body interface{}, token string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return a.serve(t, req)
}

func (a *testAPI) serve(t *testing.T, req *http.Request) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)

	var env envelope
	if strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	}
	return w, env
}

// login signs in an existing user and returns the access token.
func (a *testAPI) login(t *testing.T, email string) string {
	t.Helper()
	w, env := a.do(t, http.MethodPost, "/api/v1/auth/login", gin.H{"email": email, "password": "Passw0rd!"}, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var tokens TokenResponse
	require.NoError(t, json.Unmarshal(env.Data, &tokens))
	return tokens.Access
}

func decode[T any](t *testing.T, env envelope) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(env.Data, &v))
	return v
}

func TestAuthFlow(t *testing.T) {
	api := setupTestAPI(t)

	w, env := api.do(t, http.MethodPost, "/api/v1/auth/register", gin.H{
		"email":      "jane@example.com",
		"password":   "Passw0rd!",
		"first_name": "Jane",
	}, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	registered := decode[TokenResponse](t, env)
	assert.NotEmpty(t, registered.Access)
	assert.Equal(t, "Bearer", registered.TokenType)
	assert.Equal(t, "jane@example.com", registered.User.Email)

	w, env = api.do(t, http.MethodPost, "/api/v1/auth/register", gin.H{"email": "jane@example.com", "password": "Passw0rd!"}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, response.CodeEmailExists, env.Code)

	w, env = api.do(t, http.MethodPost, "/api/v1/auth/login", gin.H{"email": "jane@example.com", "password": "nope"}, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, response.CodeInvalidCredentials, env.Code)

	access := api.login(t, "jane@example.com")
	w, env = api.do(t, http.MethodGet, "/api/v1/auth/me", nil, access)
	require.Equal(t, http.StatusOK, w.Code)
	me := decode[map[string]interface{}](t, env)
	assert.Equal(t, "Jane", me["first_name"])
	assert.NotContains(t, me, "password_hash")

	w, env = api.do(t, http.MethodPost, "/api/v1/auth/refresh", gin.H{"refresh": registered.Refresh}, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.NotEmpty(t, decode[TokenResponse](t, env).Access)

	// refresh tokens rotate
	w, _ = api.do(t, http.MethodPost, "/api/v1/auth/refresh", gin.H{"refresh": registered.Refresh}, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, _ = api.do(t, http.MethodPost, "/api/v1/auth/logout", nil, access)
	require.Equal(t, http.StatusOK, w.Code)
	w, _ = api.do(t, http.MethodGet, "/api/v1/auth/me", nil, access)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuth_ValidationErrorsInData(t *testing.T) {
	api := setupTestAPI(t)

	w, env := api.do(t, http.MethodPost, "/api/v1/auth/register", gin.H{"email": "nope", "password": "short"}, "")
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, response.CodeValidation, env.Code)
	fields := decode[map[string]string](t, env)
	assert.Contains(t, fields, "email")
	assert.Contains(t, fields, "password")

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader("{not json"))
	req.Header.Set("Content-Type", "application/json")
	w, env = api.serve(t, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, response.CodeInvalidRequest, env.Code)
}

func TestAdminGate(t *testing.T) {
	api := setupTestAPI(t)
	testutil.CreateUser(t, api.db, "member@example.com", false)
	testutil.CreateUser(t, api.db, "staff@example.com", true)

	member := api.login(t, "member@example.com")
	staff := api.login(t, "staff@example.com")

	tests := []struct {
		name   string
		token  string
		status int
	}{
		{"anonymous", "", http.StatusUnauthorized},
		{"member", member, http.StatusForbidden},
		{"staff", staff, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, _ := api.do(t, http.MethodGet, "/api/v1/admin/dashboard", nil, tt.token)
			assert.Equal(t, tt.status, w.Code)
		})
	}

	w, env := api.do(t, http.MethodGet, "/api/v1/admin/dashboard?refresh=true", nil, staff)
	require.Equal(t, http.StatusOK, w.Code)
	summary := decode[service.DashboardSummary](t, env)
	assert.Equal(t, int64(2), summary.Stats.TotalUsers)
}

func TestAdmin_CannotDeleteSelf(t *testing.T) {
	api := setupTestAPI(t)
	admin := testutil.CreateUser(t, api.db, "staff@example.com", true)
	other := testutil.CreateUser(t, api.db, "other@example.com", false)
	token := api.login(t, "staff@example.com")

	w, env := api.do(t, http.MethodDelete, "/api/v1/admin/users/"+admin.ID, nil, token)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, response.CodeForbidden, env.Code)

	w, _ = api.do(t, http.MethodDelete, "/api/v1/admin/users/"+other.ID, nil, token)
	assert.Equal(t, http.StatusOK, w.Code)

	w, env = api.do(t, http.MethodGet, "/api/v1/admin/users/"+other.ID, nil, token)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, response.CodeUserNotFound, env.Code)
}

func TestBlogFlow(t *testing.T) {
	api := setupTestAPI(t)
	testutil.CreateUser(t, api.db, "staff@example.com", true)
	testutil.CreateUser(t, api.db, "reader@example.com", false)
	admin := api.login(t, "staff@example.com")
	reader := api.login(t, "reader@example.com")

	w, env := api.do(t, http.MethodPost, "/api/v1/admin/blog/categories", gin.H{"name": "Termites"}, admin)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	category := decode[service.CategoryView](t, env)
	assert.Equal(t, "termites", category.Slug)

	w, env = api.do(t, http.MethodPost, "/api/v1/admin/blog/posts", gin.H{
		"title":    "Spotting Termites Early",
		"content":  "Look for mud tubes along the foundation.",
		"category": category.ID,
		"status":   "published",
	}, admin)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	post := decode[service.PostDetail](t, env)
	assert.Equal(t, "spotting-termites-early", post.Slug)
	require.NotNil(t, post.PublishedAt)

	w, env = api.do(t, http.MethodGet, "/api/v1/blog/posts?category="+category.ID, nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	page := decode[repository.Page[service.PostSummary]](t, env)
	assert.Equal(t, int64(1), page.Count)
	assert.Equal(t, 1, page.NumPages)
	assert.Equal(t, 1, page.CurrentPage)

	w, env = api.do(t, http.MethodGet, "/api/v1/blog/posts/"+post.Slug, nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(1), decode[service.PostDetail](t, env).ViewsCount)

	w, _ = api.do(t, http.MethodPost, "/api/v1/blog/posts/"+post.Slug+"/like", nil, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, env = api.do(t, http.MethodPost, "/api/v1/blog/posts/"+post.Slug+"/like", nil, reader)
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, service.LikeResult{IsLiked: true, LikesCount: 1}, decode[service.LikeResult](t, env))

	w, env = api.do(t, http.MethodPost, "/api/v1/blog/posts/"+post.Slug+"/like", nil, reader)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, service.LikeResult{IsLiked: false, LikesCount: 0}, decode[service.LikeResult](t, env))

	w, env = api.do(t, http.MethodPost, "/api/v1/blog/posts/"+post.Slug+"/comments", gin.H{"content": "  Very useful  "}, reader)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, "Very useful", decode[service.CommentView](t, env).Content)

	w, env = api.do(t, http.MethodGet, "/api/v1/blog/posts/"+post.Slug+"/comments", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(1), decode[repository.Page[service.CommentView]](t, env).Count)

	w, _ = api.do(t, http.MethodDelete, "/api/v1/admin/blog/posts/"+post.ID, nil, admin)
	require.Equal(t, http.StatusOK, w.Code)
	w, env = api.do(t, http.MethodGet, "/api/v1/blog/posts/"+post.Slug, nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, response.CodePostNotFound, env.Code)

	w, _ = api.do(t, http.MethodPost, "/api/v1/admin/blog/posts/"+post.ID+"/restore", nil, admin)
	assert.Equal(t, http.StatusOK, w.Code)
	w, _ = api.do(t, http.MethodGet, "/api/v1/blog/posts/"+post.Slug, nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestBlog_BadDateFilter(t *testing.T) {
	api := setupTestAPI(t)

	w, env := api.do(t, http.MethodGet, "/api/v1/blog/posts?date_from=yesterday", nil, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decode[map[string]string](t, env), "date_from")

	w, _ = api.do(t, http.MethodGet, "/api/v1/blog/posts?date_from=2026-01-01&date_to=2026-12-31", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestEnquiries(t *testing.T) {
	api := setupTestAPI(t)
	testutil.CreateUser(t, api.db, "staff@example.com", true)
	admin := api.login(t, "staff@example.com")

	w, env := api.do(t, http.MethodPost, "/api/v1/enquiries", gin.H{"type": "contact", "customer_name": "Amina"}, "")
	require.Equal(t, http.StatusBadRequest, w.Code)
	fields := decode[map[string]string](t, env)
	assert.Contains(t, fields, "email")
	assert.Contains(t, fields, "message")

	w, env = api.do(t, http.MethodPost, "/api/v1/enquiries", gin.H{
		"type":          "enquiry",
		"customer_name": "Amina",
		"email":         "amina@example.com",
		"service_type":  "termite",
		"pests":         []string{"termites"},
	}, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	id := decode[map[string]interface{}](t, env)["id"].(string)

	w, env = api.do(t, http.MethodPatch, "/api/v1/admin/enquiries/"+id+"/status", gin.H{"status": "closed"}, admin)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, response.CodeInvalidStatus, env.Code)

	w, _ = api.do(t, http.MethodPatch, "/api/v1/admin/enquiries/"+id+"/status", gin.H{"status": "resolved"}, admin)
	assert.Equal(t, http.StatusOK, w.Code)

	w, env = api.do(t, http.MethodGet, "/api/v1/admin/enquiries/stats", nil, admin)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, repository.EnquiryStats{Total: 1, Resolved: 1}, decode[repository.EnquiryStats](t, env))

	w, env = api.do(t, http.MethodGet, "/api/v1/admin/enquiries?status=resolved&search=amina", nil, admin)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(1), decode[repository.Page[map[string]interface{}]](t, env).Count)

	w, _ = api.do(t, http.MethodGet, "/api/v1/admin/enquiries/export", nil, admin)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, xlsxContentType, w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "attachment; filename=\"enquiries_")
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("PK")), "xlsx is a zip archive")
}

func TestOffers_Redeem(t *testing.T) {
	api := setupTestAPI(t)
	testutil.CreateUser(t, api.db, "staff@example.com", true)
	admin := api.login(t, "staff@example.com")

	now := time.Now().UTC()
	w, env := api.do(t, http.MethodPost, "/api/v1/admin/offers", gin.H{
		"title":         "Spring Clean",
		"discount":      "15",
		"discount_type": "percentage",
		"code":          "spring15",
		"valid_from":    now.Add(-time.Hour),
		"valid_to":      now.Add(24 * time.Hour),
		"usage_limit":   1,
	}, admin)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w, _ = api.do(t, http.MethodGet, "/api/v1/offers/code/SPRING15", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)

	w, _ = api.do(t, http.MethodPost, "/api/v1/offers/code/SPRING15/redeem", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)

	w, env = api.do(t, http.MethodPost, "/api/v1/offers/code/SPRING15/redeem", nil, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, response.CodeOfferExhausted, env.Code)

	w, env = api.do(t, http.MethodGet, "/api/v1/offers/code/NOPE", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, response.CodeOfferNotFound, env.Code)
}

func TestOffers_CalendarDates(t *testing.T) {
	api := setupTestAPI(t)
	testutil.CreateUser(t, api.db, "staff@example.com", true)
	admin := api.login(t, "staff@example.com")

	w, env := api.do(t, http.MethodPost, "/api/v1/admin/offers", gin.H{
		"title":         "All Year",
		"discount":      "10",
		"discount_type": "percentage",
		"code":          "ALLYEAR",
		"valid_from":    "2020-01-01",
		"valid_to":      "2099-12-31",
		"usage_limit":   5,
	}, admin)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	offer := decode[map[string]interface{}](t, env)
	assert.Equal(t, "2099-12-31T23:59:59Z", offer["valid_to"])
	assert.Equal(t, true, offer["is_valid"])

	w, env = api.do(t, http.MethodPost, "/api/v1/admin/offers", gin.H{
		"title":         "Bad Date",
		"discount":      "10",
		"discount_type": "percentage",
		"code":          "BADDATE",
		"valid_from":    "01/01/2020",
		"valid_to":      "2099-12-31",
		"usage_limit":   5,
	}, admin)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestReviews(t *testing.T) {
	api := setupTestAPI(t)
	testutil.CreateUser(t, api.db, "staff@example.com", true)
	admin := api.login(t, "staff@example.com")

	w, env := api.do(t, http.MethodPost, "/api/v1/reviews", gin.H{
		"name": "Grace", "email": "grace@example.com", "rating": 5, "comment": "Spotless work", "display_location": "home",
	}, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	id := decode[map[string]interface{}](t, env)["id"].(string)

	w, env = api.do(t, http.MethodGet, "/api/v1/reviews?location=community", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(0), decode[repository.Page[map[string]interface{}]](t, env).Count)

	w, _ = api.do(t, http.MethodPut, "/api/v1/admin/reviews/"+id, gin.H{"is_approved": false}, admin)
	require.Equal(t, http.StatusOK, w.Code)
	w, env = api.do(t, http.MethodGet, "/api/v1/reviews?location=home", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(0), decode[repository.Page[map[string]interface{}]](t, env).Count)

	w, _ = api.do(t, http.MethodPost, "/api/v1/admin/reviews/"+id+"/approve", nil, admin)
	require.Equal(t, http.StatusOK, w.Code)

	w, env = api.do(t, http.MethodGet, "/api/v1/reviews?location=home", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(1), decode[repository.Page[map[string]interface{}]](t, env).Count)

	w, _ = api.do(t, http.MethodGet, "/api/v1/reviews?location=garden", nil, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, env = api.do(t, http.MethodGet, "/api/v1/reviews/stats", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 5.0, decode[repository.ReviewStats](t, env).AverageRating)
}

func TestCareers(t *testing.T) {
	api := setupTestAPI(t)
	testutil.CreateUser(t, api.db, "staff@example.com", true)
	admin := api.login(t, "staff@example.com")

	w, env := api.do(t, http.MethodPost, "/api/v1/admin/jobs", gin.H{
		"title": "Pest Technician", "location": "Nairobi", "employment_type": "full-time",
	}, admin)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	job := decode[map[string]interface{}](t, env)
	jobID := job["id"].(string)

	w, _ = api.do(t, http.MethodGet, "/api/v1/jobs/active", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)

	w, _ = api.do(t, http.MethodPost, "/api/v1/applications", gin.H{
		"job": jobID, "full_name": "Otieno", "email": "otieno@example.com",
	}, "")
	assert.Equal(t, http.StatusCreated, w.Code)

	w, env = api.do(t, http.MethodGet, "/api/v1/admin/applications?job="+jobID, nil, admin)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(1), decode[repository.Page[map[string]interface{}]](t, env).Count)

	w, env = api.do(t, http.MethodGet, "/api/v1/jobs/missing", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, response.CodeJobNotFound, env.Code)
}

func TestUpload(t *testing.T) {
	api := setupTestAPI(t)
	testutil.CreateUser(t, api.db, "staff@example.com", true)
	admin := api.login(t, "staff@example.com")

	upload := func(kind, name string, content []byte) (*httptest.ResponseRecorder, envelope) {
		var buf bytes.Buffer
		mw := multipart.NewWriter(&buf)
		if kind != "" {
			require.NoError(t, mw.WriteField("type", kind))
		}
		if name != "" {
			fw, err := mw.CreateFormFile(UploadField, name)
			require.NoError(t, err)
			_, err = fw.Write(content)
			require.NoError(t, err)
		}
		require.NoError(t, mw.Close())

		req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/upload", &buf)
		req.Header.Set("Content-Type", mw.FormDataContentType())
		req.Header.Set("Authorization", "Bearer "+admin)
		return api.serve(t, req)
	}

	w, env := upload("blog", "ant trail.jpg", []byte("jpeg bytes"))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	result := decode[service.UploadResult](t, env)
	assert.True(t, strings.HasPrefix(result.Key, "blog/"), result.Key)
	assert.True(t, strings.HasSuffix(result.Key, "_ant_trail.jpg"), result.Key)
	assert.Equal(t, "http://media.test/media/"+result.Key, result.URL)

	w, env = upload("blog", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, response.CodeFileRequired, env.Code)

	w, env = upload("malware", "x.exe", []byte("x"))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, response.CodeUploadType, env.Code)
}

func TestListQuery(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		url  string
		want repository.ListQuery
	}{
		{"/x", repository.ListQuery{Page: 1, Filters: map[string]string{}}},
		{"/x?page=3&search=+ants+&ordering=-created_at", repository.ListQuery{Page: 3, Search: "ants", Ordering: "-created_at", Filters: map[string]string{}}},
		{"/x?page=zero&status=new&priority=", repository.ListQuery{Page: 1, Filters: map[string]string{"status": "new"}}},
	}
	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			c.Request = httptest.NewRequest(http.MethodGet, tt.url, nil)
			assert.Equal(t, &tt.want, listQuery(c))
		})
	}
}

func TestFail_UnknownErrorIsHidden(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/x", nil)

	fail(c, fmt.Errorf("query users: %w", context.DeadlineExceeded))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "deadline")
}
