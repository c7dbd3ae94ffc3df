package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/pestozap/pestozap-backend/internal/middleware"
	"github.com/pestozap/pestozap-backend/internal/permission"
	"github.com/pestozap/pestozap-backend/internal/service"
)

// Services are the dependencies of the API routes.
type Services struct {
	Auth      service.AuthService
	Users     service.UserService
	Tokens    service.TokenService
	Blog      service.BlogService
	Careers   service.CareersService
	Enquiries service.EnquiryService
	Offers    service.OfferService
	Reviews   service.ReviewService
	Dashboard service.DashboardService
	Uploads   service.UploadService
}

// RegisterRoutes mounts the public, authenticated and admin API on api.
func RegisterRoutes(api *gin.RouterGroup, s *Services) {
	authHandler := NewAuthHandler(s.Users, s.Auth, s.Tokens)
	userHandler := NewUserHandler(s.Users)
	blogHandler := NewBlogHandler(s.Blog)
	careersHandler := NewCareersHandler(s.Careers)
	enquiryHandler := NewEnquiryHandler(s.Enquiries)
	offerHandler := NewOfferHandler(s.Offers)
	reviewHandler := NewReviewHandler(s.Reviews)
	dashboardHandler := NewDashboardHandler(s.Dashboard)
	uploadHandler := NewUploadHandler(s.Uploads)

	authenticated := []gin.HandlerFunc{
		middleware.JWTAuth(s.Tokens),
		middleware.RequireCapability(s.Users, permission.CapAuthenticated),
	}

	auth := api.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
		auth.POST("/refresh", authHandler.RefreshToken)

		auth.POST("/logout", append(authenticated, authHandler.Logout)...)
		auth.GET("/me", append(authenticated, authHandler.GetCurrentUser)...)
		auth.POST("/change-password", append(authenticated, authHandler.ChangePassword)...)
	}

	users := api.Group("/users", authenticated...)
	{
		users.GET("/profile", userHandler.GetProfile)
		users.PUT("/profile", userHandler.UpdateProfile)
		users.PATCH("/profile", userHandler.UpdateProfile)
		users.GET("/profile/extended", userHandler.GetExtendedProfile)
		users.PUT("/profile/extended", userHandler.UpdateExtendedProfile)
		users.PATCH("/profile/extended", userHandler.UpdateExtendedProfile)
		users.POST("/profile/picture", userHandler.UploadProfilePicture)
		users.DELETE("/profile/picture", userHandler.DeleteProfilePicture)
		users.GET("/stats", userHandler.Stats)
	}

	blog := api.Group("/blog")
	{
		blog.GET("/categories", blogHandler.ListCategories)
		blog.GET("/tags", blogHandler.ListTags)
		blog.GET("/stats", blogHandler.Stats)

		blog.GET("/posts", blogHandler.ListPosts)
		blog.GET("/posts/featured", blogHandler.Featured)
		blog.GET("/posts/:slug", middleware.OptionalJWTAuth(s.Tokens), blogHandler.GetPost)
		blog.GET("/posts/:slug/related", blogHandler.Related)
		blog.GET("/posts/:slug/comments", blogHandler.Comments)

		blog.POST("/posts", append(authenticated, blogHandler.CreatePost)...)
		blog.POST("/posts/:slug/comments", append(authenticated, blogHandler.AddComment)...)
		blog.POST("/posts/:slug/like", append(authenticated, blogHandler.ToggleLike)...)
		blog.PUT("/posts/:slug/like", append(authenticated, blogHandler.Like)...)
		blog.DELETE("/posts/:slug/like", append(authenticated, blogHandler.Unlike)...)
	}

	jobs := api.Group("/jobs")
	{
		jobs.GET("", careersHandler.ListJobs)
		jobs.GET("/active", careersHandler.ActiveJobs)
		jobs.GET("/:id", careersHandler.GetJob)
	}
	api.POST("/applications", careersHandler.Apply)

	api.POST("/enquiries", enquiryHandler.Submit)

	offers := api.Group("/offers")
	{
		offers.GET("/active", offerHandler.Active)
		offers.GET("/code/:code", offerHandler.GetByCode)
		offers.POST("/code/:code/redeem", offerHandler.Redeem)
	}

	reviews := api.Group("/reviews")
	{
		reviews.GET("", reviewHandler.Approved)
		reviews.POST("", reviewHandler.Submit)
		reviews.GET("/stats", reviewHandler.Stats)
	}

	admin := api.Group("/admin",
		middleware.JWTAuth(s.Tokens),
		middleware.RequireCapability(s.Users, permission.CapAdmin),
	)
	{
		admin.GET("/dashboard", dashboardHandler.Summary)
		admin.POST("/upload", uploadHandler.Upload)

		admin.GET("/users", userHandler.ListUsers)
		admin.GET("/users/:id", userHandler.GetUser)
		admin.PUT("/users/:id", userHandler.UpdateUser)
		admin.PATCH("/users/:id", userHandler.UpdateUser)
		admin.DELETE("/users/:id", userHandler.DeleteUser)

		admin.GET("/blog/posts", blogHandler.AdminListPosts)
		admin.POST("/blog/posts", blogHandler.CreatePost)
		admin.GET("/blog/posts/:id", blogHandler.AdminGetPost)
		admin.PUT("/blog/posts/:id", blogHandler.UpdatePost)
		admin.PATCH("/blog/posts/:id", blogHandler.UpdatePost)
		admin.DELETE("/blog/posts/:id", blogHandler.DeletePost)
		admin.POST("/blog/posts/:id/restore", blogHandler.RestorePost)
		admin.GET("/blog/categories", blogHandler.AdminListCategories)
		admin.POST("/blog/categories", blogHandler.CreateCategory)
		admin.PUT("/blog/categories/:id", blogHandler.UpdateCategory)
		admin.PATCH("/blog/categories/:id", blogHandler.UpdateCategory)
		admin.DELETE("/blog/categories/:id", blogHandler.DeleteCategory)
		admin.POST("/blog/tags", blogHandler.CreateTag)
		admin.DELETE("/blog/tags/:id", blogHandler.DeleteTag)
		admin.GET("/blog/comments", blogHandler.AdminListComments)
		admin.PUT("/blog/comments/:id/approval", blogHandler.SetCommentApproval)
		admin.DELETE("/blog/comments/:id", blogHandler.DeleteComment)

		admin.GET("/jobs", careersHandler.ListJobs)
		admin.POST("/jobs", careersHandler.CreateJob)
		admin.PUT("/jobs/:id", careersHandler.UpdateJob)
		admin.PATCH("/jobs/:id", careersHandler.UpdateJob)
		admin.DELETE("/jobs/:id", careersHandler.DeleteJob)
		admin.GET("/applications", careersHandler.ListApplications)
		admin.GET("/applications/:id", careersHandler.GetApplication)
		admin.DELETE("/applications/:id", careersHandler.DeleteApplication)

		admin.GET("/enquiries", enquiryHandler.List)
		admin.GET("/enquiries/stats", enquiryHandler.Stats)
		admin.GET("/enquiries/export", enquiryHandler.Export)
		admin.GET("/enquiries/:id", enquiryHandler.Get)
		admin.PUT("/enquiries/:id", enquiryHandler.Update)
		admin.PATCH("/enquiries/:id", enquiryHandler.Update)
		admin.PATCH("/enquiries/:id/status", enquiryHandler.UpdateStatus)
		admin.DELETE("/enquiries/:id", enquiryHandler.Delete)
		admin.POST("/enquiries/:id/restore", enquiryHandler.Restore)

		admin.GET("/offers", offerHandler.List)
		admin.GET("/offers/stats", offerHandler.Stats)
		admin.POST("/offers", offerHandler.Create)
		admin.GET("/offers/:id", offerHandler.Get)
		admin.PUT("/offers/:id", offerHandler.Update)
		admin.PATCH("/offers/:id", offerHandler.Update)
		admin.DELETE("/offers/:id", offerHandler.Delete)

		admin.GET("/reviews", reviewHandler.List)
		admin.GET("/reviews/:id", reviewHandler.Get)
		admin.PUT("/reviews/:id", reviewHandler.Update)
		admin.PATCH("/reviews/:id", reviewHandler.Update)
		admin.POST("/reviews/:id/approve", reviewHandler.Approve)
		admin.DELETE("/reviews/:id", reviewHandler.Delete)
	}
}
