package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/mert/lectern/internal/app/controllers"
	"github.com/mert/lectern/internal/app/models"
	"github.com/mert/lectern/internal/middleware"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	authController *controllers.AuthController,
	categoryController *controllers.CategoryController,
	courseController *controllers.CourseController,
	sectionController *controllers.SectionController,
	lectureController *controllers.LectureController,
	enrollmentController *controllers.EnrollmentController,
	wishlistController *controllers.WishlistController,
	discussionController *controllers.DiscussionController,
	authMiddleware *middleware.AuthMiddleware,
) {
	v1 := router.Group("/api/v1")

	// --- Public auth routes ---
	auth := v1.Group("/auth")
	{
		auth.POST("/register", authController.Register)
		auth.POST("/login", authController.Login)
		auth.POST("/refresh", authController.RefreshToken)
	}

	// --- Public catalog routes ---
	categories := v1.Group("/categories")
	{
		categories.GET("", categoryController.GetAllCategories)
		categories.GET("/:id", categoryController.GetCategory)
	}

	// Course reads take an optional token: owners and admins can see
	// their unpublished courses and full curriculum content
	courses := v1.Group("/courses")
	courses.Use(authMiddleware.OptionalJWTAuth())
	{
		courses.GET("", courseController.ListCourses)
		courses.GET("/:id", courseController.GetCourse)
		courses.GET("/:id/sections", sectionController.GetCurriculum)
		courses.GET("/:id/sections/:sectionId", sectionController.GetSection)
	}

	lectures := v1.Group("/lectures")
	lectures.Use(authMiddleware.OptionalJWTAuth())
	{
		lectures.GET("/:id", lectureController.GetLecture)
	}

	// --- Authenticated routes ---
	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.JWTAuth())
	{
		authProtected := authenticated.Group("/auth")
		{
			authProtected.POST("/logout", authController.Logout)
			authProtected.POST("/logout-all", authController.LogoutAll)
			authProtected.GET("/me", authController.GetProfile)
			authProtected.PUT("/me", authController.UpdateProfile)
		}

		// Category administration
		categoriesAdmin := authenticated.Group("/categories")
		categoriesAdmin.Use(authMiddleware.RoleRequired(models.RoleAdmin))
		{
			categoriesAdmin.POST("", categoryController.CreateCategory)
			categoriesAdmin.PUT("/:id", categoryController.UpdateCategory)
			categoriesAdmin.DELETE("/:id", categoryController.DeleteCategory)
		}

		// Course management. Ownership is enforced in the service layer,
		// so admins can manage any course through the same endpoints.
		coursesManage := authenticated.Group("/courses")
		{
			coursesInstructor := coursesManage.Group("")
			coursesInstructor.Use(authMiddleware.RoleRequired(models.RoleInstructor, models.RoleAdmin))
			{
				coursesInstructor.POST("", courseController.CreateCourse)
				coursesInstructor.PUT("/:id", courseController.UpdateCourse)
				coursesInstructor.DELETE("/:id", courseController.DeleteCourse)
				coursesInstructor.PATCH("/:id/publish", courseController.PublishCourse)
				coursesInstructor.POST("/:id/cover", courseController.UploadCoverImage)
				coursesInstructor.POST("/:id/sections", sectionController.CreateSection)
				coursesInstructor.GET("/:id/roster", enrollmentController.GetRoster)
			}

			// Course discussion (enrollment checked in the service)
			coursesManage.GET("/:id/discussion", discussionController.GetHistory)
			coursesManage.POST("/:id/discussion", discussionController.PostMessage)
			coursesManage.GET("/:id/discussion/ws", discussionController.JoinDiscussion)
		}

		instructors := authenticated.Group("/instructors")
		instructors.Use(authMiddleware.RoleRequired(models.RoleInstructor, models.RoleAdmin))
		{
			instructors.GET("/me/courses", courseController.ListOwnCourses)
		}

		sections := authenticated.Group("/sections")
		sections.Use(authMiddleware.RoleRequired(models.RoleInstructor, models.RoleAdmin))
		{
			sections.PUT("/:id", sectionController.UpdateSection)
			sections.DELETE("/:id", sectionController.DeleteSection)
			sections.POST("/:id/lectures", lectureController.CreateLecture)
		}

		lecturesManage := authenticated.Group("/lectures")
		lecturesManage.Use(authMiddleware.RoleRequired(models.RoleInstructor, models.RoleAdmin))
		{
			lecturesManage.PUT("/:id", lectureController.UpdateLecture)
			lecturesManage.DELETE("/:id", lectureController.DeleteLecture)
		}

		enrollments := authenticated.Group("/enrollments")
		{
			enrollments.POST("", enrollmentController.Enroll)
			enrollments.GET("", enrollmentController.ListMyEnrollments)
			enrollments.GET("/:id", enrollmentController.GetEnrollment)
			enrollments.POST("/progress", enrollmentController.CompleteLecture)
			enrollments.DELETE("/courses/:courseId", enrollmentController.Drop)
		}

		wishlist := authenticated.Group("/wishlist")
		{
			wishlist.POST("", wishlistController.AddToWishlist)
			wishlist.GET("", wishlistController.GetWishlist)
			wishlist.DELETE("/:courseId", wishlistController.RemoveFromWishlist)
		}
	}
}
