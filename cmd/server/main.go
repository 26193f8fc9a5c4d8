package main

import (
	"log"

	"github.com/gin-contrib/sessions"
	redisStore "github.com/gin-contrib/sessions/redis"
	"github.com/gin-gonic/gin"

	"github.com/yukikurage/project-tracker-api/internal/config"
	"github.com/yukikurage/project-tracker-api/internal/database"
	"github.com/yukikurage/project-tracker-api/internal/handlers"
	"github.com/yukikurage/project-tracker-api/internal/middleware"
	"github.com/yukikurage/project-tracker-api/internal/models"
	"github.com/yukikurage/project-tracker-api/internal/repository"
	"github.com/yukikurage/project-tracker-api/internal/services"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	// Connect to database
	if err := database.Connect(cfg); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run migrations
	if err := database.Migrate(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Seed the global roles on first boot
	if err := database.SeedRoles(database.GetDB()); err != nil {
		log.Fatalf("Failed to seed roles: %v", err)
	}

	// Initialize Gin router
	r := gin.Default()

	// Setup session middleware with Redis
	redisAddr := cfg.RedisHost + ":" + cfg.RedisPort
	store, err := redisStore.NewStore(
		10,        // Redis pool size
		"tcp",     // network type
		redisAddr, // Redis address from config
		"",        // password (empty = no password)
		[]byte(cfg.SessionSecret), // authentication key
	)
	if err != nil {
		log.Fatalf("Failed to create Redis store: %v", err)
	}
	// Configure session options based on environment
	isProduction := cfg.GinMode == "release"
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7, // 7 days
		HttpOnly: true,
		Secure:   isProduction,
		SameSite: 2, // SameSite=Lax (1=Strict, 2=Lax, 3=None)
	})
	r.Use(sessions.Sessions("tracker_session", store))

	// Initialize repositories
	db := database.GetDB()
	userRepo := repository.NewUserRepository(db)
	roleRepo := repository.NewRoleRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	activityRepo := repository.NewActivityRepository(db)
	supportRepo := repository.NewSupportRepository(db)

	// Initialize services
	activityService := services.NewActivityService(activityRepo)
	authService := services.NewAuthService(userRepo, roleRepo)
	userService := services.NewUserService(userRepo, roleRepo)
	roleService := services.NewRoleService(roleRepo)
	projectService := services.NewProjectService(projectRepo, userRepo, activityService)
	taskService := services.NewTaskService(taskRepo, projectRepo, activityService)
	dashboardService := services.NewDashboardService(taskRepo, projectRepo)
	supportService := services.NewSupportService(supportRepo, userRepo)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(userService)
	roleHandler := handlers.NewRoleHandler(roleService)
	projectHandler := handlers.NewProjectHandler(projectService)
	taskHandler := handlers.NewTaskHandler(taskService)
	dashboardHandler := handlers.NewDashboardHandler(dashboardService, activityService)
	supportHandler := handlers.NewSupportHandler(supportService)

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"message": "Project Tracker API is running",
		})
	})

	// API routes
	api := r.Group("/api")
	{
		// Auth routes (public)
		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.POST("/logout", authHandler.Logout)
			auth.GET("/me", middleware.RequireAuth(), authHandler.GetCurrentUser)
		}

		// Profile routes (protected)
		profile := api.Group("/profile")
		profile.Use(middleware.RequireAuth())
		{
			profile.GET("", authHandler.GetCurrentUser)
			profile.PUT("", authHandler.UpdateProfile)
			profile.DELETE("/picture", authHandler.ClearProfilePicture)
		}

		// User administration routes (global RBAC)
		users := api.Group("/users")
		users.Use(middleware.RequireAuth())
		{
			users.GET("", middleware.RequirePermission(models.PermissionRead), userHandler.ListUsers)
			users.GET("/:id", middleware.RequirePermission(models.PermissionRead), userHandler.GetUser)
			users.POST("", middleware.RequirePermission(models.PermissionWrite), userHandler.CreateUser)
			users.PUT("/:id", middleware.RequirePermission(models.PermissionWrite), userHandler.UpdateUser)
			users.DELETE("/:id", middleware.RequirePermission(models.PermissionDelete), userHandler.DeleteUser)
		}

		// Role catalogue routes (global RBAC)
		roles := api.Group("/roles")
		roles.Use(middleware.RequireAuth())
		{
			roles.GET("", middleware.RequirePermission(models.PermissionRead), roleHandler.ListRoles)
			roles.GET("/:id", middleware.RequirePermission(models.PermissionRead), roleHandler.GetRole)
			roles.POST("", middleware.RequireAdmin(), roleHandler.CreateRole)
			roles.PUT("/:id", middleware.RequireAdmin(), roleHandler.UpdateRole)
			roles.DELETE("/:id", middleware.RequireAdmin(), roleHandler.DeleteRole)
		}

		// Project routes (project RBAC)
		projects := api.Group("/projects")
		projects.Use(middleware.RequireAuth())
		{
			projects.POST("", projectHandler.CreateProject)
			projects.GET("", projectHandler.ListProjects)

			project := projects.Group("/:projectId")
			{
				project.GET("", middleware.RequireProjectMember(), projectHandler.GetProject)
				project.PUT("", middleware.RequireProjectAdmin(), projectHandler.UpdateProject)
				project.DELETE("", middleware.RequireProjectAdmin(), projectHandler.DeleteProject)

				members := project.Group("/members")
				{
					members.GET("", middleware.RequireProjectMember(), projectHandler.ListMembers)
					members.POST("", middleware.RequireProjectAdmin(), projectHandler.AddMember)
					members.PUT("/:userId", middleware.RequireProjectAdmin(), projectHandler.ChangeMemberRole)
					members.DELETE("/:userId", middleware.RequireProjectAdmin(), projectHandler.RemoveMember)
				}

				tasks := project.Group("/tasks")
				{
					tasks.GET("", middleware.RequireProjectMember(), taskHandler.ListTasks)
					tasks.GET("/:id", middleware.RequireProjectMember(), taskHandler.GetTask)
					tasks.POST("", middleware.RequireCanCreateTasks(), taskHandler.CreateTask)
					tasks.PUT("/:id", middleware.RequireProjectMember(), taskHandler.UpdateTask)
					tasks.PUT("/:id/move", middleware.RequireCanCreateTasks(), taskHandler.MoveTask)
					tasks.DELETE("/:id", middleware.RequireCanManageTasks(), taskHandler.DeleteTask)
				}

				project.GET("/activities", middleware.RequireProjectMember(), dashboardHandler.ListActivities)
				project.GET("/progress", middleware.RequireProjectMember(), dashboardHandler.GetProjectProgress)
			}
		}

		// Support ticket routes. Reads go through the global permission
		// gate, closing a ticket is admin only.
		support := api.Group("/support")
		support.Use(middleware.RequireAuth())
		{
			support.GET("", middleware.RequirePermission(models.PermissionRead), supportHandler.ListRequests)
			support.GET("/:id", middleware.RequirePermission(models.PermissionRead), supportHandler.GetRequest)
			support.POST("", supportHandler.CreateRequest)
			support.PUT("/:id/resolve", middleware.RequireAdmin(), supportHandler.ResolveRequest)
			support.PUT("/:id/reject", middleware.RequireAdmin(), supportHandler.RejectRequest)
			support.DELETE("/:id", supportHandler.DeleteRequest)
		}

		// Dashboard routes
		dashboard := api.Group("/dashboard")
		dashboard.Use(middleware.RequireAuth())
		{
			dashboard.GET("/overview", dashboardHandler.GetOverview)
		}
	}

	// Start server
	log.Printf("Server starting on :%s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
