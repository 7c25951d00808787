package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/permauto/backend/controllers"
	"github.com/permauto/backend/database"
	"github.com/permauto/backend/middleware"
	"github.com/permauto/backend/models"
	"github.com/permauto/backend/store"
	"github.com/permauto/backend/utils"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	// No silent fallback secret: refuse to start without one.
	if _, err := utils.SigningSecret(); err != nil {
		log.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	db, err := database.Connect(ctx, os.Getenv("MONGODB_URI"), os.Getenv("DATABASE_NAME"))
	if err != nil {
		log.Fatal(err)
	}
	defer func() {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := db.Close(shutdownCtx); err != nil {
			log.Println("database close:", err)
		}
	}()

	if err := db.EnsureIndexes(ctx); err != nil {
		log.Fatal(err)
	}
	if err := utils.SeedAdminUser(ctx, db.Collection("users")); err != nil {
		log.Fatal(err)
	}

	users := store.NewUsers(db.Collection("users"))
	auths := store.NewAuthorizations(db.Collection("authorizations"))
	logs := store.NewSecurityLogs(db.Collection("securityLogs"))

	r := gin.New()

	origins := os.Getenv("ALLOWED_ORIGINS")
	allowedOrigins := map[string]bool{}
	for _, origin := range strings.Split(origins, ",") {
		origin = strings.TrimSpace(origin)
		if origin != "" {
			allowedOrigins[origin] = true
		}
	}
	r.Use(cors.New(cors.Config{
		AllowOriginFunc: func(origin string) bool {
			return allowedOrigins[origin]
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length", middleware.RequestIDHeader},
		AllowCredentials: true, // cookie auth
		MaxAge:           12 * time.Hour,
	}))
	r.Use(middleware.RequestID())
	r.Use(gin.Logger())
	r.Use(gin.Recovery())

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	auth := r.Group("/auth")
	{
		auth.POST("/register", controllers.Register(users))
		auth.POST("/login", controllers.Login(users))
		auth.POST("/logout", controllers.Logout())
		auth.GET("/me", middleware.RequireRoles(users), controllers.Me())
	}

	admin := r.Group("/admin")
	{
		staff := middleware.RequireRoles(users, models.RoleAdmin, models.RoleSubadmin)
		adminOnly := middleware.RequireRoles(users, models.RoleAdmin)

		admin.GET("/users", staff, controllers.ListUsers(users))
		admin.PUT("/users/:id", adminOnly, controllers.ChangeUserRole(users))
		admin.DELETE("/users/:id", adminOnly, controllers.DeleteUser(users))

		admin.GET("/authorizations", staff, controllers.ListAuthorizations(auths))
		admin.GET("/dashboard", staff, controllers.Dashboard(users, auths, logs))

		admin.GET("/security", middleware.RequireRoles(users,
			models.RoleAdmin, models.RoleSubadmin, models.RoleSecurity),
			controllers.ListSecurityLogs(logs))
	}

	authorizations := r.Group("/authorizations")
	{
		subadmin := middleware.RequireRoles(users, models.RoleSubadmin)

		authorizations.GET("", middleware.RequireRoles(users), controllers.ListAuthorizations(auths))
		authorizations.POST("", subadmin, controllers.CreateAuthorization(auths))
		authorizations.GET("/:id", subadmin, controllers.GetAuthorization(auths))
		authorizations.PUT("/:id", subadmin, controllers.UpdateAuthorization(auths))
		authorizations.DELETE("/:id", subadmin, controllers.DeleteAuthorization(auths))
	}

	// Listens on :8080 unless PORT overrides it.
	if err := r.Run(); err != nil {
		log.Fatal(err)
	}
}
