package bootstrap

import (
	"database/sql"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/modelify-app/modelify-backend/config"
	httpapi "github.com/modelify-app/modelify-backend/internal/api/http"
	"github.com/modelify-app/modelify-backend/internal/api/http/middleware"
	"github.com/modelify-app/modelify-backend/internal/auth"
	authmw "github.com/modelify-app/modelify-backend/internal/auth/middleware"
	"github.com/modelify-app/modelify-backend/internal/payments"
	paymentshttp "github.com/modelify-app/modelify-backend/internal/payments/http"
	projectshttp "github.com/modelify-app/modelify-backend/internal/projects/http"
	projectsrepo "github.com/modelify-app/modelify-backend/internal/projects/repository"
	projectssvc "github.com/modelify-app/modelify-backend/internal/projects/service"
	usershttp "github.com/modelify-app/modelify-backend/internal/users/http"
	usersrepo "github.com/modelify-app/modelify-backend/internal/users/repository"
	userssvc "github.com/modelify-app/modelify-backend/internal/users/service"
)

type RouterDeps struct {
	Config       *config.Config
	DB           *sql.DB
	Blob         projectssvc.BlobStore
	Resolver     *auth.Resolver
	Orchestrator *payments.Orchestrator
	Dedupe       *payments.EventDedupe
}

// BuildRouter assembles the whole HTTP surface from explicitly constructed
// dependencies. Nothing here is global.
func BuildRouter(dep RouterDeps) (*gin.Engine, *projectssvc.Lifecycle) {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(corsConfig(dep.Config.App.FrontendURL))

	healthHandler := httpapi.NewHealthHandler("modelify-api", dep.Config.App.Version, dep.DB)
	healthHandler.RegisterRoutes(r)

	userRepo := usersrepo.NewUserRepository(dep.DB)
	userService := userssvc.NewUserService(userRepo)

	projectRepo := projectsrepo.NewProjectRepository(dep.DB)
	fileRepo := projectsrepo.NewFileRepository(dep.DB)
	intake := projectssvc.NewIntake(fileRepo, dep.Blob, dep.Config.Upload.MaxFiles, dep.Config.Upload.MaxFileSize)
	lifecycle := projectssvc.NewLifecycle(projectRepo, fileRepo, intake, userService, dep.Orchestrator)

	api := r.Group("/api/v1")
	authed := api.Group("")
	authed.Use(authmw.RequireUser(dep.Resolver))

	usershttp.NewHandler(userService).Register(api, authed)
	projectshttp.NewHandler(lifecycle).Register(authed)

	// The webhook authenticates via its signature, not a bearer token.
	paymentshttp.NewWebhookHandler(dep.Orchestrator, dep.Dedupe, lifecycle).Register(api)

	return r, lifecycle
}

func corsConfig(frontendURL string) gin.HandlerFunc {
	origins := []string{"http://localhost:3000"}
	if frontendURL != "" && frontendURL != origins[0] {
		origins = append(origins, frontendURL)
	}

	return cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "Stripe-Signature"},
		AllowCredentials: true,
	})
}
