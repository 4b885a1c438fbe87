package handlers

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/justsurfingit/jobly/internal/auth"
	"github.com/justsurfingit/jobly/internal/dtos"
	"github.com/justsurfingit/jobly/internal/middleware"
)

// Deps are the services the router wires into handlers.
type Deps struct {
	Companies CompanyStore
	Jobs      JobStore
	Users     UserStore
	Extractor JobExtractor
	Tokens    *auth.TokenManager

	// LoginLimiter throttles /auth per client IP; nil disables it.
	LoginLimiter *middleware.RateLimiter

	// CORSOrigins lists allowed origins; empty or "*" allows all.
	CORSOrigins []string
}

// NewRouter builds the gin engine with every route and middleware.
func NewRouter(d Deps) *gin.Engine {
	dtos.RegisterValidation()

	r := gin.New()
	r.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.RequestLogger(),
		middleware.ErrorHandler(),
		cors.New(corsConfig(d.CORSOrigins)),
		auth.AuthenticateJWT(d.Tokens),
	)
	r.NoRoute(middleware.NotFound)

	companies := NewCompanyHandler(d.Companies)
	jobs := NewJobHandler(d.Jobs, d.Extractor)
	users := NewUserHandler(d.Users, d.Tokens)
	authH := NewAuthHandler(d.Users, d.Tokens)

	admin := auth.EnsureAdmin()
	sameUser := auth.EnsureSameUserOrAdmin()

	r.GET("/health", HealthCheck)

	a := r.Group("/auth", middleware.RateLimit(d.LoginLimiter))
	{
		a.POST("/token", authH.Token)
		a.POST("/register", authH.Register)
	}

	cg := r.Group("/companies")
	{
		cg.POST("", admin, companies.CreateCompany)
		cg.GET("", companies.ListCompanies)
		cg.GET("/:handle", companies.GetCompany)
		cg.PATCH("/:handle", admin, companies.UpdateCompany)
		cg.DELETE("/:handle", admin, companies.DeleteCompany)
	}

	jg := r.Group("/jobs")
	{
		jg.POST("", admin, jobs.CreateJob)
		jg.POST("/extract", admin, jobs.ParseJob)
		jg.GET("", jobs.ListJobs)
		jg.GET("/:id", jobs.GetJob)
		jg.PATCH("/:id", admin, jobs.UpdateJob)
		jg.DELETE("/:id", admin, jobs.DeleteJob)
	}

	ug := r.Group("/users", auth.EnsureLoggedIn())
	{
		ug.POST("", admin, users.CreateUser)
		ug.GET("", admin, users.ListUsers)
		ug.GET("/:username", sameUser, users.GetUser)
		ug.PATCH("/:username", sameUser, users.UpdateUser)
		ug.DELETE("/:username", sameUser, users.DeleteUser)
		ug.POST("/:username/jobs/:id", sameUser, users.ApplyToJob)
	}

	return r
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.DefaultConfig()
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	cfg.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", middleware.RequestIDHeader}
	cfg.ExposeHeaders = []string{middleware.RequestIDHeader}
	return cfg
}
