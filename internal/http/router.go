// Package httpapi wires the HTTP transport (Gin) to the board services,
// middleware and handlers.
//
// Every route is a middleware.Run pipeline: guards (IDParam, ValidateJSON,
// Authenticate) run first and the handler runs last. Any step that fails
// records its error on the context, and ErrorMapper renders the single
// error envelope.
package httpapi

import (
	"context"
	"net/http"
	"path"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"golang.org/x/time/rate"
	"gorm.io/gorm"

	"github.com/tbourn/go-board-backend/internal/apperr"
	"github.com/tbourn/go-board-backend/internal/auth"
	"github.com/tbourn/go-board-backend/internal/config"
	"github.com/tbourn/go-board-backend/internal/docs"
	"github.com/tbourn/go-board-backend/internal/domain"
	"github.com/tbourn/go-board-backend/internal/http/handlers"
	"github.com/tbourn/go-board-backend/internal/http/middleware"
	"github.com/tbourn/go-board-backend/internal/i18n"
	"github.com/tbourn/go-board-backend/internal/repo"
	"github.com/tbourn/go-board-backend/internal/services"
)

// postRepoShim adapts the repository free functions to services.PostRepo.
type postRepoShim struct{}

func (postRepoShim) CreatePost(ctx context.Context, db *gorm.DB, p *domain.Post) error {
	return repo.CreatePost(ctx, db, p)
}

func (postRepoShim) GetPost(ctx context.Context, db *gorm.DB, id uint) (*domain.Post, error) {
	return repo.GetPost(ctx, db, id)
}

func (postRepoShim) ListPosts(ctx context.Context, db *gorm.DB, q repo.PostQuery) ([]domain.Post, int64, error) {
	return repo.ListPosts(ctx, db, q)
}

func (postRepoShim) SearchPosts(ctx context.Context, db *gorm.DB, term string) ([]domain.Post, error) {
	return repo.SearchPosts(ctx, db, term)
}

func (postRepoShim) PopularPosts(ctx context.Context, db *gorm.DB, limit int) ([]domain.Post, error) {
	return repo.PopularPosts(ctx, db, limit)
}

func (postRepoShim) UpdatePost(ctx context.Context, db *gorm.DB, id uint, fields map[string]any) (*domain.Post, error) {
	return repo.UpdatePost(ctx, db, id, fields)
}

func (postRepoShim) DeletePost(ctx context.Context, db *gorm.DB, id uint) error {
	return repo.DeletePost(ctx, db, id)
}

// PostsStats proxies repo.PostsStats (ETag support).
func (postRepoShim) PostsStats(ctx context.Context, db *gorm.DB) (int64, *time.Time, error) {
	return repo.PostsStats(ctx, db)
}

func (postRepoShim) UserExists(ctx context.Context, db *gorm.DB, id uint) (bool, error) {
	return repo.UserExists(ctx, db, id)
}

// RegisterRoutes attaches all middleware and endpoints to r. limiter enables
// login lockout and may be nil.
//
// Middleware order matters:
//  1. OpenTelemetry
//  2. RequestID
//  3. Logger (sees the mapped status and the recorded errors)
//  4. Metrics and /metrics
//  5. gzip
//  6. ErrorMapper: renders every error recorded below it
//  7. Recovery: a panic becomes a recorded error, then a 500 envelope
//  8. Body size limiter
//  9. Rate limiter (per client IP)
//  10. CORS and security headers
func RegisterRoutes(r *gin.Engine, db *gorm.DB, limiter services.LoginLimiter, cfg config.Config) {
	tr := i18n.New(cfg.Locale)

	r.Use(otelgin.Middleware(cfg.OTEL.ServiceName))
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())

	r.Use(middleware.Metrics())
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.Use(gzip.Gzip(gzip.DefaultCompression))
	r.Use(middleware.ErrorMapper(tr))
	r.Use(middleware.Recovery())
	r.Use(limitBody(1 << 20))

	r.Use(middleware.NewRateLimiter(rate.Limit(cfg.RateRPS), cfg.RateBurst, middleware.KeyByClientIP()).Handler())

	r.Use(corsMiddleware(cfg.CORS.AllowedOrigins)...)
	r.Use(middleware.SecurityHeaders(middleware.SecurityOptions{
		EnableHSTS:      cfg.Security.EnableHSTS,
		HSTSMaxAge:      cfg.Security.HSTSMaxAge,
		NoStorePrefixes: []string{path.Join("/", cfg.APIBasePath, "auth")},
		EnablePolicy:    true,
	}))

	r.NoRoute(middleware.Run(func(*gin.Context) error {
		return apperr.NotFound(i18n.MsgRouteNotFound)
	}))

	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	// API docs
	docs.SwaggerInfo.BasePath = cfg.APIBasePath
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Dependency injection: services ← repo/db
	tokens := auth.NewTokenManager(auth.TokenConfig{
		AccessSecret:  cfg.JWT.Secret,
		RefreshSecret: cfg.JWT.RefreshSecret,
		Issuer:        cfg.JWT.Issuer,
		AccessTTL:     cfg.JWT.AccessTTL,
		RefreshTTL:    cfg.JWT.RefreshTTL,
	})
	hasher := auth.NewHasher(cfg.BcryptCost)
	userSvc := &services.UserService{DB: db, Hasher: hasher}

	h := handlers.New(handlers.Deps{
		Auth:       &services.AuthService{DB: db, Tokens: tokens, Hasher: hasher, Limiter: limiter},
		Users:      userSvc,
		Posts:      services.NewPostService(db, postRepoShim{}),
		Comments:   &services.CommentService{DB: db},
		Tx:         &services.TxService{DB: db},
		Translator: tr,
		Cookies:    auth.CookieOptions{Secure: cfg.IsProduction()},
	})

	// Signup, login and refresh share one per-IP budget.
	var credentials middleware.Step = func(*gin.Context) error { return nil }
	if cfg.AuthRatePerMinute > 0 {
		credentials = middleware.NewRateLimiter(
			middleware.PerMinute(cfg.AuthRatePerMinute), cfg.AuthRatePerMinute, middleware.KeyByClientIP(),
		).Step()
	}

	var (
		run          = middleware.Run
		authenticate = middleware.Authenticate(tokens, userSvc)
		userID       = middleware.IDParam("id", i18n.LabelUser)
		postID       = middleware.IDParam("id", i18n.LabelPost)
		postRef      = middleware.IDParam("postId", i18n.LabelPost)
		commentID    = middleware.IDParam("id", i18n.LabelComment)
	)

	api := groupWithPrefix(r, cfg.APIBasePath)
	{
		a := api.Group("/auth")
		a.POST("/signup", run(credentials, middleware.ValidateJSON[handlers.SignUpRequest](), h.SignUp))
		a.POST("/login", run(credentials, middleware.ValidateJSON[handlers.LoginRequest](), h.Login))
		a.POST("/logout", run(h.Logout))
		a.POST("/refresh", run(credentials, h.Refresh))
		a.GET("/me", run(authenticate, h.Me))
	}
	{
		u := api.Group("/users")
		u.GET("", run(h.ListUsers))
		u.GET("/:id", run(userID, h.GetUser))
		u.POST("", run(middleware.ValidateJSON[handlers.CreateUserRequest](), h.CreateUser))
		u.POST("/with-post", run(middleware.ValidateJSON[handlers.CreateUserWithPostRequest](), h.CreateUserWithPost))
		u.PUT("/:id", run(userID, middleware.ValidateJSON[handlers.UpdateUserRequest](), h.UpdateUser))
		u.DELETE("/:id", run(userID, h.DeleteUser))
	}
	{
		p := api.Group("/posts")
		p.GET("", run(h.ListPosts))
		p.GET("/search", run(h.SearchPosts))
		p.GET("/popular", run(h.PopularPosts))
		p.GET("/:id", run(postID, h.GetPost))
		p.POST("", run(middleware.ValidateJSON[handlers.CreatePostRequest](), h.CreatePost))
		p.PUT("/:id", run(postID, middleware.ValidateJSON[handlers.UpdatePostRequest](), h.UpdatePost))
		p.DELETE("/:id", run(postID, h.DeletePost))
	}
	{
		cm := api.Group("/comments")
		cm.POST("", run(middleware.ValidateJSON[handlers.CreateCommentRequest](), h.CreateComment))
		cm.GET("", run(h.ListComments))
		cm.GET("/search", run(h.SearchComments))
		cm.GET("/post/:postId/details", run(postRef, h.CommentDetails))
		cm.GET("/post/:postId", run(postRef, h.CommentsByPost))
		cm.GET("/:id", run(commentID, h.GetComment))
		cm.PUT("/:id", run(commentID, middleware.ValidateJSON[handlers.UpdateCommentRequest](), h.UpdateComment))
		cm.DELETE("/:id", run(commentID, h.DeleteComment))
	}
	{
		tx := api.Group("/transactions")
		tx.POST("/posts-with-comment", run(middleware.ValidateJSON[handlers.CreatePostWithCommentRequest](), h.CreatePostWithComment))
		tx.DELETE("/posts/:id", run(postID, h.DeletePostWithComments))
	}
}

// corsMiddleware allows every origin without credentials when no allowlist
// is configured. With an allowlist, cookies may cross origins.
func corsMiddleware(allowed []string) []gin.HandlerFunc {
	base := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization", "If-None-Match", "X-Request-ID"},
		ExposeHeaders: []string{"X-Request-ID", "Content-Length", "ETag"},
		MaxAge:        12 * time.Hour,
	}

	if len(allowed) == 0 {
		base.AllowAllOrigins = true
		return []gin.HandlerFunc{
			// ACAO: * even without an Origin header, e.g. health probes.
			func(c *gin.Context) {
				c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
				c.Next()
			},
			cors.New(base),
		}
	}

	base.AllowOrigins = allowed
	base.AllowCredentials = true
	return []gin.HandlerFunc{cors.New(base)}
}

// limitBody caps the request body at maxBytes. Reads past the cap fail, and
// ValidateJSON reports them as invalid JSON.
func limitBody(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

// groupWithPrefix mounts a group at prefix, treating "/" (or empty) as root.
func groupWithPrefix(r *gin.Engine, prefix string) *gin.RouterGroup {
	if prefix == "" || prefix == "/" {
		return r.Group("")
	}
	return r.Group(prefix)
}
