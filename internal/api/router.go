package api

import (
	"net/http"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/nekogravitycat/rental-backend/internal/auth"
	"github.com/nekogravitycat/rental-backend/internal/booking"
	bookingHttp "github.com/nekogravitycat/rental-backend/internal/booking/http"
	"github.com/nekogravitycat/rental-backend/internal/comment"
	commentHttp "github.com/nekogravitycat/rental-backend/internal/comment/http"
	"github.com/nekogravitycat/rental-backend/internal/item"
	itemHttp "github.com/nekogravitycat/rental-backend/internal/item/http"
	"github.com/nekogravitycat/rental-backend/internal/metrics"
	"github.com/nekogravitycat/rental-backend/internal/pkg/clock"
	"github.com/nekogravitycat/rental-backend/internal/ratelimit"
	"github.com/nekogravitycat/rental-backend/internal/user"
	userHttp "github.com/nekogravitycat/rental-backend/internal/user/http"
)

// Config holds the services and settings the router is assembled from.
type Config struct {
	IsProduction   bool
	ProdOrigins    string
	MetricsEnabled bool

	Logger  zerolog.Logger
	Clock   clock.Clock
	Limiter ratelimit.Limiter // nil disables rate limiting

	UserService    user.Service
	ItemService    item.Service
	BookingService booking.Service
	CommentService comment.Service
	JWTManager     *auth.JWTManager
}

// NewRouter initializes the HTTP router engine with global middleware
// and all module routes under /v1.
func NewRouter(cfg Config) *gin.Engine {
	r := gin.New()
	r.Use(RequestLogger(cfg.Logger), gin.Recovery())

	corsConfig := cors.DefaultConfig()
	if cfg.IsProduction {
		origins := splitOrigins(cfg.ProdOrigins)
		if len(origins) > 0 {
			corsConfig.AllowOrigins = origins
		} else {
			corsConfig.AllowOriginFunc = func(string) bool { return false }
		}
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PATCH", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID"}
	r.Use(cors.New(corsConfig))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if cfg.MetricsEnabled {
		metrics.Register()
		r.GET("/metrics", gin.WrapH(metrics.Handler()))
	}

	checks := []gin.HandlerFunc{auth.AuthRequired(cfg.JWTManager)}
	if cfg.Limiter != nil {
		checks = append(checks, ratelimit.Middleware(cfg.Limiter, cfg.Logger))
	}
	authMiddleware := Protected(checks...)

	userHandler := userHttp.NewHandler(cfg.UserService, cfg.JWTManager)
	itemHandler := itemHttp.NewHandler(cfg.ItemService, cfg.BookingService, cfg.CommentService)
	bookingHandler := bookingHttp.NewHandler(cfg.BookingService, cfg.Clock)
	commentHandler := commentHttp.NewHandler(cfg.CommentService)

	v1 := r.Group("/v1")
	{
		userHttp.RegisterRoutes(v1, userHandler, authMiddleware)
		itemHttp.RegisterRoutes(v1, itemHandler, authMiddleware)
		commentHttp.RegisterRoutes(v1, commentHandler, authMiddleware)
		bookingHttp.RegisterRoutes(v1, bookingHandler, authMiddleware)
	}

	return r
}

func splitOrigins(s string) []string {
	var origins []string
	for _, o := range strings.Split(s, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}
