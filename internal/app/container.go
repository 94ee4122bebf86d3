package app

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/nekogravitycat/rental-backend/internal/api"
	"github.com/nekogravitycat/rental-backend/internal/auth"
	"github.com/nekogravitycat/rental-backend/internal/booking"
	"github.com/nekogravitycat/rental-backend/internal/comment"
	"github.com/nekogravitycat/rental-backend/internal/item"
	"github.com/nekogravitycat/rental-backend/internal/pkg/clock"
	"github.com/nekogravitycat/rental-backend/internal/ratelimit"
	"github.com/nekogravitycat/rental-backend/internal/user"
)

// Config holds the dependencies and settings required to start the application.
type Config struct {
	IsProduction   bool
	ProdOrigins    string
	MetricsEnabled bool
	DBPool         *pgxpool.Pool
	JWTSecret      string
	JWTTTL         time.Duration
	BcryptCost     int
	Logger         zerolog.Logger
	Clock          clock.Clock       // defaults to clock.Real
	Limiter        ratelimit.Limiter // nil disables rate limiting
}

// Container holds the initialized components that are needed externally.
type Container struct {
	Router         *gin.Engine
	JWTManager     *auth.JWTManager
	UserService    user.Service
	ItemService    item.Service
	BookingService booking.Service
	CommentService comment.Service
}

// NewContainer initializes all modules and returns the container.
func NewContainer(cfg Config) *Container {
	c := cfg.Clock
	if c == nil {
		c = clock.Real{}
	}

	passwordHasher := auth.NewBcryptPasswordHasher(cfg.BcryptCost)
	jwtManager := auth.NewJWTManagerWithClock(cfg.JWTSecret, cfg.JWTTTL, c)

	// User Module
	userRepo := user.NewPgxRepository(cfg.DBPool)
	userService := user.NewService(userRepo, passwordHasher, c, cfg.Logger)

	// Item Module
	itemRepo := item.NewPgxRepository(cfg.DBPool)
	itemService := item.NewService(itemRepo, cfg.Logger)

	// Booking Module
	bookingRepo := booking.NewPgxRepository(cfg.DBPool)
	bookingService := booking.NewService(bookingRepo, userService, itemService, c, cfg.Logger)

	// Comment Module
	commentRepo := comment.NewPgxRepository(cfg.DBPool)
	commentService := comment.NewService(commentRepo, itemService, bookingService, c, cfg.Logger)

	router := api.NewRouter(api.Config{
		IsProduction:   cfg.IsProduction,
		ProdOrigins:    cfg.ProdOrigins,
		MetricsEnabled: cfg.MetricsEnabled,
		Logger:         cfg.Logger,
		Clock:          c,
		Limiter:        cfg.Limiter,
		UserService:    userService,
		ItemService:    itemService,
		BookingService: bookingService,
		CommentService: commentService,
		JWTManager:     jwtManager,
	})

	return &Container{
		Router:         router,
		JWTManager:     jwtManager,
		UserService:    userService,
		ItemService:    itemService,
		BookingService: bookingService,
		CommentService: commentService,
	}
}
