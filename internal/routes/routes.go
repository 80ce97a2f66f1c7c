package routes

import (
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/course-api/course_api/internal/auth"
	"github.com/course-api/course_api/internal/config"
	"github.com/course-api/course_api/internal/course"
	"github.com/course-api/course_api/internal/identity"
	"github.com/course-api/course_api/internal/middleware"
	"github.com/course-api/course_api/internal/notification"
)

// Deps aggregates shared dependencies required to wire routes. At most one
// of DB and SQL is set; with neither, the in-memory stores are used.
type Deps struct {
	Cfg    config.Config
	DB     *pgxpool.Pool
	SQL    *sql.DB
	Cache  *redis.Client
	Logger *slog.Logger
}

// Setup configures middlewares and all application routes.
func Setup(app *fiber.App, d Deps) error {
	if d.DB != nil && d.SQL != nil {
		return fmt.Errorf("routes: both postgres and sqlite handles supplied")
	}
	if d.DB == nil && d.SQL == nil && !d.Cfg.IsDev() {
		return fmt.Errorf("database is required when APP_ENV=%s", d.Cfg.AppEnv)
	}
	if d.Logger == nil {
		d.Logger = slog.Default()
	}

	// Middlewares
	app.Use(middleware.RequestID())
	app.Use(middleware.Audit(d.Logger))
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:  d.Cfg.CORSOrigin,
		AllowHeaders:  "Origin, Content-Type, Accept, Authorization, Idempotency-Key",
		ExposeHeaders: "Location, X-Request-ID, Idempotent-Replayed",
	}))

	// Health
	RegisterHealthRoutes(app, d)

	// Services and handlers
	var (
		identityRepo identity.Repository
		courseRepo   course.Repository
	)
	switch {
	case d.DB != nil:
		identityRepo = identity.NewPostgresRepository(d.DB)
		courseRepo = course.NewPostgresRepository(d.DB)
	case d.SQL != nil:
		identityRepo = identity.NewSQLiteRepository(d.SQL)
		courseRepo = course.NewSQLiteRepository(d.SQL)
	default:
		identityRepo = identity.NewMemoryRepository()
		courseRepo = course.NewMemoryRepository(identityRepo)
	}

	identitySvc := identity.NewService(identityRepo, d.Cfg.BcryptCost)
	courseSvc := course.NewService(courseRepo, course.WithNotifier(notification.NewLoggerNotifier(d.Logger)))
	authenticator, err := auth.NewAuthenticator(identityRepo, d.Cfg.BcryptCost)
	if err != nil {
		return err
	}

	authenticate := middleware.BasicAuth(authenticator, d.Logger)
	idempotent := middleware.Idempotency(d.Cache, d.Cfg.IdempotencyTTL, d.Logger)

	// API routes
	api := app.Group("/api")
	RegisterIdentityRoutes(api, identity.NewHandler(identitySvc, d.Logger), authenticate)
	RegisterCourseRoutes(api, course.NewHandler(courseSvc), authenticate, idempotent)

	return nil
}
