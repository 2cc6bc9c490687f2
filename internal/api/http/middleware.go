package http

import (
	"context"
	"runtime/debug"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/pic-backend/internal/observability"
	apperrors "github.com/spec-kit/pic-backend/pkg/util/errorutil"
)

// AppOptions configures the fiber application.
type AppOptions struct {
	Name             string
	CORSAllowOrigins string
	RequestTimeout   time.Duration
	Logger           *zap.Logger
	Metrics          *observability.Metrics
}

// NewApp builds the fiber application with the JSON codec and global
// middlewares installed. Routes are added by RegisterRoutes.
func NewApp(opts AppOptions) *fiber.App {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	app := fiber.New(fiber.Config{
		AppName:               opts.Name,
		JSONEncoder:           json.Marshal,
		JSONDecoder:           json.Unmarshal,
		DisableStartupMessage: true,
	})
	RegisterMiddlewares(app, opts)
	return app
}

// RegisterMiddlewares attaches global middlewares. Order matters: the request
// logger wraps the error handler so it observes the final status code.
func RegisterMiddlewares(app *fiber.App, opts AppOptions) {
	app.Use(requestid.New(requestid.Config{
		Header:    observability.RequestIDHeader,
		Generator: uuid.NewString,
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: corsOrigins(opts.CORSAllowOrigins),
		AllowHeaders: strings.Join([]string{fiber.HeaderOrigin, fiber.HeaderContentType, fiber.HeaderAccept, fiber.HeaderAuthorization}, ","),
	}))
	app.Use(observability.RequestLogger(opts.Logger, opts.Metrics))
	app.Use(errorHandlingMiddleware(opts.Logger, opts.Metrics))
	if opts.RequestTimeout > 0 {
		app.Use(requestTimeoutMiddleware(opts.RequestTimeout))
	}
}

func corsOrigins(origins string) string {
	if strings.TrimSpace(origins) == "" {
		return "*"
	}
	return origins
}

func requestTimeoutMiddleware(timeout time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), timeout)
		defer cancel()
		c.SetUserContext(ctx)
		return c.Next()
	}
}

func errorHandlingMiddleware(logger *zap.Logger, metrics *observability.Metrics) fiber.Handler {
	return func(c *fiber.Ctx) (err error) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("panic recovered", zap.Any("panic", r), zap.ByteString("stack", debug.Stack()))
				err = apperrors.NewInternalError(nil)
			}
			if err != nil {
				domainErr := apperrors.ToDomainError(err)
				metrics.RecordError(c.Path(), c.Method(), domainErr.Code)
				body := fiber.Map{
					"code":    domainErr.Code,
					"message": domainErr.Message,
				}
				if len(domainErr.Details) > 0 {
					body["details"] = domainErr.Details
				}
				if domainErr.HTTPStatus >= fiber.StatusInternalServerError {
					logger.Error("request failed",
						zap.String("path", c.Path()),
						zap.String("request_id", c.GetRespHeader(observability.RequestIDHeader)),
						zap.Error(domainErr))
				}
				c.Status(domainErr.HTTPStatus)
				_ = c.JSON(fiber.Map{"error": body})
				err = nil
			}
		}()
		return c.Next()
	}
}
