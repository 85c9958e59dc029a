package http

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/ops-kit/netops-service/internal/api/dto"
	"github.com/ops-kit/netops-service/internal/observability"
	"github.com/ops-kit/netops-service/pkg/util/errorutil"
)

// RegisterMiddlewares installs the shared middleware chain. Order matters:
// recovery wraps everything, then the request timeout, then access logging.
func RegisterMiddlewares(app *fiber.App, logger *zap.Logger, metrics *observability.Metrics, requestTimeout time.Duration) {
	app.Use(recoverMiddleware(logger))
	app.Use(requestTimeoutMiddleware(requestTimeout))
	app.Use(observability.RequestLogger(logger, metrics))
}

func requestTimeoutMiddleware(timeout time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), timeout)
		defer cancel()
		c.SetUserContext(ctx)
		return c.Next()
	}
}

func recoverMiddleware(logger *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) (err error) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("panic recovered",
					zap.Any("panic", r),
					zap.String("path", c.Path()),
					zap.String("method", c.Method()),
				)
				err = errorutil.NewInternalError(fmt.Errorf("panic: %v", r))
			}
		}()
		return c.Next()
	}
}

// NewErrorHandler converts handler errors into the response envelope.
// It is wired as the fiber app ErrorHandler so both returned errors and
// fiber-internal errors (404 route misses, body limits) share one shape.
func NewErrorHandler(logger *zap.Logger, metrics *observability.Metrics) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return c.Status(fiberErr.Code).JSON(dto.Envelope{
				Success: false,
				Code:    "HTTP_ERROR",
				Message: fiberErr.Message,
			})
		}

		domainErr := errorutil.ToDomainError(err)
		if domainErr.HTTPStatus >= fiber.StatusInternalServerError {
			logger.Error("request failed",
				zap.String("path", c.Path()),
				zap.String("method", c.Method()),
				zap.String("code", domainErr.Code),
				zap.Error(err),
			)
		}
		metrics.RecordError(c.Path(), c.Method(), domainErr.Code)

		return c.Status(domainErr.HTTPStatus).JSON(dto.Envelope{
			Success: false,
			Code:    domainErr.Code,
			Message: domainErr.Message,
			Details: domainErr.Details,
		})
	}
}
