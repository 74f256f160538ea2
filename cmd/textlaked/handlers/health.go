package handlers

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	apierr "github.com/textlake/textlake/pkg/api/types/errors"
	kdbbootstrap "github.com/textlake/textlake/pkg/domain/bootstrap/db"
)

type HealthResponse struct {
	Status string `json:"status"`

	// Initialized reports whether some instance has finished the
	// startup coordination (the completion marker exists).
	Initialized bool `json:"initialized"`
}

// HealthHandler reports store reachability and bootstrap state.
//
// An unreachable store answers 503 so orchestration probes hold traffic
// back; an uninitialized (but reachable) store is still healthy, since
// followers serve while the winner loads.
func HealthHandler(
	dbBootstrap kdbbootstrap.BootstrapInterface,
	ping func(context.Context) error,
) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		if err := ping(ctx); err != nil {
			return apierr.ServiceUnavailable("store is not reachable", err)
		}

		initialized, err := dbBootstrap.Completed(ctx)
		if err != nil {
			return apierr.InternalServerError(err)
		}

		return c.JSON(http.StatusOK, HealthResponse{
			Status:      "ok",
			Initialized: initialized,
		})
	}
}
