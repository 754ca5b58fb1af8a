package router

import (
	"fmt"

	"github.com/anonto42/warbler/internal/handlers"
	"github.com/anonto42/warbler/internal/validators"
	"github.com/anonto42/warbler/internal/views"
	"github.com/anonto42/warbler/pkg/config"
	"github.com/labstack/echo/v4"
)

// NewServer builds the echo instance serving Warbler
func NewServer(deps Dependencies) (*echo.Echo, error) {
	renderer, err := views.NewRenderer()
	if err != nil {
		return nil, fmt.Errorf("load templates: %w", err)
	}

	e := echo.New()
	e.HideBanner = true
	e.Validator = validators.NewValidator()
	e.Renderer = renderer
	e.HTTPErrorHandler = handlers.ErrorHandler

	config.SetupMiddleware(e)
	SetupRoutes(e, deps)
	return e, nil
}
