package api

import (
	"errors"
	"fmt"
	"net/http"

	"energydash/internal/config"
	"energydash/internal/engine"
	"energydash/internal/logging"
	"energydash/internal/metrics"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	glog "github.com/labstack/gommon/log"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// NewServer builds the echo instance with middleware and error handling.
// Routes are added by Handler.RegisterRoutes.
func NewServer(cfg *config.Config, m *metrics.Metrics, log logrus.FieldLogger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Logger.SetLevel(glog.WARN)
	e.JSONSerializer = jsonSerializer{}
	e.HTTPErrorHandler = ErrorHandler(log)

	e.Use(middleware.Recover())
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{Generator: uuid.NewString}))
	// metrics wraps the request logger so the logger sees handler errors
	// before they are turned into responses
	e.Use(m.Middleware())
	e.Use(logging.RequestLogger(log))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:  cfg.Server.CORSOrigins,
		AllowMethods:  []string{http.MethodGet, http.MethodHead, http.MethodOptions},
		ExposeHeaders: []string{echo.HeaderXRequestID},
	}))
	if cfg.Server.RateLimit > 0 {
		store := middleware.NewRateLimiterMemoryStore(rate.Limit(cfg.Server.RateLimit))
		e.Use(middleware.RateLimiter(store))
	}
	return e
}

// ErrorHandler maps selection and lookup errors to status codes and writes
// {"error": "..."}.
func ErrorHandler(log logrus.FieldLogger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}
		status, msg := statusFor(err)
		if status >= http.StatusInternalServerError && status != http.StatusServiceUnavailable {
			log.WithError(err).WithField("path", c.Path()).Error("request failed")
		}

		var werr error
		if c.Request().Method == http.MethodHead {
			werr = c.NoContent(status)
		} else {
			werr = c.JSON(status, map[string]string{"error": msg})
		}
		if werr != nil {
			log.WithError(werr).Warn("write error response")
		}
	}
}

func statusFor(err error) (int, string) {
	var (
		inv *engine.InvalidSelectionError
		nf  *engine.NotFoundError
		he  *echo.HTTPError
	)
	switch {
	case errors.As(err, &inv):
		return http.StatusBadRequest, inv.Error()
	case errors.As(err, &nf):
		return http.StatusNotFound, nf.Error()
	case errors.As(err, &he):
		return he.Code, fmt.Sprint(he.Message)
	default:
		return http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError)
	}
}

// jsonSerializer encodes responses with goccy/go-json.
type jsonSerializer struct{}

func (jsonSerializer) Serialize(c echo.Context, i interface{}, indent string) error {
	enc := json.NewEncoder(c.Response())
	if indent != "" {
		enc.SetIndent("", indent)
	}
	return enc.Encode(i)
}

func (jsonSerializer) Deserialize(c echo.Context, i interface{}) error {
	if err := json.NewDecoder(c.Request().Body).Decode(i); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error()).SetInternal(err)
	}
	return nil
}
