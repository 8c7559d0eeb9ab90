package api

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"sync/atomic"

	"energydash/internal/config"
	"energydash/internal/engine"
	"energydash/internal/export"
	"energydash/internal/metrics"
	"energydash/internal/models"
	"energydash/internal/render"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

const (
	contentTypeXLSX  = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	contentTypeArrow = "application/vnd.apache.arrow.stream"
)

// errLoading is returned while the dataset is still being loaded.
var errLoading = echo.NewHTTPError(http.StatusServiceUnavailable, "dataset is loading")

type Handler struct {
	cfg      *config.Config
	reshaper atomic.Pointer[engine.Reshaper]
	metrics  *metrics.Metrics
	log      logrus.FieldLogger
}

// NewHandler creates a handler. ds may be nil; until SetData is called the
// data endpoints answer 503.
func NewHandler(cfg *config.Config, ds *engine.Dataset, m *metrics.Metrics, log logrus.FieldLogger) *Handler {
	h := &Handler{cfg: cfg, metrics: m, log: log}
	if ds != nil {
		h.SetData(ds)
	}
	return h
}

// SetData publishes the loaded dataset to the handlers.
func (h *Handler) SetData(ds *engine.Dataset) {
	h.reshaper.Store(engine.NewReshaper(ds))
	h.metrics.SetDataset(ds.Len(), ds.NumObservations())
}

func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", h.Health)
	e.GET("/metrics", echo.WrapHandler(h.metrics.Handler()))

	api := e.Group("/api")
	api.GET("/views", h.GetViews)
	api.GET("/fuels", h.GetFuels)
	api.GET("/countries", h.GetCountries)
	api.GET("/views/:view/chart", h.GetChart)
	api.GET("/views/:view/table", h.GetTable)
}

func (h *Handler) data() (*engine.Reshaper, error) {
	r := h.reshaper.Load()
	if r == nil {
		return nil, errLoading
	}
	return r, nil
}

// --- HANDLERS ---

func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":         "ok",
		"dataset_loaded": h.reshaper.Load() != nil,
	})
}

// views with their selector bounds and defaults
func (h *Handler) GetViews(c echo.Context) error {
	out := make([]models.ViewInfo, 0, len(h.cfg.Views))
	for _, v := range h.cfg.Views {
		out = append(out, models.ViewInfo{
			ID:               v.ID,
			Title:            v.Title,
			Mode:             v.Mode,
			Field:            v.Field,
			OptionsField:     v.OptionsField,
			Years:            models.YearBounds{Min: h.cfg.Years.Min, Max: h.cfg.Years.Max},
			DefaultCountries: v.DefaultCountries,
			DefaultFuels:     v.DefaultFuels,
		})
	}
	return c.JSON(http.StatusOK, out)
}

func (h *Handler) GetFuels(c echo.Context) error {
	return c.JSON(http.StatusOK, engine.FuelCatalog())
}

// GetCountries lists the countries reporting ?field=, or the options field
// of ?view= when no field is given.
func (h *Handler) GetCountries(c echo.Context) error {
	r, err := h.data()
	if err != nil {
		return err
	}
	field := c.QueryParam("field")
	if field == "" && c.QueryParam("view") != "" {
		v, err := h.view(c.QueryParam("view"))
		if err != nil {
			return err
		}
		field = v.OptionsField
	}
	countries, err := r.Dataset().CountriesReporting(field)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, models.CountriesResponse{Field: field, Countries: countries})
}

func (h *Handler) GetChart(c echo.Context) error {
	v, err := h.view(c.Param("view"))
	if err != nil {
		return err
	}
	r, err := h.data()
	if err != nil {
		return err
	}
	sel, err := parseSelection(c, v, h.cfg.Years)
	if err != nil {
		return err
	}

	rows, err := chartRows(r, v, sel)
	if err != nil {
		return err
	}
	h.metrics.RecordRows(v.ID, "chart", len(rows))

	switch format := c.QueryParam("format"); format {
	case "", "json":
		return c.JSON(http.StatusOK, models.ChartResponse{View: v.ID, Title: v.Title, Rows: rows})
	case string(render.PNG), string(render.SVG):
		var buf bytes.Buffer
		f := render.Format(format)
		if err := render.LineChart(&buf, v.Title, rows, f); err != nil {
			if errors.Is(err, render.ErrNothingToPlot) {
				return c.NoContent(http.StatusNoContent)
			}
			return err
		}
		return c.Blob(http.StatusOK, f.ContentType(), buf.Bytes())
	default:
		return &engine.InvalidSelectionError{Reason: fmt.Sprintf("unsupported chart format %q", format)}
	}
}

func (h *Handler) GetTable(c echo.Context) error {
	v, err := h.view(c.Param("view"))
	if err != nil {
		return err
	}
	r, err := h.data()
	if err != nil {
		return err
	}
	sel, err := parseSelection(c, v, h.cfg.Years)
	if err != nil {
		return err
	}

	columns, rows, err := tableRows(r, v, sel)
	if err != nil {
		return err
	}
	h.metrics.RecordRows(v.ID, "table", len(rows))

	switch format := c.QueryParam("format"); format {
	case "", "json":
		return c.JSON(http.StatusOK, models.TableResponse{View: v.ID, Title: v.Title, Columns: columns, Rows: rows})
	case "xlsx":
		var buf bytes.Buffer
		if err := export.WriteXLSX(&buf, v.ID, columns, rows); err != nil {
			return err
		}
		c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", v.ID+".xlsx"))
		return c.Blob(http.StatusOK, contentTypeXLSX, buf.Bytes())
	case "arrow":
		var buf bytes.Buffer
		if err := export.WriteArrow(&buf, columns, rows); err != nil {
			return err
		}
		return c.Blob(http.StatusOK, contentTypeArrow, buf.Bytes())
	default:
		return &engine.InvalidSelectionError{Reason: fmt.Sprintf("unsupported table format %q", format)}
	}
}

func (h *Handler) view(id string) (config.ViewConfig, error) {
	v, ok := h.cfg.View(id)
	if !ok {
		return v, echo.NewHTTPError(http.StatusNotFound, fmt.Sprintf("unknown view %q", id))
	}
	return v, nil
}
