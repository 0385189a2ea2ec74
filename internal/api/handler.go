// Package api exposes the statement parser over HTTP.
package api

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/insightdelivered/statement-insights/internal/logger"
	"github.com/insightdelivered/statement-insights/internal/metrics"
	"github.com/insightdelivered/statement-insights/internal/models"
	"github.com/insightdelivered/statement-insights/internal/pipeline"
	"github.com/insightdelivered/statement-insights/internal/writer"
)

// ParseResponse is the JSON response from the /api/parse endpoint.
type ParseResponse struct {
	Success       bool                   `json:"success"`
	Error         string                 `json:"error,omitempty"`
	RunID         string                 `json:"runId,omitempty"`
	Status        string                 `json:"status"`
	Transactions  []models.Transaction   `json:"transactions"`
	Summary       *models.Summary        `json:"summary,omitempty"`
	TopCategories []models.CategoryTotal `json:"topCategories"`
	Insight       string                 `json:"insight,omitempty"`
	Count         int                    `json:"count"`
	Blocks        int                    `json:"blocks"`
	Discarded     int                    `json:"discarded"`
	Version       string                 `json:"version,omitempty"`
}

// Handler holds the HTTP handlers for the API.
type Handler struct {
	Pipeline *pipeline.Pipeline
	Metrics  *metrics.Metrics
	// Gatherer backs GET /metrics; the route is skipped when nil.
	Gatherer prometheus.Gatherer
	Log      zerolog.Logger
	Version  string
}

// RegisterRoutes sets up the HTTP routes.
func (h *Handler) RegisterRoutes(app *fiber.App) {
	app.Use(h.observe)

	api := app.Group("/api")
	api.Get("/health", h.HandleHealth)
	api.Get("/sample", h.HandleSample)
	api.Get("/categories", h.HandleCategories)
	api.Post("/parse", h.HandleParse)

	if h.Gatherer != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(h.Gatherer, promhttp.HandlerOpts{})))
	}
}

// HandleHealth reports liveness.
func (h *Handler) HandleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "ok",
		"engine":  "fiber",
		"version": h.Version,
	})
}

// HandleCategories lists category names in precedence order.
func (h *Handler) HandleCategories(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"categories": h.Pipeline.Categories()})
}

// HandleSample parses the built-in sample statement.
func (h *Handler) HandleSample(c *fiber.Ctx) error {
	return h.respond(c, "sample.txt", []byte(pipeline.SampleText))
}

// HandleParse accepts a multipart "file" upload or a "text" form field.
// With format=csv the transaction table is returned as CSV.
func (h *Handler) HandleParse(c *fiber.Ctx) error {
	name, data, err := readInput(c)
	if err != nil {
		return writeError(c, fiber.StatusBadRequest, err.Error())
	}
	return h.respond(c, name, data)
}

func (h *Handler) respond(c *fiber.Ctx, name string, data []byte) (err error) {
	// Recover from any panics to prevent server crash
	defer func() {
		if rec := recover(); rec != nil {
			err = writeError(c, fiber.StatusInternalServerError, fmt.Sprintf("Internal server error (recovered from crash): %v", rec))
		}
	}()

	ctx := logger.WithContext(c.UserContext(), h.Log.With().Str("file", name).Logger())
	res, err := h.Pipeline.ParseDocument(ctx, name, data)
	if err != nil {
		return writeError(c, fiber.StatusUnprocessableEntity, err.Error())
	}

	if strings.EqualFold(c.Query("format", c.FormValue("format")), "csv") {
		var buf bytes.Buffer
		csvWriter := &writer.CSVWriter{IncludeSummary: c.Query("summary") == "true"}
		if err := csvWriter.Write(&buf, res.Transactions, res.Summary); err != nil {
			return writeError(c, fiber.StatusInternalServerError, fmt.Sprintf("CSV generation failed: %v", err))
		}
		c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
		c.Set("X-Run-Id", res.RunID)
		return c.Send(buf.Bytes())
	}

	// Ensure transactions is never nil (nil marshals to JSON null, not [])
	txns := res.Transactions
	if txns == nil {
		txns = []models.Transaction{}
	}
	top := res.TopCategories
	if top == nil {
		top = []models.CategoryTotal{}
	}

	return c.JSON(ParseResponse{
		Success:       true,
		RunID:         res.RunID,
		Status:        res.Status,
		Transactions:  txns,
		Summary:       &res.Summary,
		TopCategories: top,
		Insight:       res.Insight,
		Count:         len(txns),
		Blocks:        res.Blocks,
		Discarded:     res.Discarded,
		Version:       h.Version,
	})
}

var errNoInput = errors.New("no input: use form field 'file' or 'text'")

// readInput returns the uploaded document, or the text field as a
// plain-text document.
func readInput(c *fiber.Ctx) (string, []byte, error) {
	if header, err := c.FormFile("file"); err == nil {
		f, err := header.Open()
		if err != nil {
			return "", nil, fmt.Errorf("failed to open uploaded file: %w", err)
		}
		defer f.Close()

		data, err := io.ReadAll(f)
		if err != nil {
			return "", nil, fmt.Errorf("failed to read uploaded file: %w", err)
		}
		return header.Filename, data, nil
	}

	if text := c.FormValue("text"); strings.TrimSpace(text) != "" {
		return "input.txt", []byte(text), nil
	}
	return "", nil, errNoInput
}

// observe records request counts and latency per matched route.
func (h *Handler) observe(c *fiber.Ctx) error {
	start := time.Now()
	err := c.Next()

	status := c.Response().StatusCode()
	var fe *fiber.Error
	if errors.As(err, &fe) {
		status = fe.Code
	}
	h.Metrics.RecordHTTPRequest(c.Method(), c.Route().Path, strconv.Itoa(status), time.Since(start).Seconds())
	return err
}

func writeError(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(ParseResponse{
		Success:      false,
		Error:        msg,
		Status:       pipeline.FailureStatus,
		Transactions: []models.Transaction{},
	})
}
