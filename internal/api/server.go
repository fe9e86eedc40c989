// Package api exposes the device and the validation harness over HTTP.
package api

import (
	"net/http"

	"github.com/labstack/echo/v5"
	"golang.org/x/time/rate"

	"github.com/samcharles93/spmv/internal/device"
	"github.com/samcharles93/spmv/internal/kernel"
	"github.com/samcharles93/spmv/internal/logger"
	"github.com/samcharles93/spmv/internal/refblas"
	"github.com/samcharles93/spmv/internal/sparse"
	"github.com/samcharles93/spmv/internal/validate"
)

// Server serves device information and validation runs.
type Server struct {
	dev     *device.Device
	ref     refblas.SpMVer
	log     logger.Logger
	limiter *rate.Limiter
}

// Config configures a Server.
type Config struct {
	Device *device.Device
	Ref    refblas.SpMVer
	Log    logger.Logger
	// RatePerSecond bounds validate requests; 0 disables limiting.
	RatePerSecond float64
}

// NewServer creates a Server. A nil reference falls back to the
// built-in sequential routine.
func NewServer(cfg Config) *Server {
	s := &Server{
		dev: cfg.Device,
		ref: cfg.Ref,
		log: cfg.Log,
	}
	if s.dev == nil {
		s.dev = device.New()
	}
	if s.ref == nil {
		s.ref = refblas.Sequential{}
	}
	if s.log == nil {
		s.log = logger.Default()
	}
	if cfg.RatePerSecond > 0 {
		s.limiter = rate.NewLimiter(rate.Limit(cfg.RatePerSecond), int(cfg.RatePerSecond)+1)
	}
	return s
}

// Register installs the routes on e.
func (s *Server) Register(e *echo.Echo) {
	e.GET("/v1/device", s.handleDevice)
	e.POST("/v1/validate", s.handleValidate, s.rateLimit)
}

func (s *Server) rateLimit(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c *echo.Context) error {
		if s.limiter != nil && !s.limiter.Allow() {
			return writeError(c, http.StatusTooManyRequests, "rate_limited", "validate request rate exceeded")
		}
		return next(c)
	}
}

// DeviceResponse is the body of GET /v1/device.
type DeviceResponse struct {
	Device device.Properties `json:"device"`
	Widths []int             `json:"kernel_widths"`
}

func (s *Server) handleDevice(c *echo.Context) error {
	return c.JSON(http.StatusOK, DeviceResponse{
		Device: s.dev.Properties(),
		Widths: kernel.Widths(),
	})
}

// ValidateRequest describes one validation run. The matrix comes either
// inline as coordinate entries or from a MatrixMarket file readable by
// the server.
type ValidateRequest struct {
	Rows    int            `json:"rows"`
	Cols    int            `json:"cols"`
	Entries []EntryRequest `json:"entries"`

	MatrixPath string `json:"matrix_path,omitempty"`

	Seed  uint64  `json:"seed"`
	EPS   float64 `json:"eps"`
	Width int     `json:"width"` // 0 selects automatically
}

// EntryRequest is one inline coordinate entry, zero-based.
type EntryRequest struct {
	Row int32   `json:"row"`
	Col int32   `json:"col"`
	Val float64 `json:"val"`
}

// ValidateResponse wraps the harness report with the launch plan used.
type ValidateResponse struct {
	Report *validate.Report `json:"report"`
	Plan   kernel.Plan      `json:"plan"`
}

func (s *Server) handleValidate(c *echo.Context) error {
	req, err := decodeJSON[ValidateRequest](c.Request().Body)
	if err != nil {
		return writeBadRequest(c, err.Error())
	}

	m, err := s.loadMatrix(req)
	if err != nil {
		return writeBadRequest(c, err.Error())
	}

	dm := m.Upload()
	x := device.NewBuffer(m.Cols)
	y := device.NewBuffer(m.Rows)
	x.FillRand(req.Seed)
	x.ToDevice()

	var plan kernel.Plan
	if req.Width > 0 {
		plan = kernel.NewPlanWidth(s.dev.Properties(), m.Rows, req.Width)
	} else {
		plan = kernel.NewPlan(s.dev.Properties(), m.Rows, m.MaxRowNNZ())
	}
	if err := kernel.Run(s.dev, plan, dm, x, y); err != nil {
		s.log.Error("kernel launch failed", "error", err)
		return writeError(c, http.StatusInternalServerError, "device_error", err.Error())
	}
	y.ToHost()

	report, err := validate.Run(m, x.Host(), y.Host(), s.ref, req.EPS)
	if err != nil {
		return writeError(c, http.StatusInternalServerError, "validation_error", err.Error())
	}
	report.Width = plan.Width

	s.log.Info("validation run",
		"id", report.ID,
		"rows", m.Rows, "cols", m.Cols, "nnz", m.NNZ(),
		"width", plan.Width, "pass", report.Pass)

	return c.JSON(http.StatusOK, ValidateResponse{Report: report, Plan: plan})
}

func (s *Server) loadMatrix(req *ValidateRequest) (*sparse.CSR, error) {
	if req.MatrixPath != "" {
		return sparse.OpenMatrixMarket(req.MatrixPath)
	}
	entries := make([]sparse.Entry, len(req.Entries))
	for i, e := range req.Entries {
		entries[i] = sparse.Entry{Row: e.Row, Col: e.Col, Val: e.Val}
	}
	return sparse.FromCOO(req.Rows, req.Cols, entries)
}
