package server

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/rezonia/cii-invoice/internal/cii"
	"github.com/rezonia/cii-invoice/internal/input"
	"github.com/rezonia/cii-invoice/internal/logger"
	"github.com/rezonia/cii-invoice/internal/model"
	"github.com/rezonia/cii-invoice/internal/pdf"
	"github.com/rezonia/cii-invoice/internal/schema"
	"github.com/rezonia/cii-invoice/internal/validation"
)

// RequestIDHeader is echoed back and attached to the request's log lines
const RequestIDHeader = "X-Request-ID"

const loggerKey = "logger"

// Config holds server configuration
type Config struct {
	Address      string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	MaxBodyBytes int64
	CheckTimeout time.Duration
	Debug        bool

	// used when a render request names no version or mode
	DefaultVersion int
	DefaultMode    string
}

// Server represents the HTTP API server
type Server struct {
	config   *Config
	router   *gin.Engine
	checker  schema.Validator
	packager *pdf.Packager
	log      zerolog.Logger
}

// NewServer creates a new API server. checker may be nil, the check
// endpoint then answers 503.
func NewServer(config *Config, checker schema.Validator) *Server {
	if !config.Debug {
		gin.SetMode(gin.ReleaseMode)
	}
	if config.DefaultVersion == 0 {
		config.DefaultVersion = int(cii.Version2)
	}
	if config.DefaultMode == "" {
		config.DefaultMode = string(cii.ModeZugferd)
	}
	if config.CheckTimeout <= 0 {
		config.CheckTimeout = 60 * time.Second
	}

	router := gin.New()
	router.Use(gin.Recovery())
	if config.Debug {
		router.Use(gin.Logger())
	}

	s := &Server{
		config:   config,
		router:   router,
		checker:  checker,
		packager: pdf.NewPackager(),
		log:      logger.WithComponent("server"),
	}
	router.Use(s.requestLogger())

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	// Health check
	s.router.GET("/health", s.handleHealth)

	// API v1
	v1 := s.router.Group("/api/v1")
	{
		v1.POST("/invoices/render", s.handleRender)
		v1.POST("/invoices/validate", s.handleValidate)

		v1.POST("/documents/check", s.handleCheck)
		v1.POST("/documents/info", s.handleInfo)
	}
}

// Run starts the HTTP server
func (s *Server) Run() error {
	srv := &http.Server{
		Addr:         s.config.Address,
		Handler:      s.router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
	}
	s.log.Info().Str("address", s.config.Address).Msg("listening")
	return srv.ListenAndServe()
}

// Handler returns the http.Handler for use with custom servers
func (s *Server) Handler() http.Handler {
	return s.router
}

// requestLogger scopes a logger to the request. The access line is left to
// gin.Logger in debug mode.
func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		l := s.log
		if id := c.GetHeader(RequestIDHeader); id != "" {
			l = logger.WithRequestID(id).With().Str("component", "server").Logger()
			c.Header(RequestIDHeader, id)
		}
		c.Set(loggerKey, l)

		c.Next()

		if s.config.Debug {
			return
		}
		l.Info().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("latency", time.Since(start)).
			Msg("request")
	}
}

func (s *Server) requestLog(c *gin.Context) zerolog.Logger {
	if v, ok := c.Get(loggerKey); ok {
		if l, ok := v.(zerolog.Logger); ok {
			return l
		}
	}
	return s.log
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleRender(c *gin.Context) {
	inv, ok := s.readInvoice(c)
	if !ok {
		return
	}

	version := s.config.DefaultVersion
	if v := c.Query("version"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "version must be a number", Details: v})
			return
		}
		version = n
	}
	mode := c.DefaultQuery("mode", s.config.DefaultMode)

	opts := []cii.Option{cii.WithLogger(s.requestLog(c))}
	if skip, _ := strconv.ParseBool(c.Query("skip_validation")); skip {
		opts = append(opts, cii.WithSkipValidation())
	}

	doc, err := cii.Serialize(inv, version, mode, opts...)
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.Data(http.StatusOK, "application/xml; charset=utf-8", doc)
}

func (s *Server) handleValidate(c *gin.Context) {
	inv, ok := s.readInvoice(c)
	if !ok {
		return
	}

	err := validation.ValidateAll(inv)
	response := ValidationResponse{
		Valid:    err == nil,
		Invoice:  inv.ID,
		Messages: validation.Messages(err),
	}

	if response.Valid {
		c.JSON(http.StatusOK, response)
	} else {
		c.JSON(http.StatusUnprocessableEntity, response)
	}
}

func (s *Server) handleCheck(c *gin.Context) {
	if s.checker == nil {
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{
			Error:   "document check unavailable",
			Details: "no schema checker configured",
		})
		return
	}

	doc, format, ok := s.readDocument(c)
	if !ok {
		return
	}

	detected, err := cii.DetectProfile(doc)
	if err != nil {
		s.writeError(c, err)
		return
	}
	profile := detected
	if v := c.Query("version"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "version must be a number", Details: v})
			return
		}
		if profile, err = cii.NewProfile(n, string(detected.Mode)); err != nil {
			s.writeError(c, err)
			return
		}
	}
	version := int(profile.Version)

	ctx, cancel := context.WithTimeout(c.Request.Context(), s.config.CheckTimeout)
	defer cancel()

	report, err := schema.Check(ctx, s.checker, doc, version)
	if err != nil {
		if errors.Is(err, schema.ErrToolUnavailable) {
			c.JSON(http.StatusServiceUnavailable, ErrorResponse{
				Error:   "document check unavailable",
				Details: err.Error(),
			})
			return
		}
		l := s.requestLog(c)
		l.Error().Err(err).Str("format", format).Msg("document check failed")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "document check failed", Details: err.Error()})
		return
	}

	if profile.Version != detected.Version {
		report.AddWarning(fmt.Sprintf("document declares %s, checked against version %d", detected, version))
	}

	response := CheckResponse{Profile: profile.String(), Report: report}
	if report.Valid {
		c.JSON(http.StatusOK, response)
	} else {
		c.JSON(http.StatusUnprocessableEntity, response)
	}
}

func (s *Server) handleInfo(c *gin.Context) {
	body, ok := s.readBody(c)
	if !ok {
		return
	}

	doc, format, ok := s.documentFromBody(c, body)
	if !ok {
		return
	}

	info, err := cii.Inspect(doc)
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, InfoResponse{
		Format:       format,
		Size:         len(body),
		DocumentInfo: info,
	})
}

func (s *Server) readBody(c *gin.Context) ([]byte, bool) {
	if s.config.MaxBodyBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, s.config.MaxBodyBytes)
	}

	body, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "failed to read request body", Details: err.Error()})
		return nil, false
	}

	if len(body) == 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "empty request body"})
		return nil, false
	}
	return body, true
}

// readInvoice decodes a JSON or YAML invoice document, by Content-Type
func (s *Server) readInvoice(c *gin.Context) (*model.Invoice, bool) {
	body, ok := s.readBody(c)
	if !ok {
		return nil, false
	}

	format := input.FormatJSON
	if ct := c.ContentType(); strings.Contains(ct, "yaml") {
		format = input.FormatYAML
	}

	inv, err := input.DecodeBytes(body, format)
	if err != nil {
		s.writeError(c, err)
		return nil, false
	}
	return inv, true
}

// readDocument returns the CII XML of the body. A PDF body yields its
// embedded invoice.
func (s *Server) readDocument(c *gin.Context) ([]byte, string, bool) {
	body, ok := s.readBody(c)
	if !ok {
		return nil, "", false
	}
	return s.documentFromBody(c, body)
}

func (s *Server) documentFromBody(c *gin.Context, body []byte) ([]byte, string, bool) {
	switch {
	case pdf.IsPDF(body):
		attachment, err := s.packager.ExtractInvoiceFromBytes(body)
		if err != nil {
			c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: "no invoice found in PDF", Details: err.Error()})
			return nil, "", false
		}
		return attachment.Data, "pdf", true
	case isXML(body):
		return body, "xml", true
	default:
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "unsupported file format"})
		return nil, "", false
	}
}

func isXML(data []byte) bool {
	data = bytes.TrimPrefix(data, []byte{0xEF, 0xBB, 0xBF})
	data = bytes.TrimSpace(data)
	return len(data) > 0 && data[0] == '<'
}

// writeError maps the error taxonomy onto status codes
func (s *Server) writeError(c *gin.Context, err error) {
	var (
		cfgErr   *model.ConfigurationError
		valErr   *model.ValidationError
		inputErr *model.InputError
	)

	switch {
	case errors.As(err, &cfgErr):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: cfgErr.Error()})
	case errors.As(err, &inputErr):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid invoice document", Details: inputErr.Error()})
	case errors.As(err, &valErr):
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:    valErr.Error(),
			Messages: valErr.Messages,
		})
	case errors.Is(err, cii.ErrNotCII):
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: "not a CII document", Details: err.Error()})
	default:
		l := s.requestLog(c)
		l.Error().Err(err).Str("path", c.Request.URL.Path).Msg("request failed")
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: "request failed", Details: err.Error()})
	}
}
