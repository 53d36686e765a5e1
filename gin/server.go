// Package gin provides the HTTP driver for the scraping service.
package gin

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/fwojciec/harvest"
	"github.com/fwojciec/harvest/crawl"
	"github.com/gin-gonic/gin"
)

// Server exposes the scraper and the contact dataset over HTTP.
type Server struct {
	scraper  harvest.Scraper
	contacts harvest.ContactService
	sink     harvest.ResultSink
	logger   *slog.Logger

	router *gin.Engine
	server *http.Server
}

// ServerOption configures a Server.
type ServerOption func(*Server)

// WithSink sets the sink that receives crawl results for background
// persistence after a scrape response is computed.
func WithSink(sink harvest.ResultSink) ServerOption {
	return func(s *Server) {
		s.sink = sink
	}
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) ServerOption {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewServer creates a Server listening on addr.
func NewServer(addr string, scraper harvest.Scraper, contacts harvest.ContactService, opts ...ServerOption) *Server {
	s := &Server{
		scraper:  scraper,
		contacts: contacts,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	router.POST("/scrape", s.handleScrape)
	router.GET("/contacts", s.handleContacts)
	router.GET("/download", s.handleDownload)
	router.GET("/healthz", s.handleHealthz)

	s.router = router
	s.server = &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	return s
}

// Router returns the underlying gin engine, mainly for tests.
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Start serves HTTP until Shutdown is called.
func (s *Server) Start() error {
	s.logger.Info("starting HTTP server", "addr", s.server.Addr)
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

type scrapeRequest struct {
	URLs []string `json:"urls"`
}

type scrapeResponse struct {
	Success bool          `json:"success"`
	Data    []crawl.Row   `json:"data"`
	Summary crawl.Summary `json:"summary"`
}

func (s *Server) handleScrape(c *gin.Context) {
	var req scrapeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "a list of URLs is required"})
		return
	}

	results, err := s.scraper.Crawl(c.Request.Context(), req.URLs)
	if err != nil {
		status := http.StatusInternalServerError
		if harvest.ErrorCode(err) == harvest.EINVALID {
			status = http.StatusBadRequest
		}
		c.JSON(status, gin.H{"error": harvest.ErrorMessage(err)})
		return
	}

	rows, summary := crawl.Aggregate(results)

	// Persistence happens off the response path.
	if s.sink != nil {
		s.sink.Enqueue(results)
	}

	c.JSON(http.StatusOK, scrapeResponse{
		Success: true,
		Data:    rows,
		Summary: summary,
	})
}

func (s *Server) handleContacts(c *gin.Context) {
	records, err := s.contacts.FindContacts(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": harvest.ErrorMessage(err)})
		return
	}
	if records == nil {
		records = []harvest.ContactRecord{}
	}

	c.JSON(http.StatusOK, gin.H{
		"contacts": records,
		"count":    len(records),
	})
}

func (s *Server) handleDownload(c *gin.Context) {
	records, err := s.contacts.FindContacts(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": harvest.ErrorMessage(err)})
		return
	}
	if len(records) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "No data file found"})
		return
	}

	filename := fmt.Sprintf("scraped_data_%s.csv", time.Now().Format("20060102_150405"))
	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Status(http.StatusOK)

	w := csv.NewWriter(c.Writer)
	_ = w.Write([]string{"Timestamp", "Type", "Value", "Source URL"})
	for _, record := range records {
		_ = w.Write([]string{
			record.Timestamp.UTC().Format(time.RFC3339),
			string(record.Type),
			record.Value,
			record.SourceURL,
		})
	}
	w.Flush()
}

func (s *Server) handleHealthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
