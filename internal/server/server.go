package server

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"CurveSentinel/internal/model"
	"CurveSentinel/internal/recorder"
)

var log = logrus.WithField("component", "server")

// ScanController is the part of the scheduler exposed over HTTP.
type ScanController interface {
	LastReport() *model.ScanReport
	TriggerAsync() bool
	Running() bool
}

// Server exposes health, metrics and scan endpoints.
type Server struct {
	Controller ScanController
	Recorder   recorder.Recorder

	engine *gin.Engine
	srv    *http.Server
}

// New builds the router; Start must be called to listen on addr.
func New(addr string, ctrl ScanController, rec recorder.Recorder) *Server {
	gin.SetMode(gin.ReleaseMode)
	if rec == nil {
		rec = recorder.NewNoopRecorder()
	}
	s := &Server{Controller: ctrl, Recorder: rec}

	r := gin.New()
	r.Use(gin.Recovery(), requestLogger())
	r.GET("/healthz", s.health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	api.GET("/scans", s.listScans)
	api.GET("/scans/latest", s.latestScan)
	api.POST("/scans", s.triggerScan)

	s.engine = r
	s.srv = &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Handler returns the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Start listens until Shutdown is called.
func (s *Server) Start() error {
	log.WithField("addr", s.srv.Addr).Info("http server listening")
	if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errors.Wrap(err, "http server")
	}
	return nil
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "scan_running": s.Controller.Running()})
}

func (s *Server) latestScan(c *gin.Context) {
	report := s.Controller.LastReport()
	if report == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no scan has finished yet"})
		return
	}
	c.JSON(http.StatusOK, newReportView(report))
}

func (s *Server) listScans(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit < 1 || limit > 500 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be between 1 and 500"})
		return
	}
	runs, err := s.Recorder.RecentScanRuns(limit)
	if err != nil {
		log.WithError(err).Error("load scan runs")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	views := make([]scanRunView, 0, len(runs))
	for _, r := range runs {
		views = append(views, newScanRunView(r))
	}
	c.JSON(http.StatusOK, gin.H{"runs": views})
}

func (s *Server) triggerScan(c *gin.Context) {
	if !s.Controller.TriggerAsync() {
		c.JSON(http.StatusConflict, gin.H{"error": "scan already in progress"})
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"status": "started"})
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.WithFields(logrus.Fields{
			"method":  c.Request.Method,
			"path":    c.Request.URL.Path,
			"status":  c.Writer.Status(),
			"latency": time.Since(start).String(),
		}).Debug("http request")
	}
}
