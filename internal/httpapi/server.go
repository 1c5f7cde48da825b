// Package httpapi exposes the intake service over HTTP: the application
// wizard, drafts, recording, submission, recruiter search, stage sheets
// and the job board.
package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"recruitment-intake/internal/backend"
	"recruitment-intake/internal/board"
	"recruitment-intake/internal/common/config"
	"recruitment-intake/internal/common/errors"
	"recruitment-intake/internal/common/logger"
	"recruitment-intake/internal/common/observability"
	"recruitment-intake/internal/intake"
	"recruitment-intake/internal/journal"
	"recruitment-intake/internal/media"
	"recruitment-intake/internal/search"
	"recruitment-intake/internal/session"
	"recruitment-intake/internal/storage"
	"recruitment-intake/pkg/catalog"
)

// Deps bundles everything the API serves. Blobs, thumbnailer, catalog,
// journal and observability are optional.
type Deps struct {
	Manager       *intake.Manager
	Sessions      *session.Service
	Board         *board.Service
	Backend       *backend.Client
	SearchGateway search.Gateway
	Blobs         storage.BlobStore
	Journal       *journal.Store
	Thumbnailer   media.Thumbnailer
	Capture       *media.PushHub
	Catalog       *catalog.OptionCatalog
	Observability *observability.Observability
	Logger        logger.Logger
}

// Server is the HTTP surface.
type Server struct {
	cfg        config.ServerConfig
	deps       Deps
	thumbWidth int
	router     *gin.Engine
	http       *http.Server

	mu     sync.Mutex
	views  map[string]*search.View
	sheets map[string]*search.StageSheet
}

// NewServer builds the router. Run starts serving.
func NewServer(cfg config.Config, deps Deps) *Server {
	if cfg.App.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	thumbWidth := cfg.Media.ThumbnailWidth
	if thumbWidth <= 0 {
		thumbWidth = 320
	}

	s := &Server{
		cfg:        cfg.Server,
		deps:       deps,
		thumbWidth: thumbWidth,
		views:      make(map[string]*search.View),
		sheets:     make(map[string]*search.StageSheet),
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(s.requestMetrics())

	corsCfg := cors.DefaultConfig()
	if len(cfg.Server.AllowedOrigins) > 0 {
		corsCfg.AllowOrigins = cfg.Server.AllowedOrigins
	} else {
		corsCfg.AllowAllOrigins = true
	}
	corsCfg.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}
	r.Use(cors.New(corsCfg))

	r.Use(session.Middleware(deps.Sessions))

	r.GET("/health", s.health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	{
		api.GET("/catalog", s.getCatalog)

		sessions := api.Group("/sessions")
		{
			sessions.POST("", s.createSession)
			sessions.GET("/:id", s.getSession)
			sessions.DELETE("/:id", s.teardownSession)
			sessions.PUT("/:id/form", s.updateForm)
			sessions.POST("/:id/next", s.stepNext)
			sessions.POST("/:id/back", s.stepBack)
			sessions.POST("/:id/goto", s.stepGoTo)
			sessions.POST("/:id/files/:field", s.uploadFile)
			sessions.POST("/:id/draft/restore", s.restoreDraft)
			sessions.DELETE("/:id/draft", s.discardDraft)
			sessions.POST("/:id/submit", s.submitApplication)
			sessions.GET("/:id/progress", s.submitProgress)

			sessions.GET("/:id/recording", s.recordingStatus)
			sessions.POST("/:id/recording/start", s.recordingStart)
			sessions.POST("/:id/recording/chunk", s.recordingChunk)
			sessions.POST("/:id/recording/stop", s.recordingStop)
			sessions.POST("/:id/recording/reset", s.recordingReset)
		}

		sv := api.Group("/search/:viewId")
		{
			sv.PUT("/criteria", s.editCriteria)
			sv.POST("/apply", s.applySearch)
			sv.POST("/clear", s.clearSearch)
			sv.POST("/clear-general", s.clearGeneralSearch)
			sv.GET("/rows", s.searchRows)
			sv.GET("/columns/:column/values", s.columnValues)
			sv.PUT("/columns/:column/filter", s.setColumnFilter)
			sv.DELETE("/columns/:column/filter", s.clearColumnFilter)
		}

		api.GET("/jobs", s.listOpenings)
		api.GET("/companies", s.listCompanies)

		corporate := api.Group("", session.RequireCorporate())
		{
			corporate.POST("/jobs", s.postJob)
			corporate.GET("/submissions/recent", s.recentSubmissions)
			corporate.GET("/stage-sheet/:jobId", s.stageSheetRows)
			corporate.POST("/stage-sheet/:jobId/refresh", s.stageSheetRefresh)
			corporate.PUT("/stage-sheet/:jobId/quick-filters", s.stageSheetQuickFilters)
			corporate.PUT("/stage-sheet/:jobId/columns/:column/filter", s.stageSheetColumnFilter)
		}
	}

	s.router = r
	return s
}

// Handler exposes the router. Used by tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves until ctx is cancelled, then drains within the configured
// shutdown timeout.
func (s *Server) Run(ctx context.Context) error {
	s.http = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port),
		Handler:      s.router,
		ReadTimeout:  config.GetDuration(s.cfg.ReadTimeout),
		WriteTimeout: config.GetDuration(s.cfg.WriteTimeout),
	}

	errCh := make(chan error, 1)
	go func() {
		if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.GetDuration(s.cfg.ShutdownTimeout))
	defer cancel()
	return s.http.Shutdown(shutdownCtx)
}

func (s *Server) requestMetrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		if s.deps.Observability == nil {
			c.Next()
			return
		}
		start := time.Now()
		c.Next()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		s.deps.Observability.RecordRequest(c.Request.Context(), route, strconv.Itoa(c.Writer.Status()))
		s.deps.Observability.RecordRequestDuration(c.Request.Context(), route, time.Since(start))
	}
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) getCatalog(c *gin.Context) {
	if s.deps.Catalog == nil {
		c.JSON(http.StatusOK, gin.H{})
		return
	}
	c.JSON(http.StatusOK, s.deps.Catalog)
}

// fail writes a StandardError response.
func fail(c *gin.Context, err error) {
	c.JSON(errors.HTTPStatus(err), errors.Body(err))
}

// view returns the per-caller search view, creating it on first use.
func (s *Server) view(viewID string) *search.View {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.views[viewID]
	if !ok {
		v = search.NewView(s.deps.SearchGateway, s.deps.Logger)
		s.views[viewID] = v
	}
	return v
}

// sheet returns the per-job stage sheet, creating it on first use.
func (s *Server) sheet(jobID string) *search.StageSheet {
	s.mu.Lock()
	defer s.mu.Unlock()
	sh, ok := s.sheets[jobID]
	if !ok {
		sh = search.NewStageSheet(s.deps.Backend, jobID, s.deps.Logger)
		s.sheets[jobID] = sh
	}
	return sh
}
