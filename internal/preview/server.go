// Package preview serves the latest rendered frame over HTTP and streams new
// frames to browsers through a websocket.
package preview

import (
	"context"
	"embed"
	"errors"
	"html/template"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"depthview/config"
	"depthview/internal/host"
	"depthview/internal/metrics"
	"depthview/internal/overlay"
	"depthview/logger"
)

//go:embed templates/*.tmpl
var embeddedFS embed.FS

const (
	historySize     = 200
	refreshInterval = time.Second
)

// frameRecord is a rendered frame without its image.
type frameRecord struct {
	ID       string             `json:"id"`
	Sequence int64              `json:"sequence"`
	Time     time.Time          `json:"time"`
	Bytes    int                `json:"bytes"`
	Result   overlay.PassResult `json:"result"`
}

// Server is both the preview HTTP server and a frame sink.
type Server struct {
	cfg           config.PreviewConfig
	log           *logger.Log
	metricStore   *history[metrics.Event]
	frameStore    *history[frameRecord]
	logStore      *logStore
	subscription  metrics.SubscriptionID
	hub           *hub
	httpServer    *http.Server
	prometheus    bool

	mu     sync.RWMutex
	latest *host.Frame
}

var _ host.Sink = (*Server)(nil)

// NewServer constructs a preview server when the preview is enabled.
// When it is disabled the returned server will be nil. prometheus mounts
// the registry on /metrics.
func NewServer(cfg config.PreviewConfig, prometheus bool, log *logger.Log) (*Server, error) {
	if !cfg.Enabled {
		return nil, nil
	}

	cfg.Address = normalizeAddress(cfg.Address)

	metricStore := newHistory[metrics.Event](historySize)
	subscription := metrics.Subscribe(metricStore.add)

	logStore := newLogStore(historySize)
	log.AddHook(logStore)

	return &Server{
		cfg:           cfg,
		log:           log,
		metricStore:   metricStore,
		frameStore:    newHistory[frameRecord](historySize),
		logStore:      logStore,
		subscription:  subscription,
		hub:           newHub(log),
		prometheus:    prometheus,
	}, nil
}

func (s *Server) Name() string { return "preview" }

// Write keeps frame as the latest and pushes it to every viewer.
func (s *Server) Write(_ context.Context, frame host.Frame) error {
	s.mu.Lock()
	s.latest = &frame
	s.mu.Unlock()

	s.frameStore.add(frameRecord{
		ID:       frame.ID,
		Sequence: frame.Sequence,
		Time:     frame.Time,
		Bytes:    len(frame.PNG),
		Result:   frame.Result,
	})
	s.hub.broadcast(frame.PNG)
	return nil
}

func (s *Server) Close() error {
	if s == nil {
		return nil
	}
	s.cleanup()
	return nil
}

func (s *Server) latestFrame() (host.Frame, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.latest == nil {
		return host.Frame{}, false
	}
	return *s.latest, true
}

// Run starts the preview HTTP server and blocks until the provided context is
// cancelled or the underlying HTTP server exits with an error.
func (s *Server) Run(ctx context.Context, appName string) error {
	if s == nil {
		return nil
	}

	router, err := s.buildRouter(appName)
	if err != nil {
		return err
	}

	s.httpServer = &http.Server{
		Addr:              s.cfg.Address,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	s.log.WithComponent("preview").WithFields(logger.Fields{"address": s.cfg.Address}).Info("preview server listening")

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.hub.close()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		<-errCh
		return nil
	case err := <-errCh:
		return err
	}
}

func (s *Server) cleanup() {
	metrics.Unsubscribe(s.subscription)
	s.logStore.close()
	s.hub.close()
}

// Address reports the network address the preview server listens on.
func (s *Server) Address() string {
	if s == nil {
		return ""
	}
	return s.cfg.Address
}

func (s *Server) buildRouter(appName string) (*gin.Engine, error) {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	if err := router.SetTrustedProxies(nil); err != nil {
		return nil, err
	}

	tmpl := template.Must(template.New("preview").ParseFS(embeddedFS, "templates/index.tmpl"))
	router.SetHTMLTemplate(tmpl)

	router.GET("/", func(c *gin.Context) {
		c.HTML(http.StatusOK, "index.tmpl", gin.H{
			"AppName":           appName,
			"RefreshIntervalMs": int(refreshInterval / time.Millisecond),
		})
	})

	router.GET("/frame.png", func(c *gin.Context) {
		frame, ok := s.latestFrame()
		if !ok {
			c.String(http.StatusNotFound, "no frame rendered yet")
			return
		}
		c.Header("Cache-Control", "no-store")
		c.Header("X-Frame-Id", frame.ID)
		c.Header("X-Frame-Sequence", strconv.FormatInt(frame.Sequence, 10))
		c.Data(http.StatusOK, "image/png", frame.PNG)
	})

	router.GET("/api/frame", func(c *gin.Context) {
		frame, ok := s.latestFrame()
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "no frame rendered yet"})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"frame":   frame,
			"bytes":   len(frame.PNG),
			"viewers": s.hub.count(),
		})
	})

	router.GET("/api/frames", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"frames": s.frameStore.snapshot()})
	})

	router.GET("/api/metrics", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"metrics": s.metricStore.snapshot()})
	})

	router.GET("/api/logs", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"logs": s.logStore.snapshot()})
	})

	if s.prometheus {
		router.GET("/metrics", gin.WrapH(metrics.Handler()))
	}

	router.GET("/ws", func(c *gin.Context) {
		s.hub.serve(c.Writer, c.Request)
	})

	return router, nil
}

func normalizeAddress(addr string) string {
	addr = strings.TrimSpace(addr)

	if addr == "" {
		return "0.0.0.0:8080"
	}

	if strings.Contains(addr, "://") {
		if parsed, err := url.Parse(addr); err == nil {
			if hostname := parsed.Host; hostname != "" {
				addr = hostname
			} else if parsed.Opaque != "" {
				addr = parsed.Opaque
			}
		}
	}

	if strings.HasPrefix(addr, ":") {
		if len(addr) > 1 && addr[1] >= '0' && addr[1] <= '9' {
			return "0.0.0.0" + addr
		}
	}

	hostname, port, err := net.SplitHostPort(addr)
	if err == nil {
		if hostname == "" || hostname == "*" {
			hostname = "0.0.0.0"
		}
		if port == "" {
			port = "8080"
		}
		return net.JoinHostPort(hostname, port)
	}

	if ip := net.ParseIP(addr); ip != nil {
		return net.JoinHostPort(addr, "8080")
	}

	if !strings.Contains(addr, ":") {
		return net.JoinHostPort(addr, "8080")
	}

	return addr
}
