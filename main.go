package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"depthview/config"
	"depthview/internal/host"
	"depthview/internal/metrics"
	"depthview/internal/overlay"
	"depthview/internal/preview"
	"depthview/internal/scene"
	"depthview/logger"
)

func main() {
	log := logger.GetLogger()

	// Load environment variables from .env if present
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.WithError(err).Warn("Error loading .env file")
	}

	configPath := flag.String("config", config.DefaultConfigPath, "Path to configuration file")
	scenePath := flag.String("scene", "config/scene.yml", "Path to the scene to render")
	once := flag.Bool("once", false, "Render a single frame to the configured sinks and exit")

	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.WithError(err).Error("Failed to load configuration")
		os.Exit(1)
	}

	if err := log.Configure(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output, cfg.Logging.MaxAge); err != nil {
		log.WithError(err).Error("Failed to configure logger")
		os.Exit(1)
	}

	log.WithEnv("APP_ENV", "AWS_REGION").WithFields(logger.Fields{
		"service":     cfg.App.Name,
		"version":     cfg.App.Version,
		"environment": config.AppEnvironment(),
	}).Info("starting depthview")

	sc, err := scene.Load(*scenePath)
	if err != nil {
		log.WithError(err).Error("Failed to load scene")
		os.Exit(1)
	}
	sc.SetDefaultHeight(float64(cfg.Render.Height))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if strings.ToLower(cfg.Logging.Level) == "report" {
		logger.StartReport(ctx, log, cfg.Logging.ReportInterval)
	}

	metrics.Init()
	if cfg.Metrics.CloudWatch.Enabled {
		metrics.InitCloudWatch(ctx, cfg.Metrics.CloudWatch.Region, cfg.Metrics.CloudWatch.Namespace, cfg.Metrics.CloudWatch.Dashboard)
		// publish the last partial window on the way out
		defer metrics.FlushCloudWatch(context.Background())
	}

	var sinks []host.Sink

	if cfg.Output.File.Enabled {
		fileSink, err := host.NewFileSink(cfg.Output.File)
		if err != nil {
			log.WithError(err).Error("failed to create file sink")
			os.Exit(1)
		}
		sinks = append(sinks, fileSink)
	}

	if cfg.Output.S3.Enabled {
		s3Sink, err := host.NewS3Sink(ctx, cfg.Output.S3, cfg.App.Version)
		if err != nil {
			log.WithError(err).Error("failed to create S3 sink")
			os.Exit(1)
		}
		sinks = append(sinks, s3Sink)
	} else {
		log.WithComponent("main").Info("S3 output disabled; frames stay local")
	}

	var previewServer *preview.Server
	if !*once {
		previewServer, err = preview.NewServer(cfg.Preview, cfg.Metrics.Prometheus, log)
		if err != nil {
			log.WithError(err).Error("failed to create preview server")
			os.Exit(1)
		}
		if previewServer != nil {
			sinks = append(sinks, previewServer)
		}
	}

	if len(sinks) == 0 {
		log.WithComponent("main").Warn("no output configured; frames are rendered and dropped")
	}

	style := cfg.Style
	renderer := host.New(cfg.Render, sc.View(), func(seq int64) *overlay.Snapshot {
		return sc.Snapshot(&style, seq)
	}, sinks...)
	defer func() {
		if err := renderer.Close(); err != nil {
			log.WithError(err).Warn("failed to close sinks")
		}
	}()

	if *once {
		frame, err := renderer.Step(ctx)
		if err != nil {
			log.WithError(err).Error("failed to render frame")
			os.Exit(1)
		}
		log.WithFields(logger.Fields{
			"frame":    frame.ID,
			"label":    frame.Result.Label.Text,
			"depth":    frame.Result.Depth.Drawn,
			"tags":     frame.Result.Tags,
			"png_size": len(frame.PNG),
		}).Info("frame rendered")
		return
	}

	var wg sync.WaitGroup

	if previewServer != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := previewServer.Run(ctx, cfg.App.Name); err != nil {
				log.WithError(err).Error("preview server stopped")
			}
		}()
	}

	loopDone := make(chan struct{})
	go func() {
		defer close(loopDone)
		if err := renderer.Run(ctx); err != nil {
			log.WithError(err).Error("render loop failed")
		}
	}()

	log.Info("all components started successfully")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		log.WithFields(logger.Fields{"signal": sig.String()}).Info("shutdown signal received")
	case <-loopDone:
		if previewServer != nil {
			// keep serving the last frame until stopped
			log.Info("render loop finished; preview stays up until a signal is received")
			sig := <-sigChan
			log.WithFields(logger.Fields{"signal": sig.String()}).Info("shutdown signal received")
		}
	}

	log.Info("starting graceful shutdown")
	cancel()

	done := make(chan struct{})
	go func() {
		<-loopDone
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		log.Info("graceful shutdown completed")
	case <-time.After(30 * time.Second):
		log.Warn("graceful shutdown timeout exceeded")
	}

	log.Info("depthview stopped")
}
