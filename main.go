package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"go.uber.org/zap"

	"airquality/config"
	"airquality/db"
	aqhttp "airquality/http"
	"airquality/i18n"
	"airquality/logging"
	"airquality/ml"
	"airquality/monitoring"
	"airquality/pipeline"
)

func main() {
	configPath := flag.String("config", "config.yaml", "Path to the YAML config file")
	flag.Parse()

	if err := run(*configPath, nil); err != nil {
		log.Fatalf("%v", err)
	}
}

// run starts the service and blocks until it fails or stop (or a signal)
// fires. Every resource opened here is closed before it returns.
func run(configPath string, stop <-chan struct{}) error {
	// 1. Load config
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer logger.Sync()

	// 2. Prediction history
	history, err := db.Open(cfg.History.Backend, cfg.History.Size, cfg.History.Path)
	if err != nil {
		logger.Error("failed to open history store", zap.String("backend", cfg.History.Backend), zap.Error(err))
		return fmt.Errorf("failed to open history store: %w", err)
	}
	if history != nil {
		defer history.Close()
	}

	// 3. Load the model once; it is shared read-only by every request
	model, err := ml.LoadModel(ml.LoadOptions{
		Type:         cfg.Model.Type,
		Path:         cfg.Model.Path,
		MetadataPath: cfg.Model.MetadataPath,
		ONNX: ml.ONNXOptions{
			SharedLibraryPath: cfg.Model.RuntimeLibrary,
			IntraOpThreads:    cfg.Model.IntraOpThreads,
		},
	})
	if err != nil {
		logger.Error("failed to load model", zap.String("path", cfg.Model.Path), zap.Error(err))
		return fmt.Errorf("failed to load model: %w", err)
	}
	defer model.Close()
	logger.Info("model loaded", zap.String("type", cfg.Model.Type), zap.String("path", cfg.Model.Path))

	messages, err := i18n.NewBundle(cfg.I18n.Language)
	if err != nil {
		return fmt.Errorf("failed to build message catalog: %w", err)
	}

	handler, err := aqhttp.NewHandler(aqhttp.Dependencies{
		Predictor: ml.NewPredictor(model),
		Limits:    pipeline.DefaultLimits(),
		Messages:  messages,
		Negotiate: cfg.I18n.Negotiate,
		History:   history,
		Metrics:   monitoring.NewMetrics(),
		Logger:    logger,
		ModelName: filepath.Base(cfg.Model.Path),
	})
	if err != nil {
		return fmt.Errorf("failed to create handler: %w", err)
	}

	// 4. Start HTTP server
	server := aqhttp.NewServer(aqhttp.ServerConfig{
		Port:         cfg.Http.Port,
		Timeout:      cfg.Http.Timeout,
		MaxBodyBytes: cfg.Http.MaxBodyBytes,
	}, handler)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	// 5. Handle graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("HTTP server failed", zap.Error(err))
			return err
		}
	case sig := <-quit:
		logger.Info("shutting down", zap.String("signal", sig.String()))
		if err := server.Stop(); err != nil {
			logger.Error("server forced to shutdown", zap.Error(err))
		}
	case <-stop:
		if err := server.Stop(); err != nil {
			logger.Error("server forced to shutdown", zap.Error(err))
		}
	}

	logger.Info("exiting")
	return nil
}
