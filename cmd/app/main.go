package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hrterry/STImage-WebAPP/internal/config"
	"github.com/hrterry/STImage-WebAPP/internal/infra/anndata"
	repository "github.com/hrterry/STImage-WebAPP/internal/infra/repository/disk"
	router "github.com/hrterry/STImage-WebAPP/internal/transport/http"
	"github.com/hrterry/STImage-WebAPP/internal/transport/http/handlers"
	"github.com/hrterry/STImage-WebAPP/internal/usecases"
	"github.com/hrterry/STImage-WebAPP/pkg/graceful_shutdown"
	httpserver "github.com/hrterry/STImage-WebAPP/pkg/http_server"
	"github.com/hrterry/STImage-WebAPP/pkg/http_server/mw"
	"github.com/hrterry/STImage-WebAPP/pkg/logger"
)

// Run serves until the process receives a termination signal.
func Run(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logCloser, err := logger.Setup(cfg.Logging.Logger())
	if err != nil {
		return err
	}
	defer logCloser.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	files, err := repository.NewFileDiskRepository(cfg.UploadDir)
	if err != nil {
		return err
	}
	datasets := anndata.NewReader(files.Dir())

	datasetUseCase := usecases.NewDatasetUseCase(files, datasets)
	httpHandlers := handlers.NewHTTPHandlers(datasetUseCase,
		handlers.WithMaxUploadMemory(cfg.MaxUploadMemoryBytes()))

	router := router.NewRouter(httpHandlers)

	server := httpserver.NewHTTPServer(router,
		httpserver.WithAddress(cfg.HTTPAddress),
		httpserver.WithMiddleware(
			mw.Recover,
			mw.AccessLog,
			mw.RequestMetadata,
			mw.CORS(cfg.CORSAllowedOrigins),
		))

	slog.Info("configuration loaded",
		"upload_dir", cfg.UploadDir,
		"max_upload_memory", cfg.MaxUploadMemory,
		"cors_allowed_origins", cfg.CORSAllowedOrigins)

	gfl := graceful_shutdown.NewGracefulShutdown(ctx,
		graceful_shutdown.WithTimeout(cfg.ShutdownTimeout.Duration))

	gfl.Go(func() error {
		if err := server.Start(); err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	gfl.MustClose(server.Stop)

	gfl.Wait()
	return nil
}
