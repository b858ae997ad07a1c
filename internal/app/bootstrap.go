package app

import (
	"errors"

	"github.com/vitrine-api/internal/config"
	"github.com/vitrine-api/internal/logger"
	"github.com/vitrine-api/internal/provider"
	"github.com/vitrine-api/internal/router"
	"github.com/vitrine-api/internal/worker"

	"gorm.io/gorm"
)

// BuildRunner 构建服务运行器
func BuildRunner(cfg *config.Config, db *gorm.DB, mode string) (*Runner, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}
	if !isValidMode(mode) {
		return nil, errors.New("unknown run mode: " + mode)
	}

	container := provider.NewContainer(cfg, db)

	var services []Service

	if mode == ModeAll || mode == ModeAPI {
		engine := router.SetupRouter(cfg, container)
		services = append(services, NewHTTPService(listenAddr(cfg), engine))
	}

	if mode == ModeAll || mode == ModeWorker {
		switch {
		case cfg.Queue.Enabled:
			consumer := worker.NewConsumer(container)
			workerService, err := worker.NewService(&cfg.Queue, consumer)
			if err != nil {
				return nil, err
			}
			services = append(services, workerService)
		case mode == ModeWorker:
			return nil, errors.New("worker mode requires queue.enabled")
		default:
			// all 模式下队列未启用时只跑 HTTP
			logger.Warnw("worker_skipped_queue_disabled", "mode", mode)
		}
	}

	if len(services) == 0 {
		return nil, errors.New("no services initialized (check mode and config)")
	}

	return NewRunner(services...), nil
}

// Run 应用启动入口
func Run(opts Options) error {
	opts = normalizeOptions(opts)
	if opts.Config == nil {
		return errors.New("config is nil")
	}

	runner, err := BuildRunner(opts.Config, opts.DB, opts.Mode)
	if err != nil {
		return err
	}

	opts.Logger.Infow("app_start", "addr", listenAddr(opts.Config), "mode", opts.Mode)
	return RunWithOptions(runner, opts)
}

func listenAddr(cfg *config.Config) string {
	return cfg.Server.Host + ":" + cfg.Server.Port
}
