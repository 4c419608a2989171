package app

import (
	"errors"
	"net"

	"github.com/Y4Clab/WFP-TRACKER-SYSTEM/internal/cache"
	"github.com/Y4Clab/WFP-TRACKER-SYSTEM/internal/config"
	"github.com/Y4Clab/WFP-TRACKER-SYSTEM/internal/constants"
	"github.com/Y4Clab/WFP-TRACKER-SYSTEM/internal/logger"
	"github.com/Y4Clab/WFP-TRACKER-SYSTEM/internal/provider"
	"github.com/Y4Clab/WFP-TRACKER-SYSTEM/internal/repository"
	"github.com/Y4Clab/WFP-TRACKER-SYSTEM/internal/router"
	"github.com/Y4Clab/WFP-TRACKER-SYSTEM/internal/worker"
)

// BuildRunner 构建服务运行器
func BuildRunner(cfg *config.Config, mode string) (*Runner, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}

	container := provider.NewContainer(cfg)
	syncSuperAdminRoles(container)

	var services []Service

	// 初始化 HTTP 服务
	if mode == ModeAll || mode == ModeAPI {
		engine := router.SetupRouter(cfg, container)
		services = append(services, NewHTTPService(cfg.Server, engine))
	}

	// 初始化 Worker 服务（分配对账任务与周期巡检）
	if mode == ModeAll || mode == ModeWorker {
		consumer := worker.NewConsumer(container)
		workerService, err := worker.NewService(&cfg.Queue, cfg.Allocation, consumer)
		if err != nil {
			if mode == ModeWorker {
				return nil, err
			}
			logger.Warnw("app_worker_disabled", "error", err)
		} else {
			services = append(services, workerService)
		}
	}

	if len(services) == 0 {
		return nil, errors.New("no services initialized (check mode and config)")
	}

	return NewRunner(services...), nil
}

// syncSuperAdminRoles 确保已有超级管理员绑定 casbin 角色
func syncSuperAdminRoles(container *provider.Container) {
	if container == nil || container.UserService == nil {
		return
	}
	users, _, err := container.UserService.List(repository.UserListFilter{
		Page:     1,
		PageSize: 100,
		Role:     constants.RoleSuperAdmin,
	})
	if err != nil {
		logger.Warnw("app_sync_super_admin_roles_failed", "error", err)
		return
	}
	for i := range users {
		container.UserService.SyncRoles(&users[i])
	}
}

// Run 应用启动入口
func Run(opts Options) error {
	opts = normalizeOptions(opts)
	if opts.Config == nil {
		return errors.New("config is nil")
	}

	runner, err := BuildRunner(opts.Config, opts.Mode)
	if err != nil {
		return err
	}

	defer func() {
		if err := cache.Close(); err != nil {
			opts.Logger.Warnw("app_redis_close_failed", "error", err)
		}
	}()

	addr := net.JoinHostPort(opts.Config.Server.Host, opts.Config.Server.Port)
	opts.Logger.Infow("app_start", "addr", addr, "mode", opts.Mode)
	return RunWithOptions(runner, opts)
}
