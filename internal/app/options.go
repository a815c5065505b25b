package app

import (
	"os"
	"strings"
	"time"

	"github.com/laundry-pos/internal/config"
	"github.com/laundry-pos/internal/logger"

	"go.uber.org/zap"
)

const (
	ModeAll    = "all"
	ModeAPI    = "api"
	ModeWorker = "worker"
)

const (
	defaultRequestTimeout = 15 * time.Second
	// shutdownGrace 请求超时之外留给事务回滚与连接关闭的时间
	shutdownGrace = 5 * time.Second
)

// Options 应用启动选项
type Options struct {
	Config  *config.Config
	Logger  *zap.SugaredLogger
	Signals []os.Signal
	// ShutdownTimeout 未设置时取请求超时加 shutdownGrace
	ShutdownTimeout time.Duration
	Mode            string
}

// requestTimeout 单个请求的截止时间
func requestTimeout(cfg config.ServerConfig) time.Duration {
	if cfg.RequestTimeoutSeconds <= 0 {
		return defaultRequestTimeout
	}
	return time.Duration(cfg.RequestTimeoutSeconds) * time.Second
}

// normalizeOptions 补齐默认参数
func normalizeOptions(opts Options) Options {
	if opts.Logger == nil {
		opts.Logger = logger.S()
	}
	if opts.ShutdownTimeout <= 0 {
		var server config.ServerConfig
		if opts.Config != nil {
			server = opts.Config.Server
		}
		opts.ShutdownTimeout = requestTimeout(server) + shutdownGrace
	}
	opts.Mode = strings.ToLower(strings.TrimSpace(opts.Mode))
	if opts.Mode == "" {
		opts.Mode = ModeAll
	}
	return opts
}
