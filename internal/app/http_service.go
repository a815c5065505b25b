package app

import (
	"context"
	"errors"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/laundry-pos/internal/config"
	"github.com/laundry-pos/internal/logger"
)

// HTTPService 账本 HTTP 服务。
// 连接级超时按请求超时推导：写超时比请求超时多出 shutdownGrace，保证超时中间件的 504 能写回客户端。
type HTTPService struct {
	server *http.Server

	mu       sync.Mutex
	listener net.Listener
}

// NewHTTPService 按服务配置创建 HTTP 服务
func NewHTTPService(cfg config.ServerConfig, handler http.Handler) *HTTPService {
	timeout := requestTimeout(cfg)
	headerTimeout := timeout
	if headerTimeout > 10*time.Second {
		headerTimeout = 10 * time.Second
	}
	return &HTTPService{
		server: &http.Server{
			Addr:              net.JoinHostPort(cfg.Host, cfg.Port),
			Handler:           handler,
			ReadHeaderTimeout: headerTimeout,
			ReadTimeout:       timeout,
			WriteTimeout:      timeout + shutdownGrace,
			IdleTimeout:       4 * timeout,
		},
	}
}

// Name 服务名称
func (s *HTTPService) Name() string {
	return "http"
}

// Addr 实际监听地址，未启动时为空
func (s *HTTPService) Addr() string {
	if s == nil {
		return ""
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Start 先绑定端口再开始服务，端口占用会立即返回错误
func (s *HTTPService) Start(ctx context.Context) error {
	if s == nil || s.server == nil {
		return errors.New("http server not initialized")
	}
	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", s.server.Addr)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.listener = ln
	s.mu.Unlock()
	logger.Infow("http_listening",
		"addr", ln.Addr().String(),
		"read_timeout", s.server.ReadTimeout.String(),
		"write_timeout", s.server.WriteTimeout.String(),
	)

	if err := s.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Stop 停止接收新连接并等待进行中的请求结束
func (s *HTTPService) Stop(ctx context.Context) error {
	if s == nil || s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}
