package app

import (
	"net/http"

	cfgpkg "github.com/simvista/sim-server/internal/config"
	"github.com/simvista/sim-server/internal/httpserver"
)

// NewHTTPServer 创建HTTP服务
func NewHTTPServer(cfg cfgpkg.HTTPConfig, metricsPath string, metricsHandler http.Handler, readyFn func() bool) *httpserver.Server {
	return httpserver.New(cfg, metricsPath, metricsHandler, readyFn)
}
