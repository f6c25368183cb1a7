package metrics

import (
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

// 路由分组，用作 group 标签。
const (
	GroupPublic    = "public"
	GroupDashboard = "dashboard"
	GroupAuth      = "auth"
	GroupOps       = "ops"
)

var (
	registerOnce sync.Once

	requestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "portfolio",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP 请求耗时分布（秒），按路由分组。",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"group", "method", "path", "status"},
	)

	requestTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "portfolio",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP 请求总数。",
		},
		[]string{"group", "method", "path", "status"},
	)

	dashboardDenied = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "portfolio",
			Subsystem: "http",
			Name:      "dashboard_denied_total",
			Help:      "后台请求因无会话被拒绝的次数：接口返回 401，页面重定向到登录页。",
		},
		[]string{"outcome"},
	)

	requestsInFlight = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "portfolio",
			Subsystem: "http",
			Name:      "in_flight_requests",
			Help:      "当前正在处理的 HTTP 请求数量。",
		},
		[]string{"group"},
	)
)

// RouteGroup 将请求路径归入 public/dashboard/auth/ops 之一。
func RouteGroup(path string) string {
	switch {
	case hasSegmentPrefix(path, "/api/dashboard"), hasSegmentPrefix(path, "/dashboard"):
		return GroupDashboard
	case hasSegmentPrefix(path, "/api/auth"), hasSegmentPrefix(path, "/login"):
		return GroupAuth
	case path == "/health", path == "/metrics", hasSegmentPrefix(path, "/api/health"):
		return GroupOps
	default:
		return GroupPublic
	}
}

func hasSegmentPrefix(path, prefix string) bool {
	return path == prefix || strings.HasPrefix(path, prefix+"/")
}

// GinMiddleware 为 Gin 路由注册 Prometheus 指标采集逻辑。
func GinMiddleware() gin.HandlerFunc {
	registerOnce.Do(func() {
		prometheus.MustRegister(requestDuration, requestTotal, requestsInFlight, dashboardDenied)
	})

	return func(c *gin.Context) {
		start := time.Now()
		group := RouteGroup(c.Request.URL.Path)
		inFlight := requestsInFlight.WithLabelValues(group)
		inFlight.Inc()
		defer inFlight.Dec()

		c.Next()

		path := c.FullPath()
		if path == "" {
			// 未匹配的路径不作为标签值，防止基数膨胀。
			path = "unmatched"
		}
		status := c.Writer.Status()
		labels := prometheus.Labels{
			"group":  group,
			"method": c.Request.Method,
			"path":   path,
			"status": strconv.Itoa(status),
		}

		requestDuration.With(labels).Observe(time.Since(start).Seconds())
		requestTotal.With(labels).Inc()

		if group == GroupDashboard {
			switch status {
			case http.StatusUnauthorized:
				dashboardDenied.WithLabelValues("unauthorized").Inc()
			case http.StatusFound:
				dashboardDenied.WithLabelValues("redirect").Inc()
			}
		}
	}
}
