package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"

	"portfolio/internal/api/middleware"
	"portfolio/internal/repository"
	"portfolio/internal/tasks"
)

// pathID 解析路由中的 :id，失败时已写入 400。
func pathID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		BadRequest(c, "Invalid ID")
		return 0, false
	}
	return uint(id), true
}

// queryID 解析 ?id=，缺失或非法时已写入 400。
func queryID(c *gin.Context, label string) (uint, bool) {
	raw := strings.TrimSpace(c.Query("id"))
	if raw == "" {
		BadRequest(c, label+" ID is required")
		return 0, false
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		BadRequest(c, "Invalid ID")
		return 0, false
	}
	return uint(id), true
}

// respondStoreError 将仓库错误映射为 404 或 500。
func respondStoreError(c *gin.Context, err error, notFoundMsg, failMsg string) {
	if errors.Is(err, repository.ErrNotFound) {
		NotFound(c, notFoundMsg)
		return
	}
	middleware.LoggerFromContext(c).Error(strings.ToLower(failMsg), slog.Any("error", err))
	Internal(c, failMsg, err)
}

// nullable 把缺失或空字符串归一为 NULL。
func nullable(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}

// jsonColumn 原样保存客户端提交的 JSON；假值（缺失、null、false、0、""）回落为 fallback。
func jsonColumn(raw json.RawMessage, fallback datatypes.JSON) datatypes.JSON {
	switch strings.TrimSpace(string(raw)) {
	case "", "null", "false", "0", `""`:
		return fallback
	}
	return datatypes.JSON(append([]byte(nil), raw...))
}

var emptyJSONArray = datatypes.JSON("[]")

// changeNotifier 在后台写入成功后投递站点重新生成任务，投递失败只记录日志。
type changeNotifier struct {
	dispatcher tasks.Dispatcher
}

func (n changeNotifier) notify(c *gin.Context, entity, action string) {
	if n.dispatcher == nil {
		return
	}
	if err := n.dispatcher.Revalidate(c.Request.Context(), entity, action, middleware.GetCorrelationID(c)); err != nil {
		middleware.LoggerFromContext(c).Warn("enqueue revalidation failed",
			slog.String("entity", entity),
			slog.Any("error", err),
		)
	}
}
