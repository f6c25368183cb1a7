package worker

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/hibiken/asynq"

	"portfolio/internal/tasks"
)

// RevalidateTaskHandler 消费站点重新生成任务，通知前端重新构建页面。
type RevalidateTaskHandler struct {
	webhookURL string
	secret     string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewRevalidateTaskHandler 创建任务处理器。
func NewRevalidateTaskHandler(webhookURL, secret string, logger *slog.Logger) *RevalidateTaskHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &RevalidateTaskHandler{
		webhookURL: strings.TrimSpace(webhookURL),
		secret:     secret,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		logger:     logger,
	}
}

type revalidateRequest struct {
	Secret string `json:"secret"`
}

// ProcessTask 实现 asynq.Handler。
func (h *RevalidateTaskHandler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var payload tasks.RevalidatePayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		h.logger.Error("unmarshal task payload failed", slog.Any("error", err))
		// 载荷损坏时重试无意义。
		return fmt.Errorf("unmarshal revalidate payload: %v: %w", err, asynq.SkipRetry)
	}

	log := h.logger.With(
		slog.String("correlation_id", payload.CorrelationID),
		slog.String("entity", payload.Entity),
		slog.String("action", payload.Action),
	)

	if h.webhookURL == "" {
		log.Warn("revalidation url is not configured, skipping task")
		return nil
	}

	body, err := json.Marshal(revalidateRequest{Secret: h.secret})
	if err != nil {
		return fmt.Errorf("marshal revalidate request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.webhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build revalidate request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := h.httpClient.Do(req)
	if err != nil {
		log.Error("trigger revalidation failed", slog.Any("error", err))
		return fmt.Errorf("request revalidation: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 8*1024))
		log.Error("revalidation rejected", slog.Int("status", resp.StatusCode))
		err := fmt.Errorf("revalidation status %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet)))
		// 4xx 多为密钥或地址配置错误，重试不会成功。
		if resp.StatusCode >= 400 && resp.StatusCode < 500 {
			return fmt.Errorf("%w: %w", err, asynq.SkipRetry)
		}
		return err
	}

	log.Info("revalidation triggered")
	return nil
}
