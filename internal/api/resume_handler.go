package api

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/minio/minio-go/v7"

	"portfolio/internal/api/middleware"
	"portfolio/internal/config"
	"portfolio/internal/storage"
)

const defaultResumeContentType = "application/pdf"

// ResumeStorage 是简历接口依赖的对象存储能力，由 *storage.Client 实现。
type ResumeStorage interface {
	EnsureBucket(ctx context.Context, bucket string) error
	UploadFile(ctx context.Context, bucket, objectName string, reader io.Reader, size int64, contentType string) (*minio.UploadInfo, error)
	StatObject(ctx context.Context, bucket, objectKey string) (storage.ObjectMeta, error)
	GeneratePresignedURLWithParams(ctx context.Context, bucket, objectKey string, duration time.Duration, params map[string]string) (string, error)
	PublicURL(bucket, objectKey string, params map[string]string) string
}

// ResumeHandler 管理固定路径上的“当前简历”。上传会直接覆盖，不保留历史版本。
type ResumeHandler struct {
	storage ResumeStorage
	scanner storage.Scanner
	cfg     config.ResumeConfig
	session sessionGuard
}

// NewResumeHandler 构造简历处理器。store 为 nil 表示未配置存储凭据，请求时返回 500。
func NewResumeHandler(store ResumeStorage, scanner storage.Scanner, cfg config.ResumeConfig, session sessionGuard) *ResumeHandler {
	return &ResumeHandler{storage: store, scanner: scanner, cfg: cfg, session: session}
}

// Get 将请求重定向到简历的访问地址：公开模式直接拼接公共链接，否则签发限时链接。
func (h *ResumeHandler) Get(c *gin.Context) {
	if h.storage == nil {
		Internal(c, "Storage is not configured", nil)
		return
	}

	ctx := c.Request.Context()
	logger := middleware.LoggerFromContext(c)

	if _, err := h.storage.StatObject(ctx, h.cfg.Bucket, h.cfg.Object); err != nil {
		if !storage.IsNoSuchKey(err) && !storage.IsNoSuchBucket(err) {
			logger.Error("stat resume failed", slog.Any("error", err))
		}
		NotFound(c, "Resume not found")
		return
	}

	var target string
	if h.cfg.Public {
		var params map[string]string
		if h.cfg.DownloadName != "" {
			params = map[string]string{"download": h.cfg.DownloadName}
		}
		target = h.storage.PublicURL(h.cfg.Bucket, h.cfg.Object, params)
	} else {
		params := map[string]string{}
		if h.cfg.DownloadName != "" {
			params["response-content-disposition"] = `attachment; filename="` + h.cfg.DownloadName + `"`
		}
		signed, err := h.storage.GeneratePresignedURLWithParams(ctx, h.cfg.Bucket, h.cfg.Object, h.signedTTL(), params)
		if err != nil {
			logger.Error("presign resume failed", slog.Any("error", err))
			NotFound(c, "Resume not found")
			return
		}
		target = signed
	}
	if target == "" {
		NotFound(c, "Resume not found")
		return
	}

	c.Redirect(http.StatusFound, target)
}

// Put 覆盖当前简历。配置了扫描器时先扫描，Bucket 不存在时自动创建。
func (h *ResumeHandler) Put(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		BadRequest(c, "Missing file")
		return
	}
	if !h.session.require(c) {
		return
	}
	if h.storage == nil {
		Internal(c, "Storage is not configured", nil)
		return
	}

	ctx := c.Request.Context()
	logger := middleware.LoggerFromContext(c).With(
		slog.String("filename", file.Filename),
		slog.Int64("size", file.Size),
	)

	if h.scanner != nil {
		if err := h.scan(file); err != nil {
			if errors.Is(err, storage.ErrInfected) {
				logger.Warn("resume upload rejected", slog.Any("error", err))
				BadRequest(c, "Malicious file detected")
				return
			}
			logger.Error("scan resume failed", slog.Any("error", err))
			Internal(c, "Failed to scan file", err)
			return
		}
	}

	// Bucket 已存在等错误不影响上传，由上传结果决定成败。
	if err := h.storage.EnsureBucket(ctx, h.cfg.Bucket); err != nil {
		logger.Warn("ensure resume bucket failed", slog.Any("error", err))
	}

	reader, err := file.Open()
	if err != nil {
		logger.Error("open upload failed", slog.Any("error", err))
		Internal(c, "Upload failed", err)
		return
	}
	defer reader.Close()

	contentType := file.Header.Get("Content-Type")
	if contentType == "" {
		contentType = defaultResumeContentType
	}

	if _, err := h.storage.UploadFile(ctx, h.cfg.Bucket, h.cfg.Object, reader, file.Size, contentType); err != nil {
		logger.Error("upload resume failed", slog.Any("error", err))
		Internal(c, "Upload failed", err)
		return
	}

	logger.Info("resume uploaded", slog.String("object", h.cfg.Object))
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *ResumeHandler) scan(file *multipart.FileHeader) error {
	reader, err := file.Open()
	if err != nil {
		return err
	}
	defer reader.Close()
	return h.scanner.Scan(reader)
}

func (h *ResumeHandler) signedTTL() time.Duration {
	if h.cfg.SignedTTL > 0 {
		return h.cfg.SignedTTL
	}
	return time.Minute
}
