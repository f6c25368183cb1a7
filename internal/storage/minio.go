package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"portfolio/internal/config"
)

// Client 封装 MinIO/S3 客户端。内部客户端负责读写，公共客户端用于生成对外可访问的链接。
type Client struct {
	internalClient *minio.Client
	publicClient   *minio.Client
	publicBase     *url.URL
	region         string
}

// ObjectMeta 描述 Bucket 中对象的关键信息。
type ObjectMeta struct {
	Key          string
	Size         int64
	ContentType  string
	LastModified time.Time
}

// NewClient 根据配置初始化 MinIO 客户端。Bucket 由调用方按需创建。
func NewClient(cfg config.MinIOConfig) (*Client, error) {
	if !cfg.HasCredentials() {
		return nil, fmt.Errorf("minio endpoint and credentials are required")
	}

	bucketLookup := minio.BucketLookupAuto
	switch strings.ToLower(strings.TrimSpace(cfg.BucketLookup)) {
	case "", "auto":
		bucketLookup = minio.BucketLookupAuto
	case "dns":
		bucketLookup = minio.BucketLookupDNS
	case "path":
		bucketLookup = minio.BucketLookupPath
	default:
		return nil, fmt.Errorf("invalid minio bucket lookup %q", cfg.BucketLookup)
	}

	internalClient, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:        credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure:       cfg.UseSSL,
		Region:       cfg.Region,
		BucketLookup: bucketLookup,
	})
	if err != nil {
		return nil, fmt.Errorf("init internal minio client: %w", err)
	}

	publicEndpoint := strings.TrimSpace(cfg.PublicEndpoint)
	if publicEndpoint == "" {
		scheme := "http"
		if cfg.UseSSL {
			scheme = "https"
		}
		publicEndpoint = scheme + "://" + cfg.Endpoint
	}
	publicBase, err := url.Parse(publicEndpoint)
	if err != nil {
		return nil, fmt.Errorf("parse minio public endpoint: %w", err)
	}
	if publicBase.Host == "" {
		return nil, fmt.Errorf("invalid minio public endpoint, host missing")
	}

	publicClient, err := minio.New(publicBase.Host, &minio.Options{
		Creds:        credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure:       publicBase.Scheme == "https",
		Region:       cfg.Region,
		BucketLookup: bucketLookup,
	})
	if err != nil {
		return nil, fmt.Errorf("init public minio client: %w", err)
	}

	return &Client{
		internalClient: internalClient,
		publicClient:   publicClient,
		publicBase:     publicBase,
		region:         cfg.Region,
	}, nil
}

// EnsureBucket 创建 Bucket；已存在时视为成功。
func (c *Client) EnsureBucket(ctx context.Context, bucket string) error {
	err := c.internalClient.MakeBucket(ctx, bucket, minio.MakeBucketOptions{Region: c.region})
	if err == nil || IsBucketExists(err) {
		return nil
	}
	return fmt.Errorf("make bucket %q: %w", bucket, err)
}

// UploadFile 覆盖写入对象。
func (c *Client) UploadFile(ctx context.Context, bucket, objectName string, reader io.Reader, size int64, contentType string) (*minio.UploadInfo, error) {
	opts := minio.PutObjectOptions{ContentType: contentType}
	info, err := c.internalClient.PutObject(ctx, bucket, objectName, reader, size, opts)
	if err != nil {
		return nil, fmt.Errorf("put object %q: %w", objectName, err)
	}
	return &info, nil
}

// StatObject 读取对象元数据，对象不存在时可用 IsNoSuchKey 判断。
func (c *Client) StatObject(ctx context.Context, bucket, objectKey string) (ObjectMeta, error) {
	info, err := c.internalClient.StatObject(ctx, bucket, objectKey, minio.StatObjectOptions{})
	if err != nil {
		return ObjectMeta{}, fmt.Errorf("stat object %q: %w", objectKey, err)
	}
	return ObjectMeta{
		Key:          info.Key,
		Size:         info.Size,
		ContentType:  info.ContentType,
		LastModified: info.LastModified,
	}, nil
}

// GeneratePresignedURLWithParams 生成带自定义响应参数的限时下载链接。
func (c *Client) GeneratePresignedURLWithParams(ctx context.Context, bucket, objectKey string, duration time.Duration, params map[string]string) (string, error) {
	var v url.Values
	if params != nil {
		v = url.Values{}
		for k, val := range params {
			v.Set(k, val)
		}
	}
	presignedURL, err := c.publicClient.PresignedGetObject(ctx, bucket, objectKey, duration, v)
	if err != nil {
		return "", fmt.Errorf("generate presigned url with params for %q: %w", objectKey, err)
	}
	return presignedURL.String(), nil
}

// PublicURL 返回公开 Bucket 中对象的直链，params 以查询参数附加。
func (c *Client) PublicURL(bucket, objectKey string, params map[string]string) string {
	u := *c.publicBase
	u.Path = strings.TrimRight(u.Path, "/") + "/" + bucket + "/" + strings.TrimLeft(objectKey, "/")
	if len(params) > 0 {
		q := url.Values{}
		for k, val := range params {
			q.Set(k, val)
		}
		u.RawQuery = q.Encode()
	}
	return u.String()
}
