// Package storage 日记图片存储
package storage

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
)

// ErrEmptyFile 上传内容为空
var ErrEmptyFile = errors.New("empty file")

// Uploader 上传文件并返回可公开访问的地址
type Uploader interface {
	Upload(ctx context.Context, data []byte, name, contentType string) (string, error)
}

// Config 存储配置
type Config struct {
	Driver    string
	LocalPath string
	BaseURL   string // local 驱动的对外访问前缀，如 http://localhost:8000/uploads
	Endpoint  string
	Bucket    string
	Token     string
	PublicURL string
	Timeout   time.Duration
}

// New 按驱动创建上传器
func New(cfg Config) (Uploader, error) {
	switch cfg.Driver {
	case "", "local":
		return NewLocal(cfg.LocalPath, cfg.BaseURL)
	case "remote":
		return NewRemote(cfg)
	default:
		return nil, fmt.Errorf("unsupported storage driver: %s", cfg.Driver)
	}
}

// objectKey 生成对象键：日期目录 + uuid + 原扩展名
func objectKey(name string) string {
	ext := strings.ToLower(filepath.Ext(filepath.Base(name)))
	return path.Join(time.Now().UTC().Format("2006/01/02"), uuid.NewString()+ext)
}

// Local 写入本地目录，由 gin 静态路由对外提供访问
type Local struct {
	root    string
	baseURL string
}

// NewLocal 创建本地存储，目录不存在时自动创建
func NewLocal(root, baseURL string) (*Local, error) {
	if root == "" {
		return nil, errors.New("storage local path is empty")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create storage dir: %w", err)
	}
	return &Local{root: root, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

// Root 本地存储根目录
func (l *Local) Root() string {
	return l.root
}

// Upload 实现 Uploader
func (l *Local) Upload(ctx context.Context, data []byte, name, contentType string) (string, error) {
	if len(data) == 0 {
		return "", ErrEmptyFile
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	key := objectKey(name)
	target := filepath.Join(l.root, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return "", fmt.Errorf("create storage dir: %w", err)
	}
	if err := os.WriteFile(target, data, 0o644); err != nil {
		return "", fmt.Errorf("write file: %w", err)
	}
	return l.baseURL + "/" + key, nil
}

// Remote 通过 HTTP PUT 上传到 S3 兼容网关
type Remote struct {
	client    *resty.Client
	endpoint  string
	bucket    string
	token     string
	publicURL string
}

// NewRemote 创建远程存储
func NewRemote(cfg Config) (*Remote, error) {
	if cfg.Endpoint == "" {
		return nil, errors.New("storage endpoint is empty")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	publicURL := cfg.PublicURL
	if publicURL == "" {
		publicURL = strings.TrimRight(cfg.Endpoint, "/") + "/" + cfg.Bucket
	}
	return &Remote{
		client:    resty.New().SetTimeout(timeout),
		endpoint:  strings.TrimRight(cfg.Endpoint, "/"),
		bucket:    cfg.Bucket,
		token:     cfg.Token,
		publicURL: strings.TrimRight(publicURL, "/"),
	}, nil
}

// Upload 实现 Uploader
func (r *Remote) Upload(ctx context.Context, data []byte, name, contentType string) (string, error) {
	if len(data) == 0 {
		return "", ErrEmptyFile
	}
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}

	key := objectKey(name)
	req := r.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", contentType).
		SetBody(data)
	if r.token != "" {
		req.SetAuthToken(r.token)
	}

	resp, err := req.Put(fmt.Sprintf("%s/%s/%s", r.endpoint, r.bucket, key))
	if err != nil {
		return "", fmt.Errorf("upload object: %w", err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("upload object: status %d", resp.StatusCode())
	}
	return r.publicURL + "/" + key, nil
}
