package service

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/yhubail/graphql/internal/config"
	"github.com/yhubail/graphql/internal/util"
	"github.com/yhubail/graphql/pkg/logger"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"
)

// StorageProvider 定义通用存储接口（图表导出快照）
type StorageProvider interface {
	Upload(ctx context.Context, filename string, reader io.Reader, size int64, contentType string) (string, error)
	Delete(ctx context.Context, filename string) error
	GetURL(filename string) string
}

// LocalStorageProvider 本地存储实现
type LocalStorageProvider struct {
	Config *config.StorageConfig
}

func (p *LocalStorageProvider) Upload(ctx context.Context, filename string, reader io.Reader, size int64, contentType string) (string, error) {
	dst := filepath.Join(p.Config.LocalPath, filename)
	dir := filepath.Dir(dst)
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return "", err
		}
	}

	out, err := os.Create(dst)
	if err != nil {
		return "", err
	}
	defer out.Close()

	if _, err := io.Copy(out, reader); err != nil {
		return "", err
	}

	return p.GetURL(filename), nil
}

func (p *LocalStorageProvider) Delete(ctx context.Context, filename string) error {
	return os.Remove(filepath.Join(p.Config.LocalPath, filename))
}

func (p *LocalStorageProvider) GetURL(filename string) string {
	return "/exports/" + filename
}

// MinioStorageProvider MinIO存储实现
type MinioStorageProvider struct {
	Config *config.StorageConfig
	Client *minio.Client
}

func NewMinioStorageProvider(cfg *config.StorageConfig) (*MinioStorageProvider, error) {
	client, err := minio.New(cfg.MinioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioAccessID, cfg.MinioSecret, ""),
		Secure: false,
	})
	if err != nil {
		return nil, err
	}
	return &MinioStorageProvider{Config: cfg, Client: client}, nil
}

func (p *MinioStorageProvider) Upload(ctx context.Context, filename string, reader io.Reader, size int64, contentType string) (string, error) {
	_, err := p.Client.PutObject(ctx, p.Config.MinioBucket, filename, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", err
	}
	return p.GetURL(filename), nil
}

func (p *MinioStorageProvider) Delete(ctx context.Context, filename string) error {
	return p.Client.RemoveObject(ctx, p.Config.MinioBucket, filename, minio.RemoveObjectOptions{})
}

func (p *MinioStorageProvider) GetURL(filename string) string {
	return fmt.Sprintf("http://%s/%s/%s", p.Config.MinioEndpoint, p.Config.MinioBucket, filename)
}

// StorageService 按配置选择存储后端，MinIO不可用时回退本地
type StorageService struct {
	Provider StorageProvider
}

func NewStorageService(cfg *config.Config) *StorageService {
	var provider StorageProvider

	switch cfg.Storage.Type {
	case util.StorageMinio:
		p, err := NewMinioStorageProvider(&cfg.Storage)
		if err != nil {
			logger.Log.Error("Failed to init MinIO storage, falling back to local", zap.Error(err))
			provider = &LocalStorageProvider{Config: &cfg.Storage}
		} else {
			provider = p
		}
	default:
		provider = &LocalStorageProvider{Config: &cfg.Storage}
	}

	return &StorageService{Provider: provider}
}

func (s *StorageService) Upload(ctx context.Context, filename string, reader io.Reader, size int64, contentType string) (string, error) {
	return s.Provider.Upload(ctx, filename, reader, size, contentType)
}
