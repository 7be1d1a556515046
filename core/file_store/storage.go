package file_store

import (
	"context"
	"fmt"
	"sync"

	"github.com/gogf/gf/v2/frame/g"
	"github.com/gogf/gf/v2/os/gctx"
)

// StorageType 存储类型
type StorageType string

const (
	StorageTypeMinio StorageType = "minio"
	StorageTypeLocal StorageType = "local"
)

// ArchiveStore 原始抓取数据的归档存储
// 保存每个话题的原始JSON载荷，供索引和排障使用
type ArchiveStore interface {
	// SaveTopicJSON 保存话题原始JSON，返回归档位置（对象key或本地路径）
	SaveTopicJSON(ctx context.Context, topicID int64, data []byte) (string, error)

	// LoadTopicJSON 读取话题原始JSON
	LoadTopicJSON(ctx context.Context, topicID int64) ([]byte, error)

	// TopicExists 检查话题是否已归档
	TopicExists(ctx context.Context, topicID int64) (bool, error)
}

var (
	storeOnce sync.Once
	store     ArchiveStore
	storeErr  error
)

// GetArchiveStore returns the singleton archive store
func GetArchiveStore() (ArchiveStore, error) {
	storeOnce.Do(func() {
		ctx := gctx.New()
		store, storeErr = initArchiveStore(ctx)
	})
	return store, storeErr
}

func initArchiveStore(ctx context.Context) (ArchiveStore, error) {
	storageTypeStr := g.Cfg().MustGet(ctx, "storage.type", "local").String()

	switch StorageType(storageTypeStr) {
	case StorageTypeMinio:
		endpoint := g.Cfg().MustGet(ctx, "storage.minio.endpoint", "").String()
		if endpoint == "" {
			g.Log().Infof(ctx, "MinIO not configured, using local archive storage")
			return newLocalStore(ctx)
		}
		accessKey := g.Cfg().MustGet(ctx, "storage.minio.accessKey").String()
		secretKey := g.Cfg().MustGet(ctx, "storage.minio.secretKey").String()
		bucketName := g.Cfg().MustGet(ctx, "storage.minio.bucketName").String()
		ssl := g.Cfg().MustGet(ctx, "storage.minio.ssl", false).Bool()

		s, err := newMinioStore(ctx, endpoint, accessKey, secretKey, bucketName, ssl)
		if err != nil {
			return nil, err
		}
		g.Log().Infof(ctx, "Using MinIO archive storage, bucket: %s", bucketName)
		return s, nil
	case StorageTypeLocal:
		g.Log().Infof(ctx, "Using local archive storage")
		return newLocalStore(ctx)
	default:
		g.Log().Infof(ctx, "Unknown storage type '%s', using local archive storage", storageTypeStr)
		return newLocalStore(ctx)
	}
}

// topicObjectName 话题归档的文件名
func topicObjectName(topicID int64) string {
	return fmt.Sprintf("topic_%d.json", topicID)
}
