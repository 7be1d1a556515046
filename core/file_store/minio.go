package file_store

import (
	"bytes"
	"context"
	"io"

	"github.com/virtualta/forumqa/core/errors"

	"github.com/gogf/gf/v2/frame/g"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// minioStore MinIO对象存储归档
type minioStore struct {
	client     *minio.Client
	bucketName string
}

func newMinioStore(ctx context.Context, endpoint, accessKey, secretKey, bucketName string, ssl bool) (ArchiveStore, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: ssl,
	})
	if err != nil {
		return nil, errors.Newf(errors.ErrArchiveFailed, "failed to create MinIO client: %v", err)
	}

	// 创建 bucket，如果已存在则跳过
	exists, err := client.BucketExists(ctx, bucketName)
	if err != nil {
		return nil, errors.Newf(errors.ErrArchiveFailed, "failed to check if bucket exists: %v", err)
	}
	if !exists {
		err = client.MakeBucket(ctx, bucketName, minio.MakeBucketOptions{Region: ""})
		if err != nil {
			return nil, errors.Newf(errors.ErrArchiveFailed, "failed to create bucket: %v", err)
		}
		g.Log().Infof(ctx, "Created bucket '%s'", bucketName)
	}

	return &minioStore{
		client:     client,
		bucketName: bucketName,
	}, nil
}

func (s *minioStore) SaveTopicJSON(ctx context.Context, topicID int64, data []byte) (string, error) {
	objectName := topicObjectName(topicID)
	_, err := s.client.PutObject(ctx, s.bucketName, objectName, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: "application/json"})
	if err != nil {
		return "", errors.Newf(errors.ErrArchiveFailed, "failed to upload topic %d to MinIO: %v", topicID, err)
	}
	g.Log().Infof(ctx, "Topic %d archived to MinIO: bucket=%s, key=%s", topicID, s.bucketName, objectName)
	return objectName, nil
}

func (s *minioStore) LoadTopicJSON(ctx context.Context, topicID int64) ([]byte, error) {
	objectName := topicObjectName(topicID)
	obj, err := s.client.GetObject(ctx, s.bucketName, objectName, minio.GetObjectOptions{})
	if err != nil {
		return nil, errors.Newf(errors.ErrArchiveFailed, "failed to get object %s: %v", objectName, err)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, errors.Newf(errors.ErrArchiveFailed, "failed to read object %s: %v", objectName, err)
	}
	return data, nil
}

func (s *minioStore) TopicExists(ctx context.Context, topicID int64) (bool, error) {
	objectName := topicObjectName(topicID)
	_, err := s.client.StatObject(ctx, s.bucketName, objectName, minio.StatObjectOptions{})
	if err != nil {
		errResp := minio.ToErrorResponse(err)
		if errResp.Code == "NoSuchKey" {
			return false, nil
		}
		return false, errors.Newf(errors.ErrArchiveFailed, "failed to stat object %s: %v", objectName, err)
	}
	return true, nil
}
