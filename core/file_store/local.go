package file_store

import (
	"context"
	"os"
	"path/filepath"

	"github.com/virtualta/forumqa/core/errors"

	"github.com/gogf/gf/v2/frame/g"
)

// localStore 本地目录归档
type localStore struct {
	dir string
}

func newLocalStore(ctx context.Context) (ArchiveStore, error) {
	dir := g.Cfg().MustGet(ctx, "storage.local.dir", "archive").String()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, errors.Newf(errors.ErrArchiveFailed, "failed to create archive directory %s: %v", dir, err)
	}
	return &localStore{dir: dir}, nil
}

func (s *localStore) SaveTopicJSON(ctx context.Context, topicID int64, data []byte) (string, error) {
	path := filepath.Join(s.dir, topicObjectName(topicID))
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", errors.Newf(errors.ErrArchiveFailed, "failed to write archive file %s: %v", path, err)
	}
	g.Log().Infof(ctx, "Topic %d archived to %s", topicID, path)
	return path, nil
}

func (s *localStore) LoadTopicJSON(ctx context.Context, topicID int64) ([]byte, error) {
	path := filepath.Join(s.dir, topicObjectName(topicID))
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Newf(errors.ErrNotFound, "archive file not found for topic %d", topicID)
		}
		return nil, errors.Newf(errors.ErrArchiveFailed, "failed to read archive file %s: %v", path, err)
	}
	return data, nil
}

func (s *localStore) TopicExists(ctx context.Context, topicID int64) (bool, error) {
	path := filepath.Join(s.dir, topicObjectName(topicID))
	_, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, errors.Newf(errors.ErrArchiveFailed, "failed to stat archive file %s: %v", path, err)
	}
	return true, nil
}
