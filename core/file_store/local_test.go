package file_store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/virtualta/forumqa/core/errors"
)

func TestLocalStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := &localStore{dir: t.TempDir()}

	payload := []byte(`{"id":42,"title":"hello"}`)
	path, err := s.SaveTopicJSON(ctx, 42, payload)
	assert.NoError(t, err)
	assert.NotEmpty(t, path)

	exists, err := s.TopicExists(ctx, 42)
	assert.NoError(t, err)
	assert.True(t, exists)

	data, err := s.LoadTopicJSON(ctx, 42)
	assert.NoError(t, err)
	assert.Equal(t, payload, data)
}

func TestLocalStoreMissingTopic(t *testing.T) {
	ctx := context.Background()
	s := &localStore{dir: t.TempDir()}

	exists, err := s.TopicExists(ctx, 999)
	assert.NoError(t, err)
	assert.False(t, exists)

	_, err = s.LoadTopicJSON(ctx, 999)
	assert.Error(t, err)
	assert.Equal(t, errors.ErrNotFound, errors.CodeOf(err))
}

func TestTopicObjectName(t *testing.T) {
	assert.Equal(t, "topic_42.json", topicObjectName(42))
}
