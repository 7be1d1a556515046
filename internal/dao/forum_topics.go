package dao

import (
	"context"
	"time"

	"github.com/virtualta/forumqa/core/errors"
	gormModel "github.com/virtualta/forumqa/internal/model/gorm"

	"gorm.io/gorm"
)

type forumTopicsDao struct{}

// ForumTopics 话题簿记表的数据访问对象
var ForumTopics = forumTopicsDao{}

// Create 新增话题记录
func (forumTopicsDao) Create(ctx context.Context, topic *gormModel.ForumTopic) error {
	if err := GetDB().WithContext(ctx).Create(topic).Error; err != nil {
		return errors.Newf(errors.ErrDatabaseInsert, "failed to create forum topic %d: %v", topic.TopicID, err)
	}
	return nil
}

// GetByTopicID 按Discourse话题ID查询，未找到返回nil
func (forumTopicsDao) GetByTopicID(ctx context.Context, topicID int64) (*gormModel.ForumTopic, error) {
	var topic gormModel.ForumTopic
	err := GetDB().WithContext(ctx).Where("topic_id = ?", topicID).First(&topic).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, errors.Newf(errors.ErrDatabaseQuery, "failed to query forum topic %d: %v", topicID, err)
	}
	return &topic, nil
}

// Exists 检查话题是否已记录
func (forumTopicsDao) Exists(ctx context.Context, topicID int64) (bool, error) {
	var count int64
	err := GetDB().WithContext(ctx).Model(&gormModel.ForumTopic{}).
		Where("topic_id = ?", topicID).Count(&count).Error
	if err != nil {
		return false, errors.Newf(errors.ErrDatabaseQuery, "failed to count forum topic %d: %v", topicID, err)
	}
	return count > 0, nil
}

// MarkIndexed 标记话题已索引并记录chunk数量
func (forumTopicsDao) MarkIndexed(ctx context.Context, topicID int64, chunkCount int) error {
	now := time.Now()
	err := GetDB().WithContext(ctx).Model(&gormModel.ForumTopic{}).
		Where("topic_id = ?", topicID).
		Updates(map[string]interface{}{
			"indexed":     true,
			"chunk_count": chunkCount,
			"indexed_at":  &now,
		}).Error
	if err != nil {
		return errors.Newf(errors.ErrDatabaseUpdate, "failed to mark topic %d indexed: %v", topicID, err)
	}
	return nil
}

// ListUnindexed 查询所有未索引的话题
func (forumTopicsDao) ListUnindexed(ctx context.Context) ([]*gormModel.ForumTopic, error) {
	var topics []*gormModel.ForumTopic
	err := GetDB().WithContext(ctx).
		Where("indexed = ?", false).
		Order("topic_created_at ASC").
		Find(&topics).Error
	if err != nil {
		return nil, errors.Newf(errors.ErrDatabaseQuery, "failed to list unindexed topics: %v", err)
	}
	return topics, nil
}

// List 查询所有话题记录，按论坛创建时间倒序
func (forumTopicsDao) List(ctx context.Context) ([]*gormModel.ForumTopic, error) {
	var topics []*gormModel.ForumTopic
	err := GetDB().WithContext(ctx).
		Order("topic_created_at DESC").
		Find(&topics).Error
	if err != nil {
		return nil, errors.Newf(errors.ErrDatabaseQuery, "failed to list topics: %v", err)
	}
	return topics, nil
}
