package gorm

import (
	"time"

	"gorm.io/gorm"
)

// ForumTopic 抓取到的论坛话题的簿记记录
type ForumTopic struct {
	ID             uint64     `gorm:"primaryKey;autoIncrement" json:"id"`
	TopicID        int64      `gorm:"uniqueIndex;not null" json:"topic_id"`      // Discourse话题ID
	Slug           string     `gorm:"size:256" json:"slug"`                      // 话题slug
	Title          string     `gorm:"size:512" json:"title"`                     // 话题标题
	TopicCreatedAt time.Time  `json:"topic_created_at"`                          // 话题在论坛上的创建时间
	ArchivePath    string     `gorm:"size:512" json:"archive_path"`              // 原始JSON的归档位置
	Indexed        bool       `gorm:"default:false;index" json:"indexed"`        // 是否已写入向量库
	ChunkCount     int        `gorm:"default:0" json:"chunk_count"`              // 索引产生的chunk数量
	IndexedAt      *time.Time `json:"indexed_at"`                                // 最近一次索引时间
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// TableName 指定表名
func (ForumTopic) TableName() string {
	return "forum_topics"
}

// Migrate 自动迁移数据库表结构
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&ForumTopic{},
	)
}
