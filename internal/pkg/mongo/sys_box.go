package mongo

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const sysBoxCollection = "sys_box"

// SysBoxModel 系统通知模型
type SysBoxModel struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ReceiverID uint64             `bson:"receiver_id" json:"receiverId"` // 梦境作者
	SenderID   uint64             `bson:"sender_id" json:"senderId"`     // 动作发起者ID (解析完成等系统通知为0)
	Type       int8               `bson:"type" json:"type"`
	TargetID   uint64             `bson:"target_id" json:"targetId"` // 梦境ID
	Content    string             `bson:"content" json:"content"`    // 评论片段或评分值
	Payload    map[string]any     `bson:"payload" json:"payload"`
	IsRead     bool               `bson:"is_read" json:"isRead"`
	CreatedAt  time.Time          `bson:"created_at" json:"createdAt"`
}
