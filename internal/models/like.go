package models

import (
	"time"
)

// Like records that a user liked a message. One like per user per message.
type Like struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"userId" gorm:"not null;uniqueIndex:idx_user_message"`
	MessageID uint      `json:"messageId" gorm:"not null;index;uniqueIndex:idx_user_message"`
	User      User      `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Message   Message   `json:"-" gorm:"foreignKey:MessageID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time `json:"createdAt" gorm:"autoCreateTime"`
}
