package models

import (
	"time"
)

// MaxMessageLength is the hard cap on a message body.
const MaxMessageLength = 140

type Message struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Text      string    `json:"text" gorm:"size:140;not null"`
	UserID    uint      `json:"userId" gorm:"index;not null"`
	User      User      `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time `json:"createdAt" gorm:"autoCreateTime;index"`
}
