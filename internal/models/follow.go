package models

import (
	"time"
)

// Follow is the directed edge "follower follows followed". The composite
// unique index makes a duplicate follow a no-op at the database layer.
type Follow struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	FollowerID uint      `json:"followerId" gorm:"not null;index;uniqueIndex:idx_follower_followed"`
	FollowedID uint      `json:"followedId" gorm:"not null;uniqueIndex:idx_follower_followed"`
	Follower   User      `json:"-" gorm:"foreignKey:FollowerID;constraint:OnDelete:CASCADE"`
	Followed   User      `json:"-" gorm:"foreignKey:FollowedID;constraint:OnDelete:CASCADE"`
	CreatedAt  time.Time `json:"createdAt" gorm:"autoCreateTime"`
}
