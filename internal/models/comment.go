package models

import (
	"encoding/json"
	"time"
)

// Comment represents a comment on a post
type Comment struct {
	ID       uint      `gorm:"primaryKey"`
	AuthorID uint      `gorm:"not null;index;<-:create"`
	Author   User      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	PostID   uint      `gorm:"not null;index;<-:create"`
	Post     Post      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Text     string    `gorm:"type:text;not null"`
	Created  time.Time `gorm:"autoCreateTime;index;not null;<-:create"`
}

// OwnerID returns the comment author.
func (c *Comment) OwnerID() uint { return c.AuthorID }

// CommentPayload is the raw write body for a comment. Text stays raw so an
// explicit null is not mistaken for an omitted field.
type CommentPayload struct {
	Text json.RawMessage `json:"text"`
}

// CommentResponse is the wire representation of a comment.
type CommentResponse struct {
	ID      uint      `json:"id"`
	Author  string    `json:"author"`
	Post    uint      `json:"post"`
	Text    string    `json:"text"`
	Created time.Time `json:"created"`
}
