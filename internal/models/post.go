package models

import (
	"encoding/json"
	"time"
)

// Post is a publication by an author, optionally tied to a group and an image.
// PubDate and AuthorID are written once on insert and never updated.
type Post struct {
	ID       uint      `gorm:"primaryKey"`
	Text     string    `gorm:"type:text;not null"`
	PubDate  time.Time `gorm:"autoCreateTime;index;not null;<-:create"`
	AuthorID uint      `gorm:"not null;index;<-:create"`
	Author   User      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Image    *string   `gorm:"size:255"` // object store key
	GroupID  *uint     `gorm:"index"`
	Group    *Group    `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;"`
}

// OwnerID returns the author, who alone may modify the post.
func (p *Post) OwnerID() uint { return p.AuthorID }

// PostPayload is the raw write body for a post. Fields absent from the body stay
// nil so partial updates can tell "not sent" from "sent as null".
type PostPayload struct {
	Text  json.RawMessage `json:"text"`
	Image json.RawMessage `json:"image"`
	Group json.RawMessage `json:"group"`
}

// PostResponse is the wire representation of a post.
type PostResponse struct {
	ID      uint      `json:"id"`
	Text    string    `json:"text"`
	PubDate time.Time `json:"pub_date"`
	Author  string    `json:"author"`
	Image   *string   `json:"image"`
	Group   *uint     `json:"group"`
}
