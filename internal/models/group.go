package models

// Group is a community a post can be published to. Groups are referenced by
// posts but never owned by them.
type Group struct {
	ID          uint   `json:"id" gorm:"primaryKey"`
	Title       string `json:"title" gorm:"size:100;not null;uniqueIndex"`
	Slug        string `json:"slug" gorm:"size:50;not null;uniqueIndex"`
	Description string `json:"description" gorm:"type:text;not null"`
}

// CreateGroupRequest defines the input accepted for a new group.
type CreateGroupRequest struct {
	Title       string `json:"title" validate:"required,max=100"`
	Slug        string `json:"slug" validate:"required,max=50,slug"`
	Description string `json:"description" validate:"required"`
}
