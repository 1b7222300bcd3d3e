package models

// Follow is a subscription of User to Following. The pair is unique and a user
// cannot follow themself; both rules are table constraints.
type Follow struct {
	ID          uint `json:"-" gorm:"primaryKey"`
	UserID      uint `json:"-" gorm:"not null;index;uniqueIndex:unique_user_following,priority:1;check:user_id <> following_id"`
	User        User `json:"-" gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	FollowingID uint `json:"-" gorm:"not null;index;uniqueIndex:unique_user_following,priority:2"`
	Following   User `json:"-" gorm:"foreignKey:FollowingID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

// OwnerID returns the follower.
func (f *Follow) OwnerID() uint { return f.UserID }

// CreateFollowRequest names the user to follow by username.
type CreateFollowRequest struct {
	Following string `json:"following" validate:"required"`
}

// FollowResponse is the wire representation of a follow.
type FollowResponse struct {
	User      string `json:"user"`
	Following string `json:"following"`
}
