package serializers

import (
	"context"
	"errors"
	"fmt"

	"github.com/anonto42/yatube/backend/internal/apperr"
	"github.com/anonto42/yatube/backend/internal/models"
	"github.com/anonto42/yatube/backend/internal/repositories"
)

const (
	selfFollowMessage      = "You cannot follow yourself."
	duplicateFollowMessage = "You are already following this user."
)

// FollowSerializer validates follow requests. The follower is always the
// acting identity; only the target comes from input.
type FollowSerializer struct {
	validator Validator
	users     repositories.UserRepository
	follows   repositories.FollowRepository
}

func NewFollowSerializer(v Validator, users repositories.UserRepository, follows repositories.FollowRepository) *FollowSerializer {
	return &FollowSerializer{validator: v, users: users, follows: follows}
}

// Validate resolves the target username and rejects self and duplicate follows.
func (s *FollowSerializer) Validate(ctx context.Context, actor *models.User, req *models.CreateFollowRequest) (*models.Follow, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}
	target, err := s.users.GetUserByUsername(ctx, req.Following)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, apperr.NewValidationError("following",
				fmt.Sprintf("Object with username=%s does not exist.", req.Following))
		}
		return nil, err
	}
	if target.ID == actor.ID {
		return nil, apperr.NewValidationError("following", selfFollowMessage)
	}
	exists, err := s.follows.IsFollowing(ctx, actor.ID, target.ID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperr.NewValidationError("following", duplicateFollowMessage)
	}
	return &models.Follow{UserID: actor.ID, FollowingID: target.ID}, nil
}

// ConstraintError turns a follow rejected by the table constraints (a concurrent
// duplicate, or a self-follow that slipped past Validate) into a field error.
func (s *FollowSerializer) ConstraintError(follow *models.Follow, err error) error {
	if !errors.Is(err, apperr.ErrConstraintViolation) {
		return err
	}
	if follow.UserID == follow.FollowingID {
		return apperr.NewValidationError("following", selfFollowMessage)
	}
	return apperr.NewValidationError("following", duplicateFollowMessage)
}

func (s *FollowSerializer) ToRepresentation(f *models.Follow) models.FollowResponse {
	return models.FollowResponse{User: f.User.Username, Following: f.Following.Username}
}

func (s *FollowSerializer) ToRepresentationList(follows []models.Follow) []models.FollowResponse {
	out := make([]models.FollowResponse, 0, len(follows))
	for i := range follows {
		out = append(out, s.ToRepresentation(&follows[i]))
	}
	return out
}
