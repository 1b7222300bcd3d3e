package serializers

import (
	"context"
	"errors"
	"strings"

	"github.com/anonto42/yatube/backend/internal/apperr"
	"github.com/anonto42/yatube/backend/internal/models"
	"github.com/anonto42/yatube/backend/internal/repositories"
)

// GroupSerializer validates new groups. Groups are served as the model itself.
type GroupSerializer struct {
	validator Validator
	groups    repositories.GroupRepository
}

func NewGroupSerializer(v Validator, groups repositories.GroupRepository) *GroupSerializer {
	return &GroupSerializer{validator: v, groups: groups}
}

// Validate checks field constraints and that title and slug are still free.
func (s *GroupSerializer) Validate(ctx context.Context, req *models.CreateGroupRequest) (*models.Group, error) {
	req.Title = strings.TrimSpace(req.Title)
	req.Slug = strings.TrimSpace(req.Slug)

	report := &apperr.ValidationError{}
	if err := collect(report, s.validator.Validate(req)); err != nil {
		return nil, err
	}
	if report.Empty() {
		titleTaken, slugTaken, err := s.groups.GroupTaken(ctx, req.Title, req.Slug)
		if err != nil {
			return nil, err
		}
		if titleTaken {
			report.Add("title", "group with this title already exists.")
		}
		if slugTaken {
			report.Add("slug", "group with this slug already exists.")
		}
	}
	if err := report.OrNil(); err != nil {
		return nil, err
	}
	return &models.Group{Title: req.Title, Slug: req.Slug, Description: req.Description}, nil
}

// ConstraintError reports a uniqueness race lost at insert time as a validation failure.
func (s *GroupSerializer) ConstraintError(err error) error {
	if errors.Is(err, apperr.ErrConstraintViolation) {
		return apperr.NewValidationError(apperr.NonFieldErrors, "A group with this title or slug already exists.")
	}
	return err
}
