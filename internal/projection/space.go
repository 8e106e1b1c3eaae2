package projection

import (
	"context"
	"fmt"
	"time"

	"github.com/flickit-platform/assessment-api/internal/models"
)

// UserSimpleResponse is the nested user shape
type UserSimpleResponse struct {
	ID          int64  `json:"id"`
	DisplayName string `json:"display_name"`
}

// SpaceListResponse is one entry of the space list
type SpaceListResponse struct {
	ID                   int64              `json:"id"`
	Code                 string             `json:"code"`
	Title                string             `json:"title"`
	LastModificationDate time.Time          `json:"last_modification_date"`
	Owner                UserSimpleResponse `json:"owner"`
	MembersNumber        int                `json:"members_number"`
	AssessmentNumbers    int                `json:"assessment_numbers"`
}

// SpaceList projects a space into the list view. assessment_numbers counts
// only assessments that are not deleted.
func (p *Projector) SpaceList(ctx context.Context, space *models.Space) (*SpaceListResponse, error) {
	owner, err := p.store.GetUser(ctx, space.OwnerID)
	if err != nil {
		return nil, fmt.Errorf("failed to load space owner: %w", err)
	}

	members, err := p.store.CountSpaceMembers(ctx, space.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to count space members: %w", err)
	}

	assessments, err := p.notDeletedSpaceAssessments(ctx, space.ID)
	if err != nil {
		return nil, err
	}

	return &SpaceListResponse{
		ID:                   space.ID,
		Code:                 space.Code,
		Title:                space.Title,
		LastModificationDate: space.LastModificationDate,
		Owner:                UserSimpleResponse{ID: owner.ID, DisplayName: owner.DisplayName},
		MembersNumber:        members,
		AssessmentNumbers:    assessments,
	}, nil
}

// SpaceSimpleResponse identifies a space
type SpaceSimpleResponse struct {
	ID    int64  `json:"id"`
	Code  string `json:"code"`
	Title string `json:"title"`
}

// SpaceSimple projects a space into the simple view
func SpaceSimple(space *models.Space) SpaceSimpleResponse {
	return SpaceSimpleResponse{ID: space.ID, Code: space.Code, Title: space.Title}
}
