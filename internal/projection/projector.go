package projection

import (
	"context"
	"fmt"

	"github.com/flickit-platform/assessment-api/internal/models"
)

// Store is the read access the views need. storage.Repository satisfies it.
type Store interface {
	KitTags(ctx context.Context, kitID int64) ([]models.Tag, error)
	CountKitLikes(ctx context.Context, kitID int64) (int, error)
	GetExpertGroup(ctx context.Context, id int64) (*models.ExpertGroup, error)
	IsCoordinator(ctx context.Context, expertGroupID, userID int64) (bool, error)

	ListSubjects(ctx context.Context, kitVersionID int64) ([]models.AssessmentSubject, error)
	SubjectAttributes(ctx context.Context, subjectIDs []int64) (map[int64][]models.QualityAttribute, error)
	ListQuestionnaires(ctx context.Context, kitVersionID int64) ([]models.Questionnaire, error)
	ListMaturityLevels(ctx context.Context, kitVersionID int64) ([]models.MaturityLevel, error)
	ListLevelCompetences(ctx context.Context, kitVersionID int64) ([]models.LevelCompetence, error)
	CountQuestionnaires(ctx context.Context, kitVersionID int64) (int, error)
	CountMaturityLevels(ctx context.Context, kitVersionID int64) (int, error)
	CountQuestions(ctx context.Context, kitVersionID int64) (int, error)
	CountAttributes(ctx context.Context, kitVersionID int64) (int, error)

	GetUser(ctx context.Context, id int64) (*models.User, error)
	CountSpaceMembers(ctx context.Context, spaceID int64) (int, error)
}

// AssessmentCounter counts the assessments created from a kit or inside a space
type AssessmentCounter interface {
	CountAssessments(ctx context.Context, filter models.AssessmentCountFilter) (*models.AssessmentCount, error)
}

// ViewContext carries the caller-dependent inputs of a view
type ViewContext struct {
	CurrentUserID int64
}

// Projector builds views. It holds no per-request state and is safe for
// concurrent use when its Store and AssessmentCounter are.
type Projector struct {
	store   Store
	counter AssessmentCounter
}

// New creates a Projector
func New(store Store, counter AssessmentCounter) *Projector {
	return &Projector{store: store, counter: counter}
}

func (p *Projector) notDeletedKitAssessments(ctx context.Context, kitID int64) (int, error) {
	count, err := p.counter.CountAssessments(ctx, models.AssessmentCountFilter{KitID: kitID, NotDeleted: true})
	if err != nil {
		return 0, fmt.Errorf("failed to count kit assessments: %w", err)
	}
	return count.NotDeletedCount, nil
}

func (p *Projector) totalKitAssessments(ctx context.Context, kitID int64) (int, error) {
	count, err := p.counter.CountAssessments(ctx, models.AssessmentCountFilter{KitID: kitID, Total: true})
	if err != nil {
		return 0, fmt.Errorf("failed to count kit assessments: %w", err)
	}
	return count.TotalCount, nil
}

func (p *Projector) notDeletedSpaceAssessments(ctx context.Context, spaceID int64) (int, error) {
	count, err := p.counter.CountAssessments(ctx, models.AssessmentCountFilter{SpaceID: spaceID, NotDeleted: true})
	if err != nil {
		return 0, fmt.Errorf("failed to count space assessments: %w", err)
	}
	return count.NotDeletedCount, nil
}

func (p *Projector) isCoordinator(ctx context.Context, kit *models.AssessmentKit, vc ViewContext) (bool, error) {
	ok, err := p.store.IsCoordinator(ctx, kit.ExpertGroupID, vc.CurrentUserID)
	if err != nil {
		return false, fmt.Errorf("failed to resolve coordinator: %w", err)
	}
	return ok, nil
}
