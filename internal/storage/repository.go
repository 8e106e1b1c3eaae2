package storage

import (
	"context"
	"errors"

	"github.com/flickit-platform/assessment-api/internal/models"
)

// ErrNotFound is returned when a looked-up entity does not exist
var ErrNotFound = errors.New("not found")

// Repository defines the read interface over the assessment platform database.
// Every kit-content query is scoped to a single kit version.
type Repository interface {
	// Kits
	GetKit(ctx context.Context, id int64) (*models.AssessmentKit, error)
	ListKits(ctx context.Context, filters models.KitListFilters) ([]*models.AssessmentKit, error)
	KitTags(ctx context.Context, kitID int64) ([]models.Tag, error)
	CountKitLikes(ctx context.Context, kitID int64) (int, error)

	// Expert groups
	GetExpertGroup(ctx context.Context, id int64) (*models.ExpertGroup, error)
	IsCoordinator(ctx context.Context, expertGroupID, userID int64) (bool, error)

	// Kit version contents
	ListSubjects(ctx context.Context, kitVersionID int64) ([]models.AssessmentSubject, error)
	SubjectAttributes(ctx context.Context, subjectIDs []int64) (map[int64][]models.QualityAttribute, error)
	ListQuestionnaires(ctx context.Context, kitVersionID int64) ([]models.Questionnaire, error)
	ListMaturityLevels(ctx context.Context, kitVersionID int64) ([]models.MaturityLevel, error)
	ListLevelCompetences(ctx context.Context, kitVersionID int64) ([]models.LevelCompetence, error)
	CountQuestionnaires(ctx context.Context, kitVersionID int64) (int, error)
	CountMaturityLevels(ctx context.Context, kitVersionID int64) (int, error)
	CountQuestions(ctx context.Context, kitVersionID int64) (int, error)
	CountAttributes(ctx context.Context, kitVersionID int64) (int, error)

	// Spaces and users
	GetSpace(ctx context.Context, id int64) (*models.Space, error)
	ListSpacesForUser(ctx context.Context, userID int64, limit, offset int) ([]*models.Space, error)
	CountSpaceMembers(ctx context.Context, spaceID int64) (int, error)
	GetUser(ctx context.Context, id int64) (*models.User, error)
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)

	// Health
	Ping(ctx context.Context) error
	Close() error
}
