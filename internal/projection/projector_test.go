package projection

import (
	"context"
	"errors"
	"time"

	"github.com/flickit-platform/assessment-api/internal/models"
)

// fakeStore serves fixed rows for one kit version. Reads of any other
// version find nothing.
type fakeStore struct {
	version int64

	tags         []models.Tag
	likes        int
	group        *models.ExpertGroup
	coordinators map[int64]bool

	subjects       []models.AssessmentSubject
	attributes     map[int64][]models.QualityAttribute
	questionnaires []models.Questionnaire
	levels         []models.MaturityLevel
	competences    []models.LevelCompetence

	questions      int
	attributeCount int

	users   map[int64]*models.User
	members int

	attributeCalls int
	err            error
}

func (s *fakeStore) KitTags(context.Context, int64) ([]models.Tag, error) {
	return s.tags, s.err
}

func (s *fakeStore) CountKitLikes(context.Context, int64) (int, error) {
	return s.likes, s.err
}

func (s *fakeStore) GetExpertGroup(context.Context, int64) (*models.ExpertGroup, error) {
	return s.group, s.err
}

func (s *fakeStore) IsCoordinator(_ context.Context, _, userID int64) (bool, error) {
	return s.coordinators[userID], s.err
}

func (s *fakeStore) ListSubjects(_ context.Context, kitVersionID int64) ([]models.AssessmentSubject, error) {
	if kitVersionID != s.version {
		return nil, s.err
	}
	return s.subjects, s.err
}

func (s *fakeStore) SubjectAttributes(context.Context, []int64) (map[int64][]models.QualityAttribute, error) {
	s.attributeCalls++
	return s.attributes, s.err
}

func (s *fakeStore) ListQuestionnaires(_ context.Context, kitVersionID int64) ([]models.Questionnaire, error) {
	if kitVersionID != s.version {
		return nil, s.err
	}
	return s.questionnaires, s.err
}

func (s *fakeStore) ListMaturityLevels(_ context.Context, kitVersionID int64) ([]models.MaturityLevel, error) {
	if kitVersionID != s.version {
		return nil, s.err
	}
	return s.levels, s.err
}

func (s *fakeStore) ListLevelCompetences(_ context.Context, kitVersionID int64) ([]models.LevelCompetence, error) {
	if kitVersionID != s.version {
		return nil, s.err
	}
	return s.competences, s.err
}

func (s *fakeStore) CountQuestionnaires(_ context.Context, kitVersionID int64) (int, error) {
	if kitVersionID != s.version {
		return 0, s.err
	}
	return len(s.questionnaires), s.err
}

func (s *fakeStore) CountMaturityLevels(_ context.Context, kitVersionID int64) (int, error) {
	if kitVersionID != s.version {
		return 0, s.err
	}
	return len(s.levels), s.err
}

func (s *fakeStore) CountQuestions(_ context.Context, kitVersionID int64) (int, error) {
	if kitVersionID != s.version {
		return 0, s.err
	}
	return s.questions, s.err
}

func (s *fakeStore) CountAttributes(_ context.Context, kitVersionID int64) (int, error) {
	if kitVersionID != s.version {
		return 0, s.err
	}
	return s.attributeCount, s.err
}

func (s *fakeStore) GetUser(_ context.Context, id int64) (*models.User, error) {
	if s.err != nil {
		return nil, s.err
	}
	u, ok := s.users[id]
	if !ok {
		return nil, errors.New("no such user")
	}
	return u, nil
}

func (s *fakeStore) CountSpaceMembers(context.Context, int64) (int, error) {
	return s.members, s.err
}

// fakeCounter records the filters it was asked for
type fakeCounter struct {
	count   models.AssessmentCount
	err     error
	filters []models.AssessmentCountFilter
}

func (c *fakeCounter) CountAssessments(_ context.Context, filter models.AssessmentCountFilter) (*models.AssessmentCount, error) {
	c.filters = append(c.filters, filter)
	if c.err != nil {
		return nil, c.err
	}
	count := c.count
	return &count, nil
}

var fixtureTime = time.Date(2024, 5, 2, 8, 30, 0, 0, time.UTC)

func fixtureKit() *models.AssessmentKit {
	return &models.AssessmentKit{
		ID:                   7,
		Code:                 "iso-25010",
		Title:                "ISO 25010",
		Summary:              "Software product quality",
		About:                "Quality model",
		IsActive:             true,
		IsPrivate:            false,
		CreationTime:         fixtureTime,
		LastModificationDate: fixtureTime.Add(time.Hour),
		ExpertGroupID:        3,
		KitVersionID:         11,
	}
}

func fixtureStore() *fakeStore {
	return &fakeStore{
		version: 11,

		tags: []models.Tag{
			{ID: 1, Code: "sw", Title: "Software"},
			{ID: 2, Code: "q", Title: "Quality"},
			{ID: 3, Code: "sec", Title: "Security"},
		},
		likes:        4,
		group:        &models.ExpertGroup{ID: 3, Name: "Quality Lab", Bio: "bio", About: "about", Picture: "lab.png"},
		coordinators: map[int64]bool{42: true},
		subjects: []models.AssessmentSubject{
			{ID: 100, Title: "Software", Description: "Software subject", Index: 1},
			{ID: 101, Title: "Team", Description: "Team subject", Index: 2},
		},
		attributes: map[int64][]models.QualityAttribute{
			100: {{ID: 200, Title: "Performance", Description: "fast"}, {ID: 201, Title: "Security", Description: "safe"}},
		},
		questionnaires: []models.Questionnaire{
			{ID: 300, Title: "Code", Description: "code quality", Index: 1},
		},
		levels: []models.MaturityLevel{
			{ID: 20, Title: "Weak", Value: 2},
			{ID: 21, Title: "Moderate", Value: 5},
			{ID: 22, Title: "Strong", Value: 9},
		},
		competences: []models.LevelCompetence{
			{ID: 900, MaturityLevelID: 22, TargetLevelID: 21, TargetTitle: "Moderate", Value: 60},
			{ID: 901, MaturityLevelID: 22, TargetLevelID: 22, TargetTitle: "Strong", Value: 100},
		},
		questions:      12,
		attributeCount: 2,
		users:          map[int64]*models.User{42: {ID: 42, DisplayName: "Jane"}},
		members:        3,
	}
}
