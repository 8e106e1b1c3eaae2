package api

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/flickit-platform/assessment-api/internal/config"
	"github.com/flickit-platform/assessment-api/internal/health"
	"github.com/flickit-platform/assessment-api/internal/membership"
	"github.com/flickit-platform/assessment-api/internal/models"
	"github.com/flickit-platform/assessment-api/internal/projection"
	"github.com/flickit-platform/assessment-api/internal/storage"
)

const testSecret = "test-secret"

// fakeRepo is an in-memory storage.Repository
type fakeRepo struct {
	kits         map[int64]*models.AssessmentKit
	groups       map[int64]*models.ExpertGroup
	spaces       map[int64]*models.Space
	users        map[int64]*models.User
	memberships  map[int64][]int64
	coordinators map[int64][]int64

	lastKitFilters models.KitListFilters
	err            error
}

var _ storage.Repository = (*fakeRepo)(nil)

func newFakeRepo() *fakeRepo {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	return &fakeRepo{
		kits: map[int64]*models.AssessmentKit{
			7: {ID: 7, Code: "iso", Title: "ISO 25010", IsActive: true, ExpertGroupID: 3, KitVersionID: 11, CreationTime: now, LastModificationDate: now},
			8: {ID: 8, Code: "devops", Title: "DevOps", IsPrivate: true, ExpertGroupID: 3, KitVersionID: 12, CreationTime: now, LastModificationDate: now},
		},
		groups: map[int64]*models.ExpertGroup{3: {ID: 3, Name: "Quality Lab"}},
		spaces: map[int64]*models.Space{5: {ID: 5, Code: "team", Title: "Team", OwnerID: 42, LastModificationDate: now}},
		users: map[int64]*models.User{
			42: {ID: 42, Email: "owner@example.com", DisplayName: "Owner", IsActive: true},
			43: {ID: 43, Email: "member@example.com", DisplayName: "Member", IsActive: true},
			44: {ID: 44, Email: "gone@example.com", DisplayName: "Gone", IsActive: false},
		},
		memberships:  map[int64][]int64{42: {5}},
		coordinators: map[int64][]int64{3: {42}},
	}
}

func (f *fakeRepo) GetKit(_ context.Context, id int64) (*models.AssessmentKit, error) {
	if f.err != nil {
		return nil, f.err
	}
	kit, ok := f.kits[id]
	if !ok {
		return nil, fmt.Errorf("assessment kit %d: %w", id, storage.ErrNotFound)
	}
	return kit, nil
}

func (f *fakeRepo) ListKits(_ context.Context, filters models.KitListFilters) ([]*models.AssessmentKit, error) {
	f.lastKitFilters = filters
	if f.err != nil {
		return nil, f.err
	}
	var kits []*models.AssessmentKit
	for _, id := range []int64{7, 8} {
		kit, ok := f.kits[id]
		if !ok {
			continue
		}
		if filters.ExpertGroupID != 0 && kit.ExpertGroupID != filters.ExpertGroupID {
			continue
		}
		kits = append(kits, kit)
	}
	return kits, nil
}

func (f *fakeRepo) KitTags(context.Context, int64) ([]models.Tag, error) {
	return []models.Tag{{ID: 1, Code: "q", Title: "Quality"}}, nil
}

func (f *fakeRepo) CountKitLikes(context.Context, int64) (int, error) { return 2, nil }

func (f *fakeRepo) GetExpertGroup(_ context.Context, id int64) (*models.ExpertGroup, error) {
	group, ok := f.groups[id]
	if !ok {
		return nil, fmt.Errorf("expert group %d: %w", id, storage.ErrNotFound)
	}
	return group, nil
}

func (f *fakeRepo) IsCoordinator(_ context.Context, expertGroupID, userID int64) (bool, error) {
	for _, id := range f.coordinators[expertGroupID] {
		if id == userID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeRepo) ListSubjects(context.Context, int64) ([]models.AssessmentSubject, error) {
	return []models.AssessmentSubject{{ID: 100, Title: "Software", Index: 1}}, nil
}

func (f *fakeRepo) SubjectAttributes(context.Context, []int64) (map[int64][]models.QualityAttribute, error) {
	return map[int64][]models.QualityAttribute{100: {{ID: 200, Title: "Performance"}}}, nil
}

func (f *fakeRepo) ListQuestionnaires(context.Context, int64) ([]models.Questionnaire, error) {
	return []models.Questionnaire{{ID: 300, Title: "Code", Index: 1}}, nil
}

func (f *fakeRepo) ListMaturityLevels(context.Context, int64) ([]models.MaturityLevel, error) {
	return []models.MaturityLevel{{ID: 20, Title: "Weak", Value: 1}, {ID: 21, Title: "Strong", Value: 3}}, nil
}

func (f *fakeRepo) ListLevelCompetences(context.Context, int64) ([]models.LevelCompetence, error) {
	return []models.LevelCompetence{{ID: 900, MaturityLevelID: 21, TargetLevelID: 20, TargetTitle: "Weak", Value: 80}}, nil
}

func (f *fakeRepo) CountQuestionnaires(context.Context, int64) (int, error) { return 1, nil }
func (f *fakeRepo) CountMaturityLevels(context.Context, int64) (int, error) { return 2, nil }
func (f *fakeRepo) CountQuestions(context.Context, int64) (int, error) { return 10, nil }
func (f *fakeRepo) CountAttributes(context.Context, int64) (int, error) { return 1, nil }

func (f *fakeRepo) GetSpace(_ context.Context, id int64) (*models.Space, error) {
	space, ok := f.spaces[id]
	if !ok {
		return nil, fmt.Errorf("space %d: %w", id, storage.ErrNotFound)
	}
	return space, nil
}

func (f *fakeRepo) ListSpacesForUser(_ context.Context, userID int64, _, _ int) ([]*models.Space, error) {
	var spaces []*models.Space
	for _, id := range f.memberships[userID] {
		spaces = append(spaces, f.spaces[id])
	}
	return spaces, nil
}

func (f *fakeRepo) CountSpaceMembers(context.Context, int64) (int, error) { return 2, nil }

func (f *fakeRepo) GetUser(_ context.Context, id int64) (*models.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, fmt.Errorf("user %d: %w", id, storage.ErrNotFound)
	}
	return user, nil
}

func (f *fakeRepo) FindUserByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range f.users {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return nil, nil
}

func (f *fakeRepo) Ping(context.Context) error { return f.err }
func (f *fakeRepo) Close() error { return nil }

// fakeCounter returns the same counters for every filter
type fakeCounter struct{}

func (fakeCounter) CountAssessments(context.Context, models.AssessmentCountFilter) (*models.AssessmentCount, error) {
	return &models.AssessmentCount{TotalCount: 6, DeletedCount: 2, NotDeletedCount: 4}, nil
}

type memberCallRecord struct {
	op            string
	spaceID       int64
	authorization string
	body          string
}

// fakeMembers replays a fixed assessment-core outcome
type fakeMembers struct {
	result *membership.Result
	err    error
	calls  []memberCallRecord
}

func (f *fakeMembers) AddMember(_ context.Context, spaceID int64, authorization string, body json.RawMessage) (*membership.Result, error) {
	return f.record("members", spaceID, authorization, body)
}

func (f *fakeMembers) InviteMember(_ context.Context, spaceID int64, authorization string, body json.RawMessage) (*membership.Result, error) {
	return f.record("invite", spaceID, authorization, body)
}

func (f *fakeMembers) record(op string, spaceID int64, authorization string, body json.RawMessage) (*membership.Result, error) {
	f.calls = append(f.calls, memberCallRecord{op: op, spaceID: spaceID, authorization: authorization, body: string(body)})
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

type testServer struct {
	*Server
	store *fakeRepo
	proxy *fakeMembers
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	repo := newFakeRepo()
	members := &fakeMembers{result: &membership.Result{Success: true, StatusCode: 200}}

	registry := health.NewRegistry(time.Second)
	registry.Register("database", health.CheckerFunc(repo.Ping))

	srv := NewServer(config.ServerConfig{}, Dependencies{
		Repo:      repo,
		Projector: projection.New(repo, fakeCounter{}),
		Members:   members,
		Health:    registry,
		JWTSecret: testSecret,
	})

	return &testServer{Server: srv, store: repo, proxy: members}
}

func signToken(t *testing.T, userID int64) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	signed, err := token.SignedString([]byte(testSecret))
	require.NoError(t, err)
	return signed
}
