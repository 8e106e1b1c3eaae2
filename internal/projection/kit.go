package projection

import (
	"context"
	"fmt"
	"time"

	"github.com/flickit-platform/assessment-api/internal/models"
)

// TagResponse is the full tag shape
type TagResponse struct {
	ID    int64  `json:"id"`
	Code  string `json:"code"`
	Title string `json:"title"`
}

// SimpleTagResponse is the tag shape of the editable-info view
type SimpleTagResponse struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
}

// ExpertGroupResponse is the expert group shape of the detail view
type ExpertGroupResponse struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Bio   string `json:"bio"`
	About string `json:"about"`
}

// ExpertGroupAvatarResponse is the expert group shape of the list view
type ExpertGroupAvatarResponse struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

// ExpertGroupRefResponse identifies an expert group by id and name
type ExpertGroupRefResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// --- List view ---

// KitListResponse is one entry of the kit list
type KitListResponse struct {
	ID                 int64                     `json:"id"`
	Title              string                    `json:"title"`
	Summary            string                    `json:"summary"`
	Tags               []TagResponse             `json:"tags"`
	ExpertGroup        ExpertGroupAvatarResponse `json:"expert_group"`
	LikesNumber        int                       `json:"likes_number"`
	NumberOfAssessment int                       `json:"number_of_assessment"`
	IsPrivate          bool                      `json:"is_private"`
}

// KitList projects a kit into the list view. number_of_assessment counts
// only assessments that are not deleted.
func (p *Projector) KitList(ctx context.Context, kit *models.AssessmentKit) (*KitListResponse, error) {
	tags, err := p.tags(ctx, kit.ID)
	if err != nil {
		return nil, err
	}

	group, err := p.expertGroup(ctx, kit)
	if err != nil {
		return nil, err
	}

	likes, err := p.likes(ctx, kit.ID)
	if err != nil {
		return nil, err
	}

	assessments, err := p.notDeletedKitAssessments(ctx, kit.ID)
	if err != nil {
		return nil, err
	}

	return &KitListResponse{
		ID:      kit.ID,
		Title:   kit.Title,
		Summary: kit.Summary,
		Tags:    tags,
		ExpertGroup: ExpertGroupAvatarResponse{
			ID:      group.ID,
			Name:    group.Name,
			Picture: group.Picture,
		},
		LikesNumber:        likes,
		NumberOfAssessment: assessments,
		IsPrivate:          kit.IsPrivate,
	}, nil
}

// --- Detail view ---

// AttributeResponse is a quality attribute nested under a subject
type AttributeResponse struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// SubjectWithDescResponse is a subject with its attributes
type SubjectWithDescResponse struct {
	ID          int64               `json:"id"`
	Title       string              `json:"title"`
	Description string              `json:"description"`
	Attributes  []AttributeResponse `json:"attributes"`
}

// QuestionnaireDescResponse is a questionnaire of the detail view
type QuestionnaireDescResponse struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// IndexedMaturityLevelResponse carries both the stored value and the 1-based
// position of the level in value order.
type IndexedMaturityLevelResponse struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
	Value int    `json:"value"`
	Index int    `json:"index"`
}

// KitDetailResponse is the kit detail view
type KitDetailResponse struct {
	ID                       int64                          `json:"id"`
	Code                     string                         `json:"code"`
	Title                    string                         `json:"title"`
	Summary                  string                         `json:"summary"`
	About                    string                         `json:"about"`
	Tags                     []TagResponse                  `json:"tags"`
	ExpertGroup              ExpertGroupResponse            `json:"expert_group"`
	CreationTime             time.Time                      `json:"creation_time"`
	LastModificationDate     time.Time                      `json:"last_modification_date"`
	LikesNumber              int                            `json:"likes_number"`
	NumberOfSubject          int                            `json:"number_of_subject"`
	NumberOfQuestionaries    int                            `json:"number_of_questionaries"`
	NumberOfAssessment       int                            `json:"number_of_assessment"`
	IsActive                 bool                           `json:"is_active"`
	IsPrivate                bool                           `json:"is_private"`
	CurrentUserIsCoordinator bool                           `json:"current_user_is_coordinator"`
	SubjectsWithDesc         []SubjectWithDescResponse      `json:"subjects_with_desc"`
	Questionnaires           []QuestionnaireDescResponse    `json:"questionnaires"`
	MaturityLevels           []IndexedMaturityLevelResponse `json:"maturity_levels"`
}

// KitDetail projects a kit into the detail view for the current user
func (p *Projector) KitDetail(ctx context.Context, kit *models.AssessmentKit, vc ViewContext) (*KitDetailResponse, error) {
	tags, err := p.tags(ctx, kit.ID)
	if err != nil {
		return nil, err
	}

	group, err := p.expertGroup(ctx, kit)
	if err != nil {
		return nil, err
	}

	likes, err := p.likes(ctx, kit.ID)
	if err != nil {
		return nil, err
	}

	assessments, err := p.totalKitAssessments(ctx, kit.ID)
	if err != nil {
		return nil, err
	}

	coordinator, err := p.isCoordinator(ctx, kit, vc)
	if err != nil {
		return nil, err
	}

	subjects, err := p.subjectsWithDesc(ctx, kit.KitVersionID)
	if err != nil {
		return nil, err
	}

	questionnaires, err := p.store.ListQuestionnaires(ctx, kit.KitVersionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load questionnaires: %w", err)
	}
	questionnaireViews := make([]QuestionnaireDescResponse, 0, len(questionnaires))
	for _, q := range questionnaires {
		questionnaireViews = append(questionnaireViews, QuestionnaireDescResponse{
			ID:          q.ID,
			Title:       q.Title,
			Description: q.Description,
		})
	}

	levels, err := p.store.ListMaturityLevels(ctx, kit.KitVersionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load maturity levels: %w", err)
	}
	levelViews := make([]IndexedMaturityLevelResponse, 0, len(levels))
	for i, ml := range levels {
		levelViews = append(levelViews, IndexedMaturityLevelResponse{
			ID:    ml.ID,
			Title: ml.Title,
			Value: ml.Value,
			Index: i + 1,
		})
	}

	return &KitDetailResponse{
		ID:                       kit.ID,
		Code:                     kit.Code,
		Title:                    kit.Title,
		Summary:                  kit.Summary,
		About:                    kit.About,
		Tags:                     tags,
		ExpertGroup:              ExpertGroupResponse{ID: group.ID, Name: group.Name, Bio: group.Bio, About: group.About},
		CreationTime:             kit.CreationTime,
		LastModificationDate:     kit.LastModificationDate,
		LikesNumber:              likes,
		NumberOfSubject:          len(subjects),
		NumberOfQuestionaries:    len(questionnaireViews),
		NumberOfAssessment:       assessments,
		IsActive:                 kit.IsActive,
		IsPrivate:                kit.IsPrivate,
		CurrentUserIsCoordinator: coordinator,
		SubjectsWithDesc:         subjects,
		Questionnaires:           questionnaireViews,
		MaturityLevels:           levelViews,
	}, nil
}

// subjectsWithDesc loads the version's subjects and, in one batched query,
// the attributes of all of them.
func (p *Projector) subjectsWithDesc(ctx context.Context, kitVersionID int64) ([]SubjectWithDescResponse, error) {
	subjects, err := p.store.ListSubjects(ctx, kitVersionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load subjects: %w", err)
	}

	ids := make([]int64, 0, len(subjects))
	for _, s := range subjects {
		ids = append(ids, s.ID)
	}

	attributes, err := p.store.SubjectAttributes(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load subject attributes: %w", err)
	}

	views := make([]SubjectWithDescResponse, 0, len(subjects))
	for _, s := range subjects {
		attrs := make([]AttributeResponse, 0, len(attributes[s.ID]))
		for _, qa := range attributes[s.ID] {
			attrs = append(attrs, AttributeResponse{ID: qa.ID, Title: qa.Title, Description: qa.Description})
		}
		views = append(views, SubjectWithDescResponse{
			ID:          s.ID,
			Title:       s.Title,
			Description: s.Description,
			Attributes:  attrs,
		})
	}

	return views, nil
}

// --- Editable-info view ---

// KitEditableInfoResponse is what an editor sees before changing a kit
type KitEditableInfoResponse struct {
	ID                       int64               `json:"id"`
	Title                    string              `json:"title"`
	Summary                  string              `json:"summary"`
	IsActive                 bool                `json:"is_active"`
	IsPrivate                bool                `json:"is_private"`
	Price                    int                 `json:"price"`
	About                    string              `json:"about"`
	Tags                     []SimpleTagResponse `json:"tags"`
	CurrentUserIsCoordinator bool                `json:"current_user_is_coordinator"`
}

// KitEditableInfo projects a kit into the editable-info view. Kits have no
// pricing, so Price is always zero.
func (p *Projector) KitEditableInfo(ctx context.Context, kit *models.AssessmentKit, vc ViewContext) (*KitEditableInfoResponse, error) {
	tags, err := p.store.KitTags(ctx, kit.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load kit tags: %w", err)
	}
	simple := make([]SimpleTagResponse, 0, len(tags))
	for _, t := range tags {
		simple = append(simple, SimpleTagResponse{ID: t.ID, Title: t.Title})
	}

	coordinator, err := p.isCoordinator(ctx, kit, vc)
	if err != nil {
		return nil, err
	}

	return &KitEditableInfoResponse{
		ID:                       kit.ID,
		Title:                    kit.Title,
		Summary:                  kit.Summary,
		IsActive:                 kit.IsActive,
		IsPrivate:                kit.IsPrivate,
		Price:                    0,
		About:                    kit.About,
		Tags:                     simple,
		CurrentUserIsCoordinator: coordinator,
	}, nil
}

// --- Statistics view ---

// SubjectTitleResponse is a subject reduced to its title
type SubjectTitleResponse struct {
	Title string `json:"title"`
}

// KitStatisticsResponse summarizes the size and usage of a kit
type KitStatisticsResponse struct {
	CreationTime        time.Time              `json:"creation_time"`
	LastUpdateTime      time.Time              `json:"last_update_time"`
	QuestionnairesCount int                    `json:"questionnaires_count"`
	AttributesCount     int                    `json:"attributes_count"`
	QuestionsCount      int                    `json:"questions_count"`
	MaturityLevelsCount int                    `json:"maturity_levels_count"`
	LikesCount          int                    `json:"likes_count"`
	AssessmentsCount    int                    `json:"assessments_count"`
	Subjects            []SubjectTitleResponse `json:"subjects"`
	ExpertGroup         ExpertGroupRefResponse `json:"expert_group"`
}

// KitStatistics projects a kit into the statistics view. assessments_count
// includes deleted assessments.
func (p *Projector) KitStatistics(ctx context.Context, kit *models.AssessmentKit) (*KitStatisticsResponse, error) {
	version := kit.KitVersionID

	questionnaires, err := p.store.CountQuestionnaires(ctx, version)
	if err != nil {
		return nil, fmt.Errorf("failed to count questionnaires: %w", err)
	}

	attributes, err := p.store.CountAttributes(ctx, version)
	if err != nil {
		return nil, fmt.Errorf("failed to count attributes: %w", err)
	}

	questions, err := p.store.CountQuestions(ctx, version)
	if err != nil {
		return nil, fmt.Errorf("failed to count questions: %w", err)
	}

	levels, err := p.store.CountMaturityLevels(ctx, version)
	if err != nil {
		return nil, fmt.Errorf("failed to count maturity levels: %w", err)
	}

	likes, err := p.likes(ctx, kit.ID)
	if err != nil {
		return nil, err
	}

	assessments, err := p.totalKitAssessments(ctx, kit.ID)
	if err != nil {
		return nil, err
	}

	subjects, err := p.store.ListSubjects(ctx, version)
	if err != nil {
		return nil, fmt.Errorf("failed to load subjects: %w", err)
	}
	titles := make([]SubjectTitleResponse, 0, len(subjects))
	for _, s := range subjects {
		titles = append(titles, SubjectTitleResponse{Title: s.Title})
	}

	group, err := p.expertGroup(ctx, kit)
	if err != nil {
		return nil, err
	}

	return &KitStatisticsResponse{
		CreationTime:        kit.CreationTime,
		LastUpdateTime:      kit.LastModificationDate,
		QuestionnairesCount: questionnaires,
		AttributesCount:     attributes,
		QuestionsCount:      questions,
		MaturityLevelsCount: levels,
		LikesCount:          likes,
		AssessmentsCount:    assessments,
		Subjects:            titles,
		ExpertGroup:         ExpertGroupRefResponse{ID: group.ID, Name: group.Name},
	}, nil
}

// --- Report-detail view ---

// KitReportDetailResponse is the kit header shown on assessment reports
type KitReportDetailResponse struct {
	ID                 int64                  `json:"id"`
	Title              string                 `json:"title"`
	Summary            string                 `json:"summary"`
	MaturityLevelCount int                    `json:"maturity_level_count"`
	ExpertGroup        ExpertGroupRefResponse `json:"expert_group"`
}

// KitReportDetail projects a kit into the report-detail view
func (p *Projector) KitReportDetail(ctx context.Context, kit *models.AssessmentKit) (*KitReportDetailResponse, error) {
	levels, err := p.store.CountMaturityLevels(ctx, kit.KitVersionID)
	if err != nil {
		return nil, fmt.Errorf("failed to count maturity levels: %w", err)
	}

	group, err := p.expertGroup(ctx, kit)
	if err != nil {
		return nil, err
	}

	return &KitReportDetailResponse{
		ID:                 kit.ID,
		Title:              kit.Title,
		Summary:            kit.Summary,
		MaturityLevelCount: levels,
		ExpertGroup:        ExpertGroupRefResponse{ID: group.ID, Name: group.Name},
	}, nil
}

// --- Full-detail view ---

// IndexedItemResponse is a subject or questionnaire with its stored index
type IndexedItemResponse struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
	Index int    `json:"index"`
}

// CompetenceResponse describes the target level of a competence
type CompetenceResponse struct {
	Title           string `json:"title"`
	Value           int    `json:"value"`
	MaturityLevelID int64  `json:"maturity_level_id"`
}

// MaturityLevelCompetencesResponse is a level with its competences. Index is
// the stored value of the level.
type MaturityLevelCompetencesResponse struct {
	ID          int64                `json:"id"`
	Title       string               `json:"title"`
	Index       int                  `json:"index"`
	Competences []CompetenceResponse `json:"competences"`
}

// KitFullDetailResponse is the structure of a kit version
type KitFullDetailResponse struct {
	Subjects       []IndexedItemResponse              `json:"subjects"`
	Questionnaires []IndexedItemResponse              `json:"questionnaires"`
	MaturityLevels []MaturityLevelCompetencesResponse `json:"maturity_levels"`
}

// KitFullDetail projects a kit into the full-detail view
func (p *Projector) KitFullDetail(ctx context.Context, kit *models.AssessmentKit) (*KitFullDetailResponse, error) {
	version := kit.KitVersionID

	subjects, err := p.store.ListSubjects(ctx, version)
	if err != nil {
		return nil, fmt.Errorf("failed to load subjects: %w", err)
	}
	subjectViews := make([]IndexedItemResponse, 0, len(subjects))
	for _, s := range subjects {
		subjectViews = append(subjectViews, IndexedItemResponse{ID: s.ID, Title: s.Title, Index: s.Index})
	}

	questionnaires, err := p.store.ListQuestionnaires(ctx, version)
	if err != nil {
		return nil, fmt.Errorf("failed to load questionnaires: %w", err)
	}
	questionnaireViews := make([]IndexedItemResponse, 0, len(questionnaires))
	for _, q := range questionnaires {
		questionnaireViews = append(questionnaireViews, IndexedItemResponse{ID: q.ID, Title: q.Title, Index: q.Index})
	}

	levels, competences, err := p.levelsWithCompetences(ctx, version)
	if err != nil {
		return nil, err
	}

	levelViews := make([]MaturityLevelCompetencesResponse, 0, len(levels))
	for _, ml := range levels {
		views := make([]CompetenceResponse, 0, len(competences[ml.ID]))
		for _, lc := range competences[ml.ID] {
			views = append(views, CompetenceResponse{
				Title:           lc.TargetTitle,
				Value:           lc.Value,
				MaturityLevelID: lc.TargetLevelID,
			})
		}
		levelViews = append(levelViews, MaturityLevelCompetencesResponse{
			ID:          ml.ID,
			Title:       ml.Title,
			Index:       ml.Value,
			Competences: views,
		})
	}

	return &KitFullDetailResponse{
		Subjects:       subjectViews,
		Questionnaires: questionnaireViews,
		MaturityLevels: levelViews,
	}, nil
}

// --- Maturity-level competence view ---

// LevelCompetenceSimpleResponse references the target level by id only
type LevelCompetenceSimpleResponse struct {
	ID              int64 `json:"id"`
	Value           int   `json:"value"`
	MaturityLevelID int64 `json:"maturity_level_id"`
}

// MaturityLevelSimpleResponse is a level with its competence edges
type MaturityLevelSimpleResponse struct {
	ID               int64                           `json:"id"`
	Value            int                             `json:"value"`
	LevelCompetences []LevelCompetenceSimpleResponse `json:"level_competences"`
}

// KitMaturityLevels lists the version's levels with their competence edges
func (p *Projector) KitMaturityLevels(ctx context.Context, kit *models.AssessmentKit) ([]MaturityLevelSimpleResponse, error) {
	levels, competences, err := p.levelsWithCompetences(ctx, kit.KitVersionID)
	if err != nil {
		return nil, err
	}

	views := make([]MaturityLevelSimpleResponse, 0, len(levels))
	for _, ml := range levels {
		edges := make([]LevelCompetenceSimpleResponse, 0, len(competences[ml.ID]))
		for _, lc := range competences[ml.ID] {
			edges = append(edges, LevelCompetenceSimpleResponse{
				ID:              lc.ID,
				Value:           lc.Value,
				MaturityLevelID: lc.TargetLevelID,
			})
		}
		views = append(views, MaturityLevelSimpleResponse{ID: ml.ID, Value: ml.Value, LevelCompetences: edges})
	}

	return views, nil
}

// --- Expert-group kit view ---

// KitForExpertGroupResponse is a kit as listed on its expert group's page
type KitForExpertGroupResponse struct {
	ID                   int64     `json:"id"`
	Title                string    `json:"title"`
	IsPrivate            bool      `json:"is_private"`
	LastModificationDate time.Time `json:"last_modification_date"`
}

// KitForExpertGroup projects a kit into the expert-group listing
func KitForExpertGroup(kit *models.AssessmentKit) KitForExpertGroupResponse {
	return KitForExpertGroupResponse{
		ID:                   kit.ID,
		Title:                kit.Title,
		IsPrivate:            kit.IsPrivate,
		LastModificationDate: kit.LastModificationDate,
	}
}

// --- shared lookups ---

func (p *Projector) tags(ctx context.Context, kitID int64) ([]TagResponse, error) {
	tags, err := p.store.KitTags(ctx, kitID)
	if err != nil {
		return nil, fmt.Errorf("failed to load kit tags: %w", err)
	}

	views := make([]TagResponse, 0, len(tags))
	for _, t := range tags {
		views = append(views, TagResponse{ID: t.ID, Code: t.Code, Title: t.Title})
	}
	return views, nil
}

func (p *Projector) expertGroup(ctx context.Context, kit *models.AssessmentKit) (*models.ExpertGroup, error) {
	group, err := p.store.GetExpertGroup(ctx, kit.ExpertGroupID)
	if err != nil {
		return nil, fmt.Errorf("failed to load expert group: %w", err)
	}
	return group, nil
}

func (p *Projector) likes(ctx context.Context, kitID int64) (int, error) {
	n, err := p.store.CountKitLikes(ctx, kitID)
	if err != nil {
		return 0, fmt.Errorf("failed to count kit likes: %w", err)
	}
	return n, nil
}

// levelsWithCompetences returns the version's levels in value order and their
// competences grouped by owning level id.
func (p *Projector) levelsWithCompetences(ctx context.Context, kitVersionID int64) ([]models.MaturityLevel, map[int64][]models.LevelCompetence, error) {
	levels, err := p.store.ListMaturityLevels(ctx, kitVersionID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load maturity levels: %w", err)
	}

	competences, err := p.store.ListLevelCompetences(ctx, kitVersionID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load level competences: %w", err)
	}

	byLevel := make(map[int64][]models.LevelCompetence, len(levels))
	for _, lc := range competences {
		byLevel[lc.MaturityLevelID] = append(byLevel[lc.MaturityLevelID], lc)
	}

	return levels, byLevel, nil
}
