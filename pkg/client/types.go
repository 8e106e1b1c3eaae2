package client

import (
	"encoding/json"
	"time"
)

// Tag is a kit tag
type Tag struct {
	ID    int64  `json:"id"`
	Code  string `json:"code"`
	Title string `json:"title"`
}

// TagRef is a tag without its code
type TagRef struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
}

// ExpertGroup is the publisher of a kit as shown on the kit page
type ExpertGroup struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Bio   string `json:"bio"`
	About string `json:"about"`
}

// ExpertGroupAvatar is the publisher of a kit as shown in listings
type ExpertGroupAvatar struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

// ExpertGroupRef names an expert group
type ExpertGroupRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Kit is an assessment kit in a listing
type Kit struct {
	ID                 int64             `json:"id"`
	Title              string            `json:"title"`
	Summary            string            `json:"summary"`
	Tags               []Tag             `json:"tags"`
	ExpertGroup        ExpertGroupAvatar `json:"expert_group"`
	LikesNumber        int               `json:"likes_number"`
	NumberOfAssessment int               `json:"number_of_assessment"`
	IsPrivate          bool              `json:"is_private"`
}

// Attribute is a quality attribute of a subject
type Attribute struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Subject is an assessment subject with its attributes
type Subject struct {
	ID          int64       `json:"id"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Attributes  []Attribute `json:"attributes"`
}

// Questionnaire is a questionnaire of a kit
type Questionnaire struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// IndexedMaturityLevel is a maturity level with its 1-based rank
type IndexedMaturityLevel struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
	Value int    `json:"value"`
	Index int    `json:"index"`
}

// KitDetail is the kit page
type KitDetail struct {
	ID                       int64                  `json:"id"`
	Code                     string                 `json:"code"`
	Title                    string                 `json:"title"`
	Summary                  string                 `json:"summary"`
	About                    string                 `json:"about"`
	Tags                     []Tag                  `json:"tags"`
	ExpertGroup              ExpertGroup            `json:"expert_group"`
	CreationTime             time.Time              `json:"creation_time"`
	LastModificationDate     time.Time              `json:"last_modification_date"`
	LikesNumber              int                    `json:"likes_number"`
	NumberOfSubject          int                    `json:"number_of_subject"`
	NumberOfQuestionaries    int                    `json:"number_of_questionaries"`
	NumberOfAssessment       int                    `json:"number_of_assessment"`
	IsActive                 bool                   `json:"is_active"`
	IsPrivate                bool                   `json:"is_private"`
	CurrentUserIsCoordinator bool                   `json:"current_user_is_coordinator"`
	SubjectsWithDesc         []Subject              `json:"subjects_with_desc"`
	Questionnaires           []Questionnaire        `json:"questionnaires"`
	MaturityLevels           []IndexedMaturityLevel `json:"maturity_levels"`
}

// KitInfo is the editable part of a kit
type KitInfo struct {
	ID                       int64    `json:"id"`
	Title                    string   `json:"title"`
	Summary                  string   `json:"summary"`
	IsActive                 bool     `json:"is_active"`
	IsPrivate                bool     `json:"is_private"`
	Price                    int      `json:"price"`
	About                    string   `json:"about"`
	Tags                     []TagRef `json:"tags"`
	CurrentUserIsCoordinator bool     `json:"current_user_is_coordinator"`
}

// SubjectTitle is a subject reduced to its title
type SubjectTitle struct {
	Title string `json:"title"`
}

// KitStatistics summarizes the size and usage of a kit
type KitStatistics struct {
	CreationTime        time.Time      `json:"creation_time"`
	LastUpdateTime      time.Time      `json:"last_update_time"`
	QuestionnairesCount int            `json:"questionnaires_count"`
	AttributesCount     int            `json:"attributes_count"`
	QuestionsCount      int            `json:"questions_count"`
	MaturityLevelsCount int            `json:"maturity_levels_count"`
	LikesCount          int            `json:"likes_count"`
	AssessmentsCount    int            `json:"assessments_count"`
	Subjects            []SubjectTitle `json:"subjects"`
	ExpertGroup         ExpertGroupRef `json:"expert_group"`
}

// KitReportInfo is the kit header of an assessment report
type KitReportInfo struct {
	ID                 int64          `json:"id"`
	Title              string         `json:"title"`
	Summary            string         `json:"summary"`
	MaturityLevelCount int            `json:"maturity_level_count"`
	ExpertGroup        ExpertGroupRef `json:"expert_group"`
}

// IndexedItem is a subject or questionnaire with its position
type IndexedItem struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
	Index int    `json:"index"`
}

// Competence is the value a maturity level requires from its target level
type Competence struct {
	Title           string `json:"title"`
	Value           int    `json:"value"`
	MaturityLevelID int64  `json:"maturity_level_id"`
}

// MaturityLevelCompetences is a maturity level with its competences
type MaturityLevelCompetences struct {
	ID          int64        `json:"id"`
	Title       string       `json:"title"`
	Index       int          `json:"index"`
	Competences []Competence `json:"competences"`
}

// KitDetails is the full structure of a kit
type KitDetails struct {
	Subjects       []IndexedItem              `json:"subjects"`
	Questionnaires []IndexedItem              `json:"questionnaires"`
	MaturityLevels []MaturityLevelCompetences `json:"maturity_levels"`
}

// LevelCompetence is a competence keyed by its target level id
type LevelCompetence struct {
	ID              int64 `json:"id"`
	Value           int   `json:"value"`
	MaturityLevelID int64 `json:"maturity_level_id"`
}

// MaturityLevel is a maturity level with its competences
type MaturityLevel struct {
	ID               int64             `json:"id"`
	Value            int               `json:"value"`
	LevelCompetences []LevelCompetence `json:"level_competences"`
}

// ExpertGroupKit is a kit in an expert group's listing
type ExpertGroupKit struct {
	ID                   int64     `json:"id"`
	Title                string    `json:"title"`
	IsPrivate            bool      `json:"is_private"`
	LastModificationDate time.Time `json:"last_modification_date"`
}

// User is a user reduced to its display name
type User struct {
	ID          int64  `json:"id"`
	DisplayName string `json:"display_name"`
}

// Space is a space in the user's listing
type Space struct {
	ID                   int64     `json:"id"`
	Code                 string    `json:"code"`
	Title                string    `json:"title"`
	LastModificationDate time.Time `json:"last_modification_date"`
	Owner                User      `json:"owner"`
	MembersNumber        int       `json:"members_number"`
	AssessmentNumbers    int       `json:"assessment_numbers"`
}

// SpaceRef identifies a space
type SpaceRef struct {
	ID    int64  `json:"id"`
	Code  string `json:"code"`
	Title string `json:"title"`
}

// MemberResult is assessment-core's answer to a member or invite request.
// Body is null on success and the remote error payload otherwise.
type MemberResult struct {
	Success    bool            `json:"success"`
	Body       json.RawMessage `json:"body"`
	StatusCode int             `json:"status_code"`
}
