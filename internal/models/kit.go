package models

import "time"

// Tag labels an assessment kit
type Tag struct {
	ID    int64  `json:"id"`
	Code  string `json:"code"`
	Title string `json:"title"`
}

// ExpertGroup owns and maintains assessment kits
type ExpertGroup struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Bio     string `json:"bio"`
	About   string `json:"about"`
	Picture string `json:"picture,omitempty"`
	Website string `json:"website,omitempty"`
}

// AssessmentKit is a published questionnaire model. Its subjects,
// questionnaires and maturity levels belong to KitVersionID.
type AssessmentKit struct {
	ID                   int64     `json:"id"`
	Code                 string    `json:"code"`
	Title                string    `json:"title"`
	Summary              string    `json:"summary"`
	About                string    `json:"about"`
	IsActive             bool      `json:"is_active"`
	IsPrivate            bool      `json:"is_private"`
	CreationTime         time.Time `json:"creation_time"`
	LastModificationDate time.Time `json:"last_modification_date"`
	ExpertGroupID        int64     `json:"expert_group_id"`
	KitVersionID         int64     `json:"kit_version_id"`
}

// AssessmentSubject groups quality attributes within a kit version
type AssessmentSubject struct {
	ID           int64
	Code         string
	Title        string
	Description  string
	Index        int
	KitVersionID int64
}

// QualityAttribute is attached to subjects through a many-to-many link
type QualityAttribute struct {
	ID           int64
	Code         string
	Title        string
	Description  string
	Index        int
	KitVersionID int64
}

// Questionnaire groups questions within a kit version
type Questionnaire struct {
	ID           int64
	Code         string
	Title        string
	Description  string
	Index        int
	KitVersionID int64
}

// MaturityLevel is ordered by Value within a kit version
type MaturityLevel struct {
	ID           int64
	Code         string
	Title        string
	Value        int
	KitVersionID int64
}

// LevelCompetence is a directed edge from the level it belongs to
// (MaturityLevelID) to a target level. TargetTitle is resolved from the
// target level, never from the owning one.
type LevelCompetence struct {
	ID              int64
	MaturityLevelID int64
	TargetLevelID   int64
	TargetTitle     string
	Value           int
}

// KitListFilters defines filters for listing kits
type KitListFilters struct {
	ExpertGroupID int64
	Limit         int
	Offset        int
}
