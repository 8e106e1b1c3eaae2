package models

// AssessmentCount is the counter payload returned by assessment-core
type AssessmentCount struct {
	TotalCount      int `json:"totalCount"`
	DeletedCount    int `json:"deletedCount"`
	NotDeletedCount int `json:"notDeletedCount"`
}

// AssessmentCountFilter selects which assessments are counted and which
// counters are requested. Exactly one of KitID and SpaceID is expected.
type AssessmentCountFilter struct {
	KitID      int64
	SpaceID    int64
	Total      bool
	Deleted    bool
	NotDeleted bool
}
