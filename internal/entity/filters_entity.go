package entity

const (
	StudyGoalExamRevision   = "exam-revision"
	StudyGoalConceptMastery = "concept-mastery"
	StudyGoalQuickReview    = "quick-review"

	FilterContentFormulas    = "formulas"
	FilterContentDefinitions = "definitions"
	FilterContentFullDetail  = "full-detail"

	DepthShort    = "short"
	DepthModerate = "moderate"
	DepthInDepth  = "in-depth"

	OrganizationChapterWise   = "chapter-wise"
	OrganizationTopicClusters = "topic-clusters"
	OrganizationCustomTags    = "custom-tags"

	DefaultLimitPerChapter = 15
)

type PageRange struct {
	From int `json:"from" validate:"min=1"`
	To   int `json:"to" validate:"min=1,gtefield=From"`
}

// Filters are the user-selected knobs that shape the generation prompt.
type Filters struct {
	StudyGoal       string     `json:"study_goal" validate:"required,oneof=exam-revision concept-mastery quick-review"`
	ContentType     []string   `json:"content_type" validate:"required,min=1,dive,oneof=formulas definitions full-detail"`
	Depth           string     `json:"depth" validate:"required,oneof=short moderate in-depth"`
	Organization    string     `json:"organization" validate:"required,oneof=chapter-wise topic-clusters custom-tags"`
	LimitPerChapter int        `json:"limit_per_chapter" validate:"min=1,max=50"`
	PageRange       *PageRange `json:"page_range,omitempty" validate:"omitempty"`
}

func DefaultFilters() Filters {
	return Filters{
		StudyGoal:       StudyGoalConceptMastery,
		ContentType:     []string{FilterContentFullDetail},
		Depth:           DepthModerate,
		Organization:    OrganizationChapterWise,
		LimitPerChapter: DefaultLimitPerChapter,
	}
}

// IsDefault reports whether every filter equals its documented default.
// A nil receiver counts as default.
func (f *Filters) IsDefault() bool {
	if f == nil {
		return true
	}
	return f.StudyGoal == StudyGoalConceptMastery &&
		len(f.ContentType) == 1 && f.ContentType[0] == FilterContentFullDetail &&
		f.Depth == DepthModerate &&
		f.Organization == OrganizationChapterWise &&
		f.LimitPerChapter == DefaultLimitPerChapter &&
		f.PageRange == nil
}

// OrDefault returns the filters, or the defaults when nil.
func (f *Filters) OrDefault() Filters {
	if f == nil {
		return DefaultFilters()
	}
	return *f
}
