package prompt

import (
	"fmt"
	"strings"

	"ai-flashcard-be/internal/entity"
)

const (
	assistantIntro = "You are an expert AI study assistant. Analyze the following study material and convert it into a structured set of flashcards, organized by chapter or main topic."
	cardShape      = "For each flashcard, provide a concise 'question' or 'term' for the front and a clear 'answer' or 'definition' for the back."
)

var studyGoalInstructions = map[string]string{
	entity.StudyGoalExamRevision:   " Focus on key facts, formulas, and quick recall information that would be essential for exam preparation. Prioritize memorization-friendly content.",
	entity.StudyGoalConceptMastery: " Focus on deep understanding, conceptual connections, and comprehensive explanations that help build mastery of the subject.",
	entity.StudyGoalQuickReview:    " Focus on concise summaries, main points, and essential information for quick review sessions. Keep content brief and to the point.",
}

var contentTypeLabels = map[string]string{
	entity.FilterContentFormulas:    "mathematical formulas, equations, and calculations",
	entity.FilterContentDefinitions: "key terms, definitions, and important concepts",
	entity.FilterContentFullDetail:  "comprehensive content with full details",
}

var depthInstructions = map[string]string{
	entity.DepthShort:    " Keep flashcards concise and crisp - essential information only.",
	entity.DepthModerate: " Provide balanced detail - not too brief, not too verbose.",
	entity.DepthInDepth:  " Provide comprehensive and detailed explanations for thorough understanding.",
}

var organizationInstructions = map[string]string{
	entity.OrganizationChapterWise:   " Organize flashcards by chapters or main sections as they appear in the material.",
	entity.OrganizationTopicClusters: " Group related flashcards by topic clusters rather than strict chapter order.",
	entity.OrganizationCustomTags:    " Organize flashcards with meaningful tags and categories based on content type and difficulty.",
}

// IsDefault reports whether the filters carry no customization. Nil counts
// as default.
func IsDefault(filters *entity.Filters) bool {
	return filters.IsDefault()
}

// FlashcardBuilder assembles the generation prompt for one piece of study
// material.
type FlashcardBuilder struct {
	material   string
	filters    *entity.Filters
	totalPages int
}

func NewFlashcardBuilder(material string, filters *entity.Filters, totalPages int) *FlashcardBuilder {
	return &FlashcardBuilder{
		material:   material,
		filters:    filters,
		totalPages: totalPages,
	}
}

// BuildFlashcardPrompt is shorthand for NewFlashcardBuilder(...).Build().
func BuildFlashcardPrompt(material string, filters *entity.Filters, totalPages int) string {
	return NewFlashcardBuilder(material, filters, totalPages).Build()
}

// Build returns the plain template when filters are default, otherwise the
// template with one instruction per customized knob.
func (b *FlashcardBuilder) Build() string {
	var prompt strings.Builder

	if IsDefault(b.filters) {
		prompt.WriteString(assistantIntro)
		prompt.WriteString(" ")
		prompt.WriteString(cardShape)
		b.writeMaterial(&prompt)
		return prompt.String()
	}

	prompt.WriteString(assistantIntro)
	b.writeStudyGoal(&prompt)
	b.writeContentTypes(&prompt)
	b.writeDepth(&prompt)
	b.writeOrganization(&prompt)
	b.writeQuantity(&prompt)
	b.writePageRange(&prompt)

	prompt.WriteString("\n\n")
	prompt.WriteString(cardShape)
	b.writeMaterial(&prompt)

	return prompt.String()
}

func (b *FlashcardBuilder) writeStudyGoal(prompt *strings.Builder) {
	prompt.WriteString(studyGoalInstructions[b.filters.StudyGoal])
}

// writeContentTypes is skipped when full-detail is selected, since it
// already covers everything.
func (b *FlashcardBuilder) writeContentTypes(prompt *strings.Builder) {
	types := b.filters.ContentType
	if len(types) == 0 {
		return
	}
	labels := make([]string, 0, len(types))
	for _, t := range types {
		if t == entity.FilterContentFullDetail {
			return
		}
		if label, ok := contentTypeLabels[t]; ok {
			labels = append(labels, label)
		} else {
			labels = append(labels, t)
		}
	}
	fmt.Fprintf(prompt, " Specifically focus on: %s.", strings.Join(labels, ", "))
}

func (b *FlashcardBuilder) writeDepth(prompt *strings.Builder) {
	prompt.WriteString(depthInstructions[b.filters.Depth])
}

func (b *FlashcardBuilder) writeOrganization(prompt *strings.Builder) {
	prompt.WriteString(organizationInstructions[b.filters.Organization])
}

func (b *FlashcardBuilder) writeQuantity(prompt *strings.Builder) {
	fmt.Fprintf(prompt, " Generate approximately %d flashcards per chapter/topic.", b.filters.LimitPerChapter)
}

func (b *FlashcardBuilder) writePageRange(prompt *strings.Builder) {
	pr := b.filters.PageRange
	if pr == nil {
		return
	}
	fmt.Fprintf(prompt, " Focus on content from pages %d to %d of the material.", pr.From, pr.To)
}

func (b *FlashcardBuilder) writeMaterial(prompt *strings.Builder) {
	prompt.WriteString(" The material is as follows: \n\n---START OF MATERIAL---\n")
	prompt.WriteString(b.material)
	prompt.WriteString("\n---END OF MATERIAL---")
}
