package extract

import (
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// Target describes one extraction target: its JSON schema document (embedded
// in the prompt and used to validate the model's output) and the default
// value returned whenever extraction fails. Defaults are typed placeholders,
// never nil, so downstream consumers never branch on absence.
type Target[T any] struct {
	Name    string
	Default func() T

	schemaJSON string
	compiled   *jsonschema.Schema
}

// newTarget builds a Target, compiling its schema document. Panics on an
// invalid document; all documents are package constants.
func newTarget[T any](name string, doc map[string]any, def func() T) Target[T] {
	raw, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		panic(fmt.Sprintf("marshal %s schema: %v", name, err))
	}
	return Target[T]{
		Name:       name,
		Default:    def,
		schemaJSON: string(raw),
		compiled:   jsonschema.MustCompileString(name+".json", string(raw)),
	}
}

// SchemaJSON returns the schema document embedded in prompts.
func (t Target[T]) SchemaJSON() string {
	return t.schemaJSON
}

// Validate checks parsed JSON against the target schema.
func (t Target[T]) Validate(parsed map[string]any) error {
	if err := t.compiled.Validate(parsed); err != nil {
		return &ValidationError{Target: t.Name, Err: err}
	}
	return nil
}

// Decode converts validated JSON into a typed record.
func (t Target[T]) Decode(parsed map[string]any) (T, error) {
	var out T
	raw, err := json.Marshal(parsed)
	if err != nil {
		return out, &ValidationError{Target: t.Name, Err: err}
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return out, &ValidationError{Target: t.Name, Err: err}
	}
	return out, nil
}

// TitleAuthorsAbstract is the bibliographic header of a paper.
type TitleAuthorsAbstract struct {
	Title       string   `json:"title"`
	Authors     []string `json:"authors"`
	Abstract    string   `json:"abstract"`
	PublishDate *string  `json:"publish_date"`
}

// InstitutionsKeywords lists affiliated institutions and subject keywords.
type InstitutionsKeywords struct {
	Institutions []string `json:"institutions"`
	Keywords     []string `json:"keywords"`
}

// SummaryCitations is a prose summary with supporting quotes from the paper.
type SummaryCitations struct {
	Summary          string   `json:"summary"`
	SummaryCitations []string `json:"summary_citations"`
}

// StarterQuestions are suggested questions a reader could ask about the paper.
type StarterQuestions struct {
	StarterQuestions []string `json:"starter_questions"`
}

// Highlights are the most notable findings or claims in the paper.
type Highlights struct {
	Highlights []string `json:"highlights"`
}

var targetTitleAuthorsAbstract = newTarget("title_authors_abstract", map[string]any{
	"type": "object",
	"properties": map[string]any{
		"title": map[string]any{
			"type":        "string",
			"description": "Title of the paper",
		},
		"authors": map[string]any{
			"type":        "array",
			"items":       map[string]any{"type": "string"},
			"description": "List of authors",
		},
		"abstract": map[string]any{
			"type":        "string",
			"description": "Abstract of the paper",
		},
		"publish_date": map[string]any{
			"type":        []string{"string", "null"},
			"description": "Publishing date of the paper (YYYY-MM-DD if known)",
		},
	},
	"required": []string{"title", "authors", "abstract"},
}, func() TitleAuthorsAbstract {
	return TitleAuthorsAbstract{Authors: []string{}}
})

var targetInstitutionsKeywords = newTarget("institutions_keywords", map[string]any{
	"type": "object",
	"properties": map[string]any{
		"institutions": map[string]any{
			"type":        "array",
			"items":       map[string]any{"type": "string"},
			"description": "List of institutions the authors are affiliated with",
		},
		"keywords": map[string]any{
			"type":        "array",
			"items":       map[string]any{"type": "string"},
			"description": "Subject keywords/topics",
		},
	},
	"required": []string{"institutions", "keywords"},
}, func() InstitutionsKeywords {
	return InstitutionsKeywords{Institutions: []string{}, Keywords: []string{}}
})

var targetSummaryCitations = newTarget("summary_citations", map[string]any{
	"type": "object",
	"properties": map[string]any{
		"summary": map[string]any{
			"type":        "string",
			"description": "Concise summary of the paper",
		},
		"summary_citations": map[string]any{
			"type":        "array",
			"items":       map[string]any{"type": "string"},
			"description": "Exact quotes from the paper supporting the summary",
		},
	},
	"required": []string{"summary", "summary_citations"},
}, func() SummaryCitations {
	return SummaryCitations{SummaryCitations: []string{}}
})

var targetStarterQuestions = newTarget("starter_questions", map[string]any{
	"type": "object",
	"properties": map[string]any{
		"starter_questions": map[string]any{
			"type":        "array",
			"items":       map[string]any{"type": "string"},
			"description": "Useful starter questions that can be asked about the paper",
		},
	},
	"required": []string{"starter_questions"},
}, func() StarterQuestions {
	return StarterQuestions{StarterQuestions: []string{}}
})

var targetHighlights = newTarget("highlights", map[string]any{
	"type": "object",
	"properties": map[string]any{
		"highlights": map[string]any{
			"type":        "array",
			"items":       map[string]any{"type": "string"},
			"description": "The most notable findings or claims, as short passages from the paper",
		},
	},
	"required": []string{"highlights"},
}, func() Highlights {
	return Highlights{Highlights: []string{}}
})

// PaperMetadata is the aggregate record returned to callers, flattened from
// the five per-target results. Every field is always populated, possibly with
// a target default.
type PaperMetadata struct {
	Title            string   `json:"title" yaml:"title"`
	Authors          []string `json:"authors" yaml:"authors"`
	Abstract         string   `json:"abstract" yaml:"abstract"`
	PublishDate      *string  `json:"publish_date" yaml:"publish_date"`
	Institutions     []string `json:"institutions" yaml:"institutions"`
	Keywords         []string `json:"keywords" yaml:"keywords"`
	Summary          string   `json:"summary" yaml:"summary"`
	SummaryCitations []string `json:"summary_citations" yaml:"summary_citations"`
	StarterQuestions []string `json:"starter_questions" yaml:"starter_questions"`
	Highlights       []string `json:"highlights" yaml:"highlights"`

	// FailedTargets lists the extraction targets that fell back to their
	// defaults, so callers can tell a genuinely empty field from a failed
	// extraction. Empty on full success.
	FailedTargets []string `json:"failed_targets,omitempty" yaml:"failed_targets,omitempty"`
}

// DefaultPaperMetadata returns a fully populated all-default record.
func DefaultPaperMetadata() *PaperMetadata {
	return &PaperMetadata{
		Authors:          []string{},
		Institutions:     []string{},
		Keywords:         []string{},
		SummaryCitations: []string{},
		StarterQuestions: []string{},
		Highlights:       []string{},
	}
}
