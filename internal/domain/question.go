package domain

import "fmt"

// CTCategory is one of the five computational thinking areas a question
// belongs to.
type CTCategory string

const (
	CategoryPattern     CTCategory = "Pattern"
	CategorySequencing  CTCategory = "Sequencing"
	CategoryAbstraction CTCategory = "Abstraction"
	CategoryDebugging   CTCategory = "Debugging"
	CategoryLogic       CTCategory = "Logic"
)

// Categories lists every valid CTCategory.
var Categories = []CTCategory{
	CategoryPattern,
	CategorySequencing,
	CategoryAbstraction,
	CategoryDebugging,
	CategoryLogic,
}

// Valid reports whether the category is one of the fixed enumeration.
func (c CTCategory) Valid() bool {
	switch c {
	case CategoryPattern, CategorySequencing, CategoryAbstraction, CategoryDebugging, CategoryLogic:
		return true
	}
	return false
}

// Option is a single answer choice. IDs are unique within their question
// only; they are positional indexes assigned by the authoring tool.
type Option struct {
	ID       int64  `json:"id"`
	Text     string `json:"text"`
	ImageRef string `json:"imageUrl,omitempty"` // URL, inline-encoded binary, or keyword
}

// Question is an authored multiple-choice item. Media references are opaque
// strings; audio is presentation-only and never gates advancement.
type Question struct {
	ID              int64      `json:"id"`
	Category        CTCategory `json:"category"`
	Text            string     `json:"questionText"`
	ImageRef        string     `json:"questionImageUrl,omitempty"`
	AudioRef        string     `json:"audioUrl,omitempty"`
	Options         []Option   `json:"options"`
	CorrectOptionID int64      `json:"correctOptionId"`
	Difficulty      int        `json:"difficulty"` // 1-5
	Explanation     string     `json:"explanation"`
}

// OptionByID returns the option with the given id, or nil.
func (q *Question) OptionByID(id int64) *Option {
	for i := range q.Options {
		if q.Options[i].ID == id {
			return &q.Options[i]
		}
	}
	return nil
}

// Validate enforces the authoring invariants: non-empty question text,
// non-empty option texts, and CorrectOptionID referring to exactly one
// existing option. Option count is not bounded at runtime.
func (q *Question) Validate() error {
	if q.Text == "" {
		return NewInvalidInputError("question text is required")
	}
	if !q.Category.Valid() {
		return NewInvalidInputError(fmt.Sprintf("invalid category: %s", q.Category))
	}
	if len(q.Options) == 0 {
		return NewInvalidInputError("at least one option is required")
	}
	matches := 0
	for _, o := range q.Options {
		if o.Text == "" {
			return NewInvalidInputError("every option needs text")
		}
		if o.ID == q.CorrectOptionID {
			matches++
		}
	}
	if matches != 1 {
		return NewInvalidInputError(fmt.Sprintf("correctOptionId %d must match exactly one option", q.CorrectOptionID))
	}
	return nil
}
