package domain

import (
	"math"
	"time"
)

// Gender values carried on profiles and result records.
const (
	GenderMale   = "male"
	GenderFemale = "female"
)

// GenderLabel maps a gender value to the single-character label used in
// exported rows.
func GenderLabel(gender string) string {
	if gender == GenderMale {
		return "남"
	}
	return "여"
}

// UserProfile carries the per-session examinee fields, the sticky examiner
// fields, and the test metadata copied in for record keeping.
type UserProfile struct {
	// Examinee (child) - fresh per session
	Name        string `json:"name"`
	Age         int    `json:"age"`
	Gender      string `json:"gender"`
	Institution string `json:"institution"`

	// Examiner - preserved across sessions for the same sitting
	ExaminerName   string `json:"examinerName"`
	ExaminerAge    string `json:"examinerAge,omitempty"`
	ExaminerGender string `json:"examinerGender,omitempty"`

	// Test metadata - configuration copied in, not business logic
	TestTitle       string `json:"testTitle"`
	TestDescription string `json:"testDescription"`
}

// Examiner holds only the examiner fields of a profile.
type Examiner struct {
	Name   string `json:"name"`
	Age    string `json:"age,omitempty"`
	Gender string `json:"gender,omitempty"`
}

// ExaminerInfo extracts the examiner fields from a profile.
func (p UserProfile) ExaminerInfo() Examiner {
	return Examiner{Name: p.ExaminerName, Age: p.ExaminerAge, Gender: p.ExaminerGender}
}

// QuizResponse is one answered question, produced only by the session state
// machine.
type QuizResponse struct {
	QuestionID       int64      `json:"questionId"`
	SelectedOptionID int64      `json:"selectedOptionId"`
	Correct          bool       `json:"correct"`
	Category         CTCategory `json:"category"`
}

// AssessmentDetail denormalizes a QuizResponse for display and export. Text
// is resolved at recording time so later edits or deletions of the source
// question cannot alter stored results.
type AssessmentDetail struct {
	QuestionID         int64  `json:"questionId"`
	QuestionText       string `json:"questionText"`
	SelectedOptionText string `json:"selectedOptionText"`
	IsCorrect          bool   `json:"isCorrect"`
	Score              int    `json:"score"` // fixed at 1 point per correct answer
}

// StoredAssessmentResult is the durable, immutable summary of one completed
// session. Created exactly once at completion, appended newest-first to the
// archive, never mutated.
type StoredAssessmentResult struct {
	ID             int64              `json:"id"` // generation timestamp, unix milliseconds
	ChildName      string             `json:"childName"`
	ChildAge       int                `json:"childAge"`
	ChildGender    string             `json:"childGender"`
	Institution    string             `json:"institution"`
	TotalScore     int                `json:"totalScore"`
	TotalQuestions int                `json:"totalQuestions"`
	Date           string             `json:"date"`
	Details        []AssessmentDetail `json:"details"`
}

// Accuracy returns the integer-rounded score percentage.
func (r *StoredAssessmentResult) Accuracy() int {
	if r.TotalQuestions == 0 {
		return 0
	}
	return int(math.Round(float64(r.TotalScore) / float64(r.TotalQuestions) * 100))
}

const (
	deletedQuestionText = "삭제된 문제"
	unknownOptionText   = "알 수 없음"
)

// NewAssessmentResult assembles a result record from the administered
// question snapshot and the accumulated responses. The snapshot, not the
// live question store, resolves texts.
func NewAssessmentResult(profile UserProfile, questions []Question, responses []QuizResponse, now time.Time) *StoredAssessmentResult {
	byID := make(map[int64]*Question, len(questions))
	for i := range questions {
		byID[questions[i].ID] = &questions[i]
	}

	score := 0
	details := make([]AssessmentDetail, 0, len(responses))
	for _, resp := range responses {
		questionText := deletedQuestionText
		optionText := unknownOptionText
		if q := byID[resp.QuestionID]; q != nil {
			questionText = q.Text
			if o := q.OptionByID(resp.SelectedOptionID); o != nil {
				optionText = o.Text
			}
		}
		itemScore := 0
		if resp.Correct {
			itemScore = 1
			score++
		}
		details = append(details, AssessmentDetail{
			QuestionID:         resp.QuestionID,
			QuestionText:       questionText,
			SelectedOptionText: optionText,
			IsCorrect:          resp.Correct,
			Score:              itemScore,
		})
	}

	return &StoredAssessmentResult{
		ID:             now.UnixMilli(),
		ChildName:      profile.Name,
		ChildAge:       profile.Age,
		ChildGender:    profile.Gender,
		Institution:    profile.Institution,
		TotalScore:     score,
		TotalQuestions: len(questions),
		Date:           now.Format("2006-01-02 15:04:05"),
		Details:        details,
	}
}
