package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleSnapshot() []Question {
	return []Question{
		{
			ID: 101, Category: CategoryPattern, Text: "패턴 문제",
			Options:         []Option{{ID: 1, Text: "빨강"}, {ID: 2, Text: "파랑"}},
			CorrectOptionID: 1,
		},
		{
			ID: 102, Category: CategoryLogic, Text: "논리 문제",
			Options:         []Option{{ID: 1, Text: "예"}, {ID: 2, Text: "아니오"}},
			CorrectOptionID: 2,
		},
		{
			ID: 103, Category: CategoryDebugging, Text: "디버깅 문제",
			Options:         []Option{{ID: 1, Text: "앞으로"}, {ID: 2, Text: "뒤로"}},
			CorrectOptionID: 1,
		},
	}
}

func TestNewAssessmentResult(t *testing.T) {
	profile := UserProfile{
		Name: "김하나", Age: 6, Gender: GenderFemale, Institution: "무지개유치원",
		ExaminerName: "이선생",
	}
	responses := []QuizResponse{
		{QuestionID: 101, SelectedOptionID: 1, Correct: true, Category: CategoryPattern},
		{QuestionID: 102, SelectedOptionID: 1, Correct: false, Category: CategoryLogic},
		{QuestionID: 103, SelectedOptionID: 1, Correct: true, Category: CategoryDebugging},
	}
	now := time.Date(2026, 3, 2, 10, 30, 0, 0, time.UTC)

	result := NewAssessmentResult(profile, sampleSnapshot(), responses, now)

	assert.Equal(t, now.UnixMilli(), result.ID)
	assert.Equal(t, "김하나", result.ChildName)
	assert.Equal(t, 6, result.ChildAge)
	assert.Equal(t, GenderFemale, result.ChildGender)
	assert.Equal(t, "무지개유치원", result.Institution)
	assert.Equal(t, "2026-03-02 10:30:00", result.Date)
	assert.Equal(t, 3, result.TotalQuestions)

	// The total score is always the number of correct details.
	require.Len(t, result.Details, 3)
	correct := 0
	for _, d := range result.Details {
		if d.IsCorrect {
			correct++
			assert.Equal(t, 1, d.Score)
		} else {
			assert.Equal(t, 0, d.Score)
		}
	}
	assert.Equal(t, correct, result.TotalScore)
	assert.Equal(t, 2, result.TotalScore)

	assert.Equal(t, "패턴 문제", result.Details[0].QuestionText)
	assert.Equal(t, "빨강", result.Details[0].SelectedOptionText)
	assert.Equal(t, "예", result.Details[1].SelectedOptionText)
}

func TestNewAssessmentResult_MissingQuestionFallbacks(t *testing.T) {
	responses := []QuizResponse{
		// Question absent from the snapshot entirely.
		{QuestionID: 999, SelectedOptionID: 1, Correct: false},
		// Question present but the selected option is gone.
		{QuestionID: 101, SelectedOptionID: 77, Correct: false},
	}
	result := NewAssessmentResult(UserProfile{Name: "테스트"}, sampleSnapshot(), responses, time.Now())

	require.Len(t, result.Details, 2)
	assert.Equal(t, "삭제된 문제", result.Details[0].QuestionText)
	assert.Equal(t, "알 수 없음", result.Details[0].SelectedOptionText)
	assert.Equal(t, "패턴 문제", result.Details[1].QuestionText)
	assert.Equal(t, "알 수 없음", result.Details[1].SelectedOptionText)
}

func TestStoredAssessmentResult_Accuracy(t *testing.T) {
	tests := []struct {
		name  string
		score int
		total int
		want  int
	}{
		{"perfect", 10, 10, 100},
		{"zero questions", 0, 0, 0},
		{"one of three rounds", 1, 3, 33},
		{"two of three rounds", 2, 3, 67},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := StoredAssessmentResult{TotalScore: tt.score, TotalQuestions: tt.total}
			assert.Equal(t, tt.want, r.Accuracy())
		})
	}
}

// Stored records must survive a marshal/unmarshal cycle unchanged, since the
// archive persists them as JSON documents.
func TestStoredAssessmentResult_JSONRoundTrip(t *testing.T) {
	original := NewAssessmentResult(
		UserProfile{Name: "박둘", Age: 7, Gender: GenderMale, Institution: "들꽃어린이집"},
		sampleSnapshot(),
		[]QuizResponse{{QuestionID: 101, SelectedOptionID: 1, Correct: true, Category: CategoryPattern}},
		time.Date(2026, 1, 15, 14, 0, 0, 0, time.UTC),
	)

	data, err := json.Marshal(original)
	require.NoError(t, err)

	// Field names follow the stored-document format.
	assert.Contains(t, string(data), `"childName"`)
	assert.Contains(t, string(data), `"totalScore"`)
	assert.Contains(t, string(data), `"selectedOptionText"`)
	assert.Contains(t, string(data), `"isCorrect"`)

	var restored StoredAssessmentResult
	require.NoError(t, json.Unmarshal(data, &restored))
	assert.Equal(t, *original, restored)
}

func TestGenderLabel(t *testing.T) {
	assert.Equal(t, "남", GenderLabel(GenderMale))
	assert.Equal(t, "여", GenderLabel(GenderFemale))
}
