package quizgen

import (
	"context"
	"errors"
	"testing"

	"ct-assessment/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/llms"
	"go.uber.org/zap"
)

// fakeModel is an llms.Model returning a canned completion.
type fakeModel struct {
	response string
	err      error
}

func (f *fakeModel) GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &llms.ContentResponse{
		Choices: []*llms.ContentChoice{{Content: f.response}},
	}, nil
}

func (f *fakeModel) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	return f.response, f.err
}

const sampleCompletion = "```json\n" + `[
  {
    "category": "Pattern",
    "questionText": "다음에 올 색깔은 무엇일까요?",
    "options": [{"id": 0, "text": "빨강"}, {"id": 1, "text": "파랑"}],
    "correctOptionId": 1,
    "difficulty": 1,
    "explanation": "빨강-파랑이 반복되는 패턴이에요."
  },
  {
    "category": "Logic",
    "questionText": "비가 오면 무엇을 챙길까요?",
    "options": [{"id": 0, "text": "우산"}, {"id": 1, "text": "선글라스"}],
    "correctOptionId": 0,
    "difficulty": 2,
    "explanation": "비가 올 때는 우산을 챙겨요."
  }
]` + "\n```"

func TestGeminiQuestionGenerator_ParsesWrappedArray(t *testing.T) {
	gen, err := NewGeminiQuestionGenerator(&fakeModel{response: sampleCompletion}, zap.NewNop())
	require.NoError(t, err)

	questions, err := gen.GenerateQuestionCandidates(context.Background(), 6, 2)
	require.NoError(t, err)
	require.Len(t, questions, 2)

	assert.Equal(t, domain.CategoryPattern, questions[0].Category)
	assert.Equal(t, "다음에 올 색깔은 무엇일까요?", questions[0].Text)
	assert.Equal(t, int64(1), questions[0].CorrectOptionID)
	assert.Equal(t, domain.CategoryLogic, questions[1].Category)
	require.Len(t, questions[1].Options, 2)
	assert.Equal(t, "우산", questions[1].Options[0].Text)
}

func TestGeminiQuestionGenerator_NoArrayInResponse(t *testing.T) {
	gen, err := NewGeminiQuestionGenerator(&fakeModel{response: "죄송합니다, 생성할 수 없습니다."}, zap.NewNop())
	require.NoError(t, err)

	_, err = gen.GenerateQuestionCandidates(context.Background(), 6, 5)
	assert.ErrorContains(t, err, "no JSON array")
}

func TestGeminiQuestionGenerator_MalformedJSON(t *testing.T) {
	gen, err := NewGeminiQuestionGenerator(&fakeModel{response: `[{"category": }]`}, zap.NewNop())
	require.NoError(t, err)

	_, err = gen.GenerateQuestionCandidates(context.Background(), 6, 5)
	assert.ErrorContains(t, err, "failed to parse")
}

func TestGeminiQuestionGenerator_ModelFailure(t *testing.T) {
	gen, err := NewGeminiQuestionGenerator(&fakeModel{err: errors.New("quota exceeded")}, zap.NewNop())
	require.NoError(t, err)

	_, err = gen.GenerateQuestionCandidates(context.Background(), 6, 5)
	assert.ErrorContains(t, err, "generation call failed")
}

func TestNewGeminiQuestionGenerator_NilModel(t *testing.T) {
	_, err := NewGeminiQuestionGenerator(nil, zap.NewNop())
	assert.Error(t, err)
}
