package quizgen

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"ct-assessment/internal/domain"

	"github.com/tmc/langchaingo/llms"
	"go.uber.org/zap"
)

// GeminiQuestionGenerator implements domain.QuestionGenerator on a
// langchaingo model. The model is expected to return a JSON array of
// question objects; anything around the array gets stripped.
type GeminiQuestionGenerator struct {
	model  llms.Model
	logger *zap.Logger
}

// NewGeminiQuestionGenerator creates a generator around a configured model.
func NewGeminiQuestionGenerator(model llms.Model, logger *zap.Logger) (domain.QuestionGenerator, error) {
	if model == nil {
		return nil, fmt.Errorf("generation model cannot be nil")
	}
	return &GeminiQuestionGenerator{model: model, logger: logger}, nil
}

const generationPrompt = `당신은 유아 교육 전문가이자 컴퓨터 과학자입니다.
%d세 어린이를 위한 컴퓨팅 사고력(Computational Thinking) 평가 문항 %d개를 생성해주세요.

다음 5가지 영역 중 골고루 섞어서 출제하세요:
1. Pattern (패턴 인식): 다음에 올 모양이나 색깔 찾기
2. Sequencing (순서 절차): 양치하기 순서, 씨앗이 자라는 순서 등
3. Abstraction (단순화/분류): 동물 농장에서 다리가 4개인 동물 찾기 등 분류하기
4. Debugging (디버깅): 길 찾기에서 잘못된 화살표 찾기 등
5. Logic (논리): "만약 ~라면" 조건에 맞는 행동 고르기

문항은 아이들이 이해하기 쉬운 한국어로 작성되어야 합니다.
각 질문에는 3~4개의 선택지가 있어야 합니다.

Respond with ONLY a JSON array. Each element must have this exact shape:
{
  "category": "Pattern" | "Sequencing" | "Abstraction" | "Debugging" | "Logic",
  "questionText": "...",
  "options": [{"id": 0, "text": "..."}, {"id": 1, "text": "..."}],
  "correctOptionId": 0,
  "difficulty": 1,
  "explanation": "..."
}`

// GenerateQuestionCandidates implements domain.QuestionGenerator.
func (g *GeminiQuestionGenerator) GenerateQuestionCandidates(ctx context.Context, age, count int) ([]domain.Question, error) {
	prompt := fmt.Sprintf(generationPrompt, age, count)

	raw, err := llms.GenerateFromSinglePrompt(ctx, g.model, prompt, llms.WithTemperature(0.4), llms.WithJSONMode())
	if err != nil {
		g.logger.Error("question generation call failed", zap.Error(err))
		return nil, fmt.Errorf("generation call failed: %w", err)
	}

	cleaned := strings.TrimSpace(raw)
	start := strings.Index(cleaned, "[")
	end := strings.LastIndex(cleaned, "]")
	if start == -1 || end == -1 || end < start {
		g.logger.Error("no JSON array found in generation response", zap.String("response", cleaned))
		return nil, fmt.Errorf("no JSON array found in generation response")
	}

	var questions []domain.Question
	if err := json.Unmarshal([]byte(cleaned[start:end+1]), &questions); err != nil {
		g.logger.Error("failed to unmarshal generated questions",
			zap.Error(err),
			zap.String("json", cleaned[start:end+1]))
		return nil, fmt.Errorf("failed to parse generation response: %w", err)
	}

	g.logger.Info("generated question candidates",
		zap.Int("requested", count),
		zap.Int("received", len(questions)))
	return questions, nil
}

var _ domain.QuestionGenerator = (*GeminiQuestionGenerator)(nil)
