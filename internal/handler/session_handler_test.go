package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"ct-assessment/internal/domain"
	"ct-assessment/internal/dto"
	"ct-assessment/internal/handler"
	"ct-assessment/internal/middleware"
	"ct-assessment/internal/service"
	"ct-assessment/internal/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- Manual Mocks ---

type MockQuestionLister struct {
	ListFunc func(ctx context.Context) ([]domain.Question, error)
}

func (m *MockQuestionLister) List(ctx context.Context) ([]domain.Question, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	panic("MockQuestionLister.ListFunc not implemented")
}

type MockRecorder struct {
	RecordFunc func(ctx context.Context, result *domain.StoredAssessmentResult) error
}

func (m *MockRecorder) Record(ctx context.Context, result *domain.StoredAssessmentResult) error {
	if m.RecordFunc != nil {
		return m.RecordFunc(ctx, result)
	}
	return nil
}

type MockMirrorer struct {
	MirrorFunc func(ctx context.Context, result *domain.StoredAssessmentResult) error
}

func (m *MockMirrorer) Mirror(ctx context.Context, result *domain.StoredAssessmentResult) error {
	if m.MirrorFunc != nil {
		return m.MirrorFunc(ctx, result)
	}
	return domain.ErrNotConnected
}

func handlerTestQuestions() []domain.Question {
	return []domain.Question{
		{
			ID: 1, Category: domain.CategoryPattern, Text: "첫 문제",
			Options:         []domain.Option{{ID: 1, Text: "가"}, {ID: 2, Text: "나"}},
			CorrectOptionID: 1,
			Explanation:     "가가 정답이에요.",
		},
		{
			ID: 2, Category: domain.CategoryLogic, Text: "둘째 문제",
			Options:         []domain.Option{{ID: 1, Text: "다"}, {ID: 2, Text: "라"}},
			CorrectOptionID: 2,
		},
	}
}

func newTestApp(t *testing.T) (*fiber.App, *service.SessionService) {
	t.Helper()
	questions := &MockQuestionLister{
		ListFunc: func(ctx context.Context) ([]domain.Question, error) {
			return handlerTestQuestions(), nil
		},
	}
	sessions := service.NewSessionService(questions, &MockRecorder{}, &MockMirrorer{})
	h := handler.NewSessionHandler(sessions, validation.NewValidator())

	app := fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler()})
	group := app.Group("/api/sessions")
	group.Post("/", h.Create)
	group.Get("/:id", h.Get)
	group.Post("/:id/intake", h.BeginIntake)
	group.Put("/:id/examiner", h.SetExaminer)
	group.Post("/:id/start", h.Start)
	group.Put("/:id/answer", h.Answer)
	group.Post("/:id/advance", h.Advance)
	group.Post("/:id/restart", h.Restart)
	return app, sessions
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body interface{}) (int, dto.SessionResponse) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var parsed dto.SessionResponse
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if resp.StatusCode < 400 {
		require.NoError(t, json.Unmarshal(raw, &parsed))
	}
	return resp.StatusCode, parsed
}

func validStartRequest() dto.StartSessionRequest {
	return dto.StartSessionRequest{Profile: domain.UserProfile{
		Name: "김하나", Age: 6, Gender: domain.GenderFemale,
		Institution: "무지개유치원", ExaminerName: "이선생",
	}}
}

func TestSessionHandler_FullFlow(t *testing.T) {
	app, sessions := newTestApp(t)

	status, created := doJSON(t, app, http.MethodPost, "/api/sessions/", nil)
	require.Equal(t, http.StatusCreated, status)
	require.NotEmpty(t, created.SessionID)
	assert.Equal(t, domain.StateWelcome, created.State)
	base := "/api/sessions/" + created.SessionID

	status, resp := doJSON(t, app, http.MethodPost, base+"/intake", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, domain.StateExaminerInfo, resp.State)

	status, resp = doJSON(t, app, http.MethodPut, base+"/examiner", dto.SetExaminerRequest{
		Examiner: domain.Examiner{Name: "이선생", Age: "30대", Gender: domain.GenderFemale},
	})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, domain.StateExamineeInfo, resp.State)

	status, resp = doJSON(t, app, http.MethodPost, base+"/start", validStartRequest())
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, domain.StateQuiz, resp.State)
	assert.Equal(t, 2, resp.Total)
	require.NotNil(t, resp.Question)
	assert.Equal(t, "첫 문제", resp.Question.Text)

	// The served question must not leak the answer key.
	raw, err := json.Marshal(resp.Question)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "correctOptionId")
	assert.NotContains(t, string(raw), "가가 정답이에요.")

	status, _ = doJSON(t, app, http.MethodPut, base+"/answer", dto.AnswerRequest{OptionID: 1})
	require.Equal(t, http.StatusOK, status)
	status, resp = doJSON(t, app, http.MethodPost, base+"/advance", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, 1, resp.Index)

	status, _ = doJSON(t, app, http.MethodPut, base+"/answer", dto.AnswerRequest{OptionID: 2})
	require.Equal(t, http.StatusOK, status)
	status, resp = doJSON(t, app, http.MethodPost, base+"/advance", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, domain.StateResults, resp.State)
	require.NotNil(t, resp.Result)
	assert.Equal(t, 2, resp.Result.TotalScore)
	assert.Equal(t, 2, resp.Result.TotalQuestions)

	status, resp = doJSON(t, app, http.MethodPost, base+"/restart", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, domain.StateWelcome, resp.State)

	sessions.Wait()
}

func TestSessionHandler_UnknownSession(t *testing.T) {
	app, _ := newTestApp(t)
	status, _ := doJSON(t, app, http.MethodGet, "/api/sessions/no-such-id", nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestSessionHandler_StartValidation(t *testing.T) {
	app, _ := newTestApp(t)
	_, created := doJSON(t, app, http.MethodPost, "/api/sessions/", nil)

	req := validStartRequest()
	req.Profile.Name = ""
	req.Profile.Age = 0
	status, _ := doJSON(t, app, http.MethodPost, "/api/sessions/"+created.SessionID+"/start", req)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestSessionHandler_AdvanceWithoutSelection(t *testing.T) {
	app, _ := newTestApp(t)
	_, created := doJSON(t, app, http.MethodPost, "/api/sessions/", nil)
	base := "/api/sessions/" + created.SessionID

	status, _ := doJSON(t, app, http.MethodPost, base+"/start", validStartRequest())
	require.Equal(t, http.StatusOK, status)

	status, _ = doJSON(t, app, http.MethodPost, base+"/advance", nil)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestSessionHandler_AnswerUnknownOption(t *testing.T) {
	app, _ := newTestApp(t)
	_, created := doJSON(t, app, http.MethodPost, "/api/sessions/", nil)
	base := "/api/sessions/" + created.SessionID

	status, _ := doJSON(t, app, http.MethodPost, base+"/start", validStartRequest())
	require.Equal(t, http.StatusOK, status)

	status, _ = doJSON(t, app, http.MethodPut, base+"/answer", dto.AnswerRequest{OptionID: 42})
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestSessionHandler_IntakeFromWrongState(t *testing.T) {
	app, _ := newTestApp(t)
	_, created := doJSON(t, app, http.MethodPost, "/api/sessions/", nil)
	base := "/api/sessions/" + created.SessionID

	status, _ := doJSON(t, app, http.MethodPost, base+"/start", validStartRequest())
	require.Equal(t, http.StatusOK, status)

	// Intake is only reachable from Welcome.
	status, _ = doJSON(t, app, http.MethodPost, base+"/intake", nil)
	assert.Equal(t, http.StatusConflict, status)
}
