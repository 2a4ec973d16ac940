package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"ct-assessment/internal/domain"
	"ct-assessment/internal/logger"

	"go.uber.org/zap"
)

// ResultLister supplies the archive contents for export.
type ResultLister interface {
	List(ctx context.Context) ([]domain.StoredAssessmentResult, error)
}

// ExportService produces the CSV rendering of the archive and the manual
// full-archive upload to the remote file store.
type ExportService struct {
	archive ResultLister
	drive   domain.FileUploader
	tokens  domain.TokenProvider
	now     func() time.Time
}

// NewExportService creates an ExportService.
func NewExportService(archive ResultLister, drive domain.FileUploader, tokens domain.TokenProvider) *ExportService {
	return &ExportService{archive: archive, drive: drive, tokens: tokens, now: time.Now}
}

const csvHeader = "ID,이름,성별,나이,기관,총점,총문항,날짜,문항내용,선택한답,정답여부,배점"

// ExportCSV renders one row per AssessmentDetail. Records without details
// emit a single placeholder row.
func (e *ExportService) ExportCSV(ctx context.Context) (string, error) {
	results, err := e.archive.List(ctx)
	if err != nil {
		return "", err
	}
	if len(results) == 0 {
		return "", domain.NewNotFoundError("no stored results to export")
	}

	var b strings.Builder
	b.WriteString(csvHeader)
	b.WriteByte('\n')

	for _, record := range results {
		prefix := strings.Join([]string{
			strconv.FormatInt(record.ID, 10),
			record.ChildName,
			record.ChildGender,
			strconv.Itoa(record.ChildAge),
			record.Institution,
			strconv.Itoa(record.TotalScore),
			strconv.Itoa(record.TotalQuestions),
			record.Date,
		}, ",")

		if len(record.Details) == 0 {
			b.WriteString(prefix)
			b.WriteString(",-,-,-,-\n")
			continue
		}
		for _, detail := range record.Details {
			flag := "X"
			if detail.IsCorrect {
				flag = "O"
			}
			b.WriteString(prefix)
			b.WriteByte(',')
			b.WriteString(csvQuote(detail.QuestionText))
			b.WriteByte(',')
			b.WriteString(csvQuote(detail.SelectedOptionText))
			b.WriteByte(',')
			b.WriteString(flag)
			b.WriteByte(',')
			b.WriteString(strconv.Itoa(detail.Score))
			b.WriteByte('\n')
		}
	}
	return b.String(), nil
}

// CSVFileName names the download with the export date.
func (e *ExportService) CSVFileName() string {
	return fmt.Sprintf("assessment_backup_%s.csv", e.now().Format("2006-01-02"))
}

func csvQuote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// UploadToDrive dumps the whole archive as a named JSON file to the remote
// file store. Manual flow: failures are surfaced to the caller and the token
// is invalidated on authorization errors.
func (e *ExportService) UploadToDrive(ctx context.Context) (string, error) {
	token, err := e.tokens.Token()
	if err != nil {
		return "", err
	}
	results, err := e.archive.List(ctx)
	if err != nil {
		return "", err
	}
	if len(results) == 0 {
		return "", domain.NewNotFoundError("no stored results to upload")
	}

	content, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return "", domain.NewInternalError("failed to marshal archive", err)
	}

	name := fmt.Sprintf("CT_Assessment_Backup_%s.json", e.now().Format("2006-01-02"))
	if err := e.drive.Upload(ctx, token, name, "application/json", content); err != nil {
		if errors.Is(err, domain.ErrRemoteUnauthorized) {
			e.tokens.Invalidate()
		}
		return "", err
	}

	logger.Get().Info("archive uploaded to drive",
		zap.String("file", name),
		zap.Int("results", len(results)))
	return name, nil
}
