package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ct-assessment/internal/domain"
	"ct-assessment/internal/logger"
	"ct-assessment/internal/storage"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// spreadsheetHeader is the fixed header row written once when the remote
// resource is created. Mirror rows follow this column order exactly.
var spreadsheetHeader = []interface{}{"검사일시", "이름", "나이", "성별", "기관", "점수", "총문항", "정답률"}

// BackupSynchronizer mirrors completed results to a remote spreadsheet.
// Mirroring is strictly best-effort: it never blocks session completion and
// its outcome never reverts local archival. The remote resource is created
// lazily, at most once per installation, guarded by singleflight so two
// near-simultaneous completions cannot create two spreadsheets.
type BackupSynchronizer struct {
	sheets  domain.SpreadsheetClient
	tokens  domain.TokenProvider
	storage domain.Storage
	title   string
	timeout time.Duration
	sf      singleflight.Group
}

// NewBackupSynchronizer creates a synchronizer. timeout bounds each remote
// call; a timeout is treated the same as a network failure.
func NewBackupSynchronizer(
	sheets domain.SpreadsheetClient,
	tokens domain.TokenProvider,
	st domain.Storage,
	title string,
	timeout time.Duration,
) *BackupSynchronizer {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &BackupSynchronizer{
		sheets:  sheets,
		tokens:  tokens,
		storage: st,
		title:   title,
		timeout: timeout,
	}
}

// Mirror converts the result to a single flat row and appends it to the
// remote spreadsheet, creating the spreadsheet (with its header row) first
// if no cached reference exists.
//
// Failure handling: an authorization failure invalidates the local token so
// the next attempt re-prompts; a missing remote resource discards the cached
// reference so the next call self-heals by recreating it, but this call
// still fails. There is no retry within the same invocation.
func (b *BackupSynchronizer) Mirror(ctx context.Context, result *domain.StoredAssessmentResult) error {
	token, err := b.tokens.Token()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	sheetID, err := b.ensureSpreadsheet(ctx, token)
	if err != nil {
		return b.classify(ctx, err, "")
	}

	row := []interface{}{
		result.Date,
		result.ChildName,
		result.ChildAge,
		domain.GenderLabel(result.ChildGender),
		result.Institution,
		result.TotalScore,
		result.TotalQuestions,
		fmt.Sprintf("%d%%", result.Accuracy()),
	}

	if err := b.sheets.AppendRow(ctx, token, sheetID, row); err != nil {
		return b.classify(ctx, err, sheetID)
	}

	logger.Get().Info("result mirrored to spreadsheet",
		zap.Int64("resultID", result.ID),
		zap.String("spreadsheetID", sheetID))
	return nil
}

// ensureSpreadsheet returns the cached spreadsheet reference, creating the
// resource and writing the header row when none exists. Creation is
// single-flight: concurrent callers wait on the first creation instead of
// duplicating it.
func (b *BackupSynchronizer) ensureSpreadsheet(ctx context.Context, token string) (string, error) {
	id, err := b.storage.Get(ctx, storage.KeySpreadsheetID)
	if err == nil && id != "" {
		return id, nil
	}
	if err != nil && err != domain.ErrKeyNotFound {
		return "", domain.NewStorageError("failed to read cached spreadsheet ID", err)
	}

	v, err, _ := b.sf.Do("create-spreadsheet", func() (interface{}, error) {
		// Re-check under the flight: a concurrent caller may have created
		// and cached the resource while we waited.
		if id, err := b.storage.Get(ctx, storage.KeySpreadsheetID); err == nil && id != "" {
			return id, nil
		}

		created, err := b.sheets.Create(ctx, token, b.title)
		if err != nil {
			return "", err
		}
		if err := b.sheets.AppendRow(ctx, token, created, spreadsheetHeader); err != nil {
			return "", err
		}
		if err := b.storage.Set(ctx, storage.KeySpreadsheetID, created); err != nil {
			// The resource exists but the reference could not be cached;
			// the next mirror would create a second one. Surface loudly.
			logger.Get().Error("failed to cache spreadsheet ID",
				zap.Error(err),
				zap.String("spreadsheetID", created))
			return created, nil
		}
		logger.Get().Info("created backup spreadsheet", zap.String("spreadsheetID", created))
		return created, nil
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

// classify applies the failure taxonomy and returns the original error.
func (b *BackupSynchronizer) classify(ctx context.Context, err error, sheetID string) error {
	switch {
	case errors.Is(err, domain.ErrRemoteUnauthorized):
		b.tokens.Invalidate()
	case errors.Is(err, domain.ErrSpreadsheetNotFound):
		if delErr := b.storage.Delete(ctx, storage.KeySpreadsheetID); delErr != nil {
			logger.Get().Error("failed to discard stale spreadsheet ID", zap.Error(delErr))
		}
		logger.Get().Warn("cached spreadsheet missing remotely, reference discarded",
			zap.String("spreadsheetID", sheetID))
	}
	return err
}
