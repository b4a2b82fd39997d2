// Package workshop implements publishing, updating, deleting, and listing
// of workshop items for the configured game.
package workshop

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/modshipapp/modship/internal/config"
	"github.com/modshipapp/modship/internal/domain"
	"github.com/modshipapp/modship/internal/errors"
	"github.com/modshipapp/modship/internal/id"
	"github.com/modshipapp/modship/internal/media/preview"
	"github.com/modshipapp/modship/internal/ratelimit"
	"github.com/modshipapp/modship/internal/steam"
	"github.com/modshipapp/modship/internal/store"
)

const itemPageURL = "https://steamcommunity.com/sharedfiles/filedetails/?id=%d"

// EventSink receives notifications about completed workshop operations.
type EventSink interface {
	UploadCompleted(entry *domain.HistoryEntry)
}

type noopSink struct{}

func (noopSink) UploadCompleted(*domain.HistoryEntry) {}

// Service coordinates workshop operations against the Steam client.
type Service struct {
	client     *steam.Client
	store      store.Store
	compressor *preview.Compressor
	limiter    *ratelimit.Pacer
	cfg        config.WorkshopConfig
	logger     *slog.Logger
	events     EventSink
}

// NewService creates a workshop Service. events may be nil.
func NewService(
	client *steam.Client,
	st store.Store,
	compressor *preview.Compressor,
	limiter *ratelimit.Pacer,
	cfg config.WorkshopConfig,
	logger *slog.Logger,
	events EventSink,
) *Service {
	if events == nil {
		events = noopSink{}
	}
	return &Service{
		client:     client,
		store:      st,
		compressor: compressor,
		limiter:    limiter,
		cfg:        cfg,
		logger:     logger,
		events:     events,
	}
}

// Upload publishes a new item or updates an existing one, depending on
// whether the record carries an item ID. New items are created empty
// first, then filled by a regular update, so both paths share the same
// submission code. Every attempt is recorded in history, failed ones
// included.
func (s *Service) Upload(ctx context.Context, record *domain.UploadRecord) (*domain.UploadResult, error) {
	if err := s.validate(record); err != nil {
		return nil, err
	}

	if err := s.client.EnsureReady(ctx); err != nil {
		return nil, err
	}

	var (
		itemID  uint64
		created bool
		err     error
	)
	if record.IsUpdate() {
		itemID, err = parseItemID(record.ItemID)
		if err != nil {
			return nil, err
		}
	} else {
		itemID, err = s.createItem(ctx)
		if err != nil {
			s.record(ctx, record, domain.HistoryActionCreate, 0, err)
			return nil, err
		}
		created = true
	}

	update, err := s.buildUpdate(itemID, record, created)
	if err != nil {
		return nil, err
	}

	action := domain.HistoryActionUpdate
	if created {
		action = domain.HistoryActionCreate
	}

	if err := s.submitWithReauth(ctx, update); err != nil {
		s.record(ctx, record, action, itemID, err)
		return nil, err
	}
	s.record(ctx, record, action, itemID, nil)

	// Showing the freshly published page is a courtesy; a disabled
	// overlay must not fail the upload.
	s.client.API().ActivateOverlayToURL(fmt.Sprintf(itemPageURL, itemID))

	s.logger.Info("workshop upload complete",
		"item_id", itemID,
		"created", created,
		"title", record.Title,
	)

	return &domain.UploadResult{
		ItemID:  strconv.FormatUint(itemID, 10),
		Created: created,
	}, nil
}

// validate applies upload policy before anything touches the network.
func (s *Service) validate(record *domain.UploadRecord) error {
	if record == nil {
		return errors.Validation("upload record is required")
	}

	if !record.IsUpdate() {
		if record.Title == "" {
			return errors.Validation("new items require a title")
		}
		if record.ContentPath == "" {
			return errors.Validation("new items require a content archive")
		}
	}

	if record.ContentPath != "" {
		if _, err := os.Stat(record.ContentPath); err != nil {
			return errors.Validationf("content archive not readable: %v", err)
		}
	}

	// Change notes travel with the content so subscribers can see what a
	// revision changed. Enforced by local policy, not by the platform.
	if s.cfg.RequireChangeNotes && record.IsUpdate() && record.ContentPath != "" && record.ChangeNotes == "" {
		return errors.Validation("content updates require change notes")
	}

	if record.Visibility != "" && !record.Visibility.IsValid() {
		s.logger.Warn("unknown visibility requested, falling back to private",
			"visibility", record.Visibility,
		)
	}

	return nil
}

// createItem registers an empty item, re-attaching once when the session
// turns out to be stale.
func (s *Service) createItem(ctx context.Context) (uint64, error) {
	itemID, err := s.client.API().CreateItem(ctx)
	if isStaleSession(err) {
		s.client.Invalidate(err.Error())
		if err = s.client.EnsureReady(ctx); err != nil {
			return 0, err
		}
		itemID, err = s.client.API().CreateItem(ctx)
	}
	if err != nil {
		return 0, remoteError("create item", err)
	}
	return itemID, nil
}

// buildUpdate assembles a sparse update descriptor. Only fields the user
// actually provided are sent; everything else stays untouched remotely.
// On create, visibility is always sent so a brand new item never defaults
// to whatever the platform chose.
func (s *Service) buildUpdate(itemID uint64, record *domain.UploadRecord, created bool) (steam.ItemUpdate, error) {
	update := steam.ItemUpdate{
		ItemID:      itemID,
		ChangeNotes: record.ChangeNotes,
	}

	if record.Title != "" {
		update.Title = &record.Title
	}
	if record.Description != "" {
		update.Description = &record.Description
	}
	if tags := record.ParsedTags(); tags != nil {
		update.Tags = tags
	}
	if record.Visibility != "" || created {
		visibility := record.Visibility
		update.Visibility = &visibility
	}
	if record.ContentPath != "" {
		update.ContentPath = &record.ContentPath
	}

	if record.PreviewImagePath != "" {
		previewPath, err := s.preparePreview(record.PreviewImagePath)
		if err != nil {
			return steam.ItemUpdate{}, err
		}
		if previewPath != "" {
			update.PreviewPath = &previewPath
		}
	}

	return update, nil
}

// preparePreview drops a missing preview instead of failing the whole
// upload, and compresses one that would be rejected for size.
func (s *Service) preparePreview(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		s.logger.Warn("preview image missing, uploading without it", "path", path)
		return "", nil
	}
	if info.Size() <= preview.MaxBytes {
		return path, nil
	}

	result, err := s.compressor.Compress(path)
	if err != nil {
		return "", err
	}
	s.logger.Info("preview compressed for upload",
		"path", path,
		"output", result.OutputPath,
		"quality", result.QualityUsed,
	)
	return result.OutputPath, nil
}

// submitWithReauth submits an update, re-attaching the client once when
// the failure looks like a stale session.
func (s *Service) submitWithReauth(ctx context.Context, update steam.ItemUpdate) error {
	err := s.client.API().SubmitUpdate(ctx, update)
	if isStaleSession(err) {
		s.client.Invalidate(err.Error())
		if err = s.client.EnsureReady(ctx); err != nil {
			return err
		}
		err = s.client.API().SubmitUpdate(ctx, update)
	}
	if err != nil {
		return remoteError("submit update", err)
	}
	return nil
}

// Delete removes an item. The outcome is reported as a result value; only
// validation problems surface as errors.
func (s *Service) Delete(ctx context.Context, itemIDStr string) (*domain.DeleteResult, error) {
	itemID, err := parseItemID(itemIDStr)
	if err != nil {
		return nil, err
	}

	if err := s.client.EnsureReady(ctx); err != nil {
		return nil, err
	}

	err = s.client.API().DeleteItem(ctx, itemID)
	if isStaleSession(err) {
		s.client.Invalidate(err.Error())
		if err = s.client.EnsureReady(ctx); err == nil {
			err = s.client.API().DeleteItem(ctx, itemID)
		}
	}

	entry := &domain.HistoryEntry{
		Action: domain.HistoryActionDelete,
		ItemID: itemIDStr,
	}
	if err != nil {
		entry.Message = err.Error()
		s.addHistory(ctx, entry)
		return &domain.DeleteResult{Success: false, Error: err.Error()}, nil
	}
	entry.Succeeded = true
	s.addHistory(ctx, entry)

	s.logger.Info("workshop item deleted", "item_id", itemIDStr)
	return &domain.DeleteResult{Success: true}, nil
}

// Items lists the current user's published items. The result is always a
// tagged value, never an error: the UI renders a steady gallery and the
// status tells it which empty state to show.
func (s *Service) Items(ctx context.Context) *domain.ItemsResult {
	// Pacing keeps the UI's refresh loop under the platform's query
	// throttle.
	if err := s.limiter.Wait(ctx); err != nil {
		return &domain.ItemsResult{Status: domain.ItemsStatusError, Message: err.Error()}
	}

	if err := s.client.EnsureReady(ctx); err != nil {
		if errors.Is(err, errors.ErrNotConnected) {
			return &domain.ItemsResult{
				Status:  domain.ItemsStatusNotConnected,
				Message: err.Error(),
			}
		}
		return &domain.ItemsResult{Status: domain.ItemsStatusError, Message: err.Error()}
	}

	raw, err := s.client.API().ListUserItems(ctx)
	if isStaleSession(err) {
		s.client.Invalidate(err.Error())
		if err = s.client.EnsureReady(ctx); err == nil {
			raw, err = s.client.API().ListUserItems(ctx)
		}
	}
	if err != nil {
		if errors.Is(err, errors.ErrNotConnected) {
			return &domain.ItemsResult{Status: domain.ItemsStatusNotConnected, Message: err.Error()}
		}
		s.logger.Warn("workshop listing failed", "error", err)
		return &domain.ItemsResult{Status: domain.ItemsStatusError, Message: err.Error()}
	}

	result := &domain.ItemsResult{
		Items:  make([]domain.WorkshopItem, 0, len(raw)),
		Status: domain.ItemsStatusSuccess,
	}
	for _, r := range raw {
		result.Items = append(result.Items, narrowItem(r))
	}
	if len(result.Items) == 0 {
		result.Message = "no items published yet"
	}
	return result
}

// record writes a history entry for an upload attempt and notifies
// listeners. History failures are logged, not propagated; losing a log
// line must not fail an upload.
func (s *Service) record(ctx context.Context, record *domain.UploadRecord, action domain.HistoryAction, itemID uint64, opErr error) {
	entry := &domain.HistoryEntry{
		Action:      action,
		Title:       record.Title,
		Visibility:  record.Visibility,
		Tags:        record.ParsedTags(),
		ChangeNotes: record.ChangeNotes,
		ContentPath: record.ContentPath,
		PreviewPath: record.PreviewImagePath,
		Succeeded:   opErr == nil,
	}
	if itemID != 0 {
		entry.ItemID = strconv.FormatUint(itemID, 10)
	}
	if opErr != nil {
		entry.Message = opErr.Error()
	}
	s.addHistory(ctx, entry)
}

func (s *Service) addHistory(ctx context.Context, entry *domain.HistoryEntry) {
	entry.ID = id.MustGenerate("hist")
	entry.CreatedAt = time.Now()

	if err := s.store.AddHistory(ctx, entry); err != nil {
		s.logger.Error("failed to record history entry",
			"action", entry.Action,
			"item_id", entry.ItemID,
			"error", err,
		)
		return
	}
	s.events.UploadCompleted(entry)
}

func parseItemID(s string) (uint64, error) {
	itemID, err := strconv.ParseUint(s, 10, 64)
	if err != nil || itemID == 0 {
		return 0, errors.Validationf("invalid workshop item ID %q", s)
	}
	return itemID, nil
}

// isStaleSession recognizes remote failures that mean the attach went
// stale rather than the operation being wrong.
func isStaleSession(err error) bool {
	var re *steam.ResultError
	return errors.As(err, &re) && re.AuthFlavored()
}

func remoteError(op string, err error) error {
	return errors.Remotef("%s failed", op).WithCause(err)
}
