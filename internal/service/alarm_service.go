package service

import (
	"context"
	"fmt"

	"mantelzorg-engine/internal/models"
	"mantelzorg-engine/internal/repository"

	"go.uber.org/zap"
)

// AlarmTriageService is the staff-facing alarm workflow: list and
// inspect events, mark them handled, reopen them, attach notes.
// Handled events stay in the audit trail and reappear in open views
// only after a reopen.
type AlarmTriageService struct {
	alarmEventsRepo *repository.AlarmEventsRepository
	logger          *zap.Logger
}

// NewAlarmTriageService creates the service.
func NewAlarmTriageService(
	alarmEventsRepo *repository.AlarmEventsRepository,
	logger *zap.Logger,
) *AlarmTriageService {
	return &AlarmTriageService{
		alarmEventsRepo: alarmEventsRepo,
		logger:          logger,
	}
}

// ListAlarmEvents lists events with filtering and paging. Default order
// is descending urgency then recency.
func (s *AlarmTriageService) ListAlarmEvents(
	ctx context.Context,
	filters repository.AlarmEventFilters,
	page, size int,
) ([]*models.AlarmEvent, int, error) {
	if page <= 0 {
		page = 1
	}
	if size <= 0 {
		size = 20
	}
	if size > 100 {
		size = 100
	}

	events, total, err := s.alarmEventsRepo.ListAlarmEvents(ctx, filters, page, size)
	if err != nil {
		s.logger.Error("Failed to list alarm events",
			zap.Error(err),
		)
		return nil, 0, fmt.Errorf("failed to list alarm events: %w", err)
	}

	return events, total, nil
}

// ListOpenAlarmEvents lists only unhandled events.
func (s *AlarmTriageService) ListOpenAlarmEvents(
	ctx context.Context,
	filters repository.AlarmEventFilters,
	page, size int,
) ([]*models.AlarmEvent, int, error) {
	open := false
	filters.Handled = &open
	return s.ListAlarmEvents(ctx, filters, page, size)
}

// GetAlarmEvent fetches one event.
func (s *AlarmTriageService) GetAlarmEvent(ctx context.Context, eventID string) (*models.AlarmEvent, error) {
	if eventID == "" {
		return nil, fmt.Errorf("event_id is required")
	}

	event, err := s.alarmEventsRepo.GetAlarmEvent(ctx, eventID)
	if err != nil {
		s.logger.Error("Failed to get alarm event",
			zap.String("event_id", eventID),
			zap.Error(err),
		)
		return nil, fmt.Errorf("failed to get alarm event: %w", err)
	}

	return event, nil
}

// HandleAlarmEvent marks an event handled. Concurrent handle/reopen by
// two staff members is last-writer-wins; the data is curated, not
// safety-critical in real time.
func (s *AlarmTriageService) HandleAlarmEvent(ctx context.Context, eventID, handlerID string, note *string) error {
	if eventID == "" {
		return fmt.Errorf("event_id is required")
	}
	if handlerID == "" {
		return fmt.Errorf("handler_id is required")
	}

	if err := s.alarmEventsRepo.HandleAlarmEvent(ctx, eventID, handlerID, note); err != nil {
		s.logger.Error("Failed to handle alarm event",
			zap.String("event_id", eventID),
			zap.String("handler_id", handlerID),
			zap.Error(err),
		)
		return fmt.Errorf("failed to handle alarm event: %w", err)
	}

	s.logger.Info("Alarm event handled",
		zap.String("event_id", eventID),
		zap.String("handler_id", handlerID),
	)
	return nil
}

// ReopenAlarmEvent reverses a handled toggle.
func (s *AlarmTriageService) ReopenAlarmEvent(ctx context.Context, eventID string) error {
	if eventID == "" {
		return fmt.Errorf("event_id is required")
	}

	if err := s.alarmEventsRepo.ReopenAlarmEvent(ctx, eventID); err != nil {
		s.logger.Error("Failed to reopen alarm event",
			zap.String("event_id", eventID),
			zap.Error(err),
		)
		return fmt.Errorf("failed to reopen alarm event: %w", err)
	}

	s.logger.Info("Alarm event reopened",
		zap.String("event_id", eventID),
	)
	return nil
}

// AttachNote sets or replaces the staff note on an event.
func (s *AlarmTriageService) AttachNote(ctx context.Context, eventID, note string) error {
	if eventID == "" {
		return fmt.Errorf("event_id is required")
	}
	if note == "" {
		return fmt.Errorf("note is required")
	}

	if err := s.alarmEventsRepo.AttachNote(ctx, eventID, note); err != nil {
		s.logger.Error("Failed to attach note",
			zap.String("event_id", eventID),
			zap.Error(err),
		)
		return fmt.Errorf("failed to attach note: %w", err)
	}

	return nil
}
