package domain

import (
	"context"
	"fmt"
	"time"

	"stationdesk/internal/core/apperror"
	appctx "stationdesk/internal/core/context"
	"stationdesk/internal/core/entity"
	"stationdesk/internal/core/id"
	"stationdesk/internal/core/tx"
	"stationdesk/pkg/logger"
)

// RecordService provides the shared lifecycle for every record type:
// validation, hooks, audit stamping, transactional write plus outbox event.
type RecordService[T entity.Record] struct {
	repo      RecordRepository[T]
	txManager tx.Manager
	events    EventPublisher
	hooks     *HookRegistry[T]
	now       func() time.Time

	// entityName for error messages
	entityName string
	// aggregateType is the outbox aggregate name (snake_case)
	aggregateType string
}

// RecordServiceConfig configures the record service.
type RecordServiceConfig[T entity.Record] struct {
	Repo          RecordRepository[T]
	TxManager     tx.Manager
	Events        EventPublisher
	EntityName    string
	AggregateType string
}

// NewRecordService creates a new record service.
func NewRecordService[T entity.Record](cfg RecordServiceConfig[T]) *RecordService[T] {
	events := cfg.Events
	if events == nil {
		events = NopPublisher{}
	}
	txm := cfg.TxManager
	if txm == nil {
		txm = tx.Noop{}
	}
	return &RecordService[T]{
		repo:          cfg.Repo,
		txManager:     txm,
		events:        events,
		hooks:         NewHookRegistry[T](),
		now:           func() time.Time { return time.Now().UTC() },
		entityName:    cfg.EntityName,
		aggregateType: cfg.AggregateType,
	}
}

// Hooks returns the hook registry for external registration.
func (s *RecordService[T]) Hooks() *HookRegistry[T] {
	return s.hooks
}

// Repo exposes the repository to the embedding record service.
func (s *RecordService[T]) Repo() RecordRepository[T] {
	return s.repo
}

// TxManager exposes the transaction manager to the embedding record service.
func (s *RecordService[T]) TxManager() tx.Manager {
	return s.txManager
}

// EntityName is used in error messages.
func (s *RecordService[T]) EntityName() string {
	return s.entityName
}

// SetClock replaces the time source. Tests only.
func (s *RecordService[T]) SetClock(now func() time.Time) {
	s.now = now
}

// Now returns the service clock.
func (s *RecordService[T]) Now() time.Time {
	return s.now()
}

func (s *RecordService[T]) normalizeValidationErr(err error) error {
	if err == nil {
		return nil
	}
	if apperror.IsAppError(err) {
		return err
	}
	return apperror.NewValidation(err.Error())
}

// NormalizeGetErr maps repository lookup errors to API-facing errors.
func (s *RecordService[T]) NormalizeGetErr(err error, key any) error {
	if err == nil {
		return nil
	}
	if apperror.IsNotFound(err) {
		return apperror.NewNotFound(s.entityName, key)
	}
	if apperror.IsAppError(err) {
		return err
	}
	return apperror.NewInternal(err).WithDetail("entity", s.entityName).WithDetail("id", key)
}

// Emit writes an outbox event for rec; must run inside a transaction.
func (s *RecordService[T]) Emit(ctx context.Context, eventType string, rec T) error {
	if err := s.events.Publish(ctx, Event{
		AggregateType: s.aggregateType,
		AggregateID:   rec.GetID(),
		EventType:     eventType,
		Payload:       rec,
	}); err != nil {
		return fmt.Errorf("publish %s.%s: %w", s.aggregateType, eventType, err)
	}
	return nil
}

// GetLive loads recID for a write. Soft-deleted records are reported as
// not found.
func (s *RecordService[T]) GetLive(ctx context.Context, recID id.ID) (T, error) {
	rec, err := s.repo.GetByID(ctx, recID)
	if err != nil {
		return rec, s.NormalizeGetErr(err, recID.String())
	}
	if rec.Base().DeletionMark {
		var zero T
		return zero, apperror.NewNotFound(s.entityName, recID.String())
	}
	return rec, nil
}

// Create validates and stores a new record.
func (s *RecordService[T]) Create(ctx context.Context, rec T) error {
	rec.Stamp(appctx.GetUserID(ctx), s.now(), true)

	if err := rec.Validate(ctx); err != nil {
		return s.normalizeValidationErr(err)
	}

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.hooks.Run(ctx, BeforeCreate, rec); err != nil {
			return err
		}
		if err := s.repo.Create(ctx, rec); err != nil {
			return fmt.Errorf("create %s: %w", s.entityName, err)
		}
		return s.Emit(ctx, EventCreated, rec)
	})
	if err != nil {
		return err
	}

	if err := s.hooks.Run(ctx, AfterCreate, rec); err != nil {
		logger.Warn(ctx, "after-create hook failed", "entity", s.entityName, "id", rec.GetID(), "error", err)
	}
	return nil
}

// GetByID retrieves record by ID.
func (s *RecordService[T]) GetByID(ctx context.Context, recID id.ID) (T, error) {
	rec, err := s.repo.GetByID(ctx, recID)
	if err != nil {
		return rec, s.NormalizeGetErr(err, recID.String())
	}
	return rec, nil
}

// Update validates and stores rec. rec.Version must be the version the
// caller read; a stale version yields CONCURRENT_MODIFICATION.
func (s *RecordService[T]) Update(ctx context.Context, rec T) error {
	rec.Stamp(appctx.GetUserID(ctx), s.now(), false)

	if err := rec.Validate(ctx); err != nil {
		return s.normalizeValidationErr(err)
	}

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		stored, err := s.GetLive(ctx, rec.GetID())
		if err != nil {
			return err
		}
		if err := s.hooks.RunChange(ctx, stored, rec); err != nil {
			return err
		}
		if err := s.hooks.Run(ctx, BeforeUpdate, rec); err != nil {
			return err
		}
		if err := s.repo.Update(ctx, rec); err != nil {
			return fmt.Errorf("update %s: %w", s.entityName, err)
		}
		rec.SetVersion(rec.GetVersion() + 1)
		return s.Emit(ctx, EventUpdated, rec)
	})
	if err != nil {
		return err
	}

	if err := s.hooks.Run(ctx, AfterUpdate, rec); err != nil {
		logger.Warn(ctx, "after-update hook failed", "entity", s.entityName, "id", rec.GetID(), "error", err)
	}
	return nil
}

// Delete performs soft delete. Deleting a deleted record is NOT_FOUND.
func (s *RecordService[T]) Delete(ctx context.Context, recID id.ID) error {
	var rec T
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		var err error
		if rec, err = s.GetLive(ctx, recID); err != nil {
			return err
		}
		if err := s.hooks.Run(ctx, BeforeDelete, rec); err != nil {
			return err
		}
		if err := s.repo.SetDeletionMark(ctx, recID, true); err != nil {
			return fmt.Errorf("delete %s: %w", s.entityName, err)
		}
		return s.Emit(ctx, EventDeleted, rec)
	})
	if err != nil {
		return err
	}

	if err := s.hooks.Run(ctx, AfterDelete, rec); err != nil {
		logger.Warn(ctx, "after-delete hook failed", "entity", s.entityName, "id", recID, "error", err)
	}
	return nil
}

// List retrieves records with the list contract applied.
func (s *RecordService[T]) List(ctx context.Context, filter ListFilter) (ListResult[T], error) {
	if err := filter.Normalize(); err != nil {
		return ListResult[T]{}, err
	}
	return s.repo.List(ctx, filter)
}
