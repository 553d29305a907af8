package timeentry

import (
	"context"
	"log/slog"
	"math"
	"time"

	"github.com/frahmantamala/project-tracking/internal/auth"
	"github.com/frahmantamala/project-tracking/internal/core/events"
	"github.com/google/uuid"
)

// Repository defines the data access methods for time entries. All lookups are
// tenant-scoped by the storage layer; the service only ever passes IDs that
// belong to the caller's company.
type Repository interface {
	Create(entry *TimeEntry) error
	GetByID(id string) (*TimeEntry, error)
	// GetActiveByUserID returns the single open entry for the user, or nil
	// when there is none. If concurrent writers ever violated the invariant
	// it returns the entry with the most recent check_in.
	GetActiveByUserID(userID string) (*TimeEntry, error)
	Update(entry *TimeEntry) error
	Delete(id string) error
	ListByUser(userID string, start, end *time.Time) ([]*TimeEntry, error)
	ListClosedByProject(projectID string) ([]*TimeEntry, error)
	// SumClosedDurationSince totals duration_minutes over closed entries whose
	// check_in falls within [from, until].
	SumClosedDurationSince(userID string, from, until time.Time) (int64, error)
}

// Service is the time entry ledger. It owns the one-open-entry-per-user
// invariant: the GetActive pre-check is a fast path for a friendly error, and
// the storage layer's partial unique index closes the race between concurrent
// check-ins.
type Service struct {
	repo   Repository
	events *events.EventBus
	logger *slog.Logger
	now    func() time.Time
}

func NewService(repo Repository, bus *events.EventBus, logger *slog.Logger) *Service {
	return NewServiceWithClock(repo, bus, logger, time.Now)
}

// NewServiceWithClock injects the clock so duration and week-window behavior
// is deterministic under test.
func NewServiceWithClock(repo Repository, bus *events.EventBus, logger *slog.Logger, now func() time.Time) *Service {
	return &Service{
		repo:   repo,
		events: bus,
		logger: logger,
		now:    now,
	}
}

// GetActive returns the caller's open entry, or nil when checked out.
func (s *Service) GetActive(userID string) (*TimeEntry, error) {
	entry, err := s.repo.GetActiveByUserID(userID)
	if err != nil {
		s.logger.Error("failed to get active time entry", "error", err, "user_id", userID)
		return nil, err
	}
	return entry, nil
}

// CheckIn opens a new entry for the user. Fails with ErrAlreadyCheckedIn when
// an open entry exists; this is a recoverable, user-facing condition.
func (s *Service) CheckIn(userID string, dto CheckInDTO) (*TimeEntry, error) {
	if err := dto.Validate(); err != nil {
		s.logger.Error("check-in validation failed", "error", err, "user_id", userID)
		return nil, err
	}

	active, err := s.repo.GetActiveByUserID(userID)
	if err != nil {
		s.logger.Error("failed to check for active entry", "error", err, "user_id", userID)
		return nil, err
	}
	if active != nil {
		s.logger.Warn("check-in rejected: active entry exists",
			"user_id", userID,
			"active_entry_id", active.ID)
		return nil, ErrAlreadyCheckedIn
	}

	now := s.now()
	entry := &TimeEntry{
		ID:         uuid.NewString(),
		UserID:     userID,
		ProjectID:  dto.ProjectID,
		TicketID:   dto.TicketID,
		CheckIn:    now,
		Notes:      dto.Notes,
		IsBillable: dto.Billable(),
		CreatedAt:  now,
	}

	// The repository maps a unique violation on the open-entry index back to
	// ErrAlreadyCheckedIn, so a race between two check-ins loses cleanly here.
	if err := s.repo.Create(entry); err != nil {
		s.logger.Error("failed to create time entry", "error", err, "user_id", userID)
		return nil, err
	}

	s.logger.Info("checked in",
		"entry_id", entry.ID,
		"user_id", userID,
		"project_id", dto.ProjectID)

	s.publishActivity(userID, events.ActionCheckedIn, entry.ID)

	return entry, nil
}

// CheckOut closes the entry and derives its duration. The caller must own the
// entry; ownership is enforced here rather than trusted to the transport.
func (s *Service) CheckOut(entryID, callerID string) (*TimeEntry, error) {
	entry, err := s.repo.GetByID(entryID)
	if err != nil {
		s.logger.Error("time entry not found for check-out", "error", err, "entry_id", entryID)
		return nil, ErrEntryNotFound
	}

	if entry.UserID != callerID {
		s.logger.Warn("check-out rejected: caller does not own entry",
			"entry_id", entryID,
			"owner_id", entry.UserID,
			"caller_id", callerID)
		return nil, ErrNotEntryOwner
	}

	if !entry.IsOpen() {
		s.logger.Warn("check-out rejected: entry already closed", "entry_id", entryID)
		return nil, ErrAlreadyCheckedOut
	}

	entry.Close(s.now())

	if err := s.repo.Update(entry); err != nil {
		s.logger.Error("failed to close time entry", "error", err, "entry_id", entryID)
		return nil, err
	}

	s.logger.Info("checked out",
		"entry_id", entry.ID,
		"user_id", entry.UserID,
		"duration_minutes", *entry.DurationMinutes)

	s.publishActivity(callerID, events.ActionCheckedOut, entry.ID)

	return entry, nil
}

// ListEntries returns the user's entries newest check_in first, optionally
// bounded by an inclusive window over check_in.
func (s *Service) ListEntries(userID string, dto ListEntriesDTO) ([]*TimeEntry, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	entries, err := s.repo.ListByUser(userID, dto.Start, dto.End)
	if err != nil {
		s.logger.Error("failed to list time entries", "error", err, "user_id", userID)
		return nil, err
	}

	return entries, nil
}

// ListProjectEntries returns all closed entries of a project. Reading other
// users' entries is gated on time.view_all; the evaluator result is
// translated into a typed failure here, at the caller boundary.
func (s *Service) ListProjectEntries(projectID string, callerRole auth.Role) ([]*TimeEntry, error) {
	if !auth.CanViewAllTimeEntries(callerRole) {
		s.logger.Warn("project entries denied: missing time.view_all", "project_id", projectID, "role", callerRole)
		return nil, ErrViewAllForbidden
	}

	entries, err := s.repo.ListClosedByProject(projectID)
	if err != nil {
		s.logger.Error("failed to list project time entries", "error", err, "project_id", projectID)
		return nil, err
	}

	return entries, nil
}

// WeeklyHours sums closed-entry minutes since the most recent Sunday 00:00:00
// local time relative to ref, and returns hours rounded to one decimal.
// Still-open entries contribute nothing.
func (s *Service) WeeklyHours(userID string, ref time.Time) (float64, error) {
	weekStart := StartOfWeek(ref)

	minutes, err := s.repo.SumClosedDurationSince(userID, weekStart, s.now())
	if err != nil {
		s.logger.Error("failed to sum weekly duration", "error", err, "user_id", userID)
		return 0, err
	}

	return math.Round(float64(minutes)/60*10) / 10, nil
}

// DeleteEntry removes an entry the caller owns.
func (s *Service) DeleteEntry(entryID, callerID string) error {
	entry, err := s.repo.GetByID(entryID)
	if err != nil {
		return ErrEntryNotFound
	}

	if entry.UserID != callerID {
		s.logger.Warn("delete rejected: caller does not own entry",
			"entry_id", entryID,
			"owner_id", entry.UserID,
			"caller_id", callerID)
		return ErrNotEntryOwner
	}

	if err := s.repo.Delete(entryID); err != nil {
		s.logger.Error("failed to delete time entry", "error", err, "entry_id", entryID)
		return err
	}

	s.publishActivity(callerID, events.ActionDeleted, entryID)

	return nil
}

// StartOfWeek returns the most recent Sunday 00:00:00 in ref's location.
func StartOfWeek(ref time.Time) time.Time {
	midnight := time.Date(ref.Year(), ref.Month(), ref.Day(), 0, 0, 0, 0, ref.Location())
	return midnight.AddDate(0, 0, -int(ref.Weekday()))
}

func (s *Service) publishActivity(userID, action, entryID string) {
	if s.events == nil {
		return
	}
	event := events.NewActivityRecordedEvent(userID, action, "time_entry", entryID, nil)
	if err := s.events.Publish(context.Background(), event); err != nil {
		s.logger.Error("failed to publish activity event", "error", err, "entry_id", entryID)
	}
}
