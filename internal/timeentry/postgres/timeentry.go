package postgres

import (
	"errors"
	"time"

	timeentryDatamodel "github.com/frahmantamala/project-tracking/internal/core/datamodel/timeentry"
	"github.com/frahmantamala/project-tracking/internal/timeentry"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const pgUniqueViolation = "23505"

// TimeEntryRepository implements the timeentry.Repository interface using GORM.
type TimeEntryRepository struct {
	db *gorm.DB
}

func NewTimeEntryRepository(db *gorm.DB) timeentry.Repository {
	return &TimeEntryRepository{db: db}
}

// Create inserts a new entry. The partial unique index
// ux_time_entries_one_open on (user_id) where check_out is null is the hard
// guard for the one-open-entry invariant; a violation surfaces as
// ErrAlreadyCheckedIn so the race between two concurrent check-ins loses
// with the same error the pre-check produces.
func (r *TimeEntryRepository) Create(entry *timeentry.TimeEntry) error {
	err := r.db.Create(timeentry.ToDataModel(entry)).Error
	if err != nil && isUniqueViolation(err) {
		return timeentry.ErrAlreadyCheckedIn
	}
	return err
}

func (r *TimeEntryRepository) GetByID(id string) (*timeentry.TimeEntry, error) {
	var row timeentryDatamodel.TimeEntry
	err := r.db.Where("id = ?", id).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, timeentry.ErrEntryNotFound
		}
		return nil, err
	}
	return timeentry.FromDataModel(&row), nil
}

// GetActiveByUserID returns the user's open entry or nil. Ordering by
// check_in desc is a defensive tie-break in case the invariant was ever
// violated by writers that bypassed the unique index.
func (r *TimeEntryRepository) GetActiveByUserID(userID string) (*timeentry.TimeEntry, error) {
	var row timeentryDatamodel.TimeEntry
	err := r.db.Where("user_id = ? AND check_out IS NULL", userID).
		Order("check_in DESC").
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return timeentry.FromDataModel(&row), nil
}

func (r *TimeEntryRepository) Update(entry *timeentry.TimeEntry) error {
	return r.db.Save(timeentry.ToDataModel(entry)).Error
}

func (r *TimeEntryRepository) Delete(id string) error {
	result := r.db.Where("id = ?", id).Delete(&timeentryDatamodel.TimeEntry{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return timeentry.ErrEntryNotFound
	}
	return nil
}

func (r *TimeEntryRepository) ListByUser(userID string, start, end *time.Time) ([]*timeentry.TimeEntry, error) {
	query := r.db.Where("user_id = ?", userID)

	if start != nil {
		query = query.Where("check_in >= ?", *start)
	}
	if end != nil {
		query = query.Where("check_in <= ?", *end)
	}

	var rows []*timeentryDatamodel.TimeEntry
	err := query.Order("check_in DESC").Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return timeentry.FromDataModelSlice(rows), nil
}

func (r *TimeEntryRepository) ListClosedByProject(projectID string) ([]*timeentry.TimeEntry, error) {
	var rows []*timeentryDatamodel.TimeEntry
	err := r.db.Where("project_id = ? AND check_out IS NOT NULL", projectID).
		Order("check_in DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return timeentry.FromDataModelSlice(rows), nil
}

func (r *TimeEntryRepository) SumClosedDurationSince(userID string, from, until time.Time) (int64, error) {
	var total *int64
	err := r.db.Model(&timeentryDatamodel.TimeEntry{}).
		Select("SUM(duration_minutes)").
		Where("user_id = ? AND check_out IS NOT NULL AND check_in >= ? AND check_in <= ?", userID, from, until).
		Scan(&total).Error
	if err != nil {
		return 0, err
	}
	if total == nil {
		return 0, nil
	}
	return *total, nil
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}
	return false
}
