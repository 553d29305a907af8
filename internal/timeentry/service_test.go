package timeentry_test

import (
	"errors"
	"log/slog"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/project-tracking/internal/auth"
	"github.com/frahmantamala/project-tracking/internal/timeentry"
)

func TestTimeEntry(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "TimeEntry Suite")
}

type mockTimeEntryRepo struct {
	entries     map[string]*timeentry.TimeEntry
	createError error
	getError    error
	updateError error
}

func newMockTimeEntryRepo() *mockTimeEntryRepo {
	return &mockTimeEntryRepo{entries: make(map[string]*timeentry.TimeEntry)}
}

func (m *mockTimeEntryRepo) Create(entry *timeentry.TimeEntry) error {
	if m.createError != nil {
		return m.createError
	}
	for _, e := range m.entries {
		if e.UserID == entry.UserID && e.IsOpen() {
			return timeentry.ErrAlreadyCheckedIn
		}
	}
	copied := *entry
	m.entries[entry.ID] = &copied
	return nil
}

func (m *mockTimeEntryRepo) GetByID(id string) (*timeentry.TimeEntry, error) {
	if m.getError != nil {
		return nil, m.getError
	}
	e, ok := m.entries[id]
	if !ok {
		return nil, timeentry.ErrEntryNotFound
	}
	copied := *e
	return &copied, nil
}

func (m *mockTimeEntryRepo) GetActiveByUserID(userID string) (*timeentry.TimeEntry, error) {
	if m.getError != nil {
		return nil, m.getError
	}
	for _, e := range m.entries {
		if e.UserID == userID && e.IsOpen() {
			copied := *e
			return &copied, nil
		}
	}
	return nil, nil
}

func (m *mockTimeEntryRepo) Update(entry *timeentry.TimeEntry) error {
	if m.updateError != nil {
		return m.updateError
	}
	copied := *entry
	m.entries[entry.ID] = &copied
	return nil
}

func (m *mockTimeEntryRepo) Delete(id string) error {
	if _, ok := m.entries[id]; !ok {
		return timeentry.ErrEntryNotFound
	}
	delete(m.entries, id)
	return nil
}

func (m *mockTimeEntryRepo) ListByUser(userID string, start, end *time.Time) ([]*timeentry.TimeEntry, error) {
	var result []*timeentry.TimeEntry
	for _, e := range m.entries {
		if e.UserID != userID {
			continue
		}
		if start != nil && e.CheckIn.Before(*start) {
			continue
		}
		if end != nil && e.CheckIn.After(*end) {
			continue
		}
		copied := *e
		result = append(result, &copied)
	}
	return result, nil
}

func (m *mockTimeEntryRepo) ListClosedByProject(projectID string) ([]*timeentry.TimeEntry, error) {
	var result []*timeentry.TimeEntry
	for _, e := range m.entries {
		if e.ProjectID != nil && *e.ProjectID == projectID && !e.IsOpen() {
			copied := *e
			result = append(result, &copied)
		}
	}
	return result, nil
}

func (m *mockTimeEntryRepo) SumClosedDurationSince(userID string, from, until time.Time) (int64, error) {
	var total int64
	for _, e := range m.entries {
		if e.UserID != userID || e.IsOpen() || e.DurationMinutes == nil {
			continue
		}
		if e.CheckIn.Before(from) || e.CheckIn.After(until) {
			continue
		}
		total += *e.DurationMinutes
	}
	return total, nil
}

var _ = Describe("TimeEntry Service", func() {
	var (
		repo    *mockTimeEntryRepo
		service *timeentry.Service
		now     time.Time
	)

	// Wednesday 2025-03-12 17:30 local time.
	reference := time.Date(2025, 3, 12, 17, 30, 0, 0, time.Local)

	newService := func() *timeentry.Service {
		return timeentry.NewServiceWithClock(repo, nil, slog.Default(), func() time.Time {
			return now
		})
	}

	BeforeEach(func() {
		repo = newMockTimeEntryRepo()
		now = reference
		service = newService()
	})

	Describe("CheckIn", func() {
		It("opens an entry stamped with the current time", func() {
			now = time.Date(2025, 3, 12, 9, 0, 0, 0, time.Local)

			entry, err := service.CheckIn("user-1", timeentry.CheckInDTO{})
			Expect(err).NotTo(HaveOccurred())
			Expect(entry.ID).NotTo(BeEmpty())
			Expect(entry.CheckIn).To(Equal(now))
			Expect(entry.IsOpen()).To(BeTrue())
			Expect(entry.DurationMinutes).To(BeNil())
			Expect(entry.IsBillable).To(BeTrue())
		})

		It("rejects a second check-in while one entry is open", func() {
			_, err := service.CheckIn("user-1", timeentry.CheckInDTO{})
			Expect(err).NotTo(HaveOccurred())

			_, err = service.CheckIn("user-1", timeentry.CheckInDTO{})
			Expect(err).To(MatchError(timeentry.ErrAlreadyCheckedIn))
		})

		It("lets different users hold open entries at the same time", func() {
			_, err := service.CheckIn("user-1", timeentry.CheckInDTO{})
			Expect(err).NotTo(HaveOccurred())

			_, err = service.CheckIn("user-2", timeentry.CheckInDTO{})
			Expect(err).NotTo(HaveOccurred())
		})

		It("surfaces the storage-level conflict when the pre-check races", func() {
			repo.createError = timeentry.ErrAlreadyCheckedIn

			_, err := service.CheckIn("user-1", timeentry.CheckInDTO{})
			Expect(err).To(MatchError(timeentry.ErrAlreadyCheckedIn))
		})

		It("allows a new check-in after checking out", func() {
			entry, err := service.CheckIn("user-1", timeentry.CheckInDTO{})
			Expect(err).NotTo(HaveOccurred())

			now = now.Add(time.Hour)
			_, err = service.CheckOut(entry.ID, "user-1")
			Expect(err).NotTo(HaveOccurred())

			_, err = service.CheckIn("user-1", timeentry.CheckInDTO{})
			Expect(err).NotTo(HaveOccurred())
		})
	})

	Describe("CheckOut", func() {
		It("computes duration in whole minutes, truncated", func() {
			now = time.Date(2025, 3, 12, 9, 0, 0, 0, time.Local)
			entry, err := service.CheckIn("user-1", timeentry.CheckInDTO{})
			Expect(err).NotTo(HaveOccurred())

			now = time.Date(2025, 3, 12, 17, 30, 0, 0, time.Local)
			closed, err := service.CheckOut(entry.ID, "user-1")
			Expect(err).NotTo(HaveOccurred())
			Expect(closed.IsOpen()).To(BeFalse())
			Expect(closed.DurationMinutes).NotTo(BeNil())
			Expect(*closed.DurationMinutes).To(Equal(int64(510)))
		})

		It("truncates seconds rather than rounding up", func() {
			now = time.Date(2025, 3, 12, 9, 0, 0, 0, time.Local)
			entry, err := service.CheckIn("user-1", timeentry.CheckInDTO{})
			Expect(err).NotTo(HaveOccurred())

			now = now.Add(29*time.Minute + 59*time.Second)
			closed, err := service.CheckOut(entry.ID, "user-1")
			Expect(err).NotTo(HaveOccurred())
			Expect(*closed.DurationMinutes).To(Equal(int64(29)))
		})

		It("rejects closing someone else's entry", func() {
			entry, err := service.CheckIn("user-1", timeentry.CheckInDTO{})
			Expect(err).NotTo(HaveOccurred())

			_, err = service.CheckOut(entry.ID, "user-2")
			Expect(err).To(MatchError(timeentry.ErrNotEntryOwner))

			// the entry stays open for its owner
			active, err := service.GetActive("user-1")
			Expect(err).NotTo(HaveOccurred())
			Expect(active).NotTo(BeNil())
		})

		It("rejects a double check-out", func() {
			entry, err := service.CheckIn("user-1", timeentry.CheckInDTO{})
			Expect(err).NotTo(HaveOccurred())

			now = now.Add(time.Hour)
			_, err = service.CheckOut(entry.ID, "user-1")
			Expect(err).NotTo(HaveOccurred())

			_, err = service.CheckOut(entry.ID, "user-1")
			Expect(err).To(MatchError(timeentry.ErrAlreadyCheckedOut))
		})

		It("fails for an unknown entry", func() {
			_, err := service.CheckOut("missing", "user-1")
			Expect(err).To(MatchError(timeentry.ErrEntryNotFound))
		})
	})

	Describe("GetActive", func() {
		It("returns nil when the user has no open entry", func() {
			entry, err := service.GetActive("user-1")
			Expect(err).NotTo(HaveOccurred())
			Expect(entry).To(BeNil())
		})
	})

	Describe("WeeklyHours", func() {
		// The week containing the reference Wednesday starts Sunday
		// 2025-03-09 00:00 local.
		weekStart := time.Date(2025, 3, 9, 0, 0, 0, 0, time.Local)

		closeEntry := func(userID string, checkIn time.Time, minutes int64) {
			now = checkIn
			entry, err := service.CheckIn(userID, timeentry.CheckInDTO{})
			Expect(err).NotTo(HaveOccurred())

			now = checkIn.Add(time.Duration(minutes) * time.Minute)
			_, err = service.CheckOut(entry.ID, userID)
			Expect(err).NotTo(HaveOccurred())
		}

		It("sums closed minutes since Sunday and rounds to one decimal", func() {
			closeEntry("user-1", weekStart.Add(33*time.Hour), 125)
			closeEntry("user-1", weekStart.Add(57*time.Hour), 300)

			now = reference
			hours, err := service.WeeklyHours("user-1", reference)
			Expect(err).NotTo(HaveOccurred())
			// 425 minutes -> 7.083 -> 7.1
			Expect(hours).To(Equal(7.1))
		})

		It("excludes entries checked in before the week started", func() {
			closeEntry("user-1", weekStart.Add(-10*time.Hour), 240)
			closeEntry("user-1", weekStart.Add(30*time.Hour), 60)

			now = reference
			hours, err := service.WeeklyHours("user-1", reference)
			Expect(err).NotTo(HaveOccurred())
			Expect(hours).To(Equal(1.0))
		})

		It("ignores the still-open entry", func() {
			closeEntry("user-1", weekStart.Add(30*time.Hour), 120)

			now = reference
			_, err := service.CheckIn("user-1", timeentry.CheckInDTO{})
			Expect(err).NotTo(HaveOccurred())

			hours, err := service.WeeklyHours("user-1", reference)
			Expect(err).NotTo(HaveOccurred())
			Expect(hours).To(Equal(2.0))
		})

		It("returns zero for an empty week", func() {
			hours, err := service.WeeklyHours("user-1", reference)
			Expect(err).NotTo(HaveOccurred())
			Expect(hours).To(BeZero())
		})
	})

	Describe("StartOfWeek", func() {
		It("rolls back to the most recent Sunday midnight", func() {
			ref := time.Date(2025, 3, 12, 17, 30, 0, 0, time.Local)
			Expect(timeentry.StartOfWeek(ref)).To(Equal(time.Date(2025, 3, 9, 0, 0, 0, 0, time.Local)))
		})

		It("is idempotent on a Sunday", func() {
			sunday := time.Date(2025, 3, 9, 13, 45, 0, 0, time.Local)
			Expect(timeentry.StartOfWeek(sunday)).To(Equal(time.Date(2025, 3, 9, 0, 0, 0, 0, time.Local)))
		})
	})

	Describe("ListProjectEntries", func() {
		It("denies roles without the company-wide view", func() {
			_, err := service.ListProjectEntries("project-1", auth.RoleTeamMember)
			Expect(err).To(MatchError(timeentry.ErrViewAllForbidden))
		})

		It("returns only closed entries for permitted roles", func() {
			projectID := "project-1"
			now = reference
			entry, err := service.CheckIn("user-1", timeentry.CheckInDTO{ProjectID: &projectID})
			Expect(err).NotTo(HaveOccurred())

			now = now.Add(time.Hour)
			_, err = service.CheckOut(entry.ID, "user-1")
			Expect(err).NotTo(HaveOccurred())

			_, err = service.CheckIn("user-2", timeentry.CheckInDTO{ProjectID: &projectID})
			Expect(err).NotTo(HaveOccurred())

			entries, err := service.ListProjectEntries(projectID, auth.RoleProjectManager)
			Expect(err).NotTo(HaveOccurred())
			Expect(entries).To(HaveLen(1))
			Expect(entries[0].IsOpen()).To(BeFalse())
		})
	})

	Describe("DeleteEntry", func() {
		It("removes an owned entry", func() {
			entry, err := service.CheckIn("user-1", timeentry.CheckInDTO{})
			Expect(err).NotTo(HaveOccurred())

			Expect(service.DeleteEntry(entry.ID, "user-1")).To(Succeed())

			_, err = service.CheckOut(entry.ID, "user-1")
			Expect(err).To(MatchError(timeentry.ErrEntryNotFound))
		})

		It("rejects deleting someone else's entry", func() {
			entry, err := service.CheckIn("user-1", timeentry.CheckInDTO{})
			Expect(err).NotTo(HaveOccurred())

			err = service.DeleteEntry(entry.ID, "user-2")
			Expect(err).To(MatchError(timeentry.ErrNotEntryOwner))
		})
	})

	Describe("error propagation", func() {
		It("propagates unexpected storage failures on check-in", func() {
			repo.getError = errors.New("db down")

			_, err := service.CheckIn("user-1", timeentry.CheckInDTO{})
			Expect(err).To(HaveOccurred())
			Expect(errors.Is(err, timeentry.ErrAlreadyCheckedIn)).To(BeFalse())
		})
	})
})
