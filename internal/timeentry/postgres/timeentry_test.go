package postgres

import (
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/frahmantamala/project-tracking/internal/timeentry"
)

func TestTimeEntryRepository(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "TimeEntryRepository Suite")
}

type SQLiteTimeEntry struct {
	ID              string     `gorm:"primaryKey"`
	UserID          string     `gorm:"column:user_id;not null"`
	ProjectID       *string    `gorm:"column:project_id"`
	TicketID        *string    `gorm:"column:ticket_id"`
	CheckIn         time.Time  `gorm:"column:check_in;not null"`
	CheckOut        *time.Time `gorm:"column:check_out"`
	DurationMinutes *int64     `gorm:"column:duration_minutes"`
	Notes           *string    `gorm:"column:notes"`
	IsBillable      bool       `gorm:"column:is_billable;default:true"`
	CreatedAt       time.Time  `gorm:"column:created_at"`
}

func (SQLiteTimeEntry) TableName() string {
	return "time_entries"
}

var _ = Describe("TimeEntryRepository", func() {
	var (
		db   *gorm.DB
		repo timeentry.Repository
	)

	newEntry := func(id, userID string, checkIn time.Time) *timeentry.TimeEntry {
		return &timeentry.TimeEntry{
			ID:         id,
			UserID:     userID,
			CheckIn:    checkIn,
			IsBillable: true,
			CreatedAt:  checkIn,
		}
	}

	BeforeEach(func() {
		var err error

		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
			TranslateError: true,
		})
		Expect(err).NotTo(HaveOccurred())

		err = db.AutoMigrate(&SQLiteTimeEntry{})
		Expect(err).NotTo(HaveOccurred())

		// Same partial unique index the real schema carries.
		err = db.Exec("CREATE UNIQUE INDEX ux_time_entries_one_open ON time_entries (user_id) WHERE check_out IS NULL").Error
		Expect(err).NotTo(HaveOccurred())

		repo = NewTimeEntryRepository(db)
	})

	AfterEach(func() {
		sqlDB, err := db.DB()
		Expect(err).NotTo(HaveOccurred())
		Expect(sqlDB.Close()).To(Succeed())
	})

	Describe("Create", func() {
		It("inserts an open entry", func() {
			err := repo.Create(newEntry("e1", "user-1", time.Now()))
			Expect(err).NotTo(HaveOccurred())

			got, err := repo.GetByID("e1")
			Expect(err).NotTo(HaveOccurred())
			Expect(got.UserID).To(Equal("user-1"))
			Expect(got.IsOpen()).To(BeTrue())
		})

		It("maps the open-entry index violation to ErrAlreadyCheckedIn", func() {
			Expect(repo.Create(newEntry("e1", "user-1", time.Now()))).To(Succeed())

			err := repo.Create(newEntry("e2", "user-1", time.Now()))
			Expect(err).To(MatchError(timeentry.ErrAlreadyCheckedIn))
		})

		It("allows an open entry per user", func() {
			Expect(repo.Create(newEntry("e1", "user-1", time.Now()))).To(Succeed())
			Expect(repo.Create(newEntry("e2", "user-2", time.Now()))).To(Succeed())
		})

		It("allows a new open entry once the previous one is closed", func() {
			entry := newEntry("e1", "user-1", time.Now().Add(-time.Hour))
			Expect(repo.Create(entry)).To(Succeed())

			entry.Close(time.Now())
			Expect(repo.Update(entry)).To(Succeed())

			Expect(repo.Create(newEntry("e2", "user-1", time.Now()))).To(Succeed())
		})
	})

	Describe("GetActiveByUserID", func() {
		It("returns nil when the user has no open entry", func() {
			got, err := repo.GetActiveByUserID("user-1")
			Expect(err).NotTo(HaveOccurred())
			Expect(got).To(BeNil())
		})

		It("returns the open entry and skips closed ones", func() {
			closed := newEntry("e1", "user-1", time.Now().Add(-3*time.Hour))
			closed.Close(time.Now().Add(-2 * time.Hour))
			Expect(repo.Create(closed)).To(Succeed())

			Expect(repo.Create(newEntry("e2", "user-1", time.Now().Add(-time.Hour)))).To(Succeed())

			got, err := repo.GetActiveByUserID("user-1")
			Expect(err).NotTo(HaveOccurred())
			Expect(got).NotTo(BeNil())
			Expect(got.ID).To(Equal("e2"))
		})
	})

	Describe("SumClosedDurationSince", func() {
		It("totals closed minutes inside the window and skips open entries", func() {
			base := time.Date(2025, 3, 9, 0, 0, 0, 0, time.UTC)

			first := newEntry("e1", "user-1", base.Add(9*time.Hour))
			first.Close(base.Add(9*time.Hour + 125*time.Minute))
			Expect(repo.Create(first)).To(Succeed())

			second := newEntry("e2", "user-1", base.Add(33*time.Hour))
			second.Close(base.Add(33*time.Hour + 300*time.Minute))
			Expect(repo.Create(second)).To(Succeed())

			// outside the window
			older := newEntry("e3", "user-1", base.Add(-24*time.Hour))
			older.Close(base.Add(-23 * time.Hour))
			Expect(repo.Create(older)).To(Succeed())

			// open entry, no duration yet
			Expect(repo.Create(newEntry("e4", "user-1", base.Add(40*time.Hour)))).To(Succeed())

			total, err := repo.SumClosedDurationSince("user-1", base, base.Add(72*time.Hour))
			Expect(err).NotTo(HaveOccurred())
			Expect(total).To(Equal(int64(425)))
		})

		It("returns zero when nothing matches", func() {
			total, err := repo.SumClosedDurationSince("user-1", time.Now().Add(-time.Hour), time.Now())
			Expect(err).NotTo(HaveOccurred())
			Expect(total).To(BeZero())
		})
	})

	Describe("ListByUser", func() {
		It("bounds the list by the inclusive check_in window", func() {
			base := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)

			early := newEntry("e1", "user-1", base.Add(-48*time.Hour))
			early.Close(base.Add(-47 * time.Hour))
			Expect(repo.Create(early)).To(Succeed())

			inside := newEntry("e2", "user-1", base)
			inside.Close(base.Add(time.Hour))
			Expect(repo.Create(inside)).To(Succeed())

			start := base.Add(-time.Hour)
			end := base.Add(time.Hour)
			entries, err := repo.ListByUser("user-1", &start, &end)
			Expect(err).NotTo(HaveOccurred())
			Expect(entries).To(HaveLen(1))
			Expect(entries[0].ID).To(Equal("e2"))
		})

		It("orders entries newest check_in first regardless of insert order", func() {
			base := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)

			middle := newEntry("e1", "user-1", base.Add(time.Hour))
			middle.Close(base.Add(2 * time.Hour))
			Expect(repo.Create(middle)).To(Succeed())

			oldest := newEntry("e2", "user-1", base.Add(-3*time.Hour))
			oldest.Close(base.Add(-2 * time.Hour))
			Expect(repo.Create(oldest)).To(Succeed())

			newest := newEntry("e3", "user-1", base.Add(5*time.Hour))
			newest.Close(base.Add(6 * time.Hour))
			Expect(repo.Create(newest)).To(Succeed())

			entries, err := repo.ListByUser("user-1", nil, nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(entries).To(HaveLen(3))
			Expect(entries[0].ID).To(Equal("e3"))
			Expect(entries[1].ID).To(Equal("e1"))
			Expect(entries[2].ID).To(Equal("e2"))
		})
	})

	Describe("Delete", func() {
		It("removes the entry", func() {
			Expect(repo.Create(newEntry("e1", "user-1", time.Now()))).To(Succeed())
			Expect(repo.Delete("e1")).To(Succeed())

			_, err := repo.GetByID("e1")
			Expect(err).To(MatchError(timeentry.ErrEntryNotFound))
		})

		It("reports a missing entry", func() {
			Expect(repo.Delete("missing")).To(MatchError(timeentry.ErrEntryNotFound))
		})
	})
})
