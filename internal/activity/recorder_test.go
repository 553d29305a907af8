package activity_test

import (
	"context"
	"log/slog"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/project-tracking/internal/activity"
	"github.com/frahmantamala/project-tracking/internal/core/events"
)

func TestActivity(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Activity Suite")
}

type mockActivityRepo struct {
	entries []*activity.Entry
}

func (m *mockActivityRepo) Create(entry *activity.Entry) error {
	copied := *entry
	m.entries = append(m.entries, &copied)
	return nil
}

func (m *mockActivityRepo) ListByUser(userID string, limit int) ([]*activity.Entry, error) {
	var result []*activity.Entry
	for _, e := range m.entries {
		if e.UserID == userID {
			result = append(result, e)
		}
		if len(result) == limit {
			break
		}
	}
	return result, nil
}

func (m *mockActivityRepo) ListByEntity(entityType, entityID string, limit int) ([]*activity.Entry, error) {
	var result []*activity.Entry
	for _, e := range m.entries {
		if e.EntityType == entityType && e.EntityID == entityID {
			result = append(result, e)
		}
		if len(result) == limit {
			break
		}
	}
	return result, nil
}

var _ = Describe("Recorder", func() {
	var (
		repo     *mockActivityRepo
		recorder *activity.Recorder
		bus      *events.EventBus
	)

	BeforeEach(func() {
		repo = &mockActivityRepo{}
		recorder = activity.NewRecorder(repo, slog.Default())
		bus = events.NewEventBus(slog.Default())
		recorder.Register(bus)
	})

	It("persists a published activity event", func() {
		event := events.NewActivityRecordedEvent("user-1", events.ActionCheckedIn, "time_entry", "entry-1", nil)

		// synchronous publish keeps the test deterministic
		Expect(bus.PublishSync(context.Background(), event)).To(Succeed())

		Expect(repo.entries).To(HaveLen(1))
		entry := repo.entries[0]
		Expect(entry.UserID).To(Equal("user-1"))
		Expect(entry.Action).To(Equal(events.ActionCheckedIn))
		Expect(entry.EntityType).To(Equal("time_entry"))
		Expect(entry.EntityID).To(Equal("entry-1"))
		Expect(entry.ID).NotTo(BeEmpty())
	})

	It("serializes event metadata as JSON", func() {
		event := events.NewActivityRecordedEvent("user-1", events.ActionUpdated, "project", "project-1",
			map[string]interface{}{"field": "status"})

		Expect(bus.PublishSync(context.Background(), event)).To(Succeed())

		Expect(repo.entries).To(HaveLen(1))
		Expect(repo.entries[0].Metadata).NotTo(BeNil())
		Expect(*repo.entries[0].Metadata).To(ContainSubstring(`"field":"status"`))
	})

	It("lists a user's activity", func() {
		for _, id := range []string{"e1", "e2"} {
			event := events.NewActivityRecordedEvent("user-1", events.ActionCreated, "ticket", id, nil)
			Expect(bus.PublishSync(context.Background(), event)).To(Succeed())
		}
		event := events.NewActivityRecordedEvent("user-2", events.ActionCreated, "ticket", "e3", nil)
		Expect(bus.PublishSync(context.Background(), event)).To(Succeed())

		entries, err := recorder.ListForUser("user-1", 0)
		Expect(err).NotTo(HaveOccurred())
		Expect(entries).To(HaveLen(2))
	})

	It("lists activity for one entity", func() {
		event := events.NewActivityRecordedEvent("user-1", events.ActionCheckedOut, "time_entry", "entry-9", nil)
		Expect(bus.PublishSync(context.Background(), event)).To(Succeed())

		entries, err := recorder.ListForEntity("time_entry", "entry-9", 0)
		Expect(err).NotTo(HaveOccurred())
		Expect(entries).To(HaveLen(1))
	})
})
