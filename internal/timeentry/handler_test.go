package timeentry_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/project-tracking/internal/auth"
	"github.com/frahmantamala/project-tracking/internal/timeentry"
)

type stubLedgerService struct {
	entry *timeentry.TimeEntry
	err   error
}

func (s *stubLedgerService) GetActive(userID string) (*timeentry.TimeEntry, error) {
	return s.entry, s.err
}

func (s *stubLedgerService) CheckIn(userID string, dto timeentry.CheckInDTO) (*timeentry.TimeEntry, error) {
	return s.entry, s.err
}

func (s *stubLedgerService) CheckOut(entryID, callerID string) (*timeentry.TimeEntry, error) {
	return s.entry, s.err
}

func (s *stubLedgerService) ListEntries(userID string, dto timeentry.ListEntriesDTO) ([]*timeentry.TimeEntry, error) {
	return nil, s.err
}

func (s *stubLedgerService) ListProjectEntries(projectID string, callerRole auth.Role) ([]*timeentry.TimeEntry, error) {
	return nil, s.err
}

func (s *stubLedgerService) WeeklyHours(userID string, ref time.Time) (float64, error) {
	return 0, s.err
}

func (s *stubLedgerService) DeleteEntry(entryID, callerID string) error {
	return s.err
}

var _ = Describe("Handler error responses", func() {
	authedRequest := func(method, target, body string) *http.Request {
		var req *http.Request
		if body != "" {
			req = httptest.NewRequest(method, target, strings.NewReader(body))
		} else {
			req = httptest.NewRequest(method, target, nil)
		}
		user := &auth.User{ID: "user-1", CompanyID: "company-1", Role: auth.RoleTeamMember}
		return req.WithContext(auth.ContextWithUser(req.Context(), user))
	}

	It("reports an unexpected storage failure as 503 unavailable", func() {
		handler := timeentry.NewHandler(&stubLedgerService{err: errors.New("connection refused")})
		rec := httptest.NewRecorder()

		handler.GetActive(rec, authedRequest(http.MethodGet, "/api/v1/time-entries/active", ""))

		Expect(rec.Code).To(Equal(http.StatusServiceUnavailable))
		Expect(rec.Body.String()).To(ContainSubstring("STORAGE_UNAVAILABLE"))
	})

	It("surfaces a failing check-in insert as 503, not 500", func() {
		handler := timeentry.NewHandler(&stubLedgerService{err: errors.New("timeout")})
		rec := httptest.NewRecorder()

		handler.CheckIn(rec, authedRequest(http.MethodPost, "/api/v1/time-entries/check-in", "{}"))

		Expect(rec.Code).To(Equal(http.StatusServiceUnavailable))
		Expect(rec.Body.String()).To(ContainSubstring("STORAGE_UNAVAILABLE"))
	})

	It("keeps the conflict mapping for a double check-in", func() {
		handler := timeentry.NewHandler(&stubLedgerService{err: timeentry.ErrAlreadyCheckedIn})
		rec := httptest.NewRecorder()

		handler.CheckIn(rec, authedRequest(http.MethodPost, "/api/v1/time-entries/check-in", "{}"))

		Expect(rec.Code).To(Equal(http.StatusConflict))
	})
})
