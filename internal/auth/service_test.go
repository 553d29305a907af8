package auth_test

import (
	"errors"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/project-tracking/internal/auth"
)

type mockUserRepo struct {
	usersByEmail map[string]mockCredential
	usersByID    map[string]*auth.User
	lookupError  error
}

type mockCredential struct {
	userID       string
	passwordHash string
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{
		usersByEmail: make(map[string]mockCredential),
		usersByID:    make(map[string]*auth.User),
	}
}

func (m *mockUserRepo) GetPasswordForEmail(email string) (string, string, error) {
	if m.lookupError != nil {
		return "", "", m.lookupError
	}
	cred, ok := m.usersByEmail[email]
	if !ok {
		return "", "", auth.ErrUserNotFound
	}
	return cred.passwordHash, cred.userID, nil
}

func (m *mockUserRepo) GetUserWithRole(userID string) (*auth.User, error) {
	if m.lookupError != nil {
		return nil, m.lookupError
	}
	u, ok := m.usersByID[userID]
	if !ok {
		return nil, auth.ErrUserNotFound
	}
	return u, nil
}

func (m *mockUserRepo) addUser(u *auth.User, password string) {
	hash, err := auth.HashPassword(password, 10)
	Expect(err).NotTo(HaveOccurred())
	m.usersByEmail[u.Email] = mockCredential{userID: u.ID, passwordHash: hash}
	m.usersByID[u.ID] = u
}

var _ = Describe("Auth Service", func() {
	var (
		repo    *mockUserRepo
		service *auth.Service
	)

	BeforeEach(func() {
		repo = newMockUserRepo()
		tokenGen := auth.NewJWTTokenGenerator(
			"test-access-secret-0123456789abcdef",
			"test-refresh-secret-0123456789abcde",
			15*time.Minute,
			7*24*time.Hour,
		)
		service = auth.NewService(repo, tokenGen, 10)

		repo.addUser(&auth.User{
			ID:        "user-1",
			CompanyID: "company-1",
			Email:     "dev@acme.test",
			FullName:  "Devin Member",
			Role:      auth.RoleTeamMember,
			IsActive:  true,
		}, "correct-password")
	})

	Describe("Authenticate", func() {
		It("returns token pair for valid credentials", func() {
			tokens, err := service.Authenticate(auth.LoginDTO{
				Email:    "dev@acme.test",
				Password: "correct-password",
			})

			Expect(err).NotTo(HaveOccurred())
			Expect(tokens.AccessToken).NotTo(BeEmpty())
			Expect(tokens.RefreshToken).NotTo(BeEmpty())
		})

		It("rejects a wrong password", func() {
			_, err := service.Authenticate(auth.LoginDTO{
				Email:    "dev@acme.test",
				Password: "wrong-password",
			})

			Expect(err).To(MatchError(auth.ErrInvalidCredentials))
		})

		It("rejects an unknown email with the same error as a wrong password", func() {
			_, err := service.Authenticate(auth.LoginDTO{
				Email:    "nobody@acme.test",
				Password: "correct-password",
			})

			Expect(err).To(MatchError(auth.ErrInvalidCredentials))
		})

		It("rejects a deactivated account", func() {
			repo.addUser(&auth.User{
				ID:       "user-2",
				Email:    "gone@acme.test",
				Role:     auth.RoleTeamMember,
				IsActive: false,
			}, "correct-password")

			_, err := service.Authenticate(auth.LoginDTO{
				Email:    "gone@acme.test",
				Password: "correct-password",
			})

			Expect(err).To(MatchError(auth.ErrUserInactive))
		})
	})

	Describe("ValidateAccessToken", func() {
		It("round-trips claims through a generated token", func() {
			tokens, err := service.Authenticate(auth.LoginDTO{
				Email:    "dev@acme.test",
				Password: "correct-password",
			})
			Expect(err).NotTo(HaveOccurred())

			claims, err := service.ValidateAccessToken(tokens.AccessToken)
			Expect(err).NotTo(HaveOccurred())
			Expect(claims.UserID).To(Equal("user-1"))
			Expect(claims.Email).To(Equal("dev@acme.test"))
		})

		It("rejects garbage tokens", func() {
			_, err := service.ValidateAccessToken("not-a-jwt")
			Expect(err).To(MatchError(auth.ErrInvalidToken))
		})
	})

	Describe("GetUserWithRole", func() {
		It("loads the role for capability checks", func() {
			u, err := service.GetUserWithRole("user-1")
			Expect(err).NotTo(HaveOccurred())
			Expect(u.Role).To(Equal(auth.RoleTeamMember))
		})

		It("refuses inactive users", func() {
			repo.usersByID["user-1"].IsActive = false

			_, err := service.GetUserWithRole("user-1")
			Expect(err).To(MatchError(auth.ErrUserInactive))
		})

		It("propagates repository failures", func() {
			repo.lookupError = errors.New("db down")

			_, err := service.GetUserWithRole("user-1")
			Expect(err).To(HaveOccurred())
		})
	})
})
