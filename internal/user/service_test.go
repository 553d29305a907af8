package user_test

import (
	"log/slog"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/project-tracking/internal/auth"
	"github.com/frahmantamala/project-tracking/internal/user"
)

func TestUser(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "User Suite")
}

type mockUserRepo struct {
	users  map[string]*user.User
	hashes map[string]string
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{
		users:  make(map[string]*user.User),
		hashes: make(map[string]string),
	}
}

func (m *mockUserRepo) Create(u *user.User, passwordHash string) error {
	for _, existing := range m.users {
		if existing.Email == u.Email {
			return user.ErrEmailTaken
		}
	}
	copied := *u
	m.users[u.ID] = &copied
	m.hashes[u.ID] = passwordHash
	return nil
}

func (m *mockUserRepo) GetByID(id string) (*user.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, user.ErrUserNotFound
	}
	copied := *u
	return &copied, nil
}

func (m *mockUserRepo) GetByEmail(email string) (*user.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, user.ErrUserNotFound
}

func (m *mockUserRepo) Update(u *user.User) error {
	copied := *u
	m.users[u.ID] = &copied
	return nil
}

func (m *mockUserRepo) ListByCompany(companyID string) ([]*user.User, error) {
	var result []*user.User
	for _, u := range m.users {
		if u.CompanyID != nil && *u.CompanyID == companyID {
			copied := *u
			result = append(result, &copied)
		}
	}
	return result, nil
}

type plainHasher struct{}

func (plainHasher) HashPassword(password string) (string, error) {
	return "hashed:" + password, nil
}

var _ = Describe("User Service", func() {
	var (
		repo    *mockUserRepo
		service *user.Service

		admin *auth.User
		dev   *auth.User
	)

	seedUser := func(id, role string) {
		companyID := "company-1"
		repo.users[id] = &user.User{
			ID:        id,
			CompanyID: &companyID,
			Email:     id + "@acme.test",
			FullName:  id,
			Role:      role,
			IsActive:  true,
		}
	}

	BeforeEach(func() {
		repo = newMockUserRepo()
		service = user.NewService(repo, plainHasher{}, nil, slog.Default())

		admin = &auth.User{ID: "admin-1", CompanyID: "company-1", Role: auth.RoleAdmin}
		dev = &auth.User{ID: "dev-1", CompanyID: "company-1", Role: auth.RoleTeamMember}

		seedUser("admin-1", "admin")
		seedUser("dev-1", "team_member")
	})

	Describe("CreateUser", func() {
		It("lets admins provision accounts in their company", func() {
			created, err := service.CreateUser(admin, user.CreateUserDTO{
				Email:    "new@acme.test",
				FullName: "New Person",
				Password: "long-enough",
				Role:     "team_member",
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(created.IsActive).To(BeTrue())
			Expect(*created.CompanyID).To(Equal("company-1"))
			Expect(repo.hashes[created.ID]).To(Equal("hashed:long-enough"))
		})

		It("denies non-admins", func() {
			_, err := service.CreateUser(dev, user.CreateUserDTO{
				Email:    "new@acme.test",
				FullName: "New Person",
				Password: "long-enough",
				Role:     "team_member",
			})
			Expect(err).To(HaveOccurred())
		})

		It("rejects an invalid role", func() {
			_, err := service.CreateUser(admin, user.CreateUserDTO{
				Email:    "new@acme.test",
				FullName: "New Person",
				Password: "long-enough",
				Role:     "superuser",
			})
			Expect(err).To(HaveOccurred())
		})

		It("rejects a duplicate email", func() {
			_, err := service.CreateUser(admin, user.CreateUserDTO{
				Email:    "dev-1@acme.test",
				FullName: "Duplicate",
				Password: "long-enough",
				Role:     "team_member",
			})
			Expect(err).To(MatchError(user.ErrEmailTaken))
		})
	})

	Describe("ChangeRole", func() {
		It("updates the role through the managed path", func() {
			updated, err := service.ChangeRole(admin, "dev-1", user.ChangeRoleDTO{Role: "project_manager"})
			Expect(err).NotTo(HaveOccurred())
			Expect(updated.Role).To(Equal("project_manager"))
		})

		It("denies non-admins", func() {
			_, err := service.ChangeRole(dev, "admin-1", user.ChangeRoleDTO{Role: "client"})
			Expect(err).To(HaveOccurred())
		})

		It("hides users from other tenants", func() {
			otherAdmin := &auth.User{ID: "admin-2", CompanyID: "company-2", Role: auth.RoleAdmin}
			_, err := service.ChangeRole(otherAdmin, "dev-1", user.ChangeRoleDTO{Role: "client"})
			Expect(err).To(MatchError(user.ErrUserNotFound))
		})
	})

	Describe("SetActive", func() {
		It("deactivates and reactivates accounts", func() {
			updated, err := service.SetActive(admin, "dev-1", user.SetActiveDTO{IsActive: false})
			Expect(err).NotTo(HaveOccurred())
			Expect(updated.IsActive).To(BeFalse())

			updated, err = service.SetActive(admin, "dev-1", user.SetActiveDTO{IsActive: true})
			Expect(err).NotTo(HaveOccurred())
			Expect(updated.IsActive).To(BeTrue())
		})
	})

	Describe("UpdateProfile", func() {
		It("lets users edit their own profile", func() {
			name := "Devin M."
			updated, err := service.UpdateProfile(dev, user.UpdateProfileDTO{FullName: &name})
			Expect(err).NotTo(HaveOccurred())
			Expect(updated.FullName).To(Equal("Devin M."))
		})
	})

	Describe("ListCompanyUsers", func() {
		It("returns the tenant roster to admins", func() {
			users, err := service.ListCompanyUsers(admin)
			Expect(err).NotTo(HaveOccurred())
			Expect(users).To(HaveLen(2))
		})

		It("denies members without users.manage", func() {
			_, err := service.ListCompanyUsers(dev)
			Expect(err).To(HaveOccurred())
		})
	})
})
