package project_test

import (
	"log/slog"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/project-tracking/internal/auth"
	"github.com/frahmantamala/project-tracking/internal/project"
)

func TestProject(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Project Suite")
}

type mockProjectRepo struct {
	projects map[string]*project.Project
	members  map[string][]*project.Member
}

func newMockProjectRepo() *mockProjectRepo {
	return &mockProjectRepo{
		projects: make(map[string]*project.Project),
		members:  make(map[string][]*project.Member),
	}
}

func (m *mockProjectRepo) Create(p *project.Project) error {
	copied := *p
	m.projects[p.ID] = &copied
	return nil
}

func (m *mockProjectRepo) GetByID(id string) (*project.Project, error) {
	p, ok := m.projects[id]
	if !ok {
		return nil, project.ErrProjectNotFound
	}
	copied := *p
	return &copied, nil
}

func (m *mockProjectRepo) Update(p *project.Project) error {
	copied := *p
	m.projects[p.ID] = &copied
	return nil
}

func (m *mockProjectRepo) Delete(id string) error {
	if _, ok := m.projects[id]; !ok {
		return project.ErrProjectNotFound
	}
	delete(m.projects, id)
	delete(m.members, id)
	return nil
}

func (m *mockProjectRepo) ListByCompany(companyID string) ([]*project.Project, error) {
	var result []*project.Project
	for _, p := range m.projects {
		if p.CompanyID == companyID {
			copied := *p
			result = append(result, &copied)
		}
	}
	return result, nil
}

func (m *mockProjectRepo) ListByMember(companyID, userID string) ([]*project.Project, error) {
	var result []*project.Project
	for _, p := range m.projects {
		if p.CompanyID != companyID {
			continue
		}
		for _, member := range m.members[p.ID] {
			if member.UserID == userID {
				copied := *p
				result = append(result, &copied)
				break
			}
		}
	}
	return result, nil
}

func (m *mockProjectRepo) AddMember(member *project.Member) error {
	for _, existing := range m.members[member.ProjectID] {
		if existing.UserID == member.UserID {
			return project.ErrMemberExists
		}
	}
	copied := *member
	m.members[member.ProjectID] = append(m.members[member.ProjectID], &copied)
	return nil
}

func (m *mockProjectRepo) RemoveMember(projectID, userID string) error {
	members := m.members[projectID]
	for i, member := range members {
		if member.UserID == userID {
			m.members[projectID] = append(members[:i], members[i+1:]...)
			return nil
		}
	}
	return project.ErrMemberNotFound
}

func (m *mockProjectRepo) ListMembers(projectID string) ([]*project.Member, error) {
	return m.members[projectID], nil
}

var _ = Describe("Project Service", func() {
	var (
		repo    *mockProjectRepo
		service *project.Service

		admin  *auth.User
		pm     *auth.User
		dev    *auth.User
		client *auth.User
	)

	BeforeEach(func() {
		repo = newMockProjectRepo()
		service = project.NewService(repo, nil, slog.Default())

		admin = &auth.User{ID: "admin-1", CompanyID: "company-1", Role: auth.RoleAdmin}
		pm = &auth.User{ID: "pm-1", CompanyID: "company-1", Role: auth.RoleProjectManager}
		dev = &auth.User{ID: "dev-1", CompanyID: "company-1", Role: auth.RoleTeamMember}
		client = &auth.User{ID: "client-1", CompanyID: "company-1", Role: auth.RoleClient}
	})

	Describe("CreateProject", func() {
		It("lets a project manager create a project in their company", func() {
			p, err := service.CreateProject(pm, project.CreateProjectDTO{Name: "Relaunch"})
			Expect(err).NotTo(HaveOccurred())
			Expect(p.CompanyID).To(Equal("company-1"))
			Expect(p.CreatedBy).To(Equal("pm-1"))
			Expect(p.Status).To(Equal(project.StatusPlanning))
		})

		It("denies team members and clients", func() {
			_, err := service.CreateProject(dev, project.CreateProjectDTO{Name: "Relaunch"})
			Expect(err).To(HaveOccurred())

			_, err = service.CreateProject(client, project.CreateProjectDTO{Name: "Relaunch"})
			Expect(err).To(HaveOccurred())
		})

		It("validates the name", func() {
			_, err := service.CreateProject(pm, project.CreateProjectDTO{})
			Expect(err).To(HaveOccurred())
		})

		It("rejects an end date before the start date", func() {
			start := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
			end := start.AddDate(0, 0, -1)
			_, err := service.CreateProject(pm, project.CreateProjectDTO{
				Name:      "Relaunch",
				StartDate: &start,
				EndDate:   &end,
			})
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("DeleteProject", func() {
		var projectID string

		BeforeEach(func() {
			p, err := service.CreateProject(pm, project.CreateProjectDTO{Name: "Relaunch"})
			Expect(err).NotTo(HaveOccurred())
			projectID = p.ID
		})

		It("lets only admins delete", func() {
			Expect(service.DeleteProject(pm, projectID)).To(HaveOccurred())
			Expect(service.DeleteProject(dev, projectID)).To(HaveOccurred())
			Expect(service.DeleteProject(admin, projectID)).To(Succeed())
		})

		It("hides projects of other tenants", func() {
			otherAdmin := &auth.User{ID: "admin-2", CompanyID: "company-2", Role: auth.RoleAdmin}
			Expect(service.DeleteProject(otherAdmin, projectID)).To(MatchError(project.ErrProjectNotFound))

			// still there for its own tenant
			_, err := service.GetProject(admin, projectID)
			Expect(err).NotTo(HaveOccurred())
		})
	})

	Describe("ListProjects", func() {
		BeforeEach(func() {
			p1, err := service.CreateProject(pm, project.CreateProjectDTO{Name: "One"})
			Expect(err).NotTo(HaveOccurred())
			_, err = service.CreateProject(pm, project.CreateProjectDTO{Name: "Two"})
			Expect(err).NotTo(HaveOccurred())

			_, err = service.AddMember(pm, p1.ID, project.AddMemberDTO{UserID: client.ID})
			Expect(err).NotTo(HaveOccurred())
		})

		It("shows team members the whole company", func() {
			projects, err := service.ListProjects(dev)
			Expect(err).NotTo(HaveOccurred())
			Expect(projects).To(HaveLen(2))
		})

		It("limits clients to projects they are members of", func() {
			projects, err := service.ListProjects(client)
			Expect(err).NotTo(HaveOccurred())
			Expect(projects).To(HaveLen(1))
			Expect(projects[0].Name).To(Equal("One"))
		})
	})

	Describe("membership", func() {
		var projectID string

		BeforeEach(func() {
			p, err := service.CreateProject(pm, project.CreateProjectDTO{Name: "Relaunch"})
			Expect(err).NotTo(HaveOccurred())
			projectID = p.ID
		})

		It("adds and removes members", func() {
			member, err := service.AddMember(pm, projectID, project.AddMemberDTO{UserID: dev.ID})
			Expect(err).NotTo(HaveOccurred())
			Expect(member.Role).To(Equal("member"))

			members, err := service.ListMembers(pm, projectID)
			Expect(err).NotTo(HaveOccurred())
			Expect(members).To(HaveLen(1))

			Expect(service.RemoveMember(pm, projectID, dev.ID)).To(Succeed())

			members, err = service.ListMembers(pm, projectID)
			Expect(err).NotTo(HaveOccurred())
			Expect(members).To(BeEmpty())
		})

		It("rejects adding the same member twice", func() {
			_, err := service.AddMember(pm, projectID, project.AddMemberDTO{UserID: dev.ID})
			Expect(err).NotTo(HaveOccurred())

			_, err = service.AddMember(pm, projectID, project.AddMemberDTO{UserID: dev.ID})
			Expect(err).To(MatchError(project.ErrMemberExists))
		})

		It("denies membership changes to team members", func() {
			_, err := service.AddMember(dev, projectID, project.AddMemberDTO{UserID: client.ID})
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("UpdateProject", func() {
		It("applies partial updates", func() {
			p, err := service.CreateProject(pm, project.CreateProjectDTO{Name: "Relaunch"})
			Expect(err).NotTo(HaveOccurred())

			status := project.StatusActive
			updated, err := service.UpdateProject(pm, p.ID, project.UpdateProjectDTO{Status: &status})
			Expect(err).NotTo(HaveOccurred())
			Expect(updated.Status).To(Equal(project.StatusActive))
			Expect(updated.Name).To(Equal("Relaunch"))
		})

		It("rejects an invalid status", func() {
			p, err := service.CreateProject(pm, project.CreateProjectDTO{Name: "Relaunch"})
			Expect(err).NotTo(HaveOccurred())

			bad := project.Status("archived")
			_, err = service.UpdateProject(pm, p.ID, project.UpdateProjectDTO{Status: &bad})
			Expect(err).To(HaveOccurred())
		})
	})
})
