package platform_test

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"testing"

	internalErrors "github.com/frahmantamala/tenant-management/internal"
	"github.com/frahmantamala/tenant-management/internal/audit"
	"github.com/frahmantamala/tenant-management/internal/platform"
	"github.com/frahmantamala/tenant-management/internal/rbac"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	platformDatamodel "github.com/frahmantamala/tenant-management/internal/core/datamodel/platform"
)

func TestPlatformService(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Platform Service Suite")
}

type MockRepository struct {
	platforms  map[int64]*platformDatamodel.Platform
	nextID     int64
	shouldFail bool
	failError  error
}

func NewMockRepository() *MockRepository {
	return &MockRepository{
		platforms: make(map[int64]*platformDatamodel.Platform),
		nextID:    1,
	}
}

func (m *MockRepository) SetShouldFail(fail bool, err error) {
	m.shouldFail = fail
	m.failError = err
}

func (m *MockRepository) Create(p *platformDatamodel.Platform) error {
	if m.shouldFail {
		return m.failError
	}
	p.ID = m.nextID
	m.nextID++
	m.platforms[p.ID] = p
	return nil
}

func (m *MockRepository) Update(p *platformDatamodel.Platform) error {
	if m.shouldFail {
		return m.failError
	}
	m.platforms[p.ID] = p
	return nil
}

func (m *MockRepository) GetByID(id int64) (*platformDatamodel.Platform, error) {
	if m.shouldFail {
		return nil, m.failError
	}
	p, ok := m.platforms[id]
	if !ok {
		return nil, internalErrors.ErrPlatformNotFound
	}
	return p, nil
}

func (m *MockRepository) GetBySlug(slug string) (*platformDatamodel.Platform, error) {
	if m.shouldFail {
		return nil, m.failError
	}
	for _, p := range m.platforms {
		if p.Slug == slug {
			return p, nil
		}
	}
	return nil, internalErrors.ErrPlatformNotFound
}

func (m *MockRepository) ExistsByNameOrSlug(name, slug string, excludeID int64) (bool, error) {
	if m.shouldFail {
		return false, m.failError
	}
	for _, p := range m.platforms {
		if p.ID == excludeID {
			continue
		}
		if p.Name == name || (slug != "" && p.Slug == slug) {
			return true, nil
		}
	}
	return false, nil
}

func (m *MockRepository) List() ([]*platformDatamodel.Platform, error) {
	if m.shouldFail {
		return nil, m.failError
	}
	out := make([]*platformDatamodel.Platform, 0, len(m.platforms))
	for _, p := range m.platforms {
		out = append(out, p)
	}
	return out, nil
}

type NoopRecorder struct{}

func (NoopRecorder) Record(ctx context.Context, action audit.Action, targetType, targetID string, actorID int64, scope rbac.Scope, details map[string]any) {
}

var _ = Describe("PlatformService", func() {
	var (
		service    *platform.Service
		mockRepo   *MockRepository
		superAdmin *rbac.Actor
	)

	ptr := func(v int64) *int64 { return &v }

	BeforeEach(func() {
		mockRepo = NewMockRepository()
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = platform.NewService(mockRepo, NoopRecorder{}, logger)
		superAdmin = &rbac.Actor{UserID: 1, Role: rbac.RoleSuperAdmin}
	})

	Describe("Create", func() {
		It("creates an active platform for a super admin", func() {
			p, err := service.Create(context.Background(), superAdmin, platform.CreatePlatformDTO{
				Name: "Acme SaaS",
				Slug: "acme-saas",
			})

			Expect(err).To(BeNil())
			Expect(p.ID).To(Equal(int64(1)))
			Expect(p.Status).To(Equal(platformDatamodel.StatusActive))
			Expect(p.CreatedBy).To(Equal(int64(1)))
		})

		It("rejects platform admins", func() {
			platformAdmin := &rbac.Actor{UserID: 2, Role: rbac.RolePlatformAdmin, PlatformID: ptr(1)}

			_, err := service.Create(context.Background(), platformAdmin, platform.CreatePlatformDTO{
				Name: "Acme SaaS",
				Slug: "acme-saas",
			})

			Expect(err).To(MatchError(internalErrors.ErrInsufficientRole))
		})

		It("rejects a duplicate name or slug", func() {
			_, err := service.Create(context.Background(), superAdmin, platform.CreatePlatformDTO{
				Name: "Acme SaaS",
				Slug: "acme-saas",
			})
			Expect(err).To(BeNil())

			_, err = service.Create(context.Background(), superAdmin, platform.CreatePlatformDTO{
				Name: "Other Name",
				Slug: "acme-saas",
			})

			appErr, ok := internalErrors.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(internalErrors.ErrCodeDuplicateName))
			Expect(appErr.Type).To(Equal(internalErrors.ErrorTypeValidation))
			Expect(appErr.StatusCode).To(Equal(http.StatusBadRequest))
		})

		It("rejects an invalid slug", func() {
			_, err := service.Create(context.Background(), superAdmin, platform.CreatePlatformDTO{
				Name: "Acme SaaS",
				Slug: "Not A Slug",
			})

			appErr, ok := internalErrors.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.StatusCode).To(Equal(400))
		})

		It("wraps repository failures", func() {
			mockRepo.SetShouldFail(true, fmt.Errorf("connection lost"))

			_, err := service.Create(context.Background(), superAdmin, platform.CreatePlatformDTO{
				Name: "Acme SaaS",
				Slug: "acme-saas",
			})

			appErr, ok := internalErrors.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.StatusCode).To(Equal(500))
		})
	})

	Describe("Update", func() {
		var existing *platformDatamodel.Platform

		BeforeEach(func() {
			var err error
			existing, err = service.Create(context.Background(), superAdmin, platform.CreatePlatformDTO{
				Name: "Acme SaaS",
				Slug: "acme-saas",
			})
			Expect(err).To(BeNil())
		})

		It("suspends a platform", func() {
			suspended := platformDatamodel.StatusSuspended
			p, err := service.Update(context.Background(), superAdmin, existing.ID, platform.UpdatePlatformDTO{
				Status: &suspended,
			})

			Expect(err).To(BeNil())
			Expect(p.Status).To(Equal(platformDatamodel.StatusSuspended))
		})

		It("rejects an unknown status", func() {
			bogus := "frozen"
			_, err := service.Update(context.Background(), superAdmin, existing.ID, platform.UpdatePlatformDTO{
				Status: &bogus,
			})

			appErr, ok := internalErrors.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.StatusCode).To(Equal(400))
		})

		It("rejects renaming onto an existing platform", func() {
			_, err := service.Create(context.Background(), superAdmin, platform.CreatePlatformDTO{
				Name: "Beta SaaS",
				Slug: "beta-saas",
			})
			Expect(err).To(BeNil())

			taken := "Beta SaaS"
			_, err = service.Update(context.Background(), superAdmin, existing.ID, platform.UpdatePlatformDTO{
				Name: &taken,
			})

			appErr, ok := internalErrors.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(internalErrors.ErrCodeDuplicateName))
		})

		It("returns not found for a missing platform", func() {
			suspended := platformDatamodel.StatusSuspended
			_, err := service.Update(context.Background(), superAdmin, 999, platform.UpdatePlatformDTO{
				Status: &suspended,
			})

			Expect(err).To(MatchError(internalErrors.ErrPlatformNotFound))
		})
	})

	Describe("Get", func() {
		var existing *platformDatamodel.Platform

		BeforeEach(func() {
			var err error
			existing, err = service.Create(context.Background(), superAdmin, platform.CreatePlatformDTO{
				Name: "Acme SaaS",
				Slug: "acme-saas",
			})
			Expect(err).To(BeNil())
		})

		It("allows a platform admin to read their own platform", func() {
			platformAdmin := &rbac.Actor{UserID: 2, Role: rbac.RolePlatformAdmin, PlatformID: ptr(existing.ID)}

			p, err := service.Get(context.Background(), platformAdmin, existing.ID)

			Expect(err).To(BeNil())
			Expect(p.ID).To(Equal(existing.ID))
		})

		It("denies a platform admin reading another platform", func() {
			platformAdmin := &rbac.Actor{UserID: 2, Role: rbac.RolePlatformAdmin, PlatformID: ptr(existing.ID + 1)}

			_, err := service.Get(context.Background(), platformAdmin, existing.ID)

			Expect(err).To(MatchError(internalErrors.ErrCrossPlatform))
		})
	})

	Describe("List", func() {
		It("is reserved for super admins", func() {
			platformAdmin := &rbac.Actor{UserID: 2, Role: rbac.RolePlatformAdmin, PlatformID: ptr(1)}

			_, err := service.List(context.Background(), platformAdmin)

			Expect(err).To(MatchError(internalErrors.ErrInsufficientRole))
		})
	})
})
