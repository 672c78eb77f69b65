package orgtype_test

import (
	"context"
	"log/slog"
	"os"
	"testing"

	internalErrors "github.com/frahmantamala/tenant-management/internal"
	"github.com/frahmantamala/tenant-management/internal/audit"
	"github.com/frahmantamala/tenant-management/internal/orgtype"
	"github.com/frahmantamala/tenant-management/internal/rbac"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	orgtypeDatamodel "github.com/frahmantamala/tenant-management/internal/core/datamodel/orgtype"
)

func TestOrgTypeService(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "OrgType Service Suite")
}

type MockRepository struct {
	types      map[int64]*orgtypeDatamodel.OrganizationType
	nextID     int64
	shouldFail bool
	failError  error
}

func NewMockRepository() *MockRepository {
	return &MockRepository{
		types:  make(map[int64]*orgtypeDatamodel.OrganizationType),
		nextID: 1,
	}
}

func (m *MockRepository) SetShouldFail(fail bool, err error) {
	m.shouldFail = fail
	m.failError = err
}

func (m *MockRepository) Create(t *orgtypeDatamodel.OrganizationType) error {
	if m.shouldFail {
		return m.failError
	}
	t.ID = m.nextID
	m.nextID++
	m.types[t.ID] = t
	return nil
}

func (m *MockRepository) GetByID(id int64) (*orgtypeDatamodel.OrganizationType, error) {
	if m.shouldFail {
		return nil, m.failError
	}
	t, ok := m.types[id]
	if !ok {
		return nil, internalErrors.ErrOrgTypeNotFound
	}
	return t, nil
}

func (m *MockRepository) GetByCode(code string, platformID int64) (*orgtypeDatamodel.OrganizationType, error) {
	if m.shouldFail {
		return nil, m.failError
	}
	// platform scoped types shadow global ones with the same code
	var global *orgtypeDatamodel.OrganizationType
	for _, t := range m.types {
		if t.Code != code {
			continue
		}
		if t.Scope == orgtypeDatamodel.ScopePlatform && t.PlatformID != nil && *t.PlatformID == platformID {
			return t, nil
		}
		if t.Scope == orgtypeDatamodel.ScopeGlobal {
			global = t
		}
	}
	if global != nil {
		return global, nil
	}
	return nil, internalErrors.ErrOrgTypeNotFound
}

func (m *MockRepository) ExistsByCode(code, scope string, platformID *int64) (bool, error) {
	if m.shouldFail {
		return false, m.failError
	}
	for _, t := range m.types {
		if t.Code != code || t.Scope != scope {
			continue
		}
		if scope == orgtypeDatamodel.ScopeGlobal {
			return true, nil
		}
		if t.PlatformID != nil && platformID != nil && *t.PlatformID == *platformID {
			return true, nil
		}
	}
	return false, nil
}

func (m *MockRepository) ListVisible(platformID *int64) ([]*orgtypeDatamodel.OrganizationType, error) {
	if m.shouldFail {
		return nil, m.failError
	}
	var out []*orgtypeDatamodel.OrganizationType
	for _, t := range m.types {
		if t.Scope == orgtypeDatamodel.ScopeGlobal {
			out = append(out, t)
			continue
		}
		if platformID != nil && t.PlatformID != nil && *t.PlatformID == *platformID {
			out = append(out, t)
		} else if platformID == nil {
			out = append(out, t)
		}
	}
	return out, nil
}

func (m *MockRepository) SetStatus(id int64, status string) error {
	if m.shouldFail {
		return m.failError
	}
	t, ok := m.types[id]
	if !ok {
		return internalErrors.ErrOrgTypeNotFound
	}
	t.Status = status
	return nil
}

func (m *MockRepository) Delete(id int64) error {
	if m.shouldFail {
		return m.failError
	}
	delete(m.types, id)
	return nil
}

func (m *MockRepository) AdjustUsage(id int64, delta int64) error {
	if m.shouldFail {
		return m.failError
	}
	t, ok := m.types[id]
	if !ok {
		return internalErrors.ErrOrgTypeNotFound
	}
	t.UsageCount += delta
	return nil
}

type CapturingRecorder struct {
	actions []audit.Action
}

func (r *CapturingRecorder) Record(ctx context.Context, action audit.Action, targetType, targetID string, actorID int64, scope rbac.Scope, details map[string]any) {
	r.actions = append(r.actions, action)
}

var _ = Describe("OrgTypeService", func() {
	var (
		service       *orgtype.Service
		mockRepo      *MockRepository
		recorder      *CapturingRecorder
		superAdmin    *rbac.Actor
		platformAdmin *rbac.Actor
	)

	ptr := func(v int64) *int64 { return &v }

	seedType := func(code, scope string, platformID *int64, usage int64) *orgtypeDatamodel.OrganizationType {
		t := &orgtypeDatamodel.OrganizationType{
			Code:       code,
			Scope:      scope,
			PlatformID: platformID,
			Status:     orgtypeDatamodel.StatusActive,
			UsageCount: usage,
		}
		Expect(mockRepo.Create(t)).To(Succeed())
		return t
	}

	BeforeEach(func() {
		mockRepo = NewMockRepository()
		recorder = &CapturingRecorder{}
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = orgtype.NewService(mockRepo, recorder, logger)

		superAdmin = &rbac.Actor{UserID: 1, Role: rbac.RoleSuperAdmin}
		platformAdmin = &rbac.Actor{UserID: 2, Role: rbac.RolePlatformAdmin, PlatformID: ptr(1)}
	})

	Describe("Create", func() {
		It("defaults to a global type visible everywhere", func() {
			t, err := service.Create(context.Background(), superAdmin, orgtype.CreateOrgTypeDTO{
				Code: "enterprise",
			})

			Expect(err).To(BeNil())
			Expect(t.Scope).To(Equal(orgtypeDatamodel.ScopeGlobal))
			Expect(t.Status).To(Equal(orgtypeDatamodel.StatusActive))
		})

		It("reserves global types for super admins", func() {
			_, err := service.Create(context.Background(), platformAdmin, orgtype.CreateOrgTypeDTO{
				Code: "enterprise",
			})

			Expect(err).To(MatchError(internalErrors.ErrInsufficientRole))
		})

		It("lets a platform admin create a type on their own platform", func() {
			t, err := service.Create(context.Background(), platformAdmin, orgtype.CreateOrgTypeDTO{
				Code:       "franchise",
				Scope:      orgtypeDatamodel.ScopePlatform,
				PlatformID: ptr(1),
			})

			Expect(err).To(BeNil())
			Expect(t.Scope).To(Equal(orgtypeDatamodel.ScopePlatform))
		})

		It("denies a platform admin creating a type on another platform", func() {
			_, err := service.Create(context.Background(), platformAdmin, orgtype.CreateOrgTypeDTO{
				Code:       "franchise",
				Scope:      orgtypeDatamodel.ScopePlatform,
				PlatformID: ptr(2),
			})

			Expect(err).To(MatchError(internalErrors.ErrCrossPlatform))
		})

		It("rejects a duplicate code within the same scope", func() {
			seedType("enterprise", orgtypeDatamodel.ScopeGlobal, nil, 0)

			_, err := service.Create(context.Background(), superAdmin, orgtype.CreateOrgTypeDTO{
				Code: "enterprise",
			})

			appErr, ok := internalErrors.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(internalErrors.ErrCodeDuplicateName))
		})

		It("allows the same code on a different platform scope", func() {
			seedType("enterprise", orgtypeDatamodel.ScopeGlobal, nil, 0)

			t, err := service.Create(context.Background(), platformAdmin, orgtype.CreateOrgTypeDTO{
				Code:       "enterprise",
				Scope:      orgtypeDatamodel.ScopePlatform,
				PlatformID: ptr(1),
			})

			Expect(err).To(BeNil())
			Expect(t.Scope).To(Equal(orgtypeDatamodel.ScopePlatform))
		})
	})

	Describe("Archive", func() {
		It("archives an active type", func() {
			t := seedType("enterprise", orgtypeDatamodel.ScopeGlobal, nil, 3)

			archived, err := service.Archive(context.Background(), superAdmin, t.ID)

			Expect(err).To(BeNil())
			Expect(archived.Status).To(Equal(orgtypeDatamodel.StatusArchived))
		})

		It("is idempotent", func() {
			t := seedType("enterprise", orgtypeDatamodel.ScopeGlobal, nil, 0)
			_, err := service.Archive(context.Background(), superAdmin, t.ID)
			Expect(err).To(BeNil())

			archived, err := service.Archive(context.Background(), superAdmin, t.ID)

			Expect(err).To(BeNil())
			Expect(archived.Status).To(Equal(orgtypeDatamodel.StatusArchived))
		})

		It("keeps global types out of platform admin reach", func() {
			t := seedType("enterprise", orgtypeDatamodel.ScopeGlobal, nil, 0)

			_, err := service.Archive(context.Background(), platformAdmin, t.ID)

			Expect(err).To(MatchError(internalErrors.ErrInsufficientRole))
		})
	})

	Describe("Delete", func() {
		It("removes an unused type", func() {
			t := seedType("enterprise", orgtypeDatamodel.ScopeGlobal, nil, 0)

			Expect(service.Delete(context.Background(), superAdmin, t.ID)).To(Succeed())

			_, err := mockRepo.GetByID(t.ID)
			Expect(err).To(MatchError(internalErrors.ErrOrgTypeNotFound))
		})

		It("audits a delete under its own action", func() {
			t := seedType("enterprise", orgtypeDatamodel.ScopeGlobal, nil, 0)

			Expect(service.Delete(context.Background(), superAdmin, t.ID)).To(Succeed())

			Expect(recorder.actions).To(ContainElement(audit.ActionOrgTypeDelete))
			Expect(recorder.actions).ToNot(ContainElement(audit.ActionOrgTypeArchive))
		})

		It("refuses to delete a type still in use", func() {
			t := seedType("enterprise", orgtypeDatamodel.ScopeGlobal, nil, 2)

			err := service.Delete(context.Background(), superAdmin, t.ID)

			Expect(err).To(MatchError(internalErrors.ErrOrgTypeInUse))
		})
	})

	Describe("Resolve", func() {
		It("prefers the platform scoped type over the global one", func() {
			seedType("enterprise", orgtypeDatamodel.ScopeGlobal, nil, 0)
			scoped := seedType("enterprise", orgtypeDatamodel.ScopePlatform, ptr(1), 0)

			t, err := service.Resolve(context.Background(), "enterprise", 1)

			Expect(err).To(BeNil())
			Expect(t.ID).To(Equal(scoped.ID))
		})

		It("refuses archived types", func() {
			t := seedType("enterprise", orgtypeDatamodel.ScopeGlobal, nil, 0)
			t.Status = orgtypeDatamodel.StatusArchived

			_, err := service.Resolve(context.Background(), "enterprise", 1)

			Expect(err).To(MatchError(internalErrors.ErrOrgTypeNotFound))
		})

		It("returns not found for an unknown code", func() {
			_, err := service.Resolve(context.Background(), "nonexistent", 1)

			Expect(err).To(MatchError(internalErrors.ErrOrgTypeNotFound))
		})
	})

	Describe("List", func() {
		It("shows a platform admin global types plus their own platform's", func() {
			seedType("enterprise", orgtypeDatamodel.ScopeGlobal, nil, 0)
			seedType("franchise", orgtypeDatamodel.ScopePlatform, ptr(1), 0)
			seedType("reseller", orgtypeDatamodel.ScopePlatform, ptr(2), 0)

			types, err := service.List(context.Background(), platformAdmin)

			Expect(err).To(BeNil())
			Expect(types).To(HaveLen(2))
		})
	})
})
