package user_test

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	internalErrors "github.com/frahmantamala/tenant-management/internal"
	"github.com/frahmantamala/tenant-management/internal/audit"
	"github.com/frahmantamala/tenant-management/internal/core/events"
	"github.com/frahmantamala/tenant-management/internal/rbac"
	"github.com/frahmantamala/tenant-management/internal/user"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"golang.org/x/crypto/bcrypt"

	userDatamodel "github.com/frahmantamala/tenant-management/internal/core/datamodel/user"
)

func TestUserService(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "User Service Suite")
}

type MockRepository struct {
	users      map[int64]*userDatamodel.User
	nextID     int64
	shouldFail bool
	failError  error
}

func NewMockRepository() *MockRepository {
	return &MockRepository{
		users:  make(map[int64]*userDatamodel.User),
		nextID: 1,
	}
}

func (m *MockRepository) SetShouldFail(fail bool, err error) {
	m.shouldFail = fail
	m.failError = err
}

func (m *MockRepository) Create(u *userDatamodel.User) error {
	if m.shouldFail {
		return m.failError
	}
	u.ID = m.nextID
	m.nextID++
	m.users[u.ID] = u
	return nil
}

func (m *MockRepository) GetByID(id int64) (*userDatamodel.User, error) {
	if m.shouldFail {
		return nil, m.failError
	}
	u, ok := m.users[id]
	if !ok {
		return nil, internalErrors.ErrUserNotFound
	}
	return u, nil
}

func (m *MockRepository) GetByEmail(email string) (*userDatamodel.User, error) {
	if m.shouldFail {
		return nil, m.failError
	}
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, internalErrors.ErrUserNotFound
}

func (m *MockRepository) ExistsByEmailOrUsername(email, username string) (bool, error) {
	if m.shouldFail {
		return false, m.failError
	}
	for _, u := range m.users {
		if u.Email == email || u.Username == username {
			return true, nil
		}
	}
	return false, nil
}

func (m *MockRepository) ListScoped(platformID, organizationID *int64, limit, offset int) ([]*userDatamodel.User, error) {
	if m.shouldFail {
		return nil, m.failError
	}
	var out []*userDatamodel.User
	for _, u := range m.users {
		if platformID != nil && (u.PlatformID == nil || *u.PlatformID != *platformID) {
			continue
		}
		if organizationID != nil && (u.OrganizationID == nil || *u.OrganizationID != *organizationID) {
			continue
		}
		out = append(out, u)
	}
	return out, nil
}

func (m *MockRepository) UpdateRole(id int64, role string) error {
	if m.shouldFail {
		return m.failError
	}
	u, ok := m.users[id]
	if !ok {
		return internalErrors.ErrUserNotFound
	}
	u.Role = role
	return nil
}

func (m *MockRepository) SetDisabled(id int64, disabled bool) error {
	if m.shouldFail {
		return m.failError
	}
	u, ok := m.users[id]
	if !ok {
		return internalErrors.ErrUserNotFound
	}
	u.Disabled = disabled
	return nil
}

type NoopRecorder struct{}

func (NoopRecorder) Record(ctx context.Context, action audit.Action, targetType, targetID string, actorID int64, scope rbac.Scope, details map[string]any) {
}

type MockPublisher struct {
	published []events.Event
}

func (m *MockPublisher) Publish(ctx context.Context, event events.Event) error {
	m.published = append(m.published, event)
	return nil
}

var _ = Describe("UserService", func() {
	var (
		service       *user.Service
		mockRepo      *MockRepository
		mockBus       *MockPublisher
		superAdmin    *rbac.Actor
		platformAdmin *rbac.Actor
		orgAdmin      *rbac.Actor
	)

	ptr := func(v int64) *int64 { return &v }

	seedUser := func(role string, platformID, organizationID *int64) *userDatamodel.User {
		u := &userDatamodel.User{
			Username:       "member" + role,
			Email:          "member-" + role + "@acme.test",
			Name:           "Member",
			Role:           role,
			PlatformID:     platformID,
			OrganizationID: organizationID,
			Status:         userDatamodel.StatusActive,
		}
		Expect(mockRepo.Create(u)).To(Succeed())
		return u
	}

	BeforeEach(func() {
		mockRepo = NewMockRepository()
		mockBus = &MockPublisher{}
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = user.NewService(mockRepo, mockBus, NoopRecorder{}, logger, bcrypt.MinCost, time.Hour)

		superAdmin = &rbac.Actor{UserID: 100, Role: rbac.RoleSuperAdmin}
		platformAdmin = &rbac.Actor{UserID: 101, Role: rbac.RolePlatformAdmin, PlatformID: ptr(1)}
		orgAdmin = &rbac.Actor{UserID: 102, Role: rbac.RoleOrganizationAdmin, PlatformID: ptr(1), OrganizationID: ptr(10)}
	})

	Describe("Create", func() {
		validDTO := func() user.CreateUserDTO {
			return user.CreateUserDTO{
				Username:       "jdoe",
				Email:          "jdoe@acme.test",
				Name:           "Jane Doe",
				Password:       "strong-password",
				Role:           "user",
				PlatformID:     ptr(1),
				OrganizationID: ptr(10),
			}
		}

		It("creates a pending account and hashes the password", func() {
			u, err := service.Create(context.Background(), orgAdmin, validDTO())

			Expect(err).To(BeNil())
			Expect(u.Status).To(Equal(userDatamodel.StatusPending))
			Expect(u.PasswordHash).ToNot(Equal("strong-password"))
			Expect(bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("strong-password"))).To(Succeed())
		})

		It("issues an email verification token for the new account", func() {
			u, err := service.Create(context.Background(), orgAdmin, validDTO())

			Expect(err).To(BeNil())
			Expect(u.VerifyToken).ToNot(BeNil())
			Expect(*u.VerifyToken).ToNot(BeEmpty())
			Expect(u.VerifyTokenExpires).ToNot(BeNil())
			Expect(*u.VerifyTokenExpires).To(BeTemporally(">", time.Now()))

			Expect(mockBus.published).To(HaveLen(1))
			Expect(mockBus.published[0].EventType()).To(Equal(events.EventEmailVerification))
			payload, ok := mockBus.published[0].Payload().(map[string]interface{})
			Expect(ok).To(BeTrue())
			Expect(payload["email"]).To(Equal("jdoe@acme.test"))
			Expect(payload["token"]).To(Equal(*u.VerifyToken))
		})

		It("requires platform_id when creating a platform admin", func() {
			dto := validDTO()
			dto.Role = "platform_admin"
			dto.PlatformID = nil

			_, err := service.Create(context.Background(), superAdmin, dto)

			appErr, ok := internalErrors.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(internalErrors.ErrCodeMissingMembership))
		})

		It("requires organization_id when creating an organization admin", func() {
			dto := validDTO()
			dto.Role = "org-admin"
			dto.OrganizationID = nil

			_, err := service.Create(context.Background(), superAdmin, dto)

			appErr, ok := internalErrors.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(internalErrors.ErrCodeMissingMembership))
		})

		It("normalizes role aliases before storing", func() {
			dto := validDTO()
			dto.Role = "Org-Admin"

			u, err := service.Create(context.Background(), superAdmin, dto)

			Expect(err).To(BeNil())
			Expect(u.Role).To(Equal("organization_admin"))
		})

		It("refuses to grant a role the actor does not subsume", func() {
			dto := validDTO()
			dto.Role = "super_admin"

			_, err := service.Create(context.Background(), platformAdmin, dto)

			Expect(err).To(MatchError(internalErrors.ErrInsufficientRole))
		})

		It("denies an organization admin creating users in another organization", func() {
			dto := validDTO()
			dto.OrganizationID = ptr(11)

			_, err := service.Create(context.Background(), orgAdmin, dto)

			Expect(err).To(MatchError(internalErrors.ErrCrossOrg))
		})

		It("rejects an already registered email", func() {
			_, err := service.Create(context.Background(), orgAdmin, validDTO())
			Expect(err).To(BeNil())

			dto := validDTO()
			dto.Username = "jdoe2"
			_, err = service.Create(context.Background(), orgAdmin, dto)

			Expect(err).To(MatchError(internalErrors.ErrEmailRegistered))
		})
	})

	Describe("Get", func() {
		It("always lets users read themselves", func() {
			target := seedUser("user", ptr(1), ptr(10))
			self := &rbac.Actor{UserID: target.ID, Role: rbac.RoleUser, OrganizationID: ptr(10)}

			got, err := service.Get(context.Background(), self, target.ID)

			Expect(err).To(BeNil())
			Expect(got.ID).To(Equal(target.ID))
		})

		It("denies non-admins reading other users", func() {
			target := seedUser("user", ptr(1), ptr(10))
			other := &rbac.Actor{UserID: target.ID + 500, Role: rbac.RoleUser, OrganizationID: ptr(10)}

			_, err := service.Get(context.Background(), other, target.ID)

			Expect(err).To(MatchError(internalErrors.ErrInsufficientRole))
		})

		It("returns not found for a missing user", func() {
			_, err := service.Get(context.Background(), superAdmin, 9999)

			Expect(err).To(MatchError(internalErrors.ErrUserNotFound))
		})
	})

	Describe("List", func() {
		BeforeEach(func() {
			seedUser("user", ptr(1), ptr(10))
			seedUser("employee", ptr(1), ptr(11))
			seedUser("manager", ptr(2), ptr(20))
		})

		It("returns everything for a super admin", func() {
			users, err := service.List(context.Background(), superAdmin, 50, 0)

			Expect(err).To(BeNil())
			Expect(users).To(HaveLen(3))
		})

		It("scopes a platform admin to their platform", func() {
			users, err := service.List(context.Background(), platformAdmin, 50, 0)

			Expect(err).To(BeNil())
			Expect(users).To(HaveLen(2))
		})

		It("scopes an organization admin to their organization", func() {
			users, err := service.List(context.Background(), orgAdmin, 50, 0)

			Expect(err).To(BeNil())
			Expect(users).To(HaveLen(1))
		})
	})

	Describe("ChangeRole", func() {
		It("rejects self role changes even for super admins", func() {
			target := seedUser("super_admin", nil, nil)
			self := &rbac.Actor{UserID: target.ID, Role: rbac.RoleSuperAdmin}

			_, err := service.ChangeRole(context.Background(), self, target.ID, user.ChangeRoleDTO{Role: "user"})

			Expect(err).To(MatchError(internalErrors.ErrSelfModification))
		})

		It("requires authority over the current role, not just the new one", func() {
			target := seedUser("super_admin", nil, nil)

			_, err := service.ChangeRole(context.Background(), platformAdmin, target.ID, user.ChangeRoleDTO{Role: "user"})

			Expect(err).To(MatchError(internalErrors.ErrInsufficientRole))
		})

		It("promotes within the actor's authority", func() {
			target := seedUser("user", ptr(1), ptr(10))

			updated, err := service.ChangeRole(context.Background(), superAdmin, target.ID, user.ChangeRoleDTO{Role: "organization_admin"})

			Expect(err).To(BeNil())
			Expect(updated.Role).To(Equal("organization_admin"))
		})

		It("rejects unknown roles", func() {
			target := seedUser("user", ptr(1), ptr(10))

			_, err := service.ChangeRole(context.Background(), superAdmin, target.ID, user.ChangeRoleDTO{Role: "overlord"})

			appErr, ok := internalErrors.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(internalErrors.ErrCodeInvalidRole))
		})
	})

	Describe("Disable and Enable", func() {
		It("rejects disabling yourself", func() {
			target := seedUser("organization_admin", ptr(1), ptr(10))
			self := &rbac.Actor{UserID: target.ID, Role: rbac.RoleOrganizationAdmin, PlatformID: ptr(1), OrganizationID: ptr(10)}

			_, err := service.Disable(context.Background(), self, target.ID)

			Expect(err).To(MatchError(internalErrors.ErrSelfModification))
		})

		It("disables a subordinate account", func() {
			target := seedUser("user", ptr(1), ptr(10))

			updated, err := service.Disable(context.Background(), orgAdmin, target.ID)

			Expect(err).To(BeNil())
			Expect(updated.Disabled).To(BeTrue())
		})

		It("is a no-op when the account is already disabled", func() {
			target := seedUser("user", ptr(1), ptr(10))
			target.Disabled = true

			updated, err := service.Disable(context.Background(), orgAdmin, target.ID)

			Expect(err).To(BeNil())
			Expect(updated.Disabled).To(BeTrue())
		})

		It("refuses to disable a superior", func() {
			target := seedUser("platform_admin", ptr(1), nil)

			_, err := service.Disable(context.Background(), orgAdmin, target.ID)

			Expect(err).To(MatchError(internalErrors.ErrInsufficientRole))
		})

		It("re-enables a disabled account", func() {
			target := seedUser("user", ptr(1), ptr(10))
			target.Disabled = true

			updated, err := service.Enable(context.Background(), orgAdmin, target.ID)

			Expect(err).To(BeNil())
			Expect(updated.Disabled).To(BeFalse())
		})
	})
})
