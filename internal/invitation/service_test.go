package invitation_test

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	internalErrors "github.com/frahmantamala/tenant-management/internal"
	"github.com/frahmantamala/tenant-management/internal/audit"
	"github.com/frahmantamala/tenant-management/internal/core/events"
	"github.com/frahmantamala/tenant-management/internal/invitation"
	"github.com/frahmantamala/tenant-management/internal/rbac"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"golang.org/x/crypto/bcrypt"

	inviteDatamodel "github.com/frahmantamala/tenant-management/internal/core/datamodel/invitation"
	userDatamodel "github.com/frahmantamala/tenant-management/internal/core/datamodel/user"
)

func TestInvitationService(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Invitation Service Suite")
}

type MockRepository struct {
	invitations map[int64]*inviteDatamodel.Invitation
	nextID      int64
	shouldFail  bool
	failError   error
}

func NewMockRepository() *MockRepository {
	return &MockRepository{
		invitations: make(map[int64]*inviteDatamodel.Invitation),
		nextID:      1,
	}
}

func (m *MockRepository) SetShouldFail(fail bool, err error) {
	m.shouldFail = fail
	m.failError = err
}

func (m *MockRepository) Create(inv *inviteDatamodel.Invitation) error {
	if m.shouldFail {
		return m.failError
	}
	inv.ID = m.nextID
	m.nextID++
	m.invitations[inv.ID] = inv
	return nil
}

func (m *MockRepository) GetByID(id int64) (*inviteDatamodel.Invitation, error) {
	if m.shouldFail {
		return nil, m.failError
	}
	inv, ok := m.invitations[id]
	if !ok {
		return nil, internalErrors.ErrInvitationNotFound
	}
	return inv, nil
}

func (m *MockRepository) GetByToken(token string) (*inviteDatamodel.Invitation, error) {
	if m.shouldFail {
		return nil, m.failError
	}
	for _, inv := range m.invitations {
		if inv.Token == token {
			return inv, nil
		}
	}
	return nil, internalErrors.ErrInvitationNotFound
}

func (m *MockRepository) HasPending(email string, organizationID *int64) (bool, error) {
	if m.shouldFail {
		return false, m.failError
	}
	for _, inv := range m.invitations {
		if inv.Email != email || inv.Status != inviteDatamodel.StatusPending || inv.Revoked {
			continue
		}
		if organizationID == nil && inv.OrganizationID == nil {
			return true, nil
		}
		if organizationID != nil && inv.OrganizationID != nil && *inv.OrganizationID == *organizationID {
			return true, nil
		}
	}
	return false, nil
}

func (m *MockRepository) ListScoped(platformID, organizationID *int64) ([]*inviteDatamodel.Invitation, error) {
	if m.shouldFail {
		return nil, m.failError
	}
	var out []*inviteDatamodel.Invitation
	for _, inv := range m.invitations {
		if platformID != nil && (inv.PlatformID == nil || *inv.PlatformID != *platformID) {
			continue
		}
		if organizationID != nil && (inv.OrganizationID == nil || *inv.OrganizationID != *organizationID) {
			continue
		}
		out = append(out, inv)
	}
	return out, nil
}

func (m *MockRepository) MarkAccepted(id int64, acceptedAt time.Time) (bool, error) {
	if m.shouldFail {
		return false, m.failError
	}
	inv, ok := m.invitations[id]
	if !ok || inv.Status != inviteDatamodel.StatusPending || inv.Revoked {
		return false, nil
	}
	inv.Status = inviteDatamodel.StatusAccepted
	inv.AcceptedAt = &acceptedAt
	return true, nil
}

func (m *MockRepository) MarkExpired(id int64, revoked bool) (bool, error) {
	if m.shouldFail {
		return false, m.failError
	}
	inv, ok := m.invitations[id]
	if !ok || inv.Status != inviteDatamodel.StatusPending {
		return false, nil
	}
	inv.Status = inviteDatamodel.StatusExpired
	if revoked {
		inv.Revoked = true
	}
	return true, nil
}

func (m *MockRepository) UpdateToken(id int64, token string, expiresAt time.Time) error {
	if m.shouldFail {
		return m.failError
	}
	inv, ok := m.invitations[id]
	if !ok {
		return internalErrors.ErrInvitationNotFound
	}
	inv.Token = token
	inv.ExpiresAt = expiresAt
	return nil
}

type MockUserCreator struct {
	users      map[string]*userDatamodel.User
	shouldFail bool
	failError  error
}

func NewMockUserCreator() *MockUserCreator {
	return &MockUserCreator{users: make(map[string]*userDatamodel.User)}
}

func (m *MockUserCreator) Create(u *userDatamodel.User) error {
	if m.shouldFail {
		return m.failError
	}
	u.ID = int64(len(m.users) + 1)
	m.users[u.Email] = u
	return nil
}

func (m *MockUserCreator) ExistsByEmailOrUsername(email, username string) (bool, error) {
	if m.shouldFail {
		return false, m.failError
	}
	for _, u := range m.users {
		if u.Email == email || (username != "" && u.Username == username) {
			return true, nil
		}
	}
	return false, nil
}

type MockPublisher struct {
	published []events.Event
}

func (m *MockPublisher) Publish(ctx context.Context, event events.Event) error {
	m.published = append(m.published, event)
	return nil
}

type NoopRecorder struct{}

func (NoopRecorder) Record(ctx context.Context, action audit.Action, targetType, targetID string, actorID int64, scope rbac.Scope, details map[string]any) {
}

var _ = Describe("InvitationService", func() {
	var (
		service    *invitation.Service
		mockRepo   *MockRepository
		mockUsers  *MockUserCreator
		mockBus    *MockPublisher
		superAdmin *rbac.Actor
		orgAdmin   *rbac.Actor
	)

	ptr := func(v int64) *int64 { return &v }

	seedInvite := func(status string, expiresAt time.Time) *inviteDatamodel.Invitation {
		inv := &inviteDatamodel.Invitation{
			Email:          "invitee@acme.test",
			Role:           "user",
			PlatformID:     ptr(1),
			OrganizationID: ptr(10),
			InviterID:      2,
			InviterName:    "admin@acme.test",
			Token:          "seed-token",
			Status:         status,
			ExpiresAt:      expiresAt,
		}
		Expect(mockRepo.Create(inv)).To(Succeed())
		return inv
	}

	BeforeEach(func() {
		mockRepo = NewMockRepository()
		mockUsers = NewMockUserCreator()
		mockBus = &MockPublisher{}
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = invitation.NewService(mockRepo, mockUsers, mockBus, NoopRecorder{}, logger,
			bcrypt.MinCost, 24*time.Hour, 7*24*time.Hour)

		superAdmin = &rbac.Actor{UserID: 1, Email: "root@tenant.local", Role: rbac.RoleSuperAdmin}
		orgAdmin = &rbac.Actor{UserID: 2, Email: "admin@acme.test", Role: rbac.RoleOrganizationAdmin, PlatformID: ptr(1), OrganizationID: ptr(10)}
	})

	Describe("Create", func() {
		It("defaults the invite into the inviter's tenancy and mails a token", func() {
			inv, err := service.Create(context.Background(), orgAdmin, invitation.CreateInvitationDTO{
				Email: "newhire@acme.test",
				Role:  "user",
			})

			Expect(err).To(BeNil())
			Expect(inv.PlatformID).To(Equal(orgAdmin.PlatformID))
			Expect(inv.OrganizationID).To(Equal(orgAdmin.OrganizationID))
			Expect(inv.Status).To(Equal(inviteDatamodel.StatusPending))
			Expect(inv.Token).ToNot(BeEmpty())
			Expect(mockBus.published).To(HaveLen(1))
			Expect(mockBus.published[0].EventType()).To(Equal(events.EventUserInvited))
		})

		It("gives organization admin invites the long expiry window", func() {
			inv, err := service.Create(context.Background(), superAdmin, invitation.CreateInvitationDTO{
				Email:          "future-admin@acme.test",
				Role:           "organization_admin",
				PlatformID:     ptr(1),
				OrganizationID: ptr(10),
			})

			Expect(err).To(BeNil())
			Expect(inv.ExpiresAt).To(BeTemporally(">", time.Now().Add(6*24*time.Hour)))
		})

		It("refuses an organization admin inviting another admin", func() {
			_, err := service.Create(context.Background(), orgAdmin, invitation.CreateInvitationDTO{
				Email:          "future-admin@acme.test",
				Role:           "organization_admin",
				OrganizationID: ptr(10),
			})

			Expect(err).To(MatchError(internalErrors.ErrInsufficientRole))
		})

		It("rejects an already registered email", func() {
			Expect(mockUsers.Create(&userDatamodel.User{Username: "taken", Email: "newhire@acme.test"})).To(Succeed())

			_, err := service.Create(context.Background(), orgAdmin, invitation.CreateInvitationDTO{
				Email: "newhire@acme.test",
				Role:  "user",
			})

			Expect(err).To(MatchError(internalErrors.ErrEmailRegistered))
		})

		It("rejects a duplicate pending invite for the same email and organization", func() {
			_, err := service.Create(context.Background(), orgAdmin, invitation.CreateInvitationDTO{
				Email: "newhire@acme.test",
				Role:  "user",
			})
			Expect(err).To(BeNil())

			_, err = service.Create(context.Background(), orgAdmin, invitation.CreateInvitationDTO{
				Email: "newhire@acme.test",
				Role:  "user",
			})

			Expect(err).To(MatchError(internalErrors.ErrDuplicateInvite))
		})

		It("requires organization_id for organization admin invites", func() {
			_, err := service.Create(context.Background(), superAdmin, invitation.CreateInvitationDTO{
				Email: "future-admin@acme.test",
				Role:  "organization_admin",
			})

			appErr, ok := internalErrors.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(internalErrors.ErrCodeMissingMembership))
		})
	})

	Describe("Accept", func() {
		acceptDTO := func(token string) invitation.AcceptInvitationDTO {
			return invitation.AcceptInvitationDTO{
				Token:    token,
				Username: "invitee",
				Name:     "Invited Person",
				Password: "strong-password",
			}
		}

		It("creates an active account bound to the invite's tenancy", func() {
			inv := seedInvite(inviteDatamodel.StatusPending, time.Now().Add(time.Hour))

			u, err := service.Accept(context.Background(), acceptDTO(inv.Token))

			Expect(err).To(BeNil())
			Expect(u.Email).To(Equal(inv.Email))
			Expect(u.Role).To(Equal(inv.Role))
			Expect(u.PlatformID).To(Equal(inv.PlatformID))
			Expect(u.OrganizationID).To(Equal(inv.OrganizationID))
			Expect(u.Status).To(Equal(userDatamodel.StatusActive))
			Expect(bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("strong-password"))).To(Succeed())
		})

		It("rejects an unknown token", func() {
			_, err := service.Accept(context.Background(), acceptDTO("no-such-token"))

			Expect(err).To(MatchError(internalErrors.ErrInvalidToken))
		})

		It("persists expiry the first time an expired token is read", func() {
			inv := seedInvite(inviteDatamodel.StatusPending, time.Now().Add(-time.Minute))

			_, err := service.Accept(context.Background(), acceptDTO(inv.Token))

			Expect(err).To(MatchError(internalErrors.ErrTokenExpired))
			stored, getErr := mockRepo.GetByID(inv.ID)
			Expect(getErr).To(BeNil())
			Expect(stored.Status).To(Equal(inviteDatamodel.StatusExpired))
		})

		It("rejects a second redeem of the same token", func() {
			inv := seedInvite(inviteDatamodel.StatusPending, time.Now().Add(time.Hour))

			_, err := service.Accept(context.Background(), acceptDTO(inv.Token))
			Expect(err).To(BeNil())

			dto := acceptDTO(inv.Token)
			dto.Username = "invitee2"
			_, err = service.Accept(context.Background(), dto)

			Expect(err).To(MatchError(internalErrors.ErrAlreadyProcessed))
		})

		It("reports a revoked invitation as expired", func() {
			inv := seedInvite(inviteDatamodel.StatusPending, time.Now().Add(time.Hour))
			_, markErr := mockRepo.MarkExpired(inv.ID, true)
			Expect(markErr).To(BeNil())

			_, err := service.Accept(context.Background(), acceptDTO(inv.Token))

			Expect(err).To(MatchError(internalErrors.ErrTokenExpired))
		})

		It("reports an already swept token as expired rather than processed", func() {
			inv := seedInvite(inviteDatamodel.StatusExpired, time.Now().Add(-time.Hour))

			_, err := service.Accept(context.Background(), acceptDTO(inv.Token))

			Expect(err).To(MatchError(internalErrors.ErrTokenExpired))
		})
	})

	Describe("Resend", func() {
		It("regenerates the token and extends the expiry", func() {
			inv := seedInvite(inviteDatamodel.StatusPending, time.Now().Add(time.Minute))
			oldToken := inv.Token

			updated, err := service.Resend(context.Background(), orgAdmin, inv.ID)

			Expect(err).To(BeNil())
			Expect(updated.Token).ToNot(Equal(oldToken))
			Expect(updated.ExpiresAt).To(BeTemporally(">", time.Now().Add(23*time.Hour)))
			Expect(mockBus.published).To(HaveLen(1))
			Expect(mockBus.published[0].EventType()).To(Equal(events.EventInvitationResent))
		})

		It("refuses to resend an accepted invitation", func() {
			inv := seedInvite(inviteDatamodel.StatusAccepted, time.Now().Add(time.Hour))

			_, err := service.Resend(context.Background(), orgAdmin, inv.ID)

			Expect(err).To(MatchError(internalErrors.ErrAlreadyProcessed))
		})
	})

	Describe("Revoke", func() {
		It("closes a pending invitation", func() {
			inv := seedInvite(inviteDatamodel.StatusPending, time.Now().Add(time.Hour))

			Expect(service.Revoke(context.Background(), orgAdmin, inv.ID)).To(Succeed())

			stored, err := mockRepo.GetByID(inv.ID)
			Expect(err).To(BeNil())
			Expect(stored.Status).To(Equal(inviteDatamodel.StatusExpired))
			Expect(stored.Revoked).To(BeTrue())
		})

		It("reports already processed on a second revoke", func() {
			inv := seedInvite(inviteDatamodel.StatusPending, time.Now().Add(time.Hour))
			Expect(service.Revoke(context.Background(), orgAdmin, inv.ID)).To(Succeed())

			err := service.Revoke(context.Background(), orgAdmin, inv.ID)

			Expect(err).To(MatchError(internalErrors.ErrAlreadyProcessed))
		})

		It("denies admins outside the invite's organization", func() {
			inv := seedInvite(inviteDatamodel.StatusPending, time.Now().Add(time.Hour))
			outsider := &rbac.Actor{UserID: 9, Role: rbac.RoleOrganizationAdmin, PlatformID: ptr(1), OrganizationID: ptr(11)}

			err := service.Revoke(context.Background(), outsider, inv.ID)

			Expect(err).To(MatchError(internalErrors.ErrCrossOrg))
		})
	})

	Describe("List", func() {
		It("scopes an organization admin to their organization", func() {
			seedInvite(inviteDatamodel.StatusPending, time.Now().Add(time.Hour))
			other := &inviteDatamodel.Invitation{
				Email: "elsewhere@beta.test", Role: "user",
				PlatformID: ptr(1), OrganizationID: ptr(11),
				InviterID: 9, Token: "other-token",
				Status: inviteDatamodel.StatusPending, ExpiresAt: time.Now().Add(time.Hour),
			}
			Expect(mockRepo.Create(other)).To(Succeed())

			invites, err := service.List(context.Background(), orgAdmin)

			Expect(err).To(BeNil())
			Expect(invites).To(HaveLen(1))
			Expect(*invites[0].OrganizationID).To(Equal(int64(10)))
		})
	})
})
