package auth_test

import (
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/frahmantamala/tenant-management/internal/auth"
	"github.com/frahmantamala/tenant-management/internal/core/events"
	"github.com/frahmantamala/tenant-management/internal/rbac"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"golang.org/x/crypto/bcrypt"
)

func TestAuthService(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Auth Service Suite")
}

type mockAccount struct {
	id            int64
	email         string
	passwordHash  string
	disabled      bool
	active        bool
	resetToken    string
	resetExpires  time.Time
	verifyToken   string
	verifyExpires time.Time
}

type MockRepository struct {
	accounts   map[string]*mockAccount
	shouldFail bool
	failError  error
}

func NewMockRepository() *MockRepository {
	return &MockRepository{accounts: make(map[string]*mockAccount)}
}

func (m *MockRepository) SetShouldFail(fail bool, err error) {
	m.shouldFail = fail
	m.failError = err
}

func (m *MockRepository) GetCredentialsByEmail(email string) (string, int64, bool, error) {
	if m.shouldFail {
		return "", 0, false, m.failError
	}
	acc, ok := m.accounts[email]
	if !ok {
		return "", 0, false, auth.ErrInvalidCredentials
	}
	return acc.passwordHash, acc.id, acc.disabled, nil
}

func (m *MockRepository) GetActor(userID int64) (*rbac.Actor, error) {
	for _, acc := range m.accounts {
		if acc.id == userID {
			return &rbac.Actor{UserID: acc.id, Email: acc.email, Role: rbac.RoleUser}, nil
		}
	}
	return nil, auth.ErrInvalidCredentials
}

func (m *MockRepository) SetResetToken(email, token string, expiresAt time.Time) (bool, error) {
	if m.shouldFail {
		return false, m.failError
	}
	acc, ok := m.accounts[email]
	if !ok {
		return false, nil
	}
	acc.resetToken = token
	acc.resetExpires = expiresAt
	return true, nil
}

func (m *MockRepository) ConsumeResetToken(token string) (int64, time.Time, error) {
	for _, acc := range m.accounts {
		if acc.resetToken != "" && acc.resetToken == token {
			acc.resetToken = ""
			return acc.id, acc.resetExpires, nil
		}
	}
	return 0, time.Time{}, auth.ErrInvalidToken
}

func (m *MockRepository) UpdatePassword(userID int64, passwordHash string) error {
	if m.shouldFail {
		return m.failError
	}
	for _, acc := range m.accounts {
		if acc.id == userID {
			acc.passwordHash = passwordHash
			return nil
		}
	}
	return auth.ErrInvalidCredentials
}

func (m *MockRepository) ConsumeVerifyToken(token string) (int64, time.Time, error) {
	for _, acc := range m.accounts {
		if acc.verifyToken != "" && acc.verifyToken == token {
			acc.verifyToken = ""
			return acc.id, acc.verifyExpires, nil
		}
	}
	return 0, time.Time{}, auth.ErrInvalidToken
}

func (m *MockRepository) ActivateUser(userID int64) error {
	if m.shouldFail {
		return m.failError
	}
	for _, acc := range m.accounts {
		if acc.id == userID {
			acc.active = true
			return nil
		}
	}
	return auth.ErrInvalidCredentials
}

var _ = Describe("AuthService", func() {
	var (
		service  *auth.Service
		mockRepo *MockRepository
		bus      *events.EventBus
	)

	addAccount := func(email, password string, disabled bool) *mockAccount {
		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
		Expect(err).To(BeNil())
		acc := &mockAccount{
			id:           int64(len(mockRepo.accounts) + 1),
			email:        email,
			passwordHash: string(hash),
			disabled:     disabled,
		}
		mockRepo.accounts[email] = acc
		return acc
	}

	BeforeEach(func() {
		mockRepo = NewMockRepository()
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		bus = events.NewEventBus(logger)
		tokenGen := auth.NewJWTTokenGenerator("access-secret", "refresh-secret", 15*time.Minute, 24*time.Hour)
		service = auth.NewService(mockRepo, tokenGen, bus, logger, bcrypt.MinCost, time.Hour)
	})

	Describe("Authenticate", func() {
		It("returns a token pair on valid credentials", func() {
			addAccount("jdoe@acme.test", "correct-password", false)

			tokens, err := service.Authenticate(auth.LoginDTO{Email: "jdoe@acme.test", Password: "correct-password"})

			Expect(err).To(BeNil())
			Expect(tokens.AccessToken).ToNot(BeEmpty())
			Expect(tokens.RefreshToken).ToNot(BeEmpty())
		})

		It("rejects a wrong password", func() {
			addAccount("jdoe@acme.test", "correct-password", false)

			_, err := service.Authenticate(auth.LoginDTO{Email: "jdoe@acme.test", Password: "wrong-password"})

			Expect(err).To(MatchError(auth.ErrInvalidCredentials))
		})

		It("rejects an unknown email with the same error as a bad password", func() {
			_, err := service.Authenticate(auth.LoginDTO{Email: "nobody@acme.test", Password: "whatever-pass"})

			Expect(err).To(MatchError(auth.ErrInvalidCredentials))
		})

		It("rejects a disabled account even with the right password", func() {
			addAccount("jdoe@acme.test", "correct-password", true)

			_, err := service.Authenticate(auth.LoginDTO{Email: "jdoe@acme.test", Password: "correct-password"})

			Expect(err).To(MatchError(auth.ErrUserDisabled))
		})
	})

	Describe("ValidateAccessToken", func() {
		It("round-trips claims through an issued access token", func() {
			addAccount("jdoe@acme.test", "correct-password", false)
			tokens, err := service.Authenticate(auth.LoginDTO{Email: "jdoe@acme.test", Password: "correct-password"})
			Expect(err).To(BeNil())

			claims, err := service.ValidateAccessToken(tokens.AccessToken)

			Expect(err).To(BeNil())
			Expect(claims.Email).To(Equal("jdoe@acme.test"))
		})

		It("rejects garbage tokens", func() {
			_, err := service.ValidateAccessToken("not-a-jwt")

			Expect(err).To(MatchError(auth.ErrInvalidToken))
		})
	})

	Describe("ForgotPassword", func() {
		It("returns nil for known and unknown emails alike", func() {
			addAccount("jdoe@acme.test", "correct-password", false)

			Expect(service.ForgotPassword(auth.ForgotPasswordDTO{Email: "jdoe@acme.test"})).To(BeNil())
			Expect(service.ForgotPassword(auth.ForgotPasswordDTO{Email: "nobody@acme.test"})).To(BeNil())
		})

		It("stores a reset token for a known email", func() {
			acc := addAccount("jdoe@acme.test", "correct-password", false)

			Expect(service.ForgotPassword(auth.ForgotPasswordDTO{Email: "jdoe@acme.test"})).To(BeNil())

			Expect(acc.resetToken).ToNot(BeEmpty())
			Expect(acc.resetExpires).To(BeTemporally(">", time.Now()))
		})
	})

	Describe("ResetPassword", func() {
		It("replaces the password for a valid token", func() {
			acc := addAccount("jdoe@acme.test", "old-password", false)
			Expect(service.ForgotPassword(auth.ForgotPasswordDTO{Email: "jdoe@acme.test"})).To(BeNil())
			token := acc.resetToken

			err := service.ResetPassword(auth.ResetPasswordDTO{Token: token, NewPassword: "new-password"})

			Expect(err).To(BeNil())
			_, loginErr := service.Authenticate(auth.LoginDTO{Email: "jdoe@acme.test", Password: "new-password"})
			Expect(loginErr).To(BeNil())
		})

		It("rejects an unknown token", func() {
			err := service.ResetPassword(auth.ResetPasswordDTO{Token: "bogus", NewPassword: "new-password"})

			Expect(err).To(MatchError(auth.ErrInvalidToken))
		})

		It("rejects an expired token at read time", func() {
			acc := addAccount("jdoe@acme.test", "old-password", false)
			acc.resetToken = "stale-token"
			acc.resetExpires = time.Now().Add(-time.Minute)

			err := service.ResetPassword(auth.ResetPasswordDTO{Token: "stale-token", NewPassword: "new-password"})

			Expect(err).To(MatchError(auth.ErrTokenExpired))
		})

		It("rejects a short replacement password", func() {
			err := service.ResetPassword(auth.ResetPasswordDTO{Token: "whatever", NewPassword: "short"})

			Expect(err).To(HaveOccurred())
		})
	})

	Describe("VerifyEmail", func() {
		It("activates the account for a valid token", func() {
			acc := addAccount("jdoe@acme.test", "a-password", false)
			acc.verifyToken = "verify-token"
			acc.verifyExpires = time.Now().Add(time.Hour)

			err := service.VerifyEmail("verify-token")

			Expect(err).To(BeNil())
			Expect(acc.active).To(BeTrue())
			Expect(acc.verifyToken).To(BeEmpty())
		})

		It("rejects an unknown token", func() {
			err := service.VerifyEmail("bogus")

			Expect(err).To(MatchError(auth.ErrInvalidToken))
		})

		It("rejects an empty token", func() {
			err := service.VerifyEmail("")

			Expect(err).To(MatchError(auth.ErrInvalidToken))
		})

		It("rejects an expired token", func() {
			acc := addAccount("jdoe@acme.test", "a-password", false)
			acc.verifyToken = "stale-verify"
			acc.verifyExpires = time.Now().Add(-time.Minute)

			err := service.VerifyEmail("stale-verify")

			Expect(err).To(MatchError(auth.ErrTokenExpired))
		})
	})
})
