package usecase

import (
	"strings"
	"testing"
	"time"

	"movie-discovery/internal/data/entity"
	"movie-discovery/internal/dto/request"

	"github.com/google/uuid"
)

func TestRegisterAndLogin(t *testing.T) {
	svc, _, store, _ := newTestService(t)

	reg, err := svc.Auth.Register(bg, &request.RegisterRequest{
		Email:       "Ana@Example.com",
		Password:    "correct-horse",
		DisplayName: " Ana ",
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if reg.Token == "" || reg.User.Email != "ana@example.com" || reg.User.DisplayName != "Ana" {
		t.Errorf("unexpected register response %+v", reg)
	}
	if reg.User.Role != entity.RoleUser || reg.User.OnboardingCompleted {
		t.Errorf("new users are plain users awaiting onboarding, got %+v", reg.User)
	}

	stored := store.users[uuid.MustParse(reg.User.ID)]
	if stored.PasswordHash == "correct-horse" || stored.PasswordHash == "" {
		t.Errorf("password must be stored hashed")
	}

	_, err = svc.Auth.Register(bg, &request.RegisterRequest{Email: "ana@example.com", Password: "another-pass", DisplayName: "Imposter"})
	if err == nil || !strings.Contains(err.Error(), "already registered") {
		t.Errorf("duplicate register err = %v", err)
	}

	login, err := svc.Auth.Login(bg, &request.LoginRequest{Email: "ana@example.com", Password: "correct-horse"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if login.Token == reg.Token {
		t.Errorf("login should open a new session")
	}

	_, err = svc.Auth.Login(bg, &request.LoginRequest{Email: "ana@example.com", Password: "wrong-password"})
	if err == nil || err.Error() != "invalid credentials" {
		t.Errorf("wrong password err = %v", err)
	}
	_, err = svc.Auth.Login(bg, &request.LoginRequest{Email: "nobody@example.com", Password: "whatever1"})
	if err == nil || err.Error() != "invalid credentials" {
		t.Errorf("unknown email err = %v", err)
	}
}

func TestRegisterValidation(t *testing.T) {
	svc, _, _, _ := newTestService(t)

	_, err := svc.Auth.Register(bg, &request.RegisterRequest{Email: "short@example.com", Password: "1234567", DisplayName: "Short"})
	if err == nil || !strings.HasPrefix(err.Error(), "validation failed") {
		t.Errorf("7-char password err = %v", err)
	}
	_, err = svc.Auth.Register(bg, &request.RegisterRequest{Email: "not-an-email", Password: "12345678", DisplayName: "X"})
	if err == nil || !strings.HasPrefix(err.Error(), "validation failed") {
		t.Errorf("bad email err = %v", err)
	}
}

func TestLoginDeactivatedAccount(t *testing.T) {
	svc, _, store, _ := newTestService(t)

	reg, err := svc.Auth.Register(bg, &request.RegisterRequest{Email: "gone@example.com", Password: "password123", DisplayName: "Gone"})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	id := uuid.MustParse(reg.User.ID)
	u := store.users[id]
	u.IsActive = false
	store.users[id] = u

	_, err = svc.Auth.Login(bg, &request.LoginRequest{Email: "gone@example.com", Password: "password123"})
	if err == nil || !strings.Contains(err.Error(), "deactivated") {
		t.Errorf("inactive login err = %v", err)
	}
}

func TestLogoutRevokesSession(t *testing.T) {
	svc, repo, _, _ := newTestService(t)

	reg, err := svc.Auth.Register(bg, &request.RegisterRequest{Email: "bye@example.com", Password: "password123", DisplayName: "Bye"})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	token := uuid.MustParse(reg.Token)

	if p, _ := repo.Session.Resolve(bg, token); p == nil {
		t.Fatalf("session should be valid after register")
	}
	if err := svc.Auth.Logout(bg, reg.Token); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if p, _ := repo.Session.Resolve(bg, token); p != nil {
		t.Errorf("session still valid after logout")
	}
	if err := svc.Auth.Logout(bg, "not-a-uuid"); err == nil {
		t.Errorf("malformed token should be rejected")
	}
}

func TestSessionReturnsCurrentUser(t *testing.T) {
	svc, _, store, _ := newTestService(t)
	userID := seedUser(t, store, "me")

	user, err := svc.Auth.Session(bg, userID)
	if err != nil {
		t.Fatalf("Session: %v", err)
	}
	if user.ID != userID.String() {
		t.Errorf("session user = %s, want %s", user.ID, userID)
	}
	if _, err := svc.Auth.Session(bg, uuid.New()); err == nil {
		t.Errorf("unknown user should not resolve")
	}
}

func TestAuthenticate(t *testing.T) {
	svc, _, store, _ := newTestService(t)

	reg, err := svc.Auth.Register(bg, &request.RegisterRequest{Email: "fn@example.com", Password: "password123", DisplayName: "Fn"})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	id, err := svc.Auth.Authenticate(bg, reg.Token)
	if err != nil || id.String() != reg.User.ID {
		t.Fatalf("Authenticate = %s, %v", id, err)
	}

	for _, token := range []string{"", "garbage", uuid.NewString()} {
		if _, err := svc.Auth.Authenticate(bg, token); err == nil || !strings.Contains(err.Error(), "invalid") {
			t.Errorf("token %q: err = %v", token, err)
		}
	}

	u := store.users[id]
	u.IsActive = false
	store.users[id] = u
	if _, err := svc.Auth.Authenticate(bg, reg.Token); err == nil {
		t.Errorf("deactivated user should not authenticate")
	}
}

func TestSessionRecordsClient(t *testing.T) {
	svc, _, store, _ := newTestService(t)

	reg, err := svc.Auth.Register(bg, &request.RegisterRequest{
		Email:       "ua@example.com",
		Password:    "password123",
		DisplayName: "UA",
		Client:      entity.ClientInfo{UserAgent: strings.Repeat("x", 600), IPAddress: "203.0.113.7"},
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	sess := store.sessions[uuid.MustParse(reg.Token)]
	if sess.Client.IPAddress != "203.0.113.7" || len(sess.Client.UserAgent) != 512 {
		t.Errorf("client = %q / %d chars", sess.Client.IPAddress, len(sess.Client.UserAgent))
	}
}

func TestCleanupSessions(t *testing.T) {
	svc, _, store, _ := newTestService(t)
	userID := seedUser(t, store, "old")

	now := time.Now()
	for _, expires := range []time.Time{now.Add(-30 * 24 * time.Hour), now.Add(-time.Hour), now.Add(time.Hour)} {
		token := uuid.New()
		store.sessions[token] = entity.Session{UserID: userID, Token: token, ExpiresAt: expires}
	}

	n, err := svc.Auth.CleanupSessions(bg)
	if err != nil {
		t.Fatalf("CleanupSessions: %v", err)
	}
	if n != 1 || len(store.sessions) != 2 {
		t.Errorf("removed %d, %d left; want only the month-old session gone", n, len(store.sessions))
	}
}
