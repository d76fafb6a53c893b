package cli

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/alignedworks/cvx/internal/domain"
	"github.com/alignedworks/cvx/internal/infra/sessionstore"
)

// fakePlatform serves the endpoints the CLI calls. Everything but login
// requires the auth cookie handed out by login.
func fakePlatform(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()

	writeBody := func(w http.ResponseWriter, status int, body string) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}
	authed := func(h http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			if c, err := r.Cookie("auth"); err != nil || c.Value != "ok" {
				writeBody(w, http.StatusUnauthorized, `{"message":"login required"}`)
				return
			}
			h(w, r)
		}
	}

	mux.HandleFunc("POST /api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var creds domain.Credentials
		if err := json.NewDecoder(r.Body).Decode(&creds); err != nil || creds.Password != "secret" {
			writeBody(w, http.StatusUnauthorized, `{"message":"bad credentials"}`)
			return
		}
		http.SetCookie(w, &http.Cookie{Name: "auth", Value: "ok", Path: "/"})
		writeBody(w, http.StatusOK, `{"id":"u1","email":"`+creds.Email+`","firstName":"Ada","lastName":"Lovelace","role":"Member"}`)
	})
	mux.HandleFunc("POST /api/auth/logout", authed(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	mux.HandleFunc("GET /api/auth/me", authed(func(w http.ResponseWriter, _ *http.Request) {
		writeBody(w, http.StatusOK, `{"id":"u1","email":"ada@example.org","firstName":"Ada","lastName":"Lovelace","role":"Admin"}`)
	}))
	mux.HandleFunc("GET /api/collaboratives", authed(func(w http.ResponseWriter, _ *http.Request) {
		writeBody(w, http.StatusOK, `[{"id":"c1","name":"Makers","approvalStatus":"Active","memberCount":4,"launchTokenBalance":9000}]`)
	}))
	mux.HandleFunc("GET /api/collaboratives/c1", authed(func(w http.ResponseWriter, _ *http.Request) {
		writeBody(w, http.StatusOK, `{"id":"c1","name":"Makers","approvalStatus":"Active",
			"tokensCreated":100000,"tokensPriorWorkPercent":10,"tokenReleaseRate":10,
			"collabAdminCompensationPercent":5,"launchTokenBalance":9000}`)
	}))
	mux.HandleFunc("GET /api/collaboratives/c1/projects", authed(func(w http.ResponseWriter, _ *http.Request) {
		writeBody(w, http.StatusOK, `[{"id":"p1","collabId":"c1","name":"Kiln","budget":3000,"adminPay":300,"launchTokenBalance":2700,"approvalStatus":"Active"}]`)
	}))
	mux.HandleFunc("POST /api/projects", authed(func(w http.ResponseWriter, r *http.Request) {
		var l domain.ProjectLaunch
		_ = json.NewDecoder(r.Body).Decode(&l)
		writeBody(w, http.StatusCreated, `{"id":"p9","collabId":"c1","name":"`+l.Name+`","approvalStatus":"Submitted"}`)
	}))
	mux.HandleFunc("POST /api/invitations/i1/accept", authed(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func loggedInWorkspace(t *testing.T) (dir string, srv *httptest.Server) {
	t.Helper()
	srv = fakePlatform(t)
	dir = t.TempDir()
	writeConfig(t, dir, srv.URL)

	out, err := runCLI(t, "secret\n", "login", "-w", dir, "--email", "ada@example.org", "--password-stdin")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if !strings.Contains(out, "Logged in as Ada Lovelace") {
		t.Fatalf("unexpected login output: %q", out)
	}
	return dir, srv
}

func TestLogin_PersistsSession(t *testing.T) {
	dir, _ := loggedInWorkspace(t)

	s, err := sessionstore.NewFileStore(dir, ".cvx/session.json").Load()
	if err != nil {
		t.Fatalf("load session: %v", err)
	}
	if !s.Active() || s.User.Email != "ada@example.org" {
		t.Fatalf("unexpected session: %+v", s)
	}
	if len(s.Cookies) != 1 || s.Cookies[0].Name != "auth" {
		t.Fatalf("expected auth cookie persisted, got %+v", s.Cookies)
	}
}

func TestLogin_BadPassword(t *testing.T) {
	srv := fakePlatform(t)
	dir := t.TempDir()
	writeConfig(t, dir, srv.URL)

	_, err := runCLI(t, "nope\n", "login", "-w", dir, "--email", "ada@example.org", "--password-stdin")
	if !domain.IsKind(err, domain.KindUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
	if _, statErr := os.Stat(filepath.Join(dir, ".cvx", "session.json")); !os.IsNotExist(statErr) {
		t.Fatalf("no session file expected, stat err=%v", statErr)
	}
}

func TestWhoAmI(t *testing.T) {
	dir, _ := loggedInWorkspace(t)

	out, err := runCLI(t, "", "whoami", "-w", dir)
	if err != nil {
		t.Fatalf("whoami: %v", err)
	}
	if !strings.Contains(out, "Ada Lovelace <ada@example.org>") || !strings.Contains(out, "Idle until") {
		t.Fatalf("unexpected output:\n%s", out)
	}

	out, err = runCLI(t, "", "whoami", "-w", dir, "--verify")
	if err != nil {
		t.Fatalf("whoami --verify: %v", err)
	}
	if !strings.Contains(out, "Role:      Admin") {
		t.Fatalf("expected server role, got:\n%s", out)
	}
}

func TestCollabsListAndShow(t *testing.T) {
	dir, _ := loggedInWorkspace(t)

	out, err := runCLI(t, "", "collabs", "list", "-w", dir)
	if err != nil {
		t.Fatalf("collabs list: %v", err)
	}
	if !strings.Contains(out, "Makers") || !strings.Contains(out, "9,000") {
		t.Fatalf("unexpected list:\n%s", out)
	}

	out, err = runCLI(t, "", "collabs", "show", "c1", "-w", dir)
	if err != nil {
		t.Fatalf("collabs show: %v", err)
	}
	for _, want := range []string{"Makers (Active)", "Admin payout", "450", "Kiln"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestPreviewReleaseFromCollaborative(t *testing.T) {
	dir, _ := loggedInWorkspace(t)

	out, err := runCLI(t, "", "preview", "release", "-w", dir, "--collab", "c1")
	if err != nil {
		t.Fatalf("preview release --collab: %v", err)
	}
	if !strings.Contains(out, "Collaborative: Makers") || !strings.Contains(out, "1,220") {
		t.Fatalf("unexpected output:\n%s", out)
	}
}

func TestProjectsLaunch_AdvisoryNeedsForce(t *testing.T) {
	dir, _ := loggedInWorkspace(t)
	args := []string{"projects", "launch", "-w", dir, "--collab", "c1", "--name", "Kiln II", "--budget", "12000", "--admin-pay", "500"}

	out, err := runCLI(t, "", args...)
	if err == nil || !strings.Contains(err.Error(), "--force") {
		t.Fatalf("expected advisory block, got %v", err)
	}
	if !strings.Contains(out, "allocation exceeds available balance") {
		t.Fatalf("expected preview with advisory:\n%s", out)
	}

	out, err = runCLI(t, "", append(args, "--force")...)
	if err != nil {
		t.Fatalf("forced launch: %v", err)
	}
	if !strings.Contains(out, "Launched Kiln II (id p9, status Submitted)") {
		t.Fatalf("unexpected output:\n%s", out)
	}
}

func TestInvitationsAccept(t *testing.T) {
	dir, _ := loggedInWorkspace(t)

	out, err := runCLI(t, "", "invitations", "accept", "i1", "-w", dir)
	if err != nil {
		t.Fatalf("accept: %v", err)
	}
	if !strings.Contains(out, "Invitation i1: accept") {
		t.Fatalf("unexpected output: %q", out)
	}
}

func TestAPIGet_Select(t *testing.T) {
	dir, _ := loggedInWorkspace(t)

	out, err := runCLI(t, "", "api", "get", "/api/collaboratives/c1", "-w", dir,
		"--select", "name=$.name", "--select", "balance=$.launchTokenBalance")
	if err != nil {
		t.Fatalf("api get: %v", err)
	}
	if out != "name = Makers\nbalance = 9000\n" {
		t.Fatalf("unexpected output: %q", out)
	}

	_, err = runCLI(t, "", "api", "get", "/api/collaboratives/c1", "-w", dir, "--select", "x=$.nope")
	if err == nil || !strings.Contains(err.Error(), `select "x"`) {
		t.Fatalf("expected select failure, got %v", err)
	}
}

func TestAPIGet_Raw(t *testing.T) {
	dir, _ := loggedInWorkspace(t)

	out, err := runCLI(t, "", "api", "get", "/api/collaboratives", "-w", dir)
	if err != nil {
		t.Fatalf("api get: %v", err)
	}
	if !strings.HasPrefix(out, `[{"id":"c1"`) || !strings.HasSuffix(out, "\n") {
		t.Fatalf("unexpected raw output: %q", out)
	}
}

func TestLogout(t *testing.T) {
	dir, _ := loggedInWorkspace(t)

	out, err := runCLI(t, "", "logout", "-w", dir)
	if err != nil {
		t.Fatalf("logout: %v", err)
	}
	if !strings.Contains(out, "Logged out") {
		t.Fatalf("unexpected output: %q", out)
	}

	_, err = runCLI(t, "", "whoami", "-w", dir)
	if !errors.Is(err, domain.ErrNoSession) || !strings.Contains(err.Error(), "cvx login") {
		t.Fatalf("expected no-session error with tip, got %v", err)
	}
}

func TestIdleSessionIsRejected(t *testing.T) {
	srv := fakePlatform(t)
	dir := t.TempDir()
	writeConfig(t, dir, srv.URL)

	store := sessionstore.NewFileStore(dir, ".cvx/session.json")
	var s domain.Session
	s.Login(domain.User{ID: "u1", Email: "ada@example.org"}, []domain.Cookie{{Name: "auth", Value: "ok"}}, time.Now().Add(-time.Hour))
	if err := store.Save(s); err != nil {
		t.Fatal(err)
	}

	_, err := runCLI(t, "", "collabs", "list", "-w", dir)
	if !errors.Is(err, domain.ErrSessionExpired) {
		t.Fatalf("expected session expired, got %v", err)
	}
	if got, _ := store.Load(); got.Active() {
		t.Fatalf("expired session must be cleared")
	}
}

func TestStaleCookieDropsSession(t *testing.T) {
	srv := fakePlatform(t)
	dir := t.TempDir()
	writeConfig(t, dir, srv.URL)

	store := sessionstore.NewFileStore(dir, ".cvx/session.json")
	var s domain.Session
	s.Login(domain.User{ID: "u1", Email: "ada@example.org"}, []domain.Cookie{{Name: "auth", Value: "stale"}}, time.Now())
	if err := store.Save(s); err != nil {
		t.Fatal(err)
	}

	_, err := runCLI(t, "", "collabs", "list", "-w", dir)
	if !domain.IsKind(err, domain.KindUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
	if got, _ := store.Load(); got.Active() {
		t.Fatalf("rejected session must be cleared")
	}
}
