package notifier

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	ps "github.com/mitchellh/go-ps"

	"github.com/julianstephens/greenie/internal/constants"
)

type mockProcess struct {
	pid        int
	executable string
}

func (m *mockProcess) Pid() int           { return m.pid }
func (m *mockProcess) PPid() int          { return 0 }
func (m *mockProcess) Executable() string { return m.executable }

func stubConfigDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	old := userConfigDirFunc
	userConfigDirFunc = func() (string, error) { return dir, nil }
	t.Cleanup(func() { userConfigDirFunc = old })
	return dir
}

func stubProcess(t *testing.T, executable string) {
	t.Helper()
	old := findProcessFunc
	findProcessFunc = func(pid int) (ps.Process, error) {
		if executable == "" {
			return nil, nil
		}
		return &mockProcess{pid: pid, executable: executable}, nil
	}
	t.Cleanup(func() { findProcessFunc = old })
}

func stubSleep(t *testing.T) {
	t.Helper()
	old := sleepFunc
	sleepFunc = func(time.Duration) {}
	t.Cleanup(func() { sleepFunc = old })
}

func serverPort(url string) string {
	return url[strings.LastIndex(url, ":")+1:]
}

func TestGetTrayAppConfigDir(t *testing.T) {
	home := stubConfigDir(t)

	expectedDefault := filepath.Join(home, constants.TrayAppIdentifier)
	dir, err := GetTrayAppConfigDir()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dir != expectedDefault {
		t.Errorf("expected %s, got %s", expectedDefault, dir)
	}

	if err := os.MkdirAll(expectedDefault, 0755); err != nil {
		t.Fatal(err)
	}
	customDir := "/custom/greenie/dir"
	settings := fmt.Sprintf(`{"settings": {"lockfile_dir": %q}}`, customDir)
	if err := os.WriteFile(filepath.Join(expectedDefault, "settings.json"), []byte(settings), 0644); err != nil {
		t.Fatal(err)
	}

	dir, err = GetTrayAppConfigDir()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dir != customDir {
		t.Errorf("expected %s, got %s", customDir, dir)
	}
}

func TestFindAndValidateTrayProcess(t *testing.T) {
	lockfile := filepath.Join(t.TempDir(), constants.NotifierLockfileName)

	if _, _, err := findAndValidateTrayProcess(lockfile); !errors.Is(err, ErrTrayNotRunning) {
		t.Errorf("missing lockfile: error = %v, want ErrTrayNotRunning", err)
	}

	bad := map[string]string{
		"two parts":     "8080|12345",
		"garbage":       "invalid",
		"empty secret":  "8080|12345|",
		"empty port":    "|12345|secret",
		"port range":    "99999|12345|secret",
		"port not int":  "http|12345|secret",
		"pid not int":   "8080|abc|secret",
		"four segments": "8080|12345|secret|extra",
	}
	stubProcess(t, constants.TrayExecutable)
	for name, content := range bad {
		t.Run(name, func(t *testing.T) {
			if err := os.WriteFile(lockfile, []byte(content), 0644); err != nil {
				t.Fatal(err)
			}
			if _, _, err := findAndValidateTrayProcess(lockfile); err == nil {
				t.Errorf("expected error for %q", content)
			}
		})
	}

	if err := os.WriteFile(lockfile, []byte("8080|12345|s3cret\n"), 0644); err != nil {
		t.Fatal(err)
	}

	stubProcess(t, "")
	if _, _, err := findAndValidateTrayProcess(lockfile); !errors.Is(err, ErrTrayNotRunning) {
		t.Errorf("missing process: error = %v, want ErrTrayNotRunning", err)
	}

	stubProcess(t, "other-app")
	if _, _, err := findAndValidateTrayProcess(lockfile); err == nil {
		t.Error("expected error for wrong executable")
	}

	stubProcess(t, constants.TrayExecutable)
	port, secret, err := findAndValidateTrayProcess(lockfile)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if port != "8080" || secret != "s3cret" {
		t.Errorf("got port %q secret %q", port, secret)
	}
}

func TestSend(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		if r.Header.Get(constants.NotifySecretHeader) != "test-secret" {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte("Unauthorized"))
			return
		}
		var payload WebhookPayload
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if payload.Text == "fail" {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	n := New()
	port := serverPort(server.URL)

	if err := n.send(port, "test-secret", WebhookPayload{Text: "hello"}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := n.send(port, "wrong-secret", WebhookPayload{Text: "hello"}); err == nil || !strings.Contains(err.Error(), "401") {
		t.Errorf("expected 401 error, got %v", err)
	}
	if err := n.send(port, "test-secret", WebhookPayload{Text: "fail"}); err == nil {
		t.Error("expected error for server failure")
	}
}

func TestNotifyRetriesThenSucceeds(t *testing.T) {
	stubSleep(t)
	var calls atomic.Int32
	var got WebhookPayload
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 2 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		json.NewDecoder(r.Body).Decode(&got)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	home := stubConfigDir(t)
	trayDir := filepath.Join(home, constants.TrayAppIdentifier)
	if err := os.MkdirAll(trayDir, 0755); err != nil {
		t.Fatal(err)
	}
	lock := serverPort(server.URL) + "|4242|secret"
	if err := os.WriteFile(filepath.Join(trayDir, constants.NotifierLockfileName), []byte(lock), 0644); err != nil {
		t.Fatal(err)
	}
	stubProcess(t, constants.TrayExecutable)

	if err := New().Notify("Goal met"); err != nil {
		t.Fatalf("Notify failed: %v", err)
	}
	if calls.Load() != 2 {
		t.Errorf("expected 2 attempts, got %d", calls.Load())
	}
	if got.Text != "Goal met" || got.DurationMs != constants.NotificationDurationMs {
		t.Errorf("unexpected payload %+v", got)
	}
}

func TestNotifyGivesUpAfterMaxRetries(t *testing.T) {
	stubSleep(t)
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	home := stubConfigDir(t)
	trayDir := filepath.Join(home, constants.TrayAppIdentifier)
	if err := os.MkdirAll(trayDir, 0755); err != nil {
		t.Fatal(err)
	}
	lock := serverPort(server.URL) + "|4242|secret"
	if err := os.WriteFile(filepath.Join(trayDir, constants.NotifierLockfileName), []byte(lock), 0644); err != nil {
		t.Fatal(err)
	}
	stubProcess(t, constants.TrayExecutable)

	if err := New().Notify("x"); err == nil {
		t.Fatal("expected error")
	}
	if int(calls.Load()) != constants.NotifyMaxRetries {
		t.Errorf("expected %d attempts, got %d", constants.NotifyMaxRetries, calls.Load())
	}
}

func TestNotifyWithoutTray(t *testing.T) {
	stubConfigDir(t)
	if err := New().Notify("x"); !errors.Is(err, ErrTrayNotRunning) {
		t.Errorf("error = %v, want ErrTrayNotRunning", err)
	}
}

func TestTrayRunning(t *testing.T) {
	dir := stubConfigDir(t)
	if err := TrayRunning(); !errors.Is(err, ErrTrayNotRunning) {
		t.Fatalf("error = %v, want ErrTrayNotRunning", err)
	}

	trayDir := filepath.Join(dir, constants.TrayAppIdentifier)
	if err := os.MkdirAll(trayDir, 0o755); err != nil {
		t.Fatal(err)
	}
	lockfile := filepath.Join(trayDir, constants.NotifierLockfileName)
	if err := os.WriteFile(lockfile, []byte("8765|4242|s3cret"), 0o600); err != nil {
		t.Fatal(err)
	}

	stubProcess(t, constants.TrayExecutable)
	if err := TrayRunning(); err != nil {
		t.Errorf("expected the tray to be reported running, got %v", err)
	}
}
