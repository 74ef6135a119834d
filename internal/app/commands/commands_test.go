package commands

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

// run выполняет CLI с аргументами и возвращает вывод и ошибку без os.Exit
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	dir := t.TempDir()

	var out bytes.Buffer
	a := NewApp()
	a.Writer = &out
	a.ErrWriter = &out
	a.ExitErrHandler = func(*cli.Context, error) {}

	base := []string{"flood-monitor",
		"--config", filepath.Join(dir, "missing.yaml"),
		"--env-file", filepath.Join(dir, "missing.env"),
		"--log-level", "error",
	}
	err := a.Run(append(base, args...))
	return out.String(), err
}

func TestCamerasTable(t *testing.T) {
	out, err := run(t, "cameras", "--filter", "flood", "--sort", "desc")
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 8 {
		t.Fatalf("lines = %d:\n%s", len(lines), out)
	}
	if !strings.HasPrefix(lines[0], "ID") || !strings.HasPrefix(lines[2], "2 ") {
		t.Errorf("unexpected table:\n%s", out)
	}
	if !strings.Contains(lines[2], "紧急内涝") {
		t.Errorf("first row = %q", lines[2])
	}
}

func TestCamerasJSON(t *testing.T) {
	out, err := run(t, "cameras", "--query", "88号", "--output", "json")
	if err != nil {
		t.Fatal(err)
	}

	var cams []struct {
		ID int `json:"id"`
	}
	if err := json.Unmarshal([]byte(out), &cams); err != nil {
		t.Fatalf("decode: %v\n%s", err, out)
	}
	if len(cams) != 1 || cams[0].ID != 8 {
		t.Errorf("cameras = %+v", cams)
	}
}

func TestCamerasEmpty(t *testing.T) {
	out, err := run(t, "cameras", "--query", "nowhere")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "No cameras found.") {
		t.Errorf("out = %q", out)
	}
}

func TestCamerasInvalidFilter(t *testing.T) {
	_, err := run(t, "cameras", "--filter", "broken")
	if err == nil {
		t.Fatal("expected error")
	}
	if ec, ok := err.(cli.ExitCoder); !ok || ec.ExitCode() != 2 {
		t.Errorf("err = %v", err)
	}
}

func TestCamerasFromConfigRegistry(t *testing.T) {
	dir := t.TempDir()
	camPath := filepath.Join(dir, "cameras.yaml")
	if err := os.WriteFile(camPath, []byte("cameras:\n  - id: 42\n    name: 北门\n    location: 测试路\n    status: online\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfgPath := filepath.Join(dir, "config.yaml")
	cfg := fmt.Sprintf("registry:\n  cameras_file: %s\n", camPath)
	if err := os.WriteFile(cfgPath, []byte(cfg), 0o644); err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	a := NewApp()
	a.Writer = &out
	a.ExitErrHandler = func(*cli.Context, error) {}
	err := a.Run([]string{"flood-monitor", "--config", cfgPath, "--env-file", filepath.Join(dir, "none.env"),
		"cameras", "-o", "json"})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), `"id": 42`) {
		t.Errorf("out = %s", out.String())
	}
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "Version:") {
		t.Errorf("out = %q", out)
	}
}

func TestHealthCheck(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/ezviz/health":
			fmt.Fprint(w, `{"status":"ok","now":1719792000000,"hasToken":true}`)
		case "/api/ezviz/getAccessToken":
			fmt.Fprint(w, `{"success":true,"accessToken":"at-9","expireTime":1}`)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	out, err := run(t, "health-check", "--url", srv.URL+"/api/ezviz", "--token")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "Status:    ok") || !strings.Contains(out, "Now:       2024-07-01T00:00:00Z") || !strings.Contains(out, "Token:     at-9") {
		t.Errorf("out = %q", out)
	}
}

func TestHealthCheckUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := run(t, "health-check", "--url", url)
	ec, ok := err.(cli.ExitCoder)
	if !ok || ec.ExitCode() != 1 {
		t.Errorf("err = %v", err)
	}
}

func TestTokenCommand(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"code":"200","msg":"ok","data":{"accessToken":"at-cli"}}`)
	}))
	defer srv.Close()

	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(cfgPath, []byte("ezviz:\n  base_url: "+srv.URL+"\n  app_key: k\n  app_secret: s\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	a := NewApp()
	a.Writer = &out
	a.ExitErrHandler = func(*cli.Context, error) {}
	if err := a.Run([]string{"flood-monitor", "--config", cfgPath, "--env-file", filepath.Join(dir, "none.env"), "token"}); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "Access token: at-cli") {
		t.Errorf("out = %q", out.String())
	}
}

func TestLoggerConfig(t *testing.T) {
	cfg := loggerConfig("warn", "console")
	if cfg.Encoding != "console" || cfg.Level.Level() != zap.WarnLevel {
		t.Errorf("console config = %s/%s", cfg.Encoding, cfg.Level.Level())
	}

	cfg = loggerConfig("bogus", "")
	if cfg.Encoding != "json" || cfg.Level.Level() != zap.InfoLevel {
		t.Errorf("default config = %s/%s", cfg.Encoding, cfg.Level.Level())
	}
}
