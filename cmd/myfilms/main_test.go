package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"myfilms/internal/config"
	"myfilms/internal/testsupport"
)

func isolateCLIEnv(t *testing.T) {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	for _, key := range []string{"MYFILMS_API_URL", "MYFILMS_API_TOKEN", "TMDB_TOKEN", "MYFILMS_SESSION_SECRET"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
	for i := 1; i <= 9; i++ {
		key := "MYFILMS_AUTH_USER" + string(rune('0'+i))
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
	t.Chdir(home)
}

func catalogRoutes() map[string]string {
	return map[string]string{
		"/movie/popular": `{"page":1,"results":[
			{"id":7,"title":"Dune","poster_path":"/d.jpg","release_date":"2021-09-15","vote_average":8.0},
			{"id":8,"title":"Wonka","poster_path":"/w.jpg","release_date":"2023-12-06","vote_average":7.2}
		]}`,
		"/search/multi": `{"page":1,"results":[
			{"id":7,"title":"Dune","poster_path":"/d.jpg","media_type":"movie","vote_average":8.0},
			{"id":40,"name":"Someone","media_type":"person","profile_path":"/p.jpg"}
		]}`,
		"/movie/7": `{"id":7,"title":"Dune","tagline":"Beyond fear, destiny awaits.","runtime":155,
			"release_date":"2021-09-15","vote_average":8.0,"poster_path":"/d.jpg",
			"genres":[{"id":1,"name":"Science Fiction"}],
			"credits":{"cast":[{"id":40,"name":"Someone","character":"Paul","order":0}]},
			"videos":{"results":[{"key":"abc123","site":"YouTube","type":"Trailer"}]}}`,
		"/movie/8": `{"id":8,"title":"Wonka","runtime":116,"release_date":"2023-12-06","vote_average":7.2}`,
	}
}

// writeCLIConfig writes a sqlite-backed config pointing at a fake catalog.
func writeCLIConfig(t *testing.T, mutate func(*config.Config)) string {
	t.Helper()
	isolateCLIEnv(t)
	server := testsupport.NewCatalogServer(t, catalogRoutes())
	cfg := testsupport.NewConfig(t,
		testsupport.WithBackend(config.BackendSQLite),
		testsupport.WithCatalogURL(server.URL+"/3"),
	)
	if mutate != nil {
		mutate(cfg)
	}
	data, err := cfg.Encode()
	if err != nil {
		t.Fatalf("encode config: %v", err)
	}
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func runCLI(t *testing.T, configPath string, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetIn(strings.NewReader(""))
	cmd.SetArgs(append([]string{"--config", configPath}, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func mustRunCLI(t *testing.T, configPath string, args ...string) string {
	t.Helper()
	out, stderr, err := runCLI(t, configPath, args...)
	if err != nil {
		t.Fatalf("%v failed: %v (stderr: %s)", args, err, stderr)
	}
	return out
}

func TestLoginWhoamiLogout(t *testing.T) {
	cfgPath := writeCLIConfig(t, nil)

	if out := mustRunCLI(t, cfgPath, "whoami"); !strings.Contains(out, "Not signed in") {
		t.Fatalf("expected signed-out whoami, got %q", out)
	}

	_, _, err := runCLI(t, cfgPath, "login", "admin", "--password", "wrong")
	if err == nil || err.Error() != "Invalid username or password" {
		t.Fatalf("expected invalid credentials error, got %v", err)
	}

	if out := mustRunCLI(t, cfgPath, "login", "admin", "-p", "admin123"); !strings.Contains(out, "Signed in as admin") {
		t.Fatalf("unexpected login output %q", out)
	}
	if out := mustRunCLI(t, cfgPath, "whoami"); strings.TrimSpace(out) != "admin" {
		t.Fatalf("expected admin to persist across invocations, got %q", out)
	}

	out := mustRunCLI(t, cfgPath, "--json", "logout")
	var payload map[string]any
	if err := json.Unmarshal([]byte(out), &payload); err != nil {
		t.Fatalf("decode logout json: %v (%q)", err, out)
	}
	if payload["user"] != nil {
		t.Fatalf("expected null user after logout, got %v", payload["user"])
	}
	if out := mustRunCLI(t, cfgPath, "whoami"); !strings.Contains(out, "Not signed in") {
		t.Fatalf("expected session cleared, got %q", out)
	}
}

func TestLoginReadsPasswordFromStdin(t *testing.T) {
	cfgPath := writeCLIConfig(t, nil)

	cmd := newRootCommand()
	var stdout bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetIn(strings.NewReader("admin123\n"))
	cmd.SetArgs([]string{"--config", cfgPath, "login", "admin"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("login via stdin failed: %v", err)
	}
	if !strings.Contains(stdout.String(), "Signed in as admin") {
		t.Fatalf("unexpected output %q", stdout.String())
	}
}

func TestListsRequireSignIn(t *testing.T) {
	cfgPath := writeCLIConfig(t, nil)

	_, _, err := runCLI(t, cfgPath, "lists", "ls")
	if err == nil || !strings.Contains(err.Error(), "myfilms login") {
		t.Fatalf("expected sign-in hint, got %v", err)
	}
}

func TestListsLifecycle(t *testing.T) {
	cfgPath := writeCLIConfig(t, nil)
	mustRunCLI(t, cfgPath, "login", "admin", "-p", "admin123")

	if out := mustRunCLI(t, cfgPath, "lists", "ls"); !strings.Contains(out, "No lists yet") {
		t.Fatalf("expected empty lists hint, got %q", out)
	}

	out := mustRunCLI(t, cfgPath, "--json", "lists", "create", "Weekend", "picks")
	var created struct {
		ID   int64  `json:"id"`
		Name string `json:"name"`
	}
	if err := json.Unmarshal([]byte(out), &created); err != nil {
		t.Fatalf("decode created list: %v (%q)", err, out)
	}
	if created.ID == 0 || created.Name != "Weekend picks" {
		t.Fatalf("unexpected created list %+v", created)
	}
	listID := jsonID(created.ID)

	if _, _, err := runCLI(t, cfgPath, "lists", "create", "   "); err == nil {
		t.Fatal("expected blank list name to be rejected")
	}

	if out := mustRunCLI(t, cfgPath, "lists", "add", listID, "movie", "8"); !strings.Contains(out, "Added Wonka") {
		t.Fatalf("unexpected add output %q", out)
	}
	mustRunCLI(t, cfgPath, "lists", "add", listID, "movie", "7")
	if out := mustRunCLI(t, cfgPath, "lists", "add", listID, "movie", "7"); !strings.Contains(out, "already in the list") {
		t.Fatalf("expected duplicate add to be reported, got %q", out)
	}

	out = mustRunCLI(t, cfgPath, "--json", "lists", "show", listID, "--sort", "rating-desc")
	var shown struct {
		Name  string `json:"name"`
		Items []struct {
			ID int64 `json:"id"`
		} `json:"items"`
	}
	if err := json.Unmarshal([]byte(out), &shown); err != nil {
		t.Fatalf("decode shown list: %v (%q)", err, out)
	}
	if len(shown.Items) != 2 || shown.Items[0].ID != 7 || shown.Items[1].ID != 8 {
		t.Fatalf("expected rating-desc order [7 8], got %+v", shown.Items)
	}

	out = mustRunCLI(t, cfgPath, "lists", "ls")
	if !strings.Contains(out, "Weekend picks") {
		t.Fatalf("expected list in table, got %q", out)
	}

	if out := mustRunCLI(t, cfgPath, "lists", "remove", listID, "8"); !strings.Contains(out, "Removed") {
		t.Fatalf("unexpected remove output %q", out)
	}
	if out := mustRunCLI(t, cfgPath, "lists", "remove", listID, "8"); !strings.Contains(out, "nothing to remove") {
		t.Fatalf("expected second remove to be a no-op, got %q", out)
	}

	if out := mustRunCLI(t, cfgPath, "lists", "delete", listID); !strings.Contains(out, "Deleted list \"Weekend picks\"") {
		t.Fatalf("unexpected delete output %q", out)
	}
	_, _, err := runCLI(t, cfgPath, "lists", "show", listID)
	if err == nil || !strings.Contains(err.Error(), "not found") {
		t.Fatalf("expected not found after delete, got %v", err)
	}
}

func TestListsShowRejectsUnknownSort(t *testing.T) {
	cfgPath := writeCLIConfig(t, nil)
	mustRunCLI(t, cfgPath, "login", "admin", "-p", "admin123")

	if _, _, err := runCLI(t, cfgPath, "lists", "show", "1", "--sort", "sideways"); err == nil {
		t.Fatal("expected unknown sort order to fail")
	}
}

func TestCatalogCommands(t *testing.T) {
	cfgPath := writeCLIConfig(t, nil)

	out := mustRunCLI(t, cfgPath, "popular")
	if !strings.Contains(out, "Dune") || !strings.Contains(out, "Wonka") {
		t.Fatalf("expected popular titles, got %q", out)
	}

	out = mustRunCLI(t, cfgPath, "--json", "search", "dune")
	var results []struct {
		ID int64 `json:"id"`
	}
	if err := json.Unmarshal([]byte(out), &results); err != nil {
		t.Fatalf("decode search: %v (%q)", err, out)
	}
	if len(results) != 1 || results[0].ID != 7 {
		t.Fatalf("expected person results filtered out, got %+v", results)
	}

	out = mustRunCLI(t, cfgPath, "detail", "movie", "7")
	for _, want := range []string{"Dune (2021)", "2h 35min", "Science Fiction", "abc123", "Paul"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected detail output to contain %q, got %q", want, out)
		}
	}
}

func TestCatalogFailureDegradesToEmpty(t *testing.T) {
	cfgPath := writeCLIConfig(t, nil)

	out, stderr, err := runCLI(t, cfgPath, "detail", "tv", "999")
	if err != nil {
		t.Fatalf("expected degraded detail to succeed, got %v", err)
	}
	if !strings.Contains(out, "Details unavailable") {
		t.Fatalf("unexpected output %q", out)
	}
	if !strings.Contains(stderr, "warning: catalog") {
		t.Fatalf("expected warning on stderr, got %q", stderr)
	}

	out, _, err = runCLI(t, cfgPath, "credits", "40")
	if err != nil {
		t.Fatalf("expected degraded credits to succeed, got %v", err)
	}
	if !strings.Contains(out, "No results.") {
		t.Fatalf("expected empty credits, got %q", out)
	}
}

func TestCatalogCommandsRequireToken(t *testing.T) {
	cfgPath := writeCLIConfig(t, func(cfg *config.Config) { cfg.Catalog.Token = "" })

	if _, _, err := runCLI(t, cfgPath, "popular"); err == nil {
		t.Fatal("expected missing token to fail catalog commands")
	}
	if out := mustRunCLI(t, cfgPath, "whoami"); !strings.Contains(out, "Not signed in") {
		t.Fatalf("expected session commands to work without a token, got %q", out)
	}
}

func TestConfigInitShowAndValidate(t *testing.T) {
	cfgPath := writeCLIConfig(t, nil)

	out := mustRunCLI(t, cfgPath, "config", "show")
	if strings.Contains(out, "test-token") || strings.Contains(out, "admin123") {
		t.Fatalf("expected secrets masked, got %q", out)
	}
	if !strings.Contains(out, "te******en") {
		t.Fatalf("expected masked token, got %q", out)
	}

	out = mustRunCLI(t, cfgPath, "config", "validate")
	if !strings.Contains(out, "Configuration valid") {
		t.Fatalf("unexpected validate output %q", out)
	}

	target := filepath.Join(t.TempDir(), "nested", "config.toml")
	mustRunCLI(t, cfgPath, "config", "init", "--path", target)
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected sample config written: %v", err)
	}
	if _, _, err := runCLI(t, cfgPath, "config", "init", "--path", target); err == nil {
		t.Fatal("expected init to refuse overwriting without --overwrite")
	}
	mustRunCLI(t, cfgPath, "config", "init", "--path", target, "--overwrite")
}

func TestConfigHashPassword(t *testing.T) {
	cfgPath := writeCLIConfig(t, nil)

	out := strings.TrimSpace(mustRunCLI(t, cfgPath, "config", "hash-password", "s3cret"))
	if !strings.HasPrefix(out, "$2") {
		t.Fatalf("expected bcrypt hash, got %q", out)
	}
}

func jsonID(id int64) string {
	data, _ := json.Marshal(id)
	return string(data)
}
