package cli_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"

	"github.com/LedgerHQ/node-pre-gyp-github/pkg/cli"
	"github.com/LedgerHQ/node-pre-gyp-github/pkg/domain/types"
)

// fakeReleasesAPI records create and upload calls for acme/widget
type fakeReleasesAPI struct {
	mu       sync.Mutex
	server   *httptest.Server
	releases []map[string]any
	created  []map[string]any
	uploaded []string
	requests int
}

func newFakeReleasesAPI(t *testing.T) *fakeReleasesAPI {
	f := &fakeReleasesAPI{}
	mux := http.NewServeMux()

	mux.HandleFunc("GET /repos/acme/widget/releases", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.requests++
		body := f.releases
		f.mu.Unlock()
		if body == nil {
			body = []map[string]any{}
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(body)
	})

	mux.HandleFunc("POST /repos/acme/widget/releases", func(w http.ResponseWriter, r *http.Request) {
		var req map[string]any
		_ = json.NewDecoder(r.Body).Decode(&req)

		f.mu.Lock()
		f.requests++
		f.created = append(f.created, req)
		f.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":         11,
			"tag_name":   req["tag_name"],
			"draft":      req["draft"],
			"upload_url": f.server.URL + "/repos/acme/widget/releases/11/assets{?name,label}",
		})
	})

	mux.HandleFunc("POST /repos/acme/widget/releases/{id}/assets", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.Copy(io.Discard, r.Body)
		name := r.URL.Query().Get("name")

		f.mu.Lock()
		f.requests++
		f.uploaded = append(f.uploaded, name)
		f.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]any{"id": 1, "name": name})
	})

	f.server = httptest.NewServer(mux)
	t.Cleanup(f.server.Close)
	return f
}

const descriptor = `{
  "name": "widget",
  "version": "2.3.0",
  "repository": {"type": "git", "url": "https://github.com/acme/widget.git"},
  "binary": {
    "host": "https://github.com/acme/widget/releases/download/",
    "remote_path": "download/{version}/"
  }
}`

func setupWorkDir(t *testing.T, files ...string) string {
	dir := t.TempDir()
	gt.NoError(t, os.WriteFile(filepath.Join(dir, "package.json"), []byte(descriptor), 0644))

	stage := filepath.Join(dir, "build", "stage", "download", "2.3.0")
	gt.NoError(t, os.MkdirAll(stage, 0755))
	for _, name := range files {
		gt.NoError(t, os.WriteFile(filepath.Join(stage, name), []byte("content of "+name), 0644))
	}
	return dir
}

func publishArgs(dir, apiURL string, extra ...string) []string {
	args := []string{
		"node-pre-gyp-github",
		"--log-format", "text",
		"publish",
		"--descriptor", filepath.Join(dir, "package.json"),
		"--stage-dir", filepath.Join(dir, "build", "stage"),
		"--github-api-url", apiURL,
	}
	return append(args, extra...)
}

func TestPublishCommand_CreatesDraftRelease(t *testing.T) {
	t.Setenv("GH_TOKEN", "test-token")
	api := newFakeReleasesAPI(t)
	dir := setupWorkDir(t, "widget-2.3.0-linux-x64.tar.gz", "widget-2.3.0-darwin-x64.tar.gz")

	var out bytes.Buffer
	err := cli.RunWithWriter(context.Background(), &out, publishArgs(dir, api.server.URL))
	gt.NoError(t, err)

	gt.Equal(t, len(api.created), 1)
	gt.Equal(t, api.created[0]["tag_name"], any("2.3.0"))
	gt.Equal(t, api.created[0]["draft"], any(true))
	gt.Equal(t, len(api.uploaded), 2)

	gt.String(t, out.String()).Contains("uploaded  widget-2.3.0-linux-x64.tar.gz")
	gt.String(t, out.String()).Contains("Done")
	gt.String(t, out.String()).NotContains("test-token")
}

func TestPublishCommand_ReleaseFlag(t *testing.T) {
	t.Setenv("GH_TOKEN", "test-token")
	api := newFakeReleasesAPI(t)
	dir := setupWorkDir(t, "widget.tar.gz")

	var out bytes.Buffer
	err := cli.RunWithWriter(context.Background(), &out, publishArgs(dir, api.server.URL, "--release"))
	gt.NoError(t, err)

	gt.Equal(t, len(api.created), 1)
	gt.Equal(t, api.created[0]["draft"], any(false))
	gt.Equal(t, api.created[0]["prerelease"], any(false))
}

func TestPublishCommand_ExistingAsset(t *testing.T) {
	t.Setenv("GH_TOKEN", "test-token")
	api := newFakeReleasesAPI(t)
	dir := setupWorkDir(t, "widget-linux.tar.gz", "widget-darwin.tar.gz")
	api.releases = []map[string]any{{
		"id":         5,
		"tag_name":   "download/2.3.0/",
		"upload_url": api.server.URL + "/repos/acme/widget/releases/5/assets{?name,label}",
		"assets":     []map[string]any{{"id": 1, "name": "widget-linux.tar.gz"}},
	}}

	var out bytes.Buffer
	err := cli.RunWithWriter(context.Background(), &out, publishArgs(dir, api.server.URL))
	gt.NoError(t, err)

	gt.Equal(t, len(api.created), 0)
	gt.Equal(t, api.uploaded, []string{"widget-darwin.tar.gz"})
	gt.String(t, out.String()).Contains("skipped   widget-linux.tar.gz")
}

func TestPublishCommand_MissingToken(t *testing.T) {
	t.Setenv("GH_TOKEN", "")
	api := newFakeReleasesAPI(t)

	// the descriptor path does not exist; the token check must fail first
	args := []string{
		"node-pre-gyp-github", "--log-format", "text",
		"publish",
		"--descriptor", filepath.Join(t.TempDir(), "missing.json"),
		"--github-api-url", api.server.URL,
	}

	var out bytes.Buffer
	err := cli.RunWithWriter(context.Background(), &out, args)
	gt.Error(t, err)
	gt.True(t, goerr.HasTag(err, types.ErrTagConfig))
	gt.String(t, err.Error()).Contains("GH_TOKEN")
	gt.Equal(t, api.requests, 0)
}

func TestPublishCommand_EmptyStage(t *testing.T) {
	t.Setenv("GH_TOKEN", "test-token")
	api := newFakeReleasesAPI(t)
	dir := setupWorkDir(t)

	var out bytes.Buffer
	err := cli.RunWithWriter(context.Background(), &out, publishArgs(dir, api.server.URL))
	gt.Error(t, err)
	gt.True(t, goerr.HasTag(err, types.ErrTagFileSystem))
	gt.Equal(t, api.requests, 0)
}

func TestRun_NoArgumentsPrintsUsage(t *testing.T) {
	var out bytes.Buffer
	err := cli.RunWithWriter(context.Background(), &out, []string{"node-pre-gyp-github"})
	gt.NoError(t, err)
	gt.String(t, out.String()).Contains("publish")
	gt.String(t, out.String()).Contains("USAGE")
}
