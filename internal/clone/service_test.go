package clone_test

import (
	"archive/zip"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/goclone/internal/archive"
	"github.com/jonesrussell/goclone/internal/clone"
	"github.com/jonesrussell/goclone/internal/config"
	"github.com/jonesrussell/goclone/internal/fetcher"
	"github.com/jonesrussell/goclone/internal/logger"
	"github.com/jonesrussell/goclone/internal/renderer"
)

// fakeRenderer serves canned documents without any network or browser.
type fakeRenderer struct {
	doc *renderer.Document
	err error
}

func (f *fakeRenderer) Render(ctx context.Context, url string) (*renderer.Document, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.doc, nil
}

func testConfig(t *testing.T) config.CloneConfig {
	t.Helper()
	return config.CloneConfig{
		WorkDir:          t.TempDir(),
		PublicDir:        filepath.Join(t.TempDir(), "public", "downloads"),
		StaticTimeout:    5 * time.Second,
		RenderTimeout:    5 * time.Second,
		AssetTimeout:     5 * time.Second,
		AssetConcurrency: 4,
		MinStaticBytes:   1024,
		UserAgent:        "test-agent",
	}
}

func newService(t *testing.T, cfg config.CloneConfig, rend clone.Renderer) *clone.Service {
	t.Helper()

	log := logger.NewNoOp()
	return clone.NewService(
		cfg,
		rend,
		fetcher.NewClient(cfg.AssetTimeout, cfg.UserAgent),
		fetcher.Save,
		archive.NewBuilder(cfg.WorkDir, cfg.PublicDir, log),
		log,
	)
}

func TestCloneWebsite_DynamicShell(t *testing.T) {
	t.Parallel()

	// A tiny, script-free page forces the headless path; the fake renderer
	// stands in for it and reports dynamic mode.
	rend := &fakeRenderer{doc: &renderer.Document{
		HTML: "<html><body>rendered</body></html>",
		Mode: renderer.ModeDynamic,
	}}

	svc := newService(t, testConfig(t), rend)

	result, err := svc.CloneWebsite(context.Background(), "http://example.com")
	require.NoError(t, err)

	assert.Equal(t, renderer.ModeDynamic, result.Mode)
	assert.Equal(t, "example_com.zip", result.ArchiveFileName)
	assert.Empty(t, result.FailedAssets)

	entries := zipEntryNames(t, result.ArchivePath)
	assert.Contains(t, entries, "example_com/index.html")
}

func TestCloneWebsite_FetchesAndArchivesAssets(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/site.css":
			_, _ = w.Write([]byte("body {}"))
		case "/app.js":
			_, _ = w.Write([]byte("console.log(1)"))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	html := `<html><head>
		<link href="` + srv.URL + `/site.css">
		<script src="` + srv.URL + `/app.js"></script>
	</head></html>`
	rend := &fakeRenderer{doc: &renderer.Document{HTML: html, Mode: renderer.ModeStatic}}

	svc := newService(t, testConfig(t), rend)

	result, err := svc.CloneWebsite(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Empty(t, result.FailedAssets)

	entries := zipEntryNames(t, result.ArchivePath)
	folder := clone.FolderName(srv.URL)
	assert.Contains(t, entries, folder+"/index.html")
	assert.Contains(t, entries, folder+"/assets/css/site.css")
	assert.Contains(t, entries, folder+"/assets/js/app.js")
}

func TestCloneWebsite_AssetFailureDoesNotAbort(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	missing := srv.URL + "/gone.css"
	html := `<html><head><link href="` + missing + `"></head></html>`
	rend := &fakeRenderer{doc: &renderer.Document{HTML: html, Mode: renderer.ModeStatic}}

	svc := newService(t, testConfig(t), rend)

	result, err := svc.CloneWebsite(context.Background(), srv.URL)
	require.NoError(t, err, "a broken asset must never fail the clone")

	assert.Equal(t, []string{missing}, result.FailedAssets)

	// The document still references the (absent) local path.
	entries := zipEntryNames(t, result.ArchivePath)
	folder := clone.FolderName(srv.URL)
	assert.Contains(t, entries, folder+"/index.html")
	assert.NotContains(t, entries, folder+"/assets/css/gone.css")
}

func TestCloneWebsite_RenderFailureIsFatal(t *testing.T) {
	t.Parallel()

	rend := &fakeRenderer{err: errors.New("unreachable")}
	svc := newService(t, testConfig(t), rend)

	_, err := svc.CloneWebsite(context.Background(), "http://example.com")
	require.Error(t, err)

	var renderErr *clone.RenderError
	assert.ErrorAs(t, err, &renderErr)
}

func TestCloneWebsite_InvalidTarget(t *testing.T) {
	t.Parallel()

	rend := &fakeRenderer{err: errors.New("must not be called")}
	svc := newService(t, testConfig(t), rend)

	_, err := svc.CloneWebsite(context.Background(), "ftp://example.com")
	require.Error(t, err)

	var validationErr *clone.ValidationError
	assert.ErrorAs(t, err, &validationErr)
}

func TestCloneWebsite_SequentialRecloneOverwrites(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)
	rend := &fakeRenderer{doc: &renderer.Document{HTML: "<html></html>", Mode: renderer.ModeStatic}}
	svc := newService(t, cfg, rend)

	first, err := svc.CloneWebsite(context.Background(), "https://a.b/c")
	require.NoError(t, err)
	second, err := svc.CloneWebsite(context.Background(), "https://a.b/c")
	require.NoError(t, err)

	assert.Equal(t, "a_b_c.zip", first.ArchiveFileName)
	assert.Equal(t, first.ArchivePath, second.ArchivePath)
	assert.Equal(t, first.PublicArchivePath, second.PublicArchivePath)
}

func TestFolderName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		url  string
		want string
	}{
		{name: "path segments", url: "https://a.b/c", want: "a_b_c"},
		{name: "http scheme", url: "http://example.com", want: "example_com"},
		{name: "port and query", url: "https://ex.com:8080/p?q=1", want: "ex_com_8080_p_q_1"},
		{name: "no scheme", url: "ex.com/path", want: "ex_com_path"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, clone.FolderName(tt.url))
		})
	}
}

func TestValidateTarget(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		url     string
		wantErr bool
	}{
		{name: "https", url: "https://example.com", wantErr: false},
		{name: "http with path", url: "http://example.com/a/b", wantErr: false},
		{name: "relative", url: "/just/a/path", wantErr: true},
		{name: "ftp", url: "ftp://example.com", wantErr: true},
		{name: "no host", url: "http://", wantErr: true},
		{name: "garbage", url: "ht tp://x", wantErr: true},
		{name: "empty", url: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := clone.ValidateTarget(tt.url)
			if tt.wantErr {
				var validationErr *clone.ValidationError
				require.ErrorAs(t, err, &validationErr)
				return
			}
			require.NoError(t, err)
		})
	}
}

// zipEntryNames lists the entry names of an archive.
func zipEntryNames(t *testing.T, path string) []string {
	t.Helper()

	reader, err := zip.OpenReader(path)
	require.NoError(t, err)
	defer reader.Close()

	names := make([]string, 0, len(reader.File))
	for _, f := range reader.File {
		names = append(names, f.Name)
	}
	return names
}
