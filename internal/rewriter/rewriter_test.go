package rewriter_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/goclone/internal/rewriter"
)

func TestExtract_RewritesReferences(t *testing.T) {
	t.Parallel()

	html := `<html><head>
		<link rel="stylesheet" href="/styles/site.css">
		<script src="https://cdn.ex.com/app.js"></script>
	</head><body>
		<img src="images/logo.png">
	</body></html>`

	rewritten, refs, err := rewriter.Extract(html, "https://ex.com/page/")
	require.NoError(t, err)
	require.Len(t, refs, 3)

	byRemote := make(map[string]rewriter.Asset, len(refs))
	for _, ref := range refs {
		byRemote[ref.RemoteURL] = ref
	}

	css, ok := byRemote["https://ex.com/styles/site.css"]
	require.True(t, ok, "relative href should resolve against the base URL")
	assert.Equal(t, rewriter.CategoryCSS, css.Category)
	assert.Equal(t, "assets/css/site.css", css.LocalPath)

	js, ok := byRemote["https://cdn.ex.com/app.js"]
	require.True(t, ok)
	assert.Equal(t, rewriter.CategoryJS, js.Category)
	assert.Equal(t, "assets/js/app.js", js.LocalPath)

	img, ok := byRemote["https://ex.com/page/images/logo.png"]
	require.True(t, ok)
	assert.Equal(t, rewriter.CategoryImage, img.Category)
	assert.Equal(t, "assets/images/logo.png", img.LocalPath)

	assert.Contains(t, rewritten, `href="assets/css/site.css"`)
	assert.Contains(t, rewritten, `src="assets/js/app.js"`)
	assert.Contains(t, rewritten, `src="assets/images/logo.png"`)
	assert.NotContains(t, rewritten, "cdn.ex.com")
}

func TestExtract_QueryStrippedExtensionCasePreserved(t *testing.T) {
	t.Parallel()

	html := `<html><head><link href="https://ex.com/a/b.CSS?x=1"></head></html>`

	rewritten, refs, err := rewriter.Extract(html, "https://ex.com/")
	require.NoError(t, err)
	require.Len(t, refs, 1)

	assert.Equal(t, rewriter.CategoryCSS, refs[0].Category)
	assert.Equal(t, "assets/css/b.CSS", refs[0].LocalPath)
	assert.Equal(t, "https://ex.com/a/b.CSS?x=1", refs[0].RemoteURL)
	assert.Contains(t, rewritten, `href="assets/css/b.CSS"`)
}

func TestExtract_DataURIUntouched(t *testing.T) {
	t.Parallel()

	const dataURI = "data:image/png;base64,iVBORw0KGgo="
	html := `<html><body><img src="` + dataURI + `"></body></html>`

	rewritten, refs, err := rewriter.Extract(html, "https://ex.com/")
	require.NoError(t, err)

	assert.Empty(t, refs)
	assert.Contains(t, rewritten, dataURI)
}

func TestExtract_SkipsUnusableValues(t *testing.T) {
	t.Parallel()

	html := `<html><head>
		<link href="#section">
		<link href="javascript:void(0)">
		<link href="mailto:a@b.c">
		<link href="   ">
		<link href="https://ex.com/">
	</head></html>`

	_, refs, err := rewriter.Extract(html, "https://ex.com/")
	require.NoError(t, err)
	assert.Empty(t, refs)
}

func TestExtract_Idempotent(t *testing.T) {
	t.Parallel()

	html := `<html><head><link href="style.css"><script src="app.js"></script></head></html>`

	first, refs, err := rewriter.Extract(html, "https://ex.com/")
	require.NoError(t, err)
	require.Len(t, refs, 2)

	// Already-rewritten paths resolve to the same local paths; a second pass
	// must not crash or change the document.
	second, refs2, err := rewriter.Extract(first, "https://ex.com/")
	require.NoError(t, err)
	require.Len(t, refs2, 2)
	assert.Equal(t, first, second)
}

func TestExtract_DeduplicatesByRemoteURL(t *testing.T) {
	t.Parallel()

	html := `<html><body>
		<img src="https://ex.com/logo.png">
		<img src="https://ex.com/logo.png">
	</body></html>`

	rewritten, refs, err := rewriter.Extract(html, "https://ex.com/")
	require.NoError(t, err)

	require.Len(t, refs, 1)
	assert.Equal(t, 2, strings.Count(rewritten, `src="assets/images/logo.png"`))
}

func TestExtract_BasenameCollisionOverwrites(t *testing.T) {
	t.Parallel()

	// Two distinct remote URLs sharing a basename and category map to the
	// same local path. The later fetch overwrites the earlier one; both
	// references survive so the caller can observe the collision.
	html := `<html><body>
		<img src="https://ex.com/a/logo.png">
		<img src="https://ex.com/b/logo.png">
	</body></html>`

	_, refs, err := rewriter.Extract(html, "https://ex.com/")
	require.NoError(t, err)

	require.Len(t, refs, 2)
	assert.Equal(t, refs[0].LocalPath, refs[1].LocalPath)
	assert.NotEqual(t, refs[0].RemoteURL, refs[1].RemoteURL)
}

func TestExtract_InvalidBaseURL(t *testing.T) {
	t.Parallel()

	_, _, err := rewriter.Extract("<html></html>", "not-a-url")
	require.Error(t, err)
}

func TestClassify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		fileName string
		want     rewriter.Category
	}{
		{name: "css", fileName: "site.css", want: rewriter.CategoryCSS},
		{name: "css uppercase", fileName: "b.CSS", want: rewriter.CategoryCSS},
		{name: "js", fileName: "app.js", want: rewriter.CategoryJS},
		{name: "module js", fileName: "app.mjs", want: rewriter.CategoryJS},
		{name: "png", fileName: "logo.png", want: rewriter.CategoryImage},
		{name: "svg", fileName: "icon.svg", want: rewriter.CategoryImage},
		{name: "woff2", fileName: "font.woff2", want: rewriter.CategoryFont},
		{name: "unknown", fileName: "manifest.webmanifest", want: rewriter.CategoryMisc},
		{name: "no extension", fileName: "favicon", want: rewriter.CategoryMisc},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, rewriter.Classify(tt.fileName))
		})
	}
}

func TestCategoryFolder(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "css", rewriter.CategoryCSS.Folder())
	assert.Equal(t, "js", rewriter.CategoryJS.Folder())
	assert.Equal(t, "images", rewriter.CategoryImage.Folder())
	assert.Equal(t, "fonts", rewriter.CategoryFont.Folder())
	assert.Equal(t, "misc", rewriter.CategoryMisc.Folder())
}

func TestLocalPathFor(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "assets/fonts/Inter.woff2",
		rewriter.LocalPathFor("Inter.woff2", rewriter.CategoryFont))
}
