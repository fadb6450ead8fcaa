package clone

import (
	"net/url"
	"regexp"

	"github.com/jonesrussell/goclone/internal/renderer"
)

// Result is returned to the caller once a clone run completes. Read-only.
type Result struct {
	// Mode reports which retrieval path produced the document.
	Mode renderer.Mode `json:"mode"`
	// ArchivePath is the archive location in the work directory.
	ArchivePath string `json:"archivePath"`
	// PublicArchivePath is the byte-identical copy in the public dir.
	PublicArchivePath string `json:"publicArchivePath"`
	// ArchiveFileName is the bare archive file name, e.g. "a_b_c.zip".
	ArchiveFileName string `json:"archiveFileName"`
	// FailedAssets lists remote URLs that could not be retrieved. The
	// rewritten document still references their local paths; the files are
	// simply absent from the archive.
	FailedAssets []string `json:"failedAssets,omitempty"`
}

var (
	schemePrefix = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9+.-]*://`)
	nonWordChars = regexp.MustCompile(`\W`)
)

// FolderName derives the clone folder name from the target URL: the scheme
// is stripped and every non-word character becomes an underscore. The same
// URL always yields the same name, so a re-clone overwrites its predecessor.
func FolderName(targetURL string) string {
	name := schemePrefix.ReplaceAllString(targetURL, "")
	return nonWordChars.ReplaceAllString(name, "_")
}

// ValidateTarget checks that rawURL parses as an absolute HTTP(S) URL.
func ValidateTarget(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return &ValidationError{URL: rawURL, Reason: err.Error()}
	}
	if !u.IsAbs() {
		return &ValidationError{URL: rawURL, Reason: "URL must be absolute"}
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return &ValidationError{URL: rawURL, Reason: "scheme must be http or https"}
	}
	if u.Host == "" {
		return &ValidationError{URL: rawURL, Reason: "URL has no host"}
	}
	return nil
}
