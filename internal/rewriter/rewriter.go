// Package rewriter discovers asset references in an HTML document and
// rewrites them to deterministic clone-local paths. It performs no I/O:
// fetching the referenced assets is the caller's concern.
package rewriter

import (
	"fmt"
	"net/url"
	"path"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// refTarget describes one element kind that can reference an external
// resource and the attribute that carries the reference.
type refTarget struct {
	selector string
	attr     string
}

// refTargets lists the element/attribute pairs scanned for references.
var refTargets = []refTarget{
	{selector: "link[href]", attr: "href"},
	{selector: "script[src]", attr: "src"},
	{selector: "img[src]", attr: "src"},
}

// ignoredPrefixes are attribute values that never name a fetchable asset.
// Elements carrying them are left untouched.
var ignoredPrefixes = []string{
	"data:",
	"#",
	"about:",
	"javascript:",
	"mailto:",
	"tel:",
}

// Extract parses htmlSrc, rewrites every usable asset reference to its local
// path, and returns the rewritten document plus the discovered references.
// References are deduplicated by remote URL; two distinct remote URLs that
// share a basename and category map to the same local path and the later
// fetch overwrites the earlier one.
func Extract(htmlSrc, baseURL string) (string, []Asset, error) {
	base, err := url.Parse(baseURL)
	if err != nil || !base.IsAbs() {
		return "", nil, fmt.Errorf("base URL %q is not absolute: %w", baseURL, err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlSrc))
	if err != nil {
		return "", nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	var refs []Asset
	seen := make(map[string]string)

	for _, target := range refTargets {
		doc.Find(target.selector).Each(func(_ int, sel *goquery.Selection) {
			raw, ok := sel.Attr(target.attr)
			if !ok {
				return
			}

			remote, localPath, usable := resolveReference(base, raw)
			if !usable {
				return
			}

			if prev, dup := seen[remote]; dup {
				sel.SetAttr(target.attr, prev)
				return
			}
			seen[remote] = localPath

			refs = append(refs, Asset{
				RemoteURL: remote,
				Category:  Classify(path.Base(localPath)),
				LocalPath: localPath,
			})
			sel.SetAttr(target.attr, localPath)
		})
	}

	rewritten, err := doc.Html()
	if err != nil {
		return "", nil, fmt.Errorf("failed to serialize HTML: %w", err)
	}

	return rewritten, refs, nil
}

// resolveReference turns a raw attribute value into an absolute remote URL
// and its local path. usable is false for inline data, fragment-only links,
// values that do not resolve to an absolute http(s) URL, and URLs without a
// usable basename. Such elements are skipped silently; many pages carry them
// legitimately.
func resolveReference(base *url.URL, raw string) (remote, localPath string, usable bool) {
	val := strings.TrimSpace(raw)
	if val == "" {
		return "", "", false
	}

	lower := strings.ToLower(val)
	for _, prefix := range ignoredPrefixes {
		if strings.HasPrefix(lower, prefix) {
			return "", "", false
		}
	}

	ref, err := url.Parse(val)
	if err != nil {
		return "", "", false
	}

	abs := base.ResolveReference(ref)
	if abs.Scheme != "http" && abs.Scheme != "https" {
		return "", "", false
	}

	// The query string never participates in the local path; url.URL keeps
	// it out of Path already.
	basename := path.Base(abs.Path)
	if basename == "." || basename == "/" || basename == "" {
		return "", "", false
	}

	return abs.String(), LocalPathFor(basename, Classify(basename)), true
}
