package rewriter

import (
	"path"
	"strings"
)

// Category classifies an asset reference by the kind of resource it points at.
type Category string

const (
	// CategoryCSS is a stylesheet asset.
	CategoryCSS Category = "css"
	// CategoryJS is a script asset.
	CategoryJS Category = "js"
	// CategoryImage is an image asset.
	CategoryImage Category = "image"
	// CategoryFont is a font asset.
	CategoryFont Category = "font"
	// CategoryMisc is any asset with an unrecognized extension.
	CategoryMisc Category = "misc"
)

// Folder returns the assets subfolder for the category.
func (c Category) Folder() string {
	switch c {
	case CategoryCSS:
		return "css"
	case CategoryJS:
		return "js"
	case CategoryImage:
		return "images"
	case CategoryFont:
		return "fonts"
	default:
		return "misc"
	}
}

// Asset is a discovered external reference together with the local path the
// document has been rewritten to point at.
type Asset struct {
	// RemoteURL is the absolute URL the asset is fetched from.
	RemoteURL string
	// Category is the extension-based classification.
	Category Category
	// LocalPath is the clone-relative path, e.g. "assets/css/site.css".
	LocalPath string
}

// AssetRootDir is the directory under the clone folder that holds all
// fetched assets, one subfolder per category.
const AssetRootDir = "assets"

// categoryByExt maps lowercase file extensions to asset categories.
// Unlisted extensions classify as misc.
var categoryByExt = map[string]Category{
	".css":   CategoryCSS,
	".js":    CategoryJS,
	".mjs":   CategoryJS,
	".png":   CategoryImage,
	".jpg":   CategoryImage,
	".jpeg":  CategoryImage,
	".gif":   CategoryImage,
	".svg":   CategoryImage,
	".webp":  CategoryImage,
	".ico":   CategoryImage,
	".avif":  CategoryImage,
	".bmp":   CategoryImage,
	".woff":  CategoryFont,
	".woff2": CategoryFont,
	".ttf":   CategoryFont,
	".otf":   CategoryFont,
	".eot":   CategoryFont,
}

// Classify returns the category for a file name. Matching is
// case-insensitive; unknown extensions classify as misc.
func Classify(name string) Category {
	ext := strings.ToLower(path.Ext(name))
	if cat, ok := categoryByExt[ext]; ok {
		return cat
	}
	return CategoryMisc
}

// LocalPathFor computes the clone-relative local path for a basename and its
// category. The basename keeps its original case.
func LocalPathFor(basename string, cat Category) string {
	return path.Join(AssetRootDir, cat.Folder(), basename)
}
