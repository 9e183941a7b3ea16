package gallery

import (
	"net/url"
	"strings"

	"github.com/abduss/imgdrive/internal/objectstore"
)

// Project turns one delimited store listing into a Page. It is pure: the
// store's native order is preserved and only files are paginated. page and
// pageSize must already be positive.
func Project(listing objectstore.Listing, prefix string, page, pageSize int, baseURL string) Page {
	directories := make([]Directory, 0, len(listing.CommonPrefixes))
	for _, common := range listing.CommonPrefixes {
		name := strings.TrimSuffix(strings.TrimPrefix(common, prefix), "/")
		directories = append(directories, Directory{Name: name, Path: common, Type: "directory"})
	}

	files := make([]File, 0, len(listing.Objects))
	for _, obj := range listing.Objects {
		name := strings.TrimPrefix(obj.Key, prefix)
		// the prefix itself stored as an object
		if name == "" {
			continue
		}
		files = append(files, File{
			Name:        name,
			Key:         obj.Key,
			Size:        obj.Size,
			UploadedAt:  obj.UploadedAt,
			Type:        "file",
			URL:         PublicURL(baseURL, obj.Key),
			Placeholder: name == MarkerName,
		})
	}

	totalFiles := len(files)
	totalPages := totalFiles / pageSize
	if totalFiles%pageSize != 0 {
		totalPages++
	}

	// compare pages before multiplying so huge page values cannot overflow
	start, end := totalFiles, totalFiles
	if page <= totalPages {
		start = (page - 1) * pageSize
		if pageSize < totalFiles-start {
			end = start + pageSize
		}
	}

	return Page{
		CurrentPath: prefix,
		ParentPath:  ParentPath(prefix),
		Directories: directories,
		Files:       files[start:end:end],
		Pagination: Pagination{
			CurrentPage: page,
			PageSize:    pageSize,
			TotalFiles:  totalFiles,
			TotalPages:  totalPages,
		},
	}
}

// componentUnescaper restores the marks a browser's encodeURIComponent leaves
// alone after url.QueryEscape.
var componentUnescaper = strings.NewReplacer(
	"+", "%20",
	"%21", "!",
	"%27", "'",
	"%28", "(",
	"%29", ")",
	"%2A", "*",
)

// PublicURL joins baseURL with the fully percent-encoded key; "/" inside the key
// becomes %2F so the served path is a single segment.
func PublicURL(baseURL, key string) string {
	return baseURL + "/" + EncodeComponent(key)
}

// EncodeComponent escapes everything except letters, digits and -_.!~*'().
func EncodeComponent(s string) string {
	return componentUnescaper.Replace(url.QueryEscape(s))
}

// DirectURL joins baseURL with the raw key, as handed back to uploaders.
func DirectURL(baseURL, key string) string {
	return baseURL + "/" + key
}
