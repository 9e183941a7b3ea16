package gallery

import "time"

// MarkerName is the reserved object name that keeps an empty folder listable.
const MarkerName = ".null"

// MarkerContentType is written on directory markers.
const MarkerContentType = "application/x-directory"

// Directory is one sub-folder of the listed prefix.
type Directory struct {
	Name string `json:"name"`
	Path string `json:"path"`
	Type string `json:"type"`
}

// File is one direct child object of the listed prefix. Placeholder is set for
// directory markers, which clients render as an empty-folder tile, not an image.
type File struct {
	Name        string    `json:"name"`
	Key         string    `json:"key"`
	Size        int64     `json:"size"`
	UploadedAt  time.Time `json:"uploadedAt"`
	Type        string    `json:"type"`
	URL         string    `json:"url"`
	Placeholder bool      `json:"placeholder"`
}

// Pagination describes the file slice of a Page. Directories are never paginated.
type Pagination struct {
	CurrentPage int `json:"currentPage"`
	PageSize    int `json:"pageSize"`
	TotalFiles  int `json:"totalFiles"`
	TotalPages  int `json:"totalPages"`
}

// Page is the directory-plus-files view of one prefix.
type Page struct {
	CurrentPath string      `json:"currentPath"`
	ParentPath  string      `json:"parentPath"`
	Directories []Directory `json:"directories"`
	Files       []File      `json:"files"`
	Pagination  Pagination  `json:"pagination"`
}

// UploadResult is returned after an object is stored.
type UploadResult struct {
	Key      string `json:"key"`
	URL      string `json:"url"`
	Markdown string `json:"markdown"`
	MIME     string `json:"mime"`
	Size     int    `json:"size"`
}

// DeleteFailure records one key a bulk delete could not remove.
type DeleteFailure struct {
	Key   string `json:"key"`
	Error string `json:"error"`
}

// DeleteResult lists the per-key outcome of a bulk delete.
type DeleteResult struct {
	DeletedKeys []string        `json:"deletedKeys"`
	Failed      []DeleteFailure `json:"failed"`
}
