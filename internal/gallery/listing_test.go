package gallery

import (
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/abduss/imgdrive/internal/objectstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testBaseURL = "https://img.example.com"

func TestProjectEmptyRoot(t *testing.T) {
	page := Project(objectstore.Listing{}, "", 1, 50, testBaseURL)

	require.NotNil(t, page.Directories)
	require.NotNil(t, page.Files)
	assert.Empty(t, page.Directories)
	assert.Empty(t, page.Files)
	assert.Equal(t, 0, page.Pagination.TotalFiles)
	assert.Equal(t, 0, page.Pagination.TotalPages)
	assert.Equal(t, "", page.ParentPath)
}

func TestProjectMapsDirectoriesAndFiles(t *testing.T) {
	uploaded := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	listing := objectstore.Listing{
		CommonPrefixes: []string{"docs/sub/", "docs/zeta/"},
		Objects: []objectstore.ObjectInfo{
			{Key: "docs/", Size: 0},
			{Key: "docs/.null", Size: 0, UploadedAt: uploaded},
			{Key: "docs/my photo.png", Size: 42, UploadedAt: uploaded},
		},
	}

	page := Project(listing, "docs/", 1, 50, testBaseURL)

	require.Len(t, page.Directories, 2)
	assert.Equal(t, Directory{Name: "sub", Path: "docs/sub/", Type: "directory"}, page.Directories[0])
	assert.Equal(t, "zeta", page.Directories[1].Name)

	require.Len(t, page.Files, 2)
	marker := page.Files[0]
	assert.Equal(t, MarkerName, marker.Name)
	assert.True(t, marker.Placeholder)

	photo := page.Files[1]
	assert.Equal(t, "my photo.png", photo.Name)
	assert.Equal(t, "docs/my photo.png", photo.Key)
	assert.Equal(t, int64(42), photo.Size)
	assert.False(t, photo.Placeholder)
	assert.Equal(t, testBaseURL+"/docs%2Fmy%20photo.png", photo.URL)

	assert.Equal(t, "docs/", page.CurrentPath)
	assert.Equal(t, "", page.ParentPath)
	assert.Equal(t, 2, page.Pagination.TotalFiles)
}

func TestProjectPaginatesFilesOnly(t *testing.T) {
	listing := objectstore.Listing{CommonPrefixes: []string{"x/", "y/"}}
	// deliberately not in lexicographic order: native order must be preserved
	for _, i := range []int{7, 3, 9, 1, 5, 2, 8} {
		listing.Objects = append(listing.Objects, objectstore.ObjectInfo{Key: fmt.Sprintf("f%d.png", i), Size: int64(i)})
	}

	for _, pageSize := range []int{1, 2, 3, 7, 10} {
		first := Project(listing, "", 1, pageSize, testBaseURL)
		totalPages := first.Pagination.TotalPages
		assert.Equal(t, (len(listing.Objects)+pageSize-1)/pageSize, totalPages)

		var keys []string
		for p := 1; p <= totalPages; p++ {
			page := Project(listing, "", p, pageSize, testBaseURL)
			assert.Len(t, page.Directories, 2, "directories shown on every page")
			for _, f := range page.Files {
				keys = append(keys, f.Key)
			}
		}

		var want []string
		for _, obj := range listing.Objects {
			want = append(want, obj.Key)
		}
		assert.Equal(t, want, keys, "pageSize %d", pageSize)
	}
}

func TestProjectPageBeyondEndIsEmpty(t *testing.T) {
	listing := objectstore.Listing{Objects: []objectstore.ObjectInfo{{Key: "a.png"}, {Key: "b.png"}}}

	page := Project(listing, "", 5, 1, testBaseURL)

	require.NotNil(t, page.Files)
	assert.Empty(t, page.Files)
	assert.Equal(t, 2, page.Pagination.TotalPages)
	assert.Equal(t, 5, page.Pagination.CurrentPage)
}

func TestPublicURLEncodesSlashes(t *testing.T) {
	assert.Equal(t, testBaseURL+"/a%2Fb%2F20240101_x.png", PublicURL(testBaseURL, "a/b/20240101_x.png"))
	assert.Equal(t, testBaseURL+"/a/b/20240101_x.png", DirectURL(testBaseURL, "a/b/20240101_x.png"))
}

func TestProjectHugePageIsEmpty(t *testing.T) {
	listing := objectstore.Listing{}
	for i := 0; i < 3; i++ {
		listing.Objects = append(listing.Objects, objectstore.ObjectInfo{Key: fmt.Sprintf("f%d.png", i), Size: 1})
	}

	for _, page := range []int{math.MaxInt, math.MaxInt/50 + 2} {
		got := Project(listing, "", page, 50, testBaseURL)
		require.NotNil(t, got.Files)
		assert.Empty(t, got.Files, "page %d", page)
		assert.Equal(t, 3, got.Pagination.TotalFiles)
		assert.Equal(t, 1, got.Pagination.TotalPages)
	}

	got := Project(listing, "", 1, math.MaxInt, testBaseURL)
	assert.Len(t, got.Files, 3)
	assert.Equal(t, 1, got.Pagination.TotalPages)
}

func TestEncodeComponentMatchesBrowserEscaping(t *testing.T) {
	assert.Equal(t, "a%2Bb%26c%3Dd%3Ae%40f%24g", EncodeComponent("a+b&c=d:e@f$g"))
	assert.Equal(t, "(x)!*'~-_.", EncodeComponent("(x)!*'~-_."))
	assert.Equal(t, "my%20photo%2F%E5%9B%BE.png", EncodeComponent("my photo/图.png"))
}
