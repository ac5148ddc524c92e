// File: pkg/storage/model.go
package storage

import (
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

// Marker some S3 tools write to emulate empty folders
const folderMarker = "_$folder$"

type ObjectEntry struct {
	Key          string
	Size         int64
	LastModified time.Time
}

// Renders the key for humans; folder markers become a path separator
func (e ObjectEntry) DisplayKey() string {
	return DisplayKey(e.Key)
}

func DisplayKey(key string) string {
	return strings.ReplaceAll(key, folderMarker, Delimiter)
}

type ListOptions struct {
	Prefix    string
	Delimiter string
	// Opaque continuation token returned in a previous ListPage, empty for the first page
	Cursor string
	// Zero uses the provider default
	MaxKeys int
}

type ListPage struct {
	Entries        []ObjectEntry
	CommonPrefixes []string
	NextCursor     string
	HasMore        bool
}

// FormatBytes renders a byte count the way listings and progress bars show it
func FormatBytes(bytes int64) string {
	if bytes < 0 {
		return "N/A"
	}
	return humanize.IBytes(uint64(bytes))
}
