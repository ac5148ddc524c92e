// File: internal/session/navigator.go
package session

import (
	"strings"

	"s3sh/pkg/storage"
)

// Root is the present path of a freshly selected bucket
const Root = storage.Delimiter

// Navigator is a client-side cursor over the prefix-delimited key space.
// The present path is either Root or a non-empty string ending in "/" without a leading "/".
// Paths are never checked against the remote bucket.
type Navigator struct {
	presentPath string
}

func NewNavigator() *Navigator {
	return &Navigator{presentPath: Root}
}

func (n *Navigator) PresentPath() string {
	return n.presentPath
}

func (n *Navigator) Reset() {
	n.presentPath = Root
}

// ChangeDirectory moves the cursor to path. It reports whether a leading "/" was
// stripped so the caller can warn about it.
func (n *Navigator) ChangeDirectory(path string) (strippedLeadingSlash bool) {
	if path == "" || path == Root {
		n.presentPath = Root
		return path == Root
	}

	if strings.HasPrefix(path, Root) {
		path = path[1:]
		strippedLeadingSlash = true
	}
	if !strings.HasSuffix(path, Root) {
		path += Root
	}
	n.presentPath = path
	return strippedLeadingSlash
}

// ResolveEffectivePath turns an optional path argument into a listing prefix.
// No argument means the present path; Root means no prefix filter at all.
func (n *Navigator) ResolveEffectivePath(explicit string) string {
	path := explicit
	if path == "" {
		path = n.presentPath
	}
	if path == Root {
		return ""
	}
	return path
}

// Display composes the bucket name with the present path, reinstating the
// leading "/" that ChangeDirectory strips
func (n *Navigator) Display(bucketName string) string {
	if n.presentPath == Root {
		return bucketName + Root
	}
	return bucketName + Root + n.presentPath
}
