// File: internal/provider/providers.go
package provider

// Blank imports run each backend's init(), which registers it with internal/provider/registry.
// A new backend lives under pkg/storage/<name>, registers itself in init(), and is added here.

import (
	_ "s3sh/pkg/storage/aws"
	_ "s3sh/pkg/storage/gcp"
	_ "s3sh/pkg/storage/minio"
)
