// File: pkg/storage/gcp/mappers.go
package gcp

import (
	"encoding/base64"
	"encoding/binary"

	gcpstorage "cloud.google.com/go/storage"

	"s3sh/pkg/storage"
)

// Maps GCP SDK object attributes to the domain model
func mapObjectEntry(attrs *gcpstorage.ObjectAttrs) storage.ObjectEntry {
	if attrs == nil {
		return storage.ObjectEntry{}
	}
	return storage.ObjectEntry{
		Key:          attrs.Name,
		Size:         attrs.Size,
		LastModified: attrs.Updated,
	}
}

// Composite objects carry no MD5, only a CRC32C
func objectChecksum(attrs *gcpstorage.ObjectAttrs) string {
	if attrs == nil {
		return ""
	}
	if sum := formatMD5(attrs.MD5); sum != "" {
		return sum
	}
	return formatCRC32C(attrs.CRC32C)
}

// Converts the raw MD5 hash bytes provided by GCP SDK into a standard Base64 encoded string
func formatMD5(hash []byte) string {
	if len(hash) == 0 {
		return ""
	}
	return base64.StdEncoding.EncodeToString(hash)
}

// Converts the uint32 CRC32C checksum provided by GCP SDK into a standard Base64 encoded string
func formatCRC32C(crc32c uint32) string {
	if crc32c == 0 {
		return ""
	}
	b := make([]byte, 4)
	binary.BigEndian.PutUint32(b, crc32c)
	return base64.StdEncoding.EncodeToString(b)
}
