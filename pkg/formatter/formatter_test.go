package formatter

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"s3sh/internal/buckets"
	"s3sh/internal/history"
	"s3sh/pkg/storage"
)

func TestTable_String(t *testing.T) {
	table := NewTable(Headers("A", "BB")...)
	table.AddRow("xxx", "y")

	want := strings.Join([]string{
		"+-----+----+",
		"| A   | BB |",
		"+-----+----+",
		"| xxx | y  |",
		"+-----+----+",
	}, "\n")
	assert.Equal(t, want, table.String())
	assert.Equal(t, 1, table.Len())
}

func TestTable_NoColumns(t *testing.T) {
	assert.Equal(t, "", NewTable().String())
}

func TestTable_SecretColumnsAreMasked(t *testing.T) {
	table := NewTable(Column{Header: "KEY"}, Column{Header: "SECRET", Secret: true})
	table.AddRow("AK", "abcdefgh")

	out := table.String()
	assert.Contains(t, out, "| AK  | ****efgh |")
	assert.NotContains(t, out, "abcdefgh")
}

func TestTable_RowsAreFittedToColumns(t *testing.T) {
	table := NewTable(Headers("A", "B")...)
	table.AddRow("only")
	table.AddRow("x", "y", "dropped")

	out := table.String()
	assert.Contains(t, out, "| only |   |")
	assert.NotContains(t, out, "dropped")
}

func TestTable_WidthCountsRunes(t *testing.T) {
	table := NewTable(Headers("NAME")...)
	table.AddRow("café")

	assert.Contains(t, table.String(), "| café |")
}

func TestFormatBucketList(t *testing.T) {
	f := NewShellFormatter()
	profiles := []buckets.Profile{
		{Alias: "prod", BucketName: "acme-prod", AccessKey: "AKIAEXAMPLE", SecretKey: "s3cr3t-key"},
	}

	short := f.FormatBucketList(profiles, false)
	assert.Contains(t, short, "prod")
	assert.Contains(t, short, "acme-prod")
	assert.NotContains(t, short, "AKIAEXAMPLE")
	assert.NotContains(t, short, "SECRET KEY")

	long := f.FormatBucketList(profiles, true)
	assert.Contains(t, long, "AKIAEXAMPLE")
	assert.Contains(t, long, "******-key")
	assert.NotContains(t, long, "s3cr3t-key")
}

func TestFormatBucketDetails(t *testing.T) {
	f := NewShellFormatter()
	p := buckets.Profile{Alias: "prod", BucketName: "acme-prod", SecretKey: "abcdefgh"}

	out := f.FormatBucketDetails(p, BucketStatus{Provider: "aws", ProviderConfigured: true, Active: true, Usage: "1.0 KiB"})
	assert.Contains(t, out, "Bucket prod")
	assert.Contains(t, out, "****efgh")
	assert.NotContains(t, out, "abcdefgh")
	assert.Contains(t, out, "| Provider    | aws ")
	assert.Contains(t, out, "active")
	assert.Contains(t, out, "1.0 KiB")

	out = f.FormatBucketDetails(p, BucketStatus{Provider: "minio"})
	assert.Contains(t, out, "minio (not configured)")
	assert.NotContains(t, out, "Usage")
	assert.NotContains(t, out, "Session")
}

func TestFormatObject(t *testing.T) {
	f := NewShellFormatter()
	e := storage.ObjectEntry{
		Key:          "logs/old_$folder$",
		Size:         42,
		LastModified: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
	}

	assert.Equal(t, "2024-01-02 03:04:05 UTC - 42 - logs/old/", f.FormatObject(e))
	assert.Equal(t, "- - 0 - k", f.FormatObject(storage.ObjectEntry{Key: "k"}))
}

func TestFormatMatch(t *testing.T) {
	f := NewShellFormatter()
	e := storage.ObjectEntry{Key: "aaa"}

	assert.Equal(t, f.FormatObject(e), f.FormatMatch(e, 1))
	assert.Equal(t, f.FormatObject(e)+" (3 matches)", f.FormatMatch(e, 3))
}

func TestFormatHistory(t *testing.T) {
	out := NewShellFormatter().FormatHistory([]history.Entry{{Index: 1, Text: "cb prod"}, {Index: 2, Text: "ls"}})
	assert.Equal(t, "1  cb prod\n2  ls\n", out)
}

func TestMaskSecret(t *testing.T) {
	assert.Equal(t, "-", MaskSecret(""))
	assert.Equal(t, "***", MaskSecret("abc"))
	assert.Equal(t, "**cdef", MaskSecret("abcdef"))
}
