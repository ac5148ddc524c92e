// File: pkg/formatter/shell_formatter.go
package formatter

import (
	"fmt"
	"strings"
	"time"

	"s3sh/internal/buckets"
	"s3sh/internal/history"
	"s3sh/pkg/storage"
)

// Timestamp layout used by object listings
const TimeLayout = "2006-01-02 15:04:05 MST"

type ShellFormatter struct{}

func NewShellFormatter() *ShellFormatter {
	return &ShellFormatter{}
}

// FormatBucketList renders the registered profiles. The long form adds the access key
// and the masked secret key.
func (f *ShellFormatter) FormatBucketList(profiles []buckets.Profile, long bool) string {
	columns := Headers("ALIAS", "BUCKET NAME", "REGION", "DESCRIPTION")
	if long {
		columns = append(columns, Column{Header: "ACCESS KEY"}, Column{Header: "SECRET KEY", Secret: true})
	}
	table := NewTable(columns...)

	for _, p := range profiles {
		table.AddRow(p.Alias, p.BucketName, p.Region, p.Description, p.AccessKey, p.SecretKey)
	}

	return table.String()
}

// BucketStatus is the live state shown next to a profile by FormatBucketDetails
type BucketStatus struct {
	Provider           string
	ProviderConfigured bool
	Active             bool
	// Empty when the provider cannot report usage
	Usage string
}

// FormatBucketDetails shows one profile as a parameter table with its secret masked
func (f *ShellFormatter) FormatBucketDetails(p buckets.Profile, status BucketStatus) string {
	table := NewTable(Headers("PARAMETER", "VALUE")...)
	table.AddRow("Bucket Name", p.BucketName)
	table.AddRow("Region", orDash(p.Region))
	table.AddRow("Description", orDash(p.Description))
	table.AddRow("Access Key", orDash(p.AccessKey))
	table.AddRow("Secret Key", MaskSecret(p.SecretKey))

	provider := status.Provider
	if !status.ProviderConfigured {
		provider += " (not configured)"
	}
	table.AddRow("Provider", provider)
	if status.Active {
		table.AddRow("Session", "active")
	}
	if status.Usage != "" {
		table.AddRow("Usage", status.Usage)
	}

	return Title("Bucket "+p.Alias) + "\n" + table.String()
}

// FormatObject renders one listing line: modification time, size in bytes and display key
func (f *ShellFormatter) FormatObject(e storage.ObjectEntry) string {
	return fmt.Sprintf("%s - %d - %s", formatTime(e.LastModified), e.Size, e.DisplayKey())
}

// FormatMatch is FormatObject with the match count appended when a key matched more than once
func (f *ShellFormatter) FormatMatch(e storage.ObjectEntry, matches int) string {
	line := f.FormatObject(e)
	if matches > 1 {
		line += fmt.Sprintf(" (%d matches)", matches)
	}
	return line
}

func (f *ShellFormatter) FormatHistory(entries []history.Entry) string {
	var sb strings.Builder
	for _, e := range entries {
		fmt.Fprintf(&sb, "%d  %s\n", e.Index, e.Text)
	}
	return sb.String()
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format(TimeLayout)
}

// MaskSecret keeps the last four characters of a secret
func MaskSecret(secret string) string {
	if secret == "" {
		return "-"
	}
	if len(secret) <= 4 {
		return strings.Repeat("*", len(secret))
	}
	return strings.Repeat("*", len(secret)-4) + secret[len(secret)-4:]
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
