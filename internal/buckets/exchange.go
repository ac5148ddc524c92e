// File: internal/buckets/exchange.go
package buckets

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"s3sh/internal/errs"
)

// Format of an import/export record stream
type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

var csvHeader = []string{"alias", "bucketName", "accessKey", "secretKey", "description", "region"}

// FormatForPath picks the record format from a file extension, defaulting to CSV
func FormatForPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatCSV
	}
}

func decodeProfiles(r io.Reader, format Format) ([]Profile, error) {
	switch format {
	case FormatJSON:
		var out []Profile
		if err := json.NewDecoder(r).Decode(&out); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("error parsing JSON profiles: %w", err)
		}
		return out, nil
	case FormatYAML:
		var out []Profile
		if err := yaml.NewDecoder(r).Decode(&out); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("error parsing YAML profiles: %w", err)
		}
		return out, nil
	case FormatCSV:
		return decodeCSV(r)
	default:
		return nil, fmt.Errorf("%w: unsupported format %q", errs.ErrInvalidArgument, format)
	}
}

func decodeCSV(r io.Reader) ([]Profile, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	var out []Profile
	for line := 1; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return nil, fmt.Errorf("error parsing CSV profiles: %w", err)
		}
		if line == 1 && isCSVHeader(rec) {
			continue
		}
		if len(rec) < 4 {
			return nil, fmt.Errorf("%w: CSV line %d has %d columns, want at least 4", errs.ErrInvalidArgument, line, len(rec))
		}

		p := Profile{Alias: rec[0], BucketName: rec[1], AccessKey: rec[2], SecretKey: rec[3]}
		if len(rec) > 4 {
			p.Description = rec[4]
		}
		if len(rec) > 5 {
			p.Region = rec[5]
		}
		out = append(out, p)
	}
}

// A header row names all six columns; a profile aliased "alias" is still data
func isCSVHeader(rec []string) bool {
	if len(rec) != len(csvHeader) {
		return false
	}
	for i, col := range csvHeader {
		if !strings.EqualFold(strings.TrimSpace(rec[i]), col) {
			return false
		}
	}
	return true
}

func encodeProfiles(w io.Writer, format Format, profiles []Profile) error {
	switch format {
	case FormatJSON:
		if profiles == nil {
			profiles = []Profile{}
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(profiles)
	case FormatYAML:
		if profiles == nil {
			profiles = []Profile{}
		}
		enc := yaml.NewEncoder(w)
		defer enc.Close()
		return enc.Encode(profiles)
	case FormatCSV:
		cw := csv.NewWriter(w)
		for _, p := range profiles {
			if err := cw.Write([]string{p.Alias, p.BucketName, p.AccessKey, p.SecretKey, p.Description, p.Region}); err != nil {
				return err
			}
		}
		cw.Flush()
		return cw.Error()
	default:
		return fmt.Errorf("%w: unsupported format %q", errs.ErrInvalidArgument, format)
	}
}

// Import bulk-loads profiles from r. Profiles whose alias is already registered replace the existing entry.
func (r *Registry) Import(ctx context.Context, src io.Reader, format Format) (int, error) {
	profiles, err := decodeProfiles(src, format)
	if err != nil {
		return 0, err
	}
	n, err := r.merge(ctx, profiles)
	if err != nil {
		return 0, err
	}
	r.logger.Info("Imported bucket profiles", "count", n, "format", format)
	return n, nil
}

func (r *Registry) ImportFile(ctx context.Context, path string) (int, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return 0, fmt.Errorf("%w: import file %s", errs.ErrNotFound, path)
	}
	if err != nil {
		return 0, errs.IO("open "+path, err)
	}
	defer f.Close()

	return r.Import(ctx, f, FormatForPath(path))
}

// Export writes the selected profiles (all when aliases is empty) to w
func (r *Registry) Export(w io.Writer, format Format, aliases []string) (int, error) {
	profiles := r.selection(aliases)
	if err := encodeProfiles(w, format, profiles); err != nil {
		return 0, errs.IO("export profiles", err)
	}
	return len(profiles), nil
}

func (r *Registry) ExportFile(path string, aliases []string) (int, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return 0, errs.IO("create export directory", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return 0, errs.IO("create "+path, err)
	}

	n, err := r.Export(f, FormatForPath(path), aliases)
	if cerr := f.Close(); err == nil && cerr != nil {
		err = errs.IO("close "+path, cerr)
	}
	if err != nil {
		return 0, err
	}
	r.logger.Info("Exported bucket profiles", "count", n, "path", path)
	return n, nil
}
