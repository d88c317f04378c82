package transcript

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

// Format selects the export encoding.
type Format int

const (
	FormatJSONL Format = iota // plain JSON Lines
	FormatGzip                // gzip-compressed JSON Lines
	FormatZstd                // zstd-compressed JSON Lines
)

func (f Format) String() string {
	switch f {
	case FormatGzip:
		return "gzip"
	case FormatZstd:
		return "zstd"
	default:
		return "jsonl"
	}
}

// FormatForPath picks the format from a file extension: .gz and .zst
// select compression, anything else is plain JSON Lines.
func FormatForPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".gz", ".gzip":
		return FormatGzip
	case ".zst", ".zstd":
		return FormatZstd
	default:
		return FormatJSONL
	}
}

// Export writes entries to w as JSON Lines, one object per line.
func Export(w io.Writer, entries []Entry, format Format) error {
	var out io.WriteCloser
	switch format {
	case FormatGzip:
		out = gzip.NewWriter(w)
	case FormatZstd:
		zw, err := zstd.NewWriter(w)
		if err != nil {
			return fmt.Errorf("creating zstd writer: %w", err)
		}
		out = zw
	default:
		out = nopCloser{w}
	}

	enc := json.NewEncoder(out)
	for _, e := range entries {
		if err := enc.Encode(e); err != nil {
			out.Close()
			return fmt.Errorf("encoding entry %d: %w", e.ID, err)
		}
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("finishing %s export: %w", format, err)
	}
	return nil
}

// Import reads entries written by Export.
func Import(r io.Reader, format Format) ([]Entry, error) {
	var in io.Reader = r
	switch format {
	case FormatGzip:
		zr, err := gzip.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("reading gzip export: %w", err)
		}
		defer zr.Close()
		in = zr
	case FormatZstd:
		zr, err := zstd.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("reading zstd export: %w", err)
		}
		defer zr.Close()
		in = zr
	}

	var entries []Entry
	dec := json.NewDecoder(in)
	for dec.More() {
		var e Entry
		if err := dec.Decode(&e); err != nil {
			return nil, fmt.Errorf("decoding export: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }
