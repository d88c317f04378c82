package transcript

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

func sampleEntries() []Entry {
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	return []Entry{
		{ID: 1, Session: "s", Time: base, Input: "1 + 2", Output: "3", Kind: KindValue},
		{ID: 2, Session: "s", Time: base.Add(time.Second), Input: `"a" - "b"`, Output: "unknown operator: STRING - STRING", Kind: KindError},
	}
}

func TestFormatForPath(t *testing.T) {
	tests := []struct {
		path string
		want Format
	}{
		{"out.jsonl", FormatJSONL},
		{"out", FormatJSONL},
		{"out.jsonl.gz", FormatGzip},
		{"OUT.GZ", FormatGzip},
		{"out.jsonl.zst", FormatZstd},
		{"out.zstd", FormatZstd},
	}
	for _, tt := range tests {
		if got := FormatForPath(tt.path); got != tt.want {
			t.Errorf("FormatForPath(%q) = %s, want %s", tt.path, got, tt.want)
		}
	}
}

func TestExportJSONL(t *testing.T) {
	var buf bytes.Buffer
	if err := Export(&buf, sampleEntries(), FormatJSONL); err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d: %q", len(lines), buf.String())
	}
	if !strings.Contains(lines[0], `"input":"1 + 2"`) {
		t.Errorf("unexpected first line: %s", lines[0])
	}
	if !strings.Contains(lines[1], `"kind":"error"`) {
		t.Errorf("unexpected second line: %s", lines[1])
	}
}

func TestExportCompressed(t *testing.T) {
	t.Run("gzip", func(t *testing.T) {
		var buf bytes.Buffer
		if err := Export(&buf, sampleEntries(), FormatGzip); err != nil {
			t.Fatalf("Export failed: %v", err)
		}
		zr, err := gzip.NewReader(&buf)
		if err != nil {
			t.Fatalf("not gzip: %v", err)
		}
		defer zr.Close()
		var plain bytes.Buffer
		if _, err := plain.ReadFrom(zr); err != nil {
			t.Fatalf("decompress failed: %v", err)
		}
		if strings.Count(plain.String(), "\n") != 2 {
			t.Errorf("expected 2 JSON lines, got %q", plain.String())
		}
	})

	t.Run("zstd", func(t *testing.T) {
		var buf bytes.Buffer
		if err := Export(&buf, sampleEntries(), FormatZstd); err != nil {
			t.Fatalf("Export failed: %v", err)
		}
		zr, err := zstd.NewReader(&buf)
		if err != nil {
			t.Fatalf("not zstd: %v", err)
		}
		defer zr.Close()
		var plain bytes.Buffer
		if _, err := plain.ReadFrom(zr); err != nil {
			t.Fatalf("decompress failed: %v", err)
		}
		if strings.Count(plain.String(), "\n") != 2 {
			t.Errorf("expected 2 JSON lines, got %q", plain.String())
		}
	})
}

func TestImportRoundTrip(t *testing.T) {
	for _, format := range []Format{FormatJSONL, FormatGzip, FormatZstd} {
		t.Run(format.String(), func(t *testing.T) {
			var buf bytes.Buffer
			want := sampleEntries()
			if err := Export(&buf, want, format); err != nil {
				t.Fatalf("Export failed: %v", err)
			}
			got, err := Import(&buf, format)
			if err != nil {
				t.Fatalf("Import failed: %v", err)
			}
			if len(got) != len(want) {
				t.Fatalf("expected %d entries, got %d", len(want), len(got))
			}
			for i := range want {
				if got[i].Output != want[i].Output || !got[i].Time.Equal(want[i].Time) {
					t.Errorf("entry %d: got %+v, want %+v", i, got[i], want[i])
				}
			}
		})
	}
}

func TestExportEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := Export(&buf, nil, FormatJSONL); err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	if buf.Len() != 0 {
		t.Errorf("expected no output, got %q", buf.String())
	}
}
