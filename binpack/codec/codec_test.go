package codec

import (
	"bytes"
	"io"
	"testing"
)

func TestForPath(t *testing.T) {
	tests := []struct {
		name string
		want Codec
	}{
		{"data.binpack", None},
		{"data.binpack.zst", Zstd},
		{"data.binpack.ZST", Zstd},
		{"data.binpack.zstd", Zstd},
		{"data.binpack.gz", Gzip},
		{"noext", None},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ForPath(tt.name); got != tt.want {
				t.Errorf("ForPath(%q) = %T, want %T", tt.name, got, tt.want)
			}
		})
	}
}

func TestByName(t *testing.T) {
	for _, name := range []string{"none", "zstd", "gzip", ""} {
		if _, err := ByName(name); err != nil {
			t.Errorf("ByName(%q) error: %v", name, err)
		}
	}
	if _, err := ByName("lz4"); err == nil {
		t.Errorf("ByName(lz4) should fail")
	}
}

func TestCodec_RoundTrip(t *testing.T) {
	payload := bytes.Repeat([]byte("BINP\x20\x00\x00\x00some chain bytes "), 500)

	for _, c := range []Codec{None, Zstd, Gzip} {
		t.Run("ext="+c.Extension(), func(t *testing.T) {
			var buf bytes.Buffer
			w, err := c.Writer(&buf)
			if err != nil {
				t.Fatalf("Writer: %v", err)
			}
			if _, err := w.Write(payload); err != nil {
				t.Fatalf("Write: %v", err)
			}
			if err := w.Close(); err != nil {
				t.Fatalf("Close: %v", err)
			}
			if c != None && buf.Len() >= len(payload) {
				t.Errorf("compressed size %d is not below %d", buf.Len(), len(payload))
			}

			r, err := c.Reader(&buf)
			if err != nil {
				t.Fatalf("Reader: %v", err)
			}
			defer r.Close()
			got, err := io.ReadAll(r)
			if err != nil {
				t.Fatalf("ReadAll: %v", err)
			}
			if !bytes.Equal(got, payload) {
				t.Errorf("round trip mismatch: got %d bytes, want %d", len(got), len(payload))
			}
		})
	}
}
