package zstdcodec

import (
	"bytes"
	"io"
	"testing"
)

func TestCodec_Extension(t *testing.T) {
	if got := New().Extension(); got != "zst" {
		t.Errorf("Extension() = %q, want %q", got, "zst")
	}
}

func TestCodec_RoundTrip(t *testing.T) {
	c := New()
	original := []byte("1. f3 e5 2. g4 Qh4# 0-1\n")

	var compressed bytes.Buffer
	writer, err := c.Writer(&compressed)
	if err != nil {
		t.Fatalf("Writer() error = %v", err)
	}
	if _, err := writer.Write(original); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	reader, err := c.Reader(&compressed)
	if err != nil {
		t.Fatalf("Reader() error = %v", err)
	}
	decompressed, err := io.ReadAll(reader)
	if err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}
	if err := reader.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	if !bytes.Equal(decompressed, original) {
		t.Errorf("round trip = %q, want %q", decompressed, original)
	}
}

func TestCodec_Reader_InvalidData(t *testing.T) {
	c := New()
	reader, err := c.Reader(bytes.NewReader([]byte("not zstd data")))
	if err != nil {
		return // rejected at open, also fine
	}
	if _, err := io.ReadAll(reader); err == nil {
		t.Error("ReadAll() error = nil, want error for invalid zstd data")
	}
}
