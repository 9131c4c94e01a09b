package gzipcodec

import (
	"bytes"
	"io"
	"testing"
)

func TestCodec_Extension(t *testing.T) {
	if got := New().Extension(); got != "gz" {
		t.Errorf("Extension() = %q, want %q", got, "gz")
	}
}

func TestCodec_RoundTrip(t *testing.T) {
	c := New()
	original := []byte("1. e4 e5 2. Qh5 Nc6 3. Bc4 Nf6 4. Qxf7# 1-0\n")

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

func TestCodec_CompressesRepetitiveData(t *testing.T) {
	c := New()
	original := bytes.Repeat([]byte("1. e4 e5 1/2-1/2\n"), 10000)

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

	if compressed.Len() >= len(original) {
		t.Errorf("compressed to %d bytes from %d, want smaller", compressed.Len(), len(original))
	}
}

func TestCodec_Reader_InvalidData(t *testing.T) {
	c := New()
	if _, err := c.Reader(bytes.NewReader([]byte("not gzip data"))); err == nil {
		t.Error("Reader() error = nil, want error for invalid gzip data")
	}
}
