// Package container implements the append-only ZIP sink the epub package
// streams into.
package container

import (
	"archive/zip"
	"fmt"
	"io"

	"github.com/yuanying/narou2epub/internal/epub"
)

// Writer writes named entries to a ZIP stream in the order they are added.
// It satisfies epub.ContainerWriter.
type Writer struct {
	zw *zip.Writer
}

// NewWriter creates a Writer over out. The stream is only valid once Flush
// has returned without error; a partially written stream should be
// discarded.
func NewWriter(out io.Writer) *Writer {
	return &Writer{zw: zip.NewWriter(out)}
}

// AddEntry appends one named entry. Store writes the body uncompressed,
// which the EPUB mimetype entry requires so readers can sniff it at a
// fixed offset.
func (w *Writer) AddEntry(name string, body []byte, c epub.Compression) error {
	method := zip.Deflate
	if c == epub.Store {
		method = zip.Store
	}

	f, err := w.zw.CreateHeader(&zip.FileHeader{
		Name:   name,
		Method: method,
	})
	if err != nil {
		return fmt.Errorf("failed to create entry %s: %w", name, err)
	}
	if _, err := f.Write(body); err != nil {
		return fmt.Errorf("failed to write entry %s: %w", name, err)
	}
	return nil
}

// Flush writes the central directory and finalizes the stream. No entries
// may be added afterwards.
func (w *Writer) Flush() error {
	if err := w.zw.Close(); err != nil {
		return fmt.Errorf("failed to finalize container: %w", err)
	}
	return nil
}
