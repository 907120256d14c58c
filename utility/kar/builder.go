// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package kar

import (
	"bytes"
	"fmt"
	"io"
	"sync"

	"github.com/pierrec/lz4"
)

// NewBuilder creates a new Builder. Do not fill the Index in
// the header, it will be overwritten anyway.
func NewBuilder(header Header) *Builder {
	return &Builder{
		header: header,
	}
}

type compressedFile struct {
	Name string
	Size int64
	Data []byte
}

// Builder is the high level builder for the archive format.
// Arhives are versioned and cannot be appended to, this Builder
// is the way to create an archive. Whenever Add is called the file
// is compressed right away and kept until WriteTo bundles everything
// together.
type Builder struct {
	header Header

	mutex sync.Mutex
	files []compressedFile
}

// Add appends data read from r to the builder with a given name.
// Will block until lz4 finishes compression. Is safe
// to use concurrently in different goroutines.
func (b *Builder) Add(name string, r io.Reader) error {
	var compressed bytes.Buffer
	writer := lz4.NewWriter(&compressed)
	written, err := io.Copy(writer, r)
	if err != nil {
		return err
	}
	if err := writer.Close(); err != nil {
		return err
	}

	b.mutex.Lock()
	defer b.mutex.Unlock()
	for _, f := range b.files {
		if f.Name == name {
			return fmt.Errorf("%s: %w", name, ErrDuplicate)
		}
	}
	b.files = append(b.files, compressedFile{
		Name: name,
		Size: written,
		Data: compressed.Bytes(),
	})
	return nil
}

// Len returns the number of files added so far.
func (b *Builder) Len() int {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	return len(b.files)
}

// WriteTo bundles and writes all of the files added to the Builder
// into a kar archive that is ready to use. The builder is empty
// afterwards.
func (b *Builder) WriteTo(w io.Writer) (int64, error) {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	header := b.header
	header.Index = nil
	var offset int64
	for _, f := range b.files {
		header.Index = append(header.Index, IndexEntry{
			Name:           f.Name,
			Size:           f.Size,
			CompressedSize: int64(len(f.Data)),
			Offset:         offset,
		})
		offset += int64(len(f.Data))
	}

	rawHeader, err := gobEncode(header)
	if err != nil {
		return 0, err
	}

	var total int64
	chunks := [][]byte{magic[:], int64ToBinary(int64(len(rawHeader))), rawHeader}
	for _, f := range b.files {
		chunks = append(chunks, f.Data)
	}
	for _, chunk := range chunks {
		n, err := w.Write(chunk)
		total += int64(n)
		if err != nil {
			return total, err
		}
	}

	b.files = b.files[:0]
	return total, nil
}
