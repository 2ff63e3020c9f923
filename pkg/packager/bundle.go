/*
Copyright © 2025 Dataflux Authors
SPDX-License-Identifier: Apache-2.0
*/

package packager

import (
	"archive/zip"
	"bytes"
	"fmt"

	"github.com/dataflux/nodedeploy/pkg/errors"
)

// Entry is a single bundle member: a slash-separated path relative to
// the configuration root plus its content.
type Entry struct {
	Path    string
	Content []byte
}

// Bundle is the deployable configuration payload: an ordered collection
// of entries with unique relative paths.
type Bundle struct {
	entries []Entry
	seen    map[string]struct{}
}

// NewBundle creates an empty bundle.
func NewBundle() *Bundle {
	return &Bundle{
		seen: make(map[string]struct{}),
	}
}

// Add appends an entry, rejecting duplicate paths.
func (b *Bundle) Add(path string, content []byte) error {
	if _, ok := b.seen[path]; ok {
		return errors.New(errors.ErrCodePackaging,
			fmt.Sprintf("duplicate bundle entry: %s", path))
	}
	b.seen[path] = struct{}{}
	b.entries = append(b.entries, Entry{Path: path, Content: content})
	return nil
}

// Len returns the number of entries in the bundle.
func (b *Bundle) Len() int {
	return len(b.entries)
}

// Paths returns the entry paths in insertion order.
func (b *Bundle) Paths() []string {
	paths := make([]string, 0, len(b.entries))
	for _, e := range b.entries {
		paths = append(paths, e.Path)
	}
	return paths
}

// Entries returns the entries in insertion order.
func (b *Bundle) Entries() []Entry {
	return b.entries
}

// Bytes renders the bundle as a zip archive. Entry names are the
// relative paths recorded at Add time.
func (b *Bundle) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	for _, e := range b.entries {
		w, err := zw.Create(e.Path)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodePackaging,
				fmt.Sprintf("failed to create archive entry %s", e.Path), err)
		}
		if _, err := w.Write(e.Content); err != nil {
			return nil, errors.Wrap(errors.ErrCodePackaging,
				fmt.Sprintf("failed to write archive entry %s", e.Path), err)
		}
	}

	if err := zw.Close(); err != nil {
		return nil, errors.Wrap(errors.ErrCodePackaging,
			"failed to finalize archive", err)
	}
	return buf.Bytes(), nil
}
