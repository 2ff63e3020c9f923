/*
Copyright © 2025 Dataflux Authors
SPDX-License-Identifier: Apache-2.0
*/

package packager

import (
	stderrors "errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/dataflux/nodedeploy/pkg/errors"
)

// Defaults for the fixed locations and naming rules the node expects.
const (
	// DefaultMetadataFile is the optional root-level metadata file.
	DefaultMetadataFile = "node-metadata.conf.json"
	// DefaultConfigSuffix selects deployable files inside pipes/systems dirs.
	DefaultConfigSuffix = "conf.json"
	// DefaultWhitelistPath is the whitelist location under the config root.
	DefaultWhitelistPath = "deployment/whitelist.txt"
)

// configDirs are the directory base names whose immediate files are
// bundle candidates.
var configDirs = map[string]bool{
	"pipes":   true,
	"systems": true,
}

// Packager builds deployable bundles from a configuration directory
// tree, applying optional whitelist filtering. Whitelisting only ever
// narrows the candidate set matched by the suffix/location rule.
type Packager struct {
	useWhitelist  bool
	metadataFile  string
	configSuffix  string
	whitelistPath string
}

// Option configures a Packager.
type Option func(*Packager)

// WithWhitelist enables whitelist filtering.
func WithWhitelist(enabled bool) Option {
	return func(p *Packager) {
		p.useWhitelist = enabled
	}
}

// WithMetadataFile overrides the root-level metadata file name.
func WithMetadataFile(name string) Option {
	return func(p *Packager) {
		if name != "" {
			p.metadataFile = name
		}
	}
}

// WithConfigSuffix overrides the config file suffix.
func WithConfigSuffix(suffix string) Option {
	return func(p *Packager) {
		if suffix != "" {
			p.configSuffix = suffix
		}
	}
}

// WithWhitelistPath overrides the whitelist file location relative to
// the configuration root.
func WithWhitelistPath(path string) Option {
	return func(p *Packager) {
		if path != "" {
			p.whitelistPath = path
		}
	}
}

// New creates a Packager with the given options.
func New(opts ...Option) *Packager {
	p := &Packager{
		metadataFile:  DefaultMetadataFile,
		configSuffix:  DefaultConfigSuffix,
		whitelistPath: DefaultWhitelistPath,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Build packages the configuration tree rooted at sourceDir into a
// bundle. A file is included iff it resides directly in a pipes or
// systems directory, its name ends with the config suffix, and the
// whitelist (when enabled) lists its relative path. The root metadata
// file is considered under the same whitelist rule.
//
// Any I/O failure aborts packaging; the returned error carries a
// PACKAGING code and the result must not be treated as a usable bundle.
func (p *Packager) Build(sourceDir string) (*Bundle, error) {
	if _, err := os.Stat(sourceDir); err != nil {
		return nil, errors.Wrap(errors.ErrCodePackaging,
			fmt.Sprintf("config folder %s not accessible", sourceDir), err)
	}

	var allowed whitelistSet
	if p.useWhitelist {
		path := filepath.Join(sourceDir, filepath.FromSlash(p.whitelistPath))
		slog.Info("building bundle with whitelist", "whitelist", path)

		var err error
		allowed, err = loadWhitelist(sourceDir, path)
		if err != nil {
			return nil, err
		}
	}

	bundle := NewBundle()

	// The root metadata file sits outside pipes/systems but ships with
	// the bundle when present.
	metadataPath := filepath.Join(sourceDir, p.metadataFile)
	if _, err := os.Stat(metadataPath); err == nil {
		if !p.useWhitelist || allowed.contains(p.metadataFile) {
			if err := p.addFile(bundle, sourceDir, metadataPath); err != nil {
				return nil, err
			}
		}
	} else if !os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodePackaging,
			fmt.Sprintf("failed to stat %s", metadataPath), err)
	}

	err := filepath.WalkDir(sourceDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), p.configSuffix) {
			return nil
		}
		if !configDirs[filepath.Base(filepath.Dir(path))] {
			return nil
		}
		if p.useWhitelist {
			rel, relErr := filepath.Rel(sourceDir, path)
			if relErr != nil {
				return relErr
			}
			if !allowed.contains(filepath.ToSlash(rel)) {
				return nil
			}
		}
		return p.addFile(bundle, sourceDir, path)
	})
	if err != nil {
		var se *errors.StructuredError
		if stderrors.As(err, &se) {
			return nil, se
		}
		return nil, errors.Wrap(errors.ErrCodePackaging,
			fmt.Sprintf("failed to traverse config folder %s", sourceDir), err)
	}

	slog.Info("bundle packaged",
		"folder", sourceDir,
		"entries", bundle.Len(),
		"whitelist", p.useWhitelist,
	)

	return bundle, nil
}

// addFile reads a file and records it under its slash-separated path
// relative to sourceDir.
func (p *Packager) addFile(bundle *Bundle, sourceDir, path string) error {
	rel, err := filepath.Rel(sourceDir, path)
	if err != nil {
		return errors.Wrap(errors.ErrCodePackaging,
			fmt.Sprintf("failed to resolve relative path for %s", path), err)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrap(errors.ErrCodePackaging,
			fmt.Sprintf("failed to read %s", path), err)
	}

	relPath := filepath.ToSlash(rel)
	if err := bundle.Add(relPath, content); err != nil {
		return err
	}

	slog.Debug("added bundle entry", "path", relPath, "size_bytes", len(content))
	return nil
}
