/*
Copyright © 2025 Dataflux Authors
SPDX-License-Identifier: Apache-2.0
*/

package packager

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/dataflux/nodedeploy/pkg/errors"
)

// whitelistSet holds the relative paths permitted to enter the bundle.
type whitelistSet map[string]struct{}

func (s whitelistSet) contains(relPath string) bool {
	_, ok := s[relPath]
	return ok
}

// loadWhitelist reads the whitelist file at path: one relative path per
// line, whitespace trimmed, blank lines skipped. Lines naming paths that
// do not exist under sourceDir are dropped. An absent whitelist file
// yields an empty set, not an error.
func loadWhitelist(sourceDir, path string) (whitelistSet, error) {
	set := make(whitelistSet)

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			slog.Warn("whitelist file not found, bundle will be empty of whitelisted entries", "path", path)
			return set, nil
		}
		return nil, errors.Wrap(errors.ErrCodePackaging,
			fmt.Sprintf("failed to open whitelist %s", path), err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if _, err := os.Stat(filepath.Join(sourceDir, filepath.FromSlash(line))); err != nil {
			slog.Debug("skipping whitelist entry, file not found", "entry", line)
			continue
		}
		set[line] = struct{}{}
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodePackaging,
			fmt.Sprintf("failed to read whitelist %s", path), err)
	}

	return set, nil
}
