/*
Copyright © 2025 Dataflux Authors
SPDX-License-Identifier: Apache-2.0
*/

package deployer

import (
	"fmt"
	"os"

	"github.com/dataflux/nodedeploy/pkg/errors"
)

// SummaryFileEnvVar names the CI step-summary file the summary sink
// appends to, following the GitHub Actions convention.
const SummaryFileEnvVar = "GITHUB_STEP_SUMMARY"

// SummarySink appends timestamped event lines to a CI step-summary
// file. Failures to write are reported on Close rather than failing
// the deployment.
type SummarySink struct {
	f        *os.File
	writeErr error
}

// NewSummarySink opens (or creates) the summary file at path in append
// mode.
func NewSummarySink(path string) (*SummarySink, error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeConfiguration,
			fmt.Sprintf("failed to open summary file %s", path), err)
	}
	return &SummarySink{f: f}, nil
}

// Emit implements EventSink.
func (s *SummarySink) Emit(e Event) {
	line := fmt.Sprintf("%s %s: %s\n",
		e.Time.UTC().Format("2006-01-02 15:04:05"),
		e.Level.String(),
		e.Message,
	)
	if _, err := s.f.WriteString(line); err != nil && s.writeErr == nil {
		s.writeErr = err
	}
}

// Close implements Closer, surfacing any deferred write error.
func (s *SummarySink) Close() error {
	if err := s.f.Close(); err != nil {
		return err
	}
	return s.writeErr
}
