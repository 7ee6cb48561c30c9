// Author: momentics <momentics@gmail.com>
// SPDX-License-Identifier: MIT

// Package logging provides the single shared logger used across this
// module's packages, following the teacher's convention of one process-wide
// facility rather than per-package loggers.
package logging

import "github.com/sirupsen/logrus"

var log = logrus.New()

// L returns the shared logger. Call sites add fields for the values that
// matter at that point (fd, remote, method, path) rather than formatting
// ad-hoc strings.
func L() logrus.FieldLogger {
	return log
}

// SetLevel adjusts verbosity; exposed for embedding applications and tests.
func SetLevel(level logrus.Level) {
	log.SetLevel(level)
}
