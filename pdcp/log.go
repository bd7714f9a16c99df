// Copyright 2019-2021 hhorai. All rights reserved.
// Use of this source code is governed by a MIT license that can be found
// in the LICENSE file.

package pdcp

import "github.com/sirupsen/logrus"

// newEntryLogger returns the per-entity logrus.Entry every log call in
// this package is routed through, pre-populated with the fields a reader
// needs to pick a bearer out of a multi-UE gNB log stream.
func newEntryLogger(logger *logrus.Logger, bearerID string, kind BearerKind, dir Direction) *logrus.Entry {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	dirStr := "uplink"
	if dir == Downlink {
		dirStr = "downlink"
	}
	return logger.WithFields(logrus.Fields{
		"bearer_id": bearerID,
		"kind":      kind.String(),
		"direction": dirStr,
	})
}
