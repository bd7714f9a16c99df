// Copyright 2019-2021 hhorai. All rights reserved.
// Use of this source code is governed by a MIT license that can be found
// in the LICENSE file.

package pdcp

import "time"

// msDuration converts a DiscardTimer enum value into a time.Duration; it
// must only be called once disabled() has already been checked.
func msDuration(d DiscardTimer) time.Duration {
	return time.Duration(d) * time.Millisecond
}

// realTimerService is the production TimerService: one time.AfterFunc per
// armed discard timer, matching the select/time.After style
// cmd/gnbsim_sctp.go used for its own SCTP read/dial timeouts, generalised
// into a reusable collaborator instead of inlined per call site.
type realTimerService struct{}

// NewRealTimerService returns a TimerService backed by time.AfterFunc.
func NewRealTimerService() TimerService {
	return realTimerService{}
}

type stdTimer struct {
	t *time.Timer
}

func (s stdTimer) Stop() {
	s.t.Stop()
}

func (realTimerService) Set(d time.Duration, callback func()) Timer {
	return stdTimer{t: time.AfterFunc(d, callback)}
}
