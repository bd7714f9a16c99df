// Copyright 2019-2021 hhorai. All rights reserved.
// Use of this source code is governed by a MIT license that can be found
// in the LICENSE file.

package pdcp

import "time"

// fakeUpperCN records notifier calls for assertion.
type fakeUpperCN struct {
	protocolFailures int
	maxCountReached  int
}

func (f *fakeUpperCN) OnProtocolFailure() { f.protocolFailures++ }
func (f *fakeUpperCN) OnMaxCountReached() { f.maxCountReached++ }

// fakeLowerDN records every PDU/discard notification handed down.
type fakeLowerDN struct {
	pdus     []TXPDU
	discards []uint32
}

func (f *fakeLowerDN) OnNewPDU(pdu TXPDU)        { f.pdus = append(f.pdus, pdu) }
func (f *fakeLowerDN) OnDiscardPDU(count uint32) { f.discards = append(f.discards, count) }

// fakeStatusProvider returns a canned status-report PDU.
type fakeStatusProvider struct {
	pdu []byte
}

func (f *fakeStatusProvider) CompileStatusReport() []byte { return f.pdu }

// fakeTimer is a no-op Timer; fakeTimerService never fires callbacks on
// its own, tests trigger onDiscardTimeout directly when they need to
// exercise timer-expiry behaviour.
type fakeTimer struct {
	stopped bool
}

func (t *fakeTimer) Stop() { t.stopped = true }

// fakeTimerService hands out fakeTimers and records every Set call so
// tests can assert discard-arm behaviour without real wall-clock waits.
type fakeTimerService struct {
	sets []struct {
		d  time.Duration
		cb func()
	}
}

func (f *fakeTimerService) Set(d time.Duration, callback func()) Timer {
	f.sets = append(f.sets, struct {
		d  time.Duration
		cb func()
	}{d, callback})
	return &fakeTimer{}
}

func testSecurityConfig() SecurityConfig {
	return SecurityConfig{
		IntegAlgo:        NIA0,
		CipherAlgo:       NEA0,
		IntegrityEnabled: false,
		CipheringEnabled: false,
	}
}

func newTestEntity(cfg Config, sec SecurityConfig) (*Entity, *fakeUpperCN, *fakeLowerDN, *fakeTimerService) {
	upper := &fakeUpperCN{}
	lower := &fakeLowerDN{}
	timers := &fakeTimerService{}
	e, err := NewEntity(cfg, sec, upper, lower, &fakeStatusProvider{}, timers, nil)
	if err != nil {
		panic(err)
	}
	return e, upper, lower, timers
}
