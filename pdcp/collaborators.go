// Copyright 2019-2021 hhorai. All rights reserved.
// Use of this source code is governed by a MIT license that can be found
// in the LICENSE file.

package pdcp

import "time"

// TXPDU is what gets handed down to RLC: the protected bytes plus the
// COUNT, present only for DRBs (§4.1 step 7).
type TXPDU struct {
	Buf       []byte
	PDCPCount uint32
	HasCount  bool
}

// UpperControlNotifier is the RRC/control-plane collaborator that learns
// about COUNT threshold crossings (§4.7).
type UpperControlNotifier interface {
	OnProtocolFailure()
	OnMaxCountReached()
}

// LowerDataNotifier is the RLC-facing collaborator that receives protected
// PDUs and discard instructions (§4.7).
type LowerDataNotifier interface {
	OnNewPDU(pdu TXPDU)
	OnDiscardPDU(count uint32)
}

// StatusProvider compiles the locally-held receive state into a PDCP
// status-report control PDU (§4.6, §6).
type StatusProvider interface {
	CompileStatusReport() []byte
}

// Timer is a single-shot handle returned by TimerService.Set.
type Timer interface {
	// Stop cancels the timer; a no-op if it already fired or was
	// already stopped.
	Stop()
}

// TimerService creates one-shot, millisecond-granularity timers (§4.7).
// Implementations must invoke callback on the same logical executor the
// rest of the entity's entrypoints run on (§5).
type TimerService interface {
	Set(d time.Duration, callback func()) Timer
}
