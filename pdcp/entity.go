// Copyright 2019-2021 hhorai. All rights reserved.
// Use of this source code is governed by a MIT license that can be found
// in the LICENSE file.

package pdcp

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// Entity is a single PDCP transmit entity: one instance per radio bearer
// per user (§2). All of its entrypoints are meant to run on a single
// logical scheduler (§5); the entity holds no internal locks.
type Entity struct {
	cfg Config
	sec SecurityConfig

	upperCN        UpperControlNotifier
	lowerDN        LowerDataNotifier
	statusProvider StatusProvider
	timers         TimerService

	log     *logrus.Entry
	metrics *metrics

	// TX state (§3).
	txNext      uint32
	notifySent  bool
	hardStopped bool

	discard *discardMap
}

// NewEntity constructs a PDCP TX entity. Collaborators are bound once and
// never change for the entity's lifetime (§5); a rekey requires Rekey, a
// full re-establishment requires constructing a fresh Entity.
func NewEntity(
	cfg Config,
	sec SecurityConfig,
	upperCN UpperControlNotifier,
	lowerDN LowerDataNotifier,
	statusProvider StatusProvider,
	timers TimerService,
	logger *logrus.Logger,
) (*Entity, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	bearerID := fmt.Sprintf("lcid%d", cfg.LCID)
	e := &Entity{
		cfg:            cfg,
		sec:            sec,
		upperCN:        upperCN,
		lowerDN:        lowerDN,
		statusProvider: statusProvider,
		timers:         timers,
		log:            newEntryLogger(logger, bearerID, cfg.BearerKind, cfg.Direction),
		metrics:        newMetrics(bearerID, cfg.Direction),
		txNext:         cfg.InitialTXNext,
		discard:        newDiscardMap(),
	}
	return e, nil
}

// Metrics returns the entity's prometheus.Collector for the caller to
// register (§4's "Metrics & logging hooks" component).
func (e *Entity) Metrics() *metrics { return e.metrics }

// TXNext returns the current value of TX_NEXT, for tests and operational
// introspection.
func (e *Entity) TXNext() uint32 { return e.txNext }

// PendingCount is the number of COUNTs currently tracked by the discard
// map (SPEC_FULL.md §[SUPPLEMENT] 4: operational visibility).
func (e *Entity) PendingCount() int { return e.discard.len() }

// HandleSDU is the transmit entry point (§4.1). SDUs are processed in
// arrival order; the caller is responsible for not reordering them.
func (e *Entity) HandleSDU(sdu []byte) error {
	e.metrics.onSDU(len(sdu))

	if e.txNext >= e.cfg.MaxCount.Hard {
		if !e.hardStopped {
			e.log.WithField("tx_next", e.txNext).Error("pdcp: COUNT reached hard limit, refusing further SDUs")
			e.upperCN.OnProtocolFailure()
			e.metrics.onProtocolFailure()
			e.hardStopped = true
		}
		return nil
	}

	if e.txNext >= e.cfg.MaxCount.Notify {
		if !e.notifySent {
			e.log.WithField("tx_next", e.txNext).Warn("pdcp: COUNT reached soft notify threshold")
			e.upperCN.OnMaxCountReached()
			e.metrics.onMaxCountReached()
			e.notifySent = true
		}
	}

	sn := e.txNext % (1 << uint(e.cfg.SNSize))
	header, err := encodeHeader(e.cfg.BearerKind, e.cfg.SNSize, sn)
	if err != nil {
		e.log.WithError(err).Error("pdcp: failed to encode header, dropping SDU")
		return err
	}

	count := e.txNext
	pdu, err := protect(e.cfg, e.sec, header, sdu, count)
	if err != nil {
		e.log.WithError(err).Error("pdcp: security pipeline failed, dropping SDU")
		return err
	}

	e.armDiscard(count, pdu)

	hasCount := e.cfg.BearerKind == DRB
	e.lowerDN.OnNewPDU(TXPDU{Buf: pdu, PDCPCount: count, HasCount: hasCount})
	e.metrics.onPDU()

	e.txNext++
	return nil
}

// armDiscard arms the per-PDU discard timer if one is configured (§4.4).
func (e *Entity) armDiscard(count uint32, pdu []byte) {
	if e.cfg.DiscardTimer.disabled() {
		return
	}

	var cached []byte
	if e.cfg.cachesPDUs() {
		cached = append([]byte(nil), pdu...)
	}

	var t Timer
	t = e.timers.Set(msDuration(e.cfg.DiscardTimer), func() {
		e.onDiscardTimeout(count)
	})
	e.discard.insert(count, cached, t)
}

// onDiscardTimeout is the discard-timer callback (§4.4). Erasing the map
// entry must be the last action: it destroys the timer handle that is
// this very callback's own storage.
func (e *Entity) onDiscardTimeout(count uint32) {
	e.log.WithField("count", count).Debug("pdcp: discard timer expired")
	e.lowerDN.OnDiscardPDU(count)
	e.metrics.onDiscardTimeout()
	e.discard.erase(count)
}

// HandleStatusReport decodes an incoming status-report control PDU and
// prunes the discard map (§4.5). Malformed input is logged and ignored;
// state is never mutated on a parse failure.
func (e *Entity) HandleStatusReport(pdu []byte) error {
	report, err := parseStatusReport(pdu)
	if err != nil {
		e.log.WithError(err).Warn("pdcp: dropping malformed status report")
		return err
	}
	e.metrics.onStatusReportRx()

	for _, count := range e.discard.eraseBelow(report.fmc) {
		e.lowerDN.OnDiscardPDU(count)
	}
	for _, count := range report.acknowledgedCounts() {
		if e.discard.eraseIfPresent(count) {
			e.lowerDN.OnDiscardPDU(count)
		}
	}
	return nil
}

// SendStatusReport compiles and ships a status report, if configured
// (§4.6). A no-op, logged, if status_report_required is false.
func (e *Entity) SendStatusReport() {
	if !e.cfg.StatusReportRequired {
		e.log.Debug("pdcp: send_status_report called without status_report_required, ignoring")
		return
	}
	pdu := e.statusProvider.CompileStatusReport()
	e.lowerDN.OnNewPDU(TXPDU{Buf: pdu})
	e.metrics.onStatusReportTx()
}

// DataRecovery re-delivers cached PDUs for data recovery (§4.6). Valid
// only for AM DRBs; any other caller is a programming error (§7) and
// must fault fast rather than silently doing nothing.
func (e *Entity) DataRecovery() {
	if !e.cfg.cachesPDUs() {
		panic("pdcp: data_recovery called on a bearer that is not an AM DRB")
	}

	if e.cfg.StatusReportRequired {
		e.SendStatusReport()
	}

	for _, count := range e.discard.ascending() {
		cached, ok := e.discard.cachedPDU(count)
		if !ok || cached == nil {
			continue
		}
		e.lowerDN.OnNewPDU(TXPDU{Buf: cached, PDCPCount: count, HasCount: true})
	}
}

// Rekey replaces the security configuration and clears the soft-notify
// latch (SPEC_FULL.md §[SUPPLEMENT] 2). TX_NEXT and hard_stopped are left
// untouched: a rekey changes keys, not the COUNT sequence, and once an
// entity has hard-refused it stays refused for its lifetime (§3 invariant
// 2).
func (e *Entity) Rekey(sec SecurityConfig) {
	e.sec = sec
	e.notifySent = false
}

// Close tears the bearer down: cancels every live discard timer and empties
// the map (§3).
func (e *Entity) Close() {
	e.discard.clear()
}
