// Copyright 2019-2021 hhorai. All rights reserved.
// Use of this source code is governed by a MIT license that can be found
// in the LICENSE file.

// Package f1notify is a demonstrator upper_cn (pdcp.UpperControlNotifier)
// collaborator: it forwards PDCP COUNT threshold crossings to the CU-CP
// over an F1AP-style SCTP association, standing in for the "MAC/F1AP/E1AP
// glue" spec.md §1 names as an external collaborator rather than part of
// the PDCP TX core. The association setup and timeout pattern (dial in a
// goroutine, race against time.After on a channel) is adapted from
// cmd/gnbsim_sctp.go's newN2Conn/send, which did the same thing for the
// gNB's N1/N2 (NGAP) association toward the AMF; this reuses the pattern
// for a different association and a one-byte cause code instead of a full
// NGAP PDU.
package f1notify

import (
	"fmt"
	"net"
	"time"

	"github.com/ishidawataru/sctp"
)

const dialTimeout = 5 * time.Second

// Cause codes carried in the single-byte notification payload.
const (
	CauseMaxCountReached byte = 0x01
	CauseProtocolFailure byte = 0x02
)

// Notifier implements pdcp.UpperControlNotifier by shipping a one-byte
// cause code over an SCTP association toward the CU-CP.
type Notifier struct {
	conn *sctp.SCTPConn
	info *sctp.SndRcvInfo

	onError func(error)
}

// Dial establishes the SCTP association toward the CU-CP at cuAddr:port,
// mirroring cmd/gnbsim_sctp.go's newN2Conn dial-with-timeout shape.
func Dial(cuAddr net.IPAddr, port int, onError func(error)) (*Notifier, error) {
	addr := &sctp.SCTPAddr{
		IPAddrs: []net.IPAddr{cuAddr},
		Port:    port,
	}

	type result struct {
		conn *sctp.SCTPConn
		err  error
	}
	c := make(chan result, 1)
	go func() {
		conn, err := sctp.DialSCTP("sctp", nil, addr)
		c <- result{conn, err}
	}()

	select {
	case r := <-c:
		if r.err != nil {
			return nil, fmt.Errorf("f1notify: sctp dial failed: %w", r.err)
		}
		r.conn.SubscribeEvents(sctp.SCTP_EVENT_DATA_IO)
		return &Notifier{
			conn: r.conn,
			info: &sctp.SndRcvInfo{
				Stream: 0,
				PPID:   0x3e000000, // payload protocol identifier: F1AP
			},
			onError: onError,
		}, nil
	case <-time.After(dialTimeout):
		return nil, fmt.Errorf("f1notify: sctp dial timeout (%s)", dialTimeout)
	}
}

func (n *Notifier) send(cause byte) {
	_, err := n.conn.SCTPWrite([]byte{cause}, n.info)
	if err != nil && n.onError != nil {
		n.onError(fmt.Errorf("f1notify: sctp send failed: %w", err))
	}
}

// OnMaxCountReached implements pdcp.UpperControlNotifier (§4.1 soft
// notification path).
func (n *Notifier) OnMaxCountReached() {
	n.send(CauseMaxCountReached)
}

// OnProtocolFailure implements pdcp.UpperControlNotifier (§4.1 hard
// refusal path).
func (n *Notifier) OnProtocolFailure() {
	n.send(CauseProtocolFailure)
}

// Close tears down the SCTP association.
func (n *Notifier) Close() error {
	return n.conn.Close()
}
