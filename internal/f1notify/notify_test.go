// Copyright 2019-2021 hhorai. All rights reserved.
// Use of this source code is governed by a MIT license that can be found
// in the LICENSE file.

package f1notify

import (
	"net"
	"testing"
	"time"

	"github.com/ishidawataru/sctp"
)

// startEchoListener brings up a local SCTP listener that accepts a single
// association and records every byte it receives, mirroring the way
// cmd/gnbsim_sctp.go's tests exercised the N2 association against a local
// peer rather than a real AMF.
func startEchoListener(t *testing.T) (port int, received chan byte) {
	t.Helper()
	ln, err := sctp.ListenSCTP("sctp", &sctp.SCTPAddr{Port: 0})
	if err != nil {
		t.Skipf("sctp not available in this environment: %v", err)
	}
	received = make(chan byte, 8)
	port = ln.Addr().(*sctp.SCTPAddr).Port

	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		buf := make([]byte, 16)
		for {
			n, _, err := conn.(*sctp.SCTPConn).SCTPRead(buf)
			if err != nil || n == 0 {
				return
			}
			received <- buf[0]
		}
	}()

	t.Cleanup(func() { ln.Close() })
	return port, received
}

func TestNotifierSendsMaxCountCause(t *testing.T) {
	port, received := startEchoListener(t)

	n, err := Dial(net.IPAddr{IP: net.ParseIP("127.0.0.1")}, port, nil)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer n.Close()

	n.OnMaxCountReached()

	select {
	case got := <-received:
		if got != CauseMaxCountReached {
			t.Errorf("got cause %#x, want %#x", got, CauseMaxCountReached)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for notification")
	}
}

func TestNotifierSendsProtocolFailureCause(t *testing.T) {
	port, received := startEchoListener(t)

	n, err := Dial(net.IPAddr{IP: net.ParseIP("127.0.0.1")}, port, nil)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer n.Close()

	n.OnProtocolFailure()

	select {
	case got := <-received:
		if got != CauseProtocolFailure {
			t.Errorf("got cause %#x, want %#x", got, CauseProtocolFailure)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for notification")
	}
}

func TestDialTimesOutAgainstUnreachablePeer(t *testing.T) {
	// TEST-NET-1 address with nothing listening; exercises the
	// time.After race in Dial without depending on network flakiness
	// of an external host.
	start := time.Now()
	_, err := Dial(net.IPAddr{IP: net.ParseIP("192.0.2.1")}, 9999, nil)
	if err == nil {
		t.Fatal("expected error dialing unreachable peer")
	}
	if elapsed := time.Since(start); elapsed > dialTimeout+time.Second {
		t.Errorf("Dial took %s, want roughly dialTimeout (%s)", elapsed, dialTimeout)
	}
}
