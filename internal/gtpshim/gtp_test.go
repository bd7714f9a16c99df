// Copyright 2019-2021 hhorai. All rights reserved.
// Use of this source code is governed by a MIT license that can be found
// in the LICENSE file.

package gtpshim

import (
	"bytes"
	"net"
	"testing"

	"github.com/hhorai/gnbpdcp/pdcp"
)

func TestEncapsulateDecapsulateRoundTrip(t *testing.T) {
	tun, err := NewTunnel(net.ParseIP("127.0.0.1"), 0x11111111, 0x22222222, nil, nil)
	if err != nil {
		t.Fatalf("NewTunnel: %v", err)
	}
	defer tun.Close()

	raw := []byte{0x80, 0x00, 0xAA, 0xBB}
	encapsulated := tun.encapsulate(raw)

	if len(encapsulated) != 8+len(raw) {
		t.Fatalf("encapsulated length = %d, want %d", len(encapsulated), 8+len(raw))
	}

	got, err := decapsulate(encapsulated)
	if err != nil {
		t.Fatalf("decapsulate: %v", err)
	}
	if !bytes.Equal(got, raw) {
		t.Errorf("got % x, want % x", got, raw)
	}
}

func TestOnNewPDUWritesWithoutError(t *testing.T) {
	var gotErr error
	tun, err := NewTunnel(net.ParseIP("127.0.0.1"), 1, 2, nil, func(e error) { gotErr = e })
	if err != nil {
		t.Fatalf("NewTunnel: %v", err)
	}
	defer tun.Close()

	tun.OnNewPDU(pdcp.TXPDU{Buf: []byte{0x01, 0x02}})
	if gotErr != nil {
		t.Errorf("unexpected write error: %v", gotErr)
	}
}

func TestOnDiscardPDUInvokesCallback(t *testing.T) {
	var got uint32
	tun, err := NewTunnel(net.ParseIP("127.0.0.1"), 1, 2, func(c uint32) { got = c }, nil)
	if err != nil {
		t.Fatalf("NewTunnel: %v", err)
	}
	defer tun.Close()

	tun.OnDiscardPDU(42)
	if got != 42 {
		t.Errorf("got %d, want 42", got)
	}
}
