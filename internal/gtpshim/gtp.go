// Copyright 2019-2021 hhorai. All rights reserved.
// Use of this source code is governed by a MIT license that can be found
// in the LICENSE file.

// Package gtpshim is a demonstrator lower_dn (pdcp.LowerDataNotifier)
// collaborator: it tunnels protected PDCP PDUs toward the core over
// GTP-U, standing in for the "RLC + transport below RLC" surrounding
// code spec.md §1 explicitly names as out of scope for the PDCP TX core.
// The header encode/decode is adapted from the GTPv1-U implementation in
// the teacher's encoding/gtp package (3GPP TS 29.281), generalised to
// wrap an arbitrary PDCP PDU payload instead of a NAS PDU.
package gtpshim

import (
	"encoding/binary"
	"fmt"
	"net"

	"github.com/hhorai/gnbpdcp/pdcp"
)

// Port is the standard GTP-U UDP port (TS 29.281).
const Port = 2152

// 5 GTP-U header
// 5.1 General format
const (
	gtpuVersion           = 0x20
	protocolTypeGTP       = 0x10
	messageTypeTPDU       = 0xff
	hasExtensionHeaderBit = 0x04
)

// Tunnel is a single GTP-U tunnel endpoint: one local/peer TEID pair
// toward one RAN or core peer.
type Tunnel struct {
	LocalTEID uint32
	PeerTEID  uint32
	QosFlowID uint8

	peerAddr *net.UDPAddr
	conn     *net.UDPConn

	onDropped func(count uint32)
	onError   func(error)
}

// NewTunnel dials a UDP socket toward peerAddr:Port for the given TEID
// pair. onDropped is invoked from OnDiscardPDU, letting the caller log or
// count discard notifications the way a real RLC would surface them.
// onError is invoked if a write to the tunnel fails; pdcp.LowerDataNotifier
// has no error return, so write failures can't propagate back into
// HandleSDU and must be surfaced this way instead.
func NewTunnel(peerAddr net.IP, localTEID, peerTEID uint32, onDropped func(count uint32), onError func(error)) (*Tunnel, error) {
	addr := &net.UDPAddr{IP: peerAddr, Port: Port}
	conn, err := net.DialUDP("udp", nil, addr)
	if err != nil {
		return nil, fmt.Errorf("gtpshim: dial failed: %w", err)
	}
	return &Tunnel{
		LocalTEID: localTEID,
		PeerTEID:  peerTEID,
		peerAddr:  addr,
		conn:      conn,
		onDropped: onDropped,
		onError:   onError,
	}, nil
}

// encapsulate wraps raw (a protected PDCP PDU) in a GTP-U T-PDU header.
func (t *Tunnel) encapsulate(raw []byte) []byte {
	var versAndFlags uint8 = gtpuVersion | protocolTypeGTP

	pdu := make([]byte, 0, 8+len(raw))
	pdu = append(pdu, versAndFlags, messageTypeTPDU)

	length := make([]byte, 2)
	binary.BigEndian.PutUint16(length, uint16(len(raw)))
	pdu = append(pdu, length...)

	teid := make([]byte, 4)
	binary.BigEndian.PutUint32(teid, t.PeerTEID)
	pdu = append(pdu, teid...)

	pdu = append(pdu, raw...)
	return pdu
}

// decapsulate strips the GTP-U header and returns the carried T-PDU
// payload: 8 bytes are stripped, or 12 when the E (extension header) flag
// is set. The extension headers that follow are not walked or stripped.
func decapsulate(payload []byte) ([]byte, error) {
	if len(payload) < 8 {
		return nil, fmt.Errorf("gtpshim: short GTP-U packet, %d bytes", len(payload))
	}
	versAndFlags := payload[0]
	if versAndFlags&hasExtensionHeaderBit != 0 {
		if len(payload) < 12 {
			return nil, fmt.Errorf("gtpshim: short GTP-U packet with extension header")
		}
		return payload[12:], nil
	}
	return payload[8:], nil
}

// OnNewPDU implements pdcp.LowerDataNotifier: it encapsulates the
// protected PDU in GTP-U and writes it to the tunnel's UDP socket. The
// HasCount/PDCPCount fields are not carried on the wire — they exist for
// the discard-timer side channel within the PDCP entity itself.
func (t *Tunnel) OnNewPDU(pdu pdcp.TXPDU) {
	if _, err := t.conn.Write(t.encapsulate(pdu.Buf)); err != nil && t.onError != nil {
		t.onError(fmt.Errorf("gtpshim: write failed: %w", err))
	}
}

// OnDiscardPDU implements pdcp.LowerDataNotifier's discard notification:
// GTP-U has no "cancel this tunnelled packet" primitive once it is queued
// underneath, so this only surfaces the event to the caller's callback
// (e.g. for metrics or logging) the way a real RLC would suppress
// transmission of a segment that hasn't gone out yet.
func (t *Tunnel) OnDiscardPDU(count uint32) {
	if t.onDropped != nil {
		t.onDropped(count)
	}
}

// Close releases the underlying UDP socket.
func (t *Tunnel) Close() error {
	return t.conn.Close()
}
