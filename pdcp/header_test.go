// Copyright 2019-2021 hhorai. All rights reserved.
// Use of this source code is governed by a MIT license that can be found
// in the LICENSE file.

package pdcp

import (
	"bytes"
	"testing"
)

func TestEncodeHeaderDRB12bit(t *testing.T) {
	h, err := encodeHeader(DRB, SN12, 0)
	if err != nil {
		t.Fatalf("encodeHeader: %v", err)
	}
	want := []byte{0x80, 0x00}
	if !bytes.Equal(h, want) {
		t.Errorf("got % x, want % x", h, want)
	}
}

func TestEncodeHeaderDRB12bitNonZeroSN(t *testing.T) {
	h, err := encodeHeader(DRB, SN12, 5)
	if err != nil {
		t.Fatalf("encodeHeader: %v", err)
	}
	want := []byte{0x80, 0x05}
	if !bytes.Equal(h, want) {
		t.Errorf("got % x, want % x", h, want)
	}
}

func TestEncodeHeaderSRB18bitRejected(t *testing.T) {
	if _, err := encodeHeader(SRB, SN18, 0); err == nil {
		t.Errorf("expected error for SRB+18-bit SN")
	}
}

func TestHeaderRoundTrip(t *testing.T) {
	cases := []struct {
		kind   BearerKind
		snSize SNSize
		sn     uint32
	}{
		{SRB, SN12, 0},
		{SRB, SN12, 4095},
		{DRB, SN12, 2048},
		{DRB, SN18, 0},
		{DRB, SN18, 262143},
	}
	for _, c := range cases {
		h, err := encodeHeader(c.kind, c.snSize, c.sn)
		if err != nil {
			t.Fatalf("encodeHeader(%v,%v,%d): %v", c.kind, c.snSize, c.sn, err)
		}
		if len(h) != headerLen(c.snSize) {
			t.Errorf("headerLen mismatch: got %d want %d", len(h), headerLen(c.snSize))
		}
		gotKind, gotSN, err := decodeHeader(c.snSize, h)
		if err != nil {
			t.Fatalf("decodeHeader: %v", err)
		}
		if gotKind != c.kind || gotSN != c.sn {
			t.Errorf("round trip mismatch: got (%v,%d) want (%v,%d)", gotKind, gotSN, c.kind, c.sn)
		}
	}
}
