// Copyright 2019-2021 hhorai. All rights reserved.
// Use of this source code is governed by a MIT license that can be found
// in the LICENSE file.

package pdcp

import "testing"

func TestParseStatusReportRejectsDataPDU(t *testing.T) {
	pdu := []byte{0x80, 0, 0, 0, 0}
	if _, err := parseStatusReport(pdu); err == nil {
		t.Fatalf("expected error for D/C=data")
	}
}

func TestParseStatusReportRejectsBadCPT(t *testing.T) {
	pdu := []byte{0x10, 0, 0, 0, 0} // CPT=001
	if _, err := parseStatusReport(pdu); err == nil {
		t.Fatalf("expected error for non-status-report CPT")
	}
}

func TestParseStatusReportRejectsNonZeroReserved(t *testing.T) {
	pdu := []byte{0x01, 0, 0, 0, 0}
	if _, err := parseStatusReport(pdu); err == nil {
		t.Fatalf("expected error for non-zero reserved bits")
	}
}

func TestParseStatusReportRejectsTruncated(t *testing.T) {
	if _, err := parseStatusReport([]byte{0x00, 0x00}); err == nil {
		t.Fatalf("expected error for truncated PDU")
	}
}

func TestParseStatusReportFMCAndBitmap(t *testing.T) {
	pdu := []byte{0x00, 0x00, 0x00, 0x01, 0x00, 0xC0} // FMC=256, bitmap 0b11000000
	got, err := parseStatusReport(pdu)
	if err != nil {
		t.Fatalf("parseStatusReport: %v", err)
	}
	if got.fmc != 256 {
		t.Errorf("fmc = %d, want 256", got.fmc)
	}
	counts := got.acknowledgedCounts()
	want := []uint32{257, 258}
	if len(counts) != len(want) {
		t.Fatalf("got %v, want %v", counts, want)
	}
	for i := range want {
		if counts[i] != want[i] {
			t.Errorf("counts[%d] = %d, want %d", i, counts[i], want[i])
		}
	}
}
