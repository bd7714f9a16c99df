// Copyright 2019-2021 hhorai. All rights reserved.
// Use of this source code is governed by a MIT license that can be found
// in the LICENSE file.

package pdcp

import "fmt"

// protect implements the §4.3 security pipeline: integrity-protect
// header‖sdu, build plaintext = sdu‖mac_i?, cipher it, and assemble
// header‖ciphertext. The header itself is never ciphered (TS 38.323 §5.8).
func protect(cfg Config, sec SecurityConfig, header, sdu []byte, count uint32) ([]byte, error) {
	intKey, encKey := sec.keysFor(cfg.BearerKind)
	bearerID := bearerIDFromLCID(cfg.LCID)

	var macI [4]byte
	if sec.IntegrityEnabled {
		integFn, ok := integrityAlgos[sec.IntegAlgo]
		if !ok {
			return nil, fmt.Errorf("pdcp: unknown integrity algorithm %d", sec.IntegAlgo)
		}
		m := make([]byte, 0, len(header)+len(sdu))
		m = append(m, header...)
		m = append(m, sdu...)
		macI = integFn(intKey, count, bearerID, cfg.Direction, m)
	}

	// MAC-I is appended to the plaintext when the bearer is SRB, or when
	// it's a DRB with integrity enabled (§4.3 step 2).
	appendMAC := cfg.BearerKind == SRB || sec.IntegrityEnabled

	plaintext := make([]byte, 0, len(sdu)+4)
	plaintext = append(plaintext, sdu...)
	if appendMAC {
		plaintext = append(plaintext, macI[:]...)
	}

	ciphertext := plaintext
	if sec.CipheringEnabled {
		cipherFn, ok := cipherAlgos[sec.CipherAlgo]
		if !ok {
			return nil, fmt.Errorf("pdcp: unknown ciphering algorithm %d", sec.CipherAlgo)
		}
		ciphertext = cipherFn(encKey, count, bearerID, cfg.Direction, plaintext)
	}

	pdu := make([]byte, 0, len(header)+len(ciphertext))
	pdu = append(pdu, header...)
	pdu = append(pdu, ciphertext...)
	return pdu, nil
}

// bearerIDFromLCID converts a 1-based logical channel id into the
// zero-based bearer identifier the crypto algorithms expect (§4.3:
// "bearer_id = lcid − 1").
func bearerIDFromLCID(lcid uint8) uint8 {
	if lcid == 0 {
		return 0
	}
	return lcid - 1
}
