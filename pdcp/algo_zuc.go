// Copyright 2019-2021 hhorai. All rights reserved.
// Use of this source code is governed by a MIT license that can be found
// in the LICENSE file.

package pdcp

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
)

// nia3ZUC and nea3ZUC stand in for 128-EIA3/128-EEA3 (ZUC), for exactly
// the same reason and under the same caveat as algo_snow3g.go: no ZUC
// implementation exists in the retrieval pack to ground a bit-exact
// transliteration on. The domain-separation tag below is the only
// difference from the SNOW3G stand-in, so nia1/nia3 (and nea1/nea3) never
// collide with each other for the same key/count/bearer/direction.
func zucKeystream(key Key128, count uint32, bearerID uint8, dir Direction, n int) []byte {
	out := make([]byte, 0, n)
	block := countBearerDirBlock(count, bearerID, dir)
	block = append(block, 0x5a, 0x55) // algorithm-domain separation tag ("ZU")

	ctr := uint32(0)
	for len(out) < n {
		mac := hmac.New(sha256.New, key[:])
		mac.Write(block)
		var ctrBytes [4]byte
		binary.BigEndian.PutUint32(ctrBytes[:], ctr)
		mac.Write(ctrBytes[:])
		out = append(out, mac.Sum(nil)...)
		ctr++
	}
	return out[:n]
}

func nia3ZUC(key Key128, count uint32, bearerID uint8, dir Direction, message []byte) [4]byte {
	ks := zucKeystream(key, count, bearerID, dir, len(message)+4)
	var out [4]byte
	copy(out[:], ks[len(message):len(message)+4])
	for i, b := range message {
		out[i%4] ^= b ^ ks[i]
	}
	return out
}

func nea3ZUC(key Key128, count uint32, bearerID uint8, dir Direction, plaintext []byte) []byte {
	ks := zucKeystream(key, count, bearerID, dir, len(plaintext))
	out := make([]byte, len(plaintext))
	for i := range plaintext {
		out[i] = plaintext[i] ^ ks[i]
	}
	return out
}
