// Copyright 2019-2021 hhorai. All rights reserved.
// Use of this source code is governed by a MIT license that can be found
// in the LICENSE file.

package pdcp

import (
	"crypto/aes"
	"crypto/cipher"

	"github.com/aead/cmac"
)

// integrityFunc computes a 4-byte MAC-I over message, keyed by a 128-bit
// key and parameterised over (count, bearer_id, direction) per §4.3/§9
// ("each algorithm is a pure function of (key, count, bearer_id,
// direction, message) -> mac").
type integrityFunc func(key Key128, count uint32, bearerID uint8, dir Direction, message []byte) [4]byte

// cipherFunc produces the keystream-applied output for plaintext, keyed
// the same way as integrityFunc.
type cipherFunc func(key Key128, count uint32, bearerID uint8, dir Direction, plaintext []byte) []byte

// integrityAlgos and cipherAlgos are the tagged dispatch tables for
// {nia0..3} / {nea0..3} (§9: "tagged dispatch; each algorithm is a pure
// function ... Identity algorithms (nia0, nea0) are explicit no-ops, not
// 'optional'").
var integrityAlgos = map[IntegAlgo]integrityFunc{
	NIA0: nia0,
	NIA1: nia1Snow3G,
	NIA2: nia2AESCMAC,
	NIA3: nia3ZUC,
}

var cipherAlgos = map[CipherAlgo]cipherFunc{
	NEA0: nea0,
	NEA1: nea1Snow3G,
	NEA2: nea2AESCTR,
	NEA3: nea3ZUC,
}

// nia0 is the identity integrity algorithm: an all-zero MAC-I (§4.3).
func nia0(_ Key128, _ uint32, _ uint8, _ Direction, _ []byte) [4]byte {
	return [4]byte{}
}

// nea0 is the identity ciphering algorithm: ciphertext == plaintext.
func nea0(_ Key128, _ uint32, _ uint8, _ Direction, plaintext []byte) []byte {
	return plaintext
}

// countBearerDirBlock renders the (count, bearer_id, direction) triple
// into the 8-byte block every 3GPP EIA/EEA algorithm mixes into its input,
// following the layout the teacher's own TS 33.401 ComputeMAC used for the
// EPC-era 128-EIA2 MAC-I (encoding/nas/nas.go): 4 bytes of COUNT, then one
// byte of (bearer_id<<3 | direction<<2), then 3 padding bytes.
func countBearerDirBlock(count uint32, bearerID uint8, dir Direction) []byte {
	b := make([]byte, 8)
	b[0] = byte(count >> 24)
	b[1] = byte(count >> 16)
	b[2] = byte(count >> 8)
	b[3] = byte(count)
	b[4] = (bearerID << 3) | (byte(dir) << 2)
	return b
}

// nia2AESCMAC implements 128-EIA2: AES-CMAC over the 8-byte COUNT/bearer/
// direction block concatenated with message, truncated to 4 bytes, exactly
// as encoding/nas/nas.go's ComputeMAC did for its own (different) key
// domain.
func nia2AESCMAC(key Key128, count uint32, bearerID uint8, dir Direction, message []byte) [4]byte {
	m := countBearerDirBlock(count, bearerID, dir)
	m = append(m, message...)

	block, err := aes.NewCipher(key[:])
	if err != nil {
		return [4]byte{}
	}
	full, err := cmac.Sum(m, block, 16)
	if err != nil {
		return [4]byte{}
	}
	var out [4]byte
	copy(out[:], full[:4])
	return out
}

// nea2AESCTR implements 128-EEA2: AES in counter mode, with the IV built
// from the same COUNT/bearer/direction block used for integrity (TS
// 33.401 5.1.4.2 / TS 38.323 uses an analogous CTR construction for NEA2).
func nea2AESCTR(key Key128, count uint32, bearerID uint8, dir Direction, plaintext []byte) []byte {
	block, err := aes.NewCipher(key[:])
	if err != nil {
		return plaintext
	}

	iv := make([]byte, aes.BlockSize)
	copy(iv, countBearerDirBlock(count, bearerID, dir))

	out := make([]byte, len(plaintext))
	stream := cipher.NewCTR(block, iv)
	stream.XORKeyStream(out, plaintext)
	return out
}
