// SPDX-FileCopyrightText: (C) 2025 Unit Circle Inc.
// SPDX-License-Identifier: Apache-2.0

// Package cobs implements Consistent Overhead Byte Stuffing framing:
// http://www.stuartcheshire.org/papers/COBSforToN.pdf
//
// Encode/Decode is the reference algorithm. EncodeZPE/DecodeZPE is a
// zero-pair-elision variant that extends the code alphabet to also
// encode runs ending in two consecutive zero bytes, at the cost of a
// smaller maximum non-zero run length.
package cobs

import "bytes"

// Encode frames data with COBS, producing a buffer containing no zero
// bytes. The frame boundary (a single 0x00 byte) is not appended here;
// callers write it themselves after Encode's output.
func Encode(data []byte) []byte {
	var out []byte
	buf := append(append([]byte(nil), data...), 0) // add "fake" trailing zero
	for len(buf) > 0 {
		i := bytes.IndexByte(buf, 0)
		if i >= 254 {
			out = append(out, 255)
			out = append(out, buf[:254]...)
			buf = buf[254:]
			// Early exit if only the fake zero is left: the receiver
			// can infer it without an extra zero-length code byte.
			if len(buf) == 1 && buf[0] == 0 {
				break
			}
			continue
		}
		out = append(out, byte(i+1))
		out = append(out, buf[:i]...)
		buf = buf[i+1:]
	}
	return out
}

// Decode reverses Encode. ok is false if data is not a well-formed COBS
// encoding (a code byte pointing past the end of the remaining bytes),
// which happens when a frame is corrupted or truncated on the wire.
func Decode(data []byte) (out []byte, ok bool) {
	for len(data) > 0 {
		code := int(data[0])
		if code == 0 || code > len(data) {
			return nil, false
		}
		var seg []byte
		seg, data = data[1:code], data[code:]
		if code == 255 && len(data) == 0 {
			seg = append(append([]byte(nil), seg...), 0)
		} else if code < 255 {
			seg = append(append([]byte(nil), seg...), 0)
		}
		out = append(out, seg...)
	}
	if len(out) == 0 {
		return out, true
	}
	return out[:len(out)-1], true // remove the fake trailing zero
}

// EncodeZPE is the zero-pair-elision variant: codes 0xE1-0xFE encode a
// run of non-zero bytes ending in two zero bytes (eliding both),
// 0xE0 behaves like the reference algorithm's 0xFF (a maximal 223-byte
// non-zero run with no implied trailing zero), and codes below 0xE0
// behave like the reference algorithm.
//
// TODO: no early-exit on a trailing fake zero at the 0xDF boundary.
func EncodeZPE(data []byte) []byte {
	var out []byte
	buf := append(append([]byte(nil), data...), 0)
	for len(buf) > 0 {
		i := bytes.IndexByte(buf, 0)
		switch {
		case i >= 0xDF:
			out = append(out, 0xE0)
			out = append(out, buf[:0xDF]...)
			buf = buf[0xDF:]
		case len(buf) >= i+2 && buf[i+1] == 0 && i <= 0xFE-0xE1:
			out = append(out, byte(i+0xE1))
			out = append(out, buf[:i]...)
			buf = buf[i+2:]
		default:
			out = append(out, byte(i+1))
			out = append(out, buf[:i]...)
			buf = buf[i+1:]
		}
	}
	return out
}

// DecodeZPE reverses EncodeZPE. ok is false on a malformed encoding, the
// same way Decode reports it.
func DecodeZPE(data []byte) (out []byte, ok bool) {
	for len(data) > 0 {
		code := int(data[0])
		var seg []byte
		switch {
		case code == 0:
			return nil, false
		case code < 0xE0:
			if code > len(data) {
				return nil, false
			}
			seg, data = data[1:code], data[code:]
			seg = append(append([]byte(nil), seg...), 0)
		case code == 0xE0:
			if code > len(data) {
				return nil, false
			}
			seg, data = data[1:code], data[code:]
		default:
			n := code - 0xE0
			if n > len(data) {
				return nil, false
			}
			seg, data = data[1:n], data[n:]
			seg = append(append([]byte(nil), seg...), 0, 0)
		}
		out = append(out, seg...)
	}
	if len(out) == 0 {
		return out, true
	}
	return out[:len(out)-1], true // remove the fake trailing zero
}
