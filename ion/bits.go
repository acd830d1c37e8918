/*
 * Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
 *
 * Licensed under the Apache License, Version 2.0 (the "License").
 * You may not use this file except in compliance with the License.
 * A copy of the License is located at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * or in the "license" file accompanying this file. This file is distributed
 * on an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either
 * express or implied. See the License for the specific language governing
 * permissions and limitations under the License.
 */

package ion

import (
	"math/big"
)

// uintLen reports how many bytes it takes to hold v as a plain big-endian
// unsigned magnitude, with no leading zero bytes.
func uintLen(v uint64) uint64 {
	n := uint64(1)
	for v >>= 8; v > 0; v >>= 8 {
		n++
	}
	return n
}

// appendUint appends v's big-endian magnitude to b. The number of bytes
// written is whatever uintLen(v) reports; callers already know it, since
// binary Ion always writes the length before the value.
func appendUint(b []byte, v uint64) []byte {
	var buf [8]byte
	i := len(buf) - 1
	buf[i] = byte(v)
	for v >>= 8; v > 0; v >>= 8 {
		i--
		buf[i] = byte(v)
	}
	return append(b, buf[i:]...)
}

// intLen reports how many bytes appendInt needs to encode n, including the
// sign bit (and, when the magnitude fills every bit of its bytes, the extra
// byte the sign spills into).
func intLen(n int64) uint64 {
	if n == 0 {
		return 0
	}
	mag := magnitude(n)
	length := uintLen(mag)
	if topByte(mag, length)&0x80 != 0 {
		length++
	}
	return length
}

func magnitude(n int64) uint64 {
	if n < 0 {
		return uint64(-n)
	}
	return uint64(n)
}

func topByte(mag, length uint64) uint64 {
	return mag >> ((length - 1) * 8)
}

// appendInt appends signed n to b in Ion's sign-magnitude encoding. The
// caller is expected to already know the encoded length (from intLen).
func appendInt(b []byte, n int64) []byte {
	if n == 0 {
		return b
	}

	neg := n < 0
	var scratch [8]byte
	bits := appendUint(scratch[:0], magnitude(n))

	if bits[0]&0x80 != 0 {
		lead := byte(0)
		if neg {
			lead = 0x80
		}
		b = append(b, lead)
	} else if neg {
		bits[0] ^= 0x80
	}

	return append(b, bits...)
}

// bigIntLen reports how many bytes appendBigInt needs to encode v.
func bigIntLen(v *big.Int) uint64 {
	if v.Sign() == 0 {
		return 0
	}
	// Rounding bitLen/8 up always leaves room for the sign bit: if bitLen
	// is a multiple of 8 the division undercounts by exactly the byte the
	// sign needs, and otherwise the round-up byte has a free high bit.
	return uint64(v.BitLen()/8) + 1
}

// appendBigInt appends signed v to b in Ion's sign-magnitude encoding.
func appendBigInt(b []byte, v *big.Int) []byte {
	sign := v.Sign()
	if sign == 0 {
		return b
	}

	bits := v.Bytes()
	if bits[0]&0x80 != 0 {
		lead := byte(0)
		if sign < 0 {
			lead = 0x80
		}
		b = append(b, lead)
	} else if sign < 0 {
		bits[0] ^= 0x80
	}

	return append(b, bits...)
}

// varUintLen reports how many bytes appendVarUint needs to encode v, at
// seven value bits per byte.
func varUintLen(v uint64) uint64 {
	n := uint64(1)
	for v >>= 7; v > 0; v >>= 7 {
		n++
	}
	return n
}

// appendVarUint appends v to b as a VarUInt: seven value bits per byte,
// most-significant byte first, with the high bit of the final (least
// significant) byte set as an end-of-value marker.
func appendVarUint(b []byte, v uint64) []byte {
	var buf [10]byte
	i := len(buf) - 1
	buf[i] = 0x80 | byte(v&0x7F)
	for v >>= 7; v > 0; v >>= 7 {
		i--
		buf[i] = byte(v & 0x7F)
	}
	return append(b, buf[i:]...)
}

// varIntLen reports how many bytes appendVarInt needs to encode v. The
// leading byte reserves one bit for sign, so it only holds six value bits.
func varIntLen(v int64) uint64 {
	mag := magnitude(v)
	n := uint64(1)
	for mag >>= 6; mag > 0; mag >>= 7 {
		n++
	}
	return n
}

// appendVarInt appends v to b as a VarInt: like a VarUInt, but the leading
// byte spends one of its value bits on a sign flag instead, and the final
// byte's high bit marks the end of the value as usual.
func appendVarInt(b []byte, v int64) []byte {
	signbit := byte(0)
	mag := magnitude(v)
	if v < 0 {
		signbit = 0x40
	}

	if mag>>6 == 0 {
		return append(b, 0x80|signbit|byte(mag&0x3F))
	}

	var buf [10]byte
	i := len(buf) - 1
	buf[i] = 0x80 | byte(mag&0x7F)
	mag >>= 7

	for mag>>6 > 0 {
		i--
		buf[i] = byte(mag & 0x7F)
		mag >>= 7
	}

	i--
	buf[i] = signbit | byte(mag&0x3F)

	return append(b, buf[i:]...)
}

// tagLen reports the length, in bytes, of a type descriptor tag whose
// payload is `length` bytes long.
func tagLen(length uint64) uint64 {
	if length < 0x0E {
		return 1
	}
	return 1 + varUintLen(length)
}

// appendTag appends a type-code-plus-length tag to b: the length embedded
// in the low nibble of the code byte when it's small enough (< 0x0E), or a
// 0x0E marker followed by a VarUInt length otherwise.
func appendTag(b []byte, code byte, length uint64) []byte {
	if length < 0x0E {
		return append(b, code|byte(length))
	}
	b = append(b, code|0x0E)
	return appendVarUint(b, length)
}

// timestampFieldLens gives the number of whole-field bytes a timestamp
// needs beyond offset and year, indexed by precision; every field below
// that precision (month, day, hour+minute, second) is exactly one VarUInt
// byte wide, except hour+minute which is always written as a pair.
var timestampFieldLens = map[TimestampPrecision]uint64{
	TimestampPrecisionMonth:      1,
	TimestampPrecisionDay:        2,
	TimestampPrecisionMinute:     4,
	TimestampPrecisionSecond:     5,
	TimestampPrecisionNanosecond: 5,
}

// timestampLen reports how many bytes appendTimestamp needs to encode utc,
// given the local offset (in minutes) it was originally expressed in.
func timestampLen(offset int, utc Timestamp) uint64 {
	var ret uint64
	if utc.kind == TimezoneUnspecified {
		ret = 1
	} else {
		ret = varIntLen(int64(offset))
	}

	ret += varUintLen(uint64(utc.dateTime.Year()))
	ret += timestampFieldLens[utc.precision]

	if utc.precision == TimestampPrecisionNanosecond && utc.numFractionalSeconds > 0 {
		ret++ // fractional-seconds precision indicator
		if ns := utc.TruncatedNanoseconds(); ns > 0 {
			ret += intLen(int64(ns))
		}
	}

	return ret
}

// appendTimestamp appends utc to b in binary Ion's timestamp encoding,
// expressed relative to the given local offset in minutes.
func appendTimestamp(b []byte, offset int, utc Timestamp) []byte {
	if utc.kind == TimezoneUnspecified {
		b = append(b, 0xC0)
	} else {
		b = appendVarInt(b, int64(offset))
	}

	b = appendVarUint(b, uint64(utc.dateTime.Year()))

	if utc.precision >= TimestampPrecisionMonth {
		b = appendVarUint(b, uint64(utc.dateTime.Month()))
	}
	if utc.precision >= TimestampPrecisionDay {
		b = appendVarUint(b, uint64(utc.dateTime.Day()))
	}
	if utc.precision >= TimestampPrecisionMinute {
		// Hour and minute are always written as a pair.
		b = appendVarUint(b, uint64(utc.dateTime.Hour()))
		b = appendVarUint(b, uint64(utc.dateTime.Minute()))
	}
	if utc.precision >= TimestampPrecisionSecond {
		b = appendVarUint(b, uint64(utc.dateTime.Second()))
	}

	if utc.precision == TimestampPrecisionNanosecond && utc.numFractionalSeconds > 0 {
		b = append(b, utc.numFractionalSeconds|0xC0)
		if ns := utc.TruncatedNanoseconds(); ns > 0 {
			b = appendInt(b, int64(ns))
		}
	}

	return b
}
