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
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimestamp(t *testing.T) {
	cases := []struct {
		in        string
		eval      string
		precision TimestampPrecision
		kind      TimezoneKind
		fracSecs  uint8
	}{
		{"1234T", "1234-01-01T00:00:00Z", TimestampPrecisionYear, TimezoneUnspecified, 0},
		{"1234-05T", "1234-05-01T00:00:00Z", TimestampPrecisionMonth, TimezoneUnspecified, 0},
		{"1234-05-06", "1234-05-06T00:00:00Z", TimestampPrecisionDay, TimezoneUnspecified, 0},
		{"1234-05-06T", "1234-05-06T00:00:00Z", TimestampPrecisionDay, TimezoneUnspecified, 0},
		{"1234-05-06T07:08Z", "1234-05-06T07:08:00Z", TimestampPrecisionMinute, TimezoneUTC, 0},
		{"1234-05-06T07:08:09Z", "1234-05-06T07:08:09Z", TimestampPrecisionSecond, TimezoneUTC, 0},
		{"1234-05-06T07:08:09.100Z", "1234-05-06T07:08:09.100Z", TimestampPrecisionNanosecond, TimezoneUTC, 3},
		{"1234-05-06T07:08:09.100100Z", "1234-05-06T07:08:09.100100Z", TimestampPrecisionNanosecond, TimezoneUTC, 6},

		// rounding of >=9 fractional seconds
		{"1234-05-06T07:08:09.000100100Z", "1234-05-06T07:08:09.000100100Z", TimestampPrecisionNanosecond, TimezoneUTC, 9},
		{"1234-05-06T07:08:09.100100100Z", "1234-05-06T07:08:09.100100100Z", TimestampPrecisionNanosecond, TimezoneUTC, 9},
		{"1234-05-06T07:08:09.00010010044Z", "1234-05-06T07:08:09.000100100Z", TimestampPrecisionNanosecond, TimezoneUTC, 9},
		{"1234-05-06T07:08:09.00010010055Z", "1234-05-06T07:08:09.000100101Z", TimestampPrecisionNanosecond, TimezoneUTC, 9},
		{"1234-05-06T07:08:09.00010010099Z", "1234-05-06T07:08:09.000100101Z", TimestampPrecisionNanosecond, TimezoneUTC, 9},
		{"1234-05-06T07:08:09.99999999999Z", "1234-05-06T07:08:10.000000000Z", TimestampPrecisionNanosecond, TimezoneUTC, 9},
		{"1234-12-31T23:59:59.99999999999Z", "1235-01-01T00:00:00.000000000Z", TimestampPrecisionNanosecond, TimezoneUTC, 9},
		{"1234-05-06T07:08:09.000100100+09:10", "1234-05-06T07:08:09.000100100+09:10", TimestampPrecisionNanosecond, TimezoneLocal, 9},
		{"1234-05-06T07:08:09.100100100-10:11", "1234-05-06T07:08:09.100100100-10:11", TimestampPrecisionNanosecond, TimezoneLocal, 9},
		{"1234-05-06T07:08:09.00010010044+09:10", "1234-05-06T07:08:09.000100100+09:10", TimestampPrecisionNanosecond, TimezoneLocal, 9},
		{"1234-05-06T07:08:09.00010010055-10:11", "1234-05-06T07:08:09.000100101-10:11", TimestampPrecisionNanosecond, TimezoneLocal, 9},
		{"1234-05-06T07:08:09.00010010099+09:10", "1234-05-06T07:08:09.000100101+09:10", TimestampPrecisionNanosecond, TimezoneLocal, 9},
		{"1234-05-06T07:08:09.99999999999-10:11", "1234-05-06T07:08:10.000000000-10:11", TimestampPrecisionNanosecond, TimezoneLocal, 9},
		{"1234-12-31T23:59:59.99999999999+09:10", "1235-01-01T00:00:00.000000000+09:10", TimestampPrecisionNanosecond, TimezoneLocal, 9},

		{"1234-05-06T07:08+09:10", "1234-05-06T07:08:00+09:10", TimestampPrecisionMinute, TimezoneLocal, 0},
		{"1234-05-06T07:08:09-10:11", "1234-05-06T07:08:09-10:11", TimestampPrecisionSecond, TimezoneLocal, 0},
	}

	for _, c := range cases {
		t.Run(c.in, func(t *testing.T) {
			val, err := parseTimestamp(c.in)
			require.NoError(t, err)

			et, err := time.Parse(time.RFC3339Nano, c.eval)
			require.NoError(t, err)

			want := NewTimestampWithFractionalSeconds(et, c.precision, c.kind, c.fracSecs)
			assert.True(t, val.Equal(want), "expected %v, got %v", want, val)
		})
	}
}

func TestWriteSymbol(t *testing.T) {
	cases := []struct {
		sym      string
		expected string
	}{
		{"", "''"},
		{"null", "'null'"},
		{"null.null", "'null.null'"},

		{"basic", "basic"},
		{"_basic_", "_basic_"},
		{"$basic$", "$basic$"},
		{"$123", "$123"},

		{"123", "'123'"},
		{"abc'def", "'abc\\'def'"},
		{"abc\"def", "'abc\"def'"},
	}

	for _, c := range cases {
		t.Run(c.expected, func(t *testing.T) {
			buf := strings.Builder{}
			require.NoError(t, writeSymbolFromString(c.sym, &buf))
			assert.Equal(t, c.expected, buf.String())
		})
	}
}

func TestSymbolNeedsQuoting(t *testing.T) {
	cases := []struct {
		sym      string
		expected bool
	}{
		{"", true},
		{"null", true},
		{"true", true},
		{"false", true},
		{"nan", true},

		{"basic", false},
		{"_basic_", false},
		{"basic$123", false},
		{"$", false},
		{"$basic", false},
		{"$123", false},

		{"123", true},
		{"abc.def", true},
		{"abc,def", true},
		{"abc:def", true},
		{"abc{def", true},
		{"abc}def", true},
		{"abc[def", true},
		{"abc]def", true},
		{"abc'def", true},
		{"abc\"def", true},
	}

	for _, c := range cases {
		t.Run(c.sym, func(t *testing.T) {
			assert.Equal(t, c.expected, symbolNeedsQuoting(c.sym))
		})
	}
}

func TestIsSymbolRef(t *testing.T) {
	cases := []struct {
		sym      string
		expected bool
	}{
		{"", false},
		{"1", false},
		{"a", false},
		{"$", false},
		{"$1", true},
		{"$1234567890", true},
		{"$a", false},
		{"$1234a567890", false},
	}

	for _, c := range cases {
		t.Run(c.sym, func(t *testing.T) {
			assert.Equal(t, c.expected, isSymbolRef(c.sym))
		})
	}
}

func TestWriteEscapedSymbol(t *testing.T) {
	cases := []struct {
		sym      string
		expected string
	}{
		{"basic", "basic"},
		{"\"basic\"", "\"basic\""},
		{"o'clock", "o\\'clock"},
		{"c:\\", "c:\\\\"},
	}

	for _, c := range cases {
		t.Run(c.expected, func(t *testing.T) {
			buf := strings.Builder{}
			require.NoError(t, writeEscapedSymbol(c.sym, &buf))
			assert.Equal(t, c.expected, buf.String())
		})
	}
}

func TestWriteEscapedChar(t *testing.T) {
	cases := []struct {
		c        byte
		expected string
	}{
		{0, "\\0"},
		{'\n', "\\n"},
		{1, "\\x01"},
		{'\xFF', "\\xFF"},
	}

	for _, c := range cases {
		t.Run(c.expected, func(t *testing.T) {
			buf := strings.Builder{}
			require.NoError(t, writeEscapedChar(c.c, &buf))
			assert.Equal(t, c.expected, buf.String())
		})
	}
}
