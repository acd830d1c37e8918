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
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strings"
)

// token names the lexical class of the bytes the tokenizer last consumed.
// It says nothing about whether that class is valid where it was found —
// textreader.go's state machine decides that.
type token int

const (
	tokenError token = iota

	tokenEOF

	tokenNumber        // not yet known to be int/float/decimal
	tokenBinary        // 0b[01]+
	tokenHex           // 0x[0-9a-fA-F]+
	tokenFloatInf      // +inf
	tokenFloatMinusInf // -inf
	tokenTimestamp     // 2001-01-01T00:00:00.000Z

	tokenSymbol         // [a-zA-Z_]+
	tokenSymbolQuoted   // '[^']+'
	tokenSymbolOperator // +-/*

	tokenString     // "[^"]+"
	tokenLongString // '''[^']+'''

	tokenDot
	tokenComma
	tokenColon
	tokenDoubleColon

	tokenOpenParen
	tokenCloseParen
	tokenOpenBrace
	tokenCloseBrace
	tokenOpenBracket
	tokenCloseBracket
	tokenOpenDoubleBrace
	tokenCloseDoubleBrace
)

const (
	clobText    = true
	nonClobText = false
)

var tokenStrings = [...]string{
	tokenError:            "<error>",
	tokenEOF:               "<EOF>",
	tokenNumber:            "<number>",
	tokenBinary:            "<binary>",
	tokenHex:               "<hex>",
	tokenFloatInf:          "+inf",
	tokenFloatMinusInf:     "-inf",
	tokenTimestamp:         "<timestamp>",
	tokenSymbol:            "<symbol>",
	tokenSymbolQuoted:      "<quoted-symbol>",
	tokenSymbolOperator:    "<operator>",
	tokenString:            "<string>",
	tokenLongString:        "<long-string>",
	tokenDot:               ".",
	tokenComma:             ",",
	tokenColon:             ":",
	tokenDoubleColon:       "::",
	tokenOpenParen:         "(",
	tokenCloseParen:        ")",
	tokenOpenBrace:         "{",
	tokenCloseBrace:        "}",
	tokenOpenBracket:       "[",
	tokenCloseBracket:      "]",
	tokenOpenDoubleBrace:   "{{",
	tokenCloseDoubleBrace:  "}}",
}

func (t token) String() string {
	if int(t) >= 0 && int(t) < len(tokenStrings) && tokenStrings[t] != "" {
		return tokenStrings[t]
	}
	return "<???>"
}

// tokenizer turns a byte stream into a series of Ion text tokens. It does
// not build an AST or know anything about Ion's grammar beyond the shape
// of individual tokens; textreader.go supplies the grammar by driving Next
// and reading values off whichever token comes back.
type tokenizer struct {
	in     *bufio.Reader
	buffer []int

	token      token
	unfinished bool
	pos        uint64
}

func tokenizeString(in string) *tokenizer {
	return tokenizeBytes([]byte(in))
}

func tokenizeBytes(in []byte) *tokenizer {
	return tokenize(bytes.NewReader(in))
}

func tokenize(in io.Reader) *tokenizer {
	return &tokenizer{
		in: bufio.NewReader(in),
	}
}

// Token returns the type of the current token.
func (t *tokenizer) Token() token {
	return t.token
}

func (t *tokenizer) Pos() uint64 {
	return t.pos
}

// punctuationToken is a single-character token that never requires
// lookahead: the type it maps to is known from this one byte, and the
// bool says whether the tokenizer owes the value machinery a "contents
// unfinished" flag (true only for the two container openers below).
type punctuationToken struct {
	tok  token
	more bool
}

var singleBytePunctuation = map[int]punctuationToken{
	'}': {tokenCloseBrace, false},
	'[': {tokenOpenBracket, true},
	']': {tokenCloseBracket, false},
	'(': {tokenOpenParen, true},
	')': {tokenCloseParen, false},
	',': {tokenComma, false},
}

// Next advances to the next token in the input stream.
func (t *tokenizer) Next() error {
	var (
		c   int
		err error
	)

	if t.unfinished {
		c, err = t.skipValue()
	} else {
		c, _, err = t.skipWhitespace()
	}
	if err != nil {
		return err
	}

	if c == -1 {
		return t.ok(tokenEOF, true)
	}

	if p, ok := singleBytePunctuation[c]; ok {
		return t.ok(p.tok, p.more)
	}

	switch {
	case c == ':':
		return t.nextColon()
	case c == '{':
		return t.nextBrace()
	case c == '.':
		return t.nextDot(c)
	case c == '\'':
		return t.nextQuote()
	case c == '+':
		return t.nextPlus(c)
	case c == '-':
		return t.nextMinus(c)
	case isOperatorChar(c):
		t.unread(c)
		return t.ok(tokenSymbolOperator, true)
	case c == '"':
		return t.ok(tokenString, true)
	case isIdentifierStart(c):
		t.unread(c)
		return t.ok(tokenSymbol, true)
	case isDigit(c):
		tt, err := t.scanForNumericType(c)
		if err != nil {
			return err
		}
		t.unread(c)
		return t.ok(tt, true)
	default:
		return t.invalidChar(c)
	}
}

func (t *tokenizer) nextColon() error {
	c2, err := t.peek()
	if err != nil {
		return err
	}
	if c2 == ':' {
		if _, err := t.read(); err != nil {
			return err
		}
		return t.ok(tokenDoubleColon, false)
	}
	return t.ok(tokenColon, false)
}

func (t *tokenizer) nextBrace() error {
	c2, err := t.peek()
	if err != nil {
		return err
	}
	if c2 == '{' {
		if _, err := t.read(); err != nil {
			return err
		}
		return t.ok(tokenOpenDoubleBrace, true)
	}
	return t.ok(tokenOpenBrace, true)
}

func (t *tokenizer) nextDot(c int) error {
	c2, err := t.peek()
	if err != nil {
		return err
	}
	if isOperatorChar(c2) {
		t.unread(c)
		return t.ok(tokenSymbolOperator, true)
	}
	if c2 == ' ' || isIdentifierPart(c2) {
		t.unread(c)
	}
	return t.ok(tokenDot, false)
}

func (t *tokenizer) nextQuote() error {
	ok, err := t.IsTripleQuote()
	if err != nil {
		return err
	}
	if ok {
		return t.ok(tokenLongString, true)
	}
	return t.ok(tokenSymbolQuoted, true)
}

func (t *tokenizer) nextPlus(c int) error {
	ok, err := t.isInf(c)
	if err != nil {
		return err
	}
	if ok {
		return t.ok(tokenFloatInf, false)
	}
	t.unread(c)
	return t.ok(tokenSymbolOperator, true)
}

func (t *tokenizer) nextMinus(c int) error {
	c2, err := t.peek()
	if err != nil {
		return err
	}

	if isDigit(c2) {
		if _, err := t.read(); err != nil {
			return err
		}

		tt, err := t.scanForNumericType(c2)
		if err != nil {
			return err
		}
		if tt == tokenTimestamp {
			// Ion has no negative timestamps.
			return t.invalidChar(c2)
		}
		t.unread(c2)
		t.unread(c)
		return t.ok(tt, true)
	}

	ok, err := t.isInf(c)
	if err != nil {
		return err
	}
	if ok {
		return t.ok(tokenFloatMinusInf, false)
	}

	t.unread(c)
	return t.ok(tokenSymbolOperator, true)
}

func (t *tokenizer) ok(tok token, more bool) error {
	t.token = tok
	t.unfinished = more
	return nil
}

// SetFinished marks the current token finished (indicating that the caller has
// chosen to step in to a list, sexp, or struct and Next should not skip over its
// contents in search of the next token).
func (t *tokenizer) SetFinished() {
	t.unfinished = false
}

// FinishValue skips to the end of the current value if (and only if)
// we're currently in the middle of reading it.
func (t *tokenizer) FinishValue() (bool, error) {
	if !t.unfinished {
		return false, nil
	}

	c, err := t.skipValue()
	if err != nil {
		return true, err
	}

	t.unread(c)
	t.unfinished = false
	return true, nil
}

var valueReaders = map[token]func(*tokenizer) (string, error){
	tokenSymbol:         (*tokenizer).readSymbol,
	tokenSymbolQuoted:   (*tokenizer).readQuotedSymbol,
	tokenSymbolOperator: (*tokenizer).readOperator,
	tokenDot:            (*tokenizer).readOperator,
	tokenString:         (*tokenizer).readString,
	tokenLongString:     (*tokenizer).readLongString,
	tokenBinary:         (*tokenizer).readBinary,
	tokenHex:            (*tokenizer).readHex,
	tokenTimestamp:      (*tokenizer).readTimestamp,
}

// ReadValue reads the value of a token of the given type.
func (t *tokenizer) ReadValue(tok token) (string, error) {
	read, ok := valueReaders[tok]
	if !ok {
		panic(fmt.Sprintf("unsupported token type %v", tok))
	}

	str, err := read(t)
	if err != nil {
		return "", err
	}

	t.unfinished = false
	return str, nil
}

// ReadNumber reads a number and determines the type.
func (t *tokenizer) ReadNumber() (string, Type, error) {
	w := strings.Builder{}

	c, err := t.read()
	if err != nil {
		return "", NoType, err
	}

	if c == '-' {
		w.WriteByte('-')
		c, err = t.read()
		if err != nil {
			return "", NoType, err
		}
	}

	first := c
	oldlen := w.Len()

	c, err = t.readDigits(c, &w)
	if err != nil {
		return "", NoType, err
	}

	if first == '0' && w.Len()-oldlen > 1 {
		return "", NoType, &SyntaxError{"invalid leading zeroes", t.pos - 1}
	}

	tt := IntType

	if c == '.' {
		w.WriteByte('.')
		tt = DecimalType

		if c, err = t.read(); err != nil {
			return "", NoType, err
		}
		if c, err = t.readDigits(c, &w); err != nil {
			return "", NoType, err
		}
	}

	switch c {
	case 'e', 'E':
		tt = FloatType
		w.WriteByte(byte(c))
		if c, err = t.readExponent(&w); err != nil {
			return "", NoType, err
		}

	case 'd', 'D':
		tt = DecimalType
		w.WriteByte(byte(c))
		if c, err = t.readExponent(&w); err != nil {
			return "", NoType, err
		}
	}

	ok, err := t.isStopChar(c)
	if err != nil {
		return "", NoType, err
	}
	if !ok {
		return "", NoType, t.invalidChar(c)
	}
	t.unread(c)

	return w.String(), tt, nil
}

func (t *tokenizer) readExponent(w io.ByteWriter) (int, error) {
	c, err := t.read()
	if err != nil {
		return 0, err
	}

	if c == '+' || c == '-' {
		if err := w.WriteByte(byte(c)); err != nil {
			return 0, err
		}
		if c, err = t.read(); err != nil {
			return 0, err
		}
	}

	return t.readDigits(c, w)
}

func (t *tokenizer) readDigits(c int, w io.ByteWriter) (int, error) {
	if !isDigit(c) {
		return c, nil
	}
	if err := w.WriteByte(byte(c)); err != nil {
		return 0, err
	}
	return t.readRadixDigits(isDigit, w)
}

// readSymbol reads an unquoted symbol value.
func (t *tokenizer) readSymbol() (string, error) {
	return t.readWhile(isIdentifierPart)
}

func (t *tokenizer) readOperator() (string, error) {
	return t.readWhile(isOperatorChar)
}

// readWhile accumulates characters for which match returns true, without
// consuming the character that ends the run.
func (t *tokenizer) readWhile(match matcher) (string, error) {
	ret := strings.Builder{}

	c, err := t.peek()
	if err != nil {
		return "", err
	}

	for match(c) {
		ret.WriteByte(byte(c))
		if _, err = t.read(); err != nil {
			return "", err
		}
		if c, err = t.peek(); err != nil {
			return "", err
		}
	}

	return ret.String(), nil
}

// readQuotedSymbol reads a quoted symbol.
func (t *tokenizer) readQuotedSymbol() (string, error) {
	ret := strings.Builder{}

	for {
		c, err := t.read()
		if err != nil {
			return "", err
		}

		switch c {
		case -1, '\n':
			return "", t.invalidChar(c)

		case '\'':
			return ret.String(), nil

		case '\\':
			c, err = t.peek()
			if err != nil {
				return "", err
			}
			if c == '\n' {
				if _, err = t.read(); err != nil {
					return "", err
				}
				continue
			}

			r, err := t.readEscapedChar(nonClobText)
			if err != nil {
				return "", err
			}
			ret.WriteRune(r)

		default:
			ret.WriteByte(byte(c))
		}
	}
}

// readString reads a quoted string.
func (t *tokenizer) readString() (string, error) {
	ret := strings.Builder{}

	for {
		c, err := t.read()
		if err != nil {
			return "", err
		}
		if c == -1 || c == '\n' || isProhibitedControlChar(c) {
			return "", t.invalidChar(c)
		}

		switch c {
		case '"':
			return ret.String(), nil
		case '\\':
			if err := processBackslashInString(t, &ret); err != nil {
				return "", err
			}
		default:
			ret.WriteByte(byte(c))
		}
	}
}

// readClob reads a quoted clob.
func (t *tokenizer) readClob() ([]byte, error) {
	var ret []byte

	for {
		c, err := t.read()
		if err != nil {
			return nil, err
		}
		if c == -1 || c == '\n' || isProhibitedControlChar(c) || !isASCII(c) {
			return nil, t.invalidChar(c)
		}

		switch c {
		case '"':
			if ret == nil {
				// The closing " came immediately: an empty clob.
				return []byte{}, nil
			}
			return ret, nil
		case '\\':
			if err := processBackslashInClob(t, &ret); err != nil {
				return nil, err
			}
		default:
			ret = append(ret, byte(c))
		}
	}
}

// readLongString reads a triple-quoted string, which may be made up of
// several adjacent triple-quoted segments concatenated together.
func (t *tokenizer) readLongString() (string, error) {
	ret := strings.Builder{}

	for {
		c, err := t.read()
		if err != nil {
			return "", err
		}
		if c == -1 || isProhibitedControlChar(c) {
			return "", t.invalidChar(c)
		}

		switch c {
		case '\'':
			done, consumed, err := t.skipEndOfLongString(t.skipCommentsHandler)
			if err != nil {
				return "", err
			}
			if done {
				return ret.String(), nil
			}
			if !consumed {
				// A single stray quote, not a closing/concatenating run.
				ret.WriteByte(byte(c))
			}
		case '\\':
			if err := processBackslashInString(t, &ret); err != nil {
				return "", err
			}
		default:
			ret.WriteByte(byte(c))
		}
	}
}

// readLongClob reads a triple-quoted clob.
func (t *tokenizer) readLongClob() ([]byte, error) {
	var ret []byte

	for {
		c, err := t.read()
		if err != nil {
			return nil, err
		}
		if c == -1 || isProhibitedControlChar(c) || !isASCII(c) {
			return nil, t.invalidChar(c)
		}

		switch c {
		case '\'':
			done, consumed, err := t.skipEndOfLongString(t.ensureNoCommentsHandler)
			if err != nil {
				return nil, err
			}
			if done {
				if ret == nil {
					return []byte{}, nil
				}
				return ret, nil
			}
			if !consumed {
				ret = append(ret, byte(c))
			}
		case '\\':
			if err := processBackslashInClob(t, &ret); err != nil {
				return nil, err
			}
		default:
			ret = append(ret, byte(c))
		}
	}
}

var simpleEscapes = map[int]rune{
	'0':  '\x00',
	'a':  '\a',
	'b':  '\b',
	't':  '\t',
	'n':  '\n',
	'f':  '\f',
	'r':  '\r',
	'v':  '\v',
	'?':  '?',
	'/':  '/',
	'\'': '\'',
	'"':  '"',
	'\\': '\\',
}

// readEscapedChar reads an escaped character; c has just been read as the
// one following a '\'.
func (t *tokenizer) readEscapedChar(isClob bool) (rune, error) {
	c, err := t.read()
	if err != nil {
		return 0, err
	}

	if r, ok := simpleEscapes[c]; ok {
		return r, nil
	}

	switch c {
	case 'U':
		if isClob {
			return 0, t.invalidChar('U')
		}
		return t.readHexEscapeSeq(8)
	case 'u':
		if isClob {
			return 0, t.invalidChar('u')
		}
		return t.readHexEscapeSeq(4)
	case 'x':
		return t.readHexEscapeSeq(2)
	}

	return 0, &SyntaxError{fmt.Sprintf("bad escape sequence '\\%c'", c), t.pos - 2}
}

func (t *tokenizer) readHexEscapeSeq(length int) (rune, error) {
	val := rune(0)

	for length > 0 {
		c, err := t.read()
		if err != nil {
			return 0, err
		}

		d, err := t.fromHex(c)
		if err != nil {
			return 0, err
		}

		val = (val << 4) | rune(d)
		length--
	}

	return val, nil
}

func (t *tokenizer) fromHex(c int) (int, error) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', nil
	case c >= 'a' && c <= 'f':
		return 10 + (c - 'a'), nil
	case c >= 'A' && c <= 'F':
		return 10 + (c - 'A'), nil
	default:
		return 0, t.invalidChar(c)
	}
}

func (t *tokenizer) readBinary() (string, error) {
	return t.readRadix(isBinaryMarker, isBinaryDigit)
}

func (t *tokenizer) readHex() (string, error) {
	return t.readRadix(isHexMarker, isHexDigit)
}

func (t *tokenizer) readRadix(isRadixMarker, isValidForRadix matcher) (string, error) {
	w := strings.Builder{}

	c, err := t.read()
	if err != nil {
		return "", err
	}
	if c == '-' {
		w.WriteByte('-')
		if c, err = t.read(); err != nil {
			return "", err
		}
	}
	if c != '0' {
		return "", t.invalidChar(c)
	}
	w.WriteByte('0')

	if c, err = t.read(); err != nil {
		return "", err
	}
	if !isRadixMarker(c) {
		return "", t.invalidChar(c)
	}
	w.WriteByte(byte(c))

	// 0x/0b cannot be immediately followed by a digit separator.
	next, err := t.peek()
	if err != nil {
		return "", err
	}
	if next == '_' {
		return "", t.invalidChar(c)
	}

	c, err = t.readRadixDigits(isValidForRadix, &w)
	if err != nil {
		return "", err
	}

	ok, err := t.isStopChar(c)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", t.invalidChar(c)
	}
	t.unread(c)

	return w.String(), nil
}

func (t *tokenizer) readRadixDigits(isValidForRadix matcher, w io.ByteWriter) (int, error) {
	for {
		c, err := t.read()
		if err != nil {
			return 0, err
		}
		if c == '_' {
			next, err := t.peek()
			if err != nil {
				return 0, err
			}
			if !isValidForRadix(next) {
				return 0, t.invalidChar(c)
			}
			continue
		}
		if !isValidForRadix(c) {
			return c, nil
		}
		if err := w.WriteByte(byte(c)); err != nil {
			return 0, err
		}
	}
}

// readTimestamp reads a timestamp literal of any precision, from bare
// "yyyyT" up through fractional seconds with an offset.
func (t *tokenizer) readTimestamp() (string, error) {
	w := strings.Builder{}

	c, err := t.readTimestampDigits(4, &w)
	if err != nil {
		return "", err
	}
	if c == 'T' {
		w.WriteByte('T')
		return w.String(), nil
	}
	if c != '-' {
		return "", t.invalidChar(c)
	}
	w.WriteByte('-')

	if c, err = t.readTimestampDigits(2, &w); err != nil {
		return "", err
	}
	if c == 'T' {
		w.WriteByte('T')
		return w.String(), nil
	}
	if c != '-' {
		return "", t.invalidChar(c)
	}
	w.WriteByte('-')

	if c, err = t.readTimestampDigits(2, &w); err != nil {
		return "", err
	}
	if c != 'T' {
		return t.readTimestampFinish(c, &w)
	}
	w.WriteByte('T')

	if c, err = t.read(); err != nil {
		return "", err
	}
	if !isDigit(c) {
		if c, err = t.readTimestampOffset(c, &w); err != nil {
			return "", err
		}
		return t.readTimestampFinish(c, &w)
	}
	w.WriteByte(byte(c))

	if c, err = t.readTimestampDigits(1, &w); err != nil {
		return "", err
	}
	if c != ':' {
		return "", t.invalidChar(c)
	}
	w.WriteByte(':')

	if c, err = t.readTimestampDigits(2, &w); err != nil {
		return "", err
	}
	if c != ':' {
		if c, err = t.readTimestampOffsetOrZ(c, &w); err != nil {
			return "", err
		}
		return t.readTimestampFinish(c, &w)
	}
	w.WriteByte(':')

	if c, err = t.readTimestampDigits(2, &w); err != nil {
		return "", err
	}
	if c != '.' {
		if c, err = t.readTimestampOffsetOrZ(c, &w); err != nil {
			return "", err
		}
		return t.readTimestampFinish(c, &w)
	}
	w.WriteByte('.')

	if c, err = t.read(); err != nil {
		return "", err
	}
	if isDigit(c) {
		if c, err = t.readDigits(c, &w); err != nil {
			return "", err
		}
	}

	if c, err = t.readTimestampOffsetOrZ(c, &w); err != nil {
		return "", err
	}
	return t.readTimestampFinish(c, &w)
}

func (t *tokenizer) readTimestampOffsetOrZ(c int, w io.ByteWriter) (int, error) {
	if c == '-' || c == '+' {
		return t.readTimestampOffset(c, w)
	}
	if c == 'z' || c == 'Z' {
		if err := w.WriteByte(byte(c)); err != nil {
			return 0, err
		}
		return t.read()
	}
	return 0, t.invalidChar(c)
}

func (t *tokenizer) readTimestampOffset(c int, w io.ByteWriter) (int, error) {
	if c != '-' && c != '+' {
		return c, nil
	}
	if err := w.WriteByte(byte(c)); err != nil {
		return 0, err
	}

	c, err := t.readTimestampDigits(2, w)
	if err != nil {
		return 0, err
	}
	if c != ':' {
		return 0, t.invalidChar(c)
	}
	if err := w.WriteByte(':'); err != nil {
		return 0, err
	}
	return t.readTimestampDigits(2, w)
}

func (t *tokenizer) readTimestampDigits(n int, w io.ByteWriter) (int, error) {
	for ; n > 0; n-- {
		c, err := t.read()
		if err != nil {
			return 0, err
		}
		if !isDigit(c) {
			return 0, t.invalidChar(c)
		}
		if err := w.WriteByte(byte(c)); err != nil {
			return 0, err
		}
	}
	return t.read()
}

func (t *tokenizer) readTimestampFinish(c int, w fmt.Stringer) (string, error) {
	ok, err := t.isStopChar(c)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", t.invalidChar(c)
	}
	t.unread(c)
	return w.String(), nil
}

func (t *tokenizer) ReadBlob() (string, error) {
	w := strings.Builder{}

	for {
		c, _, err := t.skipLobWhitespace()
		if err != nil {
			return "", err
		}
		if c == -1 {
			return "", t.invalidChar(c)
		}
		if c == '}' {
			break
		}
		w.WriteByte(byte(c))
	}

	if err := t.expect(func(c int) bool { return c == '}' }); err != nil {
		return "", err
	}

	t.unfinished = false
	return w.String(), nil
}

func (t *tokenizer) ReadShortClob() ([]byte, error) {
	val, err := t.readClob()
	if err != nil {
		return nil, err
	}
	return t.finishClob(val)
}

func (t *tokenizer) ReadLongClob() ([]byte, error) {
	val, err := t.readLongClob()
	if err != nil {
		return nil, err
	}
	return t.finishClob(val)
}

// finishClob consumes the closing "}}" shared by both short and long clobs.
func (t *tokenizer) finishClob(val []byte) ([]byte, error) {
	c, _, err := t.skipLobWhitespace()
	if err != nil {
		return nil, err
	}
	if c != '}' {
		return nil, t.invalidChar(c)
	}
	if err := t.expect(func(c int) bool { return c == '}' }); err != nil {
		return nil, err
	}

	t.unfinished = false
	return val, nil
}

// IsTripleQuote returns true if this is a triple-quote sequence; i.e.:
//
//	'''
func (t *tokenizer) IsTripleQuote() (bool, error) {
	cs, err := t.peekN(2)
	if err == io.EOF {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	if cs[0] == '\'' && cs[1] == '\'' {
		if err := t.skipN(2); err != nil {
			return false, err
		}
		return true, nil
	}

	return false, nil
}

// isInf returns true if the given character begins a '+inf' or '-inf'
// keyword, consuming it if so.
func (t *tokenizer) isInf(c int) (bool, error) {
	if c != '+' && c != '-' {
		return false, nil
	}

	cs, err := t.peekN(5)
	if err != nil && err != io.EOF {
		return false, err
	}

	if len(cs) < 3 || cs[0] != 'i' || cs[1] != 'n' || cs[2] != 'f' {
		return false, nil
	}

	if len(cs) == 3 || isStopChar(cs[3]) {
		if err := t.skipN(3); err != nil {
			return false, err
		}
		return true, nil
	}

	if cs[3] == '/' && len(cs) > 4 && (cs[4] == '/' || cs[4] == '*') {
		// inf followed immediately by a comment also counts.
		if err := t.skipN(3); err != nil {
			return false, err
		}
		return true, nil
	}

	return false, nil
}

// scanForNumericType peeks a bounded number of characters to rule out
// binary, hex, and timestamp forms before committing to reading a plain
// number. Anything it can't resolve this way is read as tokenNumber and
// classified precisely once ReadNumber runs.
func (t *tokenizer) scanForNumericType(c int) (token, error) {
	if !isDigit(c) {
		panic("scanForNumericType with non-digit")
	}

	cs, err := t.peekN(4)
	if err != nil && err != io.EOF {
		return tokenError, err
	}

	if c == '0' && len(cs) > 0 {
		switch {
		case cs[0] == 'b' || cs[0] == 'B':
			return tokenBinary, nil
		case cs[0] == 'x' || cs[0] == 'X':
			return tokenHex, nil
		}
	}

	if len(cs) >= 4 && isDigit(cs[0]) && isDigit(cs[1]) && isDigit(cs[2]) {
		if cs[3] == '-' || cs[3] == 'T' {
			return tokenTimestamp, nil
		}
	}

	return tokenNumber, nil
}

// isStopChar reports whether c is a valid way to end an unquoted value.
// It may peek one further character to rule in a following comment, so
// don't call it with a character you've already peeked at.
func (t *tokenizer) isStopChar(c int) (bool, error) {
	if isStopChar(c) {
		return true, nil
	}
	if c == '/' {
		c2, err := t.peek()
		if err != nil {
			return false, err
		}
		if c2 == '/' || c2 == '*' {
			return true, nil
		}
	}
	return false, nil
}

type matcher func(int) bool

// expect reads a byte and asserts it matches f, returning an error if not.
func (t *tokenizer) expect(f matcher) error {
	c, err := t.read()
	if err != nil {
		return err
	}
	if !f(c) {
		return t.invalidChar(c)
	}
	return nil
}

// invalidChar builds an error complaining that c was unexpected here.
func (t *tokenizer) invalidChar(c int) error {
	if c == -1 {
		return &UnexpectedEOFError{t.pos - 1}
	}
	return &UnexpectedRuneError{rune(c), t.pos - 1}
}

// skipN skips n bytes of input already peeked at and judged not worth
// keeping.
func (t *tokenizer) skipN(n int) error {
	for i := 0; i < n; i++ {
		c, err := t.read()
		if err != nil {
			return err
		}
		if c == -1 {
			break
		}
	}
	return nil
}

// peekN peeks at the next n bytes without consuming them. Unlike
// read/peek it does not return -1 for EOF; if fewer than n bytes remain
// it returns what it could get along with the error that stopped it.
func (t *tokenizer) peekN(n int) ([]int, error) {
	var (
		ret []int
		err error
	)

	for i := 0; i < n; i++ {
		var c int
		c, err = t.read()
		if err != nil {
			break
		}
		if c == -1 {
			err = io.EOF
			break
		}
		ret = append(ret, c)
	}

	if err == io.EOF {
		t.unread(-1)
	}
	for i := len(ret) - 1; i >= 0; i-- {
		t.unread(ret[i])
	}

	return ret, err
}

// peek returns the next byte of input without removing it.
func (t *tokenizer) peek() (int, error) {
	if len(t.buffer) > 0 {
		return t.buffer[len(t.buffer)-1], nil
	}

	c, err := t.read()
	if err != nil {
		return 0, err
	}

	t.unread(c)
	return c, nil
}

// read reads a byte from the underlying reader. EOF comes back as
// (-1, nil) rather than (0, io.EOF) — easier to switch on. \r and \r\n
// are normalized to \n.
func (t *tokenizer) read() (int, error) {
	t.pos++
	if len(t.buffer) > 0 {
		c := t.buffer[len(t.buffer)-1]
		t.buffer = t.buffer[:len(t.buffer)-1]
		return c, nil
	}

	c, err := t.in.ReadByte()
	if err == io.EOF {
		return -1, nil
	}
	if err != nil {
		return 0, newIOError(err)
	}

	if c == '\r' {
		cs, err := t.in.Peek(1)
		if err != nil && err != io.EOF {
			return 0, newIOError(err)
		}
		if len(cs) > 0 && cs[0] == '\n' {
			if _, err := t.in.ReadByte(); err != nil {
				return 0, err
			}
		}
		return '\n', nil
	}

	return int(c), nil
}

// unread pushes c back into the input stream to be read again later.
func (t *tokenizer) unread(c int) {
	t.pos--
	t.buffer = append(t.buffer, c)
}

// isProhibitedControlChar reports whether c is one of the C0 control
// characters Ion text forbids inside quoted strings/clobs (anything below
// 0x20 except the whitespace characters it explicitly allows).
func isProhibitedControlChar(c int) bool {
	if c < 0x00 || c > 0x1F {
		return false
	}
	return !isStringWhitespace(c) && !isNewLineChar(c)
}

func isStringWhitespace(c int) bool {
	return c == 0x09 || c == 0x0B || c == 0x0C
}

func isNewLineChar(c int) bool {
	return c == 0x0A || c == 0x0D
}

// isASCII returns true if c is a 7-bit ASCII character.
func isASCII(c int) bool {
	return c < 0x80
}

func processBackslashInString(t *tokenizer, sb *strings.Builder) error {
	c, err := t.peek()
	if err != nil {
		return err
	}
	if c == '\n' {
		_, err = t.read()
		return err
	}

	r, err := t.readEscapedChar(nonClobText)
	if err != nil {
		return err
	}
	sb.WriteRune(r)
	return nil
}

func processBackslashInClob(t *tokenizer, ret *[]byte) error {
	c, err := t.peek()
	if err != nil {
		return err
	}
	if c == '\n' {
		_, err = t.read()
		return err
	}

	r, err := t.readEscapedChar(clobText)
	if err != nil {
		return err
	}
	*ret = append(*ret, byte(r))
	return nil
}
