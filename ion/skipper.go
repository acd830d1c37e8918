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
	"fmt"
	"io"
)

// SkipContainerContents discards everything between a container's opening
// and closing delimiter, for a caller that has no interest in stepping in.
func (t *tokenizer) SkipContainerContents(typ Type) error {
	term, ok := containerTerminators[typ]
	if !ok {
		panic(fmt.Sprintf("invalid container type: %v", typ))
	}
	return t.skipContainerHelper(term)
}

// containerTerminators maps each container Type to the byte that closes it
// in text Ion.
var containerTerminators = map[Type]int{
	StructType: '}',
	ListType:   ']',
	SexpType:   ')',
}

// SkipDoubleColon skips leading whitespace and, if present, a "::"
// annotation separator, reporting both whether one was found and whether
// any whitespace was consumed getting there.
func (t *tokenizer) SkipDoubleColon() (found, skippedWS bool, err error) {
	skippedWS, err = t.skipWhitespaceHelper()
	if err != nil {
		return false, false, err
	}
	found, err = t.skipDoubleColon()
	if err != nil {
		return false, false, err
	}
	return found, skippedWS, nil
}

// SkipDot peeks for a '.' and consumes it if found, otherwise leaves the
// stream untouched.
func (t *tokenizer) SkipDot() (bool, error) {
	c, err := t.peek()
	if err != nil {
		return false, err
	}
	if c != '.' {
		return false, nil
	}
	if _, err := t.read(); err != nil {
		return false, err
	}
	return true, nil
}

// SkipLobWhitespace skips whitespace inside a blob or clob body, where
// comments aren't recognized and a '/' instead signals base64 content.
func (t *tokenizer) SkipLobWhitespace() (int, error) {
	c, _, err := t.skipLobWhitespace()
	return c, err
}

// skipValue discards whatever token the tokenizer is currently sitting on,
// dispatching to the skip routine that matches its kind, then consumes any
// trailing whitespace so the stream is left at the start of the next token.
func (t *tokenizer) skipValue() (int, error) {
	skip, ok := valueSkippers[t.token]
	if !ok {
		panic(fmt.Sprintf("skipValue called with token=%v", t.token))
	}

	c, err := skip(t)
	if err != nil {
		return 0, err
	}

	if isWhitespace(c) {
		if c, _, err = t.skipWhitespace(); err != nil {
			return 0, err
		}
	}

	t.unfinished = false
	return c, nil
}

// valueSkippers dispatches skipValue by token kind.
var valueSkippers = map[token]func(*tokenizer) (int, error){
	tokenNumber:          (*tokenizer).skipNumber,
	tokenBinary:          (*tokenizer).skipBinary,
	tokenHex:             (*tokenizer).skipHex,
	tokenTimestamp:       (*tokenizer).skipTimestamp,
	tokenSymbol:          (*tokenizer).skipSymbol,
	tokenSymbolQuoted:    (*tokenizer).skipSymbolQuoted,
	tokenSymbolOperator:  (*tokenizer).skipSymbolOperator,
	tokenString:          (*tokenizer).skipString,
	tokenLongString:      (*tokenizer).skipLongString,
	tokenOpenDoubleBrace: (*tokenizer).skipBlob,
	tokenOpenBrace:       (*tokenizer).skipStruct,
	tokenOpenParen:       (*tokenizer).skipSexp,
	tokenOpenBracket:     (*tokenizer).skipList,
}

// skipNumber skips a non-binary, non-hex number literal.
func (t *tokenizer) skipNumber() (int, error) {
	c, err := t.read()
	if err != nil {
		return 0, err
	}

	if c == '-' {
		if c, err = t.read(); err != nil {
			return 0, err
		}
	}

	if c, err = t.skipDigits(c); err != nil {
		return 0, err
	}

	if c == '.' {
		if c, err = t.read(); err != nil {
			return 0, err
		}
		if c, err = t.skipDigits(c); err != nil {
			return 0, err
		}
	}

	if c == 'd' || c == 'D' || c == 'e' || c == 'E' {
		if c, err = t.read(); err != nil {
			return 0, err
		}
		if c == '+' || c == '-' {
			if c, err = t.read(); err != nil {
				return 0, err
			}
		}
		if c, err = t.skipDigits(c); err != nil {
			return 0, err
		}
	}

	return t.requireStopChar(c)
}

func isBinaryMarker(c int) bool { return c == 'b' || c == 'B' }
func isBinaryDigit(c int) bool { return c == '0' || c == '1' }
func isHexMarker(c int) bool   { return c == 'x' || c == 'X' }

// skipBinary skips a 0b-prefixed binary integer literal.
func (t *tokenizer) skipBinary() (int, error) {
	return t.skipRadix(isBinaryMarker, isBinaryDigit)
}

// skipHex skips a 0x-prefixed hex integer literal.
func (t *tokenizer) skipHex() (int, error) {
	return t.skipRadix(isHexMarker, isHexDigit)
}

// skipRadix skips a radix-prefixed integer: an optional '-', a mandatory
// leading '0', the radix marker, and however many digits are valid for
// that radix.
func (t *tokenizer) skipRadix(isRadixMarker, isValidDigit matcher) (int, error) {
	c, err := t.read()
	if err != nil {
		return 0, err
	}

	if c == '-' {
		if c, err = t.read(); err != nil {
			return 0, err
		}
	}

	if c != '0' {
		return 0, t.invalidChar(c)
	}
	if err := t.expect(isRadixMarker); err != nil {
		return 0, err
	}

	for {
		if c, err = t.read(); err != nil {
			return 0, err
		}
		if !isValidDigit(c) {
			break
		}
	}

	return t.requireStopChar(c)
}

// skipTimestamp walks a text timestamp one component at a time, stopping
// as soon as precision runs out, and returns the first character past it.
func (t *tokenizer) skipTimestamp() (int, error) {
	c, err := t.skipTimestampDigits(4) // yyyy
	if err != nil {
		return 0, err
	}
	if c == 'T' {
		return t.read() // yyyyT
	}
	if c != '-' {
		return 0, t.invalidChar(c)
	}

	if c, err = t.skipTimestampDigits(2); err != nil { // yyyy-mm
		return 0, err
	}
	if c == 'T' {
		return t.read() // yyyy-mmT
	}
	if c != '-' {
		return 0, t.invalidChar(c)
	}

	if c, err = t.skipTimestampDigits(2); err != nil { // yyyy-mm-dd
		return 0, err
	}
	if c != 'T' {
		return t.skipTimestampFinish(c)
	}

	if c, err = t.read(); err != nil {
		return 0, err
	}
	if !isDigit(c) {
		// yyyy-mm-ddT(+hh:mm)?
		if c, err = t.skipTimestampOffset(c); err != nil {
			return 0, err
		}
		return t.skipTimestampFinish(c)
	}

	// The first hour digit was already consumed above.
	if c, err = t.skipTimestampDigits(1); err != nil {
		return 0, err
	}
	if c != ':' {
		return 0, t.invalidChar(c)
	}

	if c, err = t.skipTimestampDigits(2); err != nil {
		return 0, err
	}
	if c != ':' {
		// yyyy-mm-ddThh:mmZ
		if c, err = t.skipTimestampOffsetOrZ(c); err != nil {
			return 0, err
		}
		return t.skipTimestampFinish(c)
	}

	if c, err = t.skipTimestampDigits(2); err != nil {
		return 0, err
	}
	if c != '.' {
		// yyyy-mm-ddThh:mm:ssZ
		if c, err = t.skipTimestampOffsetOrZ(c); err != nil {
			return 0, err
		}
		return t.skipTimestampFinish(c)
	}

	// yyyy-mm-ddThh:mm:ss.ssssZ
	if c, err = t.read(); err != nil {
		return 0, err
	}
	if isDigit(c) {
		if c, err = t.skipDigits(c); err != nil {
			return 0, err
		}
	}

	if c, err = t.skipTimestampOffsetOrZ(c); err != nil {
		return 0, err
	}
	return t.skipTimestampFinish(c)
}

// skipTimestampOffsetOrZ skips the mandatory offset-or-'Z' that follows a
// timestamp's seconds or minutes field.
func (t *tokenizer) skipTimestampOffsetOrZ(c int) (int, error) {
	if c == '-' || c == '+' {
		return t.skipTimestampOffset(c)
	}
	if c == 'z' || c == 'Z' {
		return t.read()
	}
	return 0, t.invalidChar(c)
}

// skipTimestampOffset skips an optional "+hh:mm"/"-hh:mm" zone offset.
func (t *tokenizer) skipTimestampOffset(c int) (int, error) {
	if c != '-' && c != '+' {
		return c, nil
	}

	c, err := t.skipTimestampDigits(2)
	if err != nil {
		return 0, err
	}
	if c != ':' {
		return 0, t.invalidChar(c)
	}
	return t.skipTimestampDigits(2)
}

// skipTimestampDigits requires exactly n digits, then returns the
// character immediately following them.
func (t *tokenizer) skipTimestampDigits(n int) (int, error) {
	for ; n > 0; n-- {
		if err := t.expect(isDigit); err != nil {
			return 0, err
		}
	}
	return t.read()
}

// skipTimestampFinish confirms c is a legal character to end a timestamp
// on, returning it unchanged if so.
func (t *tokenizer) skipTimestampFinish(c int) (int, error) {
	return t.requireStopChar(c)
}

// requireStopChar confirms c is a valid value terminator and returns it,
// or fails with invalidChar if it isn't.
func (t *tokenizer) requireStopChar(c int) (int, error) {
	ok, err := t.isStopChar(c)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, t.invalidChar(c)
	}
	return c, nil
}

// skipSymbol skips an unquoted identifier symbol.
func (t *tokenizer) skipSymbol() (int, error) {
	c, err := t.read()
	if err != nil {
		return 0, err
	}
	for isIdentifierPart(c) {
		if c, err = t.read(); err != nil {
			return 0, err
		}
	}
	return c, nil
}

// skipSymbolQuoted skips a '-quoted symbol and returns the next character.
func (t *tokenizer) skipSymbolQuoted() (int, error) {
	if err := t.skipSymbolQuotedHelper(); err != nil {
		return 0, err
	}
	return t.read()
}

// skipSymbolQuotedHelper skips the body of a '-quoted symbol, leaving the
// stream positioned right after the closing quote.
func (t *tokenizer) skipSymbolQuotedHelper() error {
	for {
		c, err := t.read()
		if err != nil {
			return err
		}
		switch c {
		case -1, '\n':
			return t.invalidChar(c)
		case '\'':
			return nil
		case '\\':
			if _, err := t.read(); err != nil {
				return err
			}
		}
	}
}

// skipSymbolOperator skips a run of operator characters forming a symbol
// inside an sexp.
func (t *tokenizer) skipSymbolOperator() (int, error) {
	c, err := t.read()
	if err != nil {
		return 0, err
	}
	for isOperatorChar(c) {
		if c, err = t.read(); err != nil {
			return 0, err
		}
	}
	return c, nil
}

// skipString skips a "-enclosed string, returning the next character.
func (t *tokenizer) skipString() (int, error) {
	if err := t.skipStringHelper(); err != nil {
		return 0, err
	}
	return t.read()
}

// skipStringHelper skips the body of a "-enclosed string, leaving the
// stream positioned right after the closing quote.
func (t *tokenizer) skipStringHelper() error {
	for {
		c, err := t.read()
		if err != nil {
			return err
		}
		switch c {
		case -1, '\n':
			return t.invalidChar(c)
		case '"':
			return nil
		case '\\':
			if _, err := t.read(); err != nil {
				return err
			}
		}
	}
}

// skipLongString skips a triple-quoted string, returning the character
// right after its closing triple-quote.
func (t *tokenizer) skipLongString() (int, error) {
	if err := t.skipLongStringHelper(t.skipCommentsHandler); err != nil {
		return 0, err
	}
	return t.read()
}

// skipLongStringHelper skips the body of a triple-quoted string. Adjacent
// triple-quoted strings (separated only by whitespace/comments) concatenate
// in Ion, so it keeps going across those boundaries rather than stopping
// at the first closing triple-quote it sees.
func (t *tokenizer) skipLongStringHelper(handler commentHandler) error {
	for {
		c, err := t.read()
		if err != nil {
			return err
		}
		switch c {
		case -1:
			return t.invalidChar(c)
		case '\'':
			done, _, err := t.skipEndOfLongString(handler)
			if err != nil {
				return err
			}
			if done {
				return nil
			}
		case '\\':
			if _, err := t.read(); err != nil {
				return err
			}
		}
	}
}

// skipEndOfLongString is called right after reading a single ' to decide
// whether it begins the closing triple-quote. It reports whether the long
// string is actually finished, and whether any ' characters were consumed
// while checking (the latter only matters to a caller that needs to keep
// its own count of quote characters seen).
func (t *tokenizer) skipEndOfLongString(handler commentHandler) (done, consumed bool, err error) {
	cs, err := t.peekN(2)
	if err != nil && err != io.EOF {
		return false, false, err
	}
	if len(cs) < 2 || cs[0] != '\'' || cs[1] != '\'' {
		return false, false, nil
	}

	if err := t.skipN(2); err != nil {
		return false, true, err
	}

	c, _, err := t.skipWhitespaceWith(handler)
	if err != nil {
		return false, true, err
	}

	if c == '\'' {
		// Another triple-quote follows (Ion's adjacent-long-string
		// concatenation): this one isn't the end after all.
		ok, err := t.IsTripleQuote()
		if err != nil {
			return false, true, err
		}
		if ok {
			return false, true, nil
		}
	}

	t.unread(c)
	return true, true, nil
}

// skipBlob skips a {{ }}-enclosed blob, returning the next character.
func (t *tokenizer) skipBlob() (int, error) {
	if err := t.skipBlobHelper(); err != nil {
		return 0, err
	}
	return t.read()
}

// skipBlobHelper skips a blob body, stopping just after its closing '}'.
func (t *tokenizer) skipBlobHelper() error {
	c, _, err := t.skipLobWhitespace()
	if err != nil {
		return err
	}

	// https://github.com/amazon-ion/ion-go/issues/115
	for c != '}' {
		if c, _, err = t.skipLobWhitespace(); err != nil {
			return err
		}
		if c == -1 {
			return t.invalidChar(c)
		}
	}

	return t.expect(func(c int) bool { return c == '}' })
}

func (t *tokenizer) skipStruct() (int, error)       { return t.skipContainer('}') }
func (t *tokenizer) skipStructHelper() error        { return t.skipContainerHelper('}') }
func (t *tokenizer) skipSexp() (int, error)         { return t.skipContainer(')') }
func (t *tokenizer) skipSexpHelper() error          { return t.skipContainerHelper(')') }
func (t *tokenizer) skipList() (int, error)         { return t.skipContainer(']') }
func (t *tokenizer) skipListHelper() error          { return t.skipContainerHelper(']') }

// skipContainer skips a container closed by term and returns the character
// right after it.
func (t *tokenizer) skipContainer(term int) (int, error) {
	if err := t.skipContainerHelper(term); err != nil {
		return 0, err
	}
	return t.read()
}

// skipContainerHelper walks a container's contents one token at a time
// until it hits the unnested closing delimiter term, recursing into any
// nested containers, strings, or lobs it encounters along the way so their
// delimiters don't get mistaken for the outer one's.
func (t *tokenizer) skipContainerHelper(term int) error {
	if term != ']' && term != ')' && term != '}' {
		panic(fmt.Sprintf("unexpected character: %q. Expected one of the closing container characters: ] } )", term))
	}

	for {
		c, _, err := t.skipWhitespace()
		if err != nil {
			return err
		}

		switch c {
		case -1:
			return t.invalidChar(c)

		case term:
			return nil

		case '"':
			if err := t.skipStringHelper(); err != nil {
				return err
			}

		case '\'':
			ok, err := t.IsTripleQuote()
			if err != nil {
				return err
			}
			if ok {
				err = t.skipLongStringHelper(t.skipCommentsHandler)
			} else {
				err = t.skipSymbolQuotedHelper()
			}
			if err != nil {
				return err
			}

		case '(':
			if err := t.skipContainerHelper(')'); err != nil {
				return err
			}

		case '[':
			if err := t.skipContainerHelper(']'); err != nil {
				return err
			}

		case '{':
			if err := t.skipBraceOrContainer(); err != nil {
				return err
			}
		}
	}
}

// skipBraceOrContainer is called right after a lone '{' was seen inside a
// container. It disambiguates the three things that can follow: a second
// '{' starting a blob, an immediate '}' closing an empty struct, or the
// body of a populated struct.
func (t *tokenizer) skipBraceOrContainer() error {
	c, err := t.peek()
	if err != nil {
		return err
	}

	switch c {
	case '{':
		if _, err := t.read(); err != nil {
			return err
		}
		return t.skipBlobHelper()
	case '}':
		_, err := t.read()
		return err
	default:
		return t.skipContainerHelper('}')
	}
}

// skipDigits consumes digits starting with c (already read) and returns the
// first non-digit character.
func (t *tokenizer) skipDigits(c int) (int, error) {
	var err error
	for err == nil && isDigit(c) {
		c, err = t.read()
	}
	return c, err
}

// skipWhitespace skips whitespace and comments, the normal rule outside of
// lobs and quoted text.
func (t *tokenizer) skipWhitespace() (int, bool, error) {
	return t.skipWhitespaceWith(t.skipCommentsHandler)
}

// skipWhitespaceHelper is skipWhitespace but unreads the first
// non-whitespace character instead of returning it.
func (t *tokenizer) skipWhitespaceHelper() (bool, error) {
	c, ok, err := t.skipWhitespace()
	if err != nil {
		return false, err
	}
	t.unread(c)
	return ok, nil
}

// skipLobWhitespace skips whitespace inside a blob or clob, where a '/'
// always means base64 content rather than a comment.
func (t *tokenizer) skipLobWhitespace() (int, bool, error) {
	return t.skipWhitespaceWith(stopForCommentsHandler)
}

// commentHandler decides what to do when whitespace-skipping hits a '/':
// it reports whether the '/' turned out to start a comment (which it then
// has already consumed), or an error if the comment was malformed.
type commentHandler func() (bool, error)

// skipWhitespaceWith consumes whitespace characters and, via handler,
// comments, until it reaches something else. It reports that character and
// whether anything at all was skipped to reach it.
func (t *tokenizer) skipWhitespaceWith(handler commentHandler) (int, bool, error) {
	skipped := false
	for {
		c, err := t.read()
		if err != nil {
			return 0, skipped, err
		}

		switch c {
		case ' ', '\t', '\n', '\r':
			// consumed below

		case '/':
			isComment, err := handler()
			if err != nil {
				return 0, skipped, err
			}
			if !isComment {
				return '/', skipped, nil
			}

		default:
			return c, skipped, nil
		}
		skipped = true
	}
}

// stopForCommentsHandler is a commentHandler for contexts (lobs) where '/'
// can never start a comment.
func stopForCommentsHandler() (bool, error) {
	return false, nil
}

// ensureNoCommentsHandler is a commentHandler that rejects any comment
// outright, for contexts (clobs) where they're disallowed entirely.
func (t *tokenizer) ensureNoCommentsHandler() (bool, error) {
	return false, &UnexpectedTokenError{"comments are not allowed within a clob", t.Pos() - 1}
}

// skipCommentsHandler is a commentHandler that recognizes and skips both
// "//" and "/* */" comment forms.
func (t *tokenizer) skipCommentsHandler() (bool, error) {
	c, err := t.peek()
	if err != nil {
		return false, err
	}

	switch c {
	case '/':
		return true, t.skipSingleLineComment()
	case '*':
		return true, t.skipBlockComment()
	default:
		return false, nil
	}
}

// skipSingleLineComment skips to the end of the line (or stream).
func (t *tokenizer) skipSingleLineComment() error {
	for {
		c, err := t.read()
		if err != nil {
			return err
		}
		if c == -1 || c == '\n' {
			return nil
		}
	}
}

// skipBlockComment skips to the closing "*/".
func (t *tokenizer) skipBlockComment() error {
	sawStar := false
	for {
		c, err := t.read()
		if err != nil {
			return err
		}
		if c == -1 {
			return t.invalidChar(c)
		}
		if sawStar && c == '/' {
			return nil
		}
		sawStar = c == '*'
	}
}

// skipDoubleColon peeks for a "::" annotation separator and consumes it if
// found, leaving the stream untouched otherwise.
func (t *tokenizer) skipDoubleColon() (bool, error) {
	cs, err := t.peekN(2)
	if err == io.EOF {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	if cs[0] == ':' && cs[1] == ':' {
		if err := t.skipN(2); err != nil {
			return false, err
		}
		return true, nil
	}
	return false, nil
}
