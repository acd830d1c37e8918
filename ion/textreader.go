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
	"encoding/base64"
	"fmt"
	"math"
	"strconv"
)

// trs (text reader state) tracks what kind of token the tokenizer should
// hand the reader next: a field name, an annotation/value, the open of a
// container, or whatever follows a value that's already been read.
type trs uint8

const (
	trsDone trs = iota
	trsBeforeFieldName
	trsBeforeTypeAnnotations
	trsBeforeContainer
	trsAfterValue
)

var trsNames = [...]string{
	trsDone:                  "<done>",
	trsBeforeFieldName:       "<beforeFieldName>",
	trsBeforeTypeAnnotations: "<beforeTypeAnnotations>",
	trsBeforeContainer:       "<beforeContainer>",
	trsAfterValue:            "<afterValue>",
}

func (s trs) String() string {
	if int(s) < len(trsNames) {
		return trsNames[s]
	}
	return strconv.Itoa(int(s))
}

// textReader drives a tokenizer over the state machine in trs, translating
// the raw token stream into the Reader contract: one call to Next advances
// past exactly one value (or field name, for struct contents), regardless
// of how many tokens that required.
type textReader struct {
	reader

	tok   tokenizer
	state trs
	cat   Catalog
}

func newTextReaderBuf(in *bufio.Reader, cat Catalog) Reader {
	tr := textReader{
		cat: cat,
		tok: tokenizer{
			in: in,
		},
		state: trsBeforeTypeAnnotations,
	}
	tr.lst = V1SystemSymbolTable

	return &tr
}

// Next advances to the next value, first skipping past whatever's left of
// the current one. It may consume several tokens (annotations, a field
// name and colon) before landing on the token that decides the value, so
// it loops over the state machine until one of the state handlers reports
// it has enough to proceed.
func (t *textReader) Next() bool {
	if t.state == trsDone || t.eof {
		return false
	}

	if err := t.finishValue(); err != nil {
		t.explode(err)
		return false
	}

	t.clear()

	for {
		if err := t.tok.Next(); err != nil {
			t.explode(err)
			return false
		}

		var (
			done bool
			err  error
		)

		switch t.state {
		case trsAfterValue:
			done, err = t.nextAfterValue()
		case trsBeforeFieldName:
			done, err = t.nextBeforeFieldName()
		case trsBeforeTypeAnnotations:
			done, err = t.nextBeforeTypeAnnotations()
		default:
			panic(fmt.Sprintf("unexpected state: %v", t.state))
		}
		if err != nil {
			t.explode(err)
			return false
		}

		if done {
			// Hit the terminator of the enclosing sequence (eof set) or
			// landed on a value (eof unset): either way, stop looping.
			return !t.eof
		}
	}
}

// nextAfterValue handles the token immediately following a value: either a
// comma introducing a sibling, or the close of the container we're in.
func (t *textReader) nextAfterValue() (bool, error) {
	tok := t.tok.Token()
	switch tok {
	case tokenComma:
		switch t.ctx.peek() {
		case ctxInStruct:
			t.state = trsBeforeFieldName
		case ctxInList:
			t.state = trsBeforeTypeAnnotations
		default:
			panic(fmt.Sprintf("unexpected context: %v", t.ctx.peek()))
		}
		return false, nil

	case tokenCloseBrace:
		if t.ctx.peek() == ctxInStruct {
			t.eof = true
			return true, nil
		}
		return false, &UnexpectedTokenError{"}", t.tok.Pos() - 1}

	case tokenCloseBracket:
		if t.ctx.peek() == ctxInList {
			t.eof = true
			return true, nil
		}
		return false, &UnexpectedTokenError{"]", t.tok.Pos() - 1}

	default:
		return false, &UnexpectedTokenError{tok.String(), t.tok.Pos() - 1}
	}
}

// nextBeforeFieldName reads the "name:" prefix of a struct field, or
// notices the struct has ended.
func (t *textReader) nextBeforeFieldName() (bool, error) {
	tok := t.tok.Token()
	switch tok {
	case tokenCloseBrace:
		t.eof = true
		return true, nil

	case tokenSymbol, tokenSymbolQuoted, tokenString, tokenLongString:
		val, err := t.tok.ReadValue(tok)
		if err != nil {
			return false, err
		}
		if tok == tokenSymbol {
			if err := t.verifyUnquotedSymbol(val, "field name"); err != nil {
				return false, err
			}
		}

		if tok == tokenSymbolQuoted {
			t.fieldName = &SymbolToken{Text: &val, LocalSID: SymbolIDUnknown}
		} else {
			st, err := newSymbolToken(t.SymbolTable(), val)
			if err != nil {
				return false, err
			}
			t.fieldName = &st
		}

		if err := t.tok.Next(); err != nil {
			return false, err
		}
		if tok := t.tok.Token(); tok != tokenColon {
			return false, &UnexpectedTokenError{tok.String(), t.tok.Pos() - 1}
		}

		t.state = trsBeforeTypeAnnotations
		return false, nil

	default:
		return false, &UnexpectedTokenError{tok.String(), t.tok.Pos() - 1}
	}
}

// nextBeforeTypeAnnotations is the workhorse state: it either accumulates
// another leading annotation and loops, or recognizes the token that
// begins a value and dispatches to the handler that reads it.
func (t *textReader) nextBeforeTypeAnnotations() (bool, error) {
	tok := t.tok.Token()
	switch tok {
	case tokenEOF:
		if t.ctx.peek() == ctxAtTopLevel {
			t.eof = true
			return true, nil
		}
		return false, &UnexpectedEOFError{t.tok.Pos() - 1}

	case tokenSymbolOperator, tokenDot:
		if t.ctx.peek() != ctxInSexp {
			return false, &UnexpectedTokenError{tok.String(), t.tok.Pos() - 1}
		}
		fallthrough

	case tokenSymbolQuoted, tokenSymbol:
		return t.nextSymbolOrAnnotation(tok)

	case tokenString, tokenLongString:
		val, err := t.tok.ReadValue(tok)
		if err != nil {
			return false, err
		}
		t.state = t.stateAfterValue()
		t.valueType = StringType
		t.value = val
		return true, nil

	case tokenBinary, tokenHex, tokenNumber, tokenFloatInf, tokenFloatMinusInf:
		if err := t.onNumber(tok); err != nil {
			return false, err
		}
		return true, nil

	case tokenTimestamp:
		if err := t.onTimestamp(); err != nil {
			return false, err
		}
		return true, nil

	case tokenOpenDoubleBrace:
		if err := t.onLob(); err != nil {
			return false, err
		}
		return true, nil

	case tokenOpenBrace:
		return t.nextStruct()

	case tokenOpenBracket:
		t.state = trsBeforeContainer
		t.valueType = ListType
		t.value = ListType
		return true, nil

	case tokenOpenParen:
		t.state = trsBeforeContainer
		t.valueType = SexpType
		t.value = SexpType
		return true, nil

	case tokenCloseBracket:
		if t.ctx.peek() == ctxInList {
			t.eof = true
			return true, nil
		}
		return false, &UnexpectedTokenError{"]", t.tok.Pos() - 1}

	case tokenCloseParen:
		if t.ctx.peek() == ctxInSexp {
			t.eof = true
			return true, nil
		}
		return false, &UnexpectedTokenError{")", t.tok.Pos() - 1}

	default:
		return false, &UnexpectedTokenError{tok.String(), t.tok.Pos() - 1}
	}
}

// nextSymbolOrAnnotation reads a bare or quoted symbol and figures out
// whether it's a leading annotation (followed by "::") or the value
// itself.
func (t *textReader) nextSymbolOrAnnotation(tok token) (bool, error) {
	val, err := t.tok.ReadValue(tok)
	if err != nil {
		return false, err
	}

	isAnnotation, ws, err := t.tok.SkipDoubleColon()
	if err != nil {
		return false, err
	}

	if isAnnotation {
		if tok == tokenSymbol {
			if err := t.verifyUnquotedSymbol(val, "annotation"); err != nil {
				return false, err
			}
		} else if tok == tokenSymbolOperator {
			return false, &SyntaxError{
				"annotations that include a '" + val + "' must be enclosed in quotes", t.tok.Pos() - 1}
		}

		var token SymbolToken
		if tok == tokenSymbolQuoted {
			token = SymbolToken{Text: &val, LocalSID: SymbolIDUnknown}
		} else {
			token, err = newSymbolToken(t.SymbolTable(), val)
			if err != nil {
				return false, err
			}
		}

		t.annotations = append(t.annotations, token)
		return false, nil
	}

	if tok == tokenSymbolQuoted {
		t.value = &SymbolToken{Text: &val, LocalSID: SymbolIDUnknown}
		t.valueType = SymbolType
		t.state = t.stateAfterValue()
	} else if err := t.onSymbol(val, tok, ws); err != nil {
		return false, err
	}
	return true, nil
}

// nextStruct handles a leading '{': either the start of an ordinary struct
// value, or — at the top level with a $ion_symbol_table annotation — the
// struct that installs a new local symbol table instead of surfacing as a
// value.
func (t *textReader) nextStruct() (bool, error) {
	t.state = trsBeforeContainer
	t.valueType = StructType
	t.value = StructType

	if t.ctx.peek() == ctxAtTopLevel && isIonSymbolTable(t.annotations) {
		if t.IsNull() {
			t.clear()
			t.lst = V1SystemSymbolTable
			return false, nil
		}

		st, err := readLocalSymbolTable(t, t.cat)
		if err != nil {
			return false, err
		}
		t.lst = st
		return false, nil
	}

	return true, nil
}

// StepIn steps in to the container the reader is currently positioned on.
func (t *textReader) StepIn() error {
	if t.err != nil {
		return t.err
	}
	if t.state != trsBeforeContainer {
		return &UsageError{"Reader.StepIn", fmt.Sprintf("cannot step in to a %v", t.valueType)}
	}

	ctx := containerTypeToCtx(t.valueType)
	t.ctx.push(ctx)

	if ctx == ctxInStruct {
		t.state = trsBeforeFieldName
	} else {
		t.state = trsBeforeTypeAnnotations
	}
	t.clear()

	t.tok.SetFinished()
	return nil
}

// StepOut steps out of the current container, skipping over any remaining
// sibling values first.
func (t *textReader) StepOut() error {
	if t.err != nil {
		return t.err
	}

	ctx := t.ctx.peek()
	if ctx == ctxAtTopLevel {
		return &UsageError{"Reader.StepOut", "cannot step out of top-level datagram"}
	}
	ctype := ctxToContainerType(ctx)

	if _, err := t.tok.FinishValue(); err != nil {
		t.explode(err)
		return err
	}

	if !t.eof {
		if err := t.tok.SkipContainerContents(ctype); err != nil {
			t.explode(err)
			return err
		}
	}

	t.ctx.pop()
	t.state = t.stateAfterValue()
	t.clear()
	t.eof = false

	return nil
}

// verifyUnquotedSymbol rejects the handful of bare words the grammar
// reserves for literals (null, true, false, nan) when they show up
// somewhere only a real symbol is allowed, like a field name.
func (t *textReader) verifyUnquotedSymbol(val string, ctx string) error {
	switch val {
	case "null", "true", "false", "nan":
		return &SyntaxError{fmt.Sprintf("unquoted keyword '%v' as %v", val, ctx), t.tok.Pos() - 1}
	}
	return nil
}

// onSymbol classifies a bare (or operator/dot) symbol: it's one of the
// reserved literals, or an ordinary symbol value to resolve against the
// active symbol table.
func (t *textReader) onSymbol(val string, tok token, ws bool) error {
	valueType := SymbolType
	var value interface{} = val

	if tok == tokenSymbol || tok == tokenSymbolOperator || tok == tokenDot {
		switch val {
		case "null":
			vt, err := t.onNull(ws)
			if err != nil {
				return err
			}
			valueType = vt
			value = nil

		case "true":
			valueType = BoolType
			value = true

		case "false":
			valueType = BoolType
			value = false

		case "nan":
			valueType = FloatType
			value = math.NaN()

		default:
			st, err := newSymbolToken(t.SymbolTable(), val)
			if err != nil {
				return err
			}
			value = &st
		}
	}

	t.state = t.stateAfterValue()
	t.valueType = valueType
	t.value = value

	return nil
}

// onNull reads the null literal, checking for a "null.type" suffix unless
// whitespace already separates it from whatever comes next.
func (t *textReader) onNull(ws bool) (Type, error) {
	if !ws {
		ok, err := t.tok.SkipDot()
		if err != nil {
			return NoType, err
		}
		if ok {
			return t.readNullType()
		}
	}
	return NullType, nil
}

var nullTypeNames = map[string]Type{
	"null":      NullType,
	"bool":      BoolType,
	"int":       IntType,
	"float":     FloatType,
	"decimal":   DecimalType,
	"timestamp": TimestampType,
	"symbol":    SymbolType,
	"string":    StringType,
	"blob":      BlobType,
	"clob":      ClobType,
	"list":      ListType,
	"struct":    StructType,
	"sexp":      SexpType,
}

// readNullType reads the symbol after "null." and maps it to the Type it
// names.
func (t *textReader) readNullType() (Type, error) {
	if err := t.tok.Next(); err != nil {
		return NoType, err
	}
	if t.tok.Token() != tokenSymbol {
		msg := fmt.Sprintf("invalid symbol null.%v", t.tok.Token())
		return NoType, &SyntaxError{msg, t.tok.Pos() - 1}
	}

	val, err := t.tok.ReadValue(tokenSymbol)
	if err != nil {
		return NoType, err
	}

	if typ, ok := nullTypeNames[val]; ok {
		return typ, nil
	}
	msg := fmt.Sprintf("invalid symbol null.%v", t.tok.Token())
	return NoType, &SyntaxError{msg, t.tok.Pos() - 1}
}

// onNumber reads a binary, hex, ordinary-radix, or special float-infinity
// literal and parses it into the Go value for its type.
func (t *textReader) onNumber(tok token) error {
	var (
		valueType Type
		value     interface{}
		err       error
	)

	switch tok {
	case tokenBinary:
		var val string
		val, err = t.tok.ReadValue(tok)
		if err != nil {
			return err
		}
		valueType = IntType
		value, err = parseInt(val, 2)

	case tokenHex:
		var val string
		val, err = t.tok.ReadValue(tok)
		if err != nil {
			return err
		}
		valueType = IntType
		value, err = parseInt(val, 16)

	case tokenNumber:
		var (
			val string
			tt  Type
		)
		val, tt, err = t.tok.ReadNumber()
		if err != nil {
			return err
		}
		valueType = tt

		switch tt {
		case IntType:
			value, err = parseInt(val, 10)
		case FloatType:
			value, err = parseFloat(val)
		case DecimalType:
			value, err = parseDecimal(val)
		default:
			panic(fmt.Sprintf("unexpected type %v", tt))
		}

	case tokenFloatInf:
		valueType = FloatType
		value = math.Inf(1)

	case tokenFloatMinusInf:
		valueType = FloatType
		value = math.Inf(-1)

	default:
		panic(fmt.Sprintf("unexpected token type %v", tok))
	}

	if err != nil {
		return err
	}

	t.state = t.stateAfterValue()
	t.valueType = valueType
	t.value = value

	return nil
}

// onTimestamp reads and parses a timestamp literal.
func (t *textReader) onTimestamp() error {
	val, err := t.tok.ReadValue(tokenTimestamp)
	if err != nil {
		return err
	}

	value, err := parseTimestamp(val)
	if err != nil {
		return err
	}

	t.state = t.stateAfterValue()
	t.valueType = TimestampType
	t.value = value

	return nil
}

// onLob reads a {{ ... }} literal, distinguishing short/long clob from
// blob by the character immediately following the whitespace inside the
// braces.
func (t *textReader) onLob() error {
	c, err := t.tok.SkipLobWhitespace()
	if err != nil {
		return err
	}

	var (
		valType Type
		val     []byte
	)

	switch c {
	case '"':
		valType = ClobType
		val, err = t.tok.ReadShortClob()
		if err != nil {
			return err
		}

	case '\'':
		ok, err := t.tok.IsTripleQuote()
		if err != nil {
			return err
		}
		if !ok {
			return t.tok.invalidChar(c)
		}

		valType = ClobType
		val, err = t.tok.ReadLongClob()
		if err != nil {
			return err
		}

	default:
		valType = BlobType
		t.tok.unread(c)

		b64, err := t.tok.ReadBlob()
		if err != nil {
			return err
		}
		val, err = base64.StdEncoding.DecodeString(b64)
		if err != nil {
			return err
		}
	}

	t.state = t.stateAfterValue()
	t.valueType = valType
	t.value = val

	return nil
}

// finishValue skips over whatever's left of the value currently under the
// reader's cursor, if any, advancing state once it's fully consumed.
func (t *textReader) finishValue() error {
	ok, err := t.tok.FinishValue()
	if err != nil {
		return err
	}
	if ok {
		t.state = t.stateAfterValue()
	}
	return nil
}

// stateAfterValue picks the state to resume in once a value has been
// fully read, which depends only on what kind of container we're in:
// list/struct siblings are comma-separated, while sexp elements and
// top-level values are not.
func (t *textReader) stateAfterValue() trs {
	switch ctx := t.ctx.peek(); ctx {
	case ctxInList, ctxInStruct:
		return trsAfterValue
	case ctxInSexp, ctxAtTopLevel:
		return trsBeforeTypeAnnotations
	default:
		panic(fmt.Sprintf("invalid ctx %v", ctx))
	}
}

// explode records a fatal error and stops the reader from trying to
// recover its position by any further call to Next.
func (t *textReader) explode(err error) {
	t.state = trsDone
	t.err = err
}
