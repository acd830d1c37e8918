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
	"encoding/base64"
	"io"
	"math/big"
	"strconv"
)

// TextWriterOpts defines a set of bit flag options for text writers.
type TextWriterOpts uint8

const (
	// TextWriterQuietFinish disables emiting a newline in Finish(). Convenient if you
	// know you're only emiting one datagram; dangerous if there's a chance you're going
	// to emit another datagram using the same Writer.
	TextWriterQuietFinish TextWriterOpts = 1

	// TextWriterPretty enables pretty-printing mode.
	TextWriterPretty TextWriterOpts = 2
)

// textWriter renders a stream of values as human-readable Ion text. It
// accumulates symbols into a local symbol table as values are written, and
// flushes that table out before the first value that needs it.
type textWriter struct {
	writer
	opts           TextWriterOpts
	needsSeparator bool
	emptyContainer bool
	emptyStream    bool
	indent         int

	lstb     SymbolTableBuilder
	wroteLST bool
}

// NewTextWriter returns a new text writer that will construct a
// local symbol table as it is written to.
func NewTextWriter(out io.Writer, sts ...SharedSymbolTable) Writer {
	return NewTextWriterOpts(out, 0, sts...)
}

// NewTextWriterOpts returns a new text writer with the given options.
func NewTextWriterOpts(out io.Writer, opts TextWriterOpts, sts ...SharedSymbolTable) Writer {
	return &textWriter{
		writer:      writer{out: out},
		opts:        opts,
		emptyStream: true,
		lstb:        NewSymbolTableBuilder(sts...),
	}
}

// WriteNull writes an untyped null.
func (w *textWriter) WriteNull() error {
	return w.writeValue("Writer.WriteNull", textNulls[NoType], writeRawString)
}

// WriteNullType writes a typed null.
func (w *textWriter) WriteNullType(t Type) error {
	return w.writeValue("Writer.WriteNullType", textNulls[t], writeRawString)
}

// WriteBool writes a boolean value.
func (w *textWriter) WriteBool(val bool) error {
	str := "false"
	if val {
		str = "true"
	}
	return w.writeValue("Writer.WriteBool", str, writeRawString)
}

// WriteInt writes an integer value.
func (w *textWriter) WriteInt(val int64) error {
	return w.writeValue("Writer.WriteInt", strconv.FormatInt(val, 10), writeRawString)
}

// WriteUint writes an unsigned integer value.
func (w *textWriter) WriteUint(val uint64) error {
	return w.writeValue("Writer.WriteUint", strconv.FormatUint(val, 10), writeRawString)
}

// WriteBigInt writes a (big) integer value.
func (w *textWriter) WriteBigInt(val *big.Int) error {
	return w.writeValue("Writer.WriteBigInt", val.String(), writeRawString)
}

// WriteFloat writes a floating-point value.
func (w *textWriter) WriteFloat(val float64) error {
	return w.writeValue("Writer.WriteFloat", formatFloat(val), writeRawString)
}

// WriteDecimal writes an arbitrary-precision decimal value.
func (w *textWriter) WriteDecimal(val *Decimal) error {
	return w.writeValue("Writer.WriteDecimal", val.String(), writeRawString)
}

// WriteTimestamp writes a timestamp.
func (w *textWriter) WriteTimestamp(val Timestamp) error {
	return w.writeValue("Writer.WriteTimestamp", val.String(), writeRawString)
}

// WriteSymbol writes a symbol given a SymbolToken.
func (w *textWriter) WriteSymbol(val SymbolToken) error {
	return w.writeValue("Writer.WriteSymbol", val, writeSymbol)
}

// WriteSymbolFromString writes a symbol given a string.
func (w *textWriter) WriteSymbolFromString(val string) error {
	return w.writeValue("Writer.WriteSymbolFromString", val, writeSymbolFromString)
}

// WriteString writes a "-quoted string, escaping as needed.
func (w *textWriter) WriteString(val string) error {
	return w.wrapValue("Writer.WriteString", func() error {
		if err := writeRawChar('"', w.out); err != nil {
			return err
		}
		if err := writeEscapedString(val, w.out); err != nil {
			return err
		}
		return writeRawChar('"', w.out)
	})
}

// WriteClob writes a {{"..."}}-quoted clob, escaping bytes outside
// printable ASCII.
func (w *textWriter) WriteClob(val []byte) error {
	return w.wrapValue("Writer.WriteClob", func() error {
		if err := writeRawString(`{{"`, w.out); err != nil {
			return err
		}
		for _, c := range val {
			var err error
			if c < 32 || c == '\\' || c == '"' || c > 0x7F {
				err = writeEscapedChar(c, w.out)
			} else {
				err = writeRawChar(c, w.out)
			}
			if err != nil {
				return err
			}
		}
		return writeRawString(`"}}`, w.out)
	})
}

// WriteBlob writes a {{base64}}-quoted blob.
func (w *textWriter) WriteBlob(val []byte) error {
	return w.wrapValue("Writer.WriteBlob", func() error {
		if err := writeRawString("{{", w.out); err != nil {
			return err
		}
		enc := base64.NewEncoder(base64.StdEncoding, w.out)
		if _, err := enc.Write(val); err != nil {
			return err
		}
		if err := enc.Close(); err != nil {
			return err
		}
		return writeRawString("}}", w.out)
	})
}

// wrapValue brackets an arbitrary write with the usual beginValue/endValue
// bookkeeping, for value kinds (strings, clobs, blobs) whose body can't be
// reduced to a single call through writeValue.
func (w *textWriter) wrapValue(api string, body func() error) error {
	if w.err != nil {
		return w.err
	}
	if w.err = w.beginValue(api); w.err != nil {
		return w.err
	}
	if w.err = body(); w.err != nil {
		return w.err
	}
	w.endValue()
	return nil
}

// containerDelims gives the opening/closing bracket character for each
// container ctx that Begin*/End* operate on.
var containerDelims = map[ctx][2]byte{
	ctxInList:   {'[', ']'},
	ctxInSexp:   {'(', ')'},
	ctxInStruct: {'{', '}'},
}

// BeginList begins writing a list.
func (w *textWriter) BeginList() error { return w.beginContainer("Writer.BeginList", ctxInList) }

// EndList finishes writing a list.
func (w *textWriter) EndList() error { return w.endContainer("Writer.EndList", ctxInList) }

// BeginSexp begins writing an s-expression.
func (w *textWriter) BeginSexp() error { return w.beginContainer("Writer.BeginSexp", ctxInSexp) }

// EndSexp finishes writing an s-expression.
func (w *textWriter) EndSexp() error { return w.endContainer("Writer.EndSexp", ctxInSexp) }

// BeginStruct begins writing a struct.
func (w *textWriter) BeginStruct() error {
	return w.beginContainer("Writer.BeginStruct", ctxInStruct)
}

// EndStruct finishes writing a struct.
func (w *textWriter) EndStruct() error { return w.endContainer("Writer.EndStruct", ctxInStruct) }

func (w *textWriter) beginContainer(api string, t ctx) error {
	if w.err == nil {
		w.err = w.begin(api, t, containerDelims[t][0])
	}
	return w.err
}

func (w *textWriter) endContainer(api string, t ctx) error {
	if w.err == nil {
		w.err = w.end(api, t, containerDelims[t][1])
	}
	return w.err
}

// Finish finishes writing the current datagram.
func (w *textWriter) Finish() error {
	if w.err != nil {
		return w.err
	}
	if w.ctx.peek() != ctxAtTopLevel {
		return &UsageError{"Writer.Finish", "not at top level"}
	}

	if !w.emptyStream && w.opts&TextWriterQuietFinish == 0 {
		if w.err = writeRawChar('\n', w.out); w.err != nil {
			return w.err
		}
		w.needsSeparator = false
		w.emptyStream = true
	}

	w.clear()
	return nil
}

// pretty reports whether pretty-printing is enabled.
func (w *textWriter) pretty() bool {
	return w.opts&TextWriterPretty == TextWriterPretty
}

// writeValue renders val via fn and writes it as the next value.
func (w *textWriter) writeValue(api string, val interface{}, fn func(interface{}, io.Writer) error) error {
	return w.wrapValue(api, func() error { return fn(val, w.out) })
}

// beginValue writes everything that precedes a value's own bytes: a
// pending local symbol table (once, before the first value that needs
// one), a separator if another value already preceded this one, this
// container's indent, the field name if inside a struct, and any pending
// annotations.
func (w *textWriter) beginValue(api string) error {
	// Captured before clear() because building the LST below recurses
	// into WriteTo, which would otherwise stomp on these.
	name := w.fieldName
	as := w.annotations
	w.clear()

	if !w.wroteLST {
		w.wroteLST = true
		if err := w.lstb.Build().WriteTo(w); err != nil {
			return err
		}
	}

	if w.needsSeparator {
		if err := w.writeSeparator(); err != nil {
			return err
		}
	}

	if w.emptyContainer && w.pretty() {
		if err := writeRawChar('\n', w.out); err != nil {
			return err
		}
	}

	if w.pretty() {
		if err := w.writeIndent(); err != nil {
			return err
		}
	}

	if w.IsInStruct() {
		w.fieldName = name
		if err := w.writeFieldName(api); err != nil {
			return err
		}
	}

	w.annotations = append(w.annotations, as...)
	if len(w.annotations) > 0 {
		if err := w.writeAnnotations(); err != nil {
			return err
		}
	}

	return nil
}

// writeSeparator writes whatever punctuation separates this value from
// the one before it, which depends on what kind of container it's in.
func (w *textWriter) writeSeparator() error {
	var sep string
	switch w.ctx.peek() {
	case ctxInStruct, ctxInList:
		sep = ","
		if w.pretty() {
			sep = ",\n"
		}
	case ctxInSexp:
		sep = " "
		if w.pretty() {
			sep = "\n"
		}
	default:
		sep = "\n"
	}
	return writeRawString(sep, w.out)
}

// writeFieldName writes the pending field name and its trailing colon.
func (w *textWriter) writeFieldName(api string) error {
	if w.fieldName == nil {
		return &UsageError{api, "field name not set"}
	}
	name := w.fieldName
	w.fieldName = nil

	if err := writeSymbol(*name, w.out); err != nil {
		return err
	}

	sep := ":"
	if w.pretty() {
		sep = ": "
	}
	return writeRawString(sep, w.out)
}

// writeAnnotations writes the pending annotations, each followed by "::".
func (w *textWriter) writeAnnotations() error {
	as := w.annotations
	w.annotations = nil

	for _, a := range as {
		if err := writeSymbol(a, w.out); err != nil {
			return err
		}
		if err := writeRawString("::", w.out); err != nil {
			return err
		}
	}
	return nil
}

// endValue records that a value was just written, so the next one knows it
// needs a separator first.
func (w *textWriter) endValue() {
	w.needsSeparator = true
	w.emptyContainer = false
	w.emptyStream = false
}

// begin opens a container: it's still a value in its own right (so
// beginValue applies), but then pushes a new nesting level instead of
// closing out immediately.
func (w *textWriter) begin(api string, t ctx, open byte) error {
	if err := w.beginValue(api); err != nil {
		return err
	}

	w.ctx.push(t)
	w.indent++
	w.needsSeparator = false
	w.emptyContainer = true

	return writeRawChar(open, w.out)
}

// end closes a container opened with begin, failing if the container
// currently open isn't of the expected kind.
func (w *textWriter) end(api string, t ctx, closeCh byte) error {
	if w.ctx.peek() != t {
		return &UsageError{api, "not in that kind of container"}
	}

	w.indent--

	if !w.emptyContainer && w.pretty() {
		if err := writeRawChar('\n', w.out); err != nil {
			return err
		}
		if err := w.writeIndent(); err != nil {
			return err
		}
	}

	if err := writeRawChar(closeCh, w.out); err != nil {
		return err
	}

	w.clear()
	w.ctx.pop()
	w.endValue()

	return nil
}

// writeIndent writes one tab per nesting level, for pretty-printing.
func (w *textWriter) writeIndent() error {
	for i := 0; i < w.indent; i++ {
		if err := writeRawChar('\t', w.out); err != nil {
			return err
		}
	}
	return nil
}
