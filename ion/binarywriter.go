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
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"math/big"
	"time"
)

// A binaryWriter writes binary ion.
type binaryWriter struct {
	writer
	bufs bufstack

	lst  SymbolTable
	lstb SymbolTableBuilder

	wroteLST bool
}

// NewBinaryWriter creates a new binary writer that will construct a
// local symbol table as it is written to.
func NewBinaryWriter(out io.Writer, sts ...SharedSymbolTable) Writer {
	w := &binaryWriter{
		writer: writer{
			out: out,
		},
		lstb: NewSymbolTableBuilder(sts...),
	}
	w.bufs.push(&datagram{})
	return w
}

// NewBinaryWriterLST creates a new binary writer with a pre-built local
// symbol table.
func NewBinaryWriterLST(out io.Writer, lst SymbolTable) Writer {
	return &binaryWriter{
		writer: writer{
			out: out,
		},
		lst: lst,
	}
}

// WriteNull writes an untyped null.
func (w *binaryWriter) WriteNull() error {
	return w.writeValue("Writer.WriteNull", []byte{0x0F})
}

// WriteNullType writes a typed null.
func (w *binaryWriter) WriteNullType(t Type) error {
	return w.writeValue("Writer.WriteNullType", []byte{binaryNulls[t]})
}

// WriteBool writes a bool.
func (w *binaryWriter) WriteBool(val bool) error {
	b := byte(0x10)
	if val {
		b = 0x11
	}
	return w.writeValue("Writer.WriteBool", []byte{b})
}

// WriteInt writes an integer.
func (w *binaryWriter) WriteInt(val int64) error {
	if val == 0 {
		return w.writeValue("Writer.WriteInt", []byte{0x20})
	}

	code := byte(0x20)
	mag := uint64(val)

	if val < 0 {
		code = 0x30
		mag = uint64(-val)
	}

	length := uintLen(mag)
	buf := make([]byte, 0, length+tagLen(length))
	buf = appendTag(buf, code, length)
	buf = appendUint(buf, mag)

	return w.writeValue("Writer.WriteInt", buf)
}

// WriteUint writes an unsigned integer.
func (w *binaryWriter) WriteUint(val uint64) error {
	if val == 0 {
		return w.writeValue("Writer.WriteUint", []byte{0x20})
	}

	length := uintLen(val)
	buf := make([]byte, 0, length+tagLen(length))
	buf = appendTag(buf, 0x20, length)
	buf = appendUint(buf, val)

	return w.writeValue("Writer.WriteUint", buf)
}

// WriteBigInt writes a big integer.
func (w *binaryWriter) WriteBigInt(val *big.Int) error {
	return w.writeBracketed("Writer.WriteBigInt", func() error {
		return w.writeBigInt(val)
	})
}

// writeBigInt writes the actual big integer value.
func (w *binaryWriter) writeBigInt(val *big.Int) error {
	sign := val.Sign()
	if sign == 0 {
		return w.write([]byte{0x20})
	}

	code := byte(0x20)
	if sign < 0 {
		code = 0x30
	}

	bs := val.Bytes()
	bl := uint64(len(bs))
	if bl < 64 {
		buf := make([]byte, 0, bl+tagLen(bl))
		buf = appendTag(buf, code, bl)
		buf = append(buf, bs...)
		return w.write(buf)
	}

	// no sense in copying, emit tag separately.
	if err := w.writeTag(code, bl); err != nil {
		return err
	}
	return w.write(bs)
}

// WriteFloat writes a floating-point value.
func (w *binaryWriter) WriteFloat(val float64) error {
	if val == 0 && !math.Signbit(val) {
		// Positive zero is represented as just one byte.
		return w.writeValue("Writer.WriteFloat", []byte{0x40})
	} else if math.IsNaN(val) {
		return w.writeValue("Writer.WriteFloat", []byte{0x44, 0x7F, 0xC0, 0x00, 0x00})
	}

	var bs []byte

	// Can this be losslessly represented as a float32?
	if val == float64(float32(val)) {
		bs = make([]byte, 5)
		bs[0] = 0x44
		binary.BigEndian.PutUint32(bs[1:], math.Float32bits(float32(val)))
	} else {
		bs = make([]byte, 9)
		bs[0] = 0x48
		binary.BigEndian.PutUint64(bs[1:], math.Float64bits(val))
	}

	return w.writeValue("Writer.WriteFloat", bs)
}

// WriteDecimal writes a decimal value.
func (w *binaryWriter) WriteDecimal(val *Decimal) error {
	coef, exp := val.CoEx()

	// Positive 0. (aka 0d0) has no length or representation fields and is
	// encoded as the single byte 0x50.
	if coef.Sign() == 0 && int64(exp) == 0 && !val.isNegZero {
		return w.writeValue("Writer.WriteDecimal", []byte{0x50})
	}

	vlength := varIntLen(int64(exp))
	if val.isNegZero {
		vlength++
	} else {
		vlength += bigIntLen(coef)
	}

	buf := make([]byte, 0, vlength+tagLen(vlength))
	buf = appendTag(buf, 0x50, vlength)
	buf = appendVarInt(buf, int64(exp))

	if val.isNegZero {
		buf = append(buf, 0x80)
	} else {
		buf = appendBigInt(buf, coef)
	}

	return w.writeValue("Writer.WriteDecimal", buf)
}

// WriteTimestamp writes a timestamp value.
func (w *binaryWriter) WriteTimestamp(val Timestamp) error {
	_, offset := val.dateTime.Zone()
	offset /= 60
	val.dateTime = val.dateTime.In(time.UTC)

	vlength := timestampLen(offset, val)
	buf := make([]byte, 0, vlength+tagLen(vlength))
	buf = appendTag(buf, 0x60, vlength)
	buf = appendTimestamp(buf, offset, val)

	return w.writeValue("Writer.WriteTimestamp", buf)
}

// WriteSymbol writes a symbol value given a SymbolToken.
func (w *binaryWriter) WriteSymbol(val SymbolToken) error {
	id, err := w.resolveToken("Writer.WriteSymbol", val, func(s string) (uint64, error) {
		return w.resolveFromSymbolTable("Writer.WriteSymbol", s)
	})
	if err != nil {
		w.err = err
		return err
	}
	return w.writeSymbolFromID("Writer.WriteSymbol", id)
}

// WriteSymbolFromString writes a symbol value given a string that is expected to be in the symbol table.
// Returns an error if string is not in symbol table.
func (w *binaryWriter) WriteSymbolFromString(val string) error {
	var id uint64
	id, w.err = w.resolve("Writer.WriteSymbolFromString", val)
	if w.err != nil {
		return w.err
	}

	return w.writeSymbolFromID("Writer.WriteSymbolFromString", id)
}

// maxID returns the highest symbol id this writer's current local symbol
// table (imports plus interned locals) can resolve.
func (w *binaryWriter) maxID() uint64 {
	if w.lst != nil {
		return w.lst.MaxID()
	}
	return w.lstb.MaxID()
}

// resolveToken resolves a SymbolToken to the symbol ID that should be
// written for it: prefer an explicit local SID (rejecting one beyond
// what the current symbol table can explain unless text backs it up),
// falling back to byText for text-based resolution. WriteSymbol and the
// field-name path in beginValue share this shape but resolve text
// through slightly different lookups, hence the injected byText.
func (w *binaryWriter) resolveToken(api string, tok SymbolToken, byText func(string) (uint64, error)) (uint64, error) {
	if tok.LocalSID != SymbolIDUnknown {
		id := uint64(tok.LocalSID)
		if tok.Text == nil && id > w.maxID() {
			return 0, &UnknownSymbolError{SID: tok.LocalSID}
		}
		return id, nil
	}
	if tok.Text != nil {
		return byText(*tok.Text)
	}
	return 0, &UsageError{api, "symbol token without defined text or symbol id is invalid"}
}

// resolveAnnotation resolves an annotation's SymbolToken the way
// beginValue's annotation loop always has: text takes priority over an
// explicit SID, and an SID-only token is trusted without a maxID check.
func (w *binaryWriter) resolveAnnotation(api string, tok SymbolToken) (uint64, error) {
	if tok.Text != nil {
		return w.resolve(api, *tok.Text)
	}
	if tok.LocalSID != SymbolIDUnknown {
		return uint64(tok.LocalSID), nil
	}
	return 0, &UsageError{api, "invalid annotation symbol token"}
}

func (w *binaryWriter) writeSymbolFromID(api string, id uint64) error {
	vlength := uintLen(id)
	buf := make([]byte, 0, vlength+tagLen(vlength))
	buf = appendTag(buf, 0x70, vlength)
	buf = appendUint(buf, id)

	return w.writeValue(api, buf)
}

// WriteString writes a string.
func (w *binaryWriter) WriteString(val string) error {
	if len(val) == 0 {
		return w.writeValue("Writer.WriteString", []byte{0x80})
	}

	vlength := uint64(len(val))
	buf := make([]byte, 0, vlength+tagLen(vlength))
	buf = appendTag(buf, 0x80, vlength)
	buf = append(buf, val...)

	return w.writeValue("Writer.WriteString", buf)
}

// WriteClob writes a clob.
func (w *binaryWriter) WriteClob(val []byte) error {
	return w.writeBracketed("Writer.WriteClob", func() error {
		return w.writeLob(0x90, val)
	})
}

// WriteBlob writes a blob.
func (w *binaryWriter) WriteBlob(val []byte) error {
	return w.writeBracketed("Writer.WriteBlob", func() error {
		return w.writeLob(0xA0, val)
	})
}

// writeBracketed runs body between beginValue/endValue, the dance every
// multi-step value write (big ints, lobs) needs around the actual bytes.
func (w *binaryWriter) writeBracketed(api string, body func() error) error {
	if w.err != nil {
		return w.err
	}
	if w.err = w.beginValue(api); w.err != nil {
		return w.err
	}
	if w.err = body(); w.err != nil {
		return w.err
	}
	w.err = w.endValue()
	return w.err
}

func (w *binaryWriter) writeLob(code byte, val []byte) error {
	vlength := uint64(len(val))

	if vlength < 64 {
		buf := make([]byte, 0, vlength+tagLen(vlength))
		buf = appendTag(buf, code, vlength)
		buf = append(buf, val...)
		return w.write(buf)
	}

	if err := w.writeTag(code, vlength); err != nil {
		return err
	}
	return w.write(val)
}

// BeginList begins writing a list.
func (w *binaryWriter) BeginList() error {
	if w.err == nil {
		w.err = w.begin("Writer.BeginList", ctxInList, 0xB0)
	}
	return w.err
}

// EndList finishes writing a list.
func (w *binaryWriter) EndList() error {
	if w.err == nil {
		w.err = w.end("Writer.EndList", ctxInList)
	}
	return w.err
}

// BeginSexp begins writing an s-expression.
func (w *binaryWriter) BeginSexp() error {
	if w.err == nil {
		w.err = w.begin("Writer.BeginSexp", ctxInSexp, 0xC0)
	}
	return w.err
}

// EndSexp finishes writing an s-expression.
func (w *binaryWriter) EndSexp() error {
	if w.err == nil {
		w.err = w.end("Writer.EndSexp", ctxInSexp)
	}
	return w.err
}

// BeginStruct begins writing a struct.
func (w *binaryWriter) BeginStruct() error {
	if w.err == nil {
		w.err = w.begin("Writer.BeginStruct", ctxInStruct, 0xD0)
	}
	return w.err
}

// EndStruct finishes writing a struct.
func (w *binaryWriter) EndStruct() error {
	if w.err == nil {
		w.err = w.end("Writer.EndStruct", ctxInStruct)
	}
	return w.err
}

// Finish finishes writing a datagram.
func (w *binaryWriter) Finish() error {
	if w.err != nil {
		return w.err
	}
	if w.ctx.peek() != ctxAtTopLevel {
		return &UsageError{"Writer.Finish", "not at top level"}
	}

	w.clear()
	w.wroteLST = false

	seq := w.bufs.peek()
	if seq == nil {
		return nil
	}

	w.bufs.pop()
	if w.bufs.peek() != nil {
		panic("at top level but too many bufseqs")
	}

	if err := w.writeLST(w.lstb.Build()); err != nil {
		return err
	}
	w.err = w.emit(seq)
	return w.err
}

// emit emits the given node. If we're currently at the top level, that
// means actually emitting to the output stream. If not, we append to the
// current bufseq.
func (w *binaryWriter) emit(node bufnode) error {
	s := w.bufs.peek()
	if s == nil {
		return node.EmitTo(w.out)
	}
	s.Append(node)
	return nil
}

// write emits the given bytes as an atom.
func (w *binaryWriter) write(bs []byte) error {
	return w.emit(atom(bs))
}

// writeValue writes a serialized value to the output stream.
func (w *binaryWriter) writeValue(api string, val []byte) error {
	return w.writeBracketed(api, func() error {
		return w.write(val)
	})
}

// writeTag writes out a type+length tag. Use me when you've already got the value to
// be written as a []byte and don't want to copy it.
func (w *binaryWriter) writeTag(code byte, length uint64) error {
	tag := make([]byte, 0, tagLen(length))
	tag = appendTag(tag, code, length)
	return w.write(tag)
}

// writeLST writes out a local symbol table.
func (w *binaryWriter) writeLST(lst SymbolTable) error {
	if err := w.write([]byte{0xE0, 0x01, 0x00, 0xEA}); err != nil {
		return err
	}
	return lst.WriteTo(w)
}

// beginValue begins the process of writing a value by writing out
// its field name and annotations.
func (w *binaryWriter) beginValue(api string) error {
	// We have to record/empty these before calling writeLST, which
	// will end up using/modifying them. Ugh.
	name := w.fieldName
	as := w.annotations
	w.clear()

	// If we have a local symbol table and haven't written it out yet, do that now.
	if w.lst != nil && !w.wroteLST {
		w.wroteLST = true
		if err := w.writeLST(w.lst); err != nil {
			return err
		}
	}

	if w.IsInStruct() {
		if name == nil {
			return &UsageError{api, "field name not set"}
		}

		id, err := w.resolveToken(api, *name, func(s string) (uint64, error) {
			return w.resolve(api, s)
		})
		if err != nil {
			return err
		}

		buf := make([]byte, 0, 10)
		buf = appendVarUint(buf, id)
		if err := w.write(buf); err != nil {
			return err
		}
	}

	if len(as) > 0 {
		return w.writeAnnotations(api, as)
	}

	return nil
}

// writeAnnotations writes the annotation-wrapper prefix (the symbol IDs
// plus their combined length) that beginValue pushes ahead of an
// annotated value; endValue later pops it back up a level.
func (w *binaryWriter) writeAnnotations(api string, as []SymbolToken) error {
	ids := make([]uint64, len(as))
	idlen := uint64(0)

	for i, a := range as {
		id, err := w.resolveAnnotation(api, a)
		if err != nil {
			return err
		}
		ids[i] = id
		idlen += varUintLen(id)
	}

	buf := make([]byte, 0, idlen+varUintLen(idlen))
	buf = appendVarUint(buf, idlen)
	for _, id := range ids {
		buf = appendVarUint(buf, id)
	}

	// https://github.com/amazon-ion/ion-go/issues/120
	w.bufs.push(&container{code: 0xE0})
	return w.write(buf)
}

// endValue ends the process of writing a value by flushing it and its annotations
// up a level, if needed.
func (w *binaryWriter) endValue() error {
	seq := w.bufs.peek()
	if seq != nil {
		if c, ok := seq.(*container); ok && c.code == 0xE0 {
			w.bufs.pop()
			return w.emit(seq)
		}
	}
	return nil
}

// begin begins writing a new container.
func (w *binaryWriter) begin(api string, t ctx, code byte) error {
	if err := w.beginValue(api); err != nil {
		return err
	}

	w.ctx.push(t)
	w.bufs.push(&container{code: code})

	return nil
}

// end ends writing a container, emitting its buffered contents up a level in the stack.
func (w *binaryWriter) end(api string, t ctx) error {
	if w.ctx.peek() != t {
		return &UsageError{api, "not in that kind of container"}
	}

	seq := w.bufs.peek()
	if seq != nil {
		w.bufs.pop()
		if err := w.emit(seq); err != nil {
			return err
		}
	}

	w.clear()
	w.ctx.pop()

	return w.endValue()
}

// resolve resolves a symbol to its ID.
func (w *binaryWriter) resolve(api, sym string) (uint64, error) {
	if id, ok := symbolIdentifier(sym); ok {
		return uint64(id), nil
	}

	return w.resolveFromSymbolTable(api, sym)
}

func (w *binaryWriter) resolveFromSymbolTable(api, sym string) (uint64, error) {
	if w.lst != nil {
		id, ok := w.lst.FindByName(sym)
		if !ok {
			return 0, &UsageError{api, fmt.Sprintf("symbol '%v' not defined", sym)}
		}
		return id, nil
	}

	id, _ := w.lstb.Add(sym)
	return id, nil
}
