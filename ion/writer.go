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
	"io"
	"math/big"
)

// A Writer emits a stream of Ion values, either text or binary depending on
// how it was constructed.
//
// The Write* methods each emit one atomic value into the current container
// (or the top level, if nothing is open). Begin/End pairs bracket a list,
// sexp, or struct; values written between them become that container's
// children:
//
//	var w Writer
//	w.BeginSexp()
//	w.WriteInt(1)
//	w.WriteSymbolFromString("+")
//	w.WriteInt(1)
//	w.EndSexp()
//
// Inside a struct, call FieldName before each child value to name it.
// Annotation/Annotations may be called before any value, container or not,
// to attach annotations to it:
//
//	var w Writer
//	w.Annotation(NewSymbolTokenFromString("user"))
//	w.BeginStruct()
//	w.FieldName(NewSymbolTokenFromString("id"))
//	w.WriteString("foo")
//	w.FieldName(NewSymbolTokenFromString("name"))
//	w.WriteString("bar")
//	w.EndStruct()
//
// Every method remembers the first error it hits and short-circuits the
// rest, returning that same error from then on — so a caller can write a
// whole stream and check only the error Finish returns at the end, rather
// than after every intermediate call.
type Writer interface {
	// FieldName sets the field name for the next value written.
	FieldName(val SymbolToken) error

	// Annotation adds a single annotation to the next value written.
	Annotation(val SymbolToken) error

	// Annotations adds multiple annotations to the next value written.
	Annotations(values ...SymbolToken) error

	// WriteNull writes an untyped null value.
	WriteNull() error

	// WriteNullType writes a null value with a type qualifier, e.g. null.bool.
	WriteNullType(t Type) error

	// WriteBool writes a boolean value.
	WriteBool(val bool) error

	// WriteInt writes an integer value.
	WriteInt(val int64) error

	// WriteUint writes an unsigned integer value.
	WriteUint(val uint64) error

	// WriteBigInt writes a big integer value.
	WriteBigInt(val *big.Int) error

	// WriteFloat writes a floating-point value.
	WriteFloat(val float64) error

	// WriteDecimal writes an arbitrary-precision decimal value.
	WriteDecimal(val *Decimal) error

	// WriteTimestamp writes a timestamp value.
	WriteTimestamp(val Timestamp) error

	// WriteSymbol writes a symbol value given a SymbolToken.
	WriteSymbol(val SymbolToken) error

	// WriteSymbolFromString writes a symbol value given a string.
	WriteSymbolFromString(val string) error

	// WriteString writes a string value.
	WriteString(val string) error

	// WriteClob writes a clob value.
	WriteClob(val []byte) error

	// WriteBlob writes a blob value.
	WriteBlob(val []byte) error

	// BeginList begins writing a list value.
	BeginList() error

	// EndList finishes writing a list value.
	EndList() error

	// BeginSexp begins writing an s-expression value.
	BeginSexp() error

	// EndSexp finishes writing an s-expression value.
	EndSexp() error

	// BeginStruct begins writing a struct value.
	BeginStruct() error

	// EndStruct finishes writing a struct value.
	EndStruct() error

	// Finish finishes writing values and flushes any buffered data.
	Finish() error

	// IsInStruct indicates if we are currently writing a struct or not.
	IsInStruct() bool
}

// writer holds the bookkeeping every Writer implementation shares,
// regardless of whether it ultimately renders text or binary: the
// container nesting stack, the pending field name/annotations for the
// value about to be written, and the sticky first error.
type writer struct {
	out io.Writer
	ctx ctxstack
	err error

	fieldName   *SymbolToken
	annotations []SymbolToken
}

// FieldName records the field name for the next value, failing unless a
// struct is currently open.
func (w *writer) FieldName(val SymbolToken) error {
	if w.err != nil {
		return w.err
	}
	if !w.IsInStruct() {
		w.err = &UsageError{"Writer.FieldName", "called when not writing a struct"}
		return w.err
	}
	w.fieldName = &val
	return nil
}

// Annotation appends one annotation to the set pending for the next value.
func (w *writer) Annotation(val SymbolToken) error {
	if w.err != nil {
		return w.err
	}
	w.annotations = append(w.annotations, val)
	return nil
}

// Annotations appends zero or more annotations to the set pending for the
// next value.
func (w *writer) Annotations(values ...SymbolToken) error {
	if w.err != nil {
		return w.err
	}
	w.annotations = append(w.annotations, values...)
	return nil
}

// IsInStruct reports whether the innermost open container is a struct.
func (w *writer) IsInStruct() bool {
	return w.ctx.peek() == ctxInStruct
}

// clear resets the pending field name and annotations once the value
// they were attached to has been written.
func (w *writer) clear() {
	w.fieldName = nil
	w.annotations = nil
}
