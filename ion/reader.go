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
	"math"
	"math/big"
	"strings"
)

// A Reader moves forward through a stream of Ion values, exposing the
// current value's type, annotations, field name, and typed accessors for
// its content. It reads both binary and text Ion through the same
// interface; NewReader picks the encoding by sniffing the first bytes.
type Reader interface {
	// Next positions the Reader on the next value in the current stream,
	// returning false at the end of the stream or on error.
	Next() bool

	// Err returns the error that stopped the most recent Next, or nil.
	Err() error

	// Type returns the type of the current value, or NoType if Next has
	// not yet been called or has returned false.
	Type() Type

	// IsNull reports whether the current value is Ion null (of any type).
	IsNull() bool

	// FieldName returns the field name of the current value, or nil if
	// the current value is not inside a struct.
	FieldName() (*SymbolToken, error)

	// Annotations returns the annotations on the current value.
	Annotations() ([]SymbolToken, error)

	// BoolValue returns the current value as a bool. It returns an error
	// if the current value is not an Ion bool.
	BoolValue() (*bool, error)

	// IntSize returns the width of integer needed to losslessly represent
	// the current value. It returns an error if the current value is not
	// an Ion int.
	IntSize() (IntSize, error)

	// IntValue returns the current value as an int. It returns an
	// OverflowError if the value does not fit.
	IntValue() (*int, error)

	// Int64Value returns the current value as an int64. It returns an
	// OverflowError if the value does not fit.
	Int64Value() (*int64, error)

	// BigIntValue returns the current value as a big.Int. It returns an
	// error if the current value is not an Ion int.
	BigIntValue() (*big.Int, error)

	// FloatValue returns the current value as a float64. It returns an
	// error if the current value is not an Ion float.
	FloatValue() (*float64, error)

	// DecimalValue returns the current value as a Decimal. It returns an
	// error if the current value is not an Ion decimal.
	DecimalValue() (*Decimal, error)

	// TimestampValue returns the current value as a Timestamp. It returns
	// an error if the current value is not an Ion timestamp.
	TimestampValue() (*Timestamp, error)

	// StringValue returns the current value as a string. It works for
	// both Ion strings and Ion symbols with resolved text.
	StringValue() (*string, error)

	// ByteValue returns the current value as a byte slice. It returns an
	// error if the current value is not an Ion clob or blob.
	ByteValue() ([]byte, error)

	// SymbolValue returns the current value as a SymbolToken. It returns
	// an error if the current value is not an Ion symbol.
	SymbolValue() (*SymbolToken, error)

	// StepIn steps into the current value, which must be a non-null
	// container. On success the Reader is positioned before the
	// container's first child.
	StepIn() error

	// StepOut steps out of the container the Reader is currently inside,
	// positioning it after that container in the parent stream.
	StepOut() error

	// SymbolTable returns the symbol table currently in effect.
	SymbolTable() SymbolTable
}

// reader holds the state and accessor logic common to the binary and text
// readers. A binaryReader or textReader embeds it and fills in value,
// valueType, fieldName, and annotations as it advances through its own
// encoding; everything else is read through these shared methods.
type reader struct {
	ctx ctxstack
	lst SymbolTable

	fieldName   *SymbolToken
	annotations []SymbolToken
	valueType   Type
	value       interface{}

	eof bool
	err error
}

// clear resets per-value state ahead of reading the next value.
func (r *reader) clear() {
	r.fieldName = nil
	r.annotations = nil
	r.valueType = NoType
	r.value = nil
}

func (r *reader) Err() error {
	return r.err
}

func (r *reader) Type() Type {
	return r.valueType
}

func (r *reader) IsNull() bool {
	return r.valueType != NoType && r.value == nil
}

func (r *reader) SymbolTable() SymbolTable {
	return r.lst
}

func (r *reader) FieldName() (*SymbolToken, error) {
	if r.err != nil {
		return nil, r.err
	}
	return r.fieldName, nil
}

func (r *reader) Annotations() ([]SymbolToken, error) {
	if r.err != nil {
		return nil, r.err
	}
	return r.annotations, nil
}

func (r *reader) requireType(api string, t Type) error {
	if r.err != nil {
		return r.err
	}
	if r.valueType != t {
		return &UsageError{api, fmt.Sprintf("value is type %v, not %v", r.valueType, t)}
	}
	return nil
}

func (r *reader) BoolValue() (*bool, error) {
	if err := r.requireType("Reader.BoolValue", BoolType); err != nil {
		return nil, err
	}
	if r.value == nil {
		return nil, nil
	}
	v := r.value.(bool)
	return &v, nil
}

func (r *reader) IntSize() (IntSize, error) {
	if err := r.requireType("Reader.IntSize", IntType); err != nil {
		return NullInt, err
	}
	switch v := r.value.(type) {
	case int64:
		if v >= math.MinInt32 && v <= math.MaxInt32 {
			return Int32, nil
		}
		return Int64, nil
	case *big.Int:
		return BigInt, nil
	default:
		return NullInt, nil
	}
}

func (r *reader) IntValue() (*int, error) {
	if err := r.requireType("Reader.IntValue", IntType); err != nil {
		return nil, err
	}
	switch v := r.value.(type) {
	case nil:
		return nil, nil
	case int64:
		if v < math.MinInt32 || v > math.MaxInt32 {
			return nil, &OverflowError{API: "Reader.IntValue", Size: Int64}
		}
		i := int(v)
		return &i, nil
	case *big.Int:
		return nil, &OverflowError{API: "Reader.IntValue", Size: BigInt}
	default:
		return nil, nil
	}
}

func (r *reader) Int64Value() (*int64, error) {
	if err := r.requireType("Reader.Int64Value", IntType); err != nil {
		return nil, err
	}
	switch v := r.value.(type) {
	case nil:
		return nil, nil
	case int64:
		return &v, nil
	case *big.Int:
		return nil, &OverflowError{API: "Reader.Int64Value", Size: BigInt}
	default:
		return nil, nil
	}
}

func (r *reader) BigIntValue() (*big.Int, error) {
	if err := r.requireType("Reader.BigIntValue", IntType); err != nil {
		return nil, err
	}
	switch v := r.value.(type) {
	case nil:
		return nil, nil
	case int64:
		return big.NewInt(v), nil
	case *big.Int:
		return v, nil
	default:
		return nil, nil
	}
}

func (r *reader) FloatValue() (*float64, error) {
	if err := r.requireType("Reader.FloatValue", FloatType); err != nil {
		return nil, err
	}
	if r.value == nil {
		return nil, nil
	}
	v := r.value.(float64)
	return &v, nil
}

func (r *reader) DecimalValue() (*Decimal, error) {
	if err := r.requireType("Reader.DecimalValue", DecimalType); err != nil {
		return nil, err
	}
	if r.value == nil {
		return nil, nil
	}
	return r.value.(*Decimal), nil
}

func (r *reader) TimestampValue() (*Timestamp, error) {
	if err := r.requireType("Reader.TimestampValue", TimestampType); err != nil {
		return nil, err
	}
	if r.value == nil {
		return nil, nil
	}
	v := r.value.(Timestamp)
	return &v, nil
}

func (r *reader) StringValue() (*string, error) {
	if r.err != nil {
		return nil, r.err
	}
	switch r.valueType {
	case StringType:
		if r.value == nil {
			return nil, nil
		}
		v := r.value.(string)
		return &v, nil
	case SymbolType:
		if r.value == nil {
			return nil, nil
		}
		return r.value.(*SymbolToken).Text, nil
	default:
		return nil, &UsageError{"Reader.StringValue", fmt.Sprintf("value is type %v, not string or symbol", r.valueType)}
	}
}

func (r *reader) ByteValue() ([]byte, error) {
	if r.err != nil {
		return nil, r.err
	}
	if r.valueType != ClobType && r.valueType != BlobType {
		return nil, &UsageError{"Reader.ByteValue", fmt.Sprintf("value is type %v, not clob or blob", r.valueType)}
	}
	if r.value == nil {
		return nil, nil
	}
	return r.value.([]byte), nil
}

func (r *reader) SymbolValue() (*SymbolToken, error) {
	if err := r.requireType("Reader.SymbolValue", SymbolType); err != nil {
		return nil, err
	}
	if r.value == nil {
		return nil, nil
	}
	return r.value.(*SymbolToken), nil
}

// NewReader creates a new Ion Reader, detecting binary or text encoding by
// sniffing the first bytes of in for a binary version marker.
func NewReader(in io.Reader) Reader {
	return NewReaderCatalog(in, nil)
}

// NewReaderString creates a new Reader over a string of Ion text or binary.
func NewReaderString(str string) Reader {
	return NewReader(strings.NewReader(str))
}

// NewReaderBytes creates a new Reader over a byte slice of Ion text or
// binary.
func NewReaderBytes(in []byte) Reader {
	return NewReader(bytes.NewReader(in))
}

// NewReaderCatalog creates a new Reader that resolves shared symbol table
// imports against cat.
func NewReaderCatalog(in io.Reader, cat Catalog) Reader {
	br := bufio.NewReader(in)

	bs, err := br.Peek(4)
	if err == nil && bs[0] == 0xE0 && bs[1] == 0x01 && bs[2] == 0x00 && bs[3] == 0xEA {
		return newBinaryReaderBuf(br, cat)
	}

	return newTextReaderBuf(br, cat)
}
