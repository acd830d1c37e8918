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
	"fmt"
)

// A binaryReader reads binary Ion.
type binaryReader struct {
	reader

	bits     bitstream
	cat      Catalog
	resetPos uint64
}

func newBinaryReaderBuf(in *bufio.Reader, cat Catalog) Reader {
	r := &binaryReader{
		cat: cat,
	}
	r.bits.Init(in)
	return r
}

const invalidReset uint64 = 1<<64 - 1

// Reset causes the binary reader to start reading from the given input bytes
// while skipping most of the initialization steps needed to prepare the
// reader. Reset is most commonly called with the same bytes as the reader
// was originally created with (e.g. via NewReaderBytes) as an optimization
// when the same data needs to be read multiple times.
//
// While it is possible to call Reset with different input bytes, the Reader
// will only work correctly if the new bytes contain the exact same binary
// version marker and local symbols as the original input. If there are any
// doubts whether this is the case, it is instead recommended to create a
// new Reader using NewReaderBytes (or NewReaderCatalog) instead. Attempting to
// reuse a binaryReader with inconsistent input bytes will cause the reader
// to return errors, misappropriate values to unrelated or non-existent
// attributes, or incorrectly parse data values.
//
// This API is experimental and should be considered unstable.
// See https://github.com/amazon-ion/ion-go/pull/196
func (r *binaryReader) Reset(in []byte) error {
	if r.resetPos == invalidReset {
		return &UsageError{"binaryReader.Reset", "cannot reset when multiple local symbol tables found"}
	}
	r.annotations = nil
	r.valueType = NoType
	r.value = nil
	r.err = nil
	r.eof = false
	r.bits = bitstream{}
	r.bits.InitBytes(in[r.resetPos:])
	return nil
}

// Next moves the reader to the next value.
func (r *binaryReader) Next() bool {
	if r.eof || r.err != nil {
		return false
	}

	r.clear()

	for {
		done, err := r.next()
		if err != nil {
			r.err = err
			return false
		}
		if done {
			break
		}
	}

	return !r.eof
}

// scalar reads a non-null scalar's payload with read, then records its
// type and value. It always reports the raw value as a user-facing value.
func (r *binaryReader) scalar(t Type, read func() (interface{}, error)) (bool, error) {
	r.valueType = t
	if r.bits.IsNull() {
		return true, nil
	}
	val, err := read()
	if err != nil {
		return false, err
	}
	r.value = val
	return true, nil
}

// container records a non-null container's type as a placeholder value;
// the container's actual contents are only visited once the caller steps
// into it.
func (r *binaryReader) container(t Type) (bool, error) {
	r.valueType = t
	if !r.bits.IsNull() {
		r.value = t
	}
	return true, nil
}

// next consumes the next raw value from the stream, returning true if it
// represents a user-facing value and false if it does not (a BVM, field
// name, annotation set, NOP pad, or local symbol table all get consumed
// silently and the caller loops around for the next raw value).
func (r *binaryReader) next() (bool, error) {
	if err := r.bits.Next(); err != nil {
		return false, err
	}

	switch code := r.bits.Code(); code {
	case bitcodeEOF:
		r.eof = true
		return true, nil

	case bitcodeBVM:
		return false, r.readBVM()

	case bitcodeFieldID:
		return false, r.readFieldName()

	case bitcodeAnnotation:
		return false, r.readAnnotations()

	case bitcodeNull:
		if !r.bits.IsNull() {
			// NOP padding; skip it and keep going.
			return false, r.bits.SkipValue()
		}
		r.valueType = NullType
		return true, nil

	case bitcodeFalse, bitcodeTrue:
		r.valueType = BoolType
		if !r.bits.IsNull() {
			r.value = code == bitcodeTrue
		}
		return true, nil

	case bitcodeInt, bitcodeNegInt:
		return r.scalar(IntType, func() (interface{}, error) { return r.bits.ReadInt() })

	case bitcodeFloat:
		return r.scalar(FloatType, func() (interface{}, error) { return r.bits.ReadFloat() })

	case bitcodeDecimal:
		return r.scalar(DecimalType, func() (interface{}, error) { return r.bits.ReadDecimal() })

	case bitcodeTimestamp:
		return r.scalar(TimestampType, func() (interface{}, error) { return r.bits.ReadTimestamp() })

	case bitcodeSymbol:
		if !r.bits.IsNull() {
			id, err := r.bits.ReadSymbolID()
			if err != nil {
				return false, err
			}
			st, err := NewSymbolTokenBySID(r.SymbolTable(), int64(id))
			if err != nil {
				return false, err
			}
			r.value = &st
		}
		r.valueType = SymbolType
		return true, nil

	case bitcodeString:
		return r.scalar(StringType, func() (interface{}, error) { return r.bits.ReadString() })

	case bitcodeClob:
		return r.scalar(ClobType, func() (interface{}, error) { return r.bits.ReadBytes() })

	case bitcodeBlob:
		return r.scalar(BlobType, func() (interface{}, error) { return r.bits.ReadBytes() })

	case bitcodeList:
		return r.container(ListType)

	case bitcodeSexp:
		return r.container(SexpType)

	case bitcodeStruct:
		done, err := r.container(StructType)
		if err != nil {
			return done, err
		}

		// If it's a local symbol table, install it and keep going.
		if r.ctx.peek() == ctxAtTopLevel && isIonSymbolTable(r.annotations) {
			if r.IsNull() {
				r.clear()
				r.lst = V1SystemSymbolTable
				return false, nil
			}
			st, err := readLocalSymbolTable(r, r.cat)
			if err != nil {
				return false, err
			}
			r.lst = st
			if r.resetPos == 0 {
				r.resetPos = r.bits.pos
			} else {
				r.resetPos = invalidReset
			}
			return false, nil
		}

		return true, nil

	default:
		panic(fmt.Sprintf("invalid bitcode %v", code))
	}
}

func isIonSymbolTable(as []SymbolToken) bool {
	return len(as) > 0 && as[0].Text != nil && *as[0].Text == "$ion_symbol_table"
}

// readBVM reads a BVM, validates it, and resets the local symbol table.
func (r *binaryReader) readBVM() error {
	major, minor, err := r.bits.ReadBVM()
	if err != nil {
		return err
	}

	if major == 1 && minor == 0 {
		r.lst = V1SystemSymbolTable
		return nil
	}

	return &UnsupportedVersionError{
		int(major),
		int(minor),
		r.bits.Pos() - 4,
	}
}

// readFieldName reads and resolves a field name.
func (r *binaryReader) readFieldName() error {
	id, err := r.bits.ReadFieldID()
	if err != nil {
		return err
	}

	st, err := NewSymbolTokenBySID(r.SymbolTable(), int64(id))
	if err != nil {
		return err
	}

	r.fieldName = &st
	return nil
}

// readAnnotations reads and resolves a set of annotations.
func (r *binaryReader) readAnnotations() error {
	as, err := r.bits.ReadAnnotations(r.SymbolTable())
	if err != nil {
		return err
	}

	r.annotations = as
	return nil
}

// StepIn steps in to a container-type value
func (r *binaryReader) StepIn() error {
	if r.err != nil {
		return r.err
	}

	if r.valueType != ListType && r.valueType != SexpType && r.valueType != StructType {
		return &UsageError{"Reader.StepIn", fmt.Sprintf("cannot step in to a %v", r.valueType)}
	}
	if r.value == nil {
		return &UsageError{"Reader.StepIn", "cannot step in to a null container"}
	}

	r.ctx.push(containerTypeToCtx(r.valueType))
	r.clear()
	r.bits.StepIn()

	return nil
}

// StepOut steps out of a container-type value.
func (r *binaryReader) StepOut() error {
	if r.err != nil {
		return r.err
	}
	if r.ctx.peek() == ctxAtTopLevel {
		return &UsageError{"Reader.StepOut", "cannot step out of top-level datagram"}
	}

	if err := r.bits.StepOut(); err != nil {
		return err
	}

	r.clear()
	r.ctx.pop()
	r.eof = false

	return nil
}
