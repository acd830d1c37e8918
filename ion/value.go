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

import "math/big"

// A Value is a single, fully-materialized Ion value: a type tag, its
// annotations, and exactly one of the eleven payload shapes Ion defines.
// Unlike a Reader, which exposes a value only while positioned on it, a
// Value stands alone and can be held, copied, or written out long after the
// stream it came from is gone.
type Value struct {
	typ         Type
	annotations []SymbolToken
	isNull      bool

	boolVal      bool
	intVal       *big.Int
	floatVal     float64
	decimalVal   *Decimal
	timestampVal Timestamp
	symbolVal    SymbolToken
	stringVal    string
	bytesVal     []byte
	listVal      []Value
	structVal    []StructField
}

// A StructField pairs a field name with its value, preserving the order and
// duplicate fields a struct may carry on the wire.
type StructField struct {
	Name  SymbolToken
	Value Value
}

// Null returns the untyped Ion null value.
func Null() Value {
	return Value{typ: NullType, isNull: true}
}

// NullValue returns the typed null of t, e.g. null.string.
func NullValue(t Type) Value {
	return Value{typ: t, isNull: true}
}

// Bool returns an Ion bool value.
func Bool(v bool) Value {
	return Value{typ: BoolType, boolVal: v}
}

// Int returns an Ion int value.
func Int(v int64) Value {
	return Value{typ: IntType, intVal: big.NewInt(v)}
}

// Uint returns an Ion int value from an unsigned input.
func Uint(v uint64) Value {
	return Value{typ: IntType, intVal: new(big.Int).SetUint64(v)}
}

// BigInt returns an Ion int value of arbitrary size.
func BigInt(v *big.Int) Value {
	return Value{typ: IntType, intVal: v}
}

// Float returns an Ion float value.
func Float(v float64) Value {
	return Value{typ: FloatType, floatVal: v}
}

// DecimalValue returns an Ion decimal value.
func DecimalValue(v *Decimal) Value {
	return Value{typ: DecimalType, decimalVal: v}
}

// TimestampValue returns an Ion timestamp value.
func TimestampValue(v Timestamp) Value {
	return Value{typ: TimestampType, timestampVal: v}
}

// Symbol returns an Ion symbol value.
func Symbol(v SymbolToken) Value {
	return Value{typ: SymbolType, symbolVal: v}
}

// String returns an Ion string value.
func String(v string) Value {
	return Value{typ: StringType, stringVal: v}
}

// Clob returns an Ion clob value.
func Clob(v []byte) Value {
	return Value{typ: ClobType, bytesVal: v}
}

// Blob returns an Ion blob value.
func Blob(v []byte) Value {
	return Value{typ: BlobType, bytesVal: v}
}

// List returns an Ion list value containing items in order.
func List(items []Value) Value {
	return Value{typ: ListType, listVal: items}
}

// Sexp returns an Ion s-expression value containing items in order.
func Sexp(items []Value) Value {
	return Value{typ: SexpType, listVal: items}
}

// Struct returns an Ion struct value containing fields in order.
func Struct(fields []StructField) Value {
	return Value{typ: StructType, structVal: fields}
}

// Type returns the value's Ion type.
func (v Value) Type() Type {
	return v.typ
}

// IsNull reports whether v is null, of any type.
func (v Value) IsNull() bool {
	return v.isNull
}

// Annotations returns v's annotations, in wire order.
func (v Value) Annotations() []SymbolToken {
	return v.annotations
}

// Annotate returns a copy of v carrying the given annotations in place of
// whatever it already had.
func (v Value) Annotate(annotations ...SymbolToken) Value {
	v.annotations = annotations
	return v
}

// Bool returns v's bool payload. It is only meaningful when Type() == BoolType.
func (v Value) Bool() bool {
	return v.boolVal
}

// BigInt returns v's int payload as a big.Int. It is only meaningful when
// Type() == IntType.
func (v Value) BigInt() *big.Int {
	return v.intVal
}

// Float returns v's float payload. It is only meaningful when
// Type() == FloatType.
func (v Value) Float() float64 {
	return v.floatVal
}

// Decimal returns v's decimal payload. It is only meaningful when
// Type() == DecimalType.
func (v Value) Decimal() *Decimal {
	return v.decimalVal
}

// Timestamp returns v's timestamp payload. It is only meaningful when
// Type() == TimestampType.
func (v Value) Timestamp() Timestamp {
	return v.timestampVal
}

// Symbol returns v's symbol payload. It is only meaningful when
// Type() == SymbolType.
func (v Value) Symbol() SymbolToken {
	return v.symbolVal
}

// StringValue returns v's string payload. It is only meaningful when
// Type() == StringType.
func (v Value) StringValue() string {
	return v.stringVal
}

// Bytes returns v's clob or blob payload.
func (v Value) Bytes() []byte {
	return v.bytesVal
}

// List returns v's list or sexp payload, in wire order.
func (v Value) List() []Value {
	return v.listVal
}

// StructFields returns v's struct payload, in wire order.
func (v Value) StructFields() []StructField {
	return v.structVal
}

// Equal reports whether v and o are the same Ion value: same type,
// annotations, nullness, and payload, recursively for containers.
func (v Value) Equal(o Value) bool {
	if v.typ != o.typ || v.isNull != o.isNull {
		return false
	}
	if len(v.annotations) != len(o.annotations) {
		return false
	}
	for i := range v.annotations {
		a, b := v.annotations[i], o.annotations[i]
		if !a.Equal(&b) {
			return false
		}
	}
	if v.isNull {
		return true
	}

	switch v.typ {
	case BoolType:
		return v.boolVal == o.boolVal
	case IntType:
		return v.intVal.Cmp(o.intVal) == 0
	case FloatType:
		return v.floatVal == o.floatVal
	case DecimalType:
		return v.decimalVal.Equal(o.decimalVal)
	case TimestampType:
		return v.timestampVal.Equal(o.timestampVal)
	case SymbolType:
		return v.symbolVal.Equal(&o.symbolVal)
	case StringType:
		return v.stringVal == o.stringVal
	case ClobType, BlobType:
		if len(v.bytesVal) != len(o.bytesVal) {
			return false
		}
		for i := range v.bytesVal {
			if v.bytesVal[i] != o.bytesVal[i] {
				return false
			}
		}
		return true
	case ListType, SexpType:
		if len(v.listVal) != len(o.listVal) {
			return false
		}
		for i := range v.listVal {
			if !v.listVal[i].Equal(o.listVal[i]) {
				return false
			}
		}
		return true
	case StructType:
		if len(v.structVal) != len(o.structVal) {
			return false
		}
		for i := range v.structVal {
			af, bf := v.structVal[i], o.structVal[i]
			if !af.Name.Equal(&bf.Name) || !af.Value.Equal(bf.Value) {
				return false
			}
		}
		return true
	default:
		return true
	}
}
