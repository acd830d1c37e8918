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

import "fmt"

// A Type identifies the type of an Ion value: one of the eleven scalar and
// container types the data model defines, NullType for the untyped null,
// or NoType when a Reader is not currently positioned on a value at all.
type Type uint8

// The Ion type lattice. Scalars occupy NullType..BlobType; containers
// occupy ListType..StructType. IsScalar and IsContainer rely on that
// ordering, so new types must be added within the right span.
const (
	NoType Type = iota
	NullType
	BoolType
	IntType
	FloatType
	DecimalType
	TimestampType
	SymbolType
	StringType
	ClobType
	BlobType
	ListType
	SexpType
	StructType
)

var typeNames = [...]string{
	NoType:        "<no type>",
	NullType:      "null",
	BoolType:      "bool",
	IntType:       "int",
	FloatType:     "float",
	DecimalType:   "decimal",
	TimestampType: "timestamp",
	SymbolType:    "symbol",
	StringType:    "string",
	ClobType:      "clob",
	BlobType:      "blob",
	ListType:      "list",
	SexpType:      "sexp",
	StructType:    "struct",
}

// String implements fmt.Stringer for Type.
func (t Type) String() string {
	if int(t) < len(typeNames) {
		if name := typeNames[t]; name != "" {
			return name
		}
	}
	return fmt.Sprintf("<unknown type %v>", uint8(t))
}

// IsScalar reports whether t is one of the non-container Ion types,
// including NullType.
func IsScalar(t Type) bool {
	return t >= NullType && t <= BlobType
}

// IsContainer reports whether t is list, sexp, or struct.
func IsContainer(t Type) bool {
	return t >= ListType && t <= StructType
}

// IntSize classifies how large an Ion int value is, so callers can pick a
// Go representation (int32, int64, or big.Int) that won't overflow.
type IntSize uint8

const (
	// NullInt marks a null.int, which has no magnitude to size.
	NullInt IntSize = iota
	// Int32 fits in an int32 without loss.
	Int32
	// Int64 fits in an int64 without loss.
	Int64
	// BigInt requires arbitrary-precision storage.
	BigInt
)

var intSizeNames = [...]string{
	NullInt: "null.int",
	Int32:   "int32",
	Int64:   "int64",
	BigInt:  "big.Int",
}

// String implements fmt.Stringer for IntSize.
func (i IntSize) String() string {
	if int(i) < len(intSizeNames) {
		if name := intSizeNames[i]; name != "" {
			return name
		}
	}
	return fmt.Sprintf("<unknown size %v>", uint8(i))
}
