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
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTypeToString(t *testing.T) {
	for i := NoType; i <= StructType+1; i++ {
		assert.NotEmpty(t, i.String(), "type %v should stringify to something", uint8(i))
	}
}

func TestIntSizeToString(t *testing.T) {
	for i := NullInt; i <= BigInt+1; i++ {
		assert.NotEmpty(t, i.String(), "size %v should stringify to something", uint8(i))
	}
}

func TestIsScalar(t *testing.T) {
	cases := []struct {
		typ    Type
		scalar bool
	}{
		{NullType, true}, {BoolType, true}, {IntType, true}, {FloatType, true},
		{DecimalType, true}, {TimestampType, true}, {SymbolType, true},
		{StringType, true}, {ClobType, true}, {BlobType, true},
		{NoType, false}, {ListType, false}, {SexpType, false}, {StructType, false},
	}
	for _, c := range cases {
		t.Run(c.typ.String(), func(t *testing.T) {
			assert.Equal(t, c.scalar, IsScalar(c.typ))
		})
	}
}

func TestIsContainer(t *testing.T) {
	cases := []struct {
		typ       Type
		container bool
	}{
		{ListType, true}, {SexpType, true}, {StructType, true},
		{NoType, false}, {NullType, false}, {BoolType, false}, {IntType, false},
		{FloatType, false}, {DecimalType, false}, {TimestampType, false},
		{SymbolType, false}, {StringType, false}, {ClobType, false}, {BlobType, false},
	}
	for _, c := range cases {
		t.Run(c.typ.String(), func(t *testing.T) {
			assert.Equal(t, c.container, IsContainer(c.typ))
		})
	}
}
