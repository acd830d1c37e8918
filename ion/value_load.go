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

import "io"

// Load reads the next top-level value off r and materializes it as a
// Value, recursively loading any container contents. It returns io.EOF
// once the stream is exhausted.
func Load(r Reader) (Value, error) {
	if !r.Next() {
		if err := r.Err(); err != nil {
			return Value{}, err
		}
		return Value{}, io.EOF
	}
	return loadValue(r)
}

// LoadAll reads every top-level value off r into a slice, in wire order.
func LoadAll(r Reader) ([]Value, error) {
	var vals []Value
	for r.Next() {
		v, err := loadValue(r)
		if err != nil {
			return nil, err
		}
		vals = append(vals, v)
	}
	if err := r.Err(); err != nil {
		return nil, err
	}
	return vals, nil
}

// loadValue materializes the value r is currently positioned on. The
// caller is responsible for having already called r.Next().
func loadValue(r Reader) (Value, error) {
	v := Value{typ: r.Type()}

	annotations, err := r.Annotations()
	if err != nil {
		return Value{}, err
	}
	v.annotations = annotations

	if r.IsNull() {
		v.isNull = true
		return v, nil
	}

	switch v.typ {
	case BoolType:
		b, err := r.BoolValue()
		if err != nil {
			return Value{}, err
		}
		v.boolVal = *b

	case IntType:
		i, err := r.BigIntValue()
		if err != nil {
			return Value{}, err
		}
		v.intVal = i

	case FloatType:
		f, err := r.FloatValue()
		if err != nil {
			return Value{}, err
		}
		v.floatVal = *f

	case DecimalType:
		d, err := r.DecimalValue()
		if err != nil {
			return Value{}, err
		}
		v.decimalVal = d

	case TimestampType:
		ts, err := r.TimestampValue()
		if err != nil {
			return Value{}, err
		}
		v.timestampVal = *ts

	case SymbolType:
		sym, err := r.SymbolValue()
		if err != nil {
			return Value{}, err
		}
		v.symbolVal = *sym

	case StringType:
		s, err := r.StringValue()
		if err != nil {
			return Value{}, err
		}
		v.stringVal = *s

	case ClobType, BlobType:
		b, err := r.ByteValue()
		if err != nil {
			return Value{}, err
		}
		v.bytesVal = b

	case ListType, SexpType:
		items, err := loadSequence(r)
		if err != nil {
			return Value{}, err
		}
		v.listVal = items

	case StructType:
		fields, err := loadStruct(r)
		if err != nil {
			return Value{}, err
		}
		v.structVal = fields
	}

	return v, nil
}

func loadSequence(r Reader) ([]Value, error) {
	if err := r.StepIn(); err != nil {
		return nil, err
	}

	var items []Value
	for r.Next() {
		item, err := loadValue(r)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if err := r.Err(); err != nil {
		return nil, err
	}
	if err := r.StepOut(); err != nil {
		return nil, err
	}

	return items, nil
}

func loadStruct(r Reader) ([]StructField, error) {
	if err := r.StepIn(); err != nil {
		return nil, err
	}

	var fields []StructField
	for r.Next() {
		fn, err := r.FieldName()
		if err != nil {
			return nil, err
		}
		if fn == nil {
			return nil, &UsageError{"Load", "struct member has no field name"}
		}

		fv, err := loadValue(r)
		if err != nil {
			return nil, err
		}

		fields = append(fields, StructField{Name: *fn, Value: fv})
	}
	if err := r.Err(); err != nil {
		return nil, err
	}
	if err := r.StepOut(); err != nil {
		return nil, err
	}

	return fields, nil
}
