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

// Dump writes v to w.
func Dump(w Writer, v Value) error {
	return dumpValue(w, v)
}

// DumpAll writes each value in vs to w, in order, and finishes w.
func DumpAll(w Writer, vs []Value) error {
	for _, v := range vs {
		if err := dumpValue(w, v); err != nil {
			return err
		}
	}
	return w.Finish()
}

func dumpValue(w Writer, v Value) error {
	if len(v.annotations) > 0 {
		if err := w.Annotations(v.annotations...); err != nil {
			return err
		}
	}

	if v.isNull {
		if v.typ == NullType {
			return w.WriteNull()
		}
		return w.WriteNullType(v.typ)
	}

	switch v.typ {
	case BoolType:
		return w.WriteBool(v.boolVal)
	case IntType:
		return w.WriteBigInt(v.intVal)
	case FloatType:
		return w.WriteFloat(v.floatVal)
	case DecimalType:
		return w.WriteDecimal(v.decimalVal)
	case TimestampType:
		return w.WriteTimestamp(v.timestampVal)
	case SymbolType:
		return w.WriteSymbol(v.symbolVal)
	case StringType:
		return w.WriteString(v.stringVal)
	case ClobType:
		return w.WriteClob(v.bytesVal)
	case BlobType:
		return w.WriteBlob(v.bytesVal)
	case ListType:
		return dumpSequence(w, v.listVal, w.BeginList, w.EndList)
	case SexpType:
		return dumpSequence(w, v.listVal, w.BeginSexp, w.EndSexp)
	case StructType:
		return dumpStruct(w, v.structVal)
	default:
		return &UsageError{"Dump", "value has no recognized type"}
	}
}

func dumpSequence(w Writer, items []Value, begin, end func() error) error {
	if err := begin(); err != nil {
		return err
	}
	for _, item := range items {
		if err := dumpValue(w, item); err != nil {
			return err
		}
	}
	return end()
}

func dumpStruct(w Writer, fields []StructField) error {
	if err := w.BeginStruct(); err != nil {
		return err
	}
	for _, f := range fields {
		if err := w.FieldName(f.Name); err != nil {
			return err
		}
		if err := dumpValue(w, f.Value); err != nil {
			return err
		}
	}
	return w.EndStruct()
}
