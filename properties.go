package mapview

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"math"
	"sort"

	"github.com/flatgeobuf/flatgeobuf/src/go/flattypes"
	"github.com/flatgeobuf/flatgeobuf/src/go/writer"
	flatbuffers "github.com/google/flatbuffers/go"
)

// column is one property column of a FlatGeobuf file being written.
type column struct {
	name string
	typ  flattypes.ColumnType
}

// inferColumns derives the column schema from the attributes of all rows.
// Columns are ordered by name. A column whose rows disagree on kind is
// written as String.
func inferColumns(rows []Attributes) []column {
	seen := make(map[string]bool)
	kinds := make(map[string]flattypes.ColumnType)
	for _, attrs := range rows {
		for name, v := range attrs {
			seen[name] = true
			t, ok := columnTypeOf(v)
			if !ok {
				continue
			}
			if existing, typed := kinds[name]; typed && existing != t {
				t = flattypes.ColumnTypeString
			}
			kinds[name] = t
		}
	}

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)

	columns := make([]column, len(names))
	for i, name := range names {
		t, typed := kinds[name]
		if !typed {
			// Only nulls
			t = flattypes.ColumnTypeString
		}
		columns[i] = column{name: name, typ: t}
	}
	return columns
}

// columnTypeOf maps a Value kind to its FlatGeobuf column type. Null has no
// type of its own.
func columnTypeOf(v Value) (flattypes.ColumnType, bool) {
	switch v.Kind() {
	case KindBool:
		return flattypes.ColumnTypeBool, true
	case KindNumber:
		return flattypes.ColumnTypeDouble, true
	case KindString:
		return flattypes.ColumnTypeString, true
	default:
		return 0, false
	}
}

func buildColumns(columns []column, builder *flatbuffers.Builder) []*writer.Column {
	out := make([]*writer.Column, 0, len(columns))
	for _, c := range columns {
		col := writer.NewColumn(builder)
		col.SetName(c.name)
		col.SetTitle(c.name) // Title matches name for JS library compatibility
		col.SetType(c.typ)
		col.SetNullable(true)
		out = append(out, col)
	}
	return out
}

// encodeProperties encodes attributes in column order.
// The format is: [2-byte column index][value bytes]... for each non-null value.
func encodeProperties(attrs Attributes, columns []column) []byte {
	if len(attrs) == 0 || len(columns) == 0 {
		return nil
	}

	var buf bytes.Buffer
	for i, c := range columns {
		v, ok := attrs[c.name]
		if !ok || v.IsNull() {
			continue
		}

		var idx [2]byte
		binary.LittleEndian.PutUint16(idx[:], uint16(i))
		buf.Write(idx[:])

		writePropertyValue(&buf, v, c.typ)
	}
	return buf.Bytes()
}

// writePropertyValue writes v encoded as the column type t.
func writePropertyValue(buf *bytes.Buffer, v Value, t flattypes.ColumnType) {
	switch t {
	case flattypes.ColumnTypeBool:
		b, _ := v.Boolean()
		if b {
			buf.WriteByte(1)
		} else {
			buf.WriteByte(0)
		}

	case flattypes.ColumnTypeDouble:
		n, _ := v.Num()
		var b [8]byte
		binary.LittleEndian.PutUint64(b[:], math.Float64bits(n))
		buf.Write(b[:])

	default:
		s, ok := v.Str()
		if !ok {
			s = v.String()
		}
		// Length-prefixed UTF-8, the FlatGeobuf string layout
		var n [4]byte
		binary.LittleEndian.PutUint32(n[:], uint32(len(s)))
		buf.Write(n[:])
		buf.WriteString(s)
	}
}

// decodeProperties decodes FlatGeobuf binary properties.
func decodeProperties(data []byte, header *flattypes.Header) Attributes {
	if len(data) == 0 || header == nil {
		return Attributes{}
	}

	attrs := make(Attributes)
	offset := 0

	for offset+2 <= len(data) {
		colIndex := int(binary.LittleEndian.Uint16(data[offset : offset+2]))
		offset += 2

		if colIndex >= header.ColumnsLength() {
			break
		}

		var col flattypes.Column
		if !header.Columns(&col, colIndex) {
			break
		}

		value, n := readPropertyValue(data[offset:], col.Type())
		if n == 0 {
			break
		}
		offset += n

		attrs[string(col.Name())] = value
	}

	return attrs
}

// readPropertyValue reads one value and returns it with the number of bytes
// consumed. Zero bytes consumed means the data was truncated.
func readPropertyValue(data []byte, colType flattypes.ColumnType) (Value, int) {
	switch colType {
	case flattypes.ColumnTypeBool:
		if len(data) < 1 {
			return NullValue(), 0
		}
		return BoolValue(data[0] != 0), 1

	case flattypes.ColumnTypeByte:
		if len(data) < 1 {
			return NullValue(), 0
		}
		return NumberValue(float64(int8(data[0]))), 1

	case flattypes.ColumnTypeUByte:
		if len(data) < 1 {
			return NullValue(), 0
		}
		return NumberValue(float64(data[0])), 1

	case flattypes.ColumnTypeShort:
		if len(data) < 2 {
			return NullValue(), 0
		}
		return NumberValue(float64(int16(binary.LittleEndian.Uint16(data)))), 2

	case flattypes.ColumnTypeUShort:
		if len(data) < 2 {
			return NullValue(), 0
		}
		return NumberValue(float64(binary.LittleEndian.Uint16(data))), 2

	case flattypes.ColumnTypeInt:
		if len(data) < 4 {
			return NullValue(), 0
		}
		return NumberValue(float64(int32(binary.LittleEndian.Uint32(data)))), 4

	case flattypes.ColumnTypeUInt:
		if len(data) < 4 {
			return NullValue(), 0
		}
		return NumberValue(float64(binary.LittleEndian.Uint32(data))), 4

	case flattypes.ColumnTypeLong:
		if len(data) < 8 {
			return NullValue(), 0
		}
		return NumberValue(float64(int64(binary.LittleEndian.Uint64(data)))), 8

	case flattypes.ColumnTypeULong:
		if len(data) < 8 {
			return NullValue(), 0
		}
		return NumberValue(float64(binary.LittleEndian.Uint64(data))), 8

	case flattypes.ColumnTypeFloat:
		if len(data) < 4 {
			return NullValue(), 0
		}
		return NumberValue(float64(math.Float32frombits(binary.LittleEndian.Uint32(data)))), 4

	case flattypes.ColumnTypeDouble:
		if len(data) < 8 {
			return NullValue(), 0
		}
		return NumberValue(math.Float64frombits(binary.LittleEndian.Uint64(data))), 8

	case flattypes.ColumnTypeString, flattypes.ColumnTypeDateTime:
		s, n := readLengthPrefixed(data)
		if n == 0 {
			return NullValue(), 0
		}
		return StringValue(string(s)), n

	case flattypes.ColumnTypeJson:
		s, n := readLengthPrefixed(data)
		if n == 0 {
			return NullValue(), 0
		}
		var x interface{}
		if err := json.Unmarshal(s, &x); err != nil {
			return StringValue(string(s)), n
		}
		return ValueOf(x), n

	case flattypes.ColumnTypeBinary:
		s, n := readLengthPrefixed(data)
		if n == 0 {
			return NullValue(), 0
		}
		return StringValue(string(s)), n

	default:
		return NullValue(), 0
	}
}

func readLengthPrefixed(data []byte) ([]byte, int) {
	if len(data) < 4 {
		return nil, 0
	}
	length := int(binary.LittleEndian.Uint32(data))
	if length < 0 || len(data) < 4+length {
		return nil, 0
	}
	return data[4 : 4+length], 4 + length
}
