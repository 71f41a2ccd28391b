package parser

import (
	"encoding/binary"
	"encoding/hex"
	"math"

	"github.com/google/uuid"
)

// Sentinel values stand in for cells that could not be read. They flow
// through the formatting engine like ordinary strings so a bad cell
// never aborts the rest of the table.
type Sentinel string

const (
	Empty    Sentinel = "Empty"
	ErrValue Sentinel = "Error"
)

// DecodeCell reinterprets the raw cell for the given column according
// to its declared type tag. It never panics and never returns an
// error: malformed cells degrade to a text/hex rendering of the raw
// bytes and a reader level failure yields the Error sentinel.
func DecodeCell(record Record, column Column) (value interface{}) {
	defer func() {
		if r := recover(); r != nil {
			value = ErrValue
		}
	}()

	raw, pres := record.Get(column.Name)
	if !pres || raw == nil {
		return Empty
	}

	if _, ok := raw.(error); ok {
		return ErrValue
	}

	// Values the reader already decoded pass through unchanged.
	data, ok := raw.([]byte)
	if !ok {
		return raw
	}

	return decodeBytes(data, column.Type)
}

func decodeBytes(data []byte, col_type ColumnType) interface{} {
	switch col_type {
	case ColumnTypeBinary, ColumnTypeLongBinary, ColumnTypeSLV:
		return hex.EncodeToString(data)

	case ColumnTypeBit:
		if len(data) < 1 {
			return NormalizeText(data)
		}
		return data[0] != 0

	case ColumnTypeUnsignedByte:
		if len(data) != 1 {
			return NormalizeText(data)
		}
		return data[0]

	case ColumnTypeShort:
		if len(data) != 2 {
			return NormalizeText(data)
		}
		return int16(binary.LittleEndian.Uint16(data))

	case ColumnTypeUnsignedShort:
		if len(data) != 2 {
			return NormalizeText(data)
		}
		return binary.LittleEndian.Uint16(data)

	case ColumnTypeLong:
		if len(data) != 4 {
			return NormalizeText(data)
		}
		return int32(binary.LittleEndian.Uint32(data))

	case ColumnTypeUnsignedLong:
		if len(data) != 4 {
			return NormalizeText(data)
		}
		return binary.LittleEndian.Uint32(data)

	case ColumnTypeCurrency, ColumnTypeLongLong:
		if len(data) != 8 {
			return NormalizeText(data)
		}
		return int64(binary.LittleEndian.Uint64(data))

	case ColumnTypeIEEESingle:
		if len(data) != 4 {
			return NormalizeText(data)
		}
		return float64(math.Float32frombits(
			binary.LittleEndian.Uint32(data)))

	case ColumnTypeIEEEDouble:
		if len(data) != 8 {
			return NormalizeText(data)
		}
		return math.Float64frombits(binary.LittleEndian.Uint64(data))

	case ColumnTypeDateTime:
		if len(data) != 8 {
			return NormalizeText(data)
		}
		ts, err := OLEToTime(math.Float64frombits(
			binary.LittleEndian.Uint64(data)))
		if err != nil {
			return InvalidOLETimestamp
		}
		return ts

	case ColumnTypeGUID:
		return decodeGUID(data)

	case ColumnTypeText, ColumnTypeLongText:
		return NormalizeText(data)

	default:
		return NormalizeText(data)
	}
}

// GUIDs are stored in Windows mixed endian order - the first three
// fields are little endian.
func decodeGUID(data []byte) interface{} {
	if len(data) != 16 {
		return NormalizeText(data)
	}

	buf := make([]byte, 16)
	copy(buf, data)
	buf[0], buf[1], buf[2], buf[3] = data[3], data[2], data[1], data[0]
	buf[4], buf[5] = data[5], data[4]
	buf[6], buf[7] = data[7], data[6]

	id, err := uuid.FromBytes(buf)
	if err != nil {
		return NormalizeText(data)
	}
	return id.String()
}
