package parser

import (
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/itchyny/timefmt-go"
)

const (
	defaultTimeFormat = "%Y-%m-%d %H:%M:%S"
	luidLookupTable   = "LUID Interfaces"
)

// Formatter converts decoded cell values into their final display
// strings according to a template format directive. All lookup tables
// must be built before any data table is formatted.
type Formatter struct {
	// Named lookup tables from the template workbook (including
	// the "Known SIDS" table, merged with registry data when a
	// hive was supplied).
	Lookups map[string]map[string]string

	// SRUM's own ID to string/SID map from SRUDbIdMapTable.
	IDMap map[int64]string

	// WLAN profile index to network name, from the registry side
	// channel. Only consulted when a hive was supplied.
	Interfaces  map[string]string
	HasRegistry bool
}

// Format dispatches on the directive, first match wins. Every arm is
// fail-soft: a directive that cannot be applied falls through to plain
// stringification of the original value.
func (self *Formatter) Format(value interface{}, directive string) (result string) {
	defer func() {
		if r := recover(); r != nil {
			result = Stringify(value)
		}
	}()

	if value == nil || directive == "" {
		return Stringify(value)
	}

	lower := strings.ToLower(directive)

	switch {
	case lower == "ole" || strings.HasPrefix(lower, "ole:"):
		ts, ok := value.(time.Time)
		if !ok {
			return Stringify(value)
		}
		return timefmt.Format(ts, timePattern(directive))

	case lower == "file" || strings.HasPrefix(lower, "file:"):
		ticks, err := asInt64(value)
		if err != nil {
			return Stringify(value)
		}
		ts, err := FiletimeToTime(ticks)
		if err != nil {
			return InvalidFileTimestamp
		}
		return timefmt.Format(ts, timePattern(directive))

	case strings.HasPrefix(lower, "lookup-"):
		name := directive[len("lookup-"):]
		resolved, pres := self.Lookups[name][Stringify(value)]
		if !pres {
			return Stringify(value)
		}
		return resolved

	case lower == "lookup_id":
		id, err := asInt64(value)
		if err == nil {
			resolved, pres := self.IDMap[id]
			if pres {
				return resolved
			}
		}
		return fmt.Sprintf("Unknown ID (%v)", value)

	case lower == "lookup_luid":
		return self.lookupLUID(value)

	case lower == "seconds":
		seconds, err := asInt64(value)
		if err != nil {
			return Stringify(value)
		}
		return formatDuration(seconds)

	case lower == "md5":
		return fmt.Sprintf("%x", md5.Sum([]byte(Stringify(value))))

	case lower == "sha1":
		return fmt.Sprintf("%x", sha1.Sum([]byte(Stringify(value))))

	case lower == "sha256":
		return fmt.Sprintf("%x", sha256.Sum256([]byte(Stringify(value))))

	case lower == "base16":
		return formatBase16(value)

	case lower == "base2":
		return formatBase2(value)

	case lower == "interface_id":
		if self.HasRegistry {
			resolved, pres := self.Interfaces[Stringify(value)]
			if pres {
				return resolved
			}
		}
		return Stringify(value)

	default:
		return Stringify(value)
	}
}

// The directive may carry a strftime pattern after the colon, eg
// "ole:%Y-%m-%d".
func timePattern(directive string) string {
	idx := strings.Index(directive, ":")
	if idx < 0 || idx == len(directive)-1 {
		return defaultTimeFormat
	}
	return directive[idx+1:]
}

// A LUID encodes the interface type in its top two bytes. The value is
// zero padded to 16 hex digits and the leading 2 bytes are read as a
// big endian short, then resolved through the "LUID Interfaces"
// lookup. The bit width assumptions here follow observed SRUM data.
func (self *Formatter) lookupLUID(value interface{}) string {
	luid, err := asInt64(value)
	if err != nil {
		return Stringify(value)
	}

	padded, err := hex.DecodeString(fmt.Sprintf("%016x", uint64(luid)))
	if err != nil {
		return Stringify(value)
	}

	if_type := binary.BigEndian.Uint16(padded[:2])
	resolved, pres := self.Lookups[luidLookupTable][strconv.Itoa(int(if_type))]
	if !pres {
		return Stringify(value)
	}
	return resolved
}

func formatDuration(seconds int64) string {
	negative := ""
	if seconds < 0 {
		negative = "-"
		seconds = -seconds
	}
	return fmt.Sprintf("%s%d:%02d:%02d", negative,
		seconds/3600, seconds/60%60, seconds%60)
}

func formatBase16(value interface{}) string {
	switch value.(type) {
	case int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64:
		v, _ := asInt64(value)
		return fmt.Sprintf("%#x", v)
	}

	v, err := asInt64(value)
	if err != nil {
		return Stringify(value)
	}
	return fmt.Sprintf("%08x", v)
}

func formatBase2(value interface{}) string {
	switch value.(type) {
	case int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64:
		v, _ := asInt64(value)
		return fmt.Sprintf("%032b", v)
	}

	// A binary digit string is parsed back to its integer value.
	str := Stringify(value)
	v, err := strconv.ParseInt(str, 2, 64)
	if err != nil {
		return str
	}
	return strconv.FormatInt(v, 10)
}

// Stringify renders any decoded value for display. Timestamps use the
// canonical date form, nil becomes "None".
func Stringify(value interface{}) string {
	switch t := value.(type) {
	case nil:
		return "None"
	case string:
		return t
	case Sentinel:
		return string(t)
	case time.Time:
		return t.Format("2006-01-02 15:04:05")
	default:
		return fmt.Sprintf("%v", value)
	}
}

func asInt64(value interface{}) (int64, error) {
	switch t := value.(type) {
	case int:
		return int64(t), nil
	case int8:
		return int64(t), nil
	case int16:
		return int64(t), nil
	case int32:
		return int64(t), nil
	case int64:
		return t, nil
	case uint:
		return int64(t), nil
	case uint8:
		return int64(t), nil
	case uint16:
		return int64(t), nil
	case uint32:
		return int64(t), nil
	case uint64:
		return int64(t), nil
	case float32:
		return int64(t), nil
	case float64:
		return int64(t), nil
	case string:
		return strconv.ParseInt(strings.TrimSpace(t), 10, 64)
	default:
		return 0, fmt.Errorf("not an integer: %T", value)
	}
}
