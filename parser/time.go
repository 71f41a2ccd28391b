package parser

import (
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
)

const (
	InvalidOLETimestamp  = "Invalid OLE Timestamp"
	InvalidFileTimestamp = "Invalid File Timestamp"

	// Seconds between the FILETIME epoch (1601-01-01) and the Unix
	// epoch.
	filetimeToUnix = 11644473600
)

var oleEpoch = time.Date(1899, 12, 30, 0, 0, 0, 0, time.UTC)

// OLEToTime converts an OLE Automation date - days since 1899-12-30
// with the time of day in the fractional part. The integer and
// fractional parts are split on the decimal point of the float's
// string form so the day count is never rounded.
func OLEToTime(days float64) (time.Time, error) {
	str := strconv.FormatFloat(days, 'f', -1, 64)
	parts := strings.SplitN(str, ".", 2)

	whole, err := strconv.Atoi(parts[0])
	if err != nil {
		return time.Time{}, errors.Wrap(err, "OLE timestamp")
	}

	fraction := float64(0)
	if len(parts) == 2 {
		fraction, err = strconv.ParseFloat("0."+parts[1], 64)
		if err != nil {
			return time.Time{}, errors.Wrap(err, "OLE timestamp")
		}
	}

	result := oleEpoch.AddDate(0, 0, whole).
		Add(time.Duration(86400 * fraction * float64(time.Second)))
	return result, nil
}

// FiletimeToTime converts a Windows FILETIME tick count (100ns units
// since 1601-01-01). Durations of this span overflow time.Duration so
// the conversion goes through the Unix epoch.
func FiletimeToTime(ticks int64) (time.Time, error) {
	if ticks < 0 {
		return time.Time{}, errors.New("negative FILETIME")
	}
	return time.Unix(ticks/10000000-filetimeToUnix,
		(ticks%10000000)*100).UTC(), nil
}
