package parser

import (
	"encoding/binary"
	"encoding/hex"

	"github.com/pkg/errors"
)

const InvalidSID = "Invalid SID"

// DecodeSID parses a binary SID into its S-<revision>-<authority>-...
// text form. Layout: byte 0 revision, byte 1 sub authority count,
// bytes 2-7 big endian 48 bit authority, then one little endian uint32
// per sub authority.
func DecodeSID(data []byte) (string, error) {
	if len(data) < 8 {
		return "", errors.New("SID too short")
	}

	revision := data[0]
	sub_count := int(data[1])

	if len(data) < 8+4*sub_count {
		return "", errors.Errorf(
			"SID truncated: %v sub authorities in %v bytes",
			sub_count, len(data))
	}

	authority := uint64(0)
	for _, b := range data[2:8] {
		authority = authority<<8 | uint64(b)
	}

	result := []byte("S-")
	result = appendInt(result, uint64(revision))
	result = append(result, '-')
	result = appendInt(result, authority)

	for i := 0; i < sub_count; i++ {
		sub := binary.LittleEndian.Uint32(data[8+4*i:])
		result = append(result, '-')
		result = appendInt(result, uint64(sub))
	}

	return string(result), nil
}

func appendInt(buf []byte, v uint64) []byte {
	if v >= 10 {
		buf = appendInt(buf, v/10)
	}
	return append(buf, byte('0'+v%10))
}

// DecodeSIDHex parses a hex encoded SID blob (the form binary columns
// take after cell decoding) and annotates it with the resolved
// username. Any parse failure yields the Invalid SID sentinel.
func DecodeSIDHex(blob string, known_sids map[string]string) string {
	data, err := hex.DecodeString(blob)
	if err != nil {
		return InvalidSID
	}

	sid, err := DecodeSID(data)
	if err != nil {
		return InvalidSID
	}

	username, pres := known_sids[sid]
	if !pres {
		username = "unknown"
	}
	return sid + " (" + username + ")"
}
