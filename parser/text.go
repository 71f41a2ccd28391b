package parser

import (
	"encoding/hex"
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

// SRUM stores filenames and paths in mixed string encodings with no
// explicit marker, so we guess the encoding from the shape of the byte
// sequence. This is a known approximation - short or empty blobs are
// inherently ambiguous - but it never fails: anything unrecognizable
// degrades to a hex dump.
var (
	utf16le_shape = regexp.MustCompile(`^(?:[^\x00]\x00)+\x00\x00$`)
	utf16be_shape = regexp.MustCompile(`^(?:\x00[^\x00])+\x00\x00$`)
	hex_shape     = regexp.MustCompile(`^[0-9a-fA-F]+$`)
)

// NormalizeText accepts raw bytes or an already hex encoded string and
// decodes it to text.
func NormalizeText(value interface{}) string {
	var data []byte

	switch t := value.(type) {
	case []byte:
		data = t

	case string:
		// Binary columns arrive hex encoded - recover the raw
		// bytes first.
		if len(t)%2 == 0 && hex_shape.MatchString(t) {
			decoded, err := hex.DecodeString(t)
			if err != nil {
				data = []byte(t)
			} else {
				data = decoded
			}
		} else {
			data = []byte(t)
		}

	default:
		return fmt.Sprintf("%v", value)
	}

	var (
		decoded []byte
		err     error
	)

	switch {
	case utf16le_shape.Match(data):
		decoded, err = unicode.UTF16(
			unicode.LittleEndian, unicode.IgnoreBOM).
			NewDecoder().Bytes(data)

	case utf16be_shape.Match(data):
		decoded, err = unicode.UTF16(
			unicode.BigEndian, unicode.IgnoreBOM).
			NewDecoder().Bytes(data)

	default:
		decoded, err = charmap.ISO8859_1.NewDecoder().Bytes(data)
	}

	if err != nil {
		return hex.EncodeToString(data)
	}

	return strings.Trim(string(decoded), "\x00")
}
