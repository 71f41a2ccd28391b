// Best effort lookups from a raw SOFTWARE hive. Both loaders enrich
// the SRUM output (usernames on SIDs, network names on WLAN profile
// indexes) and both degrade to an empty map on any failure: a missing
// key or a damaged hive must never abort the analysis.

package registry

import (
	"encoding/binary"
	"io"
	"strconv"
	"strings"

	"golang.org/x/text/encoding/charmap"
	"www.velocidex.com/golang/regparser"
)

const (
	profileListKey    = "/Microsoft/Windows NT/CurrentVersion/ProfileList"
	wlanInterfacesKey = "/Microsoft/WlanSvc/Interfaces"
)

// LoadProfileSIDs maps each profile SID to a short username taken from
// the last path segment of its ProfileImagePath.
func LoadProfileSIDs(reader io.ReaderAt) map[string]string {
	result := make(map[string]string)

	registry, err := regparser.NewRegistry(reader)
	if err != nil {
		return result
	}

	profile_list := registry.OpenKey(profileListKey)
	if profile_list == nil {
		return result
	}

	for _, profile := range profile_list.Subkeys() {
		for _, value := range profile.Values() {
			if !strings.EqualFold(
				value.ValueName(), "ProfileImagePath") {
				continue
			}

			image_path := strings.TrimRight(
				value.ValueData().String, "\x00")
			if image_path == "" {
				continue
			}

			segments := strings.FieldsFunc(image_path,
				func(r rune) bool {
					return r == '\\' || r == '/'
				})
			if len(segments) > 0 {
				result[profile.Name()] = segments[len(segments)-1]
			}
		}
	}

	return result
}

// LoadWlanInterfaces maps WLAN profile indexes (stringified) to their
// decoded network names. Profiles need both a ProfileIndex value and a
// MetaData subkey carrying a Channel Hints blob; anything else is
// silently skipped.
func LoadWlanInterfaces(reader io.ReaderAt) map[string]string {
	result := make(map[string]string)

	registry, err := regparser.NewRegistry(reader)
	if err != nil {
		return result
	}

	interfaces := registry.OpenKey(wlanInterfacesKey)
	if interfaces == nil {
		return result
	}

	for _, iface := range interfaces.Subkeys() {
		profiles := registry.OpenKey(wlanInterfacesKey + "/" +
			iface.Name() + "/Profiles")
		if profiles == nil {
			continue
		}

		for _, profile := range profiles.Subkeys() {
			index, pres := profileIndex(profile)
			if !pres {
				continue
			}

			metadata := registry.OpenKey(wlanInterfacesKey + "/" +
				iface.Name() + "/Profiles/" + profile.Name() +
				"/MetaData")
			if metadata == nil {
				continue
			}

			for _, value := range metadata.Values() {
				name := value.ValueName()
				if name != "Channel Hints" &&
					name != "Band Channel Hints" {
					continue
				}

				network, pres := decodeChannelHint(
					value.ValueData().Data)
				if pres {
					result[index] = network
				}
			}
		}
	}

	return result
}

func profileIndex(profile *regparser.CM_KEY_NODE) (string, bool) {
	for _, value := range profile.Values() {
		if strings.EqualFold(value.ValueName(), "ProfileIndex") {
			return strconv.FormatUint(
				value.ValueData().Uint64, 10), true
		}
	}
	return "", false
}

// Channel hint blobs are length prefixed: 4 bytes little endian name
// length, then the network name bytes.
func decodeChannelHint(data []byte) (string, bool) {
	if len(data) < 4 {
		return "", false
	}

	length := int(binary.LittleEndian.Uint32(data))
	if length < 0 || 4+length > len(data) {
		return "", false
	}

	name, err := charmap.ISO8859_1.NewDecoder().Bytes(data[4 : 4+length])
	if err != nil {
		return "", false
	}
	return string(name), true
}
