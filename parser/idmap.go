package parser

import "context"

// SRUM deduplicates repeated strings and SIDs into a single table and
// stores integer indexes everywhere else.
const (
	idMapTableName = "SRUDbIdMapTable"

	// IdType value marking a binary SID blob.
	idTypeSID = 3
)

// BuildIDMap reads SRUDbIdMapTable fully into memory and resolves each
// IdBlob to its display string. This lookup is optional enrichment: if
// the table is absent or malformed an empty map is returned and
// lookup_id directives degrade to their fallback rendering.
func BuildIDMap(ctx context.Context, database Database,
	known_sids map[string]string) map[int64]string {

	result := make(map[int64]string)

	table, err := database.Table(idMapTableName)
	if err != nil {
		return result
	}

	columns := make(map[string]Column)
	for _, column := range table.Columns() {
		columns[column.Name] = column
	}

	id_type, pres_type := columns["IdType"]
	id_index, pres_index := columns["IdIndex"]
	id_blob, pres_blob := columns["IdBlob"]
	if !pres_type || !pres_index || !pres_blob {
		return result
	}

	_ = table.Walk(ctx, func(record Record) error {
		index, err := asInt64(DecodeCell(record, id_index))
		if err != nil {
			return nil
		}

		blob := DecodeCell(record, id_blob)

		blob_type, err := asInt64(DecodeCell(record, id_type))
		if err == nil && blob_type == idTypeSID {
			result[index] = DecodeSIDHex(
				Stringify(blob), known_sids)
			return nil
		}

		if _, is_sentinel := blob.(Sentinel); !is_sentinel {
			result[index] = NormalizeText(blob)
		}
		return nil
	})

	return result
}
