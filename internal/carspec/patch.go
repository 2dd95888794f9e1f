package carspec

// ClearValue is the explicit "detach this reference" token. A patch value
// equal to it always writes NULL, independent of the allowNull flag.
const ClearValue = "__clear__"

// Patch is a partial update as decoded from a JSON body: only present keys
// are update candidates, unknown keys are ignored.
type Patch map[string]interface{}

// FilterPatch turns a patch into the column set to write.
//
// Web forms routinely submit "" (or the literal "null") for selectors the
// user never touched; treating those as "no change" by default keeps an
// unrelated save from nulling out previously-set references. Rules, per
// patch value:
//   - ClearValue: write NULL, always
//   - nil, "" or "null": skipped unless allowNull, then written verbatim
//     (nil writes NULL)
//   - anything else: written as-is
func FilterPatch(p Patch, allowNull bool) map[string]interface{} {
	cols := make(map[string]interface{})
	for name, col := range patchColumns {
		raw, ok := p[name]
		if !ok {
			continue
		}
		if s, isStr := raw.(string); isStr {
			if s == ClearValue {
				cols[col] = nil
				continue
			}
			if s == "" || s == "null" {
				if allowNull {
					cols[col] = raw
				}
				continue
			}
		}
		if raw == nil {
			if allowNull {
				cols[col] = nil
			}
			continue
		}
		cols[col] = raw
	}
	return cols
}
