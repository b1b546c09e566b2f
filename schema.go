package csvlate

// DetectSchema resolves the source column and the translatable target
// columns of a header row. Key, Id and the source column itself are never
// targets; other headers are kept only when found in the language table.
func DetectSchema(headers []string, source string) (Schema, error) {
	found := false
	for _, h := range headers {
		if h == source {
			found = true
			break
		}
	}
	if !found {
		return Schema{}, &SchemaError{
			Message: "source column not found in headers",
			Column:  source,
		}
	}

	schema := Schema{Source: source}
	seen := make(map[string]bool)
	for _, h := range headers {
		if h == KeyColumn || h == IDColumn || h == source || seen[h] {
			continue
		}
		if code, ok := LookupLanguageHeader(h); ok {
			schema.Targets = append(schema.Targets, TargetColumn{Header: h, Lang: code})
			seen[h] = true
		}
	}

	if len(schema.Targets) == 0 {
		return Schema{}, &SchemaError{Message: "no translatable language columns detected"}
	}
	return schema, nil
}
