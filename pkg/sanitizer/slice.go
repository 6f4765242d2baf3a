package sanitizer

// NormalizeStringSlice applies normalizer to every item and drops empty
// results. Duplicates are detected on the comparison key, so "Hall A" and
// "hall a" collapse to whichever spelling came first.
func NormalizeStringSlice(items []string, normalizer func(string) string) []string {
	if len(items) == 0 {
		return []string{}
	}

	seen := make(map[string]bool)
	result := make([]string, 0, len(items))

	for _, item := range items {
		normalized := normalizer(item)
		if normalized == "" {
			continue
		}

		key := NormalizeKey(normalized)
		if seen[key] {
			continue
		}

		seen[key] = true
		result = append(result, normalized)
	}

	return result
}

func NormalizeVenueNames(names []string) []string {
	return NormalizeStringSlice(names, NormalizeText)
}
