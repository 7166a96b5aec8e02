// internal/mappers/raw.go
package mappers

// RawRecord is one scraped record as delivered by a spider: a loose bag of
// source-specific keys plus the "source" tag. The transport (HTTP ingest,
// file replay, queue) is irrelevant here.
type RawRecord map[string]interface{}

// Source returns the source tag used for mapper dispatch.
func (r RawRecord) Source() string {
	return r.String("source")
}

// String returns the value under key as a string, or "" when absent or of
// another type. Mappers never fail on missing fields.
func (r RawRecord) String(key string) string {
	if v, ok := r[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// StringOr returns the value under key or the given default.
func (r RawRecord) StringOr(key, def string) string {
	if v, ok := r[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return def
}

// StringSlice returns the value under key as a string slice. JSON-decoded
// payloads arrive as []interface{}, so both shapes are accepted.
func (r RawRecord) StringSlice(key string) []string {
	switch v := r[key].(type) {
	case []string:
		out := make([]string, len(v))
		copy(out, v)
		return out
	case []interface{}:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}
