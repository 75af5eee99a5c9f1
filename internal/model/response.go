package model

// Response is the open, weakly typed object returned by the checkout SDK.
// Different providers populate different subsets of fields, so every accessor
// treats absence as the normal case and never panics.
type Response map[string]any

// Str returns the string value at key, or "" when absent or not a string.
func (r Response) Str(key string) string {
	if r == nil {
		return ""
	}
	s, _ := r[key].(string)
	return s
}

// Num returns the numeric value at key. JSON decoding yields float64, but a
// hand-built response may carry an int.
func (r Response) Num(key string) (float64, bool) {
	if r == nil {
		return 0, false
	}
	switch v := r[key].(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	}
	return 0, false
}

// Nested returns the child object at key, or nil when absent or not an object.
func (r Response) Nested(key string) Response {
	if r == nil {
		return nil
	}
	if m, ok := r[key].(map[string]any); ok {
		return Response(m)
	}
	if m, ok := r[key].(Response); ok {
		return m
	}
	return nil
}

// FirstStr returns the first non-empty string among the given keys, plus the
// key that held it.
func (r Response) FirstStr(keys ...string) (string, string) {
	for _, key := range keys {
		if v := r.Str(key); v != "" {
			return v, key
		}
	}
	return "", ""
}
