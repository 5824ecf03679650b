package utils

// StringPtr returns a pointer to s
func StringPtr(s string) *string {
	return &s
}

// StringValue dereferences p, returning fallback when p is nil
func StringValue(p *string, fallback string) string {
	if p == nil {
		return fallback
	}
	return *p
}
