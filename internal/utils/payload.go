package utils

// Credential-like fields stripped from any logged webhook payload.
var sensitiveKeys = map[string]bool{
	"api_key":  true,
	"password": true,
	"token":    true,
}

// SanitizePayload returns a copy of a webhook body safe for structured logs.
// The original map is left untouched; the stored raw snapshot keeps the full
// payload, only log output is filtered. Nested objects are walked too.
func SanitizePayload(body map[string]any) map[string]any {
	if body == nil {
		return nil
	}
	out := make(map[string]any, len(body))
	for k, v := range body {
		if sensitiveKeys[k] {
			out[k] = "[redacted]"
			continue
		}
		if nested, ok := v.(map[string]any); ok {
			out[k] = SanitizePayload(nested)
			continue
		}
		out[k] = v
	}
	return out
}
