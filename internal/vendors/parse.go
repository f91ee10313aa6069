package vendors

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

type normalizer interface {
	normalize(body map[string]any, now time.Time, loc *time.Location) (*Signal, error)
}

var registry = map[string]normalizer{
	"anviz":     anvizPayload{},
	"zkteco":    zktecoPayload{},
	"hikvision": hikvisionPayload{},
	"generic":   genericPayload{},
}

// Known reports whether a vendor tag has a registered payload shape.
func Known(vendor string) bool {
	_, ok := registry[strings.ToLower(vendor)]
	return ok
}

// Parse normalizes one raw webhook body. Naive timestamps (no zone, or
// epoch seconds) are interpreted in loc, the posting device's restaurant
// timezone; an absent timestamp defaults to now.
func Parse(vendor string, body map[string]any, now time.Time, loc *time.Location) (*Signal, error) {
	n, ok := registry[strings.ToLower(vendor)]
	if !ok {
		return nil, ErrUnknownVendor
	}
	if body == nil {
		body = map[string]any{}
	}
	sig, err := n.normalize(body, now, loc)
	if err != nil {
		return nil, err
	}
	sig.Raw = body
	if sig.Kind == "" {
		sig.Kind = KindClock
	}
	if sig.Hint == "" {
		sig.Hint = HintUnknown
	}
	if sig.Method == "" {
		sig.Method = "unknown"
	}
	return sig, nil
}

// firstString walks an ordered list of alternate field names and returns the
// first present, non-empty value coerced to string. Keys may address one
// level of nesting as "outer.inner".
func firstString(body map[string]any, keys ...string) string {
	for _, k := range keys {
		var v any
		var ok bool
		if outer, inner, nested := strings.Cut(k, "."); nested {
			sub, subOK := body[outer].(map[string]any)
			if !subOK {
				continue
			}
			v, ok = sub[inner]
		} else {
			v, ok = body[k]
		}
		if !ok || v == nil {
			continue
		}
		if s := coerceString(v); s != "" {
			return s
		}
	}
	return ""
}

func coerceString(v any) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case float64:
		// JSON numbers decode as float64; device ids are integral.
		return strconv.FormatInt(int64(t), 10)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case bool:
		return strconv.FormatBool(t)
	default:
		return strings.TrimSpace(fmt.Sprintf("%v", t))
	}
}

var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

// parseTimestamp accepts an ISO-like datetime string or a Unix epoch and
// falls back to now when the field is absent or unreadable.
func parseTimestamp(v any, now time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	switch t := v.(type) {
	case nil:
		return now
	case float64:
		return time.Unix(int64(t), 0).In(loc)
	case int64:
		return time.Unix(t, 0).In(loc)
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return now
		}
		if epoch, err := strconv.ParseInt(s, 10, 64); err == nil {
			return time.Unix(epoch, 0).In(loc)
		}
		for _, layout := range timestampLayouts {
			if layout == time.RFC3339 {
				if ts, err := time.Parse(layout, s); err == nil {
					return ts.In(loc)
				}
				continue
			}
			if ts, err := time.ParseInLocation(layout, s, loc); err == nil {
				return ts
			}
		}
		return now
	default:
		return now
	}
}

func intField(body map[string]any, keys ...string) (int, bool) {
	s := firstString(body, keys...)
	if s == "" {
		return 0, false
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return n, true
}

func confidenceField(body map[string]any, keys ...string) *int {
	n, ok := intField(body, keys...)
	if !ok || n < 0 || n > 100 {
		return nil
	}
	return &n
}
