package normalizer

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// Upstream payloads disagree on scalar types. The types below decode
// leniently and never fail, so one odd field cannot sink a whole record.

// text is a string slot. Numbers and booleans keep their literal text;
// objects, arrays and null decode to "".
type text string

func (t *text) UnmarshalJSON(b []byte) error {
	*t = text(scalar(b))
	return nil
}

func (t text) String() string {
	return strings.TrimSpace(string(t))
}

// named is a label that may arrive as a string, an object with a name
// (or title) field, or a list whose first usable element wins.
type named string

func (n *named) UnmarshalJSON(b []byte) error {
	*n = named(strings.TrimSpace(label(b)))
	return nil
}

func label(b []byte) string {
	b = bytes.TrimSpace(b)
	if len(b) == 0 {
		return ""
	}
	switch b[0] {
	case '{':
		var obj struct {
			Name  text `json:"name"`
			Title text `json:"title"`
		}
		if json.Unmarshal(b, &obj) != nil {
			return ""
		}
		if obj.Name.String() != "" {
			return obj.Name.String()
		}
		return obj.Title.String()
	case '[':
		var items []json.RawMessage
		if json.Unmarshal(b, &items) != nil {
			return ""
		}
		for _, item := range items {
			if l := label(item); l != "" {
				return l
			}
		}
		return ""
	}
	return scalar(b)
}

// textList is a list of labels. A single string is split on commas.
type textList []string

func (l *textList) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	out := []string{}

	switch {
	case len(b) > 0 && b[0] == '[':
		var items []json.RawMessage
		if json.Unmarshal(b, &items) == nil {
			for _, item := range items {
				if s := strings.TrimSpace(label(item)); s != "" {
					out = append(out, s)
				}
			}
		}
	default:
		for _, part := range strings.Split(scalar(b), ",") {
			if s := strings.TrimSpace(part); s != "" {
				out = append(out, s)
			}
		}
	}

	*l = out
	return nil
}

// flag is a checkbox. Airtable omits false checkboxes entirely.
type flag bool

func (f *flag) UnmarshalJSON(b []byte) error {
	switch strings.ToLower(scalar(b)) {
	case "true", "1", "yes", "y", "checked":
		*f = true
	default:
		*f = false
	}
	return nil
}

// attachment is an image slot: a URL string or an Airtable attachment list.
type attachment string

func (a *attachment) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '[' {
		var files []struct {
			URL text `json:"url"`
		}
		if json.Unmarshal(b, &files) == nil && len(files) > 0 {
			*a = attachment(files[0].URL.String())
			return nil
		}
		*a = ""
		return nil
	}
	*a = attachment(strings.TrimSpace(scalar(b)))
	return nil
}

// anyValue keeps the decoded value for slug.FromValue.
type anyValue struct {
	v any
}

func (a *anyValue) UnmarshalJSON(b []byte) error {
	var v any
	if json.Unmarshal(b, &v) == nil {
		a.v = v
	}
	return nil
}

func scalar(b []byte) string {
	b = bytes.TrimSpace(b)
	if len(b) == 0 {
		return ""
	}
	switch b[0] {
	case '"':
		var s string
		if json.Unmarshal(b, &s) != nil {
			return ""
		}
		return s
	case 't', 'f':
		if v, err := strconv.ParseBool(string(b)); err == nil {
			return strconv.FormatBool(v)
		}
		return ""
	case '{', '[', 'n':
		return ""
	}
	var n json.Number
	if json.Unmarshal(b, &n) != nil {
		return ""
	}
	return n.String()
}

func isObject(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == '{'
}

func joinNonEmpty(parts ...string) string {
	kept := parts[:0:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, " ")
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
