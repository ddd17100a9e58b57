package leads

import (
	"bytes"
	"encoding/json"
	"math"
	"net/url"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

var formItemIDKey = regexp.MustCompile(`^items\[(\d+)\]\[id\]$`)

// Submission is the canonical form of an intake request body. Every scalar
// is trimmed and missing fields are empty strings.
type Submission struct {
	Name             string
	Email            string
	Phone            string
	Company          string
	Notes            string
	Subject          string
	Message          string
	Country          string
	ContactMethod    string
	DeliveryLocation string
	ItemIDs          []int64
}

// ParseSubmission decodes a JSON object body, falling back to form-encoded
// fields when the body is not a JSON object.
func ParseSubmission(raw []byte) Submission {
	if fields, ok := decodeJSONObject(raw); ok {
		return fromFields(func(key string) any { return fields[key] })
	}
	values, _ := url.ParseQuery(strings.TrimSpace(string(raw)))
	return fromForm(values)
}

func decodeJSONObject(raw []byte) (map[string]any, bool) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var fields map[string]any
	if err := dec.Decode(&fields); err != nil || fields == nil {
		return nil, false
	}
	return fields, true
}

func fromFields(get func(string) any) Submission {
	return Submission{
		Name:             scalar(get("name")),
		Email:            scalar(get("email")),
		Phone:            scalar(get("phone")),
		Company:          scalar(get("company")),
		Notes:            scalar(get("notes")),
		Subject:          scalar(get("subject")),
		Message:          scalar(get("message")),
		Country:          scalar(get("country")),
		ContactMethod:    scalar(get("contact_method")),
		DeliveryLocation: scalar(get("delivery_location")),
		ItemIDs:          itemIDs(get("items")),
	}
}

func fromForm(values url.Values) Submission {
	sub := fromFields(func(key string) any {
		if key == "items" {
			return nil
		}
		if _, ok := values[key]; !ok {
			return nil
		}
		return values.Get(key)
	})
	sub.ItemIDs = formItemIDs(values)
	return sub
}

// formItemIDs reads items sent either as a JSON string in "items" or as
// indexed items[N][id] keys.
func formItemIDs(values url.Values) []int64 {
	if raw := strings.TrimSpace(values.Get("items")); raw != "" {
		dec := json.NewDecoder(strings.NewReader(raw))
		dec.UseNumber()
		var items any
		if err := dec.Decode(&items); err == nil {
			return itemIDs(items)
		}
	}

	type indexed struct {
		pos int
		id  any
	}
	var found []indexed
	for key, vals := range values {
		m := formItemIDKey.FindStringSubmatch(key)
		if m == nil || len(vals) == 0 {
			continue
		}
		pos, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		found = append(found, indexed{pos: pos, id: vals[0]})
	}
	sort.Slice(found, func(i, j int) bool { return found[i].pos < found[j].pos })

	items := make([]any, 0, len(found))
	for _, f := range found {
		items = append(items, map[string]any{"id": f.id})
	}
	return itemIDs(items)
}

// itemIDs keeps entries whose id is a non-negative integer, dropping the
// rest, and removes duplicates in order of first occurrence.
func itemIDs(v any) []int64 {
	list, ok := v.([]any)
	if !ok {
		return []int64{}
	}
	seen := make(map[int64]struct{}, len(list))
	out := make([]int64, 0, len(list))
	for _, entry := range list {
		obj, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		id, ok := parseID(obj["id"])
		if !ok {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func parseID(v any) (int64, bool) {
	if n, ok := v.(json.Number); ok {
		return numberID(n)
	}
	raw := scalar(v)
	if raw == "" {
		return 0, false
	}
	for _, r := range raw {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

// numberID accepts JSON numbers with an integral value, so 5.0 and 5e0 both
// yield 5. String ids stay digits-only.
func numberID(n json.Number) (int64, bool) {
	if id, err := n.Int64(); err == nil {
		return id, id >= 0
	}
	f, err := n.Float64()
	if err != nil || f < 0 || f != math.Trunc(f) || f >= math.MaxInt64 {
		return 0, false
	}
	return int64(f), true
}

func scalar(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(t)
	case json.Number:
		return strings.TrimSpace(t.String())
	case bool:
		if t {
			return "1"
		}
		return ""
	}
	return ""
}
