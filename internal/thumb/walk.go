package thumb

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"
)

// object is a decoded JSON object with its members in document order.
type object []member

type member struct {
	key   string
	value any
}

// get returns the value of key; on duplicate keys the last one wins.
func (o object) get(key string) (any, bool) {
	for i := len(o) - 1; i >= 0; i-- {
		if o[i].key == key {
			return o[i].value, true
		}
	}
	return nil, false
}

var errTrailingData = errors.New("trailing data after JSON value")

// decodeJSON parses text into object, []any and scalar values, keeping object
// members in the order they were written.
func decodeJSON(text string) (any, error) {
	dec := json.NewDecoder(strings.NewReader(text))
	v, err := decodeValue(dec)
	if err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, errTrailingData
	}
	return v, nil
}

func decodeValue(dec *json.Decoder) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	delim, ok := tok.(json.Delim)
	if !ok {
		return tok, nil
	}
	switch delim {
	case '{':
		o := object{}
		for dec.More() {
			kt, err := dec.Token()
			if err != nil {
				return nil, err
			}
			key, ok := kt.(string)
			if !ok {
				return nil, fmt.Errorf("object key is %T", kt)
			}
			v, err := decodeValue(dec)
			if err != nil {
				return nil, err
			}
			o = append(o, member{key: key, value: v})
		}
		if _, err := dec.Token(); err != nil {
			return nil, err
		}
		return o, nil
	case '[':
		list := []any{}
		for dec.More() {
			v, err := decodeValue(dec)
			if err != nil {
				return nil, err
			}
			list = append(list, v)
		}
		if _, err := dec.Token(); err != nil {
			return nil, err
		}
		return list, nil
	}
	return nil, fmt.Errorf("unexpected delimiter %q", delim)
}

// walk visits a decoded JSON value in document order and harvests strings
// stored under the platform's media keys. Values whose shape does not match
// are ignored; the walk itself never fails.
func walk(v any, p Platform, c *Candidates) {
	switch node := v.(type) {
	case object:
		for _, m := range node {
			if slices.Contains(p.MediaKeys, m.key) {
				harvestMedia(m.value, p, c)
			}
			walk(m.value, p, c)
		}
	case []any:
		for _, child := range node {
			walk(child, p, c)
		}
	}
}

func harvestMedia(v any, p Platform, c *Candidates) {
	switch media := v.(type) {
	case string:
		c.Add(media)
	case object:
		if inner, ok := media.get(p.URLListKey); ok {
			if list, ok := inner.([]any); ok {
				c.AddAll(stringsOf(list))
			}
		}
	case []any:
		c.AddAll(stringsOf(media))
	}
}

func stringsOf(list []any) []string {
	out := make([]string, 0, len(list))
	for _, item := range list {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
