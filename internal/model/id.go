package model

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// ID identifies an upstream record. The REST backend uses numbers and the
// CMS uses strings; both decode into ID and numeric IDs encode back as JSON
// numbers.
type ID string

func (id ID) String() string { return string(id) }

func (id ID) IsZero() bool { return id == "" }

// Int returns the numeric form of the ID when it has one.
func (id ID) Int() (int64, bool) {
	n, err := strconv.ParseInt(string(id), 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

func (id ID) MarshalJSON() ([]byte, error) {
	if n, ok := id.Int(); ok {
		return []byte(strconv.FormatInt(n, 10)), nil
	}
	return json.Marshal(string(id))
}

func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*id = ID(n.String())
	return nil
}

func (id ID) MarshalYAML() (any, error) {
	if n, ok := id.Int(); ok {
		return n, nil
	}
	return string(id), nil
}

func (id *ID) UnmarshalYAML(node *yaml.Node) error {
	*id = ID(strings.TrimSpace(node.Value))
	return nil
}

// ParseID converts a decoded JSON value into an ID.
func ParseID(v any) ID {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return ID(strings.TrimSpace(t))
	case json.Number:
		return ID(t.String())
	case float64:
		if t == float64(int64(t)) {
			return ID(strconv.FormatInt(int64(t), 10))
		}
		return ID(strconv.FormatFloat(t, 'f', -1, 64))
	case int:
		return ID(strconv.Itoa(t))
	case int64:
		return ID(strconv.FormatInt(t, 10))
	case uint:
		return ID(strconv.FormatUint(uint64(t), 10))
	case ID:
		return t
	}
	return ""
}

func UintID(n uint) ID {
	return ID(strconv.FormatUint(uint64(n), 10))
}
