package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// StringList is an ordered list of strings persisted as a JSON array in a
// text column. The stored representation is kept as-is for compatibility
// with the existing dataset.
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		l = StringList{}
	}
	b, err := json.Marshal([]string(l))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (l *StringList) Scan(src any) error {
	if src == nil {
		*l = StringList{}
		return nil
	}
	var data []byte
	switch v := src.(type) {
	case string:
		data = []byte(v)
	case []byte:
		data = v
	default:
		return fmt.Errorf("cannot scan %T into StringList", src)
	}
	if len(data) == 0 {
		*l = StringList{}
		return nil
	}
	return json.Unmarshal(data, (*[]string)(l))
}

// MarshalJSON renders a nil list as [] rather than null.
func (l StringList) MarshalJSON() ([]byte, error) {
	if l == nil {
		l = StringList{}
	}
	return json.Marshal([]string(l))
}

// Properties is an arbitrary key/value map persisted as a JSON object in a
// text column.
type Properties map[string]any

func (p Properties) Value() (driver.Value, error) {
	if p == nil {
		p = Properties{}
	}
	b, err := json.Marshal(map[string]any(p))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (p *Properties) Scan(src any) error {
	if src == nil {
		*p = Properties{}
		return nil
	}
	var data []byte
	switch v := src.(type) {
	case string:
		data = []byte(v)
	case []byte:
		data = v
	default:
		return fmt.Errorf("cannot scan %T into Properties", src)
	}
	if len(data) == 0 {
		*p = Properties{}
		return nil
	}
	return json.Unmarshal(data, (*map[string]any)(p))
}

func (p Properties) MarshalJSON() ([]byte, error) {
	if p == nil {
		p = Properties{}
	}
	return json.Marshal(map[string]any(p))
}
