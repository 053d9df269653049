package premo

import "strings"

// Description is the immutable identity of a presentation model. Kind selects
// the constructor, ID distinguishes siblings of the same kind and Data carries
// an opaque caller payload. Descriptions are comparable and persistable by
// every codec in the saver package.
type Description struct {
	Kind string `toml:"kind" yaml:"kind" json:"kind"`
	ID   string `toml:"id,omitempty" yaml:"id,omitempty" json:"id,omitempty"`
	Data string `toml:"data,omitempty" yaml:"data,omitempty" json:"data,omitempty"`
}

// Describe creates a description of the given kind with an optional ID.
func Describe(kind string, id ...string) Description {
	d := Description{Kind: kind}
	if len(id) > 0 {
		d.ID = id[0]
	}
	return d
}

// WithData returns a copy of the description carrying data.
func (d Description) WithData(data string) Description {
	d.Data = data
	return d
}

// Key is the addressing segment used to derive the tag of a node.
func (d Description) Key() string {
	if d.ID == "" {
		return d.Kind
	}
	return d.Kind + ":" + d.ID
}

// IsZero reports whether the description is empty.
func (d Description) IsZero() bool {
	return d == Description{}
}

func (d Description) String() string {
	return d.Key()
}

func validKey(key string) bool {
	return key != "" && !strings.Contains(key, "/")
}
