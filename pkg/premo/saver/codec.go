package saver

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/BrandonKowalski/premo/pkg/premo"
)

// ErrUnknownCodec is returned by CodecFor for an unsupported name.
var ErrUnknownCodec = errors.New("unknown codec")

// Codec turns saved values into bytes and back. Decoding never guesses the Go
// type of a value: decoded values are premo.Encoded and the reading node picks
// the target type.
//
// Values a codec decoded can be encoded again by the same codec without being
// read first, so a snapshot survives a load/flush cycle untouched. Mixing
// decoded values between codecs is not supported.
type Codec interface {
	// Name is the configuration name of the codec.
	Name() string

	// Extension is the file extension used for snapshot files, without a dot.
	Extension() string

	MarshalSnapshot(snapshot premo.Snapshot) ([]byte, error)
	UnmarshalSnapshot(data []byte) (premo.Snapshot, error)

	MarshalValue(value any) ([]byte, error)
	UnmarshalValue(data []byte) (premo.Encoded, error)
}

// CodecFor returns the codec registered under name.
func CodecFor(name string) (Codec, error) {
	switch strings.ToLower(name) {
	case "toml":
		return TOML, nil
	case "yaml", "yml":
		return YAML, nil
	case "json", "":
		return JSON, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownCodec, name)
	}
}

// Built-in codecs.
var (
	TOML Codec = tomlCodec{}
	YAML Codec = yamlCodec{}
	JSON Codec = jsonCodec{}
)

// reencoder is implemented by decoded values that can be written again
// without knowing their Go type.
type reencoder interface {
	reencode() any
}

func portable(snapshot premo.Snapshot) map[string]map[string]any {
	out := make(map[string]map[string]any, len(snapshot))
	for tag, values := range snapshot {
		m := make(map[string]any, len(values))
		for key, v := range values {
			m[key] = portableValue(v)
		}
		out[tag] = m
	}
	return out
}

func portableValue(v any) any {
	if r, ok := v.(reencoder); ok {
		return r.reencode()
	}
	return v
}

type tomlCodec struct{}

// tomlValue keeps the undecoded primitive plus a generic copy used when the
// value has to be written again.
type tomlValue struct {
	md    toml.MetaData
	prim  toml.Primitive
	plain any
}

func (v tomlValue) Decode(target any) error {
	return v.md.PrimitiveDecode(v.prim, target)
}

func (v tomlValue) reencode() any {
	return v.plain
}

func newTOMLValue(md toml.MetaData, prim toml.Primitive) (tomlValue, error) {
	v := tomlValue{md: md, prim: prim}
	if err := md.PrimitiveDecode(prim, &v.plain); err != nil {
		return tomlValue{}, err
	}
	return v, nil
}

func (tomlCodec) Name() string      { return "toml" }
func (tomlCodec) Extension() string { return "toml" }

func (tomlCodec) MarshalSnapshot(snapshot premo.Snapshot) ([]byte, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(portable(snapshot)); err != nil {
		return nil, fmt.Errorf("encode toml snapshot: %w", err)
	}
	return buf.Bytes(), nil
}

func (tomlCodec) UnmarshalSnapshot(data []byte) (premo.Snapshot, error) {
	var raw map[string]map[string]toml.Primitive
	md, err := toml.Decode(string(data), &raw)
	if err != nil {
		return nil, fmt.Errorf("decode toml snapshot: %w", err)
	}

	out := make(premo.Snapshot, len(raw))
	for tag, values := range raw {
		m := make(map[string]any, len(values))
		for key, prim := range values {
			v, err := newTOMLValue(md, prim)
			if err != nil {
				return nil, fmt.Errorf("decode toml value %s/%s: %w", tag, key, err)
			}
			m[key] = v
		}
		out[tag] = m
	}
	return out, nil
}

// TOML documents are tables, so single values travel wrapped as v = <value>.
type tomlEnvelope struct {
	V toml.Primitive `toml:"v"`
}

func (tomlCodec) MarshalValue(value any) ([]byte, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(map[string]any{"v": portableValue(value)}); err != nil {
		return nil, fmt.Errorf("encode toml value: %w", err)
	}
	return buf.Bytes(), nil
}

func (tomlCodec) UnmarshalValue(data []byte) (premo.Encoded, error) {
	var env tomlEnvelope
	md, err := toml.Decode(string(data), &env)
	if err != nil {
		return nil, fmt.Errorf("decode toml value: %w", err)
	}
	if !md.IsDefined("v") {
		return nil, errors.New("decode toml value: missing v")
	}
	v, err := newTOMLValue(md, env.V)
	if err != nil {
		return nil, fmt.Errorf("decode toml value: %w", err)
	}
	return v, nil
}

type yamlCodec struct{}

type yamlValue struct {
	node *yaml.Node
}

func (v yamlValue) Decode(target any) error {
	return v.node.Decode(target)
}

func (v yamlValue) reencode() any {
	return v.node
}

func (yamlCodec) Name() string      { return "yaml" }
func (yamlCodec) Extension() string { return "yaml" }

func (yamlCodec) MarshalSnapshot(snapshot premo.Snapshot) ([]byte, error) {
	data, err := yaml.Marshal(portable(snapshot))
	if err != nil {
		return nil, fmt.Errorf("encode yaml snapshot: %w", err)
	}
	return data, nil
}

func (yamlCodec) UnmarshalSnapshot(data []byte) (premo.Snapshot, error) {
	var raw map[string]map[string]yaml.Node
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode yaml snapshot: %w", err)
	}

	out := make(premo.Snapshot, len(raw))
	for tag, values := range raw {
		m := make(map[string]any, len(values))
		for key, node := range values {
			m[key] = yamlValue{node: &node}
		}
		out[tag] = m
	}
	return out, nil
}

func (yamlCodec) MarshalValue(value any) ([]byte, error) {
	data, err := yaml.Marshal(portableValue(value))
	if err != nil {
		return nil, fmt.Errorf("encode yaml value: %w", err)
	}
	return data, nil
}

func (yamlCodec) UnmarshalValue(data []byte) (premo.Encoded, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode yaml value: %w", err)
	}
	node := &doc
	if node.Kind == yaml.DocumentNode && len(node.Content) == 1 {
		node = node.Content[0]
	}
	return yamlValue{node: node}, nil
}

type jsonCodec struct{}

type jsonValue struct {
	raw json.RawMessage
}

func (v jsonValue) Decode(target any) error {
	return json.Unmarshal(v.raw, target)
}

func (v jsonValue) reencode() any {
	return v.raw
}

func (jsonCodec) Name() string      { return "json" }
func (jsonCodec) Extension() string { return "json" }

func (jsonCodec) MarshalSnapshot(snapshot premo.Snapshot) ([]byte, error) {
	data, err := json.MarshalIndent(portable(snapshot), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode json snapshot: %w", err)
	}
	return data, nil
}

func (jsonCodec) UnmarshalSnapshot(data []byte) (premo.Snapshot, error) {
	var raw map[string]map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode json snapshot: %w", err)
	}

	out := make(premo.Snapshot, len(raw))
	for tag, values := range raw {
		m := make(map[string]any, len(values))
		for key, msg := range values {
			m[key] = jsonValue{raw: msg}
		}
		out[tag] = m
	}
	return out, nil
}

func (jsonCodec) MarshalValue(value any) ([]byte, error) {
	data, err := json.Marshal(portableValue(value))
	if err != nil {
		return nil, fmt.Errorf("encode json value: %w", err)
	}
	return data, nil
}

func (jsonCodec) UnmarshalValue(data []byte) (premo.Encoded, error) {
	if !json.Valid(data) {
		return nil, errors.New("decode json value: invalid json")
	}
	return jsonValue{raw: json.RawMessage(bytes.Clone(data))}, nil
}
