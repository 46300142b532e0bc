// Package config implements the render property store: an ordered map from
// dotted keys such as film.width to typed values, readable from text files.
package config

import (
	"io"
	"sort"
	"strings"
)

// Properties is an ordered property store. Keys are unique; setting an
// existing key replaces its value and keeps its original position.
//
// A Properties is not safe for concurrent mutation. Callers hand out
// snapshots with Clone once the store is finalised.
type Properties struct {
	keys   []string
	values map[string]Value
}

// New returns an empty store
func New() *Properties {
	return &Properties{values: make(map[string]Value)}
}

// Set assigns v to key and returns p for chaining
func (p *Properties) Set(key string, v Value) *Properties {
	if p.values == nil {
		p.values = make(map[string]Value)
	}
	if _, ok := p.values[key]; !ok {
		p.keys = append(p.keys, key)
	}
	p.values[key] = v
	return p
}

func (p *Properties) SetInt(key string, v int64) *Properties { return p.Set(key, IntValue(v)) }

func (p *Properties) SetFloat(key string, v float64) *Properties { return p.Set(key, FloatValue(v)) }

func (p *Properties) SetString(key, v string) *Properties { return p.Set(key, StringValue(v)) }

func (p *Properties) SetBool(key string, v bool) *Properties { return p.Set(key, BoolValue(v)) }

func (p *Properties) SetVector(key string, v ...float64) *Properties {
	return p.Set(key, VectorValue(v...))
}

// Get returns the value for key or a *KeyNotFoundError
func (p *Properties) Get(key string) (Value, error) {
	v, ok := p.values[key]
	if !ok {
		return Value{}, &KeyNotFoundError{Key: key}
	}
	return v, nil
}

// GetOr returns the value for key, or def when key is absent
func (p *Properties) GetOr(key string, def Value) Value {
	if v, ok := p.values[key]; ok {
		return v
	}
	return def
}

func (p *Properties) Has(key string) bool {
	_, ok := p.values[key]
	return ok
}

// Delete removes key. Deleting an absent key is a no-op.
func (p *Properties) Delete(key string) {
	if _, ok := p.values[key]; !ok {
		return
	}
	delete(p.values, key)
	for i, k := range p.keys {
		if k == key {
			p.keys = append(p.keys[:i], p.keys[i+1:]...)
			break
		}
	}
}

// Keys returns the keys in insertion order
func (p *Properties) Keys() []string {
	return append([]string(nil), p.keys...)
}

func (p *Properties) Len() int {
	return len(p.keys)
}

// Clone returns an independent copy
func (p *Properties) Clone() *Properties {
	c := &Properties{
		keys:   append([]string(nil), p.keys...),
		values: make(map[string]Value, len(p.values)),
	}
	for k, v := range p.values {
		if v.kind == FloatVector {
			v.vec = append([]float64(nil), v.vec...)
		}
		c.values[k] = v
	}
	return c
}

// Merge returns a new store holding p overridden by other. Neither input is modified.
func (p *Properties) Merge(other *Properties) *Properties {
	merged := p.Clone()
	if other == nil {
		return merged
	}
	for _, k := range other.keys {
		merged.Set(k, other.values[k])
	}
	return merged
}

// Subset returns the properties whose key equals prefix or starts with prefix + "."
func (p *Properties) Subset(prefix string) *Properties {
	sub := New()
	for _, k := range p.keys {
		if k == prefix || strings.HasPrefix(k, prefix+".") {
			sub.Set(k, p.values[k])
		}
	}
	return sub
}

// Names returns the distinct key segments directly below prefix, sorted.
// For scene.objects.ball.shape and scene.objects.floor.shape, Names("scene.objects")
// returns [ball floor].
func (p *Properties) Names(prefix string) []string {
	seen := map[string]bool{}
	var names []string
	for _, k := range p.keys {
		rest, ok := strings.CutPrefix(k, prefix+".")
		if !ok {
			continue
		}
		name, _, _ := strings.Cut(rest, ".")
		if name != "" && !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// String serialises the store in insertion order using the property file syntax
func (p *Properties) String() string {
	var b strings.Builder
	for _, k := range p.keys {
		b.WriteString(k)
		b.WriteString(" = ")
		b.WriteString(p.values[k].String())
		b.WriteByte('\n')
	}
	return b.String()
}

// WriteTo implements io.WriterTo
func (p *Properties) WriteTo(w io.Writer) (int64, error) {
	n, err := io.WriteString(w, p.String())
	return int64(n), err
}

func (p *Properties) typed(key string, read func(Value) error) error {
	v, err := p.Get(key)
	if err != nil {
		return err
	}
	if err := read(v); err != nil {
		if tm, ok := err.(*TypeMismatchError); ok {
			tm.Key = key
		}
		return err
	}
	return nil
}

// Int reads an integer property
func (p *Properties) Int(key string) (int, error) {
	var out int64
	err := p.typed(key, func(v Value) (err error) {
		out, err = v.Int()
		return err
	})
	return int(out), err
}

// IntOr reads an integer property, returning def when key is absent.
// A present value of the wrong kind is still an error.
func (p *Properties) IntOr(key string, def int) (int, error) {
	if !p.Has(key) {
		return def, nil
	}
	return p.Int(key)
}

func (p *Properties) Float(key string) (float64, error) {
	var out float64
	err := p.typed(key, func(v Value) (err error) {
		out, err = v.Float()
		return err
	})
	return out, err
}

func (p *Properties) FloatOr(key string, def float64) (float64, error) {
	if !p.Has(key) {
		return def, nil
	}
	return p.Float(key)
}

func (p *Properties) Vector(key string) ([]float64, error) {
	var out []float64
	err := p.typed(key, func(v Value) (err error) {
		out, err = v.Vector()
		return err
	})
	return out, err
}

// Str reads a string property
func (p *Properties) Str(key string) (string, error) {
	var out string
	err := p.typed(key, func(v Value) (err error) {
		out, err = v.Str()
		return err
	})
	return out, err
}

func (p *Properties) StrOr(key, def string) (string, error) {
	if !p.Has(key) {
		return def, nil
	}
	return p.Str(key)
}

func (p *Properties) Bool(key string) (bool, error) {
	var out bool
	err := p.typed(key, func(v Value) (err error) {
		out, err = v.Bool()
		return err
	})
	return out, err
}

func (p *Properties) BoolOr(key string, def bool) (bool, error) {
	if !p.Has(key) {
		return def, nil
	}
	return p.Bool(key)
}
