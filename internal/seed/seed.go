// Package seed reads and writes flat YAML documents of string keys to string
// values. Seeds provide the materialized entries a map starts with, and the
// same format is used to dump a fully resolved map.
package seed

import (
	"errors"
	"fmt"
	"io"
	"iter"
	"os"

	"gopkg.in/yaml.v3"
)

var (
	// ErrInvalidSeed is returned when a document is not a flat mapping of scalars.
	ErrInvalidSeed = errors.New("invalid seed")

	// ErrFileNotFound is returned by Load when path does not exist.
	ErrFileNotFound = errors.New("seed file not found")
)

// Entry is a single key/value pair of a seed.
type Entry struct {
	Key   string
	Value string
}

// Seed holds the entries of a document in the order they appear.
type Seed []Entry

// All yields the entries in document order.
func (s Seed) All() iter.Seq2[string, string] {
	return func(yield func(string, string) bool) {
		for _, e := range s {
			if !yield(e.Key, e.Value) {
				return
			}
		}
	}
}

// Load reads the seed stored at path.
func Load(path string) (Seed, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return nil, err
	}
	defer f.Close()

	s, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return s, nil
}

// Parse decodes a single YAML mapping. An empty document is an empty seed.
func Parse(r io.Reader) (Seed, error) {
	var doc yaml.Node
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return Seed{}, nil
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidSeed, err)
	}

	root := &doc
	if root.Kind == yaml.DocumentNode && len(root.Content) > 0 {
		root = root.Content[0]
	}

	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%w: line %d: expected a mapping", ErrInvalidSeed, root.Line)
	}

	s := make(Seed, 0, len(root.Content)/2)
	for i := 0; i+1 < len(root.Content); i += 2 {
		k, v := root.Content[i], root.Content[i+1]
		if k.Kind != yaml.ScalarNode || v.Kind != yaml.ScalarNode {
			return nil, fmt.Errorf("%w: line %d: keys and values must be scalars", ErrInvalidSeed, k.Line)
		}

		s = append(s, Entry{Key: k.Value, Value: v.Value})
	}

	return s, nil
}

// Encode writes the pairs of seq as a YAML mapping, in order.
func Encode(w io.Writer, seq iter.Seq2[string, string]) error {
	root := &yaml.Node{Kind: yaml.MappingNode}
	for k, v := range seq {
		root.Content = append(root.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: k},
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: v},
		)
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(root); err != nil {
		return err
	}

	return enc.Close()
}
