package gamedata

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// Load decodes an embedded YAML file into T. Decoding is strict: a key that
// T does not declare is an error, so a typo in a data file fails at startup.
func Load[T any](filename string) (T, error) {
	var result T

	content, err := dataFS.ReadFile(filename)
	if err != nil {
		return result, fmt.Errorf("reading embedded %s: %w", filename, err)
	}
	if err := decodeStrict(content, &result); err != nil {
		return result, fmt.Errorf("parsing %s: %w", filename, err)
	}
	return result, nil
}

// MustLoad is Load for data the game cannot run without.
func MustLoad[T any](filename string) T {
	result, err := Load[T](filename)
	if err != nil {
		panic(err)
	}
	return result
}

func decodeStrict(content []byte, out any) error {
	dec := yaml.NewDecoder(bytes.NewReader(content))
	dec.KnownFields(true)
	if err := dec.Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("file is empty")
		}
		return err
	}
	return nil
}
