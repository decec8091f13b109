package policy

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadTable reads user-defined presets from a YAML file and merges them over
// the built-in table. User entries shadow built-in modes of the same name.
// A missing file is not an error; the built-in table is returned as-is.
//
// File format, one mode per key:
//
//	draft:
//	  outputs: true
//	  overwrite: true
//	thesis:
//	  outputs: true
//	  backup: true
//	  compare: true
func LoadTable(path string) (Table, error) {
	table := Builtin()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return table, nil
		}
		return nil, fmt.Errorf("failed to read preset file %s: %w", path, err)
	}

	var user Table
	if err := yaml.Unmarshal(data, &user); err != nil {
		return nil, fmt.Errorf("malformed preset file %s: %w", path, err)
	}

	for name, preset := range user {
		table[name] = preset
	}
	return table, nil
}
