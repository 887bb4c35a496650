package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"modelwatch/internal/errors"
)

// aliasFile is the on-disk shape of a quantization alias table:
//
//	aliases:
//	  fp16: fp16
//	  float16: fp16
//	  half: fp16
type aliasFile struct {
	Aliases map[string]string `yaml:"aliases"`
}

// LoadAliases reads a quantization alias table from a YAML file. Keys
// are raw quantization labels, values the canonical label they map to.
func LoadAliases(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Newf(errors.ConfigInvalid, err, "failed to read alias table %s", path)
	}

	var file aliasFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, errors.New(errors.ConfigInvalid, "failed to parse alias table", err)
	}
	if len(file.Aliases) == 0 {
		return nil, errors.Newf(errors.ConfigInvalid, nil, "alias table %s defines no aliases", path)
	}

	return file.Aliases, nil
}
