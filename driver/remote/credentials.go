package remote

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Credentials authenticate a Store. Empty fields are left to the provider's
// own defaults, such as the SDK environment chain.
type Credentials struct {
	AccessKeyID     string `koanf:"access_key_id"`
	SecretAccessKey string `koanf:"secret_access_key"`
	SessionToken    string `koanf:"session_token"`
	Region          string `koanf:"region"`
	Endpoint        string `koanf:"endpoint"`
}

// IsZero reports whether no field is set
func (c Credentials) IsZero() bool {
	return c == Credentials{}
}

// LoadCredentials reads credentials from a YAML or JSON document. The format
// follows the file extension; anything but ".json" is parsed as YAML.
//
//	access_key_id: AKIA...
//	secret_access_key: ...
//	region: eu-west-1
func LoadCredentials(path string) (Credentials, error) {
	var parser koanf.Parser = yaml.Parser()
	if strings.EqualFold(filepath.Ext(path), ".json") {
		parser = json.Parser()
	}

	k := koanf.New(".")
	if err := k.Load(file.Provider(path), parser); err != nil {
		return Credentials{}, fmt.Errorf("load credentials %s: %w", path, err)
	}

	var c Credentials
	if err := k.Unmarshal("", &c); err != nil {
		return Credentials{}, fmt.Errorf("parse credentials %s: %w", path, err)
	}
	return c, nil
}
