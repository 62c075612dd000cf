package launch

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"
)

// profileSchema is the contract a profile document must satisfy before any
// field is decoded.
const profileSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["version", "configurations"],
  "properties": {
    "version": {"type": "string"},
    "configurations": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["name"],
        "additionalProperties": false,
        "properties": {
          "name": {"type": "string", "minLength": 1},
          "host": {"type": "string"},
          "hostArguments": {"type": "string"}
        }
      }
    }
  }
}`

// Configuration is one named launch entry inside a profile document.
type Configuration struct {
	Name          string  `json:"name" yaml:"name"`
	Host          *string `json:"host,omitempty" yaml:"host,omitempty"`
	HostArguments *string `json:"hostArguments,omitempty" yaml:"hostArguments,omitempty"`
}

// Options converts the configuration to the record the launcher consumes.
func (c Configuration) Options() Options {
	return Options{
		Host:          cloneString(c.Host),
		HostArguments: cloneString(c.HostArguments),
	}
}

// Document is a parsed launch profile file.
type Document struct {
	Version        string          `json:"version" yaml:"version"`
	Configurations []Configuration `json:"configurations" yaml:"configurations"`
}

// Find returns the configuration with the given name.
func (d Document) Find(name string) (Configuration, bool) {
	for _, cfg := range d.Configurations {
		if cfg.Name == name {
			return cfg, true
		}
	}
	return Configuration{}, false
}

// LoadProfiles reads and validates a profile document. YAML is chosen by
// file extension; everything else parses as JSON.
func LoadProfiles(path string) (Document, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Document{}, fmt.Errorf("launch: read profile %s: %w", path, err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return parseYAML(path, raw)
	default:
		return parseJSON(path, raw)
	}
}

func parseJSON(path string, raw []byte) (Document, error) {
	if !gjson.ValidBytes(raw) {
		return Document{}, fmt.Errorf("launch: profile %s is not valid JSON", path)
	}
	if err := validateSchema(path, gojsonschema.NewBytesLoader(raw)); err != nil {
		return Document{}, err
	}

	doc := Document{Version: gjson.GetBytes(raw, "version").String()}
	for _, entry := range gjson.GetBytes(raw, "configurations").Array() {
		cfg := Configuration{Name: entry.Get("name").String()}
		if host := entry.Get("host"); host.Exists() {
			cfg.Host = String(host.String())
		}
		if args := entry.Get("hostArguments"); args.Exists() {
			cfg.HostArguments = String(args.String())
		}
		doc.Configurations = append(doc.Configurations, cfg)
	}
	return doc, nil
}

func parseYAML(path string, raw []byte) (Document, error) {
	var generic map[string]any
	if err := yaml.Unmarshal(raw, &generic); err != nil {
		return Document{}, fmt.Errorf("launch: parse profile %s: %w", path, err)
	}
	if err := validateSchema(path, gojsonschema.NewGoLoader(generic)); err != nil {
		return Document{}, err
	}
	var doc Document
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return Document{}, fmt.Errorf("launch: parse profile %s: %w", path, err)
	}
	return doc, nil
}

func validateSchema(path string, doc gojsonschema.JSONLoader) error {
	result, err := gojsonschema.Validate(gojsonschema.NewStringLoader(profileSchema), doc)
	if err != nil {
		return fmt.Errorf("launch: validate profile %s: %w", path, err)
	}
	if result.Valid() {
		return nil
	}
	msgs := make([]string, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		msgs = append(msgs, e.String())
	}
	return fmt.Errorf("launch: profile %s invalid: %s", path, strings.Join(msgs, "; "))
}
