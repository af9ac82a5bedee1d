package yaml

import (
	"errors"
	"io"
	"os"

	"github.com/fwojciec/llmready"
	"gopkg.in/yaml.v3"
)

// LoadConfigFile reads the YAML configuration at path over the defaults.
func LoadConfigFile(path string) (*llmready.Config, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, llmready.Errorf(llmready.ENOTFOUND, "config file not found: %s", path)
		}
		return nil, err
	}
	defer f.Close()

	return LoadConfig(f)
}

// LoadConfig decodes YAML from r over llmready.DefaultConfig. Keys absent
// from the document keep their defaults; lists present in it replace the
// default lists. The result is validated.
func LoadConfig(r io.Reader) (*llmready.Config, error) {
	cfg := llmready.DefaultConfig()

	var doc yaml.Node
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return cfg, nil
		}
		return nil, llmready.Errorf(llmready.EINVALID, "failed to parse config: %v", err)
	}

	if err := doc.Decode(cfg); err != nil {
		return nil, llmready.Errorf(llmready.EINVALID, "invalid config: %v", err)
	}

	fields, err := customFields(&doc)
	if err != nil {
		return nil, err
	}
	if fields != nil {
		cfg.Frontmatter.CustomFields = fields
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// customFields reads frontmatter.custom_fields as an ordered list, which a
// Go map cannot preserve.
func customFields(doc *yaml.Node) ([]llmready.Field, error) {
	node := lookup(doc, "frontmatter", "custom_fields")
	if node == nil {
		return nil, nil
	}
	if node.Kind != yaml.MappingNode {
		return nil, llmready.Errorf(llmready.EINVALID, "frontmatter.custom_fields must be a mapping")
	}

	fields := make([]llmready.Field, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, value := node.Content[i], node.Content[i+1]
		if value.Kind != yaml.ScalarNode {
			return nil, llmready.Errorf(llmready.EINVALID, "custom field %q must be a scalar", key.Value)
		}
		var v any
		if err := value.Decode(&v); err != nil {
			return nil, llmready.Errorf(llmready.EINVALID, "custom field %q: %v", key.Value, err)
		}
		fields = append(fields, llmready.Field{Key: key.Value, Value: v})
	}
	return fields, nil
}

// lookup walks nested mappings by key and returns the value node at path.
func lookup(node *yaml.Node, path ...string) *yaml.Node {
	if node.Kind == yaml.DocumentNode && len(node.Content) > 0 {
		node = node.Content[0]
	}
	for _, key := range path {
		if node.Kind != yaml.MappingNode {
			return nil
		}
		var next *yaml.Node
		for i := 0; i+1 < len(node.Content); i += 2 {
			if node.Content[i].Value == key {
				next = node.Content[i+1]
				break
			}
		}
		if next == nil {
			return nil
		}
		node = next
	}
	return node
}
