package yaml

import (
	"bytes"

	"github.com/fwojciec/llmready"
	"gopkg.in/yaml.v3"
)

// Ensure FrontmatterEncoder implements llmready.FrontmatterEncoder at compile time.
var _ llmready.FrontmatterEncoder = (*FrontmatterEncoder)(nil)

const delimiter = "---\n"

// FrontmatterEncoder writes fields as a YAML mapping fenced by "---" lines.
// Field order is preserved.
type FrontmatterEncoder struct{}

// Encode implements llmready.FrontmatterEncoder.
func (e *FrontmatterEncoder) Encode(fields []llmready.Field) (string, error) {
	if len(fields) == 0 {
		return "", nil
	}

	mapping := &yaml.Node{Kind: yaml.MappingNode}
	for _, f := range fields {
		var value yaml.Node
		if err := value.Encode(f.Value); err != nil {
			return "", llmready.Errorf(llmready.EINVALID, "failed to encode frontmatter field %q: %v", f.Key, err)
		}
		if value.Kind != yaml.ScalarNode {
			return "", llmready.Errorf(llmready.EINVALID, "frontmatter field %q is not a scalar", f.Key)
		}
		key := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: f.Key}
		mapping.Content = append(mapping.Content, key, &value)
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(mapping); err != nil {
		return "", llmready.Errorf(llmready.EINTERNAL, "failed to write frontmatter: %v", err)
	}
	if err := enc.Close(); err != nil {
		return "", llmready.Errorf(llmready.EINTERNAL, "failed to write frontmatter: %v", err)
	}

	return delimiter + buf.String() + delimiter + "\n", nil
}
