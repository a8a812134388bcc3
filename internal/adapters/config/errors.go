package config

import (
	"errors"
	"fmt"

	"github.com/NoSpawnn/bow/internal/core/domain"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// fieldError reports a problem with a named field. The returned error
// satisfies errors.Is(err, kind) and carries the field name as metadata.
func fieldError(kind error, node *yaml.Node, field string) error {
	detail := zerr.With(zerr.New(fmt.Sprintf("field %q", field)), "field", field)
	if node != nil {
		detail = zerr.With(zerr.With(detail, "line", node.Line), "column", node.Column)
	}
	return errors.Join(detail, kind)
}

// shapeError reports a value whose structure does not match what the schema expects.
func shapeError(node *yaml.Node, context, expected string) error {
	got := kindName(node)
	detail := zerr.New(fmt.Sprintf("%s: expected %s, got %s", context, expected, got))
	detail = zerr.With(zerr.With(detail, "expected", expected), "got", got)
	if node != nil {
		detail = zerr.With(detail, "line", node.Line)
	}
	return errors.Join(detail, domain.ErrWrongShape)
}

func kindName(node *yaml.Node) string {
	if node == nil {
		return "nothing"
	}
	switch node.Kind {
	case yaml.ScalarNode:
		if node.Tag == "!!null" {
			return "null"
		}
		return "scalar"
	case yaml.MappingNode:
		return "mapping"
	case yaml.SequenceNode:
		return "sequence"
	case yaml.DocumentNode:
		return "document"
	case yaml.AliasNode:
		return "alias"
	default:
		return "unknown"
	}
}
