package gemini

import (
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
)

// FieldType enumerates the primitive types a Shape field can take.
type FieldType string

const (
	FieldString  FieldType = "string"
	FieldNumber  FieldType = "number"
	FieldInteger FieldType = "integer"
	FieldBoolean FieldType = "boolean"
)

// Field describes one field of a requested object. Examples and the numeric
// range are folded into the schema description as hints for the model.
type Field struct {
	Name        string
	Type        FieldType
	Description string
	Examples    []string
	Minimum     *float64
	Maximum     *float64
	Optional    bool
}

// Shape describes the object a structured generation call should return.
type Shape struct {
	Fields []Field
}

func (s Shape) schema() *genai.Schema {
	properties := make(map[string]*genai.Schema, len(s.Fields))
	var required []string
	for _, f := range s.Fields {
		properties[f.Name] = &genai.Schema{
			Type:        f.Type.genaiType(),
			Description: f.hint(),
		}
		if !f.Optional {
			required = append(required, f.Name)
		}
	}
	return &genai.Schema{
		Type:       genai.TypeObject,
		Properties: properties,
		Required:   required,
	}
}

func (t FieldType) genaiType() genai.Type {
	switch t {
	case FieldString:
		return genai.TypeString
	case FieldNumber:
		return genai.TypeNumber
	case FieldInteger:
		return genai.TypeInteger
	case FieldBoolean:
		return genai.TypeBoolean
	default:
		return genai.TypeUnspecified
	}
}

func (f Field) hint() string {
	parts := []string{}
	if f.Description != "" {
		parts = append(parts, f.Description)
	}
	if len(f.Examples) > 0 {
		parts = append(parts, fmt.Sprintf("For example: '%s'.", strings.Join(f.Examples, "', '")))
	}
	switch {
	case f.Minimum != nil && f.Maximum != nil:
		parts = append(parts, fmt.Sprintf("Must be between %v and %v.", *f.Minimum, *f.Maximum))
	case f.Minimum != nil:
		parts = append(parts, fmt.Sprintf("Must be at least %v.", *f.Minimum))
	case f.Maximum != nil:
		parts = append(parts, fmt.Sprintf("Must be at most %v.", *f.Maximum))
	}
	return strings.Join(parts, " ")
}
