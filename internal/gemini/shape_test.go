package gemini

import (
	"testing"

	"github.com/google/generative-ai-go/genai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShapeSchema(t *testing.T) {
	min, max := 3.0, 8.0
	shape := Shape{Fields: []Field{
		{Name: "name", Type: FieldString, Examples: []string{"Al Beback", "Boi Men"}},
		{Name: "patience", Type: FieldInteger, Description: "Turns before they leave", Minimum: &min, Maximum: &max},
		{Name: "willBuy", Type: FieldBoolean},
		{Name: "note", Type: FieldString, Optional: true},
	}}

	schema := shape.schema()
	require.Equal(t, genai.TypeObject, schema.Type)
	require.Len(t, schema.Properties, 4)

	assert.Equal(t, genai.TypeString, schema.Properties["name"].Type)
	assert.Equal(t, genai.TypeInteger, schema.Properties["patience"].Type)
	assert.Equal(t, genai.TypeBoolean, schema.Properties["willBuy"].Type)

	assert.Equal(t, []string{"name", "patience", "willBuy"}, schema.Required)

	assert.Contains(t, schema.Properties["name"].Description, "'Al Beback', 'Boi Men'")
	assert.Contains(t, schema.Properties["patience"].Description, "Turns before they leave")
	assert.Contains(t, schema.Properties["patience"].Description, "between 3 and 8")
}

func TestFieldHintRanges(t *testing.T) {
	min := 1.0
	assert.Equal(t, "Must be at least 1.", Field{Minimum: &min}.hint())

	max := 10.0
	assert.Equal(t, "Must be at most 10.", Field{Maximum: &max}.hint())

	assert.Equal(t, "", Field{}.hint())
}
