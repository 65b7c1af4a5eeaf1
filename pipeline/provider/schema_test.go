package provider

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/theimaginaryfoundation/sliding-summarizer/pipeline"
)

func assertStrictObject(t *testing.T, schema map[string]interface{}) {
	t.Helper()

	if schemaType, _ := schema[typeKey].(string); schemaType == "object" {
		require.Equal(t, false, schema[additionalPropertiesKey])

		props, _ := schema[propertiesKey].(map[string]interface{})
		if len(props) > 0 {
			required, ok := schema[requiredKey].([]string)
			if !ok {
				// already-marshaled schemas hold []interface{}
				raw, rok := schema[requiredKey].([]interface{})
				require.True(t, rok, "object missing required list")
				for _, r := range raw {
					required = append(required, r.(string))
				}
			}
			require.Len(t, required, len(props))
			for name := range props {
				require.Contains(t, required, name)
			}
		}
		for _, sub := range props {
			if m, ok := sub.(map[string]interface{}); ok {
				assertStrictObject(t, m)
			}
		}
	}
	if items, ok := schema[itemsKey].(map[string]interface{}); ok {
		assertStrictObject(t, items)
	}
}

func TestGenerateSchemaIsStrict(t *testing.T) {
	t.Parallel()

	assertStrictObject(t, generateSchema[pipeline.Summary]())
	assertStrictObject(t, generateSchema[pipeline.AnalysisReport]())
}

func TestGenerateSchemaCoversSummaryFields(t *testing.T) {
	t.Parallel()

	schema := generateSchema[pipeline.Summary]()
	props, ok := schema[propertiesKey].(map[string]interface{})
	require.True(t, ok)
	for _, field := range []string{"summary", "entities", "key_facts", "themes"} {
		require.Contains(t, props, field)
	}
}
