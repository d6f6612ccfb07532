package export_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/isomorph-labs/isomorph/internal/export"
	"github.com/isomorph-labs/isomorph/pkg/parser"
	"github.com/isomorph-labs/isomorph/pkg/semantic"
)

const sampleSource = `
diagram Shop : class {
    interface Sellable {
        price(): float
    }
    class Product implements Sellable {
        + name: string
        - stock: int = 0
        price(): float
    }
    enum Status { DRAFT PUBLISHED }
    Product --> Status [label="lifecycle"]
    style Product { fill: #aabbcc border: solid }
    note "catalog root" on Product
    @Product at (10, -20)
}
`

func analyzeSample(t *testing.T) *semantic.IOM {
	t.Helper()
	parsed := parser.Parse(sampleSource)
	require.Empty(t, parsed.Errors)
	res := semantic.Analyze(parsed.Program)
	require.Empty(t, res.Errors)
	return res.IOM
}

func TestParseFormat(t *testing.T) {
	for _, valid := range []string{"yaml", "json"} {
		f, err := export.ParseFormat(valid)
		require.NoError(t, err)
		assert.Equal(t, export.Format(valid), f)
	}

	_, err := export.ParseFormat("xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "xml")
}

func TestBuildKeepsDeclarationOrder(t *testing.T) {
	doc := export.Build(analyzeSample(t))
	require.Len(t, doc.Diagrams, 1)

	d := doc.Diagrams[0]
	assert.Equal(t, "Shop", d.Name)
	assert.Equal(t, "class", d.Kind)

	require.Len(t, d.Entities, 3)
	assert.Equal(t, "Sellable", d.Entities[0].Name)
	assert.Equal(t, "Product", d.Entities[1].Name)
	assert.Equal(t, "Status", d.Entities[2].Name)

	product := d.Entities[1]
	assert.Equal(t, []string{"Sellable"}, product.Implements)
	require.Len(t, product.Fields, 2)
	assert.Equal(t, "0", product.Fields[1].Default)
	require.NotNil(t, product.Position)
	assert.Equal(t, -20.0, product.Position.Y)
	assert.Equal(t, "catalog root", product.Note)

	// Style maps export as sorted key/value pairs.
	require.Len(t, product.Styles, 2)
	assert.Equal(t, "border", product.Styles[0].Key)
	assert.Equal(t, "fill", product.Styles[1].Key)

	require.Len(t, d.Relations, 1)
	assert.Equal(t, "lifecycle", d.Relations[0].Label)
	assert.Equal(t, "association", d.Relations[0].Kind)
}

func TestMarshalIsDeterministic(t *testing.T) {
	iom := analyzeSample(t)

	first, err := export.Marshal(iom, export.FormatYAML)
	require.NoError(t, err)
	second, err := export.Marshal(iom, export.FormatYAML)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestMarshalJSON(t *testing.T) {
	out, err := export.Marshal(analyzeSample(t), export.FormatJSON)
	require.NoError(t, err)

	var doc export.Document
	require.NoError(t, json.Unmarshal(out, &doc))
	require.Len(t, doc.Diagrams, 1)
	assert.Equal(t, []string{"DRAFT", "PUBLISHED"}, doc.Diagrams[0].Entities[2].EnumValues)
}

func TestBuildNilModel(t *testing.T) {
	doc := export.Build(nil)
	require.NotNil(t, doc)
	assert.Empty(t, doc.Diagrams)
}
