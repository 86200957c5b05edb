package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func testSchema() *Schema {
	return NewSchema(
		PropertySpec{Name: "product", Kind: KindString, Required: true},
		PropertySpec{Name: "unitPrice", Kind: KindFloat},
		PropertySpec{Name: "quantity", Kind: KindFloat},
		PropertySpec{Name: "nature", Kind: KindString, Allowed: []any{"Product", "Service"}},
		PropertySpec{Name: "concept", Kind: KindBool},
		PropertySpec{Name: "issueDate", Kind: KindDate},
		PropertySpec{Name: "customerType", Kind: KindInt, Allowed: []any{1, 2, 3}},
	)
}

func TestSchema_MalformedPanics(t *testing.T) {
	assert.Panics(t, func() {
		NewSchema(PropertySpec{Name: ""})
	})
	assert.Panics(t, func() {
		NewSchema(
			PropertySpec{Name: "a", Kind: KindString},
			PropertySpec{Name: "a", Kind: KindInt},
		)
	})
}

func TestObject_SetValidatesKind(t *testing.T) {
	o := NewObject(testSchema())

	assert.NoError(t, o.Set("product", "shipping"))
	assert.ErrorIs(t, o.Set("product", 12), ErrWrongKind)
	assert.ErrorIs(t, o.Set("unitPrice", "4.75"), ErrWrongKind)
	assert.ErrorIs(t, o.Set("issueDate", "2026-08-31"), ErrWrongKind)
	assert.NoError(t, o.Set("issueDate", time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)))
	assert.ErrorIs(t, o.Set("shoeSize", 43), ErrUnknownProperty)
}

func TestObject_SetValidatesAllowedValues(t *testing.T) {
	o := NewObject(testSchema())

	assert.NoError(t, o.Set("nature", "Product"))
	assert.ErrorIs(t, o.Set("nature", "Livestock"), ErrValueNotAllowed)
	assert.NoError(t, o.Set("customerType", 2))
	assert.ErrorIs(t, o.Set("customerType", 9), ErrValueNotAllowed)
}

func TestObject_UnsetReadsAsAbsent(t *testing.T) {
	o := NewObject(testSchema())

	_, ok := o.GetFloat("unitPrice")
	assert.False(t, ok)
	assert.False(t, o.IsSet("unitPrice"))

	assert.NoError(t, o.Set("unitPrice", 0.0))
	v, ok := o.GetFloat("unitPrice")
	assert.True(t, ok)
	assert.Zero(t, v)

	o.Unset("unitPrice")
	assert.False(t, o.IsSet("unitPrice"))
}

func TestObject_FloatAcceptsWholeNumbers(t *testing.T) {
	o := NewObject(testSchema())
	assert.NoError(t, o.Set("quantity", 2))
	v, ok := o.GetFloat("quantity")
	assert.True(t, ok)
	assert.Equal(t, 2.0, v)
}

func TestObject_ValidateRequired(t *testing.T) {
	o := NewObject(testSchema())
	assert.ErrorIs(t, o.Validate(), ErrRequiredMissing)
	assert.NoError(t, o.Set("product", "widget"))
	assert.NoError(t, o.Validate())
}

func TestMetadata_MultiplicityAndOrder(t *testing.T) {
	m := NewMetadata()
	m.Add("fieldsCalculated", "unitPriceInc")
	m.Add("fieldsCalculated", "vatAmount")
	m.Add("precision", 0.005)

	assert.Equal(t, []string{"fieldsCalculated", "precision"}, m.Keys())
	assert.Equal(t, []any{"unitPriceInc", "vatAmount"}, m.Get("fieldsCalculated"))

	first, ok := m.First("fieldsCalculated")
	assert.True(t, ok)
	assert.Equal(t, "unitPriceInc", first)

	p, ok := m.FirstFloat("precision")
	assert.True(t, ok)
	assert.Equal(t, 0.005, p)

	m.Set("fieldsCalculated", "vatRate")
	assert.Equal(t, []any{"vatRate"}, m.Get("fieldsCalculated"))

	m.Remove("fieldsCalculated")
	assert.False(t, m.Has("fieldsCalculated"))
	assert.Equal(t, []string{"precision"}, m.Keys())
}

func TestMetadata_Floats(t *testing.T) {
	m := NewMetadata()
	m.Add("taxLines", 18.74)
	m.Add("taxLines", 4)
	assert.Equal(t, []float64{18.74, 4}, m.Floats("taxLines"))
	assert.Empty(t, m.Floats("missing"))
}
