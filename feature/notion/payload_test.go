package notion

import (
	"encoding/json"
	"strings"
	"testing"
	"unicode/utf8"

	"listing-sync/core/reconcile"
	"listing-sync/core/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPayloadGenerator_Properties(t *testing.T) {
	g := DefaultPayloadGenerator()

	props := g.Properties(map[string]any{
		"car_id":        "38123456",
		"mileage":       80000,
		"maker":         "현대",
		"modified_date": "2024-06-10",
		"url":           "http://example.com",
		"unknown":       "ignored",
		"fuel_type":     "",
	})

	require.Len(t, props, 5)
	assert.Equal(t, "38123456", props[PropCarID].Title[0].Text.Content)
	assert.Equal(t, 80000.0, *props[PropMileage].Number)
	assert.Equal(t, "현대", props[PropMaker].Select.Name)
	assert.Equal(t, "2024-06-10", props[PropModifiedDate].Date.Start)
	assert.Equal(t, "http://example.com", *props[PropURL].URL)
	assert.NotContains(t, props, PropFuelType, "empty select is skipped")
}

func TestPayloadGenerator_Only(t *testing.T) {
	g := DefaultPayloadGenerator()

	props := g.Properties(map[string]any{"mileage": 1, "price": 2, "year": 3}, "price", "year")
	assert.Len(t, props, 2)
	assert.NotContains(t, props, PropMileage)
}

func TestPayloadGenerator_JSONShape(t *testing.T) {
	g := DefaultPayloadGenerator()
	data, err := json.Marshal(g.Properties(map[string]any{"comment": "3100→3000", "price": 0}))
	require.NoError(t, err)

	assert.JSONEq(t, `{
		"Comment": {"rich_text": [{"text": {"content": "3100→3000"}}]},
		"Price": {"number": 0}
	}`, string(data))
}

func TestPayloadGenerator_ListingProperties(t *testing.T) {
	g := DefaultPayloadGenerator()

	props := g.ListingProperties(map[string]any{
		"car_id":               "1",
		"availability":         true,
		"insurance_inspection": -1,
		"fuel_type":            "가솔린+전기",
	})
	assert.Equal(t, LabelTrue, props[PropAvailability].Select.Name)
	assert.Equal(t, LabelPending, props[PropInsurance].Select.Name)
	assert.Equal(t, "⚡Hybrid⛽", props[PropFuelType].Select.Name)
}

func TestPayloadGenerator_UpdateProperties(t *testing.T) {
	g := DefaultPayloadGenerator()

	props := g.UpdateProperties(reconcile.FieldUpdate{
		Availability: utils.Ptr(false),
		Price:        utils.Ptr(29000000),
		Comment:      utils.Ptr("3100→3000→2900"),
	})
	require.Len(t, props, 3)
	assert.Equal(t, LabelFalse, props[PropAvailability].Select.Name)
	assert.Equal(t, 29000000.0, *props[PropPrice].Number)
	assert.Equal(t, "3100→3000→2900", props[PropComment].RichText[0].Text.Content)

	assert.Empty(t, g.UpdateProperties(reconcile.FieldUpdate{}))
}

func TestPayloadGenerator_LongCommentSplitsIntoRuns(t *testing.T) {
	g := DefaultPayloadGenerator()
	trail := strings.Repeat("3100→", 900) // 4500 characters

	props := g.UpdateProperties(reconcile.FieldUpdate{Comment: &trail})
	runs := props[PropComment].RichText
	require.Len(t, runs, 3)

	var joined strings.Builder
	for _, run := range runs {
		assert.LessOrEqual(t, utf8.RuneCountInString(run.Text.Content), MaxTextRunLength)
		joined.WriteString(run.Text.Content)
	}
	assert.Equal(t, trail, joined.String())
	assert.Equal(t, 500, utf8.RuneCountInString(runs[2].Text.Content))
}

func TestLabels(t *testing.T) {
	assert.Equal(t, LabelFalse, InsuranceLabel(0))
	assert.Equal(t, LabelTrue, InsuranceLabel(1))
	assert.Equal(t, "수소", FuelLabel("수소"))
	assert.True(t, *ParseStatusLabel(LabelTrue))
	assert.False(t, *ParseStatusLabel(LabelFalse))
	assert.Nil(t, ParseStatusLabel(LabelPending))
}

func TestDatabaseSchema(t *testing.T) {
	schema := DatabaseSchema()
	for _, name := range DefaultPropertyNames {
		assert.Contains(t, schema, name)
	}
}

func TestSchemaKinds(t *testing.T) {
	kinds := SchemaKinds()
	assert.Len(t, kinds, len(DatabaseSchema()))
	assert.Equal(t, KindTitle, kinds[PropCarID])
	assert.Equal(t, KindSelect, kinds[PropAvailability])
	assert.Equal(t, KindNumber, kinds[PropPrice])
	assert.Equal(t, KindRichText, kinds[PropComment])
}
