package notion

import (
	"encoding/json"
	"testing"

	"listing-sync/core/reconcile"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const queryFixture = `[
  {
    "id": "page-a",
    "last_edited_time": "2024-06-01T09:30:00.000Z",
    "properties": {
      "Car ID": {"type": "title", "title": [{"type": "text", "plain_text": "A"}]},
      "Availability": {"type": "select", "select": {"name": "✅True"}},
      "Price": {"type": "number", "number": 31000000},
      "Comment": {"type": "rich_text", "rich_text": [{"plain_text": "3100→"}, {"plain_text": "3000"}]}
    }
  },
  {
    "id": "page-b",
    "last_edited_time": "2024-05-01T09:30:00.000Z",
    "properties": {
      "Car ID": {"type": "title", "title": [{"plain_text": "B"}]},
      "Availability": {"type": "select", "select": null},
      "Price": {"type": "number", "number": null},
      "Comment": {"type": "rich_text", "rich_text": []}
    }
  },
  {
    "id": "page-untitled",
    "properties": {"Car ID": {"type": "title", "title": []}}
  },
  {
    "id": "page-a-dup",
    "properties": {"Car ID": {"type": "title", "title": [{"plain_text": "A"}]}}
  }
]`

func TestExtractRecords(t *testing.T) {
	var pages []Page
	require.NoError(t, json.Unmarshal([]byte(queryFixture), &pages))

	records, duplicates := ExtractRecords(pages)
	require.Len(t, records, 2)
	assert.Equal(t, map[string][]string{"A": {"page-a-dup"}}, duplicates)

	a := records["A"]
	assert.Equal(t, "page-a", a.PageID)
	assert.True(t, a.IsAvailable())
	assert.Equal(t, 31000000, *a.Price)
	assert.Equal(t, "3100→3000", *a.Comment)
	assert.Equal(t, "2024-06-01T09:30:00.000Z", a.LastEditedTime)

	b := records["B"]
	assert.Nil(t, b.Availability)
	assert.False(t, b.IsAvailable())
	assert.Nil(t, b.Price)
	assert.Nil(t, b.Comment)
}

func TestTargetFilter(t *testing.T) {
	filter := TargetFilter(reconcile.Target{Maker: "기아", Model: "쏘렌토", Submodel: "쏘렌토 4세대"})
	data, err := json.Marshal(filter)
	require.NoError(t, err)

	assert.JSONEq(t, `{"and":[
		{"property":"Maker","select":{"equals":"기아"}},
		{"property":"Model","rich_text":{"equals":"쏘렌토"}},
		{"property":"Submodel","rich_text":{"equals":"쏘렌토 4세대"}}
	]}`, string(data))
}
