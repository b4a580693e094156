package document

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeJSON(t *testing.T, payload string) any {
	t.Helper()
	var raw any
	require.NoError(t, json.Unmarshal([]byte(payload), &raw))
	return raw
}

func TestExtract_Document(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		want    string
	}{
		{
			name:    "single paragraph",
			payload: `{"type":"doc","content":[{"type":"paragraph","content":[{"type":"text","text":"hello"}]}]}`,
			want:    "hello",
		},
		{
			name: "paragraph runs joined by space",
			payload: `{"type":"doc","content":[{"type":"paragraph","content":[
				{"type":"text","text":"deploy"},
				{"type":"hardBreak"},
				{"type":"text","text":"blocked","marks":[{"type":"strong"}]}]}]}`,
			want: "deploy blocked",
		},
		{
			name: "bullet list",
			payload: `{"type":"doc","content":[{"type":"bulletList","content":[
				{"type":"listItem","content":[{"type":"paragraph","content":[{"type":"text","text":"a"}]}]},
				{"type":"listItem","content":[{"type":"paragraph","content":[{"type":"text","text":"b"}]}]}]}]}`,
			want: "- a\n- b",
		},
		{
			name: "ordered list has no numbering",
			payload: `{"type":"doc","content":[{"type":"orderedList","attrs":{"order":1},"content":[
				{"type":"listItem","content":[{"type":"paragraph","content":[{"type":"text","text":"first"}]}]},
				{"type":"listItem","content":[{"type":"paragraph","content":[{"type":"text","text":"second"}]}]}]}]}`,
			want: "- first\n- second",
		},
		{
			name: "list item with several paragraphs",
			payload: `{"type":"doc","content":[{"type":"bulletList","content":[
				{"type":"listItem","content":[
					{"type":"paragraph","content":[{"type":"text","text":"one"}]},
					{"type":"paragraph","content":[{"type":"text","text":"two"}]}]}]}]}`,
			want: "- one two",
		},
		{
			name: "mixed blocks",
			payload: `{"type":"doc","content":[
				{"type":"paragraph","content":[{"type":"text","text":"status:"}]},
				{"type":"bulletList","content":[
					{"type":"listItem","content":[{"type":"paragraph","content":[{"type":"text","text":"api done"}]}]}]},
				{"type":"paragraph","content":[{"type":"text","text":"eta friday"}]}]}`,
			want: "status:\n- api done\neta friday",
		},
		{
			name:    "unknown block contributes nothing",
			payload: `{"type":"doc","content":[{"type":"codeBlock","content":[{"type":"text","text":"x := 1"}]}]}`,
			want:    "",
		},
		{
			name: "unknown block between paragraphs is skipped",
			payload: `{"type":"doc","content":[
				{"type":"paragraph","content":[{"type":"text","text":"before"}]},
				{"type":"rule"},
				{"type":"paragraph","content":[{"type":"text","text":"after"}]}]}`,
			want: "before\nafter",
		},
		{
			name:    "empty document",
			payload: `{"type":"doc","version":1,"content":[]}`,
			want:    "",
		},
		{
			name:    "document without content",
			payload: `{"type":"doc"}`,
			want:    "",
		},
		{
			name:    "empty paragraph is dropped",
			payload: `{"type":"doc","content":[{"type":"paragraph"},{"type":"paragraph","content":[{"type":"text","text":"x"}]}]}`,
			want:    "x",
		},
		{
			name:    "malformed children are tolerated",
			payload: `{"type":"doc","content":[42,"str",{"type":"paragraph","content":[{"type":"text"},{"type":"text","text":"ok"}]}]}`,
			want:    "ok",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			raw := decodeJSON(t, tc.payload)
			assert.Equal(t, tc.want, Extract(context.Background(), raw))
		})
	}
}

func TestExtract_FallbackDump(t *testing.T) {
	inputs := []any{
		nil,
		"plain text body",
		42.0,
		[]any{"a", "b"},
		map[string]any{"type": "paragraph", "content": []any{}},
		map[string]any{"body": "no type"},
	}

	for _, raw := range inputs {
		first := Extract(context.Background(), raw)
		second := Extract(context.Background(), raw)

		assert.NotEmpty(t, first)
		assert.Equal(t, first, second)
	}
}

func TestExtract_FallbackIsIndentedJSON(t *testing.T) {
	raw := map[string]any{"type": "page", "id": "1"}

	got := Extract(context.Background(), raw)

	assert.Equal(t, "{\n  \"id\": \"1\",\n  \"type\": \"page\"\n}", got)
}

func TestExtract_UnserializableInput(t *testing.T) {
	raw := map[string]any{"fn": func() {}}

	assert.NotPanics(t, func() {
		assert.NotEmpty(t, Extract(context.Background(), raw))
	})
}

func TestDecode(t *testing.T) {
	raw := decodeJSON(t, `{"type":"doc","content":[
		{"type":"paragraph","content":[{"type":"text","text":"hi"}]},
		{"type":"orderedList","content":[{"type":"listItem","content":[]}]},
		{"type":"mediaSingle"}]}`)

	doc, ok := Decode(raw)
	require.True(t, ok)
	require.Len(t, doc.Content, 3)

	assert.Equal(t, Paragraph{Children: []Block{TextRun{Text: "hi"}}}, doc.Content[0])
	list, ok := doc.Content[1].(List)
	require.True(t, ok)
	assert.True(t, list.Ordered)
	assert.Len(t, list.Items, 1)
	unknown, ok := doc.Content[2].(Unknown)
	require.True(t, ok)
	assert.Equal(t, "mediaSingle", unknown.Type)

	_, ok = Decode(map[string]any{"type": "paragraph"})
	assert.False(t, ok)
}
