package envelope

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr bool
		check   func(t *testing.T, v Value)
	}{
		{
			name: "nested object",
			raw:  `{"documentType":"report","fileInfo":{"mimeType":"application/pdf","size":1024},"tags":["a","b"]}`,
			check: func(t *testing.T, v Value) {
				assert.Equal(t, KindObject, v.Kind())
				mt, ok := v.FieldString("fileInfo.mimeType")
				assert.True(t, ok)
				assert.Equal(t, "application/pdf", mt)
			},
		},
		{
			name: "empty input is null",
			raw:  "",
			check: func(t *testing.T, v Value) {
				assert.Equal(t, KindNull, v.Kind())
			},
		},
		{
			name:    "malformed json",
			raw:     `{"unterminated`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := Parse([]byte(tt.raw))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			if tt.check != nil {
				tt.check(t, v)
			}
		})
	}
}

func TestWalkStrings(t *testing.T) {
	raw := `{
		"title": "Relatório",
		"nested": {"deep": {"subject": "Orçamento"}},
		"items": ["first", {"inner": "second"}, 42, true, null],
		"count": 7
	}`
	v, err := Parse([]byte(raw))
	assert.NoError(t, err)

	got := v.Strings()
	assert.ElementsMatch(t, []string{"Relatório", "Orçamento", "first", "second"}, got)
}

func TestWalkStringsStopsEarly(t *testing.T) {
	v, err := Parse([]byte(`["a","b","c"]`))
	assert.NoError(t, err)

	visits := 0
	found := v.WalkStrings(func(s string) bool {
		visits++
		return s == "b"
	})
	assert.True(t, found)
	assert.Equal(t, 2, visits)
}

func TestSetFieldAndMarshal(t *testing.T) {
	v, err := Parse([]byte(`{"title":"doc"}`))
	assert.NoError(t, err)

	v.SetField("extractedText", String("doc. report."))

	b, err := json.Marshal(v)
	assert.NoError(t, err)

	round, err := Parse(b)
	assert.NoError(t, err)
	s, ok := round.FieldString("extractedText")
	assert.True(t, ok)
	assert.Equal(t, "doc. report.", s)
}

func TestNumberPrecisionSurvivesRoundTrip(t *testing.T) {
	// 2^53+1 is not representable as float64; the digits must come back intact.
	v, err := Parse([]byte(`{"fileInfo":{"size":9007199254740993}}`))
	assert.NoError(t, err)

	b, err := json.Marshal(v)
	assert.NoError(t, err)
	assert.Contains(t, string(b), "9007199254740993")
}

func TestFieldStringMissingPath(t *testing.T) {
	v, _ := Parse([]byte(`{"fileInfo":{"size":10}}`))

	_, ok := v.FieldString("fileInfo.mimeType")
	assert.False(t, ok)

	_, ok = v.FieldString("fileInfo.size")
	assert.False(t, ok, "numeric leaf is not a string")
}
