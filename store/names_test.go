package store_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/traditionalchinese"
	"golang.org/x/text/encoding/unicode"

	"github.com/thewug/eventmaster/store"
)

func TestParseText(t *testing.T) {
	names := store.ParseText("王小明\r\n  李大華 \n\n\r\n陳小姐")
	assert.Equal(t, []string{"王小明", "李大華", "陳小姐"}, names)

	assert.Empty(t, store.ParseText("  \n\n"))
}

func TestParseText_KeepsCommas(t *testing.T) {
	// the paste box is one name per line, commas belong to the name
	assert.Equal(t, []string{"Smith, John"}, store.ParseText("Smith, John"))
}

func TestParseFile_SplitsOnNewlinesAndCommas(t *testing.T) {
	names, err := store.ParseFile([]byte("王小明,李大華\r\n陳小姐,,\n\n 林美惠 \r\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"王小明", "李大華", "陳小姐", "林美惠"}, names)
}

func TestParseFile_StripsUTF8BOM(t *testing.T) {
	names, err := store.ParseFile([]byte("\uFEFF王小明\n李大華"))
	require.NoError(t, err)
	assert.Equal(t, []string{"王小明", "李大華"}, names)
}

func TestParseFile_UTF16(t *testing.T) {
	encoded, err := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewEncoder().String("王小明\r\n李大華")
	require.NoError(t, err)

	names, err := store.ParseFile([]byte(encoded))
	require.NoError(t, err)
	assert.Equal(t, []string{"王小明", "李大華"}, names)
}

func TestParseFile_Big5(t *testing.T) {
	encoded, err := traditionalchinese.Big5.NewEncoder().String("王小明,李大華\r\n陳小姐")
	require.NoError(t, err)

	names, err := store.ParseFile([]byte(encoded))
	require.NoError(t, err)
	assert.Equal(t, []string{"王小明", "李大華", "陳小姐"}, names)
}

func TestParseJSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"bare array", `["王小明", " 李大華 ", ""]`, []string{"王小明", "李大華"}},
		{"names key", `{"names": ["王小明", "李大華"]}`, []string{"王小明", "李大華"}},
		{"participants key", `{"participants": [{"name": "王小明", "id": "x"}, {"name": "李大華"}]}`, []string{"王小明", "李大華"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			names, err := store.ParseJSON([]byte(tt.in))
			require.NoError(t, err)
			assert.Equal(t, tt.want, names)
		})
	}
}

func TestParseJSON_Invalid(t *testing.T) {
	for _, in := range []string{
		`not json`,
		`{"people": ["王小明"]}`,
		`{"participants": [{"title": "王小明"}]}`,
		`42`,
		`"王小明"`,
		`null`,
		`["王小明", 7]`,
	} {
		_, err := store.ParseJSON([]byte(in))
		assert.ErrorIs(t, err, store.ErrInvalidNames, in)
	}
}
