package store

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/jmoiron/jsonq"
	"golang.org/x/text/encoding/traditionalchinese"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// ParseText reads the paste box: one name per line.
func ParseText(text string) []string {
	return cleanNames(strings.Split(text, "\n"))
}

// ParseFile reads an uploaded single column CSV or plain text file. Names may
// be separated by newlines or commas.
func ParseFile(data []byte) ([]string, error) {
	text, err := decodeText(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidNames, err)
	}

	fields := strings.FieldsFunc(text, func(r rune) bool {
		return r == '\r' || r == '\n' || r == ','
	})
	return cleanNames(fields), nil
}

// ParseJSON accepts any of
//
//	["王小明", "李大華"]
//	{"names": ["王小明", "李大華"]}
//	{"participants": [{"name": "王小明"}, {"name": "李大華"}]}
func ParseJSON(data []byte) ([]string, error) {
	var blob interface{}
	if err := json.Unmarshal(data, &blob); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidNames, err)
	}

	var q *jsonq.JsonQuery
	switch v := blob.(type) {
	case []interface{}:
		// jsonq only walks objects, so a bare array goes under "names"
		q = jsonq.NewQuery(map[string]interface{}{"names": v})
	case map[string]interface{}:
		q = jsonq.NewQuery(v)
	default:
		return nil, fmt.Errorf("%w: expected a JSON array or object, got %s", ErrInvalidNames, bytes.TrimSpace(data))
	}

	if names, err := q.ArrayOfStrings("names"); err == nil {
		return cleanNames(names), nil
	}

	objects, err := q.ArrayOfObjects("participants")
	if err != nil {
		return nil, fmt.Errorf("%w: expected an array of names, \"names\" or \"participants\"", ErrInvalidNames)
	}

	names := make([]string, 0, len(objects))
	for i, o := range objects {
		name, err := jsonq.NewQuery(o).String("name")
		if err != nil {
			return nil, fmt.Errorf("%w: participant %d: %v", ErrInvalidNames, i, err)
		}
		names = append(names, name)
	}
	return cleanNames(names), nil
}

func cleanNames(raw []string) []string {
	names := make([]string, 0, len(raw))
	for _, n := range raw {
		n = strings.TrimSpace(n)
		if n != "" {
			names = append(names, n)
		}
	}
	return names
}

// decodeText turns uploaded bytes into a string. A byte order mark decides the
// encoding when present, otherwise valid UTF-8 is taken as is and anything else
// is assumed to be Big5 from an older spreadsheet export.
func decodeText(data []byte) (string, error) {
	if bytes.HasPrefix(data, bomUTF8) || bytes.HasPrefix(data, bomUTF16LE) || bytes.HasPrefix(data, bomUTF16BE) {
		out, _, err := transform.Bytes(unicode.BOMOverride(unicode.UTF8.NewDecoder()), data)
		if err != nil {
			return "", err
		}
		return string(out), nil
	}

	if utf8.Valid(data) {
		return string(data), nil
	}

	out, _, err := transform.Bytes(traditionalchinese.Big5.NewDecoder(), data)
	if err != nil {
		return "", err
	}
	return string(out), nil
}
