package utils

import (
	"reflect"
	"testing"
)

func TestGenerateRandomString(t *testing.T) {
	generatedString := make(map[string]bool)
	for i := 0; i < 100; i++ {
		str, err := GenerateRandomString(32)
		if err != nil {
			t.Fatalf("Error: %s", err)
		}
		if len(str) != 32 {
			t.Fatalf("Expected 32, but got %d", len(str))
		}
		if generatedString[str] {
			t.Fatalf("Duplicated string: %s", str)
		}
		generatedString[str] = true
	}
}

func TestGjsonParseUint64Array(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want []uint64
	}{
		{
			name: "native array",
			raw:  `[1,2,3]`,
			want: []uint64{1, 2, 3},
		},
		{
			name: "string-wrapped array",
			raw:  `"[1,2]"`,
			want: []uint64{1, 2},
		},
		{
			name: "empty array",
			raw:  `[]`,
			want: []uint64{},
		},
		{
			name: "empty input",
			raw:  ``,
			want: []uint64{},
		},
		{
			name: "truncated json",
			raw:  `[1,2`,
			want: []uint64{},
		},
		{
			name: "json null",
			raw:  `null`,
			want: []uint64{},
		},
		{
			name: "not an array",
			raw:  `{"a":1}`,
			want: []uint64{},
		},
		{
			name: "garbage",
			raw:  `asdf{{`,
			want: []uint64{},
		},
		{
			name: "mixed element types",
			raw:  `[1,"x",2]`,
			want: []uint64{},
		},
	}

	for _, c := range cases {
		got := GjsonParseUint64Array([]byte(c.raw))
		if !reflect.DeepEqual(got, c.want) {
			t.Errorf("%s: GjsonParseUint64Array(%q) = %v, want %v", c.name, c.raw, got, c.want)
		}
	}
}
