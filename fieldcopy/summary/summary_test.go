package summary

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOfScalars(t *testing.T) {
	var nilPtr *string
	word := "hi"

	testCases := []struct {
		name  string
		value any
		want  Summary
	}{
		{"nil", nil, Summary{Kind: "null", Size: "null", Preview: "null"}},
		{"nil pointer", nilPtr, Summary{Kind: "null", Size: "null", Preview: "null"}},
		{"true", true, Summary{Kind: "bool", Size: "bool", Preview: "true"}},
		{"false", false, Summary{Kind: "bool", Size: "bool", Preview: "false"}},
		{"int", 42, Summary{Kind: "int", Size: "int", Preview: "42"}},
		{"negative int64", int64(-7), Summary{Kind: "int64", Size: "int64", Preview: "-7"}},
		{"uint8", uint8(255), Summary{Kind: "uint8", Size: "uint8", Preview: "255"}},
		{"whole float", float64(12), Summary{Kind: "float64", Size: "float64", Preview: "12"}},
		{"fraction", 0.25, Summary{Kind: "float64", Size: "float64", Preview: "0.25"}},
		{"string", "hello", Summary{Kind: "string", Size: "string(5)", Preview: "hello"}},
		{"pointer to string", &word, Summary{Kind: "string", Size: "string(2)", Preview: "hi"}},
		{"empty string", "", Summary{Kind: "string", Size: "string(0)", Preview: ""}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Of(tc.value))
		})
	}
}

func TestOfStringBoundary(t *testing.T) {
	t.Run("exactly the limit is not truncated", func(t *testing.T) {
		s := strings.Repeat("あ", PreviewRunes)
		got := Of(s)
		assert.Equal(t, "string(120)", got.Size)
		assert.Equal(t, s, got.Preview)
		assert.False(t, strings.HasSuffix(got.Preview, Ellipsis))
	})

	t.Run("one over the limit is truncated", func(t *testing.T) {
		s := strings.Repeat("あ", PreviewRunes+1)
		got := Of(s)
		assert.Equal(t, "string(121)", got.Size)
		require.True(t, strings.HasSuffix(got.Preview, Ellipsis))
		body := strings.TrimSuffix(got.Preview, Ellipsis)
		assert.Equal(t, PreviewRunes, utf8.RuneCountInString(body))
	})

	t.Run("counts code points not bytes", func(t *testing.T) {
		got := Of("日本語")
		assert.Equal(t, "string(3)", got.Size)
	})
}

func TestOfContainers(t *testing.T) {
	t.Run("list of eight is previewed whole", func(t *testing.T) {
		list := []any{1, 2, 3, 4, 5, 6, 7, 8}
		got := Of(list)
		assert.Equal(t, "[]interface {}", got.Kind)
		assert.Equal(t, "container(8)", got.Size)
		assert.Equal(t, "[1,2,3,4,5,6,7,8]", got.Preview)
	})

	t.Run("list of nine gets the sentinel", func(t *testing.T) {
		list := []string{"a", "b", "c", "d", "e", "f", "g", "h", "i"}
		got := Of(list)
		assert.Equal(t, "container(9)", got.Size)
		assert.Equal(t,
			`{"0":"a","1":"b","2":"c","3":"d","4":"e","5":"f","6":"g","7":"h","…":"(truncated)"}`,
			got.Preview)
	})

	t.Run("map keys are sorted", func(t *testing.T) {
		m := map[string]any{"b": 2, "a": "x<y", "c": nil}
		got := Of(m)
		assert.Equal(t, "map[string]interface {}", got.Kind)
		assert.Equal(t, "container(3)", got.Size)
		assert.Equal(t, `{"a":"x<y","b":2,"c":"null"}`, got.Preview)
	})

	t.Run("keys that print alike keep both entries", func(t *testing.T) {
		m := map[any]any{1: "int-one", "1": "string-one", 2.5: "float"}
		want := `{"1":"int-one","1":"string-one","2.5":"float"}`
		for i := 0; i < 20; i++ {
			assert.Equal(t, want, Of(m).Preview)
		}
	})

	t.Run("nested values become type names", func(t *testing.T) {
		m := map[string]any{"rows": []any{1}, "meta": map[string]any{}}
		got := Of(m)
		assert.Equal(t, `{"meta":"map[string]interface {}","rows":"[]interface {}"}`, got.Preview)
	})

	t.Run("map of nine is truncated", func(t *testing.T) {
		m := map[string]int{}
		for _, k := range []string{"a", "b", "c", "d", "e", "f", "g", "h", "i"} {
			m[k] = 1
		}
		got := Of(m)
		assert.Contains(t, got.Preview, `"h":1,"…":"(truncated)"}`)
		assert.NotContains(t, got.Preview, `"i"`)
	})

	t.Run("empty containers", func(t *testing.T) {
		assert.Equal(t, "[]", Of([]any{}).Preview)
		assert.Equal(t, "{}", Of(map[string]any{}).Preview)
		assert.Equal(t, "container(0)", Of(map[string]any{}).Size)
	})
}

type image struct {
	ID      int
	URL     string
	Sizes   map[string]string
	private string
}

func TestOfObjects(t *testing.T) {
	got := Of(image{ID: 3, URL: "https://example.com/a.png", private: "hidden"})
	assert.Equal(t, "summary.image", got.Kind)
	assert.Equal(t, "object", got.Size)
	assert.Equal(t, `{"ID":3,"URL":"https://example.com/a.png","Sizes":"map[string]string"}`, got.Preview)

	ptr := Of(&image{ID: 1})
	assert.Equal(t, "summary.image", ptr.Kind)
}

func TestOfUnprintable(t *testing.T) {
	got := Of(func() {})
	assert.Equal(t, "func()", got.Kind)
	assert.Equal(t, "func()", got.Size)
	assert.Equal(t, Unprintable, got.Preview)

	ch := Of(make(chan int))
	assert.Equal(t, Unprintable, ch.Preview)
}

func TestIsEmpty(t *testing.T) {
	var nilMap map[string]any
	testCases := []struct {
		name  string
		value any
		empty bool
	}{
		{"nil", nil, true},
		{"empty string", "", true},
		{"false", false, true},
		{"empty list", []any{}, true},
		{"nil map", nilMap, true},
		{"empty map", map[string]any{}, true},
		{"zero int is not empty", 0, false},
		{"zero float is not empty", 0.0, false},
		{"string zero is not empty", "0", false},
		{"true", true, false},
		{"text", "hello", false},
		{"list", []any{nil}, false},
		{"struct", image{}, false},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.empty, IsEmpty(tc.value))
		})
	}
}
