package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify_PureFencedCodeIsCode(t *testing.T) {
	text := "```go\nfunc main() {\n\tfmt.Println(1)\n}\n```"

	resp := Classify(text)

	assert.Equal(t, KindCode, resp.Kind)
	require.NotNil(t, resp.Language)
	assert.Equal(t, "go", *resp.Language)
}

func TestClassify_FencedCodeWithProseIsMixed(t *testing.T) {
	text := "Here is the function you asked for:\n```go\nfunc add(a, b int) int { return a + b }\n```"

	resp := Classify(text)

	assert.Equal(t, KindMixed, resp.Kind)
}

func TestClassify_UnfencedCodeIsCode(t *testing.T) {
	text := "package main\nfunc main() {\n}"

	resp := Classify(text)

	assert.Equal(t, KindCode, resp.Kind)
	require.NotNil(t, resp.Language)
	assert.Equal(t, "go", *resp.Language)
}

func TestClassify_PlainProseIsMessage(t *testing.T) {
	resp := Classify("A sprint is a short, time-boxed period of work in agile development.")

	assert.Equal(t, KindMessage, resp.Kind)
	assert.Nil(t, resp.Language)
}

func TestClassify_GoPatternDetected(t *testing.T) {
	resp := Classify("package main\nfunc")

	require.NotNil(t, resp.Language)
	assert.Equal(t, "go", *resp.Language)
}

// Language detection is a priority list: when two languages' keywords
// co-occur, the earlier-listed one wins.
func TestClassify_LanguageOrderIsDeterministic(t *testing.T) {
	text := "package main\nfunc handle() {\n\tconsole.log(\"also javascript\")\n}"

	resp := Classify(text)

	require.NotNil(t, resp.Language)
	assert.Equal(t, "go", *resp.Language)
}

func TestClassify_UnknownCodeFallsBackToText(t *testing.T) {
	text := "```\nMOV AX, 4C00h\nINT 21h\n```"

	resp := Classify(text)

	require.NotNil(t, resp.Language)
	assert.Equal(t, "text", *resp.Language)
}

func TestClassify_LanguageTable(t *testing.T) {
	cases := []struct {
		name string
		text string
		want string
	}{
		{"python", "def greet(name):\n    print(name)", "python"},
		{"javascript", "const total = items.reduce((a, b) => a + b, 0);", "javascript"},
		{"rust", "fn main() {\n    let mut count = 0;\n    println!(\"{}\", count);\n}", "rust"},
		{"sql", "SELECT id, title FROM tasks WHERE status = 'todo';", "sql"},
		{"cpp", "#include <iostream>\nstd::cout << \"hi\";", "cpp"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp := Classify(tc.text)
			require.NotNil(t, resp.Language)
			assert.Equal(t, tc.want, *resp.Language)
		})
	}
}

func TestClassify_PreservesOriginalText(t *testing.T) {
	text := "```python\nprint('hi')\n```"
	resp := Classify(text)
	assert.Equal(t, text, resp.Text)
}
