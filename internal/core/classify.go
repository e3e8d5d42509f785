package core

import (
	"regexp"
	"strings"
)

const (
	KindCode    = "code"
	KindMessage = "message"
	KindMixed   = "mixed"
)

// ClassifiedResponse labels one LLM completion. Immutable once computed.
type ClassifiedResponse struct {
	Text     string  `json:"text"`
	Kind     string  `json:"type"`
	Language *string `json:"language"`
}

// codeProbes detect code-like syntax in a completion. Evaluated in order;
// any match marks the text as code-bearing.
var codeProbes = []*regexp.Regexp{
	regexp.MustCompile("(?m)^\\s*```"),
	regexp.MustCompile(`\b(func|function|def|fn)\s+\w*\s*\(`),
	regexp.MustCompile(`\b(class|interface|struct|enum)\s+\w+`),
	regexp.MustCompile(`\b(import|export|require|include|using|package)\b\s+[\w."'<@/]`),
	regexp.MustCompile(`\b(if|for|while|switch|return)\s*\(`),
	regexp.MustCompile(`[\w\])]\s*(=>|->|:=|==|!=|\|\||&&)`),
	regexp.MustCompile(`(?m)[;{}]\s*$`),
	regexp.MustCompile(`</?\w+[^>]*>`),
}

// languagePatterns is a priority list, not a vote: the first matching entry
// wins, so a completion mixing two languages' keywords still gets exactly
// one deterministic tag. Kept as data so tests can enumerate it.
var languagePatterns = []struct {
	Name    string
	Pattern *regexp.Regexp
}{
	{"go", regexp.MustCompile(`\bpackage\s+\w+\s|\bfunc\s+\w*\s*\(|\bgo\s+func\b|\bchan\s+\w+|:=`)},
	{"python", regexp.MustCompile(`\bdef\s+\w+\s*\(.*\)\s*:|\belif\b|\bself\b|\bprint\s*\(|^\s*import\s+\w+\s*$`)},
	{"typescript", regexp.MustCompile(`\binterface\s+\w+\s*\{|:\s*(string|number|boolean)\b|\bexport\s+(type|interface)\b`)},
	{"javascript", regexp.MustCompile(`\bconst\s+\w+\s*=|\bconsole\.log\s*\(|=>|\brequire\s*\(`)},
	{"java", regexp.MustCompile(`\bpublic\s+(static\s+)?(class|void|int|String)\b|\bSystem\.out\.print`)},
	{"csharp", regexp.MustCompile(`\bnamespace\s+\w+|\busing\s+System\b|\bConsole\.Write`)},
	{"cpp", regexp.MustCompile(`#include\s*<|\bstd::|\bcout\s*<<`)},
	{"c", regexp.MustCompile(`#include\s*"|\bprintf\s*\(|\bmalloc\s*\(|\bint\s+main\s*\(`)},
	{"rust", regexp.MustCompile(`\bfn\s+\w+|\blet\s+mut\b|\bprintln!\s*\(|\bimpl\s+\w+`)},
	{"php", regexp.MustCompile(`<\?php|\$\w+\s*=|\becho\s+["$]`)},
	{"ruby", regexp.MustCompile(`(?m)\bdef\s+\w+\s*$|\bputs\s+|\brequire\s+['"]|^\s*end\s*$`)},
	{"sql", regexp.MustCompile(`(?i)\bselect\b[\s\S]+\bfrom\b|\binsert\s+into\b|\bcreate\s+table\b|\bupdate\s+\w+\s+set\b`)},
	{"html", regexp.MustCompile(`(?i)<(!doctype|html|div|span|body|head|p|a|ul|li)\b`)},
	{"css", regexp.MustCompile(`(?i)\b(color|margin|padding|font-size|display|background)\s*:\s*[^;]+;`)},
	{"shell", regexp.MustCompile(`(?m)^#!\s*/bin/(ba|z)?sh|\becho\s+\$|\bsudo\s+\w+|\|\s*grep\b`)},
	{"yaml", regexp.MustCompile(`(?m)^\s*[\w-]+:\s+\S+$[\s\S]*^\s*[\w-]+:\s+\S+$`)},
	{"json", regexp.MustCompile(`(?s)^\s*[\[{].*[\]}]\s*$`)},
	{"markdown", regexp.MustCompile("(?m)^#{1,6}\\s+\\w|^\\s*[-*]\\s+\\w|\\[.+\\]\\(.+\\)")},
}

var (
	fencedBlockRe = regexp.MustCompile("(?s)```[a-zA-Z0-9]*\n?.*?```")
	proseRunRe    = regexp.MustCompile(`[a-zA-Z]{3,}`)
)

// Classify labels a completion as code, message or mixed and, when
// code-bearing, guesses the language. It never fails; the worst case is a
// plain "message" label.
func Classify(text string) ClassifiedResponse {
	resp := ClassifiedResponse{Text: text, Kind: KindMessage}

	codeLike := false
	for _, probe := range codeProbes {
		if probe.MatchString(text) {
			codeLike = true
			break
		}
	}
	if !codeLike {
		return resp
	}

	if hasProseOutsideCode(text) {
		resp.Kind = KindMixed
	} else {
		resp.Kind = KindCode
	}

	lang := detectLanguage(text)
	resp.Language = &lang
	return resp
}

// hasProseOutsideCode strips fenced blocks and code-looking lines, then
// checks whether a run of at least three alphabetic characters survives.
func hasProseOutsideCode(text string) bool {
	stripped := fencedBlockRe.ReplaceAllString(text, "")

	var prose []string
	for _, line := range strings.Split(stripped, "\n") {
		lineIsCode := false
		for _, probe := range codeProbes {
			if probe.MatchString(line) {
				lineIsCode = true
				break
			}
		}
		if !lineIsCode {
			prose = append(prose, line)
		}
	}

	return proseRunRe.MatchString(strings.Join(prose, "\n"))
}

func detectLanguage(text string) string {
	for _, entry := range languagePatterns {
		if entry.Pattern.MatchString(text) {
			return entry.Name
		}
	}
	return "text"
}
