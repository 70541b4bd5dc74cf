// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package dartstr

import (
	"regexp"
	"sort"
	"strings"
)

var (
	anyBlockRe = regexp.MustCompile(`const\s+([A-Za-z_$][\w$]*)\s*=\s*Strings\s*\(`)
	anyFieldRe = regexp.MustCompile(`\b([A-Za-z_$][\w$]*)\s*:\s*['"]`)
)

// 📦 Block is one `const <lang> = Strings(...)` declaration
type Block struct {
	Lang   string  // Language tag, e.g. "_es"
	Start  int     // Offset of the "const" keyword
	Open   int     // Offset just past the opening paren
	End    int     // Offset of the closing paren, or len(src) if unbalanced
	Fields []Field // Populated by Parse only

	literals spans
	comments spans
}

type span struct {
	start, end int
	open       bool // unterminated literal
}

// spans are sorted by start and never overlap.
type spans []span

func (s spans) contains(off int) bool {
	i := sort.Search(len(s), func(i int) bool { return s[i].end > off })
	return i < len(s) && s[i].start <= off
}

func (s spans) startingAt(off int) (span, bool) {
	i := sort.Search(len(s), func(i int) bool { return s[i].start >= off })
	if i < len(s) && s[i].start == off {
		return s[i], true
	}
	return span{}, false
}

// 🔑 Field is one `key: 'literal'` entry inside a block
type Field struct {
	Key   string // Field name
	Value string // Decoded literal value
	Raw   string // Literal as written, quotes included
	Start int    // Offset of the literal's opening quote
	End   int    // Offset just past the literal's closing quote
}

// Body returns the text between the block's parens.
func (b Block) Body(src string) string {
	return src[b.Open:b.End]
}

// 🔍 FieldPattern matches `key:` followed by the opening quote of a literal.
// The quote is the last byte of the match.
func FieldPattern(key string) *regexp.Regexp {
	return regexp.MustCompile(`\b` + regexp.QuoteMeta(key) + `\s*:\s*['"]`)
}

// 🔍 FindBlock locates the first block declared for lang. Declarations
// inside comments or string literals are ignored.
func FindBlock(src, lang string) (Block, bool) {
	re := regexp.MustCompile(`const\s+` + regexp.QuoteMeta(lang) + `\s*=\s*Strings\s*\(`)
	locs := code(src, re.FindAllStringIndex(src, -1))
	if len(locs) == 0 {
		return Block{}, false
	}
	return newBlock(src, lang, locs[0]), true
}

// 🔍 Field finds the first entry for key inside the block. Matching never
// leaves the block, so a key shared with a later block is never touched.
// Keys that appear inside comments or other literals are skipped.
func (b Block) Field(src, key string) (Field, bool) {
	re := FieldPattern(key)
	for _, loc := range b.matches(src, re) {
		if f, ok := b.field(src, key, loc); ok {
			return f, true
		}
	}
	return Field{}, false
}

// 📚 Parse returns every block in src with its fields in source order.
func Parse(src string) []Block {
	var blocks []Block
	for _, loc := range code(src, anyBlockRe.FindAllStringSubmatchIndex(src, -1)) {
		b := newBlock(src, src[loc[2]:loc[3]], loc)
		for _, m := range b.matches(src, anyFieldRe) {
			if f, ok := b.field(src, src[m[2]:m[3]], m); ok {
				b.Fields = append(b.Fields, f)
			}
		}
		blocks = append(blocks, b)
	}
	return blocks
}

// 🗺️ Values flattens blocks into lang -> key -> value. The first entry wins
// for duplicate keys, matching what FindBlock and Field would select.
func Values(blocks []Block) map[string]map[string]string {
	out := make(map[string]map[string]string, len(blocks))
	for _, b := range blocks {
		// a later block for the same tag is never selected by FindBlock
		if _, ok := out[b.Lang]; ok {
			continue
		}
		m := make(map[string]string, len(b.Fields))
		out[b.Lang] = m
		for _, f := range b.Fields {
			if _, seen := m[f.Key]; !seen {
				m[f.Key] = f.Value
			}
		}
	}
	return out
}

func newBlock(src, lang string, loc []int) Block {
	end, literals, comments := scan(src, loc[1], 1)
	return Block{
		Lang:     lang,
		Start:    loc[0],
		Open:     loc[1],
		End:      end,
		literals: literals,
		comments: comments,
	}
}

// matches returns re's matches in the block body as absolute offsets,
// dropping those that start inside a comment or literal. The search
// resumes right after a dropped match's start so it cannot hide a real one.
func (b Block) matches(src string, re *regexp.Regexp) [][]int {
	var out [][]int
	for pos := b.Open; pos < b.End; {
		loc := re.FindStringSubmatchIndex(src[pos:b.End])
		if loc == nil {
			break
		}
		for i := range loc {
			if loc[i] >= 0 {
				loc[i] += pos
			}
		}
		if b.comments.contains(loc[0]) || b.literals.contains(loc[0]) {
			pos = loc[0] + 1
			continue
		}
		out = append(out, loc)
		pos = loc[1]
	}
	return out
}

// field builds the Field whose literal opens at the last byte of loc.
func (b Block) field(src, key string, loc []int) (Field, bool) {
	lit, ok := b.literals.startingAt(loc[1] - 1)
	if !ok || lit.open {
		return Field{}, false
	}
	raw := src[lit.start:lit.end]
	return Field{
		Key:   key,
		Value: Unquote(raw),
		Raw:   raw,
		Start: lit.start,
		End:   lit.end,
	}, true
}

// code drops the matches that begin inside a top-level comment or literal.
func code(src string, locs [][]int) [][]int {
	if len(locs) == 0 {
		return nil
	}
	_, literals, comments := scan(src, 0, 0)
	out := locs[:0]
	for _, loc := range locs {
		if !literals.contains(loc[0]) && !comments.contains(loc[0]) {
			out = append(out, loc)
		}
	}
	return out
}

// scan walks src from i and records string literals and comments. With
// depth > 0 it stops at the paren closing that many open ones and returns
// its offset, otherwise it runs to the end of src.
func scan(src string, i, depth int) (int, spans, spans) {
	var literals, comments spans
	for i < len(src) {
		switch src[i] {
		case '\'', '"':
			end, ok := skipString(src, i)
			literals = append(literals, span{start: i, end: end, open: !ok})
			i = end
			continue
		case '/':
			if strings.HasPrefix(src[i:], "//") {
				nl := strings.IndexByte(src[i:], '\n')
				if nl < 0 {
					return len(src), literals, append(comments, span{start: i, end: len(src)})
				}
				comments = append(comments, span{start: i, end: i + nl})
				i += nl + 1
				continue
			}
			if strings.HasPrefix(src[i:], "/*") {
				end := strings.Index(src[i+2:], "*/")
				if end < 0 {
					return len(src), literals, append(comments, span{start: i, end: len(src)})
				}
				comments = append(comments, span{start: i, end: i + end + 4})
				i += end + 4
				continue
			}
		case '(':
			if depth > 0 {
				depth++
			}
		case ')':
			if depth > 0 {
				depth--
				if depth == 0 {
					return i, literals, comments
				}
			}
		}
		i++
	}
	return len(src), literals, comments
}

// skipString returns the offset just past the literal starting at i and
// whether the literal was terminated.
func skipString(src string, i int) (int, bool) {
	quote := src[i]
	raw := isRaw(src, i)
	triple := strings.Repeat(string(quote), 3)
	if strings.HasPrefix(src[i:], triple) {
		for j := i + 3; j < len(src); j++ {
			switch {
			case src[j] == '\\' && !raw:
				j++
			case !raw && strings.HasPrefix(src[j:], "${"):
				j = skipInterpolation(src, j+2) - 1
			case strings.HasPrefix(src[j:], triple):
				return j + 3, true
			}
		}
		return len(src), false
	}
	for j := i + 1; j < len(src); j++ {
		switch src[j] {
		case '\\':
			if !raw {
				j++
			}
		case '$':
			if !raw && j+1 < len(src) && src[j+1] == '{' {
				j = skipInterpolation(src, j+2) - 1
			}
		case quote:
			return j + 1, true
		case '\n':
			// unterminated, resume scanning on the next line
			return j, false
		}
	}
	return len(src), false
}

// isRaw reports whether the quote at i opens an r'...' literal.
func isRaw(src string, i int) bool {
	return i > 0 && src[i-1] == 'r' && (i < 2 || !isIdent(src[i-2]))
}

func isIdent(c byte) bool {
	return c == '_' || c == '$' || '0' <= c && c <= '9' || 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z'
}

// skipInterpolation returns the offset just past the brace closing a `${`
// whose body starts at i. Literals nested in the expression are skipped.
func skipInterpolation(src string, i int) int {
	depth := 1
	for i < len(src) {
		switch src[i] {
		case '\'', '"':
			i, _ = skipString(src, i)
			continue
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i + 1
			}
		}
		i++
	}
	return len(src)
}
