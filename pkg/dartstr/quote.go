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
	"strconv"
	"strings"
)

var quoter = strings.NewReplacer(
	`\`, `\\`,
	`'`, `\'`,
	`$`, `\$`,
	"\n", `\n`,
	"\r", `\r`,
	"\t", `\t`,
)

// ✍️ Quote renders s as a single-quoted Dart literal.
func Quote(s string) string {
	return "'" + quoter.Replace(s) + "'"
}

// 📖 Unquote decodes a single- or double-quoted Dart literal, including the
// triple-quoted forms. Input that is not a quoted literal is returned as is.
func Unquote(lit string) string {
	if len(lit) < 2 || (lit[0] != '\'' && lit[0] != '"') || lit[len(lit)-1] != lit[0] {
		return lit
	}
	n := 1
	if len(lit) >= 6 && strings.HasPrefix(lit, lit[:1]+lit[:1]+lit[:1]) && strings.HasSuffix(lit, lit[:3]) {
		n = 3
	}
	body := lit[n : len(lit)-n]
	if n == 3 {
		// a first line holding only whitespace is not part of the value
		if nl := strings.IndexByte(body, '\n'); nl >= 0 && strings.TrimRight(body[:nl], " \t\r") == "" {
			body = body[nl+1:]
		}
	}
	if !strings.Contains(body, `\`) {
		return body
	}

	var sb strings.Builder
	sb.Grow(len(body))
	for i := 0; i < len(body); i++ {
		c := body[i]
		if c != '\\' || i+1 == len(body) {
			sb.WriteByte(c)
			continue
		}
		i++
		switch body[i] {
		case 'n':
			sb.WriteByte('\n')
		case 'r':
			sb.WriteByte('\r')
		case 't':
			sb.WriteByte('\t')
		case 'b':
			sb.WriteByte('\b')
		case 'f':
			sb.WriteByte('\f')
		case 'v':
			sb.WriteByte('\v')
		case 'u':
			r, n := decodeUnicodeEscape(body[i+1:])
			if n == 0 {
				sb.WriteByte('u')
				continue
			}
			sb.WriteRune(r)
			i += n
		default:
			sb.WriteByte(body[i])
		}
	}
	return sb.String()
}

// decodeUnicodeEscape handles the part after `\u`: either XXXX or {X...}.
func decodeUnicodeEscape(s string) (rune, int) {
	if strings.HasPrefix(s, "{") {
		end := strings.IndexByte(s, '}')
		if end < 2 || end > 7 {
			return 0, 0
		}
		v, err := strconv.ParseUint(s[1:end], 16, 32)
		if err != nil {
			return 0, 0
		}
		return rune(v), end + 1
	}
	if len(s) < 4 {
		return 0, 0
	}
	v, err := strconv.ParseUint(s[:4], 16, 32)
	if err != nil {
		return 0, 0
	}
	return rune(v), 4
}
