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

package text

import (
	"bytes"
	"io"
	"unicode/utf8"

	"gitlab.com/tozd/go/errors"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

var replacementChar = []byte(string(utf8.RuneError))

// Decode reads UTF-8 text, swapping malformed bytes for U+FFFD instead of
// failing. Each maximal ill-formed subsequence becomes a single U+FFFD, so a
// truncated multi-byte sequence counts once. It also returns how many
// replacements were introduced.
func Decode(r io.Reader) (string, int, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return "", 0, errors.Errorf("reading: %w", err)
	}
	if utf8.Valid(raw) {
		return string(raw), 0, nil
	}

	decoded, _, err := transform.Bytes(unicode.UTF8.NewDecoder(), raw)
	if err != nil {
		return "", 0, errors.Errorf("decoding utf-8: %w", err)
	}
	invalid := bytes.Count(decoded, replacementChar) - bytes.Count(raw, replacementChar)
	return string(decoded), invalid, nil
}
