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

package status

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/sergi/go-diff/diffmatchpatch"
)

// FormatDiff renders a line diff between before and after. Equal runs are
// collapsed; each changed run is introduced by the old file's line number.
// Identical inputs render as the empty string.
func FormatDiff(path, before, after string) string {
	if before == after {
		return ""
	}

	dmp := diffmatchpatch.New()
	a, b, lines := dmp.DiffLinesToChars(before, after)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)

	var sb strings.Builder
	bold := color.New(color.Bold)
	fmt.Fprintln(&sb, bold.Sprint("--- "+path))
	fmt.Fprintln(&sb, bold.Sprint("+++ "+path))

	line := 1
	inHunk := false
	for _, d := range diffs {
		chunk := splitLines(d.Text)
		switch d.Type {
		case diffmatchpatch.DiffEqual:
			line += len(chunk)
			inHunk = false
			continue
		case diffmatchpatch.DiffDelete:
			writeHunkHeader(&sb, &inHunk, line)
			for _, l := range chunk {
				fmt.Fprintln(&sb, color.RedString("-%s", l))
			}
			line += len(chunk)
		case diffmatchpatch.DiffInsert:
			writeHunkHeader(&sb, &inHunk, line)
			for _, l := range chunk {
				fmt.Fprintln(&sb, color.GreenString("+%s", l))
			}
		}
	}

	return sb.String()
}

func writeHunkHeader(sb *strings.Builder, inHunk *bool, line int) {
	if *inHunk {
		return
	}
	*inHunk = true
	fmt.Fprintln(sb, color.CyanString("@@ line %d @@", line))
}

func splitLines(s string) []string {
	parts := strings.SplitAfter(s, "\n")
	if len(parts) > 0 && parts[len(parts)-1] == "" {
		parts = parts[:len(parts)-1]
	}
	for i, p := range parts {
		parts[i] = strings.TrimSuffix(p, "\n")
	}
	return parts
}
