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

	"github.com/pterm/pterm"
	"github.com/walteh/strpatch/pkg/text"
	"gitlab.com/tozd/go/errors"
)

// RenderRules renders rules as a table, in rule order
func RenderRules(rules []text.Rule) (string, error) {
	data := pterm.TableData{{"Lang", "Key", "Value"}}
	for _, r := range rules {
		data = append(data, []string{r.Lang, r.Key, r.Value})
	}

	out, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return "", errors.Errorf("rendering rules: %w", err)
	}
	return out, nil
}

// RenderOutcomes renders a patch result as a table with one row per rule
func RenderOutcomes(result *text.ReplacementResult) (string, error) {
	data := pterm.TableData{{"Lang", "Key", "Status", "Current", "Wanted"}}
	for _, o := range result.Outcomes {
		data = append(data, []string{o.Rule.Lang, o.Rule.Key, o.Status.String(), o.Old, o.Rule.Value})
	}

	out, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return "", errors.Errorf("rendering outcomes: %w", err)
	}
	return out, nil
}

// FormatSummary is the one-line completion message for a patched file
func FormatSummary(path string, result *text.ReplacementResult) string {
	return fmt.Sprintf("fixed %s (%d updated, %d unchanged, %d not found)",
		path,
		result.Count(text.StatusUpdated),
		result.Count(text.StatusUnchanged),
		result.Count(text.StatusNotFound))
}
