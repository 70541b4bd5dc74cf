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

package config

import (
	"context"
	"sort"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/walteh/strpatch/pkg/text"
	"github.com/zclconf/go-cty/cty"
	"gitlab.com/tozd/go/errors"
)

func init() {
	Register(&HCLParser{})
}

// 🔧 HCLParser implements the Parser interface for HCL files
//
//	target = "lib/core/i18n.dart"
//
//	fixup {
//	  pattern = "Extras usados en .+\\(detalle\\)"
//	  replace = "Extras usados en diálogos (detalle)"
//	}
//
//	language "_es" {
//	  password = "Contraseña"
//	}
type HCLParser struct{}

type hclRuleSet struct {
	Target    string        `hcl:"target,optional"`
	Fixups    []FixupSpec   `hcl:"fixup,block"`
	Languages []hclLanguage `hcl:"language,block"`
}

type hclLanguage struct {
	Tag  string   `hcl:"tag,label"`
	Body hcl.Body `hcl:",remain"`
}

// 🔍 CanParse checks if this parser can handle the given file
func (p *HCLParser) CanParse(filename string) bool {
	return strings.HasSuffix(strings.ToLower(filename), ".hcl")
}

// 📝 Parse parses the rule set from HCL. Rules keep source order, both
// across language blocks and within each block.
func (p *HCLParser) Parse(ctx context.Context, data []byte) (*RuleSet, error) {
	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCL(data, "rules.hcl")
	if diags.HasErrors() {
		return nil, errors.Errorf("parsing HCL: %s", diags.Error())
	}

	evalCtx := &hcl.EvalContext{
		Variables: map[string]cty.Value{},
	}

	var raw hclRuleSet
	diags = gohcl.DecodeBody(hclFile.Body, evalCtx, &raw)
	if diags.HasErrors() {
		return nil, errors.Errorf("decoding HCL: %s", diags.Error())
	}

	rs := &RuleSet{
		Target: raw.Target,
		Fixups: raw.Fixups,
	}

	for _, lang := range raw.Languages {
		rules, err := decodeLanguage(evalCtx, lang)
		if err != nil {
			return nil, err
		}
		rs.Rules = append(rs.Rules, rules...)
	}

	return rs, nil
}

func decodeLanguage(evalCtx *hcl.EvalContext, lang hclLanguage) ([]text.Rule, error) {
	attrs, diags := lang.Body.JustAttributes()
	if diags.HasErrors() {
		return nil, errors.Errorf("decoding language %q: %s", lang.Tag, diags.Error())
	}

	ordered := make([]*hcl.Attribute, 0, len(attrs))
	for _, attr := range attrs {
		ordered = append(ordered, attr)
	}
	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].Range.Start.Byte < ordered[j].Range.Start.Byte
	})

	rules := make([]text.Rule, 0, len(ordered))
	for _, attr := range ordered {
		val, diags := attr.Expr.Value(evalCtx)
		if diags.HasErrors() {
			return nil, errors.Errorf("language %q: evaluating %s: %s", lang.Tag, attr.Name, diags.Error())
		}
		if val.IsNull() || !val.Type().Equals(cty.String) {
			return nil, errors.Errorf("language %q: %s must be a string", lang.Tag, attr.Name)
		}
		rules = append(rules, text.Rule{
			Lang:  lang.Tag,
			Key:   attr.Name,
			Value: val.AsString(),
		})
	}
	return rules, nil
}
