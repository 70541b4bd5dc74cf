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

package main

import (
	"context"
	"fmt"
	"runtime"
	"runtime/debug"
	"strings"

	"github.com/walteh/strpatch/pkg/config"
)

// buildInfo describes the binary and the rule set compiled into it
type buildInfo struct {
	Module   string
	Version  string
	Revision string
	Go       string
	Platform string
	Rules    string
	Langs    []string
}

func readBuildInfo(ctx context.Context) buildInfo {
	info := buildInfo{
		Module:   "github.com/walteh/strpatch",
		Version:  "dev",
		Revision: "unknown",
		Go:       runtime.Version(),
		Platform: runtime.GOOS + "/" + runtime.GOARCH,
	}

	if bi, ok := debug.ReadBuildInfo(); ok {
		if bi.Main.Path != "" {
			info.Module = bi.Main.Path
		}
		if bi.Main.Version != "" && bi.Main.Version != "(devel)" {
			info.Version = bi.Main.Version
		}
		dirty := false
		for _, s := range bi.Settings {
			switch s.Key {
			case "vcs.revision":
				info.Revision = s.Value
			case "vcs.modified":
				dirty = s.Value == "true"
			}
		}
		if dirty {
			info.Revision += "+dirty"
		}
	}

	// the embedded set is validated by tests, an error here means a broken build
	if rs, err := config.Default(ctx); err == nil {
		info.Rules = rs.String()
		info.Langs = rs.Languages()
	} else {
		info.Rules = "unavailable: " + err.Error()
	}

	return info
}

// FormatVersion renders build information for the version command
func FormatVersion(ctx context.Context) string {
	info := readBuildInfo(ctx)

	var sb strings.Builder
	sb.WriteString("🚀 strpatch version info:\n")
	for _, row := range [][2]string{
		{"Module", info.Module},
		{"Version", info.Version},
		{"Revision", info.Revision},
		{"Go", info.Go},
		{"Platform", info.Platform},
		{"Rules", info.Rules},
		{"Languages", strings.Join(info.Langs, " ")},
	} {
		fmt.Fprintf(&sb, "%-10s %s\n", row[0]+":", row[1])
	}
	return sb.String()
}
