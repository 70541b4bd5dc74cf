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
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/walteh/strpatch/cmd/strpatch/opts"
	"github.com/walteh/strpatch/pkg/log"
)

func main() {
	// optional, flag defaults may come from STRPATCH_* variables
	envErr := godotenv.Load()

	zlog := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	ctx := zlog.WithContext(context.Background())
	if envErr != nil && !os.IsNotExist(envErr) {
		zlog.Warn().Err(envErr).Msg("loading .env")
	}

	o := &opts.RootOpts{
		Logger: log.New(os.Stdout, zlog),
	}

	if err := newRootCmd(o).ExecuteContext(ctx); err != nil {
		o.Logger.Error(err.Error())
		os.Exit(1)
	}
}
