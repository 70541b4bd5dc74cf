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

/*
Package dartstr locates localized string tables in generated Dart sources.

A table is a top-level constant built with the Strings constructor:

	const _es = Strings(
	  appTitle: 'Tu Alimento Diario',
	  password: 'Contraseña',
	);

FindBlock returns the extent of one table, balancing parentheses while
skipping string literals and comments. Literals may be triple-quoted and may
hold `${...}` interpolations with their own quotes and parens. A declaration
that sits inside a comment or literal is not a table.

Block.Field finds the first `key: 'literal'` entry inside that extent only,
ignoring keys that appear in comments or inside other values. Parse walks
every table and returns the fields in source order.

Raw strings (r'...') are skipped without escape or interpolation handling.
A field whose value is a raw string is never matched.

Quote and Unquote convert between Go strings and single-quoted Dart
literals. Quote escapes backslashes, quotes, `$` and control characters so
the output is always a valid literal.
*/
package dartstr
