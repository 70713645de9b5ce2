/*
 * MinIO Cloud Storage, (C) 2020 MinIO, Inc.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package csvcore is a streaming CSV reader and writer built around an
// explicit state-machine tokenizer rather than a line-splitting scanner.
//
// The pieces compose bottom-up: a CharSource gives single-character
// lookahead over an io.Reader, a Lexer turns that into a stream of Tokens
// according to a Format, a Parser assembles Tokens into Records and resolves
// header semantics once at the start of the stream, and a Printer performs
// the inverse operation. Format is the single immutable configuration value
// shared by the Lexer, Parser and Printer.
package csvcore
