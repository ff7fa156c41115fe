/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package watchlist

// Document is a parsed watchlist import file: one or more named lists of
// token entries.
type Document struct {
	Lists []List
}

// List is one named group of entries. Files without a heading produce a
// single list titled "Watchlist".
type List struct {
	Title   string
	Entries []Entry
}

// Entry is one watched token. Symbol is upper-cased by the parser; Address
// is a base58 mint address. Tags come from @tag markers in the note text.
type Entry struct {
	Symbol  string
	Address string
	Note    string
	Tags    []string
	LineNo  int // 1-based starting line number in the source
}

// Error is a parse problem with position context. Parsing continues past
// errors so one bad line does not lose the rest of the file.
type Error struct {
	Line    int
	Message string
}
