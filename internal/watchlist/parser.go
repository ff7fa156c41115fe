/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package watchlist parses plain-text watchlist files into structured
// entries for the watchlist widget.
package watchlist

import (
	"bufio"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"tokendesk/internal/layout"
)

// Parse parses a watchlist text into a structured Document.
// Supported syntax (minimal):
// - List headings:
//   - Lines starting with "#" or "List:" introduce a new list. The rest of the line is the title.
//
// - Entries: SYMBOL: <mint-address> [note]
//   - SYMBOL is upper-cased and trimmed; the address must be base58.
//   - Continuation lines indented by 2+ spaces are appended to the previous entry's note.
//   - Tags like @defi in the note are collected into Entry.Tags.
//
// - Comments: lines starting with ';' are ignored.
// Blank lines separate nothing; they are skipped.
func Parse(input string) (Document, []Error) {
	doc := Document{Lists: []List{}}
	var errs []Error

	scanner := bufio.NewScanner(strings.NewReader(input))
	lineNo := 0
	current := List{}
	var lastEntry *Entry

	reHeading := regexp.MustCompile(`^(#+)\s*(.*)$`)
	reHeadingAlt := regexp.MustCompile(`^(?i)\s*List:\s*(.+)$`)
	reEntry := regexp.MustCompile(`^([A-Za-z0-9_\-\$]{1,24})\s*:\s*(\S+)\s*(.*)$`)
	reTag := regexp.MustCompile(`(?i)@([a-z0-9_\-]+)`)

	extractTags := func(s string) []string {
		found := reTag.FindAllStringSubmatch(s, -1)
		if len(found) == 0 {
			return nil
		}
		m := map[string]struct{}{}
		for _, f := range found {
			t := strings.ToLower(strings.TrimSpace(f[1]))
			if t != "" {
				m[t] = struct{}{}
			}
		}
		out := make([]string, 0, len(m))
		for k := range m {
			out = append(out, k)
		}
		sort.Strings(out)
		return out
	}

	flushList := func() {
		if strings.TrimSpace(current.Title) != "" || len(current.Entries) > 0 {
			doc.Lists = append(doc.Lists, current)
		}
	}

	for scanner.Scan() {
		lineNo++
		line := strings.TrimRight(scanner.Text(), "\r\n")

		// continuation line appends to the previous entry's note
		if strings.HasPrefix(line, "  ") && lastEntry != nil {
			cont := strings.TrimSpace(line)
			if cont == "" {
				continue
			}
			if lastEntry.Note == "" {
				lastEntry.Note = cont
			} else {
				lastEntry.Note += "\n" + cont
			}
			lastEntry.Tags = mergeTags(lastEntry.Tags, extractTags(cont))
			continue
		}

		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, ";") {
			lastEntry = nil
			continue
		}

		if m := reHeading.FindStringSubmatch(trimmed); m != nil {
			flushList()
			current = List{Title: strings.TrimSpace(m[2])}
			lastEntry = nil
			continue
		}
		if m := reHeadingAlt.FindStringSubmatch(trimmed); m != nil {
			flushList()
			current = List{Title: strings.TrimSpace(m[1])}
			lastEntry = nil
			continue
		}

		m := reEntry.FindStringSubmatch(trimmed)
		if m == nil {
			errs = append(errs, Error{Line: lineNo, Message: fmt.Sprintf("unrecognized line: %q", trimmed)})
			lastEntry = nil
			continue
		}
		addr := m[2]
		if !layout.ValidAddress(addr) {
			errs = append(errs, Error{Line: lineNo, Message: fmt.Sprintf("invalid mint address %q", addr)})
			lastEntry = nil
			continue
		}
		note := strings.TrimSpace(m[3])
		e := Entry{
			Symbol:  strings.ToUpper(strings.TrimSpace(m[1])),
			Address: addr,
			Note:    note,
			Tags:    extractTags(note),
			LineNo:  lineNo,
		}
		current.Entries = append(current.Entries, e)
		lastEntry = &current.Entries[len(current.Entries)-1]
	}
	flushList()

	if len(doc.Lists) == 0 {
		return doc, errs
	}
	// untitled single list gets a default title
	for i := range doc.Lists {
		if doc.Lists[i].Title == "" {
			doc.Lists[i].Title = "Watchlist"
		}
	}
	return doc, errs
}

func mergeTags(a, b []string) []string {
	if len(b) == 0 {
		return a
	}
	m := map[string]struct{}{}
	for _, t := range a {
		m[t] = struct{}{}
	}
	for _, t := range b {
		m[t] = struct{}{}
	}
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// WidgetConfig converts a list into the watchlist widget's config shape,
// matching the registry defaults ({"addresses": [...]}).
func WidgetConfig(l List) map[string]any {
	addresses := make([]any, 0, len(l.Entries))
	for _, e := range l.Entries {
		entry := map[string]any{
			"symbol":  e.Symbol,
			"address": e.Address,
		}
		if e.Note != "" {
			entry["note"] = e.Note
		}
		if len(e.Tags) > 0 {
			tags := make([]any, len(e.Tags))
			for i, t := range e.Tags {
				tags[i] = t
			}
			entry["tags"] = tags
		}
		addresses = append(addresses, entry)
	}
	return map[string]any{
		"title":     l.Title,
		"addresses": addresses,
	}
}
