/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package storage

import (
	"errors"
	"fmt"
	"strings"

	gojsonschema "github.com/xeipuuv/gojsonschema"
)

// snapshotSchema is the stored workspace contract. It is deliberately
// permissive: only the widgets array is required (readers default everything
// else), but fields that are present must have the right shape so a mangled
// snapshot resets to the empty workspace instead of half-loading.
const snapshotSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["widgets"],
  "properties": {
    "language": {"type": "string"},
    "widgets": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["id", "type"],
        "properties": {
          "id": {"type": "string"},
          "type": {"type": "string"},
          "position": {"type": "object"},
          "size": {"type": "object"},
          "zIndex": {"type": "number"},
          "config": {"type": "object"},
          "state": {"type": "object"}
        }
      }
    },
    "annotations": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["id", "type"],
        "properties": {
          "id": {"type": "string"},
          "type": {"type": "string", "enum": ["pencil", "arrow", "highlight", "text"]},
          "points": {"type": "array", "items": {"type": "number"}},
          "rect": {"type": "object"},
          "text": {"type": "string"},
          "position": {"type": "object"},
          "color": {"type": "string"},
          "strokeWidth": {"type": "number"}
        }
      }
    },
    "viewport": {"type": "object"},
    "zoom": {"type": "number"},
    "pan": {"type": "object"},
    "version": {"type": "number"},
    "lastModified": {"type": "number"}
  }
}`

var compiledSnapshotSchema = gojsonschema.NewStringLoader(snapshotSchema)

// validateSnapshot checks serialized snapshot bytes against the contract.
func validateSnapshot(data []byte) error {
	res, err := gojsonschema.Validate(compiledSnapshotSchema, gojsonschema.NewBytesLoader(data))
	if err != nil {
		return fmt.Errorf("snapshot validation: %w", err)
	}
	if res.Valid() {
		return nil
	}
	msgs := make([]string, 0, len(res.Errors()))
	for _, e := range res.Errors() {
		msgs = append(msgs, e.String())
	}
	return errors.New(strings.Join(msgs, "; "))
}
