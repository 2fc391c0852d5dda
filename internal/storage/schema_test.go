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
	"encoding/json"
	"errors"
	"os"
	"testing"

	gojsonschema "github.com/xeipuuv/gojsonschema"

	"goscreenwriter/internal/domain"
)

func TestManifestConformsToSchema(t *testing.T) {
	root := t.TempDir()
	ph, err := InitProject(root, sampleScreenplay())
	if err != nil {
		t.Fatalf("InitProject: %v", err)
	}
	data, err := os.ReadFile(ph.ManifestPath)
	if err != nil {
		t.Fatalf("read manifest: %v", err)
	}
	schemaLoader := gojsonschema.NewBytesLoader(ManifestSchema())
	docLoader := gojsonschema.NewBytesLoader(data)
	res, err := gojsonschema.Validate(schemaLoader, docLoader)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if !res.Valid() {
		for _, e := range res.Errors() {
			t.Errorf("schema error: %s", e)
		}
		t.FailNow()
	}
}

func TestValidateManifestRejects(t *testing.T) {
	cases := map[string]string{
		"unknown type":   `{"header":{},"blocks":[{"id":"a","type":"montage","content":""}]}`,
		"empty id":       `{"header":{},"blocks":[{"id":"","type":"action","content":""}]}`,
		"missing header": `{"blocks":[]}`,
		"extra field":    `{"header":{"genre":"noir"},"blocks":[]}`,
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			err := ValidateManifest([]byte(doc))
			if !errors.Is(err, ErrInvalidManifest) {
				t.Fatalf("expected ErrInvalidManifest, got %v", err)
			}
		})
	}
}

func TestValidateManifestAcceptsMarshalledScreenplay(t *testing.T) {
	b, err := json.Marshal(domain.Screenplay{Blocks: []domain.Block{{ID: "x", Type: domain.Shot, Content: "ANGLE ON"}}})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if err := ValidateManifest(b); err != nil {
		t.Fatalf("ValidateManifest: %v", err)
	}
	// Malformed JSON is a load error, not a schema violation.
	if err := ValidateManifest([]byte("{")); err == nil || errors.Is(err, ErrInvalidManifest) {
		t.Fatalf("expected a decode error, got %v", err)
	}
}
