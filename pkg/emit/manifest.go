// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0
package emit

import (
	"database/sql"
	_ "embed"
	"errors"
	"fmt"

	// Registers the sqlite3 driver.
	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

// Record is a row of the artifact manifest.
type Record struct {
	VM     string
	Name   string
	Digest string
	Bundle string
}

// Manifest records the digest of every artifact written, such that unchanged
// artifacts need not be written again.
type Manifest struct {
	db *sql.DB
}

// OpenManifest creates or opens a manifest database at the given path.
func OpenManifest(path string) (*Manifest, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("opening manifest %s: %w", path, err)
	}
	// Single writer
	db.SetMaxOpenConns(1)
	//
	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("initialising manifest %s: %w", path, err)
	}
	//
	return &Manifest{db}, nil
}

// Digest returns the digest last recorded for an artifact of a given VM, or
// false if none was recorded.
func (p *Manifest) Digest(vm string, name string) (string, bool, error) {
	var digest string
	//
	err := p.db.QueryRow("SELECT digest FROM artifacts WHERE vm = ? AND name = ?", vm, name).Scan(&digest)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	} else if err != nil {
		return "", false, err
	}
	//
	return digest, true, nil
}

// Record the digest of an artifact, replacing any previous record.
func (p *Manifest) Record(r Record) error {
	_, err := p.db.Exec(`INSERT INTO artifacts (vm, name, digest, bundle) VALUES (?, ?, ?, ?)
		ON CONFLICT (vm, name) DO UPDATE SET digest = excluded.digest, bundle = excluded.bundle`,
		r.VM, r.Name, r.Digest, r.Bundle)
	//
	return err
}

// Forget the record of an artifact, if any.
func (p *Manifest) Forget(vm string, name string) error {
	_, err := p.db.Exec("DELETE FROM artifacts WHERE vm = ? AND name = ?", vm, name)
	//
	return err
}

// Records returns every record, ordered by VM and then artifact name.
func (p *Manifest) Records() ([]Record, error) {
	rows, err := p.db.Query("SELECT vm, name, digest, bundle FROM artifacts ORDER BY vm, name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	//
	var records []Record
	//
	for rows.Next() {
		var r Record
		if err := rows.Scan(&r.VM, &r.Name, &r.Digest, &r.Bundle); err != nil {
			return nil, err
		}
		//
		records = append(records, r)
	}
	//
	return records, rows.Err()
}

// Close the underlying database.
func (p *Manifest) Close() error {
	return p.db.Close()
}
