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
// Package emit writes generated bundles to disk.
package emit

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/consensys/bavard"
	"github.com/consensys/go-pilcom/pkg/backend"
	"github.com/consensys/go-pilcom/pkg/backend/artifact"
	log "github.com/sirupsen/logrus"
)

const (
	// COPYRIGHT_HOLDER is named in the license header of every written file.
	COPYRIGHT_HOLDER = "Consensys Software Inc."
	// COPYRIGHT_YEAR is fixed, such that output is reproducible.
	COPYRIGHT_YEAR = 2025
	// GENERATOR is named in the "Code generated" banner.
	GENERATOR = "pilcom"
)

// Artifacts are inserted verbatim into a single template, since their content
// may itself contain template delimiters.
const template = "{{ .Content }}"

// Stats summarises the effect of writing one or more bundles.
type Stats struct {
	Written int
	Skipped int
	Removed int
}

// FileWriter writes the artifacts of a bundle into a directory named after its
// package, beneath a given output directory.  When given a manifest, artifacts
// whose digest is unchanged and whose file still exists are skipped.  Artifacts
// left over from an earlier bundle of the same package are removed; files not
// named like an artifact are never touched.
type FileWriter struct {
	dir      string
	manifest *Manifest
}

// NewFileWriter constructs a writer for a given output directory.  The manifest
// is optional.
func NewFileWriter(dir string, manifest *Manifest) *FileWriter {
	return &FileWriter{dir, manifest}
}

// Path returns the file to which an artifact is written.
func (p *FileWriter) Path(a artifact.Artifact) string {
	return filepath.Join(p.dir, a.Package, a.Name)
}

// Write every artifact of a bundle.
func (p *FileWriter) Write(bundle *backend.Bundle) (Stats, error) {
	var stats Stats
	//
	for _, a := range bundle.Artifacts {
		written, err := p.write(bundle, a)
		if err != nil {
			return stats, fmt.Errorf("writing %s: %w", p.Path(a), err)
		} else if written {
			stats.Written++
		} else {
			stats.Skipped++
		}
	}
	//
	removed, err := p.removeStale(bundle)
	stats.Removed = removed
	//
	return stats, err
}

func (p *FileWriter) removeStale(bundle *backend.Bundle) (int, error) {
	var removed int
	//
	for _, name := range artifact.Names() {
		if _, ok := bundle.Artifact(name); ok {
			continue
		}
		//
		path := p.Path(artifact.Artifact{Name: name, Package: bundle.Flavor.Package})
		//
		if err := os.Remove(path); err == nil {
			log.Debugf("removed stale %s", path)
			removed++
		} else if !errors.Is(err, os.ErrNotExist) {
			return removed, fmt.Errorf("removing %s: %w", path, err)
		}
		//
		if p.manifest != nil {
			if err := p.manifest.Forget(bundle.Flavor.VM, name); err != nil {
				return removed, err
			}
		}
	}
	//
	return removed, nil
}

func (p *FileWriter) write(bundle *backend.Bundle, a artifact.Artifact) (bool, error) {
	var (
		path   = p.Path(a)
		digest = a.Digest()
		vm     = bundle.Flavor.VM
	)
	//
	if p.manifest != nil {
		if unchanged, err := p.unchanged(vm, a.Name, digest, path); err != nil {
			return false, err
		} else if unchanged {
			log.Debugf("skipping %s (unchanged)", path)
			return false, nil
		}
	}
	//
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return false, err
	}
	//
	data := struct{ Content string }{string(a.Content)}
	//
	if err := bavard.GenerateFromString(path, []string{template}, data,
		bavard.Apache2(COPYRIGHT_HOLDER, COPYRIGHT_YEAR),
		bavard.GeneratedBy(GENERATOR),
		bavard.Import(false)); err != nil {
		return false, err
	}
	//
	log.Debugf("wrote %s (%d bytes)", path, len(a.Content))
	//
	if p.manifest != nil {
		return true, p.manifest.Record(Record{vm, a.Name, digest, bundle.ID()})
	}
	//
	return true, nil
}

func (p *FileWriter) unchanged(vm string, name string, digest string, path string) (bool, error) {
	recorded, ok, err := p.manifest.Digest(vm, name)
	if err != nil || !ok || recorded != digest {
		return false, err
	}
	//
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return false, nil
	} else if err != nil {
		return false, err
	}
	//
	return true, nil
}
