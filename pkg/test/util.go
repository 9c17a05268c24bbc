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
package test

import (
	"errors"
	"fmt"
	"go/parser"
	"go/token"
	"path/filepath"
	"testing"

	"github.com/consensys/go-pilcom/pkg/backend"
	"github.com/consensys/go-pilcom/pkg/backend/artifact"
	"github.com/consensys/go-pilcom/pkg/backend/config"
	"github.com/consensys/go-pilcom/pkg/ir"
	"github.com/consensys/go-pilcom/pkg/irfile"
	"github.com/consensys/go-pilcom/pkg/transcript"
)

// TestDir determines the (relative) location of the test directory.  That is
// where the IR files are found.
const TestDir = "../../testdata"

// MAX_ROUNDS determines the maximum number of sumcheck rounds for which
// transcripts are replayed.
const MAX_ROUNDS = 4

// CONFIGS identifies the configurations under which every valid test is
// compiled.
var CONFIGS []config.Config = []config.Config{
	config.Default(),
	withProtocol(config.LOG_DERIVATIVE, config.KECCAK256),
	withThreshold(1, config.BLAKE2B),
}

// Check that every VM of a given IR file compiles under every configuration,
// that the generated artifacts are well formed, deterministic and that their
// transcripts agree.
func Check(t *testing.T, test string) {
	// Enable testing each file in parallel
	t.Parallel()
	//
	vms := readVMs(t, test)
	//
	for _, cfg := range CONFIGS {
		for _, vm := range vms {
			checkVM(t, vm, cfg)
		}
	}
}

// CheckInvalid checks that a given IR file is rejected, either when it is read
// or when it is compiled, with an error of the given kind.  A nil kind means
// the error arises from reading the file.
func CheckInvalid(t *testing.T, test string, kind error) {
	var filename = filepath.Join(TestDir, "invalid", test)
	// Enable testing each file in parallel
	t.Parallel()
	//
	err := compileFile(filename)
	//
	if err == nil {
		t.Fatalf("%s should not have compiled", filename)
	} else if kind != nil && !errors.Is(err, kind) {
		t.Fatalf("%s: expected %s error, got \"%s\"", filename, kind, err)
	}
}

func compileFile(filename string) error {
	file, err := irfile.Read(filename)
	if err != nil {
		return err
	}
	//
	vms, err := file.Translate()
	if err != nil {
		return err
	}
	//
	for _, vm := range vms {
		if _, err := backend.Compile(vm, config.Default()); err != nil {
			return err
		}
	}
	//
	return nil
}

func checkVM(t *testing.T, vm *ir.VM, cfg config.Config) {
	id := fmt.Sprintf("%s [%s]", vm.Name(), cfg)
	//
	bundle, err := backend.Compile(vm, cfg)
	if err != nil {
		t.Errorf("%s: %s", id, err)
		return
	}
	// Every artifact must parse
	for _, a := range bundle.Artifacts {
		if _, err := parser.ParseFile(token.NewFileSet(), a.Name, a.Content, 0); err != nil {
			t.Errorf("%s: %s", id, err)
		}
	}
	// Generation is deterministic
	if again, err := backend.Compile(vm, cfg); err != nil {
		t.Errorf("%s: %s", id, err)
	} else {
		checkIdentical(t, id, bundle, again)
	}
	// Prover and verifier agree
	prover, _ := bundle.Artifact(artifact.PROVER)
	verifier, _ := bundle.Artifact(artifact.VERIFIER)
	//
	for logN := 1; logN <= MAX_ROUNDS; logN++ {
		err := transcript.CheckParity(transcript.Prover(prover.Content), transcript.Verifier(verifier.Content),
			cfg.TranscriptHash, logN)
		if err != nil {
			t.Errorf("%s: %s", id, err)
		}
	}
}

func checkIdentical(t *testing.T, id string, expected *backend.Bundle, actual *backend.Bundle) {
	if expected.ID() != actual.ID() {
		t.Errorf("%s: bundle identifiers differ (%s vs %s)", id, expected.ID(), actual.ID())
	} else if len(expected.Artifacts) != len(actual.Artifacts) {
		t.Errorf("%s: artifact counts differ (%d vs %d)", id, len(expected.Artifacts), len(actual.Artifacts))
		return
	}
	//
	for i, a := range expected.Artifacts {
		if a.Digest() != actual.Artifacts[i].Digest() {
			t.Errorf("%s: artifact %s differs", id, a.Name)
		}
	}
}

// Read all VMs from a test file.
func readVMs(t *testing.T, test string) []*ir.VM {
	file, err := irfile.Read(filepath.Join(TestDir, test))
	if err != nil {
		t.Fatal(err)
	}
	//
	vms, err := file.Translate()
	if err != nil {
		t.Fatal(err)
	}
	//
	return vms
}

func withProtocol(protocol string, hash string) config.Config {
	cfg := config.Default()
	cfg.PermutationProtocol = protocol
	cfg.TranscriptHash = hash
	//
	return cfg
}

func withThreshold(threshold uint, hash string) config.Config {
	cfg := config.Default()
	cfg.CopyBatchThreshold = threshold
	cfg.TranscriptHash = hash
	//
	return cfg
}
