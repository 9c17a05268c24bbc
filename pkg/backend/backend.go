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
package backend

import (
	"fmt"
	"runtime"

	"github.com/consensys/go-pilcom/pkg/backend/artifact"
	"github.com/consensys/go-pilcom/pkg/backend/circuit"
	"github.com/consensys/go-pilcom/pkg/backend/composer"
	"github.com/consensys/go-pilcom/pkg/backend/config"
	"github.com/consensys/go-pilcom/pkg/backend/copies"
	"github.com/consensys/go-pilcom/pkg/backend/flavor"
	"github.com/consensys/go-pilcom/pkg/backend/lookup"
	"github.com/consensys/go-pilcom/pkg/backend/permutation"
	"github.com/consensys/go-pilcom/pkg/backend/protocol"
	"github.com/consensys/go-pilcom/pkg/backend/prover"
	"github.com/consensys/go-pilcom/pkg/backend/relation"
	"github.com/consensys/go-pilcom/pkg/backend/verifier"
	"github.com/consensys/go-pilcom/pkg/ir"
	"github.com/consensys/go-pilcom/pkg/util"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// Bundle is the complete set of artifacts generated for a single VM.
type Bundle struct {
	// Flavor from which the artifacts were generated.
	Flavor *flavor.Flavor
	// Schedule of transcript operations followed by prover and verifier.
	Schedule protocol.Schedule
	// Artifacts generated, in a fixed order.  Artifacts for constructs the VM
	// does not use are omitted.
	Artifacts []artifact.Artifact
}

// ID returns the identifier of this bundle.
func (p *Bundle) ID() string {
	return p.Flavor.BundleID
}

// Artifact returns the artifact with the given name, if it was generated.
func (p *Bundle) Artifact(name string) (artifact.Artifact, bool) {
	for _, a := range p.Artifacts {
		if a.Name == name {
			return a, true
		}
	}
	//
	return artifact.Artifact{}, false
}

// Compile runs every builder over a VM, in dependency order, producing its
// bundle.  The first violation encountered aborts compilation, and is
// returned as an *ir.Error where it concerns the IR.
func Compile(vm *ir.VM, cfg config.Config) (*Bundle, error) {
	var stats = util.NewPerfStats()
	//
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	//
	warnUnused(vm)
	warnUnitMultiplicity(vm)
	//
	relations, err := relation.Build(vm, cfg)
	if err != nil {
		return nil, err
	}
	//
	log.Debugf("relation builder: %d relations, %d subrelations", len(relations.Relations),
		relations.SubrelationCount())
	//
	lookups, err := lookup.Build(vm, cfg)
	if err != nil {
		return nil, err
	}
	//
	log.Debugf("lookup builder: %d lookups, %d helpers", len(lookups.Relations), len(lookups.Helpers))
	//
	cps, err := copies.Build(vm, cfg)
	if err != nil {
		return nil, err
	}
	//
	log.Debugf("copy builder: %d copies (%s)", len(vm.Copies()), cps.Strategy)
	//
	perms, err := permutation.Build(vm, cfg, cps.Folded)
	if err != nil {
		return nil, err
	}
	//
	log.Debugf("permutation builder: %d arguments, %d helpers", perms.Arguments, len(perms.Helpers))
	//
	comp, err := composer.Build(vm, cfg, lookups.Helpers, perms.Helpers)
	if err != nil {
		return nil, err
	}
	//
	log.Debugf("composer: %d columns (%d shifted)", comp.Counts.Total(), len(comp.Shifted))
	//
	f, flavorArtifact, err := flavor.Build(vm, cfg, flavor.Inputs{
		Relations:    relations,
		Lookups:      lookups,
		Copies:       cps,
		Permutations: perms,
		Composer:     comp,
	})
	if err != nil {
		return nil, err
	}
	//
	log.Debugf("flavor builder: %d relations, %d subrelations, max partial length %d", len(f.Relations),
		f.NumSubrelations(), f.MaxPartialLength())
	//
	bundle := &Bundle{Flavor: f, Schedule: protocol.NewSchedule(f)}
	//
	circuitArtifact, err := circuit.Build(f)
	if err != nil {
		return nil, err
	}
	//
	proverArtifact, err := prover.Build(f, bundle.Schedule)
	if err != nil {
		return nil, err
	}
	//
	verifierArtifact, err := verifier.Build(f, bundle.Schedule)
	if err != nil {
		return nil, err
	}
	//
	log.Debugf("protocol: %d transcript steps", len(bundle.Schedule.Steps))
	//
	for _, a := range []artifact.Artifact{flavorArtifact, relations.Artifact, lookups.Artifact, perms.Artifact,
		cps.Artifact, comp.Artifact, circuitArtifact, proverArtifact, verifierArtifact} {
		if !a.Empty() {
			bundle.Artifacts = append(bundle.Artifacts, a)
		}
	}
	//
	stats.Log(fmt.Sprintf("Compiling vm \"%s\"", vm.Name()))
	//
	return bundle, nil
}

// CompileAll compiles a batch of independent VMs in parallel.  Results are
// returned by VM index, such that the output is identical to compiling each
// VM in turn.  A VM which fails to compile has a nil bundle and a non-nil
// error, and does not affect any other VM.  A VM whose package coincides with
// that of an earlier VM fails with a naming collision, since both bundles
// would be written into the same directory.
func CompileAll(vms []*ir.VM, cfg config.Config) ([]*Bundle, []error) {
	var (
		bundles  = make([]*Bundle, len(vms))
		errs     = make([]error, len(vms))
		packages = make(map[string]string)
		group    errgroup.Group
	)
	//
	group.SetLimit(runtime.GOMAXPROCS(0))
	//
	for i, vm := range vms {
		pkg := util.PackageName(vm.Name())
		//
		if other, ok := packages[pkg]; ok {
			errs[i] = ir.Errorf(ir.NamingCollision, "", "package %s already generated for vm \"%s\"", pkg,
				other).At(vm.Name())
			//
			continue
		}
		//
		packages[pkg] = vm.Name()
		//
		i, vm := i, vm
		group.Go(func() error {
			bundles[i], errs[i] = Compile(vm, cfg)
			// Failures are reported per VM, hence never cancel the group.
			return nil
		})
	}
	//
	_ = group.Wait()
	//
	return bundles, errs
}

// Report declared columns which no identity or argument references.
func warnUnused(vm *ir.VM) {
	referenced := vm.ReferencedColumns()
	//
	for _, c := range vm.Columns() {
		if !referenced.Test(c.Index) {
			log.Warnf("column \"%s\" of vm \"%s\" is never referenced", c.Name, vm.Name())
		}
	}
}

// Report lookups without a counts column, whose table rows must each be read
// exactly once.
func warnUnitMultiplicity(vm *ir.VM) {
	for i, l := range vm.Lookups() {
		if !l.Counts.HasValue() {
			log.Warnf("%s of vm \"%s\" has no counts column, hence every active table row must be read exactly once",
				ir.LookupConstruct(i, l.Name), vm.Name())
		}
	}
}
