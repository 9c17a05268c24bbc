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
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/consensys/go-pilcom/pkg/cmd"
	"github.com/consensys/go-pilcom/pkg/irfile"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func main() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

//nolint:errcheck
func init() {
	rootCmd.Flags().Uint("min-size", 1, "Minimum size of generated VMs")
	rootCmd.Flags().Uint("max-size", 4, "Maximum size of generated VMs")
	rootCmd.Flags().String("format", "yaml", "Format of generated IR files")
	rootCmd.Flags().StringP("output", "o", "testdata", "Output directory")
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "testgen [flags] model(s)",
	Short: "Test generation utility for pilcom.",
	Long: `Generate IR files containing families of VMs of increasing size, for a
	given set of models.`,
	Run: func(c *cobra.Command, args []string) {
		if len(args) == 0 {
			fmt.Println(c.UsageString())
			os.Exit(1)
		}
		//
		var cfg TestGenConfig
		//
		cfg.minSize = cmd.GetUint(c, "min-size")
		cfg.maxSize = cmd.GetUint(c, "max-size")
		cfg.format = cmd.GetString(c, "format")
		cfg.output = cmd.GetString(c, "output")
		//
		for _, name := range args {
			model := findModel(name)
			file := generateModel(cfg, model)
			//
			if err := writeModel(cfg, model, file); err != nil {
				fmt.Println(err)
				os.Exit(2)
			}
		}
	},
}

// TestGenConfig encapsulates configuration related to test generation.
type TestGenConfig struct {
	minSize uint
	maxSize uint
	format  string
	output  string
}

// Model represents a family of VMs, parameterised by their size.
type Model struct {
	// Name of the model in question
	Name string
	// Generator for a VM of a given size.
	Generator func(uint) irfile.VM
}

var models []Model = []Model{
	{"bit_decomposition", bitDecompositionModel},
	{"byte_decomposition", byteDecompositionModel},
	{"memory", memoryModel},
	{"counter", counterModel},
}

func findModel(name string) Model {
	for _, m := range models {
		if m.Name == name {
			return m
		}
	}
	//
	panic(fmt.Sprintf("unknown model \"%s\"", name))
}

func generateModel(cfg TestGenConfig, model Model) *irfile.File {
	var file = irfile.File{Version: irfile.VERSION}
	//
	for n := cfg.minSize; n <= cfg.maxSize; n++ {
		vm := model.Generator(n)
		vm.Name = fmt.Sprintf("%s_%d", model.Name, n)
		file.VMs = append(file.VMs, vm)
	}
	//
	return &file
}

func writeModel(cfg TestGenConfig, model Model, file *irfile.File) error {
	format, err := irfile.ParseFormat(cfg.format)
	if err != nil {
		return err
	}
	// Construct filename
	filename := filepath.Join(cfg.output, fmt.Sprintf("%s.auto.%s", model.Name, format))
	// Check every VM translates
	if _, err := file.Translate(); err != nil {
		return err
	} else if err := irfile.Write(filename, file); err != nil {
		return err
	}
	// Log what happened
	log.Infof("Wrote %s (%d vms)\n", filename, len(file.VMs))
	//
	return nil
}

// ============================================================================
// Models
// ============================================================================

// A value decomposed into n bits.
func bitDecompositionModel(n uint) irfile.VM {
	var (
		vm    = irfile.VM{Columns: []irfile.Column{{Name: "value", Kind: "witness"}}}
		terms []string
		bits  irfile.Relation
	)
	//
	bits.Name = "bits"
	//
	for i := uint(0); i < n; i++ {
		bit := fmt.Sprintf("bit_%d", i)
		vm.Columns = append(vm.Columns, irfile.Column{Name: bit, Kind: "witness"})
		bits.Identities = append(bits.Identities, irfile.Identity{Expr: fmt.Sprintf("(* %s (- %s 1))", bit, bit)})
		terms = append(terms, fmt.Sprintf("(* %d %s)", uint64(1)<<i, bit))
	}
	//
	recompose := irfile.Relation{Name: "recompose", Identities: []irfile.Identity{
		{Expr: fmt.Sprintf("(- value (+ %s))", strings.Join(terms, " "))},
	}}
	//
	vm.Relations = []irfile.Relation{bits, recompose}
	//
	return vm
}

// A value decomposed into n bytes, each checked against a byte table.
func byteDecompositionModel(n uint) irfile.VM {
	var (
		vm = irfile.VM{Columns: []irfile.Column{
			{Name: "value", Kind: "witness"},
			{Name: "bytes", Kind: "fixed"},
		}}
		terms []string
	)
	//
	for i := uint(0); i < n; i++ {
		b := fmt.Sprintf("byte_%d", i)
		vm.Columns = append(vm.Columns, irfile.Column{Name: b, Kind: "witness"})
		vm.Lookups = append(vm.Lookups, irfile.Lookup{Name: b, Inputs: []string{b}, Table: []string{"bytes"}})
		terms = append(terms, fmt.Sprintf("(* %d %s)", uint64(1)<<(8*i), b))
	}
	//
	vm.Relations = []irfile.Relation{{Name: "recompose", Identities: []irfile.Identity{
		{Expr: fmt.Sprintf("(- value (+ %s))", strings.Join(terms, " "))},
	}}}
	//
	return vm
}

// A memory of n value columns, whose accesses are sorted by address.
func memoryModel(n uint) irfile.VM {
	var (
		vm       = irfile.VM{}
		unsorted = []string{"addr"}
		sorted   = []string{"sorted_addr"}
	)
	//
	vm.Columns = append(vm.Columns, irfile.Column{Name: "addr", Kind: "witness"},
		irfile.Column{Name: "sorted_addr", Kind: "witness"}, irfile.Column{Name: "first", Kind: "fixed"})
	//
	for i := uint(0); i < n; i++ {
		val := fmt.Sprintf("val_%d", i)
		unsorted = append(unsorted, val)
		sorted = append(sorted, "sorted_"+val)
		vm.Columns = append(vm.Columns, irfile.Column{Name: val, Kind: "witness"},
			irfile.Column{Name: "sorted_" + val, Kind: "witness"})
	}
	//
	vm.Permutations = []irfile.Permutation{{Name: "sort", Sides: []irfile.Side{
		{Columns: unsorted},
		{Columns: sorted},
	}}}
	// Addresses never decrease by more than one.
	vm.Relations = []irfile.Relation{{Name: "order", Identities: []irfile.Identity{
		{Expr: "(* (- sorted_addr' sorted_addr) (- sorted_addr' sorted_addr 1))", Selector: "(- 1 first)"},
	}}}
	//
	return vm
}

// n counters which increment on every row, and are copied into each other.
func counterModel(n uint) irfile.VM {
	var (
		vm      = irfile.VM{Columns: []irfile.Column{{Name: "first", Kind: "fixed"}}}
		counter = irfile.Relation{Name: "counter"}
	)
	//
	for i := uint(0); i < n; i++ {
		c := fmt.Sprintf("counter_%d", i)
		vm.Columns = append(vm.Columns, irfile.Column{Name: c, Kind: "witness"})
		counter.Identities = append(counter.Identities,
			irfile.Identity{Expr: fmt.Sprintf("(- %s' %s 1)", c, c), Selector: "(- 1 first)"})
		//
		if i > 0 {
			vm.Copies = append(vm.Copies, irfile.Copy{
				Left:  irfile.Cell{Column: fmt.Sprintf("counter_%d", i-1)},
				Right: irfile.Cell{Column: c},
			})
		}
	}
	//
	vm.Relations = []irfile.Relation{counter}
	//
	return vm
}
