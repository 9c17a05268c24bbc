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
package cmd

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/consensys/go-pilcom/pkg/backend"
	"github.com/consensys/go-pilcom/pkg/backend/flavor"
	"github.com/consensys/go-pilcom/pkg/util"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// Width assumed when output is not a terminal.
const defaultWidth = 120

var inspectCmd = &cobra.Command{
	Use:   "inspect [flags] ir_file(s)",
	Short: "inspect the flavor of one or more VMs.",
	Long: `Inspect the flavor of every VM declared in the given IR file(s), listing
	its full column enumeration and its relations.`,
	Run: func(cmd *cobra.Command, args []string) {
		var (
			cfg    = getConfig(cmd)
			width  = terminalWidth()
			failed bool
		)
		//
		for _, vm := range readIRFiles(args) {
			bundle, err := backend.Compile(vm, cfg)
			if err != nil {
				fmt.Println(err)
				//
				failed = true
				//
				continue
			}
			//
			printFlavor(os.Stdout, bundle.Flavor, width)
		}
		//
		if failed {
			os.Exit(1)
		}
	},
}

// Determine the width available for printing tables.
func terminalWidth() uint {
	fd := int(os.Stdout.Fd())
	//
	if term.IsTerminal(fd) {
		if width, _, err := term.GetSize(fd); err == nil && width > 0 {
			return uint(width)
		}
	}
	//
	return defaultWidth
}

// Print the columns and relations of a flavor as tables which fit within a given
// width.
func printFlavor(w io.Writer, f *flavor.Flavor, width uint) {
	fmt.Fprintf(w, "vm \"%s\" (package %s, bundle %s)\n", f.VM, f.Package, f.BundleID)
	fmt.Fprintf(w, "%d columns, %d relations, %d lookups, %d permutations\n\n", len(f.Columns), len(f.Relations),
		f.NumLookups, f.NumPermutations)
	// Columns
	columns := util.NewTablePrinter(5, uint(len(f.Columns)+1))
	columns.SetRow(0, "#", "column", "role", "field", "shifted")
	//
	for i, c := range f.Columns {
		columns.SetRow(uint(i+1), strconv.Itoa(i), c.Name, c.Role.String(), c.Field, strconv.FormatBool(c.Shifted))
	}
	//
	columns.SetMaxWidth(maxCellWidth(width, 5))
	columns.Fprint(w)
	fmt.Fprintln(w)
	// Relations
	relations := util.NewTablePrinter(4, uint(len(f.Relations)+1))
	relations.SetRow(0, "#", "relation", "subrelations", "degree")
	//
	for i, r := range f.Relations {
		relations.SetRow(uint(i+1), strconv.Itoa(i), r.Name, strconv.Itoa(len(r.Subrelations)),
			strconv.FormatUint(uint64(r.MaxDegree()), 10))
	}
	//
	relations.SetMaxWidth(maxCellWidth(width, 4))
	relations.Fprint(w)
	fmt.Fprintln(w)
}

// Determine the maximum width of any cell, such that a table with a given
// number of columns fits in a given width.  Each cell is padded by three
// characters.
func maxCellWidth(width uint, ncols uint) uint {
	if width <= 4*ncols {
		return 1
	}
	//
	return (width / ncols) - 3
}

//nolint:errcheck
func init() {
	rootCmd.AddCommand(inspectCmd)
	addConfigFlags(inspectCmd)
}
