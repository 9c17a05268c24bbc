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
	"os"

	"github.com/consensys/go-pilcom/pkg/irfile"
	"github.com/spf13/cobra"
)

var convertCmd = &cobra.Command{
	Use:   "convert [flags] input_file output_file",
	Short: "convert an IR file between formats.",
	Long: `Convert an IR file between the JSON, YAML, CBOR and CUE formats, as
	determined by the extension of each file.  Every VM is checked, and written
	back in canonical form.`,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) != 2 {
			fmt.Println(cmd.UsageString())
			os.Exit(1)
		}
		//
		if err := convert(args[0], args[1]); err != nil {
			reportError(args[0], err)
			os.Exit(2)
		}
	},
}

// Convert an IR file, passing every VM through its internal representation.
func convert(input string, output string) error {
	file, err := irfile.Read(input)
	if err != nil {
		return err
	}
	//
	vms, err := file.Translate()
	if err != nil {
		return err
	}
	//
	converted := irfile.File{Version: irfile.VERSION, VMs: make([]irfile.VM, len(vms))}
	//
	for i, vm := range vms {
		converted.VMs[i] = irfile.FromVM(vm)
	}
	//
	return irfile.Write(output, &converted)
}

//nolint:errcheck
func init() {
	rootCmd.AddCommand(convertCmd)
}
