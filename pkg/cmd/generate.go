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

	"github.com/consensys/go-pilcom/pkg/backend"
	"github.com/consensys/go-pilcom/pkg/emit"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var generateCmd = &cobra.Command{
	Use:   "generate [flags] ir_file(s)",
	Short: "generate the proving system components of one or more VMs.",
	Long: `Generate the proving system components (flavor, relations, arguments,
	circuit builder, prover and verifier) for every VM declared in the given IR
	file(s).  Each VM is written into its own package beneath the output directory.`,
	Run: func(cmd *cobra.Command, args []string) {
		var (
			cfg      = getConfig(cmd)
			output   = GetString(cmd, "output")
			manifest *emit.Manifest
			err      error
			failed   bool
		)
		// Parse IR
		vms := readIRFiles(args)
		// Open manifest (if applicable)
		if filename := GetString(cmd, "manifest"); filename != "" {
			if manifest, err = emit.OpenManifest(filename); err != nil {
				fmt.Println(err)
				os.Exit(2)
			}
		}
		//
		writer := emit.NewFileWriter(output, manifest)
		bundles, errs := backend.CompileAll(vms, cfg)
		// Write whatever compiled successfully
		for i, bundle := range bundles {
			if errs[i] != nil {
				fmt.Println(errs[i])
				//
				failed = true
				//
				continue
			}
			//
			stats, err := writer.Write(bundle)
			if err != nil {
				fmt.Println(err)
				os.Exit(2)
			}
			//
			log.Infof("vm \"%s\": wrote %d artifact(s), %d unchanged, %d removed", vms[i].Name(), stats.Written,
				stats.Skipped, stats.Removed)
		}
		//
		if manifest != nil {
			manifest.Close()
		}
		//
		if failed {
			os.Exit(1)
		}
	},
}

//nolint:errcheck
func init() {
	rootCmd.AddCommand(generateCmd)
	addConfigFlags(generateCmd)
	generateCmd.Flags().StringP("output", "o", ".", "specify output directory.")
	generateCmd.Flags().String("manifest", "", "record written artifacts in a manifest database, skipping unchanged ones.")
}
