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
	"github.com/consensys/go-pilcom/pkg/backend/artifact"
	"github.com/consensys/go-pilcom/pkg/backend/config"
	"github.com/consensys/go-pilcom/pkg/transcript"
	"github.com/consensys/go-pilcom/pkg/util"
	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check [flags] ir_file(s)",
	Short: "check one or more VMs compile, without writing anything.",
	Long: `Check that every VM declared in the given IR file(s) compiles.  With
	--parity, the transcripts of the generated prover and verifier are also
	replayed to check they derive identical challenges.`,
	Run: func(cmd *cobra.Command, args []string) {
		var (
			cfg    = getConfig(cmd)
			parity = GetFlag(cmd, "parity")
			rounds = GetUint(cmd, "rounds")
			failed bool
		)
		// Parse IR
		vms := readIRFiles(args)
		stats := util.NewPerfStats()
		bundles, errs := backend.CompileAll(vms, cfg)
		//
		for i, bundle := range bundles {
			if errs[i] == nil && parity {
				errs[i] = checkParity(bundle, cfg, int(rounds))
			}
			//
			if errs[i] != nil {
				fmt.Println(errs[i])
				//
				failed = true
			} else {
				fmt.Printf("vm \"%s\": ok (%d artifacts)\n", vms[i].Name(), len(bundle.Artifacts))
			}
		}
		//
		stats.Log("Checking")
		//
		if failed {
			os.Exit(1)
		}
	},
}

// Check the prover and verifier of a bundle derive identical challenges, for
// every number of sumcheck rounds up to a given bound.
func checkParity(bundle *backend.Bundle, cfg config.Config, rounds int) error {
	prover, _ := bundle.Artifact(artifact.PROVER)
	verifier, _ := bundle.Artifact(artifact.VERIFIER)
	//
	for logN := 1; logN <= rounds; logN++ {
		err := transcript.CheckParity(transcript.Prover(prover.Content), transcript.Verifier(verifier.Content),
			cfg.TranscriptHash, logN)
		//
		if err != nil {
			return fmt.Errorf("vm \"%s\": %w", bundle.Flavor.VM, err)
		}
	}
	//
	return nil
}

//nolint:errcheck
func init() {
	rootCmd.AddCommand(checkCmd)
	addConfigFlags(checkCmd)
	checkCmd.Flags().Bool("parity", false, "replay prover and verifier transcripts.")
	checkCmd.Flags().Uint("rounds", 4, "maximum number of sumcheck rounds replayed.")
}
