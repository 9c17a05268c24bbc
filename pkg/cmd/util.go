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
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/consensys/go-pilcom/pkg/backend/config"
	"github.com/consensys/go-pilcom/pkg/ir"
	"github.com/consensys/go-pilcom/pkg/irfile"
	"github.com/consensys/go-pilcom/pkg/sexp"
	"github.com/spf13/cobra"
)

// GetFlag gets an expected flag, or panic if an error arises.
func GetFlag(cmd *cobra.Command, flag string) bool {
	r, err := cmd.Flags().GetBool(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	return r
}

// GetUint gets an expected unsigned integer, or panic if an error arises.
func GetUint(cmd *cobra.Command, flag string) uint {
	r, err := cmd.Flags().GetUint(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	return r
}

// GetString gets an expected string, or panic if an error arises.
func GetString(cmd *cobra.Command, flag string) string {
	r, err := cmd.Flags().GetString(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	return r
}

// Determine the configuration for compilation.  This starts from the defaults,
// or from a configuration file when one is given, and then applies any flags
// explicitly set on the command line.
func getConfig(cmd *cobra.Command) config.Config {
	var (
		cfg = config.Default()
		err error
	)
	//
	if filename := GetString(cmd, "config"); filename != "" {
		if cfg, err = config.Load(filename); err != nil {
			fmt.Println(err)
			os.Exit(2)
		}
	}
	//
	if cmd.Flags().Changed("max-degree") {
		cfg.MaxDegree = GetUint(cmd, "max-degree")
	}
	//
	if cmd.Flags().Changed("permutation-protocol") {
		cfg.PermutationProtocol = GetString(cmd, "permutation-protocol")
	}
	//
	if cmd.Flags().Changed("transcript-hash") {
		cfg.TranscriptHash = GetString(cmd, "transcript-hash")
	}
	//
	if err := cfg.Validate(); err != nil {
		fmt.Println(err)
		os.Exit(2)
	}
	//
	return cfg
}

// Register the flags which determine the configuration of a command.
//
//nolint:errcheck
func addConfigFlags(cmd *cobra.Command) {
	cmd.Flags().String("config", "", "read configuration from a YAML file.")
	cmd.Flags().Uint("max-degree", 5, "maximum degree of any identity.")
	cmd.Flags().String("permutation-protocol", config.GRAND_PRODUCT,
		"protocol for permutation arguments (grandproduct or logderivative).")
	cmd.Flags().String("transcript-hash", config.SHA256, "transcript hash (sha256, keccak256 or blake2b).")
}

// Read the VMs declared in one or more IR files, whose format is determined by
// their extension.  Any error is reported, and terminates the program.
func readIRFiles(filenames []string) []*ir.VM {
	var vms []*ir.VM
	//
	if len(filenames) == 0 {
		fmt.Println("no IR files given")
		os.Exit(1)
	}
	//
	for _, filename := range filenames {
		file, err := irfile.Read(filename)
		if err != nil {
			fmt.Println(err)
			os.Exit(2)
		}
		//
		fileVMs, err := file.Translate()
		if err != nil {
			reportError(filename, err)
			os.Exit(2)
		}
		//
		vms = append(vms, fileVMs...)
	}
	//
	return vms
}

// Report an error, highlighting the offending text of syntax errors.
func reportError(filename string, err error) {
	var syntaxErr *sexp.SyntaxError
	//
	if errors.As(err, &syntaxErr) {
		span := syntaxErr.Span()
		printSyntaxError(filename, err.Error(), span.Start(), span.End(), syntaxErr.Text())
	} else {
		fmt.Println(err)
	}
}

// Print a syntax error with appropriate highlighting.
func printSyntaxError(filename string, msg string, start int, end int, text string) {
	line, offset, num := findEnclosingLine(start, text)
	// Print error + line number
	fmt.Printf("%s:%d: %s\n", filename, num, msg)
	// Print line
	fmt.Println(line)
	// Print indent (todo: account for tabs)
	fmt.Print(strings.Repeat(" ", max(start-offset, 0)))
	// Print highlight
	fmt.Println(strings.Repeat("^", max(end-start, 1)))
}

// Determine the enclosing line for the given index in a string.
func findEnclosingLine(index int, text string) (string, int, int) {
	num := 1
	start := 0
	// Handle case where we've reached the end-of-file unexpectedly.  This
	// essentially means the error is reported at the end of the last physical
	// line.
	if index >= len(text) {
		index = len(text) - 1
	}
	// Find the line.
	for i := 0; i < len(text); i++ {
		if i == index {
			end := findEndOfLine(index, text)
			return text[start:end], start, num
		} else if text[i] == '\n' {
			num++
			start = i + 1
		}
	}
	// Empty text
	return "", 0, num
}

// Find the end of the enclosing line
func findEndOfLine(index int, text string) int {
	for i := index; i < len(text); i++ {
		if text[i] == '\n' {
			return i
		}
	}
	// No end in sight!
	return len(text)
}
