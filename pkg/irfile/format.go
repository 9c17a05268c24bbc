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
package irfile

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fxamacker/cbor/v2"
	"gopkg.in/yaml.v3"
)

// Format identifies an encoding of IR files.
type Format uint8

const (
	// JSON encoding.
	JSON Format = iota
	// YAML encoding.
	YAML
	// CBOR is a binary encoding.
	CBOR
	// CUE encoding, which is validated against a schema before decoding.
	CUE
)

func (f Format) String() string {
	switch f {
	case JSON:
		return "json"
	case YAML:
		return "yaml"
	case CBOR:
		return "cbor"
	case CUE:
		return "cue"
	}
	//
	return fmt.Sprintf("format(%d)", uint8(f))
}

// ParseFormat parses the name of a format, as returned by String.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(name) {
	case "json":
		return JSON, nil
	case "yaml", "yml":
		return YAML, nil
	case "cbor":
		return CBOR, nil
	case "cue":
		return CUE, nil
	}
	//
	return 0, fmt.Errorf("unknown IR format \"%s\"", name)
}

// FormatOf determines the format of a file from its extension.
func FormatOf(filename string) (Format, error) {
	ext := filepath.Ext(filename)
	if ext == "" {
		return 0, fmt.Errorf("cannot determine IR format of %s", filename)
	}
	//
	return ParseFormat(ext[1:])
}

// Read reads and decodes an IR file, whose format is determined from its
// extension.
func Read(filename string) (*File, error) {
	format, err := FormatOf(filename)
	if err != nil {
		return nil, err
	}
	//
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	//
	file, err := Decode(data, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	//
	return file, nil
}

// Write encodes an IR file, whose format is determined from its extension.
func Write(filename string, file *File) error {
	format, err := FormatOf(filename)
	if err != nil {
		return err
	}
	//
	data, err := Encode(file, format)
	if err != nil {
		return err
	}
	//
	return os.WriteFile(filename, data, 0644)
}

// Decode an IR file from bytes in a given format, checking its version.
func Decode(data []byte, format Format) (*File, error) {
	var (
		file File
		err  error
	)
	//
	switch format {
	case JSON:
		decoder := json.NewDecoder(bytes.NewReader(data))
		decoder.DisallowUnknownFields()
		err = decoder.Decode(&file)
	case YAML:
		decoder := yaml.NewDecoder(bytes.NewReader(data))
		decoder.KnownFields(true)
		err = decoder.Decode(&file)
	case CBOR:
		err = cbor.Unmarshal(data, &file)
	case CUE:
		err = decodeCue(data, &file)
	default:
		err = fmt.Errorf("unknown IR format %s", format)
	}
	//
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", format, err)
	} else if err = file.CheckVersion(); err != nil {
		return nil, err
	}
	//
	return &file, nil
}

// Encode an IR file into a given format.  A missing version is filled in with
// the current version.
func Encode(file *File, format Format) ([]byte, error) {
	var out = *file
	//
	if out.Version == "" {
		out.Version = VERSION
	}
	//
	switch format {
	case JSON:
		data, err := json.MarshalIndent(&out, "", "  ")
		if err != nil {
			return nil, err
		}
		//
		return append(data, '\n'), nil
	case YAML:
		var buf bytes.Buffer
		//
		encoder := yaml.NewEncoder(&buf)
		encoder.SetIndent(2)
		//
		if err := encoder.Encode(&out); err != nil {
			return nil, err
		} else if err := encoder.Close(); err != nil {
			return nil, err
		}
		//
		return buf.Bytes(), nil
	case CBOR:
		mode, err := cbor.CanonicalEncOptions().EncMode()
		if err != nil {
			return nil, err
		}
		//
		return mode.Marshal(&out)
	case CUE:
		return encodeCue(&out)
	}
	//
	return nil, fmt.Errorf("unknown IR format %s", format)
}
