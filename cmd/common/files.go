// Copyright 2026 Blink Labs Software
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package common

import (
	"cmp"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/blinklabs-io/opproof/cbor"
	"github.com/blinklabs-io/opproof/signature"
)

// ProofExt is appended to the name of files holding CBOR proofs
const ProofExt = ".proof"

// BlockFile is one block read from a block directory
type BlockFile struct {
	Num  uint64
	Path string
	Data []byte
}

// ReadBlockDir reads every block file in dir. The block number is the file
// name without its extension; proof files are skipped.
func ReadBlockDir(dir string) ([]BlockFile, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var ret []BlockFile
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) == ProofExt {
			continue
		}
		name := strings.TrimSuffix(entry.Name(), filepath.Ext(entry.Name()))
		num, err := strconv.ParseUint(name, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("block file %s: name is not a block number", entry.Name())
		}
		path := filepath.Join(dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		ret = append(ret, BlockFile{Num: num, Path: path, Data: data})
	}
	slices.SortFunc(ret, func(a, b BlockFile) int {
		return cmp.Compare(a.Num, b.Num)
	})
	return ret, nil
}

// LoadSigner reads a hex encoded Ed25519 seed
func LoadSigner(path string) (*signature.Ed25519Signer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	seed, err := signature.DecodeHexKey(string(data))
	if err != nil {
		return nil, err
	}
	return signature.NewEd25519Signer(seed)
}

// LoadVerifier parses a hex encoded Ed25519 public key
func LoadVerifier(pubKeyHex string) (*signature.Ed25519Verifier, error) {
	pub, err := signature.DecodeHexKey(pubKeyHex)
	if err != nil {
		return nil, err
	}
	return signature.NewEd25519Verifier(pub)
}

func WriteCbor(path string, v any) error {
	data, err := cbor.Encode(v)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

func ReadCbor(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if _, err := cbor.Decode(data, v); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}
