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

package cbor_test

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blinklabs-io/opproof/cbor"
)

type decodeTestDefinition struct {
	CborHex   string
	Object    any
	BytesRead int
}

var decodeTests = []decodeTestDefinition{
	// Simple list of numbers
	{
		CborHex: "83010203",
		Object:  []any{uint64(1), uint64(2), uint64(3)},
	},
	// Multiple CBOR objects
	{
		CborHex:   "81018102",
		Object:    []any{uint64(1)},
		BytesRead: 2,
	},
}

func TestDecode(t *testing.T) {
	for _, test := range decodeTests {
		cborData, err := hex.DecodeString(test.CborHex)
		require.NoError(t, err)
		var dest any
		bytesRead, err := cbor.Decode(cborData, &dest)
		require.NoError(t, err)
		if test.BytesRead > 0 {
			assert.Equal(t, test.BytesRead, bytesRead)
		} else {
			assert.Equal(t, len(cborData), bytesRead)
		}
		assert.Equal(t, test.Object, dest)
	}
}

func TestDecodeRejectsUnknownField(t *testing.T) {
	type record struct {
		Known uint64 `cbor:"known"`
	}
	// {"known": 1, "extra": 2}
	cborData, err := cbor.Encode(map[string]uint64{"known": 1, "extra": 2})
	require.NoError(t, err)
	var dest record
	_, err = cbor.Decode(cborData, &dest)
	assert.Error(t, err)
}

func TestDecodeRejectsDeepNesting(t *testing.T) {
	// 20 nested single item arrays around a 0
	cborData := make([]byte, 0, 21)
	for range 20 {
		cborData = append(cborData, 0x81)
	}
	cborData = append(cborData, 0x00)
	var dest any
	_, err := cbor.Decode(cborData, &dest)
	assert.Error(t, err)
}

var decodeIdFromListTests = []struct {
	name    string
	cborHex string
	id      int
	errText string
}{
	{name: "short form", cborHex: "8301020304", id: 1},
	{name: "one byte id", cborHex: "820f00", id: 15},
	{name: "long list", cborHex: "9818" + "05" + "000102030405060708090a0b0c0d0e0f1011121314151617", id: 5},
	{name: "empty input", cborHex: "", errText: "empty input"},
	{name: "empty list", cborHex: "80", errText: "empty list"},
	{name: "not numeric", cborHex: "81f5", errText: "not numeric"},
	{name: "out of range", cborHex: "9818" + "1864" + "0102030405060708090a0b0c0d0e0f1011121314151617", errText: "out of range"},
}

func TestDecodeIdFromList(t *testing.T) {
	for _, test := range decodeIdFromListTests {
		t.Run(test.name, func(t *testing.T) {
			cborData, err := hex.DecodeString(test.cborHex)
			require.NoError(t, err)
			id, err := cbor.DecodeIdFromList(cborData)
			if test.errText != "" {
				assert.ErrorContains(t, err, test.errText)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, test.id, id)
		})
	}
}

type decodeByIdObjectA struct {
	cbor.StructAsArray
	Type uint
}

type decodeByIdObjectB struct {
	cbor.StructAsArray
	Type uint
	Foo  bool
}

type decodeByIdObjectC struct {
	cbor.StructAsArray
	Type uint
	Foo  uint
	Bar  uint
	Baz  uint
}

func TestDecodeById(t *testing.T) {
	tests := []struct {
		cborHex string
		object  any
		errText string
	}{
		// [1]
		{cborHex: "8101", object: &decodeByIdObjectA{Type: 1}},
		// [2, true]
		{cborHex: "8202f5", object: &decodeByIdObjectB{Type: 2, Foo: true}},
		// [3, 1, 2, 3]
		{cborHex: "8403010203", object: &decodeByIdObjectC{Type: 3, Foo: 1, Bar: 2, Baz: 3}},
		// [5]
		{cborHex: "8105", errText: "found unknown ID: 5"},
	}
	for _, test := range tests {
		// fresh objects for each case
		idMap := map[int]any{
			1: &decodeByIdObjectA{},
			2: &decodeByIdObjectB{},
			3: &decodeByIdObjectC{},
		}
		cborData, err := hex.DecodeString(test.cborHex)
		require.NoError(t, err)
		obj, err := cbor.DecodeById(cborData, idMap)
		if test.errText != "" {
			assert.ErrorContains(t, err, test.errText)
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, test.object, obj)
	}
}

type storedRecord struct {
	cbor.StructAsArray
	cbor.DecodeStoreCbor
	Num  uint64
	Name string
}

func (r *storedRecord) UnmarshalCBOR(data []byte) error {
	return r.UnmarshalCborGeneric(data, r)
}

func TestDecodeStoreCbor(t *testing.T) {
	cborData, err := cbor.Encode(&storedRecord{Num: 9, Name: "nine"})
	require.NoError(t, err)

	var dest storedRecord
	_, err = cbor.Decode(cborData, &dest)
	require.NoError(t, err)
	assert.Equal(t, uint64(9), dest.Num)
	assert.Equal(t, "nine", dest.Name)
	assert.Equal(t, cborData, dest.Cbor())

	// stored bytes are a copy
	cborData[0] ^= 0xff
	assert.NotEqual(t, cborData, dest.Cbor())

	dest.SetCbor(nil)
	assert.Nil(t, dest.Cbor())
}

func TestDecodeGeneric(t *testing.T) {
	cborData, err := cbor.Encode(&storedRecord{Num: 3, Name: "three"})
	require.NoError(t, err)

	var dest storedRecord
	require.NoError(t, cbor.DecodeGeneric(cborData, &dest))
	assert.Equal(t, uint64(3), dest.Num)
	assert.Equal(t, "three", dest.Name)
	// DecodeGeneric bypasses UnmarshalCBOR so nothing is stored
	assert.Nil(t, dest.Cbor())

	var notStruct uint64
	assert.Error(t, cbor.DecodeGeneric(cborData, &notStruct))
}
