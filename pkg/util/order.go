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
package util

import (
	"cmp"
	"slices"

	"golang.org/x/exp/maps"
)

// SortedKeys returns the keys of a map in ascending order.  Generated artifacts
// must never depend on map iteration order, hence any map consulted during
// generation is traversed through this function.
func SortedKeys[K cmp.Ordered, V any](m map[K]V) []K {
	keys := maps.Keys(m)
	slices.Sort(keys)
	//
	return keys
}

// FirstOccurrence returns the distinct items of a sequence, in the order each
// was first seen.
func FirstOccurrence[T comparable](items []T) []T {
	var (
		seen   = make(map[T]struct{}, len(items))
		result []T
	)
	//
	for _, item := range items {
		if _, ok := seen[item]; !ok {
			seen[item] = struct{}{}
			result = append(result, item)
		}
	}
	//
	return result
}

// Duplicates reports every item which occurs more than once in a sequence,
// paired with the index of its first occurrence.  Results are ordered by the
// position of the repeated occurrence.
func Duplicates[T comparable](items []T) []Pair[uint, uint] {
	var (
		first  = make(map[T]uint, len(items))
		result []Pair[uint, uint]
	)
	//
	for i, item := range items {
		if j, ok := first[item]; ok {
			result = append(result, NewPair(j, uint(i)))
		} else {
			first[item] = uint(i)
		}
	}
	//
	return result
}

// Pair is a simple tuple of two values.
type Pair[L any, R any] struct {
	Left  L
	Right R
}

// NewPair constructs a new pair.
func NewPair[L any, R any](left L, right R) Pair[L, R] {
	return Pair[L, R]{left, right}
}
