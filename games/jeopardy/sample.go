/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package jeopardy

import (
	"fmt"
	"math/rand/v2"
)

// SampleWithoutReplacement returns k distinct elements of population in
// random order. intn must return a value in [0, n); nil uses math/rand/v2.
// population is not modified.
func SampleWithoutReplacement[T any](population []T, k int, intn func(n int) int) ([]T, error) {
	if k < 0 || k > len(population) {
		return nil, fmt.Errorf("%d of %d: %w", k, len(population), ErrSampleSize)
	}

	if intn == nil {
		intn = rand.IntN
	}

	pool := make([]T, len(population))
	copy(pool, population)

	// Partial Fisher-Yates: the first k slots end up holding the sample.
	for i := 0; i < k; i++ {
		j := i + intn(len(pool)-i)
		pool[i], pool[j] = pool[j], pool[i]
	}

	return pool[:k:k], nil
}
