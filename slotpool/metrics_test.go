// Copyright 2024 The slotpool Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package slotpool

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

func TestMetricsWiredThroughPoolLifecycle(t *testing.T) {
	reg := prometheus.NewRegistry()
	p := New(Config{
		MaxInstances: 4,
		SlotSize:     testSlotSize,
		Base:         testBase,
		InitialClean: allSlots(4),
		Decommit:     &fakeDecommitter{},
		Registry:     reg,
	})

	for i := 0; i < 4; i++ {
		p.Alloc()
	}
	p.Free(0)
	p.Free(1)
	p.Free(2)
	p.Free(3)
	p.Alloc()

	families, err := reg.Gather()
	require.NoError(t, err)

	var sawDecommitCalls bool
	for _, fam := range families {
		if fam.GetName() == "slotpool_decommit_calls_total" {
			sawDecommitCalls = true
			require.Len(t, fam.Metric, 1)
			require.Equal(t, float64(1), fam.Metric[0].GetCounter().GetValue())
		}
	}
	require.True(t, sawDecommitCalls, "expected slotpool_decommit_calls_total to be registered")
}
