package optimizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestZeroSumGroups(t *testing.T) {
	tests := []struct {
		name       string
		pay, get   []int64
		wantGroups int
	}{
		{name: "no proper zero-sum subset", pay: []int64{1100, 250}, get: []int64{950, 400}, wantGroups: 1},
		{name: "direct matches", pay: []int64{500, 300}, get: []int64{300, 500}, wantGroups: 2},
		{name: "shared amount", pay: []int64{1100, 950}, get: []int64{950, 700, 400}, wantGroups: 2},
		{name: "zeros are ignored", pay: []int64{0, 400}, get: []int64{400, 0}, wantGroups: 1},
		{name: "three pairs", pay: []int64{1, 2, 3}, get: []int64{3, 2, 1}, wantGroups: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ps := nonZeroParticipants(tt.pay, tt.get)
			groups, ok := zeroSumGroups(ps)
			require.True(t, ok)
			assert.Len(t, groups, tt.wantGroups)

			seen := 0
			for _, g := range groups {
				var net int64
				for _, p := range g {
					net += p.net
				}
				assert.Zero(t, net, "group %v does not net to zero", g)
				seen += len(g)
			}
			assert.Equal(t, len(ps), seen)
		})
	}
}

func TestZeroSumGroups_TooLarge(t *testing.T) {
	pay := make([]int64, maxPartitionParticipants)
	get := make([]int64, 1)
	for i := range pay {
		pay[i] = 1
	}
	get[0] = maxPartitionParticipants

	_, ok := zeroSumGroups(nonZeroParticipants(pay, get))
	assert.False(t, ok)
}

func TestSettleGreedily(t *testing.T) {
	ps := nonZeroParticipants([]int64{1100, 250}, []int64{950, 400})
	edges := settleGreedily(ps)

	assert.Equal(t, []edge{
		{payer: 0, receiver: 0, amount: 950},
		{payer: 0, receiver: 1, amount: 150},
		{payer: 1, receiver: 1, amount: 250},
	}, edges)
}

func TestBuildSettlementModel_Bound(t *testing.T) {
	sm := buildSettlementModel([]int64{2000, 1600, 700}, []int64{1500, 1000, 800, 500, 500})
	assert.Equal(t, int64(6), sm.lowerBound)
	assert.True(t, sm.exactBound)
	assert.Equal(t, 2*3*5, sm.model.NumHints())
}
