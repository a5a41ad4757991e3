package optimizer

import "math/bits"

// maxPartitionParticipants caps the exact zero-sum partition search, which
// visits every subset of the non-zero participants.
const maxPartitionParticipants = 20

// participant is one non-zero balance in the combined payer/receiver list.
// Payers carry positive net amounts, receivers negative ones.
type participant struct {
	payer bool
	index int
	net   int64
}

func nonZeroParticipants(pay, get []int64) []participant {
	var out []participant
	for i, v := range pay {
		if v != 0 {
			out = append(out, participant{payer: true, index: i, net: v})
		}
	}
	for j, v := range get {
		if v != 0 {
			out = append(out, participant{index: j, net: -v})
		}
	}
	return out
}

// zeroSumGroups splits ps into the largest possible number of disjoint groups
// that each net to zero. Every settlement is a forest whose trees net to zero,
// so a settlement needs at least len(ps) - len(groups) transfers, and settling
// each group on its own reaches that count. ok is false when ps is too large
// to search exactly.
func zeroSumGroups(ps []participant) (groups [][]participant, ok bool) {
	n := len(ps)
	if n == 0 {
		return nil, true
	}
	if n > maxPartitionParticipants {
		return nil, false
	}

	// best[mask] is the largest number of zero-sum prefixes over all
	// orderings of mask, the full mask counting as a prefix.
	size := 1 << n
	sum := make([]int64, size)
	best := make([]int8, size)
	for mask := 1; mask < size; mask++ {
		low := bits.TrailingZeros(uint(mask))
		sum[mask] = sum[mask&(mask-1)] + ps[low].net

		b := int8(-1)
		for rest := mask; rest != 0; rest &= rest - 1 {
			i := bits.TrailingZeros(uint(rest))
			if v := best[mask&^(1<<i)]; v > b {
				b = v
			}
		}
		if sum[mask] == 0 {
			b++
		}
		best[mask] = b
	}

	// Rebuild one optimal ordering back to front.
	order := make([]int, n)
	mask := size - 1
	for k := n - 1; k >= 0; k-- {
		zero := int8(0)
		if sum[mask] == 0 {
			zero = 1
		}
		for rest := mask; rest != 0; rest &= rest - 1 {
			i := bits.TrailingZeros(uint(rest))
			if best[mask&^(1<<i)]+zero == best[mask] {
				order[k] = i
				mask &^= 1 << i
				break
			}
		}
	}

	var current []participant
	var running int64
	for _, i := range order {
		current = append(current, ps[i])
		running += ps[i].net
		if running == 0 {
			groups = append(groups, current)
			current = nil
		}
	}
	if len(current) > 0 {
		groups = append(groups, current)
	}

	return groups, true
}

// edge is a transfer in scaled units.
type edge struct {
	payer, receiver int
	amount          int64
}

// settleGreedily pairs the payers and receivers of ps in order, moving the
// smaller remaining amount each step. A zero-sum group of k participants
// settles in at most k-1 transfers.
func settleGreedily(ps []participant) []edge {
	var payers, receivers []participant
	for _, p := range ps {
		if p.payer {
			payers = append(payers, p)
		} else {
			receivers = append(receivers, participant{index: p.index, net: -p.net})
		}
	}

	var edges []edge
	i, j := 0, 0
	for i < len(payers) && j < len(receivers) {
		amount := min(payers[i].net, receivers[j].net)
		if amount > 0 {
			edges = append(edges, edge{payer: payers[i].index, receiver: receivers[j].index, amount: amount})
		}
		payers[i].net -= amount
		receivers[j].net -= amount
		if payers[i].net == 0 {
			i++
		}
		if receivers[j].net == 0 {
			j++
		}
	}
	return edges
}
