package hands

import (
	"fmt"
	"sort"

	"github.com/lazharichir/holdem/cards"
)

// HandRank represents the strength category of a poker hand
type HandRank int

const (
	HighCard HandRank = iota
	OnePair
	TwoPair
	ThreeOfAKind
	Straight
	Flush
	FullHouse
	FourOfAKind
	StraightFlush
	RoyalFlush
)

func (r HandRank) String() string {
	switch r {
	case HighCard:
		return "high_card"
	case OnePair:
		return "one_pair"
	case TwoPair:
		return "two_pair"
	case ThreeOfAKind:
		return "three_of_a_kind"
	case Straight:
		return "straight"
	case Flush:
		return "flush"
	case FullHouse:
		return "full_house"
	case FourOfAKind:
		return "four_of_a_kind"
	case StraightFlush:
		return "straight_flush"
	case RoyalFlush:
		return "royal_flush"
	default:
		return "unknown"
	}
}

// HandEvaluation is the result of scoring a 5-card hand. Value is a
// single totally-ordered integer: the category occupies the most
// significant position and each kicker a base-100 digit below it, so
// category always dominates and equal hands compare exactly equal.
type HandEvaluation struct {
	Rank      HandRank
	HandCards cards.Stack // the 5 cards, sorted by rank descending
	Kickers   []int       // significant ranks, highest first, max 5
	Value     int64
}

func encodeValue(rank HandRank, kickers []int) int64 {
	v := int64(rank)
	for i := 0; i < 5; i++ {
		v *= 100
		if i < len(kickers) {
			v += int64(kickers[i])
		}
	}
	return v
}

// sortCardsByRank sorts cards by rank in descending order
func sortCardsByRank(hand cards.Stack) cards.Stack {
	result := hand.Copy()
	sort.Slice(result, func(i, j int) bool {
		return result[i].Value.Rank() > result[j].Value.Rank()
	})
	return result
}

// rankCounts tallies card ranks into a fixed 13-slot array indexed by
// rank-2. Evaluation runs up to 21 times per player per showdown, so no
// per-call map allocation.
func rankCounts(hand cards.Stack) [13]int {
	var counts [13]int
	for _, card := range hand {
		counts[card.Value.Rank()-2]++
	}
	return counts
}

func isFlush(hand cards.Stack) bool {
	suit := hand[0].Suit
	for _, card := range hand[1:] {
		if card.Suit != suit {
			return false
		}
	}
	return true
}

// straightHigh returns the high rank of a straight, or 0 when the hand
// is not a straight. The wheel (A-2-3-4-5) counts as a five-high
// straight, not ace-high.
func straightHigh(counts [13]int) int {
	// Wheel first: ace plays low.
	if counts[14-2] > 0 && counts[2-2] > 0 && counts[3-2] > 0 && counts[4-2] > 0 && counts[5-2] > 0 {
		return 5
	}

	run := 0
	for rank := 2; rank <= 14; rank++ {
		if counts[rank-2] == 0 {
			run = 0
			continue
		}
		run++
		if run == 5 {
			return rank
		}
	}
	return 0
}

// EvaluateFive scores exactly five cards.
func EvaluateFive(hand cards.Stack) HandEvaluation {
	if len(hand) != 5 {
		panic("hand must contain exactly 5 cards")
	}

	sortedHand := sortCardsByRank(hand)
	counts := rankCounts(hand)
	flush := isFlush(hand)
	straight := straightHigh(counts)

	build := func(rank HandRank, kickers []int) HandEvaluation {
		return HandEvaluation{
			Rank:      rank,
			HandCards: sortedHand,
			Kickers:   kickers,
			Value:     encodeValue(rank, kickers),
		}
	}

	if flush && straight == 14 {
		return build(RoyalFlush, []int{14})
	}
	if flush && straight > 0 {
		return build(StraightFlush, []int{straight})
	}

	// Group ranks by multiplicity, highest rank first within a group.
	var quads, trips, pairs, singles []int
	for rank := 14; rank >= 2; rank-- {
		switch counts[rank-2] {
		case 4:
			quads = append(quads, rank)
		case 3:
			trips = append(trips, rank)
		case 2:
			pairs = append(pairs, rank)
		case 1:
			singles = append(singles, rank)
		}
	}

	switch {
	case len(quads) == 1:
		return build(FourOfAKind, []int{quads[0], singles[0]})
	case len(trips) == 1 && len(pairs) == 1:
		return build(FullHouse, []int{trips[0], pairs[0]})
	case flush:
		return build(Flush, ranksOf(sortedHand))
	case straight > 0:
		return build(Straight, []int{straight})
	case len(trips) == 1:
		return build(ThreeOfAKind, append([]int{trips[0]}, singles...))
	case len(pairs) == 2:
		return build(TwoPair, []int{pairs[0], pairs[1], singles[0]})
	case len(pairs) == 1:
		return build(OnePair, append([]int{pairs[0]}, singles...))
	default:
		return build(HighCard, ranksOf(sortedHand))
	}
}

func ranksOf(sortedHand cards.Stack) []int {
	ranks := make([]int, len(sortedHand))
	for i, card := range sortedHand {
		ranks[i] = card.Value.Rank()
	}
	return ranks
}

// EvaluateBest finds the strongest 5-card hand among 5 to 7 cards by
// enumerating every 5-card subset (at most C(7,5)=21) and keeping the
// maximum by Value. Ties between distinct subsets are irrelevant; ties
// between players are preserved exactly by Value equality.
func EvaluateBest(cardSet cards.Stack) (HandEvaluation, error) {
	n := len(cardSet)
	if n < 5 || n > 7 {
		return HandEvaluation{}, fmt.Errorf("need 5 to 7 cards to evaluate, got %d", n)
	}

	var best HandEvaluation
	found := false

	hand := make(cards.Stack, 5)
	for _, combo := range combinations(n, 5) {
		for i, idx := range combo {
			hand[i] = cardSet[idx]
		}
		eval := EvaluateFive(hand)
		if !found || eval.Value > best.Value {
			best = eval
			found = true
		}
	}

	return best, nil
}

// Compare orders two evaluations: -1 when a is worse, 0 on an exact tie,
// 1 when a is better.
func Compare(a, b HandEvaluation) int {
	switch {
	case a.Value < b.Value:
		return -1
	case a.Value > b.Value:
		return 1
	default:
		return 0
	}
}

// combinations generates all k-subsets of [0,n) as index slices.
func combinations(n, k int) [][]int {
	if k > n {
		return nil
	}

	var result [][]int
	var combine func(int, []int)

	combine = func(start int, current []int) {
		if len(current) == k {
			combo := make([]int, k)
			copy(combo, current)
			result = append(result, combo)
			return
		}

		for i := start; i < n; i++ {
			current = append(current, i)
			combine(i+1, current)
			current = current[:len(current)-1]
		}
	}

	combine(0, []int{})
	return result
}

// PlayerEvaluation pairs a player with their best hand at showdown.
type PlayerEvaluation struct {
	PlayerID   string
	Evaluation HandEvaluation
}

// GroupByStrength evaluates each player's best hand and returns tie
// groups ordered strongest first. Players whose hands compare exactly
// equal share a group; the split is decided later, pot by pot.
func GroupByStrength(playerCards map[string]cards.Stack) ([][]PlayerEvaluation, error) {
	evals := make([]PlayerEvaluation, 0, len(playerCards))
	for playerID, cardSet := range playerCards {
		best, err := EvaluateBest(cardSet)
		if err != nil {
			return nil, fmt.Errorf("evaluating %s: %w", playerID, err)
		}
		evals = append(evals, PlayerEvaluation{PlayerID: playerID, Evaluation: best})
	}

	sort.Slice(evals, func(i, j int) bool {
		if evals[i].Evaluation.Value != evals[j].Evaluation.Value {
			return evals[i].Evaluation.Value > evals[j].Evaluation.Value
		}
		return evals[i].PlayerID < evals[j].PlayerID
	})

	var groups [][]PlayerEvaluation
	for _, pe := range evals {
		if len(groups) == 0 || groups[len(groups)-1][0].Evaluation.Value != pe.Evaluation.Value {
			groups = append(groups, []PlayerEvaluation{pe})
			continue
		}
		groups[len(groups)-1] = append(groups[len(groups)-1], pe)
	}

	return groups, nil
}
