package validate

import (
	"sort"
	"strconv"
)

const maxSuggestions = 3

// suggestStrings proposes likely intended IDs for a broken string
// reference: shared prefixes first, then close spellings (edit distance
// at most 2), capped at three.
func suggestStrings(missing string, known []string) []string {
	type candidate struct {
		id   string
		rank int
	}
	var cands []candidate
	for _, id := range known {
		switch {
		case sharedPrefix(missing, id) >= 3:
			cands = append(cands, candidate{id, 0})
		case editDistance(missing, id) <= 2:
			cands = append(cands, candidate{id, 1})
		}
	}
	sort.Slice(cands, func(i, j int) bool {
		if cands[i].rank != cands[j].rank {
			return cands[i].rank < cands[j].rank
		}
		return cands[i].id < cands[j].id
	})
	var out []string
	for _, c := range cands {
		if len(out) == maxSuggestions {
			break
		}
		out = append(out, c.id)
	}
	return out
}

// suggestInts proposes numeric IDs within a distance of three of the
// missing one, nearest first, capped at three.
func suggestInts(missing int, known []int) []string {
	type candidate struct {
		id   int
		dist int
	}
	var cands []candidate
	for _, id := range known {
		d := id - missing
		if d < 0 {
			d = -d
		}
		if d <= 3 {
			cands = append(cands, candidate{id, d})
		}
	}
	sort.Slice(cands, func(i, j int) bool {
		if cands[i].dist != cands[j].dist {
			return cands[i].dist < cands[j].dist
		}
		return cands[i].id < cands[j].id
	})
	var out []string
	for _, c := range cands {
		if len(out) == maxSuggestions {
			break
		}
		out = append(out, strconv.Itoa(c.id))
	}
	return out
}

func sharedPrefix(a, b string) int {
	n := 0
	for n < len(a) && n < len(b) && a[n] == b[n] {
		n++
	}
	return n
}

// editDistance is the Levenshtein distance between two strings.
func editDistance(a, b string) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min3(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}

func min3(a, b, c int) int {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	return a
}
