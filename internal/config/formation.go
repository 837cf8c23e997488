package config

import (
	"fmt"
	"strconv"
	"strings"
)

// Slot is one of the eleven starting positions a formation defines, in
// normalized coordinates for a team attacking toward X=1. The engine mirrors
// slots for the team attacking the other way.
type Slot struct {
	X, Y float64
	Line int    // 0 defense, 1 midfield, 2 attack (GK counts as defense)
	Role string // GK, DF, MF, FW
}

// Formation is a parsed shape like 4-4-2: the goalkeeper plus two to four
// outfield lines summing to ten.
type Formation struct {
	Name  string
	Slots []Slot // always 11, slot 0 is the goalkeeper
}

// linesX spreads outfield lines between the keeper and the halfway line,
// back line deepest. Index by (lineCount, line).
var linesX = map[int][]float64{
	2: {0.25, 0.42},
	3: {0.18, 0.32, 0.44},
	4: {0.16, 0.28, 0.38, 0.46},
}

// ParseFormation parses a dash-separated shape ("4-4-2", "4-2-3-1") into
// slot home positions. Outfield counts must sum to 10 with 2-4 lines and at
// most 5 players per line.
func ParseFormation(name string) (*Formation, error) {
	parts := strings.Split(strings.TrimSpace(name), "-")
	if len(parts) < 2 || len(parts) > 4 {
		return nil, fmt.Errorf("formation %q: want 2-4 lines", name)
	}
	counts := make([]int, len(parts))
	total := 0
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 1 || n > 5 {
			return nil, fmt.Errorf("formation %q: bad line %q", name, p)
		}
		counts[i] = n
		total += n
	}
	if total != 10 {
		return nil, fmt.Errorf("formation %q: outfield players sum to %d, want 10", name, total)
	}

	f := &Formation{Name: name}
	f.Slots = append(f.Slots, Slot{X: 0.04, Y: 0.5, Line: 0, Role: "GK"})

	xs := linesX[len(counts)]
	for li, n := range counts {
		role := roleForLine(li, len(counts))
		line := tacticalLine(li, len(counts))
		for s := 0; s < n; s++ {
			f.Slots = append(f.Slots, Slot{
				X:    xs[li],
				Y:    spread(s, n),
				Line: line,
				Role: role,
			})
		}
	}
	return f, nil
}

// spread distributes n players evenly across the width, centered.
func spread(i, n int) float64 {
	return (float64(i) + 1) / (float64(n) + 1)
}

func roleForLine(line, lines int) string {
	switch {
	case line == 0:
		return "DF"
	case line == lines-1:
		return "FW"
	default:
		return "MF"
	}
}

// tacticalLine collapses any shape onto the three coverage lines the
// off-ball scheduler reasons about.
func tacticalLine(line, lines int) int {
	switch {
	case line == 0:
		return 0
	case line == lines-1:
		return 2
	default:
		return 1
	}
}
