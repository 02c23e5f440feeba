package solver

import "github.com/lessonscheduler/solver/internal/scheduling/domain"

// GraphStats summarizes the constraint graph's structure — students
// as nodes, an edge wherever two students' candidate domains overlap
// on a day and so could conflict — as a pure difficulty signal. None
// of this feeds back into the search; it only informs the difficulty
// score.
type GraphStats struct {
	NodeCount          int
	EdgeCount          int
	Density            float64
	MaxDegree          int
	ChromaticEstimate  int
	ArticulationPoints int
}

// AnalyzeGraph builds the constraint graph implied by problem's
// preprocessed domains and computes its structural statistics.
func AnalyzeGraph(problem domain.Problem) GraphStats {
	domains, _ := Preprocess(problem, 1)
	ids := make([]string, 0, len(domains))
	for id := range domains {
		ids = append(ids, id)
	}

	adjacency := buildAdjacency(ids, domains)
	return GraphStats{
		NodeCount:         len(ids),
		EdgeCount:         edgeCount(adjacency),
		Density:           density(ids, adjacency),
		MaxDegree:         maxDegree(ids, adjacency),
		ChromaticEstimate:  greedyChromaticNumber(ids, adjacency),
		ArticulationPoints: len(articulationPoints(ids, adjacency)),
	}
}

func buildAdjacency(ids []string, domains map[string]*domain.CandidateDomain) map[string]map[string]bool {
	adjacency := make(map[string]map[string]bool, len(ids))
	for _, id := range ids {
		adjacency[id] = make(map[string]bool)
	}
	for i, a := range ids {
		daysA := daysUsed(domains[a])
		for _, b := range ids[i+1:] {
			if sharesAnyDay(daysA, daysUsed(domains[b])) {
				adjacency[a][b] = true
				adjacency[b][a] = true
			}
		}
	}
	return adjacency
}

func edgeCount(adjacency map[string]map[string]bool) int {
	total := 0
	for _, neighbors := range adjacency {
		total += len(neighbors)
	}
	return total / 2
}

func density(ids []string, adjacency map[string]map[string]bool) float64 {
	n := len(ids)
	if n < 2 {
		return 0
	}
	maxEdges := n * (n - 1) / 2
	return float64(edgeCount(adjacency)) / float64(maxEdges)
}

func maxDegree(ids []string, adjacency map[string]map[string]bool) int {
	max := 0
	for _, id := range ids {
		if d := len(adjacency[id]); d > max {
			max = d
		}
	}
	return max
}

// greedyChromaticNumber approximates the chromatic number via a greedy
// largest-degree-first coloring — an upper bound, not the true
// minimum, but cheap and stable enough for a difficulty signal.
func greedyChromaticNumber(ids []string, adjacency map[string]map[string]bool) int {
	ordered := append([]string(nil), ids...)
	sortByDegreeDesc(ordered, adjacency)

	colors := make(map[string]int, len(ordered))
	maxColor := 0
	for _, id := range ordered {
		used := make(map[int]bool)
		for neighbor := range adjacency[id] {
			if c, ok := colors[neighbor]; ok {
				used[c] = true
			}
		}
		color := 0
		for used[color] {
			color++
		}
		colors[id] = color
		if color+1 > maxColor {
			maxColor = color + 1
		}
	}
	return maxColor
}

func sortByDegreeDesc(ids []string, adjacency map[string]map[string]bool) {
	for i := 1; i < len(ids); i++ {
		for j := i; j > 0 && len(adjacency[ids[j]]) > len(adjacency[ids[j-1]]); j-- {
			ids[j], ids[j-1] = ids[j-1], ids[j]
		}
	}
}

// articulationPoints finds every node whose removal increases the
// number of connected components, via a standard DFS low-link sweep.
func articulationPoints(ids []string, adjacency map[string]map[string]bool) []string {
	disc := make(map[string]int)
	low := make(map[string]int)
	result := make(map[string]bool)
	timer := 0

	var dfs func(u, parent string, isRoot bool, rootChildren *int)
	dfs = func(u, parent string, isRoot bool, rootChildren *int) {
		timer++
		disc[u] = timer
		low[u] = timer

		for v := range adjacency[u] {
			if v == parent {
				continue
			}
			if _, visited := disc[v]; visited {
				if disc[v] < low[u] {
					low[u] = disc[v]
				}
				continue
			}
			if isRoot {
				*rootChildren++
			}
			dfs(v, u, false, rootChildren)
			if low[v] < low[u] {
				low[u] = low[v]
			}
			if !isRoot && low[v] >= disc[u] {
				result[u] = true
			}
		}
	}

	for _, id := range ids {
		if _, visited := disc[id]; visited {
			continue
		}
		children := 0
		dfs(id, "", true, &children)
		if children > 1 {
			result[id] = true
		}
	}

	out := make([]string, 0, len(result))
	for id := range result {
		out = append(out, id)
	}
	return out
}
