package domain

import "sort"

// LineHits maps a 1-based line number to the number of times it executed.
// A line present with a zero count is relevant but uncovered; an absent line
// is not executable code.
type LineHits map[int]int64

// Report holds line hits for every tracked file, keyed by file path.
type Report map[string]LineHits

// Summary aggregates line counts for a file or a whole report.
type Summary struct {
	Relevant int
	Covered  int
}

// Percent returns the covered ratio as a percentage.
// A summary without relevant lines is considered fully covered.
func (s Summary) Percent() float64 {
	if s.Relevant == 0 {
		return 100
	}
	return float64(s.Covered) * 100 / float64(s.Relevant)
}

// Add returns the sum of two summaries.
func (s Summary) Add(o Summary) Summary {
	return Summary{Relevant: s.Relevant + o.Relevant, Covered: s.Covered + o.Covered}
}

// Summary counts relevant and covered lines.
func (h LineHits) Summary() Summary {
	var s Summary
	for _, hits := range h {
		s.Relevant++
		if hits > 0 {
			s.Covered++
		}
	}
	return s
}

// Lines returns the tracked line numbers in ascending order.
func (h LineHits) Lines() []int {
	lines := make([]int, 0, len(h))
	for line := range h {
		lines = append(lines, line)
	}
	sort.Ints(lines)
	return lines
}

// Merge adds every hit of other into r, creating files and lines as needed.
func (r Report) Merge(other Report) {
	for file, hits := range other {
		dst, ok := r[file]
		if !ok {
			dst = make(LineHits, len(hits))
			r[file] = dst
		}
		for line, n := range hits {
			dst[line] += n
		}
	}
}

// Clone returns a deep copy of the report.
func (r Report) Clone() Report {
	out := make(Report, len(r))
	out.Merge(r)
	return out
}

// Files returns the tracked file paths in lexical order.
func (r Report) Files() []string {
	files := make([]string, 0, len(r))
	for file := range r {
		files = append(files, file)
	}
	sort.Strings(files)
	return files
}

// Summary aggregates every file of the report.
func (r Report) Summary() Summary {
	var total Summary
	for _, hits := range r {
		total = total.Add(hits.Summary())
	}
	return total
}
