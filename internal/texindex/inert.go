package texindex

import "sort"

// byteRange is a half-open [start, end) interval.
type byteRange struct {
	start, end int
}

// commentRanges returns the byte ranges of % comments in text. An escaped
// \% does not start a comment. Ranges run to the end of the line,
// excluding the newline itself.
func commentRanges(text string) []byteRange {
	var out []byteRange
	lineStart := 0
	for lineStart < len(text) {
		lineEnd := lineStart
		for lineEnd < len(text) && text[lineEnd] != '\n' {
			lineEnd++
		}
		for i := lineStart; i < lineEnd; i++ {
			if text[i] != '%' {
				continue
			}
			// Count preceding backslashes; an odd run escapes the %.
			bs := 0
			for j := i - 1; j >= lineStart && text[j] == '\\'; j-- {
				bs++
			}
			if bs%2 == 0 {
				out = append(out, byteRange{i, lineEnd})
				break
			}
		}
		lineStart = lineEnd + 1
	}
	return out
}

// mergeRanges sorts and coalesces overlapping or adjacent ranges.
func mergeRanges(ranges []byteRange) []byteRange {
	if len(ranges) == 0 {
		return nil
	}
	sorted := make([]byteRange, len(ranges))
	copy(sorted, ranges)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].start != sorted[j].start {
			return sorted[i].start < sorted[j].start
		}
		return sorted[i].end < sorted[j].end
	})
	merged := sorted[:1]
	for _, r := range sorted[1:] {
		last := &merged[len(merged)-1]
		if r.start <= last.end {
			if r.end > last.end {
				last.end = r.end
			}
		} else {
			merged = append(merged, r)
		}
	}
	return merged
}

// inRanges reports whether offset falls inside any of the merged ranges.
func inRanges(merged []byteRange, offset int) bool {
	i := sort.Search(len(merged), func(i int) bool {
		return merged[i].end > offset
	})
	return i < len(merged) && merged[i].start <= offset
}
