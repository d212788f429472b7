package bm3d

import "sort"

// maxCandidates bounds the number of similar blocks collected per reference
// location before sorting, keeping the search O(window) and the candidate
// array on the stack.
const maxCandidates = 1024

// patchLoc is the top-left corner of an 8x8 patch.
type patchLoc struct {
	X, Y int
}

type match struct {
	dist float64
	x, y uint16
}

// blockMatch finds up to maxGroupSize patches similar to the reference patch
// at (rx, ry), searching a square window of span searchWindow clamped to the
// image bounds. Similarity is the joint R+G+B mean squared difference; the
// channel sums subtract progressively from the distance budget so later
// channels are skipped as soon as the running total exceeds the threshold.
//
// The surviving candidates are sorted ascending by distance and truncated to
// the largest power of two not exceeding min(maxGroupSize, found), which the
// Hadamard step of the group transform requires. The reference location is
// pre-seeded at distance zero, so the result always holds at least one entry
// with the reference first.
func blockMatch(channels [][]float64, w, h, rx, ry int, threshold float64, out []patchLoc) int {
	var candidates [maxCandidates]match
	candidates[0] = match{dist: 0, x: uint16(rx), y: uint16(ry)}
	candCount := 1

	var refR, refG, refB [blockArea]float64
	extractPatch(channels[0], w, rx, ry, refR[:])
	extractPatch(channels[1], w, rx, ry, refG[:])
	extractPatch(channels[2], w, rx, ry, refB[:])

	halfSW := searchWindow / 2
	sxStart := rx - halfSW
	if sxStart < 0 {
		sxStart = 0
	}
	sxEnd := rx + halfSW
	if limit := w - blockSize; sxEnd > limit {
		sxEnd = limit
	}
	syStart := ry - halfSW
	if syStart < 0 {
		syStart = 0
	}
	syEnd := ry + halfSW
	if limit := h - blockSize; syEnd > limit {
		syEnd = limit
	}

	for y := syStart; y <= syEnd; y++ {
		for x := sxStart; x <= sxEnd; x++ {
			if x == rx && y == ry {
				continue
			}

			dR := patchDistance(channels[0], w, x, y, &refR, threshold)
			if dR > threshold {
				continue
			}

			dG := patchDistance(channels[1], w, x, y, &refG, threshold-dR)
			if dR+dG > threshold {
				continue
			}

			dB := patchDistance(channels[2], w, x, y, &refB, threshold-(dR+dG))
			total := dR + dG + dB

			if total < threshold && candCount < maxCandidates {
				candidates[candCount] = match{dist: total, x: uint16(x), y: uint16(y)}
				candCount++
			}
		}
	}

	valid := candidates[:candCount]
	sort.Slice(valid, func(i, j int) bool { return valid[i].dist < valid[j].dist })

	limit := maxGroupSize
	if candCount < limit {
		limit = candCount
	}
	groupSize := prevPowerOfTwo(limit)

	for i := 0; i < groupSize; i++ {
		out[i] = patchLoc{X: int(valid[i].x), Y: int(valid[i].y)}
	}
	return groupSize
}

// patchDistance computes the mean squared difference between the reference
// patch and the 8x8 patch at (x, y). It early-exits row by row once the
// running sum exceeds stopThr; in that case the raw (un-normalized) sum is
// returned, which is already over budget for the caller's check.
func patchDistance(img []float64, w, x, y int, ref *[blockArea]float64, stopThr float64) float64 {
	dist := 0.0
	for dy := 0; dy < blockSize; dy++ {
		imgBase := (y+dy)*w + x
		refBase := dy * blockSize
		for dx := 0; dx < blockSize; dx++ {
			diff := img[imgBase+dx] - ref[refBase+dx]
			dist += diff * diff
		}
		if dist > stopThr {
			return dist
		}
	}
	return dist / blockArea
}

// extractPatch copies the 8x8 window at (x, y) into out row by row.
func extractPatch(img []float64, w, x, y int, out []float64) {
	for dy := 0; dy < blockSize; dy++ {
		src := (y+dy)*w + x
		dst := dy * blockSize
		copy(out[dst:dst+blockSize], img[src:src+blockSize])
	}
}

// buildGroup stacks the patches at locs into one contiguous array of
// len(locs)*64 samples.
func buildGroup(img []float64, w int, locs []patchLoc) []float64 {
	stack := make([]float64, len(locs)*blockArea)
	for i, loc := range locs {
		offset := i * blockArea
		extractPatch(img, w, loc.X, loc.Y, stack[offset:offset+blockArea])
	}
	return stack
}

// prevPowerOfTwo returns the largest power of two not exceeding x, or zero
// for x == 0. Truncates rather than rounds.
func prevPowerOfTwo(x int) int {
	if x == 0 {
		return 0
	}
	p := 1
	for p*2 <= x {
		p *= 2
	}
	return p
}
