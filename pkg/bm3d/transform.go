package bm3d

import "math"

// forwardTransform3D applies the full 3D transform to a group stack in
// place: a separable 2D DCT-II per patch, then a 1D Walsh-Hadamard
// transform across the group dimension at each of the 64 spatial-frequency
// positions. groupSize must be a power of two.
func forwardTransform3D(stack []float64, groupSize int, t *dctTables) {
	for i := 0; i < groupSize; i++ {
		offset := i * blockArea
		dct2D(stack[offset:offset+blockArea], &t.dct)
	}
	hadamardAcrossGroup(stack, groupSize)
}

// inverseTransform3D undoes forwardTransform3D. The Hadamard transform is
// self-inverse under the 1/sqrt(n) normalization, so it is applied again
// before the per-patch inverse DCT.
func inverseTransform3D(stack []float64, groupSize int, t *dctTables) {
	hadamardAcrossGroup(stack, groupSize)
	for i := 0; i < groupSize; i++ {
		offset := i * blockArea
		idct2D(stack[offset:offset+blockArea], &t.idct)
	}
}

func hadamardAcrossGroup(stack []float64, groupSize int) {
	var col [maxGroupSize]float64
	for i := 0; i < blockArea; i++ {
		for k := 0; k < groupSize; k++ {
			col[k] = stack[k*blockArea+i]
		}
		walshHadamard(col[:groupSize])
		for k := 0; k < groupSize; k++ {
			stack[k*blockArea+i] = col[k]
		}
	}
}

// dct2D applies the separable 2D DCT-II to one 8x8 block in place: 1D DCT
// along rows, transpose, rows again, transpose back.
func dct2D(block []float64, coeffs *[blockArea]float64) {
	for i := 0; i < blockSize; i++ {
		dct1D(block[i*blockSize:(i+1)*blockSize], coeffs)
	}
	transpose8x8(block)
	for i := 0; i < blockSize; i++ {
		dct1D(block[i*blockSize:(i+1)*blockSize], coeffs)
	}
	transpose8x8(block)
}

// idct2D applies the transpose-based separable inverse DCT to one 8x8 block
// in place.
func idct2D(block []float64, coeffs *[blockArea]float64) {
	transpose8x8(block)
	for i := 0; i < blockSize; i++ {
		idct1D(block[i*blockSize:(i+1)*blockSize], coeffs)
	}
	transpose8x8(block)
	for i := 0; i < blockSize; i++ {
		idct1D(block[i*blockSize:(i+1)*blockSize], coeffs)
	}
}

func dct1D(x []float64, coeffs *[blockArea]float64) {
	var tmp [blockSize]float64
	copy(tmp[:], x)
	for k := 0; k < blockSize; k++ {
		s := 0.0
		row := k * blockSize
		for n := 0; n < blockSize; n++ {
			s += tmp[n] * coeffs[row+n]
		}
		x[k] = s
	}
}

func idct1D(x []float64, coeffs *[blockArea]float64) {
	var tmp [blockSize]float64
	copy(tmp[:], x)
	for n := 0; n < blockSize; n++ {
		s := 0.0
		row := n * blockSize
		for k := 0; k < blockSize; k++ {
			s += tmp[k] * coeffs[row+k]
		}
		x[n] = s
	}
}

func transpose8x8(b []float64) {
	for y := 0; y < blockSize; y++ {
		for x := y + 1; x < blockSize; x++ {
			b[y*blockSize+x], b[x*blockSize+y] = b[x*blockSize+y], b[y*blockSize+x]
		}
	}
}

// walshHadamard applies the in-place Walsh-Hadamard butterfly to data, whose
// length must be a power of two, normalized by 1/sqrt(n).
func walshHadamard(data []float64) {
	n := len(data)
	for h := 1; h < n; h *= 2 {
		for i := 0; i < n; i += h * 2 {
			for j := i; j < i+h; j++ {
				x := data[j]
				y := data[j+h]
				data[j] = x + y
				data[j+h] = x - y
			}
		}
	}

	scale := 1.0 / math.Sqrt(float64(n))
	for i := range data {
		data[i] *= scale
	}
}
