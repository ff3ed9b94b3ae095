package matrix

import (
	"fmt"
	"math/bits"
)

// Power computes res = m^p for a square m and p >= 0.
//
// p == 0 yields the identity, p == 1 a copy and p == 2 a single Multiply.
// Larger exponents use binary exponentiation over three private scratch
// roots whose storage is swapped rather than copied after every product.
// res may be m.
func (e *Engine) Power(res, m *Matrix, p int) error {
	if err := checkLive(res, m); err != nil {
		return matrixErrorf(opPow, err)
	}
	if m.rows != m.cols {
		return fmt.Errorf("%s: %w: %dx%d", opPow, ErrNotSquare, m.rows, m.cols)
	}
	if p < 0 {
		return fmt.Errorf("%s: %w: %d", opPow, ErrNegativeExponent, p)
	}
	if !sameShape(res, m) {
		return mismatch(opPow, m, res)
	}

	switch p {
	case 0:
		return e.Identity(res)
	case 1:
		return e.Copy(res, m)
	case 2:
		return e.Multiply(res, m, m)
	}
	return e.powerBySquaring(res, m, uint64(p))
}

func (e *Engine) powerBySquaring(res, m *Matrix, p uint64) error {
	n := m.rows
	var scratch [3]*Matrix
	defer func() {
		for _, s := range scratch {
			e.Release(s)
		}
	}()
	for i := range scratch {
		s, err := e.AllocateRoot(n, n)
		if err != nil {
			return matrixErrorf(opPow, err)
		}
		scratch[i] = s
	}
	acc, base, tmp := scratch[0], scratch[1], scratch[2]

	// base is a private copy, so res may alias m.
	e.copyInto(base, m)

	seeded := false
	nbits := bits.Len64(p)
	for i := range nbits {
		if p>>uint(i)&1 == 1 {
			if !seeded {
				// acc is the identity here; identity·base is base.
				e.copyInto(acc, base)
				seeded = true
			} else {
				if err := e.multiply(tmp, acc, base); err != nil {
					return matrixErrorf(opPow, err)
				}
				acc.swapStorage(tmp)
			}
		}
		if i < nbits-1 {
			if err := e.multiply(tmp, base, base); err != nil {
				return matrixErrorf(opPow, err)
			}
			base.swapStorage(tmp)
		}
	}

	e.copyInto(res, acc)
	return nil
}
