package translator

import "math/big"

// signedDecimal reinterprets an unsigned bit pattern as two's-complement
// signed, given the variable's declared bit width. If numBits is <= 0 the
// value is returned unchanged (no sign bit to interpret).
func signedDecimal(v *big.Int, numBits int) *big.Int {
	if numBits <= 0 {
		return v
	}
	signBit := new(big.Int).Lsh(big.NewInt(1), uint(numBits-1))
	if v.Cmp(signBit) < 0 {
		return v
	}
	modulus := new(big.Int).Lsh(big.NewInt(1), uint(numBits))
	return new(big.Int).Sub(v, modulus)
}
