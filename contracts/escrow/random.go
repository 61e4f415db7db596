package escrow

// Contributor selection is driven by a linear congruential generator. It is
// intentionally fast and non-cryptographic: unpredictability is not a
// security property here, only a fairness heuristic spreading the cost of
// repeated account creations across the contributor pool. The same
// (contributor set, seed, salt) triple always yields the same ordering, so
// any selection can be re-derived by auditors.
const (
	lcgMultiplier = 1103515245
	lcgIncrement  = 12345
	lcgModulus    = 0x7fffffff
)

// generateRandom produces one pseudo-random value from a seed and a salt.
// The seed is reduced modulo the generator modulus first, which does not
// change the generator output and keeps the multiplication within 63 bits.
// The salt is used raw: with next below 2^31 and salts derived from at most
// four bytes the product also stays within 63 bits, so the result is
// identical on the VM big integers and on 64-bit host integers.
func generateRandom(seed, salt int) int {
	seed = seed % lcgModulus

	next := (lcgMultiplier*seed + lcgIncrement) % lcgModulus

	return (next * salt) >> 31
}

// selectIndexes maps the decimal digits of value, least significant first,
// onto indexes of a count-sized list. Only the first occurrence of every
// index is kept, so the result length is bounded by min(count, digits).
func selectIndexes(value, count int) []int {
	chosen := []int{}

	for size := count; size > 0 && value > 0; size-- {
		digit := value % 10
		index := digit % count

		if !containsInt(chosen, index) {
			chosen = append(chosen, index)
		}

		value = value / 10
	}

	return chosen
}

// seedFromBytes interprets up to four leading bytes as a big-endian integer.
// Used to derive generator inputs from account identifiers.
func seedFromBytes(b []byte) int {
	v := 0
	for i := 0; i < 4 && i < len(b); i++ {
		v = v<<8 + int(b[i])
	}

	return v
}

func containsInt(list []int, value int) bool {
	for i := range list {
		if list[i] == value {
			return true
		}
	}

	return false
}
