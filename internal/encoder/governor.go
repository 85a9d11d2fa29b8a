package encoder

// samplingDivisors maps each documented sampling percentage to its gate
// divisor (100 / sampling). Values outside this table disable the gate.
var samplingDivisors = map[int]int{
	5:   20,
	10:  10,
	20:  5,
	25:  4,
	50:  2,
	100: 1,
}

// ShouldEncode decides whether a candidate region update is encoded this
// cycle. regionUpdateCount is the already-incremented candidate counter;
// samplingRate is the configured percentage of updates to keep.
//
// A rate outside the documented set means "always encode" rather than an
// error, and the divisor is only ever taken from the table, so a zero
// modulus is unreachable. Fullscreen and cursor updates bypass this gate
// entirely.
func ShouldEncode(regionUpdateCount int32, samplingRate int) bool {
	divisor, ok := samplingDivisors[samplingRate]
	if !ok || divisor <= 1 {
		return true
	}

	return regionUpdateCount%int32(divisor) == 0
}
