package types

// Client-supplied integers (quantities, display orders) must stay within the
// range a JSON number holds exactly.
const (
	MaxSafeInteger int64 = 1<<53 - 1
	MinSafeInteger int64 = -MaxSafeInteger
)

// SafeInteger reports whether n is within [MinSafeInteger, MaxSafeInteger].
func SafeInteger(n int) bool {
	v := int64(n)
	return v >= MinSafeInteger && v <= MaxSafeInteger
}
