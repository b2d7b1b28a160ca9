package utils

const (
	MinPartySize = 1
	MaxPartySize = 8
)

// ValidPartySize reports whether size is within the bookable range.
func ValidPartySize(size int) bool {
	return size >= MinPartySize && size <= MaxPartySize
}

// PartySizeOptions returns the selectable sizes for the intake form.
func PartySizeOptions() []int {
	options := make([]int, 0, MaxPartySize-MinPartySize+1)
	for size := MinPartySize; size <= MaxPartySize; size++ {
		options = append(options, size)
	}
	return options
}
