package grid

// DetectLines returns the indices i where profile[i] exceeds profile[i+1]
// by more than z, in ascending order.
func DetectLines(profile []int, z int) []int {
	return appendLines(nil, profile, z)
}

func appendLines(dst, profile []int, z int) []int {
	for i := 0; i+1 < len(profile); i++ {
		if profile[i] > profile[i+1]+z {
			dst = append(dst, i)
		}
	}
	return dst
}
