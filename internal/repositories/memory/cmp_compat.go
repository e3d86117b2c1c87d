package memory

// cmpOr returns the first of its arguments that is not zero, or zero if
// all are. It mirrors cmp.Or from Go 1.22, which this module's Go 1.21
// toolchain does not provide.
func cmpOr(vals ...int) int {
	for _, v := range vals {
		if v != 0 {
			return v
		}
	}
	return 0
}
