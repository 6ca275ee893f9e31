package utils

import (
	"strconv"
)

// StringToUint converts a route/form parameter to a uint, returning 0 on any
// parse failure.
func StringToUint(s string) uint {
	i, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0
	}
	return uint(i)
}
