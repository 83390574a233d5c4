package config

import "slices"

// slicesConcat is a backport of Go 1.22's slices.Concat for Go 1.21
// toolchains. It returns a new slice concatenating the passed-in slices.
func slicesConcat[S ~[]E, E any](ss ...S) S {
	size := 0
	for _, s := range ss {
		size += len(s)
		if size < 0 {
			panic("len out of range")
		}
	}
	newslice := slices.Grow[S](nil, size)
	for _, s := range ss {
		newslice = append(newslice, s...)
	}
	return newslice
}
