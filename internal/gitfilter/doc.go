// Package gitfilter installs nbstripout as a git clean filter and diff
// driver, removes it again, and reports its status.
//
// All git access goes through a Runner so tests can substitute a fake.
package gitfilter
