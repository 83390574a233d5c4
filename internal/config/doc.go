// Package config assembles the policy configuration for one invocation.
//
// Option values come from three places, in increasing precedence: the
// built-in defaults, the first configuration section found by walking up
// from the processed files (a [tool.nbstripout] table in pyproject.toml or
// an [nbstripout] section in setup.cfg), and the command line. Sections are
// validated against an embedded CUE schema before they are applied.
package config
