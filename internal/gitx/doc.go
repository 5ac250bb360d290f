// Package gitx wraps the Git CLI queries mono needs: changed paths between
// references, HEAD inspection, and the tag/commit helpers used by the
// version command. It shells out to git and depends on no other internal
// package.
package gitx
