// Package common holds small pieces shared across lingo packages.
package common

// ContextKey is the type used for all context values set by this module.
type ContextKey string

func (c ContextKey) String() string {
	return "lingo/" + string(c)
}
