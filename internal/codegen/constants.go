// Package codegen emits Go source that rebuilds a parsed syntax tree.
package codegen

import "fmt"

// Import path of the tree package referenced by generated code.
const astPath = "github.com/KromDaniel/regast/ast"

// Identifier suffixes used in generated code
const (
	SourceSuffix = "Source"
	NodePrefix   = "n"
)

// NodeVar returns the variable name for the id-th node in post-order.
func NodeVar(id int) string {
	return fmt.Sprintf("%s%d", NodePrefix, id)
}

// UpperFirst converts the first character of a string to uppercase.
func UpperFirst(s string) string {
	if s == "" {
		return s
	}
	return string(s[0]&^0x20) + s[1:]
}
