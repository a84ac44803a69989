// relrect is a CLI for the symbolic rectangle library: resolve sheet files,
// evaluate expressions, watch for edits, or explore interactively.
package main

func main() {
	Execute()
}
