// Package lax implements the Lax language: a scanner, a recursive-descent
// parser producing an AST, a tree-walking interpreter and a printer that
// renders expressions in parenthesized prefix form.
//
// Most callers go through Engine:
//
//	engine := lax.MustNewEngine(lax.Config{Stdout: os.Stdout})
//	if err := engine.Run(`print 1 + 2;`); err != nil {
//		for _, fault := range lax.Errors(err) {
//			fmt.Fprintln(os.Stderr, fault)
//		}
//	}
package lax
