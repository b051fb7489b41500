// Command velarepl is an interactive read-eval-print loop over the type
// inference engine: each `def name = expr` line is added to a running
// module and the whole module is re-analyzed, reporting the new def's
// inferred type or any diagnostics it introduced.
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/peterh/liner"

	"github.com/vela-lang/vela/internal/ast"
	"github.com/vela-lang/vela/internal/diagnostics"
	"github.com/vela-lang/vela/internal/driver"
	"github.com/vela-lang/vela/internal/fixture"
)

var (
	green  = color.New(color.FgGreen).SprintFunc()
	red    = color.New(color.FgRed).SprintFunc()
	cyan   = color.New(color.FgCyan).SprintFunc()
	bold   = color.New(color.Bold).SprintFunc()
	dim    = color.New(color.Faint).SprintFunc()
)

// session holds the running module built up across REPL lines.
type session struct {
	mod *ast.Module
}

func newSession() *session {
	// The driver requires the three lang-item classes; a REPL session has
	// no source file to declare them in, so seed them as a prelude.
	span := ast.Span{File: "<prelude>"}
	prelude := []*ast.ClassDecl{
		{Name: "Neg", Attributes: []ast.Attribute{{Name: "lang", Args: []string{"neg"}, Span: span}}, Span: span},
		{Name: "Not", Attributes: []ast.Attribute{{Name: "lang", Args: []string{"not"}, Span: span}}, Span: span},
		{Name: "Union", Attributes: []ast.Attribute{{Name: "lang", Args: []string{"union"}, Span: span}}, Span: span},
	}
	return &session{mod: &ast.Module{Classes: prelude}}
}

// tryDef adds name/body as a new def, analyzes the whole session, and
// reports the result. On a type error the def is rolled back so the
// session stays usable.
func (s *session) tryDef(name, body string, out io.Writer) {
	expr, err := fixture.ParseExpr(body, "<repl>")
	if err != nil {
		fmt.Fprintf(out, "%s %v\n", red("parse error:"), err)
		return
	}
	decl := &ast.DefDecl{Name: name, Body: expr, Span: ast.Span{File: "<repl>"}}
	s.mod.Defs = append(s.mod.Defs, decl)

	ctx, errs := driver.Driver{}.Run(s.mod)
	if len(errs) > 0 {
		diagnostics.Print(out, errs)
		s.mod.Defs = s.mod.Defs[:len(s.mod.Defs)-1]
		return
	}
	ty := ctx.DefTypes[name]
	fmt.Fprintf(out, "%s %s %s\n", bold(name), cyan("::"), ctx.Store.StringOf(ty))
}

func main() {
	s := newSession()
	line := liner.NewLiner()
	defer line.Close()

	historyFile := filepath.Join(os.TempDir(), ".vela_history")
	if f, err := os.Open(historyFile); err == nil {
		_, _ = line.ReadHistory(f)
		f.Close()
	}

	fmt.Printf("%s\n", bold("vela type-inference REPL"))
	fmt.Println(dim("Enter `def name = expr`; :quit to exit."))

	counter := 0
	for {
		input, err := line.Prompt("vela> ")
		if err == io.EOF {
			fmt.Println(green("\nGoodbye!"))
			break
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s %v\n", red("error:"), err)
			continue
		}
		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		line.AppendHistory(input)

		if input == ":quit" || input == ":q" {
			break
		}
		if input == ":help" {
			fmt.Println(dim("def name = expr    add a def and show its inferred type"))
			fmt.Println(dim("expr               infer an anonymous expression's type"))
			fmt.Println(dim(":quit              exit"))
			continue
		}

		name := fmt.Sprintf("_%d", counter)
		body := input
		if strings.HasPrefix(input, "def ") {
			rest := strings.TrimPrefix(input, "def ")
			parts := strings.SplitN(rest, "=", 2)
			if len(parts) != 2 {
				fmt.Fprintf(os.Stderr, "%s expected `def name = expr`\n", red("error:"))
				continue
			}
			name = strings.TrimSpace(parts[0])
			body = strings.TrimSpace(parts[1])
		} else {
			counter++
		}
		s.tryDef(name, body, os.Stdout)
	}

	if f, err := os.Create(historyFile); err == nil {
		_, _ = line.WriteHistory(f)
		f.Close()
	}
}
