// Command velac runs the phased analysis pass over a fixture module and
// reports the inferred type of every top-level def, or any diagnostics
// produced along the way.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/fatih/color"

	"github.com/vela-lang/vela/internal/diagnostics"
	"github.com/vela-lang/vela/internal/driver"
	"github.com/vela-lang/vela/internal/fixture"
)

var (
	Version   = "dev"
	BuildTime = "unknown"

	bold  = color.New(color.Bold).SprintFunc()
	green = color.New(color.FgGreen).SprintFunc()
	dim   = color.New(color.Faint).SprintFunc()
)

func main() {
	var (
		versionFlag = flag.Bool("version", false, "print version information")
		helpFlag    = flag.Bool("help", false, "show help")
		traceFlag   = flag.Bool("trace", false, "print numeric-literal defaulting decisions")
	)
	flag.Parse()

	if *versionFlag {
		fmt.Printf("velac %s (%s)\n", Version, BuildTime)
		return
	}
	if *helpFlag || flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: velac <module.yaml>")
		os.Exit(2)
	}

	path := flag.Arg(0)
	mod, err := fixture.Load(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", color.New(color.FgRed).Sprint("error"), err)
		os.Exit(1)
	}

	ctx, errs := driver.Driver{TraceDefaulting: *traceFlag}.Run(mod)
	diagnostics.Print(os.Stdout, errs)

	names := ctx.Defs.All()
	for _, d := range names {
		ty, ok := ctx.DefTypes[d.Name]
		if !ok {
			continue
		}
		fmt.Printf("%s %s %s\n", bold(d.Name), green("::"), ctx.Store.StringOf(ty))
		if *traceFlag {
			for _, tr := range ctx.DefaultingTraces[d.Name] {
				fmt.Printf("  %s literal at %s defaulted to %s\n", dim("trace:"), tr.Span, ctx.Store.StringOf(tr.Default))
			}
		}
	}

	diagnostics.Summary(os.Stdout, errs)
	if len(errs) > 0 {
		os.Exit(1)
	}
}
