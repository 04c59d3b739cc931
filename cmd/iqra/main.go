package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/iqra-lang/iqra/pkg/iqra/config"
	"github.com/iqra-lang/iqra/pkg/iqra/evaluator"
	"github.com/iqra-lang/iqra/pkg/iqra/iqra"
	"github.com/iqra-lang/iqra/pkg/iqra/repl"
)

// Version is set at compile time via -ldflags
var Version = "0.3.0"

var (
	helpFlag        = flag.Bool("h", false, "Show help message")
	helpLongFlag    = flag.Bool("help", false, "Show help message")
	versionFlag     = flag.Bool("V", false, "Show version information")
	versionLongFlag = flag.Bool("version", false, "Show version information")

	evalFlag     = flag.String("e", "", "Evaluate code string")
	evalLongFlag = flag.String("eval", "", "Evaluate code string")
	localeFlag   = flag.String("locale", "", "Formatting locale (overrides .iqra.yaml)")
)

func main() {
	// Subcommands come before flag parsing
	if len(os.Args) > 1 && os.Args[1] == "watch" {
		watchCommand(os.Args[2:])
		return
	}

	flag.Usage = printHelp
	flag.Parse()

	if *helpFlag || *helpLongFlag {
		printHelp()
		os.Exit(0)
	}
	if *versionFlag || *versionLongFlag {
		fmt.Printf("iqra version %s\n", Version)
		os.Exit(0)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(2)
	}
	if *localeFlag != "" {
		cfg.Locale = *localeFlag
	}

	// The process owns exactly one executor; everything below shares it
	rt := iqra.New(evaluator.NewDefaultSystemExecutor(), iqra.WithLocale(cfg.Locale))

	evalCode := *evalFlag
	if evalCode == "" {
		evalCode = *evalLongFlag
	}

	switch {
	case evalCode != "":
		os.Exit(runSource(rt, evalCode))
	case len(flag.Args()) > 0:
		os.Exit(runFile(rt, flag.Args()[0]))
	default:
		repl.Start(os.Stdout, rt, cfg, Version)
	}
}

func runFile(rt *iqra.Runtime, filename string) int {
	source, err := os.ReadFile(filename)
	if err != nil {
		fmt.Fprintf(os.Stderr, "iqra: %v\n", err)
		return 2
	}
	return runSource(rt, string(source))
}

func runSource(rt *iqra.Runtime, source string) int {
	if _, err := rt.Run(source); err != nil {
		fmt.Fprintln(os.Stderr, err.String())
		return 1
	}
	return 0
}

func printHelp() {
	fmt.Printf(`iqra - bilingual Arabic/English language interpreter, version %s

Usage:
  iqra                  Start the interactive REPL
  iqra script.iqra      Run a script
  iqra -e "code"        Evaluate a code string
  iqra watch script.iqra
                        Re-run the script whenever it changes

Flags:
  -e, -eval string      Evaluate code string
  -locale string        Formatting locale, e.g. en or ar (overrides .iqra.yaml)
  -h, -help             Show this help
  -V, -version          Show version

Environment:
  IQRA_ALLOW_SHELL_FALLBACK=1
                        Allow نفذ_أمر/system to fall back to the shell when
                        the program is not found (unsafe for untrusted input)

Exit codes:
  0  success
  1  script error
  2  usage or I/O error
`, Version)
}
