package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"
)

func showUsage() {
	fmt.Fprintf(os.Stderr, `Rill - semantic analyzer for a small Rust-like language

Usage:
    rill <command> [arguments]

Commands:
    check <file>    Analyze a .rill file and report diagnostics
    ir <file>       Analyze a .rill file and print its quadruples
    ast <file>      Analyze a .rill file and print its AST
    repl            Interactive session
    help            Show this help message

Examples:
    rill check examples/fib.rill
    rill ir examples/fib.rill
    rill repl

Use "rill <command> -h" for more information about a command.
`)
}

func readSource(filename string) []byte {
	source, err := os.ReadFile(filename)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading file %s: %v\n", filename, err)
		os.Exit(1)
	}
	return source
}

func analyzeOrExit(filename string, source []byte) *Result {
	res, err := AnalyzeProgram(source)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", filename, err)
		os.Exit(2)
	}
	if res.Diags.HasErrors() {
		fmt.Fprintf(os.Stderr, "%s:\n%s\n", filename, res.Diags.String())
		os.Exit(1)
	}
	return res
}

func checkCommand(args []string) {
	fs := flag.NewFlagSet("check", flag.ExitOnError)
	verbose := fs.Bool("v", false, "Also print the symbol table")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: rill check [-v] <file>\n")
		fmt.Fprintf(os.Stderr, "Analyze a .rill file and report diagnostics\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	if fs.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "Error: expected exactly one file argument\n")
		fs.Usage()
		os.Exit(1)
	}
	filename := fs.Arg(0)

	res := analyzeOrExit(filename, readSource(filename))
	fmt.Printf("%s: no errors found\n", filename)
	if *verbose {
		fmt.Println(res.Symbols.String())
	}
}

func irCommand(args []string) {
	fs := flag.NewFlagSet("ir", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: rill ir <file>\n")
		fmt.Fprintf(os.Stderr, "Analyze a .rill file and print its quadruples\n")
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	if fs.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "Error: expected exactly one file argument\n")
		fs.Usage()
		os.Exit(1)
	}
	filename := fs.Arg(0)

	res := analyzeOrExit(filename, readSource(filename))
	fmt.Println(DumpQuads(res.Quads))
}

func astCommand(args []string) {
	fs := flag.NewFlagSet("ast", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: rill ast <file>\n")
		fmt.Fprintf(os.Stderr, "Analyze a .rill file and print its AST\n")
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	if fs.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "Error: expected exactly one file argument\n")
		fs.Usage()
		os.Exit(1)
	}
	filename := fs.Arg(0)

	res := analyzeOrExit(filename, readSource(filename))
	fmt.Println(ToSExpr(res.AST))
}

const (
	replHistoryFile = ".rill_history"
	replPromptMain  = ">>> "
	replPromptCont  = "... "
	replBanner      = "Rill REPL - Ctrl+D to exit. Input is analyzed, not executed; quads are printed."
)

// replCommand reads programs (or statement snippets, which get wrapped
// in fn main) until their braces balance, analyzes them, and prints
// the resulting quads or diagnostics.
func replCommand() {
	fmt.Println(replBanner)

	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, replHistoryFile)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}

	for {
		code, ok := readBalanced(ln)
		if !ok {
			fmt.Println()
			break
		}
		if strings.TrimSpace(code) == "" {
			continue
		}

		src := code
		if !strings.HasPrefix(strings.TrimSpace(src), "fn") {
			src = "fn main() {\n" + src + "\n}"
		}

		res, err := AnalyzeProgram([]byte(src))
		if err != nil {
			fmt.Println(err)
			continue
		}
		if res.Diags.HasErrors() {
			fmt.Println(res.Diags.String())
		} else {
			fmt.Println(DumpQuads(res.Quads))
		}
		ln.AppendHistory(strings.ReplaceAll(code, "\n", " "))
	}

	if f, err := os.Create(histPath); err == nil {
		_, _ = ln.WriteHistory(f)
		_ = f.Close()
	}
}

// readBalanced accumulates lines until braces, brackets, and parens
// balance, so multi-line functions can be typed naturally.
func readBalanced(ln *liner.State) (string, bool) {
	var b strings.Builder
	for {
		prompt := replPromptMain
		if b.Len() > 0 {
			prompt = replPromptCont
		}
		line, err := ln.Prompt(prompt)
		if errors.Is(err, io.EOF) {
			return "", false
		}
		if err != nil {
			// Ctrl+C drops the current input.
			return "", true
		}
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)

		if bracesBalanced(b.String()) {
			return b.String(), true
		}
	}
}

func bracesBalanced(src string) bool {
	depth := 0
	for i := 0; i < len(src); i++ {
		switch src[i] {
		case '{', '(', '[':
			depth++
		case '}', ')', ']':
			depth--
		case '/':
			if i+1 < len(src) && src[i+1] == '/' {
				for i < len(src) && src[i] != '\n' {
					i++
				}
			}
		}
	}
	return depth <= 0
}

func main() {
	if len(os.Args) < 2 {
		showUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "check":
		checkCommand(args)
	case "ir":
		irCommand(args)
	case "ast":
		astCommand(args)
	case "repl":
		replCommand()
	case "help", "-h", "--help":
		showUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		showUsage()
		os.Exit(1)
	}
}
