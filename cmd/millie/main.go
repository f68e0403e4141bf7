// Command millie is the Millie language CLI: lex, parse, infer, then
// either print the inferred type or compile and run on the register VM
// and print the resulting value.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"millie/internal/ast"
	"millie/internal/bytecode"
	"millie/internal/compiler"
	"millie/internal/config"
	"millie/internal/diagnostics"
	"millie/internal/format"
	"millie/internal/infer"
	"millie/internal/lexer"
	"millie/internal/parser"
	"millie/internal/symbols"
	"millie/internal/token"
	"millie/internal/types"
	"millie/internal/vm"
)

const usage = `usage: millie [-t|--print-type] [-v|--verbose] [-h|--help] <file>

  -t, --print-type   print the inferred type instead of running the program
  -v, --verbose      print token/node/symbol/allocation statistics to stderr
  -h, --help         print this message and exit
`

type options struct {
	printType bool
	verbose   bool
	help      bool

	printTypeSet bool
	verboseSet   bool
}

func main() {
	opts, positional, ok := parseArgs(os.Args[1:])
	if opts.help {
		fmt.Print(usage)
		os.Exit(0)
	}
	if !ok || len(positional) != 1 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(-1)
	}

	path := positional[0]
	if file, err := config.Load(filepath.Dir(path)); err == nil {
		if !opts.printTypeSet {
			opts.printType = file.PrintType
		}
		if !opts.verboseSet {
			opts.verbose = file.Verbose
		}
	}

	os.Exit(run(path, opts))
}

// parseArgs splits switches from the single positional argument.
// Switches starting with "--" are matched whole; switches starting with
// a single "-" are split into individual characters and matched one by
// one, so "-tv" means both -t and -v. An unrecognized switch is a usage
// error (ok=false).
func parseArgs(args []string) (options, []string, bool) {
	var opts options
	var positional []string
	ok := true

	for _, arg := range args {
		switch {
		case arg == "--print-type":
			opts.printType, opts.printTypeSet = true, true
		case arg == "--verbose":
			opts.verbose, opts.verboseSet = true, true
		case arg == "--help":
			opts.help = true
		case strings.HasPrefix(arg, "--"):
			ok = false
		case strings.HasPrefix(arg, "-") && len(arg) > 1:
			for _, ch := range arg[1:] {
				switch ch {
				case 't':
					opts.printType, opts.printTypeSet = true, true
				case 'v':
					opts.verbose, opts.verboseSet = true, true
				case 'h':
					opts.help = true
				default:
					ok = false
				}
			}
		default:
			positional = append(positional, arg)
		}
	}
	return opts, positional, ok
}

// run executes the full pipeline and returns the process exit code.
func run(path string, opts options) int {
	source, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "millie: %s\n", err)
		return 1
	}
	src := string(source)

	sink := diagnostics.NewSink()
	tokens := lexer.Scan(src, sink)
	arena := ast.NewArena()
	interner := symbols.NewInterner()
	if sink.HasErrors() {
		diagnostics.Render(os.Stderr, path, src, sink.All())
		printStats(opts, tokens, arena, interner, nil, nil)
		return 1
	}

	root := parser.New(tokens, arena, interner, sink).Parse()
	if sink.HasErrors() {
		diagnostics.Render(os.Stderr, path, src, sink.All())
		printStats(opts, tokens, arena, interner, nil, nil)
		return 1
	}

	store := types.NewStore()
	checker := infer.NewChecker(store, arena, tokens, sink, interner)
	ty := checker.Infer(root)

	if sink.HasErrors() {
		diagnostics.Render(os.Stderr, path, src, sink.All())
		printStats(opts, tokens, arena, interner, nil, nil)
		return 1
	}

	if opts.printType {
		fmt.Println(store.Format(ty))
		printStats(opts, tokens, arena, interner, nil, nil)
		return 0
	}

	mod := bytecode.NewModule()
	fid := compiler.New(arena, tokens, mod, sink).Compile(root)
	if sink.HasErrors() {
		diagnostics.Render(os.Stderr, path, src, sink.All())
		printStats(opts, tokens, arena, interner, mod, nil)
		return 1
	}

	m := vm.New(mod)
	result, err := evaluate(m, fid)
	if err != nil {
		sink.Addf(diagnostics.Runtime, "", 0, len(src), "%s", err)
		diagnostics.Render(os.Stderr, path, src, sink.All())
		printStats(opts, tokens, arena, interner, mod, m)
		return 1
	}
	fmt.Println(format.Value(store, ty, m, result))
	printStats(opts, tokens, arena, interner, mod, m)
	return 0
}

// evaluate runs entry on m, recovering the runtimeError panic the VM
// raises for division by zero or an unrecognized opcode and reporting it
// as an ordinary error instead of letting it escape as a Go panic.
func evaluate(m *vm.Machine, entry bytecode.FunctionID) (result vm.Word, err error) {
	defer func() {
		if r := recover(); r != nil {
			e, ok := r.(error)
			if !ok {
				panic(r)
			}
			err = e
		}
	}()
	return m.Run(entry), nil
}

// printStats writes the --verbose stats block to stderr: token count,
// AST node count, symbols interned, compiled function count, register
// high-water mark, and the VM's lifetime-allocation counter.
func printStats(opts options, tokens *token.Table, arena *ast.Arena, interner *symbols.Interner, mod *bytecode.Module, m *vm.Machine) {
	if !opts.verbose {
		return
	}
	fmt.Fprintf(os.Stderr, "tokens: %d\n", tokens.Len())
	fmt.Fprintf(os.Stderr, "ast nodes: %d\n", arena.Len())
	fmt.Fprintf(os.Stderr, "symbols: %d\n", interner.Len())
	if mod != nil {
		maxRegs := 0
		for _, fn := range mod.Functions {
			if fn.RegisterCount > maxRegs {
				maxRegs = fn.RegisterCount
			}
		}
		fmt.Fprintf(os.Stderr, "compiled functions: %d\n", len(mod.Functions))
		fmt.Fprintf(os.Stderr, "register high-water mark: %d\n", maxRegs)
	}
	if m != nil {
		fmt.Fprintf(os.Stderr, "heap allocations: %d\n", m.Allocations)
	}
}
