/*
Command earleyrepl is an interactive demo for the earley/grammar/token
packages: it builds the arithmetic grammar from the worked example
(P -> S; S -> S '+' M | M; M -> M '*' T | T; T -> /-?[0-9]+/), tokenizes
whatever line the user types, and prints every distinct parse tree found.
*/
package main

import (
	"flag"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/chzyer/readline"
	"github.com/pterm/pterm"

	"github.com/npillmayer/schuko/gtrace"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"

	"github.com/earley-go/earleygo/earley"
	"github.com/earley-go/earleygo/grammar"
	"github.com/earley-go/earleygo/token"
)

func tracer() tracing.Trace {
	return tracing.Select("earleygo.earleyrepl")
}

// We provide a simple arithmetic grammar as the default demo grammar,
// tokenized greedily on whitespace/operators/numbers.
//
//  P ➞ S
//  S ➞ S '+' M  |  M
//  M ➞ M '*' T  |  T
//  T ➞ /-?[0-9]+/
func makeArithmeticGrammar() *grammar.Grammar {
	g := grammar.New("P")
	must(g.AddRule("P", "S"))
	must(g.AddRule("S", []interface{}{"S", regexp.MustCompile(`\+`), "M"}))
	must(g.AddRule("S", "M"))
	must(g.AddRule("M", []interface{}{"M", regexp.MustCompile(`\*`), "T"}))
	must(g.AddRule("M", "T"))
	must(g.AddRule("T", regexp.MustCompile(`-?[0-9]+`)))
	g.SetOption("collapseBranches", true)
	g.SetOption("tokenizer", makeArithmeticTokenizer())
	return g
}

func makeArithmeticTokenizer() *token.Tokenizer {
	tok := token.New()
	must(tok.AddType(regexp.MustCompile(`\s+`), token.FormatterFunc(
		func(string, []string) interface{} { return token.Drop })))
	must(tok.AddType(regexp.MustCompile(`-?[0-9]+`), nil))
	must(tok.AddType(regexp.MustCompile(`\+`), nil))
	must(tok.AddType(regexp.MustCompile(`\*`), nil))
	return tok
}

func must(err error) {
	if err != nil {
		panic(fmt.Errorf("earleyrepl: %w", err))
	}
}

func main() {
	initDisplay()
	gtrace.SyntaxTracer = gologadapter.New()
	tlevel := flag.String("trace", "Info", "Trace level [Debug|Info|Error]")
	initInput := flag.String("input", "", "Parse this line once and exit")
	flag.Parse()
	tracer().SetTraceLevel(traceLevel(*tlevel))
	pterm.Info.Println("Welcome to earleyrepl")
	tracer().Infof("Trace level is %s", *tlevel)

	g := makeArithmeticGrammar()
	p := earley.NewParser(g)

	if line := strings.TrimSpace(*initInput); line != "" {
		runLine(p, line)
		return
	}

	repl, err := readline.New("earley> ")
	if err != nil {
		tracer().Errorf(err.Error())
		os.Exit(3)
	}
	defer repl.Close()
	tracer().Infof("Quit with <ctrl>D")
	for {
		line, err := repl.Readline()
		if err != nil { // io.EOF, ctrl-D
			break
		}
		if line = strings.TrimSpace(line); line == "" {
			continue
		}
		runLine(p, line)
	}
	pterm.Info.Println("Good bye!")
}

func runLine(p *earley.Parser, line string) {
	results, err := p.Parse(line)
	if err != nil {
		pterm.Error.Println(err.Error())
		return
	}
	if len(results) == 0 {
		pterm.Info.Println("no parse")
		return
	}
	for i, r := range results {
		pterm.Println(fmt.Sprintf("parse %d", i+1))
		root := pterm.NewTreeFromLeveledList(leveledElem(r, pterm.LeveledList{}, 0))
		pterm.DefaultTree.WithRoot(root).Render()
	}
}

func leveledElem(v interface{}, ll pterm.LeveledList, level int) pterm.LeveledList {
	children, ok := v.([]interface{})
	if !ok {
		return append(ll, pterm.LeveledListItem{Level: level, Text: fmt.Sprintf("%v", v)})
	}
	for _, c := range children {
		ll = leveledElem(c, ll, level+1)
	}
	return ll
}

// We use pterm for moderately fancy output.
func initDisplay() {
	pterm.Info.Prefix = pterm.Prefix{
		Text:  "  >>",
		Style: pterm.NewStyle(pterm.BgCyan, pterm.FgBlack),
	}
	pterm.Error.Prefix = pterm.Prefix{
		Text:  "  Error",
		Style: pterm.NewStyle(pterm.BgRed, pterm.FgBlack),
	}
}

func traceLevel(l string) tracing.TraceLevel {
	return tracing.TraceLevelFromString(l)
}
