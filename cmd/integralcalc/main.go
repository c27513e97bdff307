// Command integralcalc is the terminal integral calculator.
//
// Usage:
//
//	integralcalc                         # interactive
//	integralcalc -f 'x**2' -a 0 -b 2     # one calculation, printed
//	integralcalc -config ./config.yaml -history ./history.yaml -format strict
package main

import (
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
	"go.uber.org/zap"

	"github.com/njchilds90/integralcalc/internal/calc"
	"github.com/njchilds90/integralcalc/internal/calcerr"
	"github.com/njchilds90/integralcalc/internal/config"
	"github.com/njchilds90/integralcalc/internal/history"
	"github.com/njchilds90/integralcalc/internal/logging"
	"github.com/njchilds90/integralcalc/internal/plot"
	"github.com/njchilds90/integralcalc/internal/tui"
)

func main() {
	configFlag := flag.String("config", "", "Config file (default: config.yaml in . or the user config dir)")
	historyFlag := flag.String("history", "", "History file, overrides history.path")
	formatFlag := flag.String("format", "", "History format: text or strict, overrides history.format")
	logFlag := flag.String("log", "", "Log file, overrides log.file")
	function := flag.String("f", "", "Function of x to integrate (headless mode)")
	lower := flag.String("a", "", "Lower limit (headless mode)")
	upper := flag.String("b", "", "Upper limit (headless mode)")
	save := flag.Bool("save", false, "Save the history after a headless calculation")
	flag.Parse()

	cfg, err := config.Load(*configFlag)
	if err != nil {
		fatal("%v", err)
	}
	if *historyFlag != "" {
		cfg.History.Path = *historyFlag
	}
	if *formatFlag != "" {
		cfg.History.Format = *formatFlag
	}
	if *logFlag != "" {
		cfg.Log.File = *logFlag
	}
	if err := cfg.Validate(); err != nil {
		fatal("%v", err)
	}

	log, closeLog, err := logging.New(cfg.Log)
	if err != nil {
		fatal("%v", err)
	}
	defer closeLog()

	store := history.NewStore(cfg.History.Path, history.WithCodec(cfg.Codec()), history.WithLogger(log.Named("history")))
	report, err := store.Load()
	if err != nil {
		log.Warn("history not loaded", zap.Error(err))
	}
	if report.Skipped > 0 {
		fmt.Fprintf(os.Stderr, "warning: %d malformed history entries in %s were skipped\n", report.Skipped, store.Path())
	}

	c := calc.New(store, calc.WithLogger(log.Named("calc")))

	if *function != "" {
		code := headless(c, store, *function, *lower, *upper, *save)
		closeLog()
		os.Exit(code)
	}

	m := tui.NewModel(tui.Deps{
		Calculator: c,
		Renderer:   plot.NewRenderer(cfg.Plot, log.Named("plot")),
		Exports:    cfg.Export,
		Log:        log.Named("tui"),
	})
	var opts []tea.ProgramOption
	if isTerminal(os.Stdout.Fd()) {
		opts = append(opts, tea.WithAltScreen())
	}
	if _, err := tea.NewProgram(m, opts...).Run(); err != nil {
		closeLog()
		fatal("TUI error: %s", err)
	}
}

func headless(c *calc.Calculator, store *history.Store, function, lower, upper string, save bool) int {
	res, err := c.ComputeDefinite(function, lower, upper)
	if err != nil {
		fmt.Fprintln(os.Stderr, tui.ErrorStyle.Render(calcerr.Title(err)+": "+calcerr.Message(err)))
		return 1
	}
	fmt.Println(calc.IndefiniteText(res.Indefinite))
	if res.Definite != nil {
		fmt.Printf("exact: %s\n", res.Definite)
	}
	fmt.Println(calc.DefiniteDisplay(res.Value))
	if save {
		if err := store.Save(); err != nil {
			fmt.Fprintln(os.Stderr, tui.ErrorStyle.Render("error: "+err.Error()))
			return 1
		}
	}
	return 0
}

func isTerminal(fd uintptr) bool {
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func fatal(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(os.Stderr, tui.ErrorStyle.Render("error: "+msg))
	os.Exit(1)
}
