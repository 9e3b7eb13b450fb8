package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rcliao/bmicalc/internal/bmi"
	"github.com/rcliao/bmicalc/internal/model"
	"github.com/rcliao/bmicalc/internal/session"
	"github.com/rcliao/bmicalc/internal/store"
	"github.com/rcliao/bmicalc/internal/units"
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "repl",
		Short: "Start an interactive calculator session",
		Long:  "Start an interactive session. History and statistics last until the session ends. Type 'help' for commands.",
		Run:   runRepl,
	}

	cmd.Flags().StringP("units", "u", "", "Starting unit system: metric or imperial (default from config)")

	RootCmd.AddCommand(cmd)
}

func runRepl(cmd *cobra.Command, args []string) {
	unitsStr, _ := cmd.Flags().GetString("units")

	system := cfg.UnitSystem()
	if unitsStr != "" {
		u, err := model.ParseUnitSystem(unitsStr)
		if err != nil {
			exitErr("repl", err)
		}
		system = u
	}

	s, err := store.NewSQLiteStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	r := &repl{
		sess:   session.New(system, cfg.Evaluator()),
		log:    s,
		out:    cmd.OutOrStdout(),
		format: cfg.Format,
		now:    time.Now,
		prompt: isTerminal(os.Stdin),
	}
	if err := r.run(cmd.Context(), cmd.InOrStdin()); err != nil {
		exitErr("repl", err)
	}
}

func isTerminal(f *os.File) bool {
	stat, err := f.Stat()
	return err == nil && stat.Mode()&os.ModeCharDevice != 0
}

const replHelp = `Commands:
  units <metric|imperial>   switch unit system (clears fields)
  set <field> [value]       set height, weight, feet, inches or pounds
  calc                      calculate BMI
  press                     calculate, or start a new calculation after one
  reset                     clear fields and result (history is kept)
  show                      show current input and result
  history                   show the last 10 results
  stats                     summarize this session's calculations
  export                    dump this session's calculations as JSON
  table                     show the category reference table
  quit                      end the session`

type repl struct {
	sess   session.Session
	log    store.Store
	out    io.Writer
	format string
	now    func() time.Time
	prompt bool
}

var errQuit = errors.New("quit")

func (r *repl) run(ctx context.Context, in io.Reader) error {
	sc := bufio.NewScanner(in)
	for {
		if r.prompt {
			fmt.Fprintf(r.out, "[%s|%s] > ", r.sess.UnitSystem(), r.sess.State())
		}
		if !sc.Scan() {
			return sc.Err()
		}
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		err := r.exec(ctx, line)
		if errors.Is(err, errQuit) {
			return nil
		}
		if err != nil {
			fmt.Fprintf(r.out, "error: %v\n", err)
		}
	}
}

func (r *repl) exec(ctx context.Context, line string) error {
	fields := strings.Fields(line)
	name, args := strings.ToLower(fields[0]), fields[1:]

	switch name {
	case "units", "unit":
		if len(args) != 1 {
			return fmt.Errorf("usage: units <metric|imperial>")
		}
		u, err := model.ParseUnitSystem(args[0])
		if err != nil {
			return err
		}
		r.sess = r.sess.SwitchUnits(u)
		fmt.Fprintf(r.out, "Units: %s\n", u)
	case "set":
		if len(args) < 1 {
			return fmt.Errorf("usage: set <field> [value]")
		}
		f, err := units.ParseField(args[0])
		if err != nil {
			return err
		}
		next, err := r.sess.SetField(f, strings.Join(args[1:], " "))
		if err != nil {
			return err
		}
		r.sess = next
	case "calc", "calculate":
		return r.calculate(ctx)
	case "press":
		if r.sess.State() == session.Calculated {
			r.sess = r.sess.Reset()
			fmt.Fprintln(r.out, "Ready for a new calculation.")
			return nil
		}
		return r.calculate(ctx)
	case "reset", "new":
		r.sess = r.sess.Reset()
		fmt.Fprintln(r.out, "Ready for a new calculation.")
	case "show":
		r.show()
	case "history":
		renderHistory(r.out, r.format, r.sess.History())
	case "stats":
		st, err := r.log.Stats(ctx)
		if err != nil {
			return fmt.Errorf("stats: %w", err)
		}
		renderStats(r.out, r.format, st)
	case "export":
		rows, err := r.log.ExportAll(ctx)
		if err != nil {
			return fmt.Errorf("export: %w", err)
		}
		if rows == nil {
			rows = []store.Row{}
		}
		printJSON(r.out, rows)
	case "table", "categories":
		renderReference(r.out, r.format)
	case "help", "?":
		fmt.Fprintln(r.out, replHelp)
	case "quit", "exit", "q":
		return errQuit
	default:
		return fmt.Errorf("unknown command %q (try 'help')", name)
	}
	return nil
}

func (r *repl) calculate(ctx context.Context) error {
	next, err := r.sess.Calculate(r.now())
	if err != nil {
		logger.Printf("rejected: %v", err)
		return err
	}
	r.sess = next

	res, _ := r.sess.Result()
	e, _ := r.sess.History().Newest()
	if _, err := r.log.Record(ctx, e); err != nil {
		logger.Printf("record calculation %d: %v", e.ID, err)
		fmt.Fprintf(r.out, "warning: calculation %d not added to session stats: %v\n", e.ID, err)
	}
	logger.Printf("calculated bmi=%.1f category=%q system=%s", res.Value, res.Category, e.UnitSystem)
	renderResult(r.out, r.format, res, e)
	return nil
}

func (r *repl) show() {
	in := r.sess.Input()
	fmt.Fprintf(r.out, "Units: %s (%s)\n", in.System, r.sess.State())
	for _, f := range units.Fields(in.System) {
		fmt.Fprintf(r.out, "  %-7s %q\n", f, in.Get(f))
	}
	if res, ok := r.sess.Result(); ok {
		fmt.Fprintf(r.out, "BMI: %s %s\n", bmi.Format(res.Value), res.Category)
	}
}
