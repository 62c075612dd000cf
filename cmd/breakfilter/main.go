package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	breakfilter "github.com/goliatone/go-breakfilter"
	"github.com/goliatone/go-breakfilter/launch"
)

type cliError struct {
	code int
	err  error
}

func (e cliError) Error() string { return e.err.Error() }

func main() {
	root := newRootCommand()
	if err := root.Execute(); err != nil {
		var ce cliError
		if errors.As(err, &ce) {
			fmt.Fprintln(os.Stderr, ce.err)
			os.Exit(ce.code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "breakfilter",
		Short:         "Breakpoint filter expression tool",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newCheckCommand())
	root.AddCommand(newEvalCommand())
	root.AddCommand(newLaunchCommand())
	return root
}

func newCompiler(engine string) (breakfilter.Compiler, error) {
	switch engine {
	case "", "expr":
		return breakfilter.NewExprCompiler(), nil
	case "cel":
		return breakfilter.NewCELCompiler(), nil
	case "js":
		compiler := breakfilter.NewJSCompiler()
		if compiler == nil {
			return nil, fmt.Errorf("js engine requires building with the js_eval tag")
		}
		return compiler, nil
	default:
		return nil, fmt.Errorf("unknown engine %q (expected expr, cel, or js)", engine)
	}
}

func newCheckCommand() *cobra.Command {
	var engine string
	cmd := &cobra.Command{
		Use:   "check <expression>",
		Short: "Validate a filter expression without evaluating it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			compiler, err := newCompiler(engine)
			if err != nil {
				return err
			}
			evaluator := breakfilter.New(breakfilter.WithCompiler(compiler))
			if err := evaluator.IsValidExpression(args[0]); err != nil {
				return cliError{code: 2, err: err}
			}
			fmt.Fprintln(cmd.OutOrStdout(), "valid")
			return nil
		},
	}
	cmd.Flags().StringVar(&engine, "engine", "expr", "expression engine (expr, cel, js)")
	return cmd
}

func newEvalCommand() *cobra.Command {
	var engine string
	vars := breakfilter.Variables{}
	cmd := &cobra.Command{
		Use:   "eval <expression>",
		Short: "Evaluate a filter expression against explicit variables",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			compiler, err := newCompiler(engine)
			if err != nil {
				return err
			}
			evaluator := breakfilter.New(breakfilter.WithCompiler(compiler))
			result, err := evaluator.Evaluate(args[0], vars)
			if err != nil {
				return cliError{code: 2, err: err}
			}
			fmt.Fprintln(cmd.OutOrStdout(), result)
			return nil
		},
	}
	cmd.Flags().StringVar(&engine, "engine", "expr", "expression engine (expr, cel, js)")
	cmd.Flags().StringVar(&vars.Machine, "machine-name", "", "MachineName variable")
	cmd.Flags().IntVar(&vars.PID, "process-id", 0, "ProcessId variable")
	cmd.Flags().StringVar(&vars.Process, "process-name", "", "ProcessName variable")
	cmd.Flags().IntVar(&vars.TID, "thread-id", 0, "ThreadId variable")
	cmd.Flags().StringVar(&vars.Thread, "thread-name", "", "ThreadName variable")
	return cmd
}

func newLaunchCommand() *cobra.Command {
	launchCmd := &cobra.Command{Use: "launch", Short: "Inspect launch profiles"}

	var name, defaultHost string
	showCmd := &cobra.Command{
		Use:   "show <profile-file>",
		Short: "Print the effective launch options from a profile document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := launch.LoadProfiles(args[0])
			if err != nil {
				return cliError{code: 2, err: err}
			}
			var selected launch.Options
			if name != "" {
				cfg, ok := doc.Find(name)
				if !ok {
					return cliError{code: 2, err: fmt.Errorf("launch: configuration %q not found in %s", name, args[0])}
				}
				selected = cfg.Options()
			} else if len(doc.Configurations) > 0 {
				selected = doc.Configurations[0].Options()
			}
			merged := launch.Merge(selected, launch.Options{Host: launch.String(defaultHost)})
			fmt.Fprintf(cmd.OutOrStdout(), "host=%s\n", merged.HostOrDefault(defaultHost))
			fmt.Fprintf(cmd.OutOrStdout(), "hostArguments=%s\n", merged.HostArgumentsOrDefault(""))
			return nil
		},
	}
	showCmd.Flags().StringVar(&name, "name", "", "configuration name (defaults to the first entry)")
	showCmd.Flags().StringVar(&defaultHost, "default-host", "dotnet", "host used when the profile sets none")
	launchCmd.AddCommand(showCmd)
	return launchCmd
}
