// Package main provides the CLI entry point for jsonish, a tool that
// parses free-form model output into typed values against a YAML-declared
// schema.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	dsgo "github.com/krypticmouse/dsgo"
	"github.com/krypticmouse/dsgo/jsonish"
	"github.com/krypticmouse/dsgo/log"
	"github.com/krypticmouse/dsgo/profile"
	"github.com/krypticmouse/dsgo/schema"
	"github.com/krypticmouse/dsgo/typeir"
	"github.com/krypticmouse/dsgo/version"
)

type options struct {
	target     string
	partial    bool
	schemaOnly bool

	logCfg     *log.Config
	profileCfg *profile.Config
}

func main() {
	opts := &options{
		logCfg:     log.NewConfig(),
		profileCfg: profile.NewConfig(),
	}

	rootCmd := &cobra.Command{
		Use:   "jsonish [flags] <schema.yaml> [input.txt]",
		Short: "Parse model output into typed values",
		Long: `jsonish parses free-form language-model output into a typed value that
conforms to a schema declared in YAML. Input is read from the given file,
or from stdin when omitted. The typed value, diagnostic flags, and
constraint results are printed as JSON.`,
		Version:       version.String(),
		Args:          cobra.RangeArgs(1, 2),
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(_ *cobra.Command, args []string) error {
			return run(opts, args)
		},
	}

	flags := rootCmd.Flags()
	flags.StringVar(&opts.target, "target", "",
		"target type expression, overriding the schema's declared target")
	flags.BoolVar(&opts.partial, "partial", false,
		"treat the input as a streaming prefix (is_done=false)")
	flags.BoolVar(&opts.schemaOnly, "schema-only", false,
		"print the exported JSON Schema instead of parsing input")

	opts.logCfg.RegisterFlags(rootCmd.PersistentFlags())
	opts.profileCfg.RegisterFlags(rootCmd.PersistentFlags())

	if err := opts.logCfg.RegisterCompletions(rootCmd); err != nil {
		fmt.Fprintf(os.Stderr, "register completions: %v\n", err)
	}

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

func run(opts *options, args []string) error {
	handler, err := opts.logCfg.NewHandler(os.Stderr)
	if err != nil {
		return err
	}

	slog.SetDefault(slog.New(handler))

	profiler := opts.profileCfg.NewProfiler()
	if err := profiler.Start(); err != nil {
		return err
	}

	defer func() {
		if stopErr := profiler.Stop(); stopErr != nil {
			slog.Warn("stopping profiler", slog.Any("error", stopErr))
		}
	}()

	reg, target, err := loadSchema(args[0], opts.target)
	if err != nil {
		return err
	}

	if opts.schemaOnly {
		return printSchema(reg, target)
	}

	text, err := readInput(args)
	if err != nil {
		return err
	}

	result, err := dsgo.Parse(text, target, reg, jsonish.DefaultOptions(), !opts.partial)
	if err != nil {
		return err
	}

	return printResult(result)
}

func loadSchema(path, targetExpr string) (*schema.Registry, *typeir.Type, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("reading schema: %w", err)
	}

	builder, err := schema.LoadYAML(data)
	if err != nil {
		return nil, nil, err
	}

	if targetExpr != "" {
		t, terr := schema.ParseTypeExpr(targetExpr)
		if terr != nil {
			return nil, nil, terr
		}

		builder.SetTarget(t)
	}

	reg, err := builder.Build()
	if err != nil {
		return nil, nil, err
	}

	if reg.Target() == nil {
		return nil, nil, fmt.Errorf("schema declares no target; pass --target")
	}

	return reg, reg.Target(), nil
}

func readInput(args []string) (string, error) {
	if len(args) > 1 {
		data, err := os.ReadFile(args[1])
		if err != nil {
			return "", fmt.Errorf("reading input: %w", err)
		}

		return string(data), nil
	}

	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", fmt.Errorf("reading stdin: %w", err)
	}

	return string(data), nil
}

func printSchema(reg *schema.Registry, target *typeir.Type) error {
	s, err := schema.ExportJSONSchema(reg, target)
	if err != nil {
		return err
	}

	return printJSON(s)
}

func printResult(result *dsgo.Result) error {
	flags := make([]string, 0, len(result.Flags))
	for _, f := range result.Flags {
		flags = append(flags, f.String())
	}

	checks := make([]map[string]any, 0, len(result.Checks))

	for _, c := range result.Checks {
		checks = append(checks, map[string]any{
			"label":      c.Label,
			"expression": c.Expression,
			"level":      c.Level.String(),
			"passed":     c.Passed,
		})
	}

	out := map[string]any{
		"value":  result.Value.Plain(),
		"score":  result.Value.Score(),
		"flags":  flags,
		"checks": checks,
	}

	if len(result.Explanations) > 0 {
		out["explanations"] = result.Explanations
	}

	return printJSON(out)
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")

	return enc.Encode(v)
}
