package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	sqle "github.com/linkedin/linkedin-calcite"
	"github.com/linkedin/linkedin-calcite/sql"
	"github.com/linkedin/linkedin-calcite/sql/plan"
)

var (
	configPath string
	debug      bool
	quote      bool
	joinKind   string
	allowEmpty bool
)

var engine *sqle.Engine

var rootCmd = &cobra.Command{
	Use:   "sqltype",
	Short: "Derive and combine SQL types",
	Example: `sqltype derive "ROW(id BIGINT NOT NULL, tags ARRAY<VARCHAR>)"
sqltype describe "ROW(a INTEGER, b DATE)"
sqltype join --kind left "ROW(a INTEGER NOT NULL)" "ROW(b DATE NOT NULL)"`,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := sqle.DefaultConfig()
		if configPath != "" {
			var err error
			if cfg, err = sqle.ReadConfig(configPath); err != nil {
				return err
			}
		}
		cfg = cfg.ApplyEnv()

		opts := map[string]interface{}{}
		if cmd.Flags().Changed("debug") {
			opts["debug"] = debug
		}
		if cmd.Flags().Changed("quote") {
			opts["quote_identifiers"] = quote
		}
		cfg, err := cfg.Apply(opts)
		if err != nil {
			return err
		}

		sqle.SetupLogging(os.Stderr, cfg.Debug)
		engine = sqle.New(cfg)
		return nil
	},
}

var deriveCmd = &cobra.Command{
	Use:   "derive SPEC",
	Short: "Print the canonical signature of a type specification",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := engine.DeriveType(newContext(cmd, args[0]), args[0])
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), t.Signature())
		return nil
	},
}

var unparseCmd = &cobra.Command{
	Use:   "unparse SPEC",
	Short: "Print a type specification in normalized SQL form",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		spec, err := engine.ParseTypeSpec(newContext(cmd, args[0]), args[0])
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), engine.Unparse(spec))
		return nil
	},
}

var describeCmd = &cobra.Command{
	Use:   "describe SPEC",
	Short: "Print the fields of a type specification",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := engine.DeriveType(newContext(cmd, args[0]), args[0])
		if err != nil {
			return err
		}
		describeType(cmd.OutOrStdout(), t)
		return nil
	},
}

var joinCmd = &cobra.Command{
	Use:   "join LEFT RIGHT",
	Short: "Print the row type of a join between two row types",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, err := plan.ParseJoinType(joinKind)
		if err != nil {
			return err
		}

		ctx := newContext(cmd, fmt.Sprintf("%s %s JOIN %s", args[0], kind, args[1]))
		left, err := engine.DeriveType(ctx, args[0])
		if err != nil {
			return err
		}
		right, err := engine.DeriveType(ctx, args[1])
		if err != nil {
			return err
		}

		row, err := engine.ResolveJoin(ctx, left, right, kind)
		if err != nil {
			return err
		}
		describeType(cmd.OutOrStdout(), row)
		return nil
	},
}

var arrayCmd = &cobra.Command{
	Use:   "array [OPERAND...]",
	Short: "Print the type of an ARRAY value with operands of the given types",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := newContext(cmd, "ARRAY["+strings.Join(args, ", ")+"]")
		t, err := engine.ArrayValueType(ctx, args, allowEmpty)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), t.Signature())
		return nil
	},
}

func newContext(cmd *cobra.Command, query string) *sql.Context {
	return sql.NewContext(cmd.Context(), sql.WithQuery(query))
}

func describeType(w io.Writer, t *sql.Type) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"name", "type", "nullable"})
	table.SetAutoFormatHeaders(false)

	if !t.IsStruct() {
		table.Append([]string{"", t.String(), fmt.Sprint(t.Nullable())})
	}
	for _, f := range t.Fields() {
		table.Append([]string{f.Name, f.Type.String(), fmt.Sprint(f.Type.Nullable())})
	}

	table.Render()
}

// Execute runs the command line with the given context.
func Execute(ctx context.Context) {
	cobra.CheckErr(rootCmd.ExecuteContext(ctx))
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path of a YAML configuration file.")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Log the steps of the analyzer.")
	unparseCmd.Flags().BoolVar(&quote, "quote", false, "Quote every field name.")
	joinCmd.Flags().StringVar(&joinKind, "kind", "inner", "Kind of join: inner, cross, left, right or full.")
	arrayCmd.Flags().BoolVar(&allowEmpty, "allow-empty", false, "Accept an array without operands.")

	rootCmd.AddCommand(deriveCmd, unparseCmd, describeCmd, joinCmd, arrayCmd)
}
