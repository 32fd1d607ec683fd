package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/yacobolo/twlint/internal/twlint"
	"github.com/yacobolo/twlint/utility"
)

var orderCmd = &cobra.Command{
	Use:   "order [classes...]",
	Short: "Print a class string in canonical order",
	Long: `Sort the given classes with an order policy and print them as one class string.
Arguments are split on whitespace, so a quoted class string works too:

  twlint order "p-4 flex hover:underline"`,
	Args: cobra.MinimumNArgs(1),
	PreRunE: func(cmd *cobra.Command, _ []string) error {
		return loadConfig(cmd)
	},
	RunE: runOrder,
}

func init() {
	orderCmd.Flags().String("order", "official", "Order policy: asc|desc|official|improved")
}

func runOrder(cmd *cobra.Command, args []string) error {
	policy, err := utility.ParseOrderPolicy(getStringWithFallback("order", "lint.order", string(utility.OrderOfficial)))
	if err != nil {
		return err
	}

	patterns, sheetConfig := buildSheetConfig()
	sheet, _, warnings, err := twlint.LoadStylesheets(patterns, sheetConfig, logger)
	if err != nil {
		return err
	}
	for _, w := range warnings {
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %s\n", w)
	}

	classes := strings.Fields(strings.Join(args, " "))
	fmt.Fprintln(cmd.OutOrStdout(), strings.Join(utility.Order(classes, policy, sheet), " "))
	return nil
}
