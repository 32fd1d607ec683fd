package main

import (
	"encoding/json"
	"strings"

	"github.com/spf13/cobra"
	"github.com/yacobolo/twlint/internal/twlint"
	"github.com/yacobolo/twlint/utility"
)

var dissectCmd = &cobra.Command{
	Use:   "dissect [classes...]",
	Short: "Print the structure of classes as JSON",
	Long: `Split each class into prefix, variants, important markers, sign and base
and print the result as a JSON array. Variants are recognized with the
stylesheets; with --no-stylesheet only sign and important markers are split.`,
	Args: cobra.MinimumNArgs(1),
	PreRunE: func(cmd *cobra.Command, _ []string) error {
		return loadConfig(cmd)
	},
	RunE: runDissect,
}

func init() {
	dissectCmd.Flags().Bool("no-stylesheet", false, "Dissect without loading stylesheets")
}

func runDissect(cmd *cobra.Command, args []string) error {
	var seg utility.VariantSegmenter
	if !getBoolWithFallback("no-stylesheet", "no-stylesheet", false) {
		patterns, sheetConfig := buildSheetConfig()
		sheet, _, _, err := twlint.LoadStylesheets(patterns, sheetConfig, logger)
		if err != nil {
			return err
		}
		seg = sheet
	}

	classes := strings.Fields(strings.Join(args, " "))
	encoder := json.NewEncoder(cmd.OutOrStdout())
	encoder.SetIndent("", "  ")
	return encoder.Encode(utility.DissectAll(classes, seg))
}
