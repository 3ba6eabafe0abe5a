// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/wordpack-audit/pkg/types"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the configuration and compile every pattern",
	Long: `Validate resolves the configuration from flags, environment and config
file, then compiles the word-pack and relations patterns. No input file is
read. It exits non-zero on the first invalid value or pattern.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(viper.GetViper())
		if err != nil {
			return err
		}
		if _, err := compileParsers(cfg, logger); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "configuration OK")
		return nil
	},
}

func init() {
	addPatternFlags(validateCmd)
	validateCmd.Flags().StringP("output", "o", types.DefaultOutputPath, "annotated word pack output file")
	validateCmd.Flags().String("report", "", "findings report file: .yaml, .yml, .json, .db or .sqlite")
	validateCmd.Flags().Int("workers", 0, "sections checked concurrently")

	rootCmd.AddCommand(validateCmd)
}
