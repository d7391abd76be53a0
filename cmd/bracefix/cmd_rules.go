package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"bracefix/internal/rewrite"
	"bracefix/internal/rules"
)

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "List the built-in fixers and their rules",
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, f := range rules.Catalog() {
			fmt.Println(f.Name())
			if f.Name() == "syntax" {
				for _, name := range rewrite.NewPipeline(rules.SyntaxRules()...).Rules() {
					fmt.Printf("  %s\n", name)
				}
			}
		}
		return nil
	},
}
