package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/grindlemire/go-relrect"
)

var resolveCmd = &cobra.Command{
	Use:   "resolve <sheet.yaml>",
	Short: "Load a sheet file and print every item's resolved bounds.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sheet, err := relrect.LoadSheetFile(args[0])
		if err != nil {
			return err
		}
		printBounds(cmd, sheet)
		return nil
	},
}

func printBounds(cmd *cobra.Command, sheet *relrect.Sheet) {
	for _, item := range sheet.Items() {
		b := item.Bounds()
		dynamic := ""
		if item.Positioner() != nil {
			dynamic = "  (dynamic)"
		}
		cmd.Printf("%-20s x=%-5d y=%-5d w=%-5d h=%-5d%s\n", item.Name(), b.X, b.Y, b.Width, b.Height, dynamic)
	}
}

func boundsByName(sheet *relrect.Sheet) map[string]relrect.Rect {
	m := make(map[string]relrect.Rect)
	for _, item := range sheet.Items() {
		m[item.Name()] = item.Bounds()
	}
	return m
}

var evalCmd = &cobra.Command{
	Use:   "eval <expression>",
	Short: "Evaluate one expression, optionally against a sheet.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		coord, err := relrect.ParseCoordinate(args[0])
		if err != nil {
			return err
		}

		sheetPath, _ := cmd.Flags().GetString("sheet")
		var sheet *relrect.Sheet
		if sheetPath != "" {
			if sheet, err = relrect.LoadSheetFile(sheetPath); err != nil {
				return err
			}
		} else {
			sheet = relrect.NewSheet()
		}

		v, err := coord.Resolve(sheet.Scope())
		if err != nil {
			return err
		}
		cmd.Println(fmt.Sprintf("%g", v))
		return nil
	},
}

func init() {
	evalCmd.Flags().String("sheet", "", "sheet file providing named objects")
	rootCmd.AddCommand(resolveCmd, evalCmd)
}
