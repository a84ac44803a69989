package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/peterh/liner"
	"github.com/spf13/cobra"

	"github.com/grindlemire/go-relrect"
)

const (
	historyFile = ".relrect_history"
	prompt      = "relrect> "
)

const replHelp = `Commands:
  show                          print all items and their bounds
  set <item> <l, t, r, b>       apply a rectangle (expressions allowed)
  move <item> <x> <y> <w> <h>   move an item; symbolic form is preserved
  rename <old> <new>            rename an item, rewriting references
  save <path>                   write the sheet back out as YAML
  :quit                         exit
Anything else is evaluated as an expression, e.g. header.right + 10.`

var replCmd = &cobra.Command{
	Use:   "repl [sheet.yaml]",
	Short: "Interactive shell over a sheet.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sheet := relrect.NewSheet()
		if len(args) == 1 {
			var err error
			if sheet, err = relrect.LoadSheetFile(args[0]); err != nil {
				return err
			}
		}

		line := liner.NewLiner()
		defer line.Close()
		line.SetCtrlCAborts(true)

		histPath := filepath.Join(os.TempDir(), historyFile)
		if f, err := os.Open(histPath); err == nil {
			line.ReadHistory(f)
			f.Close()
		}
		defer func() {
			if f, err := os.Create(histPath); err == nil {
				line.WriteHistory(f)
				f.Close()
			}
		}()

		cmd.Println("relrect REPL. Ctrl+D or :quit to exit, :help for commands.")
		for {
			input, err := line.Prompt(prompt)
			if errors.Is(err, io.EOF) || errors.Is(err, liner.ErrPromptAborted) {
				return nil
			}
			if err != nil {
				return err
			}
			input = strings.TrimSpace(input)
			if input == "" {
				continue
			}
			line.AppendHistory(input)

			if input == ":quit" || input == ":q" {
				return nil
			}
			if input == ":help" {
				cmd.Println(replHelp)
				continue
			}
			if err := runReplLine(cmd, sheet, input); err != nil {
				cmd.Printf("error: %v\n", err)
			}
		}
	},
}

func runReplLine(cmd *cobra.Command, sheet *relrect.Sheet, input string) error {
	fields := strings.Fields(input)

	switch fields[0] {
	case "show":
		printBounds(cmd, sheet)
		return nil

	case "set":
		if len(fields) < 3 {
			return fmt.Errorf("usage: set <item> <l, t, r, b>")
		}
		name := fields[1]
		rectText := strings.TrimSpace(strings.TrimPrefix(input, "set "+name))
		rect, err := relrect.ParseRectangle(rectText)
		if err != nil {
			return err
		}
		if item, ok := sheet.Item(name); ok {
			return item.SetRectangle(rect)
		}
		_, err = sheet.Add(name, rect)
		return err

	case "move":
		if len(fields) != 6 {
			return fmt.Errorf("usage: move <item> <x> <y> <w> <h>")
		}
		item, ok := sheet.Item(fields[1])
		if !ok {
			return fmt.Errorf("no item named %q", fields[1])
		}
		vals := make([]int, 4)
		for i, f := range fields[2:] {
			v, err := strconv.Atoi(f)
			if err != nil {
				return fmt.Errorf("bad number %q", f)
			}
			vals[i] = v
		}
		if err := item.MoveTo(relrect.NewRect(vals[0], vals[1], vals[2], vals[3])); err != nil {
			return err
		}
		cmd.Printf("%s = %s\n", item.Name(), item.Rectangle())
		return nil

	case "rename":
		if len(fields) != 3 {
			return fmt.Errorf("usage: rename <old> <new>")
		}
		return sheet.Rename(fields[1], fields[2])

	case "save":
		if len(fields) != 2 {
			return fmt.Errorf("usage: save <path>")
		}
		return sheet.SaveFile(fields[1])
	}

	// Fall through: evaluate as an expression against the sheet.
	coord, err := relrect.ParseCoordinate(input)
	if err != nil {
		return err
	}
	v, err := coord.Resolve(sheet.Scope())
	if err != nil {
		return err
	}
	cmd.Printf("%g\n", v)
	return nil
}

func init() {
	rootCmd.AddCommand(replCmd)
}
