package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/abatilo/lanes/internal/task"
	"github.com/abatilo/lanes/internal/transfer"
)

const trashTarget = "trash"

// grabCmd implements 'lanes grab': the first half of a drag.
func grabCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "grab <id>",
		Short: "Pick up a task to drop on a column or the trash",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			a, err := getStore(cmd.Context())
			if err != nil {
				printError(err)
			}
			defer a.Close()

			t := mustGet(a, parseID(args[0]))

			msg := fmt.Sprintf("Grabbed task %d from %s; drop it with 'lanes drop <stage|trash>'", t.ID, t.Type)
			if transfer.Exists(a.dir) {
				if prev, loadErr := transfer.Load(a.dir); loadErr == nil && prev.TaskID != t.ID {
					msg += fmt.Sprintf(" (released task %d)", prev.TaskID)
				}
			}

			if _, err = transfer.Grab(a.dir, t, time.Now()); err != nil {
				printError(err)
			}
			printOutput(formatter.FormatMessage(msg))
		},
	}
}

// dropCmd implements 'lanes drop': the second half of a drag.
func dropCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "drop <stage|trash>",
		Short: "Drop the grabbed task on a column or the trash",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			ctx := cmd.Context()
			a, err := getStore(ctx)
			if err != nil {
				printError(err)
			}
			defer a.Close()

			p, err := transfer.Take(a.dir)
			if err != nil {
				printError(err)
			}
			t := mustGet(a, p.TaskID)

			if args[0] == trashTarget {
				a.handlers.DropOnTrash(ctx, p.DragPayload)
				printOutput(formatter.FormatMessage(fmt.Sprintf("Deleted task %d", t.ID)))
				return
			}

			if _, err = a.handlers.DropOnColumn(ctx, p.DragPayload, task.Stage(args[0])); err != nil {
				// Keep the grab so the user can retry with a valid stage
				_ = transfer.Save(a.dir, p)
				printError(err)
			}
			printOutput(formatter.FormatTask(mustGet(a, t.ID), time.Now()))
		},
	}
}
