package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"taskdash/internal/board"
	"taskdash/internal/task"
)

var errRejected = errors.New("title and due date are required")

type listOptions struct {
	status   string
	priority string
	sort     string
	format   string
}

func NewListCommand(root *RootOptions) *cobra.Command {
	opts := &listOptions{}
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print tasks filtered and sorted by due date",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.format, ValidFormats)
			}
			s, err := openSession(root, false)
			if err != nil {
				return err
			}
			defer s.Close()

			if cmd.Flags().Changed("status") {
				f, err := board.ParseStatusFilter(opts.status)
				if err != nil {
					return err
				}
				s.board.SetStatusFilter(f)
			}
			if cmd.Flags().Changed("priority") {
				f, err := board.ParsePriorityFilter(opts.priority)
				if err != nil {
					return err
				}
				s.board.SetPriorityFilter(f)
			}
			if cmd.Flags().Changed("sort") {
				d, err := board.ParseSortDirection(opts.sort)
				if err != nil {
					return err
				}
				s.board.SetSortDirection(d)
			}
			return writeTasks(cmd.OutOrStdout(), opts.format, s.board.View())
		},
	}
	cmd.Flags().StringVar(&opts.status, "status", "All", "status filter (All, To Do, In Progress, Completed)")
	cmd.Flags().StringVar(&opts.priority, "priority", "All", "priority filter (All, Low, Medium, High)")
	cmd.Flags().StringVar(&opts.sort, "sort", "asc", "due date order (asc|desc)")
	cmd.Flags().StringVar(&opts.format, "format", "text", "output format (json|text)")
	return cmd
}

func NewSummaryCommand(root *RootOptions) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Print total, completed and pending counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(format) {
				return fmt.Errorf("invalid format %q: must be one of %v", format, ValidFormats)
			}
			s, err := openSession(root, false)
			if err != nil {
				return err
			}
			defer s.Close()

			sum := s.board.Summary()
			out := cmd.OutOrStdout()
			if format == "json" {
				return json.NewEncoder(out).Encode(sum)
			}
			_, err = fmt.Fprintf(out, "Total: %d\nCompleted: %d\nPending: %d\n", sum.Total, sum.Completed, sum.Pending)
			return err
		},
	}
	cmd.Flags().StringVar(&format, "format", "text", "output format (json|text)")
	return cmd
}

func NewAddCommand(root *RootOptions) *cobra.Command {
	fields := map[string]*string{}
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a task",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(root, false)
			if err != nil {
				return err
			}
			defer s.Close()

			for _, name := range []string{"title", "description", "priority", "status", "due"} {
				if err := s.board.SetField(name, *fields[name]); err != nil {
					return err
				}
			}
			res, err := s.board.Submit()
			if res.Kind == board.Rejected {
				return errRejected
			}
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Added task %d\n", res.Task.ID)
			return err
		},
	}
	fields["title"] = cmd.Flags().String("title", "", "task title (required)")
	fields["description"] = cmd.Flags().String("description", "", "task description")
	fields["priority"] = cmd.Flags().String("priority", task.PriorityLow.String(), "Low, Medium or High")
	fields["status"] = cmd.Flags().String("status", task.StatusToDo.String(), "To Do, In Progress or Completed")
	fields["due"] = cmd.Flags().String("due", "", "due date, YYYY-MM-DD (required)")
	return cmd
}

func NewDeleteCommand(root *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a task by id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid id %q: %w", args[0], err)
			}
			s, err := openSession(root, false)
			if err != nil {
				return err
			}
			defer s.Close()

			ok, err := s.board.Delete(id)
			if err != nil {
				return err
			}
			if !ok {
				_, err = fmt.Fprintf(cmd.OutOrStdout(), "No task with id %d\n", id)
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Deleted task %d\n", id)
			return err
		},
	}
}

func writeTasks(w io.Writer, format string, tasks []task.Task) error {
	if format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(tasks)
	}
	if len(tasks) == 0 {
		_, err := fmt.Fprintln(w, "No tasks.")
		return err
	}
	for _, t := range tasks {
		if _, err := fmt.Fprintf(w, "%-14d %-10s %-6s %-11s %s\n", t.ID, t.DueDate, t.Priority, t.Status, t.Title); err != nil {
			return err
		}
	}
	return nil
}
