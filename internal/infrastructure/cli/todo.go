package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/workintel/workintel/pkg/domain/todo"
)

var todoCmd = &cobra.Command{
	Use:   "todo",
	Short: "Manage todos and their lifecycle",
}

var (
	todoTaskID    string
	todoPriority  string
	todoEstimate  float64
	todoDeps      []string
	todoDue       string
	todoJSON      bool
	blockReason   string
	blockCategory string
	autoBlock     bool
)

var todoAddCmd = &cobra.Command{
	Use:   "add <title>",
	Short: "Create a pending todo under a task",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		services, err := loadServices(cmd.Context())
		if err != nil {
			return err
		}
		defer services.Close()

		item := &todo.Item{
			TaskID:         todoTaskID,
			Title:          args[0],
			Priority:       todo.Priority(todoPriority),
			EstimatedHours: todoEstimate,
			Dependencies:   todoDeps,
		}
		if todoDue != "" {
			due, err := time.Parse("2006-01-02", todoDue)
			if err != nil {
				return fmt.Errorf("invalid due date %q, want YYYY-MM-DD", todoDue)
			}
			item.DueDate = due
		}

		created, err := services.Todo.CreateTodo(cmd.Context(), item)
		if err != nil {
			return MapError(err)
		}
		fmt.Printf("Created todo %s under task %s\n", created.ID, created.TaskID)
		return nil
	},
}

func transitionTodoCommand(use, short, event string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   use + " <todo-id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			services, err := loadServices(cmd.Context())
			if err != nil {
				return err
			}
			defer services.Close()

			err = services.Todo.Transition(cmd.Context(), args[0], event, currentActor(), blockReason, blockCategory, autoBlock)
			if err != nil {
				return MapError(fmt.Errorf("failed to %s todo: %w", event, err))
			}
			fmt.Printf("Todo %s transition '%s' successful.\n", args[0], event)
			return nil
		},
	}
	if event == "block" {
		cmd.Flags().StringVarP(&blockReason, "reason", "r", "", "Why the todo is blocked")
		cmd.Flags().StringVarP(&blockCategory, "category", "c", "", "Blocker category (dependency, resource, approval, technical, external)")
	}
	if event == "start" {
		cmd.Flags().BoolVar(&autoBlock, "auto-block", false, "Flip to blocked instead of failing when dependencies are unmet")
	}
	return cmd
}

var todoListCmd = &cobra.Command{
	Use:   "list <task-id>",
	Short: "List todos for a task",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		services, err := loadServices(cmd.Context())
		if err != nil {
			return err
		}
		defer services.Close()

		items, err := services.Workspace.Repo.ListTodosByTask(args[0])
		if err != nil {
			return MapError(err)
		}

		if todoJSON {
			return json.NewEncoder(os.Stdout).Encode(items)
		}

		if len(items) == 0 {
			fmt.Printf("No todos for task %s.\n", args[0])
			return nil
		}
		for _, item := range items {
			line := fmt.Sprintf("%-40s %-12s %s", item.ID, item.Status.DisplayName(), item.Title)
			if len(item.Dependencies) > 0 {
				line += fmt.Sprintf(" (after %s)", strings.Join(item.Dependencies, ", "))
			}
			if item.Status.IsBlocked() && item.BlockReason != "" {
				line += fmt.Sprintf(" [%s: %s]", item.BlockCategory, item.BlockReason)
			}
			fmt.Println(line)
		}
		return nil
	},
}

func init() {
	todoAddCmd.Flags().StringVarP(&todoTaskID, "task", "t", "", "Task the todo belongs to (required)")
	todoAddCmd.Flags().StringVarP(&todoPriority, "priority", "p", "medium", "Priority (low, medium, high)")
	todoAddCmd.Flags().Float64Var(&todoEstimate, "estimate", 0, "Estimated hours")
	todoAddCmd.Flags().StringSliceVar(&todoDeps, "depends-on", nil, "Todo IDs this todo waits for")
	todoAddCmd.Flags().StringVar(&todoDue, "due", "", "Due date (YYYY-MM-DD)")
	_ = todoAddCmd.MarkFlagRequired("task")

	todoListCmd.Flags().BoolVar(&todoJSON, "json", false, "Output as JSON")

	todoCmd.AddCommand(todoAddCmd)
	todoCmd.AddCommand(transitionTodoCommand("start", "Move a todo to in_progress", "start"))
	todoCmd.AddCommand(transitionTodoCommand("complete", "Mark an in_progress todo completed", "complete"))
	todoCmd.AddCommand(transitionTodoCommand("block", "Mark a todo blocked", "block"))
	todoCmd.AddCommand(transitionTodoCommand("unblock", "Resume a blocked todo", "unblock"))
	todoCmd.AddCommand(transitionTodoCommand("stop", "Return an in_progress todo to pending", "stop"))
	todoCmd.AddCommand(todoListCmd)
	RootCmd.AddCommand(todoCmd)
}
