package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	statusadapter "github.com/hansollab/cafemate/internal/adapters/render/status"
	"github.com/hansollab/cafemate/internal/domain"
	"github.com/spf13/cobra"
)

func newTaskCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "task",
		Short: "Schedule and run posting tasks",
	}

	cmd.AddCommand(
		newTaskAddCmd(app),
		newTaskListCmd(app),
		newTaskStartCmd(app),
		newTaskDeleteCmd(app),
	)

	return cmd
}

func newTaskAddCmd(app *app) *cobra.Command {
	var (
		accountID  string
		title      string
		prompt     string
		at         string
		in         time.Duration
		count      int
		delay      int
		templateID string
		cafeID     string
		boardID    string
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a pending posting task",
		RunE: func(cmd *cobra.Command, _ []string) error {
			scheduled, err := resolveSchedule(at, in, app.now)
			if err != nil {
				return err
			}

			task, err := app.scheduler.CreateTask(cmd.Context(), domain.Task{
				Title:             title,
				Prompt:            prompt,
				AccountID:         accountID,
				CafeID:            cafeID,
				TemplateID:        templateID,
				MenuID:            boardID,
				ScheduledTime:     scheduled,
				DelayBetweenTasks: delay,
				ArticleCount:      count,
			})
			if err != nil {
				return fmt.Errorf("create task: %w", err)
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s scheduled for %s\n",
				task.ID, task.ScheduledTime.Format(time.RFC3339))
			return err
		},
	}

	cmd.Flags().StringVar(&accountID, "account", "", "account the task posts as")
	cmd.Flags().StringVar(&title, "title", "", "label shown in task listings")
	cmd.Flags().StringVar(&prompt, "prompt", "", "request passed to the content generator")
	cmd.Flags().StringVar(&at, "at", "", "scheduled time, RFC 3339")
	cmd.Flags().DurationVar(&in, "in", 0, "scheduled time as an offset from now, e.g. 30m")
	cmd.Flags().IntVar(&count, "count", 0, "number of articles to submit")
	cmd.Flags().IntVar(&delay, "delay", 0, "minutes to wait between submissions")
	cmd.Flags().StringVar(&templateID, "template", "", "pin a specific captured template")
	cmd.Flags().StringVar(&cafeID, "cafe", "", "override the target cafe id")
	cmd.Flags().StringVar(&boardID, "board", "", "override the target board id")
	_ = cmd.MarkFlagRequired("account")
	_ = cmd.MarkFlagRequired("prompt")

	return cmd
}

func resolveSchedule(at string, in time.Duration, now func() time.Time) (time.Time, error) {
	switch {
	case at != "" && in != 0:
		return time.Time{}, errors.New("pass at most one of --at and --in")
	case at != "":
		scheduled, err := time.Parse(time.RFC3339, at)
		if err != nil {
			return time.Time{}, fmt.Errorf("parse --at: %w", err)
		}
		return scheduled, nil
	case in != 0:
		return now().Add(in), nil
	default:
		return now(), nil
	}
}

func newTaskListCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Show slots and scheduled tasks",
		RunE: func(cmd *cobra.Command, _ []string) error {
			slots, err := app.sessions.Load(cmd.Context())
			if err != nil {
				return fmt.Errorf("load slots: %w", err)
			}

			tasks, err := app.scheduler.ListTasks(cmd.Context())
			if err != nil {
				return fmt.Errorf("list tasks: %w", err)
			}
			if tasks == nil {
				tasks = []domain.Task{}
			}

			rendered, err := app.statusRenderer(statusadapter.Report{
				Slots: slots,
				Tasks: tasks,
				Now:   app.now(),
			})
			if err != nil {
				return fmt.Errorf("render tasks: %w", err)
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), rendered)
			return err
		},
	}
}

func newTaskStartCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "start <task-id>",
		Short: "Start a pending task and wait for it to finish",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			taskID := args[0]

			if _, err := app.sessions.Load(cmd.Context()); err != nil {
				return fmt.Errorf("load slots: %w", err)
			}

			if err := app.scheduler.Start(cmd.Context(), taskID); err != nil {
				return err
			}

			err := runTaskWaitSpinner(cmd.Context(), cmd.OutOrStderr(), "Running task...", func(context.Context) error {
				app.scheduler.Wait()
				return nil
			})
			if err != nil {
				return err
			}

			return reportTaskOutcome(cmd, app, taskID)
		},
	}
}

func reportTaskOutcome(cmd *cobra.Command, app *app, taskID string) error {
	tasks, err := app.scheduler.ListTasks(cmd.Context())
	if err != nil {
		return fmt.Errorf("reload tasks: %w", err)
	}

	for _, task := range tasks {
		if task.ID != taskID {
			continue
		}
		if task.Status == domain.TaskFailed {
			return fmt.Errorf("task %s failed", taskID)
		}
		_, err := fmt.Fprintf(cmd.OutOrStdout(), "task %s %s\n", taskID, task.Status)
		return err
	}

	return domain.ErrTaskNotFound
}

func newTaskDeleteCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <task-id>",
		Short: "Delete a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.scheduler.DeleteTask(cmd.Context(), args[0]); err != nil {
				return err
			}
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "task %s deleted\n", args[0])
			return err
		},
	}
}
