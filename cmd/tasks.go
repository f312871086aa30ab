package cmd

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	config "task-manager.com/task-manager/internal/configs"
	model "task-manager.com/task-manager/internal/models"
	repository "task-manager.com/task-manager/internal/repositories"
)

var tasksCmd = &cobra.Command{
	Use:   "tasks",
	Short: "Task maintenance commands",
}

var tasksCountCmd = &cobra.Command{
	Use:   "count",
	Short: "Show the number of tasks per user",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, err := loadConfig()
		if err != nil {
			return err
		}

		db, err := config.NewDatabase(cfg.DatabaseDSN)
		if err != nil {
			return err
		}
		if sqlDB, err := db.DB(); err == nil {
			defer sqlDB.Close()
		}

		rows, err := repository.NewUserRepository(db).TaskCounts(cmd.Context())
		if err != nil {
			return err
		}

		return printTaskCounts(cmd.OutOrStdout(), rows)
	},
}

func printTaskCounts(w io.Writer, rows []model.UserTaskCount) error {
	if len(rows) == 0 {
		_, err := fmt.Fprintln(w, "No users found.")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "Name\tEmail\tTasks Count")
	for _, row := range rows {
		fmt.Fprintf(tw, "%s\t%s\t%d\n", row.Name, row.Email, row.TasksCount)
	}
	return tw.Flush()
}

func init() {
	tasksCmd.AddCommand(tasksCountCmd)
	rootCmd.AddCommand(tasksCmd)
}
