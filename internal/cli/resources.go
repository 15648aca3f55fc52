package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/caportal/portal/internal/core/access"
	"github.com/caportal/portal/internal/core/domain"
	"github.com/caportal/portal/internal/infrastructure/filesaver"
)

func (a *app) clientsCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "clients", Short: "Manage clients (admin)"}
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List clients",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if _, err := a.require(ctx, access.ManageClients); err != nil {
				return err
			}
			if err := a.state.Clients.FetchAll(ctx); err != nil {
				return err
			}
			items := a.state.Clients.State().Items
			if a.asJSON {
				return a.printJSON(cmd.OutOrStdout(), items)
			}
			return table(cmd.OutOrStdout(), "ID\tNAME\tEMAIL\tPHONE", func(w io.Writer) {
				for _, c := range items {
					fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", c.ID, c.Name, c.Email, c.Phone)
				}
			})
		},
	})
	return cmd
}

func (a *app) tasksCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "tasks", Short: "List tasks and change their status"}
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List tasks with a count per status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if _, err := a.require(ctx, ""); err != nil {
				return err
			}
			if err := a.state.Tasks.FetchAll(ctx); err != nil {
				return err
			}
			s := a.state.Tasks.State()
			if a.asJSON {
				return a.printJSON(cmd.OutOrStdout(), s)
			}
			err := table(cmd.OutOrStdout(), "ID\tTITLE\tSTATUS\tDEADLINE\tCLIENT", func(w io.Writer) {
				for _, t := range s.Items {
					fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", t.ID, t.Title, t.Status, date(t.Deadline), t.ClientName())
				}
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "\npending: %d  in progress: %d  completed: %d\n",
				s.Stats.Pending, s.Stats.InProgress, s.Stats.Completed)
			return nil
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "status <task-id> <pending|in_progress|completed>",
		Short: "Change the status of a task",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if _, err := a.require(ctx, access.UpdateTaskStatus); err != nil {
				return err
			}
			status, err := domain.ParseTaskStatus(args[1])
			if err != nil {
				return err
			}
			if err := a.state.Tasks.UpdateStatus(ctx, args[0], status); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Task %s is now %s\n", args[0], status)
			return nil
		},
	})
	return cmd
}

func (a *app) documentsCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "documents", Short: "List and download documents"}
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List documents",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if _, err := a.require(ctx, ""); err != nil {
				return err
			}
			if err := a.state.Documents.FetchAll(ctx); err != nil {
				return err
			}
			items := a.state.Documents.State().Items
			if a.asJSON {
				return a.printJSON(cmd.OutOrStdout(), items)
			}
			return table(cmd.OutOrStdout(), "ID\tNAME\tTYPE\tCREATED", func(w io.Writer) {
				for _, d := range items {
					fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", d.ID, d.Name, d.FileType, date(d.CreatedAt))
				}
			})
		},
	})

	var dir string
	download := &cobra.Command{
		Use:   "download <document-id>",
		Short: "Save a document under the name the backend suggests",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if _, err := a.require(ctx, access.DownloadDocuments); err != nil {
				return err
			}
			if dir == "" {
				dir = a.downloadDir
			}
			saver := filesaver.NewDir(dir)
			if err := a.state.Documents.Download(ctx, args[0], saver); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved %s\n", saver.Saved)
			return nil
		},
	}
	download.Flags().StringVarP(&dir, "dir", "d", "", "target directory (default $DOWNLOAD_DIR)")
	cmd.AddCommand(download)
	return cmd
}
