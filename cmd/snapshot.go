package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/theirongolddev/rentroll/internal/cli"
	"github.com/theirongolddev/rentroll/internal/source"
	"github.com/theirongolddev/rentroll/internal/store"

	"github.com/spf13/cobra"
)

var flagSnapshotNote string

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Save and restore copies of the data file",
}

var snapshotSaveCmd = &cobra.Command{
	Use:   "save",
	Short: "Save the data file to the snapshot store",
	Args:  cobra.NoArgs,
	RunE:  runSnapshotSave,
}

var snapshotListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved snapshots, newest first",
	Args:  cobra.NoArgs,
	RunE:  runSnapshotList,
}

var snapshotRestoreCmd = &cobra.Command{
	Use:   "restore <id>",
	Short: "Replace the data file with a saved snapshot",
	Args:  cobra.ExactArgs(1),
	RunE:  runSnapshotRestore,
}

var snapshotBackupsCmd = &cobra.Command{
	Use:   "backups",
	Short: "List local backups kept next to the data file",
	Args:  cobra.NoArgs,
	RunE:  runSnapshotBackups,
}

func init() {
	snapshotSaveCmd.Flags().StringVarP(&flagSnapshotNote, "note", "m", "", "Note stored with the snapshot")
	snapshotCmd.AddCommand(snapshotSaveCmd, snapshotListCmd, snapshotRestoreCmd, snapshotBackupsCmd)
	rootCmd.AddCommand(snapshotCmd)
}

// openStore connects to the configured snapshot backend.
func openStore(ctx context.Context, w *workspace) (store.Snapshots, error) {
	s, err := store.Open(ctx, w.cfg, newLogger(w.cfg))
	if err != nil {
		return nil, fmt.Errorf("snapshot store: %w", err)
	}
	return s, nil
}

func runSnapshotSave(cmd *cobra.Command, _ []string) error {
	w, err := loadData()
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
	defer cancel()

	s, err := openStore(ctx, w)
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()

	meta, err := s.Save(ctx, w.cfg.General.ProjectID, w.doc, flagSnapshotNote)
	if err != nil {
		return err
	}
	fmt.Printf("  Saved snapshot %s (%s)\n", meta.ID, formatBytes(meta.Size))
	return nil
}

func runSnapshotList(cmd *cobra.Command, _ []string) error {
	cfg, _, err := loadConfig()
	if err != nil {
		return err
	}
	w := &workspace{cfg: cfg}
	ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
	defer cancel()

	s, err := openStore(ctx, w)
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()

	list, err := s.List(ctx, cfg.General.ProjectID)
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("SNAPSHOTS  %s (%s)", cfg.General.ProjectID, cfg.Snapshot.Backend)))
	fmt.Println()
	if len(list) == 0 {
		fmt.Println("  No snapshots yet. Save one with `rentroll snapshot save`.")
		return nil
	}
	rows := make([][]string, 0, len(list))
	for _, m := range list {
		rows = append(rows, []string{m.ID, m.CreatedAt.Local().Format("2006-01-02 15:04"), formatBytes(m.Size), m.Note})
	}
	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"ID", "Saved", "Size", "Note"},
		Rows:    rows,
	}))
	return nil
}

func runSnapshotRestore(cmd *cobra.Command, args []string) error {
	cfg, _, err := loadConfig()
	if err != nil {
		return err
	}
	w := &workspace{cfg: cfg, path: dataPath(cfg)}
	ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
	defer cancel()

	s, err := openStore(ctx, w)
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()

	doc, err := s.Fetch(ctx, args[0])
	if err != nil {
		return err
	}
	// The replaced file is always backed up.
	if err := source.WriteDocument(w.path, *doc, true); err != nil {
		return err
	}
	fmt.Printf("  Restored %s to %s (%d tenants)\n", args[0], w.path, len(doc.Tenants))
	return nil
}

func runSnapshotBackups(_ *cobra.Command, _ []string) error {
	cfg, _, err := loadConfig()
	if err != nil {
		return err
	}
	path := dataPath(cfg)
	backups, err := source.ScanBackups(path)
	if err != nil {
		return err
	}
	if len(backups) == 0 {
		fmt.Printf("  No backups in %s\n", source.BackupDir(path))
		return nil
	}
	rows := make([][]string, 0, len(backups))
	for _, b := range backups {
		rows = append(rows, []string{b.Name, b.SavedAt, formatBytes(b.Size)})
	}
	fmt.Print(cli.RenderTable(cli.Table{
		Title:   source.BackupDir(path),
		Headers: []string{"File", "Saved", "Size"},
		Rows:    rows,
	}))
	return nil
}

func formatBytes(n int64) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(n)/(1<<10))
	}
	return fmt.Sprintf("%d B", n)
}
