package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"novel-go/internal/app"
	"novel-go/internal/config"
	"novel-go/internal/vcs"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	// A .env in the working directory may set NOVEL_HOME, NOVEL_CONFIG_PATH
	// or NOVEL_PASSPHRASE. It is optional.
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig reads the config file, falling back to defaults when it does
// not exist.
func loadConfig() (*config.Config, error) {
	defaults, err := app.GetDefaults()
	if err != nil {
		return nil, fmt.Errorf("getting defaults: %w", err)
	}

	cfg, err := config.Load(defaults["config_path"], defaults["base_dir"])
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	return cfg, nil
}

// newApp opens the workspace selected by --root. The caller must defer
// app.Close(). operation identifies the CLI command being run.
func newApp(cmd *cobra.Command, cfg *config.Config, operation string) (*app.NovelApp, error) {
	root, _ := cmd.Flags().GetString("root")
	if root == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("getting current directory: %w", err)
		}
		root = cwd
	}

	a, err := app.NewNovelApp(cfg, root, operation)
	if err != nil {
		return nil, fmt.Errorf("initializing app: %w", err)
	}
	return a, nil
}

// openApp is newApp with the config loaded from disk.
func openApp(cmd *cobra.Command, operation string) (*app.NovelApp, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	return newApp(cmd, cfg, operation)
}

var rootCmd = &cobra.Command{
	Use:          "novel",
	Short:        "Snapshot history for a writing project",
	SilenceUsage: true,
}

// init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the metadata store for a workspace",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd, "init")
		if err != nil {
			return err
		}
		defer a.Close()

		path, err := a.Init()
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Initialized workspace %s\nStore: %s\n", a.Root(), path)
		return nil
	},
}

// commit command
var commitCmd = &cobra.Command{
	Use:   "commit",
	Short: "Snapshot the working tree",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		message, _ := cmd.Flags().GetString("message")

		a, err := openApp(cmd, "commit")
		if err != nil {
			return err
		}
		defer a.Close()

		id, err := a.Commit(message)
		if err != nil {
			return fmt.Errorf("commit failed: %w", err)
		}
		return render(cmd, map[string]string{"id": id}, func(w io.Writer) {
			fmt.Fprintln(w, id)
		})
	},
}

// log command
var logCmd = &cobra.Command{
	Use:   "log",
	Short: "List commits, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd, "log")
		if err != nil {
			return err
		}
		defer a.Close()

		commits, err := a.Log()
		if err != nil {
			return err
		}
		return render(cmd, commits, func(w io.Writer) {
			if len(commits) == 0 {
				fmt.Fprintln(w, "No commits.")
				return
			}
			for _, c := range commits {
				fmt.Fprintf(w, "%s  %s  %s\n",
					shortID(c.ID),
					c.CreatedAt().Local().Format("2006-01-02 15:04:05"),
					c.Message,
				)
			}
		})
	},
}

// state command
var stateCmd = &cobra.Command{
	Use:   "state",
	Short: "Show head and commit count",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd, "state")
		if err != nil {
			return err
		}
		defer a.Close()

		state, err := a.RepoState()
		if err != nil {
			return err
		}
		return render(cmd, state, func(w io.Writer) {
			head := state.Head
			if head == "" {
				head = "(none)"
			}
			fmt.Fprintf(w, "Head:    %s\nCommits: %d\n", head, state.CommitCount)
		})
	},
}

// checkout command
var checkoutCmd = &cobra.Command{
	Use:   "checkout ID",
	Short: "Restore the working tree to a commit",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd, "checkout")
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.Checkout(args[0]); err != nil {
			return fmt.Errorf("checkout failed: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Checked out %s\n", shortID(args[0]))
		return nil
	},
}

// diff command
var diffCmd = &cobra.Command{
	Use:   "diff FROM TO",
	Short: "Compare two commits",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("context") {
			cfg.Diff.ContextLines, _ = cmd.Flags().GetInt("context")
		}

		a, err := newApp(cmd, cfg, "diff")
		if err != nil {
			return err
		}
		defer a.Close()

		d, err := a.Diff(args[0], args[1])
		if err != nil {
			return err
		}
		return render(cmd, d, func(w io.Writer) {
			for _, f := range d.Files {
				switch {
				case f.IsBinary:
					fmt.Fprintf(w, "Binary file %s %s\n", f.Path, f.Kind)
				case f.Unified != nil:
					fmt.Fprint(w, *f.Unified)
				default:
					fmt.Fprintf(w, "%s %s\n", f.Path, f.Kind)
				}
			}
		})
	},
}

// status command
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show working tree changes since head",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd, "status")
		if err != nil {
			return err
		}
		defer a.Close()

		statuses, err := a.Status()
		if err != nil {
			return err
		}
		return render(cmd, statuses, func(w io.Writer) {
			if len(statuses) == 0 {
				fmt.Fprintln(w, "Nothing changed.")
				return
			}
			for _, s := range statuses {
				var indicator string
				switch s.Kind {
				case vcs.Added:
					indicator = "A"
				case vcs.Removed:
					indicator = "D"
				case vcs.Modified:
					indicator = "M"
				}
				fmt.Fprintf(w, "%s %s\n", indicator, s.Path)
			}
		})
	},
}

// history command
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "View operation history",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		a, err := openApp(cmd, "history")
		if err != nil {
			return err
		}
		defer a.Close()

		ops, err := a.History(limit)
		if err != nil {
			return err
		}
		return render(cmd, ops, func(w io.Writer) {
			if len(ops) == 0 {
				fmt.Fprintln(w, "No operations recorded.")
				return
			}
			for _, op := range ops {
				duration := ""
				if op.FinishedAt != nil {
					duration = op.FinishedAt.Sub(op.StartedAt).Truncate(time.Millisecond).String()
				}
				fmt.Fprintf(w, "#%d  %-12s  %s  %-8s  %s\n",
					op.ID,
					op.Operation,
					op.StartedAt.Local().Format("2006-01-02 15:04:05"),
					op.Status,
					duration,
				)
			}
		})
	},
}

// fs command
var fsCmd = &cobra.Command{
	Use:   "fs",
	Short: "Browse workspace files",
}

var fsLsCmd = &cobra.Command{
	Use:   "ls [DIR]",
	Short: "List a workspace directory",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := ""
		if len(args) > 0 {
			dir = args[0]
		}

		a, err := openApp(cmd, "fs ls")
		if err != nil {
			return err
		}
		defer a.Close()

		entries, err := a.ListDir(dir)
		if err != nil {
			return err
		}
		return render(cmd, entries, func(w io.Writer) {
			for _, e := range entries {
				if e.IsDir {
					fmt.Fprintf(w, "%s/\n", e.Path)
				} else {
					fmt.Fprintln(w, e.Path)
				}
			}
		})
	},
}

var fsCatCmd = &cobra.Command{
	Use:   "cat FILE",
	Short: "Print a workspace file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd, "fs cat")
		if err != nil {
			return err
		}
		defer a.Close()

		text, err := a.ReadFile(args[0])
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), text)
		return nil
	},
}

// archive command
var archiveCmd = &cobra.Command{
	Use:   "archive",
	Short: "Encrypted store archives",
}

var archiveKeysCmd = &cobra.Command{
	Use:   "keys",
	Short: "Manage archive keys",
}

var archiveKeysInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Generate the archive key pair",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		passphrase, err := readPassphrase("New passphrase: ")
		if err != nil {
			return err
		}
		if err := app.InitArchiveKeys(cfg, passphrase); err != nil {
			return fmt.Errorf("generating keys: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Public key:  %s\nPrivate key: %s\n",
			cfg.Archive.PublicKeyPath, cfg.Archive.PrivateKeyPath)
		return nil
	},
}

var archivePushCmd = &cobra.Command{
	Use:   "push",
	Short: "Encrypt the store and upload it to the vault",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd, "archive push")
		if err != nil {
			return err
		}
		defer a.Close()

		version, err := a.ArchivePush()
		if err != nil {
			return fmt.Errorf("push failed: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Pushed archive version %d\n", version)
		return nil
	},
}

var archivePullCmd = &cobra.Command{
	Use:   "pull DEST",
	Short: "Download and decrypt the latest archive into a new file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd, "archive pull")
		if err != nil {
			return err
		}
		defer a.Close()

		passphrase, err := readPassphrase("Passphrase: ")
		if err != nil {
			return err
		}
		if err := a.ArchivePull(passphrase, args[0]); err != nil {
			return fmt.Errorf("pull failed: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Restored store to %s\n", args[0])
		return nil
	},
}

// config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		defaults, err := app.GetDefaults()
		if err != nil {
			return fmt.Errorf("failed to get defaults: %w", err)
		}

		cfg := config.NewConfig(defaults["base_dir"])
		if err := config.Init(defaults["config_path"], cfg); err != nil {
			return fmt.Errorf("failed to initialize config: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Configuration initialized at %s\n", defaults["config_path"])
		fmt.Fprintf(cmd.OutOrStdout(), "Base Dir: %s\n", defaults["base_dir"])
		return nil
	},
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "View configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		var encodeErr error
		err = render(cmd, cfg, func(w io.Writer) {
			encodeErr = (&config.Manager{}).Write(w, cfg)
		})
		if err != nil {
			return err
		}
		return encodeErr
	},
}

func init() {
	rootCmd.PersistentFlags().String("root", "", "Workspace root (default: current directory)")
	rootCmd.PersistentFlags().String("format", formatText, "Output format: text, json or yaml")

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(commitCmd)
	commitCmd.Flags().StringP("message", "m", "", "Commit message")
	commitCmd.MarkFlagRequired("message")
	rootCmd.AddCommand(logCmd)
	rootCmd.AddCommand(stateCmd)
	rootCmd.AddCommand(checkoutCmd)
	rootCmd.AddCommand(diffCmd)
	diffCmd.Flags().IntP("context", "U", 3, "Lines of context in unified diffs")
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().IntP("limit", "n", 50, "Maximum number of operations to show")

	// fs subcommands
	fsCmd.AddCommand(fsLsCmd)
	fsCmd.AddCommand(fsCatCmd)
	rootCmd.AddCommand(fsCmd)

	// archive subcommands
	archiveKeysCmd.AddCommand(archiveKeysInitCmd)
	archiveCmd.AddCommand(archiveKeysCmd)
	archiveCmd.AddCommand(archivePushCmd)
	archiveCmd.AddCommand(archivePullCmd)
	rootCmd.AddCommand(archiveCmd)

	// config subcommands
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configListCmd)
	rootCmd.AddCommand(configCmd)
}
