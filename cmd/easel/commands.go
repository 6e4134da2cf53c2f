package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/five82/easel/internal/app"
	"github.com/five82/easel/internal/gallery"
	"github.com/five82/easel/internal/likes"
)

// globalFlags are shared by every command.
type globalFlags struct {
	configPath string
	envFile    string
	apiURL     string
	prefsPath  string
	debug      bool
}

func (g *globalFlags) options() app.Options {
	return app.Options{
		ConfigPath: g.configPath,
		EnvFile:    g.envFile,
		APIURL:     g.apiURL,
		PrefsPath:  g.prefsPath,
		Debug:      g.debug,
	}
}

// isTerminal reports whether stdout is an interactive terminal.
var isTerminal = func() bool {
	fd := os.Stdout.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func newRootCmd() *cobra.Command {
	g := &globalFlags{}

	root := &cobra.Command{
		Use:   "easel",
		Short: "Browse, search and like images from an image service",
		Long: `Easel is a terminal image gallery. It pages through a remote image
service, lets you like images locally and searches everything fetched so far.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !isTerminal() {
				return errors.New("the gallery needs an interactive terminal; try 'easel fetch' or 'easel search'")
			}
			return app.Run(cmd.Context(), g.options())
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&g.configPath, "config", "", "config file (default ~/.config/easel/config.toml)")
	pf.StringVar(&g.envFile, "env-file", ".env", "dotenv file read for EASEL_API_URL")
	pf.StringVar(&g.apiURL, "api-url", "", "image service base URL (overrides config and environment)")
	pf.StringVar(&g.prefsPath, "prefs", "", "prefs file (default ~/.config/easel/prefs.toml)")
	pf.BoolVar(&g.debug, "debug", false, "log at debug level")

	root.AddCommand(newFetchCmd(g), newLikesCmd(g), newSearchCmd(g))
	return root
}

func newFetchCmd(g *globalFlags) *cobra.Command {
	var page, pageSize int
	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Print one page of images",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := app.Open(g.options())
			if err != nil {
				return err
			}
			defer env.Close()

			size := pageSize
			if size <= 0 {
				size = env.Pager.PageSize()
			}
			images, err := env.Client.FetchImagesPage(cmd.Context(), page, size)
			if err != nil {
				return err
			}
			items := gallery.Reconcile(images, env.Gallery.Liked().Snapshot(), nil, env.Policy)
			return printItems(cmd.OutOrStdout(), items)
		},
	}
	cmd.Flags().IntVar(&page, "page", 1, "page number, starting at 1")
	cmd.Flags().IntVar(&pageSize, "page-size", 0, "images per page (default from config)")
	return cmd
}

func newSearchCmd(g *globalFlags) *cobra.Command {
	var pages int
	cmd := &cobra.Command{
		Use:   "search TERM",
		Short: "Fetch pages and print images matching TERM, best first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if pages < 1 {
				return fmt.Errorf("--pages must be at least 1")
			}
			env, err := app.Open(g.options())
			if err != nil {
				return err
			}
			defer env.Close()

			if err := env.Loader.LoadPages(cmd.Context(), pages); err != nil {
				return err
			}
			results := env.Index.Query(args[0])
			if len(results) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no matches")
				return nil
			}
			items := gallery.Reconcile(env.Pager.Snapshot().All(), env.Gallery.Liked().Snapshot(), results, env.Policy)
			return printItems(cmd.OutOrStdout(), items)
		},
	}
	cmd.Flags().IntVar(&pages, "pages", 3, "number of pages to fetch before searching")
	return cmd
}

func newLikesCmd(g *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "likes",
		Short: "Inspect or reset locally liked images",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "Print liked image ids",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := app.Open(g.options())
			if err != nil {
				return err
			}
			defer env.Close()

			for _, id := range env.Gallery.Liked().IDs() {
				fmt.Fprintln(cmd.OutOrStdout(), id)
			}
			return nil
		},
	}

	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Forget every local like",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := app.Open(g.options())
			if err != nil {
				return err
			}
			defer env.Close()

			n := env.Gallery.Liked().Len()
			if err := likes.Save(env.Store, likes.NewSet()); err != nil {
				return err
			}
			env.Log.Info().Int("removed", n).Msg("likes cleared")
			fmt.Fprintf(cmd.OutOrStdout(), "cleared %d likes\n", n)
			return nil
		},
	}

	cmd.AddCommand(list, clearCmd)
	return cmd
}

func printItems(w io.Writer, items []gallery.Item) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tAUTHOR\tLIKES\t")
	for _, it := range items {
		mark := ""
		if it.Liked {
			mark = " ♥"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d%s\t\n", it.ID, it.Title, it.Author, it.DisplayLikes, mark)
	}
	return tw.Flush()
}
