package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/charliecalvert/filehound"
)

// flags collects every builder capability exposed on the command line.
type flags struct {
	ext        []string
	glob       string
	match      string
	size       string
	modified   string
	accessed   string
	changed    string
	empty      bool
	entryType  string
	depth      int
	hiddenF    bool
	hiddenD    bool
	discard    []string
	not        bool
	configPath string
	quiet      bool
}

// fileConfig holds defaults loaded from a YAML config file. Command-line
// flags are applied on top of it.
type fileConfig struct {
	Ext                     []string `yaml:"ext"`
	Discard                 []string `yaml:"discard"`
	IgnoreHiddenFiles       bool     `yaml:"ignore_hidden_files"`
	IgnoreHiddenDirectories bool     `yaml:"ignore_hidden_directories"`
	Depth                   *int     `yaml:"depth"`
}

func newRootCommand() *cobra.Command {
	f := &flags{}

	cmd := &cobra.Command{
		Use:   "filehound [flags] [path...]",
		Short: "Recursively find files matching a chain of filters",
		Long: `Filehound walks one or more directories and prints the absolute paths of
entries matching every declared filter. Filters combine with logical AND;
--not inverts the whole chain.

Size and time filters take comparator expressions: an optional operator
(==, >, >=, <, <=), a number, and an optional unit ("<1mb", ">2 days").
Bare numbers mean an exact byte count for --size and days for time filters.`,
		Args:          cobra.ArbitraryArgs,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFind(cmd, f, args)
		},
	}

	cmd.Flags().StringSliceVarP(&f.ext, "ext", "e", nil, "match file extension(s), with or without leading dot")
	cmd.Flags().StringVarP(&f.glob, "glob", "g", "", "match base name (or path, if the pattern contains '/') against a glob")
	cmd.Flags().StringVarP(&f.match, "match", "m", "", "match base name against a regular expression")
	cmd.Flags().StringVarP(&f.size, "size", "s", "", "match file size (e.g. 1024, '>10kb')")
	cmd.Flags().StringVar(&f.modified, "modified", "", "match modification age (e.g. 2, '<1h')")
	cmd.Flags().StringVar(&f.accessed, "accessed", "", "match access age")
	cmd.Flags().StringVar(&f.changed, "changed", "", "match status-change age")
	cmd.Flags().BoolVar(&f.empty, "empty", false, "match only empty entries")
	cmd.Flags().StringVarP(&f.entryType, "type", "t", "file", "entry type: file, directory, or socket")
	cmd.Flags().IntVarP(&f.depth, "depth", "d", -1, "maximum recursion depth (0 = direct children only)")
	cmd.Flags().BoolVar(&f.hiddenF, "ignore-hidden-files", false, "exclude hidden files")
	cmd.Flags().BoolVar(&f.hiddenD, "ignore-hidden-dirs", false, "exclude hidden directory subtrees")
	cmd.Flags().StringSliceVar(&f.discard, "discard", nil, "prune paths containing a segment matching any pattern")
	cmd.Flags().BoolVar(&f.not, "not", false, "invert the combined filter chain")
	cmd.Flags().StringVarP(&f.configPath, "config", "c", "", "YAML config file with filter defaults")
	cmd.Flags().BoolVarP(&f.quiet, "quiet", "q", false, "suppress the match-count summary")

	return cmd
}

func runFind(cmd *cobra.Command, f *flags, args []string) error {
	query, err := buildQuery(f, args)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	query.OnMatch(func(path string) {
		fmt.Fprintln(out, path)
	})

	paths, err := query.Find(cmd.Context())
	if err != nil {
		return err
	}

	if !f.quiet {
		color.New(color.FgGreen).Fprintf(cmd.ErrOrStderr(), "%d match(es)\n", len(paths))
	}

	return nil
}

// buildQuery translates config-file defaults plus flags into a query.
func buildQuery(f *flags, args []string) (*filehound.Query, error) {
	query := filehound.New()

	if f.configPath != "" {
		cfg, err := loadConfig(f.configPath)
		if err != nil {
			return nil, err
		}

		applyConfig(query, cfg)
	}

	roots := args
	if len(roots) == 0 {
		roots = []string{"."}
	}

	for _, root := range roots {
		abs, err := filepath.Abs(root)
		if err != nil {
			return nil, fmt.Errorf("resolve path %q: %w", root, err)
		}

		query.Path(abs)
	}

	if len(f.ext) > 0 {
		query.Ext(f.ext...)
	}

	if f.glob != "" {
		query.Glob(f.glob)
	}

	if f.match != "" {
		query.Match(f.match)
	}

	if f.size != "" {
		query.Size(f.size)
	}

	if f.modified != "" {
		query.Modified(f.modified)
	}

	if f.accessed != "" {
		query.Accessed(f.accessed)
	}

	if f.changed != "" {
		query.Changed(f.changed)
	}

	if f.empty {
		query.IsEmpty()
	}

	switch f.entryType {
	case "", "file":
	case "directory", "dir":
		query.Directory()
	case "socket":
		query.Socket()
	default:
		return nil, fmt.Errorf("unknown entry type %q", f.entryType)
	}

	if f.depth >= 0 {
		query.Depth(f.depth)
	}

	if f.hiddenF {
		query.IgnoreHiddenFiles()
	}

	if f.hiddenD {
		query.IgnoreHiddenDirectories()
	}

	if len(f.discard) > 0 {
		query.Discard(f.discard...)
	}

	if f.not {
		query.Not()
	}

	return query, nil
}

func applyConfig(query *filehound.Query, cfg fileConfig) {
	if len(cfg.Ext) > 0 {
		query.Ext(cfg.Ext...)
	}

	if len(cfg.Discard) > 0 {
		query.Discard(cfg.Discard...)
	}

	if cfg.IgnoreHiddenFiles {
		query.IgnoreHiddenFiles()
	}

	if cfg.IgnoreHiddenDirectories {
		query.IgnoreHiddenDirectories()
	}

	if cfg.Depth != nil {
		query.Depth(*cfg.Depth)
	}
}

func loadConfig(path string) (fileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return fileConfig{}, fmt.Errorf("read config %s: %w", path, err)
	}

	var cfg fileConfig

	err = yaml.Unmarshal(data, &cfg)
	if err != nil {
		return fileConfig{}, fmt.Errorf("parse config %s: %w", path, err)
	}

	return cfg, nil
}
