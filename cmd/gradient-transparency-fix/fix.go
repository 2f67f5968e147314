package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"syscall"

	"bennypowers.dev/gtf/internal/config"
	"bennypowers.dev/gtf/internal/files"
	"bennypowers.dev/gtf/internal/log"
	"bennypowers.dev/gtf/internal/parser"
	"bennypowers.dev/gtf/internal/rewrite"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// errCheckFailed is returned by --check when a file would change
var errCheckFailed = errors.New("some files need fixing")

const stdinName = "<stdin>"

type fixOptions struct {
	*rootOptions
	root     string
	write    bool
	check    bool
	stdin    bool
	language string
	watch    bool
	jobs     int
}

func newFixCmd(root *rootOptions) *cobra.Command {
	o := &fixOptions{rootOptions: root}
	cmd := &cobra.Command{
		Use:   "fix [patterns...]",
		Short: "Fix transparent gradients in files",
		Long: `Fix the files matching the given doublestar patterns, relative to --root.
Without patterns, the include globs of the configuration are used. Files matching
an exclude glob are always skipped.

Fixed content is printed to stdout unless --write or --check is given. Warnings
go to stderr as path:line:col: warning: message.`,
		Example: `  gradient-transparency-fix fix --write
  gradient-transparency-fix fix --check 'src/**/*.css'
  cat hero.css | gradient-transparency-fix fix --stdin`,
		RunE: o.run,
	}

	flags := cmd.Flags()
	flags.StringVar(&o.root, "root", ".", "project root; patterns and the config file are relative to it")
	flags.BoolVarP(&o.write, "write", "w", false, "write fixed files in place")
	flags.BoolVar(&o.check, "check", false, "exit with status 1 when any file would change")
	flags.BoolVar(&o.stdin, "stdin", false, "fix one document read from stdin")
	flags.StringVar(&o.language, "language", "css", "language of the --stdin document: css, html, javascript, typescript...")
	flags.BoolVar(&o.watch, "watch", false, "fix files again whenever they change")
	flags.IntVarP(&o.jobs, "jobs", "j", runtime.NumCPU(), "number of files fixed in parallel")
	cmd.MarkFlagsMutuallyExclusive("write", "check")
	cmd.MarkFlagsMutuallyExclusive("stdin", "watch")

	return cmd
}

func (o *fixOptions) run(cmd *cobra.Command, args []string) error {
	cfg, configPath, err := o.loadConfig(o.root)
	if err != nil {
		return err
	}
	if configPath != "" {
		log.Info("Using config %s", configPath)
	}
	f, err := cfg.Fixer()
	if err != nil {
		return err
	}
	rw := rewrite.New(f)

	if o.stdin {
		if len(args) > 0 {
			return fmt.Errorf("--stdin takes no patterns")
		}
		return o.fixStdin(cmd, rw)
	}

	m := matcher(cfg, args)
	paths, err := files.Discover(o.root, m)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		log.Warn("No files matched in %s", o.root)
	}

	err = o.fixFiles(cmd, rw, paths)
	if !o.watch {
		return err
	}
	if err != nil && !errors.Is(err, errCheckFailed) {
		return err
	}
	return o.watchFiles(cmd, rw, m)
}

// matcher selects the files named by patterns, or by the configured include
// globs when there are none
func matcher(cfg config.Config, patterns []string) files.Matcher {
	m := files.Matcher{Include: cfg.Include, Exclude: cfg.Exclude}
	if len(patterns) > 0 {
		m.Include = make([]string, 0, len(patterns))
		for _, pattern := range patterns {
			m.Include = append(m.Include, filepath.ToSlash(filepath.Clean(pattern)))
		}
	}
	return m
}

func (o *fixOptions) fixStdin(cmd *cobra.Command, rw *rewrite.Rewriter) error {
	if !parser.IsCSSSupportedLanguage(o.language) {
		return fmt.Errorf("unsupported language %q", o.language)
	}
	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return fmt.Errorf("failed to read stdin: %w", err)
	}
	result, err := rw.Rewrite(string(data), o.language)
	if err != nil {
		return err
	}
	return o.report(cmd, []string{stdinName}, []*rewrite.Result{result})
}

// fixFiles fixes paths with at most o.jobs files in flight. Results are
// reported in path order.
func (o *fixOptions) fixFiles(cmd *cobra.Command, rw *rewrite.Rewriter, paths []string) error {
	results := make([]*rewrite.Result, len(paths))

	var g errgroup.Group
	g.SetLimit(max(1, o.jobs))
	for i, path := range paths {
		g.Go(func() error {
			result, err := fixFile(rw, path, o.write)
			if err != nil {
				return err
			}
			results[i] = result
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	display := make([]string, len(paths))
	for i, path := range paths {
		display[i] = o.displayPath(path)
	}
	return o.report(cmd, display, results)
}

func fixFile(rw *rewrite.Rewriter, path string, write bool) (*rewrite.Result, error) {
	data, err := os.ReadFile(path) //nolint:gosec // G304: paths come from the user's patterns
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	result, err := rw.Rewrite(string(data), parser.LanguageForPath(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if !write || !result.Changed() {
		return result, nil
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if err := os.WriteFile(path, []byte(result.Content), info.Mode().Perm()); err != nil {
		return nil, fmt.Errorf("failed to write %s: %w", path, err)
	}
	log.Info("Fixed %s", path)
	return result, nil
}

// report prints warnings to stderr and, unless writing or checking, the
// fixed content to stdout
func (o *fixOptions) report(cmd *cobra.Command, names []string, results []*rewrite.Result) error {
	stdout, stderr := cmd.OutOrStdout(), cmd.ErrOrStderr()
	changed := 0
	for i, result := range results {
		name := names[i]
		for _, d := range result.Diagnostics {
			if d.Code == rewrite.CodeTransparentGradient {
				continue
			}
			fmt.Fprintf(stderr, "%s:%d:%d: warning: %s\n", name, d.Range.Start.Line+1, d.Range.Start.Character+1, d.Message)
		}
		if !result.Changed() {
			continue
		}
		changed++

		switch {
		case o.check:
			fmt.Fprintf(stderr, "%s: %d %s to fix\n", name, len(result.Edits), plural(len(result.Edits), "declaration"))
		case o.write:
			fmt.Fprintf(stderr, "%s: fixed %d %s\n", name, len(result.Edits), plural(len(result.Edits), "declaration"))
		}
	}

	if !o.check && !o.write {
		for _, result := range results {
			if _, err := io.WriteString(stdout, result.Content); err != nil {
				return err
			}
		}
	}

	if o.check && changed > 0 {
		return errCheckFailed
	}
	return nil
}

func (o *fixOptions) watchFiles(cmd *cobra.Command, rw *rewrite.Rewriter, m files.Matcher) error {
	onChange := func(paths []string) error {
		err := o.fixFiles(cmd, rw, paths)
		if errors.Is(err, errCheckFailed) {
			return nil
		}
		return err
	}
	onError := func(err error) {
		log.Error("%v", err)
	}

	w, err := files.NewWatcher(o.root, m, files.DefaultDebounce, onChange, onError)
	if err != nil {
		return err
	}
	w.Start()
	defer w.Stop()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Fprintf(cmd.ErrOrStderr(), "Watching %s for changes (Ctrl-C to stop)\n", o.root)
	<-ctx.Done()
	return nil
}

// displayPath shortens a discovered path to be relative to the root
func (o *fixOptions) displayPath(path string) string {
	root, err := filepath.Abs(o.root)
	if err != nil {
		return path
	}
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return path
	}
	return filepath.Join(o.root, rel)
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}
