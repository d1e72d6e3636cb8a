package cli

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"github.com/dshills/lexi/internal/clipboard"
	"github.com/dshills/lexi/internal/config"
	"github.com/dshills/lexi/internal/config/watcher"
	"github.com/dshills/lexi/internal/engine/document"
	"github.com/dshills/lexi/internal/engine/history"
	"github.com/dshills/lexi/internal/logger"
	"github.com/dshills/lexi/internal/script"
	"github.com/dshills/lexi/internal/session"
	"github.com/dshills/lexi/internal/spell"
	"github.com/dshills/lexi/internal/textfile"
)

type runOptions struct {
	file            string
	watch           bool
	timeout         time.Duration
	systemClipboard bool
	spellcheck      bool
}

func newRunCommand(root *rootOptions) *cobra.Command {
	opts := &runOptions{}

	cmd := &cobra.Command{
		Use:   "run <script.lua>",
		Short: "Run a Lua editing script against a document",
		Long: `Run a Lua editing script in a fresh editing session and print the
resulting document text.

The script reaches the editor through the global lexi table:

  lexi.insert(row, col, text)      lexi.delete(row, col, count)
  lexi.replace(row, col, n, text)  lexi.copy(row, col, count)
  lexi.paste(row, col)             lexi.undo() / lexi.redo()
  lexi.command{...}                lexi.begin_group(name) / lexi.end_group()

Positions are zero-based. With --file the document starts with the file's
contents, and user.auto_save writes every change back to it.

With --watch the script is run again whenever it or the settings file
changes, until interrupted.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRun(cmd, root, opts, args[0])
		},
	}

	cmd.Flags().StringVarP(&opts.file, "file", "f", "", "document to load and auto-save")
	cmd.Flags().BoolVarP(&opts.watch, "watch", "w", false, "re-run when the script or settings change")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", script.DefaultExecutionTimeout, "script execution timeout (0 disables)")
	cmd.Flags().BoolVar(&opts.systemClipboard, "system-clipboard", false, "use the system clipboard for copy and paste")
	cmd.Flags().BoolVar(&opts.spellcheck, "spellcheck", false, "report misspelled words in the result")

	return cmd
}

func runRun(cmd *cobra.Command, root *rootOptions, opts *runOptions, path string) error {
	cfg, err := root.loadConfig()
	if err != nil {
		return err
	}
	log, err := root.newLogger(cmd, cfg.Logging)
	if err != nil {
		return err
	}
	defer log.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	err = runScript(ctx, cmd.OutOrStdout(), cfg, log, opts, path)
	if !opts.watch {
		return err
	}
	if err != nil {
		log.Print(logger.LevelError, err.Error())
	}
	return watchScript(ctx, cmd.OutOrStdout(), root, cfg, log, opts, path)
}

// runScript runs path once in a new session and prints the document.
func runScript(ctx context.Context, out io.Writer, cfg *config.Config, log *logger.Logger, opts *runOptions, path string) error {
	doc := document.New()
	if opts.file != "" {
		var err error
		if doc, err = textfile.ReadOrNew(opts.file); err != nil {
			return err
		}
	}

	sessOpts := []session.Option{
		session.WithDocument(doc),
		session.WithLogger(log),
		session.WithHistory(history.NewManager(
			history.WithMaxDepth(cfg.History.MaxDepth),
			history.WithLogger(log),
		)),
	}
	if opts.systemClipboard {
		sessOpts = append(sessOpts, session.WithClipboard(clipboard.Default()))
	}
	if cfg.User.AutoSave && opts.file != "" {
		sessOpts = append(sessOpts, session.WithAutoSave(textfile.Saver(opts.file)))
	}
	sess := session.New(sessOpts...)

	state := script.NewState(
		script.WithLogger(log),
		script.WithExecutionTimeout(opts.timeout),
	)
	defer state.Close()
	script.Bind(state, sess)

	if err := state.DoFile(ctx, path); err != nil {
		return err
	}

	text := sess.Text()
	fmt.Fprint(out, text)
	if !strings.HasSuffix(text, "\n") {
		fmt.Fprintln(out)
	}
	if err := sess.SaveErr(); err != nil {
		return err
	}

	if opts.spellcheck {
		return reportSpelling(out, cfg, log, sess)
	}
	return nil
}

func reportSpelling(out io.Writer, cfg *config.Config, log *logger.Logger, sess *session.Session) error {
	if cfg.User.WordDictPath == "" {
		return ErrNoDictionary
	}
	checker, err := spell.NewChecker(cfg.User.WordDictPath, spell.WithLogger(log))
	if err != nil {
		return err
	}
	words := sess.SpellCheck(checker)
	for _, w := range words {
		fmt.Fprintf(out, "misspelled: %s\n", w)
	}
	if len(words) > 0 {
		return fmt.Errorf("%w: %d", ErrMisspellings, len(words))
	}
	return nil
}

// watchScript re-runs path whenever it or the settings file changes.
// Settings changes are applied to log before the script runs again.
func watchScript(ctx context.Context, out io.Writer, root *rootOptions, cfg *config.Config, log *logger.Logger, opts *runOptions, path string) error {
	w, err := watcher.New(watcher.WithLogger(log))
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer w.Stop()

	if err := w.Watch(path); err != nil {
		return fmt.Errorf("watching %s: %w", path, err)
	}
	settings, err := filepath.Abs(root.settingsPath())
	if err != nil {
		return err
	}
	if err := w.Watch(settings); err != nil {
		log.Log("not watching settings %s: %v", settings, err)
	}

	changes := newChangeSet()
	w.OnChange(changes.add)
	w.Start()
	log.Log("watching %s", path)

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-changes.ready:
			events := changes.take()
			if _, ok := events[settings]; ok {
				reloaded, err := root.loadConfig()
				if err != nil {
					log.Err("reloading settings: %v", err)
				} else if err := log.Apply(reloaded.Logging); err != nil {
					log.Err("applying settings: %v", err)
				} else {
					cfg = reloaded
					log.Log("settings reloaded from %s", settings)
				}
			}
			if !rerunNeeded(events) {
				continue
			}
			if err := runScript(ctx, out, cfg, log, opts, path); err != nil {
				log.Print(logger.LevelError, err.Error())
			}
		}
	}
}

// changeSet collects watcher events by path until the loop takes them, so
// a burst touching several files loses none of them.
type changeSet struct {
	mu     sync.Mutex
	events map[string]watcher.Event
	ready  chan struct{}
}

func newChangeSet() *changeSet {
	return &changeSet{
		events: make(map[string]watcher.Event),
		ready:  make(chan struct{}, 1),
	}
}

// add records ev, replacing an earlier event for the same path.
func (c *changeSet) add(ev watcher.Event) {
	c.mu.Lock()
	c.events[ev.Path] = ev
	c.mu.Unlock()

	select {
	case c.ready <- struct{}{}:
	default:
	}
}

// take returns the pending events and clears them.
func (c *changeSet) take() map[string]watcher.Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	events := c.events
	c.events = make(map[string]watcher.Event)
	return events
}

// rerunNeeded reports whether any event left a file in place.
func rerunNeeded(events map[string]watcher.Event) bool {
	for _, ev := range events {
		if ev.Op != watcher.OpRemove {
			return true
		}
	}
	return false
}
