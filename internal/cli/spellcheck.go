package cli

import (
	"errors"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/dshills/lexi/internal/spell"
	"github.com/dshills/lexi/internal/textfile"
)

// ErrMisspellings is returned when spellcheck finds misspelled words.
var ErrMisspellings = errors.New("misspelled words found")

// ErrNoDictionary is returned when no word list is configured.
var ErrNoDictionary = errors.New("no word dictionary configured (set user.word_dict or pass --dict)")

type spellcheckOptions struct {
	dictPath string
	quiet    bool
}

func newSpellcheckCommand(root *rootOptions) *cobra.Command {
	opts := &spellcheckOptions{}

	cmd := &cobra.Command{
		Use:   "spellcheck <file>...",
		Short: "Report misspelled words in text files",
		Long: `Load each file into a document, walk it with the spell checker and
print every misspelled word as "file: word".

Words are runs of letters. Single letters are never reported and words
are lowercased before the dictionary lookup.

Exit code: 0 if no misspellings were found, 1 otherwise`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSpellcheck(cmd, root, opts, args)
		},
	}

	cmd.Flags().StringVarP(&opts.dictPath, "dict", "d", "", "word list to check against (overrides user.word_dict)")
	cmd.Flags().BoolVarP(&opts.quiet, "quiet", "q", false, "only print the summary")

	return cmd
}

func runSpellcheck(cmd *cobra.Command, root *rootOptions, opts *spellcheckOptions, files []string) error {
	cfg, err := root.loadConfig()
	if err != nil {
		return err
	}
	log, err := root.newLogger(cmd, cfg.Logging)
	if err != nil {
		return err
	}
	defer log.Close()

	dictPath := opts.dictPath
	if dictPath == "" {
		dictPath = cfg.User.WordDictPath
	}
	if dictPath == "" {
		return ErrNoDictionary
	}

	checker, err := spell.NewChecker(dictPath, spell.WithLogger(log))
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fileColor := color.New(color.FgYellow)
	total := 0
	for _, path := range files {
		doc, err := textfile.Read(path)
		if err != nil {
			return err
		}

		checker.Reset()
		words := checker.CheckDocument(doc)
		total += len(words)
		if opts.quiet {
			continue
		}
		for _, w := range words {
			fmt.Fprintf(out, "%s: %s\n", fileColor.Sprint(path), w)
		}
	}

	if total > 0 {
		log.Log("%d misspelled words in %d files", total, len(files))
		return fmt.Errorf("%w: %d", ErrMisspellings, total)
	}
	return nil
}
