// autopo — batch-fills missing or fuzzy translations in gettext PO catalogs
// produced by a web framework's makemessages step, using a machine
// translation backend, while protecting printf-style placeholders.
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/autopo/autopo/backend"
	"github.com/autopo/autopo/config"
	"github.com/autopo/autopo/i18n"
	"github.com/autopo/autopo/pofile"
	"github.com/autopo/autopo/settings"
	"github.com/autopo/autopo/translator"
	"github.com/autopo/autopo/walker"
)

// Version information (set via -ldflags during build)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// ANSI colors
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[0;31m"
	colorGreen  = "\033[0;32m"
	colorYellow = "\033[1;33m"
	colorBlue   = "\033[0;34m"
)

// colorize wraps s in an ANSI color when stderr is a terminal.
var colorize = func() func(color, s string) string {
	if isatty.IsTerminal(os.Stderr.Fd()) {
		return func(color, s string) string { return color + s + colorReset }
	}
	return func(_, s string) string { return s }
}()

func logInfo(format string, args ...any) {
	fmt.Fprintf(os.Stderr, colorize(colorBlue, "[INFO]")+" "+format+"\n", args...)
}

func logSuccess(format string, args ...any) {
	fmt.Fprintf(os.Stderr, colorize(colorGreen, "[OK]")+" "+format+"\n", args...)
}

func logWarning(format string, args ...any) {
	fmt.Fprintf(os.Stderr, colorize(colorYellow, "[WARN]")+" "+format+"\n", args...)
}

func logError(format string, args ...any) {
	fmt.Fprintf(os.Stderr, colorize(colorRed, "[ERROR]")+" "+format+"\n", args...)
}

// ---------------------------------------------------------------------------
// Root command
// ---------------------------------------------------------------------------

var rootDir string

type translateArgs struct {
	locales, excludes []string
	untranslated      bool
	setFuzzy          bool

	provider, apiKey, model, baseURL string
	sourceLang                       string
	chunkSize                        int

	timeout    time.Duration
	proxy      string
	maxRetries int

	dryRun, verbose bool
}

func newRootCmd() *cobra.Command {
	var a translateArgs

	root := &cobra.Command{
		Use:   "autopo",
		Short: "Fill missing translations in gettext PO catalogs",
		Long: `autopo — batch machine translation for gettext PO catalogs.

Walks the locale directory conventions used by web framework message
extraction (locale/, conf/locale/, plus locale_paths from .autopo.yaml),
and fills in missing or fuzzy translations with one backend call per
catalog. Printf-style placeholders (%s, %d, %(name)s) are shielded from
the translation service and restored afterwards, together with leading
and trailing newlines.

Backends:
  google   Google Cloud Translation v2 (API key)
  openai   Any OpenAI-compatible chat endpoint (--base-url, --model)

Examples:
  # Fill all discovered catalogs
  autopo --api-key $KEY

  # Only the fr and de locales, untranslated entries only, mark fuzzy
  autopo -l fr -l de -u -f

  # Local model via an OpenAI-compatible server
  autopo --provider openai --base-url http://localhost:11434/v1 --model llama3.2`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTranslate(a)
		},
	}

	root.PersistentFlags().StringVar(&rootDir, "root", ".", "Project root directory")

	// Catalog selection
	root.Flags().StringArrayVarP(&a.locales, "locale", "l", nil, "Locale(s) to translate, e.g. pt_BR (repeatable; default: all discovered)")
	root.Flags().StringArrayVarP(&a.excludes, "exclude", "x", nil, "Locale(s) to skip (repeatable)")
	root.Flags().BoolVarP(&a.untranslated, "untranslated", "u", false, "Translate only fuzzy and empty entries")
	root.Flags().BoolVarP(&a.setFuzzy, "set-fuzzy", "f", false, "Mark filled entries fuzzy for later review")

	// Backend selection
	root.Flags().StringVar(&a.provider, "provider", "", "Translation backend: google, openai (default google)")
	root.Flags().StringVar(&a.apiKey, "api-key", "", "API key (or AUTOPO_API_KEY env var, or `autopo auth login`)")
	root.Flags().StringVar(&a.model, "model", "", "Model name (openai backend)")
	root.Flags().StringVar(&a.baseURL, "base-url", "", "Custom API base URL")
	root.Flags().StringVar(&a.sourceLang, "source-lang", "", "Source language of the catalogs (default en)")
	root.Flags().IntVar(&a.chunkSize, "chunk-size", 0, "Strings per backend request (0 = backend default)")

	// Network
	root.Flags().DurationVar(&a.timeout, "timeout", 0, "Request timeout (0 = backend default)")
	root.Flags().StringVar(&a.proxy, "proxy", "", "HTTP/HTTPS proxy URL")
	root.Flags().IntVar(&a.maxRetries, "max-retries", 3, "Maximum retries on rate limit or server error")

	root.Flags().BoolVar(&a.dryRun, "dry-run", false, "Process catalogs without calling the backend")
	root.Flags().BoolVar(&a.verbose, "verbose", false, "Enable detailed logging")

	_ = root.RegisterFlagCompletionFunc("provider", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return []string{
			"google\tGoogle Cloud Translation v2 — API key required",
			"openai\tOpenAI-compatible chat endpoint",
		}, cobra.ShellCompDirectiveNoFileComp
	})

	root.AddCommand(
		newAuthCmd(),
		newVersionCmd(),
	)

	return root
}

func main() {
	i18n.Init("")
	if err := newRootCmd().Execute(); err != nil {
		logError("%v", err)
		os.Exit(1)
	}
}

// ---------------------------------------------------------------------------
// translate run
// ---------------------------------------------------------------------------

func runTranslate(a translateArgs) error {
	cfg, err := config.Load(rootDir)
	if err != nil {
		return err
	}

	// Flags override .autopo.yaml, which overrides built-in defaults.
	provider := firstNonEmpty(a.provider, cfg.Provider, backend.ProviderGoogle)
	model := firstNonEmpty(a.model, cfg.Model)
	baseURL := firstNonEmpty(a.baseURL, cfg.BaseURL)
	sourceLang := firstNonEmpty(a.sourceLang, cfg.SourceLang)
	chunkSize := a.chunkSize
	if chunkSize == 0 {
		chunkSize = cfg.ChunkSize
	}

	backendCfg := backend.Config{
		Provider:   provider,
		APIKey:     resolveAPIKey(a.apiKey, provider),
		Model:      model,
		BaseURL:    baseURL,
		Proxy:      a.proxy,
		Timeout:    a.timeout,
		MaxRetries: a.maxRetries,
		ChunkSize:  chunkSize,
		Verbose:    a.verbose,
	}
	if a.dryRun {
		backendCfg.Provider = backend.ProviderSkip
		logInfo(i18n.T("dry run: backend calls are skipped"))
	}

	be, err := backend.New(backendCfg)
	if err != nil {
		return err
	}

	w := &walker.Walker{
		Root:       rootDir,
		Locales:    a.locales,
		Exclude:    append(append([]string{}, cfg.Exclude...), a.excludes...),
		ExtraPaths: cfg.LocalePaths,
	}
	catalogs, err := w.FindCatalogs()
	if err != nil {
		return err
	}
	if len(catalogs) == 0 {
		logWarning(i18n.T("no catalogs matched the requested locales"))
		return nil
	}

	tr := &translator.Translator{
		Backend:          be,
		SourceLang:       sourceLang,
		UntranslatedOnly: a.untranslated,
		SetFuzzy:         a.setFuzzy,
	}
	if a.verbose {
		tr.Logf = logInfo
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	for _, c := range catalogs {
		logInfo(i18n.T("translating %s (locale %s)"), c.Path(), c.Lang)
		if a.verbose {
			reportStats(c.Path())
		}
		// A failed catalog aborts the whole run: a half-processed tree is
		// worse than a clean failure for a batch tool.
		if err := tr.TranslateFile(ctx, c.Path(), c.Lang); err != nil {
			return err
		}
	}

	logSuccess(i18n.N("translated %d catalog", "translated %d catalogs", len(catalogs)), len(catalogs))
	return nil
}

func reportStats(path string) {
	po, err := pofile.ParseFile(path)
	if err != nil {
		return
	}
	total, translated, fuzzy, untranslated := po.Stats()
	logInfo(i18n.T("  %d entries: %d translated, %d fuzzy, %d untranslated"),
		total, translated, fuzzy, untranslated)
}

// resolveAPIKey applies the documented lookup order:
// flag > AUTOPO_API_KEY > credential store.
func resolveAPIKey(flagKey, provider string) string {
	if flagKey != "" {
		return flagKey
	}
	if env := os.Getenv("AUTOPO_API_KEY"); env != "" {
		return env
	}
	return settings.GetAPIKey(provider)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// ---------------------------------------------------------------------------
// auth command
// ---------------------------------------------------------------------------

func newAuthCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage stored backend API keys",
		Long: fmt.Sprintf(`Manage stored backend API keys.

Keys are stored in %s with 0600 permissions.`, settings.FilePath()),
	}
	cmd.AddCommand(newAuthLoginCmd(), newAuthLogoutCmd(), newAuthListCmd())
	return cmd
}

func newAuthLoginCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "login <provider>",
		Short: "Store an API key for a backend",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			provider := args[0]
			fmt.Fprintf(os.Stderr, i18n.T("API key for %s: "), provider)
			reader := bufio.NewReader(os.Stdin)
			key, err := reader.ReadString('\n')
			if err != nil {
				return fmt.Errorf("reading key: %w", err)
			}
			key = strings.TrimSpace(key)
			if key == "" {
				return fmt.Errorf("empty API key")
			}
			if err := settings.SetAPIKey(provider, key); err != nil {
				return err
			}
			logSuccess(i18n.T("stored API key for %s in %s"), provider, settings.FilePath())
			return nil
		},
	}
}

func newAuthLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout <provider>",
		Short: "Remove a stored API key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := settings.Remove(args[0]); err != nil {
				return err
			}
			logSuccess(i18n.T("removed API key for %s"), args[0])
			return nil
		},
	}
}

func newAuthListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored API keys (masked)",
		RunE: func(cmd *cobra.Command, args []string) error {
			store := settings.Load()
			if len(store) == 0 {
				logInfo(i18n.T("no stored API keys"))
				return nil
			}
			providers := make([]string, 0, len(store))
			for p := range store {
				providers = append(providers, p)
			}
			sort.Strings(providers)
			for _, p := range providers {
				fmt.Printf("%-12s %s\n", p, settings.MaskKey(store[p]))
			}
			return nil
		},
	}
}

// ---------------------------------------------------------------------------
// version command
// ---------------------------------------------------------------------------

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("autopo %s (commit %s, built %s)\n", version, commit, date)
		},
	}
}
