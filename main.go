// ddock finds hard-coded Korean UI text in web sources, replaces it with
// translation calls and keeps the JSON locale stores in step.
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/smartddock/ddock/config"
	"github.com/smartddock/ddock/convert"
	"github.com/smartddock/ddock/extract"
	"github.com/smartddock/ddock/i18n"
	"github.com/smartddock/ddock/keygen"
	"github.com/smartddock/ddock/langmeta"
	"github.com/smartddock/ddock/locales"
	"github.com/smartddock/ddock/lockfile"
	"github.com/smartddock/ddock/monitor"
	"github.com/smartddock/ddock/session"
	"github.com/smartddock/ddock/settings"
	"github.com/smartddock/ddock/sheet"
	"github.com/smartddock/ddock/syntax"
	"github.com/smartddock/ddock/tmcache"
	"github.com/smartddock/ddock/translate"
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
	colorGray   = "\033[0;90m"
)

// The format strings double as message IDs of the embedded catalogs.

func logInfo(format string, args ...any) {
	fmt.Fprintf(os.Stderr, colorBlue+"[INFO]"+colorReset+" "+i18n.T(format)+"\n", args...)
}

func logSuccess(format string, args ...any) {
	fmt.Fprintf(os.Stderr, colorGreen+"[OK]"+colorReset+" "+i18n.T(format)+"\n", args...)
}

func logWarning(format string, args ...any) {
	fmt.Fprintf(os.Stderr, colorYellow+"[WARN]"+colorReset+" "+i18n.T(format)+"\n", args...)
}

func logError(format string, args ...any) {
	fmt.Fprintf(os.Stderr, colorRed+"[ERROR]"+colorReset+" "+i18n.T(format)+"\n", args...)
}

// ---------------------------------------------------------------------------
// Global flags
// ---------------------------------------------------------------------------

var (
	rootDir    string
	configPath string
	verbose    bool
)

// ---------------------------------------------------------------------------
// Root command
// ---------------------------------------------------------------------------

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "ddock",
		Short: "Convert hard-coded UI text into translation calls",
		Long: `ddock: turns hard-coded Korean UI text into translation calls.

Scans .vue, .tsx/.jsx and .ts/.js sources, replaces each text with a
t('key') call and merges the keys into JSON locale stores, translating
new entries through DeepL or an OpenAI-compatible service.

Commands:
  scan        List convertible texts
  preview     Show planned conversions without editing files
  convert     Rewrite sources and update the locale stores
  generate    Add the texts of the sources to the locale stores
  sheet       Exchange locale stores with an .xlsx workbook
  watch       Report convertible text as files change
  status      Show project configuration and store statistics
  cache       Inspect the translation memory
  auth        Manage translation service credentials`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose {
				zerolog.SetGlobalLevel(zerolog.DebugLevel)
			}
		},
	}

	root.PersistentFlags().StringVar(&rootDir, "root", ".", "Project root directory")
	root.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default: <root>/.ddock.yaml)")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	root.AddCommand(
		newInitCmd(),
		newScanCmd(),
		newPreviewCmd(),
		newConvertCmd(),
		newGenerateCmd(),
		newSheetCmd(),
		newWatchCmd(),
		newStatusCmd(),
		newCacheCmd(),
		newAuthCmd(),
		newVersionCmd(),
	)

	return root
}

func main() {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	i18n.Init("")

	if err := newRootCmd().Execute(); err != nil {
		if errors.Is(err, ErrCancelled) {
			return
		}
		logError("%v", err)
		os.Exit(1)
	}
}

// ---------------------------------------------------------------------------
// version
// ---------------------------------------------------------------------------

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("ddock version %s\n", version)
			fmt.Printf("  commit:    %s\n", commit)
			fmt.Printf("  built:     %s\n", date)
		},
	}
}

// ---------------------------------------------------------------------------
// Project context
// ---------------------------------------------------------------------------

// project bundles the state every command works from.
type project struct {
	root   string
	cfg    *config.File
	sess   *session.Session
	keys   *keygen.Generator
	ledger *lockfile.LockFile
	adds   []selection
}

// sessionFlags are the namespace and exclusion flags shared by the
// planning commands.
type sessionFlags struct {
	namespace string
	exclude   []string
	include   []string
	add       []string
}

func (f *sessionFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.namespace, "namespace", "n", "", "Key namespace (overrides the config)")
	cmd.Flags().StringArrayVar(&f.exclude, "exclude", nil, "Exclude a text by its ID as printed by scan (repeatable)")
	cmd.Flags().StringArrayVar(&f.include, "include", nil, "Convert a text excluded in the config, by ID (repeatable)")
}

// registerAdd adds --add to commands that plan edits from a fresh scan.
func (f *sessionFlags) registerAdd(cmd *cobra.Command) {
	cmd.Flags().StringArrayVar(&f.add, "add", nil, "Also convert the byte range path:start:end (repeatable)")
}

// selection is an operator-chosen range. Offsets are bytes, as in scan IDs.
type selection struct {
	path       string
	start, end int
}

func parseSelection(s string) (selection, error) {
	bad := fmt.Errorf("invalid range %q (want path:start:end)", s)
	i := strings.LastIndexByte(s, ':')
	if i <= 0 {
		return selection{}, bad
	}
	j := strings.LastIndexByte(s[:i], ':')
	if j <= 0 {
		return selection{}, bad
	}
	start, err := strconv.Atoi(s[j+1 : i])
	if err != nil {
		return selection{}, bad
	}
	end, err := strconv.Atoi(s[i+1:])
	if err != nil || start < 0 || end <= start {
		return selection{}, bad
	}
	return selection{path: s[:j], start: start, end: end}, nil
}

func loadProject(sf *sessionFlags) (*project, error) {
	root, err := filepath.Abs(rootDir)
	if err != nil {
		return nil, fmt.Errorf("resolving root: %w", err)
	}
	if err := config.LoadEnv(root); err != nil {
		logWarning("%v", err)
	}
	cfg, err := config.LoadFrom(root, configPath)
	if err != nil {
		return nil, err
	}

	sess := session.New()
	sess.SetNamespace(cfg.Namespace)
	for _, id := range cfg.Exclude {
		sess.Exclude(id)
	}
	var adds []selection
	if sf != nil {
		if sf.namespace != "" {
			sess.SetNamespace(sf.namespace)
		}
		for _, id := range sf.exclude {
			sess.Exclude(id)
		}
		for _, id := range sf.include {
			sess.Include(id)
		}
		for _, a := range sf.add {
			sel, err := parseSelection(a)
			if err != nil {
				return nil, err
			}
			adds = append(adds, sel)
		}
	}

	keys := keygen.New(cfg.KeyOptions(func(msg string) { logWarning("%s", msg) }))
	ledger, err := lockfile.Load(filepath.Join(root, config.StateDir))
	if err != nil {
		logWarning("Ignoring unreadable key ledger: %v", err)
		ledger = lockfile.New(filepath.Join(root, config.StateDir))
	}

	log.Debug().Str("root", root).Strs("languages", cfg.AllLanguages()).
		Str("transform", keys.Name()).Str("namespace", sess.Namespace()).Msg("project loaded")
	return &project{root: root, cfg: cfg, sess: sess, keys: keys, ledger: ledger, adds: adds}, nil
}

func (p *project) saveLedger() {
	if err := os.MkdirAll(filepath.Dir(p.ledger.Path()), 0755); err != nil {
		logWarning("Cannot create %s: %v", config.StateDir, err)
		return
	}
	if err := p.ledger.Save(); err != nil {
		logWarning("Cannot save key ledger: %v", err)
	}
}

func (p *project) rel(path string) string {
	if r, err := filepath.Rel(p.root, path); err == nil && !strings.HasPrefix(r, "..") {
		return r
	}
	return path
}

// sources resolves the command arguments (files or directories) to source
// files. Without arguments the configured source directories are scanned.
func (p *project) sources(args []string) ([]string, error) {
	dirs := p.cfg.SourceDirs(p.root)
	var files []string
	if len(args) > 0 {
		dirs = nil
		for _, a := range args {
			path := a
			if !filepath.IsAbs(path) {
				path = filepath.Join(p.root, path)
			}
			info, err := os.Stat(path)
			if err != nil {
				return nil, err
			}
			if info.IsDir() {
				dirs = append(dirs, path)
				continue
			}
			if _, ok := syntax.ForFile(path); !ok {
				return nil, fmt.Errorf("unsupported file type: %s", a)
			}
			files = append(files, path)
		}
	}
	if len(dirs) > 0 {
		found, err := extract.FindSources(dirs, p.cfg.Extensions)
		if err != nil {
			return nil, err
		}
		files = append(files, found...)
	}
	return files, nil
}

func (p *project) extractor() extract.Extractor {
	return extract.Hangul{Call: p.cfg.Call}
}

// scan reads every source, drops excluded ranges and adds the ranges
// selected with --add.
func (p *project) scan(args []string) ([]*extract.Document, error) {
	files, err := p.sources(args)
	if err != nil {
		return nil, err
	}
	if len(files) > 0 {
		log.Debug().Str("files", extract.DescribeFiles(files)).Msg("scanning")
	}

	docs := make([]*extract.Document, 0, len(files))
	for _, f := range files {
		doc, err := extract.Scan(p.extractor(), f)
		if err != nil {
			logWarning("%v", err)
			continue
		}
		doc.Texts = p.sess.Filter(doc.Texts)
		docs = append(docs, doc)
	}
	for _, sel := range p.adds {
		if docs, err = p.addSelection(docs, sel); err != nil {
			return nil, err
		}
	}
	return docs, nil
}

// addSelection puts sel into the texts of its document, in place of any
// extracted range it overlaps. A file outside the scanned set contributes
// only the selection.
func (p *project) addSelection(docs []*extract.Document, sel selection) ([]*extract.Document, error) {
	path := sel.path
	if !filepath.IsAbs(path) {
		path = filepath.Join(p.root, path)
	}
	path = filepath.Clean(path)

	var doc *extract.Document
	for _, d := range docs {
		if filepath.Clean(d.Path) == path {
			doc = d
			break
		}
	}
	if doc == nil {
		d, err := extract.Scan(p.extractor(), path)
		if err != nil {
			return nil, err
		}
		d.Texts = nil
		docs = append(docs, d)
		doc = d
	}

	where := fmt.Sprintf("%s:%d:%d", p.rel(path), sel.start, sel.end)
	if sel.end > len(doc.Source) {
		return nil, fmt.Errorf("range %s is past the end of the file", where)
	}
	r := extract.Range{Start: sel.start, End: sel.end, Text: doc.Source[sel.start:sel.end]}
	if strings.TrimSpace(r.Text) == "" || !utf8.ValidString(r.Text) {
		return nil, fmt.Errorf("range %s does not cover text", where)
	}

	texts := make([]extract.Range, 0, len(doc.Texts)+1)
	for _, t := range doc.Texts {
		if !t.Overlaps(r) {
			texts = append(texts, t)
		}
	}
	texts = append(texts, r)
	slices.SortStableFunc(texts, func(a, b extract.Range) int { return a.Start - b.Start })
	doc.Texts = texts
	log.Debug().Str("file", p.rel(path)).Str("text", r.Text).Msg("range added")
	return docs, nil
}

// rescan extracts path again after it changed. Exclusion IDs from the
// previous snapshot no longer match its offsets and are dropped.
func (p *project) rescan(path string) (*extract.Document, error) {
	if stale := p.sess.Excluded(); len(stale) > 0 {
		p.sess.ClearExclusions()
		log.Debug().Str("file", p.rel(path)).Strs("ids", stale).Msg("exclusions dropped")
	}
	return extract.Scan(p.extractor(), path)
}

func (p *project) planner(f syntax.Family) *convert.Planner {
	return convert.NewPlanner(f, p.keys, p.sess, p.cfg.Call)
}

func interruptContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt)
	go func() {
		select {
		case <-sigCh:
			logWarning("Interrupted, stopping...")
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(sigCh)
	}()
	return ctx, cancel
}

// ---------------------------------------------------------------------------
// Prompts
// ---------------------------------------------------------------------------

// ErrCancelled is returned when the operator abandons a prompt. Nothing has
// been changed at that point and ddock exits quietly.
var ErrCancelled = errors.New("cancelled")

// promptInput is where answers are read from.
var promptInput io.Reader = os.Stdin

type prompter struct {
	r *bufio.Reader
}

func newPrompter() *prompter {
	return &prompter{r: bufio.NewReader(promptInput)}
}

// ask prints question and returns the trimmed answer. End of input cancels.
func (pr *prompter) ask(question string) (string, error) {
	fmt.Fprint(os.Stderr, question)
	line, err := pr.r.ReadString('\n')
	switch {
	case err == nil:
	case errors.Is(err, io.EOF) && line != "":
	case errors.Is(err, io.EOF):
		fmt.Fprintln(os.Stderr)
		return "", ErrCancelled
	default:
		return "", fmt.Errorf("reading answer: %w", err)
	}
	return strings.TrimSpace(line), nil
}

// askSession asks for the namespace and, when langs is set, the languages
// that were not given as flags. Enter keeps the namespace and "-" clears it.
// An empty language answer cancels.
func (p *project) askSession(sf *sessionFlags, tf *serviceFlags, langs bool) error {
	pr := newPrompter()
	if sf.namespace == "" {
		ns, err := pr.ask(fmt.Sprintf("  Namespace [%s]: ", p.sess.Namespace()))
		if err != nil {
			return err
		}
		switch ns {
		case "":
		case "-":
			p.sess.SetNamespace("")
		default:
			p.sess.SetNamespace(ns)
		}
	}
	if langs && strings.TrimSpace(tf.langs) == "" {
		all := p.cfg.AllLanguages()
		answer, err := pr.ask(fmt.Sprintf("  Languages (%s, or all): ", strings.Join(all, ", ")))
		if err != nil {
			return err
		}
		switch answer {
		case "":
			return ErrCancelled
		case "all":
		default:
			tf.langs = answer
		}
	}
	log.Debug().Str("namespace", p.sess.Namespace()).Str("languages", tf.langs).Msg("prompts answered")
	return nil
}

// ---------------------------------------------------------------------------
// init
// ---------------------------------------------------------------------------

func newInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a .ddock.yaml with the detected settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := loadProject(nil)
			if err != nil {
				return err
			}
			path := filepath.Join(p.root, config.FileName)
			if fileExists(path) && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", config.FileName)
			}
			if err := p.cfg.Save(p.root); err != nil {
				return err
			}
			logSuccess("Wrote %s", p.rel(path))
			logInfo("Sources: %s", strings.Join(p.cfg.Sources, ", "))
			logInfo("Locales: %s (%s)", p.cfg.Locales.OutputDir, p.cfg.Locales.FilenamePattern)
			logInfo("Languages: %s", strings.Join(p.cfg.AllLanguages(), ", "))
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing config")
	return cmd
}

// ---------------------------------------------------------------------------
// scan / preview
// ---------------------------------------------------------------------------

type scanReport struct {
	Path   string          `json:"path"`
	Family string          `json:"family"`
	Texts  []extract.Range `json:"texts"`
	Refs   []extract.Range `json:"refs"`
}

func newScanCmd() *cobra.Command {
	var (
		sf      sessionFlags
		asJSON  bool
		showRef bool
	)

	cmd := &cobra.Command{
		Use:   "scan [path...]",
		Short: "List convertible texts",
		Long: `List the Korean texts that can be converted, with their position and ID.

IDs can be passed to --exclude of preview, convert and generate.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := loadProject(&sf)
			if err != nil {
				return err
			}
			docs, err := p.scan(args)
			if err != nil {
				return err
			}

			if asJSON {
				reports := make([]scanReport, 0, len(docs))
				for _, d := range docs {
					reports = append(reports, scanReport{Path: p.rel(d.Path), Family: d.Family.String(), Texts: d.Texts, Refs: d.Refs})
				}
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				enc.SetEscapeHTML(false)
				return enc.Encode(reports)
			}

			var texts, refs, files int
			for _, d := range docs {
				if len(d.Texts) == 0 && (!showRef || len(d.Refs) == 0) {
					continue
				}
				files++
				fmt.Printf("%s%s%s\n", colorBlue, p.rel(d.Path), colorReset)
				for _, r := range d.Texts {
					line, col := extract.LineCol(d.Source, r.Start)
					fmt.Printf("  %4d:%-3d %s  %s%s%s\n", line, col, r.Text, colorGray, session.RangeID(r), colorReset)
				}
				if showRef {
					for _, r := range d.Refs {
						line, col := extract.LineCol(d.Source, r.Start)
						fmt.Printf("  %4d:%-3d %s%s (translated)%s\n", line, col, r.Text, colorGray, colorReset)
					}
				}
				texts += len(d.Texts)
				refs += len(d.Refs)
			}
			if texts == 0 {
				logInfo("No convertible text found")
				return nil
			}
			logInfo("%d texts in %d files, %d existing calls", texts, files, refs)
			return nil
		},
	}
	sf.register(cmd)
	sf.registerAdd(cmd)
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the scan as JSON")
	cmd.Flags().BoolVar(&showRef, "refs", false, "Also list existing translation calls")
	return cmd
}

func newPreviewCmd() *cobra.Command {
	var sf sessionFlags

	cmd := &cobra.Command{
		Use:   "preview [path...]",
		Short: "Show planned conversions without editing files",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := loadProject(&sf)
			if err != nil {
				return err
			}
			docs, err := p.scan(args)
			if err != nil {
				return err
			}
			total := 0
			for _, d := range docs {
				overlays := p.planner(d.Family).Preview(extract.UniqueTexts(d.Texts), d.Texts)
				if len(overlays) == 0 {
					continue
				}
				fmt.Printf("%s%s%s\n", colorBlue, p.rel(d.Path), colorReset)
				for _, o := range overlays {
					line, col := extract.LineCol(d.Source, o.Range.Start)
					fmt.Printf("  %4d:%-3d %s %s→%s %s%s%s\n", line, col, o.Range.Text, colorGray, colorReset, colorGreen, o.Replacement, colorReset)
				}
				total += len(overlays)
			}
			if total == 0 {
				logInfo("Nothing to convert")
				return nil
			}
			logInfo("%d conversions planned", total)
			return nil
		},
	}
	sf.register(cmd)
	sf.registerAdd(cmd)
	return cmd
}

// ---------------------------------------------------------------------------
// Translation service
// ---------------------------------------------------------------------------

type serviceFlags struct {
	langs   string
	service string
	apiKey  string
	model   string
	baseURL string
	proxy   string
	noCache bool
}

func (f *serviceFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.langs, "lang", "", "Languages to generate (comma-separated, default: all configured)")
	cmd.Flags().StringVar(&f.service, "service", "", "Translation service: "+strings.Join(translate.Services(), ", "))
	cmd.Flags().StringVar(&f.apiKey, "api-key", "", "API key (or "+settings.EnvAPIKey+" env var)")
	cmd.Flags().StringVar(&f.model, "model", "", "Chat model (OpenAI-compatible services)")
	cmd.Flags().StringVar(&f.baseURL, "base-url", "", "Custom API base URL")
	cmd.Flags().StringVar(&f.proxy, "proxy", "", "HTTP/HTTPS proxy URL")
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "Bypass the translation memory")

	_ = cmd.RegisterFlagCompletionFunc("service", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return translate.Services(), cobra.ShellCompDirectiveNoFileComp
	})
}

// translator builds the translation backend, wrapped in the translation
// memory when enabled. The returned func releases the memory.
func (p *project) translator(f *serviceFlags) (locales.Translator, func(), error) {
	service := firstNonEmpty(f.service, p.cfg.Translation.Service)
	stored := settings.Get(service)
	if stored == nil {
		stored = &settings.Info{}
	}

	prov := translate.Provider{
		ID:      service,
		APIKey:  settings.ResolveAPIKey(service, f.apiKey),
		BaseURL: firstNonEmpty(f.baseURL, p.cfg.Translation.BaseURL, stored.BaseURL),
		Model:   firstNonEmpty(f.model, p.cfg.Translation.Model, stored.Model),
		Proxy:   f.proxy,
	}
	tr, err := translate.New(translate.Options{
		Provider:       prov,
		SourceLanguage: p.cfg.SourceLang,
		ChunkSize:      p.cfg.Translation.ChunkSize,
		SystemPrompt:   p.cfg.Translation.Prompt,
	})
	if err != nil {
		return nil, func() {}, err
	}
	eff := tr.Provider()
	log.Debug().Str("service", eff.ID).Str("url", eff.BaseURL).Str("model", eff.Model).Msg("translation service")

	if f.noCache || !p.cfg.CacheEnabled() {
		return tr, func() {}, nil
	}
	cache, err := tmcache.Open(config.StatePath(p.root, tmcache.FileName))
	if err != nil {
		logWarning("Translation memory unavailable: %v", err)
		return tr, func() {}, nil
	}
	model := eff.Model
	if eff.ID == translate.ServiceDeepL {
		model = ""
	}
	return tmcache.Wrap(cache, tr, eff.ID, model, p.cfg.SourceLang), func() { cache.Close() }, nil
}

// languages returns the configured languages, narrowed by a --lang list.
func (p *project) languages(filter string) []string {
	all := p.cfg.AllLanguages()
	if strings.TrimSpace(filter) == "" {
		return all
	}
	want := strings.Split(filter, ",")
	langs := intersectLanguages(all, want)
	for _, w := range want {
		w = strings.TrimSpace(w)
		if w != "" && !contains(all, w) {
			logWarning("Language %s is not configured, skipping", w)
		}
	}
	return langs
}

// ---------------------------------------------------------------------------
// Locale generation
// ---------------------------------------------------------------------------

var familyOrder = []syntax.Family{syntax.Brace, syntax.Expression, syntax.Plain}

func (p *project) engine(onProgress func(locales.Progress)) *locales.Engine {
	return locales.New(locales.Options{
		Keys:           p.keys,
		Session:        p.sess,
		Ledger:         p.ledger,
		SourceLanguage: p.cfg.SourceLang,
		Dir:            p.cfg.OutputDir(p.root),
		Pattern:        p.cfg.Locales.FilenamePattern,
		OnProgress:     onProgress,
	})
}

// generate merges the texts of each family into every language and reports
// the outcome. It returns the number of failed languages.
func (p *project) generate(ctx context.Context, byFamily map[syntax.Family][]string, langs []string, tr locales.Translator) int {
	failed := 0
	for _, fam := range familyOrder {
		texts := byFamily[fam]
		if len(texts) == 0 {
			continue
		}
		bar := newProgressBar(len(langs), fam.Short())
		eng := p.engine(func(pr locales.Progress) {
			bar.Describe(fmt.Sprintf("[cyan]%s[reset] %s %s", fam.Short(), pr.Language, pr.Stage))
			if pr.Stage == locales.StageDone || pr.Stage == locales.StageFailed {
				_ = bar.Add(1)
			}
		})
		results := eng.GenerateAll(ctx, fam, texts, langs, tr)
		_ = bar.Finish()
		failed += p.report(results)
	}
	p.saveLedger()
	return failed
}

func (p *project) report(results []locales.LanguageResult) int {
	failed := 0
	for _, r := range results {
		label := langmeta.Label(r.Language)
		if r.Err != nil {
			failed++
			var te *locales.TranslationError
			var we *locales.WriteError
			switch {
			case errors.As(r.Err, &te):
				logError("%s: translation failed: %v", label, te.Err)
			case errors.As(r.Err, &we):
				logError("%s: cannot write %s: %v", label, p.rel(we.Path), we.Err)
			default:
				logError("%s: %v", label, r.Err)
			}
			continue
		}
		res := r.Result
		for _, c := range res.Collisions {
			logWarning("%s: key %q already belongs to another text, kept the existing entry (%s)", label, c.Key, c.Text)
		}
		if !res.Written {
			logInfo("%s: up to date", label)
			continue
		}
		logSuccess("%s: %d added, %d already present → %s", label, len(res.Added), len(res.Skipped), p.rel(res.Path))
		for _, e := range res.Added {
			log.Debug().Str("language", r.Language).Str("key", e.Key).Str("value", e.Value).Msg("added")
		}
	}
	return failed
}

func newProgressBar(total int, desc string) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(30),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionSetDescription(fmt.Sprintf("[cyan]%s[reset]", desc)),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}))
}

func textsByFamily(docs []*extract.Document) map[syntax.Family][]string {
	out := make(map[syntax.Family][]string)
	seen := make(map[syntax.Family]map[string]bool)
	for _, d := range docs {
		if seen[d.Family] == nil {
			seen[d.Family] = make(map[string]bool)
		}
		for _, t := range extract.UniqueTexts(d.Texts) {
			if !seen[d.Family][t] {
				seen[d.Family][t] = true
				out[d.Family] = append(out[d.Family], t)
			}
		}
	}
	return out
}

// ---------------------------------------------------------------------------
// generate
// ---------------------------------------------------------------------------

func newGenerateCmd() *cobra.Command {
	var (
		sf          sessionFlags
		tf          serviceFlags
		interactive bool
	)

	cmd := &cobra.Command{
		Use:   "generate [path...]",
		Short: "Add the texts of the sources to the locale stores",
		Long: `Add every convertible text of the sources to the locale stores.

Keys that already exist are left untouched; new entries are translated for
every language other than the source language.

Examples:
  ddock generate
  ddock generate src/pages --lang en,ja
  ddock generate --service openai --model gpt-4o-mini`,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := loadProject(&sf)
			if err != nil {
				return err
			}
			if interactive {
				if err := p.askSession(&sf, &tf, true); err != nil {
					return err
				}
			}
			docs, err := p.scan(args)
			if err != nil {
				return err
			}
			byFamily := textsByFamily(docs)
			if len(byFamily) == 0 {
				logInfo("No convertible text found")
				return nil
			}

			langs := p.languages(tf.langs)
			tr, closeTr, err := p.translator(&tf)
			if err != nil {
				if needsTranslation(langs, p.cfg.SourceLang) {
					return err
				}
				tr = nil
			}
			defer closeTr()

			ctx, cancel := interruptContext()
			defer cancel()
			if failed := p.generate(ctx, byFamily, langs, tr); failed > 0 {
				return fmt.Errorf("%d of %d languages failed", failed, len(langs))
			}
			return nil
		},
	}
	sf.register(cmd)
	sf.registerAdd(cmd)
	tf.register(cmd)
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "Ask for the namespace and languages not given as flags")
	return cmd
}

func needsTranslation(langs []string, source string) bool {
	return len(filterOutLang(langs, source)) > 0
}

// ---------------------------------------------------------------------------
// convert
// ---------------------------------------------------------------------------

func newConvertCmd() *cobra.Command {
	var (
		sf          sessionFlags
		tf          serviceFlags
		dryRun      bool
		noGenerate  bool
		interactive bool
	)

	cmd := &cobra.Command{
		Use:   "convert [path...]",
		Short: "Rewrite sources and update the locale stores",
		Long: `Replace every convertible text with a translation call and merge the
new keys into the locale stores.

Without a usable translation service only the source language store is
updated.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := loadProject(&sf)
			if err != nil {
				return err
			}
			if interactive {
				if err := p.askSession(&sf, &tf, !dryRun && !noGenerate); err != nil {
					return err
				}
			}
			docs, err := p.scan(args)
			if err != nil {
				return err
			}

			var converted []*extract.Document
			edits := 0
			for _, d := range docs {
				texts := extract.UniqueTexts(d.Texts)
				if len(texts) == 0 {
					continue
				}
				planner := p.planner(d.Family)
				planned := planner.Preview(texts, d.Texts)
				out, mods, err := planner.Commit(d.Source, texts, d.Texts)
				if err != nil {
					logError("%s: %v", p.rel(d.Path), err)
					continue
				}
				if len(mods) == 0 {
					continue
				}
				if dryRun {
					fmt.Printf("%s%s%s\n", colorBlue, p.rel(d.Path), colorReset)
					for _, m := range mods {
						line, col := extract.LineCol(d.Source, m.Start)
						fmt.Printf("  %4d:%-3d %s %s→%s %s\n", line, col, d.Source[m.Start:m.End], colorGray, colorReset, m.Replacement)
					}
				} else if err := writeSource(d.Path, out); err != nil {
					logError("%v", err)
					continue
				}
				edits += len(mods)

				ranges := make([]extract.Range, len(planned))
				for i, o := range planned {
					ranges[i] = o.Range
				}
				converted = append(converted, &extract.Document{Path: d.Path, Family: d.Family, Texts: ranges})
				logSuccess("%s: %d texts converted", p.rel(d.Path), len(mods))
			}

			if edits == 0 {
				logInfo("Nothing to convert")
				return nil
			}
			logSuccess("%s", i18n.N("Converted %d text", "Converted %d texts", edits, edits))
			if dryRun || noGenerate {
				return nil
			}

			langs := p.languages(tf.langs)
			tr, closeTr, err := p.translator(&tf)
			if err != nil {
				if needsTranslation(langs, p.cfg.SourceLang) {
					logWarning("%v", err)
					logWarning("Only the %s store is updated", p.cfg.SourceLang)
				}
				langs = intersectLanguages(langs, []string{p.cfg.SourceLang})
				tr = nil
			}
			defer closeTr()

			ctx, cancel := interruptContext()
			defer cancel()
			if failed := p.generate(ctx, textsByFamily(converted), langs, tr); failed > 0 {
				return fmt.Errorf("%d of %d languages failed", failed, len(langs))
			}
			return nil
		},
	}
	sf.register(cmd)
	tf.register(cmd)
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Print the edits without writing")
	cmd.Flags().BoolVar(&noGenerate, "no-generate", false, "Only rewrite sources")
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "Ask for the namespace and languages not given as flags")
	sf.registerAdd(cmd)
	return cmd
}

func writeSource(path, content string) error {
	mode := os.FileMode(0644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}
	if err := os.WriteFile(path, []byte(content), mode); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// ---------------------------------------------------------------------------
// sheet
// ---------------------------------------------------------------------------

func newSheetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sheet",
		Short: "Exchange locale stores with an .xlsx workbook",
	}
	cmd.AddCommand(newSheetExportCmd(), newSheetImportCmd())
	return cmd
}

func (p *project) workbook(args []string) string {
	path := "translations.xlsx"
	switch {
	case len(args) > 0:
		path = args[0]
	case p.cfg.Spreadsheet.Path != "":
		path = p.cfg.Spreadsheet.Path
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(p.root, path)
	}
	return path
}

func (p *project) storePath(lang string) string {
	return locales.ResolvePath(p.cfg.OutputDir(p.root), p.cfg.Locales.FilenamePattern, lang, p.sess.Namespace())
}

func newSheetExportCmd() *cobra.Command {
	var sf sessionFlags

	cmd := &cobra.Command{
		Use:   "export [file.xlsx]",
		Short: "Write every locale store into one workbook",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := loadProject(&sf)
			if err != nil {
				return err
			}
			stores := make(map[string]*locales.Map)
			for _, lang := range p.cfg.AllLanguages() {
				path := p.storePath(lang)
				m, err := locales.LoadStore(path)
				if err != nil {
					if !errors.Is(err, os.ErrNotExist) {
						logWarning("%v", err)
					}
					continue
				}
				stores[lang] = m
			}
			if len(stores) == 0 {
				logInfo("No locale stores found in %s", p.rel(p.cfg.OutputDir(p.root)))
				return nil
			}

			out := p.workbook(args)
			n, err := sheet.Export(out, p.cfg.Spreadsheet.Sheet, stores)
			if err != nil {
				return err
			}
			logSuccess("Exported %d keys in %d languages to %s", n, len(stores), p.rel(out))
			return nil
		},
	}
	sf.register(cmd)
	return cmd
}

func newSheetImportCmd() *cobra.Command {
	var (
		sf     sessionFlags
		dryRun bool
	)

	cmd := &cobra.Command{
		Use:   "import [file.xlsx]",
		Short: "Merge a workbook back into the locale stores",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := loadProject(&sf)
			if err != nil {
				return err
			}
			in := p.workbook(args)
			stores, err := sheet.Import(in, p.cfg.Spreadsheet.Sheet)
			if err != nil {
				return err
			}

			configured := p.cfg.AllLanguages()
			langs := make([]string, 0, len(stores))
			for lang := range stores {
				langs = append(langs, lang)
			}
			for _, lang := range sheet.OrderLanguages(langs) {
				if !contains(configured, lang) {
					logWarning("Language %s is not configured, skipping", lang)
					continue
				}
				path := p.storePath(lang)
				dst := locales.ReadStore(path)
				changed := sheet.Merge(dst, stores[lang])
				if changed == 0 {
					logInfo("%s: up to date", langmeta.Label(lang))
					continue
				}
				if !dryRun {
					if err := locales.WriteStore(path, dst); err != nil {
						logError("%v", err)
						continue
					}
				}
				logSuccess("%s: %d values updated → %s", langmeta.Label(lang), changed, p.rel(path))
			}
			return nil
		},
	}
	sf.register(cmd)
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Report changes without writing")
	return cmd
}

// ---------------------------------------------------------------------------
// watch
// ---------------------------------------------------------------------------

func newWatchCmd() *cobra.Command {
	var (
		sf       sessionFlags
		generate bool
	)

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Report convertible text as files change",
		Long: `Report convertible text in every source, then watch the source
directories and report each changed file once it has been quiet for the
configured debounce interval. Exclusions apply to the first report only.

With --generate the texts are also added to the source language store.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := loadProject(&sf)
			if err != nil {
				return err
			}
			ctx, cancel := interruptContext()
			defer cancel()

			var mu sync.Mutex
			handle := func(doc *extract.Document) {
				texts := extract.UniqueTexts(doc.Texts)
				planned := p.planner(doc.Family).Preview(texts, doc.Texts)
				if len(planned) == 0 {
					log.Debug().Str("file", p.rel(doc.Path)).Msg("no convertible text")
					return
				}
				logInfo("%s: %d texts to convert", p.rel(doc.Path), len(planned))
				if !generate {
					return
				}

				mu.Lock()
				defer mu.Unlock()
				res, err := p.engine(nil).Generate(ctx, locales.Request{Family: doc.Family, Texts: texts, Language: p.cfg.SourceLang})
				p.report([]locales.LanguageResult{{Language: p.cfg.SourceLang, Result: res, Err: err}})
				p.saveLedger()
			}
			onChange := func(path string) {
				doc, err := p.rescan(path)
				if err != nil {
					logWarning("%v", err)
					return
				}
				handle(doc)
			}

			// The first pass honors the exclusions; changes start a new snapshot.
			docs, err := p.scan(nil)
			if err != nil {
				return err
			}
			for _, d := range docs {
				handle(d)
			}

			m, err := monitor.New(monitor.Options{
				Dirs:       p.cfg.SourceDirs(p.root),
				Extensions: p.cfg.Extensions,
				Debounce:   p.cfg.Watch.Debounce,
				OnChange:   onChange,
			})
			if err != nil {
				return err
			}
			logInfo("Watching %s (Ctrl+C to stop)", strings.Join(p.cfg.Sources, ", "))
			return m.Run(ctx)
		},
	}
	sf.register(cmd)
	cmd.Flags().BoolVar(&generate, "generate", false, "Add new texts to the source language store")
	return cmd
}

// ---------------------------------------------------------------------------
// status
// ---------------------------------------------------------------------------

func newStatusCmd() *cobra.Command {
	var sf sessionFlags

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show project configuration and store statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := loadProject(&sf)
			if err != nil {
				return err
			}
			cfgFile := filepath.Join(p.root, config.FileName)
			if configPath != "" {
				cfgFile = configPath
			}
			cfgState := "not found, using detected defaults"
			if fileExists(cfgFile) {
				cfgState = p.rel(cfgFile)
			}

			fmt.Printf("%sProject%s %s\n", colorBlue, colorReset, p.root)
			fmt.Printf("  %-12s %s\n", "config:", cfgState)
			fmt.Printf("  %-12s %s\n", "sources:", strings.Join(p.cfg.Sources, ", "))
			fmt.Printf("  %-12s %s\n", "call:", p.cfg.Call)
			fmt.Printf("  %-12s %s\n", "keys:", p.keys.Name())
			if ns := p.sess.Namespace(); ns != "" {
				fmt.Printf("  %-12s %s\n", "namespace:", ns)
			}
			fmt.Printf("  %-12s %s\n", "service:", p.cfg.Translation.Service)

			fmt.Printf("\n%sLocale stores%s %s\n", colorBlue, colorReset, p.rel(p.cfg.OutputDir(p.root)))
			for _, lang := range p.cfg.AllLanguages() {
				path := p.storePath(lang)
				state := colorRed + "missing" + colorReset
				if m, err := locales.LoadStore(path); err == nil {
					state = fmt.Sprintf("%d keys", m.Len())
				} else if !errors.Is(err, os.ErrNotExist) {
					state = colorRed + "unreadable" + colorReset
				}
				fmt.Printf("  %-28s %-32s %s\n", langmeta.Label(lang), p.rel(path), state)
			}

			fmt.Printf("\n%sKey ledger%s %s\n", colorBlue, colorReset, p.ledger.Summary())

			tmPath := config.StatePath(p.root, tmcache.FileName)
			if p.cfg.CacheEnabled() && fileExists(tmPath) {
				if c, err := tmcache.Open(tmPath); err == nil {
					if s, err := c.Stats(context.Background()); err == nil {
						fmt.Printf("%sTranslation memory%s %d entries, %d hits\n", colorBlue, colorReset, s.Entries, s.Hits)
					}
					c.Close()
				}
			}
			return nil
		},
	}
	sf.register(cmd)
	return cmd
}

// ---------------------------------------------------------------------------
// cache
// ---------------------------------------------------------------------------

func newCacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect the translation memory",
	}

	open := func() (*tmcache.Cache, string, error) {
		p, err := loadProject(nil)
		if err != nil {
			return nil, "", err
		}
		path := config.StatePath(p.root, tmcache.FileName)
		c, err := tmcache.Open(path)
		return c, p.rel(path), err
	}

	stats := &cobra.Command{
		Use:   "stats",
		Short: "Show translation memory statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, path, err := open()
			if err != nil {
				return err
			}
			defer c.Close()
			s, err := c.Stats(cmd.Context())
			if err != nil {
				return err
			}
			logInfo("%s: %d entries, %d hits", path, s.Entries, s.Hits)
			return nil
		},
	}

	purge := &cobra.Command{
		Use:   "purge [language]",
		Short: "Delete cached translations (all languages by default)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, _, err := open()
			if err != nil {
				return err
			}
			defer c.Close()
			target := ""
			if len(args) == 1 {
				target = langmeta.Canonicalize(args[0])
			}
			n, err := c.Purge(cmd.Context(), target)
			if err != nil {
				return err
			}
			logSuccess("Removed %d cached translations", n)
			return nil
		},
	}

	cmd.AddCommand(stats, purge)
	return cmd
}

// ---------------------------------------------------------------------------
// auth
// ---------------------------------------------------------------------------

func newAuthCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage translation service credentials",
		Long: `Manage the API keys of the translation services.

Keys are stored in ` + settings.FilePath() + ` (mode 0600).
Lookup order: --api-key, ` + settings.EnvAPIKey + `, the service variable
(DEEPL_API_KEY, OPENAI_API_KEY, GROQ_API_KEY), then the stored key.

Examples:
  ddock auth set deepl                 Prompt for a DeepL key
  ddock auth set openai sk-... --model gpt-4o-mini
  ddock auth remove groq
  ddock auth list`,
	}
	cmd.AddCommand(newAuthSetCmd(), newAuthRemoveCmd(), newAuthListCmd())
	return cmd
}

func validService(id string) error {
	if _, ok := translate.DefaultProviders()[id]; !ok {
		return fmt.Errorf("unknown service %q (supported: %s)", id, strings.Join(translate.Services(), ", "))
	}
	return nil
}

func newAuthSetCmd() *cobra.Command {
	var baseURL, model string

	cmd := &cobra.Command{
		Use:       "set <service> [key]",
		Short:     "Store an API key",
		Args:      cobra.RangeArgs(1, 2),
		ValidArgs: translate.Services(),
		RunE: func(cmd *cobra.Command, args []string) error {
			service := strings.ToLower(args[0])
			if err := validService(service); err != nil {
				return err
			}
			info := settings.Get(service)
			if info == nil {
				info = &settings.Info{}
			}

			key := ""
			if len(args) == 2 {
				key = strings.TrimSpace(args[1])
			} else if translate.NeedsAPIKey(service) {
				if info.Key != "" {
					fmt.Fprintf(os.Stderr, "  Current key: %s%s%s\n", colorYellow, settings.MaskKey(info.Key), colorReset)
					fmt.Fprint(os.Stderr, "  Enter new key to replace, or press Enter to keep: ")
				} else {
					fmt.Fprint(os.Stderr, "  Enter API key: ")
				}
				scanner := bufio.NewScanner(os.Stdin)
				if scanner.Scan() {
					key = strings.TrimSpace(scanner.Text())
				}
			}

			if key != "" {
				info.Key = key
			}
			if baseURL != "" {
				info.BaseURL = baseURL
			}
			if model != "" {
				info.Model = model
			}
			if info.Key == "" && translate.NeedsAPIKey(service) {
				return fmt.Errorf("no API key provided")
			}
			if err := settings.Set(service, info); err != nil {
				return fmt.Errorf("saving credentials: %w", err)
			}
			logSuccess("Credentials for %s saved", service)
			return nil
		},
	}
	cmd.Flags().StringVar(&baseURL, "base-url", "", "Custom API base URL")
	cmd.Flags().StringVar(&model, "model", "", "Preferred chat model")
	return cmd
}

func newAuthRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "remove [service]",
		Aliases:   []string{"rm"},
		Short:     "Remove stored credentials (all when no service is given)",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: translate.Services(),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				if err := settings.RemoveAll(); err != nil {
					return err
				}
				logSuccess("All stored credentials removed")
				return nil
			}
			service := strings.ToLower(args[0])
			if settings.Get(service) == nil {
				logInfo("No credentials stored for %s", service)
				return nil
			}
			if err := settings.Remove(service); err != nil {
				return err
			}
			logSuccess("Credentials for %s removed", service)
			return nil
		},
	}
}

func newAuthListCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "Show stored credentials and status",
		Run: func(cmd *cobra.Command, args []string) {
			providers := translate.DefaultProviders()
			fmt.Fprintf(os.Stderr, "\n%sStored Credentials%s\n", colorBlue, colorReset)
			fmt.Fprintln(os.Stderr, strings.Repeat("─", 60))
			for _, id := range translate.Services() {
				status := colorRed + "not configured" + colorReset
				if !translate.NeedsAPIKey(id) {
					status = colorGreen + "no key needed" + colorReset
				}
				if info := settings.Get(id); info != nil {
					if info.Key != "" {
						status = fmt.Sprintf("%sconfigured%s (key: %s)", colorGreen, colorReset, settings.MaskKey(info.Key))
					}
					if info.BaseURL != "" {
						status += fmt.Sprintf("\n  %-14s endpoint: %s", "", info.BaseURL)
					}
					if info.Model != "" {
						status += fmt.Sprintf("\n  %-14s model: %s", "", info.Model)
					}
				}
				fmt.Fprintf(os.Stderr, "  %-14s %s\n", providers[id].Name, status)
			}

			fmt.Fprintf(os.Stderr, "\n  %sEnvironment Variables%s\n", colorYellow, colorReset)
			vars := []string{settings.EnvAPIKey}
			for _, id := range translate.Services() {
				if v := settings.EnvVarForService(id); v != "" {
					vars = append(vars, v)
				}
			}
			for _, v := range vars {
				if val := os.Getenv(v); val != "" {
					fmt.Fprintf(os.Stderr, "  %-16s %s%s%s\n", v+":", colorGreen, settings.MaskKey(val), colorReset)
				} else {
					fmt.Fprintf(os.Stderr, "  %-16s %snot set%s\n", v+":", colorRed, colorReset)
				}
			}
			fmt.Fprintln(os.Stderr)
		},
	}
}

// ---------------------------------------------------------------------------
// Shared helpers
// ---------------------------------------------------------------------------

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// intersectLanguages keeps the entries of available named in filter, in
// filter order.
func intersectLanguages(available, filter []string) []string {
	var out []string
	for _, f := range filter {
		f = strings.TrimSpace(f)
		if f != "" && contains(available, f) && !contains(out, f) {
			out = append(out, f)
		}
	}
	return out
}

func filterOutLang(langs []string, lang string) []string {
	var out []string
	for _, l := range langs {
		if l != lang {
			out = append(out, l)
		}
	}
	return out
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
