// Package templates keeps the catalog of presentation templates on disk.
//
// A Registry owns one directory holding <name>.pptx files. A fixed list of
// default names is kept populated: a missing default is synthesized as a
// skeleton deck whose content slides carry {{Title<i>}} and {{Body<i>}}
// tokens. Existing files are never overwritten. There is no index file;
// existence is checked against the directory on every call, so a Registry
// holds no mutable state and is safe for concurrent use.
package templates

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/sahilm/fuzzy"

	"github.com/vamg1994/content-creation-vam/internal/deck"
	"github.com/vamg1994/content-creation-vam/internal/metrics"
	"github.com/vamg1994/content-creation-vam/internal/pptx"
)

// Ext is the file extension of template documents.
const Ext = ".pptx"

// FallbackName is synthesized when no default template can be listed.
const FallbackName = "default"

// DefaultNames are the templates the registry keeps populated.
var DefaultNames = []string{"LinkedIn_Carrousel_VAM", "Linkedin_carrousel_vam2"}

// DefaultContentSlides is the number of content slides in a synthesized
// template.
const DefaultContentSlides = 2

// Inches in EMU, for slide sizes.
const inch = 914400

// slideSizes maps template names to non-default slide sizes.
var slideSizes = map[string][2]int64{
	"modern":       {16 * inch, 9 * inch},
	"creative":     {16 * inch, 9 * inch},
	"professional": {12192000, 6858000},
}

// State is the outcome of initializing one default template.
type State int

const (
	StateCreated State = iota
	StateExisted
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateCreated:
		return "created"
	case StateExisted:
		return "existed"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Status reports what InitializeDefaults did for one name.
type Status struct {
	Name  string
	State State
	Err   error
}

func (s Status) String() string {
	switch s.State {
	case StateCreated:
		return "Created template: " + s.Name
	case StateExisted:
		return "Template exists: " + s.Name
	default:
		return fmt.Sprintf("Failed to create template %s: %v", s.Name, s.Err)
	}
}

// Registry is a filesystem-backed template catalog.
type Registry struct {
	dir           string
	defaults      []string
	contentSlides int
	logger        *slog.Logger
}

// Option configures a Registry.
type Option func(*Registry)

// WithDefaults replaces DefaultNames.
func WithDefaults(names []string) Option {
	return func(r *Registry) { r.defaults = append([]string(nil), names...) }
}

// WithContentSlides sets the number of content slides in synthesized
// templates.
func WithContentSlides(n int) Option {
	return func(r *Registry) {
		if n > 0 {
			r.contentSlides = n
		}
	}
}

// WithLogger sets the logger; slog.Default is used otherwise.
func WithLogger(l *slog.Logger) Option {
	return func(r *Registry) {
		if l != nil {
			r.logger = l
		}
	}
}

// New returns a registry rooted at dir. Nothing is touched on disk until the
// first call that needs storage.
func New(dir string, opts ...Option) *Registry {
	r := &Registry{
		dir:           dir,
		defaults:      append([]string(nil), DefaultNames...),
		contentSlides: DefaultContentSlides,
		logger:        slog.Default(),
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Dir returns the template directory.
func (r *Registry) Dir() string { return r.dir }

// Defaults returns the default template names.
func (r *Registry) Defaults() []string { return append([]string(nil), r.defaults...) }

// Path maps a template name to its file. A trailing ".pptx" is accepted;
// names containing path separators are rejected.
func (r *Registry) Path(name string) (string, error) {
	base := strings.TrimSuffix(name, Ext)
	if base == "" || base == "." || base == ".." || strings.ContainsAny(base, `/\`) || strings.ContainsRune(base, 0) {
		return "", &Error{Name: name, Err: ErrInvalidName}
	}
	return filepath.Join(r.dir, base+Ext), nil
}

// EnsureStorage creates the template directory if it does not exist.
func (r *Registry) EnsureStorage() error {
	if err := os.MkdirAll(r.dir, 0o755); err != nil {
		return fmt.Errorf("create template directory %s: %w", r.dir, err)
	}
	return nil
}

// InitializeDefaults synthesizes every missing default template. A failure
// for one name is recorded in its Status and does not stop the others; the
// returned error is set only when the directory itself cannot be created.
func (r *Registry) InitializeDefaults() ([]Status, error) {
	if err := r.EnsureStorage(); err != nil {
		return nil, err
	}

	statuses := make([]Status, 0, len(r.defaults))
	for _, name := range r.defaults {
		st := r.initialize(name)
		statuses = append(statuses, st)
		metrics.TemplatesInitTotal.WithLabelValues(st.State.String()).Inc()
		switch st.State {
		case StateCreated:
			r.logger.Info("created template", "name", name)
		case StateFailed:
			r.logger.Error("failed to create template", "name", name, "err", st.Err)
		default:
			r.logger.Debug("template exists", "name", name)
		}
	}
	return statuses, nil
}

func (r *Registry) initialize(name string) Status {
	created, err := r.createIfMissing(name)
	switch {
	case err != nil:
		return Status{Name: name, State: StateFailed, Err: err}
	case created:
		return Status{Name: name, State: StateCreated}
	default:
		return Status{Name: name, State: StateExisted}
	}
}

// createIfMissing writes a skeleton for name unless a file is already there.
// Two callers racing past the existence check both write; the rename in
// pptx.WriteFile leaves one complete file.
func (r *Registry) createIfMissing(name string) (bool, error) {
	path, err := r.Path(name)
	if err != nil {
		return false, err
	}
	_, err = os.Stat(path)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return false, err
	}

	data, err := r.Skeleton(name).Bytes()
	if err != nil {
		return false, fmt.Errorf("build skeleton: %w", err)
	}
	if err := pptx.WriteFile(path, data); err != nil {
		return false, err
	}
	return true, nil
}

// Skeleton describes the document synthesized for a missing template.
func (r *Registry) Skeleton(name string) pptx.Skeleton {
	s := pptx.Skeleton{Width: pptx.DefaultWidth, Height: pptx.DefaultHeight}
	if size, ok := slideSizes[strings.ToLower(name)]; ok {
		s.Width, s.Height = size[0], size[1]
	}
	for i := 0; i < r.contentSlides; i++ {
		s.Slides = append(s.Slides, pptx.SkeletonSlide{
			Title: deck.PlaceholderKey{Kind: deck.KindTitle, Index: i}.Token(),
			Body:  deck.PlaceholderKey{Kind: deck.KindBody, Index: i}.Token(),
		})
	}
	return s
}

// ListAvailable returns the display names of the default templates present
// on disk, sorted, synthesizing missing ones first. The result is never
// empty: when no default can be listed a "default" template is synthesized
// and ["Default"] is returned, even if that synthesis fails.
func (r *Registry) ListAvailable() []string {
	if _, err := r.InitializeDefaults(); err != nil {
		r.logger.Error("failed to initialize templates", "dir", r.dir, "err", err)
		metrics.TemplatesAvailable.Set(1)
		return []string{DisplayName(FallbackName)}
	}

	var names []string
	for _, name := range r.defaults {
		if r.exists(name) {
			names = append(names, DisplayName(name))
		}
	}
	if len(names) == 0 {
		r.logger.Warn("no templates available, creating fallback", "name", FallbackName)
		if _, err := r.createIfMissing(FallbackName); err != nil {
			r.logger.Error("failed to create fallback template", "err", err)
		}
		names = []string{DisplayName(FallbackName)}
	}
	sort.Strings(names)
	metrics.TemplatesAvailable.Set(float64(len(names)))
	return names
}

func (r *Registry) exists(name string) bool {
	path, err := r.Path(name)
	if err != nil {
		return false
	}
	fi, err := os.Stat(path)
	return err == nil && fi.Mode().IsRegular()
}

// Resolve loads the template called name. Names match file names exactly
// first, then case-insensitively against the defaults and the directory, so
// display names from ListAvailable resolve. A default that is missing on
// disk is synthesized before loading.
func (r *Registry) Resolve(name string) (*pptx.Document, error) {
	doc, err := r.resolve(name)
	status := "ok"
	switch {
	case errors.Is(err, ErrNotFound):
		status = "not_found"
	case err != nil:
		status = "error"
	}
	metrics.TemplateResolveTotal.WithLabelValues(status).Inc()
	return doc, err
}

func (r *Registry) resolve(name string) (*pptx.Document, error) {
	path, err := r.Path(name)
	if err != nil {
		return nil, err
	}
	if !r.exists(name) {
		canonical, ok := r.lookup(strings.TrimSuffix(name, Ext))
		if !ok {
			return nil, &Error{Name: name, Path: path, Suggestions: r.suggest(name), Err: ErrNotFound}
		}
		if r.isDefault(canonical) {
			if _, err := r.createIfMissing(canonical); err != nil {
				return nil, &Error{Name: name, Path: path, Err: err}
			}
		}
		path, _ = r.Path(canonical)
	}
	return r.load(name, path)
}

// ResolvePath loads a template from a caller-supplied file, such as an
// uploaded custom template.
func (r *Registry) ResolvePath(path string) (*pptx.Document, error) {
	name := strings.TrimSuffix(filepath.Base(path), Ext)
	return r.load(name, path)
}

func (r *Registry) load(name, path string) (*pptx.Document, error) {
	doc, err := pptx.Open(path)
	switch {
	case err == nil:
		return doc, nil
	case errors.Is(err, fs.ErrNotExist):
		return nil, &Error{Name: name, Path: path, Err: ErrNotFound}
	case errors.Is(err, pptx.ErrInvalidDocument):
		return nil, &Error{Name: name, Path: path, Err: fmt.Errorf("%w: %w", ErrCorrupt, err)}
	default:
		return nil, &Error{Name: name, Path: path, Err: err}
	}
}

// lookup finds the canonical file name matching name without regard to case.
func (r *Registry) lookup(name string) (string, bool) {
	for _, d := range r.defaults {
		if strings.EqualFold(d, name) {
			return d, true
		}
	}
	for _, f := range r.files() {
		if strings.EqualFold(f, name) {
			return f, true
		}
	}
	return "", false
}

func (r *Registry) isDefault(name string) bool {
	for _, d := range r.defaults {
		if d == name {
			return true
		}
	}
	return false
}

// files returns the base names of the templates in the directory.
func (r *Registry) files() []string {
	entries, err := os.ReadDir(r.dir)
	if err != nil {
		return nil
	}
	var names []string
	for _, e := range entries {
		if e.Type().IsRegular() && strings.EqualFold(filepath.Ext(e.Name()), Ext) {
			names = append(names, strings.TrimSuffix(e.Name(), filepath.Ext(e.Name())))
		}
	}
	return names
}

// suggest returns known names that fuzzy-match name, at most three.
func (r *Registry) suggest(name string) []string {
	known := r.Defaults()
	seen := make(map[string]bool, len(known))
	for _, k := range known {
		seen[k] = true
	}
	for _, f := range r.files() {
		if !seen[f] {
			known = append(known, f)
			seen[f] = true
		}
	}

	var out []string
	for _, m := range fuzzy.Find(strings.ToLower(name), lower(known)) {
		out = append(out, known[m.Index])
		if len(out) == 3 {
			break
		}
	}
	return out
}

func lower(ss []string) []string {
	out := make([]string, len(ss))
	for i, s := range ss {
		out[i] = strings.ToLower(s)
	}
	return out
}

// DisplayName upper-cases the first letter of name and lower-cases the rest:
// "LinkedIn_Carrousel_VAM" becomes "Linkedin_carrousel_vam".
func DisplayName(name string) string {
	r, size := utf8.DecodeRuneInString(name)
	if r == utf8.RuneError {
		return name
	}
	return string(unicode.ToUpper(r)) + strings.ToLower(name[size:])
}
