// Package runtime provides the application runtime context for anewcommit:
// the session database, the open project, its lock and the formatter.
package runtime

import (
	"context"
	"os"
	"path/filepath"

	"github.com/poikilos/anewcommit/internal/config"
	anerrors "github.com/poikilos/anewcommit/internal/errors"
	"github.com/poikilos/anewcommit/internal/logging"
	"github.com/poikilos/anewcommit/internal/model"
	"github.com/poikilos/anewcommit/internal/output"
	"github.com/poikilos/anewcommit/internal/project"
	"github.com/poikilos/anewcommit/internal/storage"
)

// Context holds the application runtime context.
type Context struct {
	Config    *config.RuntimeConfig
	DB        *storage.DB
	Sessions  *storage.SessionRepo
	Formatter *output.Formatter

	// Project is nil until OpenProject or CreateProject succeeds.
	Project *project.Project
	// Repair lists ids reassigned while loading Project, one per line.
	Repair string
	// HistoryDiscarded is set when the stored undo history no longer
	// matched the project file and was dropped.
	HistoryDiscarded bool

	Debug bool

	ctx         context.Context
	lock        *storage.FileLock
	fingerprint uint64 // of the project as last read or written
}

// Options configures the runtime context.
type Options struct {
	DBPath    string
	InMemory  bool
	Format    output.Format
	ColorMode output.ColorMode
	Debug     bool
	Config    *config.RuntimeConfig
}

// DefaultOptions returns default runtime options.
func DefaultOptions() Options {
	return Options{
		DBPath:    storage.DefaultPath(),
		InMemory:  false,
		Format:    output.FormatCLI,
		ColorMode: output.ColorAuto,
		Debug:     false,
	}
}

// New creates a new runtime context.
func New(opts Options) (*Context, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultRuntimeConfig()
	}
	if cfg.Storage.StateDir != "" && opts.DBPath == storage.DefaultPath() {
		opts.DBPath = cfg.Storage.StateDir
	}

	// Check for environment variable override
	if envPath := os.Getenv("ANEWCOMMIT_DATABASE"); envPath != "" {
		if envPath == ":memory:" {
			opts.InMemory = true
		} else {
			opts.DBPath = envPath
		}
	}

	if !opts.InMemory && opts.DBPath != "" {
		if err := storage.EnsureDirectory(filepath.Dir(opts.DBPath)); err != nil {
			return nil, err
		}
	}
	db, err := storage.Open(storage.Options{
		Path:     opts.DBPath,
		InMemory: opts.InMemory,
	})
	if err != nil {
		return nil, err
	}

	formatter := output.NewFormatter()
	formatter.Format = opts.Format
	formatter.ColorMode = opts.ColorMode

	return &Context{
		Config:    cfg,
		DB:        db,
		Sessions:  storage.NewSessionRepo(db),
		Formatter: formatter,
		Debug:     opts.Debug,
		ctx:       logging.NewRequestContext(),
	}, nil
}

// Ctx returns the request context of this invocation.
func (c *Context) Ctx() context.Context {
	return c.ctx
}

// ResolveProjectPath turns a --project value into an absolute project file
// path. A directory resolves to the configured file name inside it, and an
// empty value to that file in the working directory.
func (c *Context) ResolveProjectPath(flag string) (string, error) {
	path := flag
	if path == "" {
		path = "."
	}
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		path = filepath.Join(path, c.Config.Project.FileName)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", anerrors.NewSystemErrorWithOp("resolve project", "cannot resolve "+path, err)
	}
	return abs, nil
}

func (c *Context) projectOptions() []project.Option {
	opts := []project.Option{
		project.WithHistoryPolicy(c.Config.HistoryPolicy()),
		project.WithHistoryLimit(c.Config.Undo.Limit),
	}
	if c.Config.Project.AutoSave {
		opts = append(opts, project.WithAutoSave())
	}
	return opts
}

// OpenProject locks and loads the project file at path and restores its
// undo history from the session store.
func (c *Context) OpenProject(path string) error {
	if c.Project != nil {
		return anerrors.NewUserError("a project is already open", "")
	}
	if err := c.acquire(filepath.Dir(path)); err != nil {
		return err
	}

	p, repair, err := project.Load(path, model.NewCounter(), c.projectOptions()...)
	if err != nil {
		c.release()
		return err
	}
	if repair != "" {
		logging.WarnContext(c.ctx, "reassigned duplicate action ids", logging.KeyProject, path, "repair", repair)
	}
	c.Project, c.Repair = p, repair
	c.fingerprint = p.Fingerprint()
	c.restoreSession()
	return nil
}

// CreateProject starts an empty project rooted at dir. The project file is
// written immediately; an existing one is never overwritten.
func (c *Context) CreateProject(dir string) error {
	if c.Project != nil {
		return anerrors.NewUserError("a project is already open", "")
	}
	root, err := filepath.Abs(dir)
	if err != nil {
		return anerrors.NewSystemErrorWithOp("init", "cannot resolve "+dir, err)
	}
	path := filepath.Join(root, c.Config.Project.FileName)
	if _, err := os.Stat(path); err == nil {
		return anerrors.NewUserErrorWithField("project", path, anerrors.ErrProjectExists.Error(),
			anerrors.Suggestions[anerrors.ErrProjectExists])
	}
	if err := c.acquire(root); err != nil {
		return err
	}

	opts := append([]project.Option{project.WithRootDir(root), project.WithPath(path)}, c.projectOptions()...)
	p := project.New(model.NewCounter(), opts...)
	if err := p.Save(); err != nil {
		c.release()
		return err
	}
	c.Project = p
	c.fingerprint = p.Fingerprint()

	// A stale session for a previous file at the same path must not apply.
	return c.Sessions.Delete(path)
}

// RequireProject opens the project named by flag unless one is open.
func (c *Context) RequireProject(flag string) (*project.Project, error) {
	if c.Project != nil {
		return c.Project, nil
	}
	path, err := c.ResolveProjectPath(flag)
	if err != nil {
		return nil, err
	}
	if err := c.OpenProject(path); err != nil {
		return nil, err
	}
	return c.Project, nil
}

func (c *Context) acquire(dir string) error {
	lock := storage.NewFileLock(dir)
	if err := lock.Acquire(); err != nil {
		return err
	}
	c.lock = lock
	return nil
}

func (c *Context) release() {
	if c.lock == nil {
		return
	}
	if err := c.lock.Release(); err != nil {
		logging.WarnContext(c.ctx, "failed to release project lock", logging.KeyError, err)
	}
	c.lock = nil
}

// restoreSession installs the stored undo history when it was recorded
// against the same file content. Any mismatch drops the history.
func (c *Context) restoreSession() {
	path := c.Project.Path()
	s, err := c.Sessions.Get(path)
	if err != nil {
		logging.WarnContext(c.ctx, "cannot read undo session", logging.KeyProject, path, logging.KeyError, err)
		c.HistoryDiscarded = true
		return
	}
	if s == nil {
		return
	}
	if s.Fingerprint != c.fingerprint {
		logging.WarnContext(c.ctx, "project file changed outside anewcommit; undo history discarded",
			logging.KeyProject, path)
		c.HistoryDiscarded = true
		return
	}
	if err := c.Project.RestoreHistory(s.Steps, s.StepIndex); err != nil {
		logging.WarnContext(c.ctx, "stored undo history is invalid; discarded",
			logging.KeyProject, path, logging.KeyError, err)
		c.HistoryDiscarded = true
		return
	}
	logging.DebugContext(c.ctx, "session restored", logging.KeyProject, path, logging.KeyCount, len(s.Steps))
}

// Sync writes the project file if it changed since it was read and stores
// the undo history alongside its fingerprint.
func (c *Context) Sync() error {
	p := c.Project
	if p == nil {
		return nil
	}
	if fp := p.Fingerprint(); fp != c.fingerprint {
		if err := p.Save(); err != nil {
			return err
		}
		c.fingerprint = fp
	}

	h := p.History()
	s := model.NewSession(p.Path())
	s.Fingerprint = c.fingerprint
	s.StepIndex = h.Index
	s.Steps = h.Steps
	s.Policy = h.Policy
	return c.Sessions.Save(s)
}

// Close syncs the open project, releases its lock and closes the database.
func (c *Context) Close() error {
	var err error
	if c.Project != nil {
		err = c.Sync()
	}
	c.release()
	if c.DB != nil {
		if cerr := c.DB.Close(); err == nil {
			err = cerr
		}
		c.DB = nil
	}
	return err
}

// CLIFormatter returns a CLI formatter.
func (c *Context) CLIFormatter() *output.CLIFormatter {
	return output.NewCLIFormatter(c.Formatter)
}

// JSONFormatter returns a JSON formatter.
func (c *Context) JSONFormatter() *output.JSONFormatter {
	return output.NewJSONFormatter(c.Formatter)
}

// IsJSON returns true if output format is JSON.
func (c *Context) IsJSON() bool {
	return c.Formatter.IsJSON()
}

// Debugf prints debug output if debug mode is enabled.
func (c *Context) Debugf(format string, args ...any) {
	if c.Debug {
		c.Formatter.Printf("[DEBUG] "+format+"\n", args...)
	}
}
