package sqle // import "github.com/linkedin/linkedin-calcite"

import (
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/linkedin/linkedin-calcite/sql"
	"github.com/linkedin/linkedin-calcite/sql/analyzer"
	"github.com/linkedin/linkedin-calcite/sql/parse"
	"github.com/linkedin/linkedin-calcite/sql/plan"
	"github.com/linkedin/linkedin-calcite/sql/typespec"
)

// Engine derives SQL types. It owns the type factory and its cache,
// shared by every compilation. An Engine is safe for concurrent use.
type Engine struct {
	Types *sql.TypeFactory

	mu     sync.RWMutex
	config Config
}

// New creates a new Engine with the given configuration.
func New(cfg Config) *Engine {
	return &Engine{
		Types:  sql.NewTypeFactory(sql.NewTypeCache(cfg.TypeCacheSize)),
		config: cfg,
	}
}

// NewDefault creates a new default Engine, configured from the
// environment.
func NewDefault() *Engine {
	return New(DefaultConfig().ApplyEnv())
}

// Config returns the current configuration.
func (e *Engine) Config() Config {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.config
}

// Configure changes the configuration of the engine. A new type cache
// capacity applies to the following insertions; entries already cached
// are only evicted as new ones come in.
func (e *Engine) Configure(cfg Config) {
	e.mu.Lock()
	e.config = cfg
	e.mu.Unlock()

	e.Types.Cache().Configure(cfg.TypeCacheSize)
	logrus.WithFields(logrus.Fields{
		TypeCacheSizeLogField: cfg.TypeCacheSize,
		"debug":               cfg.Debug,
	}).Debug("engine reconfigured")
}

// NewAnalyzer returns an analyzer for a single compilation, sharing the
// type factory of the engine.
func (e *Engine) NewAnalyzer() *analyzer.Analyzer {
	b := analyzer.NewBuilder(e.Types)
	if e.Config().Debug {
		b = b.WithDebug()
	}
	return b.Build()
}

// ParseTypeSpec parses the text of a type specification.
func (e *Engine) ParseTypeSpec(ctx *sql.Context, text string) (typespec.Spec, error) {
	return parse.ParseTypeSpec(ctx, text)
}

// DeriveType parses the text of a type specification and returns its
// canonical type.
func (e *Engine) DeriveType(ctx *sql.Context, text string) (*sql.Type, error) {
	spec, err := e.ParseTypeSpec(ctx, text)
	if err != nil {
		return nil, err
	}

	t, err := e.NewAnalyzer().DeriveType(ctx, spec)
	if err != nil {
		ctx.Logger().WithField(SpecLogField, text).Debugf("type derivation failed: %s", err)
		return nil, err
	}

	return t, nil
}

// ArrayValueType returns the type of an ARRAY[...] value constructor
// whose operands have the given type specifications. Without operands,
// the constructor is an array of NULL if allowEmpty is set.
func (e *Engine) ArrayValueType(ctx *sql.Context, operands []string, allowEmpty bool) (*sql.Type, error) {
	a := e.NewAnalyzer()
	types := make([]*sql.Type, len(operands))
	for i, text := range operands {
		spec, err := e.ParseTypeSpec(ctx, text)
		if err != nil {
			return nil, err
		}
		if types[i], err = a.DeriveType(ctx, spec); err != nil {
			return nil, err
		}
	}

	return a.DeriveArrayValueType(ctx, types, allowEmpty)
}

// Unparse returns the SQL text of the spec, quoting field names if the
// engine is configured to.
func (e *Engine) Unparse(spec typespec.Spec) string {
	w := typespec.NewWriter(typespec.WriterOptions{
		QuoteIdentifiers: e.Config().QuoteIdentifiers,
	})
	typespec.Unparse(w, spec)
	return w.String()
}

// ResolveJoin returns the row type of a join of the given kind between
// operands with the given row types.
func (e *Engine) ResolveJoin(ctx *sql.Context, left, right *sql.Type, kind plan.JoinType) (*sql.Type, error) {
	a := e.NewAnalyzer()

	l, r := plan.NewResolvedTable("left"), plan.NewResolvedTable("right")
	if err := a.Scope.Register(l, left); err != nil {
		return nil, err
	}
	if err := a.Scope.Register(r, right); err != nil {
		return nil, err
	}

	join := plan.NewJoin(l, r, kind)
	if _, err := a.Analyze(ctx, join); err != nil {
		return nil, err
	}

	row, _ := a.Scope.RowType(join)
	ctx.Logger().WithField(JoinKindLogField, kind.String()).Debugf("join row type: %s", row)
	return row, nil
}
