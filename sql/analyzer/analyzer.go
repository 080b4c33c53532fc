package analyzer

import (
	"os"
	"strings"

	opentracing "github.com/opentracing/opentracing-go"
	"github.com/sirupsen/logrus"

	"github.com/linkedin/linkedin-calcite/sql"
)

const debugAnalyzerKey = "DEBUG_ANALYZER"

const maxAnalysisIterations = 1000

// Builder provides an easy way to generate Analyzer with custom rules and options.
type Builder struct {
	preAnalyzeRules  []Rule
	postAnalyzeRules []Rule
	debug            bool
	types            *sql.TypeFactory
	typeNames        sql.TypeNameResolver
	scope            *Scope
}

// NewBuilder creates a new Builder from a specific type factory.
// A nil factory gets a factory with a default sized cache.
// This builder allow us add custom Rules and modify some internal properties.
func NewBuilder(f *sql.TypeFactory) *Builder {
	return &Builder{types: f}
}

// WithDebug activates debug on the Analyzer.
func (ab *Builder) WithDebug() *Builder {
	ab.debug = true

	return ab
}

// WithTypeNames sets the resolver of scalar type names.
func (ab *Builder) WithTypeNames(r sql.TypeNameResolver) *Builder {
	ab.typeNames = r

	return ab
}

// WithScope sets the scope holding the row types of the operands.
func (ab *Builder) WithScope(s *Scope) *Builder {
	ab.scope = s

	return ab
}

// AddPreAnalyzeRule adds a new rule to the analyze before the standard analyzer rules.
func (ab *Builder) AddPreAnalyzeRule(name string, fn RuleFunc) *Builder {
	ab.preAnalyzeRules = append(ab.preAnalyzeRules, Rule{name, fn})

	return ab
}

// AddPostAnalyzeRule adds a new rule to the analyzer after standard analyzer rules.
func (ab *Builder) AddPostAnalyzeRule(name string, fn RuleFunc) *Builder {
	ab.postAnalyzeRules = append(ab.postAnalyzeRules, Rule{name, fn})

	return ab
}

// Build creates a new Analyzer using all previous data setted to the Builder
func (ab *Builder) Build() *Analyzer {
	_, debug := os.LookupEnv(debugAnalyzerKey)
	var batches = []*Batch{
		&Batch{
			Desc:       "pre-analyzer",
			Iterations: maxAnalysisIterations,
			Rules:      ab.preAnalyzeRules,
		},
		&Batch{
			Desc:       "default-rules",
			Iterations: 1,
			Rules:      DefaultRules,
		},
		&Batch{
			Desc:       "after-all",
			Iterations: maxAnalysisIterations,
			Rules:      ab.postAnalyzeRules,
		},
	}

	types := ab.types
	if types == nil {
		types = sql.NewTypeFactory(nil)
	}

	var typeNames = ab.typeNames
	if typeNames == nil {
		typeNames = sql.DefaultTypeNames
	}

	scope := ab.scope
	if scope == nil {
		scope = NewScope()
	}

	return &Analyzer{
		Debug:     debug || ab.debug,
		Batches:   batches,
		Types:     types,
		TypeNames: typeNames,
		Scope:     scope,
	}
}

// Analyzer derives the types of a single compilation: the canonical
// types of type specifications and the row types of the relational
// operands of a plan. An Analyzer is not safe for concurrent use, but
// many analyzers may share the same type factory.
type Analyzer struct {
	// Whether to log various debugging messages
	Debug    bool
	debugCtx []string
	// Batches of Rules to apply.
	Batches []*Batch
	// Types creates the canonical types.
	Types *sql.TypeFactory
	// TypeNames resolves scalar type names.
	TypeNames sql.TypeNameResolver
	// Scope holds the row types of the operands.
	Scope *Scope
}

// NewDefault creates a default Analyzer instance with all default Rules and configuration.
// To add custom rules, the easiest way is use the Builder.
func NewDefault(f *sql.TypeFactory) *Analyzer {
	return NewBuilder(f).Build()
}

// Log prints an INFO message to stdout with the given message and args
// if the analyzer is in debug mode.
func (a *Analyzer) Log(msg string, args ...interface{}) {
	if a != nil && a.Debug {
		if len(a.debugCtx) > 0 {
			ctx := strings.Join(a.debugCtx, "/")
			logrus.Infof("%s: "+msg, append([]interface{}{ctx}, args...)...)
		} else {
			logrus.Infof(msg, args...)
		}
	}
}

// PushDebugContext pushes the given context string onto the context stack, to use when logging debug messages.
func (a *Analyzer) PushDebugContext(msg string) {
	if a != nil {
		a.debugCtx = append(a.debugCtx, msg)
	}
}

// PopDebugContext pops a context message off the context stack.
func (a *Analyzer) PopDebugContext() {
	if a != nil && len(a.debugCtx) > 0 {
		a.debugCtx = a.debugCtx[:len(a.debugCtx)-1]
	}
}

// Analyze resolves the row types of every join in the plan and seals the
// scope. The row types of the leaf operands must have been registered in
// the scope before.
func (a *Analyzer) Analyze(ctx *sql.Context, n sql.Node) (sql.Node, error) {
	span, ctx := ctx.Span("analyze", opentracing.Tags{
		"plan": n.String(),
	})
	defer span.Finish()

	prev := n
	var err error
	a.Log("starting analysis of node of type: %T", n)
	for _, batch := range a.Batches {
		a.PushDebugContext(batch.Desc)
		prev, err = batch.Eval(ctx, a, prev)
		a.PopDebugContext()
		if ErrMaxAnalysisIters.Is(err) {
			a.Log(err.Error())
			continue
		}
		if err != nil {
			return nil, err
		}
	}

	return prev, nil
}
