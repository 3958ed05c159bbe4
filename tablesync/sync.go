package tablesync

import (
	"context"

	"github.com/glennliao/schema-sync/database"
	_ "github.com/glennliao/schema-sync/database/mysql"
	"github.com/glennliao/schema-sync/model"
	"github.com/gogf/gf/v2/database/gdb"
	"github.com/gogf/gf/v2/errors/gcode"
	"github.com/gogf/gf/v2/errors/gerror"
	"github.com/gogf/gf/v2/frame/g"
	"golang.org/x/sync/errgroup"
)

// Table is a table declaration: a *Definition, a Definition or a struct
// embedding TableMeta.
type Table any

type TableMeta g.Meta

// Syncer reconciles the live tables of one database with their
// declarations.
type Syncer struct {
	Tables         []Table
	Config         Config
	DatabaseType   string
	DatabaseDriver database.Database
}

// Result reports what a sync applied. Failed is the operation that stopped
// the batch.
type Result struct {
	Operations []model.Operation
	Applied    []model.Operation
	Failed     *model.Operation
}

type tableSchema struct {
	desired  *model.Schema
	strategy Strategy
}

// Define adds a table declaration.
func (s *Syncer) Define(t Table) {
	s.Tables = append(s.Tables, t)
}

// prepare validates the configuration and normalizes every declaration. It
// performs no I/O.
func (s *Syncer) prepare() ([]tableSchema, error) {
	if s.DatabaseDriver == nil {
		if s.DatabaseType == "" {
			s.DatabaseType = defaultType
		}
		driver, err := database.Get(s.DatabaseType)
		if err != nil {
			return nil, err
		}
		s.DatabaseDriver = driver
	}
	if _, err := ParseStrategy(s.Config.MigrationStrategy); err != nil {
		return nil, err
	}

	var (
		tables = make([]tableSchema, 0, len(s.Tables))
		names  = map[string]bool{}
	)
	for _, t := range s.Tables {
		def, err := s.definitionOf(t)
		if err != nil {
			return nil, err
		}
		strategy, err := ParseStrategy(def.MigrationStrategy)
		if err != nil {
			return nil, gerror.Wrapf(err, "table %s", def.Name)
		}
		schema, err := Normalize(def)
		if err != nil {
			return nil, err
		}
		if names[schema.Name] {
			return nil, gerror.NewCodef(gcode.CodeInvalidConfiguration, "table %s is defined twice", schema.Name)
		}
		names[schema.Name] = true
		tables = append(tables, tableSchema{desired: schema, strategy: strategy})
	}
	return tables, nil
}

func (s *Syncer) definitionOf(t Table) (*Definition, error) {
	switch v := t.(type) {
	case *Definition:
		if v == nil {
			return nil, gerror.NewCode(gcode.CodeInvalidParameter, "nil table definition")
		}
		return v, nil
	case Definition:
		return &v, nil
	}
	return s.structDefinition(t)
}

// Plan inspects the live tables and returns the scheduled operations of one
// batch without executing them.
func (s *Syncer) Plan(ctx context.Context, exec database.Executor) ([]model.Operation, error) {
	tables, err := s.prepare()
	if err != nil {
		return nil, err
	}

	// one inspection per table; the first error is reported once all have
	// returned
	var (
		live = make([]*model.Schema, len(tables))
		eg   errgroup.Group
	)
	for i, t := range tables {
		i := i // per-iteration copy; module targets go 1.21 loop semantics
		name := t.desired.Name
		eg.Go(func() error {
			schema, err := s.DatabaseDriver.LoadTable(ctx, exec, name)
			if err != nil {
				return gerror.Wrapf(err, "inspect table %s failed", name)
			}
			live[i] = schema
			return nil
		})
	}
	if err = eg.Wait(); err != nil {
		return nil, err
	}

	var (
		ops        []model.Operation
		seq        = &model.Sequence{}
		production = s.Config.IsProduction()
	)
	poolDefault, _ := ParseStrategy(s.Config.MigrationStrategy)
	for i, t := range tables {
		strategy := ResolveStrategy(t.strategy, poolDefault, production, s.Config.AllowAlterInProduction)
		tableOps := Diff(t.desired, live[i], strategy, seq)
		g.Log().Debugf(ctx, "[tablesync] %s: strategy %s, %d operations", t.desired.Name, strategy, len(tableOps))
		ops = append(ops, tableOps...)
	}
	model.SortOperations(ops)
	return ops, nil
}

// Run plans the batch and executes it in order on a single connection. The
// first failing statement stops the batch; its error is returned as the
// driver reported it. Applied statements are not rolled back.
func (s *Syncer) Run(ctx context.Context, pool database.Pool) (*Result, error) {
	ops, err := s.Plan(ctx, pool)
	if err != nil {
		return nil, err
	}
	result := &Result{Operations: ops}
	if len(ops) == 0 {
		return result, nil
	}

	conn, err := pool.Conn(ctx)
	if err != nil {
		return result, err
	}
	defer conn.Close()

	for i := range ops {
		op := ops[i]
		g.Log().Info(ctx, "[tablesync]", op.SQL)
		if err = conn.Exec(ctx, op.SQL); err != nil {
			if number, ok := database.ErrorNumber(err); ok {
				g.Log().Warningf(ctx, "[tablesync] %s failed with error %d: %v", op.Type, number, err)
			} else {
				g.Log().Warning(ctx, err)
			}
			g.Log().Info(ctx, "[tablesync] break ")
			result.Failed = &op
			return result, err
		}
		result.Applied = append(result.Applied, op)
	}
	g.Log().Info(ctx, "[tablesync] finish ")
	return result, nil
}

// Sync runs the batch against a gf database.
func (s *Syncer) Sync(ctx context.Context, db gdb.DB) error {
	if s.DatabaseDriver == nil && s.DatabaseType == "" {
		s.DatabaseType = db.GetConfig().Type
	}
	_, err := s.Run(ctx, database.FromGdb(db))
	return err
}
