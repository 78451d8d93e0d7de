package cli

import (
	"context"
	"errors"

	"github.com/andy/clientcomptage/internal/domain"
	"github.com/andy/clientcomptage/internal/service"
	"github.com/tliron/commonlog"
)

// execute runs one parsed invocation and returns its exit code.
// Once a connection is open it is closed exactly once on every path,
// including when ctx is cancelled by an interrupt.
func execute(ctx context.Context, opts domain.Options, env *Env) int {
	setVerbose(opts.Verbose)
	log := env.Log

	if opts.Script {
		r := &runner{opts: opts, svc: service.NewScriptWriter(env.Stdout), log: log}
		return r.dispatch(ctx)
	}

	a, err := env.NewApp(opts, log)
	if err != nil {
		log.Errorf("%v", err)
		return 1
	}
	a.Config.Apply(opts)
	if err := a.Config.Validate(); err != nil {
		log.Errorf("%v", err)
		return 1
	}

	if ctx.Err() != nil {
		log.Error("interrupted")
		return 1
	}

	store, err := a.Connect(ctx)
	if err != nil {
		if ctx.Err() == nil {
			log.Errorf("%v", err)
		} else {
			log.Error("interrupted")
		}
		return 1
	}

	executor := service.NewExecutor(store, env.Stdout)
	r := &runner{
		opts: opts,
		svc:  executor,
		browse: func(ctx context.Context) error {
			return env.Browse(ctx, executor)
		},
		log: log,
	}
	code := r.dispatch(ctx)

	if opts.Action == domain.ActionInit && code == 0 {
		if saved, err := a.SaveConfigIfMissing(); err != nil {
			log.Warningf("%v", err)
		} else if saved {
			log.Infof("configuration written to %s", a.ConfigPath)
		}
	}

	if err := store.Close(); err != nil {
		log.Warningf("failed to close connection: %v", err)
	}

	if ctx.Err() != nil {
		log.Error("interrupted")
		return 1
	}
	return code
}

type runner struct {
	opts   domain.Options
	svc    service.ComptageService
	browse func(ctx context.Context) error // nil in script mode
	log    commonlog.Logger
}

// dispatch performs the selected action
func (r *runner) dispatch(ctx context.Context) int {
	if ctx.Err() != nil {
		return 1
	}

	var err error
	switch r.opts.Action {
	case domain.ActionInsert:
		err = r.svc.Insert(ctx, r.opts.Hours)

	case domain.ActionByDay, domain.ActionByMonth, domain.ActionByWeek:
		report, _ := domain.ReportFor(r.opts.Action)
		err = r.svc.Report(ctx, report)

	case domain.ActionBrowse:
		if r.browse != nil {
			err = r.browse(ctx)
			break
		}
		for _, report := range domain.Reports() {
			if err = r.svc.Report(ctx, report); err != nil {
				break
			}
		}

	case domain.ActionInit:
		err = r.svc.Init(ctx)

	default:
		r.log.Error("No action defined")
		return 0
	}

	return r.fail(ctx, err)
}

// fail logs err and maps it to an exit code
func (r *runner) fail(ctx context.Context, err error) int {
	if err == nil {
		return 0
	}

	// The caller reports interrupts
	if ctx.Err() != nil {
		return 1
	}

	var qerr *service.QueryError
	if errors.As(err, &qerr) {
		r.log.Errorf("query failed: %v", qerr.Err)
		r.log.Infof("query was: %s", qerr.Query)
		return 1
	}

	r.log.Errorf("%v", err)
	return 1
}
