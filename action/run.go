package action

import (
	"context"
	"log/slog"

	"github.com/input-output-hk/catalyst-forge-libs/butler/butler"
	"github.com/input-output-hk/catalyst-forge-libs/butler/errors"
	"github.com/input-output-hk/catalyst-forge-libs/butler/secrets"
)

// OutputWriter sets step outputs.
type OutputWriter interface {
	SetOutputs(outputs map[string]string) error
}

// Deps are the collaborators of Run.
type Deps struct {
	Inputs   InputSource
	Reporter butler.Reporter
	Outputs  OutputWriter
	Logger   *slog.Logger
	// Secrets resolves butler_key_secret. Defaults to AWS Secrets Manager.
	Secrets secrets.Resolver
	// Butler holds extra options applied after the defaults derived from
	// the fields above.
	Butler []butler.Option
}

// Run executes the action described by the inputs.
func Run(ctx context.Context, deps Deps) error {
	logger := deps.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	opts, err := ParseInputs(deps.Inputs, logger)
	if err != nil {
		return err
	}

	if opts.KeySecret != "" {
		resolver := deps.Secrets
		if resolver == nil {
			resolver = secrets.NewSecretsManager(secrets.WithManagerLogger(logger))
		}
		key, err := resolver.Resolve(ctx, opts.KeySecret)
		if err != nil {
			return err
		}
		opts.Push.Key = key
		defer opts.Push.Key.Clear()
	}

	bopts := []butler.Option{butler.WithLogger(logger)}
	if deps.Reporter != nil {
		bopts = append(bopts, butler.WithReporter(deps.Reporter))
	}
	b := butler.New(opts.InstallDir, append(bopts, deps.Butler...)...)

	installed, err := b.IsInstalled()
	if err != nil {
		return errors.WrapWithContext(err, errors.CodeFilesystem, "failed to check butler installation",
			map[string]interface{}{"path": b.ExecutablePath()})
	}
	if !installed {
		if err := b.Install(ctx, opts.Install); err != nil {
			return err
		}
	} else {
		logger.DebugContext(ctx, "butler already installed", "path", b.ExecutablePath())
	}

	switch opts.Action {
	case ActionInstall:
	case ActionPush:
		if opts.Push == nil {
			return errors.New(errors.CodeInvalidConfig, "Push options not set in push action")
		}
		if err := b.Push(ctx, *opts.Push); err != nil {
			return err
		}
	default:
		return errors.Newf(errors.CodeInvalidConfig, "Unsupported action %s", opts.Action)
	}

	if deps.Outputs != nil {
		if err := deps.Outputs.SetOutputs(map[string]string{"install_dir": b.InstallDir()}); err != nil {
			return err
		}
	}
	return nil
}
