package secrets

import (
	"context"
	"log/slog"
	"sync"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/aws/smithy-go"

	"github.com/input-output-hk/catalyst-forge-libs/butler/errors"
)

// AWS error codes returned by Secrets Manager.
const (
	ResourceNotFoundException = "ResourceNotFoundException"
	AccessDeniedException     = "AccessDeniedException"
)

// Resolver looks up a key by secret id.
type Resolver interface {
	Resolve(ctx context.Context, secretID string) (Key, error)
}

// ManagerAPI is the subset of the Secrets Manager client used here.
type ManagerAPI interface {
	GetSecretValue(
		ctx context.Context,
		params *secretsmanager.GetSecretValueInput,
		optFns ...func(*secretsmanager.Options),
	) (*secretsmanager.GetSecretValueOutput, error)
}

// SecretsManager resolves keys stored in AWS Secrets Manager.
//
// The AWS client is created from the default credential chain on first use
// unless one was supplied with WithManagerClient. Safe for concurrent use.
type SecretsManager struct {
	mu     sync.Mutex
	api    ManagerAPI
	logger *slog.Logger
}

var _ Resolver = (*SecretsManager)(nil)

// ManagerOption configures a SecretsManager.
type ManagerOption func(*SecretsManager)

// WithManagerClient sets the Secrets Manager client.
func WithManagerClient(api ManagerAPI) ManagerOption {
	return func(m *SecretsManager) {
		m.api = api
	}
}

// WithManagerLogger sets the logger.
func WithManagerLogger(logger *slog.Logger) ManagerOption {
	return func(m *SecretsManager) {
		m.logger = logger
	}
}

// NewSecretsManager creates a SecretsManager resolver.
func NewSecretsManager(opts ...ManagerOption) *SecretsManager {
	m := &SecretsManager{
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *SecretsManager) client(ctx context.Context) (ManagerAPI, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.api != nil {
		return m.api, nil
	}
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInvalidConfig, "failed to load AWS config")
	}
	m.api = secretsmanager.NewFromConfig(cfg)
	return m.api, nil
}

// Resolve fetches the secret value for secretID and returns it as a Key.
// Binary secrets are used as-is.
func (m *SecretsManager) Resolve(ctx context.Context, secretID string) (Key, error) {
	if secretID == "" {
		return Key{}, errors.New(errors.CodeInvalidInput, "secret id cannot be empty")
	}

	api, err := m.client(ctx)
	if err != nil {
		return Key{}, err
	}

	m.logger.DebugContext(ctx, "retrieving secret", "secret_id", secretID)
	out, err := api.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{SecretId: &secretID})
	if err != nil {
		return Key{}, handleManagerError(err, secretID)
	}

	var key Key
	switch {
	case out.SecretString != nil:
		key = NewKey(*out.SecretString)
	case out.SecretBinary != nil:
		key = Key{value: append([]byte(nil), out.SecretBinary...)}
	}
	if !key.IsSet() {
		return Key{}, errors.NewWithContext(errors.CodeInvalidConfig, "secret value is empty",
			map[string]interface{}{"secret_id": secretID})
	}

	m.logger.DebugContext(ctx, "secret retrieved", "secret_id", secretID)
	return key, nil
}

func handleManagerError(err error, secretID string) error {
	ctx := map[string]interface{}{"secret_id": secretID}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case ResourceNotFoundException:
			return errors.WrapWithContext(err, errors.CodeNotFound, "secret not found", ctx)
		case AccessDeniedException:
			return errors.WrapWithContext(err, errors.CodeInvalidConfig, "access denied to secret", ctx)
		}
	}
	return errors.WrapWithContext(err, errors.CodeNetwork, "failed to retrieve secret", ctx)
}
