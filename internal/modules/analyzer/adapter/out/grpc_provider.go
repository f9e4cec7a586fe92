package out

import (
	"context"
	"fmt"
	"io"
	"os/exec"
	"time"

	hclog "github.com/hashicorp/go-hclog"
	"github.com/hashicorp/go-plugin"

	providerrpc "rehearse/internal/modules/analyzer/adapter/out/rpc"
	analyzerdomain "rehearse/internal/modules/analyzer/domain"
	analyzerout "rehearse/internal/modules/analyzer/port/out"
)

const (
	providerStartTimeout = 3 * time.Second
	providerCallTimeout  = 5 * time.Second
)

// GRPCProvider launches an external metrics-provider binary over go-plugin
// for each call. Providers are expected to be cheap local processes.
type GRPCProvider struct {
	binary string
}

func NewGRPCProvider(binary string) analyzerout.MetricsProvider {
	return &GRPCProvider{binary: binary}
}

func (p *GRPCProvider) GetMetrics(ctx context.Context, answerText string, durationMS int) (analyzerdomain.Metrics, error) {
	client, closeFn, err := p.connect()
	if err != nil {
		return analyzerdomain.Metrics{}, err
	}
	defer closeFn()

	callCtx, cancel := callContext(ctx, providerCallTimeout)
	defer cancel()
	response, err := client.GetMetrics(callCtx, &providerrpc.MetricsRequest{
		AnswerText: answerText,
		DurationMS: int32(durationMS),
	})
	if err != nil {
		return analyzerdomain.Metrics{}, fmt.Errorf("get metrics: %w", err)
	}
	return analyzerdomain.Metrics{
		Confidence: response.Confidence,
		Clarity:    response.Clarity,
		Structure:  response.Structure,
		Hesitation: response.Hesitation,
		PaceWPM:    response.PaceWPM,
	}, nil
}

func (p *GRPCProvider) connect() (providerrpc.MetricsProviderClient, func(), error) {
	client := plugin.NewClient(&plugin.ClientConfig{
		HandshakeConfig:  providerrpc.HandshakeConfig,
		AllowedProtocols: []plugin.Protocol{plugin.ProtocolGRPC},
		Plugins:          providerrpc.PluginMap(nil),
		Cmd:              exec.Command(p.binary),
		Managed:          true,
		StartTimeout:     providerStartTimeout,
		Logger:           hclog.New(&hclog.LoggerOptions{Output: io.Discard, Level: hclog.NoLevel}),
	})
	closeFn := func() { client.Kill() }

	rpcClient, err := client.Client()
	if err != nil {
		closeFn()
		return nil, nil, fmt.Errorf("start provider client: %w", err)
	}
	raw, err := rpcClient.Dispense(providerrpc.PluginMapKey)
	if err != nil {
		closeFn()
		return nil, nil, fmt.Errorf("dispense provider: %w", err)
	}
	typed, ok := raw.(providerrpc.MetricsProviderClient)
	if !ok {
		closeFn()
		return nil, nil, fmt.Errorf("provider rpc client type mismatch")
	}
	return typed, closeFn, nil
}

func callContext(parent context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := parent.Deadline(); ok {
		return context.WithCancel(parent)
	}
	return context.WithTimeout(parent, timeout)
}
