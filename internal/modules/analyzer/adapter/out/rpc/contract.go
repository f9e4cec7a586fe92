package rpc

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hashicorp/go-plugin"
	"google.golang.org/grpc"
	"google.golang.org/grpc/encoding"
)

const (
	PluginMapKey     = "rehearse"
	serviceName      = "rehearse.provider.v1.MetricsProvider"
	jsonCodecName    = "json"
	methodGetInfo    = "/" + serviceName + "/GetInfo"
	methodGetMetrics = "/" + serviceName + "/GetMetrics"
)

var HandshakeConfig = plugin.HandshakeConfig{
	ProtocolVersion:  1,
	MagicCookieKey:   "REHEARSE_PROVIDER",
	MagicCookieValue: "rehearse",
}

type jsonCodec struct{}

func (jsonCodec) Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

func (jsonCodec) Unmarshal(data []byte, v any) error {
	return json.Unmarshal(data, v)
}

func (jsonCodec) Name() string {
	return jsonCodecName
}

func init() {
	encoding.RegisterCodec(jsonCodec{})
}

type Empty struct{}

type ProviderInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

type MetricsRequest struct {
	AnswerText string `json:"answer_text"`
	DurationMS int32  `json:"duration_ms"`
}

type MetricsResponse struct {
	Confidence float64 `json:"confidence"`
	Clarity    float64 `json:"clarity"`
	Structure  float64 `json:"structure"`
	Hesitation float64 `json:"hesitation"`
	PaceWPM    float64 `json:"pace_wpm"`
}

type MetricsProviderServer interface {
	GetInfo(ctx context.Context, in *Empty) (*ProviderInfo, error)
	GetMetrics(ctx context.Context, in *MetricsRequest) (*MetricsResponse, error)
}

type MetricsProviderClient interface {
	GetInfo(ctx context.Context) (*ProviderInfo, error)
	GetMetrics(ctx context.Context, in *MetricsRequest) (*MetricsResponse, error)
}

type metricsProviderClient struct {
	conn *grpc.ClientConn
}

func NewMetricsProviderClient(conn *grpc.ClientConn) MetricsProviderClient {
	return &metricsProviderClient{conn: conn}
}

func (c *metricsProviderClient) GetInfo(ctx context.Context) (*ProviderInfo, error) {
	out := &ProviderInfo{}
	if err := c.conn.Invoke(ctx, methodGetInfo, &Empty{}, out, grpc.CallContentSubtype(jsonCodecName)); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *metricsProviderClient) GetMetrics(ctx context.Context, in *MetricsRequest) (*MetricsResponse, error) {
	out := &MetricsResponse{}
	if err := c.conn.Invoke(ctx, methodGetMetrics, in, out, grpc.CallContentSubtype(jsonCodecName)); err != nil {
		return nil, err
	}
	return out, nil
}

func RegisterMetricsProviderServer(server grpc.ServiceRegistrar, impl MetricsProviderServer) {
	server.RegisterService(&grpc.ServiceDesc{
		ServiceName: serviceName,
		HandlerType: (*MetricsProviderServer)(nil),
		Methods: []grpc.MethodDesc{
			{
				MethodName: "GetInfo",
				Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
					in := &Empty{}
					if err := dec(in); err != nil {
						return nil, err
					}
					if interceptor == nil {
						return impl.GetInfo(ctx, in)
					}
					info := &grpc.UnaryServerInfo{Server: srv, FullMethod: methodGetInfo}
					handler := func(ctx context.Context, req any) (any, error) {
						empty, ok := req.(*Empty)
						if !ok {
							return nil, fmt.Errorf("invalid request type")
						}
						return impl.GetInfo(ctx, empty)
					}
					return interceptor(ctx, in, info, handler)
				},
			},
			{
				MethodName: "GetMetrics",
				Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
					in := &MetricsRequest{}
					if err := dec(in); err != nil {
						return nil, err
					}
					if interceptor == nil {
						return impl.GetMetrics(ctx, in)
					}
					info := &grpc.UnaryServerInfo{Server: srv, FullMethod: methodGetMetrics}
					handler := func(ctx context.Context, req any) (any, error) {
						inReq, ok := req.(*MetricsRequest)
						if !ok {
							return nil, fmt.Errorf("invalid request type")
						}
						return impl.GetMetrics(ctx, inReq)
					}
					return interceptor(ctx, in, info, handler)
				},
			},
		},
		Streams:  []grpc.StreamDesc{},
		Metadata: "schemas/provider-rpc-v1.proto",
	}, impl)
}

type GRPCPlugin struct {
	plugin.NetRPCUnsupportedPlugin
	Impl MetricsProviderServer
}

func (p *GRPCPlugin) GRPCServer(_ *plugin.GRPCBroker, server *grpc.Server) error {
	RegisterMetricsProviderServer(server, p.Impl)
	return nil
}

func (p *GRPCPlugin) GRPCClient(_ context.Context, _ *plugin.GRPCBroker, conn *grpc.ClientConn) (any, error) {
	return NewMetricsProviderClient(conn), nil
}

func PluginMap(impl MetricsProviderServer) map[string]plugin.Plugin {
	return map[string]plugin.Plugin{
		PluginMapKey: &GRPCPlugin{Impl: impl},
	}
}
