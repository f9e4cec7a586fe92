// Command heuristic is the reference metrics provider. It derives answer
// metrics from cheap lexical heuristics so the analyzer can run end to end
// without a transcription service.
package main

import (
	"context"
	"strings"

	"github.com/hashicorp/go-plugin"

	providerrpc "rehearse/internal/modules/analyzer/adapter/out/rpc"
)

type server struct{}

func (s *server) GetInfo(_ context.Context, _ *providerrpc.Empty) (*providerrpc.ProviderInfo, error) {
	return &providerrpc.ProviderInfo{Name: "heuristic", Version: "1.0.0"}, nil
}

var fillerWords = []string{"um", "uh", "like", "you know", "basically", "actually", "sort of", "kind of"}

func (s *server) GetMetrics(_ context.Context, in *providerrpc.MetricsRequest) (*providerrpc.MetricsResponse, error) {
	text := strings.TrimSpace(in.AnswerText)
	words := strings.Fields(text)
	sentences := countSentences(text)

	resp := &providerrpc.MetricsResponse{
		Confidence: 0.5,
		Clarity:    0.5,
		Structure:  0.5,
		PaceWPM:    150,
	}
	if len(words) == 0 {
		return resp, nil
	}

	lower := strings.ToLower(text)
	fillers := 0
	for _, filler := range fillerWords {
		fillers += strings.Count(lower, filler)
	}
	resp.Hesitation = clamp01(float64(fillers) / float64(len(words)) * 10)
	resp.Confidence = clamp01(0.9 - resp.Hesitation)

	// Short sentences read clearly; rambling ones do not.
	wordsPerSentence := float64(len(words)) / float64(sentences)
	resp.Clarity = clamp01(1.2 - wordsPerSentence/30)

	// Multiple sentences plus connectives suggest a structured answer.
	structure := 0.4
	if sentences >= 3 {
		structure += 0.3
	}
	for _, connective := range []string{"first", "then", "finally", "because", "as a result"} {
		if strings.Contains(lower, connective) {
			structure += 0.1
		}
	}
	resp.Structure = clamp01(structure)

	if in.DurationMS > 0 {
		resp.PaceWPM = float64(len(words)) / (float64(in.DurationMS) / 60000)
	}
	return resp, nil
}

func countSentences(text string) int {
	n := strings.Count(text, ".") + strings.Count(text, "!") + strings.Count(text, "?")
	if n == 0 {
		return 1
	}
	return n
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func main() {
	plugin.Serve(&plugin.ServeConfig{
		HandshakeConfig: providerrpc.HandshakeConfig,
		Plugins:         providerrpc.PluginMap(&server{}),
		GRPCServer:      plugin.DefaultGRPCServer,
	})
}
