package unit

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nurturemyplants/plantcare/internal/domain/identify"
	"github.com/nurturemyplants/plantcare/internal/infra/llm/vision"
	apperrors "github.com/nurturemyplants/plantcare/pkg/errors"
	"github.com/nurturemyplants/plantcare/pkg/metrics"
)

type stubModelClient struct {
	resp        vision.CompletionResult
	err         error
	calls       int
	lastRequest vision.CompletionRequest
}

func (s *stubModelClient) Complete(_ context.Context, req vision.CompletionRequest) (vision.CompletionResult, error) {
	s.calls++
	s.lastRequest = req
	if s.err != nil {
		return vision.CompletionResult{}, s.err
	}
	return s.resp, nil
}

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func identifyConfig() identify.Config {
	return identify.Config{
		Model:         "gpt-4o-mini",
		MaxTokens:     1000,
		Temperature:   0.2,
		CredentialsOK: true,
	}
}

const monsteraJSON = `{
	"commonName": "Monstera Deliciosa",
	"scientificName": "Monstera deliciosa",
	"confidence": "high",
	"identifyingFeatures": ["Fenestrated leaves"],
	"alternatives": null
}`

func TestIdentifyParsesModelJSON(t *testing.T) {
	client := &stubModelClient{resp: vision.CompletionResult{
		Text:  monsteraJSON,
		Usage: metrics.TokenUsage{PromptTokens: 120, TotalTokens: 300},
	}}
	svc := identify.NewService(identifyConfig(), client, newTestLogger())

	result, err := svc.Identify(context.Background(), "aGVsbG8=", "image/jpeg", "session-1")
	require.NoError(t, err)
	require.True(t, result.IsPlant)
	require.Equal(t, "Monstera Deliciosa", result.Identification.CommonName)
	require.Equal(t, "high", result.Identification.Confidence)

	require.Equal(t, 1, client.calls)
	require.Equal(t, "gpt-4o-mini", client.lastRequest.Model)
	require.Equal(t, "aGVsbG8=", client.lastRequest.ImageBase64)
	require.Equal(t, "image/jpeg", client.lastRequest.ImageMIME)
	require.Contains(t, client.lastRequest.Prompt, "botanical expert")
	require.Contains(t, client.lastRequest.Prompt, "not_a_plant")
}

func TestIdentifyStripsDataURIPrefix(t *testing.T) {
	client := &stubModelClient{resp: vision.CompletionResult{Text: monsteraJSON}}
	svc := identify.NewService(identifyConfig(), client, newTestLogger())

	_, err := svc.Identify(context.Background(), "data:image/jpeg;base64,aGVsbG8=", "image/jpeg", "s")
	require.NoError(t, err)
	require.Equal(t, "aGVsbG8=", client.lastRequest.ImageBase64)
}

func TestIdentifySentinelMeansNotAPlant(t *testing.T) {
	client := &stubModelClient{resp: vision.CompletionResult{
		Text: `{"commonName": "not_a_plant", "scientificName": "", "confidence": "high", "identifyingFeatures": [], "alternatives": null}`,
	}}
	svc := identify.NewService(identifyConfig(), client, newTestLogger())

	result, err := svc.Identify(context.Background(), "aGVsbG8=", "image/jpeg", "s")
	require.NoError(t, err)
	require.False(t, result.IsPlant)
	require.Equal(t, identify.NotAPlantDisplayName, result.Identification.CommonName)
	require.NotEmpty(t, result.Identification.IdentifyingFeatures)
}

func TestIdentifyFallsBackToRawTextForNonPlants(t *testing.T) {
	client := &stubModelClient{resp: vision.CompletionResult{
		Text: "I examined the photo and this is not a plant, it shows a coffee mug.",
	}}
	svc := identify.NewService(identifyConfig(), client, newTestLogger())

	result, err := svc.Identify(context.Background(), "aGVsbG8=", "image/jpeg", "s")
	require.NoError(t, err)
	require.False(t, result.IsPlant)
	require.Equal(t, identify.NotAPlantDisplayName, result.Identification.CommonName)
}

func TestIdentifyUnparseableResponseFails(t *testing.T) {
	client := &stubModelClient{resp: vision.CompletionResult{
		Text: "Sure! This looks like a lovely Monstera.",
	}}
	svc := identify.NewService(identifyConfig(), client, newTestLogger())

	_, err := svc.Identify(context.Background(), "aGVsbG8=", "image/jpeg", "s")
	require.Error(t, err)
	require.True(t, apperrors.IsCode(err, "identify_parse"))
}

func TestIdentifyFailsFastWithoutCredentials(t *testing.T) {
	client := &stubModelClient{resp: vision.CompletionResult{Text: monsteraJSON}}
	cfg := identifyConfig()
	cfg.CredentialsOK = false
	svc := identify.NewService(cfg, client, newTestLogger())

	_, err := svc.Identify(context.Background(), "aGVsbG8=", "image/jpeg", "s")
	require.Error(t, err)
	require.True(t, apperrors.IsCode(err, "config_error"))
	require.Equal(t, 0, client.calls)
}

func TestIdentifyRejectsEmptyImage(t *testing.T) {
	client := &stubModelClient{}
	svc := identify.NewService(identifyConfig(), client, newTestLogger())

	_, err := svc.Identify(context.Background(), "   ", "image/jpeg", "s")
	require.Error(t, err)
	require.True(t, apperrors.IsCode(err, "invalid_input"))
	require.Equal(t, 0, client.calls)
}

func TestIdentifyLogsTokenCountsOnlyWhenReported(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	client := &stubModelClient{resp: vision.CompletionResult{Text: monsteraJSON}}
	svc := identify.NewService(identifyConfig(), client, logger)

	_, err := svc.Identify(context.Background(), "aGVsbG8=", "image/jpeg", "s")
	require.NoError(t, err)
	require.NotContains(t, buf.String(), "prompt_tokens")

	buf.Reset()
	client.resp.Usage = metrics.TokenUsage{PromptTokens: 120, TotalTokens: 300}
	_, err = svc.Identify(context.Background(), "aGVsbG8=", "image/jpeg", "s")
	require.NoError(t, err)
	require.Contains(t, buf.String(), "prompt_tokens")
	require.Contains(t, buf.String(), "total_tokens")
}

func TestIdentifyPropagatesUpstreamThrottling(t *testing.T) {
	client := &stubModelClient{err: apperrors.Wrap("rate_limited", "upstream throttled", nil)}
	svc := identify.NewService(identifyConfig(), client, newTestLogger())

	_, err := svc.Identify(context.Background(), "aGVsbG8=", "image/jpeg", "s")
	require.Error(t, err)
	require.True(t, apperrors.IsCode(err, "rate_limited"))
}
