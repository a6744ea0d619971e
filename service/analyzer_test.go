package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"hukukai-backend/models"

	"github.com/google/generative-ai-go/genai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

type scriptedGenerator struct {
	responses []*genai.GenerateContentResponse
	errs      []error
	prompts   []string
}

func (g *scriptedGenerator) GenerateContent(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error) {
	i := len(g.prompts)
	if text, ok := parts[0].(genai.Text); ok {
		g.prompts = append(g.prompts, string(text))
	}
	var err error
	if i < len(g.errs) {
		err = g.errs[i]
	}
	if err != nil {
		return nil, err
	}
	if i < len(g.responses) {
		return g.responses[i], nil
	}
	return nil, errors.New("no scripted response")
}

func textResponse(parts ...string) *genai.GenerateContentResponse {
	content := &genai.Content{}
	for _, p := range parts {
		content.Parts = append(content.Parts, genai.Text(p))
	}
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{Content: content}},
	}
}

func newTestAnalyzer(gen contentGenerator, opts ...GeminiOption) *GeminiAnalyzer {
	a := newGeminiAnalyzer(gen, opts...)
	a.limiter = rate.NewLimiter(rate.Inf, 1)
	a.backoff = time.Millisecond
	return a
}

func TestGeminiAnalyzer_Success(t *testing.T) {
	gen := &scriptedGenerator{responses: []*genai.GenerateContentResponse{
		textResponse("Özet: ", "TMK 166 uyarınca boşanma mümkündür."),
	}}
	a := newTestAnalyzer(gen)

	text, err := a.Analyze(context.Background(), "Eşim evi terk etti.", models.CategoryFamily)

	require.NoError(t, err)
	assert.Equal(t, "Özet: TMK 166 uyarınca boşanma mümkündür.", text)
	require.Len(t, gen.prompts, 1)
	assert.Contains(t, gen.prompts[0], "Analiz kategorisi: Aile Hukuku")
	assert.Contains(t, gen.prompts[0], "Eşim evi terk etti.")
}

func TestGeminiAnalyzer_RetriesThenSucceeds(t *testing.T) {
	gen := &scriptedGenerator{
		errs:      []error{errors.New("503 unavailable"), nil},
		responses: []*genai.GenerateContentResponse{nil, textResponse("TBK 49")},
	}
	a := newTestAnalyzer(gen, GeminiWithMaxAttempts(3))

	text, err := a.Analyze(context.Background(), "Komşumun ağacı arabama düştü.", models.CategoryObligations)

	require.NoError(t, err)
	assert.Equal(t, "TBK 49", text)
	assert.Len(t, gen.prompts, 2)
}

func TestGeminiAnalyzer_GivesUpAfterMaxAttempts(t *testing.T) {
	boom := errors.New("quota exceeded")
	gen := &scriptedGenerator{errs: []error{boom, boom, boom}}
	a := newTestAnalyzer(gen, GeminiWithMaxAttempts(2))

	_, err := a.Analyze(context.Background(), "olay", models.CategoryLabor)

	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Len(t, gen.prompts, 2)
}

func TestGeminiAnalyzer_EmptyResponse(t *testing.T) {
	gen := &scriptedGenerator{responses: []*genai.GenerateContentResponse{
		{Candidates: nil},
	}}
	a := newTestAnalyzer(gen, GeminiWithMaxAttempts(1))

	_, err := a.Analyze(context.Background(), "olay", models.CategoryLabor)

	assert.ErrorIs(t, err, ErrEmptyAnalysis)
}

func TestGeminiAnalyzer_CancelledContext(t *testing.T) {
	gen := &scriptedGenerator{errs: []error{errors.New("fail")}}
	a := newTestAnalyzer(gen, GeminiWithMaxAttempts(5))
	a.backoff = time.Hour

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	_, err := a.Analyze(ctx, "olay", models.CategoryLabor)

	assert.ErrorIs(t, err, context.Canceled)
	assert.Len(t, gen.prompts, 1)
}

func TestBuildAnalysisPrompt_UnknownCategory(t *testing.T) {
	prompt := buildAnalysisPrompt("olay", models.CaseCategory("vergi_hukuku"))

	assert.Contains(t, prompt, "Analiz kategorisi: vergi_hukuku")
	assert.Contains(t, prompt, "TMK 166")
}
