package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"hukukai-backend/models"

	"github.com/google/generative-ai-go/genai"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

var (
	ErrEmptyAnalysis = errors.New("model returned no analysis text")
)

// Analyzer produces a free-text legal analysis of a case narrative
type Analyzer interface {
	Analyze(ctx context.Context, narrative string, category models.CaseCategory) (string, error)
}

// contentGenerator is the part of *genai.GenerativeModel the analyzer uses
type contentGenerator interface {
	GenerateContent(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error)
}

// GeminiAnalyzer asks a Gemini model for an analysis that cites statutes and decisions
type GeminiAnalyzer struct {
	model       contentGenerator
	limiter     *rate.Limiter
	maxAttempts int
	timeout     time.Duration
	backoff     time.Duration
	logger      *zap.Logger
}

// GeminiOption is a functional option for GeminiAnalyzer
type GeminiOption func(*GeminiAnalyzer)

// GeminiWithRateLimit allows perMinute calls per minute with no burst beyond one
func GeminiWithRateLimit(perMinute int) GeminiOption {
	return func(a *GeminiAnalyzer) {
		if perMinute > 0 {
			a.limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), 1)
		}
	}
}

// GeminiWithMaxAttempts sets how many times a failed call is tried
func GeminiWithMaxAttempts(n int) GeminiOption {
	return func(a *GeminiAnalyzer) {
		if n > 0 {
			a.maxAttempts = n
		}
	}
}

// GeminiWithTimeout bounds each model call
func GeminiWithTimeout(d time.Duration) GeminiOption {
	return func(a *GeminiAnalyzer) {
		if d > 0 {
			a.timeout = d
		}
	}
}

// GeminiWithLogger sets the logger
func GeminiWithLogger(logger *zap.Logger) GeminiOption {
	return func(a *GeminiAnalyzer) {
		a.logger = logger
	}
}

// NewGeminiAnalyzer configures modelName on client for legal analysis
func NewGeminiAnalyzer(client *genai.Client, modelName string, opts ...GeminiOption) *GeminiAnalyzer {
	model := client.GenerativeModel(modelName)
	model.SetTemperature(0.1)
	model.SetTopP(0.95)
	model.SetTopK(40)
	model.SetMaxOutputTokens(2048)
	// Case narratives routinely describe violence and abuse
	model.SafetySettings = []*genai.SafetySetting{
		{Category: genai.HarmCategoryHarassment, Threshold: genai.HarmBlockNone},
		{Category: genai.HarmCategoryHateSpeech, Threshold: genai.HarmBlockNone},
		{Category: genai.HarmCategorySexuallyExplicit, Threshold: genai.HarmBlockNone},
		{Category: genai.HarmCategoryDangerousContent, Threshold: genai.HarmBlockNone},
	}
	return newGeminiAnalyzer(model, opts...)
}

func newGeminiAnalyzer(model contentGenerator, opts ...GeminiOption) *GeminiAnalyzer {
	a := &GeminiAnalyzer{
		model:       model,
		limiter:     rate.NewLimiter(rate.Every(2*time.Second), 1),
		maxAttempts: 2,
		timeout:     60 * time.Second,
		backoff:     time.Second,
		logger:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Analyze sends the analysis prompt, retrying failed calls with linear backoff
func (a *GeminiAnalyzer) Analyze(ctx context.Context, narrative string, category models.CaseCategory) (string, error) {
	prompt := buildAnalysisPrompt(narrative, category)

	var lastErr error
	for attempt := 1; attempt <= a.maxAttempts; attempt++ {
		if attempt > 1 {
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(time.Duration(attempt-1) * a.backoff):
			}
		}

		if err := a.limiter.Wait(ctx); err != nil {
			return "", fmt.Errorf("rate limiter: %w", err)
		}

		text, err := a.generate(ctx, prompt)
		if err == nil {
			return text, nil
		}
		lastErr = err
		a.logger.Warn("Analysis call failed",
			zap.Int("attempt", attempt),
			zap.Int("max_attempts", a.maxAttempts),
			zap.Error(err))
	}

	return "", fmt.Errorf("failed to generate analysis after %d attempts: %w", a.maxAttempts, lastErr)
}

func (a *GeminiAnalyzer) generate(ctx context.Context, prompt string) (string, error) {
	callCtx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	resp, err := a.model.GenerateContent(callCtx, genai.Text(prompt))
	if err != nil {
		return "", err
	}

	text := strings.TrimSpace(responseText(resp))
	if text == "" {
		return "", ErrEmptyAnalysis
	}
	return text, nil
}

// responseText concatenates the text parts of the first candidate
func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			b.WriteString(string(text))
		}
	}
	return b.String()
}

func buildAnalysisPrompt(narrative string, category models.CaseCategory) string {
	return fmt.Sprintf(`Bir hukuk uzmanı olarak, aşağıdaki olay örgüsüne dayalı olarak kapsamlı bir hukuki analiz yap.
Analiz kategorisi: %s

Olay örgüsü:
%s

Analiz aşağıdaki bölümleri içermelidir:

1. Özet: Bu durum hakkında kısa bir değerlendirme yap.

2. İlgili Kanun Maddeleri: Bu durum için en ilgili 3-5 kanun maddesini belirt. Her maddeyi kanun kısaltması ve madde numarasıyla yaz (örneğin "TMK 166", "TBK 49", "İK 17"). Kullanılabilecek kısaltmalar: TMK, TBK, TCK, İK, HMK, TTK, TKHK, İYUK, İİK.

3. İlgili Yargıtay Kararları: Bu durumla ilgili 2-4 Yargıtay kararını "Yargıtay 2. Hukuk Dairesi 2019/8765" biçiminde, daire ve esas numarasıyla belirt ve kararın ana ilkesini özetle.

4. Hukuki Öneriler: İzlenecek yolu ve hukuki tavsiyeleri belirt.

Yanıtını düz metin olarak ver.`, category.DisplayName(), narrative)
}
