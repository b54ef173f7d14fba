package coach

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/somnuslabs/somnus/internal/ai"
	"github.com/somnuslabs/somnus/internal/genai"
	"github.com/somnuslabs/somnus/internal/observability"
	"github.com/somnuslabs/somnus/internal/sleep"
)

// ReportService turns a night's sleep summary into a narrative report.
type ReportService struct {
	summaries sleep.SummaryReader
	generator Generator
	metrics   *observability.Metrics
}

func NewReportService(summaries sleep.SummaryReader, generator Generator, metrics *observability.Metrics) *ReportService {
	return &ReportService{summaries: summaries, generator: generator, metrics: metrics}
}

// GenerateReport always returns usable report text. Without data for the
// date it returns the fixed default report and makes no generation call;
// on a classified upstream failure it returns the fixed error report.
func (s *ReportService) GenerateReport(ctx context.Context, userID, date string) string {
	summary, err := s.summaries.GetByUserAndDate(ctx, userID, date)
	if errors.Is(err, sleep.ErrNotFound) {
		log.Printf("no sleep data for user=%s date=%s, serving default report", userID, date)
		return defaultReport
	}
	if err != nil {
		log.Printf("load summary failed user=%s date=%s: %v", userID, date, err)
		return errorReport
	}

	prompt := ai.ReportPrompt(summary.Score, summary.DeepSleepMins, summary.TotalSleepMins, summary.Date)

	start := time.Now()
	text, err := s.generator.Generate(ctx, prompt)
	if err != nil {
		kind, _ := genai.KindOf(err)
		s.metrics.ObserveGeneration(string(kind), time.Since(start))
		log.Printf("report generation failed user=%s date=%s kind=%s: %v", userID, date, kind, err)
		return errorReport
	}
	s.metrics.ObserveGeneration("success", time.Since(start))
	return text
}
