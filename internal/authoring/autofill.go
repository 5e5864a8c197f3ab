package authoring

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/quiz-tool/quiz-tool/internal/i18n"
)

// FieldFailure is a field that kept its source text because translation
// failed.
type FieldFailure struct {
	Path  string `json:"path"`
	Error string `json:"error"`
}

type AutofillReport struct {
	Language   i18n.Language  `json:"language"`
	Translated int            `json:"translated"`
	Failures   []FieldFailure `json:"failures"`
}

type translateJob struct {
	path string
	src  string
	dst  *string
}

// Autofill translates the canonical language of f into target and stores the
// result as target's LanguageData. A failed field keeps the canonical text
// and is listed in the report; only a cancelled ctx aborts the run.
func (s *Service) Autofill(ctx context.Context, f *Form, target i18n.Language) (AutofillReport, error) {
	if !target.Valid() || target == i18n.Canonical {
		return AutofillReport{}, fmt.Errorf("%w: cannot autofill %q", i18n.ErrUnknownLanguage, target)
	}
	src := f.Get(i18n.Canonical)
	out := src.clone()

	jobs := []translateJob{
		{"title", src.Title, &out.Title},
		{"description", src.Description, &out.Description},
		{"intro_text", src.IntroText, &out.IntroText},
		{"summary_text", src.SummaryText, &out.SummaryText},
		{"tips_text", src.TipsText, &out.TipsText},
	}
	for i := range src.Questions {
		jobs = append(jobs,
			translateJob{fmt.Sprintf("questions[%d].question_text", i), src.Questions[i].QuestionText, &out.Questions[i].QuestionText},
			translateJob{fmt.Sprintf("questions[%d].explanation", i), src.Questions[i].Explanation, &out.Questions[i].Explanation},
		)
	}
	for i := range src.ResultTiers {
		jobs = append(jobs,
			translateJob{fmt.Sprintf("result_tiers[%d].tier_name", i), src.ResultTiers[i].TierName, &out.ResultTiers[i].TierName},
			translateJob{fmt.Sprintf("result_tiers[%d].message", i), src.ResultTiers[i].Message, &out.ResultTiers[i].Message},
		)
	}

	report := AutofillReport{Language: target, Failures: []FieldFailure{}}
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for _, j := range jobs {
		if strings.TrimSpace(j.src) == "" {
			continue
		}
		j := j
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			text, err := s.translator.Translate(gctx, j.src, target)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				report.Failures = append(report.Failures, FieldFailure{Path: j.path, Error: err.Error()})
				return nil
			}
			*j.dst = text
			report.Translated++
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return AutofillReport{}, err
	}
	if err := ctx.Err(); err != nil {
		return AutofillReport{}, err
	}

	sort.Slice(report.Failures, func(a, b int) bool { return report.Failures[a].Path < report.Failures[b].Path })
	if err := f.Set(target, out); err != nil {
		return AutofillReport{}, err
	}
	return report, nil
}
