package quiz

import "github.com/quiz-tool/quiz-tool/internal/i18n"

// Localize resolves every translatable field of c into lang. The result
// carries no variants; c is not modified.
func Localize(c Content, lang i18n.Language) Content {
	out := c
	q := c.Quiz
	out.Title = i18n.Resolve(q.Title, q.Translations, lang, i18n.FieldTitle)
	out.Description = i18n.Resolve(q.Description, q.Translations, lang, i18n.FieldDescription)
	out.IntroText = i18n.Resolve(q.IntroText, q.Translations, lang, i18n.FieldIntroText)
	out.SummaryText = i18n.Resolve(q.SummaryText, q.Translations, lang, i18n.FieldSummaryText)
	out.TipsText = i18n.Resolve(q.TipsText, q.Translations, lang, i18n.FieldTipsText)
	out.Language = lang
	out.Translations = nil

	out.Questions = make([]Question, len(c.Questions))
	for i, qu := range c.Questions {
		qu.QuestionText = i18n.Resolve(qu.QuestionText, qu.Translations, lang, i18n.FieldQuestionText)
		qu.Explanation = i18n.Resolve(qu.Explanation, qu.Translations, lang, i18n.FieldExplanation)
		qu.Translations = nil
		out.Questions[i] = qu
	}

	out.ResultTiers = make([]ResultTier, len(c.ResultTiers))
	for i, t := range c.ResultTiers {
		t.TierName = i18n.Resolve(t.TierName, t.Translations, lang, i18n.FieldTierName)
		t.Message = i18n.Resolve(t.Message, t.Translations, lang, i18n.FieldMessage)
		t.Translations = nil
		out.ResultTiers[i] = t
	}
	return out
}
