package i18n

// UIStrings are the static labels of the player screens.
type UIStrings struct {
	StartQuiz     string `json:"startQuiz"`
	Question      string `json:"question"`
	Of            string `json:"of"`
	Scam          string `json:"scam"`
	NotScam       string `json:"notScam"`
	Correct       string `json:"correct"`
	Incorrect     string `json:"incorrect"`
	NextQuestion  string `json:"nextQuestion"`
	SeeResults    string `json:"seeResults"`
	QuizComplete  string `json:"quizComplete"`
	YouScored     string `json:"youScored"`
	TakeQuizAgain string `json:"takeQuizAgain"`
	BackToHome    string `json:"backToHome"`
}

var uiStrings = map[Language]UIStrings{
	English: {
		StartQuiz:     "Start Quiz",
		Question:      "Question",
		Of:            "of",
		Scam:          "Scam",
		NotScam:       "Not a Scam",
		Correct:       "Correct!",
		Incorrect:     "Incorrect",
		NextQuestion:  "Next Question",
		SeeResults:    "See Results",
		QuizComplete:  "Quiz Complete!",
		YouScored:     "You scored",
		TakeQuizAgain: "Take Quiz Again",
		BackToHome:    "Back to Home",
	},
	French: {
		StartQuiz:     "Commencer le Quiz",
		Question:      "Question",
		Of:            "sur",
		Scam:          "Arnaque",
		NotScam:       "Pas une Arnaque",
		Correct:       "Correct !",
		Incorrect:     "Incorrect",
		NextQuestion:  "Question Suivante",
		SeeResults:    "Voir les Résultats",
		QuizComplete:  "Quiz Terminé !",
		YouScored:     "Vous avez obtenu",
		TakeQuizAgain: "Refaire le Quiz",
		BackToHome:    "Retour à l'Accueil",
	},
	German: {
		StartQuiz:     "Quiz Starten",
		Question:      "Frage",
		Of:            "von",
		Scam:          "Betrug",
		NotScam:       "Kein Betrug",
		Correct:       "Richtig!",
		Incorrect:     "Falsch",
		NextQuestion:  "Nächste Frage",
		SeeResults:    "Ergebnisse Anzeigen",
		QuizComplete:  "Quiz Abgeschlossen!",
		YouScored:     "Sie haben erzielt",
		TakeQuizAgain: "Quiz Wiederholen",
		BackToHome:    "Zurück zur Startseite",
	},
}

// UI returns the labels for l, English for anything unknown.
func UI(l Language) UIStrings {
	if s, ok := uiStrings[l]; ok {
		return s
	}
	return uiStrings[English]
}
