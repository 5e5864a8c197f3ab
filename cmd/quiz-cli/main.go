// quiz-cli plays a published quiz in the terminal.
//
//	quiz-cli -quiz 12 -lang fr
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/quiz-tool/quiz-tool/internal/config"
	"github.com/quiz-tool/quiz-tool/internal/i18n"
	"github.com/quiz-tool/quiz-tool/internal/playerclient"
	"github.com/quiz-tool/quiz-tool/internal/quiz"
	"github.com/quiz-tool/quiz-tool/internal/session"
)

func main() {
	cfg := config.FromEnv()

	apiURL := flag.String("api", cfg.PlayerAPIURL, "player API base URL")
	quizID := flag.Int64("quiz", 0, "quiz id")
	lang := flag.String("lang", "en", "language (en, fr, de)")
	flag.Parse()

	if *quizID <= 0 {
		flag.Usage()
		os.Exit(2)
	}
	l := i18n.OrCanonical(*lang)

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	c := playerclient.New(*apiURL)
	content, err := c.Play(ctx, *quizID, l)
	if err != nil {
		log.Fatalf("load quiz %d: %v", *quizID, err)
	}

	if err := run(os.Stdin, os.Stdout, content, i18n.UI(l)); err != nil {
		log.Fatal(err)
	}
}

// run drives one session over in/out until the player declines a restart
// or input ends.
func run(in io.Reader, out io.Writer, c quiz.Content, ui i18n.UIStrings) error {
	s, err := session.New(c)
	if err != nil {
		return err
	}
	p := &prompter{r: bufio.NewReader(in), w: out}

	for {
		fmt.Fprintf(out, "\n== %s ==\n", c.Title)
		printIf(out, c.Description)
		printIf(out, c.IntroText)
		if _, err := p.ask("[Enter] " + ui.StartQuiz); err != nil {
			return eofOK(err)
		}
		if err := s.Start(); err != nil {
			return err
		}

		for s.State() == session.StateQuestion {
			if err := playQuestion(p, s, ui); err != nil {
				return eofOK(err)
			}
		}

		res, _ := s.Result()
		fmt.Fprintf(out, "\n%s\n%s %d%% (%d/%d)\n", ui.QuizComplete, ui.YouScored, res.Percentage, res.CorrectCount, res.Total)
		if res.Tier != nil {
			fmt.Fprintf(out, "%s\n", res.Tier.TierName)
			printIf(out, res.Tier.Message)
		}
		printIf(out, c.SummaryText)
		printIf(out, c.TipsText)

		again, err := p.ask(ui.TakeQuizAgain + "? [y/N]")
		if err != nil {
			return eofOK(err)
		}
		if !strings.EqualFold(again, "y") {
			return nil
		}
		s.Restart()
	}
}

func playQuestion(p *prompter, s *session.Session, ui i18n.UIStrings) error {
	q, _ := s.Current()
	pr := s.Progress()
	fmt.Fprintf(p.w, "\n%s %d %s %d (%d%%)\n", ui.Question, pr.Position, ui.Of, pr.Total, pr.Percent)
	printIf(p.w, q.ImageURL)
	fmt.Fprintln(p.w, q.QuestionText)

	for {
		line, err := p.ask(fmt.Sprintf("[s] %s  [n] %s", ui.Scam, ui.NotScam))
		if err != nil {
			return err
		}
		a, ok := parseAnswer(line)
		if !ok {
			continue
		}
		if err := s.Answer(a); err != nil {
			return err
		}
		break
	}

	if correct, _ := s.CurrentCorrect(); correct {
		fmt.Fprintln(p.w, ui.Correct)
	} else {
		fmt.Fprintln(p.w, ui.Incorrect)
	}
	printIf(p.w, q.Explanation)

	next := ui.NextQuestion
	if pr.Position == pr.Total {
		next = ui.SeeResults
	}
	if _, err := p.ask("[Enter] " + next); err != nil {
		return err
	}
	return s.Continue()
}

func parseAnswer(s string) (quiz.Answer, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "s", "scam":
		return quiz.AnswerScam, true
	case "n", "not-scam", "not scam":
		return quiz.AnswerNotScam, true
	}
	return "", false
}

type prompter struct {
	r *bufio.Reader
	w io.Writer
}

func (p *prompter) ask(prompt string) (string, error) {
	fmt.Fprintf(p.w, "%s > ", prompt)
	line, err := p.r.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func printIf(w io.Writer, s string) {
	if strings.TrimSpace(s) != "" {
		fmt.Fprintln(w, s)
	}
}

func eofOK(err error) error {
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}
