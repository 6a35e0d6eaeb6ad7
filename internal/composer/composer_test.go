package composer

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/knurex/faqbot/internal/retrieval"
)

// spyRetriever records calls and returns canned hits.
type spyRetriever struct {
	hits  []retrieval.Hit
	err   error
	calls int
}

func (s *spyRetriever) Retrieve(ctx context.Context, query string, topK int) ([]retrieval.Hit, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	if topK < len(s.hits) {
		return s.hits[:topK], nil
	}
	return s.hits, nil
}

func TestRespond_EmptyInput(t *testing.T) {
	spy := &spyRetriever{}
	c := New(spy, Config{})

	for _, q := range []string{"", "   ", "\t\n"} {
		_, err := c.Respond(context.Background(), q)
		var iie *retrieval.InvalidInputError
		if !errors.As(err, &iie) {
			t.Errorf("Respond(%q): err = %v, want *InvalidInputError", q, err)
		}
	}
	if spy.calls != 0 {
		t.Errorf("retriever called %d times for empty input, want 0", spy.calls)
	}
}

func TestRespond_GreetingShortCircuit(t *testing.T) {
	spy := &spyRetriever{hits: []retrieval.Hit{{Answer: "should never appear", Score: 0.99}}}
	c := New(spy, Config{})

	for _, q := range []string{"привіт", "Привіт, боте!", "ну ПРИВІТ", "hello there", "Доброго дня"} {
		reply, err := c.Respond(context.Background(), q)
		if err != nil {
			t.Fatalf("Respond(%q): %v", q, err)
		}
		if reply.Reply != defaultGreetingReply {
			t.Errorf("Respond(%q) = %q, want canned greeting", q, reply.Reply)
		}
		if len(reply.Sources) != 0 {
			t.Errorf("Respond(%q): sources = %v, want empty", q, reply.Sources)
		}
		if reply.Sources == nil {
			t.Errorf("Respond(%q): sources must be an empty slice, not nil", q)
		}
	}
	if spy.calls != 0 {
		t.Errorf("retriever called %d times for greetings, want 0 (short-circuit)", spy.calls)
	}
}

func TestRespond_ConfidentAnswerVerbatim(t *testing.T) {
	spy := &spyRetriever{hits: []retrieval.Hit{
		{Question: "Скільки коштує навчання?", Answer: "5000 грн/рік", Score: 0.82},
		{Question: "інше", Answer: "інша відповідь", Score: 0.3},
	}}
	c := New(spy, Config{})

	reply, err := c.Respond(context.Background(), "яка вартість навчання")
	if err != nil {
		t.Fatalf("Respond: %v", err)
	}
	if reply.Reply != "5000 грн/рік" {
		t.Errorf("reply = %q, want top answer byte-for-byte", reply.Reply)
	}
	if len(reply.Sources) != 2 {
		t.Errorf("sources length = %d, want full hit list", len(reply.Sources))
	}
}

func TestRespond_ThresholdBoundaryIsConfident(t *testing.T) {
	// Score exactly equal to the threshold counts as confident (>=).
	spy := &spyRetriever{hits: []retrieval.Hit{{Answer: "точна відповідь", Score: 0.45}}}
	c := New(spy, Config{})

	reply, err := c.Respond(context.Background(), "питання")
	if err != nil {
		t.Fatalf("Respond: %v", err)
	}
	if reply.Reply != "точна відповідь" {
		t.Errorf("reply = %q, want verbatim answer at score == threshold", reply.Reply)
	}
}

func TestRespond_ZeroThresholdMeansDefault(t *testing.T) {
	// A zero ConfidenceThreshold is the unset sentinel, not a real floor:
	// a hit below the 0.45 default must still be hedged.
	spy := &spyRetriever{hits: []retrieval.Hit{{Answer: "невпевнена", Score: 0.3}}}
	c := New(spy, Config{ConfidenceThreshold: 0})

	reply, err := c.Respond(context.Background(), "питання")
	if err != nil {
		t.Fatalf("Respond: %v", err)
	}
	if !strings.HasPrefix(reply.Reply, defaultDisclaimer) {
		t.Errorf("reply = %q, want hedged under default threshold", reply.Reply)
	}
}

func TestRespond_NegativeThresholdAcceptsAnyHit(t *testing.T) {
	// Negative thresholds are honored as-is, so any score qualifies.
	spy := &spyRetriever{hits: []retrieval.Hit{{Answer: "найкраще що є", Score: -0.2}}}
	c := New(spy, Config{ConfidenceThreshold: -1})

	reply, err := c.Respond(context.Background(), "питання")
	if err != nil {
		t.Fatalf("Respond: %v", err)
	}
	if reply.Reply != "найкраще що є" {
		t.Errorf("reply = %q, want verbatim answer with negative threshold", reply.Reply)
	}
}

func TestRespond_HedgedTwoAlternatives(t *testing.T) {
	spy := &spyRetriever{hits: []retrieval.Hit{
		{Answer: "перша", Score: 0.40},
		{Answer: "друга", Score: 0.35},
		{Answer: "третя", Score: 0.10},
	}}
	c := New(spy, Config{})

	reply, err := c.Respond(context.Background(), "незрозуміле питання")
	if err != nil {
		t.Fatalf("Respond: %v", err)
	}
	if !strings.HasPrefix(reply.Reply, defaultDisclaimer) {
		t.Errorf("reply missing disclaimer: %q", reply.Reply)
	}
	if !strings.Contains(reply.Reply, "1) перша\n") {
		t.Errorf("reply missing first alternative: %q", reply.Reply)
	}
	if !strings.Contains(reply.Reply, "2) друга\n") {
		t.Errorf("reply missing second alternative: %q", reply.Reply)
	}
	if strings.Contains(reply.Reply, "третя") {
		t.Errorf("reply must list only two alternatives: %q", reply.Reply)
	}
	if len(reply.Sources) != 3 {
		t.Errorf("sources length = %d, want all top-K hits", len(reply.Sources))
	}
}

func TestRespond_HedgedSingleHitDanglingLine(t *testing.T) {
	spy := &spyRetriever{hits: []retrieval.Hit{{Answer: "єдина", Score: 0.2}}}
	c := New(spy, Config{})

	reply, err := c.Respond(context.Background(), "питання")
	if err != nil {
		t.Fatalf("Respond: %v", err)
	}
	if !strings.Contains(reply.Reply, "1) єдина\n") {
		t.Errorf("reply missing first alternative: %q", reply.Reply)
	}
	// The second numbered line is present but empty.
	if !strings.Contains(reply.Reply, "2) \n") {
		t.Errorf("reply missing dangling empty second line: %q", reply.Reply)
	}
}

func TestRespond_HedgedSingleHitOmitMode(t *testing.T) {
	spy := &spyRetriever{hits: []retrieval.Hit{{Answer: "єдина", Score: 0.2}}}
	c := New(spy, Config{OmitEmptyAlternative: true})

	reply, err := c.Respond(context.Background(), "питання")
	if err != nil {
		t.Fatalf("Respond: %v", err)
	}
	if strings.Contains(reply.Reply, "2)") {
		t.Errorf("omit mode must drop the second line entirely: %q", reply.Reply)
	}
}

func TestRespond_RetrieverErrorPropagates(t *testing.T) {
	boom := errors.New("embedding down")
	spy := &spyRetriever{err: boom}
	c := New(spy, Config{})

	if _, err := c.Respond(context.Background(), "питання"); !errors.Is(err, boom) {
		t.Fatalf("err = %v, want retriever failure propagated", err)
	}
}

func TestRespond_CustomGreetingConfig(t *testing.T) {
	spy := &spyRetriever{hits: []retrieval.Hit{{Answer: "x", Score: 0.9}}}
	c := New(spy, Config{
		GreetingMarkers: []string{"вітаю"},
		GreetingReply:   "Вітаю!",
	})

	reply, err := c.Respond(context.Background(), "Вітаю, боте")
	if err != nil {
		t.Fatalf("Respond: %v", err)
	}
	if reply.Reply != "Вітаю!" {
		t.Errorf("reply = %q, want custom greeting", reply.Reply)
	}

	// Default markers are replaced, not merged.
	reply, err = c.Respond(context.Background(), "привіт")
	if err != nil {
		t.Fatalf("Respond: %v", err)
	}
	if reply.Reply == "Вітаю!" {
		t.Error("default marker must not trigger custom greeting set")
	}
}
