// Package composer turns retrieval results into the user-visible reply.
// Two ordered policy stages run per request: a rule-based greeting
// short-circuit that never touches retrieval, then confidence thresholding
// over the top-K hits. Neither stage is error recovery; failures surface
// as explicit rejections.
package composer

import (
	"context"
	"errors"
	"strings"

	"github.com/knurex/faqbot/internal/retrieval"
)

const (
	defaultTopK      = 3
	defaultThreshold = 0.45

	defaultGreetingReply = "Привіт! Я — бот довідник. Поставте своє питання щодо вступу або навчання, і я постараюсь допомогти."
	defaultDisclaimer    = "Вибач, я не зовсім впевнений. Можливо, допоможе одна з відповідей нижче."
)

// defaultGreetingMarkers trigger the greeting short-circuit when found as a
// substring of the lowercased input.
var defaultGreetingMarkers = []string{"привіт", "доброго дня", "добрий", "здрастуйте", "hello", "hi"}

// Reply is the externally visible result of one request. Sources is empty
// for greetings and carries the full top-K hit list otherwise, so clients
// can always show alternatives.
type Reply struct {
	Reply   string          `json:"reply"`
	Sources []retrieval.Hit `json:"sources"`
}

// Retriever abstracts semantic search for the composer.
type Retriever interface {
	Retrieve(ctx context.Context, query string, topK int) ([]retrieval.Hit, error)
}

// Config tunes the composer. Zero values fall back to the defaults above.
type Config struct {
	TopK int

	// ConfidenceThreshold is the minimum top-hit score for a verbatim
	// answer. Zero means the default (0.45); an exact zero floor cannot be
	// configured. To accept every hit regardless of score, set a negative
	// value — scores are inner products and never go below -1.
	ConfidenceThreshold float32

	GreetingMarkers []string
	GreetingReply       string
	Disclaimer          string

	// OmitEmptyAlternative drops the dangling "2)" line of a hedged reply
	// when only one hit exists. Off by default: the blank line matches the
	// historical behavior and some clients rely on a fixed line count.
	OmitEmptyAlternative bool
}

// Composer applies the reply policy over a Retriever.
type Composer struct {
	retriever Retriever
	cfg       Config
	markers   []string // lowercased greeting markers
}

// New creates a Composer, filling config defaults.
func New(retriever Retriever, cfg Config) *Composer {
	if cfg.TopK <= 0 {
		cfg.TopK = defaultTopK
	}
	if cfg.ConfidenceThreshold == 0 {
		cfg.ConfidenceThreshold = defaultThreshold
	}
	if len(cfg.GreetingMarkers) == 0 {
		cfg.GreetingMarkers = defaultGreetingMarkers
	}
	if cfg.GreetingReply == "" {
		cfg.GreetingReply = defaultGreetingReply
	}
	if cfg.Disclaimer == "" {
		cfg.Disclaimer = defaultDisclaimer
	}

	markers := make([]string, len(cfg.GreetingMarkers))
	for i, m := range cfg.GreetingMarkers {
		markers[i] = strings.ToLower(m)
	}

	return &Composer{retriever: retriever, cfg: cfg, markers: markers}
}

// Respond produces the reply for one question. Empty or whitespace-only
// input is rejected with *retrieval.InvalidInputError before either policy
// stage runs.
func (c *Composer) Respond(ctx context.Context, question string) (Reply, error) {
	text := strings.TrimSpace(question)
	if text == "" {
		return Reply{}, &retrieval.InvalidInputError{Reason: "Порожнє питання"}
	}

	if c.isGreeting(text) {
		return Reply{Reply: c.cfg.GreetingReply, Sources: []retrieval.Hit{}}, nil
	}

	hits, err := c.retriever.Retrieve(ctx, text, c.cfg.TopK)
	if err != nil {
		return Reply{}, err
	}
	if len(hits) == 0 {
		// Unreachable with a loaded corpus; never fabricate an answer.
		return Reply{}, errors.New("retrieval returned no hits")
	}

	// Equality counts as confident.
	if hits[0].Score >= c.cfg.ConfidenceThreshold {
		return Reply{Reply: hits[0].Answer, Sources: hits}, nil
	}

	return Reply{Reply: c.hedged(hits), Sources: hits}, nil
}

func (c *Composer) isGreeting(text string) bool {
	lower := strings.ToLower(text)
	for _, m := range c.markers {
		if strings.Contains(lower, m) {
			return true
		}
	}
	return false
}

// hedged builds the low-confidence reply: the disclaimer plus up to two
// numbered alternatives. With a single hit the second line is emitted
// empty unless OmitEmptyAlternative is set.
func (c *Composer) hedged(hits []retrieval.Hit) string {
	var sb strings.Builder
	sb.WriteString(c.cfg.Disclaimer)
	sb.WriteString("\n\n")
	sb.WriteString("1) ")
	sb.WriteString(hits[0].Answer)
	sb.WriteString("\n")
	if len(hits) > 1 {
		sb.WriteString("2) ")
		sb.WriteString(hits[1].Answer)
		sb.WriteString("\n")
	} else if !c.cfg.OmitEmptyAlternative {
		sb.WriteString("2) \n")
	}
	return sb.String()
}
