// Package scrape seeds the raw FAQ corpus from the faculty website and
// admission-rules PDFs. It produces plain question/answer records; the
// retrieval engine never depends on this package.
package scrape

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/net/html"

	"github.com/knurex/faqbot/internal/corpus"
)

const minParagraphRunes = 30

// Scraper fetches known site sections and shapes them into FAQ entries.
type Scraper struct {
	baseURL string
	client  *http.Client
}

func New(baseURL string) *Scraper {
	return &Scraper{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

// All fetches every known section in order. A section that fails aborts
// the run; partial corpora are worse than a clean retry.
func (s *Scraper) All(ctx context.Context) ([]corpus.Entry, error) {
	var out []corpus.Entry
	for _, section := range []struct {
		name  string
		fetch func(context.Context) ([]corpus.Entry, error)
	}{
		{"contacts", s.Contacts},
		{"hostel", s.Hostel},
		{"admission", s.Admission},
		{"departments", s.Departments},
	} {
		entries, err := section.fetch(ctx)
		if err != nil {
			return nil, fmt.Errorf("scrape %s: %w", section.name, err)
		}
		out = append(out, entries...)
	}
	return out, nil
}

// Contacts turns each contact block into a "Які контакти підрозділу X?"
// entry whose answer is the block's full text.
func (s *Scraper) Contacts(ctx context.Context) ([]corpus.Entry, error) {
	doc, err := s.fetch(ctx, "/contacts")
	if err != nil {
		return nil, err
	}

	var entries []corpus.Entry
	for _, block := range elementsByClass(doc, "contact-block") {
		heading := firstElement(block, "h3")
		if heading == nil {
			continue
		}
		title := cleanText(nodeText(heading))
		entries = append(entries, corpus.Entry{
			Question: fmt.Sprintf("Які контакти підрозділу %s?", title),
			Answer:   cleanText(nodeText(block)),
		})
	}
	return entries, nil
}

// Hostel generates one entry per substantial paragraph on the hostel page.
func (s *Scraper) Hostel(ctx context.Context) ([]corpus.Entry, error) {
	doc, err := s.fetch(ctx, "/hostel")
	if err != nil {
		return nil, err
	}
	return paragraphEntries(doc, func(txt string) string {
		return fmt.Sprintf("Інформація про гуртожиток: %s?", truncateRunes(txt, 50))
	}), nil
}

// Admission generates one entry per substantial paragraph on the
// admission page.
func (s *Scraper) Admission(ctx context.Context) ([]corpus.Entry, error) {
	doc, err := s.fetch(ctx, "/admission")
	if err != nil {
		return nil, err
	}
	return paragraphEntries(doc, func(txt string) string {
		return fmt.Sprintf("Що потрібно знати абітурієнту? %s?", truncateRunes(txt, 60))
	}), nil
}

// Departments turns each department card into a "Що вивчає кафедра X?"
// entry answered by the card's description paragraph.
func (s *Scraper) Departments(ctx context.Context) ([]corpus.Entry, error) {
	doc, err := s.fetch(ctx, "/departments")
	if err != nil {
		return nil, err
	}

	var entries []corpus.Entry
	for _, card := range elementsByClass(doc, "department-card") {
		heading := firstElement(card, "h3")
		desc := firstElement(card, "p")
		if heading == nil || desc == nil {
			continue
		}
		entries = append(entries, corpus.Entry{
			Question: fmt.Sprintf("Що вивчає кафедра %s?", cleanText(nodeText(heading))),
			Answer:   cleanText(nodeText(desc)),
		})
	}
	return entries, nil
}

func (s *Scraper) fetch(ctx context.Context, path string) (*html.Node, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+path, nil)
	if err != nil {
		return nil, err
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("GET %s: status %d", path, resp.StatusCode)
	}
	return html.Parse(resp.Body)
}

// paragraphEntries shapes every <p> of at least minParagraphRunes into an
// entry, with the question derived from the cleaned text.
func paragraphEntries(doc *html.Node, question func(string) string) []corpus.Entry {
	var entries []corpus.Entry
	for _, p := range elements(doc, "p") {
		txt := cleanText(nodeText(p))
		if utf8.RuneCountInString(txt) < minParagraphRunes {
			continue
		}
		entries = append(entries, corpus.Entry{
			Question: question(txt),
			Answer:   txt,
		})
	}
	return entries
}

var whitespaceRe = regexp.MustCompile(`\s+`)

func cleanText(t string) string {
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(t, " "))
}

func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

// nodeText concatenates all text descendants of n.
func nodeText(n *html.Node) string {
	var sb strings.Builder
	walk(n, func(c *html.Node) {
		if c.Type == html.TextNode {
			sb.WriteString(c.Data)
		}
	})
	return sb.String()
}

func elements(root *html.Node, tag string) []*html.Node {
	var out []*html.Node
	walk(root, func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == tag {
			out = append(out, n)
		}
	})
	return out
}

func firstElement(root *html.Node, tag string) *html.Node {
	found := elements(root, tag)
	if len(found) == 0 {
		return nil
	}
	return found[0]
}

func elementsByClass(root *html.Node, class string) []*html.Node {
	var out []*html.Node
	walk(root, func(n *html.Node) {
		if n.Type == html.ElementNode && hasClass(n, class) {
			out = append(out, n)
		}
	})
	return out
}

func hasClass(n *html.Node, class string) bool {
	for _, attr := range n.Attr {
		if attr.Key != "class" {
			continue
		}
		for _, c := range strings.Fields(attr.Val) {
			if c == class {
				return true
			}
		}
	}
	return false
}

func walk(n *html.Node, fn func(*html.Node)) {
	fn(n)
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, fn)
	}
}
