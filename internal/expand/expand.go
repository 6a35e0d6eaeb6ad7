// Package expand implements offline question-variant expansion: each base
// FAQ entry grows into many paraphrased entries sharing the same answer,
// widening the retrieval recall surface at the cost of corpus size and
// embedding time.
package expand

import (
	"sort"
	"strings"

	"github.com/knurex/faqbot/internal/corpus"
)

// Prefix phrase sets used by the topic template groups.
var (
	askPrefixes = []string{
		"Як", "Скажіть, будь ласка, як", "Підкажіть, як",
		"Хочу дізнатися, як", "Поясніть, будь ласка, як",
	}

	needPrefixes = []string{
		"Що потрібно", "Що треба", "Які документи треба",
		"Які документи потрібні", "Що необхідно",
	}

	aboutPrefixes = []string{
		"Де можна знайти", "Де подивитися",
		"Куди зайти, щоб побачити",
		"Як знайти", "Підкажіть, де знайти",
	}

	hostelPrefixes = []string{
		"Як отримати", "Як подати заявку на", "Хто може отримати",
		"Що треба для", "Умови отримання",
	}
)

// templateGroup couples topic-marker substrings with a generator. A group
// fires when the lowercased base question contains any of its markers.
// Expressed as data so new topics are additive.
type templateGroup struct {
	markers  []string
	generate func(base, lower string, add func(string))
}

var topicGroups = []templateGroup{
	{
		// Вступ / абітурієнти.
		markers: []string{"вступ", "поступ", "абітурієнт"},
		generate: func(base, lower string, add func(string)) {
			for _, p := range askPrefixes {
				add(p + " " + lower + "?")
			}
			for _, p := range needPrefixes {
				add(p + " для того, щоб " + lower + "?")
			}
			add(strings.ReplaceAll(base, "Як", "Де можна"))
		},
	},
	{
		// Гуртожиток.
		markers: []string{"гуртожит"},
		generate: func(base, lower string, add func(string)) {
			for _, p := range hostelPrefixes {
				add(p + " " + lower + "?")
			}
			add("Що потрібно знати про " + lower + "?")
		},
	},
	{
		// Документи.
		markers: []string{"документ"},
		generate: func(base, lower string, add func(string)) {
			for _, p := range needPrefixes {
				add(p + " для " + lower + "?")
			}
			add("Які саме документи потрібні, щоб " + lower + "?")
		},
	},
	{
		// Розклад.
		markers: []string{"розклад"},
		generate: func(base, lower string, add func(string)) {
			for _, p := range aboutPrefixes {
				add(p + " " + lower + "?")
			}
			add("Де глянути розклад пар?")
		},
	},
}

// Variants generates the deduplicated paraphrase set for one base
// question: the original verbatim, every matching topic group's output,
// and the generic transforms. Each member is trimmed and has trailing "?"
// runes stripped before deduplication. The result is sorted so output
// files are reproducible.
func Variants(base string) []string {
	lower := strings.ToLower(base)

	set := make(map[string]struct{})
	add := func(v string) {
		v = strings.TrimRight(strings.TrimSpace(v), "?")
		if v != "" {
			set[v] = struct{}{}
		}
	}

	add(base)

	for _, g := range topicGroups {
		for _, m := range g.markers {
			if strings.Contains(lower, m) {
				g.generate(base, lower, add)
				break
			}
		}
	}

	// Generic transforms, applied to every question regardless of topic.
	add(base + "?")
	add(strings.ReplaceAll(base, "?", ""))
	add(lower)
	add("Мене цікавить: " + lower)
	add("Питання: " + lower)

	out := make([]string, 0, len(set))
	for v := range set {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// Expand produces the enlarged corpus: one entry per surviving variant,
// every variant inheriting its base entry's answer unaltered.
func Expand(entries []corpus.Entry) []corpus.Entry {
	var out []corpus.Entry
	for _, e := range entries {
		for _, v := range Variants(e.Question) {
			out = append(out, corpus.Entry{Question: v, Answer: e.Answer})
		}
	}
	return out
}
