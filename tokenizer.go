package telusuri

import (
	"regexp"
	"strings"
	"unicode"

	snowballeng "github.com/kljensen/snowball/english"
)

// Token is one emitted word, already positioned and capitalization-tagged
// within its document.
type Token struct {
	Word      string
	Position  uint32
	IsCapital bool
}

// capitalPattern matches the "fully capitalized enough to preserve case"
// rule: an uppercase letter, then anything, then another uppercase letter.
// "NASA" and "USA" qualify; "The", "I" and "McDonald" do not.
var capitalPattern = regexp.MustCompile(`^[A-Z].*[A-Z]$`)

// nonWordRun matches runs of non-word characters; Tokenize replaces each run
// with a single space before filterCharset and the whitespace split.
var nonWordRun = regexp.MustCompile(`\W+`)

const (
	minTokenLength = 2
	maxTokenLength = 30
)

// TokenizerOptions configures the optional enrichment passes beyond the
// mandatory tokenization rules: stemming and stopword removal. Both default
// to off; enabling either changes which lexicon key a token is filed under.
type TokenizerOptions struct {
	Stem      bool
	Stopwords bool
	// ExtraStopwords supplements the built-in English list with additional
	// terms loaded from an optional YAML override file.
	ExtraStopwords []string
}

// Tokenizer owns the per-document position counter, which starts at 1, is
// reset between documents, and saturates at maxPosition. Position advances
// once per emitted token, never per rejected candidate.
type Tokenizer struct {
	opts      TokenizerOptions
	stopwords map[string]struct{}
	position  uint32
}

// NewTokenizer builds a tokenizer for one document's worth of paragraphs.
// Call Reset before reusing it for a second document.
func NewTokenizer(opts TokenizerOptions) *Tokenizer {
	t := &Tokenizer{opts: opts, position: 0}
	if opts.Stopwords {
		t.stopwords = make(map[string]struct{}, len(englishStopwords)+len(opts.ExtraStopwords))
		for w := range englishStopwords {
			t.stopwords[w] = struct{}{}
		}
		for _, w := range opts.ExtraStopwords {
			t.stopwords[strings.ToLower(w)] = struct{}{}
		}
	}
	return t
}

// Reset starts a fresh document: the position counter returns to 0 (the
// first emitted token becomes position 1).
func (t *Tokenizer) Reset() {
	t.position = 0
}

// Tokenize runs one paragraph through the normalization pipeline, emitting
// Tokens with positions drawn from the tokenizer's running counter.
func (t *Tokenizer) Tokenize(paragraph string) []Token {
	cleaned := nonWordRun.ReplaceAllString(paragraph, " ")
	cleaned = filterCharset(cleaned)

	candidates := strings.Fields(cleaned)
	tokens := make([]Token, 0, len(candidates))

	for _, word := range candidates {
		if len(word) < minTokenLength || len(word) > maxTokenLength {
			continue
		}

		isCapital := capitalPattern.MatchString(word)
		lexKey := word
		if !isCapital {
			lexKey = strings.ToLower(word)
		}

		if t.opts.Stopwords {
			if _, stop := t.stopwords[strings.ToLower(word)]; stop {
				continue
			}
		}
		if t.opts.Stem {
			lexKey = snowballeng.Stem(strings.ToLower(lexKey), false)
		}

		if t.position < maxPosition {
			t.position++
		}

		tokens = append(tokens, Token{
			Word:      lexKey,
			Position:  t.position,
			IsCapital: isCapital,
		})
	}

	return tokens
}

// filterCharset replaces each character of the filter set {"\r\n\xA0", "\\"}
// with a space, mirroring the source's explicit character-class scrub that
// runs independently of the \W+ collapse above.
func filterCharset(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '\r', '\n', ' ', '\\':
			return ' '
		default:
			return r
		}
	}, s)
}

// isCapitalWord reports the capitalization rule used both for indexing and
// for query-term normalization (§4.1/§4.5): an uppercase letter, then
// anything, then another uppercase letter.
func isCapitalWord(word string) bool {
	return capitalPattern.MatchString(word)
}

// isLetterOrDigit reports whether r is a Unicode letter or digit. Nothing in
// the package calls it; Tokenize splits on the \W+ class instead.
func isLetterOrDigit(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

// englishStopwords is the built-in stopword list, used only when
// TokenizerOptions.Stopwords is enabled. It plays no part in the mandatory
// §4.1 tokenization rules, which have no stopword step of their own.
var englishStopwords = map[string]struct{}{
	"a": {}, "about": {}, "above": {}, "across": {}, "after": {}, "afterwards": {},
	"again": {}, "against": {}, "all": {}, "almost": {}, "alone": {}, "along": {},
	"already": {}, "also": {}, "although": {}, "always": {}, "am": {}, "among": {},
	"amongst": {}, "an": {}, "and": {}, "another": {}, "any": {}, "anyhow": {},
	"anyone": {}, "anything": {}, "anyway": {}, "anywhere": {}, "are": {}, "around": {},
	"as": {}, "at": {}, "back": {}, "be": {}, "became": {}, "because": {}, "become": {},
	"becomes": {}, "becoming": {}, "been": {}, "before": {}, "beforehand": {}, "behind": {},
	"being": {}, "below": {}, "beside": {}, "besides": {}, "between": {}, "beyond": {},
	"both": {}, "but": {}, "by": {}, "can": {}, "cannot": {}, "could": {}, "did": {},
	"do": {}, "does": {}, "doing": {}, "done": {}, "down": {}, "during": {}, "each": {},
	"either": {}, "else": {}, "elsewhere": {}, "enough": {}, "etc": {}, "even": {},
	"ever": {}, "every": {}, "everyone": {}, "everything": {}, "everywhere": {}, "except": {},
	"few": {}, "for": {}, "former": {}, "formerly": {}, "from": {}, "further": {},
	"had": {}, "has": {}, "have": {}, "having": {}, "he": {}, "hence": {}, "her": {},
	"here": {}, "hereafter": {}, "hereby": {}, "herein": {}, "hereupon": {}, "hers": {},
	"herself": {}, "him": {}, "himself": {}, "his": {}, "how": {}, "however": {}, "i": {},
	"if": {}, "in": {}, "indeed": {}, "into": {}, "is": {}, "it": {}, "its": {}, "itself": {},
	"me": {}, "meanwhile": {}, "might": {}, "more": {}, "moreover": {}, "most": {}, "mostly": {},
	"much": {}, "must": {}, "my": {}, "myself": {}, "neither": {}, "never": {}, "nevertheless": {},
	"next": {}, "no": {}, "nobody": {}, "none": {}, "noone": {}, "nor": {}, "not": {}, "nothing": {},
	"now": {}, "nowhere": {}, "of": {}, "off": {}, "often": {}, "on": {}, "once": {}, "only": {},
	"onto": {}, "or": {}, "other": {}, "others": {}, "otherwise": {}, "our": {}, "ours": {},
	"ourselves": {}, "out": {}, "over": {}, "own": {}, "per": {}, "perhaps": {}, "rather": {},
	"same": {}, "she": {}, "should": {}, "since": {}, "so": {}, "some": {}, "somehow": {},
	"someone": {}, "something": {}, "sometime": {}, "sometimes": {}, "somewhere": {}, "still": {},
	"such": {}, "than": {}, "that": {}, "the": {}, "their": {}, "theirs": {}, "them": {},
	"themselves": {}, "then": {}, "thence": {}, "there": {}, "thereafter": {}, "thereby": {},
	"therefore": {}, "therein": {}, "thereupon": {}, "these": {}, "they": {}, "this": {},
	"those": {}, "though": {}, "through": {}, "throughout": {}, "thru": {}, "thus": {}, "to": {},
	"together": {}, "too": {}, "toward": {}, "towards": {}, "under": {}, "until": {}, "up": {},
	"upon": {}, "us": {}, "very": {}, "was": {}, "we": {}, "well": {}, "were": {}, "what": {},
	"whatever": {}, "when": {}, "whence": {}, "whenever": {}, "where": {}, "whereafter": {},
	"whereas": {}, "whereby": {}, "wherein": {}, "whereupon": {}, "wherever": {}, "whether": {},
	"which": {}, "while": {}, "whither": {}, "who": {}, "whoever": {}, "whole": {}, "whom": {},
	"whose": {}, "why": {}, "will": {}, "with": {}, "within": {}, "without": {}, "would": {},
	"yet": {}, "you": {}, "your": {}, "yours": {}, "yourself": {}, "yourselves": {},
}
