package telusuri

import "testing"

func TestTokenize_BasicSplitAndLowercase(t *testing.T) {
	tok := NewTokenizer(TokenizerOptions{})
	got := tok.Tokenize("The Quick brown Fox")

	want := []string{"the", "quick", "brown", "fox"}
	if len(got) != len(want) {
		t.Fatalf("got %d tokens, want %d: %+v", len(got), len(want), got)
	}
	for i, w := range want {
		if got[i].Word != w {
			t.Errorf("token %d = %q, want %q", i, got[i].Word, w)
		}
		if got[i].Position != uint32(i+1) {
			t.Errorf("token %d position = %d, want %d", i, got[i].Position, i+1)
		}
	}
}

func TestTokenize_PreservesFullyCapitalizedWords(t *testing.T) {
	tok := NewTokenizer(TokenizerOptions{})
	got := tok.Tokenize("NASA launched McDonald")

	if got[0].Word != "NASA" || !got[0].IsCapital {
		t.Errorf("token 0 = %+v, want NASA/capital", got[0])
	}
	if got[1].Word != "launched" || got[1].IsCapital {
		t.Errorf("token 1 = %+v, want launched/non-capital", got[1])
	}
	if got[2].Word != "mcdonald" || got[2].IsCapital {
		t.Errorf("token 2 = %+v, want mcdonald/non-capital", got[2])
	}
}

func TestTokenize_FiltersByLength(t *testing.T) {
	tok := NewTokenizer(TokenizerOptions{})
	long := ""
	for i := 0; i < maxTokenLength+5; i++ {
		long += "a"
	}
	got := tok.Tokenize("a ab " + long + " ok")

	var words []string
	for _, tkn := range got {
		words = append(words, tkn.Word)
	}
	want := []string{"ab", "ok"}
	if len(words) != len(want) {
		t.Fatalf("got %v, want %v", words, want)
	}
	for i := range want {
		if words[i] != want[i] {
			t.Errorf("word %d = %q, want %q", i, words[i], want[i])
		}
	}
}

func TestTokenize_PositionSaturatesAndResetsOnReset(t *testing.T) {
	tok := NewTokenizer(TokenizerOptions{})
	for i := 0; i < maxPosition+10; i++ {
		tok.Tokenize("word")
	}
	last := tok.Tokenize("word")
	if last[0].Position != maxPosition {
		t.Errorf("position after overflow = %d, want saturated %d", last[0].Position, maxPosition)
	}

	tok.Reset()
	first := tok.Tokenize("word")
	if first[0].Position != 1 {
		t.Errorf("position after Reset = %d, want 1", first[0].Position)
	}
}

func TestTokenize_StopwordsOptIn(t *testing.T) {
	tok := NewTokenizer(TokenizerOptions{Stopwords: true})
	got := tok.Tokenize("the quick brown fox")

	for _, tkn := range got {
		if tkn.Word == "the" {
			t.Errorf("stopword %q should have been filtered", tkn.Word)
		}
	}
	if len(got) != 3 {
		t.Errorf("got %d tokens, want 3 after stopword removal", len(got))
	}
}

func TestTokenize_StemmingOptIn(t *testing.T) {
	tok := NewTokenizer(TokenizerOptions{Stem: true})
	got := tok.Tokenize("running runner")

	if got[0].Word == "running" {
		t.Errorf("expected stemming to change %q", got[0].Word)
	}
}

func TestTokenize_ExtraStopwords(t *testing.T) {
	tok := NewTokenizer(TokenizerOptions{Stopwords: true, ExtraStopwords: []string{"foobar"}})
	got := tok.Tokenize("quick foobar brown")

	for _, tkn := range got {
		if tkn.Word == "foobar" {
			t.Errorf("extra stopword %q should have been filtered", tkn.Word)
		}
	}
}
