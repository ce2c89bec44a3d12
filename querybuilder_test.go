package telusuri

import "testing"

func queryTestIndex() (*PostingIndex, *Tokenizer) {
	records := []ParagraphRecord{
		{DocID: 1, Paragraph: "the quick brown fox"},
		{DocID: 2, Paragraph: "the lazy dog sleeps"},
		{DocID: 3, Paragraph: "quick brown dogs run"},
	}
	tok := NewTokenizer(TokenizerOptions{})
	result, err := BuildIndex(records, TokenizerOptions{}, false, nil)
	if err != nil {
		panic(err)
	}
	return BuildPostingIndex(result.Lexicon), tok
}

func TestQueryBuilder_Term(t *testing.T) {
	idx, tok := queryTestIndex()

	got := NewQueryBuilder(idx, tok).Term("quick").Execute()
	if got.GetCardinality() != 2 || !got.Contains(1) || !got.Contains(3) {
		t.Errorf("Term(quick) = %v, want {1,3}", got.ToArray())
	}
}

func TestQueryBuilder_And(t *testing.T) {
	idx, tok := queryTestIndex()

	got := NewQueryBuilder(idx, tok).Term("quick").And().Term("brown").Execute()
	if got.GetCardinality() != 2 || !got.Contains(1) || !got.Contains(3) {
		t.Errorf("quick AND brown = %v, want {1,3}", got.ToArray())
	}

	got2 := NewQueryBuilder(idx, tok).Term("quick").And().Term("dog").Execute()
	if got2.GetCardinality() != 0 {
		t.Errorf("quick AND dog = %v, want empty", got2.ToArray())
	}
}

func TestQueryBuilder_Or(t *testing.T) {
	idx, tok := queryTestIndex()

	got := NewQueryBuilder(idx, tok).Term("fox").Or().Term("dog").Execute()
	if got.GetCardinality() != 2 || !got.Contains(1) || !got.Contains(2) {
		t.Errorf("fox OR dog = %v, want {1,2}", got.ToArray())
	}
}

func TestQueryBuilder_Not(t *testing.T) {
	idx, tok := queryTestIndex()

	got := NewQueryBuilder(idx, tok).Term("quick").And().Not().Term("fox").Execute()
	if got.GetCardinality() != 1 || !got.Contains(3) {
		t.Errorf("quick AND NOT fox = %v, want {3}", got.ToArray())
	}
}

func TestQueryBuilder_Group(t *testing.T) {
	idx, tok := queryTestIndex()

	got := NewQueryBuilder(idx, tok).
		Group(func(q *QueryBuilder) { q.Term("fox").Or().Term("dogs") }).
		And().Term("quick").
		Execute()
	if got.GetCardinality() != 2 || !got.Contains(1) || !got.Contains(3) {
		t.Errorf("(fox OR dogs) AND quick = %v, want {1,3}", got.ToArray())
	}
}

func TestQueryBuilder_Phrase(t *testing.T) {
	idx, tok := queryTestIndex()

	got := NewQueryBuilder(idx, tok).Phrase("quick brown").Execute()
	if got.GetCardinality() != 2 || !got.Contains(1) || !got.Contains(3) {
		t.Errorf("Phrase(quick brown) = %v, want {1,3}", got.ToArray())
	}

	got2 := NewQueryBuilder(idx, tok).Phrase("brown quick").Execute()
	if got2.GetCardinality() != 0 {
		t.Errorf("Phrase(brown quick) = %v, want empty (reversed order)", got2.ToArray())
	}
}

func TestAllOfAndAnyOf(t *testing.T) {
	idx, tok := queryTestIndex()

	all := AllOf(idx, tok, "quick", "brown")
	if all.GetCardinality() != 2 {
		t.Errorf("AllOf(quick, brown) cardinality = %d, want 2", all.GetCardinality())
	}

	any := AnyOf(idx, tok, "fox", "dog")
	if any.GetCardinality() != 2 {
		t.Errorf("AnyOf(fox, dog) cardinality = %d, want 2", any.GetCardinality())
	}
}

func TestTermExcluding(t *testing.T) {
	idx, tok := queryTestIndex()

	got := TermExcluding(idx, tok, "quick", "fox")
	if got.GetCardinality() != 1 || !got.Contains(3) {
		t.Errorf("TermExcluding(quick, fox) = %v, want {3}", got.ToArray())
	}
}
