package rank

import "testing"

func TestScore_SignalTermsOutrankGenericText(t *testing.T) {
	listing := "Productive grazing property of 400 acres with reliable rainfall, fenced paddocks and a bore. Price on application."
	generic := "Our agency has been serving the community for thirty years with a friendly team of professionals."

	ls, gs := Score(listing), Score(generic)
	if ls <= gs {
		t.Errorf("listing text (%f) should outscore generic text (%f)", ls, gs)
	}
}

func TestScore_EmptyText(t *testing.T) {
	if got := Score(""); got != 0 {
		t.Errorf("empty text scored %f", got)
	}
	if got := Score("   \n\t "); got != 0 {
		t.Errorf("whitespace text scored %f", got)
	}
}

func TestScore_PluralAndStemInvariance(t *testing.T) {
	// The stemmer should make "acre" and "acres" score identically.
	a, b := Score("ten acre block"), Score("ten acres block")
	if a != b {
		t.Errorf("stemming not applied consistently: %f vs %f", a, b)
	}
	if a == 0 {
		t.Error("signal term not counted")
	}
}

func TestScore_Deterministic(t *testing.T) {
	text := "irrigation water rights and cropping soil"
	if Score(text) != Score(text) {
		t.Error("score must be deterministic")
	}
}
