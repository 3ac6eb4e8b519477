package extract

import "strings"

// vocabEntry maps a Hindi-transliteration or English token to its
// canonical English value.
type vocabEntry struct {
	key       string
	canonical string
}

// colorTable is scanned in declaration order; the first key found as a
// substring of the lowercased text wins. Ordering is a deliberate
// tie-break and must not be reshuffled.
var colorTable = []vocabEntry{
	{"laal", "red"}, {"red", "red"},
	{"neela", "blue"}, {"blue", "blue"}, {"nila", "blue"},
	{"hara", "green"}, {"green", "green"}, {"hari", "green"},
	{"peela", "yellow"}, {"yellow", "yellow"}, {"pili", "yellow"},
	{"safed", "white"}, {"white", "white"}, {"sada", "white"},
	{"kaala", "black"}, {"black", "black"}, {"kala", "black"},
	{"gulabi", "pink"}, {"pink", "pink"},
	{"narangi", "orange"}, {"orange", "orange"},
	{"baigani", "purple"}, {"purple", "purple"},
	{"bhura", "brown"}, {"brown", "brown"},
	{"grey", "grey"}, {"gray", "gray"}, {"sleti", "grey"},
	{"maroon", "maroon"}, {"merun", "maroon"},
	{"cream", "cream"}, {"off-white", "off-white"},
	{"golden", "golden"}, {"sona", "golden"},
	{"silver", "silver"}, {"chandi", "silver"},
}

// fabricTable follows the same first-match-wins contract as colorTable.
var fabricTable = []vocabEntry{
	{"silk", "silk"}, {"resham", "silk"}, {"reshmi", "silk"},
	{"cotton", "cotton"}, {"kapas", "cotton"}, {"suti", "cotton"},
	{"polyester", "polyester"}, {"poly", "polyester"},
	{"linen", "linen"}, {"lenin", "linen"},
	{"wool", "wool"}, {"oon", "wool"},
	{"synthetic", "synthetic"}, {"synth", "synthetic"},
	{"chiffon", "chiffon"}, {"shifon", "chiffon"},
	{"georgette", "georgette"}, {"jorjet", "georgette"},
	{"crepe", "crepe"}, {"krep", "crepe"},
	{"velvet", "velvet"}, {"makhmal", "velvet"},
	{"satin", "satin"}, {"setin", "satin"},
	{"rayon", "rayon"}, {"reyon", "rayon"},
}

// methodTable maps payment wording to canonical method names.
var methodTable = []vocabEntry{
	{"gpay", "upi"}, {"phonepe", "upi"}, {"paytm", "upi"}, {"upi", "upi"},
	{"naqad", "cash"}, {"cash", "cash"},
	{"cheque", "cheque"}, {"check ", "cheque"},
	{"bank transfer", "bank_transfer"}, {"neft", "bank_transfer"}, {"rtgs", "bank_transfer"},
}

func scanTable(table []vocabEntry, lower string) string {
	for _, entry := range table {
		if strings.Contains(lower, entry.key) {
			return entry.canonical
		}
	}
	return ""
}
