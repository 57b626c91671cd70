package normalize

// abbreviation is one entry in the expansion table. Entries are applied in
// slice order; expansions must not themselves contain another entry's key as
// a whole word, or expansion would not be idempotent.
type abbreviation struct {
	Key       string
	Expansion string
}

// defaultAbbreviations is the fixed medical abbreviation table.
var defaultAbbreviations = []abbreviation{
	{"A&E", "Accident and Emergency"},
	{"pt", "patient"},
	{"pts", "patients"},
	{"dr", "doctor"},
	{"hx", "history"},
	{"tx", "treatment"},
	{"rx", "prescription"},
	{"sx", "symptoms"},
	{"dx", "diagnosis"},
	{"ROM", "range of motion"},
	{"BP", "blood pressure"},
	{"HR", "heart rate"},
	{"resp", "respiration"},
}
