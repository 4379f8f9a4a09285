package leadsync

import "strings"

// Option-id tables for the single-option custom fields. Each table is a
// closed enumeration defined by the Pipedrive account; lookups are
// case-insensitive and unknown values map to absent, never to an error.

var contactTypeOptions = map[string]int{
	"privat":     27,
	"borettslag": 28,
	"bedrift":    29,
}

var housingTypeOptions = map[string]int{
	"enebolig":     30,
	"leilighet":    31,
	"tomannsbolig": 32,
	"rekkehus":     33,
	"hytte":        34,
	"annet":        35,
}

var dealTypeOptions = map[string]int{
	"alle strømavtaler er aktuelle": 42,
	"fastpris":                      43,
	"spotpris":                      44,
	"kraftforvaltning":              425,
	"annen avtale/vet ikke":         46,
}

// lookupOption resolves a raw input value against an option table.
func lookupOption(table map[string]int, val string) (int, bool) {
	if val == "" {
		return 0, false
	}
	id, ok := table[strings.ToLower(val)]
	return id, ok
}

// commentValue trims a free-text comment; blank comments are absent.
func commentValue(val string) (string, bool) {
	s := strings.TrimSpace(val)
	return s, s != ""
}
