// Package tajweed parses the bracket-coded tajweed markup emitted by the
// quran-tajweed edition and renders it as highlightable HTML.
package tajweed

// Rule is a tajweed rule identified by a single-letter code.
type Rule int

const (
	RuleUnknown Rule = iota
	RuleHamzatWasl
	RuleSilent
	RuleLamShamsiyyah
	RuleMaddaNormal
	RuleMaddaPermissible
	RuleMaddaNecessary
	RuleQalqalah
	RuleMaddaObligatory
	RuleIkhafaShafawi
	RuleIkhafa
	RuleIdghamShafawi
	RuleIqlab
	RuleIdghamWithGhunnah
	RuleIdghamWithoutGhunnah
	RuleIdghamMutajanisayn
	RuleIdghamMutaqaribayn
	RuleGhunnah
)

// RuleInfo describes how a rule is presented.
type RuleInfo struct {
	Code        byte   `json:"code"`
	Class       string `json:"class"`
	Type        string `json:"type"`
	Description string `json:"description"`
}

var rules = map[Rule]RuleInfo{
	RuleHamzatWasl:           {'h', "ham_wasl", "hamzat-ul-wasl", "Hamzat ul Wasl"},
	RuleSilent:               {'s', "slnt", "silent", "Silent"},
	RuleLamShamsiyyah:        {'l', "slnt", "lam-shamsiyyah", "Lam Shamsiyyah"},
	RuleMaddaNormal:          {'n', "madda_normal", "madda-normal", "Normal Prolongation: 2 Vowels"},
	RuleMaddaPermissible:     {'p', "madda_permissible", "madda-permissible", "Permissible Prolongation: 2, 4, 6 Vowels"},
	RuleMaddaNecessary:       {'m', "madda_necessary", "madda-necessary", "Necessary Prolongation: 6 Vowels"},
	RuleQalqalah:             {'q', "qlq", "qalqalah", "Qalqalah"},
	RuleMaddaObligatory:      {'o', "madda_obligatory", "madda-obligatory", "Obligatory Prolongation: 4-5 Vowels"},
	RuleIkhafaShafawi:        {'c', "ikhf_shfw", "ikhafa-shafawi", "Ikhafa Shafawi - With Meem"},
	RuleIkhafa:               {'f', "ikhf", "ikhafa", "Ikhafa"},
	RuleIdghamShafawi:        {'w', "idghm_shfw", "idgham-shafawi", "Idgham Shafawi - With Meem"},
	RuleIqlab:                {'i', "iqlb", "iqlab", "Iqlab"},
	RuleIdghamWithGhunnah:    {'a', "idgh_ghn", "idgham-with-ghunnah", "Idgham - With Ghunnah"},
	RuleIdghamWithoutGhunnah: {'u', "idgh_w_ghn", "idgham-without-ghunnah", "Idgham - Without Ghunnah"},
	RuleIdghamMutajanisayn:   {'d', "idgh_mus", "idgham-mutajanisayn", "Idgham - Mutajanisayn"},
	RuleIdghamMutaqaribayn:   {'b', "idgh_mut", "idgham-mutaqaribayn", "Idgham - Mutaqaribayn"},
	RuleGhunnah:              {'g', "ghn", "ghunnah", "Ghunnah: 2 Vowels"},
}

var byCode = func() map[byte]Rule {
	m := make(map[byte]Rule, len(rules))
	for r, info := range rules {
		m[info.Code] = r
	}
	return m
}()

// RuleForCode resolves a code letter. Unmapped letters yield RuleUnknown.
func RuleForCode(code byte) Rule {
	if r, ok := byCode[code]; ok {
		return r
	}
	return RuleUnknown
}

// Info returns the presentation data for r. ok is false for RuleUnknown.
func (r Rule) Info() (RuleInfo, bool) {
	info, ok := rules[r]
	return info, ok
}

func (r Rule) String() string {
	if info, ok := rules[r]; ok {
		return info.Type
	}
	return "unknown"
}

// Rules lists every known rule in declaration order.
func Rules() []RuleInfo {
	out := make([]RuleInfo, 0, len(rules))
	for r := RuleHamzatWasl; r <= RuleGhunnah; r++ {
		out = append(out, rules[r])
	}
	return out
}
