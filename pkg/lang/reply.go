package lang

// Reply holds the three parallel variants of one user-facing message.
// Every call site authors all three; there is no runtime translation.
type Reply struct {
	EN     string
	HI     string
	HiLatn string
}

// Pick selects the variant for the detected language. Hinglish prefers
// its own variant, then Hindi. Missing variants fall back to English.
func (r Reply) Pick(l Language) string {
	switch l {
	case Hindi:
		if r.HI != "" {
			return r.HI
		}
	case Hinglish:
		if r.HiLatn != "" {
			return r.HiLatn
		}
		if r.HI != "" {
			return r.HI
		}
	}
	return r.EN
}
