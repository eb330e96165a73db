package services

import (
	"regexp"
	"strings"
)

// Rejection reasons returned by FilterContent.
const (
	ReasonEmpty           = "empty"
	ReasonLanguage        = "inappropriate_language"
	ReasonURL             = "url_not_allowed"
	ReasonContactInfo     = "contact_info_not_allowed"
	ReasonSpam            = "spam_detected"
	ReasonExcessiveCaps   = "excessive_caps"
	maxShoutedWordsInText = 2
)

var BannedWords = []string{
	"fuck", "fucking", "fucker", "shit", "shitty", "bullshit",
	"ass", "asshole", "bastard", "bitch", "cunt",
	"nigger", "nigga", "chink", "spic", "kike", "faggot", "fag",
	"retard", "retarded", "tranny",
	"porn", "porno", "nude", "nudes",
	"spam", "scam", "scammer", "phishing", "malware",
}

var rejectionMessages = map[string]string{
	ReasonEmpty:         "Comment text is required.",
	ReasonLanguage:      "Your comment contains inappropriate language.",
	ReasonURL:           "URLs and web links are not allowed.",
	ReasonContactInfo:   "Contact information is not allowed.",
	ReasonSpam:          "Your comment appears to be spam.",
	ReasonExcessiveCaps: "Please avoid using excessive capital letters.",
}

type contentRule struct {
	reason string
	match  func(string) bool
}

// ModerationService screens user-written text (site comments) before it is
// stored. It holds only compiled patterns and is safe for concurrent use.
type ModerationService struct {
	rules []contentRule
}

func NewModerationService() *ModerationService {
	return NewModerationServiceWithWords(BannedWords)
}

func NewModerationServiceWithWords(words []string) *ModerationService {
	alternatives := make([]string, 0, len(words))
	for _, w := range words {
		if w = strings.TrimSpace(w); w != "" {
			alternatives = append(alternatives, regexp.QuoteMeta(w))
		}
	}

	urlPattern := regexp.MustCompile(`(?i)(https?://\S+|www\.\S+\.\S+)`)
	emailPattern := regexp.MustCompile(`(?i)\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)
	phonePattern := regexp.MustCompile(`\d{3}[-.\s]?\d{3}[-.\s]?\d{4}|\(\d{3}\)\s*\d{3}[-.\s]?\d{4}`)
	// RE2 has no backreferences, so runs of one character are spelled out.
	repeatedPattern := regexp.MustCompile(`(?i)(a{4,}|b{4,}|c{4,}|d{4,}|e{4,}|f{4,}|g{4,}|h{4,}|i{4,}|j{4,}|k{4,}|l{4,}|m{4,}|n{4,}|o{4,}|p{4,}|q{4,}|r{4,}|s{4,}|t{4,}|u{4,}|v{4,}|w{4,}|x{4,}|y{4,}|z{4,}|!{4,}|\?{4,}|\.{4,})`)
	capsPattern := regexp.MustCompile(`[A-Z]{5,}`)

	ms := &ModerationService{}
	if len(alternatives) > 0 {
		banned := regexp.MustCompile(`(?i)\b(` + strings.Join(alternatives, "|") + `)\b`)
		ms.rules = append(ms.rules, contentRule{ReasonLanguage, banned.MatchString})
	}
	ms.rules = append(ms.rules,
		contentRule{ReasonURL, urlPattern.MatchString},
		contentRule{ReasonContactInfo, emailPattern.MatchString},
		contentRule{ReasonContactInfo, phonePattern.MatchString},
		contentRule{ReasonSpam, repeatedPattern.MatchString},
		contentRule{ReasonExcessiveCaps, func(s string) bool {
			return len(capsPattern.FindAllString(s, -1)) > maxShoutedWordsInText
		}},
	)
	return ms
}

// FilterContent reports whether text is acceptable and, if not, the first
// rule it broke.
func (ms *ModerationService) FilterContent(text string) (bool, string) {
	if strings.TrimSpace(text) == "" {
		return false, ReasonEmpty
	}
	for _, r := range ms.rules {
		if r.match(text) {
			return false, r.reason
		}
	}
	return true, ""
}

func (ms *ModerationService) GetRejectionMessage(reason string) string {
	if msg, ok := rejectionMessages[reason]; ok {
		return msg
	}
	return "Your comment does not meet our content guidelines."
}
