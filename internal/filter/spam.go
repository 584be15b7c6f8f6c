package filter

import (
	"regexp"
	"strings"
)

// giveawayKeywords flag promotional posts; two distinct hits exclude.
var giveawayKeywords = []string{
	"giveaway", "airdrop", "drop your wallet", "drop wallet", "tag friends",
	"retweet to win", "rt to win", "follow and rt", "like and rt",
	"comment your wallet", "drop address", "whitelist", "presale",
	"claim your", "free tokens", "free crypto", "prize pool",
}

var meaninglessPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^[a-zA-Z]{1,3}$`),
	regexp.MustCompile(`(?i)^\$\w+\s*$`),
	regexp.MustCompile(`(?i)^(lol|lmao|wow|nice|cool|good|bad|yes|no|ok|wtf)\.?!?$`),
}

var (
	tokenSpamRe = regexp.MustCompile(`(\$\w+\s*){5,}`)
	emojiRunRe  = regexp.MustCompile(`[\x{1F600}-\x{1F64F}\x{1F300}-\x{1F5FF}\x{1F680}-\x{1F6FF}\x{1F1E0}-\x{1F1FF}\x{2600}-\x{26FF}\x{2700}-\x{27BF}]{10,}`)
)

// DetectBasicSpam runs the deterministic spam rule cascade over the post
// text; the first rule that fires wins.
func DetectBasicSpam(text string) (bool, string) {
	trimmed := strings.TrimSpace(text)
	if len(trimmed) < 5 {
		return true, "too short"
	}

	lower := strings.ToLower(text)
	hits := 0
	for _, kw := range giveawayKeywords {
		if strings.Contains(lower, kw) {
			hits++
		}
	}
	if hits >= 2 {
		return true, "giveaway spam"
	}

	for _, re := range meaninglessPatterns {
		if re.MatchString(trimmed) {
			return true, "meaningless content"
		}
	}

	if tokenSpamRe.MatchString(text) {
		return true, "token list spam"
	}

	if emojiRunRe.MatchString(text) {
		return true, "excessive emojis"
	}

	// RE2 has no backreferences, so the repeated-character rule is a scan.
	if hasRepeatedRun(text, 6) {
		return true, "repeated characters"
	}

	words := strings.Fields(text)
	if len(words) <= 2 {
		cashtag := false
		for _, w := range words {
			if strings.HasPrefix(w, "$") {
				cashtag = true
				break
			}
		}
		if !cashtag {
			return true, "too few words"
		}
	}

	return false, ""
}

// hasRepeatedRun reports whether any rune repeats at least n times
// consecutively.
func hasRepeatedRun(s string, n int) bool {
	var prev rune
	run := 0
	for _, r := range s {
		if r == prev {
			run++
			if run >= n {
				return true
			}
		} else {
			prev = r
			run = 1
		}
	}
	return false
}
