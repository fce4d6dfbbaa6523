package claim

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// Amount extraction selects the single monetary value that best
// represents the engagement's worth. Documents quote many figures
// (allowances, exchange rates, line items); priority buckets plus
// magnitude rules pick the engagement total over incidental numbers.

type amountCandidate struct {
	amount   float64
	currency string
	priority int
	position int
	context  string
}

// Priority buckets, lower is stronger.
const (
	prioAnnualTotal  = 0
	prioAnnual       = 1
	prioMonthlyTotal = 2
	prioBaseFee      = 3
	prioMonthly      = 4
	prioOther        = 5
	prioSmall        = 8
	prioAllowance    = 10
)

var amountPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b(AED|USD|EUR|GBP)\s+([\d,]+(?:\.\d+)?)`),
	regexp.MustCompile(`(?i)([\d,]+(?:\.\d+)?)\s*(AED|USD|EUR|GBP)\b`),
	regexp.MustCompile(`\$\s*([\d,]+(?:\.\d+)?)`),
	regexp.MustCompile(`€\s*([\d,]+(?:\.\d+)?)`),
	regexp.MustCompile(`£\s*([\d,]+(?:\.\d+)?)`),
	regexp.MustCompile(`(?i)([\d,]+(?:\.\d+)?)\s*(?:US\s*dollars?|euros?|pounds?\s+sterling|dirhams?)`),
}

// currencyForPattern maps pattern index to the currency when the match
// carries no explicit code group.
var currencyForPattern = map[int]string{2: "USD", 3: "EUR", 4: "GBP"}

var wordCurrencies = []struct {
	word string
	code string
}{
	{"dollar", "USD"},
	{"euro", "EUR"},
	{"pound", "GBP"},
	{"dirham", "AED"},
}

// secondaryUSDRe finds a parenthesised USD equivalent next to an AED
// figure, e.g. "18,000 AED (4,900 USD)".
var secondaryUSDRe = regexp.MustCompile(`(?i)\(\s*([\d,]+(?:\.\d+)?)\s*USD\s*\)`)

var (
	exchangeRateCtxRe = regexp.MustCompile(`(?i)exchange\s+rate|conversion\s+rate|\brate\s+of\b|=`)
	allowanceCtxRe    = regexp.MustCompile(`(?i)allowance|budget|bonus|reimburs|per\s+diem|stipend`)
	annualCtxRe       = regexp.MustCompile(`(?i)per\s+annum|annual(?:ly)?|yearly|per\s+year`)
	monthlyCtxRe      = regexp.MustCompile(`(?i)per\s+month|monthly|/\s*month|p\.?m\.?\b`)
	totalCtxRe        = regexp.MustCompile(`(?i)total|aggregate|project\s+value|contract\s+value`)
	feeCtxRe          = regexp.MustCompile(`(?i)\bfees?\b|compensation|remuneration|retainer`)
)

const contextWindow = 60

func parseAmountValue(raw string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.ReplaceAll(raw, ",", ""), 64)
	if err != nil || v <= 0 {
		return 0, false
	}
	return v, true
}

// looksLikeExchangeRate filters small multi-decimal figures such as
// "3.6725" and anything whose context mentions a rate.
func looksLikeExchangeRate(raw string, value float64, context string) bool {
	if value < 10 {
		if idx := strings.IndexByte(raw, '.'); idx >= 0 && len(raw)-idx-1 >= 3 {
			return true
		}
		if exchangeRateCtxRe.MatchString(context) {
			return true
		}
	}
	return false
}

func classifyPriority(value float64, context string) int {
	annual := annualCtxRe.MatchString(context)
	monthly := monthlyCtxRe.MatchString(context)
	total := totalCtxRe.MatchString(context)

	switch {
	case allowanceCtxRe.MatchString(context) && value < 20000:
		return prioAllowance
	case annual && total, value > 100000:
		return prioAnnualTotal
	case annual, value > 50000:
		return prioAnnual
	case monthly && total:
		return prioMonthlyTotal
	case feeCtxRe.MatchString(context) && !monthly:
		return prioBaseFee
	case monthly:
		return prioMonthly
	case value < 10000:
		return prioSmall
	default:
		return prioOther
	}
}

func significant(value float64, currency string) bool {
	if currency == "AED" {
		return value >= 100
	}
	return value >= 1000
}

func scanAmounts(text string) []amountCandidate {
	normalized := whitespaceRe.ReplaceAllString(text, " ")
	var out []amountCandidate
	seen := map[string]bool{}

	for i, re := range amountPatterns {
		for _, m := range re.FindAllStringSubmatchIndex(normalized, -1) {
			var rawValue, currency string
			groups := re.NumSubexp()
			first := normalized[m[2]:m[3]]
			if groups >= 2 {
				second := normalized[m[4]:m[5]]
				if isCurrencyCode(first) {
					currency, rawValue = strings.ToUpper(first), second
				} else {
					rawValue, currency = first, strings.ToUpper(second)
				}
			} else {
				rawValue = first
				if c, ok := currencyForPattern[i]; ok {
					currency = c
				} else {
					currency = wordCurrency(normalized[m[0]:m[1]])
				}
			}

			value, ok := parseAmountValue(rawValue)
			if !ok {
				continue
			}
			key := currency + ":" + rawValue
			if seen[key] {
				continue
			}
			seen[key] = true

			ctx := contextAround(normalized, m[0], m[1])
			if looksLikeExchangeRate(rawValue, value, ctx) {
				continue
			}
			out = append(out, amountCandidate{
				amount:   value,
				currency: currency,
				priority: classifyPriority(value, ctx),
				position: m[0],
				context:  ctx,
			})
		}
	}
	return out
}

func isCurrencyCode(s string) bool {
	switch strings.ToUpper(s) {
	case "AED", "USD", "EUR", "GBP":
		return true
	}
	return false
}

func wordCurrency(match string) string {
	lower := strings.ToLower(match)
	for _, wc := range wordCurrencies {
		if strings.Contains(lower, wc.word) {
			return wc.code
		}
	}
	return "USD"
}

func contextAround(text string, start, end int) string {
	lo := start - contextWindow
	if lo < 0 {
		lo = 0
	}
	hi := end + contextWindow
	if hi > len(text) {
		hi = len(text)
	}
	return text[lo:hi]
}

// selectAmount picks the best candidate: filter insignificant figures,
// sort by (priority, -amount), prefer AED among equal priorities, and
// let a figure an order of magnitude larger win outright.
func selectAmount(candidates []amountCandidate) (amountCandidate, bool) {
	kept := candidates[:0:0]
	for _, c := range candidates {
		if significant(c.amount, c.currency) {
			kept = append(kept, c)
		}
	}
	if len(kept) == 0 {
		return amountCandidate{}, false
	}

	sort.SliceStable(kept, func(i, j int) bool {
		if kept[i].priority != kept[j].priority {
			return kept[i].priority < kept[j].priority
		}
		return kept[i].amount > kept[j].amount
	})

	best := kept[0]
	for _, c := range kept[1:] {
		if c.amount >= best.amount*10 {
			best = c
			continue
		}
		if c.amount >= best.amount*5 && c.priority <= prioBaseFee && c.priority <= best.priority {
			best = c
			continue
		}
		if c.priority == best.priority && c.currency == "AED" && best.currency != "AED" && c.amount >= best.amount {
			best = c
		}
	}
	return best, true
}

// extractAmount returns the primary figure plus any parenthesised USD
// equivalent found near an AED primary.
func extractAmount(text string) (amount *float64, currency string, secondary *float64, secondaryCurrency string) {
	best, ok := selectAmount(scanAmounts(text))
	if !ok {
		return nil, "", nil, ""
	}
	v := best.amount
	amount, currency = &v, best.currency

	if best.currency == "AED" {
		if m := secondaryUSDRe.FindStringSubmatch(best.context); m != nil {
			if sv, ok := parseAmountValue(m[1]); ok {
				secondary, secondaryCurrency = &sv, "USD"
			}
		}
	}
	return amount, currency, secondary, secondaryCurrency
}
