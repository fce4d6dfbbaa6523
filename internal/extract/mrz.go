package extract

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Machine readable zone parsing. The MRZ is the most reliable evidence
// channel on an identity document, so its fields carry 0.95 confidence.
// TD3 is two lines of 44 characters (passports), TD1 three lines of 30
// (ID cards); non-standard blocks fall back to a best-effort scan.

const mrzFieldConfidence = 0.95

type mrzFormat string

const (
	mrzTD3     mrzFormat = "TD3"
	mrzTD1     mrzFormat = "TD1"
	mrzCustom  mrzFormat = "CUSTOM"
	mrzUnknown mrzFormat = "UNKNOWN"
)

type mrzResult struct {
	found      bool
	format     mrzFormat
	confidence float64
	data       map[string]string
	raw        string
}

var (
	mrzLineRe     = regexp.MustCompile(`^[A-Z0-9<]{25,}$`)
	mrzNamePairRe = regexp.MustCompile(`^[A-Z]+\s+[A-Z]+$`)
	mrzDigitsRe   = regexp.MustCompile(`\d{6}`)
	mrzDocNumRe   = regexp.MustCompile(`[A-Z0-9]{6,15}`)
)

// detectMRZ collects candidate lines: long runs of uppercase letters,
// digits and fillers. Two or more such lines form a zone.
func detectMRZ(text string) []string {
	var lines []string
	for line := range strings.SplitSeq(text, "\n") {
		line = strings.TrimSpace(line)
		if mrzLineRe.MatchString(line) {
			lines = append(lines, line)
		}
	}
	if len(lines) < 2 {
		return nil
	}
	return lines
}

func parseMRZ(text string) mrzResult {
	lines := detectMRZ(text)
	if lines == nil {
		return mrzResult{}
	}
	raw := strings.Join(lines, "\n")

	if data := parseTD3(lines); hasName(data) {
		return mrzResult{found: true, format: mrzTD3, confidence: 0.95, data: data, raw: raw}
	}
	if len(lines) >= 3 {
		if data := parseTD1(lines); hasName(data) {
			return mrzResult{found: true, format: mrzTD1, confidence: 0.95, data: data, raw: raw}
		}
	}
	if data := parseLooseMRZ(lines); len(data) > 0 {
		return mrzResult{found: true, format: mrzCustom, confidence: 0.8, data: data, raw: raw}
	}
	return mrzResult{found: true, format: mrzUnknown, confidence: 0.5, data: map[string]string{}, raw: raw}
}

func hasName(data map[string]string) bool {
	return data["surname"] != "" || data["given_names"] != ""
}

// parseTD3 reads the two-line passport format: document code, issuing
// country and names on line one; number, nationality and dates on line
// two.
func parseTD3(lines []string) map[string]string {
	line1, line2 := lines[0], lines[1]
	data := map[string]string{}

	if len(line1) >= 5 {
		data["country_code"] = line1[2:5]
	}
	if len(line1) >= 44 {
		surname, given := splitMRZName(line1[5:44], "<<")
		setIfPresent(data, "surname", surname)
		setIfPresent(data, "given_names", given)
	}
	if len(line2) >= 9 {
		setIfPresent(data, "document_number", strings.TrimSpace(strings.ReplaceAll(line2[0:9], "<", "")))
	}
	if len(line2) >= 13 {
		data["nationality"] = line2[10:13]
	}
	if len(line2) >= 19 {
		setIfPresent(data, "date_of_birth", parseMRZDate(line2[13:19]))
	}
	if len(line2) > 20 {
		if sex := line2[20]; sex == 'M' || sex == 'F' {
			data["sex"] = string(sex)
		}
	}
	if len(line2) >= 27 {
		setIfPresent(data, "expiry_date", parseMRZDate(line2[21:27]))
	}
	return data
}

// parseTD1 reads the three-line ID card format: document number on line
// one, dates on line two, names on line three.
func parseTD1(lines []string) map[string]string {
	line1, line2, line3 := lines[0], lines[1], lines[2]
	data := map[string]string{}

	if len(line1) >= 5 {
		data["country_code"] = line1[2:5]
	}
	if len(line1) >= 14 {
		setIfPresent(data, "document_number", strings.TrimSpace(strings.ReplaceAll(line1[5:14], "<", "")))
	}
	if len(line2) >= 6 {
		setIfPresent(data, "date_of_birth", parseMRZDate(line2[0:6]))
	}
	if len(line2) > 7 {
		if sex := line2[7]; sex == 'M' || sex == 'F' {
			data["sex"] = string(sex)
		}
	}
	if len(line2) >= 14 {
		setIfPresent(data, "expiry_date", parseMRZDate(line2[8:14]))
	}
	if len(line2) >= 18 {
		data["nationality"] = line2[15:18]
	}
	if len(line3) >= 30 {
		surname, given := splitMRZName(line3, "<<")
		setIfPresent(data, "surname", surname)
		setIfPresent(data, "given_names", given)
	}
	return data
}

// parseLooseMRZ handles zones that match neither standard: a
// SURNAME<<GIVEN line plus any recognizable date and number.
func parseLooseMRZ(lines []string) map[string]string {
	data := map[string]string{}
	for _, line := range lines {
		if strings.Contains(line, "<<") && len(line) > 10 {
			surname, given := splitMRZName(line, "<<")
			if surname != "" && given != "" {
				data["surname"], data["given_names"] = surname, given
				break
			}
		}
		if mrzNamePairRe.MatchString(line) {
			parts := strings.Fields(line)
			if len(parts) == 2 {
				data["surname"], data["given_names"] = parts[0], parts[1]
				break
			}
		}
	}
	for _, line := range lines {
		if data["date_of_birth"] == "" {
			if m := mrzDigitsRe.FindString(line); m != "" {
				setIfPresent(data, "date_of_birth", parseMRZDate(m))
			}
		}
		if data["document_number"] == "" {
			if m := mrzDocNumRe.FindString(line); m != "" && !allDigits(m) {
				data["document_number"] = m
			}
		}
	}
	for k, v := range data {
		if v == "" {
			delete(data, k)
		}
	}
	return data
}

// splitMRZName splits SURNAME<<GIVEN<NAMES into its parts, collapsing
// filler characters to spaces.
func splitMRZName(raw, sep string) (surname, given string) {
	parts := strings.Split(raw, sep)
	clean := parts[:0:0]
	for _, p := range parts {
		p = strings.TrimSpace(strings.Join(strings.Fields(strings.ReplaceAll(p, "<", " ")), " "))
		if p != "" {
			clean = append(clean, p)
		}
	}
	if len(clean) >= 1 {
		surname = clean[0]
	}
	if len(clean) >= 2 {
		given = strings.Join(clean[1:], " ")
	}
	return surname, given
}

// parseMRZDate converts a YYMMDD string to YYYY-MM-DD; years below 50
// read as 2000s, the rest as 1900s.
func parseMRZDate(raw string) string {
	if len(raw) != 6 {
		return ""
	}
	year, err1 := strconv.Atoi(raw[0:2])
	month, err2 := strconv.Atoi(raw[2:4])
	day, err3 := strconv.Atoi(raw[4:6])
	if err1 != nil || err2 != nil || err3 != nil {
		return ""
	}
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return ""
	}
	if year < 50 {
		year += 2000
	} else {
		year += 1900
	}
	return fmt.Sprintf("%04d-%02d-%02d", year, month, day)
}

func setIfPresent(data map[string]string, key, value string) {
	if value != "" {
		data[key] = value
	}
}

func allDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
