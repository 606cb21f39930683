package record

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Criteria filters individuals. The zero Criteria matches everyone.
type Criteria struct {
	Surname *regexp.Regexp
	Name    *regexp.Regexp
	Sex     string

	Birth      yearRange
	Death      yearRange
	OnlyLiving bool
}

type yearRange struct {
	set      bool
	from, to int
}

func (r yearRange) match(year int) bool {
	if !r.set {
		return true
	}
	return year >= 0 && year >= r.from && year <= r.to
}

// ParseCriteria parses a list of key=value terms separated by ':' or ',',
// e.g. "surname=Smith:birth_range=1800-1850". Keys: surname, name or
// given_name (regular expressions, case-insensitive), sex, birth, death (a
// year), birth_range, death_range (from-to) and living (true/false).
func ParseCriteria(s string) (Criteria, error) {
	var c Criteria
	for _, term := range strings.FieldsFunc(s, isTermSeparator) {
		term = strings.TrimSpace(term)
		if term == "" {
			continue
		}
		key, val, ok := strings.Cut(term, "=")
		if !ok {
			return Criteria{}, fmt.Errorf("criteria term %q: missing '='", term)
		}
		key, val = strings.ToLower(strings.TrimSpace(key)), strings.TrimSpace(val)

		var err error
		switch key {
		case "surname":
			c.Surname, err = regexp.Compile("(?i)" + val)
		case "name", "given_name":
			c.Name, err = regexp.Compile("(?i)" + val)
		case "sex":
			c.Sex = strings.ToUpper(val)
		case "birth":
			c.Birth, err = parseYear(val)
		case "death":
			c.Death, err = parseYear(val)
		case "birth_range":
			c.Birth, err = parseYearRange(val)
		case "death_range":
			c.Death, err = parseYearRange(val)
		case "living":
			c.OnlyLiving, err = strconv.ParseBool(val)
		default:
			return Criteria{}, fmt.Errorf("unknown criteria key %q", key)
		}
		if err != nil {
			return Criteria{}, fmt.Errorf("criteria %s: %w", key, err)
		}
	}
	return c, nil
}

func isTermSeparator(r rune) bool { return r == ':' || r == ',' }

func parseYear(s string) (yearRange, error) {
	y, err := strconv.Atoi(s)
	if err != nil {
		return yearRange{}, fmt.Errorf("invalid year %q", s)
	}
	return yearRange{set: true, from: y, to: y}, nil
}

func parseYearRange(s string) (yearRange, error) {
	lo, hi, ok := strings.Cut(s, "-")
	if !ok {
		return yearRange{}, fmt.Errorf("invalid range %q: want from-to", s)
	}
	from, err := strconv.Atoi(strings.TrimSpace(lo))
	if err != nil {
		return yearRange{}, fmt.Errorf("invalid year %q", lo)
	}
	to, err := strconv.Atoi(strings.TrimSpace(hi))
	if err != nil {
		return yearRange{}, fmt.Errorf("invalid year %q", hi)
	}
	if from > to {
		return yearRange{}, fmt.Errorf("invalid range %q: from after to", s)
	}
	return yearRange{set: true, from: from, to: to}, nil
}

// Match reports whether ind satisfies every term of c.
func (c Criteria) Match(ind *Individual) bool {
	given, surname := ind.Name()
	if c.Surname != nil && !c.Surname.MatchString(surname) {
		return false
	}
	if c.Name != nil && !c.Name.MatchString(given) {
		return false
	}
	if c.Sex != "" && c.Sex != ind.Sex {
		return false
	}
	if c.OnlyLiving && ind.IsDeceased() {
		return false
	}
	return c.Birth.match(ind.BirthYear()) && c.Death.match(ind.DeathYear())
}

// Filter returns the individuals matching c, keeping their order.
func (c Criteria) Filter(all []*Individual) []*Individual {
	var out []*Individual
	for _, ind := range all {
		if c.Match(ind) {
			out = append(out, ind)
		}
	}
	return out
}
