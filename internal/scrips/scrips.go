// Package scrips reads and prepares the lists of tickers to screen.
//
// A description file holds one scrip per line in either the quoted layout
//
//	RELIANCE.NS  "Reliance Industries Ltd"  500325
//
// or the CSV layout
//
//	RELIANCE.NS,Reliance Industries Ltd
//
// Lines starting with '#' are comments.
package scrips

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"TrendScreener/internal/model"
)

var (
	quotedLine = regexp.MustCompile(`^([\w.\-&]+)[ \t\r\f\v]+"([^"]*)"`)
	nseSeries  = regexp.MustCompile(`(\w+)-\w+.NS`)
)

// Load parses the description file at path.
func Load(path string) ([]model.Scrip, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open description file: %w", err)
	}
	defer f.Close()
	return Parse(f)
}

// Parse reads a description file. Tickers are renamed with Rename and a
// repeated ticker keeps its first position with the last name seen.
func Parse(r io.Reader) ([]model.Scrip, error) {
	var (
		out  []model.Scrip
		seen = map[string]int{}
	)
	sc := bufio.NewScanner(r)
	for lineNo := 1; sc.Scan(); lineNo++ {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		s, err := parseLine(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		s.Ticker = Rename(s.Ticker)
		if i, ok := seen[s.Ticker]; ok {
			out[i].Name = s.Name
			continue
		}
		seen[s.Ticker] = len(out)
		out = append(out, s)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read description file: %w", err)
	}
	return out, nil
}

func parseLine(line string) (model.Scrip, error) {
	if m := quotedLine.FindStringSubmatch(line); m != nil {
		return model.Scrip{Ticker: m[1], Name: strings.TrimSpace(m[2])}, nil
	}
	ticker, name, _ := strings.Cut(line, ",")
	ticker = strings.TrimSpace(ticker)
	if ticker == "" || strings.ContainsAny(ticker, " \t\"") {
		return model.Scrip{}, fmt.Errorf("unrecognised scrip line %q", line)
	}
	if i := strings.IndexByte(name, ','); i >= 0 {
		name = name[:i]
	}
	return model.Scrip{Ticker: ticker, Name: strings.TrimSpace(name)}, nil
}

// Rename maps NSE series tickers such as PCJEWELLER-EQ.NS to their BSE
// listing PCJEWELLER.BO, which the quote sources resolve.
func Rename(ticker string) string {
	if m := nseSeries.FindStringSubmatch(ticker); m != nil {
		return m[1] + ".BO"
	}
	return ticker
}

// Filter keeps scrips whose ticker or name matches pattern at its start.
// An empty pattern keeps everything.
func Filter(list []model.Scrip, pattern string) ([]model.Scrip, error) {
	if pattern == "" {
		return list, nil
	}
	re, err := regexp.Compile(`^(?:` + pattern + `)`)
	if err != nil {
		return nil, fmt.Errorf("scrip filter: %w", err)
	}
	var out []model.Scrip
	for _, s := range list {
		if re.MatchString(s.Ticker) || re.MatchString(s.Name) {
			out = append(out, s)
		}
	}
	return out, nil
}

// Tickers returns the tickers of list in order.
func Tickers(list []model.Scrip) []string {
	out := make([]string, len(list))
	for i, s := range list {
		out[i] = s.Ticker
	}
	return out
}
