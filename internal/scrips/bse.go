package scrips

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

var screenerLink = regexp.MustCompile(`screener.in/company/\?q=(\d+)`)

// ExtractScreenerIDs collects the unique BSE codes linked from screener.in
// result pages, in ascending order.
func ExtractScreenerIDs(r io.Reader) ([]int, error) {
	body, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read screener page: %w", err)
	}
	seen := map[int]struct{}{}
	var ids []int
	for _, m := range screenerLink.FindAllSubmatch(body, -1) {
		id, err := strconv.Atoi(string(m[1]))
		if err != nil {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids, nil
}

// JoinBSE looks up each id in the BSE scrip list (code, ticker, name, ...)
// and writes a quoted-layout description line for every match. It returns
// the number of lines written.
func JoinBSE(ids []int, bseCSV io.Reader, w io.Writer) (int, error) {
	rd := csv.NewReader(bseCSV)
	rd.FieldsPerRecord = -1
	rd.LazyQuotes = true

	byCode := map[string][]string{}
	for {
		rec, err := rd.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return 0, fmt.Errorf("read bse scrip list: %w", err)
		}
		if len(rec) < 3 {
			continue
		}
		code := strings.TrimSpace(rec[0])
		if _, dup := byCode[code]; !dup {
			byCode[code] = rec
		}
	}

	written := 0
	for _, id := range ids {
		rec, ok := byCode[strconv.Itoa(id)]
		if !ok {
			continue
		}
		ticker, name := strings.TrimSpace(rec[1]), strings.TrimSpace(rec[2])
		if _, err := fmt.Fprintf(w, "%s.BO  %q  %d\n", ticker, name, id); err != nil {
			return written, err
		}
		written++
	}
	return written, nil
}
