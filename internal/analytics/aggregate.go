// Package analytics turns stored response documents into per-question
// tallies, percentages, averages and CSV exports. Everything here is pure:
// responses are read-only input and no I/O happens.
package analytics

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/PSilyDev/survease/internal/model"
)

// QuestionStats tallies every submitted value for one question. Counts is
// keyed by the answer bucket (the string form of a value); Order remembers
// buckets in first-seen order so ties render deterministically. Sum
// accumulates only values that parse as numbers, which feeds rating
// averages while free-text answers still land in string buckets.
type QuestionStats struct {
	Counts map[string]int `json:"counts"`
	Order  []string       `json:"order"`
	Total  int            `json:"total"`
	Sum    float64        `json:"sum"`
}

// SurveyAggregate holds the tallies for one survey.
type SurveyAggregate struct {
	TotalResponses int                       `json:"totalResponses"`
	ByQuestion     map[string]*QuestionStats `json:"byQuestion"`
	QuestionOrder  []string                  `json:"questionOrder"`
}

// AggregateIndex maps "{category}::{survey}" to that survey's aggregate.
type AggregateIndex map[string]*SurveyAggregate

// Aggregate tallies a set of response documents. Malformed entries are
// tolerated at per-document, per-answer granularity: a document without
// answers still counts as a response, and a nil answer list is skipped.
func Aggregate(docs []model.ResponseDocument) AggregateIndex {
	idx := AggregateIndex{}
	for _, doc := range docs {
		key := doc.Ref().Key()
		agg := idx[key]
		if agg == nil {
			agg = &SurveyAggregate{ByQuestion: map[string]*QuestionStats{}}
			idx[key] = agg
		}
		agg.TotalResponses++

		for _, qa := range doc.Answers {
			stats := agg.ByQuestion[qa.Question]
			if stats == nil {
				stats = &QuestionStats{Counts: map[string]int{}}
				agg.ByQuestion[qa.Question] = stats
				agg.QuestionOrder = append(agg.QuestionOrder, qa.Question)
			}
			for _, v := range qa.Answer {
				bucket := bucketString(v)
				if _, seen := stats.Counts[bucket]; !seen {
					stats.Order = append(stats.Order, bucket)
				}
				stats.Counts[bucket]++
				stats.Total++
				if n, ok := numericValue(v); ok {
					stats.Sum += n
				}
			}
		}
	}
	return idx
}

// Merge folds other into idx, bucket by bucket. Aggregation is associative
// under document-set concatenation: Aggregate(A++B) equals
// Aggregate(A).Merge(Aggregate(B)).
func (idx AggregateIndex) Merge(other AggregateIndex) AggregateIndex {
	for key, agg := range other {
		dst := idx[key]
		if dst == nil {
			dst = &SurveyAggregate{ByQuestion: map[string]*QuestionStats{}}
			idx[key] = dst
		}
		dst.TotalResponses += agg.TotalResponses
		for _, question := range agg.QuestionOrder {
			src := agg.ByQuestion[question]
			stats := dst.ByQuestion[question]
			if stats == nil {
				stats = &QuestionStats{Counts: map[string]int{}}
				dst.ByQuestion[question] = stats
				dst.QuestionOrder = append(dst.QuestionOrder, question)
			}
			for _, bucket := range src.Order {
				if _, seen := stats.Counts[bucket]; !seen {
					stats.Order = append(stats.Order, bucket)
				}
				stats.Counts[bucket] += src.Counts[bucket]
			}
			stats.Total += src.Total
			stats.Sum += src.Sum
		}
	}
	return idx
}

// Row is one chart-friendly bucket of a question's tally.
type Row struct {
	Opt   string `json:"opt"`
	Count int    `json:"count"`
	Pct   int    `json:"pct"`
}

// RowsForQuestion renders a question's buckets sorted by count descending;
// ties keep the order buckets were first seen. Pct is the rounded share of
// totalResponses, or 0 when there are no responses.
func RowsForQuestion(stats *QuestionStats, totalResponses int) []Row {
	if stats == nil {
		return nil
	}
	rows := make([]Row, 0, len(stats.Order))
	for _, bucket := range stats.Order {
		count := stats.Counts[bucket]
		pct := 0
		if totalResponses > 0 {
			pct = int(math.Round(float64(count) / float64(totalResponses) * 100))
		}
		rows = append(rows, Row{Opt: bucket, Count: count, Pct: pct})
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Count > rows[j].Count })
	return rows
}

// AverageFrom returns the mean of a question's numeric values rounded to
// two decimals. The second result is false when nothing was tallied or no
// value parsed as a number.
func AverageFrom(stats *QuestionStats) (float64, bool) {
	if stats == nil || stats.Total == 0 || stats.Sum == 0 {
		return 0, false
	}
	return math.Round(stats.Sum/float64(stats.Total)*100) / 100, true
}

// bucketString renders a value the way it is tallied: numbers without a
// trailing ".0", everything else in its natural string form.
func bucketString(v interface{}) string {
	switch val := v.(type) {
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32)
	case int:
		return strconv.Itoa(val)
	case int32:
		return strconv.FormatInt(int64(val), 10)
	case int64:
		return strconv.FormatInt(val, 10)
	case bool:
		return strconv.FormatBool(val)
	default:
		return fmt.Sprint(val)
	}
}

func numericValue(v interface{}) (float64, bool) {
	switch val := v.(type) {
	case float64:
		return val, !math.IsNaN(val) && !math.IsInf(val, 0)
	case float32:
		return float64(val), true
	case int:
		return float64(val), true
	case int32:
		return float64(val), true
	case int64:
		return float64(val), true
	case string:
		// Whitespace-padded numerics count toward the sum; hex and boolean
		// strings do not.
		n, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}
