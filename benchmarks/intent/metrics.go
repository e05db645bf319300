// ABOUTME: Scoring for the intent benchmark: accuracy, per-intent precision and recall
// ABOUTME: Built from a confusion matrix of expected versus predicted intents

package intent

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/harper/mindmate/internal/models"
)

// Confusion counts predictions per expected intent
type Confusion map[models.IntentKind]map[models.IntentKind]int

// NewConfusion returns an empty matrix over every intent
func NewConfusion() Confusion {
	m := make(Confusion, len(models.AllIntents))
	for _, expected := range models.AllIntents {
		m[expected] = make(map[models.IntentKind]int, len(models.AllIntents))
	}
	return m
}

// Add records one prediction
func (m Confusion) Add(expected, predicted models.IntentKind) {
	row, ok := m[expected]
	if !ok {
		row = make(map[models.IntentKind]int)
		m[expected] = row
	}
	row[predicted]++
}

// IntentScore is the per-intent slice of a report
type IntentScore struct {
	Precision float64 `json:"precision"`
	Recall    float64 `json:"recall"`
	F1        float64 `json:"f1"`
	Support   int    `json:"support"`
}

// Score computes precision, recall and F1 for one intent.
// A ratio with an empty denominator scores 1.0 when nothing was expected either.
func (m Confusion) Score(intent models.IntentKind) IntentScore {
	tp := m[intent][intent]

	var expected, predicted int
	for _, n := range m[intent] {
		expected += n
	}
	for _, row := range m {
		predicted += row[intent]
	}

	s := IntentScore{Support: expected}
	s.Precision = ratio(tp, predicted, expected == 0)
	s.Recall = ratio(tp, expected, true)
	if s.Precision+s.Recall > 0 {
		s.F1 = 2 * s.Precision * s.Recall / (s.Precision + s.Recall)
	}
	return s
}

func ratio(n, d int, emptyIsPerfect bool) float64 {
	if d == 0 {
		if emptyIsPerfect {
			return 1.0
		}
		return 0.0
	}
	return float64(n) / float64(d)
}

// Report summarizes a run
type Report struct {
	Total          int                               `json:"total"`
	Correct        int                               `json:"correct"`
	Accuracy       float64                           `json:"accuracy"`
	WakeAccuracy   float64                           `json:"wake_accuracy"`
	ActionChecked  int                               `json:"action_checked"`
	ActionAccuracy float64                           `json:"action_accuracy"`
	PerIntent      map[models.IntentKind]IntentScore `json:"per_intent"`
	Matrix         Confusion                         `json:"confusion_matrix"`
}

// BuildReport scores a set of case results
func BuildReport(results []CaseResult) Report {
	matrix := NewConfusion()
	r := Report{Total: len(results), Matrix: matrix}

	var wakeCorrect, actionCorrect int
	for _, res := range results {
		matrix.Add(res.Case.Intent, res.Intent)
		if res.IntentOK {
			r.Correct++
		}
		if res.AwakeOK {
			wakeCorrect++
		}
		if res.Case.Action != "" {
			r.ActionChecked++
			if res.ActionOK {
				actionCorrect++
			}
		}
	}

	r.Accuracy = ratio(r.Correct, r.Total, false)
	r.WakeAccuracy = ratio(wakeCorrect, r.Total, false)
	r.ActionAccuracy = ratio(actionCorrect, r.ActionChecked, true)

	r.PerIntent = make(map[models.IntentKind]IntentScore, len(models.AllIntents))
	for _, intent := range models.AllIntents {
		r.PerIntent[intent] = matrix.Score(intent)
	}
	return r
}

// WriteMatrix prints the confusion matrix with expected intents as rows
func (m Confusion) WriteMatrix(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprint(tw, "expected \\ predicted\t")
	for _, predicted := range models.AllIntents {
		fmt.Fprintf(tw, "%s\t", predicted)
	}
	fmt.Fprintln(tw)
	for _, expected := range models.AllIntents {
		fmt.Fprintf(tw, "%s\t", expected)
		for _, predicted := range models.AllIntents {
			fmt.Fprintf(tw, "%d\t", m[expected][predicted])
		}
		fmt.Fprintln(tw)
	}
	return tw.Flush()
}
