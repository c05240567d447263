// Package report summarizes the class distribution of labeled item lists.
package report

import (
	"fmt"
	"image/color"
	"io"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/montanaflynn/stats"
	"github.com/pkg/errors"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/Noofbiz/datablock/datasets"
)

// ClassCount is the number of items carrying one class on each side. An item
// with a label set counts once for every class in it.
type ClassCount struct {
	Class              string
	Train, Valid, Test int
}

// Summary is the class distribution of labeled lists.
type Summary struct {
	Classes []ClassCount
	// Item totals per side.
	Train, Valid, Test int
	// Labels that are not in the class vocabulary, over all sides.
	Unknown int

	// Statistics over the train count of every class.
	Mean, StdDev float64
	// Imbalance is the largest train class count over the smallest non-zero
	// one. It is 0 when no class has train items.
	Imbalance float64
}

// Summarize counts the labels of every side of ls, which must be labeled.
func Summarize(ls *datasets.ItemLists) (*Summary, error) {
	if ls.State() != datasets.StateLabeled {
		return nil, errors.Wrap(datasets.ErrState, "summarize needs labeled lists")
	}
	classes := ls.Train().Classes()
	s := &Summary{Classes: make([]ClassCount, len(classes))}
	pos := make(map[string]int, len(classes))
	for i, c := range classes {
		s.Classes[i].Class = c
		pos[c] = i
	}

	count := func(ll *datasets.LabelList, total *int, field func(*ClassCount) *int) {
		if ll == nil {
			return
		}
		*total = ll.Len()
		for _, lbl := range rawLabels(ll.Y()) {
			i, ok := pos[lbl]
			if !ok {
				s.Unknown++
				continue
			}
			*field(&s.Classes[i])++
		}
	}
	count(ls.Train(), &s.Train, func(c *ClassCount) *int { return &c.Train })
	count(ls.Valid(), &s.Valid, func(c *ClassCount) *int { return &c.Valid })
	count(ls.Test(), &s.Test, func(c *ClassCount) *int { return &c.Test })

	if len(s.Classes) == 0 {
		return s, nil
	}
	train := make(stats.Float64Data, len(s.Classes))
	var nonZero stats.Float64Data
	for i, c := range s.Classes {
		train[i] = float64(c.Train)
		if c.Train > 0 {
			nonZero = append(nonZero, float64(c.Train))
		}
	}
	var err error
	if s.Mean, err = stats.Mean(train); err != nil {
		return nil, errors.Wrap(err, "mean of class counts")
	}
	if s.StdDev, err = stats.StandardDeviation(train); err != nil {
		return nil, errors.Wrap(err, "stddev of class counts")
	}
	if len(nonZero) > 0 {
		hi, _ := stats.Max(nonZero)
		lo, _ := stats.Min(nonZero)
		s.Imbalance = hi / lo
	}
	return s, nil
}

// rawLabels flattens the unresolved labels of y.
func rawLabels(y datasets.Labels) []string {
	var out []string
	for i := 0; i < y.Len(); i++ {
		switch v := y.Raw(i).(type) {
		case string:
			out = append(out, v)
		case []string:
			out = append(out, v...)
		}
	}
	return out
}

// Write prints the summary as an aligned table followed by the statistics.
func (s *Summary) Write(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "class\ttrain\tvalid\ttest")
	for _, c := range s.Classes {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", c.Class,
			humanize.Comma(int64(c.Train)), humanize.Comma(int64(c.Valid)), humanize.Comma(int64(c.Test)))
	}
	fmt.Fprintf(tw, "total\t%s\t%s\t%s\n",
		humanize.Comma(int64(s.Train)), humanize.Comma(int64(s.Valid)), humanize.Comma(int64(s.Test)))
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "%d classes, train mean %.2f, stddev %.2f, imbalance %.2f, unknown labels %s\n",
		len(s.Classes), s.Mean, s.StdDev, s.Imbalance, humanize.Comma(int64(s.Unknown)))
	return err
}

// PlotClassCounts draws grouped train/valid bars per class.
func PlotClassCounts(s *Summary) (*plot.Plot, error) {
	if len(s.Classes) == 0 {
		return nil, errors.New("no classes to plot")
	}
	p := plot.New()
	p.Title.Text = "Items per class"
	p.Y.Label.Text = "items"

	train := make(plotter.Values, len(s.Classes))
	valid := make(plotter.Values, len(s.Classes))
	names := make([]string, len(s.Classes))
	for i, c := range s.Classes {
		train[i] = float64(c.Train)
		valid[i] = float64(c.Valid)
		names[i] = c.Class
	}

	w := vg.Points(12)
	tb, err := plotter.NewBarChart(train, w)
	if err != nil {
		return nil, err
	}
	tb.Color = color.RGBA{R: 20, G: 80, B: 200, A: 220}
	tb.Offset = -w / 2

	vb, err := plotter.NewBarChart(valid, w)
	if err != nil {
		return nil, err
	}
	vb.Color = color.RGBA{R: 200, G: 30, B: 30, A: 180}
	vb.Offset = w / 2

	p.Add(tb, vb, plotter.NewGrid())
	p.Legend.Add("train", tb)
	p.Legend.Add("valid", vb)
	p.Legend.Top = true
	p.NominalX(names...)
	return p, nil
}
