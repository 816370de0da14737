package charts

import (
	"fmt"
	"image/color"
	"time"

	logging "boxoffice-report/internal/infra/log"
	"boxoffice-report/internal/movies"

	"go.uber.org/zap"
	"gonum.org/v1/plot/vg"
)

// Catalog returns the ten reports in the order they run.
func Catalog() []Report {
	return []Report{
		{
			Name:    "genre_profitability",
			Caption: "1. What is the most profitable movie genre overall?",
			File:    "genre_profitability.png",
			Render:  renderGenreProfitability,
		},
		{
			Name:    "genre_profit_margin",
			Caption: "2. What is the average profit margin for different genres?",
			File:    "genre_profit_margin.png",
			Render:  renderGenreProfitMargin,
		},
		{
			Name:    "correlation_matrix",
			Caption: "3. Is there a strong correlation between budget and box office gross?",
			File:    "correlation_matrix.png",
			Render:  renderCorrelationMatrix,
		},
		{
			Name:    "budget_vs_profit",
			Caption: "4. Does a higher budget always result in a higher profit?",
			File:    "budget_vs_profit.png",
			Render:  renderBudgetVsProfit,
		},
		{
			Name:    "release_month_profit",
			Caption: "5. Which month is the best to release a movie to maximize profit?",
			File:    "release_month_profit.png",
			Render:  renderReleaseMonthProfit,
		},
		{
			Name:    "genre_vs_month",
			Caption: "6. Are there specific times of the year when certain genres perform better?",
			File:    "genre_vs_month.png",
			Render:  renderGenreVsMonth,
		},
		{
			Name:    "profit_margin_vs_budget",
			Caption: "7. How does the profit margin vary between different budget sizes?",
			File:    "profit_margin_vs_budget.png",
			Render:  renderProfitMarginVsBudget,
		},
		{
			Name:    "box_office_net_vs_gross",
			Caption: "8. What is the relationship between the box office net and box office gross?",
			File:    "box_office_net_vs_gross.png",
			Render:  renderNetVsGross,
		},
		{
			Name:    "budget_break_even",
			Caption: "9. Does the budget affect the likelihood of a movie breaking even or generating loss?",
			File:    "budget_break_even.png",
			Render:  renderBudgetBreakEven,
		},
		{
			Name:    "release_date_vs_profit_margin",
			Caption: "10. How does the release date impact the overall profit margin for movies?",
			File:    "release_date_vs_profit_margin.png",
			Render:  renderReleaseDateVsProfitMargin,
		},
	}
}

func renderGenreProfitability(style Style, t *movies.Table, path string) error {
	stats, dropped, err := movies.MeanBy(t, movies.ByGenre, movies.ProfitOf)
	warnDropped("genre_profitability", dropped)
	if err != nil {
		return err
	}
	p, err := rankedBars(barSpec{
		title:   "Average Profit by Genre",
		xLabel:  "Genre",
		yLabel:  "Average Profit (in billions)",
		stats:   stats,
		label:   TitleLabel,
		palette: gradient(blueDark, blueLight, len(stats)),
		money:   true,
	})
	if err != nil {
		return err
	}
	return savePlot(p, 10*vg.Inch, 6*vg.Inch, style.DPI, path)
}

func renderGenreProfitMargin(style Style, t *movies.Table, path string) error {
	stats, dropped, err := movies.MeanBy(t, movies.ByGenre, movies.MarginOf)
	warnDropped("genre_profit_margin", dropped)
	if err != nil {
		return err
	}
	p, err := rankedBars(barSpec{
		title:   "Average Profit Margin by Genre",
		xLabel:  "Genre",
		yLabel:  "Average Profit Margin (%)",
		stats:   stats,
		label:   TitleLabel,
		palette: gradient(orangeDark, orangeLight, len(stats)),
	})
	if err != nil {
		return err
	}
	return savePlot(p, 10*vg.Inch, 6*vg.Inch, style.DPI, path)
}

// correlationMetrics are the columns of the correlation heatmap, in order
var correlationMetrics = []struct {
	label  string
	metric movies.Metric
}{
	{movies.ColumnGross, movies.GrossOf},
	{movies.ColumnNet, movies.NetOf},
	{movies.ColumnBudget, movies.BudgetOf},
	{"profit", movies.ProfitOf},
}

func renderCorrelationMatrix(style Style, t *movies.Table, path string) error {
	labels := make([]string, len(correlationMetrics))
	metrics := make([]movies.Metric, len(correlationMetrics))
	for i, c := range correlationMetrics {
		labels[i] = c.label
		metrics[i] = c.metric
	}
	if xs, _, _ := movies.Points(t, movies.GrossOf, movies.BudgetOf); len(xs) == 0 {
		return fmt.Errorf("correlation matrix: %w", movies.ErrNoPoints)
	}
	matrix := movies.Correlation(t, metrics)
	return drawHeatmap(style, heatmapSpec{
		title:  "Correlation Matrix of Box Office Metrics",
		labels: labels,
		values: matrix,
	}, path)
}

func renderBudgetVsProfit(style Style, t *movies.Table, path string) error {
	p, err := scatterByGenre(scatterSpec{
		name:    "budget_vs_profit",
		title:   "Budget vs Profit by Genre",
		xLabel:  "Budget (in billions)",
		yLabel:  "Profit (in billions)",
		x:       movies.BudgetOf,
		y:       movies.ProfitOf,
		palette: set1,
		moneyX:  true,
		moneyY:  true,
	}, t)
	if err != nil {
		return err
	}
	return savePlot(p, 10*vg.Inch, 6*vg.Inch, style.DPI, path)
}

func renderReleaseMonthProfit(style Style, t *movies.Table, path string) error {
	stats, dropped, err := movies.MeanBy(t, movies.ByReleaseMonth, movies.ProfitOf)
	warnDropped("release_month_profit", dropped)
	if err != nil {
		return err
	}
	p, err := rankedBars(barSpec{
		title:   "Average Profit by Release Month",
		xLabel:  "Release Month",
		yLabel:  "Average Profit (in billions)",
		stats:   stats,
		palette: gradient(purpleDark, purpleLight, len(stats)),
		money:   true,
	})
	if err != nil {
		return err
	}
	return savePlot(p, 10*vg.Inch, 6*vg.Inch, style.DPI, path)
}

func renderGenreVsMonth(style Style, t *movies.Table, path string) error {
	dated := t.Filter(movies.MovieRecord.HasReleaseDate)

	var months []time.Month
	for m := time.January; m <= time.December; m++ {
		month := m
		if dated.Filter(func(r movies.MovieRecord) bool { return r.ReleaseDate.Month() == month }).Len() > 0 {
			months = append(months, m)
		}
	}
	genres := movies.Labels(dated, movies.ByGenre)
	if len(months) == 0 || len(genres) == 0 {
		return fmt.Errorf("profit by month and genre: %w", movies.ErrNoGroups)
	}

	var slots []boxSlot
	droppedTotal := 0
	for i, m := range months {
		month := m
		inMonth := dated.Filter(func(r movies.MovieRecord) bool { return r.ReleaseDate.Month() == month })
		groups, dropped := movies.GroupValues(inMonth, movies.ByGenre, movies.ProfitOf)
		droppedTotal += dropped
		for _, g := range groups {
			slots = append(slots, boxSlot{
				group:  i,
				series: indexOf(genres, g.Label),
				values: g.Values,
			})
		}
	}
	warnDropped("genre_vs_month", droppedTotal)
	if len(slots) == 0 {
		return fmt.Errorf("profit by month and genre: %w", movies.ErrNoGroups)
	}

	monthLabels := make([]string, len(months))
	for i, m := range months {
		monthLabels[i] = movies.MonthLabel(m)
	}
	seriesLabels := make([]string, len(genres))
	for i, g := range genres {
		seriesLabels[i] = TitleLabel(g)
	}

	p, err := groupedBoxes(boxSpec{
		title:        "Profit by Release Month and Genre",
		xLabel:       "Release Month",
		yLabel:       "Profit (in billions)",
		groups:       monthLabels,
		series:       seriesLabels,
		slots:        slots,
		palette:      set2,
		width:        12 * vg.Inch,
		money:        true,
		rotateLabels: true,
	})
	if err != nil {
		return err
	}
	return savePlot(p, 12*vg.Inch, 8*vg.Inch, style.DPI, path)
}

func renderProfitMarginVsBudget(style Style, t *movies.Table, path string) error {
	p, err := scatterByGenre(scatterSpec{
		name:    "profit_margin_vs_budget",
		title:   "Budget vs Profit Margin",
		xLabel:  "Budget (in billions)",
		yLabel:  "Profit Margin (%)",
		x:       movies.BudgetOf,
		y:       movies.MarginOf,
		palette: dark2,
		moneyX:  true,
	}, t)
	if err != nil {
		return err
	}
	return savePlot(p, 10*vg.Inch, 6*vg.Inch, style.DPI, path)
}

func renderNetVsGross(style Style, t *movies.Table, path string) error {
	xs, ys, dropped := movies.Points(t, movies.GrossOf, movies.NetOf)
	if dropped > 0 {
		logging.LogWarn("Skipped non-finite points", zap.String("chart", "box_office_net_vs_gross"), zap.Int("dropped", dropped))
	}
	if len(xs) == 0 {
		return fmt.Errorf("box office gross vs net: %w", movies.ErrNoPoints)
	}
	fit, err := movies.FitLine(xs, ys)
	if err != nil {
		return err
	}
	p, err := regressionPlot(regressionSpec{
		title:  "Box Office Gross vs Net",
		xLabel: "Box Office Gross (in billions)",
		yLabel: "Box Office Net (in billions)",
		xs:     xs,
		ys:     ys,
		fit:    fit,
	})
	if err != nil {
		return err
	}
	return savePlot(p, 10*vg.Inch, 6*vg.Inch, style.DPI, path)
}

// breakEvenLabels fixes the x positions so "False" is always left of "True"
var breakEvenLabels = []string{"False", "True"}

func renderBudgetBreakEven(style Style, t *movies.Table, path string) error {
	groups, dropped := movies.GroupValues(t, movies.ByBreakEven, movies.BudgetOf)
	warnDropped("budget_break_even", dropped)
	if len(groups) == 0 {
		return fmt.Errorf("budget by break-even: %w", movies.ErrNoGroups)
	}

	var slots []boxSlot
	for _, g := range groups {
		i := indexOf(breakEvenLabels, g.Label)
		slots = append(slots, boxSlot{group: i, series: i, values: g.Values})
	}

	p, err := groupedBoxes(boxSpec{
		title:   "Budget Size for Movies that Break Even vs Loss",
		xLabel:  "Break Even",
		yLabel:  "Budget (in billions)",
		groups:  breakEvenLabels,
		series:  breakEvenLabels,
		slots:   slots,
		palette: []color.Color{coolwarm(-0.8), coolwarm(0.8)},
		width:   10 * vg.Inch,
		money:   true,
		single:  true,
	})
	if err != nil {
		return err
	}
	return savePlot(p, 10*vg.Inch, 6*vg.Inch, style.DPI, path)
}

func renderReleaseDateVsProfitMargin(style Style, t *movies.Table, path string) error {
	stats, dropped, err := movies.MeanBy(t, movies.ByReleaseMonth, movies.MarginOf)
	warnDropped("release_date_vs_profit_margin", dropped)
	if err != nil {
		return err
	}
	palette := make([]color.Color, len(stats))
	for i := range stats {
		// highest mean gets the warm end, as with a diverging ranking palette
		palette[i] = coolwarm(1 - 2*float64(i)/float64(max(len(stats)-1, 1)))
	}
	p, err := rankedBars(barSpec{
		title:   "Average Profit Margin by Release Month",
		xLabel:  "Release Month",
		yLabel:  "Profit Margin (%)",
		stats:   stats,
		palette: palette,
	})
	if err != nil {
		return err
	}
	return savePlot(p, 10*vg.Inch, 6*vg.Inch, style.DPI, path)
}

func warnDropped(chart string, dropped int) {
	if dropped > 0 {
		logging.LogWarn("Excluded non-finite values",
			zap.String("chart", chart),
			zap.Int("dropped", dropped))
	}
}

func indexOf(list []string, s string) int {
	for i, v := range list {
		if v == s {
			return i
		}
	}
	return -1
}
