// Package charts renders aggregation results as PNG images embedded in
// data URLs, ready to drop into an <img> tag.
package charts

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"html/template"
	"io"
	"math"
	"time"

	"github.com/rs/zerolog/log"
	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/blogem/access-log-viewer/models"
)

const (
	defaultWidth  = 800
	defaultHeight = 400
	minBarWidth   = 60

	stackedBarWidth   = 50
	stackedBarSpacing = 40
)

// Palette is the fill colour cycle used for stacked segments and pie slices
var Palette = []string{
	"1f77b4", "ff7f0e", "2ca02c", "d62728", "9467bd",
	"8c564b", "e377c2", "7f7f7f", "bcbd22", "17becf",
}

// NoDataMessage is shown in place of a chart that has nothing to draw
const NoDataMessage = "Not enough data to draw this chart."

// Image is a rendered chart. When rendering failed, Src is empty and Err
// holds a message for the page.
type Image struct {
	Title  string
	Alt    string
	Src    template.URL
	Err    string
	Legend []LegendEntry
}

// LegendEntry pairs a series name with its colour
type LegendEntry struct {
	Label string
	Color string
}

// Ready reports whether the image has something to show
func (i Image) Ready() bool {
	return i.Src != ""
}

// PaletteColor returns the hex colour for the n-th series
func PaletteColor(n int) string {
	return Palette[n%len(Palette)]
}

type renderable interface {
	Render(rp chart.RendererProvider, w io.Writer) error
}

func render(title string, c renderable) Image {
	img := Image{Title: title, Alt: title}

	var buf bytes.Buffer
	if err := c.Render(chart.PNG, &buf); err != nil {
		log.Warn().Err(err).Str("chart", title).Msg("chart render failed")
		img.Err = NoDataMessage
		return img
	}

	img.Src = template.URL("data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()))
	return img
}

func noData(title string) Image {
	return Image{Title: title, Alt: title, Err: NoDataMessage}
}

// UserActivityChart draws one stacked bar per user, one segment per action.
// Bars are drawn as shares of the user's total; segment labels carry the counts.
func UserActivityChart(title string, activity *models.UserActivity) Image {
	if activity == nil || len(activity.Users) == 0 {
		return noData(title)
	}

	bars := make([]chart.StackedBar, len(activity.Users))
	for i, user := range activity.Users {
		values := make([]chart.Value, len(activity.Actions))
		total := 0
		for j := range activity.Actions {
			count := activity.Counts[i][j]
			total += count
			values[j] = chart.Value{
				Value: float64(count),
				Style: chart.Style{FillColor: drawing.ColorFromHex(PaletteColor(j)), StrokeColor: drawing.ColorWhite, StrokeWidth: 1},
			}
			if count > 0 {
				values[j].Label = fmt.Sprint(count)
			}
		}
		bars[i] = chart.StackedBar{Name: fmt.Sprintf("%s (%d)", user, total), Width: stackedBarWidth, Values: values}
	}

	c := chart.StackedBarChart{
		Width:      max(defaultWidth, len(bars)*(stackedBarWidth+stackedBarSpacing)+100),
		Height:     defaultHeight,
		BarSpacing: stackedBarSpacing,
		Background: chart.Style{Padding: chart.Box{Top: 20, Left: 10, Right: 10, Bottom: 10}},
		Bars:       bars,
	}

	img := render(title, c)
	for j, action := range activity.Actions {
		img.Legend = append(img.Legend, LegendEntry{Label: action, Color: PaletteColor(j)})
	}
	return img
}

// ActionPie draws the action distribution with percentage labels
func ActionPie(title string, items []models.CountItem) Image {
	if len(items) == 0 {
		return noData(title)
	}

	values := make([]chart.Value, len(items))
	for i, item := range items {
		values[i] = chart.Value{
			Label: fmt.Sprintf("%s (%.1f%%)", item.Key, item.Percent),
			Value: float64(item.Count),
			Style: chart.Style{FillColor: drawing.ColorFromHex(PaletteColor(i))},
		}
	}

	return render(title, chart.PieChart{
		Width:  defaultHeight * 3 / 2,
		Height: defaultHeight * 3 / 2,
		Values: values,
	})
}

// BarChart draws one bar per item, largest first as given
func BarChart(title, color string, items []models.CountItem) Image {
	if len(items) == 0 {
		return noData(title)
	}

	bars := make([]chart.Value, len(items))
	maxY := 0.0
	for i, item := range items {
		bars[i] = chart.Value{
			Label: item.Key,
			Value: float64(item.Count),
			Style: chart.Style{FillColor: drawing.ColorFromHex(color), StrokeColor: drawing.ColorFromHex(color)},
		}
		maxY = math.Max(maxY, float64(item.Count))
	}

	return render(title, chart.BarChart{
		Width:      max(defaultWidth, len(bars)*minBarWidth),
		Height:     defaultHeight,
		BarWidth:   40,
		Background: chart.Style{Padding: chart.Box{Top: 30}},
		YAxis:      chart.YAxis{Range: yRange(maxY)},
		Bars:       bars,
	})
}

// TimeSeriesChart draws bucket counts as a line. Hourly buckets get hour
// labels, anything wider gets date labels.
func TimeSeriesChart(title, yName, color string, buckets []models.Bucket, width models.BucketWidth) Image {
	if len(buckets) == 0 {
		return noData(title)
	}

	// a line needs two points
	if len(buckets) == 1 {
		buckets = append(buckets, models.Bucket{Start: buckets[0].Start.Add(time.Duration(width))})
	}

	xs := make([]time.Time, len(buckets))
	ys := make([]float64, len(buckets))
	maxY := 0.0
	for i, b := range buckets {
		xs[i] = b.Start
		ys[i] = float64(b.Count)
		maxY = math.Max(maxY, ys[i])
	}

	formatter := chart.TimeDateValueFormatter
	if width == models.Hourly {
		formatter = chart.TimeHourValueFormatter
	}

	return render(title, chart.Chart{
		Width:  defaultWidth,
		Height: defaultHeight,
		XAxis:  chart.XAxis{Name: "Time (UTC)", ValueFormatter: formatter},
		YAxis:  chart.YAxis{Name: yName, Range: yRange(maxY)},
		Series: []chart.Series{
			chart.TimeSeries{
				Name:    yName,
				XValues: xs,
				YValues: ys,
				Style:   chart.Style{StrokeColor: drawing.ColorFromHex(color), StrokeWidth: 2},
			},
		},
	})
}

func yRange(maxY float64) *chart.ContinuousRange {
	return &chart.ContinuousRange{Min: 0, Max: math.Max(maxY, 1) * 1.1}
}
