package nse

import (
	"math"

	"github.com/finzo/backend/internal/contracts"
)

const (
	ma50Window     = 50
	ma200Window    = 200
	rsiWindow      = 14
	volumeWindow   = 20
	macdFastSpan   = 12
	macdSlowSpan   = 26
	macdSignalSpan = 9
	minCandlesMACD = macdSlowSpan + macdSignalSpan
)

// ComputeIndicators derives the technical indicator set from a daily price
// history, oldest candle first. Indicators whose window exceeds the
// available history stay unset rather than being approximated.
func ComputeIndicators(candles []Candle) contracts.TechnicalIndicators {
	var ind contracts.TechnicalIndicators
	if len(candles) == 0 {
		return ind
	}

	closes := make([]float64, len(candles))
	volumes := make([]float64, len(candles))
	for i, c := range candles {
		closes[i] = c.Close
		volumes[i] = c.Volume
	}

	last := len(closes) - 1
	ind.CurrentPrice = contracts.Float(closes[last])
	ind.Volume = contracts.Float(volumes[last])

	if last >= 1 && closes[last-1] != 0 {
		ind.DayChange = contracts.Float((closes[last] - closes[last-1]) / closes[last-1] * 100)
	}

	if ma := simpleMA(closes, ma50Window); ma > 0 {
		ind.MA50 = contracts.Float(ma)
		ind.PriceToMA50 = contracts.Float(closes[last] / ma)
	}
	if ma := simpleMA(closes, ma200Window); ma > 0 {
		ind.MA200 = contracts.Float(ma)
		ind.PriceToMA200 = contracts.Float(closes[last] / ma)
	}

	if rsi, ok := relativeStrength(closes); ok {
		ind.RSI = contracts.Float(rsi)
	}

	if vol, ok := returnVolatility(closes); ok {
		ind.Volatility = contracts.Float(vol)
	}

	if len(closes) >= minCandlesMACD {
		macdSeries := subtract(ema(closes, macdFastSpan), ema(closes, macdSlowSpan))
		signalSeries := ema(macdSeries, macdSignalSpan)

		ind.MACD = contracts.Float(macdSeries[last])
		ind.MACDSignal = contracts.Float(signalSeries[last])
		ind.MACDHistogram = contracts.Float(macdSeries[last] - signalSeries[last])
		if last >= 1 {
			ind.MACDHistogramPrev = contracts.Float(macdSeries[last-1] - signalSeries[last-1])
		}
	}

	if avg := simpleMA(volumes, volumeWindow); avg > 0 {
		ind.VolumeChange = contracts.Float(volumes[last] / avg)
	}

	return ind
}

// simpleMA returns the mean of the last `window` values, or 0 when there
// is not enough history.
func simpleMA(values []float64, window int) float64 {
	if len(values) < window {
		return 0
	}
	var sum float64
	for _, v := range values[len(values)-window:] {
		sum += v
	}
	return sum / float64(window)
}

// ema returns the exponential moving average series with the given span.
func ema(values []float64, span int) []float64 {
	out := make([]float64, len(values))
	if len(values) == 0 {
		return out
	}
	alpha := 2.0 / float64(span+1)
	out[0] = values[0]
	for i := 1; i < len(values); i++ {
		out[i] = alpha*values[i] + (1-alpha)*out[i-1]
	}
	return out
}

func subtract(a, b []float64) []float64 {
	out := make([]float64, len(a))
	for i := range a {
		out[i] = a[i] - b[i]
	}
	return out
}

// relativeStrength computes a 14-day RSI from average gains and losses.
// A lossless window reads as the neutral 50.
func relativeStrength(closes []float64) (float64, bool) {
	if len(closes) < rsiWindow+1 {
		return 0, false
	}

	var gains, losses float64
	start := len(closes) - rsiWindow
	for i := start; i < len(closes); i++ {
		delta := closes[i] - closes[i-1]
		if delta > 0 {
			gains += delta
		} else {
			losses -= delta
		}
	}
	if losses == 0 {
		return 50, true
	}

	rs := (gains / float64(rsiWindow)) / (losses / float64(rsiWindow))
	return 100 - 100/(1+rs), true
}

// returnVolatility is the standard deviation of daily returns in percent.
func returnVolatility(closes []float64) (float64, bool) {
	if len(closes) < 3 {
		return 0, false
	}

	returns := make([]float64, 0, len(closes)-1)
	for i := 1; i < len(closes); i++ {
		if closes[i-1] == 0 {
			continue
		}
		returns = append(returns, (closes[i]-closes[i-1])/closes[i-1])
	}
	if len(returns) < 2 {
		return 0, false
	}

	var mean float64
	for _, r := range returns {
		mean += r
	}
	mean /= float64(len(returns))

	var variance float64
	for _, r := range returns {
		variance += (r - mean) * (r - mean)
	}
	variance /= float64(len(returns) - 1)

	return math.Sqrt(variance) * 100, true
}
