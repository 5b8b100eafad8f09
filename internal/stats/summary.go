package stats

import (
	"fmt"
	"math"
)

type Summary struct {
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	Std    float64 `json:"std"`
	StdErr float64 `json:"std_err"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
}

func Avg(values []float64) (float64, error) {
	if len(values) == 0 {
		return 0, fmt.Errorf("values must not be empty")
	}
	sum := 0.0
	for _, value := range values {
		sum += value
	}
	return sum / float64(len(values)), nil
}

// Std returns population standard deviation.
func Std(values []float64) (float64, error) {
	mean, err := Avg(values)
	if err != nil {
		return 0, err
	}
	sum := 0.0
	for _, value := range values {
		diff := mean - value
		sum += diff * diff
	}
	return math.Sqrt(sum / float64(len(values))), nil
}

// Summarize describes the spread of values. StdErr uses the sample standard
// deviation and is zero for a single value.
func Summarize(values []float64) (Summary, error) {
	mean, err := Avg(values)
	if err != nil {
		return Summary{}, err
	}
	std, _ := Std(values)
	out := Summary{
		Count: len(values),
		Mean:  mean,
		Std:   std,
		Min:   values[0],
		Max:   values[0],
	}
	for _, value := range values[1:] {
		if value < out.Min {
			out.Min = value
		}
		if value > out.Max {
			out.Max = value
		}
	}
	if n := float64(len(values)); n > 1 {
		sampleStd := std * math.Sqrt(n/(n-1))
		out.StdErr = sampleStd / math.Sqrt(n)
	}
	return out, nil
}
