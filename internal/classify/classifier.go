// Package classify runs a sound classifier over fixed windows of live audio
// pulled from a capture producer.
package classify

import (
	"fmt"
	"math"
)

// Prediction is one scored label from a classifier.
type Prediction struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// Classifier scores one window of mono float32 samples in [-1, 1]. The
// inference engine behind it is somebody else's problem; anything that can
// score a sample window plugs in here.
type Classifier interface {
	Classify(samples []float32) ([]Prediction, error)
}

// EnergyClassifier is the built-in reference classifier: it buckets a window
// by RMS energy into silence / ambient / loud. It keeps the binary useful
// end to end without shipping a model.
type EnergyClassifier struct {
	// SilenceRMS and LoudRMS split the three buckets. Zero values get
	// replaced by defaults at classify time.
	SilenceRMS float64
	LoudRMS    float64
}

const (
	defaultSilenceRMS = 0.01
	defaultLoudRMS    = 0.2
)

// Classify buckets the window by its RMS level. The winning label scores by
// distance into its bucket; the other labels fill the remainder.
func (c *EnergyClassifier) Classify(samples []float32) ([]Prediction, error) {
	if len(samples) == 0 {
		return nil, fmt.Errorf("classify empty window")
	}

	silence := c.SilenceRMS
	if silence <= 0 {
		silence = defaultSilenceRMS
	}
	loud := c.LoudRMS
	if loud <= silence {
		loud = defaultLoudRMS
	}

	var sum float64
	for _, s := range samples {
		sum += float64(s) * float64(s)
	}
	rms := math.Sqrt(sum / float64(len(samples)))

	// Winner lands in (0.5, 1]: 1 at the bucket center, 0.5 at its edges.
	var top string
	var score float64
	switch {
	case rms < silence:
		top = "silence"
		score = 1 - rms/silence/2
	case rms < loud:
		top = "ambient"
		mid := (silence + loud) / 2
		half := (loud - silence) / 2
		score = 1 - math.Abs(rms-mid)/half/2
	default:
		top = "loud"
		score = math.Min(1, 0.5+(rms-loud)/loud)
	}

	preds := []Prediction{{Label: top, Score: score}}
	for _, l := range []string{"silence", "ambient", "loud"} {
		if l != top {
			preds = append(preds, Prediction{Label: l, Score: (1 - score) / 2})
		}
	}
	return preds, nil
}
