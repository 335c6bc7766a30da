package srs

import (
	"time"

	"github.com/recitehq/recite-api/internal/domain"
)

// Params defines all configurable parameters for the scheduling algorithm.
type Params struct {
	// Core limits
	MinEase float64
	MaxEase float64

	// Ease adjustments per rating, applied before clamping.
	EaseAdjustment map[domain.Rating]float64

	// Learning-step delays for cards not yet (or no longer) in review.
	AgainDelay time.Duration
	HardDelay  time.Duration

	// Graduating intervals, in days, for cards leaving the learning states.
	GraduatingInterval map[domain.Rating]int

	// Review-state interval multipliers.
	HardMultiplier float64
	EasyBonus      float64
}

// ParamsConfig allows overriding the default parameters when creating a new
// Params instance. Zero-valued fields keep the default.
type ParamsConfig struct {
	MinEase float64
	MaxEase float64

	AgainEaseAdjustment float64
	HardEaseAdjustment  float64
	GoodEaseAdjustment  float64
	EasyEaseAdjustment  float64

	AgainDelayMinutes int
	HardDelayMinutes  int

	GoodGraduatingIntervalDays int
	EasyGraduatingIntervalDays int

	HardMultiplier float64
	EasyBonus      float64
}

// NewDefaultParams creates a new Params instance with default values.
func NewDefaultParams() *Params {
	return &Params{
		MinEase: 1.3,
		MaxEase: 3.0,

		EaseAdjustment: map[domain.Rating]float64{
			domain.RatingAgain: -0.20,
			domain.RatingHard:  -0.15,
			domain.RatingGood:  0.0,
			domain.RatingEasy:  0.15,
		},

		AgainDelay: 10 * time.Minute,
		HardDelay:  60 * time.Minute,

		GraduatingInterval: map[domain.Rating]int{
			domain.RatingGood: 1,
			domain.RatingEasy: 3,
		},

		HardMultiplier: 1.2,
		EasyBonus:      1.3,
	}
}

// NewParams creates a new Params instance with custom configuration.
func NewParams(config ParamsConfig) *Params {
	params := NewDefaultParams()

	if config.MinEase > 0 {
		params.MinEase = config.MinEase
	}
	if config.MaxEase > 0 {
		params.MaxEase = config.MaxEase
	}

	if config.AgainEaseAdjustment != 0 {
		params.EaseAdjustment[domain.RatingAgain] = config.AgainEaseAdjustment
	}
	if config.HardEaseAdjustment != 0 {
		params.EaseAdjustment[domain.RatingHard] = config.HardEaseAdjustment
	}
	if config.GoodEaseAdjustment != 0 {
		params.EaseAdjustment[domain.RatingGood] = config.GoodEaseAdjustment
	}
	if config.EasyEaseAdjustment != 0 {
		params.EaseAdjustment[domain.RatingEasy] = config.EasyEaseAdjustment
	}

	if config.AgainDelayMinutes > 0 {
		params.AgainDelay = time.Duration(config.AgainDelayMinutes) * time.Minute
	}
	if config.HardDelayMinutes > 0 {
		params.HardDelay = time.Duration(config.HardDelayMinutes) * time.Minute
	}

	if config.GoodGraduatingIntervalDays > 0 {
		params.GraduatingInterval[domain.RatingGood] = config.GoodGraduatingIntervalDays
	}
	if config.EasyGraduatingIntervalDays > 0 {
		params.GraduatingInterval[domain.RatingEasy] = config.EasyGraduatingIntervalDays
	}

	if config.HardMultiplier > 0 {
		params.HardMultiplier = config.HardMultiplier
	}
	if config.EasyBonus > 0 {
		params.EasyBonus = config.EasyBonus
	}

	return params
}
