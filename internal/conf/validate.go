package conf

import (
	"github.com/subghzlab/subscan-go/internal/errors"
)

// ValidateSettings checks the loaded settings for values the pipeline
// cannot work with.
func ValidateSettings(settings *Settings) error {
	switch settings.Decoder.Threshold {
	case ThresholdMedian, ThresholdMean, ThresholdAdaptive:
	default:
		return errors.Newf("invalid decoder.threshold %q: must be median, mean or adaptive", settings.Decoder.Threshold).
			Category(errors.CategoryValidation).
			Build()
	}

	switch settings.Decoder.Encoding {
	case EncodingAuto, EncodingOOK, EncodingManchester, EncodingPWM:
	default:
		return errors.Newf("invalid decoder.encoding %q: must be auto, ook, manchester or pwm", settings.Decoder.Encoding).
			Category(errors.CategoryValidation).
			Build()
	}

	if settings.Decoder.DataLength <= 0 {
		return errors.Newf("invalid decoder.datalength %d: must be positive", settings.Decoder.DataLength).
			Category(errors.CategoryValidation).
			Build()
	}

	return nil
}
