// conf/consts.go recognized values for decoder settings
package conf

// Thresholding methods accepted by decoder.threshold.
const (
	ThresholdMedian   = "median"
	ThresholdMean     = "mean"
	ThresholdAdaptive = "adaptive"
)

// Encoding modes accepted by decoder.encoding.
const (
	EncodingAuto       = "auto"
	EncodingOOK        = "ook"
	EncodingManchester = "manchester"
	EncodingPWM        = "pwm"
)
