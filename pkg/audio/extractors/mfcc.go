package extractors

import "math"

// mfccFrame computes MFCC coefficients for one magnitude spectrum frame:
// mel filter bank, log compression, then DCT-II.
func mfccFrame(magnitude []float64, filterBank [][]float64, numCoeffs int) []float64 {
	melSpectrum := applyMelFilters(magnitude, filterBank)

	logMelSpectrum := make([]float64, len(melSpectrum))
	for i, val := range melSpectrum {
		if val > 1e-10 {
			logMelSpectrum[i] = math.Log(val)
		} else {
			logMelSpectrum[i] = math.Log(1e-10) // Floor value
		}
	}

	return dctII(logMelSpectrum, numCoeffs)
}

// melFilterBank creates triangular filters equally spaced on the mel scale
func melFilterBank(numFilters int, lowFreq, highFreq float64, freqBins, sampleRate int) [][]float64 {
	lowMel := 2595.0 * math.Log10(1.0+lowFreq/700.0)
	highMel := 2595.0 * math.Log10(1.0+highFreq/700.0)

	// Equally spaced mel points, converted back to Hz
	melPoints := make([]float64, numFilters+2)
	melStep := (highMel - lowMel) / float64(numFilters+1)
	for i := range melPoints {
		melPoints[i] = lowMel + float64(i)*melStep
	}
	freqPoints := make([]float64, len(melPoints))
	for i, mel := range melPoints {
		freqPoints[i] = 700.0 * (math.Pow(10, mel/2595.0) - 1.0)
	}

	filterBank := make([][]float64, numFilters)
	for i := range numFilters {
		filter := make([]float64, freqBins)

		leftFreq := freqPoints[i]
		centerFreq := freqPoints[i+1]
		rightFreq := freqPoints[i+2]

		for j := range freqBins {
			freq := float64(j) * float64(sampleRate) / float64((freqBins - 1) * 2)

			if freq >= leftFreq && freq <= rightFreq {
				if freq <= centerFreq {
					// Rising edge
					if centerFreq > leftFreq {
						filter[j] = (freq - leftFreq) / (centerFreq - leftFreq)
					}
				} else {
					// Falling edge
					if rightFreq > centerFreq {
						filter[j] = (rightFreq - freq) / (rightFreq - centerFreq)
					}
				}
			}
		}

		filterBank[i] = filter
	}

	return filterBank
}

func applyMelFilters(magnitude []float64, filterBank [][]float64) []float64 {
	melSpectrum := make([]float64, len(filterBank))
	for i, filter := range filterBank {
		sum := 0.0
		for j, coeff := range filter {
			if j < len(magnitude) {
				sum += magnitude[j] * coeff
			}
		}
		melSpectrum[i] = sum
	}
	return melSpectrum
}

func dctII(input []float64, numCoeffs int) []float64 {
	out := make([]float64, numCoeffs)
	n := float64(len(input))
	if n == 0 {
		return out
	}

	for k := range numCoeffs {
		sum := 0.0
		for i, val := range input {
			sum += val * math.Cos(math.Pi*float64(k)*(float64(i)+0.5)/n)
		}
		out[k] = sum
	}
	return out
}
