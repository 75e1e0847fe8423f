package effects

import "math"

// EQ3Band implements a simple 3-band equalizer.
type EQ3Band struct {
	lowGain  float32
	midGain  float32
	highGain float32
	lpAlpha  float32
	hpAlpha  float32
	lpL, lpR float32 // lowpass state
	hpL, hpR float32 // highpass state
}

// NewEQ3Band creates a 3-band EQ.
// lowGain, midGain, highGain: gain for each band (1.0 = unity)
// lowFreq: crossover frequency between low and mid bands
// highFreq: crossover frequency between mid and high bands
func NewEQ3Band(sampleRate int, lowGain, midGain, highGain, lowFreq, highFreq float32) *EQ3Band {
	lpRC := 1.0 / (2.0 * math.Pi * float64(lowFreq))
	hpRC := 1.0 / (2.0 * math.Pi * float64(highFreq))
	dt := 1.0 / float64(sampleRate)
	return &EQ3Band{
		lowGain:  lowGain,
		midGain:  midGain,
		highGain: highGain,
		lpAlpha:  float32(dt / (lpRC + dt)),
		hpAlpha:  float32(dt / (hpRC + dt)),
	}
}

func (eq *EQ3Band) Process(l, r float32) (float32, float32) {
	// Low band (LP filter)
	eq.lpL += eq.lpAlpha * (l - eq.lpL)
	eq.lpR += eq.lpAlpha * (r - eq.lpR)
	lowL, lowR := eq.lpL, eq.lpR

	// High band (HP filter)
	eq.hpL += eq.hpAlpha * (l - eq.hpL)
	eq.hpR += eq.hpAlpha * (r - eq.hpR)
	highL := l - eq.hpL
	highR := r - eq.hpR

	// Mid band (everything between)
	midL := l - lowL - highL
	midR := r - lowR - highR

	return lowL*eq.lowGain + midL*eq.midGain + highL*eq.highGain,
		lowR*eq.lowGain + midR*eq.midGain + highR*eq.highGain
}

func (eq *EQ3Band) Reset() {
	eq.lpL, eq.lpR = 0, 0
	eq.hpL, eq.hpR = 0, 0
}

// EQ5Band extends the 3-band split with one extra crossover on each side, giving five bands
// (low, low-mid, mid, high-mid, high) from four cascaded one-pole filters.
type EQ5Band struct {
	gains [5]float32

	alpha [4]float32
	state [4][2]float32 // per-filter lowpass state, [0]=L [1]=R
}

// NewEQ5Band creates a 5-band EQ. gains holds the five band gains (1.0 = unity) in low-to-high
// order; crossovers holds the four ascending crossover frequencies that split the spectrum into
// those five bands.
func NewEQ5Band(sampleRate int, gains [5]float32, crossovers [4]float32) *EQ5Band {
	eq := &EQ5Band{gains: gains}
	dt := 1.0 / float64(sampleRate)
	for i, freq := range crossovers {
		rc := 1.0 / (2.0 * math.Pi * float64(freq))
		eq.alpha[i] = float32(dt / (rc + dt))
	}
	return eq
}

func (eq *EQ5Band) Process(l, r float32) (float32, float32) {
	// Four cascaded lowpass filters at ascending crossover frequencies split the signal into
	// five bands: each band is the difference between consecutive lowpass outputs, except the
	// lowest (the first lowpass itself) and the highest (original minus the last lowpass).
	var lpL, lpR [4]float32
	prevL, prevR := l, r
	for i := range eq.alpha {
		eq.state[i][0] += eq.alpha[i] * (prevL - eq.state[i][0])
		eq.state[i][1] += eq.alpha[i] * (prevR - eq.state[i][1])
		lpL[i], lpR[i] = eq.state[i][0], eq.state[i][1]
		prevL, prevR = lpL[i], lpR[i]
	}

	bandsL := [5]float32{lpL[0], lpL[1] - lpL[0], lpL[2] - lpL[1], lpL[3] - lpL[2], l - lpL[3]}
	bandsR := [5]float32{lpR[0], lpR[1] - lpR[0], lpR[2] - lpR[1], lpR[3] - lpR[2], r - lpR[3]}

	var outL, outR float32
	for i := range bandsL {
		outL += bandsL[i] * eq.gains[i]
		outR += bandsR[i] * eq.gains[i]
	}
	return outL, outR
}

func (eq *EQ5Band) Reset() {
	eq.state = [4][2]float32{}
}
