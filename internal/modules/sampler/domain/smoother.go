package domain

// DefaultAlpha is the one-pole low-pass coefficient. Small enough that a
// single loud frame cannot jolt the animation.
const DefaultAlpha = 0.1

// Smoother is a one-pole low-pass filter over a scalar in [0,1].
type Smoother struct {
	alpha float64
	value float64
}

func NewSmoother(alpha float64) *Smoother {
	if alpha <= 0 || alpha > 1 {
		alpha = DefaultAlpha
	}
	return &Smoother{alpha: alpha}
}

func (s *Smoother) Update(target float64) float64 {
	if target < 0 {
		target = 0
	}
	if target > 1 {
		target = 1
	}
	s.value += (target - s.value) * s.alpha
	return s.value
}

func (s *Smoother) Value() float64 {
	return s.value
}

// Intensity converts 8-bit magnitude bins into a normalized target level.
func Intensity(bins []byte) float64 {
	if len(bins) == 0 {
		return 0
	}
	sum := 0
	for _, bin := range bins {
		sum += int(bin)
	}
	return float64(sum) / float64(len(bins)) / 255
}
