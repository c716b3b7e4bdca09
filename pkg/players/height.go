package players

import "math"

const cmPerInch = 2.54

// FeetInches converts centimeters to feet and inches. Inches are rounded
// half to even and a rounded 12 carries into feet.
func FeetInches(cm int) (feet, inches int) {
	total := float64(cm) / cmPerInch
	feet = int(math.Floor(total / 12))
	inches = int(math.RoundToEven(math.Mod(total, 12)))
	if inches == 12 {
		feet++
		inches = 0
	}
	return feet, inches
}

// SetHeight records cm on p along with its imperial form, or clears all three
// fields when cm is nil.
func (p *Player) SetHeight(cm *int) {
	if cm == nil {
		p.HeightCM, p.HeightFeet, p.HeightInches = nil, nil, nil
		return
	}
	feet, inches := FeetInches(*cm)
	p.HeightCM = Int(*cm)
	p.HeightFeet = Int(feet)
	p.HeightInches = Int(inches)
}
