package normalize

// Band is a named score range used for display.
type Band struct {
	Name string `json:"name"`
	Min  int    `json:"min"`
}

var Bands = []Band{
	{Name: "Poor", Min: 0},
	{Name: "Fair", Min: 580},
	{Name: "Good", Min: 670},
	{Name: "Very Good", Min: 740},
	{Name: "Excellent", Min: 800},
}

// BandName returns the highest band whose minimum v reaches.
func BandName(v int) string {
	idx := 0
	for i, b := range Bands {
		if v >= b.Min {
			idx = i
		}
	}
	return Bands[idx].Name
}
