package ignition

// Category is one of the five fixed risk bands. Static, process-wide
// data: the slice below is initialized once and never mutated, so it is
// safe for concurrent reads.
type Category struct {
	Name           string  `json:"name"`
	Low            float64 `json:"low"`
	High           float64 `json:"high"`
	Color          string  `json:"color"` // display hex color
	Usage          string  `json:"usage"`
	Interpretation string  `json:"interpretation"`
}

var categories = []Category{
	{
		Name: "low", Low: 0, High: 20, Color: "#2e7d32",
		Usage: "Routine operations; standard watchfulness.",
		Interpretation: "Firebrands landing on receptive fuels are unlikely to " +
			"ignite. Fine dead fuels hold enough moisture that most ignition " +
			"attempts self-extinguish.",
	},
	{
		Name: "moderate", Low: 21, High: 40, Color: "#f9a825",
		Usage: "Monitor conditions; review suppression readiness.",
		Interpretation: "Some firebrands will ignite receptive fuels. Fires " +
			"that start spread slowly and are normally controlled by initial " +
			"attack.",
	},
	{
		Name: "high", Low: 41, High: 60, Color: "#ef6c00",
		Usage: "Preposition resources; restrict high-risk activities.",
		Interpretation: "Roughly half of firebrands landing on receptive fuels " +
			"will ignite. New starts are likely and can escape initial attack " +
			"under wind.",
	},
	{
		Name: "very_high", Low: 61, High: 80, Color: "#d32f2f",
		Usage: "Suspend ignition-source activities; staff for rapid response.",
		Interpretation: "Most firebrands ignite on contact. Fires start easily, " +
			"spread quickly, and demand immediate aggressive suppression.",
	},
	{
		Name: "extreme", Low: 81, High: 100, Color: "#6a1b9a",
		Usage: "Emergency posture; consider area closures.",
		Interpretation: "Nearly every firebrand ignites. Explosive fire growth " +
			"potential; direct attack may be impossible at the head.",
	},
}

// Categories returns the five risk bands in ascending order.
func Categories() []Category {
	out := make([]Category, len(categories))
	copy(out, categories)
	return out
}

// Classify maps a probability to its risk band. Values below 0 clamp to
// the lowest band and values above 100 to the highest; Classify never fails.
func Classify(probability float64) Category {
	if probability < categories[0].Low {
		return categories[0]
	}
	for _, c := range categories {
		if probability <= c.High {
			return c
		}
	}
	return categories[len(categories)-1]
}
