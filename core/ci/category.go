package ci

// Category is an IQ band, bounds inclusive.
type Category struct {
	Name string
	Min  int
	Max  int
}

// Categories lists the IQ bands from the highest to the lowest.
var Categories = []Category{
	{Name: "Muy Superior", Min: 130, Max: 200},
	{Name: "Superior", Min: 120, Max: 129},
	{Name: "Promedio Alto", Min: 110, Max: 119},
	{Name: "Promedio", Min: 90, Max: 109},
	{Name: "Promedio Bajo", Min: 80, Max: 89},
	{Name: "Bajo", Min: 70, Max: 79},
	{Name: "Muy Bajo", Min: 0, Max: 69},
}

// CategoryOf names the band of an IQ value by lower bound; anything under 70 is "Muy Bajo".
func CategoryOf(ci int) string {
	for _, c := range Categories[:len(Categories)-1] {
		if ci >= c.Min {
			return c.Name
		}
	}
	return Categories[len(Categories)-1].Name
}
